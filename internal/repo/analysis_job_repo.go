package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"

	"github.com/Drago-03/Documentation.AI/internal/model"
	"github.com/Drago-03/Documentation.AI/internal/pkg/dbutil"
	appErr "github.com/Drago-03/Documentation.AI/internal/pkg/errors"
)

var analysisJobColumns = []string{
	"id", "repo_url", "repo_name", "repo_owner", "status", "result", "error_message", "ctime", "mtime",
}

type AnalysisJobRepo struct {
	db *sql.DB
}

func NewAnalysisJobRepo(db *sql.DB) *AnalysisJobRepo {
	return &AnalysisJobRepo{db: db}
}

func (r *AnalysisJobRepo) Create(ctx context.Context, job *model.AnalysisJob) error {
	const query = `
		INSERT INTO analysis_jobs (repo_url, repo_name, repo_owner, status, result, error_message, ctime, mtime)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		job.RepoURL,
		job.RepoName,
		job.RepoOwner,
		job.Status,
		job.Result,
		job.ErrorMessage,
		job.Ctime,
		job.Mtime,
	).Scan(&job.ID)
}

func scanJob(scan func(dest ...interface{}) error) (*model.AnalysisJob, error) {
	var job model.AnalysisJob
	if err := scan(
		&job.ID,
		&job.RepoURL,
		&job.RepoName,
		&job.RepoOwner,
		&job.Status,
		&job.Result,
		&job.ErrorMessage,
		&job.Ctime,
		&job.Mtime,
	); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *AnalysisJobRepo) Get(ctx context.Context, id int64) (*model.AnalysisJob, error) {
	sqlStr, args, err := builder.BuildSelect("analysis_jobs", map[string]interface{}{"id": id}, analysisJobColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	job, err := scanJob(r.db.QueryRowContext(ctx, sqlStr, args...).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// List returns jobs newest first.
func (r *AnalysisJobRepo) List(ctx context.Context, limit, offset uint) ([]model.AnalysisJob, error) {
	where := map[string]interface{}{
		"_orderby": "ctime desc, id desc",
	}
	if limit > 0 {
		where["_limit"] = []uint{offset, limit}
	}
	sqlStr, args, err := builder.BuildSelect("analysis_jobs", where, analysisJobColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	return r.query(ctx, sqlStr, args)
}

// GetMany loads the given jobs; missing ids are simply absent from the result.
func (r *AnalysisJobRepo) GetMany(ctx context.Context, ids []int64) ([]model.AnalysisJob, error) {
	if len(ids) == 0 {
		return []model.AnalysisJob{}, nil
	}
	query, args, err := sqlx.In(`SELECT id, repo_url, repo_name, repo_owner, status, result, error_message, ctime, mtime
		FROM analysis_jobs WHERE id IN (?) ORDER BY ctime DESC, id DESC`, ids)
	if err != nil {
		return nil, err
	}
	query, args = dbutil.Finalize(query, args)
	return r.query(ctx, query, args)
}

func (r *AnalysisJobRepo) query(ctx context.Context, sqlStr string, args []interface{}) ([]model.AnalysisJob, error) {
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := make([]model.AnalysisJob, 0)
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, *job)
	}
	return items, rows.Err()
}

func (r *AnalysisJobRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analysis_jobs`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// UpdateStatusIf moves a job from one status to another and reports whether the row matched.
func (r *AnalysisJobRepo) UpdateStatusIf(ctx context.Context, id int64, fromStatus, toStatus string, mtime int64) (bool, error) {
	const query = `
		UPDATE analysis_jobs
		SET status = $1, mtime = $2
		WHERE id = $3 AND status = $4
	`
	res, err := r.db.ExecContext(ctx, query, toStatus, mtime, id, fromStatus)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Finish writes the terminal status together with its result or error message.
// A job that already finished is left untouched.
func (r *AnalysisJobRepo) Finish(ctx context.Context, id int64, status, result, errorMessage string, mtime int64) (bool, error) {
	if !model.IsTerminalStatus(status) {
		return false, fmt.Errorf("finish job %d with non-terminal status %q", id, status)
	}
	const query = `
		UPDATE analysis_jobs
		SET status = $1, result = $2, error_message = $3, mtime = $4
		WHERE id = $5 AND status IN ($6, $7)
	`
	res, err := r.db.ExecContext(ctx, query, status, result, errorMessage, mtime, id,
		model.JobStatusPending, model.JobStatusProcessing)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *AnalysisJobRepo) DeleteBefore(ctx context.Context, cutoff int64) (int64, error) {
	const query = `DELETE FROM analysis_jobs WHERE ctime < $1`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
