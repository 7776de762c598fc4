package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/Drago-03/Documentation.AI/internal/model"
	"github.com/Drago-03/Documentation.AI/internal/pkg/dbutil"
	appErr "github.com/Drago-03/Documentation.AI/internal/pkg/errors"
)

type FeedbackRepo struct {
	db *sql.DB
}

func NewFeedbackRepo(db *sql.DB) *FeedbackRepo {
	return &FeedbackRepo{db: db}
}

func (r *FeedbackRepo) Create(ctx context.Context, fb *model.UserFeedback) error {
	sqlStr, args, err := builder.BuildInsert("user_feedback", []map[string]interface{}{{
		"job_id":                  fb.JobID,
		"rating":                  fb.Rating,
		"feedback_text":           fb.FeedbackText,
		"improvement_suggestions": fb.ImprovementSuggestions,
		"ctime":                   fb.Ctime,
	}})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr+" RETURNING id", args)
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&fb.ID); err != nil {
		if dbutil.IsForeignKeyViolation(err) {
			return appErr.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *FeedbackRepo) ListByJob(ctx context.Context, jobID int64) ([]model.UserFeedback, error) {
	sqlStr, args, err := builder.BuildSelect("user_feedback", map[string]interface{}{
		"job_id":   jobID,
		"_orderby": "ctime desc, id desc",
	}, []string{"id", "job_id", "rating", "feedback_text", "improvement_suggestions", "ctime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := make([]model.UserFeedback, 0)
	for rows.Next() {
		var item model.UserFeedback
		if err := rows.Scan(&item.ID, &item.JobID, &item.Rating, &item.FeedbackText, &item.ImprovementSuggestions, &item.Ctime); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
