package repo

import (
	"context"
	"database/sql"

	"github.com/Drago-03/Documentation.AI/internal/model"
	appErr "github.com/Drago-03/Documentation.AI/internal/pkg/errors"
)

type RepositoryCacheRepo struct {
	db *sql.DB
}

func NewRepositoryCacheRepo(db *sql.DB) *RepositoryCacheRepo {
	return &RepositoryCacheRepo{db: db}
}

// GetLive returns the cache entry for repoURL unless it expired before now.
func (r *RepositoryCacheRepo) GetLive(ctx context.Context, repoURL string, now int64) (*model.RepositoryCache, error) {
	const query = `
		SELECT id, repo_url, repo_hash, analysis_data, ctime, expires_at
		FROM repository_cache
		WHERE repo_url = $1 AND expires_at > $2
	`
	var item model.RepositoryCache
	if err := r.db.QueryRowContext(ctx, query, repoURL, now).Scan(
		&item.ID,
		&item.RepoURL,
		&item.RepoHash,
		&item.AnalysisData,
		&item.Ctime,
		&item.ExpiresAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *RepositoryCacheRepo) Upsert(ctx context.Context, item *model.RepositoryCache) error {
	const query = `
		INSERT INTO repository_cache (repo_url, repo_hash, analysis_data, ctime, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (repo_url) DO UPDATE SET
			repo_hash = EXCLUDED.repo_hash,
			analysis_data = EXCLUDED.analysis_data,
			ctime = EXCLUDED.ctime,
			expires_at = EXCLUDED.expires_at
	`
	_, err := r.db.ExecContext(ctx, query,
		item.RepoURL,
		item.RepoHash,
		item.AnalysisData,
		item.Ctime,
		item.ExpiresAt,
	)
	return err
}

func (r *RepositoryCacheRepo) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	const query = `DELETE FROM repository_cache WHERE expires_at <= $1`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
