package service

import (
	"context"

	"github.com/Drago-03/Documentation.AI/internal/github"
	"github.com/Drago-03/Documentation.AI/internal/model"
)

// JobStore is the persistence the services need for analysis jobs.
type JobStore interface {
	Create(ctx context.Context, job *model.AnalysisJob) error
	Get(ctx context.Context, id int64) (*model.AnalysisJob, error)
	List(ctx context.Context, limit, offset uint) ([]model.AnalysisJob, error)
	Count(ctx context.Context) (int64, error)
	UpdateStatusIf(ctx context.Context, id int64, fromStatus, toStatus string, mtime int64) (bool, error)
	Finish(ctx context.Context, id int64, status, result, errorMessage string, mtime int64) (bool, error)
}

type RepositoryFetcher interface {
	Fetch(ctx context.Context, ref github.RepoRef) (*github.Snapshot, error)
}

type AnalysisCache interface {
	GetLive(ctx context.Context, repoURL string, now int64) (*model.RepositoryCache, error)
	Upsert(ctx context.Context, item *model.RepositoryCache) error
}

type FeedbackStore interface {
	Create(ctx context.Context, fb *model.UserFeedback) error
	ListByJob(ctx context.Context, jobID int64) ([]model.UserFeedback, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}
