// Package job holds the periodic maintenance tasks run by the scheduler.
package job

import (
	"context"
	"errors"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type JobDeleter interface {
	DeleteBefore(ctx context.Context, cutoff int64) (int64, error)
}

type ArchivePurger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int, error)
}

type RepositoryCacheExpirer interface {
	DeleteExpired(ctx context.Context, now int64) (int64, error)
}

type EmbeddingCacheDeleter interface {
	DeleteBefore(ctx context.Context, cutoff int64) (int64, error)
}

type clock func() time.Time

// JobCleanupJob removes analysis jobs older than maxAge together with their
// feedback rows.
type JobCleanupJob struct {
	jobs   JobDeleter
	maxAge time.Duration
	now    clock
}

func NewJobCleanupJob(jobs JobDeleter, maxAge time.Duration) *JobCleanupJob {
	return &JobCleanupJob{jobs: jobs, maxAge: maxAge, now: time.Now}
}

func (j *JobCleanupJob) Name() string {
	return "analysis_job_cleanup"
}

func (j *JobCleanupJob) Run(ctx context.Context) error {
	if j.jobs == nil || j.maxAge <= 0 {
		return nil
	}
	cutoff := j.now().Add(-j.maxAge).Unix()
	n, err := j.jobs.DeleteBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("expired analysis jobs removed", zap.Int64("count", n))
	return nil
}

type PackageCleanupJob struct {
	store  ArchivePurger
	maxAge time.Duration
	now    clock
}

func NewPackageCleanupJob(store ArchivePurger, maxAge time.Duration) *PackageCleanupJob {
	return &PackageCleanupJob{store: store, maxAge: maxAge, now: time.Now}
}

func (j *PackageCleanupJob) Name() string {
	return "package_cleanup"
}

func (j *PackageCleanupJob) Run(ctx context.Context) error {
	if j.store == nil || j.maxAge <= 0 {
		return nil
	}
	n, err := j.store.PurgeBefore(ctx, j.now().Add(-j.maxAge))
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("expired packages removed", zap.Int("count", n))
	return nil
}

// CacheCleanupJob drops expired repository analyses and embedding vectors
// older than embeddingMaxAge. Either cache may be absent.
type CacheCleanupJob struct {
	repos           RepositoryCacheExpirer
	embeddings      EmbeddingCacheDeleter
	embeddingMaxAge time.Duration
	now             clock
}

func NewCacheCleanupJob(repos RepositoryCacheExpirer, embeddings EmbeddingCacheDeleter, embeddingMaxAge time.Duration) *CacheCleanupJob {
	return &CacheCleanupJob{repos: repos, embeddings: embeddings, embeddingMaxAge: embeddingMaxAge, now: time.Now}
}

func (j *CacheCleanupJob) Name() string {
	return "cache_cleanup"
}

func (j *CacheCleanupJob) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)
	now := j.now()
	var errs []error
	if j.repos != nil {
		n, err := j.repos.DeleteExpired(ctx, now.Unix())
		if err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("expired repository cache removed", zap.Int64("count", n))
		}
	}
	if j.embeddings != nil && j.embeddingMaxAge > 0 {
		n, err := j.embeddings.DeleteBefore(ctx, now.Add(-j.embeddingMaxAge).Unix())
		if err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("stale embedding cache removed", zap.Int64("count", n))
		}
	}
	return errors.Join(errs...)
}
