package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/Drago-03/Documentation.AI/internal/analyzer"
	"github.com/Drago-03/Documentation.AI/internal/filestore"
	"github.com/Drago-03/Documentation.AI/internal/github"
	"github.com/Drago-03/Documentation.AI/internal/model"
	"github.com/Drago-03/Documentation.AI/internal/packager"
	appErr "github.com/Drago-03/Documentation.AI/internal/pkg/errors"
	"github.com/Drago-03/Documentation.AI/internal/rag"
	"github.com/Drago-03/Documentation.AI/internal/render"
)

const readmePreviewChars = 500

type AnalysisServiceOption func(*AnalysisService)

// WithAnalysisCache serves repeated analyses of a repository from cache for ttl.
func WithAnalysisCache(cache AnalysisCache, ttl time.Duration) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func WithRAG(p *rag.Pipeline) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.rag = p
	}
}

func WithClock(now func() time.Time) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.now = now
	}
}

// AnalysisService runs the fetch, classify, render, package and store pipeline
// for one repository on the caller's goroutine.
type AnalysisService struct {
	jobs     JobStore
	fetcher  RepositoryFetcher
	packager *packager.Packager
	archives filestore.Store
	cache    AnalysisCache
	cacheTTL time.Duration
	rag      *rag.Pipeline
	now      func() time.Time
}

func NewAnalysisService(jobs JobStore, fetcher RepositoryFetcher, pkgr *packager.Packager, archives filestore.Store, opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{
		jobs:     jobs,
		fetcher:  fetcher,
		packager: pkgr,
		archives: archives,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type AnalyzeResult struct {
	JobID         int64
	Status        string
	RepoURL       string
	Ref           github.RepoRef
	Documentation *model.Documentation
	RAG           *rag.Result
	PackagePath   string
	FromCache     bool
}

func (r *AnalyzeResult) ReadmePreview() string {
	return ReadmePreview(r.Documentation.Readme)
}

// ReadmePreview keeps the first 500 characters and marks the cut with "...".
func ReadmePreview(readme string) string {
	if utf8.RuneCountInString(readme) <= readmePreviewChars {
		return readme
	}
	return string([]rune(readme)[:readmePreviewChars]) + "..."
}

// Analyze validates the URL, records a job and runs every stage. Input errors
// match errors.ErrInvalid and happen before any job exists; stage failures are
// returned as *StageError after the job is marked failed. Once the job exists
// the stages ignore cancellation of ctx so the job always reaches a final status.
func (s *AnalysisService) Analyze(ctx context.Context, repoURL string) (*AnalyzeResult, error) {
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" {
		return nil, appErr.Invalidf("Repository URL is required")
	}
	ref, err := github.ParseURL(repoURL)
	if err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	now := s.now()
	job := &model.AnalysisJob{
		RepoURL:   repoURL,
		RepoName:  ref.Repo,
		RepoOwner: ref.Owner,
		Status:    model.JobStatusPending,
		Ctime:     now.Unix(),
		Mtime:     now.Unix(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, s.stageError(ctx, StageCreate, 0, err)
	}
	logger := logutil.GetLogger(ctx).With(zap.Int64("job_id", job.ID), zap.String("repo", ref.String()))

	ok, err := s.jobs.UpdateStatusIf(ctx, job.ID, model.JobStatusPending, model.JobStatusProcessing, s.now().Unix())
	if err == nil && !ok {
		err = fmt.Errorf("job %d left pending before start: %w", job.ID, appErr.ErrConflict)
	}
	if err != nil {
		return nil, s.fail(ctx, StageCreate, job.ID, err)
	}
	logger.Info("analysis started")

	analysis, fromCache, err := s.analyze(ctx, ref, now)
	if err != nil {
		return nil, s.fail(ctx, StageAnalysis, job.ID, err)
	}

	ragResult := s.rag.Process(ctx, analysis)

	docs, err := render.Generate(analysis, ragResult, now)
	if err != nil {
		return nil, s.fail(ctx, StageDocumentation, job.ID, err)
	}

	pkg, err := s.packager.Build(ctx, docs, analysis.RepositoryInfo)
	if err != nil {
		return nil, s.fail(ctx, StagePackage, job.ID, err)
	}
	defer func() {
		if err := pkg.Cleanup(); err != nil {
			logger.Warn("remove package work dir failed", zap.String("dir", pkg.Dir), zap.Error(err))
		}
	}()
	key := fmt.Sprintf("%d/%s", job.ID, pkg.ArchiveName())
	location, err := s.storeArchive(ctx, key, pkg.Path)
	if err != nil {
		return nil, s.fail(ctx, StagePackage, job.ID, err)
	}

	raw, err := json.Marshal(&model.JobResult{
		Analysis:      analysis,
		Documentation: docs,
		RAG:           ragResult,
		PackagePath:   location,
		PackageKey:    key,
		GeneratedAt:   s.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, s.fail(ctx, StageSave, job.ID, err)
	}
	ok, err = s.jobs.Finish(ctx, job.ID, model.JobStatusCompleted, string(raw), "", s.now().Unix())
	if err == nil && !ok {
		err = fmt.Errorf("job %d is no longer processing: %w", job.ID, appErr.ErrConflict)
	}
	if err != nil {
		return nil, s.stageError(ctx, StageSave, job.ID, err)
	}
	logger.Info("analysis completed",
		zap.Bool("from_cache", fromCache),
		zap.String("rag_status", ragResult.Status),
		zap.String("package", location),
	)
	return &AnalyzeResult{
		JobID:         job.ID,
		Status:        model.JobStatusCompleted,
		RepoURL:       repoURL,
		Ref:           ref,
		Documentation: docs,
		RAG:           ragResult,
		PackagePath:   location,
		FromCache:     fromCache,
	}, nil
}

func cacheKey(ref github.RepoRef) string {
	return "https://github.com/" + ref.String()
}

func (s *AnalysisService) analyze(ctx context.Context, ref github.RepoRef, now time.Time) (*model.RepositoryAnalysis, bool, error) {
	logger := logutil.GetLogger(ctx)
	key := cacheKey(ref)
	if s.cache != nil {
		entry, err := s.cache.GetLive(ctx, key, now.Unix())
		switch {
		case err == nil:
			var cached model.RepositoryAnalysis
			if err := json.Unmarshal([]byte(entry.AnalysisData), &cached); err == nil {
				logger.Debug("repository analysis served from cache")
				return &cached, true, nil
			}
			logger.Warn("discard undecodable cache entry", zap.Error(err))
		case !appErr.IsNotFound(err):
			logger.Warn("read repository cache failed", zap.Error(err))
		}
	}

	snap, err := s.fetcher.Fetch(ctx, ref)
	if err != nil {
		return nil, false, err
	}
	analysis := analyzer.Analyze(snap, now)

	if s.cache != nil && s.cacheTTL > 0 {
		data, err := json.Marshal(analysis)
		if err != nil {
			logger.Warn("encode analysis for cache failed", zap.Error(err))
			return analysis, false, nil
		}
		sum := sha256.Sum256(data)
		entry := &model.RepositoryCache{
			RepoURL:      key,
			RepoHash:     hex.EncodeToString(sum[:]),
			AnalysisData: string(data),
			Ctime:        now.Unix(),
			ExpiresAt:    now.Add(s.cacheTTL).Unix(),
		}
		if err := s.cache.Upsert(ctx, entry); err != nil {
			logger.Warn("write repository cache failed", zap.Error(err))
		}
	}
	return analysis, false, nil
}

func (s *AnalysisService) storeArchive(ctx context.Context, key, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat archive: %w", err)
	}
	return s.archives.Save(ctx, key, f, info.Size())
}

// fail marks the job failed with the stage message and returns the stage error.
func (s *AnalysisService) fail(ctx context.Context, stage string, jobID int64, err error) *StageError {
	stageErr := s.stageError(ctx, stage, jobID, err)
	ok, finishErr := s.jobs.Finish(ctx, jobID, model.JobStatusFailed, "", stageErr.Error(), s.now().Unix())
	if finishErr != nil || !ok {
		logutil.GetLogger(ctx).Error("mark job failed failed",
			zap.Int64("job_id", jobID),
			zap.String("error_id", stageErr.ErrorID),
			zap.Bool("updated", ok),
			zap.Error(finishErr),
		)
	}
	return stageErr
}

func (s *AnalysisService) stageError(ctx context.Context, stage string, jobID int64, err error) *StageError {
	stageErr := &StageError{
		Stage:   stage,
		JobID:   jobID,
		ErrorID: NewErrorID(s.now()),
		Err:     err,
	}
	logutil.GetLogger(ctx).Error("analysis stage failed",
		zap.Int64("job_id", jobID),
		zap.String("stage", stage),
		zap.String("error_id", stageErr.ErrorID),
		zap.Error(err),
	)
	return stageErr
}
