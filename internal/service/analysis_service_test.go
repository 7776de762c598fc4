package service_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Drago-03/Documentation.AI/internal/ai"
	"github.com/Drago-03/Documentation.AI/internal/filestore"
	"github.com/Drago-03/Documentation.AI/internal/github"
	"github.com/Drago-03/Documentation.AI/internal/model"
	"github.com/Drago-03/Documentation.AI/internal/packager"
	appErr "github.com/Drago-03/Documentation.AI/internal/pkg/errors"
	"github.com/Drago-03/Documentation.AI/internal/rag"
	"github.com/Drago-03/Documentation.AI/internal/service"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 123456000, time.UTC)

type analysisFixture struct {
	jobs    *memJobs
	fetcher *fakeFetcher
	store   filestore.Store
	svc     *service.AnalysisService
}

func newAnalysisFixture(t *testing.T, opts ...service.AnalysisServiceOption) *analysisFixture {
	t.Helper()
	f := &analysisFixture{
		jobs:    newMemJobs(),
		fetcher: &fakeFetcher{snap: flaskSnapshot()},
		store:   filestore.NewLocal(t.TempDir()),
	}
	opts = append([]service.AnalysisServiceOption{service.WithClock(func() time.Time { return fixedNow })}, opts...)
	f.svc = service.NewAnalysisService(f.jobs, f.fetcher, packager.New(t.TempDir()), f.store, opts...)
	return f
}

func hashPipeline(t *testing.T) *rag.Pipeline {
	t.Helper()
	p, err := ai.NewEmbedProvider("hash", map[string]interface{}{"dimension": 64})
	require.NoError(t, err)
	return rag.NewPipeline(ai.NewEmbedder(p, "fnv"))
}

func TestAnalyze_Success(t *testing.T) {
	f := newAnalysisFixture(t)
	ctx := context.Background()

	res, err := f.svc.Analyze(ctx, "  https://github.com/octo/demo.git ")
	require.NoError(t, err)
	require.Equal(t, int64(1), res.JobID)
	require.Equal(t, model.JobStatusCompleted, res.Status)
	require.Equal(t, "octo", res.Ref.Owner)
	require.Equal(t, "demo", res.Ref.Repo)
	require.False(t, res.FromCache)
	require.Equal(t, rag.StatusUnavailable, res.RAG.Status)
	require.Contains(t, res.Documentation.Readme, "demo")
	require.Equal(t, 1, f.fetcher.Calls())

	job, err := f.jobs.Get(ctx, res.JobID)
	require.NoError(t, err)
	require.Equal(t, model.JobStatusCompleted, job.Status)
	require.Equal(t, "demo", job.RepoName)
	require.Equal(t, "octo", job.RepoOwner)
	require.Empty(t, job.ErrorMessage)

	var result model.JobResult
	require.NoError(t, json.Unmarshal([]byte(job.Result), &result))
	require.Equal(t, "1/demo-documentation.zip", result.PackageKey)
	require.Equal(t, res.PackagePath, result.PackagePath)
	require.NotNil(t, result.Analysis)
	require.Contains(t, result.Analysis.CodeAnalysis.Frameworks, "Flask")
	require.Contains(t, result.Analysis.Technologies.Frameworks, "Python")

	rc, err := f.store.Open(ctx, result.PackageKey)
	require.NoError(t, err)
	defer rc.Close()
	archive, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "PK", string(archive[:2]))

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	var dockerfile string
	for _, entry := range zr.File {
		if entry.Name != "demo/Dockerfile" {
			continue
		}
		r, err := entry.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(r)
		r.Close()
		require.NoError(t, err)
		dockerfile = string(data)
	}
	require.True(t, strings.HasPrefix(dockerfile, "FROM python:"), dockerfile)
}

func TestAnalyze_ClientDisconnectStillCompletes(t *testing.T) {
	f := newAnalysisFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.fetcher.afterFetch = cancel

	res, err := f.svc.Analyze(ctx, "https://github.com/octo/demo")
	require.NoError(t, err)
	require.Error(t, ctx.Err())
	require.Equal(t, model.JobStatusCompleted, res.Status)

	job, err := f.jobs.Get(context.Background(), res.JobID)
	require.NoError(t, err)
	require.Equal(t, model.JobStatusCompleted, job.Status)
	require.NotEmpty(t, job.Result)
}

func TestAnalyze_StartFailureMarksJobFailed(t *testing.T) {
	f := newAnalysisFixture(t)
	f.jobs.startErr = errBoom

	_, err := f.svc.Analyze(context.Background(), "https://github.com/octo/demo")
	var stageErr *service.StageError
	require.True(t, errors.As(err, &stageErr))
	require.Equal(t, service.StageCreate, stageErr.Stage)
	require.Equal(t, int64(1), stageErr.JobID)
	require.Zero(t, f.fetcher.Calls())

	job, err := f.jobs.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, model.JobStatusFailed, job.Status)
	require.True(t, strings.HasPrefix(job.ErrorMessage, "Failed to create analysis job: "), job.ErrorMessage)
}

func TestAnalyze_InputErrorsCreateNoJob(t *testing.T) {
	f := newAnalysisFixture(t)
	for _, raw := range []string{"", "   ", "https://gitlab.com/octo/demo", "https://github.com/octo"} {
		_, err := f.svc.Analyze(context.Background(), raw)
		require.Error(t, err, raw)
		require.True(t, appErr.IsInvalid(err), raw)
	}
	_, err := f.svc.Analyze(context.Background(), "")
	require.Equal(t, "Repository URL is required", err.Error())

	n, err := f.jobs.Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
	require.Zero(t, f.fetcher.Calls())
}

func TestAnalyze_FetchFailureMarksJobFailed(t *testing.T) {
	f := newAnalysisFixture(t)
	f.fetcher.err = github.ErrRepositoryNotFound

	_, err := f.svc.Analyze(context.Background(), "https://github.com/octo/missing")
	require.Error(t, err)

	var stageErr *service.StageError
	require.True(t, errors.As(err, &stageErr))
	require.Equal(t, service.StageAnalysis, stageErr.Stage)
	require.Equal(t, int64(1), stageErr.JobID)
	require.Equal(t, "20250314_093000_123456", stageErr.ErrorID)
	require.True(t, errors.Is(err, github.ErrRepositoryNotFound))

	job, err := f.jobs.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, model.JobStatusFailed, job.Status)
	require.Equal(t, "Repository analysis failed: Repository not found", job.ErrorMessage)
	require.Empty(t, job.Result)
}

func TestAnalyze_CreateFailure(t *testing.T) {
	f := newAnalysisFixture(t)
	f.jobs.createErr = errBoom

	_, err := f.svc.Analyze(context.Background(), "https://github.com/octo/demo")
	var stageErr *service.StageError
	require.True(t, errors.As(err, &stageErr))
	require.Equal(t, service.StageCreate, stageErr.Stage)
	require.Zero(t, stageErr.JobID)
	require.True(t, strings.HasPrefix(err.Error(), "Failed to create analysis job: "))
}

func TestAnalyze_CacheHitSkipsFetch(t *testing.T) {
	cache := newMemCache()
	f := newAnalysisFixture(t, service.WithAnalysisCache(cache, time.Hour))
	ctx := context.Background()

	first, err := f.svc.Analyze(ctx, "https://github.com/octo/demo")
	require.NoError(t, err)
	require.False(t, first.FromCache)
	require.Equal(t, 1, f.fetcher.Calls())

	entry, ok := cache.entries["https://github.com/octo/demo"]
	require.True(t, ok)
	require.Len(t, entry.RepoHash, 64)
	require.Equal(t, fixedNow.Add(time.Hour).Unix(), entry.ExpiresAt)

	second, err := f.svc.Analyze(ctx, "github.com/octo/demo")
	require.NoError(t, err)
	require.True(t, second.FromCache)
	require.Equal(t, 1, f.fetcher.Calls())
	require.Equal(t, int64(2), second.JobID)
	require.Equal(t, first.Documentation.Readme, second.Documentation.Readme)
}

func TestAnalyze_CacheReadErrorFallsBackToFetch(t *testing.T) {
	cache := newMemCache()
	cache.getErr = errBoom
	f := newAnalysisFixture(t, service.WithAnalysisCache(cache, time.Hour))

	res, err := f.svc.Analyze(context.Background(), "https://github.com/octo/demo")
	require.NoError(t, err)
	require.False(t, res.FromCache)
	require.Equal(t, 1, f.fetcher.Calls())
}

func TestAnalyze_WithRAG(t *testing.T) {
	f := newAnalysisFixture(t, service.WithRAG(hashPipeline(t)))

	res, err := f.svc.Analyze(context.Background(), "https://github.com/octo/demo")
	require.NoError(t, err)
	require.Equal(t, rag.StatusCompleted, res.RAG.Status)
	require.Equal(t, 64, res.RAG.EmbeddingDimension)
	require.NotNil(t, res.RAG.KnowledgeGraph)
}

func TestReadmePreview(t *testing.T) {
	require.Equal(t, "short", service.ReadmePreview("short"))

	exact := strings.Repeat("a", 500)
	require.Equal(t, exact, service.ReadmePreview(exact))

	long := strings.Repeat("é", 501)
	preview := service.ReadmePreview(long)
	require.Equal(t, strings.Repeat("é", 500)+"...", preview)
}

func TestNewErrorID(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 6000, time.FixedZone("X", 3600))
	require.Equal(t, "20250102_020405_000006", service.NewErrorID(ts))
}
