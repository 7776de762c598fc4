package service_test

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Drago-03/Documentation.AI/internal/filestore"
	"github.com/Drago-03/Documentation.AI/internal/model"
	appErr "github.com/Drago-03/Documentation.AI/internal/pkg/errors"
	"github.com/Drago-03/Documentation.AI/internal/service"
)

func TestJobService_GetCompleted(t *testing.T) {
	f := newAnalysisFixture(t)
	ctx := context.Background()
	res, err := f.svc.Analyze(ctx, "https://github.com/octo/demo")
	require.NoError(t, err)

	jobs := service.NewJobService(f.jobs, f.store, 0)
	snap, err := jobs.Get(ctx, res.JobID)
	require.NoError(t, err)
	require.Equal(t, model.JobStatusCompleted, snap.Status)
	require.Equal(t, "/api/download/1", snap.DownloadURL)
	require.NotNil(t, snap.Documentation)
	require.NotNil(t, snap.Analysis)
	require.Equal(t, "2025-03-14T09:30:00Z", snap.CreatedAt)
	require.Empty(t, snap.ErrorMessage)
}

func TestJobService_GetFailedAndMissing(t *testing.T) {
	jobStore := newMemJobs()
	jobStore.put(model.AnalysisJob{ID: 7, RepoURL: "https://github.com/a/b", RepoName: "b", RepoOwner: "a",
		Status: model.JobStatusFailed, ErrorMessage: "Repository analysis failed: Repository not found"})
	jobs := service.NewJobService(jobStore, filestore.NewLocal(t.TempDir()), 10)

	snap, err := jobs.Get(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "Repository analysis failed: Repository not found", snap.ErrorMessage)
	require.Empty(t, snap.DownloadURL)
	require.Nil(t, snap.Documentation)

	_, err = jobs.Get(context.Background(), 99)
	require.True(t, appErr.IsNotFound(err))
	require.Equal(t, "Job 99 not found", err.Error())
}

func TestJobService_ListPagination(t *testing.T) {
	jobStore := newMemJobs()
	for i := int64(1); i <= 25; i++ {
		status := model.JobStatusPending
		if i%2 == 0 {
			status = model.JobStatusCompleted
		}
		jobStore.put(model.AnalysisJob{ID: i, RepoName: "r", RepoOwner: "o", Status: status, Ctime: i})
	}
	jobs := service.NewJobService(jobStore, filestore.NewLocal(t.TempDir()), 10)
	ctx := context.Background()

	page, err := jobs.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Jobs, 10)
	require.Equal(t, int64(25), page.Jobs[0].JobID)
	require.Nil(t, page.Jobs[0].DownloadURL)
	require.NotNil(t, page.Jobs[1].DownloadURL)
	require.Equal(t, "/api/download/24", *page.Jobs[1].DownloadURL)
	require.Equal(t, service.Pagination{Page: 1, PerPage: 10, Total: 25, Pages: 3, HasNext: true, HasPrev: false}, page.Pagination)

	page, err = jobs.List(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, page.Jobs, 5)
	require.False(t, page.Pagination.HasNext)
	require.True(t, page.Pagination.HasPrev)

	page, err = jobs.List(ctx, 9, 10)
	require.NoError(t, err)
	require.Empty(t, page.Jobs)
	require.NotNil(t, page.Jobs)

	page, err = jobs.List(ctx, 1, 1000)
	require.NoError(t, err)
	require.Equal(t, service.MaxPerPage, page.Pagination.PerPage)
	require.Len(t, page.Jobs, 25)
}

func TestJobService_ListEmpty(t *testing.T) {
	jobs := service.NewJobService(newMemJobs(), filestore.NewLocal(t.TempDir()), 10)
	page, err := jobs.List(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Zero(t, page.Pagination.Pages)
	require.False(t, page.Pagination.HasNext)
}

type listCountingJobs struct {
	*memJobs
	listCalls int
}

func (l *listCountingJobs) List(ctx context.Context, limit, offset uint) ([]model.AnalysisJob, error) {
	l.listCalls++
	if offset > 1<<32 {
		return nil, errors.New("offset out of range")
	}
	return l.memJobs.List(ctx, limit, offset)
}

func TestJobService_ListHugePage(t *testing.T) {
	store := &listCountingJobs{memJobs: newMemJobs()}
	store.put(model.AnalysisJob{ID: 1, Status: model.JobStatusPending})
	jobs := service.NewJobService(store, filestore.NewLocal(t.TempDir()), 10)

	page, err := jobs.List(context.Background(), math.MaxInt, 100)
	require.NoError(t, err)
	require.Empty(t, page.Jobs)
	require.NotNil(t, page.Jobs)
	require.Equal(t, math.MaxInt, page.Pagination.Page)
	require.Equal(t, 1, page.Pagination.Pages)
	require.False(t, page.Pagination.HasNext)
	require.Zero(t, store.listCalls)
}

func TestJobService_Download(t *testing.T) {
	f := newAnalysisFixture(t)
	ctx := context.Background()
	res, err := f.svc.Analyze(ctx, "https://github.com/octo/demo")
	require.NoError(t, err)

	jobs := service.NewJobService(f.jobs, f.store, 10)
	archive, err := jobs.Download(ctx, res.JobID)
	require.NoError(t, err)
	defer archive.Body.Close()
	require.Equal(t, "demo-documentation.zip", archive.Name)
	data, err := io.ReadAll(archive.Body)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "PK"))
}

func TestJobService_DownloadErrors(t *testing.T) {
	jobStore := newMemJobs()
	jobStore.put(model.AnalysisJob{ID: 1, Status: model.JobStatusProcessing})
	jobStore.put(model.AnalysisJob{ID: 2, Status: model.JobStatusCompleted})
	jobStore.put(model.AnalysisJob{ID: 3, Status: model.JobStatusCompleted, Result: "{not json"})
	jobStore.put(model.AnalysisJob{ID: 4, Status: model.JobStatusCompleted, Result: `{"package_key":"4/gone.zip"}`})
	jobs := service.NewJobService(jobStore, filestore.NewLocal(t.TempDir()), 10)
	ctx := context.Background()

	_, err := jobs.Download(ctx, 1)
	require.True(t, errors.Is(err, appErr.ErrNotCompleted))
	require.Equal(t, "Job not completed", err.Error())

	_, err = jobs.Download(ctx, 2)
	require.True(t, appErr.IsNotFound(err))
	require.Equal(t, "No result available", err.Error())

	_, err = jobs.Download(ctx, 3)
	require.True(t, errors.Is(err, appErr.ErrInternal))
	require.Equal(t, "Invalid result data", err.Error())

	_, err = jobs.Download(ctx, 4)
	require.True(t, appErr.IsNotFound(err))
	require.Equal(t, "Package file not found", err.Error())

	_, err = jobs.Download(ctx, 5)
	require.True(t, appErr.IsNotFound(err))
}
