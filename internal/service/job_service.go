package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/Drago-03/Documentation.AI/internal/filestore"
	"github.com/Drago-03/Documentation.AI/internal/model"
	appErr "github.com/Drago-03/Documentation.AI/internal/pkg/errors"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

func DownloadURL(jobID int64) string {
	return fmt.Sprintf("/api/download/%d", jobID)
}

type JobSnapshot struct {
	JobID         int64                     `json:"job_id"`
	RepoURL       string                    `json:"repo_url"`
	RepoName      string                    `json:"repo_name"`
	RepoOwner     string                    `json:"repo_owner"`
	Status        string                    `json:"status"`
	CreatedAt     string                    `json:"created_at"`
	UpdatedAt     string                    `json:"updated_at"`
	DownloadURL   string                    `json:"download_url,omitempty"`
	Documentation *model.Documentation      `json:"documentation,omitempty"`
	Analysis      *model.RepositoryAnalysis `json:"analysis,omitempty"`
	ErrorMessage  string                    `json:"error_message,omitempty"`
}

type JobListItem struct {
	JobID       int64   `json:"job_id"`
	RepoURL     string  `json:"repo_url"`
	RepoName    string  `json:"repo_name"`
	RepoOwner   string  `json:"repo_owner"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	DownloadURL *string `json:"download_url"`
}

type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

type JobPage struct {
	Jobs       []JobListItem `json:"jobs"`
	Pagination Pagination    `json:"pagination"`
}

// Archive is an open package stream; the caller closes Body.
type Archive struct {
	Name string
	Body io.ReadCloser
}

type JobService struct {
	jobs           JobStore
	archives       filestore.Store
	defaultPerPage int
}

func NewJobService(jobs JobStore, archives filestore.Store, defaultPerPage int) *JobService {
	if defaultPerPage <= 0 || defaultPerPage > MaxPerPage {
		defaultPerPage = DefaultPerPage
	}
	return &JobService{jobs: jobs, archives: archives, defaultPerPage: defaultPerPage}
}

func formatUnix(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

// Get returns the job snapshot. Completed jobs include the documentation and
// analysis; an undecodable result is logged and omitted.
func (s *JobService) Get(ctx context.Context, id int64) (*JobSnapshot, error) {
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return nil, wrapJobLookup(id, err)
	}
	snap := &JobSnapshot{
		JobID:     job.ID,
		RepoURL:   job.RepoURL,
		RepoName:  job.RepoName,
		RepoOwner: job.RepoOwner,
		Status:    job.Status,
		CreatedAt: formatUnix(job.Ctime),
		UpdatedAt: formatUnix(job.Mtime),
	}
	switch job.Status {
	case model.JobStatusCompleted:
		if job.Result == "" {
			break
		}
		var result model.JobResult
		if err := json.Unmarshal([]byte(job.Result), &result); err != nil {
			logutil.GetLogger(ctx).Error("decode job result failed", zap.Int64("job_id", id), zap.Error(err))
			break
		}
		snap.DownloadURL = DownloadURL(job.ID)
		snap.Documentation = result.Documentation
		snap.Analysis = result.Analysis
	case model.JobStatusFailed:
		snap.ErrorMessage = job.ErrorMessage
	}
	return snap, nil
}

// List pages through jobs newest first. page defaults to 1; perPage defaults
// to the configured size and is capped at 100. A page past the last one is empty.
func (s *JobService) List(ctx context.Context, page, perPage int) (*JobPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = s.defaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	total, err := s.jobs.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}
	pages := int(math.Ceil(float64(total) / float64(perPage)))
	jobs := []model.AnalysisJob{}
	if page <= pages {
		jobs, err = s.jobs.List(ctx, uint(perPage), uint((page-1)*perPage))
		if err != nil {
			return nil, fmt.Errorf("list jobs: %w", err)
		}
	}
	items := make([]JobListItem, 0, len(jobs))
	for _, job := range jobs {
		item := JobListItem{
			JobID:     job.ID,
			RepoURL:   job.RepoURL,
			RepoName:  job.RepoName,
			RepoOwner: job.RepoOwner,
			Status:    job.Status,
			CreatedAt: formatUnix(job.Ctime),
		}
		if job.Status == model.JobStatusCompleted {
			u := DownloadURL(job.ID)
			item.DownloadURL = &u
		}
		items = append(items, item)
	}
	return &JobPage{
		Jobs: items,
		Pagination: Pagination{
			Page:    page,
			PerPage: perPage,
			Total:   total,
			Pages:   pages,
			HasNext: page < pages,
			HasPrev: page > 1,
		},
	}, nil
}

// Download opens the stored archive of a completed job.
func (s *JobService) Download(ctx context.Context, id int64) (*Archive, error) {
	job, result, err := loadResult(ctx, s.jobs, id)
	if err != nil {
		return nil, err
	}
	if result.PackageKey == "" {
		return nil, appErr.NotFoundf("Package file not found")
	}
	body, err := s.archives.Open(ctx, result.PackageKey)
	if appErr.IsNotFound(err) {
		return nil, appErr.NotFoundf("Package file not found")
	}
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	return &Archive{Name: job.RepoName + "-documentation.zip", Body: body}, nil
}

// loadResult fetches a job and decodes its result. The job must be completed.
func loadResult(ctx context.Context, jobs JobStore, id int64) (*model.AnalysisJob, *model.JobResult, error) {
	job, err := jobs.Get(ctx, id)
	if err != nil {
		return nil, nil, wrapJobLookup(id, err)
	}
	if job.Status != model.JobStatusCompleted {
		return nil, nil, appErr.Newf(appErr.ErrNotCompleted, "Job not completed")
	}
	if job.Result == "" {
		return nil, nil, appErr.NotFoundf("No result available")
	}
	var result model.JobResult
	if err := json.Unmarshal([]byte(job.Result), &result); err != nil {
		return nil, nil, appErr.Newf(appErr.ErrInternal, "Invalid result data")
	}
	return job, &result, nil
}

func wrapJobLookup(id int64, err error) error {
	if appErr.IsNotFound(err) {
		return appErr.NotFoundf("Job %d not found", id)
	}
	return fmt.Errorf("get job %d: %w", id, err)
}
