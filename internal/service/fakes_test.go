package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Drago-03/Documentation.AI/internal/github"
	"github.com/Drago-03/Documentation.AI/internal/model"
	appErr "github.com/Drago-03/Documentation.AI/internal/pkg/errors"
)

type memJobs struct {
	mu        sync.Mutex
	nextID    int64
	items     map[int64]*model.AnalysisJob
	createErr error
	startErr  error
}

func newMemJobs() *memJobs {
	return &memJobs{items: map[int64]*model.AnalysisJob{}}
}

func (m *memJobs) Create(ctx context.Context, job *model.AnalysisJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	job.ID = m.nextID
	cp := *job
	m.items[job.ID] = &cp
	return nil
}

func (m *memJobs) Get(ctx context.Context, id int64) (*model.AnalysisJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.items[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (m *memJobs) List(ctx context.Context, limit, offset uint) ([]model.AnalysisJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]model.AnalysisJob, 0, len(m.items))
	for _, job := range m.items {
		all = append(all, *job)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	if int(offset) >= len(all) {
		return []model.AnalysisJob{}, nil
	}
	end := int(offset + limit)
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *memJobs) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

func (m *memJobs) UpdateStatusIf(ctx context.Context, id int64, fromStatus, toStatus string, mtime int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if m.startErr != nil {
		return false, m.startErr
	}
	job, ok := m.items[id]
	if !ok || job.Status != fromStatus {
		return false, nil
	}
	job.Status = toStatus
	job.Mtime = mtime
	return true, nil
}

func (m *memJobs) Finish(ctx context.Context, id int64, status, result, errorMessage string, mtime int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return false, err
	}
	job, ok := m.items[id]
	if !ok || model.IsTerminalStatus(job.Status) {
		return false, nil
	}
	job.Status = status
	job.Result = result
	job.ErrorMessage = errorMessage
	job.Mtime = mtime
	return true, nil
}

func (m *memJobs) put(job model.AnalysisJob) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job.ID > m.nextID {
		m.nextID = job.ID
	}
	m.items[job.ID] = &job
}

type fakeFetcher struct {
	mu         sync.Mutex
	calls      int
	snap       *github.Snapshot
	err        error
	afterFetch func()
}

func (f *fakeFetcher) Fetch(ctx context.Context, ref github.RepoRef) (*github.Snapshot, error) {
	f.mu.Lock()
	f.calls++
	err, hook := f.err, f.afterFetch
	var snap github.Snapshot
	if err == nil {
		snap = *f.snap
		snap.Ref = ref
	}
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func flaskSnapshot() *github.Snapshot {
	license := "MIT License"
	return &github.Snapshot{
		Info: model.RepositoryInfo{
			Name:        "demo",
			Owner:       "octo",
			FullName:    "octo/demo",
			Description: "A demo Flask service",
			HTMLURL:     "https://github.com/octo/demo",
			CloneURL:    "https://github.com/octo/demo.git",
			Language:    "Python",
			License:     &license,
			Topics:      []string{"flask"},
		},
		Languages: map[string]int{"Python": 4200},
		Entries: []github.Entry{
			{Name: "app.py", Path: "app.py", Type: "file"},
			{Name: "requirements.txt", Path: "requirements.txt", Type: "file"},
			{Name: "Dockerfile", Path: "Dockerfile", Type: "file"},
			{Name: "tests", Path: "tests", Type: "dir"},
		},
		Contents: map[string]string{
			"requirements.txt": "flask==2.3.0\nrequests>=2.31\n",
			"app.py":           "from flask import Flask\napp = Flask(__name__)\n\n@app.route('/health')\ndef health():\n    return 'ok'\n",
		},
	}
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]*model.RepositoryCache
	getErr  error
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]*model.RepositoryCache{}}
}

func (m *memCache) GetLive(ctx context.Context, repoURL string, now int64) (*model.RepositoryCache, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	e, ok := m.entries[repoURL]
	if !ok || e.ExpiresAt <= now {
		return nil, appErr.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memCache) Upsert(ctx context.Context, item *model.RepositoryCache) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *item
	m.entries[item.RepoURL] = &cp
	return nil
}

type memFeedback struct {
	mu    sync.Mutex
	items []model.UserFeedback
}

func (m *memFeedback) Create(ctx context.Context, fb *model.UserFeedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fb.ID = int64(len(m.items) + 1)
	m.items = append(m.items, *fb)
	return nil
}

func (m *memFeedback) ListByJob(ctx context.Context, jobID int64) ([]model.UserFeedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.UserFeedback
	for _, fb := range m.items {
		if fb.JobID == jobID {
			out = append(out, fb)
		}
	}
	return out, nil
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(ctx context.Context) error {
	return p.err
}

var errBoom = errors.New("boom")
