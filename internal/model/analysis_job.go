package model

const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// AnalysisJob is one analysis request's lifecycle record. Result holds the
// JSON encoded JobResult once the job completes.
type AnalysisJob struct {
	ID           int64
	RepoURL      string
	RepoName     string
	RepoOwner    string
	Status       string
	Result       string
	ErrorMessage string
	Ctime        int64
	Mtime        int64
}

// IsTerminalStatus reports whether a job in status can no longer change.
func IsTerminalStatus(status string) bool {
	return status == JobStatusCompleted || status == JobStatusFailed
}

// JobResult is what a completed job stores in AnalysisJob.Result.
type JobResult struct {
	Analysis      *RepositoryAnalysis `json:"analysis"`
	Documentation *Documentation      `json:"documentation"`
	RAG           interface{}         `json:"rag,omitempty"`
	PackagePath   string              `json:"package_path"`
	PackageKey    string              `json:"package_key"`
	GeneratedAt   string              `json:"generated_at"`
}
