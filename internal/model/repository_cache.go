package model

type RepositoryCache struct {
	ID           int64
	RepoURL      string
	RepoHash     string
	AnalysisData string
	Ctime        int64
	ExpiresAt    int64
}
