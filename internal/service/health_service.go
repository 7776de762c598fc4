package service

import (
	"context"
	"time"

	"github.com/Drago-03/Documentation.AI/internal/model"
	"github.com/Drago-03/Documentation.AI/internal/rag"
)

const (
	HealthHealthy     = "healthy"
	HealthDegraded    = "degraded"
	HealthUnhealthy   = "unhealthy"
	HealthUnavailable = "unavailable"
)

type ComponentHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}

type HealthReport struct {
	Status      string                     `json:"status"`
	Timestamp   string                     `json:"timestamp"`
	Version     string                     `json:"version"`
	Services    map[string]ComponentHealth `json:"services"`
	Environment map[string]string          `json:"environment"`
	Endpoints   map[string]string          `json:"endpoints"`
}

// HealthDeps describes what the process was started with.
type HealthDeps struct {
	DB              Pinger
	GitHubAuthed    bool
	RAG             *rag.Pipeline
	ArchiveType     string
	GitHubTokenSet  bool
	GeminiKeySet    bool
	SecretKeySet    bool
	AvailableRoutes map[string]string
}

type HealthService struct {
	deps HealthDeps
	now  func() time.Time
}

func NewHealthService(deps HealthDeps) *HealthService {
	return &HealthService{deps: deps, now: time.Now}
}

// Check reports component status. The service is degraded when the database
// is unreachable; a missing embedder only marks the retrieval layer.
func (s *HealthService) Check(ctx context.Context) *HealthReport {
	db := ComponentHealth{Status: HealthHealthy}
	if s.deps.DB == nil {
		db = ComponentHealth{Status: HealthUnhealthy, Error: "database not configured"}
	} else if err := s.deps.DB.Ping(ctx); err != nil {
		db = ComponentHealth{Status: HealthUnhealthy, Error: err.Error()}
	}

	githubDetail := "anonymous"
	if s.deps.GitHubAuthed {
		githubDetail = "authenticated"
	}
	ragHealth := ComponentHealth{Status: HealthUnavailable, Detail: "no embedding provider configured"}
	if s.deps.RAG.Available() {
		ragHealth = ComponentHealth{Status: HealthHealthy, Detail: s.deps.RAG.ModelName()}
	}

	services := map[string]ComponentHealth{
		"database":                db,
		"github_analyzer":         {Status: HealthHealthy, Detail: githubDetail},
		"documentation_generator": {Status: HealthHealthy},
		"rag_pipeline":            ragHealth,
		"file_manager":            {Status: HealthHealthy, Detail: s.deps.ArchiveType},
	}
	status := HealthHealthy
	for _, name := range []string{"database", "github_analyzer", "documentation_generator"} {
		if services[name].Status != HealthHealthy {
			status = HealthDegraded
		}
	}
	return &HealthReport{
		Status:    status,
		Timestamp: s.now().UTC().Format(time.RFC3339Nano),
		Version:   model.AnalyzerVersion,
		Services:  services,
		Environment: map[string]string{
			"GITHUB_TOKEN":   presence(s.deps.GitHubTokenSet, "❌ Missing"),
			"GEMINI_API_KEY": presence(s.deps.GeminiKeySet, "❌ Missing"),
			"SECRET_KEY":     presence(s.deps.SecretKeySet, "❌ Using default"),
		},
		Endpoints: s.deps.AvailableRoutes,
	}
}

func presence(set bool, missing string) string {
	if set {
		return "✅ Set"
	}
	return missing
}
