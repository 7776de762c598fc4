package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Drago-03/Documentation.AI/internal/service"
)

func TestHealthService_Healthy(t *testing.T) {
	svc := service.NewHealthService(service.HealthDeps{
		DB:             fakePinger{},
		GitHubAuthed:   true,
		RAG:            hashPipeline(t),
		ArchiveType:    "local",
		GitHubTokenSet: true,
	})
	report := svc.Check(context.Background())
	require.Equal(t, service.HealthHealthy, report.Status)
	require.Equal(t, "2.0.0", report.Version)
	require.Equal(t, "authenticated", report.Services["github_analyzer"].Detail)
	require.Equal(t, service.HealthHealthy, report.Services["rag_pipeline"].Status)
	require.Equal(t, "local", report.Services["file_manager"].Detail)
	require.Equal(t, "✅ Set", report.Environment["GITHUB_TOKEN"])
	require.Equal(t, "❌ Missing", report.Environment["GEMINI_API_KEY"])
	require.Equal(t, "❌ Using default", report.Environment["SECRET_KEY"])
}

func TestHealthService_Degraded(t *testing.T) {
	svc := service.NewHealthService(service.HealthDeps{DB: fakePinger{err: errBoom}})
	report := svc.Check(context.Background())
	require.Equal(t, service.HealthDegraded, report.Status)
	require.Equal(t, service.HealthUnhealthy, report.Services["database"].Status)
	require.Equal(t, "boom", report.Services["database"].Error)
	require.Equal(t, service.HealthUnavailable, report.Services["rag_pipeline"].Status)
}

func TestHealthService_UnavailableRAGStaysHealthy(t *testing.T) {
	svc := service.NewHealthService(service.HealthDeps{DB: fakePinger{}})
	report := svc.Check(context.Background())
	require.Equal(t, service.HealthHealthy, report.Status)
	require.Equal(t, "anonymous", report.Services["github_analyzer"].Detail)
}
