package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/Drago-03/Documentation.AI/internal/model"
	appErr "github.com/Drago-03/Documentation.AI/internal/pkg/errors"
	"github.com/Drago-03/Documentation.AI/internal/rag"
	"github.com/Drago-03/Documentation.AI/internal/render"
)

const maxSearchTopK = 50

// InsightService answers questions about finished jobs: semantic search over a
// freshly indexed session and HTML previews of generated artifacts.
type InsightService struct {
	jobs JobStore
	rag  *rag.Pipeline
}

func NewInsightService(jobs JobStore, pipeline *rag.Pipeline) *InsightService {
	return &InsightService{jobs: jobs, rag: pipeline}
}

func (s *InsightService) Search(ctx context.Context, jobID int64, query string, topK int) ([]rag.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, appErr.Invalidf("Query parameter q is required")
	}
	if topK <= 0 {
		topK = rag.DefaultTopK
	}
	if topK > maxSearchTopK {
		topK = maxSearchTopK
	}
	if !s.rag.Available() {
		return nil, appErr.Newf(appErr.ErrUnavailable, "Semantic search is not configured")
	}
	_, result, err := loadResult(ctx, s.jobs, jobID)
	if err != nil {
		return nil, err
	}
	if result.Analysis == nil {
		return nil, appErr.NotFoundf("No analysis available for job %d", jobID)
	}
	session := s.rag.NewSession()
	if err := session.Index(ctx, result.Analysis); err != nil {
		return nil, fmt.Errorf("index analysis: %w", err)
	}
	return session.Search(ctx, query, topK)
}

type Preview struct {
	Artifact string `json:"artifact"`
	Path     string `json:"path"`
	HTML     string `json:"html"`
}

// Preview renders a generated artifact as HTML. Non-markdown files are shown
// as a code block.
func (s *InsightService) Preview(ctx context.Context, jobID int64, artifact string) (*Preview, error) {
	_, result, err := loadResult(ctx, s.jobs, jobID)
	if err != nil {
		return nil, err
	}
	if result.Documentation == nil {
		return nil, appErr.NotFoundf("No documentation available for job %d", jobID)
	}
	item, ok := result.Documentation.Lookup(strings.TrimPrefix(artifact, "/"))
	if !ok {
		return nil, appErr.NotFoundf("Artifact %s not found", artifact)
	}
	source := item.Content
	if !isMarkdown(item) {
		source = "```" + codeLanguage(item.Path) + "\n" + item.Content + "\n```\n"
	}
	html, err := render.HTML(source)
	if err != nil {
		return nil, err
	}
	return &Preview{Artifact: item.Key, Path: item.Path, HTML: html}, nil
}

func isMarkdown(a model.Artifact) bool {
	return strings.EqualFold(path.Ext(a.Path), ".md")
}

func codeLanguage(p string) string {
	switch {
	case strings.HasSuffix(p, ".yml"), strings.HasSuffix(p, ".yaml"):
		return "yaml"
	case path.Base(p) == "Dockerfile":
		return "dockerfile"
	default:
		return ""
	}
}
