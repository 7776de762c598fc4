package rag

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/Drago-03/Documentation.AI/internal/ai"
	"github.com/Drago-03/Documentation.AI/internal/model"
)

const (
	defaultDocumentTask = "RETRIEVAL_DOCUMENT"
	defaultQueryTask    = "RETRIEVAL_QUERY"
	DefaultTopK         = 5
)

type Option func(*Pipeline)

func WithTaskTypes(document, query string) Option {
	return func(p *Pipeline) {
		if document != "" {
			p.documentTask = document
		}
		if query != "" {
			p.queryTask = query
		}
	}
}

// Pipeline holds configuration only. All per-run state lives in a Session, so
// one Pipeline serves concurrent requests.
type Pipeline struct {
	embedder     ai.IEmbedder
	documentTask string
	queryTask    string
}

func NewPipeline(embedder ai.IEmbedder, opts ...Option) *Pipeline {
	p := &Pipeline{
		embedder:     embedder,
		documentTask: defaultDocumentTask,
		queryTask:    defaultQueryTask,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Available reports whether an embedder is configured.
func (p *Pipeline) Available() bool {
	return p != nil && p.embedder != nil
}

func (p *Pipeline) ModelName() string {
	if !p.Available() {
		return ""
	}
	return p.embedder.ModelName()
}

func (p *Pipeline) NewSession() *Session {
	return &Session{pipeline: p}
}

// Process runs a fresh session over the analysis. It never returns nil and
// never panics on embedder failure; the outcome is carried in Result.Status.
func (p *Pipeline) Process(ctx context.Context, a *model.RepositoryAnalysis) *Result {
	if !p.Available() {
		return emptyResult(StatusUnavailable, "")
	}
	return p.NewSession().Process(ctx, a)
}

// Session owns the documents, vectors and index of a single request.
type Session struct {
	pipeline *Pipeline
	docs     []Document
	index    *flatIndex
}

func (s *Session) Documents() []Document {
	return s.docs
}

// Index builds documents for the analysis and embeds each of them.
func (s *Session) Index(ctx context.Context, a *model.RepositoryAnalysis) error {
	if !s.pipeline.Available() {
		return ai.ErrUnavailable
	}
	docs := BuildDocuments(a)
	var index *flatIndex
	for i, d := range docs {
		vec, err := s.pipeline.embedder.Embed(ctx, d.Content, s.pipeline.documentTask)
		if err != nil {
			return fmt.Errorf("embed document %d: %w", i, err)
		}
		if index == nil {
			index = newFlatIndex(len(vec))
		}
		if err := index.Add(vec); err != nil {
			return fmt.Errorf("index document %d: %w", i, err)
		}
	}
	s.docs = docs
	s.index = index
	return nil
}

func (s *Session) Dimension() int {
	if s.index == nil {
		return 0
	}
	return s.index.dim
}

func (s *Session) Process(ctx context.Context, a *model.RepositoryAnalysis) *Result {
	logger := logutil.GetLogger(ctx)
	if err := s.Index(ctx, a); err != nil {
		logger.Error("rag processing failed", zap.Error(err))
		res := emptyResult(StatusFailed, err.Error())
		res.EmbeddingModel = s.pipeline.ModelName()
		return res
	}
	res := &Result{
		Status:             StatusCompleted,
		SemanticInsights:   semanticInsights(s.docs),
		CodePatterns:       codePatterns(s.docs),
		KnowledgeGraph:     BuildGraph(a),
		DocumentCount:      len(s.docs),
		EmbeddingDimension: s.Dimension(),
		EmbeddingModel:     s.pipeline.ModelName(),
	}
	logger.Info("rag processing completed",
		zap.Int("documents", res.DocumentCount),
		zap.Int("dimension", res.EmbeddingDimension),
	)
	return res
}

// Search ranks indexed documents against the query. An empty session yields
// no hits.
func (s *Session) Search(ctx context.Context, query string, topK int) ([]SearchHit, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if s.index == nil || s.index.Len() == 0 {
		return []SearchHit{}, nil
	}
	q, err := s.pipeline.embedder.Embed(ctx, query, s.pipeline.queryTask)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	neighbors, err := s.index.Search(q, topK)
	if err != nil {
		return nil, err
	}
	hits := make([]SearchHit, 0, len(neighbors))
	for i, n := range neighbors {
		hits = append(hits, SearchHit{
			Document:        s.docs[n.index],
			SimilarityScore: 1 - n.distance/2,
			Rank:            i + 1,
		})
	}
	return hits, nil
}
