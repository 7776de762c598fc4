package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// ErrDimensionMismatch is returned by a provider chain when an entry answers
// with a vector size different from the one the chain already serves.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

type EmbedderEntry struct {
	Name     string
	Embedder IEmbedder
}

type groupEmbedder struct {
	items []EmbedderEntry
	dim   atomic.Int64
}

// NewGroupEmbedder chains providers for the retrieval layer. Each call goes to
// the first entry that answers. The first vector fixes the chain's dimension;
// a fallback entry whose vectors differ in size is skipped, so one similarity
// index and the shared embedding caches never mix vector sizes.
func NewGroupEmbedder(items []EmbedderEntry) IEmbedder {
	if len(items) == 0 {
		return nil
	}
	if len(items) == 1 {
		return items[0].Embedder
	}
	return &groupEmbedder{items: items}
}

func (g *groupEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	logger := logutil.GetLogger(ctx)
	var lastErr error
	for i, item := range g.items {
		if item.Embedder == nil {
			continue
		}
		vec, err := item.Embedder.Embed(ctx, text, taskType)
		if err == nil {
			err = g.checkDimension(len(vec))
		}
		if err != nil {
			lastErr = err
			logger.Warn("embed provider skipped", zap.Int("index", i), zap.String("name", item.Name), zap.Error(err))
			continue
		}
		if i > 0 {
			logger.Debug("embedded with fallback provider", zap.String("name", item.Name))
		}
		return vec, nil
	}
	if lastErr == nil {
		return nil, fmt.Errorf("no embed provider configured")
	}
	return nil, lastErr
}

func (g *groupEmbedder) checkDimension(n int) error {
	if n == 0 {
		return fmt.Errorf("empty embedding")
	}
	if g.dim.CompareAndSwap(0, int64(n)) {
		return nil
	}
	if want := g.dim.Load(); want != int64(n) {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, n, want)
	}
	return nil
}

// ModelName joins the entry names, e.g. "gemini|ollama". Cache keys use it,
// so reordering providers starts a fresh cache namespace.
func (g *groupEmbedder) ModelName() string {
	names := make([]string, 0, len(g.items))
	for _, item := range g.items {
		if item.Name == "" {
			continue
		}
		names = append(names, item.Name)
	}
	return strings.Join(names, "|")
}
