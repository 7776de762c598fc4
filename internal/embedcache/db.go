package embedcache

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/Drago-03/Documentation.AI/internal/ai"
	"github.com/Drago-03/Documentation.AI/internal/model"
)

// Store persists vectors across restarts. repo.EmbeddingCacheRepo implements it.
type Store interface {
	Lookup(ctx context.Context, key model.EmbeddingCacheKey) ([]float32, bool, error)
	Store(ctx context.Context, item *model.EmbeddingCache) error
}

// WrapDB consults store before calling e. Store failures are logged and never
// fail the embedding.
func WrapDB(e ai.IEmbedder, store Store) ai.IEmbedder {
	if e == nil || store == nil {
		return e
	}
	return &dbEmbedder{next: e, store: store, now: time.Now}
}

type dbEmbedder struct {
	next  ai.IEmbedder
	store Store
	now   func() time.Time
}

func (d *dbEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	logger := logutil.GetLogger(ctx)
	key := buildKey(d.next.ModelName(), taskType, text)
	values, ok, err := d.store.Lookup(ctx, key)
	if err != nil {
		logger.Warn("embedding cache lookup failed", zap.Error(err))
	} else if ok {
		logger.Debug("embedding cache hit", zap.String("layer", "db"), zap.String("task_type", taskType))
		return values, nil
	}
	res, err := d.next.Embed(ctx, text, taskType)
	if err != nil {
		return nil, err
	}
	if err := d.store.Store(ctx, &model.EmbeddingCache{
		Key:       key,
		Embedding: res,
		Ctime:     d.now().Unix(),
	}); err != nil {
		logger.Warn("failed to cache embedding", zap.Error(err))
	}
	return res, nil
}

func (d *dbEmbedder) ModelName() string {
	return d.next.ModelName()
}
