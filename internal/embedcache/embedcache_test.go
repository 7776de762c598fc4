package embedcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Drago-03/Documentation.AI/internal/model"
)

type countingEmbedder struct {
	calls int
	err   error
}

func (c *countingEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func (c *countingEmbedder) ModelName() string {
	return "hash:test"
}

type memStore struct {
	items     map[model.EmbeddingCacheKey][]float32
	lookupErr error
}

func newMemStore() *memStore {
	return &memStore{items: map[model.EmbeddingCacheKey][]float32{}}
}

func (m *memStore) Lookup(ctx context.Context, key model.EmbeddingCacheKey) ([]float32, bool, error) {
	if m.lookupErr != nil {
		return nil, false, m.lookupErr
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memStore) Store(ctx context.Context, item *model.EmbeddingCache) error {
	m.items[item.Key] = item.Embedding
	return nil
}

func TestWrapLRU_HitsSkipUpstream(t *testing.T) {
	next := &countingEmbedder{}
	e := WrapLRU(next, 8, time.Minute)
	ctx := context.Background()

	first, err := e.Embed(ctx, "hello", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	first[0] = 99
	second, err := e.Embed(ctx, "hello", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	require.Equal(t, []float32{5, 1}, second)
	require.Equal(t, 1, next.calls)

	_, err = e.Embed(ctx, "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.Equal(t, 2, next.calls)
	require.Equal(t, "hash:test", e.ModelName())
}

func TestWrapLRU_Disabled(t *testing.T) {
	next := &countingEmbedder{}
	require.Same(t, next, WrapLRU(next, 0, time.Minute))
	require.Nil(t, WrapLRU(nil, 8, time.Minute))
}

func TestWrapDB(t *testing.T) {
	next := &countingEmbedder{}
	store := newMemStore()
	e := WrapDB(next, store)
	ctx := context.Background()

	_, err := e.Embed(ctx, "abc", "")
	require.NoError(t, err)
	require.Len(t, store.items, 1)
	for key := range store.items {
		require.Equal(t, "hash:test", key.ModelName)
		require.Len(t, key.ContentHash, 64)
	}

	v, err := e.Embed(ctx, "abc", "")
	require.NoError(t, err)
	require.Equal(t, []float32{3, 1}, v)
	require.Equal(t, 1, next.calls)
}

func TestWrapDB_LookupFailureFallsThrough(t *testing.T) {
	next := &countingEmbedder{}
	store := newMemStore()
	store.lookupErr = errors.New("db down")
	v, err := WrapDB(next, store).Embed(context.Background(), "abc", "")
	require.NoError(t, err)
	require.Equal(t, []float32{3, 1}, v)
	require.Equal(t, 1, next.calls)
}

func TestWrapDB_UpstreamError(t *testing.T) {
	next := &countingEmbedder{err: errors.New("boom")}
	_, err := WrapDB(next, newMemStore()).Embed(context.Background(), "abc", "")
	require.EqualError(t, err, "boom")
}
