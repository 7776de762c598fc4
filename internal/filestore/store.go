// Package filestore keeps generated documentation archives. Keys are slash
// separated relative paths such as "42/demo-documentation.zip".
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/Drago-03/Documentation.AI/internal/config"
)

type Store interface {
	Type() string
	// Save stores the content under key and returns its location.
	Save(ctx context.Context, key string, r io.Reader, size int64) (string, error)
	// Open fails with an error wrapping errors.ErrNotFound when the key is absent.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// PurgeBefore removes objects last modified before cutoff and reports how many.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int, error)
}

type Factory func(args interface{}) (Store, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(cfg config.FileStoreConfig) (Store, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Type))
	if key == "" {
		return nil, fmt.Errorf("file_store.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported file_store.type: %s", cfg.Type)
	}
	return factory(cfg.Data)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("file_store.data is required")
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode file_store.data: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode file_store.data: %w", err)
	}
	return nil
}

// cleanKey rejects empty, absolute and parent-escaping keys.
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.Contains(key, "\\") {
		return "", fmt.Errorf("invalid file key %q", key)
	}
	cleaned := path.Clean("/" + key)
	if cleaned == "/" || cleaned != "/"+key {
		return "", fmt.Errorf("invalid file key %q", key)
	}
	return strings.TrimPrefix(cleaned, "/"), nil
}
