package filestore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Drago-03/Documentation.AI/internal/config"
	appErr "github.com/Drago-03/Documentation.AI/internal/pkg/errors"
)

func TestNew_Registry(t *testing.T) {
	store, err := New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{"dir": t.TempDir()}})
	require.NoError(t, err)
	require.Equal(t, "local", store.Type())

	_, err = New(config.FileStoreConfig{Type: "ftp"})
	require.Error(t, err)
	_, err = New(config.FileStoreConfig{Type: "minio", Data: map[string]interface{}{"endpoint": "localhost:9000"}})
	require.Error(t, err)
}

func TestLocal_SaveOpenDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir)
	ctx := context.Background()

	loc, err := store.Save(ctx, "7/demo-documentation.zip", strings.NewReader("zipdata"), 7)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "7", "demo-documentation.zip"), loc)

	rc, err := store.Open(ctx, "7/demo-documentation.zip")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "zipdata", string(data))

	require.NoError(t, store.Delete(ctx, "7/demo-documentation.zip"))
	require.NoError(t, store.Delete(ctx, "7/demo-documentation.zip"))
	_, err = store.Open(ctx, "7/demo-documentation.zip")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestLocal_RejectsEscapingKeys(t *testing.T) {
	store := NewLocal(t.TempDir())
	for _, key := range []string{"", "../x.zip", "/abs.zip", "a/../../b.zip", `a\b.zip`} {
		_, err := store.Save(context.Background(), key, strings.NewReader("x"), 1)
		require.Error(t, err, key)
	}
}

func TestLocal_PurgeBefore(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir)
	ctx := context.Background()
	_, err := store.Save(ctx, "1/old.zip", strings.NewReader("a"), 1)
	require.NoError(t, err)
	_, err = store.Save(ctx, "2/new.zip", strings.NewReader("b"), 1)
	require.NoError(t, err)
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "1", "old.zip"), old, old))

	removed, err := store.PurgeBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	_, err = store.Open(ctx, "2/new.zip")
	require.NoError(t, err)
}

func TestLocal_PurgeMissingDir(t *testing.T) {
	store := NewLocal(filepath.Join(t.TempDir(), "absent"))
	removed, err := store.PurgeBefore(context.Background(), time.Now())
	require.NoError(t, err)
	require.Zero(t, removed)
}
