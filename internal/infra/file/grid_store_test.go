package filestore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	filestore "github.com/flxzt/pxtogether/internal/infra/file"
	"github.com/flxzt/pxtogether/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileGridStore_SaveOpenList(t *testing.T) {
	ctx := context.Background()
	store, err := filestore.NewFileGridStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "grid.json", []byte(`{"pixels":[]}`)))
	require.NoError(t, store.Save(ctx, "art/cat.json", []byte("cat")))
	// 覆盖已有文件
	require.NoError(t, store.Save(ctx, "grid.json", []byte("v2")))

	data, err := store.Open(ctx, "grid.json")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"art/cat.json", "grid.json"}, names)
}

func TestFileGridStore_OpenMissing(t *testing.T) {
	store, err := filestore.NewFileGridStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "nope.json")
	assert.True(t, errors.Is(err, repository.ErrGridNotFound))
}

func TestFileGridStore_RejectsEscapingNames(t *testing.T) {
	ctx := context.Background()
	store, err := filestore.NewFileGridStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "../x.json", "a/../../x.json", "/etc/passwd"} {
		err := store.Save(ctx, name, []byte("x"))
		assert.True(t, errors.Is(err, repository.ErrInvalidName), "name %q: %v", name, err)
		_, err = store.Open(ctx, name)
		assert.True(t, errors.Is(err, repository.ErrInvalidName), "name %q: %v", name, err)
	}
}

func TestFileGridStore_FailedSaveKeepsTarget(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := filestore.NewFileGridStore(root)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "grid.json", []byte("original")))

	// 目标是一个非空目录时重命名失败
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir.json", "child"), 0o755))
	err = store.Save(ctx, "dir.json", []byte("new"))
	require.Error(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp", "temp files must be cleaned up")
	}
	data, err := store.Open(ctx, "grid.json")
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestFileGridStore_CancelledContext(t *testing.T) {
	store, err := filestore.NewFileGridStore(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Save(ctx, "grid.json", nil), context.Canceled)
	_, err = store.Open(ctx, "grid.json")
	assert.ErrorIs(t, err, context.Canceled)
}
