package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalStoreWriteAndFinalize(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/games/files")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Write(ctx, "mathgame-abc123.staging/index.html", []byte("<html></html>")))
	require.NoError(t, store.Write(ctx, "mathgame-abc123.staging/assets/sprite.png", []byte{0x89, 0x50}))

	require.NoError(t, store.Finalize(ctx, "mathgame-abc123.staging", "mathgame-abc123"))

	data, err := os.ReadFile(filepath.Join(store.Root(), "mathgame-abc123", "index.html"))
	require.NoError(t, err)
	require.Equal(t, "<html></html>", string(data))

	_, err = os.Stat(filepath.Join(store.Root(), "mathgame-abc123.staging"))
	require.True(t, os.IsNotExist(err))
}

func TestLocalStoreResolveURL(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/games/files/")
	require.NoError(t, err)
	require.Equal(t, "/games/files/mathgame-x1/index.html", store.ResolveURL("mathgame-x1", "index.html"))
}

func TestLocalStoreRejectsEscapingPaths(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStore(base, "/games/files")
	require.NoError(t, err)

	// Paths are cleaned against the base dir, so traversal segments cannot
	// escape it.
	require.NoError(t, store.Write(context.Background(), "../evil/index.html", []byte("x")))
	_, err = os.Stat(filepath.Join(base, "evil", "index.html"))
	require.NoError(t, err)
}

func TestLocalStoreListStaging(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/games/files")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Write(ctx, "orphan.staging/index.html", []byte("x")))
	require.NoError(t, store.Write(ctx, "done/index.html", []byte("x")))

	stale, err := store.ListStaging(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, []string{"orphan.staging"}, stale)

	none, err := store.ListStaging(ctx, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.Empty(t, none)
}
