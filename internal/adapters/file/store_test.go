package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/sapgui/internal/adapters/file"
	"github.com/aretw0/sapgui/pkg/domain"
	"github.com/aretw0/sapgui/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunSnapshotStoreContract(t, store)
}

func TestFileStore_ListSkipsTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	snap := domain.NewSnapshot(domain.DefaultApplication)
	require.NoError(t, store.Save(ctx, snap))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-crashed-123.json"), []byte("{"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{snap.ID}, ids)
}

func TestFileStore_Overwrite(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	snap := domain.NewSnapshot(domain.DefaultApplication)
	snap.CurrentTransaction = "SE80"
	require.NoError(t, store.Save(ctx, snap))
	snap.CurrentTransaction = "SM37"
	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "SM37", loaded.CurrentTransaction)
}

func TestFileStore_RejectsPathIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	_, err := store.Load(ctx, "../escape")
	assert.ErrorIs(t, err, domain.ErrInvalidSnapshotID)
	_, err = store.Load(ctx, `a\b`)
	assert.ErrorIs(t, err, domain.ErrInvalidSnapshotID)
	assert.ErrorIs(t, store.Delete(ctx, ""), domain.ErrInvalidSnapshotID)
}

func TestFileStore_ListMissingDirectory(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "does-not-exist"))

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
