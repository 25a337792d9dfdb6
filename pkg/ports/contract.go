package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/sapgui/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	suffix := time.Now().Format("20060102150405")

	newSnapshot := func(id string) *domain.Snapshot {
		snap := domain.NewSnapshot(domain.DefaultApplication)
		snap.ID = id
		snap.CurrentTransaction = "SE80"
		snap.Sessions = []domain.SessionInfo{
			{Index: 0, SystemName: "DEV", Client: "100", Transaction: "SE80", ScreenNumber: 100},
			{Index: 1, SystemName: "DEV", Client: "100", Transaction: "SM37", ScreenNumber: 200},
		}
		return snap
	}

	t.Run("Save and Load", func(t *testing.T) {
		id := "contract-save-" + suffix
		snap := newSnapshot(id)

		err := store.Save(ctx, snap)
		require.NoError(t, err, "Save should not return error")
		defer func() { _ = store.Delete(ctx, id) }()

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.ID, loaded.ID)
		assert.Equal(t, snap.Application, loaded.Application)
		assert.Equal(t, "SE80", loaded.CurrentTransaction)
		require.Len(t, loaded.Sessions, 2)
		assert.Equal(t, "SM37", loaded.Sessions[1].Transaction)
		assert.Equal(t, 200, loaded.Sessions[1].ScreenNumber)
		assert.True(t, snap.TakenAt.Equal(loaded.TakenAt), "TakenAt should survive persistence")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+suffix)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		id := "contract-delete-" + suffix
		require.NoError(t, store.Save(ctx, newSnapshot(id)))

		err := store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := "contract-list-" + suffix + "-1"
		id2 := "contract-list-" + suffix + "-2"
		_ = store.Save(ctx, newSnapshot(id1))
		_ = store.Save(ctx, newSnapshot(id2))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
