package ports

import (
	"context"

	"github.com/aretw0/sapgui/pkg/domain"
)

// SnapshotStore defines the interface for persisting session inventories.
type SnapshotStore interface {
	// Save persists the snapshot under its ID.
	Save(ctx context.Context, snapshot *domain.Snapshot) error

	// Load retrieves a snapshot.
	// Returns domain.ErrSnapshotNotFound if the snapshot does not exist.
	Load(ctx context.Context, id string) (*domain.Snapshot, error)

	// Delete removes a snapshot.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of the stored snapshots.
	List(ctx context.Context) ([]string, error)
}
