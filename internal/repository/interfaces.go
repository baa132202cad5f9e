package repository

import (
	"context"

	"github.com/nayakvinit/lendbook/internal/domain"
)

// SnapshotStore persists the full ledger as a JSON snapshot held in a single
// named slot of a durable local store. The ledger service treats it as a
// best-effort collaborator: load failures yield an empty ledger, save
// failures never roll back in-memory state.
type SnapshotStore interface {
	// Load reads the snapshot. A missing slot returns (nil, nil);
	// a corrupt payload returns an error.
	Load(ctx context.Context) ([]*domain.LendingRecord, error)

	// Save replaces the snapshot with the given records.
	Save(ctx context.Context, records []*domain.LendingRecord) error

	// Ping checks that the underlying storage is reachable.
	Ping(ctx context.Context) error

	// Close releases storage resources.
	Close() error
}
