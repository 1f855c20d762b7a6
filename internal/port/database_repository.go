package port

import (
	"context"

	"github.com/jan-ice17/supermarket-inventory/internal/core/domain"
)

type SnapshotRepository interface {
	// LoadSnapshot returns every persisted item, the journal in log order and
	// the highest journaled seq
	LoadSnapshot(ctx context.Context) (domain.Snapshot, error)
}
