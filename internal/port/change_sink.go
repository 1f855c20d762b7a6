package port

import (
	"context"

	"github.com/jan-ice17/supermarket-inventory/internal/core/domain"
)

type ChangeSink interface {
	// ApplyChange replicates one logged mutation. Applying the same change
	// twice must leave the sink unchanged.
	ApplyChange(ctx context.Context, change domain.Change) error
}
