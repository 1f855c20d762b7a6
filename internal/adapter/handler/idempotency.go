package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/jan-ice17/supermarket-inventory/internal/port"
)

const idempotencyKeyPrefix = "request:"

var ErrDuplicateRequest = errors.New("duplicate request")

// claimRequest reserves key for one mutation. An empty key or a nil
// repository always succeeds.
func claimRequest(ctx context.Context, repo port.IdempotencyRepository, key string) error {
	if repo == nil || key == "" {
		return nil
	}

	ok, err := repo.SetIdempotency(ctx, idempotencyKeyPrefix+key)
	if err != nil {
		return fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		return ErrDuplicateRequest
	}
	return nil
}
