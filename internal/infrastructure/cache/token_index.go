package cache

import (
	"context"

	"github.com/google/uuid"
)

// TokenIndex maps public tracking tokens to tracking record identifiers.
// It keeps the public lookup a constant-cost operation instead of a table
// scan as the record set grows. The index is a cache, never the source of
// truth: a miss falls through to storage.
type TokenIndex interface {
	// Get resolves a token to a tracking ID. The second return is false
	// on a miss.
	Get(ctx context.Context, token string) (uuid.UUID, bool, error)

	// Set records a token to tracking ID mapping
	Set(ctx context.Context, token string, trackingID uuid.UUID) error

	// Close releases any resources held by the index
	Close() error
}
