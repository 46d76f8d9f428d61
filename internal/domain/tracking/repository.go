package tracking

import (
	"context"

	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/shared"
)

// Repository defines the interface for order tracking persistence
type Repository interface {
	// FindByID finds a tracking record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*OrderTracking, error)

	// FindByOrderID finds the tracking record attached to an order
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*OrderTracking, error)

	// FindByToken resolves a public token to its tracking record.
	// The lookup must be exact-match and side-effect-free; an unknown
	// token is a plain not-found, never a different error.
	FindByToken(ctx context.Context, token string) (*OrderTracking, error)

	// FindByCustomer returns all tracking records for a customer,
	// newest first
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]OrderTracking, error)

	// ExistsByToken checks whether a token is already issued
	ExistsByToken(ctx context.Context, token string) (bool, error)

	// Save creates or updates a tracking record together with any
	// history entries appended since the last save
	Save(ctx context.Context, t *OrderTracking) error

	// SaveWithLock saves a tracking record with optimistic locking.
	// Returns ErrConcurrencyConflict if the stored version has moved on.
	SaveWithLock(ctx context.Context, t *OrderTracking) error
}
