package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByCode finds a customer by its human-readable code
	FindByCode(ctx context.Context, code string) (*Customer, error)

	// FindByPhone finds a customer by its primary contact number
	FindByPhone(ctx context.Context, phone string) (*Customer, error)

	// ExistsByPhone checks whether any customer, active or not, holds the
	// given contact number
	ExistsByPhone(ctx context.Context, phone string) (bool, error)

	// Search matches customers whose name contains the query
	// (case-insensitive) or whose phone contains it, returning at most
	// limit results in insertion order
	Search(ctx context.Context, query string, limit int) ([]Customer, error)

	// FindAll finds all customers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// Count counts customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// SaveWithLock saves a customer with optimistic locking (version check).
	// Returns ErrConcurrencyConflict if the stored version has moved on.
	SaveWithLock(ctx context.Context, customer *Customer) error

	// GenerateCode reserves and returns the next sequential customer code.
	// The underlying counter must never repeat or regress, including under
	// concurrent creates.
	GenerateCode(ctx context.Context) (string, error)
}

// PatientRepository defines the interface for patient persistence
type PatientRepository interface {
	// FindByID finds a patient by its own identifier
	FindByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// FindByCustomer returns all patients under a customer in insertion order
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Patient, error)

	// Save creates or updates a patient
	Save(ctx context.Context, patient *Patient) error
}
