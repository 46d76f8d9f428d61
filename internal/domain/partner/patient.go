package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/shared"
)

// Patient represents a dependent receiving service under a customer account,
// such as a family member with their own prescription history. A patient has
// no lifetime of its own: it is created under a customer and stays there.
type Patient struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name        string     `gorm:"type:varchar(200);not null"`
	Phone       string     `gorm:"type:varchar(50)"` // Defaults to the owning customer's phone
	BirthDate   *time.Time `gorm:"type:date"`
	Anniversary *time.Time `gorm:"type:date"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (Patient) TableName() string {
	return "patients"
}

// NewPatient creates a new patient under the given customer.
// An empty phone falls back to the owner's contact number.
func NewPatient(customerID uuid.UUID, name, phone, ownerPhone string, birthDate, anniversary *time.Time) (*Patient, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Patient name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Patient name cannot exceed 200 characters")
	}
	if phone == "" {
		phone = ownerPhone
	} else if err := validatePhone(phone); err != nil {
		return nil, err
	}

	return &Patient{
		ID:          uuid.New(),
		CustomerID:  customerID,
		Name:        name,
		Phone:       phone,
		BirthDate:   birthDate,
		Anniversary: anniversary,
		CreatedAt:   time.Now(),
	}, nil
}
