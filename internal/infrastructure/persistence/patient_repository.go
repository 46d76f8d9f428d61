package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/partner"
	"github.com/optierp/backend/internal/domain/shared"
	"github.com/optierp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPatientRepository implements PatientRepository using GORM
type GormPatientRepository struct {
	db *gorm.DB
}

// NewGormPatientRepository creates a new GormPatientRepository
func NewGormPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

// FindByID finds a patient by its own identifier
func (r *GormPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Patient, error) {
	var model models.PatientModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer returns all patients under a customer in insertion order
func (r *GormPatientRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]partner.Patient, error) {
	var patientModels []models.PatientModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&patientModels).Error; err != nil {
		return nil, err
	}

	patients := make([]partner.Patient, len(patientModels))
	for i, model := range patientModels {
		patients[i] = *model.ToDomain()
	}
	return patients, nil
}

// Save creates or updates a patient
func (r *GormPatientRepository) Save(ctx context.Context, patient *partner.Patient) error {
	model := models.PatientModelFromDomain(patient)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormPatientRepository implements PatientRepository
var _ partner.PatientRepository = (*GormPatientRepository)(nil)
