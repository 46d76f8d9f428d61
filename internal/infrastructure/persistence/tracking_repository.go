package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/shared"
	"github.com/optierp/backend/internal/domain/tracking"
	"github.com/optierp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTrackingRepository implements tracking.Repository using GORM
type GormTrackingRepository struct {
	db *gorm.DB
}

// NewGormTrackingRepository creates a new GormTrackingRepository
func NewGormTrackingRepository(db *gorm.DB) *GormTrackingRepository {
	return &GormTrackingRepository{db: db}
}

// FindByID finds a tracking record by its ID
func (r *GormTrackingRepository) FindByID(ctx context.Context, id uuid.UUID) (*tracking.OrderTracking, error) {
	var model models.OrderTrackingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrTrackingNotFound
		}
		return nil, err
	}
	return r.withHistory(ctx, &model)
}

// FindByOrderID finds the tracking record attached to an order
func (r *GormTrackingRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*tracking.OrderTracking, error) {
	var model models.OrderTrackingModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrTrackingNotFound
		}
		return nil, err
	}
	return r.withHistory(ctx, &model)
}

// FindByToken resolves a public token to its tracking record. The token
// column carries a unique index; the lookup reads nothing else and writes
// nothing, so it is safe on the public endpoint.
func (r *GormTrackingRepository) FindByToken(ctx context.Context, token string) (*tracking.OrderTracking, error) {
	var model models.OrderTrackingModel
	if err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrTrackingNotFound
		}
		return nil, err
	}
	return r.withHistory(ctx, &model)
}

// FindByCustomer returns all tracking records for a customer, newest first
func (r *GormTrackingRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]tracking.OrderTracking, error) {
	query := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var trackingModels []models.OrderTrackingModel
	if err := query.Find(&trackingModels).Error; err != nil {
		return nil, err
	}

	records := make([]tracking.OrderTracking, len(trackingModels))
	for i := range trackingModels {
		record, err := r.withHistory(ctx, &trackingModels[i])
		if err != nil {
			return nil, err
		}
		records[i] = *record
	}
	return records, nil
}

// ExistsByToken checks whether a token is already issued
func (r *GormTrackingRepository) ExistsByToken(ctx context.Context, token string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderTrackingModel{}).
		Where("token = ?", token).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a tracking record together with its history.
// Entry rows are immutable, so existing ones are skipped on conflict and
// only newly appended entries actually insert.
func (r *GormTrackingRepository) Save(ctx context.Context, t *tracking.OrderTracking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.OrderTrackingModelFromDomain(t)
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		return r.saveEntries(tx, t)
	})
}

// SaveWithLock saves a tracking record with optimistic locking (version check)
func (r *GormTrackingRepository) SaveWithLock(ctx context.Context, t *tracking.OrderTracking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.OrderTrackingModelFromDomain(t)
		result := tx.Model(model).
			Where("id = ? AND version = ?", t.ID, t.Version-1).
			Select("*").
			Updates(model)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.saveEntries(tx, t)
	})
}

func (r *GormTrackingRepository) saveEntries(tx *gorm.DB, t *tracking.OrderTracking) error {
	if len(t.History) == 0 {
		return nil
	}
	entryModels := make([]*models.StatusEntryModel, len(t.History))
	for i, e := range t.History {
		entryModels[i] = models.StatusEntryModelFromDomain(e)
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(entryModels).Error
}

// withHistory attaches the ordered status history to a loaded aggregate
func (r *GormTrackingRepository) withHistory(ctx context.Context, model *models.OrderTrackingModel) (*tracking.OrderTracking, error) {
	var entryModels []models.StatusEntryModel
	if err := r.db.WithContext(ctx).
		Where("tracking_id = ?", model.ID).
		Order("sequence ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}

	record := model.ToDomain()
	record.History = make([]tracking.StatusEntry, len(entryModels))
	for i, e := range entryModels {
		record.History[i] = e.ToDomain()
	}
	return record, nil
}

// Ensure GormTrackingRepository implements tracking.Repository
var _ tracking.Repository = (*GormTrackingRepository)(nil)
