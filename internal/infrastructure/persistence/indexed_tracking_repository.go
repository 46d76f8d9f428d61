package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/shared"
	"github.com/optierp/backend/internal/domain/tracking"
	"github.com/optierp/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// IndexedTrackingRepository decorates a tracking repository with a token
// index so public token lookups resolve by primary key instead of the
// token column. Index failures degrade to the underlying lookup; the index
// is never authoritative.
type IndexedTrackingRepository struct {
	inner  tracking.Repository
	index  cache.TokenIndex
	logger *zap.Logger
}

// NewIndexedTrackingRepository wraps a repository with a token index
func NewIndexedTrackingRepository(inner tracking.Repository, index cache.TokenIndex, logger *zap.Logger) *IndexedTrackingRepository {
	return &IndexedTrackingRepository{
		inner:  inner,
		index:  index,
		logger: logger.Named("tracking_index"),
	}
}

// FindByID finds a tracking record by its ID
func (r *IndexedTrackingRepository) FindByID(ctx context.Context, id uuid.UUID) (*tracking.OrderTracking, error) {
	return r.inner.FindByID(ctx, id)
}

// FindByOrderID finds the tracking record attached to an order
func (r *IndexedTrackingRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*tracking.OrderTracking, error) {
	return r.inner.FindByOrderID(ctx, orderID)
}

// FindByToken resolves a token through the index first, falling back to the
// underlying repository on a miss or an index failure. Whatever path is
// taken, an unknown token stays a plain not-found.
func (r *IndexedTrackingRepository) FindByToken(ctx context.Context, token string) (*tracking.OrderTracking, error) {
	id, hit, err := r.index.Get(ctx, token)
	if err != nil {
		r.logger.Warn("token index lookup failed", zap.Error(err))
	} else if hit {
		record, err := r.inner.FindByID(ctx, id)
		if err == nil {
			// The index can go stale across re-imports; trust it only
			// when the stored token still matches.
			if record.Token == token {
				return record, nil
			}
			return nil, shared.ErrTrackingNotFound
		}
	}

	record, err := r.inner.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := r.index.Set(ctx, token, record.ID); err != nil {
		r.logger.Warn("token index backfill failed", zap.Error(err))
	}
	return record, nil
}

// FindByCustomer returns all tracking records for a customer, newest first
func (r *IndexedTrackingRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]tracking.OrderTracking, error) {
	return r.inner.FindByCustomer(ctx, customerID, filter)
}

// ExistsByToken checks whether a token is already issued
func (r *IndexedTrackingRepository) ExistsByToken(ctx context.Context, token string) (bool, error) {
	if _, hit, err := r.index.Get(ctx, token); err == nil && hit {
		return true, nil
	}
	return r.inner.ExistsByToken(ctx, token)
}

// Save persists the record and indexes its token
func (r *IndexedTrackingRepository) Save(ctx context.Context, t *tracking.OrderTracking) error {
	if err := r.inner.Save(ctx, t); err != nil {
		return err
	}
	if err := r.index.Set(ctx, t.Token, t.ID); err != nil {
		r.logger.Warn("token index update failed", zap.Error(err))
	}
	return nil
}

// SaveWithLock persists the record with a version check and indexes its token
func (r *IndexedTrackingRepository) SaveWithLock(ctx context.Context, t *tracking.OrderTracking) error {
	if err := r.inner.SaveWithLock(ctx, t); err != nil {
		return err
	}
	if err := r.index.Set(ctx, t.Token, t.ID); err != nil {
		r.logger.Warn("token index update failed", zap.Error(err))
	}
	return nil
}

// Ensure IndexedTrackingRepository implements tracking.Repository
var _ tracking.Repository = (*IndexedTrackingRepository)(nil)
