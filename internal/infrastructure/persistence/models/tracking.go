package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/shared"
	"github.com/optierp/backend/internal/domain/tracking"
)

// OrderTrackingModel is the persistence model for the OrderTracking aggregate.
// History entries live in their own table and are loaded by the repository.
type OrderTrackingModel struct {
	AggregateModel
	OrderID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	OrderNumber   string     `gorm:"type:varchar(50);not null;index"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerPhone string     `gorm:"type:varchar(50)"`
	CurrentStatus string     `gorm:"type:varchar(50);not null"`
	ExpectedDate  *time.Time `gorm:""`
	Token         string     `gorm:"type:varchar(16);not null;uniqueIndex"`
	TrackingURL   string     `gorm:"type:varchar(500);not null"`
}

// TableName returns the table name for GORM
func (OrderTrackingModel) TableName() string {
	return "order_trackings"
}

// ToDomain converts the persistence model to a domain OrderTracking aggregate
// without its history; the repository attaches entries separately.
func (m *OrderTrackingModel) ToDomain() *tracking.OrderTracking {
	return &tracking.OrderTracking{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		OrderID:       m.OrderID,
		OrderNumber:   m.OrderNumber,
		CustomerID:    m.CustomerID,
		CustomerPhone: m.CustomerPhone,
		CurrentStatus: m.CurrentStatus,
		ExpectedDate:  m.ExpectedDate,
		Token:         m.Token,
		TrackingURL:   m.TrackingURL,
	}
}

// OrderTrackingModelFromDomain creates a new persistence model from a domain aggregate.
func OrderTrackingModelFromDomain(t *tracking.OrderTracking) *OrderTrackingModel {
	m := &OrderTrackingModel{}
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.OrderID = t.OrderID
	m.OrderNumber = t.OrderNumber
	m.CustomerID = t.CustomerID
	m.CustomerPhone = t.CustomerPhone
	m.CurrentStatus = t.CurrentStatus
	m.ExpectedDate = t.ExpectedDate
	m.Token = t.Token
	m.TrackingURL = t.TrackingURL
	return m
}

// StatusEntryModel is the persistence model for one status history line.
// Rows are insert-only; the history never gets rewritten.
type StatusEntryModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	TrackingID uuid.UUID `gorm:"type:uuid;not null;index"`
	Sequence   int       `gorm:"not null"`
	Status     string    `gorm:"type:varchar(50);not null"`
	Note       string    `gorm:"type:text"`
	RecordedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StatusEntryModel) TableName() string {
	return "tracking_status_entries"
}

// ToDomain converts the persistence model to a domain StatusEntry.
func (m *StatusEntryModel) ToDomain() tracking.StatusEntry {
	return tracking.StatusEntry{
		ID:         m.ID,
		TrackingID: m.TrackingID,
		Sequence:   m.Sequence,
		Status:     m.Status,
		Note:       m.Note,
		RecordedAt: m.RecordedAt,
	}
}

// StatusEntryModelFromDomain creates a new persistence model from a domain StatusEntry.
func StatusEntryModelFromDomain(e tracking.StatusEntry) *StatusEntryModel {
	return &StatusEntryModel{
		ID:         e.ID,
		TrackingID: e.TrackingID,
		Sequence:   e.Sequence,
		Status:     e.Status,
		Note:       e.Note,
		RecordedAt: e.RecordedAt,
	}
}
