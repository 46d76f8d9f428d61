package tracking

import (
	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrderTracking = "OrderTracking"

// Event type constants
const (
	EventTypeTrackingCreated       = "TrackingCreated"
	EventTypeTrackingStatusUpdated = "TrackingStatusUpdated"
)

// TrackingCreatedEvent is published when a tracking record is opened
// for an order
type TrackingCreatedEvent struct {
	shared.BaseDomainEvent
	TrackingID  uuid.UUID `json:"tracking_id"`
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  uuid.UUID `json:"customer_id"`
	Token       string    `json:"token"`
}

// NewTrackingCreatedEvent creates a new TrackingCreatedEvent
func NewTrackingCreatedEvent(t *OrderTracking) *TrackingCreatedEvent {
	return &TrackingCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTrackingCreated, AggregateTypeOrderTracking, t.ID),
		TrackingID:      t.ID,
		OrderID:         t.OrderID,
		OrderNumber:     t.OrderNumber,
		CustomerID:      t.CustomerID,
		Token:           t.Token,
	}
}

// TrackingStatusUpdatedEvent is published for every appended history entry
type TrackingStatusUpdatedEvent struct {
	shared.BaseDomainEvent
	TrackingID     uuid.UUID `json:"tracking_id"`
	OrderID        uuid.UUID `json:"order_id"`
	PreviousStatus string    `json:"previous_status"`
	Status         string    `json:"status"`
	Note           string    `json:"note"`
	Sequence       int       `json:"sequence"`
}

// NewTrackingStatusUpdatedEvent creates a new TrackingStatusUpdatedEvent
func NewTrackingStatusUpdatedEvent(t *OrderTracking, previous string, entry StatusEntry) *TrackingStatusUpdatedEvent {
	return &TrackingStatusUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTrackingStatusUpdated, AggregateTypeOrderTracking, t.ID),
		TrackingID:      t.ID,
		OrderID:         t.OrderID,
		PreviousStatus:  previous,
		Status:          entry.Status,
		Note:            entry.Note,
		Sequence:        entry.Sequence,
	}
}
