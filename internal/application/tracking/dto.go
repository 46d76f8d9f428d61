package tracking

import (
	"time"

	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/tracking"
)

// CreateTrackingRequest opens a tracking record for a placed order
type CreateTrackingRequest struct {
	OrderID      uuid.UUID  `json:"order_id" binding:"required"`
	OrderNumber  string     `json:"order_number" binding:"required,min=1,max=50"`
	CustomerID   uuid.UUID  `json:"customer_id" binding:"required"`
	ExpectedDate *time.Time `json:"expected_date"`
}

// UpdateStatusRequest appends a status transition to a tracking record
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,min=1,max=50"`
	Note   string `json:"note" binding:"max=2000"`
}

// StatusEntryResponse is one history line in API responses
type StatusEntryResponse struct {
	Sequence   int       `json:"sequence"`
	Status     string    `json:"status"`
	Note       string    `json:"note"`
	RecordedAt time.Time `json:"recorded_at"`
}

// TrackingResponse represents a tracking record in API responses
type TrackingResponse struct {
	ID            uuid.UUID             `json:"id"`
	OrderID       uuid.UUID             `json:"order_id"`
	OrderNumber   string                `json:"order_number"`
	CustomerID    uuid.UUID             `json:"customer_id"`
	CustomerPhone string                `json:"customer_phone"`
	CurrentStatus string                `json:"current_status"`
	ExpectedDate  *time.Time            `json:"expected_date,omitempty"`
	Token         string                `json:"token"`
	TrackingURL   string                `json:"tracking_url"`
	History       []StatusEntryResponse `json:"history"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// PublicTrackingResponse is the view served on the unauthenticated token
// lookup. It carries only what the order's owner needs to see and no
// customer contact details or internal identifiers.
type PublicTrackingResponse struct {
	OrderNumber   string                `json:"order_number"`
	CurrentStatus string                `json:"current_status"`
	ExpectedDate  *time.Time            `json:"expected_date,omitempty"`
	History       []StatusEntryResponse `json:"history"`
}

// ToStatusEntryResponses converts domain history entries for API responses
func ToStatusEntryResponses(entries []tracking.StatusEntry) []StatusEntryResponse {
	responses := make([]StatusEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = StatusEntryResponse{
			Sequence:   e.Sequence,
			Status:     e.Status,
			Note:       e.Note,
			RecordedAt: e.RecordedAt,
		}
	}
	return responses
}

// ToTrackingResponse converts a domain OrderTracking to TrackingResponse
func ToTrackingResponse(t *tracking.OrderTracking) TrackingResponse {
	return TrackingResponse{
		ID:            t.ID,
		OrderID:       t.OrderID,
		OrderNumber:   t.OrderNumber,
		CustomerID:    t.CustomerID,
		CustomerPhone: t.CustomerPhone,
		CurrentStatus: t.CurrentStatus,
		ExpectedDate:  t.ExpectedDate,
		Token:         t.Token,
		TrackingURL:   t.TrackingURL,
		History:       ToStatusEntryResponses(t.History),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// ToTrackingResponses converts a slice of domain OrderTrackings
func ToTrackingResponses(trackings []tracking.OrderTracking) []TrackingResponse {
	responses := make([]TrackingResponse, len(trackings))
	for i, t := range trackings {
		responses[i] = ToTrackingResponse(&t)
	}
	return responses
}

// ToPublicTrackingResponse converts a domain OrderTracking to the public view
func ToPublicTrackingResponse(t *tracking.OrderTracking) PublicTrackingResponse {
	return PublicTrackingResponse{
		OrderNumber:   t.OrderNumber,
		CurrentStatus: t.CurrentStatus,
		ExpectedDate:  t.ExpectedDate,
		History:       ToStatusEntryResponses(t.History),
	}
}
