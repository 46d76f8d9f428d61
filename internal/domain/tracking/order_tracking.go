package tracking

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/shared"
)

// StatusOrdered is the status every tracking record starts in.
// Beyond the seed, status codes are opaque strings owned by the
// fulfillment side (LENS_ORDERED, FITTING, READY, DELIVERED, ...);
// this aggregate records transitions without judging their order.
const StatusOrdered = "ORDERED"

// initialNote is the note attached to the seeded first history entry
const initialNote = "Order placed"

// StatusEntry is one line in a tracking record's status history
type StatusEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TrackingID uuid.UUID `gorm:"type:uuid;not null;index" json:"tracking_id"`
	Sequence   int       `gorm:"not null" json:"sequence"`
	Status     string    `gorm:"type:varchar(50);not null" json:"status"`
	Note       string    `gorm:"type:text" json:"note"`
	RecordedAt time.Time `gorm:"not null" json:"recorded_at"`
}

// TableName returns the table name for GORM
func (StatusEntry) TableName() string {
	return "tracking_status_entries"
}

// OrderTracking is the aggregate root for one order's public tracking record.
// The history is append-only: entries are never rewritten or removed, and
// the token issued at creation never changes.
type OrderTracking struct {
	shared.BaseAggregateRoot
	OrderID       uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex"`
	OrderNumber   string        `gorm:"type:varchar(50);not null;index"`
	CustomerID    uuid.UUID     `gorm:"type:uuid;not null;index"`
	CustomerPhone string        `gorm:"type:varchar(50)"` // Snapshot at creation, may be empty
	CurrentStatus string        `gorm:"type:varchar(50);not null"`
	ExpectedDate  *time.Time    `gorm:""`
	Token         string        `gorm:"type:varchar(16);not null;uniqueIndex"`
	TrackingURL   string        `gorm:"type:varchar(500);not null"`
	History       []StatusEntry `gorm:"-"`
}

// TableName returns the table name for GORM
func (OrderTracking) TableName() string {
	return "order_trackings"
}

// NewOrderTracking creates a tracking record for an order, issuing the given
// public token and seeding the history with the initial ORDERED entry.
// customerPhone is a best-effort snapshot and may be empty when the customer
// could not be resolved.
func NewOrderTracking(orderID uuid.UUID, orderNumber string, customerID uuid.UUID, customerPhone, token, publicBaseURL string, expectedDate *time.Time) (*OrderTracking, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order number cannot be empty")
	}
	if err := ValidateToken(token); err != nil {
		return nil, err
	}

	t := &OrderTracking{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		CustomerPhone:     customerPhone,
		CurrentStatus:     StatusOrdered,
		ExpectedDate:      expectedDate,
		Token:             token,
		TrackingURL:       ComposeTrackingURL(publicBaseURL, token),
		History:           make([]StatusEntry, 0, 1),
	}
	t.appendEntry(StatusOrdered, initialNote)

	t.AddDomainEvent(NewTrackingCreatedEvent(t))

	return t, nil
}

// ComposeTrackingURL embeds a token in the public lookup base path
func ComposeTrackingURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/track/" + token
}

// UpdateStatus sets the current status and appends a history entry with the
// given note. Repeating the previous status is legal and still recorded;
// the history is an audit trail, not a deduplicated state set.
func (t *OrderTracking) UpdateStatus(status, note string) error {
	if status == "" {
		return shared.NewDomainError("INVALID_STATUS", "Status cannot be empty")
	}
	if len(status) > 50 {
		return shared.NewDomainError("INVALID_STATUS", "Status cannot exceed 50 characters")
	}

	previous := t.CurrentStatus
	t.CurrentStatus = status
	entry := t.appendEntry(status, note)

	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTrackingStatusUpdatedEvent(t, previous, entry))

	return nil
}

// appendEntry adds a history entry with the next sequence number
func (t *OrderTracking) appendEntry(status, note string) StatusEntry {
	entry := StatusEntry{
		ID:         uuid.New(),
		TrackingID: t.ID,
		Sequence:   len(t.History) + 1,
		Status:     status,
		Note:       note,
		RecordedAt: time.Now(),
	}
	t.History = append(t.History, entry)
	return entry
}

// LastEntry returns the most recent history entry
func (t *OrderTracking) LastEntry() *StatusEntry {
	if len(t.History) == 0 {
		return nil
	}
	return &t.History[len(t.History)-1]
}

// ValidateToken checks that a token has the shape this aggregate issues:
// exactly eight uppercase letters or digits.
func ValidateToken(token string) error {
	if len(token) != TokenLength {
		return shared.NewDomainError("INVALID_TOKEN", "Tracking token must be 8 characters")
	}
	for _, r := range token {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return shared.NewDomainError("INVALID_TOKEN", "Tracking token must be uppercase letters and digits")
		}
	}
	return nil
}
