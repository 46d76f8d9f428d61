package partner

import (
	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeCustomer = "Customer"

// Event type constants
const (
	EventTypeCustomerCreated    = "CustomerCreated"
	EventTypePurchaseRecorded   = "PurchaseRecorded"
	EventTypeLoyaltyTierChanged = "LoyaltyTierChanged"
	EventTypePointsRedeemed     = "PointsRedeemed"
	EventTypePatientAdded       = "PatientAdded"
)

// CustomerCreatedEvent is published when a new customer is registered
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID    `json:"customer_id"`
	Code       string       `json:"code"`
	Name       string       `json:"name"`
	Type       CustomerType `json:"type"`
	Phone      string       `json:"phone"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(customer *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		Code:            customer.Code,
		Name:            customer.Name,
		Type:            customer.Type,
		Phone:           customer.Phone,
	}
}

// PurchaseRecordedEvent is published when a purchase is added to the
// customer's lifetime total and points are accrued
type PurchaseRecordedEvent struct {
	shared.BaseDomainEvent
	CustomerID    uuid.UUID       `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	PointsAwarded int64           `json:"points_awarded"`
	PointsBalance int64           `json:"points_balance"`
	Tier          LoyaltyTier     `json:"tier"`
}

// NewPurchaseRecordedEvent creates a new PurchaseRecordedEvent
func NewPurchaseRecordedEvent(customer *Customer, amount decimal.Decimal, points int64) *PurchaseRecordedEvent {
	return &PurchaseRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRecorded, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		Amount:          amount,
		PointsAwarded:   points,
		PointsBalance:   customer.LoyaltyPoints,
		Tier:            customer.Tier,
	}
}

// LoyaltyTierChangedEvent is published when a customer crosses a tier threshold
type LoyaltyTierChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID   `json:"customer_id"`
	OldTier    LoyaltyTier `json:"old_tier"`
	NewTier    LoyaltyTier `json:"new_tier"`
}

// NewLoyaltyTierChangedEvent creates a new LoyaltyTierChangedEvent
func NewLoyaltyTierChangedEvent(customer *Customer, oldTier, newTier LoyaltyTier) *LoyaltyTierChangedEvent {
	return &LoyaltyTierChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoyaltyTierChanged, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		OldTier:         oldTier,
		NewTier:         newTier,
	}
}

// PointsRedeemedEvent is published when loyalty points are exchanged
// for a discount
type PointsRedeemedEvent struct {
	shared.BaseDomainEvent
	CustomerID     uuid.UUID       `json:"customer_id"`
	PointsRedeemed int64           `json:"points_redeemed"`
	Discount       decimal.Decimal `json:"discount"`
	PointsBalance  int64           `json:"points_balance"`
}

// NewPointsRedeemedEvent creates a new PointsRedeemedEvent
func NewPointsRedeemedEvent(customer *Customer, points int64, discount decimal.Decimal) *PointsRedeemedEvent {
	return &PointsRedeemedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePointsRedeemed, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		PointsRedeemed:  points,
		Discount:        discount,
		PointsBalance:   customer.LoyaltyPoints,
	}
}

// PatientAddedEvent is published when a patient is attached to an account
type PatientAddedEvent struct {
	shared.BaseDomainEvent
	CustomerID  uuid.UUID `json:"customer_id"`
	PatientID   uuid.UUID `json:"patient_id"`
	PatientName string    `json:"patient_name"`
}

// NewPatientAddedEvent creates a new PatientAddedEvent
func NewPatientAddedEvent(customer *Customer, patient *Patient) *PatientAddedEvent {
	return &PatientAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePatientAdded, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		PatientID:       patient.ID,
		PatientName:     patient.Name,
	}
}
