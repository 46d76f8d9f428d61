package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/partner"
	"github.com/optierp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// CreateCustomerRequest represents a request to register a new customer
type CreateCustomerRequest struct {
	Type            string `json:"type" binding:"required,oneof=individual business"`
	Name            string `json:"name" binding:"required,min=1,max=200"`
	Phone           string `json:"phone" binding:"required,min=1,max=50"`
	Email           string `json:"email" binding:"omitempty,email,max=200"`
	TaxID           string `json:"tax_id" binding:"max=50"`
	BillingAddress  string `json:"billing_address" binding:"max=500"`
	ShippingAddress string `json:"shipping_address" binding:"max=500"`
	Segment         string `json:"segment" binding:"max=50"`
}

// UpdateSegmentRequest represents a request to retag a customer's segment
type UpdateSegmentRequest struct {
	Segment string `json:"segment" binding:"max=50"`
}

// SetCreditTermsRequest represents a request to change a customer's credit terms
type SetCreditTermsRequest struct {
	Allowed bool            `json:"allowed"`
	Limit   decimal.Decimal `json:"limit"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID              uuid.UUID       `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	Status          string          `json:"status"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email"`
	TaxID           string          `json:"tax_id"`
	TaxCode         string          `json:"tax_code"`
	BillingAddress  string          `json:"billing_address"`
	ShippingAddress string          `json:"shipping_address"`
	Segment         string          `json:"segment"`
	LoyaltyPoints   int64           `json:"loyalty_points"`
	Tier            string          `json:"tier"`
	TotalPurchases  decimal.Decimal `json:"total_purchases"`
	CreditAllowed   bool            `json:"credit_allowed"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	CreditBalance   decimal.Decimal `json:"credit_balance"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// CustomerListResponse represents a list item for customers
type CustomerListResponse struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Segment       string    `json:"segment"`
	Tier          string    `json:"tier"`
	LoyaltyPoints int64     `json:"loyalty_points"`
	CreatedAt     time.Time `json:"created_at"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Type     string `form:"type" binding:"omitempty,oneof=individual business"`
	Tier     string `form:"tier" binding:"omitempty,oneof=bronze silver gold platinum"`
	Segment  string `form:"segment"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CustomerSummaryResponse is the read-only projection consumed by the
// reporting and document-generation sides. It carries no internal state
// beyond what printed documents and dashboards need.
type CustomerSummaryResponse struct {
	ID             uuid.UUID         `json:"id"`
	Code           string            `json:"code"`
	Name           string            `json:"name"`
	Phone          string            `json:"phone"`
	Email          string            `json:"email"`
	Type           string            `json:"type"`
	Tier           string            `json:"tier"`
	LoyaltyPoints  int64             `json:"loyalty_points"`
	TotalPurchases valueobject.Money `json:"total_purchases"`
	PatientCount   int               `json:"patient_count"`
	Active         bool              `json:"active"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		Code:            c.Code,
		Name:            c.Name,
		Type:            string(c.Type),
		Status:          string(c.Status),
		Phone:           c.Phone,
		Email:           c.Email,
		TaxID:           c.TaxID,
		TaxCode:         c.TaxCode,
		BillingAddress:  c.BillingAddress,
		ShippingAddress: c.ShippingAddress,
		Segment:         c.Segment,
		LoyaltyPoints:   c.LoyaltyPoints,
		Tier:            string(c.Tier),
		TotalPurchases:  c.TotalPurchases,
		CreditAllowed:   c.CreditAllowed,
		CreditLimit:     c.CreditLimit,
		CreditBalance:   c.CreditBalance,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Version:         c.Version,
	}
}

// ToCustomerListResponse converts a domain Customer to CustomerListResponse
func ToCustomerListResponse(c *partner.Customer) CustomerListResponse {
	return CustomerListResponse{
		ID:            c.ID,
		Code:          c.Code,
		Name:          c.Name,
		Type:          string(c.Type),
		Status:        string(c.Status),
		Phone:         c.Phone,
		Email:         c.Email,
		Segment:       c.Segment,
		Tier:          string(c.Tier),
		LoyaltyPoints: c.LoyaltyPoints,
		CreatedAt:     c.CreatedAt,
	}
}

// ToCustomerListResponses converts a slice of domain Customers to CustomerListResponses
func ToCustomerListResponses(customers []partner.Customer) []CustomerListResponse {
	responses := make([]CustomerListResponse, len(customers))
	for i, c := range customers {
		responses[i] = ToCustomerListResponse(&c)
	}
	return responses
}

// ToCustomerSummaryResponse converts a domain Customer to CustomerSummaryResponse
func ToCustomerSummaryResponse(c *partner.Customer, patientCount int) CustomerSummaryResponse {
	return CustomerSummaryResponse{
		ID:             c.ID,
		Code:           c.Code,
		Name:           c.Name,
		Phone:          c.Phone,
		Email:          c.Email,
		Type:           string(c.Type),
		Tier:           string(c.Tier),
		LoyaltyPoints:  c.LoyaltyPoints,
		TotalPurchases: valueobject.NewMoneyINR(c.TotalPurchases),
		PatientCount:   patientCount,
		Active:         c.IsActive(),
	}
}

// =============================================================================
// Patient DTOs
// =============================================================================

// AddPatientRequest represents a request to attach a patient to a customer
type AddPatientRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=200"`
	Phone       string     `json:"phone" binding:"max=50"`
	BirthDate   *time.Time `json:"birth_date"`
	Anniversary *time.Time `json:"anniversary"`
}

// PatientResponse represents a patient in API responses
type PatientResponse struct {
	ID          uuid.UUID  `json:"id"`
	CustomerID  uuid.UUID  `json:"customer_id"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Anniversary *time.Time `json:"anniversary,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToPatientResponse converts a domain Patient to PatientResponse
func ToPatientResponse(p *partner.Patient) PatientResponse {
	return PatientResponse{
		ID:          p.ID,
		CustomerID:  p.CustomerID,
		Name:        p.Name,
		Phone:       p.Phone,
		BirthDate:   p.BirthDate,
		Anniversary: p.Anniversary,
		CreatedAt:   p.CreatedAt,
	}
}

// ToPatientResponses converts a slice of domain Patients to PatientResponses
func ToPatientResponses(patients []partner.Patient) []PatientResponse {
	responses := make([]PatientResponse, len(patients))
	for i, p := range patients {
		responses[i] = ToPatientResponse(&p)
	}
	return responses
}

// =============================================================================
// Loyalty DTOs
// =============================================================================

// RecordPurchaseRequest represents a completed purchase to post to the ledger
type RecordPurchaseRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// RecordPurchaseResponse reports the ledger state after posting a purchase
type RecordPurchaseResponse struct {
	CustomerID     uuid.UUID       `json:"customer_id"`
	PointsAwarded  int64           `json:"points_awarded"`
	PointsBalance  int64           `json:"points_balance"`
	Tier           string          `json:"tier"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
}

// RedeemPointsRequest represents a request to exchange points for a discount
type RedeemPointsRequest struct {
	Points int64 `json:"points" binding:"required,gt=0"`
}

// RedeemPointsResponse reports the discount granted and the remaining balance.
// The discount carries its currency so point-of-sale consumers do not have to
// assume one.
type RedeemPointsResponse struct {
	CustomerID    uuid.UUID         `json:"customer_id"`
	Discount      valueobject.Money `json:"discount"`
	PointsBalance int64             `json:"points_balance"`
}
