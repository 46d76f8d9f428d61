package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/partner"
	"github.com/optierp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	AggregateModel
	Code            string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string                 `gorm:"type:varchar(200);not null"`
	Type            partner.CustomerType   `gorm:"type:varchar(20);not null;default:'individual'"`
	Status          partner.CustomerStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Phone           string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	Email           string                 `gorm:"type:varchar(200);index"`
	TaxID           string                 `gorm:"type:varchar(50)"`
	TaxCode         string                 `gorm:"type:varchar(20)"`
	BillingAddress  string                 `gorm:"type:text"`
	ShippingAddress string                 `gorm:"type:text"`
	Segment         string                 `gorm:"type:varchar(50);index"`
	LoyaltyPoints   int64                  `gorm:"not null;default:0"`
	Tier            partner.LoyaltyTier    `gorm:"type:varchar(20);not null;default:'bronze'"`
	TotalPurchases  decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	CreditAllowed   bool                   `gorm:"not null;default:false"`
	CreditLimit     decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	CreditBalance   decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Code:            m.Code,
		Name:            m.Name,
		Type:            m.Type,
		Status:          m.Status,
		Phone:           m.Phone,
		Email:           m.Email,
		TaxID:           m.TaxID,
		TaxCode:         m.TaxCode,
		BillingAddress:  m.BillingAddress,
		ShippingAddress: m.ShippingAddress,
		Segment:         m.Segment,
		LoyaltyPoints:   m.LoyaltyPoints,
		Tier:            m.Tier,
		TotalPurchases:  m.TotalPurchases,
		CreditAllowed:   m.CreditAllowed,
		CreditLimit:     m.CreditLimit,
		CreditBalance:   m.CreditBalance,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.Type = c.Type
	m.Status = c.Status
	m.Phone = c.Phone
	m.Email = c.Email
	m.TaxID = c.TaxID
	m.TaxCode = c.TaxCode
	m.BillingAddress = c.BillingAddress
	m.ShippingAddress = c.ShippingAddress
	m.Segment = c.Segment
	m.LoyaltyPoints = c.LoyaltyPoints
	m.Tier = c.Tier
	m.TotalPurchases = c.TotalPurchases
	m.CreditAllowed = c.CreditAllowed
	m.CreditLimit = c.CreditLimit
	m.CreditBalance = c.CreditBalance
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// PatientModel is the persistence model for the Patient domain entity.
type PatientModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	CustomerID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name        string     `gorm:"type:varchar(200);not null"`
	Phone       string     `gorm:"type:varchar(50)"`
	BirthDate   *time.Time `gorm:"type:date"`
	Anniversary *time.Time `gorm:"type:date"`
	CreatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PatientModel) TableName() string {
	return "patients"
}

// ToDomain converts the persistence model to a domain Patient entity.
func (m *PatientModel) ToDomain() *partner.Patient {
	return &partner.Patient{
		ID:          m.ID,
		CustomerID:  m.CustomerID,
		Name:        m.Name,
		Phone:       m.Phone,
		BirthDate:   m.BirthDate,
		Anniversary: m.Anniversary,
		CreatedAt:   m.CreatedAt,
	}
}

// PatientModelFromDomain creates a new persistence model from a domain Patient entity.
func PatientModelFromDomain(p *partner.Patient) *PatientModel {
	return &PatientModel{
		ID:          p.ID,
		CustomerID:  p.CustomerID,
		Name:        p.Name,
		Phone:       p.Phone,
		BirthDate:   p.BirthDate,
		Anniversary: p.Anniversary,
		CreatedAt:   p.CreatedAt,
	}
}

// CodeSequenceModel backs the sequential customer-code counter. Each row is
// one counter scope (e.g. "customer-202501"); increments happen atomically
// in SQL so concurrent creates never reuse a value.
type CodeSequenceModel struct {
	Scope string `gorm:"type:varchar(50);primary_key"`
	Value int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CodeSequenceModel) TableName() string {
	return "code_sequences"
}
