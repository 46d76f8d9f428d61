package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/optierp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// CustomerType represents the type of customer
type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "individual" // Walk-in/personal customer
	CustomerTypeBusiness   CustomerType = "business"   // Company/institutional account
)

// LoyaltyTier represents the customer's loyalty grade.
// Tiers are ordered and derived solely from lifetime purchase total;
// a customer's tier never moves down once reached.
type LoyaltyTier string

const (
	TierBronze   LoyaltyTier = "bronze"
	TierSilver   LoyaltyTier = "silver"
	TierGold     LoyaltyTier = "gold"
	TierPlatinum LoyaltyTier = "platinum"
)

// tierRank orders tiers for monotonicity checks
var tierRank = map[LoyaltyTier]int{
	TierBronze:   0,
	TierSilver:   1,
	TierGold:     2,
	TierPlatinum: 3,
}

// Lifetime-purchase thresholds for tier promotion, in currency minor units
var (
	silverThreshold   = decimal.NewFromInt(25000)
	goldThreshold     = decimal.NewFromInt(50000)
	platinumThreshold = decimal.NewFromInt(100000)
)

// pointsPerUnit is the spend required to earn one loyalty point
var pointsPerUnit = decimal.NewFromInt(100)

// TierForTotal returns the highest tier whose threshold the given
// lifetime purchase total meets
func TierForTotal(total decimal.Decimal) LoyaltyTier {
	switch {
	case total.GreaterThanOrEqual(platinumThreshold):
		return TierPlatinum
	case total.GreaterThanOrEqual(goldThreshold):
		return TierGold
	case total.GreaterThanOrEqual(silverThreshold):
		return TierSilver
	default:
		return TierBronze
	}
}

// Rank returns the ordinal position of the tier (bronze = 0)
func (t LoyaltyTier) Rank() int {
	return tierRank[t]
}

// Customer represents a customer account in the partner context.
// It is the aggregate root for directory, loyalty, and patient operations.
type Customer struct {
	shared.BaseAggregateRoot
	Code            string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Type            CustomerType    `gorm:"type:varchar(20);not null;default:'individual'"`
	Status          CustomerStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	Phone           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Email           string          `gorm:"type:varchar(200);index"`
	TaxID           string          `gorm:"type:varchar(50)"`  // Registration number for business accounts
	TaxCode         string          `gorm:"type:varchar(20)"`  // Derived from TaxID, used on printed documents
	BillingAddress  string          `gorm:"type:text"`
	ShippingAddress string          `gorm:"type:text"`
	Segment         string          `gorm:"type:varchar(50);index"` // Marketing segment tag
	LoyaltyPoints   int64           `gorm:"not null;default:0"`
	Tier            LoyaltyTier     `gorm:"type:varchar(20);not null;default:'bronze'"`
	TotalPurchases  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreditAllowed   bool            `gorm:"not null;default:false"`
	CreditLimit     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreditBalance   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Patients        []Patient       `gorm:"-"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields.
// Uniqueness of the phone across the directory is enforced by the
// application service; the aggregate only validates shape.
func NewCustomer(code, name, phone string, customerType CustomerType) (*Customer, error) {
	if err := validateCustomerCode(code); err != nil {
		return nil, err
	}
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if err := validateCustomerType(customerType); err != nil {
		return nil, err
	}
	if err := validatePhone(phone); err != nil {
		return nil, err
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Type:              customerType,
		Status:            CustomerStatusActive,
		Phone:             phone,
		Tier:              TierBronze,
		TotalPurchases:    decimal.Zero,
		CreditLimit:       decimal.Zero,
		CreditBalance:     decimal.Zero,
		Patients:          make([]Patient, 0),
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// SetEmail sets the customer's email address
func (c *Customer) SetEmail(email string) error {
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	c.Email = email
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetTaxID sets the registration number for a business account and derives
// the secondary tax code from it. The code is the ten characters starting at
// offset 2; registrations shorter than twelve characters yield no code.
func (c *Customer) SetTaxID(taxID string) error {
	if taxID != "" && len(taxID) > 50 {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax ID cannot exceed 50 characters")
	}

	c.TaxID = taxID
	c.TaxCode = DeriveTaxCode(taxID)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// DeriveTaxCode extracts the secondary tax identifier embedded in a
// registration number. Must stay byte-for-byte compatible with codes
// already printed on customer documents.
func DeriveTaxCode(taxID string) string {
	if len(taxID) < 12 {
		return ""
	}
	return taxID[2:12]
}

// SetAddresses sets the billing and shipping addresses
func (c *Customer) SetAddresses(billing, shipping string) error {
	if len(billing) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Billing address cannot exceed 500 characters")
	}
	if len(shipping) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Shipping address cannot exceed 500 characters")
	}

	c.BillingAddress = billing
	c.ShippingAddress = shipping
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetSegment sets the marketing segment tag
func (c *Customer) SetSegment(segment string) error {
	if len(segment) > 50 {
		return shared.NewDomainError("INVALID_SEGMENT", "Segment cannot exceed 50 characters")
	}

	c.Segment = segment
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetCreditTerms enables or disables credit for the account and sets the limit
func (c *Customer) SetCreditTerms(allowed bool, limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}

	c.CreditAllowed = allowed
	c.CreditLimit = limit
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// RecordPurchase adds a completed purchase to the customer's lifetime total,
// accrues loyalty points at one point per hundred minor units spent, and
// promotes the tier when a threshold is crossed. Fractional spend below the
// accrual unit earns nothing and is not carried forward.
// Returns the number of points awarded.
func (c *Customer) RecordPurchase(amount decimal.Decimal) (int64, error) {
	if amount.IsNegative() {
		return 0, shared.NewDomainError("INVALID_AMOUNT", "Purchase amount cannot be negative")
	}

	points := amount.Div(pointsPerUnit).Floor().IntPart()

	c.TotalPurchases = c.TotalPurchases.Add(amount)
	c.LoyaltyPoints += points

	// Tier only ever moves up: lifetime total is monotonic, so the
	// recomputed tier can never rank below the current one, but the
	// guard keeps the invariant explicit.
	newTier := TierForTotal(c.TotalPurchases)
	if newTier.Rank() > c.Tier.Rank() {
		oldTier := c.Tier
		c.Tier = newTier
		c.AddDomainEvent(NewLoyaltyTierChangedEvent(c, oldTier, newTier))
	}

	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewPurchaseRecordedEvent(c, amount, points))

	return points, nil
}

// RedeemPoints deducts points from the balance and returns the discount
// value at the fixed one-point-per-minor-unit exchange rate. Redemption
// never touches the lifetime purchase total or the tier.
func (c *Customer) RedeemPoints(points int64) (decimal.Decimal, error) {
	if points <= 0 {
		return decimal.Zero, shared.NewDomainError("INVALID_POINTS", "Points to redeem must be positive")
	}
	if points > c.LoyaltyPoints {
		return decimal.Zero, shared.ErrInsufficientPoints
	}

	c.LoyaltyPoints -= points
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	discount := decimal.NewFromInt(points)
	c.AddDomainEvent(NewPointsRedeemedEvent(c, points, discount))

	return discount, nil
}

// AddPatient attaches a patient to the customer's collection.
// Order of insertion is preserved.
func (c *Customer) AddPatient(patient *Patient) {
	c.Patients = append(c.Patients, *patient)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewPatientAddedEvent(c, patient))
}

// Activate activates the customer
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Customer is already active")
	}

	c.Status = CustomerStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Deactivate soft-deactivates the customer. Records are never hard-deleted;
// an inactive customer keeps its code, phone, and loyalty history.
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Customer is already inactive")
	}

	c.Status = CustomerStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IsActive returns true if the customer is active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// IsBusiness returns true if the customer is a business account
func (c *Customer) IsBusiness() bool {
	return c.Type == CustomerTypeBusiness
}

// Validation functions

func validateCustomerCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Customer code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Customer code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Customer code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validateCustomerType(t CustomerType) error {
	switch t {
	case CustomerTypeIndividual, CustomerTypeBusiness:
		return nil
	default:
		return shared.NewDomainError("INVALID_TYPE", "Customer type must be 'individual' or 'business'")
	}
}

var phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)

func validatePhone(phone string) error {
	if phone == "" {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot be empty")
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	if !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
