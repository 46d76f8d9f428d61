package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/partner"
	"github.com/optierp/backend/internal/domain/shared"
	"github.com/optierp/backend/internal/domain/shared/valueobject"
)

// maxRetries bounds reload attempts when an optimistic lock save loses the race
const maxRetries = 3

// LoyaltyService posts purchases and redemptions to customer point ledgers.
// Concurrent postings against one customer serialize through optimistic
// locking with reload-and-retry, so the non-negative balance and the
// monotonic tier survive interleaved requests.
type LoyaltyService struct {
	customerRepo partner.CustomerRepository
}

// NewLoyaltyService creates a new LoyaltyService
func NewLoyaltyService(customerRepo partner.CustomerRepository) *LoyaltyService {
	return &LoyaltyService{
		customerRepo: customerRepo,
	}
}

// RecordPurchase adds a completed purchase to the customer's lifetime total,
// accrues floor(amount/100) points, and promotes the tier when a threshold
// is crossed
func (s *LoyaltyService) RecordPurchase(ctx context.Context, customerID uuid.UUID, req RecordPurchaseRequest) (*RecordPurchaseResponse, error) {
	var response *RecordPurchaseResponse

	err := s.withCustomerRetry(ctx, customerID, func(customer *partner.Customer) error {
		points, err := customer.RecordPurchase(req.Amount)
		if err != nil {
			return err
		}
		response = &RecordPurchaseResponse{
			CustomerID:     customer.ID,
			PointsAwarded:  points,
			PointsBalance:  customer.LoyaltyPoints,
			Tier:           string(customer.Tier),
			TotalPurchases: customer.TotalPurchases,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}

// RedeemPoints exchanges points for a discount at one currency-minor-unit
// per point. Redemption leaves the lifetime total and tier untouched and
// never drives the balance negative.
func (s *LoyaltyService) RedeemPoints(ctx context.Context, customerID uuid.UUID, req RedeemPointsRequest) (*RedeemPointsResponse, error) {
	var response *RedeemPointsResponse

	err := s.withCustomerRetry(ctx, customerID, func(customer *partner.Customer) error {
		discount, err := customer.RedeemPoints(req.Points)
		if err != nil {
			return err
		}
		response = &RedeemPointsResponse{
			CustomerID:    customer.ID,
			Discount:      valueobject.NewMoneyINR(discount),
			PointsBalance: customer.LoyaltyPoints,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}

// Balance reports the current point balance and tier without mutating anything
func (s *LoyaltyService) Balance(ctx context.Context, customerID uuid.UUID) (*RecordPurchaseResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &RecordPurchaseResponse{
		CustomerID:     customer.ID,
		PointsAwarded:  0,
		PointsBalance:  customer.LoyaltyPoints,
		Tier:           string(customer.Tier),
		TotalPurchases: customer.TotalPurchases,
	}, nil
}

// withCustomerRetry loads the customer, applies the mutation, and saves with
// a version check. A concurrent writer forces a reload and replay; domain
// failures abort immediately without a retry.
func (s *LoyaltyService) withCustomerRetry(ctx context.Context, customerID uuid.UUID, mutate func(*partner.Customer) error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		customer, err := s.customerRepo.FindByID(ctx, customerID)
		if err != nil {
			return err
		}

		if err := mutate(customer); err != nil {
			return err
		}

		err = s.customerRepo.SaveWithLock(ctx, customer)
		if err == nil {
			return nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
		lastErr = err
	}

	return lastErr
}
