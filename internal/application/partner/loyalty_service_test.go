package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/shared"
	"github.com/optierp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLoyaltyServiceRecordPurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("posts purchase and reports new ledger state", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		service := NewLoyaltyService(customerRepo)

		customer := newTestCustomer(t)
		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		customerRepo.On("SaveWithLock", ctx, customer).Return(nil)

		resp, err := service.RecordPurchase(ctx, customer.ID, RecordPurchaseRequest{
			Amount: decimal.NewFromInt(15000),
		})

		require.NoError(t, err)
		assert.Equal(t, int64(150), resp.PointsAwarded)
		assert.Equal(t, int64(150), resp.PointsBalance)
		assert.Equal(t, "bronze", resp.Tier)
		assert.True(t, resp.TotalPurchases.Equal(decimal.NewFromInt(15000)))
	})

	t.Run("reports promotion when a threshold is crossed", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		service := NewLoyaltyService(customerRepo)

		customer := newTestCustomer(t)
		_, err := customer.RecordPurchase(decimal.NewFromInt(15000))
		require.NoError(t, err)

		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		customerRepo.On("SaveWithLock", ctx, customer).Return(nil)

		resp, err := service.RecordPurchase(ctx, customer.ID, RecordPurchaseRequest{
			Amount: decimal.NewFromInt(12000),
		})

		require.NoError(t, err)
		assert.Equal(t, "silver", resp.Tier)
		assert.Equal(t, int64(270), resp.PointsBalance)
	})

	t.Run("unknown customer fails", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		service := NewLoyaltyService(customerRepo)

		id := uuid.New()
		customerRepo.On("FindByID", ctx, id).Return(nil, shared.ErrCustomerNotFound)

		resp, err := service.RecordPurchase(ctx, id, RecordPurchaseRequest{
			Amount: decimal.NewFromInt(100),
		})

		assert.ErrorIs(t, err, shared.ErrCustomerNotFound)
		assert.Nil(t, resp)
	})

	t.Run("retries after a lost optimistic lock race", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		service := NewLoyaltyService(customerRepo)

		customer := newTestCustomer(t)
		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		customerRepo.On("SaveWithLock", ctx, customer).Return(shared.ErrConcurrencyConflict).Once()
		customerRepo.On("SaveWithLock", ctx, customer).Return(nil).Once()

		resp, err := service.RecordPurchase(ctx, customer.ID, RecordPurchaseRequest{
			Amount: decimal.NewFromInt(100),
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.PointsAwarded)
		customerRepo.AssertNumberOfCalls(t, "SaveWithLock", 2)
	})

	t.Run("gives up after exhausting retries", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		service := NewLoyaltyService(customerRepo)

		customer := newTestCustomer(t)
		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		customerRepo.On("SaveWithLock", ctx, customer).Return(shared.ErrConcurrencyConflict)

		resp, err := service.RecordPurchase(ctx, customer.ID, RecordPurchaseRequest{
			Amount: decimal.NewFromInt(100),
		})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Nil(t, resp)
		customerRepo.AssertNumberOfCalls(t, "SaveWithLock", 3)
	})
}

func TestLoyaltyServiceRedeemPoints(t *testing.T) {
	ctx := context.Background()

	t.Run("redeems and reports remaining balance", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		service := NewLoyaltyService(customerRepo)

		customer := newTestCustomer(t)
		_, err := customer.RecordPurchase(decimal.NewFromInt(27000))
		require.NoError(t, err)

		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		customerRepo.On("SaveWithLock", ctx, customer).Return(nil)

		resp, err := service.RedeemPoints(ctx, customer.ID, RedeemPointsRequest{Points: 100})

		require.NoError(t, err)
		assert.True(t, resp.Discount.Equals(valueobject.NewMoneyINR(decimal.NewFromInt(100))))
		assert.Equal(t, valueobject.INR, resp.Discount.Currency())
		assert.Equal(t, int64(170), resp.PointsBalance)
	})

	t.Run("insufficient balance aborts without saving", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		service := NewLoyaltyService(customerRepo)

		customer := newTestCustomer(t)
		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

		resp, err := service.RedeemPoints(ctx, customer.ID, RedeemPointsRequest{Points: 1})

		assert.ErrorIs(t, err, shared.ErrInsufficientPoints)
		assert.Nil(t, resp)
		assert.Zero(t, customer.LoyaltyPoints)
		customerRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestLoyaltyServiceBalance(t *testing.T) {
	ctx := context.Background()
	customerRepo := new(MockCustomerRepository)
	service := NewLoyaltyService(customerRepo)

	customer := newTestCustomer(t)
	_, err := customer.RecordPurchase(decimal.NewFromInt(5000))
	require.NoError(t, err)

	customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

	resp, err := service.Balance(ctx, customer.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(50), resp.PointsBalance)
	assert.Zero(t, resp.PointsAwarded)
	customerRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}
