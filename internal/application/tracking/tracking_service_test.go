package tracking

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/partner"
	"github.com/optierp/backend/internal/domain/shared"
	"github.com/optierp/backend/internal/domain/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockTrackingRepository is a mock implementation of tracking.Repository
type MockTrackingRepository struct {
	mock.Mock
}

func (m *MockTrackingRepository) FindByID(ctx context.Context, id uuid.UUID) (*tracking.OrderTracking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.OrderTracking), args.Error(1)
}

func (m *MockTrackingRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*tracking.OrderTracking, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.OrderTracking), args.Error(1)
}

func (m *MockTrackingRepository) FindByToken(ctx context.Context, token string) (*tracking.OrderTracking, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.OrderTracking), args.Error(1)
}

func (m *MockTrackingRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]tracking.OrderTracking, error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tracking.OrderTracking), args.Error(1)
}

func (m *MockTrackingRepository) ExistsByToken(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockTrackingRepository) Save(ctx context.Context, t *tracking.OrderTracking) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTrackingRepository) SaveWithLock(ctx context.Context, t *tracking.OrderTracking) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByCode(ctx context.Context, code string) (*partner.Customer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByPhone(ctx context.Context, phone string) (*partner.Customer, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Search(ctx context.Context, query string, limit int) ([]partner.Customer, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GenerateCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

const baseURL = "https://shop.example.com"

func newTestCustomer(t *testing.T) *partner.Customer {
	customer, err := partner.NewCustomer("CUST-202501-00001", "Asha Rao", "9876543210", partner.CustomerTypeIndividual)
	require.NoError(t, err)
	customer.ClearDomainEvents()
	return customer
}

// =============================================================================
// Service tests
// =============================================================================

func TestTrackingServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates record with customer phone snapshot", func(t *testing.T) {
		trackingRepo := new(MockTrackingRepository)
		customerRepo := new(MockCustomerRepository)
		service := NewService(trackingRepo, customerRepo, baseURL)

		customer := newTestCustomer(t)
		orderID := uuid.New()

		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		trackingRepo.On("ExistsByToken", ctx, mock.AnythingOfType("string")).Return(false, nil)
		trackingRepo.On("Save", ctx, mock.AnythingOfType("*tracking.OrderTracking")).Return(nil)

		resp, err := service.Create(ctx, CreateTrackingRequest{
			OrderID:     orderID,
			OrderNumber: "SO-2025-00042",
			CustomerID:  customer.ID,
		})

		require.NoError(t, err)
		assert.Equal(t, "9876543210", resp.CustomerPhone)
		assert.Equal(t, tracking.StatusOrdered, resp.CurrentStatus)
		assert.NoError(t, tracking.ValidateToken(resp.Token))
		assert.Equal(t, baseURL+"/track/"+resp.Token, resp.TrackingURL)
		require.Len(t, resp.History, 1)
		assert.Equal(t, "Order placed", resp.History[0].Note)
	})

	t.Run("unresolved customer degrades to an empty phone snapshot", func(t *testing.T) {
		trackingRepo := new(MockTrackingRepository)
		customerRepo := new(MockCustomerRepository)
		service := NewService(trackingRepo, customerRepo, baseURL)

		customerID := uuid.New()
		customerRepo.On("FindByID", ctx, customerID).Return(nil, shared.ErrCustomerNotFound)
		trackingRepo.On("ExistsByToken", ctx, mock.AnythingOfType("string")).Return(false, nil)
		trackingRepo.On("Save", ctx, mock.AnythingOfType("*tracking.OrderTracking")).Return(nil)

		resp, err := service.Create(ctx, CreateTrackingRequest{
			OrderID:     uuid.New(),
			OrderNumber: "SO-2025-00043",
			CustomerID:  customerID,
		})

		require.NoError(t, err)
		assert.Equal(t, "", resp.CustomerPhone)
	})

	t.Run("regenerates on token collision", func(t *testing.T) {
		trackingRepo := new(MockTrackingRepository)
		customerRepo := new(MockCustomerRepository)
		service := NewService(trackingRepo, customerRepo, baseURL)

		customer := newTestCustomer(t)
		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		trackingRepo.On("ExistsByToken", ctx, mock.AnythingOfType("string")).Return(true, nil).Once()
		trackingRepo.On("ExistsByToken", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
		trackingRepo.On("Save", ctx, mock.AnythingOfType("*tracking.OrderTracking")).Return(nil)

		resp, err := service.Create(ctx, CreateTrackingRequest{
			OrderID:     uuid.New(),
			OrderNumber: "SO-2025-00044",
			CustomerID:  customer.ID,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		trackingRepo.AssertNumberOfCalls(t, "ExistsByToken", 2)
	})

	t.Run("storage failure on customer lookup is fatal", func(t *testing.T) {
		trackingRepo := new(MockTrackingRepository)
		customerRepo := new(MockCustomerRepository)
		service := NewService(trackingRepo, customerRepo, baseURL)

		customerID := uuid.New()
		customerRepo.On("FindByID", ctx, customerID).Return(nil, errors.New("connection reset"))

		resp, err := service.Create(ctx, CreateTrackingRequest{
			OrderID:     uuid.New(),
			OrderNumber: "SO-2025-00045",
			CustomerID:  customerID,
		})

		assert.Error(t, err)
		assert.Nil(t, resp)
		trackingRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func newStoredTracking(t *testing.T) *tracking.OrderTracking {
	token, err := tracking.GenerateToken()
	require.NoError(t, err)
	record, err := tracking.NewOrderTracking(uuid.New(), "SO-2025-00042", uuid.New(), "9876543210", token, baseURL, nil)
	require.NoError(t, err)
	record.ClearDomainEvents()
	return record
}

func TestTrackingServiceUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("appends entry and returns the grown history", func(t *testing.T) {
		trackingRepo := new(MockTrackingRepository)
		service := NewService(trackingRepo, new(MockCustomerRepository), baseURL)

		record := newStoredTracking(t)
		trackingRepo.On("FindByID", ctx, record.ID).Return(record, nil)
		trackingRepo.On("SaveWithLock", ctx, record).Return(nil)

		resp, err := service.UpdateStatus(ctx, record.ID, UpdateStatusRequest{
			Status: "LENS_ORDERED",
			Note:   "Lens sent to lab",
		})

		require.NoError(t, err)
		assert.Equal(t, "LENS_ORDERED", resp.CurrentStatus)
		require.Len(t, resp.History, 2)
		assert.Equal(t, "Lens sent to lab", resp.History[1].Note)
	})

	t.Run("unknown tracking id fails", func(t *testing.T) {
		trackingRepo := new(MockTrackingRepository)
		service := NewService(trackingRepo, new(MockCustomerRepository), baseURL)

		id := uuid.New()
		trackingRepo.On("FindByID", ctx, id).Return(nil, shared.ErrTrackingNotFound)

		resp, err := service.UpdateStatus(ctx, id, UpdateStatusRequest{Status: "READY"})

		assert.ErrorIs(t, err, shared.ErrTrackingNotFound)
		assert.Nil(t, resp)
	})

	t.Run("retries after a lost optimistic lock race", func(t *testing.T) {
		trackingRepo := new(MockTrackingRepository)
		service := NewService(trackingRepo, new(MockCustomerRepository), baseURL)

		record := newStoredTracking(t)
		trackingRepo.On("FindByID", ctx, record.ID).Return(record, nil)
		trackingRepo.On("SaveWithLock", ctx, record).Return(shared.ErrConcurrencyConflict).Once()
		trackingRepo.On("SaveWithLock", ctx, record).Return(nil).Once()

		resp, err := service.UpdateStatus(ctx, record.ID, UpdateStatusRequest{Status: "READY"})

		require.NoError(t, err)
		assert.Equal(t, "READY", resp.CurrentStatus)
	})
}

func TestTrackingServiceFindByToken(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves an issued token to the public view", func(t *testing.T) {
		trackingRepo := new(MockTrackingRepository)
		service := NewService(trackingRepo, new(MockCustomerRepository), baseURL)

		record := newStoredTracking(t)
		trackingRepo.On("FindByToken", ctx, record.Token).Return(record, nil)

		resp, err := service.FindByToken(ctx, record.Token)

		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, "SO-2025-00042", resp.OrderNumber)
		assert.Equal(t, tracking.StatusOrdered, resp.CurrentStatus)
		require.Len(t, resp.History, 1)
	})

	t.Run("unknown token yields absent, not an error", func(t *testing.T) {
		trackingRepo := new(MockTrackingRepository)
		service := NewService(trackingRepo, new(MockCustomerRepository), baseURL)

		trackingRepo.On("FindByToken", ctx, "AAAA1111").Return(nil, shared.ErrTrackingNotFound)

		resp, err := service.FindByToken(ctx, "AAAA1111")

		require.NoError(t, err)
		assert.Nil(t, resp)
	})

	t.Run("malformed token short-circuits to absent", func(t *testing.T) {
		trackingRepo := new(MockTrackingRepository)
		service := NewService(trackingRepo, new(MockCustomerRepository), baseURL)

		resp, err := service.FindByToken(ctx, "nope")

		require.NoError(t, err)
		assert.Nil(t, resp)
		trackingRepo.AssertNotCalled(t, "FindByToken", mock.Anything, mock.Anything)
	})
}

func TestTrackingServiceListByCustomer(t *testing.T) {
	ctx := context.Background()
	trackingRepo := new(MockTrackingRepository)
	service := NewService(trackingRepo, new(MockCustomerRepository), baseURL)

	record := newStoredTracking(t)
	trackingRepo.On("FindByCustomer", ctx, record.CustomerID, mock.AnythingOfType("shared.Filter")).
		Return([]tracking.OrderTracking{*record}, nil)

	results, err := service.ListByCustomer(ctx, record.CustomerID, 0, 0)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, record.Token, results[0].Token)
}
