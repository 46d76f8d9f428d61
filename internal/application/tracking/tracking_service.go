package tracking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/partner"
	"github.com/optierp/backend/internal/domain/shared"
	"github.com/optierp/backend/internal/domain/tracking"
)

// maxTokenAttempts bounds regeneration when a fresh token collides with an
// issued one. At 36^8 possible tokens a second attempt is already rare.
const maxTokenAttempts = 5

// maxRetries bounds reload attempts when an optimistic lock save loses the race
const maxRetries = 3

// Service handles order tracking operations
type Service struct {
	trackingRepo  tracking.Repository
	customerRepo  partner.CustomerRepository
	publicBaseURL string
}

// NewService creates a new tracking Service. publicBaseURL is the externally
// reachable prefix embedded in tracking URLs handed to customers.
func NewService(trackingRepo tracking.Repository, customerRepo partner.CustomerRepository, publicBaseURL string) *Service {
	return &Service{
		trackingRepo:  trackingRepo,
		customerRepo:  customerRepo,
		publicBaseURL: publicBaseURL,
	}
}

// Create opens the tracking record for a placed order, issuing its public
// token and seeding the history. The customer's contact number is snapshotted
// best-effort: an unresolvable customer leaves it empty rather than failing
// the order flow.
func (s *Service) Create(ctx context.Context, req CreateTrackingRequest) (*TrackingResponse, error) {
	customerPhone := ""
	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	switch {
	case err == nil:
		customerPhone = customer.Phone
	case errors.Is(err, shared.ErrCustomerNotFound) || errors.Is(err, shared.ErrNotFound):
		// degraded path, tracking still gets created
	default:
		return nil, err
	}

	token, err := s.issueToken(ctx)
	if err != nil {
		return nil, err
	}

	record, err := tracking.NewOrderTracking(req.OrderID, req.OrderNumber, req.CustomerID, customerPhone, token, s.publicBaseURL, req.ExpectedDate)
	if err != nil {
		return nil, err
	}

	if err := s.trackingRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	response := ToTrackingResponse(record)
	return &response, nil
}

// issueToken draws random tokens until one is unused
func (s *Service) issueToken(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := tracking.GenerateToken()
		if err != nil {
			return "", err
		}

		exists, err := s.trackingRepo.ExistsByToken(ctx, token)
		if err != nil {
			return "", err
		}
		if !exists {
			return token, nil
		}
	}

	return "", shared.NewDomainError("TOKEN_EXHAUSTED", "Could not issue a unique tracking token")
}

// UpdateStatus appends a status transition to the record's history. The
// transition vocabulary and ordering belong to fulfillment; any non-empty
// status is accepted, including a repeat of the current one.
func (s *Service) UpdateStatus(ctx context.Context, trackingID uuid.UUID, req UpdateStatusRequest) (*TrackingResponse, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		record, err := s.trackingRepo.FindByID(ctx, trackingID)
		if err != nil {
			return nil, err
		}

		if err := record.UpdateStatus(req.Status, req.Note); err != nil {
			return nil, err
		}

		err = s.trackingRepo.SaveWithLock(ctx, record)
		if err == nil {
			response := ToTrackingResponse(record)
			return &response, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// FindByToken resolves a public token to its tracking record. The lookup is
// side-effect-free; an unknown token yields a nil response, never an error
// detail that would help enumeration.
func (s *Service) FindByToken(ctx context.Context, token string) (*PublicTrackingResponse, error) {
	if err := tracking.ValidateToken(token); err != nil {
		return nil, nil
	}

	record, err := s.trackingRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrTrackingNotFound) || errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	response := ToPublicTrackingResponse(record)
	return &response, nil
}

// GetByID retrieves a tracking record by its internal identifier
func (s *Service) GetByID(ctx context.Context, trackingID uuid.UUID) (*TrackingResponse, error) {
	record, err := s.trackingRepo.FindByID(ctx, trackingID)
	if err != nil {
		return nil, err
	}

	response := ToTrackingResponse(record)
	return &response, nil
}

// GetByOrderID retrieves the tracking record attached to an order
func (s *Service) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*TrackingResponse, error) {
	record, err := s.trackingRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	response := ToTrackingResponse(record)
	return &response, nil
}

// ListByCustomer returns a customer's tracking records, newest first
func (s *Service) ListByCustomer(ctx context.Context, customerID uuid.UUID, page, pageSize int) ([]TrackingResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	filter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}

	records, err := s.trackingRepo.FindByCustomer(ctx, customerID, filter)
	if err != nil {
		return nil, err
	}

	return ToTrackingResponses(records), nil
}
