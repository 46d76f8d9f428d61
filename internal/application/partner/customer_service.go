package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/partner"
	"github.com/optierp/backend/internal/domain/shared"
)

// searchLimit caps directory search results
const searchLimit = 20

// CustomerService handles customer directory operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	patientRepo  partner.PatientRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, patientRepo partner.PatientRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		patientRepo:  patientRepo,
	}
}

// Create registers a new customer. The primary contact number must be free
// across the whole directory, active and inactive records alike; a clash is
// rejected, never merged. The human-readable code is drawn from the
// sequential counter.
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customerRepo.ExistsByPhone(ctx, req.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrDuplicateContact
	}

	code, err := s.customerRepo.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	customer, err := partner.NewCustomer(code, req.Name, req.Phone, partner.CustomerType(req.Type))
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		if err := customer.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}

	if req.TaxID != "" {
		if err := customer.SetTaxID(req.TaxID); err != nil {
			return nil, err
		}
	}

	if req.BillingAddress != "" || req.ShippingAddress != "" {
		if err := customer.SetAddresses(req.BillingAddress, req.ShippingAddress); err != nil {
			return nil, err
		}
	}

	if req.Segment != "" {
		if err := customer.SetSegment(req.Segment); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByCode retrieves a customer by its human-readable code
func (s *CustomerService) GetByCode(ctx context.Context, code string) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Search matches customers by name substring (case-insensitive) or by
// contact number, returning at most twenty hits in directory insertion
// order rather than relevance order.
func (s *CustomerService) Search(ctx context.Context, query string) ([]CustomerListResponse, error) {
	if query == "" {
		return []CustomerListResponse{}, nil
	}

	customers, err := s.customerRepo.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}

	return ToCustomerListResponses(customers), nil
}

// GetSummary returns the read-only projection for one customer.
// An unknown identifier yields a nil summary, not an error; read-side
// consumers degrade to an empty view instead of failing.
func (s *CustomerService) GetSummary(ctx context.Context, customerID uuid.UUID) (*CustomerSummaryResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrCustomerNotFound) || errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	patients, err := s.patientRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerSummaryResponse(customer, len(patients))
	return &response, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerListResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Tier != "" {
		domainFilter.Filters["tier"] = filter.Tier
	}
	if filter.Segment != "" {
		domainFilter.Filters["segment"] = filter.Segment
	}

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerListResponses(customers), total, nil
}

// AddPatient attaches a patient to an existing customer. The patient's
// contact defaults to the owner's when left out of the request.
func (s *CustomerService) AddPatient(ctx context.Context, customerID uuid.UUID, req AddPatientRequest) (*PatientResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	patient, err := partner.NewPatient(customer.ID, req.Name, req.Phone, customer.Phone, req.BirthDate, req.Anniversary)
	if err != nil {
		return nil, err
	}

	customer.AddPatient(patient)

	if err := s.patientRepo.Save(ctx, patient); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToPatientResponse(patient)
	return &response, nil
}

// ListPatients returns all patients under a customer in insertion order
func (s *CustomerService) ListPatients(ctx context.Context, customerID uuid.UUID) ([]PatientResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, err
	}

	patients, err := s.patientRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return ToPatientResponses(patients), nil
}

// UpdateSegment retags the customer's marketing segment
func (s *CustomerService) UpdateSegment(ctx context.Context, customerID uuid.UUID, req UpdateSegmentRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := customer.SetSegment(req.Segment); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// SetCreditTerms changes a customer's credit flag and limit
func (s *CustomerService) SetCreditTerms(ctx context.Context, customerID uuid.UUID, req SetCreditTermsRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := customer.SetCreditTerms(req.Allowed, req.Limit); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Activate reactivates a deactivated customer
func (s *CustomerService) Activate(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}

	if err := customer.Activate(); err != nil {
		return err
	}

	return s.customerRepo.Save(ctx, customer)
}

// Deactivate soft-deactivates a customer; the record and its loyalty
// history stay in the directory
func (s *CustomerService) Deactivate(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}

	if err := customer.Deactivate(); err != nil {
		return err
	}

	return s.customerRepo.Save(ctx, customer)
}
