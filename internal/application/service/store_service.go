package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/repository"
	"github.com/balcaohq/balcao-api/pkg/apperror"
	"github.com/balcaohq/balcao-api/pkg/pagination"
)

// StoreService manages establishment settings, payment methods, the catalog
// read model and customers.
type StoreService struct {
	storeRepo    repository.StoreRepository
	methodRepo   repository.PaymentMethodRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
}

// NewStoreService creates a new store service
func NewStoreService(
	storeRepo repository.StoreRepository,
	methodRepo repository.PaymentMethodRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
) *StoreService {
	return &StoreService{
		storeRepo:    storeRepo,
		methodRepo:   methodRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
	}
}

// GetStore retrieves an establishment by id
func (s *StoreService) GetStore(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.NewNotFoundError("Store")
	}
	return store, nil
}

// UpdateSettings replaces the store's settings block
func (s *StoreService) UpdateSettings(ctx context.Context, storeID uuid.UUID, settings entity.StoreSettings) (*entity.Store, error) {
	if settings.TipRate < 0 || settings.TipRate > 1 {
		return nil, apperror.NewBadRequestError("Tip rate must be between 0 and 1")
	}
	if settings.DiscountCeiling < 0 {
		return nil, apperror.NewBadRequestError("Discount ceiling cannot be negative")
	}

	store, err := s.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	store.Settings = settings
	if err := s.storeRepo.Update(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

// ListPaymentMethods lists the store's configured payment methods
func (s *StoreService) ListPaymentMethods(ctx context.Context, storeID uuid.UUID) ([]entity.PaymentMethod, error) {
	return s.methodRepo.ListByStore(ctx, storeID)
}

// ListProducts lists the catalog
func (s *StoreService) ListProducts(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, storeID, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// CreateCustomer registers a new customer
func (s *StoreService) CreateCustomer(ctx context.Context, customer *entity.Customer) error {
	if customer.Name == "" {
		return apperror.NewBadRequestError("Customer name is required")
	}
	return s.customerRepo.Create(ctx, customer)
}

// ListCustomers lists customers with optional name search
func (s *StoreService) ListCustomers(ctx context.Context, storeID uuid.UUID, search string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, storeID, search, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}
