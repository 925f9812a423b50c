package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/pkg/pagination"
)

// StoreRepository defines the interface for establishment lookups
type StoreRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Store, error)
	Update(ctx context.Context, store *entity.Store) error
}

// PaymentMethodRepository defines the interface for payment method lookups
type PaymentMethodRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]entity.PaymentMethod, error)
}

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	List(ctx context.Context, storeID uuid.UUID, search string, params *pagination.PaginationParams) ([]entity.Customer, int64, error)
}

// UserRepository defines the interface for operator data operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// ProductRepository defines the interface for catalog reads
type ProductRepository interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	List(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams) ([]entity.Product, int64, error)
}
