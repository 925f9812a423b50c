package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/pkg/pagination"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	// HardDelete removes the order and its items unconditionally. It exists
	// only for the compensating delete of the counter policy; normal
	// deletion is soft.
	HardDelete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error
	// AssignSequence stamps the sequential display number after creation.
	AssignSequence(ctx context.Context, id uuid.UUID, seq int) error
	List(ctx context.Context, storeID uuid.UUID, params *OrderFilterParams) ([]entity.Order, int64, error)
	// ListByAccount returns the orders referencing an account, with items,
	// optionally excluding cancelled ones.
	ListByAccount(ctx context.Context, accountID uuid.UUID, excludeCancelled bool) ([]entity.Order, error)
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
	AddItem(ctx context.Context, item *entity.OrderItem) error
	RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) error
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Channel    *enum.OrderChannel
	Status     *enum.OrderStatus
	AccountID  *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}
