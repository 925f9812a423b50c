package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/pkg/pagination"
)

// AccountRepository defines the interface for tab data operations
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)
	Update(ctx context.Context, account *entity.Account) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.AccountStatus) error
	// SoftDelete marks the account deleted. Callers must first verify the
	// account owns zero orders and zero payments.
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID, status *enum.AccountStatus, params *pagination.PaginationParams) ([]entity.Account, int64, error)
}
