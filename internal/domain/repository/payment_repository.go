package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
)

// PaymentRepository defines the interface for ledger entry operations.
// Entries are append-oriented: no update beyond the refunded flag, no delete.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Payment, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]entity.Payment, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.Payment, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.Payment, error)
	// MarkRefunded flips the refunded flag on the given entries.
	MarkRefunded(ctx context.Context, ids []uuid.UUID) error
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
}
