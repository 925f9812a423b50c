package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/pkg/pagination"
)

// ChargeRepository defines the interface for async charge operations.
// The processing -> finished transition is a compare-and-set so duplicate
// callbacks can never materialize the ledger entry twice.
type ChargeRepository interface {
	Create(ctx context.Context, charge *entity.PixCharge) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PixCharge, error)
	GetByTxID(ctx context.Context, txID string) (*entity.PixCharge, error)
	// FinishIfProcessing transitions processing -> finished and stamps the
	// end-to-end id. Returns false when the charge was already terminal.
	FinishIfProcessing(ctx context.Context, txID, endToEndID string) (bool, error)
	// RevertToProcessing undoes a finished transition whose follow-up
	// ledger write failed, clearing the end-to-end id so a retried
	// callback can win the swap again.
	RevertToProcessing(ctx context.Context, txID string) error
	// CancelBatch transitions the given charges to cancelled; entries
	// already terminal are left untouched.
	CancelBatch(ctx context.Context, ids []uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID, status *enum.ChargeStatus, params *pagination.PaginationParams) ([]entity.PixCharge, int64, error)
}
