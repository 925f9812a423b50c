package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/pkg/pagination"
)

// CashSessionRepository defines the interface for till session operations.
// The one-open-session-per-operator invariant and the close transition are
// enforced here with atomic conditional writes, not by callers.
type CashSessionRepository interface {
	// Open inserts the session only if the operator has no open session.
	// Returns apperror.ErrConflict otherwise.
	Open(ctx context.Context, session *entity.CashSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CashSession, error)
	GetOpenByOperator(ctx context.Context, operatorID uuid.UUID) (*entity.CashSession, error)
	// Close flips status open -> closed and stamps the close time as a
	// compare-and-set. Returns false if the session was not open.
	Close(ctx context.Context, id uuid.UUID, closedAt time.Time) (bool, error)
	// CreateClosing persists the reconciliation snapshot; the unique
	// session constraint makes a second close fail with Conflict.
	CreateClosing(ctx context.Context, closing *entity.CashClosing) error
	GetClosing(ctx context.Context, sessionID uuid.UUID) (*entity.CashClosing, error)
	AddMovement(ctx context.Context, movement *entity.CashMovement) error
	List(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams) ([]entity.CashSession, int64, error)
}
