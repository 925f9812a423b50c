package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	domainRepo "github.com/balcaohq/balcao-api/internal/domain/repository"
	"github.com/balcaohq/balcao-api/pkg/apperror"
	"github.com/balcaohq/balcao-api/pkg/pagination"
)

type cashSessionRepository struct {
	db *gorm.DB
}

// NewCashSessionRepository creates a new till session repository
func NewCashSessionRepository(db *gorm.DB) domainRepo.CashSessionRepository {
	return &cashSessionRepository{db: db}
}

// Open inserts the session only when the operator has no open session. The
// INSERT ... WHERE NOT EXISTS runs as one statement, so two concurrent opens
// cannot both succeed.
func (r *cashSessionRepository) Open(ctx context.Context, session *entity.CashSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	now := time.Now()

	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO cash_sessions (id, store_id, operator_id, status, opening_float, opened_at, created_at, updated_at)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM cash_sessions
			WHERE operator_id = ? AND status = ?
		)`,
		session.ID, session.StoreID, session.OperatorID, enum.SessionStatusOpen,
		session.OpeningFloat, session.OpenedAt, now, now,
		session.OperatorID, enum.SessionStatusOpen,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NewConflictError("Operator already has an open cash session")
	}
	session.Status = enum.SessionStatusOpen
	return nil
}

func (r *cashSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashSession, error) {
	var session entity.CashSession
	err := r.db.WithContext(ctx).
		Preload("Movements").
		Preload("Closing").
		First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *cashSessionRepository) GetOpenByOperator(ctx context.Context, operatorID uuid.UUID) (*entity.CashSession, error) {
	var session entity.CashSession
	err := r.db.WithContext(ctx).
		First(&session, "operator_id = ? AND status = ?", operatorID, enum.SessionStatusOpen).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

// Close is a compare-and-set on the status column. The returned bool tells
// the caller whether this call performed the transition.
func (r *cashSessionRepository) Close(ctx context.Context, id uuid.UUID, closedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.CashSession{}).
		Where("id = ? AND status = ?", id, enum.SessionStatusOpen).
		Updates(map[string]interface{}{
			"status":    enum.SessionStatusClosed,
			"closed_at": closedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *cashSessionRepository) CreateClosing(ctx context.Context, closing *entity.CashClosing) error {
	err := r.db.WithContext(ctx).Create(closing).Error
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return apperror.NewConflictError("Session already has a closing snapshot")
	}
	return err
}

func (r *cashSessionRepository) GetClosing(ctx context.Context, sessionID uuid.UUID) (*entity.CashClosing, error) {
	var closing entity.CashClosing
	err := r.db.WithContext(ctx).First(&closing, "session_id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &closing, err
}

func (r *cashSessionRepository) AddMovement(ctx context.Context, movement *entity.CashMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *cashSessionRepository) List(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams) ([]entity.CashSession, int64, error) {
	var sessions []entity.CashSession
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CashSession{}).Where("store_id = ?", storeID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("opened_at DESC").
		Find(&sessions).Error

	return sessions, total, err
}
