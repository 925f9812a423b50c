package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/internal/domain/repository"
	"github.com/balcaohq/balcao-api/pkg/apperror"
	"github.com/balcaohq/balcao-api/pkg/pagination"
)

// CashSessionRepo is the in-memory till session repository. Open, Close and
// CreateClosing run under the dataset lock, matching the atomicity the
// postgres implementation gets from conditional SQL.
type CashSessionRepo struct {
	d *Dataset
}

// NewCashSessionRepo creates a session repository over the dataset
func NewCashSessionRepo(d *Dataset) *CashSessionRepo { return &CashSessionRepo{d: d} }

var _ repository.CashSessionRepository = (*CashSessionRepo)(nil)

func (r *CashSessionRepo) Open(ctx context.Context, session *entity.CashSession) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, s := range r.d.sessions {
		if s.OperatorID == session.OperatorID && s.Status == enum.SessionStatusOpen {
			return apperror.NewConflictError("Operator already has an open cash session")
		}
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	cp := *session
	r.d.sessions[session.ID] = &cp
	return nil
}

func (r *CashSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashSession, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	s, ok := r.d.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	cp.Movements = append([]entity.CashMovement(nil), r.d.movements[id]...)
	if closing, ok := r.d.closings[id]; ok {
		c := *closing
		cp.Closing = &c
	}
	return &cp, nil
}

func (r *CashSessionRepo) GetOpenByOperator(ctx context.Context, operatorID uuid.UUID) (*entity.CashSession, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, s := range r.d.sessions {
		if s.OperatorID == operatorID && s.Status == enum.SessionStatusOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CashSessionRepo) Close(ctx context.Context, id uuid.UUID, closedAt time.Time) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	s, ok := r.d.sessions[id]
	if !ok {
		return false, apperror.NewNotFoundError("Cash session")
	}
	if s.Status != enum.SessionStatusOpen {
		return false, nil
	}
	s.Status = enum.SessionStatusClosed
	s.ClosedAt = &closedAt
	return true, nil
}

func (r *CashSessionRepo) CreateClosing(ctx context.Context, closing *entity.CashClosing) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, exists := r.d.closings[closing.SessionID]; exists {
		return apperror.NewConflictError("Session already has a closing snapshot")
	}
	if closing.ID == uuid.Nil {
		closing.ID = uuid.New()
	}
	closing.CreatedAt = time.Now()
	cp := *closing
	r.d.closings[closing.SessionID] = &cp
	return nil
}

func (r *CashSessionRepo) GetClosing(ctx context.Context, sessionID uuid.UUID) (*entity.CashClosing, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.closings[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CashSessionRepo) AddMovement(ctx context.Context, movement *entity.CashMovement) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.sessions[movement.SessionID]; !ok {
		return apperror.NewNotFoundError("Cash session")
	}
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	movement.CreatedAt = time.Now()
	r.d.movements[movement.SessionID] = append(r.d.movements[movement.SessionID], *movement)
	return nil
}

func (r *CashSessionRepo) List(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams) ([]entity.CashSession, int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []entity.CashSession
	for _, s := range r.d.sessions {
		if s.StoreID == storeID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.Before(out[j].OpenedAt) })
	return out, int64(len(out)), nil
}
