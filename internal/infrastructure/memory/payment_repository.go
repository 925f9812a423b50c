package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/repository"
)

// PaymentRepo is the in-memory ledger repository
type PaymentRepo struct {
	d *Dataset
}

// NewPaymentRepo creates a payment repository over the dataset
func NewPaymentRepo(d *Dataset) *PaymentRepo { return &PaymentRepo{d: d} }

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

func (r *PaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	cp := *payment
	r.d.payments[payment.ID] = &cp
	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	p, ok := r.d.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *PaymentRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Payment, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []entity.Payment
	for _, id := range ids {
		if p, ok := r.d.payments[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *PaymentRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]entity.Payment, error) {
	return r.list(func(p *entity.Payment) bool {
		return p.AccountID != nil && *p.AccountID == accountID
	})
}

func (r *PaymentRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.Payment, error) {
	return r.list(func(p *entity.Payment) bool {
		return p.SessionID != nil && *p.SessionID == sessionID
	})
}

func (r *PaymentRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.Payment, error) {
	return r.list(func(p *entity.Payment) bool {
		return p.OrderID != nil && *p.OrderID == orderID
	})
}

func (r *PaymentRepo) MarkRefunded(ctx context.Context, ids []uuid.UUID) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, id := range ids {
		if p, ok := r.d.payments[id]; ok {
			p.Refunded = true
		}
	}
	return nil
}

func (r *PaymentRepo) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var n int64
	for _, p := range r.d.payments {
		if p.AccountID != nil && *p.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (r *PaymentRepo) list(match func(*entity.Payment) bool) ([]entity.Payment, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []entity.Payment
	for _, p := range r.d.payments {
		if match(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
