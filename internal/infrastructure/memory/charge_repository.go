package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/internal/domain/repository"
	"github.com/balcaohq/balcao-api/pkg/apperror"
	"github.com/balcaohq/balcao-api/pkg/pagination"
)

// ChargeRepo is the in-memory charge repository. FinishIfProcessing runs
// under the dataset lock so exactly one caller per charge can win the swap.
type ChargeRepo struct {
	d *Dataset
}

// NewChargeRepo creates a charge repository over the dataset
func NewChargeRepo(d *Dataset) *ChargeRepo { return &ChargeRepo{d: d} }

var _ repository.ChargeRepository = (*ChargeRepo)(nil)

func (r *ChargeRepo) Create(ctx context.Context, charge *entity.PixCharge) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, c := range r.d.charges {
		if c.TxID == charge.TxID {
			return apperror.NewConflictError("Charge transaction id already exists")
		}
	}
	if charge.ID == uuid.Nil {
		charge.ID = uuid.New()
	}
	cp := *charge
	r.d.charges[charge.ID] = &cp
	return nil
}

func (r *ChargeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.PixCharge, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.charges[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *ChargeRepo) GetByTxID(ctx context.Context, txID string) (*entity.PixCharge, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, c := range r.d.charges {
		if c.TxID == txID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ChargeRepo) FinishIfProcessing(ctx context.Context, txID, endToEndID string) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, c := range r.d.charges {
		if c.TxID != txID {
			continue
		}
		if c.Status != enum.ChargeStatusProcessing {
			return false, nil
		}
		c.Status = enum.ChargeStatusFinished
		c.EndToEndID = &endToEndID
		return true, nil
	}
	return false, apperror.NewNotFoundError("Charge")
}

func (r *ChargeRepo) RevertToProcessing(ctx context.Context, txID string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, c := range r.d.charges {
		if c.TxID != txID {
			continue
		}
		if c.Status == enum.ChargeStatusFinished {
			c.Status = enum.ChargeStatusProcessing
			c.EndToEndID = nil
		}
		return nil
	}
	return apperror.NewNotFoundError("Charge")
}

func (r *ChargeRepo) CancelBatch(ctx context.Context, ids []uuid.UUID) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, id := range ids {
		c, ok := r.d.charges[id]
		if !ok || c.Status.Terminal() {
			continue
		}
		c.Status = enum.ChargeStatusCancelled
	}
	return nil
}

func (r *ChargeRepo) List(ctx context.Context, storeID uuid.UUID, status *enum.ChargeStatus, params *pagination.PaginationParams) ([]entity.PixCharge, int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []entity.PixCharge
	for _, c := range r.d.charges {
		if c.StoreID != storeID {
			continue
		}
		if status != nil && c.Status != *status {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}
