package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/internal/domain/repository"
	"github.com/balcaohq/balcao-api/pkg/apperror"
	"github.com/balcaohq/balcao-api/pkg/pagination"
)

// AccountRepo is the in-memory tab repository
type AccountRepo struct {
	d *Dataset
}

// NewAccountRepo creates an account repository over the dataset
func NewAccountRepo(d *Dataset) *AccountRepo { return &AccountRepo{d: d} }

var _ repository.AccountRepository = (*AccountRepo)(nil)

func (r *AccountRepo) Create(ctx context.Context, account *entity.Account) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.CreatedAt = time.Now()
	cp := *account
	r.d.accounts[account.ID] = &cp
	return nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	a, ok := r.d.accounts[id]
	if !ok || a.DeletedAt.Valid {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *AccountRepo) Update(ctx context.Context, account *entity.Account) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.accounts[account.ID]; !ok {
		return apperror.NewNotFoundError("Account")
	}
	cp := *account
	r.d.accounts[account.ID] = &cp
	return nil
}

func (r *AccountRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.AccountStatus) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	a, ok := r.d.accounts[id]
	if !ok {
		return apperror.NewNotFoundError("Account")
	}
	a.Status = status
	return nil
}

func (r *AccountRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	a, ok := r.d.accounts[id]
	if !ok {
		return apperror.NewNotFoundError("Account")
	}
	a.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

func (r *AccountRepo) List(ctx context.Context, storeID uuid.UUID, status *enum.AccountStatus, params *pagination.PaginationParams) ([]entity.Account, int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []entity.Account
	for _, a := range r.d.accounts {
		if a.StoreID != storeID || a.DeletedAt.Valid {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}
