package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/repository"
	"github.com/balcaohq/balcao-api/pkg/apperror"
	"github.com/balcaohq/balcao-api/pkg/pagination"
)

// StoreRepo is the in-memory establishment repository
type StoreRepo struct {
	d *Dataset
}

// NewStoreRepo creates a store repository over the dataset
func NewStoreRepo(d *Dataset) *StoreRepo { return &StoreRepo{d: d} }

var _ repository.StoreRepository = (*StoreRepo)(nil)

func (r *StoreRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	s, ok := r.d.stores[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *StoreRepo) Update(ctx context.Context, store *entity.Store) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.stores[store.ID]; !ok {
		return apperror.NewNotFoundError("Store")
	}
	cp := *store
	r.d.stores[store.ID] = &cp
	return nil
}

// PaymentMethodRepo is the in-memory payment method repository
type PaymentMethodRepo struct {
	d *Dataset
}

// NewPaymentMethodRepo creates a payment method repository over the dataset
func NewPaymentMethodRepo(d *Dataset) *PaymentMethodRepo { return &PaymentMethodRepo{d: d} }

var _ repository.PaymentMethodRepository = (*PaymentMethodRepo)(nil)

func (r *PaymentMethodRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	m, ok := r.d.methods[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *PaymentMethodRepo) ListByStore(ctx context.Context, storeID uuid.UUID) ([]entity.PaymentMethod, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []entity.PaymentMethod
	for _, m := range r.d.methods {
		if m.StoreID == storeID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CustomerRepo is the in-memory customer repository
type CustomerRepo struct {
	d *Dataset
}

// NewCustomerRepo creates a customer repository over the dataset
func NewCustomerRepo(d *Dataset) *CustomerRepo { return &CustomerRepo{d: d} }

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	cp := *customer
	r.d.customers[customer.ID] = &cp
	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CustomerRepo) List(ctx context.Context, storeID uuid.UUID, search string, params *pagination.PaginationParams) ([]entity.Customer, int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []entity.Customer
	for _, c := range r.d.customers {
		if c.StoreID != storeID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

// UserRepo is the in-memory operator repository
type UserRepo struct {
	d *Dataset
}

// NewUserRepo creates a user repository over the dataset
func NewUserRepo(d *Dataset) *UserRepo { return &UserRepo{d: d} }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	r.d.users[user.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	u, ok := r.d.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, u := range r.d.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// ProductRepo is the in-memory catalog repository
type ProductRepo struct {
	d *Dataset
}

// NewProductRepo creates a product repository over the dataset
func NewProductRepo(d *Dataset) *ProductRepo { return &ProductRepo{d: d} }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []entity.Product
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := r.d.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *ProductRepo) List(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams) ([]entity.Product, int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []entity.Product
	for _, p := range r.d.products {
		if p.StoreID == storeID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}
