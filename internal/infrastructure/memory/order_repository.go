package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/internal/domain/repository"
	"github.com/balcaohq/balcao-api/pkg/apperror"
)

// OrderRepo is the in-memory order repository
type OrderRepo struct {
	d *Dataset
}

// NewOrderRepo creates an order repository over the dataset
func NewOrderRepo(d *Dataset) *OrderRepo { return &OrderRepo{d: d} }

var _ repository.OrderRepository = (*OrderRepo)(nil)

func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
	}
	cp := *order
	r.d.orders[order.ID] = &cp
	r.d.items[order.ID] = append([]entity.OrderItem(nil), order.Items...)
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	return r.cloneLocked(id), nil
}

func (r *OrderRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) Update(ctx context.Context, order *entity.Order) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.orders[order.ID]; !ok {
		return apperror.NewNotFoundError("Order")
	}
	cp := *order
	r.d.orders[order.ID] = &cp
	return nil
}

func (r *OrderRepo) HardDelete(ctx context.Context, id uuid.UUID) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	delete(r.d.orders, id)
	delete(r.d.items, id)
	return nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	order, ok := r.d.orders[id]
	if !ok {
		return apperror.NewNotFoundError("Order")
	}
	order.Status = status
	return nil
}

func (r *OrderRepo) AssignSequence(ctx context.Context, id uuid.UUID, seq int) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	order, ok := r.d.orders[id]
	if !ok {
		return apperror.NewNotFoundError("Order")
	}
	order.SequenceNo = &seq
	return nil
}

func (r *OrderRepo) List(ctx context.Context, storeID uuid.UUID, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	var out []entity.Order
	for id, o := range r.d.orders {
		if o.StoreID != storeID {
			continue
		}
		if params.Channel != nil && o.Channel != *params.Channel {
			continue
		}
		if params.Status != nil && o.Status != *params.Status {
			continue
		}
		if params.AccountID != nil && (o.AccountID == nil || *o.AccountID != *params.AccountID) {
			continue
		}
		out = append(out, *r.cloneLocked(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *OrderRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, excludeCancelled bool) ([]entity.Order, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	var out []entity.Order
	for id, o := range r.d.orders {
		if o.AccountID == nil || *o.AccountID != accountID {
			continue
		}
		if excludeCancelled && o.Status == enum.OrderStatusCancelled {
			continue
		}
		out = append(out, *r.cloneLocked(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *OrderRepo) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var n int64
	for _, o := range r.d.orders {
		if o.AccountID != nil && *o.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (r *OrderRepo) AddItem(ctx context.Context, item *entity.OrderItem) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.orders[item.OrderID]; !ok {
		return apperror.NewNotFoundError("Order")
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.d.items[item.OrderID] = append(r.d.items[item.OrderID], *item)
	return nil
}

func (r *OrderRepo) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	items := r.d.items[orderID]
	for i := range items {
		if items[i].ID == itemID {
			r.d.items[orderID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFoundError("Order item")
}

// cloneLocked returns a detached copy of the order with items attached.
// Caller holds the lock.
func (r *OrderRepo) cloneLocked(id uuid.UUID) *entity.Order {
	o, ok := r.d.orders[id]
	if !ok {
		return nil
	}
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), r.d.items[id]...)
	return &cp
}
