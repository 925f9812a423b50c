// Package memory provides in-memory repository implementations backed by a
// shared mutex-guarded dataset. They honor the same atomicity contracts as
// the postgres implementations and back the service test suites.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
)

// Dataset is the shared state behind every in-memory repository. All repos
// created from one Dataset see the same data under one lock.
type Dataset struct {
	mu sync.Mutex

	orders    map[uuid.UUID]*entity.Order
	items     map[uuid.UUID][]entity.OrderItem // by order id
	payments  map[uuid.UUID]*entity.Payment
	accounts  map[uuid.UUID]*entity.Account
	sessions  map[uuid.UUID]*entity.CashSession
	closings  map[uuid.UUID]*entity.CashClosing // by session id
	movements map[uuid.UUID][]entity.CashMovement
	charges   map[uuid.UUID]*entity.PixCharge
	counters  map[uuid.UUID]*entity.OrderCounter
	stores    map[uuid.UUID]*entity.Store
	methods   map[uuid.UUID]*entity.PaymentMethod
	customers map[uuid.UUID]*entity.Customer
	users     map[uuid.UUID]*entity.User
	products  map[uuid.UUID]*entity.Product
}

// NewDataset creates an empty shared dataset
func NewDataset() *Dataset {
	return &Dataset{
		orders:    make(map[uuid.UUID]*entity.Order),
		items:     make(map[uuid.UUID][]entity.OrderItem),
		payments:  make(map[uuid.UUID]*entity.Payment),
		accounts:  make(map[uuid.UUID]*entity.Account),
		sessions:  make(map[uuid.UUID]*entity.CashSession),
		closings:  make(map[uuid.UUID]*entity.CashClosing),
		movements: make(map[uuid.UUID][]entity.CashMovement),
		charges:   make(map[uuid.UUID]*entity.PixCharge),
		counters:  make(map[uuid.UUID]*entity.OrderCounter),
		stores:    make(map[uuid.UUID]*entity.Store),
		methods:   make(map[uuid.UUID]*entity.PaymentMethod),
		customers: make(map[uuid.UUID]*entity.Customer),
		users:     make(map[uuid.UUID]*entity.User),
		products:  make(map[uuid.UUID]*entity.Product),
	}
}

// SeedStore inserts an establishment
func (d *Dataset) SeedStore(store *entity.Store) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	d.stores[store.ID] = store
}

// SeedUser inserts an operator
func (d *Dataset) SeedUser(user *entity.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	d.users[user.ID] = user
}

// SeedProduct inserts a catalog product
func (d *Dataset) SeedProduct(product *entity.Product) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	d.products[product.ID] = product
}

// SeedPaymentMethod inserts a payment method
func (d *Dataset) SeedPaymentMethod(method *entity.PaymentMethod) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if method.ID == uuid.Nil {
		method.ID = uuid.New()
	}
	d.methods[method.ID] = method
}

// SeedCustomer inserts a customer
func (d *Dataset) SeedCustomer(customer *entity.Customer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	d.customers[customer.ID] = customer
}
