package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/internal/domain/repository"
	"github.com/balcaohq/balcao-api/pkg/apperror"
	"github.com/balcaohq/balcao-api/pkg/notify"
	"github.com/balcaohq/balcao-api/pkg/pagination"
)

// creationPolicy validates the channel-specific preconditions of a draft
// and persists the order (and, for the counter channel, its payment).
// Policies must leave no partial state behind on failure.
type creationPolicy func(ctx context.Context, input *CreateOrderInput, order *entity.Order) error

// OrderService creates and mutates orders. Creation dispatches on the sales
// channel through a policy table; each policy is independently testable
// against fake repositories.
type OrderService struct {
	orderRepo   repository.OrderRepository
	accountRepo repository.AccountRepository
	paymentRepo repository.PaymentRepository
	sessionRepo repository.CashSessionRepository
	counterRepo repository.CounterRepository
	storeRepo   repository.StoreRepository
	methodRepo  repository.PaymentMethodRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	ledger      *PaymentService
	notifier    notify.Notifier

	policies map[enum.OrderChannel]creationPolicy
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	accountRepo repository.AccountRepository,
	paymentRepo repository.PaymentRepository,
	sessionRepo repository.CashSessionRepository,
	counterRepo repository.CounterRepository,
	storeRepo repository.StoreRepository,
	methodRepo repository.PaymentMethodRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	ledger *PaymentService,
	notifier notify.Notifier,
) *OrderService {
	s := &OrderService{
		orderRepo:   orderRepo,
		accountRepo: accountRepo,
		paymentRepo: paymentRepo,
		sessionRepo: sessionRepo,
		counterRepo: counterRepo,
		storeRepo:   storeRepo,
		methodRepo:  methodRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		ledger:      ledger,
		notifier:    notifier,
	}
	s.policies = map[enum.OrderChannel]creationPolicy{
		enum.ChannelCounter:  s.counterPolicy,
		enum.ChannelAccount:  s.accountPolicy,
		enum.ChannelDelivery: s.deliveryPolicy,
		enum.ChannelPickup:   s.pickupPolicy,
	}
	return s
}

// OrderItemInput represents a line item in an order draft
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice float64 // 0 means "use catalog price"
}

// CreateOrderInput represents an order draft
type CreateOrderInput struct {
	StoreID         uuid.UUID
	Channel         enum.OrderChannel
	AccountID       *uuid.UUID
	PaymentMethodID *uuid.UUID
	CreatedBy       uuid.UUID
	Items           []OrderItemInput
}

// CreateOrder validates the draft against its channel policy, persists the
// order (plus payment for the counter channel) and assigns the sequential
// display number. Number assignment runs only after the policy succeeded,
// never inside the compensating-delete window; a numbering failure is
// returned alongside the created order rather than swallowed.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Order must have at least one item")
	}

	operator, err := s.userRepo.GetByID(ctx, input.CreatedBy)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, apperror.NewNotFoundError("Operator")
	}
	if !operator.Active {
		return nil, apperror.ErrOperatorInactive
	}

	policy, ok := s.policies[input.Channel]
	if !ok {
		return nil, apperror.NewBadRequestError("Unknown sales channel")
	}

	order, err := s.buildOrder(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := policy(ctx, input, order); err != nil {
		return nil, err
	}

	day := time.Now().Format("2006-01-02")
	seq, err := s.counterRepo.Next(ctx, order.StoreID, day)
	if err != nil {
		return order, fmt.Errorf("order created but sequence assignment failed: %w", err)
	}
	if err := s.orderRepo.AssignSequence(ctx, order.ID, seq); err != nil {
		return order, fmt.Errorf("order created but sequence assignment failed: %w", err)
	}
	order.SequenceNo = &seq

	_ = s.notifier.Notify(ctx, notify.Event{
		Type:    "order.created",
		Title:   "New order",
		Message: fmt.Sprintf("Order #%d (%s)", seq, input.Channel),
		RefID:   order.ID.String(),
	})

	return order, nil
}

// buildOrder assembles the entity from the draft, resolving items against
// the catalog.
func (s *OrderService) buildOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	productIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Item quantity must be greater than zero")
		}
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	items := make([]entity.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}

		unitPrice := int64(math.Round(item.UnitPrice * 100))
		if unitPrice == 0 {
			unitPrice = product.Price
		}
		items = append(items, entity.OrderItem{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
			TipEligible: product.TipEligible,
			Prepare:     product.Prepare,
		})
	}

	return &entity.Order{
		StoreID:         input.StoreID,
		Channel:         input.Channel,
		Status:          enum.OrderStatusPending,
		AccountID:       input.AccountID,
		PaymentMethodID: input.PaymentMethodID,
		CreatedByID:     input.CreatedBy,
		Items:           items,
	}, nil
}

// counterPolicy requires the creator to own an open cash session and the
// payment method to exist and be enabled. The order and its payment are
// written sequentially; if the payment write fails the just-created order
// is deleted and the original error re-raised, so callers never observe a
// half-written pair.
func (s *OrderService) counterPolicy(ctx context.Context, input *CreateOrderInput, order *entity.Order) error {
	session, err := s.sessionRepo.GetOpenByOperator(ctx, input.CreatedBy)
	if err != nil {
		return err
	}
	if session == nil {
		return apperror.NewInvalidStateError("Operator has no open cash session")
	}

	if input.PaymentMethodID == nil {
		return apperror.NewBadRequestError("Counter orders require a payment method")
	}
	method, err := s.methodRepo.GetByID(ctx, *input.PaymentMethodID)
	if err != nil {
		return err
	}
	if method == nil {
		return apperror.NewNotFoundError("Payment method")
	}
	if !method.Enabled {
		return apperror.NewInvalidStateError("Payment method is disabled")
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return err
	}

	orderID := order.ID
	payment := &entity.Payment{
		StoreID:     order.StoreID,
		SessionID:   &session.ID,
		OrderID:     &orderID,
		Form:        method.Form,
		Amount:      order.Subtotal(),
		Kind:        enum.EntryOriginal,
		CreatedByID: input.CreatedBy,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		// Compensating delete: the net visible state is "no order, no
		// payment", never a half-written pair.
		_ = s.orderRepo.HardDelete(ctx, order.ID)
		return err
	}
	return nil
}

// accountPolicy requires the referenced tab to be open. Tip-eligible items
// get the store's configured tip rate stamped before persisting. No payment
// is written; settlement happens later against the tab.
func (s *OrderService) accountPolicy(ctx context.Context, input *CreateOrderInput, order *entity.Order) error {
	if input.AccountID == nil {
		return apperror.NewBadRequestError("Account orders require an account")
	}
	account, err := s.accountRepo.GetByID(ctx, *input.AccountID)
	if err != nil {
		return err
	}
	if account == nil {
		return apperror.NewNotFoundError("Account")
	}
	if account.Status != enum.AccountStatusOpen {
		return apperror.NewInvalidStateError("Account is not open")
	}

	store, err := s.getStore(ctx, input.StoreID)
	if err != nil {
		return err
	}
	for i := range order.Items {
		if order.Items[i].TipEligible {
			order.Items[i].TipRate = store.Settings.TipRate
		}
	}

	return s.orderRepo.Create(ctx, order)
}

// deliveryPolicy requires the store to be accepting orders and the delivery
// service to be enabled.
func (s *OrderService) deliveryPolicy(ctx context.Context, input *CreateOrderInput, order *entity.Order) error {
	store, err := s.getStore(ctx, input.StoreID)
	if err != nil {
		return err
	}
	if !store.Settings.AcceptingOrders {
		return apperror.NewInvalidStateError("Store is not accepting orders")
	}
	if !store.Settings.DeliveryEnabled {
		return apperror.NewInvalidStateError("Delivery service is disabled")
	}
	return s.orderRepo.Create(ctx, order)
}

// pickupPolicy requires the store to be accepting orders.
func (s *OrderService) pickupPolicy(ctx context.Context, input *CreateOrderInput, order *entity.Order) error {
	store, err := s.getStore(ctx, input.StoreID)
	if err != nil {
		return err
	}
	if !store.Settings.AcceptingOrders {
		return apperror.NewInvalidStateError("Store is not accepting orders")
	}
	return s.orderRepo.Create(ctx, order)
}

func (s *OrderService) getStore(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.NewNotFoundError("Store")
	}
	return store, nil
}

// GetOrder retrieves an order with its items
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, storeID uuid.UUID, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, storeID, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// UpdateStatus transitions an order. Terminal statuses reject any further
// transition; en-route is reserved for delivery orders.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enum.OrderStatus) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	if order.Status.Terminal() {
		return apperror.NewInvalidStateError("Order is already " + order.Status.String())
	}
	if status == enum.OrderStatusEnRoute && order.Channel != enum.ChannelDelivery {
		return apperror.NewInvalidStateError("Only delivery orders can be en-route")
	}
	if status == enum.OrderStatusCancelled {
		return s.CancelOrder(ctx, orderID)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}

	_ = s.notifier.Notify(ctx, notify.Event{
		Type:    "order.status",
		Title:   "Order " + status.String(),
		Message: fmt.Sprintf("Order %s is now %s", orderID, status),
		RefID:   orderID.String(),
	})
	return nil
}

// CancelOrder marks the order cancelled and refunds any non-refunded
// ledger entries tied to it. Cancellation is terminal.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	if order.Status == enum.OrderStatusCancelled {
		return apperror.NewInvalidStateError("Order is already cancelled")
	}
	if order.Status == enum.OrderStatusFinished {
		return apperror.NewInvalidStateError("Order is already finished")
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, enum.OrderStatusCancelled); err != nil {
		return err
	}

	payments, err := s.paymentRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	ids := make([]uuid.UUID, 0, len(payments))
	for _, p := range payments {
		if !p.Refunded && p.Kind == enum.EntryOriginal {
			ids = append(ids, p.ID)
		}
	}
	return s.ledger.RefundBatch(ctx, ids)
}

// AddItem pushes a line item onto a non-terminal order
func (s *OrderService) AddItem(ctx context.Context, orderID uuid.UUID, input *OrderItemInput) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	if order.Status.Terminal() {
		return apperror.NewInvalidStateError("Cannot modify a " + order.Status.String() + " order")
	}
	if input.Quantity <= 0 {
		return apperror.NewBadRequestError("Item quantity must be greater than zero")
	}

	products, err := s.productRepo.GetByIDs(ctx, []uuid.UUID{input.ProductID})
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return apperror.NewNotFoundError("Product")
	}
	product := products[0]

	unitPrice := int64(math.Round(input.UnitPrice * 100))
	if unitPrice == 0 {
		unitPrice = product.Price
	}
	return s.orderRepo.AddItem(ctx, &entity.OrderItem{
		OrderID:     orderID,
		ProductID:   input.ProductID,
		Quantity:    input.Quantity,
		UnitPrice:   unitPrice,
		TipEligible: product.TipEligible,
		Prepare:     product.Prepare,
	})
}

// RemoveItem pulls a line item off a non-terminal order
func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	if order.Status.Terminal() {
		return apperror.NewInvalidStateError("Cannot modify a " + order.Status.String() + " order")
	}
	return s.orderRepo.RemoveItem(ctx, orderID, itemID)
}
