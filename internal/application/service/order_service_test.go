package service

import (
	"context"
	"strings"
	"testing"

	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/internal/domain/repository"
	"github.com/balcaohq/balcao-api/internal/infrastructure/memory"
	"github.com/balcaohq/balcao-api/pkg/apperror"
	"github.com/balcaohq/balcao-api/pkg/notify"
	"github.com/balcaohq/balcao-api/pkg/pagination"
)

func TestCounterOrderRequiresOpenSession(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orders.CreateOrder(context.Background(), &CreateOrderInput{
		StoreID:         env.store.ID,
		Channel:         enum.ChannelCounter,
		PaymentMethodID: &env.cashPay.ID,
		CreatedBy:       env.operator.ID,
		Items:           []OrderItemInput{{ProductID: env.coffee.ID, Quantity: 1}},
	})
	if !apperror.IsCode(err, 422) {
		t.Fatalf("expected invalid state without open session, got %v", err)
	}
}

func TestCounterOrderWritesOrderAndPayment(t *testing.T) {
	env := newTestEnv(t)
	session := env.openSession(t)
	ctx := context.Background()

	order, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
		StoreID:         env.store.ID,
		Channel:         enum.ChannelCounter,
		PaymentMethodID: &env.cashPay.ID,
		CreatedBy:       env.operator.ID,
		Items: []OrderItemInput{
			{ProductID: env.coffee.ID, Quantity: 2},
			{ProductID: env.cake.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create counter order failed: %v", err)
	}
	if order.SequenceNo == nil || *order.SequenceNo != 1 {
		t.Fatalf("expected sequence 1, got %v", order.SequenceNo)
	}
	if got := order.Subtotal(); got != 2500 {
		t.Fatalf("expected subtotal 2500 cents, got %d", got)
	}

	payments, err := env.paymentRepo.ListBySession(ctx, session.ID)
	if err != nil {
		t.Fatalf("list session payments failed: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("expected exactly one ledger entry, got %d", len(payments))
	}
	if payments[0].Amount != 2500 || payments[0].Form != enum.PaymentFormCash {
		t.Fatalf("unexpected ledger entry: amount=%d form=%s", payments[0].Amount, payments[0].Form)
	}
}

func TestCounterOrderCompensatingDelete(t *testing.T) {
	env := newTestEnv(t)
	env.openSession(t)
	ctx := context.Background()

	failing := &failingPaymentRepo{PaymentRepository: env.paymentRepo, failCreate: true}
	ledger := NewPaymentService(failing, env.sessionRepo, env.gateway)
	orders := NewOrderService(
		env.orderRepo, env.accountRepo, failing, env.sessionRepo, env.counterRepo,
		memory.NewStoreRepo(env.data), memory.NewPaymentMethodRepo(env.data),
		memory.NewProductRepo(env.data), memory.NewUserRepo(env.data),
		ledger, notify.NoopNotifier{},
	)

	order, err := orders.CreateOrder(ctx, &CreateOrderInput{
		StoreID:         env.store.ID,
		Channel:         enum.ChannelCounter,
		PaymentMethodID: &env.cashPay.ID,
		CreatedBy:       env.operator.ID,
		Items:           []OrderItemInput{{ProductID: env.coffee.ID, Quantity: 1}},
	})
	if err == nil {
		t.Fatalf("expected payment write failure to surface")
	}
	if order != nil {
		t.Fatalf("expected no order on compensated failure")
	}

	result, err := orders.ListOrders(ctx, env.store.ID, defaultOrderFilter())
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if len(result.Items) != 0 {
		t.Fatalf("expected compensating delete to leave no order, found %d", len(result.Items))
	}
}

func TestOrderCreatedWhenNumberingFails(t *testing.T) {
	env := newTestEnv(t)
	env.openSession(t)
	ctx := context.Background()

	orders := NewOrderService(
		env.orderRepo, env.accountRepo, env.paymentRepo, env.sessionRepo, failingCounterRepo{},
		memory.NewStoreRepo(env.data), memory.NewPaymentMethodRepo(env.data),
		memory.NewProductRepo(env.data), memory.NewUserRepo(env.data),
		env.payments, notify.NoopNotifier{},
	)

	order, err := orders.CreateOrder(ctx, &CreateOrderInput{
		StoreID:         env.store.ID,
		Channel:         enum.ChannelCounter,
		PaymentMethodID: &env.cashPay.ID,
		CreatedBy:       env.operator.ID,
		Items:           []OrderItemInput{{ProductID: env.coffee.ID, Quantity: 1}},
	})
	if err == nil || !strings.Contains(err.Error(), "sequence assignment failed") {
		t.Fatalf("expected disclosed numbering failure, got %v", err)
	}
	if order == nil {
		t.Fatalf("expected the created order to be returned alongside the error")
	}
	if order.SequenceNo != nil {
		t.Fatalf("expected no sequence on numbering failure")
	}

	persisted, err := orders.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("order should still exist: %v", err)
	}
	if persisted.Status != enum.OrderStatusPending {
		t.Fatalf("unexpected status %s", persisted.Status)
	}
}

func TestAccountOrderStampsTipRate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account, err := env.accounts.Create(ctx, &CreateAccountInput{
		StoreID:     env.store.ID,
		Description: "Mesa 4",
		CreatedBy:   env.operator.ID,
	})
	if err != nil {
		t.Fatalf("create account failed: %v", err)
	}

	order, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
		StoreID:   env.store.ID,
		Channel:   enum.ChannelAccount,
		AccountID: &account.ID,
		CreatedBy: env.operator.ID,
		Items: []OrderItemInput{
			{ProductID: env.coffee.ID, Quantity: 2},
			{ProductID: env.cake.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create account order failed: %v", err)
	}

	// 10% over the tip-eligible coffee line only: 0.10 * 2000 = 200.
	if got := order.TotalTip(); got != 200 {
		t.Fatalf("expected 200 cents tip, got %d", got)
	}
	for _, item := range order.Items {
		if item.TipEligible && item.TipRate != 0.10 {
			t.Fatalf("tip rate not stamped on eligible item")
		}
		if !item.TipEligible && item.TipRate != 0 {
			t.Fatalf("tip rate stamped on ineligible item")
		}
	}
}

func TestAccountOrderRejectsClosedAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account, err := env.accounts.Create(ctx, &CreateAccountInput{
		StoreID:   env.store.ID,
		CreatedBy: env.operator.ID,
	})
	if err != nil {
		t.Fatalf("create account failed: %v", err)
	}
	if _, err := env.accounts.Close(ctx, account.ID); err != nil {
		t.Fatalf("close empty account failed: %v", err)
	}

	_, err = env.orders.CreateOrder(ctx, &CreateOrderInput{
		StoreID:   env.store.ID,
		Channel:   enum.ChannelAccount,
		AccountID: &account.ID,
		CreatedBy: env.operator.ID,
		Items:     []OrderItemInput{{ProductID: env.coffee.ID, Quantity: 1}},
	})
	if !apperror.IsCode(err, 422) {
		t.Fatalf("expected invalid state for closed account, got %v", err)
	}
}

func TestDeliveryRequiresDeliveryEnabled(t *testing.T) {
	env := newTestEnv(t)
	env.store.Settings.DeliveryEnabled = false

	_, err := env.orders.CreateOrder(context.Background(), &CreateOrderInput{
		StoreID:   env.store.ID,
		Channel:   enum.ChannelDelivery,
		CreatedBy: env.operator.ID,
		Items:     []OrderItemInput{{ProductID: env.coffee.ID, Quantity: 1}},
	})
	if !apperror.IsCode(err, 422) {
		t.Fatalf("expected invalid state with delivery disabled, got %v", err)
	}
}

func TestPickupRequiresAcceptingOrders(t *testing.T) {
	env := newTestEnv(t)
	env.store.Settings.AcceptingOrders = false

	_, err := env.orders.CreateOrder(context.Background(), &CreateOrderInput{
		StoreID:   env.store.ID,
		Channel:   enum.ChannelPickup,
		CreatedBy: env.operator.ID,
		Items:     []OrderItemInput{{ProductID: env.coffee.ID, Quantity: 1}},
	})
	if !apperror.IsCode(err, 422) {
		t.Fatalf("expected invalid state when not accepting orders, got %v", err)
	}
}

func TestInactiveOperatorCannotCreateOrders(t *testing.T) {
	env := newTestEnv(t)
	env.operator.Active = false

	_, err := env.orders.CreateOrder(context.Background(), &CreateOrderInput{
		StoreID:   env.store.ID,
		Channel:   enum.ChannelPickup,
		CreatedBy: env.operator.ID,
		Items:     []OrderItemInput{{ProductID: env.coffee.ID, Quantity: 1}},
	})
	if !apperror.IsCode(err, 403) {
		t.Fatalf("expected forbidden for inactive operator, got %v", err)
	}
}

func TestEnRouteOnlyForDelivery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
		StoreID:   env.store.ID,
		Channel:   enum.ChannelPickup,
		CreatedBy: env.operator.ID,
		Items:     []OrderItemInput{{ProductID: env.coffee.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create pickup order failed: %v", err)
	}

	err = env.orders.UpdateStatus(ctx, order.ID, enum.OrderStatusEnRoute)
	if !apperror.IsCode(err, 422) {
		t.Fatalf("expected en-route to be rejected for pickup, got %v", err)
	}
}

func TestCancelCounterOrderRefundsLedger(t *testing.T) {
	env := newTestEnv(t)
	session := env.openSession(t)
	ctx := context.Background()

	order, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
		StoreID:         env.store.ID,
		Channel:         enum.ChannelCounter,
		PaymentMethodID: &env.cashPay.ID,
		CreatedBy:       env.operator.ID,
		Items:           []OrderItemInput{{ProductID: env.coffee.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create counter order failed: %v", err)
	}

	if err := env.orders.CancelOrder(ctx, order.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	payments, err := env.paymentRepo.ListBySession(ctx, session.ID)
	if err != nil {
		t.Fatalf("list session payments failed: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("expected original plus compensating entry, got %d", len(payments))
	}
	if net := NetBalance(payments); net != 0 {
		t.Fatalf("expected net zero after refund, got %d", net)
	}

	// Cancellation is terminal.
	err = env.orders.CancelOrder(ctx, order.ID)
	if !apperror.IsCode(err, 422) {
		t.Fatalf("expected second cancel to be rejected, got %v", err)
	}
}

func TestTerminalOrderRejectsItemChanges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
		StoreID:   env.store.ID,
		Channel:   enum.ChannelPickup,
		CreatedBy: env.operator.ID,
		Items:     []OrderItemInput{{ProductID: env.coffee.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if err := env.orders.UpdateStatus(ctx, order.ID, enum.OrderStatusFinished); err != nil {
		t.Fatalf("finish order failed: %v", err)
	}

	err = env.orders.AddItem(ctx, order.ID, &OrderItemInput{ProductID: env.cake.ID, Quantity: 1})
	if !apperror.IsCode(err, 422) {
		t.Fatalf("expected item add on finished order to be rejected, got %v", err)
	}
}

func TestCounterSequencePerStorePerDay(t *testing.T) {
	env := newTestEnv(t)
	repo := memory.NewCounterRepo(env.data)
	ctx := context.Background()

	otherStore := env.cake.ID // any distinct uuid works as a second store key

	for want := 1; want <= 3; want++ {
		got, err := repo.Next(ctx, env.store.ID, "2026-08-27")
		if err != nil {
			t.Fatalf("next failed: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}

	// Independent per store.
	if got, _ := repo.Next(ctx, otherStore, "2026-08-27"); got != 1 {
		t.Fatalf("expected independent counter to start at 1, got %d", got)
	}

	// Resets on day change.
	if got, _ := repo.Next(ctx, env.store.ID, "2026-08-28"); got != 1 {
		t.Fatalf("expected day rollover to restart at 1, got %d", got)
	}
	if got, _ := repo.Next(ctx, env.store.ID, "2026-08-28"); got != 2 {
		t.Fatalf("expected 2 after rollover, got %d", got)
	}
}

func defaultOrderFilter() *repository.OrderFilterParams {
	return &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 50},
	}
}
