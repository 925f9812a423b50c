package service

import (
	"context"
	"strings"
	"testing"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/pkg/apperror"
)

// tabWithOrder opens a tab and rings one finished account order against it:
// 2x coffee (10.00, tip eligible) + 1x cake (5.00). Subtotal 25.00, plus a
// suggested 10% tip of 2.00 on the coffee line.
func tabWithOrder(t *testing.T, env *testEnv) *entity.Account {
	t.Helper()
	ctx := context.Background()

	account, err := env.accounts.Create(ctx, &CreateAccountInput{
		StoreID:     env.store.ID,
		Description: "Mesa 7",
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
		t.Fatalf("create order failed: %v", err)
	}
	if err := env.orders.UpdateStatus(ctx, order.ID, enum.OrderStatusFinished); err != nil {
		t.Fatalf("finish order failed: %v", err)
	}
	return account
}

func payTab(t *testing.T, env *testEnv, account *entity.Account, amount float64) {
	t.Helper()
	if _, err := env.payments.Record(context.Background(), &RecordPaymentInput{
		StoreID:   env.store.ID,
		AccountID: &account.ID,
		Form:      enum.PaymentFormCash,
		Amount:    amount,
		CreatedBy: env.operator.ID,
	}); err != nil {
		t.Fatalf("record payment failed: %v", err)
	}
}

func TestReceiptComputesInCents(t *testing.T) {
	env := newTestEnv(t)
	account := tabWithOrder(t, env)
	payTab(t, env, account, 10.00)

	receipt, err := env.accounts.ComputeReceipt(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("compute receipt failed: %v", err)
	}
	if receipt.TotalOrderCents != 2500 {
		t.Fatalf("expected 2500 cents ordered, got %d", receipt.TotalOrderCents)
	}
	if receipt.TotalTipCents != 200 {
		t.Fatalf("expected 200 cents tip, got %d", receipt.TotalTipCents)
	}
	if receipt.TotalPaymentCents != 1000 {
		t.Fatalf("expected 1000 cents paid, got %d", receipt.TotalPaymentCents)
	}
	if receipt.SubTotal != 15.00 {
		t.Fatalf("expected 15.00 outstanding, got %.2f", receipt.SubTotal)
	}
	if receipt.AllTipped {
		t.Fatalf("cake line has no tip, AllTipped must be false")
	}
	if receipt.Balanced() {
		t.Fatalf("receipt must not be balanced yet")
	}
}

func TestAllTippedTracksEveryItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account, err := env.accounts.Create(ctx, &CreateAccountInput{
		StoreID:   env.store.ID,
		CreatedBy: env.operator.ID,
	})
	if err != nil {
		t.Fatalf("create account failed: %v", err)
	}
	if _, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
		StoreID:   env.store.ID,
		Channel:   enum.ChannelAccount,
		AccountID: &account.ID,
		CreatedBy: env.operator.ID,
		Items:     []OrderItemInput{{ProductID: env.coffee.ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	receipt, err := env.accounts.ComputeReceipt(ctx, account.ID)
	if err != nil {
		t.Fatalf("compute receipt failed: %v", err)
	}
	if !receipt.AllTipped {
		t.Fatalf("every item carries a tip, AllTipped must be true")
	}
}

func TestCloseRequiresExactCents(t *testing.T) {
	env := newTestEnv(t)
	account := tabWithOrder(t, env)
	ctx := context.Background()

	// One cent short: 24.99 against the 25.00 order total.
	payTab(t, env, account, 24.99)
	_, err := env.accounts.Close(ctx, account.ID)
	if !apperror.IsCode(err, 422) {
		t.Fatalf("expected unbalanced close to be rejected, got %v", err)
	}
	if !strings.Contains(err.Error(), "0.01") {
		t.Fatalf("expected the one-cent difference to be disclosed, got %v", err)
	}

	payTab(t, env, account, 0.01)
	receipt, err := env.accounts.Close(ctx, account.ID)
	if err != nil {
		t.Fatalf("balanced close failed: %v", err)
	}
	if !receipt.Balanced() {
		t.Fatalf("expected balanced receipt on close")
	}

	got, err := env.accounts.GetAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if got.Status != enum.AccountStatusClosed {
		t.Fatalf("expected closed status, got %s", got.Status)
	}
}

func TestCloseRejectsUnfinishedOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account, err := env.accounts.Create(ctx, &CreateAccountInput{
		StoreID:   env.store.ID,
		CreatedBy: env.operator.ID,
	})
	if err != nil {
		t.Fatalf("create account failed: %v", err)
	}
	if _, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
		StoreID:   env.store.ID,
		Channel:   enum.ChannelAccount,
		AccountID: &account.ID,
		CreatedBy: env.operator.ID,
		Items:     []OrderItemInput{{ProductID: env.cake.ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	payTab(t, env, account, 5.00)
	_, err = env.accounts.Close(ctx, account.ID)
	if !apperror.IsCode(err, 422) {
		t.Fatalf("expected close with pending order to be rejected, got %v", err)
	}
}

func TestCancelledOrdersExcludedFromReceipt(t *testing.T) {
	env := newTestEnv(t)
	account := tabWithOrder(t, env)
	ctx := context.Background()

	cancelled, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
		StoreID:   env.store.ID,
		Channel:   enum.ChannelAccount,
		AccountID: &account.ID,
		CreatedBy: env.operator.ID,
		Items:     []OrderItemInput{{ProductID: env.coffee.ID, Quantity: 5}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if err := env.orders.CancelOrder(ctx, cancelled.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	receipt, err := env.accounts.ComputeReceipt(ctx, account.ID)
	if err != nil {
		t.Fatalf("compute receipt failed: %v", err)
	}
	if receipt.TotalOrderCents != 2500 {
		t.Fatalf("cancelled order leaked into the receipt: %d", receipt.TotalOrderCents)
	}
	if receipt.TotalTipCents != 200 {
		t.Fatalf("cancelled order tip leaked into the receipt: %d", receipt.TotalTipCents)
	}
}

func TestReviewAndReopenFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account, err := env.accounts.Create(ctx, &CreateAccountInput{
		StoreID:   env.store.ID,
		CreatedBy: env.operator.ID,
	})
	if err != nil {
		t.Fatalf("create account failed: %v", err)
	}

	if err := env.accounts.MarkUnderReview(ctx, account.ID); err != nil {
		t.Fatalf("mark under review failed: %v", err)
	}
	// Orders are blocked while under review.
	_, err = env.orders.CreateOrder(ctx, &CreateOrderInput{
		StoreID:   env.store.ID,
		Channel:   enum.ChannelAccount,
		AccountID: &account.ID,
		CreatedBy: env.operator.ID,
		Items:     []OrderItemInput{{ProductID: env.cake.ID, Quantity: 1}},
	})
	if !apperror.IsCode(err, 422) {
		t.Fatalf("expected order against reviewed account to be rejected, got %v", err)
	}

	if err := env.accounts.Reopen(ctx, account.ID); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, _ := env.accounts.GetAccount(ctx, account.ID)
	if got.Status != enum.AccountStatusOpen {
		t.Fatalf("expected open after reopen, got %s", got.Status)
	}
}

func TestDeleteOnlyWhenUnreferenced(t *testing.T) {
	env := newTestEnv(t)
	account := tabWithOrder(t, env)
	ctx := context.Background()

	err := env.accounts.Delete(ctx, account.ID)
	if !apperror.IsCode(err, 422) {
		t.Fatalf("expected delete of referenced account to be rejected, got %v", err)
	}

	empty, err := env.accounts.Create(ctx, &CreateAccountInput{
		StoreID:   env.store.ID,
		CreatedBy: env.operator.ID,
	})
	if err != nil {
		t.Fatalf("create account failed: %v", err)
	}
	if err := env.accounts.Delete(ctx, empty.ID); err != nil {
		t.Fatalf("delete of empty account failed: %v", err)
	}
	_, err = env.accounts.GetAccount(ctx, empty.ID)
	if !apperror.IsCode(err, 404) {
		t.Fatalf("expected deleted account to be gone, got %v", err)
	}
}

func TestCustomerNameSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := &entity.Customer{StoreID: env.store.ID, Name: "Carlos Lima"}
	env.data.SeedCustomer(customer)

	account, err := env.accounts.Create(ctx, &CreateAccountInput{
		StoreID:    env.store.ID,
		CustomerID: &customer.ID,
		CreatedBy:  env.operator.ID,
	})
	if err != nil {
		t.Fatalf("create account failed: %v", err)
	}
	if account.CustomerName != "Carlos Lima" {
		t.Fatalf("expected snapshotted customer name, got %q", account.CustomerName)
	}

	// Renaming the customer later must not rewrite the tab.
	customer.Name = "C. Lima"
	got, err := env.accounts.GetAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if got.CustomerName != "Carlos Lima" {
		t.Fatalf("customer rename leaked into the account: %q", got.CustomerName)
	}
}
