package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/pkg/apperror"
	"github.com/balcaohq/balcao-api/pkg/notify"
	"github.com/balcaohq/balcao-api/pkg/pixgw"
)

func TestCreateChargeRequiresPixKey(t *testing.T) {
	env := newTestEnv(t)
	env.store.Settings.PixKey = ""

	_, err := env.charges.Create(context.Background(), &CreateChargeInput{
		StoreID:   env.store.ID,
		Amount:    25.00,
		CreatedBy: env.operator.ID,
	})
	if !apperror.IsCode(err, 422) {
		t.Fatalf("expected invalid state without a PIX key, got %v", err)
	}
	if env.gateway.created != 0 {
		t.Fatalf("gateway must not be called when validation fails")
	}
}

func TestReconcileIsExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	session := env.openSession(t)
	ctx := context.Background()

	charge, err := env.charges.Create(ctx, &CreateChargeInput{
		StoreID:   env.store.ID,
		SessionID: &session.ID,
		Amount:    40.00,
		CreatedBy: env.operator.ID,
	})
	if err != nil {
		t.Fatalf("create charge failed: %v", err)
	}

	cb := &pixgw.Callback{
		TxID:       charge.TxID,
		EndToEndID: "E2E-001",
		Amount:     4000,
		Timestamp:  time.Now(),
	}

	// Duplicate deliveries racing each other.
	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = env.charges.Reconcile(ctx, cb)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("reconcile %d failed: %v", i, err)
		}
	}

	entries, err := env.paymentRepo.ListBySession(ctx, session.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one materialized ledger entry, got %d", len(entries))
	}
	if entries[0].Amount != 4000 {
		t.Fatalf("expected 4000 cents, got %d", entries[0].Amount)
	}
	if entries[0].ChargeTxID == nil || *entries[0].ChargeTxID != charge.TxID {
		t.Fatalf("expected ledger entry to carry the charge tx id")
	}

	got, err := env.charges.GetCharge(ctx, charge.ID)
	if err != nil {
		t.Fatalf("get charge failed: %v", err)
	}
	if !got.Status.Terminal() || got.EndToEndID == nil || *got.EndToEndID != "E2E-001" {
		t.Fatalf("expected finished charge with end-to-end id, got status=%s", got.Status)
	}
}

func TestReconcileRejectsAmountMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	charge, err := env.charges.Create(ctx, &CreateChargeInput{
		StoreID:   env.store.ID,
		Amount:    40.00,
		CreatedBy: env.operator.ID,
	})
	if err != nil {
		t.Fatalf("create charge failed: %v", err)
	}

	err = env.charges.Reconcile(ctx, &pixgw.Callback{
		TxID:       charge.TxID,
		EndToEndID: "E2E-002",
		Amount:     3999,
	})
	if !apperror.IsCode(err, 400) {
		t.Fatalf("expected amount mismatch to be rejected, got %v", err)
	}

	got, _ := env.charges.GetCharge(ctx, charge.ID)
	if got.Status.Terminal() {
		t.Fatalf("mismatched callback must not settle the charge")
	}
}

func TestWatchDeliversConfirmationOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	charge, err := env.charges.Create(ctx, &CreateChargeInput{
		StoreID:   env.store.ID,
		Amount:    15.00,
		CreatedBy: env.operator.ID,
	})
	if err != nil {
		t.Fatalf("create charge failed: %v", err)
	}

	ch, err := env.charges.Watch(ctx, charge.ID)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	if err := env.charges.Reconcile(ctx, &pixgw.Callback{
		TxID:       charge.TxID,
		EndToEndID: "E2E-003",
		Amount:     1500,
	}); err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	select {
	case got, open := <-ch:
		if !open || got == nil {
			t.Fatalf("expected the confirmed charge, channel closed empty")
		}
		if !got.Status.Terminal() {
			t.Fatalf("expected terminal status, got %s", got.Status)
		}
	case <-time.After(time.Second):
		t.Fatalf("watcher was never signalled")
	}

	// The channel closes after the single delivery.
	if _, open := <-ch; open {
		t.Fatalf("expected channel to be closed after delivery")
	}
}

func TestWatchResolvesTerminalChargeImmediately(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	charge, err := env.charges.Create(ctx, &CreateChargeInput{
		StoreID:   env.store.ID,
		Amount:    15.00,
		CreatedBy: env.operator.ID,
	})
	if err != nil {
		t.Fatalf("create charge failed: %v", err)
	}
	if err := env.charges.CancelBatch(ctx, []uuid.UUID{charge.ID}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	ch, err := env.charges.Watch(ctx, charge.ID)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	select {
	case got, open := <-ch:
		if !open || got == nil || !got.Status.Terminal() {
			t.Fatalf("expected immediate terminal resolution")
		}
	default:
		t.Fatalf("expected buffered immediate delivery")
	}
}

func TestWatchReleasedOnCancellation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	charge, err := env.charges.Create(ctx, &CreateChargeInput{
		StoreID:   env.store.ID,
		Amount:    15.00,
		CreatedBy: env.operator.ID,
	})
	if err != nil {
		t.Fatalf("create charge failed: %v", err)
	}

	ch, err := env.charges.Watch(ctx, charge.ID)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	if err := env.charges.CancelBatch(ctx, []uuid.UUID{charge.ID}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	select {
	case got, open := <-ch:
		if !open || got == nil {
			t.Fatalf("expected the cancelled charge, channel closed empty")
		}
		if got.Status != enum.ChargeStatusCancelled {
			t.Fatalf("expected cancelled status, got %s", got.Status)
		}
	case <-time.After(time.Second):
		t.Fatalf("watcher was never released on cancellation")
	}
	if _, open := <-ch; open {
		t.Fatalf("expected channel to be closed after delivery")
	}
}

func TestReconcileRecoversFromPaymentFailure(t *testing.T) {
	env := newTestEnv(t)
	session := env.openSession(t)
	ctx := context.Background()

	flaky := &failingPaymentRepo{PaymentRepository: env.paymentRepo, failCreate: true}
	charges := NewChargeService(env.chargeRepo, flaky, env.storeRepo, env.gateway, notify.NoopNotifier{})

	charge, err := charges.Create(ctx, &CreateChargeInput{
		StoreID:   env.store.ID,
		SessionID: &session.ID,
		Amount:    20.00,
		CreatedBy: env.operator.ID,
	})
	if err != nil {
		t.Fatalf("create charge failed: %v", err)
	}

	cb := &pixgw.Callback{TxID: charge.TxID, EndToEndID: "E2E-010", Amount: 2000}
	if err := charges.Reconcile(ctx, cb); err == nil {
		t.Fatalf("expected reconcile to surface the ledger write failure")
	}

	// The transition was handed back, so a provider retry completes it.
	got, _ := charges.GetCharge(ctx, charge.ID)
	if got.Status != enum.ChargeStatusProcessing || got.EndToEndID != nil {
		t.Fatalf("expected charge back in processing, got status=%s", got.Status)
	}

	flaky.failCreate = false
	if err := charges.Reconcile(ctx, cb); err != nil {
		t.Fatalf("retried reconcile failed: %v", err)
	}

	entries, err := env.paymentRepo.ListBySession(ctx, session.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one materialized ledger entry, got %d", len(entries))
	}
	got, _ = charges.GetCharge(ctx, charge.ID)
	if got.Status != enum.ChargeStatusFinished || got.EndToEndID == nil {
		t.Fatalf("expected finished charge after retry, got status=%s", got.Status)
	}
}

func TestCancelBatchEmptyIsNoop(t *testing.T) {
	env := newTestEnv(t)
	if err := env.charges.CancelBatch(context.Background(), nil); err != nil {
		t.Fatalf("empty cancel batch should be a no-op, got %v", err)
	}
}
