package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/pkg/apperror"
)

func TestRecordRejectsClosedSession(t *testing.T) {
	env := newTestEnv(t)
	session := env.openSession(t)
	ctx := context.Background()

	if _, err := env.sessions.Close(ctx, &CloseSessionInput{SessionID: session.ID}); err != nil {
		t.Fatalf("close session failed: %v", err)
	}

	_, err := env.payments.Record(ctx, &RecordPaymentInput{
		StoreID:   env.store.ID,
		SessionID: &session.ID,
		Form:      enum.PaymentFormCash,
		Amount:    10.00,
		CreatedBy: env.operator.ID,
	})
	if !apperror.IsCode(err, 422) {
		t.Fatalf("expected invalid state for closed session, got %v", err)
	}
}

func TestRecordRejectsNonPositiveAmount(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.payments.Record(context.Background(), &RecordPaymentInput{
		StoreID:   env.store.ID,
		Form:      enum.PaymentFormCash,
		Amount:    0,
		CreatedBy: env.operator.ID,
	})
	if !apperror.IsCode(err, 400) {
		t.Fatalf("expected bad request for zero amount, got %v", err)
	}
}

func TestRecordRoundsToCents(t *testing.T) {
	env := newTestEnv(t)
	session := env.openSession(t)
	ctx := context.Background()

	// 10.05 has no exact binary representation; truncation would store 1004.
	payment, err := env.payments.Record(ctx, &RecordPaymentInput{
		StoreID:   env.store.ID,
		SessionID: &session.ID,
		Form:      enum.PaymentFormCash,
		Amount:    10.05,
		CreatedBy: env.operator.ID,
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if payment.Amount != 1005 {
		t.Fatalf("expected 1005 cents, got %d", payment.Amount)
	}
}

func TestRefundBatchIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	session := env.openSession(t)
	ctx := context.Background()

	p1, err := env.payments.Record(ctx, &RecordPaymentInput{
		StoreID:   env.store.ID,
		SessionID: &session.ID,
		Form:      enum.PaymentFormCash,
		Amount:    30.00,
		CreatedBy: env.operator.ID,
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	p2, err := env.payments.Record(ctx, &RecordPaymentInput{
		StoreID:   env.store.ID,
		SessionID: &session.ID,
		Form:      enum.PaymentFormDebit,
		Amount:    12.50,
		CreatedBy: env.operator.ID,
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	batch := []uuid.UUID{p1.ID, p2.ID}
	if err := env.payments.RefundBatch(ctx, batch); err != nil {
		t.Fatalf("refund failed: %v", err)
	}

	entries, err := env.paymentRepo.ListBySession(ctx, session.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 2 originals + 2 compensating, got %d", len(entries))
	}
	if net := NetBalance(entries); net != 0 {
		t.Fatalf("expected net zero, got %d", net)
	}

	// Re-applying the same batch must not write anything new.
	if err := env.payments.RefundBatch(ctx, batch); err != nil {
		t.Fatalf("second refund failed: %v", err)
	}
	entries, _ = env.paymentRepo.ListBySession(ctx, session.ID)
	if len(entries) != 4 {
		t.Fatalf("expected refund to be idempotent, got %d entries", len(entries))
	}
}

func TestRefundBatchAbortsOnGatewayFailure(t *testing.T) {
	env := newTestEnv(t)
	session := env.openSession(t)
	ctx := context.Background()

	txID := "tx-external"
	payment := &entity.Payment{
		StoreID:     env.store.ID,
		SessionID:   &session.ID,
		Form:        enum.PaymentFormPix,
		Amount:      2000,
		Kind:        enum.EntryOriginal,
		ChargeTxID:  &txID,
		CreatedByID: env.operator.ID,
	}
	if err := env.paymentRepo.Create(ctx, payment); err != nil {
		t.Fatalf("seed payment failed: %v", err)
	}

	env.gateway.refundErr = fmt.Errorf("provider unavailable")
	err := env.payments.RefundBatch(ctx, []uuid.UUID{payment.ID})
	if err == nil {
		t.Fatalf("expected gateway failure to abort the batch")
	}

	stored, err := env.payments.GetPayment(ctx, payment.ID)
	if err != nil {
		t.Fatalf("get payment failed: %v", err)
	}
	if stored.Refunded {
		t.Fatalf("entry must not be flagged when the gateway refused")
	}
	entries, _ := env.paymentRepo.ListBySession(ctx, session.ID)
	if len(entries) != 1 {
		t.Fatalf("expected no compensating entry, got %d entries", len(entries))
	}
}

func TestRefundEmptyBatchIsNoop(t *testing.T) {
	env := newTestEnv(t)
	if err := env.payments.RefundBatch(context.Background(), nil); err != nil {
		t.Fatalf("empty batch should be a no-op, got %v", err)
	}
}
