package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/pkg/apperror"
)

func TestOpenRejectsSecondSessionForOperator(t *testing.T) {
	env := newTestEnv(t)
	env.openSession(t)

	_, err := env.sessions.Open(context.Background(), &OpenSessionInput{
		StoreID:      env.store.ID,
		OperatorID:   env.operator.ID,
		OpeningFloat: 10.00,
	})
	if !apperror.IsCode(err, 409) {
		t.Fatalf("expected conflict on second open session, got %v", err)
	}
}

func TestOpenAllowedAfterClose(t *testing.T) {
	env := newTestEnv(t)
	session := env.openSession(t)
	ctx := context.Background()

	if _, err := env.sessions.Close(ctx, &CloseSessionInput{SessionID: session.ID}); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if _, err := env.sessions.Open(ctx, &OpenSessionInput{
		StoreID:    env.store.ID,
		OperatorID: env.operator.ID,
	}); err != nil {
		t.Fatalf("open after close failed: %v", err)
	}
}

func TestDoubleCloseIsConflict(t *testing.T) {
	env := newTestEnv(t)
	session := env.openSession(t)
	ctx := context.Background()

	closing, err := env.sessions.Close(ctx, &CloseSessionInput{
		SessionID:     session.ID,
		CountedTotals: map[string]float64{"cash": 80.00},
	})
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if closing.CountedTotals["cash"] != 8000 {
		t.Fatalf("expected counted snapshot in cents, got %d", closing.CountedTotals["cash"])
	}

	_, err = env.sessions.Close(ctx, &CloseSessionInput{
		SessionID:     session.ID,
		CountedTotals: map[string]float64{"cash": 99.00},
	})
	if !apperror.IsCode(err, 409) {
		t.Fatalf("expected conflict on double close, got %v", err)
	}

	// The first snapshot stays immutable.
	got, err := env.sessions.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if got.Closing == nil || got.Closing.CountedTotals["cash"] != 8000 {
		t.Fatalf("expected the first snapshot to survive")
	}
}

func TestMovementRejectedOnClosedSession(t *testing.T) {
	env := newTestEnv(t)
	session := env.openSession(t)
	ctx := context.Background()

	if _, err := env.sessions.Close(ctx, &CloseSessionInput{SessionID: session.ID}); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	_, err := env.sessions.AddMovement(ctx, &AddMovementInput{
		SessionID: session.ID,
		Type:      enum.MovementSupply,
		Amount:    10.00,
	})
	if !apperror.IsCode(err, 422) {
		t.Fatalf("expected movement on closed session to be rejected, got %v", err)
	}
}

func TestSessionReportNetsRefundsAndMovements(t *testing.T) {
	env := newTestEnv(t)
	session := env.openSession(t) // 50.00 opening float
	ctx := context.Background()

	if _, err := env.payments.Record(ctx, &RecordPaymentInput{
		StoreID:   env.store.ID,
		SessionID: &session.ID,
		Form:      enum.PaymentFormCash,
		Amount:    30.00,
		CreatedBy: env.operator.ID,
	}); err != nil {
		t.Fatalf("record cash failed: %v", err)
	}

	pix, err := env.payments.Record(ctx, &RecordPaymentInput{
		StoreID:   env.store.ID,
		SessionID: &session.ID,
		Form:      enum.PaymentFormPix,
		Amount:    20.00,
		CreatedBy: env.operator.ID,
	})
	if err != nil {
		t.Fatalf("record pix failed: %v", err)
	}
	if err := env.payments.RefundBatch(ctx, []uuid.UUID{pix.ID}); err != nil {
		t.Fatalf("refund failed: %v", err)
	}

	if _, err := env.payments.Record(ctx, &RecordPaymentInput{
		StoreID:   env.store.ID,
		SessionID: &session.ID,
		Form:      enum.PaymentFormDebit,
		Amount:    10.00,
		CreatedBy: env.operator.ID,
	}); err != nil {
		t.Fatalf("record debit failed: %v", err)
	}

	if _, err := env.sessions.AddMovement(ctx, &AddMovementInput{
		SessionID: session.ID, Type: enum.MovementSupply, Amount: 10.00,
	}); err != nil {
		t.Fatalf("supply failed: %v", err)
	}
	if _, err := env.sessions.AddMovement(ctx, &AddMovementInput{
		SessionID: session.ID, Type: enum.MovementWithdraw, Amount: 5.00,
	}); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	r, err := env.sessions.Report(ctx, session.ID)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}

	if r.OpeningFloat != 50.00 {
		t.Fatalf("expected opening float 50.00, got %.2f", r.OpeningFloat)
	}
	// Refunded pix entry and its compensating entry cancel out; the debit
	// entry counts like any other system payment.
	if r.SystemTotal != 40.00 {
		t.Fatalf("expected system total 40.00, got %.2f", r.SystemTotal)
	}
	// 50 float + 40 system payments + 10 supply - 5 withdrawal.
	if r.ClosingBalance != 95.00 {
		t.Fatalf("expected closing balance 95.00, got %.2f", r.ClosingBalance)
	}

	byForm := make(map[string]float64, len(r.Forms))
	for _, line := range r.Forms {
		byForm[line.Form] = line.System
	}
	if byForm["cash"] != 30.00 {
		t.Fatalf("expected cash 30.00, got %.2f", byForm["cash"])
	}
	if byForm["debit"] != 10.00 {
		t.Fatalf("expected debit 10.00, got %.2f", byForm["debit"])
	}
	if byForm["pix"] != 0 {
		t.Fatalf("expected pix to net to zero, got %.2f", byForm["pix"])
	}
}

func TestOpenRejectsNegativeFloat(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sessions.Open(context.Background(), &OpenSessionInput{
		StoreID:      env.store.ID,
		OperatorID:   env.operator.ID,
		OpeningFloat: -1,
	})
	if !apperror.IsCode(err, 400) {
		t.Fatalf("expected bad request for negative float, got %v", err)
	}
}
