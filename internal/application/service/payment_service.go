package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/internal/domain/repository"
	"github.com/balcaohq/balcao-api/pkg/apperror"
	"github.com/balcaohq/balcao-api/pkg/pixgw"
)

// PaymentService is the append-oriented payment ledger. Refunds never
// delete: they flag the original entry and write a negated compensating
// entry, so the ledger always sums to the true net balance.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	sessionRepo repository.CashSessionRepository
	gateway     pixgw.Gateway
}

// NewPaymentService creates a new payment ledger service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	sessionRepo repository.CashSessionRepository,
	gateway pixgw.Gateway,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		sessionRepo: sessionRepo,
		gateway:     gateway,
	}
}

// RecordPaymentInput represents a new ledger entry
type RecordPaymentInput struct {
	StoreID   uuid.UUID
	AccountID *uuid.UUID
	SessionID *uuid.UUID
	OrderID   *uuid.UUID
	Form      enum.PaymentForm
	Amount    float64
	CreatedBy uuid.UUID
}

// Record appends a ledger entry. When the entry references a cash session,
// the session must still be open.
func (s *PaymentService) Record(ctx context.Context, input *RecordPaymentInput) (*entity.Payment, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Payment amount must be greater than zero")
	}

	if input.SessionID != nil {
		session, err := s.sessionRepo.GetByID(ctx, *input.SessionID)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, apperror.NewNotFoundError("Cash session")
		}
		if session.Status != enum.SessionStatusOpen {
			return nil, apperror.NewInvalidStateError("Cash session is not open")
		}
	}

	payment := &entity.Payment{
		StoreID:     input.StoreID,
		AccountID:   input.AccountID,
		SessionID:   input.SessionID,
		OrderID:     input.OrderID,
		Form:        input.Form,
		Amount:      int64(math.Round(input.Amount * 100)),
		Kind:        enum.EntryOriginal,
		CreatedByID: input.CreatedBy,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// RefundBatch refunds a set of ledger entries. Idempotent at the set level:
// entries already refunded (and compensating entries) are filtered out
// before processing, so re-applying the same batch produces no new entries.
func (s *PaymentService) RefundBatch(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	entries, err := s.paymentRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	pending := make([]entity.Payment, 0, len(entries))
	for _, e := range entries {
		if e.Refunded || e.Kind != enum.EntryOriginal {
			continue
		}
		pending = append(pending, e)
	}
	if len(pending) == 0 {
		return nil
	}

	// Trigger external cancellation first. A gateway failure aborts the
	// batch before any local entry is flagged.
	for _, e := range pending {
		if e.ChargeTxID == nil {
			continue
		}
		if err := s.gateway.CancelRefund(ctx, *e.ChargeTxID, e.ID.String(), e.Amount); err != nil {
			return err
		}
	}

	pendingIDs := make([]uuid.UUID, len(pending))
	for i, e := range pending {
		pendingIDs[i] = e.ID
	}
	if err := s.paymentRepo.MarkRefunded(ctx, pendingIDs); err != nil {
		return err
	}

	for i := range pending {
		comp := pending[i].Compensation()
		if err := s.paymentRepo.Create(ctx, comp); err != nil {
			// The original is already flagged; disclose rather than
			// silently leave the ledger unbalanced.
			return fmt.Errorf("refund partially applied, compensating entry for %s failed: %w", pending[i].ID, err)
		}
	}
	return nil
}

// GetPayment retrieves a payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

// ListBySession lists the ledger entries rung against a cash session
func (s *PaymentService) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.Payment, error) {
	return s.paymentRepo.ListBySession(ctx, sessionID)
}

// NetBalance sums entries of both kinds to the true net balance in cents.
func NetBalance(entries []entity.Payment) int64 {
	var total int64
	for i := range entries {
		total += entries[i].Amount
	}
	return total
}
