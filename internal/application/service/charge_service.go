package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/internal/domain/repository"
	"github.com/balcaohq/balcao-api/pkg/apperror"
	"github.com/balcaohq/balcao-api/pkg/notify"
	"github.com/balcaohq/balcao-api/pkg/pagination"
	"github.com/balcaohq/balcao-api/pkg/pixgw"
)

const defaultChargeExpiry = 15 * time.Minute

// ChargeService creates instant-transfer charges and reconciles their
// out-of-band confirmations. Reconciliation is exactly-once: the ledger
// entry of a charge is materialized only by the goroutine that wins the
// processing -> finished compare-and-set, no matter how many duplicate
// callbacks the provider delivers.
type ChargeService struct {
	chargeRepo  repository.ChargeRepository
	paymentRepo repository.PaymentRepository
	storeRepo   repository.StoreRepository
	gateway     pixgw.Gateway
	notifier    notify.Notifier

	mu       sync.Mutex
	watchers map[uuid.UUID][]chan *entity.PixCharge
}

// NewChargeService creates a new charge service
func NewChargeService(
	chargeRepo repository.ChargeRepository,
	paymentRepo repository.PaymentRepository,
	storeRepo repository.StoreRepository,
	gateway pixgw.Gateway,
	notifier notify.Notifier,
) *ChargeService {
	return &ChargeService{
		chargeRepo:  chargeRepo,
		paymentRepo: paymentRepo,
		storeRepo:   storeRepo,
		gateway:     gateway,
		notifier:    notifier,
		watchers:    make(map[uuid.UUID][]chan *entity.PixCharge),
	}
}

// CreateChargeInput represents the data needed to request a charge
type CreateChargeInput struct {
	StoreID       uuid.UUID
	AccountID     *uuid.UUID
	SessionID     *uuid.UUID
	OrderID       *uuid.UUID
	Amount        float64
	PayerName     string
	PayerDocument string
	CreatedBy     uuid.UUID
}

// Create registers the charge with the provider first and persists it only
// on success, so an upstream failure leaves no local artifact to reconcile.
func (s *ChargeService) Create(ctx context.Context, input *CreateChargeInput) (*entity.PixCharge, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Charge amount must be greater than zero")
	}

	store, err := s.storeRepo.GetByID(ctx, input.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.NewNotFoundError("Store")
	}
	if store.Settings.PixKey == "" {
		return nil, apperror.NewInvalidStateError("Store has no PIX key configured")
	}

	amountCents := int64(math.Round(input.Amount * 100))
	localID := uuid.New()
	resp, err := s.gateway.CreateCharge(ctx, pixgw.ChargeRequest{
		LocalID:       localID.String(),
		Amount:        amountCents,
		Key:           store.Settings.PixKey,
		PayerName:     input.PayerName,
		PayerDocument: input.PayerDocument,
		ExpiresIn:     defaultChargeExpiry,
	})
	if err != nil {
		return nil, err
	}

	charge := &entity.PixCharge{
		ID:          localID,
		StoreID:     input.StoreID,
		CreatedByID: input.CreatedBy,
		TxID:        resp.TxID,
		Status:      enum.ChargeStatusProcessing,
		QRPayload:   resp.QRPayload,
		Pending: entity.PendingPayment{
			AccountID: input.AccountID,
			SessionID: input.SessionID,
			OrderID:   input.OrderID,
			Form:      enum.PaymentFormPix,
			Amount:    amountCents,
		},
	}
	if err := s.chargeRepo.Create(ctx, charge); err != nil {
		return nil, err
	}
	return charge, nil
}

// GetCharge retrieves a charge by id
func (s *ChargeService) GetCharge(ctx context.Context, id uuid.UUID) (*entity.PixCharge, error) {
	charge, err := s.chargeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if charge == nil {
		return nil, apperror.NewNotFoundError("Charge")
	}
	return charge, nil
}

// ListCharges lists charges with optional status filtering
func (s *ChargeService) ListCharges(ctx context.Context, storeID uuid.UUID, status *enum.ChargeStatus, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.PixCharge], error) {
	charges, total, err := s.chargeRepo.List(ctx, storeID, status, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(charges, pag), nil
}

// Reconcile processes a provider confirmation. The processing -> finished
// transition is a compare-and-set: only the winner materializes the ledger
// entry and signals watchers. Losers (duplicate callbacks, already
// cancelled charges) return without side effects.
func (s *ChargeService) Reconcile(ctx context.Context, cb *pixgw.Callback) error {
	charge, err := s.chargeRepo.GetByTxID(ctx, cb.TxID)
	if err != nil {
		return err
	}
	if charge == nil {
		return apperror.NewNotFoundError("Charge")
	}
	if cb.Amount != 0 && cb.Amount != charge.Pending.Amount {
		return apperror.NewBadRequestError("Callback amount does not match charge")
	}

	won, err := s.chargeRepo.FinishIfProcessing(ctx, cb.TxID, cb.EndToEndID)
	if err != nil {
		return err
	}
	if !won {
		// Duplicate or late callback. The first one already did the work.
		return nil
	}

	charge.Status = enum.ChargeStatusFinished
	charge.EndToEndID = &cb.EndToEndID

	if err := s.paymentRepo.Create(ctx, charge.MaterializePayment()); err != nil {
		// Hand the transition back so a retried callback can finish the job.
		if revertErr := s.chargeRepo.RevertToProcessing(ctx, cb.TxID); revertErr != nil {
			return fmt.Errorf("materialize payment: %w (revert failed: %v)", err, revertErr)
		}
		return err
	}

	s.signalWatchers(charge)

	_ = s.notifier.Notify(ctx, notify.Event{
		Type:    "charge.finished",
		Title:   "PIX charge confirmed",
		Message: "Charge " + charge.TxID + " confirmed",
		RefID:   charge.ID.String(),
	})
	return nil
}

// CancelBatch cancels the given still-processing charges and releases
// their watchers. Empty input is a no-op; charges already terminal are
// left untouched.
func (s *ChargeService) CancelBatch(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.chargeRepo.CancelBatch(ctx, ids); err != nil {
		return err
	}
	for _, id := range ids {
		charge, err := s.chargeRepo.GetByID(ctx, id)
		if err != nil || charge == nil {
			continue
		}
		if charge.Status == enum.ChargeStatusCancelled {
			s.signalWatchers(charge)
		}
	}
	return nil
}

// Watch returns a channel that delivers the charge once when it reaches a
// terminal status, then closes. A charge already terminal resolves
// immediately.
func (s *ChargeService) Watch(ctx context.Context, chargeID uuid.UUID) (<-chan *entity.PixCharge, error) {
	charge, err := s.GetCharge(ctx, chargeID)
	if err != nil {
		return nil, err
	}

	ch := make(chan *entity.PixCharge, 1)
	if charge.Status.Terminal() {
		ch <- charge
		close(ch)
		return ch, nil
	}

	s.mu.Lock()
	s.watchers[chargeID] = append(s.watchers[chargeID], ch)
	s.mu.Unlock()
	return ch, nil
}

// signalWatchers delivers the terminal charge to every registered watcher
// exactly once and drops the registration.
func (s *ChargeService) signalWatchers(charge *entity.PixCharge) {
	s.mu.Lock()
	chans := s.watchers[charge.ID]
	delete(s.watchers, charge.ID)
	s.mu.Unlock()

	for _, ch := range chans {
		ch <- charge
		close(ch)
	}
}
