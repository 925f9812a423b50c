package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/internal/domain/repository"
	"github.com/balcaohq/balcao-api/pkg/apperror"
	"github.com/balcaohq/balcao-api/pkg/pagination"
)

// AccountService manages customer tabs: open, receipt computation, close
// and review flows. The close invariant compares totals in integer cents;
// floats appear only in the rendered receipt.
type AccountService struct {
	accountRepo  repository.AccountRepository
	orderRepo    repository.OrderRepository
	paymentRepo  repository.PaymentRepository
	customerRepo repository.CustomerRepository
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo repository.AccountRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	customerRepo repository.CustomerRepository,
) *AccountService {
	return &AccountService{
		accountRepo:  accountRepo,
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
	}
}

// CreateAccountInput represents the data needed to open a tab
type CreateAccountInput struct {
	StoreID     uuid.UUID
	Description string
	CustomerID  *uuid.UUID
	CreatedBy   uuid.UUID
}

// Create opens a new tab. When a customer is referenced, the display name is
// snapshotted on the account so later customer edits do not rewrite history.
func (s *AccountService) Create(ctx context.Context, input *CreateAccountInput) (*entity.Account, error) {
	account := &entity.Account{
		StoreID:     input.StoreID,
		Description: input.Description,
		Status:      enum.AccountStatusOpen,
		CustomerID:  input.CustomerID,
		CreatedByID: input.CreatedBy,
	}

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		account.CustomerName = customer.Name
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount retrieves a tab by id
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewNotFoundError("Account")
	}
	return account, nil
}

// ListAccounts lists tabs with optional status filtering
func (s *AccountService) ListAccounts(ctx context.Context, storeID uuid.UUID, status *enum.AccountStatus, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Account], error) {
	accounts, total, err := s.accountRepo.List(ctx, storeID, status, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(accounts, pag), nil
}

// ComputeReceipt builds the receipt for a tab from its non-cancelled orders
// and non-refunded original ledger entries. All sums run in integer cents;
// the float fields exist only for rendering. totalOrder is the sum of order
// subtotals; the suggested tip is reported as its own aggregate and does not
// enter the close comparison.
func (s *AccountService) ComputeReceipt(ctx context.Context, accountID uuid.UUID) (*entity.AccountReceipt, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListByAccount(ctx, accountID, true)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	receipt := &entity.AccountReceipt{
		AccountID:    account.ID.String(),
		Description:  account.Description,
		CustomerName: account.CustomerName,
		AllTipped:    true,
	}

	for i := range orders {
		o := &orders[i]
		sub := o.Subtotal()
		tip := o.TotalTip()
		receipt.TotalOrderCents += sub
		receipt.TotalTipCents += tip
		receipt.TotalProducts += o.TotalProducts()
		for j := range o.Items {
			if o.Items[j].TipAmount() == 0 {
				receipt.AllTipped = false
			}
		}
		receipt.Orders = append(receipt.Orders, entity.ReceiptOrderLine{
			OrderID:    o.ID.String(),
			SequenceNo: o.SequenceNo,
			Subtotal:   float64(sub) / 100,
			Tip:        float64(tip) / 100,
			Products:   o.TotalProducts(),
		})
	}

	for i := range payments {
		p := &payments[i]
		if p.Kind != enum.EntryOriginal || p.Refunded {
			continue
		}
		receipt.TotalPaymentCents += p.Amount
	}

	receipt.TotalOrder = float64(receipt.TotalOrderCents) / 100
	receipt.TotalPayment = float64(receipt.TotalPaymentCents) / 100
	receipt.TotalTip = float64(receipt.TotalTipCents) / 100
	receipt.SubTotal = float64(receipt.TotalOrderCents-receipt.TotalPaymentCents) / 100
	return receipt, nil
}

// CanClose reports whether the tab may be closed right now, returning the
// receipt it judged so the caller can display the imbalance.
func (s *AccountService) CanClose(ctx context.Context, accountID uuid.UUID) (bool, *entity.AccountReceipt, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return false, nil, err
	}
	if account.Status != enum.AccountStatusOpen {
		return false, nil, apperror.NewInvalidStateError("Account is not open")
	}

	orders, err := s.orderRepo.ListByAccount(ctx, accountID, true)
	if err != nil {
		return false, nil, err
	}
	for i := range orders {
		if !orders[i].Status.Terminal() {
			return false, nil, apperror.NewInvalidStateError("Account has unfinished orders")
		}
	}

	receipt, err := s.ComputeReceipt(ctx, accountID)
	if err != nil {
		return false, nil, err
	}
	return receipt.Balanced(), receipt, nil
}

// Close settles and closes a balanced tab. An unbalanced receipt rejects
// the close with the exact cents difference disclosed.
func (s *AccountService) Close(ctx context.Context, accountID uuid.UUID) (*entity.AccountReceipt, error) {
	ok, receipt, err := s.CanClose(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !ok {
		diff := receipt.TotalOrderCents - receipt.TotalPaymentCents
		return nil, apperror.NewInvalidStateError(fmt.Sprintf("Account is not balanced: %.2f outstanding", float64(diff)/100))
	}
	if err := s.accountRepo.UpdateStatus(ctx, accountID, enum.AccountStatusClosed); err != nil {
		return nil, err
	}
	return receipt, nil
}

// MarkUnderReview flags an open tab for manual review, blocking further
// orders against it until resolved.
func (s *AccountService) MarkUnderReview(ctx context.Context, accountID uuid.UUID) error {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if account.Status != enum.AccountStatusOpen {
		return apperror.NewInvalidStateError("Only open accounts can be put under review")
	}
	return s.accountRepo.UpdateStatus(ctx, accountID, enum.AccountStatusUnderReview)
}

// Reopen returns an under-review tab to open
func (s *AccountService) Reopen(ctx context.Context, accountID uuid.UUID) error {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if account.Status != enum.AccountStatusUnderReview {
		return apperror.NewInvalidStateError("Only accounts under review can be reopened")
	}
	return s.accountRepo.UpdateStatus(ctx, accountID, enum.AccountStatusOpen)
}

// Delete soft-deletes a tab, allowed only when nothing ever referenced it.
// A tab with any order or ledger entry is history and must be closed, not
// deleted.
func (s *AccountService) Delete(ctx context.Context, accountID uuid.UUID) error {
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return err
	}

	orderCount, err := s.orderRepo.CountByAccount(ctx, accountID)
	if err != nil {
		return err
	}
	paymentCount, err := s.paymentRepo.CountByAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if orderCount > 0 || paymentCount > 0 {
		return apperror.NewInvalidStateError("Account has orders or payments and cannot be deleted")
	}
	return s.accountRepo.SoftDelete(ctx, accountID)
}
