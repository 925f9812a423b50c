package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/internal/domain/repository"
	"github.com/balcaohq/balcao-api/pkg/apperror"
	"github.com/balcaohq/balcao-api/pkg/pagination"
	"github.com/balcaohq/balcao-api/pkg/report"
)

// CashSessionService manages till sessions: open, manual movements, the
// two-step close with its immutable reconciliation snapshot, and the
// closing report.
type CashSessionService struct {
	sessionRepo   repository.CashSessionRepository
	userRepo      repository.UserRepository
	analyticsRepo repository.AnalyticsRepository
}

// NewCashSessionService creates a new cash session service
func NewCashSessionService(
	sessionRepo repository.CashSessionRepository,
	userRepo repository.UserRepository,
	analyticsRepo repository.AnalyticsRepository,
) *CashSessionService {
	return &CashSessionService{
		sessionRepo:   sessionRepo,
		userRepo:      userRepo,
		analyticsRepo: analyticsRepo,
	}
}

// OpenSessionInput represents the data needed to open a till session
type OpenSessionInput struct {
	StoreID      uuid.UUID
	OperatorID   uuid.UUID
	OpeningFloat float64
}

// Open starts a till session for an operator. The repository insert is
// conditional on no open session existing for that operator, so concurrent
// opens cannot both succeed.
func (s *CashSessionService) Open(ctx context.Context, input *OpenSessionInput) (*entity.CashSession, error) {
	if input.OpeningFloat < 0 {
		return nil, apperror.NewBadRequestError("Opening float cannot be negative")
	}

	operator, err := s.userRepo.GetByID(ctx, input.OperatorID)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, apperror.NewNotFoundError("Operator")
	}
	if !operator.Active {
		return nil, apperror.ErrOperatorInactive
	}

	session := &entity.CashSession{
		StoreID:      input.StoreID,
		OperatorID:   input.OperatorID,
		Status:       enum.SessionStatusOpen,
		OpeningFloat: int64(math.Round(input.OpeningFloat * 100)),
		OpenedAt:     time.Now(),
	}
	if err := s.sessionRepo.Open(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession retrieves a session with its movements and closing snapshot
func (s *CashSessionService) GetSession(ctx context.Context, id uuid.UUID) (*entity.CashSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Cash session")
	}
	return session, nil
}

// ListSessions lists sessions for a store
func (s *CashSessionService) ListSessions(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.CashSession], error) {
	sessions, total, err := s.sessionRepo.List(ctx, storeID, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sessions, pag), nil
}

// AddMovementInput represents a manual supply or withdrawal
type AddMovementInput struct {
	SessionID       uuid.UUID
	Type            enum.MovementType
	Amount          float64
	PaymentMethodID *uuid.UUID
	Note            string
}

// AddMovement records a supply or withdrawal against an open session.
// Movements against closed sessions are rejected; the snapshot they would
// skew is already frozen.
func (s *CashSessionService) AddMovement(ctx context.Context, input *AddMovementInput) (*entity.CashMovement, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Movement amount must be greater than zero")
	}

	session, err := s.GetSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != enum.SessionStatusOpen {
		return nil, apperror.NewInvalidStateError("Cash session is closed")
	}

	movement := &entity.CashMovement{
		SessionID:       input.SessionID,
		Type:            input.Type,
		Amount:          int64(math.Round(input.Amount * 100)),
		PaymentMethodID: input.PaymentMethodID,
		Note:            input.Note,
	}
	if err := s.sessionRepo.AddMovement(ctx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// CloseSessionInput carries the operator-counted totals per payment form,
// in decimal currency units.
type CloseSessionInput struct {
	SessionID     uuid.UUID
	CountedTotals map[string]float64
}

// Close performs the two-step close: flip the session closed with a
// compare-and-set, then persist the counted-totals snapshot. Either step
// failing because it already happened surfaces as Conflict, so a double
// close never produces a second snapshot.
func (s *CashSessionService) Close(ctx context.Context, input *CloseSessionInput) (*entity.CashClosing, error) {
	session, err := s.GetSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	closedAt := time.Now()
	swapped, err := s.sessionRepo.Close(ctx, session.ID, closedAt)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, apperror.NewConflictError("Cash session is already closed")
	}

	counted := make(map[string]int64, len(input.CountedTotals))
	for form, amount := range input.CountedTotals {
		counted[form] = int64(math.Round(amount * 100))
	}
	closing := &entity.CashClosing{
		SessionID:     session.ID,
		CountedTotals: counted,
	}
	if err := s.sessionRepo.CreateClosing(ctx, closing); err != nil {
		return nil, err
	}
	return closing, nil
}

// Report assembles the reconciliation view of a session: opening float,
// system totals per payment form, manual movements and the derived closing
// balance, side by side with the counted snapshot when one exists.
func (s *CashSessionService) Report(ctx context.Context, sessionID uuid.UUID) (*report.SessionReport, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	operator, err := s.userRepo.GetByID(ctx, session.OperatorID)
	if err != nil {
		return nil, err
	}
	operatorName := ""
	if operator != nil {
		operatorName = strings.TrimSpace(operator.FirstName + " " + operator.LastName)
	}

	// The by-form rollup sums every entry: refunded originals and their
	// negated compensating entries cancel out, so the net is correct
	// without filtering.
	byForm, err := s.analyticsRepo.PaymentsByForm(ctx, session.StoreID, &sessionID, nil, nil)
	if err != nil {
		return nil, err
	}
	systemByForm := make(map[string]int64, len(byForm))
	var systemTotal int64
	for _, t := range byForm {
		cents := int64(math.Round(t.Total * 100))
		systemByForm[t.Form] = cents
		systemTotal += cents
	}

	var supplies, withdrawals int64
	for i := range session.Movements {
		m := &session.Movements[i]
		switch m.Type {
		case enum.MovementSupply:
			supplies += m.Amount
		case enum.MovementWithdraw:
			withdrawals += m.Amount
		}
	}

	closingBalance := session.OpeningFloat + systemTotal + supplies - withdrawals

	r := &report.SessionReport{
		SessionID:      session.ID.String(),
		Operator:       operatorName,
		OpenedAt:       session.OpenedAt,
		ClosedAt:       session.ClosedAt,
		OpeningFloat:   float64(session.OpeningFloat) / 100,
		Supplies:       float64(supplies) / 100,
		Withdrawals:    float64(withdrawals) / 100,
		SystemTotal:    float64(systemTotal) / 100,
		ClosingBalance: float64(closingBalance) / 100,
	}

	var counted map[string]int64
	if session.Closing != nil {
		counted = session.Closing.CountedTotals
	} else if closing, err := s.sessionRepo.GetClosing(ctx, sessionID); err == nil && closing != nil {
		counted = closing.CountedTotals
	}

	forms := make([]string, 0, len(systemByForm))
	seen := make(map[string]bool, len(systemByForm))
	for form := range systemByForm {
		forms = append(forms, form)
		seen[form] = true
	}
	for form := range counted {
		if !seen[form] {
			forms = append(forms, form)
		}
	}
	sort.Strings(forms)
	for _, form := range forms {
		r.Forms = append(r.Forms, report.FormLine{
			Form:    form,
			System:  float64(systemByForm[form]) / 100,
			Counted: float64(counted[form]) / 100,
		})
	}
	return r, nil
}

// ExportReportXLSX renders the session report as a spreadsheet
func (s *CashSessionService) ExportReportXLSX(ctx context.Context, sessionID uuid.UUID) ([]byte, error) {
	r, err := s.Report(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return report.BuildSessionXLSX(r)
}

// ExportReportPDF renders the session report as a PDF
func (s *CashSessionService) ExportReportPDF(ctx context.Context, sessionID uuid.UUID) ([]byte, error) {
	r, err := s.Report(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return report.BuildSessionPDF(r)
}
