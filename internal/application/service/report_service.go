package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/repository"
	"github.com/balcaohq/balcao-api/pkg/apperror"
	"github.com/balcaohq/balcao-api/pkg/printer"
	"github.com/balcaohq/balcao-api/pkg/report"
)

// ReportService exposes the read-only aggregation queries and document
// exports. It never mutates ledger state.
type ReportService struct {
	analyticsRepo repository.AnalyticsRepository
	accounts      *AccountService
	printer       printer.Printer
}

// NewReportService creates a new report service
func NewReportService(analyticsRepo repository.AnalyticsRepository, accounts *AccountService, p printer.Printer) *ReportService {
	return &ReportService{
		analyticsRepo: analyticsRepo,
		accounts:      accounts,
		printer:       p,
	}
}

// ReportWindow is a half-open [Start, End) aggregation window
type ReportWindow struct {
	Start time.Time
	End   time.Time
}

func (w *ReportWindow) validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return apperror.NewBadRequestError("Report window requires start and end dates")
	}
	if !w.End.After(w.Start) {
		return apperror.NewBadRequestError("Report window end must be after start")
	}
	return nil
}

// PaymentsByForm groups ledger entries by payment form over a window
func (s *ReportService) PaymentsByForm(ctx context.Context, storeID uuid.UUID, window ReportWindow) ([]repository.FormTotal, error) {
	if err := window.validate(); err != nil {
		return nil, err
	}
	return s.analyticsRepo.PaymentsByForm(ctx, storeID, nil, &window.Start, &window.End)
}

// SalesSummary aggregates orders and payments over a window
func (s *ReportService) SalesSummary(ctx context.Context, storeID uuid.UUID, window ReportWindow) (*repository.SalesSummary, error) {
	if err := window.validate(); err != nil {
		return nil, err
	}
	return s.analyticsRepo.SalesSummary(ctx, storeID, window.Start, window.End)
}

// ProductSales returns the top-selling products over a window
func (s *ReportService) ProductSales(ctx context.Context, storeID uuid.UUID, window ReportWindow, limit int) ([]repository.ProductSalesRow, error) {
	if err := window.validate(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.analyticsRepo.ProductSales(ctx, storeID, window.Start, window.End, limit)
}

// CategorySales returns per-category sales over a window
func (s *ReportService) CategorySales(ctx context.Context, storeID uuid.UUID, window ReportWindow) ([]repository.CategorySalesRow, error) {
	if err := window.validate(); err != nil {
		return nil, err
	}
	return s.analyticsRepo.CategorySales(ctx, storeID, window.Start, window.End)
}

// ExportReceiptPDF renders an account receipt as a PDF document
func (s *ReportService) ExportReceiptPDF(ctx context.Context, accountID uuid.UUID) ([]byte, error) {
	doc, err := s.receiptDoc(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return report.BuildReceiptPDF(doc)
}

// PrintReceipt sends an account receipt to the configured till printer
func (s *ReportService) PrintReceipt(ctx context.Context, accountID uuid.UUID) error {
	if !s.printer.IsConnected() {
		return apperror.NewInvalidStateError("No printer is connected")
	}
	doc, err := s.receiptDoc(ctx, accountID)
	if err != nil {
		return err
	}
	if err := s.printer.Print(report.BuildReceiptText(doc)); err != nil {
		return apperror.NewUpstreamError("Printer error: " + err.Error())
	}
	return nil
}

func (s *ReportService) receiptDoc(ctx context.Context, accountID uuid.UUID) (*report.AccountReceiptDoc, error) {
	receipt, err := s.accounts.ComputeReceipt(ctx, accountID)
	if err != nil {
		return nil, err
	}

	doc := &report.AccountReceiptDoc{
		AccountID:    receipt.AccountID,
		Description:  receipt.Description,
		CustomerName: receipt.CustomerName,
		TotalOrder:   receipt.TotalOrder,
		TotalPayment: receipt.TotalPayment,
		TotalTip:     receipt.TotalTip,
		Balance:      float64(receipt.TotalOrderCents-receipt.TotalPaymentCents) / 100,
	}
	for _, line := range receipt.Orders {
		label := "Order " + line.OrderID[:8]
		if line.SequenceNo != nil {
			label = fmt.Sprintf("Order #%d", *line.SequenceNo)
		}
		doc.Lines = append(doc.Lines, report.ReceiptLine{
			Label:    label,
			Subtotal: line.Subtotal,
			Tip:      line.Tip,
		})
	}
	return doc, nil
}
