package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// FormLine is one payment-form row of a session report.
type FormLine struct {
	Form    string
	System  float64
	Counted float64
}

// SessionReport is the renderable closing report for one cash session.
type SessionReport struct {
	SessionID      string
	Operator       string
	OpenedAt       time.Time
	ClosedAt       *time.Time
	OpeningFloat   float64
	Supplies       float64
	Withdrawals    float64
	SystemTotal    float64
	ClosingBalance float64
	Forms          []FormLine
}

// BuildSessionXLSX renders a session closing report as a workbook.
func BuildSessionXLSX(r *SessionReport) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "session"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", "Cash Session Report")
	_ = f.SetCellValue(sheet, "A3", "Session")
	_ = f.SetCellValue(sheet, "B3", r.SessionID)
	_ = f.SetCellValue(sheet, "A4", "Operator")
	_ = f.SetCellValue(sheet, "B4", r.Operator)
	_ = f.SetCellValue(sheet, "A5", "Opened")
	_ = f.SetCellValue(sheet, "B5", r.OpenedAt.Format(time.RFC3339))
	if r.ClosedAt != nil {
		_ = f.SetCellValue(sheet, "A6", "Closed")
		_ = f.SetCellValue(sheet, "B6", r.ClosedAt.Format(time.RFC3339))
	}
	_ = f.SetCellValue(sheet, "A8", "Opening float")
	_ = f.SetCellValue(sheet, "B8", r.OpeningFloat)
	_ = f.SetCellValue(sheet, "A9", "Supplies")
	_ = f.SetCellValue(sheet, "B9", r.Supplies)
	_ = f.SetCellValue(sheet, "A10", "Withdrawals")
	_ = f.SetCellValue(sheet, "B10", r.Withdrawals)
	_ = f.SetCellValue(sheet, "A11", "System total")
	_ = f.SetCellValue(sheet, "B11", r.SystemTotal)
	_ = f.SetCellValue(sheet, "A12", "Closing balance")
	_ = f.SetCellValue(sheet, "B12", r.ClosingBalance)

	_ = f.SetCellValue(sheet, "A14", "Form")
	_ = f.SetCellValue(sheet, "B14", "System")
	_ = f.SetCellValue(sheet, "C14", "Counted")
	_ = f.SetCellValue(sheet, "D14", "Variance")
	row := 15
	for _, line := range r.Forms {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), line.Form)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), line.System)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), line.Counted)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), line.Counted-line.System)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildSessionPDF renders a session closing report as a PDF.
func BuildSessionPDF(r *SessionReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Cash Session Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Session: %s", r.SessionID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Operator: %s", r.Operator))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Opened: %s", r.OpenedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	if r.ClosedAt != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Closed: %s", r.ClosedAt.Format(time.RFC3339)))
		pdf.Ln(5)
	}

	pdf.Ln(4)
	pdf.Cell(0, 6, fmt.Sprintf("Opening float: %.2f", r.OpeningFloat))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Supplies: %.2f", r.Supplies))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Withdrawals: %.2f", r.Withdrawals))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("System total: %.2f", r.SystemTotal))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Closing balance: %.2f", r.ClosingBalance))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(45, 6, "Form", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "System", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Counted", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Variance", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, line := range r.Forms {
		pdf.CellFormat(45, 6, line.Form, "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 6, fmt.Sprintf("%.2f", line.System), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, fmt.Sprintf("%.2f", line.Counted), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, fmt.Sprintf("%.2f", line.Counted-line.System), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReceiptLine is one order row on an account receipt export.
type ReceiptLine struct {
	Label    string
	Subtotal float64
	Tip      float64
}

// AccountReceiptDoc is the renderable receipt for one account.
type AccountReceiptDoc struct {
	AccountID    string
	Description  string
	CustomerName string
	Lines        []ReceiptLine
	TotalOrder   float64
	TotalPayment float64
	TotalTip     float64
	Balance      float64
}

// BuildReceiptText renders an account receipt as fixed-width plain text
// suitable for thermal printers.
func BuildReceiptText(doc *AccountReceiptDoc) []byte {
	var buf bytes.Buffer

	buf.WriteString("ACCOUNT RECEIPT\n")
	if doc.CustomerName != "" {
		fmt.Fprintf(&buf, "Customer: %s\n", doc.CustomerName)
	}
	if doc.Description != "" {
		buf.WriteString(doc.Description + "\n")
	}
	buf.WriteString("--------------------------------\n")
	for _, line := range doc.Lines {
		fmt.Fprintf(&buf, "%-20.20s %11.2f\n", line.Label, line.Subtotal)
		if line.Tip > 0 {
			fmt.Fprintf(&buf, "%-20.20s %11.2f\n", "  tip", line.Tip)
		}
	}
	buf.WriteString("--------------------------------\n")
	fmt.Fprintf(&buf, "%-20s %11.2f\n", "Total ordered", doc.TotalOrder)
	fmt.Fprintf(&buf, "%-20s %11.2f\n", "Total paid", doc.TotalPayment)
	fmt.Fprintf(&buf, "%-20s %11.2f\n", "Balance due", doc.Balance)

	return buf.Bytes()
}

// BuildReceiptPDF renders an account receipt as a PDF.
func BuildReceiptPDF(doc *AccountReceiptDoc) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Account Receipt")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Account: %s", doc.AccountID))
	pdf.Ln(5)
	if doc.CustomerName != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Customer: %s", doc.CustomerName))
		pdf.Ln(5)
	}
	if doc.Description != "" {
		pdf.Cell(0, 6, doc.Description)
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(80, 6, "Order", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Subtotal", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Tip", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, line := range doc.Lines {
		pdf.CellFormat(80, 6, line.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", line.Subtotal), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", line.Tip), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.Cell(0, 6, fmt.Sprintf("Total ordered: %.2f", doc.TotalOrder))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total paid: %.2f", doc.TotalPayment))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total tip: %.2f", doc.TotalTip))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Balance due: %.2f", doc.Balance))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
