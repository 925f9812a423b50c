package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/balcaohq/balcao-api/internal/application/service"
	"github.com/balcaohq/balcao-api/internal/presentation/http/dto/response"
)

// ReportHandler handles sales reporting HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// parseWindow reads start/end query parameters as RFC 3339 timestamps or
// plain dates. A plain end date is extended to the end of that day.
func parseWindow(c *gin.Context) (service.ReportWindow, bool) {
	var window service.ReportWindow

	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		response.BadRequest(c, "start and end query parameters are required")
		return window, false
	}

	parsed, dateOnly, err := parseTimestamp(start)
	if err != nil {
		response.BadRequest(c, "Invalid start: "+err.Error())
		return window, false
	}
	window.Start = parsed

	parsed, dateOnly, err = parseTimestamp(end)
	if err != nil {
		response.BadRequest(c, "Invalid end: "+err.Error())
		return window, false
	}
	if dateOnly {
		parsed = parsed.AddDate(0, 0, 1)
	}
	window.End = parsed

	return window, true
}

func parseTimestamp(s string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	return t, false, err
}

// PaymentsByForm handles totals grouped by payment form over a window
func (h *ReportHandler) PaymentsByForm(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}

	totals, err := h.reportService.PaymentsByForm(c.Request.Context(), GetStoreID(c), window)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment totals retrieved successfully", totals)
}

// SalesSummary handles the order count / gross revenue / average ticket report
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}

	summary, err := h.reportService.SalesSummary(c.Request.Context(), GetStoreID(c), window)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales summary retrieved successfully", summary)
}

// ProductSales handles the top-selling products report
func (h *ReportHandler) ProductSales(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	rows, err := h.reportService.ProductSales(c.Request.Context(), GetStoreID(c), window, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product sales retrieved successfully", rows)
}

// CategorySales handles the sales-by-category report
func (h *ReportHandler) CategorySales(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}

	rows, err := h.reportService.CategorySales(c.Request.Context(), GetStoreID(c), window)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Category sales retrieved successfully", rows)
}
