package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/application/service"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/internal/presentation/http/dto/response"
)

// AccountHandler handles tab-related HTTP requests
type AccountHandler struct {
	accountService *service.AccountService
	reportService  *service.ReportService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *service.AccountService, reportService *service.ReportService) *AccountHandler {
	return &AccountHandler{accountService: accountService, reportService: reportService}
}

// Create handles opening a new tab
func (h *AccountHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Description string     `json:"description"`
		CustomerID  *uuid.UUID `json:"customer_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	account, err := h.accountService.Create(c.Request.Context(), &service.CreateAccountInput{
		StoreID:     GetStoreID(c),
		Description: req.Description,
		CustomerID:  req.CustomerID,
		CreatedBy:   *userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Account opened successfully", account)
}

// Get handles retrieving a tab
func (h *AccountHandler) Get(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid account ID")
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Account retrieved successfully", account)
}

// List handles listing tabs
func (h *AccountHandler) List(c *gin.Context) {
	var status *enum.AccountStatus
	if statusStr := c.Query("status"); statusStr != "" {
		if statusInt, err := strconv.Atoi(statusStr); err == nil {
			s := enum.AccountStatus(statusInt)
			status = &s
		}
	}

	result, err := h.accountService.ListAccounts(c.Request.Context(), GetStoreID(c), status, ParsePagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Accounts retrieved successfully", result)
}

// Receipt handles computing a tab's receipt
func (h *AccountHandler) Receipt(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid account ID")
		return
	}

	receipt, err := h.accountService.ComputeReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt computed successfully", receipt)
}

// ReceiptPDF handles exporting a tab's receipt as PDF
func (h *AccountHandler) ReceiptPDF(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid account ID")
		return
	}

	data, err := h.reportService.ExportReceiptPDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=receipt-"+id.String()+".pdf")
	c.Data(200, "application/pdf", data)
}

// PrintReceipt handles sending a tab's receipt to the till printer
func (h *AccountHandler) PrintReceipt(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.reportService.PrintReceipt(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt sent to printer", nil)
}

// Close handles settling and closing a balanced tab
func (h *AccountHandler) Close(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid account ID")
		return
	}

	receipt, err := h.accountService.Close(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Account closed successfully", receipt)
}

// Review handles flagging a tab for manual review
func (h *AccountHandler) Review(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accountService.MarkUnderReview(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Account marked under review", nil)
}

// Reopen handles returning an under-review tab to open
func (h *AccountHandler) Reopen(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accountService.Reopen(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Account reopened", nil)
}

// Delete handles deleting an unreferenced tab
func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accountService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
