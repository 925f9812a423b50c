package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/application/service"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/internal/presentation/http/dto/response"
)

// PaymentHandler handles ledger entry HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Record handles appending a ledger entry
func (h *PaymentHandler) Record(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		AccountID *uuid.UUID `json:"account_id"`
		SessionID *uuid.UUID `json:"session_id"`
		OrderID   *uuid.UUID `json:"order_id"`
		Form      string     `json:"form" binding:"required"`
		Amount    float64    `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	form, err := enum.ParsePaymentForm(req.Form)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	payment, err := h.paymentService.Record(c.Request.Context(), &service.RecordPaymentInput{
		StoreID:   GetStoreID(c),
		AccountID: req.AccountID,
		SessionID: req.SessionID,
		OrderID:   req.OrderID,
		Form:      form,
		Amount:    req.Amount,
		CreatedBy: *userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", payment)
}

// Get handles retrieving a ledger entry
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved successfully", payment)
}

// Refund handles refunding a batch of ledger entries
func (h *PaymentHandler) Refund(c *gin.Context) {
	var req struct {
		PaymentIDs []uuid.UUID `json:"payment_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.paymentService.RefundBatch(c.Request.Context(), req.PaymentIDs); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payments refunded successfully", nil)
}
