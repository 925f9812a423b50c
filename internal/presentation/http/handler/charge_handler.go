package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/application/service"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/internal/presentation/http/dto/response"
	"github.com/balcaohq/balcao-api/pkg/pixgw"
)

// ChargeHandler handles PIX charge HTTP requests
type ChargeHandler struct {
	chargeService *service.ChargeService
}

// NewChargeHandler creates a new charge handler
func NewChargeHandler(chargeService *service.ChargeService) *ChargeHandler {
	return &ChargeHandler{chargeService: chargeService}
}

// Create handles requesting a new PIX charge from the provider
func (h *ChargeHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		AccountID     *uuid.UUID `json:"account_id"`
		SessionID     *uuid.UUID `json:"session_id"`
		OrderID       *uuid.UUID `json:"order_id"`
		Amount        float64    `json:"amount" binding:"required"`
		PayerName     string     `json:"payer_name"`
		PayerDocument string     `json:"payer_document"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	charge, err := h.chargeService.Create(c.Request.Context(), &service.CreateChargeInput{
		StoreID:       GetStoreID(c),
		AccountID:     req.AccountID,
		SessionID:     req.SessionID,
		OrderID:       req.OrderID,
		Amount:        req.Amount,
		PayerName:     req.PayerName,
		PayerDocument: req.PayerDocument,
		CreatedBy:     *userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Charge created", charge)
}

// Get handles retrieving a charge
func (h *ChargeHandler) Get(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid charge ID")
		return
	}

	charge, err := h.chargeService.GetCharge(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Charge retrieved successfully", charge)
}

// List handles listing charges, optionally filtered by status
func (h *ChargeHandler) List(c *gin.Context) {
	var status *enum.ChargeStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := enum.ParseChargeStatus(raw)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		status = &parsed
	}

	result, err := h.chargeService.ListCharges(c.Request.Context(), GetStoreID(c), status, ParsePagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Charges retrieved successfully", result)
}

// Cancel handles cancelling a batch of pending charges
func (h *ChargeHandler) Cancel(c *gin.Context) {
	var req struct {
		ChargeIDs []uuid.UUID `json:"charge_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.chargeService.CancelBatch(c.Request.Context(), req.ChargeIDs); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Charges cancelled", nil)
}

// Watch blocks until the charge reaches a terminal status or the poll
// window elapses. Clients use it to long-poll a charge they just created.
func (h *ChargeHandler) Watch(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid charge ID")
		return
	}

	ch, err := h.chargeService.Watch(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	select {
	case charge, open := <-ch:
		if !open || charge == nil {
			response.OK(c, "Charge still processing", nil)
			return
		}
		response.OK(c, "Charge settled", charge)
	case <-time.After(25 * time.Second):
		response.OK(c, "Charge still processing", nil)
	case <-c.Request.Context().Done():
		c.Abort()
	}
}

// Webhook handles provider confirmation callbacks. Duplicate deliveries are
// expected and answered with the same acknowledgement as the first.
func (h *ChargeHandler) Webhook(c *gin.Context) {
	var cb pixgw.Callback
	if err := c.ShouldBindJSON(&cb); err != nil {
		response.BadRequest(c, "Invalid callback body: "+err.Error())
		return
	}

	if err := h.chargeService.Reconcile(c.Request.Context(), &cb); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Callback processed", nil)
}
