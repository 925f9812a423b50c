package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/application/service"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/internal/presentation/http/dto/response"
)

// SessionHandler handles till session HTTP requests
type SessionHandler struct {
	sessionService *service.CashSessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.CashSessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Open handles opening a till session
func (h *SessionHandler) Open(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		OpeningFloat float64 `json:"opening_float"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	session, err := h.sessionService.Open(c.Request.Context(), &service.OpenSessionInput{
		StoreID:      GetStoreID(c),
		OperatorID:   *userID,
		OpeningFloat: req.OpeningFloat,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Cash session opened", session)
}

// Get handles retrieving a session with movements and closing snapshot
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session retrieved successfully", session)
}

// List handles listing sessions
func (h *SessionHandler) List(c *gin.Context) {
	result, err := h.sessionService.ListSessions(c.Request.Context(), GetStoreID(c), ParsePagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sessions retrieved successfully", result)
}

// AddMovement handles recording a supply or withdrawal
func (h *SessionHandler) AddMovement(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	var req struct {
		Type            string     `json:"type" binding:"required"`
		Amount          float64    `json:"amount" binding:"required"`
		PaymentMethodID *uuid.UUID `json:"payment_method_id"`
		Note            string     `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	movementType, err := enum.ParseMovementType(req.Type)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	movement, err := h.sessionService.AddMovement(c.Request.Context(), &service.AddMovementInput{
		SessionID:       id,
		Type:            movementType,
		Amount:          req.Amount,
		PaymentMethodID: req.PaymentMethodID,
		Note:            req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Movement recorded", movement)
}

// Close handles the two-step session close with the counted snapshot
func (h *SessionHandler) Close(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	var req struct {
		CountedTotals map[string]float64 `json:"counted_totals" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	closing, err := h.sessionService.Close(c.Request.Context(), &service.CloseSessionInput{
		SessionID:     id,
		CountedTotals: req.CountedTotals,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash session closed", closing)
}

// Report handles the session reconciliation report
func (h *SessionHandler) Report(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	report, err := h.sessionService.Report(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session report generated", report)
}

// ExportXLSX handles exporting the session report as a spreadsheet
func (h *SessionHandler) ExportXLSX(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	data, err := h.sessionService.ExportReportXLSX(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=session-"+id.String()+".xlsx")
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ExportPDF handles exporting the session report as a PDF
func (h *SessionHandler) ExportPDF(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	data, err := h.sessionService.ExportReportPDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=session-"+id.String()+".pdf")
	c.Data(200, "application/pdf", data)
}
