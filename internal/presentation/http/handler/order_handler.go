package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/application/service"
	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/internal/domain/repository"
	"github.com/balcaohq/balcao-api/internal/presentation/http/dto/response"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles creating an order through its channel policy
func (h *OrderHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Channel         string     `json:"channel" binding:"required"`
		AccountID       *uuid.UUID `json:"account_id"`
		PaymentMethodID *uuid.UUID `json:"payment_method_id"`
		Items           []struct {
			ProductID uuid.UUID `json:"product_id" binding:"required"`
			Quantity  int       `json:"quantity" binding:"required"`
			UnitPrice float64   `json:"unit_price"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	channel, err := enum.ParseOrderChannel(req.Channel)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	input := &service.CreateOrderInput{
		StoreID:         GetStoreID(c),
		Channel:         channel,
		AccountID:       req.AccountID,
		PaymentMethodID: req.PaymentMethodID,
		CreatedBy:       *userID,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), input)
	if err != nil {
		if order != nil {
			// Order exists but numbering failed; disclose both.
			response.Success(c, 201, "Order created without a display number: "+err.Error(), order)
			return
		}
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// Get handles retrieving a single order
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// List handles listing orders
func (h *OrderHandler) List(c *gin.Context) {
	params := &repository.OrderFilterParams{
		Pagination: ParsePagination(c),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if channelStr := c.Query("channel"); channelStr != "" {
		if channel, err := enum.ParseOrderChannel(channelStr); err == nil {
			params.Channel = &channel
		}
	}

	if statusStr := c.Query("status"); statusStr != "" {
		if statusInt, err := strconv.Atoi(statusStr); err == nil {
			status := enum.OrderStatus(statusInt)
			params.Status = &status
		}
	}

	if accountIDStr := c.Query("account_id"); accountIDStr != "" {
		if accountID, err := uuid.Parse(accountIDStr); err == nil {
			params.AccountID = &accountID
		}
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			params.EndDate = &endDate
		}
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), GetStoreID(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

// UpdateStatus handles order status transitions
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req struct {
		Status int `json:"status" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.orderService.UpdateStatus(c.Request.Context(), id, enum.OrderStatus(req.Status)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated", nil)
}

// Cancel handles order cancellation with automatic refunds
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orderService.CancelOrder(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled", nil)
}

// AddItem handles pushing a line item onto an order
func (h *OrderHandler) AddItem(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req struct {
		ProductID uuid.UUID `json:"product_id" binding:"required"`
		Quantity  int       `json:"quantity" binding:"required"`
		UnitPrice float64   `json:"unit_price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	err := h.orderService.AddItem(c.Request.Context(), id, &service.OrderItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to order", nil)
}

// RemoveItem handles pulling a line item off an order
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	orderID, ok := ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}
	itemID, ok := ParseUUIDParam(c, "itemId")
	if !ok {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	if err := h.orderService.RemoveItem(c.Request.Context(), orderID, itemID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed from order", nil)
}
