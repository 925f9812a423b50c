package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/balcaohq/balcao-api/internal/application/service"
	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/presentation/http/dto/response"
)

// StoreHandler handles establishment, catalog and customer HTTP requests
type StoreHandler struct {
	storeService *service.StoreService
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(storeService *service.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// Get handles retrieving the authenticated store
func (h *StoreHandler) Get(c *gin.Context) {
	store, err := h.storeService.GetStore(c.Request.Context(), GetStoreID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Store retrieved successfully", store)
}

// UpdateSettings handles replacing the store settings block
func (h *StoreHandler) UpdateSettings(c *gin.Context) {
	var settings entity.StoreSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	store, err := h.storeService.UpdateSettings(c.Request.Context(), GetStoreID(c), settings)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Store settings updated", store)
}

// ListPaymentMethods handles listing configured payment methods
func (h *StoreHandler) ListPaymentMethods(c *gin.Context) {
	methods, err := h.storeService.ListPaymentMethods(c.Request.Context(), GetStoreID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment methods retrieved successfully", methods)
}

// ListProducts handles listing the catalog
func (h *StoreHandler) ListProducts(c *gin.Context) {
	result, err := h.storeService.ListProducts(c.Request.Context(), GetStoreID(c), ParsePagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// CreateCustomer handles registering a customer
func (h *StoreHandler) CreateCustomer(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Document string `json:"document"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer := &entity.Customer{
		StoreID:  GetStoreID(c),
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Document: req.Document,
	}
	if err := h.storeService.CreateCustomer(c.Request.Context(), customer); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created", customer)
}

// ListCustomers handles listing customers with optional name search
func (h *StoreHandler) ListCustomers(c *gin.Context) {
	result, err := h.storeService.ListCustomers(c.Request.Context(), GetStoreID(c), c.Query("search"), ParsePagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Customers retrieved successfully", result)
}
