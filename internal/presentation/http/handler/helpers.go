package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/pkg/pagination"
)

// GetUserID extracts the operator ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetStoreID extracts the store ID from the Gin context
func GetStoreID(c *gin.Context) uuid.UUID {
	storeIDVal, exists := c.Get("store_id")
	if !exists {
		return uuid.Nil
	}
	storeID, ok := storeIDVal.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return storeID
}

// ParsePagination reads page/per_page query parameters
func ParsePagination(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()
	return params
}

// ParseUUIDParam parses a UUID path parameter
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
