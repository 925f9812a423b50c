package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/presentation/http/dto/response"
	"github.com/balcaohq/balcao-api/pkg/utils"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		// Set operator info in context
		c.Set("user_id", claims.UserID)
		c.Set("store_id", claims.StoreID)
		c.Set("user_email", claims.Email)

		c.Next()
	}
}

// GetStoreIDFromContext extracts the authenticated store ID
func GetStoreIDFromContext(c *gin.Context) uuid.UUID {
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
