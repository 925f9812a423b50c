package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/balcaohq/balcao-api/internal/presentation/http/dto/response"
)

// WebhookSecretHeader carries the provider's shared secret on callbacks
const WebhookSecretHeader = "X-Webhook-Secret"

// WebhookAuth authenticates provider callbacks with a shared secret,
// compared in constant time. Callbacks are unauthenticated JWT-wise, so
// this header is the only thing standing between the reconciler and a
// forged confirmation.
func WebhookAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			response.Forbidden(c, "Webhook endpoint is not configured")
			c.Abort()
			return
		}

		got := c.GetHeader(WebhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			response.Unauthorized(c, "Invalid webhook secret")
			c.Abort()
			return
		}

		c.Next()
	}
}
