package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LoggerMiddleware tags each request with an id and logs method, status,
// latency and client on completion. The id is echoed back in X-Request-ID
// so operators can quote it when reporting a problem.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)

		start := time.Now()
		target := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			target += "?" + q
		}

		c.Next()

		log.Printf("[%s] %s | %d | %v | %s | %s",
			id[:8], c.Request.Method, c.Writer.Status(),
			time.Since(start), c.ClientIP(), target)
		for _, e := range c.Errors {
			log.Printf("[%s] error: %v", id[:8], e.Err)
		}
	}
}
