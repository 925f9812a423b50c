package middleware

import (
	"bytes"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/repository"
)

// IdempotencyKeyHeader names the header clients send to guard retries
const IdempotencyKeyHeader = "Idempotency-Key"

// idempotencyTTL bounds how long a cached response stays replayable
const idempotencyTTL = 24 * time.Hour

// IdempotencyConfig holds the middleware's storage dependency
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
}

// bodyCapture tees the response body so a successful reply can be stored
// for replay.
type bodyCapture struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func operatorFrom(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// Idempotency replays the stored response when a mutating request repeats
// an Idempotency-Key it has already seen, so a retried POST never rings a
// second order or ledger entry. Requests without the header pass through
// untouched.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case "POST", "PUT", "PATCH":
		default:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		operatorID, ok := operatorFrom(c)
		if !ok {
			c.Next()
			return
		}

		// Storage trouble must not block the request itself.
		if seen, err := cfg.Repo.GetByKey(c.Request.Context(), key, operatorID); err == nil && seen != nil && !seen.IsExpired() {
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(seen.ResponseCode, "application/json", []byte(seen.ResponseBody))
			c.Abort()
			return
		}

		capture := &bodyCapture{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = capture

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		_ = cfg.Repo.Create(c.Request.Context(), &entity.IdempotencyKey{
			Key:          key,
			UserID:       operatorID,
			Endpoint:     c.Request.Method + " " + c.FullPath(),
			ResponseCode: status,
			ResponseBody: capture.buf.String(),
			ExpiresAt:    time.Now().Add(idempotencyTTL),
		})
	}
}
