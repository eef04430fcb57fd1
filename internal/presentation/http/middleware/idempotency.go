package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/dto/response"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a create or submit call is
// retried with the same key inside the same church. Without the header
// the request runs normally.
func Idempotency(repo repository.IdempotencyRepository) gin.HandlerFunc {
	return idempotency(repo, false)
}

// IdempotencyRequired is Idempotency for calls that move money and must
// never run twice; the header is mandatory
func IdempotencyRequired(repo repository.IdempotencyRepository) gin.HandlerFunc {
	return idempotency(repo, true)
}

func idempotency(repo repository.IdempotencyRepository, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			if required {
				response.BadRequest(c, IdempotencyKeyHeader+" header is required for this request")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		churchID := GetChurchID(c)
		userIDVal, _ := c.Get("user_id")
		userID, _ := userIDVal.(uuid.UUID)
		if churchID == uuid.Nil || userID == uuid.Nil {
			response.BadRequest(c, "Church context required")
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "Invalid request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		now := time.Now()
		pending := entity.PendingIdempotencyKey(churchID, userID, key, c.Request.Method+" "+c.FullPath(), body, IdempotencyKeyTTL, now)

		ctx := c.Request.Context()
		existing, err := repo.GetByKey(ctx, churchID, key)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		if existing != nil && existing.Replayable(now) {
			if !existing.SameRequest(pending) {
				response.Fail(c, http.StatusUnprocessableEntity, IdempotencyKeyHeader+" was already used for a different request")
				c.Abort()
				return
			}
			contentType := existing.ContentType
			if contentType == "" {
				contentType = "application/json; charset=utf-8"
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, contentType, []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Failed calls may be retried with the same key
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		pending.Record(status, c.Writer.Header().Get("Content-Type"), blw.body.Bytes())
		if err := repo.Create(ctx, pending); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to store idempotency key")
		}
	}
}
