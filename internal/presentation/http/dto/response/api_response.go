package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// APIResponse is the envelope of every JSON reply
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

// newMeta prefers the id assigned by the request logger
func newMeta(c *gin.Context) *Meta {
	requestID := c.GetString("request_id")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-ID")
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return &Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
}

func write(c *gin.Context, status int, message string, data, errs any) {
	c.JSON(status, APIResponse{
		Success: status < http.StatusBadRequest,
		Message: message,
		Data:    data,
		Errors:  errs,
		Meta:    newMeta(c),
	})
}

func OK(c *gin.Context, message string, data any) {
	write(c, http.StatusOK, message, data, nil)
}

func Created(c *gin.Context, message string, data any) {
	write(c, http.StatusCreated, message, data, nil)
}

// Accepted is for work handed to the worker
func Accepted(c *gin.Context, message string, data any) {
	write(c, http.StatusAccepted, message, data, nil)
}

// Paginated sends one offset page with its counts
func Paginated[T any](c *gin.Context, message string, result *pagination.PaginatedResult[T]) {
	write(c, http.StatusOK, message, result, nil)
}

// Cursor sends one keyset page
func Cursor[T any](c *gin.Context, message string, result *pagination.CursorResult[T]) {
	write(c, http.StatusOK, message, result, nil)
}

// File sends an exported document as an attachment
func File(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// Error maps err to its status. Anything that is not an AppError is
// reported as a bare 500 and left on the context for the request logger.
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	if appErr.Code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	var errs any
	if len(appErr.Errors) > 0 {
		errs = appErr.Errors
	}
	write(c, appErr.Code, appErr.Message, nil, errs)
}

// Fail sends a bare error status
func Fail(c *gin.Context, status int, message string) {
	write(c, status, message, nil, nil)
}

func ValidationError(c *gin.Context, errs []apperror.FieldError) {
	write(c, http.StatusUnprocessableEntity, "Validation failed", nil, errs)
}

func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}

func TooManyRequests(c *gin.Context, message string) {
	Fail(c, http.StatusTooManyRequests, message)
}

func InternalServerError(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, message)
}
