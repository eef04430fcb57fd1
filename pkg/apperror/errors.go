// Package apperror carries the HTTP status and client-safe message of a
// failure from the services to the response writer.
package apperror

import (
	"errors"
	"net/http"
)

// AppError is an error the client is allowed to see
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError points a validation failure at one request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}

	// Draft, Submitted and Cancelled documents
	ErrNotDraft     = &AppError{Code: http.StatusConflict, Message: "Only draft documents can be modified"}
	ErrNotSubmitted = &AppError{Code: http.StatusConflict, Message: "Only submitted documents can be cancelled"}

	// Package limits answer 402 so the frontend can offer an upgrade
	ErrSubscriptionInactive = &AppError{Code: http.StatusPaymentRequired, Message: "Subscription is not active"}
	ErrSMSQuotaExceeded     = &AppError{Code: http.StatusPaymentRequired, Message: "SMS quota exhausted for this month"}

	errInternal = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
)

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewValidationError reports several field failures at once
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{Code: http.StatusUnprocessableEntity, Message: "Validation failed", Errors: fieldErrors}
}

// NewFieldError reports one field; its message doubles as the summary
func NewFieldError(field, message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: message,
		Errors:  []FieldError{{Field: field, Message: message}},
	}
}

// NewNotFoundError names the missing resource, e.g. "Member not found"
func NewNotFoundError(resource string) *AppError {
	return NewAppError(http.StatusNotFound, resource+" not found")
}

func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message)
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

func NewForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, message)
}

// NewFeatureError reports a feature the church's package does not include
func NewFeatureError(message string) *AppError {
	return NewAppError(http.StatusPaymentRequired, message)
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsCode reports whether err is an AppError carrying the given status code
func IsCode(err error, code int) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// GetAppError unwraps err to its AppError. Anything else becomes a generic
// 500 so database and gateway details stay server side.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return errInternal
}
