package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrAlreadyExists          = errors.New("resource already exists")
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrEmailNotVerified       = errors.New("email not verified")
	ErrParentApprovalRequired = errors.New("parent approval required")
	ErrInvalidCode            = errors.New("invalid code")
	ErrCodeExpired            = errors.New("code expired")
	ErrParentEmailMismatch    = errors.New("parent email mismatch")
	ErrDeliveryFailed         = errors.New("email delivery failed")
)

// AppError represents an application error with an HTTP status
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, ErrForbidden)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "internal server error", err)
}

// DeliveryFailure surfaces a notification gateway failure with detail.
// Intentionally verbose while the flow is being debugged; the detail
// should be dropped before production exposure.
func DeliveryFailure(err error) *AppError {
	msg := "failed to send email"
	if err != nil {
		msg += ": " + err.Error()
	}
	return NewAppError(http.StatusInternalServerError, msg, ErrDeliveryFailed)
}
