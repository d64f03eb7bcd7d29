package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anime-shed/sobel-inspector-go/internal/sobel"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeProcessing ErrorType = "processing"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeAllocation ErrorType = "allocation"
)

// statusCodes maps each error type onto the HTTP status it is reported with
var statusCodes = map[ErrorType]int{
	ErrorTypeValidation: http.StatusBadRequest,
	ErrorTypeNetwork:    http.StatusBadGateway,
	ErrorTypeProcessing: http.StatusUnprocessableEntity,
	ErrorTypeTimeout:    http.StatusGatewayTimeout,
	ErrorTypeNotFound:   http.StatusNotFound,
	ErrorTypeInternal:   http.StatusInternalServerError,
	ErrorTypeAllocation: http.StatusInsufficientStorage,
}

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

func newAppError(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:       errorType,
		Message:    message,
		StatusCode: statusCodes[errorType],
		Cause:      cause,
	}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails attaches client-facing detail text and returns e
func (e *AppError) WithDetails(format string, args ...interface{}) *AppError {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, message, cause)
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, cause error) *AppError {
	return newAppError(ErrorTypeNetwork, message, cause)
}

// NewProcessingError creates a new processing error
func NewProcessingError(message string, cause error) *AppError {
	return newAppError(ErrorTypeProcessing, message, cause)
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return newAppError(ErrorTypeTimeout, message, cause)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, message, cause)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, cause error) *AppError {
	return newAppError(ErrorTypeNotFound, message, cause)
}

// NewAllocationError is reported when an edge buffer could not be sized
func NewAllocationError(message string, cause error) *AppError {
	return newAppError(ErrorTypeAllocation, message, cause)
}

// FromFilterError maps edge filter failures onto application errors
func FromFilterError(err error) *AppError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sobel.ErrAllocation):
		return NewAllocationError("failed to allocate edge buffer", err)
	case errors.Is(err, sobel.ErrEmptyInput), errors.Is(err, sobel.ErrMalformedBuffer):
		return NewValidationError("invalid intensity buffer", err)
	default:
		return NewProcessingError("edge detection failed", err)
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
