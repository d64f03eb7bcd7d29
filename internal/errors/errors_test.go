package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/anime-shed/sobel-inspector-go/internal/sobel"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("disk on fire")
	err := NewInternalError("write failed", cause)

	if !strings.Contains(err.Error(), "internal: write failed") || !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("Unexpected error string: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected Unwrap to expose the cause")
	}

	plain := NewNotFoundError("missing", nil)
	if plain.Error() != "not_found: missing" {
		t.Errorf("Unexpected error string: %s", plain.Error())
	}
}

func TestFromFilterError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		errorType  ErrorType
		statusCode int
	}{
		{
			name:       "Allocation failure",
			err:        fmt.Errorf("%w: too big", sobel.ErrAllocation),
			errorType:  ErrorTypeAllocation,
			statusCode: http.StatusInsufficientStorage,
		},
		{
			name:       "Empty input",
			err:        sobel.ErrEmptyInput,
			errorType:  ErrorTypeValidation,
			statusCode: http.StatusBadRequest,
		},
		{
			name:       "Malformed buffer",
			err:        fmt.Errorf("%w: short", sobel.ErrMalformedBuffer),
			errorType:  ErrorTypeValidation,
			statusCode: http.StatusBadRequest,
		},
		{
			name:       "Anything else",
			err:        errors.New("boom"),
			errorType:  ErrorTypeProcessing,
			statusCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromFilterError(tt.err)
			if !IsType(appErr, tt.errorType) {
				t.Errorf("Expected type %s, got %s", tt.errorType, appErr.Type)
			}
			if GetStatusCode(appErr) != tt.statusCode {
				t.Errorf("Expected status %d, got %d", tt.statusCode, GetStatusCode(appErr))
			}
			if !errors.Is(appErr, tt.err) {
				t.Error("Expected cause to be preserved")
			}
		})
	}

	if FromFilterError(nil) != nil {
		t.Error("Expected nil for nil error")
	}
}

func TestGetStatusCode_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewTimeoutError("slow", nil))
	if got := GetStatusCode(wrapped); got != http.StatusGatewayTimeout {
		t.Errorf("Expected 504, got %d", got)
	}
	if got := GetStatusCode(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("Expected 500 for plain error, got %d", got)
	}
	if !IsType(wrapped, ErrorTypeTimeout) {
		t.Error("Expected wrapped timeout to be detected")
	}
}

func TestConstructors_StatusCodes(t *testing.T) {
	tests := []struct {
		err        *AppError
		errorType  ErrorType
		statusCode int
	}{
		{NewValidationError("v", nil), ErrorTypeValidation, http.StatusBadRequest},
		{NewNetworkError("n", nil), ErrorTypeNetwork, http.StatusBadGateway},
		{NewProcessingError("p", nil), ErrorTypeProcessing, http.StatusUnprocessableEntity},
		{NewTimeoutError("t", nil), ErrorTypeTimeout, http.StatusGatewayTimeout},
		{NewNotFoundError("nf", nil), ErrorTypeNotFound, http.StatusNotFound},
		{NewInternalError("i", nil), ErrorTypeInternal, http.StatusInternalServerError},
		{NewAllocationError("a", nil), ErrorTypeAllocation, http.StatusInsufficientStorage},
	}

	for _, tt := range tests {
		if tt.err.Type != tt.errorType || tt.err.StatusCode != tt.statusCode {
			t.Errorf("%s: got type=%s status=%d, want %s/%d",
				tt.err.Message, tt.err.Type, tt.err.StatusCode, tt.errorType, tt.statusCode)
		}
	}
}

func TestWithDetails(t *testing.T) {
	err := NewAllocationError("too big", nil).WithDetails("input %dx%d", 640, 480)
	if err.Details != "input 640x480" {
		t.Errorf("Unexpected details %q", err.Details)
	}
}
