package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorsStatusCodes(t *testing.T) {
	cause := errors.New("boom")

	testCases := []struct {
		name    string
		err     *AppError
		status  int
		errType ErrorType
	}{
		{"validation", NewValidationError("bad", cause), http.StatusBadRequest, ErrorTypeValidation},
		{"too large", NewTooLargeError("big", nil), http.StatusRequestEntityTooLarge, ErrorTypeTooLarge},
		{"unsupported media", NewUnsupportedMediaError("pdf", nil), http.StatusBadRequest, ErrorTypeUnsupportedMedia},
		{"network", NewNetworkError("down", cause), http.StatusBadGateway, ErrorTypeNetwork},
		{"processing", NewProcessingError("odd", cause), http.StatusUnprocessableEntity, ErrorTypeProcessing},
		{"timeout", NewTimeoutError("slow", cause), http.StatusGatewayTimeout, ErrorTypeTimeout},
		{"internal", NewInternalError("oops", cause), http.StatusInternalServerError, ErrorTypeInternal},
		{"not found", NewNotFoundError("gone", nil), http.StatusNotFound, ErrorTypeNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.StatusCode != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, tc.err.StatusCode)
			}
			if !IsType(tc.err, tc.errType) {
				t.Errorf("Expected type %s, got %s", tc.errType, tc.err.Type)
			}
		})
	}
}

func TestGetStatusCode_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("loading upload: %w", NewTooLargeError("too big", nil))

	if got := GetStatusCode(wrapped); got != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413 through wrapping, got %d", got)
	}
	if !IsType(wrapped, ErrorTypeTooLarge) {
		t.Error("Expected IsType to see through wrapping")
	}
	if got := GetStatusCode(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("Expected 500 for a plain error, got %d", got)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewNetworkError("fetch failed", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to reach the cause")
	}
	if err.Error() != "network: fetch failed (caused by: root cause)" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}
