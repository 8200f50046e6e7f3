package client

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected ErrorClass
	}{
		{"forbidden", http.StatusForbidden, ErrorClassClient},
		{"not found", http.StatusNotFound, ErrorClassClient},
		{"too many requests", http.StatusTooManyRequests, ErrorClassRateLimit},
		{"internal server error", http.StatusInternalServerError, ErrorClassServer},
		{"bad gateway", http.StatusBadGateway, ErrorClassServer},
		{"redirect", http.StatusFound, ErrorClassUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyStatus(tt.status); got != tt.expected {
				t.Errorf("classifyStatus(%d) = %q, want %q", tt.status, got, tt.expected)
			}
		})
	}
}

func TestHTTPError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *HTTPError
		expected string
	}{
		{
			name: "status without wrapped error",
			err: &HTTPError{
				StatusCode: 403,
				ErrorClass: ErrorClassClient,
				Message:    "403 Forbidden",
			},
			expected: "HTTP error 403 (client): 403 Forbidden",
		},
		{
			name: "status with wrapped error",
			err: &HTTPError{
				StatusCode: 200,
				ErrorClass: ErrorClassDecode,
				Message:    "decode response body",
				Err:        errors.New("unexpected EOF"),
			},
			expected: "HTTP error 200 (decode): decode response body: unexpected EOF",
		},
		{
			name: "network error",
			err: &HTTPError{
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				Err:        errors.New("connection refused"),
			},
			expected: "HTTP network error: request failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestHTTPError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	httpErr := &HTTPError{
		ErrorClass: ErrorClassNetwork,
		Message:    "request failed",
		Err:        wrappedErr,
	}

	if !errors.Is(httpErr, wrappedErr) {
		t.Error("errors.Is should work with wrapped error")
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, 0},
		{"foreign error", errors.New("boom"), 0},
		{"http error", &HTTPError{StatusCode: 404}, 404},
		{"wrapped http error", fmt.Errorf("fetch: %w", &HTTPError{StatusCode: 403}), 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.expected {
				t.Errorf("StatusCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestClass(t *testing.T) {
	if got := Class(errors.New("boom")); got != "" {
		t.Errorf("Class(foreign) = %q, want empty", got)
	}
	if got := Class(&HTTPError{ErrorClass: ErrorClassServer}); got != ErrorClassServer {
		t.Errorf("Class() = %q, want %q", got, ErrorClassServer)
	}
}
