package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorType represents the category of error that occurred during a lookup
type ErrorType string

const (
	// ErrorTypeNetwork indicates a network-level error (connection refused, DNS, etc.)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeRateLimit indicates the request was rejected due to rate limiting (HTTP 429)
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeServer indicates a server error (HTTP 5xx)
	ErrorTypeServer ErrorType = "server"
	// ErrorTypeClient indicates a client error (HTTP 4xx except 429)
	ErrorTypeClient ErrorType = "client"
	// ErrorTypeParse indicates the response was received but could not be decoded
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeTimeout indicates the request timed out
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeCanceled indicates the caller gave up before the request finished
	ErrorTypeCanceled ErrorType = "canceled"
	// ErrorTypeUnknown indicates an error of unknown type
	ErrorTypeUnknown ErrorType = "unknown"
)

// FetchError represents a structured error from a lookup
type FetchError struct {
	Type       ErrorType
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a network error
func NewNetworkError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeNetwork,
		Message: "network request failed",
		Cause:   cause,
	}
}

// NewParseError creates a parse error
func NewParseError(message string, cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeParse,
		Message: message,
		Cause:   cause,
	}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeTimeout,
		Message: "request timed out",
		Cause:   cause,
	}
}

// NewCanceledError creates a cancellation error
func NewCanceledError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeCanceled,
		Message: "request canceled",
		Cause:   cause,
	}
}

// ClassifyHTTPError classifies a non-200 status code into a FetchError.
// message carries whatever explanation the remote sent back, if any.
func ClassifyHTTPError(statusCode int, message string) *FetchError {
	e := &FetchError{StatusCode: statusCode, Message: message}

	switch {
	case statusCode == 429:
		e.Type = ErrorTypeRateLimit
	case statusCode >= 500:
		e.Type = ErrorTypeServer
	case statusCode >= 400:
		e.Type = ErrorTypeClient
	default:
		e.Type = ErrorTypeUnknown
	}

	if e.Message == "" {
		e.Message = fmt.Sprintf("unexpected status code: %d", statusCode)
	}
	return e
}

// ClassifyTransportError wraps an error returned before any status was
// received.
func ClassifyTransportError(err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}

	if errors.Is(err, context.Canceled) {
		return NewCanceledError(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError(err)
	}

	return NewNetworkError(err)
}

// IsStatusError reports whether err means the remote answered with a
// non-success status, as opposed to the request failing outright.
func IsStatusError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.StatusCode > 0
}
