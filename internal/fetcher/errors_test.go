package fetcher

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		status   int
		message  string
		wantType ErrorType
		wantMsg  string
	}{
		{429, "", ErrorTypeRateLimit, "rate_limit error (status 429): unexpected status code: 429"},
		{500, "", ErrorTypeServer, "server error (status 500): unexpected status code: 500"},
		{503, "maintenance", ErrorTypeServer, "server error (status 503): maintenance"},
		{404, "No cards found matching “Mox Opall”", ErrorTypeClient, "client error (status 404): No cards found matching “Mox Opall”"},
		{400, "", ErrorTypeClient, "client error (status 400): unexpected status code: 400"},
		{302, "", ErrorTypeUnknown, "unknown error (status 302): unexpected status code: 302"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := ClassifyHTTPError(tt.status, tt.message)
			if err.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", err.Type, tt.wantType)
			}
			if err.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.status)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestClassifyTransportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType ErrorType
	}{
		{"canceled", fmt.Errorf("get: %w", context.Canceled), ErrorTypeCanceled},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), ErrorTypeTimeout},
		{"refused", errors.New("dial tcp: connection refused"), ErrorTypeNetwork},
		{"already classified", NewParseError("bad body", nil), ErrorTypeParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyTransportError(tt.err)
			if got.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", got.Type, tt.wantType)
			}
		})
	}
}

func TestIsStatusError(t *testing.T) {
	if !IsStatusError(fmt.Errorf("lookup: %w", ClassifyHTTPError(404, ""))) {
		t.Error("IsStatusError(wrapped 404) = false, want true")
	}
	if IsStatusError(NewNetworkError(errors.New("boom"))) {
		t.Error("IsStatusError(network) = true, want false")
	}
	if IsStatusError(errors.New("plain")) {
		t.Error("IsStatusError(plain) = true, want false")
	}
}

func TestFetchError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewNetworkError(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if err.Error() != "network error: network request failed" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient("http://localhost", "", 0)
	if client == nil {
		t.Fatal("NewHTTPClient() returned nil")
	}
	if got := client.Header().Get("User-Agent"); got != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", got, DefaultUserAgent)
	}
	if got := client.Header().Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %q, want application/json", got)
	}
}
