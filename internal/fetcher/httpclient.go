package fetcher

import (
	"time"

	"resty.dev/v3"
)

// DefaultUserAgent identifies this tool to remote APIs that require one.
const DefaultUserAgent = "scryfallprices/1.0"

// NewHTTPClient creates a new HTTP client for JSON APIs.
// Requests are never retried; a timeout of zero leaves requests unbounded.
func NewHTTPClient(baseURL, userAgent string, timeout time.Duration) *resty.Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0)

	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return client
}
