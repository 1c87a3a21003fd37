// Package scryfall looks up card prices from the Scryfall API.
package scryfall

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resty.dev/v3"

	"scryfallprices/internal/fetcher"
	"scryfallprices/internal/prices"
)

const (
	// DefaultBaseURL is the production Scryfall API
	DefaultBaseURL = "https://api.scryfall.com"

	namedPath = "/cards/named"
)

// CardResponse represents the parts of a Scryfall card object we use
type CardResponse struct {
	Object string        `json:"object"`
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Set    string        `json:"set"`
	Prices prices.Record `json:"prices"`
}

// ErrorResponse represents a Scryfall error object
type ErrorResponse struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Details string `json:"details"`
}

// Client fetches card prices by exact card name
type Client struct {
	client *resty.Client
}

// NewClient creates a new Scryfall client
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		client: fetcher.NewHTTPClient(baseURL, userAgent, timeout),
	}
}

// Lookup retrieves the price record of the card named exactly name.
// Spaces in name travel as '+' in the query string.
func (c *Client) Lookup(ctx context.Context, name string) (prices.Record, error) {
	var card CardResponse
	var apiErr ErrorResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("exact", name).
		SetResult(&card).
		SetError(&apiErr).
		Get(namedPath)

	status := statusOf(resp)
	if status != 0 && status != http.StatusOK {
		return nil, fetcher.ClassifyHTTPError(status, apiErr.Details)
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fetcher.ClassifyTransportError(ctxErr)
		}
		if status == http.StatusOK {
			return nil, fetcher.NewParseError(fmt.Sprintf("malformed card response for %s", name), err)
		}
		return nil, fetcher.ClassifyTransportError(err)
	}

	if card.Prices == nil {
		return nil, fetcher.NewParseError(fmt.Sprintf("prices not found in response for %s", name), nil)
	}

	return card.Prices, nil
}

// Close releases idle connections held by the client
func (c *Client) Close() error {
	return c.client.Close()
}

func statusOf(resp *resty.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode()
}
