// Package maps wraps the external Google Maps HTTP APIs used by the service:
// forward geocoding, timezone lookup and the distance matrix. The three
// wrappers carry different failure policies on purpose: Geocode hard-fails,
// ResolveTimezone soft-fails to UTC.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// Client is a shared Google Maps API client. The base URL is configurable so
// tests can point it at a fixture server.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// New builds a Client. An empty apiKey is allowed: geocoding calls then fail
// with a GeocodingError while timezone lookups return nil.
func New(apiKey, baseURL string, log *zap.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
}

// getJSON issues a GET against path with the query values (API key appended)
// and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("key", c.apiKey)
	u := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("call %s: HTTP %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
