// Package ehour provides a client for the eHour cloud timesheet REST API.
//
// The client is read-only: every endpoint it uses is a plain GET. All
// fetched users, clients, and projects are resolved through a per-client
// identity store so that one ID always maps to one live instance.
package ehour

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/geanix/ehour/internal/config"
	"github.com/geanix/ehour/internal/model"
)

const (
	requestTimeout = 30 * time.Second
	maxBodySize    = 8 << 20  // JSON responses
	maxArchiveSize = 64 << 20 // receipt bundles
)

// Client issues authenticated requests against the eHour REST API.
type Client struct {
	apiKey  string
	baseURL string
	cfg     config.Config
	http    *http.Client
	store   *model.Store
}

// New creates a client for the given API key. The base URL and custom
// field mappings come from cfg; an empty base URL means the eHour cloud
// endpoint.
func New(apiKey string, cfg config.Config) *Client {
	base := cfg.BaseURL()
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: base,
		cfg:     cfg,
		http:    &http.Client{},
		store:   model.NewStore(),
	}
}

// Store returns the identity store backing this client.
func (c *Client) Store() *model.Store {
	return c.store
}

// get performs an authenticated GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.doGet(ctx, path, query, maxBodySize)
}

func (c *Client) doGet(ctx context.Context, path string, query url.Values, maxSize int64) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("ehour: creating request: %w", err)
	}

	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	slog.Debug("ehour: GET", "url", u)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ehour: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RESTError{Code: resp.StatusCode, Reason: reasonPhrase(resp)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSize))
	if err != nil {
		return nil, fmt.Errorf("ehour: reading response: %w", err)
	}
	return body, nil
}

// getJSON performs a GET and decodes the body into dst. A body that does
// not decode is a schema error, not a transport error.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dst any) error {
	body, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return schemaErrorf("decoding %s response: %v", path, err)
	}
	return nil
}

// reasonPhrase extracts the textual reason from a response status line,
// e.g. "Not Found" from "404 Not Found".
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

// stateValue maps the only-active flag onto the state query parameter
// shared by all list endpoints.
func stateValue(onlyActive bool) string {
	if onlyActive {
		return "active"
	}
	return "all"
}
