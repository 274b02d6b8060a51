// Package grants synchronizes a local copy of the grant list with the
// remote grants service.
package grants

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/leapstack-labs/grantview/pkg/core"
)

// DefaultBaseURL is the address of a locally running grants service.
const DefaultBaseURL = "http://localhost:5000"

// maxErrorBody bounds how much of a failure response is read.
const maxErrorBody = 64 << 10

// Service is the remote collaborator the Store synchronizes with.
type Service interface {
	ListGrants(ctx context.Context) ([]core.Grant, error)
	CreateGrant(ctx context.Context, grant core.NewGrant) error
}

// ClientConfig holds configuration for the HTTP client.
type ClientConfig struct {
	// BaseURL is the service root, e.g. http://localhost:5000
	BaseURL string
	// Timeout applies per request when HTTPClient is nil. Zero means no timeout.
	Timeout time.Duration
	// HTTPClient overrides the transport (tests use httptest clients)
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks JSON over HTTP to the grants service.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a client for the service at cfg.BaseURL.
func NewClient(cfg ClientConfig) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid grants service URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid grants service URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid grants service URL %q: missing host", raw)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{baseURL: u, http: httpClient, logger: logger}, nil
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListGrants fetches the full grant list. A response without a grants
// field yields an empty list.
func (c *Client) ListGrants(ctx context.Context) ([]core.Grant, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/grants", nil)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		return nil, decodeAPIError(resp, "list")
	}

	var body core.GrantList
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("list grants: malformed response: %w", err)
	}
	if body.Grants == nil {
		return []core.Grant{}, nil
	}
	return body.Grants, nil
}

// CreateGrant posts a new grant. Any 2xx is success; the response body is
// not trusted and callers refetch the list instead.
func (c *Client) CreateGrant(ctx context.Context, grant core.NewGrant) error {
	payload, err := json.Marshal(core.CreateGrantRequest{Grant: grant})
	if err != nil {
		return fmt.Errorf("create grant: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/grants", payload)
	if err != nil {
		return fmt.Errorf("create grant: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		return decodeAPIError(resp, "create")
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	return nil
}

// Health queries the service health endpoint. An unhealthy service that
// still returns a JSON body yields both the decoded body and an *APIError.
func (c *Client) Health(ctx context.Context) (*core.Health, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return nil, fmt.Errorf("health: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return nil, fmt.Errorf("health: %w", err)
	}

	var h core.Health
	decodeErr := json.Unmarshal(data, &h)

	if !isSuccess(resp.StatusCode) {
		apiErr := &APIError{Op: "health", StatusCode: resp.StatusCode, Message: h.Error}
		if decodeErr != nil {
			return nil, apiErr
		}
		return &h, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("health: malformed response: %w", decodeErr)
	}
	return &h, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	endpoint := c.baseURL.JoinPath(path)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("grants request failed", "method", method, "url", endpoint.String(), "error", err)
		return nil, err
	}
	c.logger.Debug("grants request",
		"method", method,
		"url", endpoint.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return resp, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// decodeAPIError builds an *APIError from a failure response, tolerating
// bodies that are empty or not JSON.
func decodeAPIError(resp *http.Response, op string) error {
	apiErr := &APIError{Op: op, StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil && !errors.Is(err, io.EOF) {
		return apiErr
	}
	var body core.ErrorResponse
	if json.Unmarshal(data, &body) == nil {
		apiErr.Message = strings.TrimSpace(body.Error)
	}
	return apiErr
}
