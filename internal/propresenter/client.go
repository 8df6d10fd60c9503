// ABOUTME: HTTP client for the ProPresenter v1 network API.
// ABOUTME: Builds request URLs, applies timeouts, and classifies failures.

package propresenter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// Sentinel errors for the failure classes callers care about. The error
// messages flow back to the assistant verbatim, so they read as sentences.
var (
	// ErrCannotConnect indicates the ProPresenter instance is unreachable.
	ErrCannotConnect = errors.New("Cannot connect to ProPresenter")

	// ErrTimeout indicates the request exceeded its deadline.
	ErrTimeout = errors.New("request timed out")
)

// emptyBodyResult is returned for 2xx responses with no body, so every
// successful call yields valid JSON.
var emptyBodyResult = json.RawMessage(`{"status":"ok"}`)

// APIError describes a non-2xx response from the ProPresenter API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *APIError) Error() string {
	switch e.StatusCode {
	case http.StatusNotFound:
		return fmt.Sprintf("ProPresenter returned 404 for %s: no such endpoint or item", e.Path)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Sprintf("ProPresenter rejected %s %s: authentication required (status %d)", e.Method, e.Path, e.StatusCode)
	default:
		return fmt.Sprintf("ProPresenter returned status %d for %s %s", e.StatusCode, e.Method, e.Path)
	}
}

// Config holds the settings for a Client.
type Config struct {
	Host    string
	Port    int
	Timeout time.Duration // per-request deadline; defaults to 5s
	Logger  *slog.Logger
}

// Client issues single-shot HTTP requests against one ProPresenter instance.
// It holds no state beyond the connection settings and is safe for
// concurrent use.
type Client struct {
	baseURL string
	timeout time.Duration
	hc      *http.Client
	logger  *slog.Logger
}

// New creates a Client for the configured host and port.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: "http://" + cfg.Host + ":" + strconv.Itoa(cfg.Port),
		timeout: timeout,
		hc:      &http.Client{},
		logger:  logger,
	}
}

// BaseURL returns the base URL requests are issued against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do issues one HTTP request against the API and returns the response body
// as raw JSON. The path must start with "/". A non-nil body is JSON-encoded.
//
// Outcomes:
//   - 2xx with a body: the body, unchanged
//   - 2xx without a body: {"status":"ok"}
//   - non-2xx: *APIError naming method, path, and status
//   - unreachable: error wrapping ErrCannotConnect, naming the base URL
//   - deadline exceeded: error wrapping ErrTimeout, naming the path
func (c *Client) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("calling ProPresenter API", "method", method, "url", c.baseURL+path)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, c.classifyTransportError(err, method, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.classifyTransportError(err, method, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("ProPresenter API error response",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		return nil, &APIError{Method: method, Path: path, StatusCode: resp.StatusCode}
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return emptyBodyResult, nil
	}
	return json.RawMessage(respBody), nil
}

// Get issues a GET request for the given path.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Put issues a PUT request for the given path with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

// Post issues a POST request for the given path with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Delete issues a DELETE request for the given path.
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// classifyTransportError distinguishes a timed-out request from an
// unreachable instance. Deadline errors surface through the url.Error
// wrapping, so checking the context covers both.
func (c *Client) classifyTransportError(err error, method, path string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		c.logger.Warn("ProPresenter request timed out",
			"method", method,
			"path", path,
			"timeout", c.timeout,
		)
		return fmt.Errorf("%w: %s %s exceeded %s", ErrTimeout, method, path, c.timeout)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	c.logger.Warn("cannot connect to ProPresenter",
		"base_url", c.baseURL,
		"error", err,
	)
	return fmt.Errorf("%w at %s", ErrCannotConnect, c.baseURL)
}
