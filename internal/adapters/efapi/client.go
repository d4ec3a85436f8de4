package efapi

// Package efapi is the HTTP client for the e-filing REST backend. Every
// console request to the backend goes through this adapter, which attaches
// the bearer credential uniformly and surfaces non-2xx responses as errors
// carrying the backend's payload.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/efiling/console/internal/ports"
)

// ErrUnauthorized marks a backend 401. The HTTP layer reacts to it in one
// place: clear the session and send the browser back to the login page.
var ErrUnauthorized = ports.ErrUnauthorized

// maxErrorPayload caps how much of an error response body is retained.
const maxErrorPayload = 64 << 10

// APIError is a non-2xx backend response. Payload holds the response body
// verbatim so validation messages reach the user unchanged.
type APIError struct {
	Status  int
	Payload []byte
}

func (e *APIError) Error() string {
	msg := e.Message()
	if msg == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, msg)
}

// Unwrap lets callers match 401s with errors.Is(err, ErrUnauthorized).
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Message extracts a human-readable message from the payload. The backend
// answers either with a plain string body or a JSON object carrying a
// "message" or "error" field.
func (e *APIError) Message() string {
	body := bytes.TrimSpace(e.Payload)
	if len(body) == 0 {
		return ""
	}
	if body[0] == '{' {
		var envelope struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(body, &envelope); err == nil {
			if envelope.Message != "" {
				return envelope.Message
			}
			if envelope.Error != "" {
				return envelope.Error
			}
		}
		return ""
	}
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return s
	}
	return string(body)
}

// Config holds client construction parameters.
type Config struct {
	// BaseURL is the backend API root, e.g. "http://backend:8081/api".
	BaseURL string

	// Timeout bounds each request. Zero selects a 30s default; the core
	// itself enforces no other deadline.
	Timeout time.Duration

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client implements ports.BackendClient over net/http.
type Client struct {
	base *url.URL
	http *http.Client
}

var _ ports.BackendClient = (*Client)(nil)

// New creates a backend client for the given configuration.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("backend base URL is required")
	}
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend base URL: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("backend base URL must be absolute, got %q", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{base: base, http: hc}, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, call ports.BackendCall) error {
	return c.do(ctx, http.MethodGet, call)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, call ports.BackendCall) error {
	return c.do(ctx, http.MethodPost, call)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, call ports.BackendCall) error {
	return c.do(ctx, http.MethodPut, call)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, call ports.BackendCall) error {
	return c.do(ctx, http.MethodDelete, call)
}

func (c *Client) do(ctx context.Context, method string, call ports.BackendCall) error {
	req, err := c.newRequest(ctx, method, call)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, call.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorPayload))
		return &APIError{Status: resp.StatusCode, Payload: payload}
	}

	if call.Out == nil {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response for %s %s: %w", method, call.Path, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, call.Out); err != nil {
		return fmt.Errorf("decode response for %s %s: %w", method, call.Path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method string, call ports.BackendCall) (*http.Request, error) {
	u, err := c.resolve(call.Path)
	if err != nil {
		return nil, err
	}
	if len(call.Query) > 0 {
		u.RawQuery = call.Query.Encode()
	}

	var body io.Reader
	if call.Body != nil {
		buf, err := json.Marshal(call.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body for %s %s: %w", method, call.Path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request for %s %s: %w", method, call.Path, err)
	}
	req.Header.Set("Accept", "application/json")
	if call.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if call.Token != "" {
		req.Header.Set("Authorization", "Bearer "+call.Token)
	}
	return req, nil
}

// resolve joins a relative call path onto the base URL. Paths are always
// treated as relative to the configured root; escaping it is an error.
func (c *Client) resolve(path string) (*url.URL, error) {
	if path == "" || !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("backend path must start with '/', got %q", path)
	}
	rel, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse backend path %q: %w", path, err)
	}
	if rel.IsAbs() || rel.Host != "" {
		return nil, fmt.Errorf("backend path must be relative, got %q", path)
	}
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + rel.Path
	u.RawQuery = rel.RawQuery
	return &u, nil
}
