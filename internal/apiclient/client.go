// Package apiclient wraps an HTTP client with the interceptors every backend
// call needs: bearer-token injection from the session store on the way out,
// central 401 handling on the way back, and normalization of every failure
// into a single APIError shape.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bookline/internal/guard"
)

// TokenSource is the slice of the session store the client depends on.
type TokenSource interface {
	AccessToken() (string, bool)
	Clear() error
}

// APIError is the one error shape every failed request is normalized into.
type APIError struct {
	// Status is the HTTP status code, or 0 when no HTTP response was received
	// (network failure, DNS error).
	Status  int
	URL     string
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request to %s failed: %s", e.URL, e.Message)
	}
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.Status, e.Message)
}

// errorBody is the server-supplied error envelope. The message field, when
// present, takes precedence over the transport error text.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Client is a single configured HTTP facade. Base URL comes from deployment
// configuration; empty means same-origin relative requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   TokenSource
	navigate   func(route string)
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithNavigate sets the callback invoked with the sign-in route after a 401.
func WithNavigate(fn func(route string)) Option {
	return func(c *Client) {
		c.navigate = fn
	}
}

// New constructs the facade over the given session store.
func New(baseURL string, sessions TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		sessions: sessions,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.navigate == nil {
		c.navigate = func(string) {}
	}
	return c
}

// do runs one request through both interceptors and returns the raw response
// body. Every failure path returns *APIError.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, c.fail(ctx, &APIError{URL: url, Message: "failed to encode request body"})
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, c.fail(ctx, &APIError{URL: url, Message: err.Error()})
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Request interceptor: attach the bearer token when a session holds one.
	if token, ok := c.sessions.AccessToken(); ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// No HTTP response was received; Status stays 0.
		return nil, c.fail(ctx, &APIError{URL: url, Message: err.Error()})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(ctx, &APIError{Status: resp.StatusCode, URL: url, Message: "failed to read response body"})
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Response interceptor: drop the whole session and force navigation to
		// sign-in. The rejection still propagates to the caller.
		if err := c.sessions.Clear(); err != nil {
			c.logger.ErrorContext(ctx, "failed to clear session after 401", "error", err, "url", url)
		}
		c.navigate(guard.RouteSignIn)
	}

	if resp.StatusCode >= 400 {
		return nil, c.fail(ctx, &APIError{
			Status:  resp.StatusCode,
			URL:     url,
			Message: messageFromBody(raw, resp.StatusCode),
		})
	}

	return raw, nil
}

// fail applies the uniform logging policy: every verb logs the normalized
// error before returning it.
func (c *Client) fail(ctx context.Context, apiErr *APIError) error {
	c.logger.WarnContext(ctx, "api request failed",
		"url", apiErr.URL,
		"status", apiErr.Status,
		"message", apiErr.Message,
	)
	return apiErr
}

// messageFromBody prefers the server-supplied message field and falls back to
// the standard status text.
func messageFromBody(raw []byte, status int) string {
	var envelope errorBody
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return http.StatusText(status)
}

func decode[T any](c *Client, url string, raw []byte) (*T, error) {
	var out T
	if len(raw) == 0 {
		return &out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, c.fail(context.Background(), &APIError{URL: url, Message: "failed to decode response body"})
	}
	return &out, nil
}

// Get issues a GET request and decodes the JSON response into T.
func Get[T any](ctx context.Context, c *Client, path string) (*T, error) {
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decode[T](c, c.baseURL+path, raw)
}

// Post issues a POST request with a JSON body and decodes the response into T.
func Post[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	raw, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	return decode[T](c, c.baseURL+path, raw)
}

// Put issues a PUT request with a JSON body and decodes the response into T.
func Put[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	raw, err := c.do(ctx, http.MethodPut, path, body)
	if err != nil {
		return nil, err
	}
	return decode[T](c, c.baseURL+path, raw)
}

// Delete issues a DELETE request and decodes the JSON response into T.
func Delete[T any](ctx context.Context, c *Client, path string) (*T, error) {
	raw, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, err
	}
	return decode[T](c, c.baseURL+path, raw)
}
