// Package client is a Go SDK for the clinic service API. It wraps the HTTP
// transport, persists the session token, and tracks authentication state the
// way an interactive frontend would.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	maxRetries     = 2
)

// APIError is a decoded {success:false, error} response.
type APIError struct {
	StatusCode int
	Message    string
	Details    map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// IsAuthError reports whether the error is a 401 or 403 response.
func IsAuthError(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

// Client talks to the clinic service. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithTokenStore sets where the session token is persisted.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) { c.tokens = store }
}

// New builds a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     NewMemoryTokenStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TokenStore returns the client's token store.
func (c *Client) TokenStore() TokenStore {
	return c.tokens
}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

// DoJSON performs a request against the API. The stored token is attached as
// a bearer credential when present. Transport failures and 5xx responses are
// retried up to two times; 401 and 403 are never retried, a fresh attempt
// cannot change an authorization verdict.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 250 * time.Millisecond):
			}
		}

		retryable, err := c.doOnce(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte, out interface{}) (retryable bool, err error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return false, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, err
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if resp.StatusCode >= 500 {
				return true, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
			}
			return false, fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode >= 400 || !env.Success {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    env.Error,
			Details:    env.Details,
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		switch {
		case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
			return false, apiErr
		case resp.StatusCode >= 500:
			return true, apiErr
		default:
			return false, apiErr
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return false, fmt.Errorf("decode data: %w", err)
		}
	}
	return false, nil
}
