// Package api holds the HTTP plumbing shared by every Site Crawler
// resource service: JSON request/response handling, bearer token
// injection, request IDs, and the uniform error envelope.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-crawler-client/internal/errors"
)

// TokenSource supplies the bearer token attached to authenticated
// requests. The session manager satisfies this.
type TokenSource interface {
	Token() (string, bool)
}

// Client is the Site Crawler API client shared by the resource services.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (primarily for tests).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRequestTimeout sets the per-request timeout on the underlying HTTP
// client.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates an API client for the given base URL. A nil tokens source
// produces a client that never attaches credentials.
func New(baseURL string, tokens TokenSource, options ...Option) *Client {
	client := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
	}
	for _, opt := range options {
		opt(client)
	}
	return client
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do issues one JSON request against the API. A non-nil body is sent as a
// JSON payload and a non-nil out receives the decoded success payload.
// Non-2xx responses come back as a *StatusError; a deadline expiry comes
// back wrapping errors.ErrTimeout.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[Client Do] encode request body")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrapf(err, "[Client Do] create request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log.Debug().Str("method", method).Str("path", path).Msg("API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return errors.Wrapf(errors.ErrTimeout, "%s %s", method, path)
		}
		return errors.Wrapf(err, "[Client Do] %s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrapf(err, "[Client Do] decode response")
		}
	}
	return nil
}

// Get streams a raw GET response back to the caller. Unlike Do, the
// response body is not decoded and must be closed by the caller; non-2xx
// responses are still converted to a *StatusError.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client Get] create request")
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Wrapf(errors.ErrTimeout, "GET %s", path)
		}
		return nil, errors.Wrapf(err, "[Client Get] GET %s", path)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, newStatusError(resp)
	}
	return resp, nil
}

// StatusError is a non-2xx API response. Message carries the
// server-supplied error text when one was present; ErrCode carries the
// optional machine-readable error code.
type StatusError struct {
	StatusCode int
	Message    string
	ErrCode    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// errorBody is the shape of API error payloads. FastAPI reports errors in
// a "detail" field; envelope-style responses use "message". The optional
// "code" field is the machine-readable error class.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func newStatusError(resp *http.Response) *StatusError {
	statusErr := &StatusError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return statusErr
	}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return statusErr
	}

	statusErr.ErrCode = body.Code
	switch {
	case body.Detail != "":
		statusErr.Message = body.Detail
	case body.Message != "":
		statusErr.Message = body.Message
	}
	return statusErr
}
