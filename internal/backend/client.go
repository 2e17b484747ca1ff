// Package backend is the authenticated JSON client for the health backend API.
package backend

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

	"github.com/UnknownOlympus/lifeline/internal/auth"
	"github.com/UnknownOlympus/lifeline/internal/metrics"
)

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrUnauthorized is returned when the credential is missing, expired or rejected.
var ErrUnauthorized = errors.New("backend rejected the credential")

// StatusError reports a non-2xx answer.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

// Request describes one backend call.
type Request struct {
	Endpoint string            // Endpoint labels the call in metrics and logs.
	Method   string            // Method is the HTTP method.
	Path     string            // Path is appended to the base URL.
	Query    url.Values        // Query is encoded into the URL.
	Body     any               // Body is JSON-encoded when non-nil.
	Headers  map[string]string // Headers are set after the defaults.
}

// Client performs JSON requests with a bearer credential.
type Client struct {
	client  HTTPClient
	baseURL string
	tokens  auth.TokenSource
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewClient creates a backend client with a bounded request timeout.
func NewClient(
	baseURL string,
	timeout time.Duration,
	tokens auth.TokenSource,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *Client {
	return NewClientWithHTTP(&http.Client{Timeout: timeout}, baseURL, tokens, log, metrics)
}

// NewClientWithHTTP allows injecting a custom HTTP client.
func NewClientWithHTTP(
	client HTTPClient,
	baseURL string,
	tokens auth.TokenSource,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *Client {
	return &Client{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		log:     log,
		metrics: metrics,
	}
}

// Do executes the request and decodes a JSON answer into out (when out is non-nil).
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	reqURL := c.baseURL + r.Path
	if len(r.Query) > 0 {
		reqURL += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		payload, errMarshal := json.Marshal(r.Body)
		if errMarshal != nil {
			return fmt.Errorf("failed to marshal request body: %w", errMarshal)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range r.Headers {
		req.Header.Set(key, value)
	}

	c.log.DebugContext(ctx, "Backend request", "endpoint", r.Endpoint, "method", r.Method, "url", reqURL)

	startTime := time.Now()
	resp, err := c.client.Do(req)
	c.metrics.RequestSeconds.WithLabelValues(r.Endpoint).Observe(time.Since(startTime).Seconds())
	if err != nil {
		return fmt.Errorf("failed to execute %s request: %w", r.Endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.log.ErrorContext(ctx, "Backend API error", "endpoint", r.Endpoint, "status", resp.StatusCode,
			"body", string(respBody))
		return &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err = json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", r.Endpoint, err)
	}

	return nil
}
