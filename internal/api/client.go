package api

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

	"github.com/google/uuid"
)

const maxResponseBodySize = 8 << 20 // 8MB; output logs can be large

// connection pooling limits to prevent resource exhaustion when a client is
// shared across many goroutines
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 10
	defaultIdleConnTimeout     = 60 * time.Second
)

// errorBodyLimit caps how much of a failed response body is echoed into an
// error message.
const errorBodyLimit = 512

// HTTPError is returned when the deployment responds with a non-2xx status.
//
// The RequestID matches the X-Request-Id header sent with the failing
// request, so errors can be correlated with server-side logs.
type HTTPError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Method and URL identify the failing request.
	Method string
	URL    string

	// Body holds the response body, truncated to a small prefix.
	Body []byte

	// RequestID is the correlation ID sent with the request.
	RequestID string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("%s %s: HTTP %d (request_id %s)", e.Method, e.URL, e.StatusCode, e.RequestID)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s (request_id %s)", e.Method, e.URL, e.StatusCode, e.Body, e.RequestID)
}

// Transient reports whether the failure is worth retrying: rate limiting
// and server-side errors are transient, everything else is permanent.
func (e *HTTPError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsTransient reports whether err represents a failure that may succeed on
// retry. Network-level errors are transient; HTTP errors defer to
// [HTTPError.Transient]; context cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Transient()
	}

	// anything that died before producing a response (DNS, connect, reset)
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// Client is the HTTP request manager for a single deployment.
//
// Client wraps an [http.Client] configured with connection pooling and
// applies credentials, a User-Agent, and a per-request correlation ID to
// every outgoing request. Response bodies are size-limited.
type Client struct {
	httpClient *http.Client
	creds      Credentials
	logger     *slog.Logger
	userAgent  string
}

// NewClient creates a request manager using the given credentials.
//
// If httpClient is nil, a pooled client with no global timeout is created;
// timeouts are applied per request via context. The logger receives a debug
// record for every request and a warn record for every failure.
func NewClient(creds Credentials, httpClient *http.Client, logger *slog.Logger, userAgent string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: httpClient,
		creds:      creds,
		logger:     logger,
		userAgent:  userAgent,
	}
}

// RequestOption adjusts a single request.
type RequestOption func(*requestConfig)

type requestConfig struct {
	headers     map[string]string
	contentType string
	noRedirects bool
}

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(cfg *requestConfig) {
		if cfg.headers == nil {
			cfg.headers = make(map[string]string)
		}
		cfg.headers[key] = value
	}
}

// WithoutRedirects stops the client from following redirects for this
// request. The redirect response itself is treated as the final response.
func WithoutRedirects() RequestOption {
	return func(cfg *requestConfig) {
		cfg.noRedirects = true
	}
}

// GetJSON performs a GET request and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any) error {
	body, err := c.do(ctx, http.MethodGet, rawURL, nil, requestConfig{})
	if err != nil {
		return err
	}
	return decode(body, out)
}

// GetRaw performs a GET request and returns the raw response body.
func (c *Client) GetRaw(ctx context.Context, rawURL string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, rawURL, nil, requestConfig{})
}

// PostJSON performs a POST request with a JSON body. If out is non-nil the
// JSON response is decoded into it.
func (c *Client) PostJSON(ctx context.Context, rawURL string, body, out any, opts ...RequestOption) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	cfg := requestConfig{contentType: "application/json"}
	for _, opt := range opts {
		opt(&cfg)
	}
	respBody, err := c.do(ctx, http.MethodPost, rawURL, bytes.NewReader(payload), cfg)
	if err != nil {
		return err
	}
	return decode(respBody, out)
}

// PostForm performs a POST request with form-encoded values.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values, out any, opts ...RequestOption) error {
	cfg := requestConfig{contentType: "application/x-www-form-urlencoded"}
	for _, opt := range opts {
		opt(&cfg)
	}
	respBody, err := c.do(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()), cfg)
	if err != nil {
		return err
	}
	return decode(respBody, out)
}

// Put performs a PUT request streaming body as the request payload. Used
// for file uploads. If out is non-nil the JSON response is decoded into it.
func (c *Client) Put(ctx context.Context, rawURL string, body io.Reader, out any) error {
	respBody, err := c.do(ctx, http.MethodPut, rawURL, body, requestConfig{contentType: "application/octet-stream"})
	if err != nil {
		return err
	}
	return decode(respBody, out)
}

// Delete performs a DELETE request, discarding any response body.
func (c *Client) Delete(ctx context.Context, rawURL string) error {
	_, err := c.do(ctx, http.MethodDelete, rawURL, nil, requestConfig{})
	return err
}

// Close closes all idle connections in the underlying connection pool.
// The client remains usable afterwards; new connections are established as
// needed.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}

// do executes one request and returns the response body, converting non-2xx
// responses into *HTTPError.
func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader, cfg requestConfig) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if cfg.contentType != "" {
		req.Header.Set("Content-Type", cfg.contentType)
	}
	for key, value := range cfg.headers {
		req.Header.Set(key, value)
	}

	if c.creds != nil {
		if err := c.creds.Apply(req); err != nil {
			return nil, fmt.Errorf("apply credentials: %w", err)
		}
	}

	httpClient := c.httpClient
	if cfg.noRedirects {
		// shallow copy so the shared client keeps its redirect policy
		clone := *c.httpClient
		clone.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
		httpClient = &clone
	}

	c.logger.Debug("api request", "method", method, "url", rawURL, "request_id", requestID)

	resp, err := httpClient.Do(req)
	if err != nil {
		c.logger.Warn("api request failed", "method", method, "url", rawURL, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		httpErr := &HTTPError{
			StatusCode: resp.StatusCode,
			Method:     method,
			URL:        rawURL,
			Body:       truncate(respBody, errorBodyLimit),
			RequestID:  requestID,
		}
		c.logger.Warn("api request failed", "method", method, "url", rawURL, "request_id", requestID, "status", resp.StatusCode)
		return nil, httpErr
	}

	return respBody, nil
}

// decode unmarshals body into out, tolerating empty bodies and nil targets.
func decode(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
