// Package rest provides a REST client for test tooling that authenticates
// every request through a pluggable auth.Credentials strategy.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/smnsjas/go-restauth/auth"
	restlog "github.com/smnsjas/go-restauth/internal/log"
)

var (
	// ErrNotOpen is returned when a request is issued before Open.
	ErrNotOpen = errors.New("rest: session not open")

	// ErrClosed is returned when the client is used after Close.
	ErrClosed = errors.New("rest: session closed")
)

const (
	// HeaderRequestID carries a unique id per request for server-side correlation.
	HeaderRequestID = "X-Request-ID"

	// maxFailureBody caps the response body kept in a Failure.
	maxFailureBody = 3000
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// JSON decodes the response body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Client is a REST client bound to one credentials strategy for its session.
type Client struct {
	mu sync.Mutex

	baseURL   string
	creds     auth.Credentials
	transport *HTTPTransport
	headers   map[string]string
	logger    *slog.Logger

	authenticating bool
	opened         bool
	closed         bool
}

// New creates a client from cfg, choosing the credentials strategy by cfg.Auth.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	kind, err := auth.ParseKind(string(cfg.Auth))
	if err != nil {
		return nil, err
	}
	creds, err := auth.New(kind, cfg.Username, auth.PasswordFromPointer(cfg.Password))
	if err != nil {
		return nil, err
	}

	tr := NewHTTPTransport(
		WithTimeout(cfg.Timeout),
		WithInsecureSkipVerify(cfg.InsecureSkipVerify),
	)

	if cfg.Negotiate {
		neg, ok := creds.(auth.Negotiator)
		if !ok {
			return nil, fmt.Errorf("credentials %q do not support negotiation", kind)
		}
		tr.wrap(neg.Negotiate)
	}

	c := NewClient(cfg.BaseURL, creds, tr)
	for k, v := range cfg.Headers {
		c.headers[k] = v
	}
	return c, nil
}

// NewClient creates a client for baseURL. A nil transport uses NewHTTPTransport().
func NewClient(baseURL string, creds auth.Credentials, tr *HTTPTransport) *Client {
	if tr == nil {
		tr = NewHTTPTransport()
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		creds:     creds,
		transport: tr,
		headers:   make(map[string]string),
		logger:    slog.New(restlog.NewRedactingHandler(slog.Default().Handler())),
	}
}

// SetSlogLogger sets the logger. Sensitive attributes are redacted.
// Call it before Open.
func (c *Client) SetSlogLogger(logger *slog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = slog.New(restlog.NewRedactingHandler(logger.Handler()))
}

// HTTPClient implements auth.Session.
func (c *Client) HTTPClient() *http.Client {
	return c.transport.Client()
}

// BaseURL implements auth.Session.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LogonName returns the user name of the session's credentials.
func (c *Client) LogonName() string {
	return c.creds.LogonName()
}

// Open initializes the credentials session. It is safe to call more than
// once; only the first call reaches the credentials.
func (c *Client) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.opened {
		return nil
	}

	// Credentials are applied by the round tripper from here on.
	if !c.authenticating {
		c.transport.wrap(func(base http.RoundTripper) http.RoundTripper {
			return auth.TransportWithLogger(c.creds, base, c.logger)
		})
		c.authenticating = true
	}

	if err := c.creds.Initialize(ctx, c); err != nil {
		c.logger.Error("session initialization failed", "user", c.creds.LogonName(), "error", err)
		return fmt.Errorf("initialize session: %w", err)
	}

	c.opened = true
	c.logger.Debug("session opened", "endpoint", c.baseURL, "user", c.creds.LogonName())
	return nil
}

// Close logs the credentials session out. Later calls are no-ops.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	defer c.transport.CloseIdleConnections()

	if !c.opened {
		return nil
	}

	if err := c.creds.Logout(ctx, c); err != nil {
		c.logger.Error("session logout failed", "user", c.creds.LogonName(), "error", err)
		return fmt.Errorf("logout session: %w", err)
	}

	c.logger.Debug("session closed", "endpoint", c.baseURL, "user", c.creds.LogonName())
	return nil
}

func (c *Client) state() (*slog.Logger, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if !c.opened {
		return nil, ErrNotOpen
	}
	return c.logger, nil
}

// Do sends a request to path (relative to the base URL) and returns the
// response. Statuses of 400 and above are returned as *auth.Failure.
func (c *Client) Do(ctx context.Context, method, path string, body []byte, opts ...Option) (*Response, error) {
	logger, err := c.state()
	if err != nil {
		return nil, err
	}

	o := newRequestOptions(opts)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), reader)
	if err != nil {
		return nil, fmt.Errorf("rest: failed to create request: %w", err)
	}

	if len(o.query) > 0 {
		q := req.URL.Query()
		for k, vs := range o.query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range o.headers {
		req.Header.Set(k, v)
	}

	logger.Debug("sending request", "method", method, "url", req.URL.Redacted(), "request_id", requestID)

	resp, err := c.transport.Client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("rest: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := readAllPooled(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rest: failed to read response: %w", err)
	}

	logger.Debug("received response", "status", resp.StatusCode, "bytes", len(respBody), "request_id", requestID)

	if resp.StatusCode >= 400 {
		return nil, auth.NewFailure(http.StatusText(resp.StatusCode), resp.StatusCode, previewBody(respBody))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...Option) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Post sends a POST request with a JSON-encoded body.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...Option) (*Response, error) {
	data, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, http.MethodPost, path, data, opts...)
}

// Put sends a PUT request with a JSON-encoded body.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...Option) (*Response, error) {
	data, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, http.MethodPut, path, data, opts...)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts ...Option) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, opts...)
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path == "" {
		return c.baseURL
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// previewBody caps body at maxFailureBody bytes without splitting a rune.
func previewBody(body []byte) string {
	if len(body) <= maxFailureBody {
		return string(body)
	}
	cut := maxFailureBody
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "..."
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("rest: failed to encode body: %w", err)
	}
	return data, nil
}
