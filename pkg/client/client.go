// Package client is a typed HTTP client for the storefront back-office API.
//
// AdminAPI and SellerAPI expose the same product, order and analytics calls
// against /api/v1/admin and /api/v1/seller. ForPath picks between them the way
// the back-office UI does, from the route the caller is on. Request and
// response types are exported here as aliases of the server's own.
package client

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
	"sync"
	"time"
)

// DefaultTimeout bounds every request unless WithTimeout overrides it
const DefaultTimeout = 30 * time.Second

// Client sends authenticated requests and unwraps the response envelope
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	headers    map[string]string

	mu    sync.RWMutex
	token string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the default timeout of every request
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithToken sets the bearer token
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHeader adds a header to every request
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// New creates a client for the API served at baseURL, e.g. https://shop.example.com
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    u,
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": "storefront-client/1.0",
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetToken replaces the bearer token, e.g. after a refresh
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Admin returns the API bound to /api/v1/admin
func (c *Client) Admin() *AdminAPI {
	return &AdminAPI{resourceAPI{c: c, prefix: AdminPrefix}}
}

// Seller returns the API bound to /api/v1/seller
func (c *Client) Seller() *SellerAPI {
	return &SellerAPI{resourceAPI{c: c, prefix: SellerPrefix}}
}

// Store returns the public storefront API
func (c *Client) Store() *StoreAPI {
	return &StoreAPI{c: c}
}

// APIError is a failed call as reported by the server's error envelope
type APIError struct {
	Status    int           `json:"-"`
	Code      string        `json:"code"`
	Message   string        `json:"message"`
	RequestID string        `json:"request_id,omitempty"`
	Details   []FieldDetail `json:"details,omitempty"`
}

// FieldDetail is one failed validation rule
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
	Value   string `json:"value,omitempty"`
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s: %s (status %d, request %s)", e.Code, e.Message, e.Status, e.RequestID)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Code, e.Message, e.Status)
}

// IsCode reports whether err is an APIError with the given code
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// Meta is the pagination block of list responses
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// Page is one page of a list endpoint
type Page[T any] struct {
	Items []T
	Meta  Meta
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *Meta           `json:"meta"`
}

// request is one API call
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// timeout overrides the client timeout for this call only
	timeout time.Duration
}

// CallOption tunes a single call
type CallOption func(*request)

// WithRequestTimeout bounds one call. Used for large imports and bulk updates.
func WithRequestTimeout(d time.Duration) CallOption {
	return func(r *request) {
		r.timeout = d
	}
}

func (c *Client) do(ctx context.Context, req request, out any) (*Meta, error) {
	if req.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.timeout)
		defer cancel()
	}

	raw, contentType, status, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	if !strings.HasPrefix(contentType, "application/json") {
		if status >= 400 {
			return nil, &APIError{Status: status, Code: "HTTP_ERROR", Message: http.StatusText(status)}
		}
		if b, ok := out.(*[]byte); ok {
			*b = raw
			return nil, nil
		}
		return nil, fmt.Errorf("unexpected content type %q", contentType)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if !env.Success || status >= 400 {
		apiErr := env.Error
		if apiErr == nil {
			apiErr = &APIError{Code: "HTTP_ERROR", Message: http.StatusText(status)}
		}
		apiErr.Status = status
		return nil, apiErr
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decoding data: %w", err)
		}
	}
	return env.Meta, nil
}

func (c *Client) send(ctx context.Context, req request) ([]byte, string, int, error) {
	u := c.baseURL.JoinPath(req.path)
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return nil, "", 0, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return nil, "", 0, fmt.Errorf("creating request: %w", err)
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", 0, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", 0, fmt.Errorf("reading response body: %w", err)
	}
	return raw, resp.Header.Get("Content-Type"), resp.StatusCode, nil
}

func get[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	var out T
	if _, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func list[T any](ctx context.Context, c *Client, path string, query url.Values) (*Page[T], error) {
	var items []T
	meta, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query}, &items)
	if err != nil {
		return nil, err
	}
	page := &Page[T]{Items: items}
	if meta != nil {
		page.Meta = *meta
	}
	return page, nil
}

func send[T any](ctx context.Context, c *Client, method, path string, body any, opts ...CallOption) (*T, error) {
	req := request{method: method, path: path, body: body}
	for _, opt := range opts {
		opt(&req)
	}
	var out T
	if _, err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func del(ctx context.Context, c *Client, path string) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: path}, nil)
	return err
}
