package sunsights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// defaultTimeout bounds every request; it is sized for the worst-case
	// bulk upload, not the typical call.
	defaultTimeout = 120 * time.Second

	maxErrorBodyBytes = 1 << 20
)

// Client wraps every outbound call with a fixed base address, JSON content
// type, a request timeout and, when the token store holds one, a bearer
// credential. It never retries; failures propagate to the caller.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenStore
	stderr     io.Writer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying transport. The client's Timeout
// is left untouched if non-zero.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenStore sets the store the client reads the bearer token from.
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient builds a client for the backend at baseURL (e.g.
// "http://localhost:5000"). With no WithTokenStore option, requests go out
// unauthenticated.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     &MemoryTokenStore{},
		stderr:     io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithDebugLog mirrors request lines to w (method, path, request id).
func WithDebugLog(w io.Writer) Option {
	return func(c *Client) {
		if w != nil {
			c.stderr = w
		}
	}
}

// getJSON issues GET path?query and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

// postJSON issues POST path with body marshaled as JSON, decoding into out.
// out may be nil when the response body is irrelevant.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) putJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) deleteJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	raw, err := c.do(req)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response for %s %s: %w", method, path, ErrInvalidResponse)
	}
	return nil
}

// newRequest builds a request with the shared headers: JSON accept, a fresh
// request id, and the bearer token when one is persisted.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	token, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do executes the request and returns the raw body. Transport failures come
// back as a network error; non-2xx statuses as *APIError with the backend's
// structured error body when it has one.
func (c *Client) do(req *http.Request) ([]byte, error) {
	fmt.Fprintf(c.stderr, "request %s %s id=%s\n", req.Method, req.URL.Path, req.Header.Get("X-Request-ID"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &networkError{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return nil, &networkError{err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			RequestID:  req.Header.Get("X-Request-ID"),
		}
		// Best effort: the backend usually returns {"error": ...} or
		// {"message": ...}; anything else leaves both fields empty.
		_ = json.Unmarshal(raw, apiErr)
		apiErr.Body = raw
		return nil, apiErr
	}
	return raw, nil
}
