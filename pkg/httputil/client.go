package httputil

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/modresolve/pkg/observability"
)

// DefaultTimeout bounds a whole request on clients built by [NewClient]
// unless [WithTimeout] overrides it. Callers usually impose a tighter
// per-request deadline through the context.
const DefaultTimeout = 5 * time.Minute

// Response is the subset of an HTTP response the resolver needs: the status
// code and a streamable body. The caller must close Body.
type Response struct {
	StatusCode int
	Body       io.ReadCloser
}

// StatusError reports a response status the caller did not expect.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Client performs GET requests against a repository identified by host and
// port. It implements the transport the maven fetcher depends on.
//
// Client never retries and never caches. All methods are safe for concurrent
// use by multiple goroutines.
type Client struct {
	http      *http.Client
	scheme    string
	userAgent string
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithScheme sets the URL scheme ("http" or "https"). The default is "http".
func WithScheme(scheme string) Option {
	return func(c *Client) {
		if scheme != "" {
			c.scheme = scheme
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTimeout sets the overall client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// NewClient creates a Client with the given options applied.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:   &http.Client{Timeout: DefaultTimeout},
		scheme: "http",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET for path on host:port.
//
// A non-nil error means no response was received (connection failure,
// cancelled or expired context). Any status code, including 404 and 5xx, is
// returned as a Response so that the caller can branch on it.
func (c *Client) Get(ctx context.Context, host string, port int, path string) (*Response, error) {
	hooks := observability.HTTP()
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	url := c.scheme + "://" + addr + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	hooks.OnRequest(ctx, http.MethodGet, addr, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, addr, path, err)
		return nil, err
	}

	hooks.OnResponse(ctx, http.MethodGet, addr, path, resp.StatusCode, time.Since(start))
	return &Response{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}

// Drain discards the rest of body and closes it so that the underlying
// connection can be reused.
func Drain(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}
