package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

const (
	// DefaultMaxContentLength bounds how much of a body is read.
	DefaultMaxContentLength int64 = 50 << 20
	// DefaultCacheSize is the number of responses kept when caching is on.
	DefaultCacheSize = 512
	// DefaultTimeout is applied when no *http.Client is supplied.
	DefaultTimeout = 30 * time.Second
)

// ErrContentTooLarge is returned when a body exceeds the configured ceiling.
var ErrContentTooLarge = errors.New("response body exceeds maximum content length")

// StatusError reports a non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode    int
	Header        http.Header
	ContentLength int64
	Body          []byte
}

// ContentType returns the media type of the response without parameters.
func (r *Response) ContentType() string {
	ct := r.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// IPFSReader serves /ipfs/ and /ipns/ paths without going through an HTTP gateway.
type IPFSReader interface {
	ReadPath(ctx context.Context, path string) ([]byte, error)
}

// Client performs GET, HEAD and ranged GET requests.
// It is safe for concurrent use; the cache is the only shared mutable state
// and is internally synchronised.
type Client struct {
	http             *http.Client
	cache            *expirable.LRU[string, *Response]
	maxContentLength int64
	headers          map[string]http.Header
	ipfs             IPFSReader
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTransport sets the transport of the underlying *http.Client.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.http.Transport = rt
		}
	}
}

// WithTimeout sets the overall request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithCache enables an in-memory response cache with the given TTL.
// Entries are keyed by method, URL and the per-request header passed to Get.
// A ttl of zero disables caching.
func WithCache(size int, ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.cache = nil
			return
		}
		if size <= 0 {
			size = DefaultCacheSize
		}
		c.cache = expirable.NewLRU[string, *Response](size, nil, ttl)
	}
}

// WithMaxContentLength overrides DefaultMaxContentLength.
func WithMaxContentLength(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxContentLength = n
		}
	}
}

// WithHostHeader adds a header sent on every request to host.
func WithHostHeader(host, key, value string) Option {
	return func(c *Client) {
		host = strings.ToLower(host)
		h, ok := c.headers[host]
		if !ok {
			h = http.Header{}
			c.headers[host] = h
		}
		h.Set(key, value)
	}
}

// WithIPFSReader routes gateway /ipfs/ and /ipns/ GETs through r.
func WithIPFSReader(r IPFSReader) Option {
	return func(c *Client) {
		c.ipfs = r
	}
}

// New builds a Client.
func New(opts ...Option) *Client {
	c := &Client{
		http:             &http.Client{Timeout: DefaultTimeout},
		maxContentLength: DefaultMaxContentLength,
		headers:          map[string]http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches rawURL and returns its body. Non-2xx responses yield a *StatusError.
// header is merged over any per-host headers.
func (c *Client) Get(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	key := cacheKey(http.MethodGet, rawURL, header)
	if resp, ok := c.cached(key); ok {
		return resp.Body, nil
	}

	if c.ipfs != nil {
		if p, ok := GatewayPath(rawURL); ok {
			body, err := c.ipfs.ReadPath(ctx, p)
			if err == nil {
				c.store(key, &Response{StatusCode: http.StatusOK, Header: http.Header{}, ContentLength: int64(len(body)), Body: body})
				return body, nil
			}
			zap.L().Debug("ipfs reader failed, falling back to gateway", zap.String("path", p), zap.Error(err))
		}
	}

	resp, err := c.do(ctx, http.MethodGet, rawURL, header, -1)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: http.MethodGet, URL: rawURL, StatusCode: resp.StatusCode}
	}
	c.store(key, resp)
	return resp.Body, nil
}

// Head issues a HEAD request. The response is returned whatever its status.
func (c *Client) Head(ctx context.Context, rawURL string) (*Response, error) {
	key := cacheKey(http.MethodHead, rawURL, nil)
	if resp, ok := c.cached(key); ok {
		return resp, nil
	}
	resp, err := c.do(ctx, http.MethodHead, rawURL, nil, 0)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusOK {
		c.store(key, resp)
	}
	return resp, nil
}

// GetRange requests the first limit bytes of rawURL. At most limit+1 bytes are
// read; the transfer is cancelled once that many have arrived, so servers that
// ignore Range cost no more than that.
func (c *Client) GetRange(ctx context.Context, rawURL string, limit int64) (*Response, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	header := http.Header{}
	header.Set("Range", fmt.Sprintf("bytes=0-%d", limit-1))
	return c.do(ctx, http.MethodGet, rawURL, header, limit+1)
}

// do performs a request and reads at most readLimit bytes of the body.
// readLimit < 0 applies the content-length ceiling, 0 skips the body.
func (c *Client) do(ctx context.Context, method, rawURL string, header http.Header, readLimit int64) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	if h, ok := c.headers[strings.ToLower(req.URL.Hostname())]; ok {
		for k, v := range h {
			req.Header[k] = v
		}
	}
	for k, v := range header {
		req.Header[k] = v
	}

	zap.L().Debug("http request", zap.String("method", method), zap.String("url", rawURL))
	hr, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := hr.Body.Close(); cerr != nil {
			zap.L().Debug("close response body", zap.Error(cerr))
		}
	}()

	resp := &Response{
		StatusCode:    hr.StatusCode,
		Header:        hr.Header,
		ContentLength: hr.ContentLength,
	}
	switch {
	case readLimit == 0:
		return resp, nil
	case readLimit > 0:
		resp.Body, err = io.ReadAll(io.LimitReader(hr.Body, readLimit))
		if err != nil && !errors.Is(err, context.Canceled) {
			return nil, err
		}
		return resp, nil
	}

	if hr.ContentLength > c.maxContentLength {
		return nil, fmt.Errorf("%s: %w", rawURL, ErrContentTooLarge)
	}
	resp.Body, err = io.ReadAll(io.LimitReader(hr.Body, c.maxContentLength+1))
	if err != nil {
		return nil, err
	}
	if int64(len(resp.Body)) > c.maxContentLength {
		return nil, fmt.Errorf("%s: %w", rawURL, ErrContentTooLarge)
	}
	return resp, nil
}

// cacheKey folds the request header into the key. Per-host headers are fixed
// for the lifetime of the Client and need not be part of it.
func cacheKey(method, rawURL string, header http.Header) string {
	var b strings.Builder
	b.WriteString(method)
	b.WriteByte(' ')
	b.WriteString(rawURL)
	if len(header) > 0 {
		b.WriteByte('\n')
		_ = header.Write(&b)
	}
	return b.String()
}

func (c *Client) cached(key string) (*Response, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *Client) store(key string, resp *Response) {
	if c.cache != nil {
		c.cache.Add(key, resp)
	}
}

// GatewayPath extracts the /ipfs/... or /ipns/... path from a gateway URL.
func GatewayPath(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	if strings.HasPrefix(u.Path, "/ipfs/") || strings.HasPrefix(u.Path, "/ipns/") {
		return u.Path, true
	}
	return "", false
}

// EncodeURL percent-encodes rawURL unless it already carries escapes.
func EncodeURL(rawURL string) string {
	if strings.Contains(rawURL, "%") {
		if _, err := url.PathUnescape(rawURL); err == nil {
			return rawURL
		}
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.String()
}
