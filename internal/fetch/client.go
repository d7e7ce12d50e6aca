package fetch

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/nao1215/megacrawl/internal/source"
)

// Request timeouts. The list endpoint answers quickly, detail pages carry
// the article body, and attachment downloads can be large files served
// slowly.
const (
	listTimeout     = 20 * time.Second
	detailTimeout   = 30 * time.Second
	downloadTimeout = 120 * time.Second

	// downloadChunkSize bounds the read size per iteration when copying
	// a download body, so peak memory stays flat while the file still
	// lands in a single buffer.
	downloadChunkSize = 256 * 1024
)

// Client wraps an http.Client with the header set, cookie set, and TLS
// policy the portal requires. It performs no retries: a failed request is
// the caller's problem to classify.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithInsecureTLS disables certificate verification. The portal's file
// servers present certificates that fail strict verification; this is
// the escape hatch for that.
func WithInsecureTLS(insecure bool) Option {
	return func(c *Client) {
		if insecure {
			c.httpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // Deliberate escape hatch, see above
			}
		}
	}
}

// WithLogger sets the structured logger used for request debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client that sends the given headers with every request.
func New(headers map[string]string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		headers:    headers,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchList performs a list page request and returns the decoded markup.
// Non-2xx responses return a StatusError.
func (c *Client) FetchList(ctx context.Context, def *source.Definition, cookies map[string]string, page int) (string, error) {
	return c.fetchFragment(ctx, def.ListURL, def.ListParams(page), cookies, listTimeout)
}

// FetchDetail performs a detail page request for item idx in the context
// of the given list page and returns the decoded markup.
func (c *Client) FetchDetail(ctx context.Context, def *source.Definition, cookies map[string]string, idx string, page int) (string, error) {
	return c.fetchFragment(ctx, def.DetailURL, def.DetailParams(idx, page), cookies, detailTimeout)
}

// fetchFragment issues a GET for an HTML fragment and decodes the body to
// UTF-8. The portal serves EUC-KR on some endpoints, so decoding follows
// the response's declared charset.
func (c *Client) fetchFragment(ctx context.Context, rawURL string, params url.Values, cookies map[string]string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	c.applyHeaders(req, cookies, "")

	c.logger.Debug("fetching fragment", "url", rawURL, "params", params.Encode())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	decoded, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}
	body, err := io.ReadAll(decoded)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Download fetches arbitrary binary content and returns the derived
// filename and body.
//
// The URL is re-encoded first because attachment hrefs frequently carry
// raw Hangul and spaces. The Referer header is overridden per call: the
// portal's file servers check it. Filename precedence is the
// Content-Disposition header (RFC 5987 extended form before the plain
// form), then the URL path basename, then DefaultDownloadName; the result
// is always passed through SafeFilename.
func (c *Client) Download(ctx context.Context, rawURL string, cookies map[string]string, referer string) (string, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, RequoteURL(rawURL), nil)
	if err != nil {
		return "", nil, err
	}
	c.applyHeaders(req, cookies, referer)

	c.logger.Debug("downloading attachment", "url", rawURL, "referer", referer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil, &StatusError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	name := FilenameFromContentDisposition(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = filenameFromURL(resp.Request.URL)
	}
	if name == "" {
		name = DefaultDownloadName
	}
	name = SafeFilename(name)

	var buf bytes.Buffer
	if _, err := io.CopyBuffer(&buf, resp.Body, make([]byte, downloadChunkSize)); err != nil {
		return "", nil, err
	}
	return name, buf.Bytes(), nil
}

// applyHeaders sets the client's fixed headers, the per-call cookies, and
// an optional Referer override on the request.
//
// Cookies are written as a raw Cookie header rather than via AddCookie
// because the portal hands out percent-encoded cookie names that the
// net/http sanitizer would reject.
func (c *Client) applyHeaders(req *http.Request, cookies map[string]string, referer string) {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	if len(cookies) > 0 {
		pairs := make([]string, 0, len(cookies))
		for k, v := range cookies {
			pairs = append(pairs, k+"="+v)
		}
		req.Header.Set("Cookie", strings.Join(pairs, "; "))
	}
}

// queryAllowed are the bytes left untouched when re-encoding a query
// string, mirroring the RFC 3986 query character set. Percent is kept so
// already-encoded sequences survive.
const queryAllowed = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~!$&'()*+,;=:@/?%"

// RequoteURL re-encodes a URL so that raw non-ASCII path and query
// segments become valid percent-encoded form while sequences that are
// already encoded are preserved.
func RequoteURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = requoteQuery(u.RawQuery)
	// url.URL.String percent-encodes any raw non-ASCII left in the path.
	return u.String()
}

// requoteQuery percent-encodes query bytes outside the allowed set.
func requoteQuery(q string) string {
	var b strings.Builder
	b.Grow(len(q))
	for i := 0; i < len(q); i++ {
		ch := q[i]
		if strings.IndexByte(queryAllowed, ch) >= 0 {
			b.WriteByte(ch)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", ch)
	}
	return b.String()
}
