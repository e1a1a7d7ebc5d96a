// Package fetch provides the shared HTTP client used by every network
// stage: bounded timeouts, a descriptive bot identifier, and per-host
// politeness (rate limit plus one in-flight request per host).
package fetch

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// DefaultUserAgent identifies the crawler and points at its policy page.
const DefaultUserAgent = "Mozilla/5.0 (compatible; MenuScoutBot/0.1; +https://menuscout.example/bot)"

// maxHTMLBytes bounds how much of a page is read.
const maxHTMLBytes = 2 * 1024 * 1024

// hostState serializes requests to one host and paces them.
type hostState struct {
	mu      sync.Mutex
	limiter *rate.Limiter
}

// Client is a polite HTTP fetcher. Politeness is a correctness requirement:
// requests to the same host are serialized and rate limited regardless of
// how many workers the stage runs.
type Client struct {
	http      *http.Client
	userAgent string
	perHost   rate.Limit

	mu    sync.Mutex
	hosts map[string]*hostState
}

// Options configures a Client. Zero values get sensible defaults.
type Options struct {
	UserAgent  string
	Timeout    time.Duration
	PerHostRPS float64
}

// NewClient creates a Client.
func NewClient(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.PerHostRPS == 0 {
		opts.PerHostRPS = 1
	}
	return &Client{
		http: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxConnsPerHost:     2,
			},
		},
		userAgent: opts.UserAgent,
		perHost:   rate.Limit(opts.PerHostRPS),
		hosts:     make(map[string]*hostState),
	}
}

func (c *Client) host(rawURL string) *hostState {
	h := ""
	if u, err := url.Parse(rawURL); err == nil {
		h = u.Host
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.hosts[h]
	if !ok {
		st = &hostState{limiter: rate.NewLimiter(c.perHost, 1)}
		c.hosts[h] = st
	}
	return st
}

// get performs one GET with per-host serialization and pacing.
func (c *Client) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	st := c.host(rawURL)
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := st.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "fetch: rate wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: execute request")
	}
	return resp, nil
}

// HTML fetches a page and returns its body only when the response is a
// successful text/html document. Anything else is an error the caller logs
// and skips; fetch failures never abort a batch.
func (c *Client) HTML(ctx context.Context, rawURL string) (string, error) {
	resp, err := c.get(ctx, rawURL, "text/html,application/xhtml+xml")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", eris.Errorf("fetch: status %d for %s", resp.StatusCode, rawURL)
	}
	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(ct, "text/html") {
		return "", eris.Errorf("fetch: not html (%s) for %s", ct, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHTMLBytes))
	if err != nil {
		return "", eris.Wrap(err, "fetch: read body")
	}
	return string(body), nil
}

// Text fetches a URL as plain text (robots files, sitemaps) without a
// content-type requirement.
func (c *Client) Text(ctx context.Context, rawURL string) (string, error) {
	resp, err := c.get(ctx, rawURL, "text/html,application/xhtml+xml,application/xml,text/plain")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", eris.Errorf("fetch: status %d for %s", resp.StatusCode, rawURL)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHTMLBytes))
	if err != nil {
		return "", eris.Wrap(err, "fetch: read body")
	}
	return string(body), nil
}
