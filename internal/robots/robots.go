// Package robots resolves per-site crawl consent from robots.txt.
//
// The interpretation is intentionally partial: only the global
// "User-agent: *" block and root-level Disallow directives are considered.
// Crawl-delay, per-agent blocks, Allow precedence, and wildcard paths are
// ignored. Downstream consent semantics depend on exactly this behavior, so
// it must not be "fixed" to full robots-exclusion compliance.
package robots

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/menuscout/scout-cli/internal/model"
)

// maxBody bounds how much of a robots file is read.
const maxBody = 512 * 1024

// RobotsURL derives "{scheme}://{host}/robots.txt" from a website URL.
// Returns "" for anything that is not http(s).
func RobotsURL(website string) string {
	u, err := url.Parse(strings.TrimSpace(website))
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/robots.txt"
}

// Decide interprets a robots.txt body. No global user-agent block means the
// outcome is unknown, never allowed. Within a file that has a global block,
// any root-level disallow denies crawling.
func Decide(body string) model.Consent {
	hasGlobal := false
	hasRootDisallow := false
	for _, line := range strings.Split(body, "\n") {
		l := strings.ToLower(strings.TrimSpace(line))
		if strings.HasPrefix(l, "user-agent: *") {
			hasGlobal = true
		}
		if strings.HasPrefix(l, "disallow: /") {
			hasRootDisallow = true
		}
	}
	if !hasGlobal {
		return model.ConsentUnknown
	}
	if hasRootDisallow {
		return model.ConsentDenied
	}
	return model.ConsentAllowed
}

// Resolver fetches robots files with a short timeout and fails closed.
type Resolver struct {
	client    *http.Client
	userAgent string
}

// NewResolver creates a Resolver. A zero timeout defaults to 5s.
func NewResolver(timeout time.Duration, userAgent string) *Resolver {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Resolver{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Check fetches robotsURL and resolves consent. Any fetch error or non-2xx
// status yields unknown; the error is returned for logging only.
func (r *Resolver) Check(ctx context.Context, robotsURL string) (model.Consent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return model.ConsentUnknown, eris.Wrap(err, "robots: create request")
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return model.ConsentUnknown, eris.Wrap(err, "robots: fetch")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.ConsentUnknown, eris.Errorf("robots: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return model.ConsentUnknown, eris.Wrap(err, "robots: read body")
	}
	return Decide(string(body)), nil
}
