// Package discover enumerates same-origin candidate pages for a consented
// venue site: homepage anchors, sitemap entries, and conventional path
// guesses, merged into a capped set.
package discover

import (
	"context"
	"encoding/xml"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/menuscout/scout-cli/internal/fetch"
	"github.com/menuscout/scout-cli/internal/model"
)

// linkKeywords gate which discovered URLs are worth fetching.
var linkKeywords = []string{
	"menu", "menus", "food", "drink", "drinks", "beverage",
	"special", "specials", "deal", "deals",
	"happy-hour", "happyhour", "happy", "hour",
	"events", "event", "calendar", "promotions", "promo",
	"tuesday", "wednesday", "thursday", "monday", "friday", "saturday", "sunday",
	"brunch",
}

// GuessPaths are conventional promo page locations probed on every site
// regardless of whether they were observed anywhere.
var GuessPaths = []string{
	"/menu", "/menus", "/food", "/drinks", "/specials", "/deals",
	"/happy-hour", "/happyhour", "/events", "/calendar",
}

// DefaultMaxPerSite caps discovered URLs per site.
const DefaultMaxPerSite = 25

// Discoverer finds candidate pages on a single site.
type Discoverer struct {
	client     *fetch.Client
	maxPerSite int
}

// New creates a Discoverer. maxPerSite <= 0 uses the default cap.
func New(client *fetch.Client, maxPerSite int) *Discoverer {
	if maxPerSite <= 0 {
		maxPerSite = DefaultMaxPerSite
	}
	return &Discoverer{client: client, maxPerSite: maxPerSite}
}

// Discover returns up to the per-site cap of candidate URLs for baseURL.
// Consent must be exactly allowed, else the result is empty. Homepage and
// sitemap fetch failures contribute zero entries and are never fatal; the
// guessed paths are always included.
func (d *Discoverer) Discover(ctx context.Context, baseURL string, consent model.Consent) []string {
	if !consent.Allowed() {
		return nil
	}
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || base.Host == "" {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	add := func(raw string) {
		u := normURL(raw, base)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		out = append(out, u)
	}

	if html, err := d.client.HTML(ctx, baseURL); err != nil {
		zap.L().Debug("discover: homepage fetch failed", zap.String("url", baseURL), zap.Error(err))
	} else {
		for _, u := range anchorLinks(html, base) {
			add(u)
		}
	}

	for _, u := range d.sitemapLinks(ctx, base) {
		add(u)
	}

	for _, p := range GuessPaths {
		add(p)
	}

	if len(out) > d.maxPerSite {
		out = out[:d.maxPerSite]
	}
	return out
}

// anchorLinks scans homepage anchors for same-origin keyword URLs.
func anchorLinks(html string, base *url.URL) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		u := normURL(href, base)
		if u == "" || !sameOrigin(u, base) || !looksUseful(u) {
			return
		}
		links = append(links, u)
	})
	return links
}

type sitemapDoc struct {
	XMLName  xml.Name
	URLs     []sitemapLoc `xml:"url"`
	Sitemaps []sitemapLoc `xml:"sitemap"`
}

type sitemapLoc struct {
	Loc string `xml:"loc"`
}

// sitemapLinks fetches /sitemap.xml and collects same-origin keyword URLs.
// A sitemap index is followed exactly one level deep.
func (d *Discoverer) sitemapLinks(ctx context.Context, base *url.URL) []string {
	smURL := base.Scheme + "://" + base.Host + "/sitemap.xml"
	body, err := d.client.Text(ctx, smURL)
	if err != nil {
		zap.L().Debug("discover: sitemap fetch failed", zap.String("url", smURL), zap.Error(err))
		return nil
	}

	doc, err := parseSitemap(body)
	if err != nil {
		return nil
	}

	var links []string
	switch doc.XMLName.Local {
	case "urlset":
		links = append(links, usefulLocs(doc.URLs, base)...)
	case "sitemapindex":
		for _, sm := range doc.Sitemaps {
			child := normURL(strings.TrimSpace(sm.Loc), base)
			if child == "" || !sameOrigin(child, base) {
				continue
			}
			childBody, err := d.client.Text(ctx, child)
			if err != nil {
				continue
			}
			childDoc, err := parseSitemap(childBody)
			if err != nil || childDoc.XMLName.Local != "urlset" {
				continue
			}
			links = append(links, usefulLocs(childDoc.URLs, base)...)
		}
	}
	return links
}

func parseSitemap(body string) (*sitemapDoc, error) {
	var doc sitemapDoc
	if err := xml.Unmarshal([]byte(body), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func usefulLocs(locs []sitemapLoc, base *url.URL) []string {
	var out []string
	for _, entry := range locs {
		u := normURL(strings.TrimSpace(entry.Loc), base)
		if u == "" || !sameOrigin(u, base) || !looksUseful(u) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// normURL resolves raw against base and strips the fragment.
func normURL(raw string, base *url.URL) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(u)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	abs.Fragment = ""
	return abs.String()
}

func sameOrigin(raw string, base *url.URL) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == base.Scheme && u.Host == base.Host
}

func looksUseful(raw string) bool {
	l := strings.ToLower(raw)
	for _, k := range linkKeywords {
		if strings.Contains(l, k) {
			return true
		}
	}
	return false
}
