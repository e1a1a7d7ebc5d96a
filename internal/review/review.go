// Package review applies quality filtering, dedup, and the per-venue cap to
// candidate deal rows between extraction and the canonical merge.
package review

import (
	"strings"

	"github.com/menuscout/scout-cli/internal/model"
	"github.com/menuscout/scout-cli/internal/normalize"
)

// DropPhrases mark boilerplate blocks that are never promotions.
var DropPhrases = []string{
	"privacy policy",
	"terms of service",
	"cookie",
	"accessibility",
	"copyright",
	"gift card",
	"newsletter",
	"order online",
	"reservations",
	"buy tickets",
	"catering",
}

// DefaultMaxPerVenue caps reviewed rows retained per venue per pass.
const DefaultMaxPerVenue = 6

// minSnippetLen mirrors the extractor's block floor; rows that arrive
// shorter (e.g. from a bulk import) are junk.
const minSnippetLen = 20

// LooksLikeJunk rejects a snippet that is too short, contains boilerplate,
// or carries neither a promotion keyword nor any extractable signal.
func LooksLikeJunk(snippet string) bool {
	l := strings.ToLower(snippet)
	if len(l) < minSnippetLen {
		return true
	}
	for _, p := range DropPhrases {
		if strings.Contains(l, p) {
			return true
		}
	}
	if !normalize.HasKeyword(l) &&
		!normalize.HasPrice(l) && !normalize.HasTimeWindow(l) && !normalize.HasWeekday(l) {
		return true
	}
	return false
}

// hasSignal reports whether a normalized row carries at least one concrete
// signal: a price, a complete time window, or a weekday.
func hasSignal(r model.DealRow) bool {
	return r.Price != "" || (r.StartTime != "" && r.EndTime != "") || r.Weekday != ""
}

// Options tunes a review pass.
type Options struct {
	MaxPerVenue int
	// RequireConsent additionally drops rows whose consent column is not
	// exactly "true" (used when reviewing the direct-scan output, which
	// carries consent through from the target file).
	RequireConsent bool
}

// Result summarizes a review pass.
type Result struct {
	Kept    []model.DealRow
	Dropped int
}

// Run filters, enriches, dedupes, and caps candidate rows. Rows without
// provenance never survive: a missing source URL or empty snippet is an
// unconditional drop.
func Run(rows []model.DealRow, opts Options) Result {
	maxPerVenue := opts.MaxPerVenue
	if maxPerVenue <= 0 {
		maxPerVenue = DefaultMaxPerVenue
	}

	var kept []model.DealRow
	for _, r := range rows {
		if opts.RequireConsent && !r.ScrapeAllowed.Allowed() {
			continue
		}
		if !strings.HasPrefix(r.SourceURL, "http") || strings.TrimSpace(r.SourceSnippet) == "" {
			continue
		}
		if LooksLikeJunk(r.SourceSnippet) {
			continue
		}

		r = normalize.Enrich(r)

		// Low-confidence rows survive only with a concrete signal.
		if r.Confidence == model.ConfidenceLow && !hasSignal(r) {
			continue
		}
		kept = append(kept, r)
	}

	kept = dedupe(kept)
	kept = capPerVenue(kept, maxPerVenue)

	return Result{Kept: kept, Dropped: len(rows) - len(kept)}
}

// dedupe keeps the first row per composite key, preserving input order.
func dedupe(rows []model.DealRow) []model.DealRow {
	seen := make(map[string]bool, len(rows))
	var out []model.DealRow
	for _, r := range rows {
		k := r.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

// capPerVenue retains at most max rows per venue, in input order.
func capPerVenue(rows []model.DealRow, max int) []model.DealRow {
	counts := make(map[string]int)
	var out []model.DealRow
	for _, r := range rows {
		k := strings.ToLower(r.VenueName)
		if counts[k] >= max {
			continue
		}
		counts[k]++
		out = append(out, r)
	}
	return out
}
