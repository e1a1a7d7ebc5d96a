// Package merge folds reviewed candidate deals into the canonical venue
// dataset, preserving prior curation. The pipeline never deletes existing
// canonical deals; it only adds or collapses same-key entries.
package merge

import (
	"strings"
	"time"

	"github.com/menuscout/scout-cli/internal/model"
)

// Unmatched describes a row that could not be attached to any venue.
type Unmatched struct {
	VenueName  string
	StreetHint string
}

// Skipped describes a row rejected for missing provenance.
type Skipped struct {
	VenueName string
	Title     string
}

// Result summarizes a merge run.
type Result struct {
	Merged    int
	Unmatched []Unmatched
	Skipped   []Skipped
}

// Now is the clock used to stamp last_verified_at; overridable in tests.
var Now = time.Now

// MatchVenue finds the venue for an incoming row: exact lowercase name
// match first, then substring containment, optionally narrowed by a street
// hint. Returns nil when nothing matches.
func MatchVenue(venues []model.Venue, name, streetHint string) *model.Venue {
	n := strings.ToLower(strings.TrimSpace(name))
	s := strings.ToLower(strings.TrimSpace(streetHint))
	if n == "" {
		return nil
	}

	var candidates []*model.Venue
	for i := range venues {
		if strings.ToLower(venues[i].VenueName) == n {
			candidates = append(candidates, &venues[i])
		}
	}
	if len(candidates) == 0 {
		for i := range venues {
			if strings.Contains(strings.ToLower(venues[i].VenueName), n) {
				candidates = append(candidates, &venues[i])
			}
		}
	}
	if s != "" {
		var narrowed []*model.Venue
		for _, v := range candidates {
			if strings.Contains(strings.ToLower(v.Address.Street), s) {
				narrowed = append(narrowed, v)
			}
		}
		candidates = narrowed
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0]
}

// Run merges candidate rows into venues in place. A row lacking source URL
// or snippet is never merged. Matched venues get the deal appended, the
// composite-key dedup re-applied, and last_verified_at stamped.
func Run(venues []model.Venue, rows []model.DealRow) Result {
	var res Result
	stamp := Now().UTC().Format(time.RFC3339)

	for _, r := range rows {
		venue := MatchVenue(venues, r.VenueName, r.StreetHint)
		if venue == nil {
			res.Unmatched = append(res.Unmatched, Unmatched{VenueName: r.VenueName, StreetHint: r.StreetHint})
			continue
		}

		deal := r.Deal()
		if !deal.HasProvenance() {
			res.Skipped = append(res.Skipped, Skipped{VenueName: r.VenueName, Title: r.Title})
			continue
		}

		venue.Deals = model.DedupeDeals(append(venue.Deals, deal))
		venue.LastVerifiedAt = stamp
		res.Merged++
	}
	return res
}
