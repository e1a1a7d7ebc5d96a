// Package model defines the canonical venue/deal records and the CSV row
// schemas exchanged between pipeline stages.
package model

import "strings"

// Confidence is the qualitative reliability tier of a normalized deal.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ParseConfidence normalizes a free-form confidence value, defaulting to low.
func ParseConfidence(s string) Confidence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return ConfidenceHigh
	case "medium":
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Consent is the tri-state scrape permission derived from robots.txt.
// Only ConsentAllowed authorizes fetching venue content beyond the robots
// file itself.
type Consent string

const (
	ConsentAllowed Consent = "true"
	ConsentDenied  Consent = "false"
	ConsentUnknown Consent = ""
)

// ParseConsent maps a CSV field to a Consent value. Anything that is not
// exactly "true" or "false" is unknown.
func ParseConsent(s string) Consent {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return ConsentAllowed
	case "false":
		return ConsentDenied
	default:
		return ConsentUnknown
	}
}

// Allowed reports whether the consent value authorizes content fetches.
func (c Consent) Allowed() bool { return c == ConsentAllowed }

// Address is a venue's physical location.
type Address struct {
	Street     string   `json:"street,omitempty"`
	City       string   `json:"city,omitempty"`
	Region     string   `json:"region,omitempty"`
	PostalCode string   `json:"postal_code,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
}

// Contact holds a venue's reachable handles.
type Contact struct {
	Phone      string `json:"phone,omitempty"`
	Website    string `json:"website,omitempty"`
	Instagram  string `json:"instagram,omitempty"`
	Facebook   string `json:"facebook,omitempty"`
	GoogleMaps string `json:"google_maps,omitempty"`
}

// Deal is a structured promotional offer tied to a venue. Optional fields
// are pointers so absent and null survive round-trips through the canonical
// dataset.
type Deal struct {
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	Weekday       *string    `json:"weekday,omitempty"`
	StartTime     *string    `json:"start_time,omitempty"`
	EndTime       *string    `json:"end_time,omitempty"`
	Price         *float64   `json:"price,omitempty"`
	Currency      *string    `json:"currency,omitempty"`
	Restrictions  []string   `json:"restrictions"`
	StartDate     *string    `json:"start_date,omitempty"`
	EndDate       *string    `json:"end_date,omitempty"`
	Category      []string   `json:"category"`
	Confidence    Confidence `json:"confidence"`
	SourceSnippet string     `json:"source_snippet"`
	SourceURL     string     `json:"source_url"`
	ScrapeAllowed *bool      `json:"scrape_allowed"`
}

// HasProvenance reports whether the deal carries the required source fields.
// Deals without provenance are never persisted into the canonical dataset.
func (d Deal) HasProvenance() bool {
	return strings.TrimSpace(d.SourceURL) != "" && strings.TrimSpace(d.SourceSnippet) != ""
}

// Key derives the composite dedup key for a deal: lowercased title, weekday,
// time window, and lowercased source URL joined into one canonical string.
// Every dedup site uses this function.
func (d Deal) Key() string {
	return strings.Join([]string{
		strings.ToLower(d.Title),
		strings.ToLower(deref(d.Weekday)),
		deref(d.StartTime),
		deref(d.EndTime),
		strings.ToLower(d.SourceURL),
	}, "|")
}

// DedupeDeals keeps the first deal for each composite key, preserving order.
func DedupeDeals(deals []Deal) []Deal {
	seen := make(map[string]bool, len(deals))
	out := make([]Deal, 0, len(deals))
	for _, d := range deals {
		k := d.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, d)
	}
	return out
}

// Venue is a tracked business location in the canonical dataset.
type Venue struct {
	VenueName      string   `json:"venue_name"`
	Address        Address  `json:"address"`
	Categories     []string `json:"categories,omitempty"`
	Contact        Contact  `json:"contact"`
	Deals          []Deal   `json:"deals"`
	Notes          string   `json:"notes,omitempty"`
	LastVerifiedAt string   `json:"last_verified_at,omitempty"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StrPtr returns a pointer to s, or nil when s is empty. Used when building
// deals from CSV rows where empty means absent.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
