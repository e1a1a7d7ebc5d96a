package model

import (
	"strconv"
	"strings"
)

// TargetHeader is the column list for targets.csv / targets_checked.csv.
var TargetHeader = []string{
	"venue_name", "street", "city", "region", "postal_code",
	"website", "instagram", "facebook", "google_maps",
	"search_query", "robots_url", "scrape_allowed", "notes",
}

// TargetRow is one crawl target: venue identity plus consent state.
type TargetRow struct {
	VenueName     string
	Street        string
	City          string
	Region        string
	PostalCode    string
	Website       string
	Instagram     string
	Facebook      string
	GoogleMaps    string
	SearchQuery   string
	RobotsURL     string
	ScrapeAllowed Consent
	Notes         string
}

// Record returns the CSV record in TargetHeader order.
func (r TargetRow) Record() []string {
	return []string{
		r.VenueName, r.Street, r.City, r.Region, r.PostalCode,
		r.Website, r.Instagram, r.Facebook, r.GoogleMaps,
		r.SearchQuery, r.RobotsURL, string(r.ScrapeAllowed), r.Notes,
	}
}

// TargetFromRow builds a TargetRow from a header-keyed CSV row.
func TargetFromRow(row map[string]string) TargetRow {
	return TargetRow{
		VenueName:     row["venue_name"],
		Street:        row["street"],
		City:          row["city"],
		Region:        row["region"],
		PostalCode:    row["postal_code"],
		Website:       row["website"],
		Instagram:     row["instagram"],
		Facebook:      row["facebook"],
		GoogleMaps:    row["google_maps"],
		SearchQuery:   row["search_query"],
		RobotsURL:     row["robots_url"],
		ScrapeAllowed: ParseConsent(row["scrape_allowed"]),
		Notes:         row["notes"],
	}
}

// LinkHeader is the column list for discovered_links.csv.
var LinkHeader = []string{"venue_name", "base_url", "url"}

// LinkRow is one discovered candidate page for a venue.
type LinkRow struct {
	VenueName string
	BaseURL   string
	URL       string
}

// Record returns the CSV record in LinkHeader order.
func (r LinkRow) Record() []string { return []string{r.VenueName, r.BaseURL, r.URL} }

// LinkFromRow builds a LinkRow from a header-keyed CSV row.
func LinkFromRow(row map[string]string) LinkRow {
	return LinkRow{VenueName: row["venue_name"], BaseURL: row["base_url"], URL: row["url"]}
}

// DealHeader is the column list shared by scraped, discovered, and reviewed
// deal tables. Stages that have no street hint leave the column empty.
var DealHeader = []string{
	"venue_name", "street_hint", "title", "description",
	"weekday", "start_time", "end_time", "price", "currency",
	"restrictions", "category", "confidence",
	"source_snippet", "source_url", "scrape_allowed",
}

// DealRow is one candidate deal in CSV form, prior to merging.
type DealRow struct {
	VenueName     string
	StreetHint    string
	Title         string
	Description   string
	Weekday       string
	StartTime     string
	EndTime       string
	Price         string
	Currency      string
	Restrictions  string
	Category      string
	Confidence    Confidence
	SourceSnippet string
	SourceURL     string
	ScrapeAllowed Consent
}

// Record returns the CSV record in DealHeader order.
func (r DealRow) Record() []string {
	return []string{
		r.VenueName, r.StreetHint, r.Title, r.Description,
		r.Weekday, r.StartTime, r.EndTime, r.Price, r.Currency,
		r.Restrictions, r.Category, string(r.Confidence),
		r.SourceSnippet, r.SourceURL, string(r.ScrapeAllowed),
	}
}

// DealFromRow builds a DealRow from a header-keyed CSV row.
func DealFromRow(row map[string]string) DealRow {
	return DealRow{
		VenueName:     row["venue_name"],
		StreetHint:    row["street_hint"],
		Title:         row["title"],
		Description:   row["description"],
		Weekday:       row["weekday"],
		StartTime:     row["start_time"],
		EndTime:       row["end_time"],
		Price:         row["price"],
		Currency:      row["currency"],
		Restrictions:  row["restrictions"],
		Category:      row["category"],
		Confidence:    ParseConfidence(row["confidence"]),
		SourceSnippet: row["source_snippet"],
		SourceURL:     row["source_url"],
		ScrapeAllowed: ParseConsent(row["scrape_allowed"]),
	}
}

// Key derives the venue-scoped composite dedup key for a candidate row.
// It matches Deal.Key with the venue name prefixed, so review-stage dedup
// and merge-stage dedup collapse the same rows.
func (r DealRow) Key() string {
	return strings.ToLower(r.VenueName) + "|" + r.Deal().Key()
}

// Deal converts the row into a typed Deal with well-defined defaulting:
// empty optional columns become absent fields, currency defaults to USD
// when a price is present, and semicolon lists are split.
func (r DealRow) Deal() Deal {
	var price *float64
	if v, err := strconv.ParseFloat(strings.TrimSpace(r.Price), 64); err == nil {
		price = &v
	}

	currency := r.Currency
	if currency == "" && price != nil {
		currency = "USD"
	}

	var allowed *bool
	switch r.ScrapeAllowed {
	case ConsentAllowed:
		t := true
		allowed = &t
	case ConsentDenied:
		f := false
		allowed = &f
	}

	return Deal{
		Title:         r.Title,
		Description:   StrPtr(r.Description),
		Weekday:       StrPtr(r.Weekday),
		StartTime:     StrPtr(r.StartTime),
		EndTime:       StrPtr(r.EndTime),
		Price:         price,
		Currency:      StrPtr(currency),
		Restrictions:  splitList(r.Restrictions),
		Category:      splitList(r.Category),
		Confidence:    r.Confidence,
		SourceSnippet: r.SourceSnippet,
		SourceURL:     r.SourceURL,
		ScrapeAllowed: allowed,
	}
}

// MissingHeader is the column list for missing_deals_report.csv.
var MissingHeader = []string{
	"venue_name", "street", "neighborhood_hint", "website",
	"scrape_allowed", "robots_url", "google_maps", "search_query", "note",
}

// MissingRow is one backfill target for a venue still lacking deals.
type MissingRow struct {
	VenueName        string
	Street           string
	NeighborhoodHint string
	Website          string
	ScrapeAllowed    Consent
	RobotsURL        string
	GoogleMaps       string
	SearchQuery      string
	Note             string
}

// Record returns the CSV record in MissingHeader order.
func (r MissingRow) Record() []string {
	return []string{
		r.VenueName, r.Street, r.NeighborhoodHint, r.Website,
		string(r.ScrapeAllowed), r.RobotsURL, r.GoogleMaps, r.SearchQuery, r.Note,
	}
}

// splitList splits a semicolon-separated CSV field into trimmed values.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
