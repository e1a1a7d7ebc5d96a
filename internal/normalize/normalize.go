// Package normalize converts raw candidate text blocks into typed deal
// records. Every function here is deterministic and side-effect-free:
// identical input text always yields an identical record.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/menuscout/scout-cli/internal/model"
)

// Keywords are the promotion phrases that count as a keyword match for
// confidence scoring and junk filtering.
var Keywords = []string{
	"happy hour", "taco tuesday", "wing wednesday", "industry night",
	"special", "specials", "deal", "deals", "brunch", "daily specials",
}

var (
	// timeWindowRe matches "A-B" style windows: "5-7", "11am-2pm",
	// "5:30 to 7", "4 until 6pm".
	timeWindowRe = regexp.MustCompile(`(?i)\b([01]?\d(?::[0-5]\d)?\s*(?:am|pm)?)\s*(?:-|to|–|—|until)\s*([01]?\d(?::[0-5]\d)?\s*(?:am|pm)?)\b`)
	clockRe      = regexp.MustCompile(`(?i)^([0-2]?\d)(?::([0-5]\d))?\s*(am|pm)?$`)
	priceRe      = regexp.MustCompile(`\$\s?(\d{1,3}(?:\.\d{1,2})?)`)
	weekdayRe    = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)s?\b`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// titleRule maps a phrase to an inferred deal title; rules are checked in
// order and the first match wins.
type titleRule struct {
	phrase string
	title  string
}

var titleRules = []titleRule{
	{"taco tuesday", "Taco Tuesday"},
	{"wing wednesday", "Wing Wednesday"},
	{"happy hour", "Happy Hour"},
	{"industry night", "Industry Night"},
	{"daily specials", "Daily Specials"},
	{"brunch", "Brunch"},
}

// categoryRule maps trigger substrings to taxonomy tags. The table is data,
// not conditionals, so tests can enumerate rules independently. A block may
// match several rules.
type categoryRule struct {
	triggers []string
	tags     []string
}

var categoryRules = []categoryRule{
	{[]string{"taco"}, []string{"tacos"}},
	{[]string{"wing"}, []string{"wings"}},
	{[]string{"pizza"}, []string{"pizza"}},
	{[]string{"burger"}, []string{"burgers"}},
	{[]string{"sushi"}, []string{"sushi"}},
	{[]string{"brunch"}, []string{"brunch"}},
	{[]string{"bbq", "barbecue"}, []string{"bbq"}},
	{[]string{"seafood", "oyster"}, []string{"seafood"}},
	{[]string{"vegan"}, []string{"vegan"}},
	{[]string{"dessert"}, []string{"dessert"}},
	{[]string{"beer", "draft", "cocktail", "wine", "happy hour"}, []string{"drinks", "happy_hour"}},
}

// Collapse normalizes whitespace in a text block.
func Collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// Truncate caps a snippet at n characters.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// SnippetLen is the provenance snippet cap.
const SnippetLen = 240

// HasKeyword reports whether the text contains any promotion keyword.
func HasKeyword(text string) bool {
	l := strings.ToLower(text)
	for _, k := range Keywords {
		if strings.Contains(l, k) {
			return true
		}
	}
	return false
}

// To24h parses "[hour][:minute][am|pm]" into 24-hour "HH:MM". A bare hour
// of 7 or less with no meridiem is read as evening ("5-7" means 17:00-19:00).
// Returns "" when the input is not a clock time.
func To24h(s string) string {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return ""
	}
	h, _ := strconv.Atoi(m[1])
	min := 0
	if m[2] != "" {
		min, _ = strconv.Atoi(m[2])
	}
	ap := strings.ToLower(m[3])
	switch {
	case ap == "pm" && h < 12:
		h += 12
	case ap == "am" && h == 12:
		h = 0
	case ap == "" && h <= 7:
		h += 12
	}
	if h > 23 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", h, min)
}

// TimeWindow extracts the first A-B time range from a block.
func TimeWindow(text string) (start, end string) {
	m := timeWindowRe.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}
	return To24h(m[1]), To24h(m[2])
}

// HasTimeWindow reports whether the block contains an A-B time range.
func HasTimeWindow(text string) bool { return timeWindowRe.MatchString(text) }

// Weekday extracts the first weekday mention, canonically capitalized.
func Weekday(text string) string {
	m := weekdayRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	d := strings.ToLower(m[1])
	return strings.ToUpper(d[:1]) + d[1:]
}

// HasWeekday reports whether the block mentions a weekday.
func HasWeekday(text string) bool { return weekdayRe.MatchString(text) }

// Price extracts the first $amount, normalized to two decimal places.
func Price(text string) string {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return FormatPrice(m[1])
}

// FormatPrice normalizes a numeric price string to two decimals; returns ""
// when it does not parse.
func FormatPrice(s string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// HasPrice reports whether the block contains a $amount.
func HasPrice(text string) bool { return priceRe.MatchString(text) }

// InferTitle picks a title from the ordered phrase table, defaulting to
// "Special".
func InferTitle(text string) string {
	l := strings.ToLower(text)
	for _, r := range titleRules {
		if strings.Contains(l, r.phrase) {
			return r.title
		}
	}
	return "Special"
}

// Categories maps a block to taxonomy tags via the rule table.
func Categories(text string) []string {
	l := strings.ToLower(text)
	seen := make(map[string]bool)
	var tags []string
	for _, r := range categoryRules {
		hit := false
		for _, trig := range r.triggers {
			if strings.Contains(l, trig) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		for _, tag := range r.tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// ConfidenceFor scores a deal from its corroborating signals. Signals are
// weekday, a complete time window, and price; two or more alongside a
// keyword match yield high, one yields medium, anything else low.
func ConfidenceFor(text, weekday, start, end, price string) model.Confidence {
	signals := 0
	if weekday != "" {
		signals++
	}
	if start != "" && end != "" {
		signals++
	}
	if price != "" {
		signals++
	}
	if HasKeyword(text) {
		switch {
		case signals >= 2:
			return model.ConfidenceHigh
		case signals >= 1:
			return model.ConfidenceMedium
		}
	}
	return model.ConfidenceLow
}

// FromText normalizes a raw candidate block into a deal row.
func FromText(venueName, streetHint, text, sourceURL string, consent model.Consent) model.DealRow {
	snippet := Collapse(text)
	weekday := Weekday(snippet)
	start, end := TimeWindow(snippet)
	price := Price(snippet)

	currency := ""
	if price != "" {
		currency = "USD"
	}

	return model.DealRow{
		VenueName:     venueName,
		StreetHint:    streetHint,
		Title:         InferTitle(snippet),
		Weekday:       weekday,
		StartTime:     start,
		EndTime:       end,
		Price:         price,
		Currency:      currency,
		Category:      strings.Join(Categories(snippet), ";"),
		Confidence:    ConfidenceFor(snippet, weekday, start, end, price),
		SourceSnippet: Truncate(snippet, SnippetLen),
		SourceURL:     sourceURL,
		ScrapeAllowed: consent,
	}
}

// Enrich fills a row's missing fields from its snippet and recomputes
// confidence. Fields already present on the row are kept; a later pass with
// the same input yields the same record.
func Enrich(r model.DealRow) model.DealRow {
	snippet := Collapse(r.SourceSnippet)

	if r.Title == "" {
		r.Title = InferTitle(snippet)
	}
	if r.Weekday == "" {
		r.Weekday = Weekday(snippet)
	}
	if r.StartTime == "" || r.EndTime == "" {
		start, end := TimeWindow(snippet)
		if r.StartTime == "" {
			r.StartTime = start
		}
		if r.EndTime == "" {
			r.EndTime = end
		}
	}
	if r.Price == "" {
		r.Price = Price(snippet)
	} else {
		r.Price = FormatPrice(r.Price)
	}
	if r.Price != "" && r.Currency == "" {
		r.Currency = "USD"
	}
	if r.Price == "" {
		r.Currency = ""
	}
	if r.Category == "" {
		r.Category = strings.Join(Categories(snippet), ";")
	}
	r.Confidence = ConfidenceFor(snippet, r.Weekday, r.StartTime, r.EndTime, r.Price)
	r.SourceSnippet = Truncate(snippet, SnippetLen)
	return r
}
