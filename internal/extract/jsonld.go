package extract

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/menuscout/scout-cli/internal/model"
	"github.com/menuscout/scout-cli/internal/normalize"
)

// timestampLayouts are tried in order when parsing event start/end stamps.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// structuredRows parses every application/ld+json block on the page and
// emits rows for event- and offer-typed items. Malformed blocks are
// skipped, never fatal.
func structuredRows(doc *goquery.Document, venueName, streetHint, pageURL string, consent model.Consent) []model.DealRow {
	var rows []model.DealRow
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return
		}
		for _, item := range asItems(data) {
			collectItem(item, venueName, streetHint, pageURL, consent, &rows)
		}
	})
	return rows
}

// asItems flattens a decoded block into its top-level items, tolerating
// both single objects and arrays.
func asItems(data any) []map[string]any {
	switch v := data.(type) {
	case map[string]any:
		return []map[string]any{v}
	case []any:
		var items []map[string]any
		for _, el := range v {
			if m, ok := el.(map[string]any); ok {
				items = append(items, m)
			}
		}
		return items
	}
	return nil
}

func collectItem(item map[string]any, venueName, streetHint, pageURL string, consent model.Consent, rows *[]model.DealRow) {
	typ := itemType(item)

	if strings.Contains(strings.ToLower(typ), "event") {
		*rows = append(*rows, eventRow(item, venueName, streetHint, pageURL, consent))
	} else {
		price := priceOf(item["price"])
		offers := offersOf(item)
		offerPrice := price
		if offerPrice == "" && offers != nil {
			offerPrice = priceOf(offers["price"])
		}
		if strings.Contains(strings.ToLower(typ), "offer") || offerPrice != "" {
			*rows = append(*rows, offerRow(item, offers, offerPrice, venueName, streetHint, pageURL, consent))
		}
	}

	// Nested graph containers.
	if graph, ok := item["@graph"].([]any); ok {
		for _, el := range graph {
			if m, ok := el.(map[string]any); ok {
				collectItem(m, venueName, streetHint, pageURL, consent, rows)
			}
		}
	}
}

func eventRow(item map[string]any, venueName, streetHint, pageURL string, consent model.Consent) model.DealRow {
	name := stringOf(item["name"])
	if name == "" {
		name = "Event"
	}
	desc := stringOf(item["description"])

	var weekday, start, end string
	if t, ok := parseTimestamp(stringOf(item["startDate"])); ok {
		weekday = t.Weekday().String()
		start = t.Format("15:04")
	}
	if t, ok := parseTimestamp(stringOf(item["endDate"])); ok {
		end = t.Format("15:04")
	}

	offers := offersOf(item)
	price := ""
	currency := ""
	if offers != nil {
		price = priceOf(offers["price"])
		currency = stringOf(offers["priceCurrency"])
	}
	if price != "" && currency == "" {
		currency = "USD"
	}

	text := name
	if desc != "" {
		text = name + " — " + desc
	}

	confidence := model.ConfidenceMedium
	if price != "" && weekday != "" && start != "" && end != "" {
		confidence = model.ConfidenceHigh
	}

	return model.DealRow{
		VenueName:     venueName,
		StreetHint:    streetHint,
		Title:         name,
		Weekday:       weekday,
		StartTime:     start,
		EndTime:       end,
		Price:         price,
		Currency:      currency,
		Category:      strings.Join(normalize.Categories(text), ";"),
		Confidence:    confidence,
		SourceSnippet: normalize.Truncate(normalize.Collapse(text), normalize.SnippetLen),
		SourceURL:     pageURL,
		ScrapeAllowed: consent,
	}
}

func offerRow(item, offers map[string]any, price, venueName, streetHint, pageURL string, consent model.Consent) model.DealRow {
	name := stringOf(item["name"])
	if name == "" {
		name = "Offer"
	}

	currency := stringOf(item["priceCurrency"])
	if currency == "" && offers != nil {
		currency = stringOf(offers["priceCurrency"])
	}
	if currency == "" && price != "" {
		currency = "USD"
	}

	text := normalize.Collapse(name + " " + stringOf(item["description"]))

	confidence := model.ConfidenceLow
	if price != "" {
		confidence = model.ConfidenceMedium
	}

	return model.DealRow{
		VenueName:     venueName,
		StreetHint:    streetHint,
		Title:         name,
		Price:         price,
		Currency:      currency,
		Category:      strings.Join(normalize.Categories(text), ";"),
		Confidence:    confidence,
		SourceSnippet: normalize.Truncate(text, normalize.SnippetLen),
		SourceURL:     pageURL,
		ScrapeAllowed: consent,
	}
}

// itemType reads @type, tolerating both a string and an array of strings.
func itemType(item map[string]any) string {
	switch v := item["@type"].(type) {
	case string:
		return v
	case []any:
		if len(v) > 0 {
			return stringOf(v[0])
		}
	}
	return ""
}

// offersOf reads the offers attachment, tolerating an object or an array.
func offersOf(item map[string]any) map[string]any {
	switch v := item["offers"].(type) {
	case map[string]any:
		return v
	case []any:
		for _, el := range v {
			if m, ok := el.(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}

// priceOf normalizes a price value that may be a JSON number or string.
func priceOf(v any) string {
	switch p := v.(type) {
	case float64:
		return strconv.FormatFloat(p, 'f', 2, 64)
	case string:
		return normalize.FormatPrice(strings.TrimPrefix(strings.TrimSpace(p), "$"))
	}
	return ""
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
