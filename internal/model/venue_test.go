package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseConsent(t *testing.T) {
	tests := []struct {
		in       string
		expected Consent
	}{
		{"true", ConsentAllowed},
		{"TRUE", ConsentAllowed},
		{" true ", ConsentAllowed},
		{"false", ConsentDenied},
		{"", ConsentUnknown},
		{"maybe", ConsentUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseConsent(tt.in), "input %q", tt.in)
	}

	assert.True(t, ConsentAllowed.Allowed())
	assert.False(t, ConsentDenied.Allowed())
	assert.False(t, ConsentUnknown.Allowed())
}

func TestParseConfidence(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, ParseConfidence("High"))
	assert.Equal(t, ConfidenceMedium, ParseConfidence("medium"))
	assert.Equal(t, ConfidenceLow, ParseConfidence("low"))
	assert.Equal(t, ConfidenceLow, ParseConfidence(""))
	assert.Equal(t, ConfidenceLow, ParseConfidence("certain"))
}

func TestDealKey_CaseInsensitive(t *testing.T) {
	a := Deal{
		Title:     "Happy Hour",
		Weekday:   StrPtr("Tuesday"),
		StartTime: StrPtr("17:00"),
		EndTime:   StrPtr("19:00"),
		SourceURL: "https://Testtavern.example/Specials",
	}
	b := Deal{
		Title:     "HAPPY HOUR",
		Weekday:   StrPtr("tuesday"),
		StartTime: StrPtr("17:00"),
		EndTime:   StrPtr("19:00"),
		SourceURL: "https://testtavern.example/specials",
	}
	assert.Equal(t, a.Key(), b.Key())
}

func TestDealKey_DistinguishesWindowAndURL(t *testing.T) {
	base := Deal{Title: "Happy Hour", Weekday: StrPtr("Tuesday"), SourceURL: "https://a.example/"}

	earlier := base
	earlier.StartTime = StrPtr("16:00")
	assert.NotEqual(t, base.Key(), earlier.Key())

	otherPage := base
	otherPage.SourceURL = "https://a.example/specials"
	assert.NotEqual(t, base.Key(), otherPage.Key())
}

func TestDedupeDeals(t *testing.T) {
	first := Deal{Title: "Happy Hour", SourceURL: "https://a.example/", SourceSnippet: "first seen"}
	dup := Deal{Title: "happy hour", SourceURL: "https://A.example/", SourceSnippet: "later copy"}
	other := Deal{Title: "Taco Tuesday", SourceURL: "https://a.example/"}

	out := DedupeDeals([]Deal{first, dup, other})
	assert.Len(t, out, 2)
	// First occurrence wins.
	assert.Equal(t, "first seen", out[0].SourceSnippet)
	assert.Equal(t, "Taco Tuesday", out[1].Title)
}

func TestHasProvenance(t *testing.T) {
	assert.True(t, Deal{SourceURL: "https://a.example/", SourceSnippet: "happy hour 5-7"}.HasProvenance())
	assert.False(t, Deal{SourceSnippet: "happy hour 5-7"}.HasProvenance())
	assert.False(t, Deal{SourceURL: "https://a.example/", SourceSnippet: "   "}.HasProvenance())
}

func TestDealRowDeal_Defaults(t *testing.T) {
	row := DealRow{
		VenueName:     "Test Tavern",
		Title:         "Happy Hour",
		Price:         "5.00",
		Restrictions:  "dine-in only; 21+",
		Category:      "drinks;happy_hour",
		Confidence:    ConfidenceHigh,
		SourceSnippet: "happy hour 5-7 $5",
		SourceURL:     "https://testtavern.example/",
		ScrapeAllowed: ConsentAllowed,
	}

	d := row.Deal()
	if assert.NotNil(t, d.Price) {
		assert.Equal(t, 5.0, *d.Price)
	}
	if assert.NotNil(t, d.Currency) {
		assert.Equal(t, "USD", *d.Currency)
	}
	assert.Equal(t, []string{"dine-in only", "21+"}, d.Restrictions)
	assert.Equal(t, []string{"drinks", "happy_hour"}, d.Category)
	assert.Nil(t, d.Weekday)
	if assert.NotNil(t, d.ScrapeAllowed) {
		assert.True(t, *d.ScrapeAllowed)
	}
}

func TestDealRowDeal_EmptyOptionalColumns(t *testing.T) {
	row := DealRow{VenueName: "Test Tavern", Title: "Special"}

	d := row.Deal()
	assert.Nil(t, d.Price)
	assert.Nil(t, d.Currency)
	assert.Nil(t, d.Description)
	assert.Nil(t, d.ScrapeAllowed)
	assert.Equal(t, []string{}, d.Restrictions)
	assert.Equal(t, []string{}, d.Category)
}

func TestDealRow_RecordRoundTrip(t *testing.T) {
	row := DealRow{
		VenueName:     "Test Tavern",
		StreetHint:    "123 Main St",
		Title:         "Happy Hour",
		Weekday:       "Tuesday",
		StartTime:     "17:00",
		EndTime:       "19:00",
		Price:         "5.00",
		Currency:      "USD",
		Category:      "drinks;happy_hour",
		Confidence:    ConfidenceHigh,
		SourceSnippet: "happy hour tuesday 5-7 $5 drafts",
		SourceURL:     "https://testtavern.example/specials",
		ScrapeAllowed: ConsentAllowed,
	}

	record := row.Record()
	assert.Len(t, record, len(DealHeader))

	m := make(map[string]string, len(DealHeader))
	for i, h := range DealHeader {
		m[h] = record[i]
	}
	assert.Equal(t, row, DealFromRow(m))
}

func TestDealRowKey_ScopedByVenue(t *testing.T) {
	a := DealRow{VenueName: "Test Tavern", Title: "Happy Hour", SourceURL: "https://a.example/"}
	b := DealRow{VenueName: "Other Bar", Title: "Happy Hour", SourceURL: "https://a.example/"}
	assert.NotEqual(t, a.Key(), b.Key())
}
