package targets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menuscout/scout-cli/internal/model"
)

func TestBuildRows_SortedWithDefaults(t *testing.T) {
	venues := []model.Venue{
		{
			VenueName: "Zebra Lounge",
			Address:   model.Address{Street: "9 Oak Ave", City: "Matthews", Region: "NC", PostalCode: "28105"},
			Contact:   model.Contact{Website: "https://zebralounge.example", GoogleMaps: "https://maps.example/zebra"},
		},
		{
			VenueName: "alpha Tavern",
			Address:   model.Address{Street: "1 Elm St"},
			Contact:   model.Contact{Website: "https://alphatavern.example"},
		},
	}

	rows := BuildRows(venues, "Charlotte", "NC")
	require.Len(t, rows, 2)

	// Case-insensitive sort by venue name.
	assert.Equal(t, "alpha Tavern", rows[0].VenueName)
	assert.Equal(t, "Zebra Lounge", rows[1].VenueName)

	// City/region defaults fill partial addresses.
	assert.Equal(t, "Charlotte", rows[0].City)
	assert.Equal(t, "NC", rows[0].Region)
	assert.Equal(t, "Matthews", rows[1].City)

	// Robots URL derived from the website; consent starts unknown.
	assert.Equal(t, "https://alphatavern.example/robots.txt", rows[0].RobotsURL)
	assert.Equal(t, model.ConsentUnknown, rows[0].ScrapeAllowed)

	// Search query carries the venue, address, and promo terms.
	assert.Contains(t, rows[0].SearchQuery, "alpha Tavern")
	assert.Contains(t, rows[0].SearchQuery, `"happy hour"`)

	// Existing maps link kept, missing one synthesized.
	assert.Equal(t, "https://maps.example/zebra", rows[1].GoogleMaps)
	assert.Contains(t, rows[0].GoogleMaps, "google.com/maps/search")
}

func TestBuildRows_NoWebsite(t *testing.T) {
	rows := BuildRows([]model.Venue{{VenueName: "Cash Only Diner"}}, "Charlotte", "NC")
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Website)
	assert.Empty(t, rows[0].RobotsURL)
}

func TestIsChain(t *testing.T) {
	tests := []struct {
		name    string
		venue   string
		website string
		chain   bool
	}{
		{"blocklisted name", "McDonald's", "", true},
		{"name inside longer name", "Taco Bell Cantina", "", true},
		{"stylized punctuation", "Wendy’s #4821", "", true},
		{"blocklisted domain", "The Local Franchise", "https://www.dominos.com/store/123", true},
		{"subdomain of blocklisted domain", "Order Here", "https://order.chipotle.com", true},
		{"independent venue", "Test Tavern", "https://testtavern.example", false},
		{"no website independent", "Mom's Kitchen", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.chain, IsChain(tt.venue, tt.website))
		})
	}
}

func TestNormName(t *testing.T) {
	assert.Equal(t, "barandgrill co", normName("Bar&Grill, Co."))
	assert.Equal(t, "mcdonalds", normName("McDonald's"))
	assert.Equal(t, "two words", normName("  Two    Words  "))
}
