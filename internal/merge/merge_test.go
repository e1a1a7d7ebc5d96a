package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menuscout/scout-cli/internal/model"
)

func testVenues() []model.Venue {
	return []model.Venue{
		{
			VenueName: "Test Tavern",
			Address:   model.Address{Street: "123 Main St"},
			Deals:     []model.Deal{},
		},
		{
			VenueName: "Test Tavern",
			Address:   model.Address{Street: "900 South Blvd"},
			Deals:     []model.Deal{},
		},
		{
			VenueName: "The Copper Kettle Kitchen",
			Deals:     []model.Deal{},
		},
	}
}

func reviewedRow(venue, title string) model.DealRow {
	return model.DealRow{
		VenueName:     venue,
		Title:         title,
		Weekday:       "Tuesday",
		StartTime:     "17:00",
		EndTime:       "19:00",
		Confidence:    model.ConfidenceHigh,
		SourceSnippet: "happy hour tuesday 5-7 $5 drafts",
		SourceURL:     "https://testtavern.example/specials",
	}
}

func TestMatchVenue_ExactBeforeContainment(t *testing.T) {
	venues := []model.Venue{
		{VenueName: "Kettle"},
		{VenueName: "The Copper Kettle Kitchen"},
	}

	got := MatchVenue(venues, "kettle", "")
	require.NotNil(t, got)
	assert.Equal(t, "Kettle", got.VenueName)
}

func TestMatchVenue_Containment(t *testing.T) {
	got := MatchVenue(testVenues(), "copper kettle", "")
	require.NotNil(t, got)
	assert.Equal(t, "The Copper Kettle Kitchen", got.VenueName)
}

func TestMatchVenue_StreetHintNarrows(t *testing.T) {
	got := MatchVenue(testVenues(), "Test Tavern", "south blvd")
	require.NotNil(t, got)
	assert.Equal(t, "900 South Blvd", got.Address.Street)
}

func TestMatchVenue_NoMatch(t *testing.T) {
	assert.Nil(t, MatchVenue(testVenues(), "Nonexistent Grill", ""))
	assert.Nil(t, MatchVenue(testVenues(), "", ""))
	// A hint that matches no candidate street rejects rather than guesses.
	assert.Nil(t, MatchVenue(testVenues(), "Test Tavern", "404 Nowhere Ln"))
}

func TestRun_MergesAndStamps(t *testing.T) {
	restore := Now
	defer func() { Now = restore }()
	Now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	venues := testVenues()
	res := Run(venues, []model.DealRow{reviewedRow("Test Tavern", "Happy Hour")})

	assert.Equal(t, 1, res.Merged)
	assert.Empty(t, res.Unmatched)
	require.Len(t, venues[0].Deals, 1)
	assert.Equal(t, "Happy Hour", venues[0].Deals[0].Title)
	assert.Equal(t, "2026-08-30T12:00:00Z", venues[0].LastVerifiedAt)
	// The second Test Tavern location is untouched without a street hint match.
	assert.Empty(t, venues[1].Deals)
}

func TestRun_SkipsRowsWithoutProvenance(t *testing.T) {
	venues := testVenues()
	row := reviewedRow("Test Tavern", "Happy Hour")
	row.SourceSnippet = ""

	res := Run(venues, []model.DealRow{row})
	assert.Zero(t, res.Merged)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "Happy Hour", res.Skipped[0].Title)
	assert.Empty(t, venues[0].Deals)
	assert.Empty(t, venues[0].LastVerifiedAt)
}

func TestRun_ReportsUnmatched(t *testing.T) {
	venues := testVenues()
	res := Run(venues, []model.DealRow{reviewedRow("Nonexistent Grill", "Happy Hour")})

	assert.Zero(t, res.Merged)
	require.Len(t, res.Unmatched, 1)
	assert.Equal(t, "Nonexistent Grill", res.Unmatched[0].VenueName)
}

func TestRun_RerunDoesNotDuplicate(t *testing.T) {
	venues := testVenues()
	rows := []model.DealRow{reviewedRow("Test Tavern", "Happy Hour")}

	Run(venues, rows)
	Run(venues, rows)

	assert.Len(t, venues[0].Deals, 1)
}

func TestRun_KeepsExistingCuration(t *testing.T) {
	venues := testVenues()
	venues[0].Deals = []model.Deal{
		{
			Title:         "Trivia Night",
			SourceSnippet: "trivia every thursday at 7",
			SourceURL:     "https://testtavern.example/events",
		},
	}

	res := Run(venues, []model.DealRow{reviewedRow("Test Tavern", "Happy Hour")})
	assert.Equal(t, 1, res.Merged)
	require.Len(t, venues[0].Deals, 2)
	assert.Equal(t, "Trivia Night", venues[0].Deals[0].Title)
}
