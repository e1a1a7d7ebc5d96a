package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadVenues_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "venues.json")

	venues := []Venue{
		{
			VenueName: "Test Tavern",
			Address:   Address{Street: "123 Main St", City: "Charlotte", Region: "NC"},
			Contact:   Contact{Website: "https://testtavern.example"},
			Deals: []Deal{
				{
					Title:         "Happy Hour",
					Weekday:       StrPtr("Tuesday"),
					StartTime:     StrPtr("17:00"),
					EndTime:       StrPtr("19:00"),
					Restrictions:  []string{},
					Category:      []string{"drinks"},
					Confidence:    ConfidenceHigh,
					SourceSnippet: "happy hour tuesday 5-7",
					SourceURL:     "https://testtavern.example/specials",
				},
			},
		},
		{
			VenueName: "Empty Bar",
			Deals:     []Deal{},
		},
	}

	require.NoError(t, SaveVenues(path, venues))

	got, err := LoadVenues(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, venues[0].VenueName, got[0].VenueName)
	require.Len(t, got[0].Deals, 1)
	assert.Equal(t, "Happy Hour", got[0].Deals[0].Title)
	require.NotNil(t, got[0].Deals[0].Weekday)
	assert.Equal(t, "Tuesday", *got[0].Deals[0].Weekday)
	// Empty deal lists survive as [], not null.
	assert.NotNil(t, got[1].Deals)
	assert.Empty(t, got[1].Deals)
}

func TestLoadVenues_RejectsNonArrayRoot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "venues.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"venues": []}`), 0o644))

	_, err := LoadVenues(path)
	assert.Error(t, err)
}

func TestLoadVenues_MissingFile(t *testing.T) {
	_, err := LoadVenues(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestSaveVenues_AtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "venues.json")

	require.NoError(t, SaveVenues(path, []Venue{{VenueName: "First"}}))
	require.NoError(t, SaveVenues(path, []Venue{{VenueName: "Second"}}))

	got, err := LoadVenues(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Second", got[0].VenueName)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
