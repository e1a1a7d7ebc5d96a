package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterThenReadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "deals.csv")

	w, err := NewWriter(path, []string{"venue_name", "title", "price"})
	require.NoError(t, err)
	require.NoError(t, w.Append([]string{"Test Tavern", "Happy Hour", "5.00"}))
	require.NoError(t, w.Append([]string{"Other Bar", `Wings, "half price"`, ""}))
	assert.Equal(t, 2, w.Count())
	require.NoError(t, w.Close())

	rows, err := ReadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Test Tavern", rows[0]["venue_name"])
	// Commas and quotes survive the round trip.
	assert.Equal(t, `Wings, "half price"`, rows[1]["title"])
	assert.Equal(t, "", rows[1]["price"])
}

func TestReadRows_PadsShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	csv := "venue_name,title,price\nTest Tavern,Happy Hour\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	rows, err := ReadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Happy Hour", rows[0]["title"])
	assert.Equal(t, "", rows[0]["price"])
}

func TestReadRows_DropsEmptyRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	csv := "venue_name,title\nTest Tavern,Happy Hour\n,\n\"\",\"\"\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	rows, err := ReadRows(path)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReadRows_MissingFile(t *testing.T) {
	_, err := ReadRows(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestNewWriter_TruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	w, err := NewWriter(path, []string{"a"})
	require.NoError(t, err)
	require.NoError(t, w.Append([]string{"stale"}))
	require.NoError(t, w.Close())

	w, err = NewWriter(path, []string{"a"})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rows, err := ReadRows(path)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "stage_log.txt")

	l, err := NewLog(path)
	require.NoError(t, err)
	l.Line("FOUND 3 → Test Tavern (https://testtavern.example)")
	l.Line("NONE → Other Bar")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "FOUND 3 → Test Tavern (https://testtavern.example)\nNONE → Other Bar\n", string(data))
}

func TestLog_NilSafe(t *testing.T) {
	var l *Log
	l.Line("ignored")
	assert.NoError(t, l.Close())
}
