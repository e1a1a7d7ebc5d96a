package model

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// LoadVenues reads the canonical dataset: a JSON array of venues. A missing
// file or a root that is not an array is fatal for the calling stage.
func LoadVenues(path string) ([]Venue, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "model: read dataset")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, eris.Wrap(err, "model: decode dataset")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, eris.New("model: dataset root must be a JSON array of venues")
	}

	var venues []Venue
	if err := json.Unmarshal(raw, &venues); err != nil {
		return nil, eris.Wrap(err, "model: unmarshal venues")
	}
	return venues, nil
}

// SaveVenues writes the canonical dataset whole, pretty-printed. The write
// goes through a temp file and rename so a crash never leaves a truncated
// dataset behind.
func SaveVenues(path string, venues []Venue) error {
	data, err := json.MarshalIndent(venues, "", "  ")
	if err != nil {
		return eris.Wrap(err, "model: marshal venues")
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrap(err, "model: create dataset dir")
	}

	tmp, err := os.CreateTemp(dir, ".venues-*.json")
	if err != nil {
		return eris.Wrap(err, "model: create temp dataset")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return eris.Wrap(err, "model: write temp dataset")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return eris.Wrap(err, "model: close temp dataset")
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return eris.Wrap(err, "model: replace dataset")
	}
	return nil
}
