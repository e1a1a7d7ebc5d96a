// Package table reads and writes the CSV tables that pipeline stages use as
// their interchange format, plus the companion per-stage log files.
package table

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// ReadRows reads a CSV file with a header row and returns each data row as a
// header-keyed map. Rows shorter than the header are padded with empty
// strings; fully empty rows are dropped.
func ReadRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "table: open input")
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrap(err, "table: read header")
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "table: read row")
		}

		row := make(map[string]string, len(header))
		empty := true
		for i, h := range header {
			v := ""
			if i < len(record) {
				v = record[i]
			}
			if v != "" {
				empty = false
			}
			row[h] = v
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// Writer appends records to a stage output file. The header row is written
// once at creation; quoting and escaping follow encoding/csv. A Writer must
// only be used from one goroutine; concurrent stages funnel rows through a
// single collector.
type Writer struct {
	f *os.File
	w *csv.Writer
	n int
}

// NewWriter truncates/creates the output file and writes the header row.
func NewWriter(path string, header []string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, eris.Wrap(err, "table: create output dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrap(err, "table: create output")
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, eris.Wrap(err, "table: write header")
	}
	return &Writer{f: f, w: w}, nil
}

// Append writes one record.
func (w *Writer) Append(record []string) error {
	if err := w.w.Write(record); err != nil {
		return eris.Wrap(err, "table: append row")
	}
	w.n++
	return nil
}

// Count returns the number of data rows appended so far.
func (w *Writer) Count() int { return w.n }

// Close flushes and closes the output file.
func (w *Writer) Close() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		_ = w.f.Close()
		return eris.Wrap(err, "table: flush output")
	}
	if err := w.f.Close(); err != nil {
		return eris.Wrap(err, "table: close output")
	}
	return nil
}

// Log is the plain-text companion log for a stage: one line per processed
// item, so a human can see what was skipped and why.
type Log struct {
	f *os.File
}

// NewLog truncates/creates the companion log file.
func NewLog(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, eris.Wrap(err, "table: create log dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrap(err, "table: create log")
	}
	return &Log{f: f}, nil
}

// Line appends one line to the log. Log write failures never abort a stage.
func (l *Log) Line(s string) {
	if l == nil || l.f == nil {
		return
	}
	_, _ = l.f.WriteString(s + "\n")
}

// Close closes the log file.
func (l *Log) Close() error {
	if l == nil || l.f == nil {
		return nil
	}
	return l.f.Close()
}
