// Package tabular decodes header-labelled tables (CSV or XLSX) into ordered
// records keyed by lower-cased column name.
package tabular

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"slcsp/core/types"
	"slcsp/internal/errors"
)

// Options configures decoding.
type Options struct {
	// Delimiter is the CSV field separator (default ',')
	Delimiter rune

	// LazyQuotes tolerates stray quotes instead of failing the whole file
	LazyQuotes bool

	// Sheet selects an XLSX sheet by name (default: first sheet)
	Sheet string
}

// Table is a fully decoded source.
type Table struct {
	// Source is the dataset label used in messages
	Source string

	// Header holds the normalized (trimmed, lower-cased) column names
	Header []string

	// Records are the data rows in file order
	Records []types.Record
}

// Missing returns the columns not present in the header, compared
// case-insensitively.
func (t *Table) Missing(columns []string) []string {
	present := make(map[string]bool, len(t.Header))
	for _, h := range t.Header {
		present[h] = true
	}
	var missing []string
	for _, c := range columns {
		if !present[normalizeHeader(c)] {
			missing = append(missing, c)
		}
	}
	return missing
}

// Validate checks that path exists, is a regular file and can be opened for
// reading. source labels the file in the returned error.
func Validate(source, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.FileNotFound(source, path)
		}
		return errors.Unreadable(source, path, err)
	}
	if !info.Mode().IsRegular() {
		return errors.NotRegularFile(source, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Unreadable(source, path, err)
	}
	return f.Close()
}

// Read decodes the file at path, choosing the container by extension:
// ".xlsx" is read as a spreadsheet, everything else as delimited text.
func Read(ctx context.Context, source, path string, opts Options) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(ctx, source, path, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound(source, path)
		}
		return nil, errors.Unreadable(source, path, err)
	}
	defer f.Close()

	return ReadCSV(ctx, source, f, opts)
}

// build turns raw rows into records. lines[i] is the source line of rows[i].
func build(source string, header []string, rows [][]string, lines []int) *Table {
	t := &Table{Source: source, Header: make([]string, len(header))}
	for i, h := range header {
		t.Header[i] = normalizeHeader(h)
	}

	t.Records = make([]types.Record, 0, len(rows))
	for i, row := range rows {
		fields := make(map[string]string, len(t.Header))
		for j, name := range t.Header {
			if name == "" {
				continue
			}
			if j < len(row) {
				fields[name] = row[j]
			} else {
				fields[name] = ""
			}
		}
		t.Records = append(t.Records, types.Record{Fields: fields, Line: lines[i]})
	}
	return t
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
