// Package output provides output formatting for the resolved rate table.
// This package produces machine-readable outputs only; the table layout is
// fixed to two columns, zipcode and rate.
package output

import (
	"fmt"
	"io"
	"sort"

	"slcsp/core/resolver"
)

// Format represents output format type
type Format string

const (
	// FormatCSV is the canonical zipcode,rate CSV table
	FormatCSV Format = "csv"

	// FormatJSON is a JSON array of {"zipcode","rate"} objects
	FormatJSON Format = "json"

	// FormatParquet is a two-column Parquet file
	FormatParquet Format = "parquet"
)

// Column headers of the result table.
const (
	HeaderZipcode = "zipcode"
	HeaderRate    = "rate"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the whole table to w
	Render(w io.Writer, table *Table) error
}

// Row is one output row. Rate is "" for blank results, never "0.00".
type Row struct {
	Zipcode string `csv:"zipcode" json:"zipcode" parquet:"zipcode"`
	Rate    string `csv:"rate" json:"rate" parquet:"rate"`
}

// Table is the complete, ordered result.
type Table struct {
	Rows []Row
}

// NewTable builds the table from resolutions, keeping their order.
func NewTable(results []resolver.Resolution) *Table {
	rows := make([]Row, len(results))
	for i, res := range results {
		rows[i] = Row{Zipcode: res.Zipcode, Rate: res.FormattedRate()}
	}
	return &Table{Rows: rows}
}

// Registry manages formatter registration
type Registry struct {
	formatters map[Format]Formatter
}

// NewRegistry returns a registry holding the built-in formatters.
func NewRegistry() *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	for _, f := range []Formatter{NewCSVFormatter(), NewJSONFormatter(), NewParquetFormatter()} {
		_ = r.Register(f)
	}
	return r
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) error {
	if _, exists := r.formatters[formatter.Format()]; exists {
		return fmt.Errorf("formatter %q already registered", formatter.Format())
	}
	r.formatters[formatter.Format()] = formatter
	return nil
}

// GetFormatter returns a formatter for a format type
func (r *Registry) GetFormatter(format Format) (Formatter, bool) {
	f, ok := r.formatters[format]
	return f, ok
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []Format {
	formats := make([]Format, 0, len(r.formatters))
	for f := range r.formatters {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

var defaultRegistry = NewRegistry()

// Lookup returns a built-in formatter by name.
func Lookup(format string) (Formatter, bool) {
	return defaultRegistry.GetFormatter(Format(format))
}

// Supported reports whether format names a built-in formatter.
func Supported(format string) bool {
	_, ok := Lookup(format)
	return ok
}

// Formats returns the built-in format names.
func Formats() []Format {
	return defaultRegistry.Formats()
}
