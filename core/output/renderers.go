package output

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/parquet-go/parquet-go"
	"github.com/rotisserie/eris"
)

// CSVFormatter renders the zipcode,rate CSV table.
type CSVFormatter struct{}

// NewCSVFormatter creates a CSV formatter
func NewCSVFormatter() *CSVFormatter { return &CSVFormatter{} }

// Format implements Formatter
func (f *CSVFormatter) Format() Format { return FormatCSV }

// Render implements Formatter. The header is written even for an empty table.
func (f *CSVFormatter) Render(w io.Writer, table *Table) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	enc.AutoHeader = false

	if err := enc.EncodeHeader(Row{}); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	for _, row := range table.Rows {
		if err := enc.Encode(row); err != nil {
			return eris.Wrapf(err, "csv: write row %s", row.Zipcode)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "csv: flush")
	}
	return nil
}

// JSONFormatter renders the table as a JSON array.
type JSONFormatter struct {
	Indent string
}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter() *JSONFormatter { return &JSONFormatter{Indent: "  "} }

// Format implements Formatter
func (f *JSONFormatter) Format() Format { return FormatJSON }

// Render implements Formatter
func (f *JSONFormatter) Render(w io.Writer, table *Table) error {
	rows := table.Rows
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", f.Indent)
	if err := enc.Encode(rows); err != nil {
		return eris.Wrap(err, "json: encode table")
	}
	return nil
}

// ParquetFormatter renders the table as a Parquet file with two string
// columns.
type ParquetFormatter struct{}

// NewParquetFormatter creates a Parquet formatter
func NewParquetFormatter() *ParquetFormatter { return &ParquetFormatter{} }

// Format implements Formatter
func (f *ParquetFormatter) Format() Format { return FormatParquet }

// Render implements Formatter
func (f *ParquetFormatter) Render(w io.Writer, table *Table) error {
	writer := parquet.NewGenericWriter[Row](w,
		parquet.Compression(&parquet.Snappy),
	)
	if len(table.Rows) > 0 {
		if _, err := writer.Write(table.Rows); err != nil {
			_ = writer.Close()
			return eris.Wrap(err, "parquet: write rows")
		}
	}
	if err := writer.Close(); err != nil {
		return eris.Wrap(err, "parquet: close writer")
	}
	return nil
}
