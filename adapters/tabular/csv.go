package tabular

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"slcsp/internal/errors"
)

// ReadCSV decodes delimited text. A UTF-8 or UTF-16 byte order mark selects
// the encoding and is stripped; without one the input is read as UTF-8.
// Malformed quoting fails the whole source unless opts.LazyQuotes is set.
func ReadCSV(ctx context.Context, source string, r io.Reader, opts Options) (*Table, error) {
	decoded := transform.NewReader(bufio.NewReaderSize(r, 256*1024), unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // variable fields; short rows read as empty values
	reader.ReuseRecord = false
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}

	header, err := reader.Read()
	if err == io.EOF {
		return &Table{Source: source}, nil
	}
	if err != nil {
		return nil, errors.Malformed(source, eris.Wrap(err, "csv: read header"))
	}

	var rows [][]string
	var lines []int
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Malformed(source, eris.Wrap(err, "csv: read row"))
		}
		if blank(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, record)
		lines = append(lines, line)
	}

	return build(source, header, rows, lines), nil
}
