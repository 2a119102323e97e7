package tabular

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"slcsp/internal/errors"
)

// ReadXLSX decodes one sheet of a spreadsheet. The first non-empty row is
// the header; record line numbers are spreadsheet row numbers.
func ReadXLSX(ctx context.Context, source, path string, opts Options) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, errors.Malformed(source, eris.Wrap(err, "xlsx: open file"))
	}

	sheet, err := pickSheet(f, opts.Sheet)
	if err != nil {
		return nil, errors.Malformed(source, err)
	}

	var header []string
	var rows [][]string
	var lines []int
	for i, row := range sheet.Rows {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if row == nil {
			continue
		}

		cells := rowToStrings(row)
		if blank(cells) {
			continue
		}
		if header == nil {
			header = cells
			continue
		}
		rows = append(rows, cells)
		lines = append(lines, i+1)
	}

	if header == nil {
		return &Table{Source: source}, nil
	}
	return build(source, header, rows, lines), nil
}

func pickSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

// rowToStrings reads numeric cells as their stored value. The display
// format would round rates like 200.105 shown as "0.00".
func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		if cell.Type() == xlsx.CellTypeNumeric {
			cells[j] = cell.Value
			continue
		}
		cells[j] = cell.String()
	}
	return cells
}
