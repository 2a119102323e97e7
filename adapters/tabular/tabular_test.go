package tabular

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/unicode"

	"slcsp/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadCSVRecords(t *testing.T) {
	in := "ZipCode , State,county_code,name,rate_area\n" +
		"64148,MO,29095,Jackson,3\n" +
		"\n" +
		"07001,NJ,34023,Middlesex\n"

	table, err := ReadCSV(context.Background(), "zips", strings.NewReader(in), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"zipcode", "state", "county_code", "name", "rate_area"}, table.Header)
	require.Len(t, table.Records, 2)

	first := table.Records[0]
	assert.Equal(t, "64148", first.Get("zipcode"))
	assert.Equal(t, "3", first.Get("RATE_AREA"))
	assert.Equal(t, 2, first.Line)

	second := table.Records[1]
	assert.Equal(t, "07001", second.Get("zipcode"), "leading zero must survive")
	assert.Equal(t, "", second.Get("rate_area"), "short row reads as empty")
	assert.Equal(t, 4, second.Line)
}

func TestReadCSVByteOrderMarks(t *testing.T) {
	body := "zipcode,rate\n64148,\n"

	t.Run("utf8", func(t *testing.T) {
		table, err := ReadCSV(context.Background(), "slcsp", strings.NewReader("\xef\xbb\xbf"+body), Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"zipcode", "rate"}, table.Header)
		require.Len(t, table.Records, 1)
		assert.Equal(t, "64148", table.Records[0].Get("zipcode"))
	})

	t.Run("utf16", func(t *testing.T) {
		encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(body)
		require.NoError(t, err)

		table, err := ReadCSV(context.Background(), "slcsp", strings.NewReader(encoded), Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"zipcode", "rate"}, table.Header)
		require.Len(t, table.Records, 1)
		assert.Equal(t, "64148", table.Records[0].Get("zipcode"))
	})
}

func TestReadCSVEmptyInput(t *testing.T) {
	table, err := ReadCSV(context.Background(), "plans", strings.NewReader(""), Options{})
	require.NoError(t, err)
	assert.Empty(t, table.Records)
	assert.Empty(t, table.Header)
}

func TestReadCSVDelimiter(t *testing.T) {
	in := "zipcode;rate\n64148;\n"
	table, err := ReadCSV(context.Background(), "slcsp", strings.NewReader(in), Options{Delimiter: ';'})
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "64148", table.Records[0].Get("zipcode"))
}

func TestReadCSVMalformedQuoting(t *testing.T) {
	in := "zipcode,rate\n64148,ab\"c\n"

	_, err := ReadCSV(context.Background(), "slcsp", strings.NewReader(in), Options{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeParsing))
	assert.Equal(t, "slcsp", errors.SourceOf(err))
	assert.Contains(t, err.Error(), "failed to parse slcsp")

	table, err := ReadCSV(context.Background(), "slcsp", strings.NewReader(in), Options{LazyQuotes: true})
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, `ab"c`, table.Records[0].Get("rate"))
}

func TestReadCSVCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadCSV(ctx, "plans", strings.NewReader("a,b\n1,2\n"), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMissing(t *testing.T) {
	table := &Table{Header: []string{"zipcode", "state"}}
	assert.Equal(t, []string{"rate_area"}, table.Missing([]string{"ZipCode", "state", "rate_area"}))
	assert.Nil(t, table.Missing([]string{"zipcode"}))
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	err := Validate("plans", filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
	assert.Contains(t, err.Error(), "plans file not found")
	assert.Equal(t, "plans", errors.SourceOf(err))

	err = Validate("zips", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a regular file")

	path := writeFile(t, "slcsp.csv", "zipcode,rate\n")
	assert.NoError(t, Validate("slcsp", path))
}

func TestReadDispatchesOnExtension(t *testing.T) {
	path := writeFile(t, "slcsp.csv", "zipcode,rate\n64148,\n")
	table, err := Read(context.Background(), "slcsp", path, Options{})
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "slcsp", table.Source)

	_, err = Read(context.Background(), "slcsp", filepath.Join(t.TempDir(), "gone.csv"), Options{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func writeWorkbook(t *testing.T, sheets map[string][][]string, order ...string) string {
	t.Helper()
	f := xlsx.NewFile()
	for _, name := range order {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, cells := range sheets[name] {
			row := sheet.AddRow()
			for _, value := range cells {
				row.AddCell().SetString(value)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "plans.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		"Plans": {
			{"plan_id", "state", "metal_level", "rate", "rate_area"},
			{"74449NR9870320", "GA", "Silver", "298.62", "7"},
			{"", "", "", "", ""},
			{"26325VH2723968", "FL", "Bronze", "421.43", "60"},
		},
		"Notes": {
			{"note"},
			{"ignored"},
		},
	}, "Plans", "Notes")

	table, err := Read(context.Background(), "plans", path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"plan_id", "state", "metal_level", "rate", "rate_area"}, table.Header)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "298.62", table.Records[0].Get("rate"))
	assert.Equal(t, 2, table.Records[0].Line)
	assert.Equal(t, "FL", table.Records[1].Get("state"))
	assert.Equal(t, 4, table.Records[1].Line)

	table, err = Read(context.Background(), "plans", path, Options{Sheet: "Notes"})
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "ignored", table.Records[0].Get("note"))

	_, err = Read(context.Background(), "plans", path, Options{Sheet: "Missing"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeParsing))
}

func TestReadXLSXNumericCellsKeepStoredValue(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Plans")
	require.NoError(t, err)

	header := sheet.AddRow()
	for _, name := range []string{"state", "metal_level", "rate", "rate_area"} {
		header.AddCell().SetString(name)
	}
	for _, rate := range []float64{200.105, 200.1, 245.2} {
		row := sheet.AddRow()
		row.AddCell().SetString("NY")
		row.AddCell().SetString("Silver")
		row.AddCell().SetFloatWithFormat(rate, "0.00")
		row.AddCell().SetInt(1)
	}
	path := filepath.Join(t.TempDir(), "plans.xlsx")
	require.NoError(t, f.Save(path))

	table, err := Read(context.Background(), "plans", path, Options{})
	require.NoError(t, err)
	require.Len(t, table.Records, 3)

	var rates []string
	for _, rec := range table.Records {
		rates = append(rates, rec.Get("rate"))
		assert.Equal(t, "NY", rec.Get("state"))
		assert.Equal(t, "1", rec.Get("rate_area"))
	}
	assert.Equal(t, []string{"200.105", "200.1", "245.2"}, rates)
}

func TestReadXLSXRejectsGarbage(t *testing.T) {
	path := writeFile(t, "plans.xlsx", "not a zip archive")
	_, err := Read(context.Background(), "plans", path, Options{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeParsing))
	assert.Equal(t, "plans", errors.SourceOf(err))
}
