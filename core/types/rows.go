// Package types defines the rows the calculator consumes and the keys it
// indexes them by.
package types

import (
	"strings"

	"slcsp/core/money"
)

// Record is one decoded tabular row.
type Record struct {
	// Fields maps the lower-cased, trimmed header name to the raw cell value
	Fields map[string]string

	// Line is the 1-based line (or spreadsheet row) the record came from
	Line int
}

// Get returns the trimmed value of a column, "" when absent.
// Column names are matched case-insensitively.
func (r Record) Get(column string) string {
	return strings.TrimSpace(r.Fields[strings.ToLower(strings.TrimSpace(column))])
}

// RateAreaKey identifies a rate area. A rate area code is only meaningful
// together with its state.
type RateAreaKey struct {
	// State is the two-letter state code
	State string `json:"state"`

	// RateArea is the rate area code within the state
	RateArea string `json:"rate_area"`
}

// String renders the key as "STATE rate_area".
func (k RateAreaKey) String() string {
	return k.State + " " + k.RateArea
}

// Less orders keys by state, then rate area.
func (k RateAreaKey) Less(other RateAreaKey) bool {
	if k.State != other.State {
		return k.State < other.State
	}
	return k.RateArea < other.RateArea
}

// PlanRow is one observed insurance plan entry.
type PlanRow struct {
	// Area is the rate area the plan is priced in
	Area RateAreaKey

	// MetalLevel is the normalized (trimmed, lower-cased) metal level
	MetalLevel string

	// Rate is the exact plan rate
	Rate money.Rate

	// Line is the source line number
	Line int
}

// ZipRow is one observed ZIP-to-rate-area mapping. A ZIP may appear in
// several rows, possibly with different areas.
type ZipRow struct {
	// Zipcode is the ZIP code as written (leading zeros preserved)
	Zipcode string

	// Area is the rate area the ZIP maps to
	Area RateAreaKey

	// Line is the source line number
	Line int
}

// TargetZip is one row of the requested output list.
type TargetZip struct {
	// Zipcode may be empty; it then resolves blank
	Zipcode string

	// Line is the source line number
	Line int
}
