// Package ingestion normalizes decoded records into typed rows.
//
// Every record yields a tagged outcome instead of an error: a bad row is
// either dropped silently or dropped with a warning, and ingestion stays a
// single pass over the data.
package ingestion

import (
	"fmt"
	"strings"

	"slcsp/core/money"
	"slcsp/core/types"
)

// DefaultMetalLevel is the metal level whose rates are indexed.
const DefaultMetalLevel = "silver"

// PlanColumns names the plans table headers.
type PlanColumns struct {
	State      string `json:"state" yaml:"state" mapstructure:"state"`
	MetalLevel string `json:"metal_level" yaml:"metal_level" mapstructure:"metal_level"`
	Rate       string `json:"rate" yaml:"rate" mapstructure:"rate"`
	RateArea   string `json:"rate_area" yaml:"rate_area" mapstructure:"rate_area"`
}

// ZipColumns names the ZIP table headers.
type ZipColumns struct {
	Zipcode  string `json:"zipcode" yaml:"zipcode" mapstructure:"zipcode"`
	State    string `json:"state" yaml:"state" mapstructure:"state"`
	RateArea string `json:"rate_area" yaml:"rate_area" mapstructure:"rate_area"`
}

// TargetColumns names the target table headers.
type TargetColumns struct {
	Zipcode string `json:"zipcode" yaml:"zipcode" mapstructure:"zipcode"`
}

// Columns groups the header names of all three tables.
type Columns struct {
	Plans   PlanColumns   `json:"plans" yaml:"plans" mapstructure:"plans"`
	Zips    ZipColumns    `json:"zips" yaml:"zips" mapstructure:"zips"`
	Targets TargetColumns `json:"targets" yaml:"targets" mapstructure:"targets"`
}

// DefaultColumns returns the headers of the published datasets.
func DefaultColumns() Columns {
	return Columns{
		Plans: PlanColumns{
			State:      "state",
			MetalLevel: "metal_level",
			Rate:       "rate",
			RateArea:   "rate_area",
		},
		Zips: ZipColumns{
			Zipcode:  "zipcode",
			State:    "state",
			RateArea: "rate_area",
		},
		Targets: TargetColumns{
			Zipcode: "zipcode",
		},
	}
}

// Required lists the configured columns a table must carry, by source label.
func (c Columns) Required(source string) []string {
	switch source {
	case SourcePlans:
		return []string{c.Plans.State, c.Plans.MetalLevel, c.Plans.Rate, c.Plans.RateArea}
	case SourceZips:
		return []string{c.Zips.Zipcode, c.Zips.State, c.Zips.RateArea}
	case SourceTargets:
		return []string{c.Targets.Zipcode}
	}
	return nil
}

// Source labels used in warnings and errors.
const (
	SourcePlans   = "plans"
	SourceZips    = "zips"
	SourceTargets = "slcsp"
)

// Normalizer converts records to typed rows.
type Normalizer struct {
	columns    Columns
	metalLevel string
}

// NewNormalizer creates a normalizer. An empty metalLevel selects
// DefaultMetalLevel.
func NewNormalizer(columns Columns, metalLevel string) *Normalizer {
	metalLevel = normalizeMetal(metalLevel)
	if metalLevel == "" {
		metalLevel = DefaultMetalLevel
	}
	return &Normalizer{columns: columns, metalLevel: metalLevel}
}

// MetalLevel returns the normalized metal level being indexed.
func (n *Normalizer) MetalLevel() string {
	return n.metalLevel
}

// Plan normalizes one plans record. Only rows at the configured metal level
// are accepted. A rate that is present but not a decimal number is the
// only case that produces a warning.
func (n *Normalizer) Plan(rec types.Record) (types.PlanRow, types.Outcome) {
	cols := n.columns.Plans

	metal := normalizeMetal(rec.Get(cols.MetalLevel))
	if metal != n.metalLevel {
		return types.PlanRow{}, types.Skip()
	}

	state := rec.Get(cols.State)
	area := rec.Get(cols.RateArea)
	rateText := rec.Get(cols.Rate)
	if state == "" || area == "" || rateText == "" {
		return types.PlanRow{}, types.Skip()
	}

	rate, err := money.ParseRate(rateText)
	if err != nil {
		return types.PlanRow{}, types.Warn(fmt.Sprintf("skipping invalid rate %q in %s line %d", rateText, SourcePlans, rec.Line))
	}

	return types.PlanRow{
		Area:       types.RateAreaKey{State: state, RateArea: area},
		MetalLevel: metal,
		Rate:       rate,
		Line:       rec.Line,
	}, types.Accept()
}

// Zip normalizes one ZIP record. Rows missing any of zipcode, state or rate
// area are skipped silently.
func (n *Normalizer) Zip(rec types.Record) (types.ZipRow, types.Outcome) {
	cols := n.columns.Zips

	zipcode := rec.Get(cols.Zipcode)
	state := rec.Get(cols.State)
	area := rec.Get(cols.RateArea)
	if zipcode == "" || state == "" || area == "" {
		return types.ZipRow{}, types.Skip()
	}

	return types.ZipRow{
		Zipcode: zipcode,
		Area:    types.RateAreaKey{State: state, RateArea: area},
		Line:    rec.Line,
	}, types.Accept()
}

// Target normalizes one target record. Every target row is kept so output
// order and length match the input.
func (n *Normalizer) Target(rec types.Record) types.TargetZip {
	return types.TargetZip{
		Zipcode: rec.Get(n.columns.Targets.Zipcode),
		Line:    rec.Line,
	}
}

func normalizeMetal(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
