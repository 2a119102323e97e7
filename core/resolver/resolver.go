// Package resolver computes the second-lowest-cost silver plan rate of
// each target ZIP code.
package resolver

import (
	"slcsp/core/index"
	"slcsp/core/money"
	"slcsp/core/types"
)

// Status records why a ZIP resolved the way it did. Every status other
// than StatusResolved produces a blank rate; none of them is an error.
type Status int

const (
	// StatusResolved means the ZIP has a single rate area with at least two
	// distinct silver rates
	StatusResolved Status = iota

	// StatusUnknownZip means the ZIP is absent from the ZIP table
	StatusUnknownZip

	// StatusAmbiguousZip means the ZIP maps to more than one rate area
	StatusAmbiguousZip

	// StatusInsufficientRates means the rate area has fewer than two
	// distinct silver rates
	StatusInsufficientRates
)

// String returns the status name
func (s Status) String() string {
	names := []string{"resolved", "unknown_zip", "ambiguous_zip", "insufficient_rates"}
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// Resolution is the answer for one target ZIP.
type Resolution struct {
	// Zipcode is the target ZIP as given
	Zipcode string

	// Status explains the result
	Status Status

	// Area is set when the ZIP maps to exactly one rate area
	Area *types.RateAreaKey

	// Rate is the second-lowest distinct silver rate; meaningful only when
	// Status is StatusResolved
	Rate money.Rate
}

// Blank reports whether the formatted rate is empty.
func (r Resolution) Blank() bool {
	return r.Status != StatusResolved
}

// FormattedRate returns the rate with two fractional digits, or "" when blank.
func (r Resolution) FormattedRate() string {
	if r.Blank() {
		return ""
	}
	return r.Rate.String()
}

// Resolver joins the two indexes. It never mutates them.
type Resolver struct {
	areas  *index.RateAreaIndex
	silver *index.SilverRateIndex
}

// New creates a resolver over built indexes.
func New(areas *index.RateAreaIndex, silver *index.SilverRateIndex) *Resolver {
	return &Resolver{areas: areas, silver: silver}
}

// Resolve answers a single ZIP code.
func (r *Resolver) Resolve(zip string) Resolution {
	res := Resolution{Zipcode: zip}

	key, ok := r.areas.Single(zip)
	if !ok {
		if r.areas.Count(zip) == 0 {
			res.Status = StatusUnknownZip
		} else {
			res.Status = StatusAmbiguousZip
		}
		return res
	}
	res.Area = &key

	rate, ok := r.silver.SecondLowest(key)
	if !ok {
		res.Status = StatusInsufficientRates
		return res
	}
	res.Status = StatusResolved
	res.Rate = rate
	return res
}

// ResolveAll answers every target in input order. Duplicate targets are
// answered once per occurrence.
func (r *Resolver) ResolveAll(targets []types.TargetZip) []Resolution {
	out := make([]Resolution, len(targets))
	for i, target := range targets {
		out[i] = r.Resolve(target.Zipcode)
	}
	return out
}
