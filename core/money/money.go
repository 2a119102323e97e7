// Package money provides exact decimal handling for plan rates.
// NEVER use float64 for rates: distinctness is decided by exact decimal
// equality, so "200.10" and "200.100" must collapse while 200.1 and
// 200.1000000001 must not.
package money

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits in a formatted rate.
const Places = 2

// Rate is a monetary plan rate with full precision.
type Rate struct {
	amount decimal.Decimal
}

// ParseRate parses rate text. Surrounding whitespace is ignored; anything
// else that is not a decimal number is an error.
func ParseRate(s string) (Rate, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Rate{}, err
	}
	return Rate{amount: d}, nil
}

// MustParseRate is ParseRate for constants and tests.
func MustParseRate(s string) Rate {
	r, err := ParseRate(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Cmp compares two rates by value.
func (r Rate) Cmp(other Rate) int {
	return r.amount.Cmp(other.amount)
}

// Equal reports value equality, independent of source formatting.
func (r Rate) Equal(other Rate) bool {
	return r.amount.Equal(other.amount)
}

// String returns the rate with exactly two fractional digits, rounding
// half away from zero at the hundredths place (200.105 -> 200.11).
func (r Rate) String() string {
	return r.amount.StringFixed(Places)
}

// StringRaw returns the raw decimal string (full precision)
func (r Rate) StringRaw() string {
	return r.amount.String()
}

// Set collects rates and yields them ascending without value duplicates.
type Set struct {
	rates []Rate
}

// Add inserts a rate. Duplicates are kept until Sorted collapses them.
func (s *Set) Add(r Rate) {
	s.rates = append(s.rates, r)
}

// Sorted returns the distinct rates in ascending order.
func (s *Set) Sorted() []Rate {
	if len(s.rates) == 0 {
		return nil
	}
	sorted := make([]Rate, len(s.rates))
	copy(sorted, s.rates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Cmp(sorted[j]) < 0
	})

	out := sorted[:1]
	for _, r := range sorted[1:] {
		if !r.Equal(out[len(out)-1]) {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of rates added, duplicates included.
func (s *Set) Len() int {
	return len(s.rates)
}
