// Package index builds the two read-only lookup structures the resolver
// joins: ZIP to rate areas, and rate area to distinct silver rates.
package index

import (
	"sort"

	"slcsp/core/types"
)

// RateAreaIndex maps a ZIP code to the set of distinct rate areas observed
// for it. It is immutable once built.
type RateAreaIndex struct {
	areas map[string]map[types.RateAreaKey]struct{}
}

// BuildRateAreaIndex indexes ZIP rows. Rows with an empty zipcode, state or
// rate area are ignored; identical pairs collapse.
func BuildRateAreaIndex(rows []types.ZipRow) *RateAreaIndex {
	idx := &RateAreaIndex{areas: make(map[string]map[types.RateAreaKey]struct{})}
	for _, row := range rows {
		if row.Zipcode == "" || row.Area.State == "" || row.Area.RateArea == "" {
			continue
		}
		set, ok := idx.areas[row.Zipcode]
		if !ok {
			set = make(map[types.RateAreaKey]struct{}, 1)
			idx.areas[row.Zipcode] = set
		}
		set[row.Area] = struct{}{}
	}
	return idx
}

// Count returns how many distinct rate areas zip maps to.
func (idx *RateAreaIndex) Count(zip string) int {
	return len(idx.areas[zip])
}

// Single returns the rate area of zip when it maps to exactly one.
func (idx *RateAreaIndex) Single(zip string) (types.RateAreaKey, bool) {
	set := idx.areas[zip]
	if len(set) != 1 {
		return types.RateAreaKey{}, false
	}
	for key := range set {
		return key, true
	}
	return types.RateAreaKey{}, false
}

// Areas returns the rate areas of zip sorted by state then rate area.
func (idx *RateAreaIndex) Areas(zip string) []types.RateAreaKey {
	set := idx.areas[zip]
	if len(set) == 0 {
		return nil
	}
	keys := make([]types.RateAreaKey, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Zips returns every indexed ZIP code in ascending order.
func (idx *RateAreaIndex) Zips() []string {
	zips := make([]string, 0, len(idx.areas))
	for zip := range idx.areas {
		zips = append(zips, zip)
	}
	sort.Strings(zips)
	return zips
}

// Len returns the number of indexed ZIP codes.
func (idx *RateAreaIndex) Len() int {
	return len(idx.areas)
}
