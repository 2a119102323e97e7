package index

import (
	"sort"

	"slcsp/core/money"
	"slcsp/core/types"
)

// SilverRateIndex maps a rate area to its distinct silver rates, ascending.
// It is immutable once built.
type SilverRateIndex struct {
	rates map[types.RateAreaKey][]money.Rate
}

// BuildSilverRateIndex indexes plan rows that were already filtered to the
// silver metal level by ingestion. Rates are gathered into a per-area set
// first and sorted once at the end, so equal values written differently
// ("200.10", "200.100") count once.
func BuildSilverRateIndex(rows []types.PlanRow) *SilverRateIndex {
	sets := make(map[types.RateAreaKey]*money.Set)
	for _, row := range rows {
		if row.Area.State == "" || row.Area.RateArea == "" {
			continue
		}
		set, ok := sets[row.Area]
		if !ok {
			set = &money.Set{}
			sets[row.Area] = set
		}
		set.Add(row.Rate)
	}

	idx := &SilverRateIndex{rates: make(map[types.RateAreaKey][]money.Rate, len(sets))}
	for key, set := range sets {
		idx.rates[key] = set.Sorted()
	}
	return idx
}

// Rates returns a copy of the distinct ascending rates of key.
func (idx *SilverRateIndex) Rates(key types.RateAreaKey) []money.Rate {
	rates := idx.rates[key]
	if len(rates) == 0 {
		return nil
	}
	out := make([]money.Rate, len(rates))
	copy(out, rates)
	return out
}

// SecondLowest returns the second-lowest distinct rate of key. It reports
// false when the area has fewer than two distinct rates.
func (idx *SilverRateIndex) SecondLowest(key types.RateAreaKey) (money.Rate, bool) {
	rates := idx.rates[key]
	if len(rates) < 2 {
		return money.Rate{}, false
	}
	return rates[1], true
}

// Count returns the number of distinct rates of key.
func (idx *SilverRateIndex) Count(key types.RateAreaKey) int {
	return len(idx.rates[key])
}

// Keys returns every indexed rate area, sorted.
func (idx *SilverRateIndex) Keys() []types.RateAreaKey {
	keys := make([]types.RateAreaKey, 0, len(idx.rates))
	for key := range idx.rates {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Len returns the number of indexed rate areas.
func (idx *SilverRateIndex) Len() int {
	return len(idx.rates)
}
