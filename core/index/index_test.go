package index

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"slcsp/core/money"
	"slcsp/core/types"
)

func area(state, code string) types.RateAreaKey {
	return types.RateAreaKey{State: state, RateArea: code}
}

func plan(state, code, rate string) types.PlanRow {
	return types.PlanRow{Area: area(state, code), MetalLevel: "silver", Rate: money.MustParseRate(rate)}
}

func raw(rates []money.Rate) []string {
	out := make([]string, len(rates))
	for i, r := range rates {
		out[i] = r.StringRaw()
	}
	return out
}

// TestRateAreaIndexCollapsesDuplicates tests set semantics per ZIP
func TestRateAreaIndexCollapsesDuplicates(t *testing.T) {
	idx := BuildRateAreaIndex([]types.ZipRow{
		{Zipcode: "11111", Area: area("NY", "1")},
		{Zipcode: "11111", Area: area("NY", "1")},
		{Zipcode: "22222", Area: area("CA", "8")},
		{Zipcode: "22222", Area: area("CA", "7")},
		{Zipcode: "33333", Area: area("", "7")},
		{Zipcode: "", Area: area("CA", "7")},
	})

	if idx.Len() != 2 {
		t.Fatalf("expected 2 zips, got %d: %v", idx.Len(), idx.Zips())
	}
	if idx.Count("11111") != 1 {
		t.Errorf("duplicate rows must collapse, got %d areas", idx.Count("11111"))
	}
	if diff := cmp.Diff([]types.RateAreaKey{area("CA", "7"), area("CA", "8")}, idx.Areas("22222")); diff != "" {
		t.Errorf("areas mismatch (-want +got):\n%s", diff)
	}
	if idx.Areas("33333") != nil {
		t.Error("row with empty state must not be indexed")
	}
}

func TestRateAreaIndexSingle(t *testing.T) {
	idx := BuildRateAreaIndex([]types.ZipRow{
		{Zipcode: "11111", Area: area("NY", "1")},
		{Zipcode: "22222", Area: area("CA", "7")},
		{Zipcode: "22222", Area: area("CA", "8")},
	})

	tests := []struct {
		zip  string
		ok   bool
		want types.RateAreaKey
	}{
		{zip: "11111", ok: true, want: area("NY", "1")},
		{zip: "22222", ok: false},
		{zip: "99999", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.zip, func(t *testing.T) {
			got, ok := idx.Single(tt.zip)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRateAreaIndexSameCodeDifferentState(t *testing.T) {
	// Rate area "1" in two states is two different areas.
	idx := BuildRateAreaIndex([]types.ZipRow{
		{Zipcode: "42223", Area: area("KY", "1")},
		{Zipcode: "42223", Area: area("TN", "1")},
	})
	if idx.Count("42223") != 2 {
		t.Errorf("expected 2 areas, got %d", idx.Count("42223"))
	}
}

// TestSilverRateIndexDistinctSorted tests sorted, value-distinct rate lists
func TestSilverRateIndexDistinctSorted(t *testing.T) {
	idx := BuildSilverRateIndex([]types.PlanRow{
		plan("NY", "1", "201.10"),
		plan("NY", "1", "200.10"),
		plan("NY", "1", "200.100"),
		plan("NY", "1", "199.99"),
		plan("NJ", "1", "150"),
	})

	if diff := cmp.Diff([]string{"199.99", "200.1", "201.1"}, raw(idx.Rates(area("NY", "1")))); diff != "" {
		t.Errorf("rates mismatch (-want +got):\n%s", diff)
	}
	if idx.Count(area("NJ", "1")) != 1 {
		t.Errorf("expected 1 NJ rate, got %d", idx.Count(area("NJ", "1")))
	}
	if diff := cmp.Diff([]types.RateAreaKey{area("NJ", "1"), area("NY", "1")}, idx.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestSilverRateIndexSecondLowest(t *testing.T) {
	idx := BuildSilverRateIndex([]types.PlanRow{
		plan("NY", "1", "200.10"),
		plan("NY", "1", "200.10"),
		plan("NY", "1", "201.10"),
		plan("TX", "2", "410.00"),
		plan("WA", "3", "300"),
		plan("WA", "3", "300.00"),
	})

	tests := []struct {
		name string
		key  types.RateAreaKey
		ok   bool
		want string
	}{
		{name: "duplicates do not inflate", key: area("NY", "1"), ok: true, want: "201.10"},
		{name: "single rate", key: area("TX", "2"), ok: false},
		{name: "equal values are one rate", key: area("WA", "3"), ok: false},
		{name: "unknown area", key: area("FL", "9"), ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := idx.SecondLowest(tt.key)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && got.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSilverRateIndexRatesIsACopy(t *testing.T) {
	idx := BuildSilverRateIndex([]types.PlanRow{plan("NY", "1", "1"), plan("NY", "1", "2")})

	rates := idx.Rates(area("NY", "1"))
	rates[0] = money.MustParseRate("999")

	if got := idx.Rates(area("NY", "1"))[0].String(); got != "1.00" {
		t.Errorf("index mutated through returned slice: %s", got)
	}
}
