package rfm

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDescribe(t *testing.T) {
	got := Describe([]float64{1, 1, 1, 2, 5})
	want := Description{
		Count: 5,
		Mean:  2,
		Std:   math.Sqrt(3),
		Min:   1,
		Q25:   1,
		Q50:   1,
		Q75:   2,
		Max:   5,
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Describe mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribe_Degenerate(t *testing.T) {
	if d := Describe(nil); d.Count != 0 || !math.IsNaN(d.Mean) {
		t.Errorf("empty Describe = %+v", d)
	}
	if d := Describe([]float64{3}); d.Mean != 3 || !math.IsNaN(d.Std) {
		t.Errorf("single-value Describe = %+v", d)
	}
}

func TestOrdersPerCustomer(t *testing.T) {
	got := OrdersPerCustomer([]OrderFact{
		{CustomerKey: "a", OrderID: "1"},
		{CustomerKey: "a", OrderID: "1"},
		{CustomerKey: "a", OrderID: "2"},
		{CustomerKey: "b", OrderID: "3"},
	})
	if diff := cmp.Diff(map[string]int{"a": 2, "b": 1}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestHistogram(t *testing.T) {
	bins := Histogram([]float64{0, 1, 2, 3, 4, 10}, 5)
	if len(bins) != 5 {
		t.Fatalf("len = %d", len(bins))
	}
	counts := make([]int, len(bins))
	for i, b := range bins {
		counts[i] = b.Count
	}
	if diff := cmp.Diff([]int{2, 2, 1, 0, 1}, counts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
	if bins[4].Hi != 10 {
		t.Errorf("last bin upper edge = %v, want 10", bins[4].Hi)
	}
}

func TestHistogram_UnsortedInputKeepsEveryValue(t *testing.T) {
	values := []float64{250.5, 0.85, 13664.08, 89.9, 0.85, 1200}
	bins := Histogram(values, 50)
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != len(values) {
		t.Errorf("total = %d, want %d", total, len(values))
	}
	if bins[0].Count != 4 || bins[49].Count != 1 {
		t.Errorf("first/last bin = %d/%d, want 4/1", bins[0].Count, bins[49].Count)
	}
	if bins[0].Lo != 0.85 || bins[49].Hi != 13664.08 {
		t.Errorf("edges = %v..%v", bins[0].Lo, bins[49].Hi)
	}
}

func TestDescribe_TwoValues(t *testing.T) {
	d := Describe([]float64{4, 1})
	if d.Mean != 2.5 || math.Abs(d.Std-math.Sqrt(4.5)) > 1e-12 {
		t.Errorf("Describe = %+v, want mean 2.5 std sqrt(4.5)", d)
	}
}

func TestHistogram_Constant(t *testing.T) {
	bins := Histogram([]float64{7, 7, 7}, 3)
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
}

func TestDistinctCounts(t *testing.T) {
	got := DistinctCounts([]int{1, 2, 1, 1, 5})
	want := []Bin{{Lo: 1, Hi: 1, Count: 3}, {Lo: 2, Hi: 2, Count: 1}, {Lo: 5, Hi: 5, Count: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
