package rfm

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Description summarises a numeric column the way a describe() call would.
type Description struct {
	Count int
	Mean  float64
	Std   float64 // sample standard deviation
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Describe returns summary statistics of values. Std is NaN for fewer than
// two values; every field but Count is NaN for empty input.
func Describe(values []float64) Description {
	d := Description{Count: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		d.Mean, d.Std, d.Min, d.Q25, d.Q50, d.Q75, d.Max = nan, nan, nan, nan, nan, nan, nan
		return d
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		d.Std = math.NaN()
	}
	d.Min = sorted[0]
	d.Max = sorted[len(sorted)-1]
	d.Q25 = quantileSorted(sorted, 0.25)
	d.Q50 = quantileSorted(sorted, 0.50)
	d.Q75 = quantileSorted(sorted, 0.75)
	return d
}

// OrdersPerCustomer counts distinct orders per customer key.
func OrdersPerCustomer(facts []OrderFact) map[string]int {
	orders := make(map[string]map[string]struct{})
	for _, f := range facts {
		set, ok := orders[f.CustomerKey]
		if !ok {
			set = make(map[string]struct{})
			orders[f.CustomerKey] = set
		}
		set[f.OrderID] = struct{}{}
	}
	out := make(map[string]int, len(orders))
	for k, set := range orders {
		out[k] = len(set)
	}
	return out
}

// Bin is one histogram bucket covering [Lo, Hi); the last bin is closed.
type Bin struct {
	Lo    float64
	Hi    float64
	Count int
}

// Histogram splits values into n equal-width bins between min and max.
func Histogram(values []float64, n int) []Bin {
	if len(values) == 0 || n <= 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	dividers := floats.Span(make([]float64, n+1), lo, hi)
	// The last divider is exclusive; nudge it so max lands in the last bin.
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(make([]float64, n), dividers, sorted, nil)

	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{Lo: dividers[i], Hi: dividers[i+1], Count: int(counts[i])}
	}
	bins[n-1].Hi = hi
	return bins
}

// DistinctCounts returns (value, count) pairs for integer values, ascending.
func DistinctCounts(values []int) []Bin {
	counts := make(map[int]int)
	for _, v := range values {
		counts[v]++
	}
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]Bin, 0, len(keys))
	for _, k := range keys {
		out = append(out, Bin{Lo: float64(k), Hi: float64(k), Count: counts[k]})
	}
	return out
}
