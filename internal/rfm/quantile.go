package rfm

import (
	"math"
	"sort"
)

// Cuts are the 25th, 50th and 75th percentiles of one metric.
type Cuts struct {
	Q25 float64
	Q50 float64
	Q75 float64
}

// Thresholds holds the quartile cuts of each metric over a population.
type Thresholds struct {
	Recency   Cuts
	Frequency Cuts
	Monetary  Cuts
}

// ComputeThresholds computes per-metric quartiles over rows.
func ComputeThresholds(rows []CustomerRFM) (Thresholds, error) {
	if len(rows) == 0 {
		return Thresholds{}, ErrEmptyPopulation
	}
	r := make([]float64, len(rows))
	f := make([]float64, len(rows))
	m := make([]float64, len(rows))
	for i, c := range rows {
		r[i] = float64(c.Recency)
		f[i] = float64(c.Frequency)
		m[i] = c.Monetary
	}
	return Thresholds{
		Recency:   quartiles(r),
		Frequency: quartiles(f),
		Monetary:  quartiles(m),
	}, nil
}

func quartiles(values []float64) Cuts {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return Cuts{
		Q25: quantileSorted(sorted, 0.25),
		Q50: quantileSorted(sorted, 0.50),
		Q75: quantileSorted(sorted, 0.75),
	}
}

// Quantile returns the q-th quantile of values using linear interpolation
// between the closest ranks. values need not be sorted. It returns NaN for an
// empty slice.
func Quantile(values []float64, q float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return quantileSorted(sorted, q)
}

func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := float64(n-1) * q
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
