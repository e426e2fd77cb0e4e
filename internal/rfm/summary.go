package rfm

import "sort"

// SegmentSummary aggregates the customers of one segment.
type SegmentSummary struct {
	Segment       string
	Count         int
	MeanRecency   float64
	MeanFrequency float64
	MeanMonetary  float64
}

// Summarize groups labeled rows by segment, ordered by descending count and
// then by segment name.
func Summarize(rows []CustomerRFM) []SegmentSummary {
	idx := make(map[string]int)
	var out []SegmentSummary
	for _, c := range rows {
		i, ok := idx[c.Segment]
		if !ok {
			i = len(out)
			idx[c.Segment] = i
			out = append(out, SegmentSummary{Segment: c.Segment})
		}
		s := &out[i]
		s.Count++
		s.MeanRecency += float64(c.Recency)
		s.MeanFrequency += float64(c.Frequency)
		s.MeanMonetary += c.Monetary
	}
	for i := range out {
		n := float64(out[i].Count)
		out[i].MeanRecency /= n
		out[i].MeanFrequency /= n
		out[i].MeanMonetary /= n
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Segment < out[b].Segment
	})
	return out
}
