package rfm

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genFacts produces order facts for up to 8 customers over a one-year window.
func genFacts() gopter.Gen {
	base := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	fact := gopter.CombineGens(
		gen.IntRange(0, 7),
		gen.IntRange(0, 20),
		gen.IntRange(0, 365*24),
		gen.Float64Range(0.01, 5000),
	).Map(func(vals []interface{}) OrderFact {
		return OrderFact{
			CustomerKey: fmt.Sprintf("cust-%d", vals[0].(int)),
			OrderID:     fmt.Sprintf("order-%d", vals[1].(int)),
			PurchasedAt: base.Add(time.Duration(vals[2].(int)) * time.Hour),
			Payment:     vals[3].(float64),
		}
	})
	return gen.SliceOf(fact, reflect.TypeOf(OrderFact{})).SuchThat(func(v interface{}) bool {
		return len(v.([]OrderFact)) > 0
	})
}

func genTriple() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(MinScore, MaxScore),
		gen.IntRange(MinScore, MaxScore),
		gen.IntRange(MinScore, MaxScore),
	).Map(func(vals []interface{}) ScoreTriple {
		return ScoreTriple{R: vals[0].(int), F: vals[1].(int), M: vals[2].(int)}
	})
}

func genCuts() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
	).Map(func(vals []interface{}) Cuts {
		q := []float64{vals[0].(float64), vals[1].(float64), vals[2].(float64)}
		for i := 1; i < len(q); i++ {
			for j := i; j > 0 && q[j] < q[j-1]; j-- {
				q[j], q[j-1] = q[j-1], q[j]
			}
		}
		return Cuts{Q25: q[0], Q50: q[1], Q75: q[2]}
	})
}

func TestProperty_MetricBounds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("derived metrics respect their bounds", prop.ForAll(
		func(facts []OrderFact) bool {
			snap, err := SnapshotDate(facts, DefaultSnapshotOffset)
			if err != nil {
				return false
			}
			rows := Derive(facts, snap)
			seen := make(map[string]bool)
			for _, c := range rows {
				if c.Recency < 0 || c.Frequency < 1 || c.Monetary < 0 {
					t.Logf("out of bounds: %+v", c)
					return false
				}
				if seen[c.CustomerKey] {
					t.Logf("duplicate customer %s", c.CustomerKey)
					return false
				}
				seen[c.CustomerKey] = true
			}
			return len(rows) == len(OrdersPerCustomer(facts))
		},
		genFacts(),
	))

	properties.TestingRun(t)
}

func TestProperty_ScoringMonotonic(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("direct score never decreases with the value", prop.ForAll(
		func(c Cuts, a, b float64) bool {
			if a > b {
				a, b = b, a
			}
			return ScoreDirect(a, c) <= ScoreDirect(b, c)
		},
		genCuts(), gen.Float64Range(-10, 110), gen.Float64Range(-10, 110),
	))

	properties.Property("recency score never increases with the value", prop.ForAll(
		func(c Cuts, a, b float64) bool {
			if a > b {
				a, b = b, a
			}
			return ScoreRecency(a, c) >= ScoreRecency(b, c)
		},
		genCuts(), gen.Float64Range(-10, 110), gen.Float64Range(-10, 110),
	))

	properties.TestingRun(t)
}

func TestProperty_SegmentIsFunctionOfScores(t *testing.T) {
	rules := CanonicalRules()
	properties := gopter.NewProperties(nil)

	properties.Property("identical triples yield identical segments", prop.ForAll(
		func(tr ScoreTriple) bool {
			a, _ := rules.Classify(tr)
			b, _ := rules.Classify(ScoreTriple{R: tr.R, F: tr.F, M: tr.M})
			return a == b
		},
		genTriple(),
	))

	properties.Property("the segment is the first declared match", prop.ForAll(
		func(tr ScoreTriple) bool {
			got, ok := rules.Classify(tr)
			for _, r := range rules {
				if r.Matches(tr) {
					return ok && got == r.Segment
				}
			}
			return !ok && got == Unclassified
		},
		genTriple(),
	))

	properties.TestingRun(t)
}

func TestProperty_ReclassifyRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("classifying exported scores reproduces the segment", prop.ForAll(
		func(facts []OrderFact) bool {
			snap, _ := SnapshotDate(facts, DefaultSnapshotOffset)
			rows := Derive(facts, snap)
			if _, err := Segment(rows, nil); err != nil {
				return false
			}
			for _, c := range rows {
				tr, err := ParseScoreTriple(c.Scores.Key())
				if err != nil {
					return false
				}
				if seg, _ := CanonicalRules().Classify(tr); seg != c.Segment {
					return false
				}
			}
			return true
		},
		genFacts(),
	))

	properties.TestingRun(t)
}
