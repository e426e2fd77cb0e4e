// Package rfm derives Recency/Frequency/Monetary metrics per customer and
// labels each customer with a named segment from quartile scores.
package rfm

import (
	"fmt"
	"strconv"
	"time"
)

// OrderFact is one joined (order, line item, payment) row.
type OrderFact struct {
	CustomerKey string
	OrderID     string
	PurchasedAt time.Time
	Payment     float64
}

// CustomerRFM holds the derived metrics for one customer. Scores and Segment
// are zero until a Segmenter has been applied.
type CustomerRFM struct {
	CustomerKey string
	Recency     int
	Frequency   int
	Monetary    float64
	Scores      ScoreTriple
	Segment     string
}

// ScoreTriple is the (R, F, M) quartile score of a customer, each in 1..4.
type ScoreTriple struct {
	R int
	F int
	M int
}

// Key returns the concatenated digits, e.g. "432".
func (t ScoreTriple) Key() string {
	return strconv.Itoa(t.R) + strconv.Itoa(t.F) + strconv.Itoa(t.M)
}

// Valid reports whether every score is in 1..4.
func (t ScoreTriple) Valid() bool {
	return validScore(t.R) && validScore(t.F) && validScore(t.M)
}

func validScore(s int) bool { return s >= MinScore && s <= MaxScore }

// ParseScoreTriple parses a 3-digit key such as "422".
func ParseScoreTriple(key string) (ScoreTriple, error) {
	if len(key) != 3 {
		return ScoreTriple{}, fmt.Errorf("%w: %q must have 3 digits", ErrInvalidScore, key)
	}
	var d [3]int
	for i := 0; i < 3; i++ {
		c := key[i]
		if c < '0'+MinScore || c > '0'+MaxScore {
			return ScoreTriple{}, fmt.Errorf("%w: %q position %d", ErrInvalidScore, key, i+1)
		}
		d[i] = int(c - '0')
	}
	return ScoreTriple{R: d[0], F: d[1], M: d[2]}, nil
}

// Score bounds.
const (
	MinScore = 1
	MaxScore = 4
)

// Unclassified is assigned when no rule matches a score key.
const Unclassified = "Unclassified"
