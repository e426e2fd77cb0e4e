package rfm

// ScoreRecency buckets x so that lower recency scores higher.
func ScoreRecency(x float64, c Cuts) int {
	switch {
	case x <= c.Q25:
		return 4
	case x <= c.Q50:
		return 3
	case x <= c.Q75:
		return 2
	default:
		return 1
	}
}

// ScoreDirect buckets x so that higher values score higher. Used for
// Frequency and Monetary.
func ScoreDirect(x float64, c Cuts) int {
	switch {
	case x <= c.Q25:
		return 1
	case x <= c.Q50:
		return 2
	case x <= c.Q75:
		return 3
	default:
		return 4
	}
}

// Score computes the ScoreTriple of c against th.
func (th Thresholds) Score(c CustomerRFM) ScoreTriple {
	return ScoreTriple{
		R: ScoreRecency(float64(c.Recency), th.Recency),
		F: ScoreDirect(float64(c.Frequency), th.Frequency),
		M: ScoreDirect(c.Monetary, th.Monetary),
	}
}
