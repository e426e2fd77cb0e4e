package rfm

// RuleCoverage describes how a rule fares among all 64 score keys.
type RuleCoverage struct {
	Position   int // 1-based
	Rule       Rule
	Matches    int      // keys the pattern matches on its own
	Wins       int      // keys for which it is the first match
	ShadowedBy []string // earlier segments that take keys this rule matches
}

// Shadowed reports whether the rule matches keys but never wins any.
func (c RuleCoverage) Shadowed() bool { return c.Matches > 0 && c.Wins == 0 }

// Coverage is the result of Analyze.
type Coverage struct {
	Rules     []RuleCoverage
	Uncovered []string // keys no rule matches, ascending
}

// Dead returns the rules that can never be selected.
func (c Coverage) Dead() []RuleCoverage {
	var out []RuleCoverage
	for _, rc := range c.Rules {
		if rc.Wins == 0 {
			out = append(out, rc)
		}
	}
	return out
}

// AllTriples enumerates every valid ScoreTriple in key order ("111" .. "444").
func AllTriples() []ScoreTriple {
	out := make([]ScoreTriple, 0, 64)
	for r := MinScore; r <= MaxScore; r++ {
		for f := MinScore; f <= MaxScore; f++ {
			for m := MinScore; m <= MaxScore; m++ {
				out = append(out, ScoreTriple{R: r, F: f, M: m})
			}
		}
	}
	return out
}

// Analyze evaluates rs over every score key.
func Analyze(rs RuleSet) Coverage {
	cov := Coverage{Rules: make([]RuleCoverage, len(rs))}
	shadow := make([]map[int]struct{}, len(rs))
	for i, r := range rs {
		cov.Rules[i] = RuleCoverage{Position: i + 1, Rule: r}
		shadow[i] = make(map[int]struct{})
	}
	for _, t := range AllTriples() {
		winner := -1
		for i, r := range rs {
			if !r.Matches(t) {
				continue
			}
			cov.Rules[i].Matches++
			if winner < 0 {
				winner = i
				cov.Rules[i].Wins++
				continue
			}
			shadow[i][winner] = struct{}{}
		}
		if winner < 0 {
			cov.Uncovered = append(cov.Uncovered, t.Key())
		}
	}
	for i := range rs {
		for j := range rs[:i] {
			if _, ok := shadow[i][j]; ok {
				cov.Rules[i].ShadowedBy = append(cov.Rules[i].ShadowedBy, rs[j].Segment)
			}
		}
	}
	return cov
}
