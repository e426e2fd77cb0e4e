package rfm

import (
	"fmt"
	"strings"
)

// Range is an inclusive score interval.
type Range struct {
	Lo int
	Hi int
}

// Contains reports whether s lies in the range.
func (r Range) Contains(s int) bool { return s >= r.Lo && s <= r.Hi }

func (r Range) String() string {
	if r.Lo == r.Hi {
		return fmt.Sprintf("%d", r.Lo)
	}
	return fmt.Sprintf("[%d-%d]", r.Lo, r.Hi)
}

// Rule maps every ScoreTriple inside its three ranges to a segment name.
type Rule struct {
	Segment string
	R       Range
	F       Range
	M       Range
}

// Matches reports whether t falls inside all three ranges.
func (r Rule) Matches(t ScoreTriple) bool {
	return r.R.Contains(t.R) && r.F.Contains(t.F) && r.M.Contains(t.M)
}

// Pattern renders the rule in character-class form, e.g. "4[1-4][1-4]".
func (r Rule) Pattern() string {
	return r.R.String() + r.F.String() + r.M.String()
}

// NewRule parses a character-class pattern such as "[1-3][3-4][3-4]".
// Each of the three positions is either a single digit or a range [a-b].
func NewRule(pattern, segment string) (Rule, error) {
	if strings.TrimSpace(segment) == "" {
		return Rule{}, fmt.Errorf("%w: %q has no segment name", ErrInvalidPattern, pattern)
	}
	var ranges []Range
	rest := pattern
	for rest != "" {
		var (
			r   Range
			err error
		)
		r, rest, err = parsePosition(rest)
		if err != nil {
			return Rule{}, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
		}
		ranges = append(ranges, r)
	}
	if len(ranges) != 3 {
		return Rule{}, fmt.Errorf("%w: %q has %d positions, want 3", ErrInvalidPattern, pattern, len(ranges))
	}
	return Rule{Segment: segment, R: ranges[0], F: ranges[1], M: ranges[2]}, nil
}

// MustRule is NewRule that panics on error, for static tables.
func MustRule(pattern, segment string) Rule {
	r, err := NewRule(pattern, segment)
	if err != nil {
		panic(err)
	}
	return r
}

func parsePosition(s string) (Range, string, error) {
	if s[0] != '[' {
		d, err := digit(s[0])
		if err != nil {
			return Range{}, "", err
		}
		return Range{Lo: d, Hi: d}, s[1:], nil
	}
	if len(s) < 5 || s[2] != '-' || s[4] != ']' {
		return Range{}, "", fmt.Errorf("malformed class near %q", s)
	}
	lo, err := digit(s[1])
	if err != nil {
		return Range{}, "", err
	}
	hi, err := digit(s[3])
	if err != nil {
		return Range{}, "", err
	}
	if lo > hi {
		return Range{}, "", fmt.Errorf("empty class [%d-%d]", lo, hi)
	}
	return Range{Lo: lo, Hi: hi}, s[5:], nil
}

func digit(c byte) (int, error) {
	if c < '0'+MinScore || c > '0'+MaxScore {
		return 0, fmt.Errorf("score digit %q outside %d..%d", c, MinScore, MaxScore)
	}
	return int(c - '0'), nil
}

// RuleSet is evaluated top to bottom; the first matching rule wins.
type RuleSet []Rule

// Classify returns the segment of the first rule matching t, or
// (Unclassified, false) when none does.
func (rs RuleSet) Classify(t ScoreTriple) (string, bool) {
	for _, r := range rs {
		if r.Matches(t) {
			return r.Segment, true
		}
	}
	return Unclassified, false
}

// Segment names of the canonical rule table.
const (
	Champions          = "Champions"
	LoyalCustomers     = "Loyal Customers"
	PotentialLoyalists = "Potential Loyalists"
	NewCustomers       = "New Customers"
	AboutToSleep       = "About to Sleep"
	Hibernating        = "Hibernating"
	AtRisk             = "At Risk"
	Promising          = "Promising"
	CannotLoseThem     = "Cannot Lose Them"
)

// CanonicalRules returns the standard segment table in declared order.
// Rules 4, 7 and 9 can never win: earlier rules cover all their keys.
// Analyze reports this; the order is kept as declared.
func CanonicalRules() RuleSet {
	return RuleSet{
		MustRule("4[1-4][1-4]", Champions),
		MustRule("[1-3][3-4][3-4]", LoyalCustomers),
		MustRule("[1-3][1-2][3-4]", PotentialLoyalists),
		MustRule("4[1-2][1-2]", NewCustomers),
		MustRule("[1-2][1-2][1-2]", AboutToSleep),
		MustRule("[1-2][1-4][1-2]", Hibernating),
		MustRule("[1-2][1-2][3-4]", AtRisk),
		MustRule("3[1-4][1-4]", Promising),
		MustRule("[1-2][3-4][3-4]", CannotLoseThem),
	}
}
