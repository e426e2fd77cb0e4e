package rfm

import "fmt"

// Segmenter scores customers against a fixed population and labels them.
type Segmenter struct {
	rules      RuleSet
	thresholds Thresholds
	members    map[string]struct{}
}

// NewSegmenter computes thresholds over population. A nil rules uses the
// canonical table.
func NewSegmenter(population []CustomerRFM, rules RuleSet) (*Segmenter, error) {
	th, err := ComputeThresholds(population)
	if err != nil {
		return nil, err
	}
	if rules == nil {
		rules = CanonicalRules()
	}
	members := make(map[string]struct{}, len(population))
	for _, c := range population {
		members[c.CustomerKey] = struct{}{}
	}
	return &Segmenter{rules: rules, thresholds: th, members: members}, nil
}

// Thresholds returns the quartile cuts the segmenter scores against.
func (s *Segmenter) Thresholds() Thresholds { return s.thresholds }

// Rules returns the rule table in evaluation order.
func (s *Segmenter) Rules() RuleSet { return s.rules }

// Label returns c with scores and segment filled in.
func (s *Segmenter) Label(c CustomerRFM) (CustomerRFM, error) {
	if _, ok := s.members[c.CustomerKey]; !ok {
		return c, fmt.Errorf("%w: %q", ErrUnknownCustomer, c.CustomerKey)
	}
	c.Scores = s.thresholds.Score(c)
	c.Segment, _ = s.rules.Classify(c.Scores)
	return c, nil
}

// Apply labels rows in place. It stops at the first customer outside the
// population.
func (s *Segmenter) Apply(rows []CustomerRFM) error {
	for i := range rows {
		labeled, err := s.Label(rows[i])
		if err != nil {
			return err
		}
		rows[i] = labeled
	}
	return nil
}

// Segment scores and labels rows against their own population.
func Segment(rows []CustomerRFM, rules RuleSet) (Thresholds, error) {
	s, err := NewSegmenter(rows, rules)
	if err != nil {
		return Thresholds{}, err
	}
	return s.thresholds, s.Apply(rows)
}

// Reclassify recomputes the segment from the stored scores only.
func Reclassify(rows []CustomerRFM, rules RuleSet) {
	for i := range rows {
		rows[i].Segment, _ = rules.Classify(rows[i].Scores)
	}
}
