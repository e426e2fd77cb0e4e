// Package analysis runs the end-to-end segmentation: ingest, metric
// derivation, scoring, labeling and aggregation.
package analysis

import (
	"context"
	"fmt"
	"time"

	"rfmseg/internal/ingest"
	"rfmseg/internal/logging"
	"rfmseg/internal/rfm"
)

// Options configure a run.
type Options struct {
	Ingest         ingest.Options
	Multiplicity   ingest.Multiplicity
	SnapshotOffset time.Duration // added to the latest purchase as given, zero included
	Rules          rfm.RuleSet   // nil = canonical table
}

// Result is everything a report or export needs.
type Result struct {
	Tables       []ingest.Stats
	Join         ingest.JoinStats
	Multiplicity ingest.Multiplicity
	Snapshot     time.Time
	Rules        rfm.RuleSet
	Coverage     rfm.Coverage
	Thresholds   rfm.Thresholds
	Customers    []rfm.CustomerRFM
	Summary      []rfm.SegmentSummary

	// OrdersPerCustomer describes the distinct-order count per customer.
	OrdersPerCustomer rfm.Description
}

// Run loads the tables from disk and segments their customers.
func Run(ctx context.Context, opts Options) (*Result, error) {
	ds, err := ingest.Load(ctx, opts.Ingest)
	if err != nil {
		return nil, err
	}
	facts, js := ds.Facts(opts.Multiplicity)
	logging.New("ingest").Info("cleaned dataframes merged",
		"facts", js.Facts, "customers", js.DistinctCustomers,
		"dropped_no_customer", js.NoCustomer, "dropped_no_payment", js.NoPayment,
		"inflated_facts", js.InflatedFacts, "multiplicity", opts.Multiplicity)

	res, err := FromFacts(facts, opts)
	if err != nil {
		return nil, err
	}
	res.Tables = ds.Stats
	res.Join = js
	return res, nil
}

// FromFacts segments already joined order facts.
func FromFacts(facts []rfm.OrderFact, opts Options) (*Result, error) {
	logger := logging.New("segment")

	rules := opts.Rules
	if rules == nil {
		rules = rfm.CanonicalRules()
	}
	cov := rfm.Analyze(rules)
	for _, rc := range cov.Dead() {
		logger.Warn("segment rule can never match",
			"position", rc.Position, "pattern", rc.Rule.Pattern(),
			"segment", rc.Rule.Segment, "shadowed_by", rc.ShadowedBy)
	}
	if len(cov.Uncovered) > 0 {
		logger.Warn("score keys match no segment rule", "keys", cov.Uncovered)
	}

	snapshot, err := rfm.SnapshotDate(facts, opts.SnapshotOffset)
	if err != nil {
		return nil, fmt.Errorf("snapshot date: %w", err)
	}

	customers := rfm.Derive(facts, snapshot)
	logger.Info("rfm metrics calculated", "customers", len(customers), "snapshot", snapshot.Format(time.DateTime))

	seg, err := rfm.NewSegmenter(customers, rules)
	if err != nil {
		return nil, fmt.Errorf("segmenter: %w", err)
	}
	if err := seg.Apply(customers); err != nil {
		return nil, fmt.Errorf("label customers: %w", err)
	}
	summary := rfm.Summarize(customers)
	logger.Info("rfm scoring and segmentation complete", "segments", len(summary))

	perCustomer := rfm.OrdersPerCustomer(facts)
	counts := make([]float64, 0, len(perCustomer))
	for _, n := range perCustomer {
		counts = append(counts, float64(n))
	}

	return &Result{
		Multiplicity:      opts.Multiplicity,
		Snapshot:          snapshot,
		Rules:             rules,
		Coverage:          cov,
		Thresholds:        seg.Thresholds(),
		Customers:         customers,
		Summary:           summary,
		OrdersPerCustomer: rfm.Describe(counts),
	}, nil
}

// RepeatCustomers returns the customers with more than one order.
func (r *Result) RepeatCustomers() []rfm.CustomerRFM {
	var out []rfm.CustomerRFM
	for _, c := range r.Customers {
		if c.Frequency > 1 {
			out = append(out, c)
		}
	}
	return out
}

// Unclassified counts customers whose score key matched no rule.
func (r *Result) Unclassified() int {
	n := 0
	for _, c := range r.Customers {
		if c.Segment == rfm.Unclassified {
			n++
		}
	}
	return n
}
