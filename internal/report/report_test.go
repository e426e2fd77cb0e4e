package report

import (
	"strings"
	"testing"
	"time"

	"rfmseg/internal/analysis"
	"rfmseg/internal/format"
	"rfmseg/internal/ingest"
	"rfmseg/internal/rfm"
)

func sampleResult() *analysis.Result {
	customers := []rfm.CustomerRFM{
		{CustomerKey: "a", Recency: 1, Frequency: 2, Monetary: 300, Segment: rfm.Champions},
		{CustomerKey: "b", Recency: 10, Frequency: 1, Monetary: 50, Segment: rfm.Champions},
		{CustomerKey: "c", Recency: 200, Frequency: 1, Monetary: 20, Segment: rfm.Hibernating},
	}
	return &analysis.Result{
		Tables: []ingest.Stats{
			{Table: ingest.Orders, Read: 10, Kept: 8},
			{Table: ingest.Payments, Read: 12, Kept: 12},
		},
		Join:         ingest.JoinStats{Orders: 8, Facts: 9, NoPayment: 1, InflatedFacts: 2, DistinctCustomers: 3},
		Multiplicity: ingest.PerLineItem,
		Snapshot:     time.Date(2018, 10, 18, 17, 30, 18, 0, time.UTC),
		Rules:        rfm.CanonicalRules(),
		Coverage:     rfm.Analyze(rfm.CanonicalRules()),
		Thresholds: rfm.Thresholds{
			Recency:   rfm.Cuts{Q25: 5.5, Q50: 10, Q75: 105},
			Frequency: rfm.Cuts{Q25: 1, Q50: 1, Q75: 1.5},
			Monetary:  rfm.Cuts{Q25: 35, Q50: 50, Q75: 175},
		},
		Customers:         customers,
		Summary:           rfm.Summarize(customers),
		OrdersPerCustomer: rfm.Describe([]float64{2, 1, 1}),
	}
}

func TestFormat_Sections(t *testing.T) {
	out := Format(sampleResult(), format.ASCII)
	for _, want := range []string{
		"=== RFM Customer Segmentation ===",
		"Snapshot:  2018-10-18 17:30:18",
		"payments repeated per line item",
		"Input tables",
		"Joined facts: 9 from 8 orders (3 customers)",
		"Payment rows repeated for multi-item orders: 2",
		"Orders per unique customer",
		"Quartile thresholds",
		"Recency (days)",
		"Customer segment distribution",
		"66.7%",
		"Mean RFM values per segment",
		"175.00",
		"Rule table warnings",
		"Segment playbook",
		"Reward with exclusive programs",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if strings.Contains(out, "Unclassified:") {
		t.Error("no customer is unclassified")
	}
}

func TestFormat_MarkdownWithoutTables(t *testing.T) {
	res := sampleResult()
	res.Tables = nil
	res.Multiplicity = ingest.PerPayment
	out := Format(res, format.Markdown)
	if strings.Contains(out, "Input tables") {
		t.Error("table section rendered without stats")
	}
	if !strings.Contains(out, "| Champions |") {
		t.Errorf("expected markdown rows, got:\n%s", out)
	}
	if !strings.Contains(out, "one row per payment") {
		t.Error("missing payment multiplicity label")
	}
}

func TestDistribution_OrderAndBars(t *testing.T) {
	out := Distribution(sampleResult().Summary, format.ASCII)
	champ := strings.Index(out, rfm.Champions)
	hib := strings.Index(out, rfm.Hibernating)
	if champ < 0 || hib < 0 || champ > hib {
		t.Errorf("expected Champions before Hibernating:\n%s", out)
	}
	if !strings.Contains(out, strings.Repeat("█", barWidth)) {
		t.Errorf("largest segment should get a full bar:\n%s", out)
	}
	if !strings.Contains(out, "100.0%") {
		t.Errorf("missing total share:\n%s", out)
	}
}

func TestWarnings(t *testing.T) {
	tests := []struct {
		name  string
		rules rfm.RuleSet
		want  []string
		empty bool
	}{
		{
			name:  "canonical",
			rules: rfm.CanonicalRules(),
			want: []string{
				"rule 4 4[1-2][1-2] → New Customers is unreachable, shadowed by Champions",
				"rule 7 [1-2][1-2][3-4] → At Risk is unreachable",
				"rule 9 [1-2][3-4][3-4] → Cannot Lose Them is unreachable, shadowed by Loyal Customers",
			},
		},
		{
			name:  "partial",
			rules: rfm.RuleSet{rfm.MustRule("4[1-4][1-4]", rfm.Champions)},
			want:  []string{`48 score keys fall through to "Unclassified"`},
		},
		{
			name: "clean",
			rules: rfm.RuleSet{
				rfm.MustRule("[1-4][1-4][1-4]", rfm.Champions),
			},
			empty: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Warnings(rfm.Analyze(tt.rules))
			if tt.empty {
				if out != "" {
					t.Errorf("expected no warnings, got:\n%s", out)
				}
				return
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("missing %q in:\n%s", w, out)
				}
			}
		})
	}
}

func TestCoverage_ListsEveryRule(t *testing.T) {
	cov := rfm.Analyze(rfm.CanonicalRules())
	out := Coverage(cov, format.ASCII)
	for _, rc := range cov.Rules {
		if !strings.Contains(out, rc.Rule.Pattern()) {
			t.Errorf("missing rule %s", rc.Rule.Pattern())
		}
	}
}

func TestPlaybook_CustomSegment(t *testing.T) {
	out := Playbook([]rfm.SegmentSummary{{Segment: "VIP", Count: 1}}, format.Markdown)
	if !strings.Contains(out, "| VIP | - | - |") {
		t.Errorf("custom segment row missing:\n%s", out)
	}
}
