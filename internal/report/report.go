// Package report renders an analysis result as a console report.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"rfmseg/internal/analysis"
	"rfmseg/internal/display"
	"rfmseg/internal/format"
	"rfmseg/internal/ingest"
	"rfmseg/internal/rfm"
)

const barWidth = 30

// Format renders every report section in mode m.
func Format(res *analysis.Result, m format.Mode) string {
	var b strings.Builder

	b.WriteString("=== RFM Customer Segmentation ===\n")
	b.WriteString(fmt.Sprintf("Snapshot:  %s\n", res.Snapshot.Format(time.DateTime)))
	b.WriteString(fmt.Sprintf("Customers: %s\n", format.Count(len(res.Customers))))
	b.WriteString(fmt.Sprintf("Monetary:  %s\n", monetaryLabel(res.Multiplicity)))
	if n := res.Unclassified(); n > 0 {
		b.WriteString(fmt.Sprintf("Unclassified: %s\n", format.Count(n)))
	}
	b.WriteString("\n")

	if len(res.Tables) > 0 {
		b.WriteString(Tables(res.Tables, res.Join, m))
		b.WriteString("\n")
	}
	b.WriteString(Orders(res.OrdersPerCustomer, m))
	b.WriteString("\n")
	b.WriteString(Thresholds(res.Thresholds, m))
	b.WriteString("\n")
	b.WriteString(Distribution(res.Summary, m))
	b.WriteString("\n")
	b.WriteString(Means(res.Summary, m))
	b.WriteString("\n")
	if w := Warnings(res.Coverage); w != "" {
		b.WriteString(w)
		b.WriteString("\n")
	}
	b.WriteString(Playbook(res.Summary, m))
	return b.String()
}

func monetaryLabel(mode ingest.Multiplicity) string {
	if mode == ingest.PerPayment {
		return "one row per payment"
	}
	return "payments repeated per line item"
}

// Tables renders the per-table cleaning counts followed by the join counts.
func Tables(stats []ingest.Stats, js ingest.JoinStats, m format.Mode) string {
	tbl := format.NewTable(m)
	tbl.Title("Input tables")
	tbl.Header("Table", "Read", "Kept", "Dropped")
	tbl.RightAlignFrom(2, 4)
	for _, s := range stats {
		tbl.Row(string(s.Table), format.Count(s.Read), format.Count(s.Kept), format.Count(s.Read-s.Kept))
	}

	var b strings.Builder
	b.WriteString(tbl.String())
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Joined facts: %s from %s orders (%s customers)\n",
		format.Count(js.Facts), format.Count(js.Orders), format.Count(js.DistinctCustomers)))
	if js.NoCustomer > 0 || js.NoPayment > 0 {
		b.WriteString(fmt.Sprintf("Dropped orders: %s without customer, %s without payment\n",
			format.Count(js.NoCustomer), format.Count(js.NoPayment)))
	}
	if js.InflatedFacts > 0 {
		b.WriteString(fmt.Sprintf("Payment rows repeated for multi-item orders: %s\n", format.Count(js.InflatedFacts)))
	}
	return b.String()
}

// Orders renders the orders-per-customer description.
func Orders(d rfm.Description, m format.Mode) string {
	tbl := format.NewTable(m)
	tbl.Title("Orders per unique customer")
	tbl.Header("count", "mean", "std", "min", "25%", "50%", "75%", "max")
	tbl.RightAlignFrom(1, 8)
	tbl.Row(format.Count(d.Count), format.Float(d.Mean, 3), format.Float(d.Std, 3),
		format.Float(d.Min, 0), format.Float(d.Q25, 2), format.Float(d.Q50, 2),
		format.Float(d.Q75, 2), format.Float(d.Max, 0))
	return tbl.String() + "\n"
}

// Thresholds renders the quartile cuts of each metric.
func Thresholds(th rfm.Thresholds, m format.Mode) string {
	tbl := format.NewTable(m)
	tbl.Title("Quartile thresholds")
	tbl.Header("Metric", "25%", "50%", "75%")
	tbl.RightAlignFrom(2, 4)
	for _, row := range []struct {
		name string
		cuts rfm.Cuts
	}{
		{"Recency", th.Recency},
		{"Frequency", th.Frequency},
		{"Monetary", th.Monetary},
	} {
		tbl.Row(display.Metric(row.name), format.Float(row.cuts.Q25, 2),
			format.Float(row.cuts.Q50, 2), format.Float(row.cuts.Q75, 2))
	}
	return tbl.String() + "\n"
}

// Distribution renders customer counts per segment, largest first.
func Distribution(summary []rfm.SegmentSummary, m format.Mode) string {
	total, largest := 0, 0
	for _, s := range summary {
		total += s.Count
		largest = max(largest, s.Count)
	}

	tbl := format.NewTable(m)
	tbl.Title("Customer segment distribution")
	tbl.Header("Segment", "Customers", "Share", "")
	tbl.RightAlignFrom(2, 3)
	for _, s := range summary {
		tbl.Row(s.Segment, format.Count(s.Count), format.Percent(s.Count, total),
			format.Bar(s.Count, largest, barWidth))
	}
	tbl.Footer("Total", format.Count(total), format.Percent(total, total), "")
	return tbl.String() + "\n"
}

// Means renders the mean metrics of each segment.
func Means(summary []rfm.SegmentSummary, m format.Mode) string {
	tbl := format.NewTable(m)
	tbl.Title("Mean RFM values per segment")
	tbl.Header("Segment", display.Metric("Recency"), display.Metric("Frequency"), display.Metric("Monetary"))
	tbl.RightAlignFrom(2, 4)
	for _, s := range summary {
		tbl.Row(s.Segment, format.Float(s.MeanRecency, 1), format.Float(s.MeanFrequency, 2), format.Money(s.MeanMonetary))
	}
	return tbl.String() + "\n"
}

// Warnings lists rules that never win and keys no rule covers. It returns
// "" when the rule table has neither.
func Warnings(cov rfm.Coverage) string {
	dead := cov.Dead()
	if len(dead) == 0 && len(cov.Uncovered) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("--- Rule table warnings ---\n")
	for _, rc := range dead {
		if rc.Matches == 0 {
			b.WriteString(fmt.Sprintf("  rule %d %s matches no score key\n", rc.Position, display.RuleLabel(rc.Rule)))
			continue
		}
		b.WriteString(fmt.Sprintf("  rule %d %s is unreachable, shadowed by %s\n",
			rc.Position, display.RuleLabel(rc.Rule), strings.Join(rc.ShadowedBy, ", ")))
	}
	if len(cov.Uncovered) > 0 {
		b.WriteString(fmt.Sprintf("  %d score keys fall through to %q: %s\n",
			len(cov.Uncovered), rfm.Unclassified, strings.Join(cov.Uncovered, " ")))
	}
	return b.String()
}

// Coverage renders the rule table with match and win counts per rule.
func Coverage(cov rfm.Coverage, m format.Mode) string {
	tbl := format.NewTable(m)
	tbl.Title("Segment rules")
	tbl.Header("#", "Pattern", "Segment", "Matches", "Wins", "Shadowed by")
	tbl.Columns(
		format.ColumnConfig{Number: 1, Align: format.AlignRight},
		format.ColumnConfig{Number: 4, Align: format.AlignRight},
		format.ColumnConfig{Number: 5, Align: format.AlignRight},
	)
	for _, rc := range cov.Rules {
		shadow := "-"
		if len(rc.ShadowedBy) > 0 {
			shadow = strings.Join(rc.ShadowedBy, ", ")
		}
		tbl.Row(rc.Position, rc.Rule.Pattern(), rc.Rule.Segment, rc.Matches, rc.Wins, shadow)
	}
	return tbl.String() + "\n"
}

// Playbook renders the description and action of every segment present,
// in alphabetical order. Segments without a playbook are listed without one.
func Playbook(summary []rfm.SegmentSummary, m format.Mode) string {
	names := make([]string, 0, len(summary))
	for _, s := range summary {
		names = append(names, s.Segment)
	}
	sort.Strings(names)

	tbl := format.NewTable(m)
	tbl.Title("Segment playbook")
	tbl.Header("Segment", "Profile", "Action")
	tbl.Columns(
		format.ColumnConfig{Number: 2, MaxWidth: 48},
		format.ColumnConfig{Number: 3, MaxWidth: 48},
	)
	for _, name := range names {
		p, ok := display.SegmentPlaybook(name)
		if !ok {
			tbl.Row(name, "-", "-")
			continue
		}
		tbl.Row(name, p.Description, p.Action)
	}
	return tbl.String() + "\n"
}
