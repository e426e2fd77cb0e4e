package format_test

import (
	"math"
	"strings"
	"testing"

	"rfmseg/internal/format"
)

func TestASCII_Table(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Title("Customer Segment Distribution")
	tb.Header("Segment", "Customers")
	tb.Row("Champions", format.Count(23521))
	tb.Row("About to Sleep", format.Count(18003))
	tb.RightAlignFrom(2, 2)
	out := tb.String()

	for _, want := range []string{"Customer Segment Distribution", "Segment", "Champions", "23,521", "───"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestASCII_TitleWiderThanTable(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Title("Orders per unique customer")
	tb.Header("n")
	tb.Row(1)
	out := tb.String()

	found := false
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Orders per unique customer") {
			found = true
		}
	}
	if !found {
		t.Errorf("title wrapped across lines:\n%s", out)
	}
}

func TestMarkdown_TableWithFooter(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("Segment", "Customers")
	tb.Row("Champions", 3)
	tb.Footer("Total", 3)
	out := tb.String()

	if !strings.Contains(out, "| Segment") || !strings.Contains(out, "---") {
		t.Errorf("expected markdown table:\n%s", out)
	}
	if !strings.Contains(out, "Total") {
		t.Errorf("expected footer:\n%s", out)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := format.ParseMode("markdown"); err != nil || m != format.Markdown {
		t.Errorf("ParseMode(markdown) = %v, %v", m, err)
	}
	if m, err := format.ParseMode(""); err != nil || m != format.ASCII {
		t.Errorf("ParseMode('') = %v, %v", m, err)
	}
	if _, err := format.ParseMode("html"); err == nil {
		t.Error("expected error for html")
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{96096, "96,096"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
		{-1234567, "-1,234,567"},
	}
	for _, tc := range tests {
		if got := format.Count(tc.in); got != tc.want {
			t.Errorf("Count(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{141.9, "141.90"},
		{13664.08, "13,664.08"},
		{-2.5, "-2.50"},
		{1234567.891, "1,234,567.89"},
		{math.NaN(), "-"},
	}
	for _, tc := range tests {
		if got := format.Money(tc.in); got != tc.want {
			t.Errorf("Money(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPercentAndBar(t *testing.T) {
	if got := format.Percent(1, 3); got != "33.3%" {
		t.Errorf("Percent(1,3) = %q", got)
	}
	if got := format.Percent(1, 0); got != "0.0%" {
		t.Errorf("Percent(1,0) = %q", got)
	}
	if got := format.Bar(5, 10, 10); got != strings.Repeat("█", 5) {
		t.Errorf("Bar(5,10,10) = %q", got)
	}
	if got := format.Bar(1, 1000, 10); got != "█" {
		t.Errorf("small non-zero part should render one cell, got %q", got)
	}
}
