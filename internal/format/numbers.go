package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Count renders n with thousands separators: 96096 -> "96,096".
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// Money renders v with two decimals and thousands separators.
func Money(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return humanize.FormatFloat("#,###.##", v)
}

// Float renders v with the given precision; NaN renders as "-".
func Float(v float64, prec int) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// Percent renders part/whole as a percentage with one decimal.
func Percent(part, whole int) string {
	if whole == 0 {
		return "0.0%"
	}
	return strconv.FormatFloat(100*float64(part)/float64(whole), 'f', 1, 64) + "%"
}

// Bar renders a proportional bar of at most width cells.
func Bar(part, max, width int) string {
	if max <= 0 || part <= 0 {
		return ""
	}
	n := int(math.Round(float64(part) / float64(max) * float64(width)))
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
