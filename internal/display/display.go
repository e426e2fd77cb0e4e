// Package display provides human-readable text for segments and metrics.
//
// Machine values (segment names, score keys, column names) stay as they are
// in exports; these helpers are for console reports only.
package display

import "rfmseg/internal/rfm"

// Playbook describes a segment and the action recommended for it.
type Playbook struct {
	Description string
	Action      string
}

var playbooks = map[string]Playbook{
	rfm.Champions: {
		Description: "Bought very recently; top quartile on recency",
		Action:      "Reward with exclusive programs and early access",
	},
	rfm.LoyalCustomers: {
		Description: "Repeat buyers with high spend",
		Action:      "Retain through loyalty benefits and upsell",
	},
	rfm.PotentialLoyalists: {
		Description: "High-value buyers who have ordered only once or twice",
		Action:      "Convert to repeat customers with targeted campaigns",
	},
	rfm.NewCustomers: {
		Description: "Recent first purchase with low spend",
		Action:      "Onboard and encourage a second order",
	},
	rfm.AboutToSleep: {
		Description: "Low recency, low frequency and low spend",
		Action:      "Re-engage with low-cost reminders",
	},
	rfm.Hibernating: {
		Description: "Lapsed buyers with low spend",
		Action:      "Re-activate with relevant offers or let go",
	},
	rfm.AtRisk: {
		Description: "Spent well but have not returned in a while",
		Action:      "Win back with personalised outreach",
	},
	rfm.Promising: {
		Description: "Fairly recent buyers who have not yet spent much",
		Action:      "Build awareness and offer incentives",
	},
	rfm.CannotLoseThem: {
		Description: "Former heavy buyers who have gone quiet",
		Action:      "Contact directly before they churn",
	},
	rfm.Unclassified: {
		Description: "Score key matched no segment rule",
		Action:      "Review the segment rule table",
	},
}

// SegmentPlaybook returns the playbook for a segment. Unknown segments
// (custom rule tables) get an empty playbook and false.
func SegmentPlaybook(segment string) (Playbook, bool) {
	p, ok := playbooks[segment]
	return p, ok
}

var metrics = map[string]string{
	"Recency":   "Recency (days)",
	"Frequency": "Frequency (orders)",
	"Monetary":  "Monetary value",
}

// Metric returns the labelled form of a metric column. Unknown names are
// returned as-is.
func Metric(name string) string {
	if label, ok := metrics[name]; ok {
		return label
	}
	return name
}

// RuleLabel renders a rule as "4[1-4][1-4] → Champions".
func RuleLabel(r rfm.Rule) string {
	return r.Pattern() + " → " + r.Segment
}
