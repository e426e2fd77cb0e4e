// Package config holds the run configuration of rfmseg.
package config

import (
	"fmt"
	"time"

	"rfmseg/internal/rfm"
)

// Monetary modes.
const (
	// MonetaryJoined sums payments over the order/item/payment join, so an
	// order with n line items contributes its payments n times.
	MonetaryJoined = "joined"
	// MonetaryPayments counts each payment row once.
	MonetaryPayments = "payments"
)

// Report modes.
const (
	ReportASCII    = "ascii"
	ReportMarkdown = "markdown"
)

// Config is the complete run configuration.
type Config struct {
	Input    Input      `yaml:"input" json:"input"`
	Analysis Analysis   `yaml:"analysis" json:"analysis"`
	Segments []RuleSpec `yaml:"segments,omitempty" json:"segments,omitempty"`
	Output   Output     `yaml:"output" json:"output"`
	Logging  Logging    `yaml:"logging" json:"logging"`
}

// Input locates the source CSV files.
type Input struct {
	Dir      string            `yaml:"dir" json:"dir"`
	Files    map[string]string `yaml:"files,omitempty" json:"files,omitempty"`
	Parallel int               `yaml:"parallel" json:"parallel"`
}

// Analysis tunes metric derivation.
type Analysis struct {
	OrderStatus    string `yaml:"order_status" json:"order_status"`
	SnapshotOffset string `yaml:"snapshot_offset" json:"snapshot_offset"`
	Monetary       string `yaml:"monetary" json:"monetary"`
	HistogramBins  int    `yaml:"histogram_bins" json:"histogram_bins"`
}

// RuleSpec is one segment rule in character-class form.
type RuleSpec struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	Name    string `yaml:"name" json:"name"`
}

// Output selects export targets. Empty XLSX or SQLite paths disable them.
type Output struct {
	CSV    string `yaml:"csv" json:"csv"`
	XLSX   string `yaml:"xlsx,omitempty" json:"xlsx,omitempty"`
	SQLite string `yaml:"sqlite,omitempty" json:"sqlite,omitempty"`
	Report string `yaml:"report" json:"report"`
}

// Logging configures the slog handler.
type Logging struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Input: Input{
			Dir:      ".",
			Parallel: 4,
		},
		Analysis: Analysis{
			OrderStatus:    "delivered",
			SnapshotOffset: "24h",
			Monetary:       MonetaryJoined,
			HistogramBins:  50,
		},
		Output: Output{
			CSV:    "olist_customer_segmentation.csv",
			Report: ReportASCII,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Offset parses Analysis.SnapshotOffset.
func (c *Config) Offset() (time.Duration, error) {
	if c.Analysis.SnapshotOffset == "" {
		return rfm.DefaultSnapshotOffset, nil
	}
	d, err := time.ParseDuration(c.Analysis.SnapshotOffset)
	if err != nil {
		return 0, fmt.Errorf("analysis.snapshot_offset: %w", err)
	}
	return d, nil
}

// Rules builds the segment rule table; the canonical table when none is configured.
func (c *Config) Rules() (rfm.RuleSet, error) {
	if len(c.Segments) == 0 {
		return rfm.CanonicalRules(), nil
	}
	rs := make(rfm.RuleSet, 0, len(c.Segments))
	for i, s := range c.Segments {
		r, err := rfm.NewRule(s.Pattern, s.Name)
		if err != nil {
			return nil, fmt.Errorf("segments[%d]: %w", i, err)
		}
		rs = append(rs, r)
	}
	return rs, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch c.Analysis.Monetary {
	case MonetaryJoined, MonetaryPayments:
	default:
		return fmt.Errorf("analysis.monetary must be %q or %q, got %q", MonetaryJoined, MonetaryPayments, c.Analysis.Monetary)
	}
	switch c.Output.Report {
	case ReportASCII, ReportMarkdown:
	default:
		return fmt.Errorf("output.report must be %q or %q, got %q", ReportASCII, ReportMarkdown, c.Output.Report)
	}
	if c.Analysis.HistogramBins <= 0 {
		return fmt.Errorf("analysis.histogram_bins must be positive, got %d", c.Analysis.HistogramBins)
	}
	if c.Input.Parallel <= 0 {
		return fmt.Errorf("input.parallel must be positive, got %d", c.Input.Parallel)
	}
	if c.Output.CSV == "" {
		return fmt.Errorf("output.csv is required")
	}
	if _, err := c.Offset(); err != nil {
		return err
	}
	if _, err := c.Rules(); err != nil {
		return err
	}
	return nil
}
