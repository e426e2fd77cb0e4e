package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rfmseg/internal/format"
	"rfmseg/internal/report"
	"rfmseg/internal/rfm"
)

var rulesFlags struct {
	report string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the segment rule table with coverage and shadowing",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().StringVar(&rulesFlags.report, "format", "", "Table format: ascii or markdown")
}

func runRules(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	name := cfg.Output.Report
	if rulesFlags.report != "" {
		name = rulesFlags.report
	}
	mode, err := format.ParseMode(name)
	if err != nil {
		return err
	}

	cov := rfm.Analyze(rules)
	out := cmd.OutOrStdout()
	fmt.Fprint(out, report.Coverage(cov, mode))
	if w := report.Warnings(cov); w != "" {
		fmt.Fprint(out, "\n"+w)
	}
	return nil
}
