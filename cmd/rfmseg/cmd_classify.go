package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rfmseg/internal/display"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <RFM>...",
	Short: "Label score keys such as 422 with their segment",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, key := range args {
		t, err := parseKey(key)
		if err != nil {
			return err
		}
		segment, matched := rules.Classify(t)
		line := fmt.Sprintf("%s  %s", t.Key(), segment)
		if p, ok := display.SegmentPlaybook(segment); ok && matched {
			line += "  (" + p.Action + ")"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
