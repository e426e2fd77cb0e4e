package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rfmseg/internal/export"
	"rfmseg/internal/rfm"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <segmentation.csv>",
	Short: "Re-classify an exported file from its score columns",
	Long: `Read a segmentation CSV, recompute each row's segment from R_Score,
F_Score and M_Score with the current rule table and report rows whose
segment differs. Exits non-zero when any row changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()
	rows, err := export.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	recomputed := append([]rfm.CustomerRFM(nil), rows...)
	rfm.Reclassify(recomputed, rules)

	out := cmd.OutOrStdout()
	changed := 0
	for i, c := range recomputed {
		if c.Segment == rows[i].Segment {
			continue
		}
		changed++
		fmt.Fprintf(out, "%s %s: %q -> %q\n", c.CustomerKey, c.Scores.Key(), rows[i].Segment, c.Segment)
	}
	fmt.Fprintf(out, "Checked %d rows, %d changed\n", len(rows), changed)
	if changed > 0 {
		return fmt.Errorf("%d of %d rows changed segment", changed, len(rows))
	}
	return nil
}
