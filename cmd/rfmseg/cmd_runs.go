package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rfmseg/internal/format"
	"rfmseg/internal/report"
	"rfmseg/internal/store"
)

var runsFlags struct {
	sqlitePath string
	runID      string
	report     string
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List segmentation runs stored in a SQLite database",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func init() {
	f := runsCmd.Flags()
	f.StringVar(&runsFlags.sqlitePath, "sqlite", "", "SQLite database written by segment --sqlite (required)")
	f.StringVar(&runsFlags.runID, "run", "", "Show thresholds and segments of one run")
	f.StringVar(&runsFlags.report, "format", "ascii", "Table format: ascii or markdown")

	_ = runsCmd.MarkFlagRequired("sqlite")
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	mode, err := format.ParseMode(runsFlags.report)
	if err != nil {
		return err
	}
	st, err := store.Open(runsFlags.sqlitePath)
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	if runsFlags.runID != "" {
		th, err := st.LoadThresholds(runsFlags.runID)
		if err != nil {
			return err
		}
		summary, err := st.LoadSummary(runsFlags.runID)
		if err != nil {
			return err
		}
		fmt.Fprint(out, report.Thresholds(th, mode))
		fmt.Fprintln(out)
		fmt.Fprint(out, report.Distribution(summary, mode))
		return nil
	}

	runs, err := st.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintf(out, "No runs in %s\n", runsFlags.sqlitePath)
		return nil
	}
	tbl := format.NewTable(mode)
	tbl.Header("Run", "Created", "Snapshot", "Monetary", "Customers", "Facts", "Rules")
	tbl.RightAlignFrom(5, 7)
	for _, r := range runs {
		tbl.Row(r.ID, r.CreatedAt.Format(time.DateTime), r.Snapshot.Format(time.DateTime),
			r.Multiplicity, format.Count(r.Customers), format.Count(r.Facts), len(r.Rules))
	}
	fmt.Fprintln(out, tbl.String())
	return nil
}
