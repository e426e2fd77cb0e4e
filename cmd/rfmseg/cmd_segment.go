package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rfmseg/internal/analysis"
	"rfmseg/internal/config"
	"rfmseg/internal/export"
	"rfmseg/internal/format"
	"rfmseg/internal/ingest"
	"rfmseg/internal/logging"
	"rfmseg/internal/report"
	"rfmseg/internal/store"
)

var segmentFlags struct {
	dataDir     string
	csvPath     string
	xlsxPath    string
	sqlitePath  string
	monetary    string
	report      string
	orderStatus string
	bins        int
	parallel    int
	quiet       bool
}

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Segment customers and export the result",
	Long: `Load the Olist tables, derive RFM metrics for every unique customer, score
them by quartile and label them with a segment.

The segmentation CSV is always written. --xlsx adds a workbook with charts
and --sqlite appends the run to a SQLite database.

Flags override the values of --config.`,
	Args: cobra.NoArgs,
	RunE: runSegment,
}

func init() {
	f := segmentCmd.Flags()
	f.StringVarP(&segmentFlags.dataDir, "data", "d", "", "Directory holding the Olist CSV files")
	f.StringVarP(&segmentFlags.csvPath, "out", "o", "", "Segmentation CSV path")
	f.StringVar(&segmentFlags.xlsxPath, "xlsx", "", "Write an XLSX workbook with charts")
	f.StringVar(&segmentFlags.sqlitePath, "sqlite", "", "Append the run to a SQLite database")
	f.StringVar(&segmentFlags.monetary, "monetary", "", "Monetary mode: joined (payments repeated per line item) or payments")
	f.StringVar(&segmentFlags.report, "format", "", "Report format: ascii or markdown")
	f.StringVar(&segmentFlags.orderStatus, "status", "", "Keep only orders with this status")
	f.IntVar(&segmentFlags.bins, "bins", 0, "Histogram bins for the workbook")
	f.IntVar(&segmentFlags.parallel, "parallel", 0, "Tables loaded concurrently")
	f.BoolVarP(&segmentFlags.quiet, "quiet", "q", false, "Do not print the report")
}

// applySegmentFlags overlays the flags the user set on cfg.
func applySegmentFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("data") {
		cfg.Input.Dir = segmentFlags.dataDir
	}
	if f.Changed("out") {
		cfg.Output.CSV = segmentFlags.csvPath
	}
	if f.Changed("xlsx") {
		cfg.Output.XLSX = segmentFlags.xlsxPath
	}
	if f.Changed("sqlite") {
		cfg.Output.SQLite = segmentFlags.sqlitePath
	}
	if f.Changed("monetary") {
		cfg.Analysis.Monetary = segmentFlags.monetary
	}
	if f.Changed("format") {
		cfg.Output.Report = segmentFlags.report
	}
	if f.Changed("status") {
		cfg.Analysis.OrderStatus = segmentFlags.orderStatus
	}
	if f.Changed("bins") {
		cfg.Analysis.HistogramBins = segmentFlags.bins
	}
	if f.Changed("parallel") {
		cfg.Input.Parallel = segmentFlags.parallel
	}
}

func runSegment(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applySegmentFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	offset, _ := cfg.Offset()
	rules, _ := cfg.Rules()
	mode, _ := format.ParseMode(cfg.Output.Report)

	res, err := analysis.Run(cmd.Context(), analysis.Options{
		Ingest: ingest.Options{
			Dir:         cfg.Input.Dir,
			Files:       cfg.Input.Files,
			Parallel:    cfg.Input.Parallel,
			OrderStatus: cfg.Analysis.OrderStatus,
		},
		Multiplicity:   ingest.Multiplicity(cfg.Analysis.Monetary),
		SnapshotOffset: offset,
		Rules:          rules,
	})
	if err != nil {
		return err
	}

	if !segmentFlags.quiet {
		fmt.Fprint(cmd.OutOrStdout(), report.Format(res, mode))
	}

	logger := logging.New("export")
	if err := export.WriteCSVFile(cfg.Output.CSV, res.Customers); err != nil {
		return err
	}
	logger.Info("segmentation csv written", "path", cfg.Output.CSV, "rows", len(res.Customers))

	if cfg.Output.XLSX != "" {
		if err := export.WriteWorkbook(cfg.Output.XLSX, res, cfg.Analysis.HistogramBins); err != nil {
			return fmt.Errorf("workbook: %w", err)
		}
	}

	if cfg.Output.SQLite != "" {
		st, err := store.Open(cfg.Output.SQLite)
		if err != nil {
			return err
		}
		defer st.Close()
		runID, err := st.SaveRun(res)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Run %s saved to %s\n", runID, cfg.Output.SQLite)
	}
	return nil
}
