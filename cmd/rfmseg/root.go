package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rfmseg/internal/config"
	"rfmseg/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

var rootCmd = &cobra.Command{
	Use:   "rfmseg",
	Short: "RFM customer segmentation for Olist e-commerce data",
	Long: "rfmseg derives Recency, Frequency and Monetary metrics per customer from the\n" +
		"Olist order tables, scores them by quartile and labels each customer with a\n" +
		"named segment.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootFlags.configPath, "config", "c", "", "Config file (YAML or JSON)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "", "Log format: text or json (overrides config)")

	rootCmd.AddCommand(segmentCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.Version = version
}

// loadConfig reads --config (or the defaults), applies the logging flags
// and installs the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if rootFlags.configPath != "" {
		var err error
		if cfg, err = config.LoadFromPath(rootFlags.configPath); err != nil {
			return nil, err
		}
	}
	if rootFlags.logLevel != "" {
		cfg.Logging.Level = rootFlags.logLevel
	}
	if rootFlags.logFormat != "" {
		cfg.Logging.Format = rootFlags.logFormat
	}
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.level: %w", err)
	}
	logging.Init(level, cfg.Logging.Format, cmd.ErrOrStderr())
	return cfg, nil
}
