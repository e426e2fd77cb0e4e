// rfmseg segments e-commerce customers by Recency, Frequency and Monetary
// value.
//
// Usage:
//
//	rfmseg segment --data <dir> [--out <csv>] [--xlsx <file>] [--sqlite <db>]
//	rfmseg rules [--config <file>]
//	rfmseg classify <RFM>...
//	rfmseg verify <segmentation.csv>
//	rfmseg runs --sqlite <db> [--run <id>]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
