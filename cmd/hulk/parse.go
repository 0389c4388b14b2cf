package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hulk/internal/diagfmt"
	"hulk/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.hulk",
	Short: "Parse a HULK source file and print its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	result, err := driver.Parse(args[0], maxDiagnostics(cmd))
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			ShowNotes: true,
		})
	}

	switch format {
	case "pretty":
		return diagfmt.FormatASTPretty(os.Stdout, result.Builder, result.FileID, result.FileSet)
	case "json":
		return diagfmt.FormatASTJSON(os.Stdout, result.Builder, result.FileID)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
