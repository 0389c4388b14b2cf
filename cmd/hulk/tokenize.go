package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hulk/internal/diagfmt"
	"hulk/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.hulk",
	Short: "Tokenize a HULK source file",
	Long:  `Tokenize breaks down a HULK source file into its constituent tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	result, err := driver.Tokenize(args[0], maxDiagnostics(cmd))
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			ShowNotes: true,
		})
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
