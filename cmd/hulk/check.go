package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hulk/internal/diagfmt"
	"hulk/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] file.hulk|directory",
	Short: "Run semantic analysis over a file or every file in a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	st, err := os.Stat(args[0])
	if err != nil {
		return err
	}
	if st.IsDir() {
		return checkDirectory(cmd, args[0], format, quiet)
	}

	result, err := driver.Check(args[0], maxDiagnostics(cmd))
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	return reportCheck(cmd, args[0], result, format, quiet)
}

func checkDirectory(cmd *cobra.Command, dir, format string, quiet bool) error {
	reports, err := driver.CheckDir(cmd.Context(), dir, maxDiagnostics(cmd))
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	var failed bool
	for _, report := range reports {
		if err := reportCheck(cmd, report.Path, report.Result, format, quiet); err != nil {
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("analysis reported errors")
	}
	return nil
}

func reportCheck(cmd *cobra.Command, path string, result *driver.CheckResult, format string, quiet bool) error {
	if result.Bag.Len() > 0 {
		switch format {
		case "json":
			if err := diagfmt.JSON(os.Stdout, result.Bag, result.FileSet, diagfmt.JSONOpts{
				IncludePositions: true,
				IncludeNotes:     true,
			}); err != nil {
				return err
			}
		default:
			diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
				Color:     useColor(cmd, os.Stderr),
				ShowNotes: true,
			})
		}
	}
	if result.Bag.HasErrors() {
		return fmt.Errorf("%s: analysis reported errors", path)
	}
	if !quiet {
		fmt.Fprintf(os.Stdout, "%s: ok\n", path)
	}
	return nil
}
