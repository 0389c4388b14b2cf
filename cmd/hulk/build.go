package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"hulk/internal/diagfmt"
	"hulk/internal/driver"
	"hulk/internal/project"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [file.hulk]",
	Short: "Compile HULK source to LLVM IR",
	Long: `Build compiles a HULK source file to a textual LLVM IR module. Without an
argument, the entry point from the nearest hulk.toml is compiled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "output path (defaults to the input with the .ll extension)")
	buildCmd.Flags().Bool("no-cache", false, "bypass the build cache")
	buildCmd.Flags().Bool("emit-stdout", false, "write the module to stdout instead of a file")
}

func runBuild(cmd *cobra.Command, args []string) error {
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	output, _ := cmd.Flags().GetString("output")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	emitStdout, _ := cmd.Flags().GetBool("emit-stdout")

	var input string
	switch {
	case len(args) == 1:
		input = args[0]
	default:
		manifestPath, ok, err := project.FindHulkToml(".")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no input file and no hulk.toml found; run 'hulk init' or pass a file")
		}
		manifest, err := project.LoadManifest(manifestPath)
		if err != nil {
			return err
		}
		input = manifest.EntryPath()
		if output == "" {
			output = manifest.OutputPath()
		}
	}
	if output == "" {
		output = input[:len(input)-len(filepath.Ext(input))] + ".ll"
	}

	opts := driver.CompileOptions{MaxDiagnostics: maxDiagnostics(cmd)}
	if !noCache {
		cache, err := driver.OpenDiskCache("hulk")
		if err == nil {
			opts.Cache = cache
		}
	}

	result, err := driver.Compile(input, opts)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	if result.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			ShowNotes: true,
		})
	}
	if result.Bag.HasErrors() {
		return fmt.Errorf("build failed with errors")
	}

	if emitStdout {
		_, err := fmt.Fprint(os.Stdout, result.IR)
		return err
	}
	if err := os.WriteFile(output, []byte(result.IR), 0o600); err != nil {
		return fmt.Errorf("failed to write %q: %w", output, err)
	}
	if !quiet {
		cached := ""
		if result.FromCache {
			cached = " (cached)"
		}
		fmt.Fprintf(os.Stdout, "wrote %s%s\n", output, cached)
	}
	return nil
}
