package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new HULK project",
	Long: `Initialize a new HULK project by creating a project manifest (hulk.toml)
and a hello-world entry point (main.hulk). If [path|name] is omitted,
initializes the current directory. If a non-existing name is provided, a
directory will be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "hulk-project"
	}

	manifestPath := filepath.Join(target, "hulk.toml")
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	if err := os.WriteFile(manifestPath, []byte(buildDefaultManifest(name)), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	mainPath := filepath.Join(target, "main.hulk")
	createdMain := false
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(defaultMainHulk()), 0o600); err != nil {
			return fmt.Errorf("failed to write main.hulk: %w", err)
		}
		createdMain = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized hulk project in %s\n", rel)
	fmt.Fprintf(os.Stdout, "  - hulk.toml\n")
	if createdMain {
		fmt.Fprintf(os.Stdout, "  - main.hulk\n")
	} else {
		fmt.Fprintf(os.Stdout, "  - main.hulk (existing)\n")
	}
	return nil
}

func buildDefaultManifest(name string) string {
	return fmt.Sprintf(`# HULK project manifest
[package]
name = "%s"
version = "0.1.0"

[build]
entry = "main.hulk"
`, name)
}

func defaultMainHulk() string {
	return `function greet(name: String): String => "Hello, " @ name @ "!";

print(greet("HULK"));
`
}
