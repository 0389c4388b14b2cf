package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FindHulkToml walks up from startDir to locate hulk.toml.
func FindHulkToml(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "hulk.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindProjectRoot returns the directory containing hulk.toml, if any.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	manifestPath, ok, err := FindHulkToml(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(manifestPath), true, nil
}
