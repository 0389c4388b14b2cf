package driver

import (
	"fmt"
	"os"

	"hulk/internal/backend/llvm"
	"hulk/internal/project"
)

type CompileResult struct {
	*CheckResult
	IR string
	// FromCache reports whether the module text was served from the disk
	// cache without re-running the backend.
	FromCache bool
}

// CompileOptions tunes one compilation.
type CompileOptions struct {
	MaxDiagnostics int
	// Cache, when non-nil, is consulted before the backend runs and
	// updated afterwards.
	Cache *DiskCache
}

// Compile runs the full pipeline over one file: parse, check, emit.
func Compile(path string, opts CompileOptions) (*CompileResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return CompileSource(path, content, opts)
}

// CompileSource is Compile over in-memory content.
func CompileSource(path string, content []byte, opts CompileOptions) (*CompileResult, error) {
	key := project.HashBytes(content)

	var payload DiskPayload
	if ok, err := opts.Cache.Get(key, &payload); err == nil && ok && payload.Schema == diskCacheSchemaVersion && !payload.Broken {
		checked, err := CheckSource(path, content, opts.MaxDiagnostics)
		if err != nil {
			return nil, err
		}
		if !checked.Bag.HasErrors() {
			return &CompileResult{CheckResult: checked, IR: payload.IR, FromCache: true}, nil
		}
		return &CompileResult{CheckResult: checked}, nil
	}

	checked, err := CheckSource(path, content, opts.MaxDiagnostics)
	if err != nil {
		return nil, err
	}
	if checked.Bag.HasErrors() {
		_ = opts.Cache.Put(key, &DiskPayload{
			Schema:     diskCacheSchemaVersion,
			Path:       path,
			SourceHash: key,
			Broken:     true,
		})
		return &CompileResult{CheckResult: checked}, nil
	}

	ir, err := llvm.EmitModule(checked.Builder, checked.FileID, checked.Sema)
	if err != nil {
		return nil, fmt.Errorf("code generation failed: %w", err)
	}
	_ = opts.Cache.Put(key, &DiskPayload{
		Schema:     diskCacheSchemaVersion,
		Path:       path,
		SourceHash: key,
		IR:         ir,
	})
	return &CompileResult{CheckResult: checked, IR: ir}, nil
}

// CompileToFile compiles path and writes the emitted module to outPath.
func CompileToFile(path, outPath string, opts CompileOptions) (*CompileResult, error) {
	result, err := Compile(path, opts)
	if err != nil {
		return nil, err
	}
	if result.Bag.HasErrors() {
		return result, nil
	}
	if err := os.WriteFile(outPath, []byte(result.IR), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write %q: %w", outPath, err)
	}
	return result, nil
}
