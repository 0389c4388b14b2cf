package project

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest is the parsed hulk.toml of a project.
type Manifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Build struct {
		Entry  string `toml:"entry"`
		Output string `toml:"output"`
	} `toml:"build"`

	// Dir is the directory the manifest was loaded from.
	Dir string `toml:"-"`
}

// LoadManifest parses a hulk.toml file.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown manifest key %q in %q", undecoded[0].String(), path)
	}
	if m.Package.Name == "" {
		return nil, fmt.Errorf("manifest %q is missing package.name", path)
	}
	m.Dir = filepath.Dir(path)
	return &m, nil
}

// EntryPath returns the absolute path of the build entry file, defaulting
// to main.hulk next to the manifest.
func (m *Manifest) EntryPath() string {
	entry := m.Build.Entry
	if entry == "" {
		entry = "main.hulk"
	}
	if filepath.IsAbs(entry) {
		return entry
	}
	return filepath.Join(m.Dir, entry)
}

// OutputPath returns the path of the emitted module, defaulting to the
// entry name with the .ll extension.
func (m *Manifest) OutputPath() string {
	out := m.Build.Output
	if out == "" {
		entry := m.EntryPath()
		out = entry[:len(entry)-len(filepath.Ext(entry))] + ".ll"
	}
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(m.Dir, out)
}
