package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "hulk.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[package]
name = "geometry"
version = "0.1.0"

[build]
entry = "src/main.hulk"
output = "out/geometry.ll"
`)
	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "geometry", m.Package.Name)
	assert.Equal(t, filepath.Join(dir, "src", "main.hulk"), m.EntryPath())
	assert.Equal(t, filepath.Join(dir, "out", "geometry.ll"), m.OutputPath())
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[package]
name = "demo"
`)
	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "main.hulk"), m.EntryPath())
	assert.Equal(t, filepath.Join(dir, "main.ll"), m.OutputPath())
}

func TestLoadManifestRejectsMissingName(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `[package]
version = "1.0.0"
`)
	_, err := LoadManifest(path)
	assert.Error(t, err)
}

func TestLoadManifestRejectsUnknownKeys(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[package]
name = "demo"
nickname = "d"
`)
	_, err := LoadManifest(path)
	assert.Error(t, err)
}

func TestFindProjectRoot(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname = \"demo\"\n")
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	root, ok, err := FindProjectRoot(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, dir, root)
}

func TestFindProjectRootMiss(t *testing.T) {
	_, ok, err := FindProjectRoot(t.TempDir())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashBytesIsStable(t *testing.T) {
	a := HashBytes([]byte("hulk"))
	b := HashBytes([]byte("hulk"))
	c := HashBytes([]byte("hulk!"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.False(t, a.IsZero())
	assert.Len(t, a.String(), 64)
}
