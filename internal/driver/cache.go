package driver

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"hulk/internal/project"
)

// diskCacheSchemaVersion invalidates older payload layouts.
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores emitted modules keyed by source digest. A nil cache is
// valid and turns every operation into a no-op. Thread-safe.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached compilation.
type DiskPayload struct {
	Schema     uint16
	Path       string
	SourceHash project.Digest
	IR         string
	// Broken marks sources that failed analysis, so a recompile can skip
	// straight to re-diagnosing without consulting stale output.
	Broken bool
}

// OpenDiskCache initializes and returns a disk cache at the standard
// location under XDG_CACHE_HOME.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt initializes a disk cache rooted at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "mods", key.String()+".mp")
}

// Put serializes and atomically writes a payload.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload. The boolean reports a cache hit.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll invalidates the whole cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
