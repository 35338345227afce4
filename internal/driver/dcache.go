package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// Increment when the payload format changes.
const diskCacheSchemaVersion uint16 = 1

// Digest is a sha256 content hash.
type Digest [sha256.Size]byte

func hashBytes(data []byte) Digest { return sha256.Sum256(data) }

// DiskCache stores check verdicts on disk, keyed by content digest.
// Thread-safe for concurrent access. A nil *DiskCache is a valid
// no-op cache.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// payload is the on-disk verdict record.
type payload struct {
	Schema uint16
	Path   string
	Funcs  uint32
	Blocks uint32
	Instrs uint32
	Err    string
}

// OpenDiskCache initializes a disk cache at the standard user cache
// location for app.
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

// OpenDiskCacheAt initializes a disk cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "checks", hex.EncodeToString(key[:])+".mp")
}

// Lookup returns the cached verdict for key, if present and current.
// The path in the returned result is rewritten to the requested path,
// since identical content may live under several names.
func (c *DiskCache) Lookup(key Digest, path string) (CheckResult, bool) {
	if c == nil {
		return CheckResult{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		return CheckResult{}, false
	}
	defer f.Close()

	var p payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil || p.Schema != diskCacheSchemaVersion {
		return CheckResult{}, false
	}
	return CheckResult{
		Path:   path,
		Funcs:  int(p.Funcs),
		Blocks: int(p.Blocks),
		Instrs: int(p.Instrs),
		Err:    p.Err,
		Cached: true,
	}, true
}

// Store writes a verdict under key with an atomic rename.
func (c *DiskCache) Store(key Digest, res CheckResult) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	funcs, err := safecast.Conv[uint32](res.Funcs)
	if err != nil {
		return fmt.Errorf("function count overflow: %w", err)
	}
	blocks, err := safecast.Conv[uint32](res.Blocks)
	if err != nil {
		return fmt.Errorf("block count overflow: %w", err)
	}
	instrs, err := safecast.Conv[uint32](res.Instrs)
	if err != nil {
		return fmt.Errorf("instruction count overflow: %w", err)
	}
	p := payload{
		Schema: diskCacheSchemaVersion,
		Path:   res.Path,
		Funcs:  funcs,
		Blocks: blocks,
		Instrs: instrs,
		Err:    res.Err,
	}

	target := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(target), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(&p); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, target)
}

// DropAll invalidates the whole cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.RemoveAll(filepath.Join(c.dir, "checks"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
