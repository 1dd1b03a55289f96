// Package cache provides persistent caching of full-content digests.
//
// Repeated scans over large trees pay most of their cost in the full-hash
// phase. The cache stores each computed digest keyed by file path and
// invalidates an entry whenever the file's size or modification time no
// longer matches what was recorded. Entries are segregated per digest
// algorithm so switching --algo never returns a digest of the wrong kind.
package cache

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/adaw/core-tools/internal/types"
)

// Cache is a bbolt-backed digest cache. A nil or disabled Cache is valid:
// Lookup always misses and Store is a no-op.
type Cache struct {
	db      *bolt.DB
	enabled bool
}

// Open opens (or creates) the cache database at path.
// Returns a disabled cache if path is empty.
func Open(path string) (*Cache, error) {
	if path == "" {
		return &Cache{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Cache{db: db, enabled: true}, nil
}

// Close closes the underlying database. Safe on a disabled cache.
func (c *Cache) Close() error {
	if c == nil || !c.enabled {
		return nil
	}
	return c.db.Close()
}

// Lookup returns the cached digest for the file, or nil on a miss.
// Entries whose recorded size or mtime differ from the file's current
// metadata are treated as misses.
func (c *Cache) Lookup(algo string, f *types.CandidateFile) []byte {
	if c == nil || !c.enabled {
		return nil
	}
	var digest []byte
	_ = c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(algo))
		if b == nil {
			return nil
		}
		v := b.Get([]byte(f.Path))
		if v == nil {
			return nil
		}
		meta := encodeMeta(f)
		if len(v) <= len(meta) || !bytes.Equal(v[:len(meta)], meta) {
			return nil // Stale entry - file changed since it was cached
		}
		digest = append([]byte(nil), v[len(meta):]...)
		return nil
	})
	return digest
}

// Store records the digest for the file's current size and mtime.
// Write errors are ignored; a failed store only costs a rehash later.
func (c *Cache) Store(algo string, f *types.CandidateFile, digest []byte) {
	if c == nil || !c.enabled {
		return
	}
	_ = c.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(algo))
		if err != nil {
			return err
		}
		return b.Put([]byte(f.Path), append(encodeMeta(f), digest...))
	})
}

// encodeMeta packs size and mtime into a fixed 16-byte prefix.
func encodeMeta(f *types.CandidateFile) []byte {
	meta := make([]byte, 16)
	binary.BigEndian.PutUint64(meta[0:8], uint64(f.Size))
	binary.BigEndian.PutUint64(meta[8:16], uint64(f.ModTime.UnixNano()))
	return meta
}
