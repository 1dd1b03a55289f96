package cache

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/adaw/core-tools/internal/types"
)

func testFile(path string, size int64, mtime time.Time) *types.CandidateFile {
	return &types.CandidateFile{Path: path, Size: size, ModTime: mtime}
}

// TestCacheRoundTrip tests store and lookup of a digest.
func TestCacheRoundTrip(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = c.Close() }()

	f := testFile("/data/a.bin", 1234, time.Unix(1700000000, 0))
	digest := []byte{0xde, 0xad, 0xbe, 0xef}

	c.Store("sha256", f, digest)

	got := c.Lookup("sha256", f)
	if !bytes.Equal(got, digest) {
		t.Errorf("Lookup = %x, want %x", got, digest)
	}
}

// TestCacheStaleEntryMisses tests that size or mtime changes invalidate.
func TestCacheStaleEntryMisses(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = c.Close() }()

	f := testFile("/data/a.bin", 1234, time.Unix(1700000000, 0))
	c.Store("sha256", f, []byte{1, 2, 3})

	resized := testFile(f.Path, 999, f.ModTime)
	if c.Lookup("sha256", resized) != nil {
		t.Error("size change must invalidate the entry")
	}

	touched := testFile(f.Path, f.Size, f.ModTime.Add(time.Second))
	if c.Lookup("sha256", touched) != nil {
		t.Error("mtime change must invalidate the entry")
	}
}

// TestCacheAlgoSeparation tests that algorithms never share digests.
func TestCacheAlgoSeparation(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = c.Close() }()

	f := testFile("/data/a.bin", 10, time.Unix(1700000000, 0))
	c.Store("md5", f, []byte{7})

	if c.Lookup("sha256", f) != nil {
		t.Error("sha256 lookup must not return an md5 digest")
	}
}

// TestCacheDisabled tests that an empty path yields a no-op cache.
func TestCacheDisabled(t *testing.T) {
	c, err := Open("")
	if err != nil {
		t.Fatal(err)
	}

	f := testFile("/a", 1, time.Now())
	c.Store("sha256", f, []byte{1})
	if c.Lookup("sha256", f) != nil {
		t.Error("disabled cache must always miss")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close on disabled cache: %v", err)
	}
}

// TestCacheNilReceiver tests that a nil *Cache is safe to use.
func TestCacheNilReceiver(t *testing.T) {
	var c *Cache
	f := testFile("/a", 1, time.Now())
	c.Store("sha256", f, []byte{1})
	if c.Lookup("sha256", f) != nil {
		t.Error("nil cache must always miss")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close on nil cache: %v", err)
	}
}
