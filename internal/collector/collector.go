// Package collector discovers candidate files for duplicate detection.
//
// The collector walks each root directory recursively, stats every regular
// file and applies the configured filters. Traversal is sequential: the
// work is dominated by directory I/O and the later hashing phases are the
// ones worth parallelizing. Permission and I/O errors on individual
// entries are swallowed - a broken subtree never fails the whole walk.
package collector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adaw/core-tools/internal/types"
)

// Filter holds the acceptance criteria applied to every discovered file.
// Zero values disable the corresponding check.
type Filter struct {
	MinSize    int64
	MaxSize    int64
	Extensions map[string]struct{} // Lowercased, dot-prefixed (".jpg")
	DateFrom   time.Time           // Inclusive
	DateTo     time.Time           // Inclusive
}

// Accept reports whether a file with the given metadata passes every
// supplied filter. Zero-byte files are always rejected: there is nothing
// to deduplicate by content.
func (f Filter) Accept(path string, size int64, modTime time.Time) bool {
	if size == 0 {
		return false
	}
	if f.MinSize > 0 && size < f.MinSize {
		return false
	}
	if f.MaxSize > 0 && size > f.MaxSize {
		return false
	}
	if len(f.Extensions) > 0 {
		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := f.Extensions[ext]; !ok {
			return false
		}
	}
	if !f.DateFrom.IsZero() && modTime.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && modTime.After(f.DateTo) {
		return false
	}
	return true
}

// Collector walks root directories and yields candidate files.
//
// The collector is designed for single-use: create with New(), call Run() once.
type Collector struct {
	roots      []string
	filter     Filter
	cancel     *types.CancelFlag
	onProgress types.ProgressFunc
}

// New creates a Collector for the given roots and filter.
// onProgress may be nil.
func New(roots []string, filter Filter, cancel *types.CancelFlag, onProgress types.ProgressFunc) *Collector {
	return &Collector{roots: roots, filter: filter, cancel: cancel, onProgress: onProgress}
}

// Run walks every root and returns the accepted candidates. A single
// progress update with the final count is reported once collection
// finishes. Returns nil when cancelled mid-walk.
func (c *Collector) Run() []*types.CandidateFile {
	var candidates []*types.CandidateFile
	for _, root := range c.roots {
		candidates = c.walkDirectory(root, candidates)
		if c.cancel.Cancelled() {
			return nil
		}
	}
	c.report(fmt.Sprintf("Found %d files", len(candidates)), 0, 1)
	return candidates
}

// walkDirectory processes one directory and recurses into subdirectories.
// Any error listing or statting an entry skips that entry only.
func (c *Collector) walkDirectory(dirPath string, acc []*types.CandidateFile) []*types.CandidateFile {
	if c.cancel.Cancelled() {
		return acc
	}

	dir, err := os.Open(dirPath)
	if err != nil {
		return acc
	}
	defer func() { _ = dir.Close() }()

	// Batch reading bounds memory for directories with huge entry counts.
	const batchSize = 1000
	var subdirs []string
	for {
		entries, readErr := dir.ReadDir(batchSize)
		for _, entry := range entries {
			fullPath := filepath.Join(dirPath, entry.Name())
			if entry.IsDir() {
				subdirs = append(subdirs, fullPath)
				continue
			}
			// Skip non-regular files (symlinks, devices, sockets, etc.)
			if !entry.Type().IsRegular() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue // File vanished or unreadable
			}
			if !c.filter.Accept(fullPath, info.Size(), info.ModTime()) {
				continue
			}
			acc = append(acc, &types.CandidateFile{
				Path:    fullPath,
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
		}
		if readErr != nil {
			break // io.EOF when the directory is exhausted
		}
	}

	for _, sub := range subdirs {
		if c.cancel.Cancelled() {
			return acc
		}
		acc = c.walkDirectory(sub, acc)
	}
	return acc
}

func (c *Collector) report(msg string, current, total int) {
	if c.onProgress != nil {
		c.onProgress(msg, current, total)
	}
}
