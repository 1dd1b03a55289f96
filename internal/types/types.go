// Package types provides shared types used across the dupefinder codebase.
package types

import (
	"cmp"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

// CandidateFile holds metadata for a file that survived collection filters.
// Immutable after creation and freely shared across workers.
type CandidateFile struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// MatchMethod identifies which matcher produced a duplicate group.
type MatchMethod int

const (
	MethodContentHash MatchMethod = iota // Exact byte-for-byte match (quick + full hash)
	MethodNameSize                       // Same size and case-folded base name
	MethodPerceptual                     // Visually similar images
)

func (m MatchMethod) String() string {
	switch m {
	case MethodContentHash:
		return "content-hash"
	case MethodNameSize:
		return "name-size"
	case MethodPerceptual:
		return "perceptual"
	default:
		return "unknown"
	}
}

// DuplicateGroup is an immutable group of files considered duplicates of
// each other. Files are sorted lexicographically by path; Count and
// WastedBytes are derived at construction.
type DuplicateGroup struct {
	Key         string
	Method      MatchMethod
	Files       []*CandidateFile
	Size        int64 // Size of the first file (representative)
	Count       int
	WastedBytes int64
}

// NewDuplicateGroup builds a group from raw files: sorts paths and derives
// the representative size and the wasted-bytes estimate.
func NewDuplicateGroup(key string, method MatchMethod, files []*CandidateFile) DuplicateGroup {
	sorted := make([]*CandidateFile, len(files))
	copy(sorted, files)
	slices.SortFunc(sorted, func(a, b *CandidateFile) int {
		return cmp.Compare(a.Path, b.Path)
	})
	size := sorted[0].Size
	return DuplicateGroup{
		Key:         key,
		Method:      method,
		Files:       sorted,
		Size:        size,
		Count:       len(sorted),
		WastedBytes: size * int64(len(sorted)-1),
	}
}

// Paths returns the group's file paths in their sorted order.
func (g DuplicateGroup) Paths() []string {
	paths := make([]string, len(g.Files))
	for i, f := range g.Files {
		paths[i] = f.Path
	}
	return paths
}

// ScanStats accumulates monotonically during a single scan run.
type ScanStats struct {
	FilesScanned    int
	DuplicatesFound int
	WastedBytes     int64
}

func (s ScanStats) String() string {
	return fmt.Sprintf("Scanned %d files, found %d duplicates, %s reclaimable",
		s.FilesScanned, s.DuplicatesFound, humanize.IBytes(uint64(s.WastedBytes)))
}

// ProgressFunc receives coarse-grained progress updates. Deliveries are
// throttled and best-effort; only the completion callback is guaranteed.
type ProgressFunc func(message string, current, total int)

// CompleteFunc receives the final result exactly once per scan.
type CompleteFunc func(groups []DuplicateGroup, stats ScanStats)

// CancelFlag is a one-shot cooperative cancellation flag. Workers poll
// Cancelled between files; once set it stays set for the rest of the scan.
type CancelFlag struct {
	flag atomic.Bool
}

// Cancel sets the flag. Safe to call from any goroutine, any number of times.
func (c *CancelFlag) Cancel() { c.flag.Store(true) }

// Cancelled reports whether the flag has been set.
func (c *CancelFlag) Cancelled() bool { return c.flag.Load() }
