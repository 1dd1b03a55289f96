package screener

import (
	"testing"

	"github.com/adaw/core-tools/internal/types"
)

// TestGroupBySizeKeepsCollidingSizes tests that only sizes with 2+ files survive.
func TestGroupBySizeKeepsCollidingSizes(t *testing.T) {
	files := []*types.CandidateFile{
		{Path: "/a.txt", Size: 100},
		{Path: "/b.txt", Size: 100},
		{Path: "/c.txt", Size: 200}, // Unique size
	}

	buckets := GroupBySize(files)

	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if got := len(buckets[100]); got != 2 {
		t.Errorf("expected 2 files in size-100 bucket, got %d", got)
	}
	if _, ok := buckets[200]; ok {
		t.Error("singleton bucket for size 200 should have been discarded")
	}
}

// TestGroupBySizeEmpty tests the empty input case.
func TestGroupBySizeEmpty(t *testing.T) {
	buckets := GroupBySize(nil)
	if len(buckets) != 0 {
		t.Errorf("expected no buckets, got %d", len(buckets))
	}
	if buckets.Len() != 0 {
		t.Errorf("expected Len 0, got %d", buckets.Len())
	}
}

// TestCandidatesFlattens tests that Candidates returns every bucket member.
func TestCandidatesFlattens(t *testing.T) {
	files := []*types.CandidateFile{
		{Path: "/a", Size: 10},
		{Path: "/b", Size: 10},
		{Path: "/c", Size: 20},
		{Path: "/d", Size: 20},
		{Path: "/e", Size: 30},
	}

	buckets := GroupBySize(files)

	if got := len(buckets.Candidates()); got != 4 {
		t.Errorf("expected 4 candidates, got %d", got)
	}
	if got := buckets.Len(); got != 4 {
		t.Errorf("expected Len 4, got %d", got)
	}
}
