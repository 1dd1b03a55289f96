package selector

import (
	"testing"
	"time"

	"github.com/adaw/core-tools/internal/types"
)

// fixtureGroup builds the strategy fixture: f1 mtime=10, f2 mtime=20,
// f3 mtime=5 (paths chosen so sorted order keeps f1, f2, f3 positions).
func fixtureGroup() types.DuplicateGroup {
	return types.NewDuplicateGroup("k", types.MethodContentHash, []*types.CandidateFile{
		{Path: "/dir/f1", Size: 100, ModTime: time.Unix(10, 0)},
		{Path: "/dir/f2", Size: 100, ModTime: time.Unix(20, 0)},
		{Path: "/dir/f3", Size: 100, ModTime: time.Unix(5, 0)},
	})
}

// TestChooseKeeperStrategies tests keeper selection per strategy.
func TestChooseKeeperStrategies(t *testing.T) {
	g := fixtureGroup()

	tests := []struct {
		strategy Strategy
		want     int
	}{
		{KeepNewest, 1}, // f2, mtime 20
		{KeepOldest, 2}, // f3, mtime 5
		{KeepNone, -1},  // Keep everything
	}
	for _, tt := range tests {
		if got := ChooseKeeper(g, tt.strategy); got != tt.want {
			t.Errorf("%s: keeper = %d, want %d", tt.strategy, got, tt.want)
		}
	}
}

// TestChooseKeeperShortestPath tests the path-length strategy.
func TestChooseKeeperShortestPath(t *testing.T) {
	g := types.NewDuplicateGroup("k", types.MethodContentHash, []*types.CandidateFile{
		{Path: "/a/deeply/nested/file.txt", Size: 10},
		{Path: "/b/f.txt", Size: 10},
	})

	if got := ChooseKeeper(g, KeepShortestPath); g.Files[got].Path != "/b/f.txt" {
		t.Errorf("keeper = %s, want /b/f.txt", g.Files[got].Path)
	}
}

// TestDeletionSetExcludesKeeper tests that only non-kept paths land in the
// deletion list.
func TestDeletionSetExcludesKeeper(t *testing.T) {
	groups := []types.DuplicateGroup{fixtureGroup()}

	paths := DeletionSet(groups, KeepNewest)
	if len(paths) != 2 {
		t.Fatalf("expected 2 deletion candidates, got %d", len(paths))
	}
	for _, p := range paths {
		if p == "/dir/f2" {
			t.Error("keeper /dir/f2 must not be in the deletion set")
		}
	}
}

// TestDeletionSetNoneIsEmpty tests that KeepNone deletes nothing.
func TestDeletionSetNoneIsEmpty(t *testing.T) {
	paths := DeletionSet([]types.DuplicateGroup{fixtureGroup()}, KeepNone)
	if len(paths) != 0 {
		t.Errorf("expected empty deletion set, got %v", paths)
	}
}
