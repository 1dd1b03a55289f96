package types

import "testing"

// TestNewDuplicateGroupSortsPaths tests lexicographic file ordering.
func TestNewDuplicateGroupSortsPaths(t *testing.T) {
	g := NewDuplicateGroup("k", MethodContentHash, []*CandidateFile{
		{Path: "/z.txt", Size: 100},
		{Path: "/a.txt", Size: 100},
		{Path: "/m.txt", Size: 100},
	})

	want := []string{"/a.txt", "/m.txt", "/z.txt"}
	got := g.Paths()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

// TestNewDuplicateGroupDerived tests count, representative size and wasted bytes.
func TestNewDuplicateGroupDerived(t *testing.T) {
	g := NewDuplicateGroup("k", MethodPerceptual, []*CandidateFile{
		{Path: "/a.jpg", Size: 300},
		{Path: "/b.jpg", Size: 500}, // Perceptual groups may mix sizes
	})

	if g.Count != 2 {
		t.Errorf("Count = %d, want 2", g.Count)
	}
	if g.Size != 300 {
		t.Errorf("Size = %d, want first file's 300", g.Size)
	}
	if g.WastedBytes != 300 {
		t.Errorf("WastedBytes = %d, want 300", g.WastedBytes)
	}
}

// TestCancelFlagMonotonic tests that the flag is one-shot.
func TestCancelFlagMonotonic(t *testing.T) {
	var c CancelFlag
	if c.Cancelled() {
		t.Error("new flag must not be cancelled")
	}
	c.Cancel()
	c.Cancel()
	if !c.Cancelled() {
		t.Error("flag must stay set after Cancel")
	}
}
