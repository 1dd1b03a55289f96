// Package selector implements the keeper-selection policy applied to
// duplicate groups before deletion.
package selector

import "github.com/adaw/core-tools/internal/types"

// Strategy decides which file in a group survives.
type Strategy string

const (
	KeepNewest       Strategy = "newest"        // Highest modification time
	KeepOldest       Strategy = "oldest"        // Lowest modification time
	KeepShortestPath Strategy = "shortest-path" // Fewest path characters
	KeepNone         Strategy = "none"          // Keep everything, delete nothing
)

// ChooseKeeper returns the index of the file to keep, or -1 for KeepNone.
// Pure function over metadata already captured in the candidates; no I/O.
func ChooseKeeper(group types.DuplicateGroup, strategy Strategy) int {
	if strategy == KeepNone || len(group.Files) == 0 {
		return -1
	}
	keep := 0
	for i, f := range group.Files[1:] {
		switch strategy {
		case KeepNewest:
			if f.ModTime.After(group.Files[keep].ModTime) {
				keep = i + 1
			}
		case KeepOldest:
			if f.ModTime.Before(group.Files[keep].ModTime) {
				keep = i + 1
			}
		case KeepShortestPath:
			if len(f.Path) < len(group.Files[keep].Path) {
				keep = i + 1
			}
		}
	}
	return keep
}

// DeletionSet returns the paths of every non-kept file across the groups,
// the flat list handed to the deletion executor. KeepNone yields nothing.
func DeletionSet(groups []types.DuplicateGroup, strategy Strategy) []string {
	var paths []string
	for _, g := range groups {
		keep := ChooseKeeper(g, strategy)
		if keep < 0 {
			continue
		}
		for i, f := range g.Files {
			if i != keep {
				paths = append(paths, f.Path)
			}
		}
	}
	return paths
}
