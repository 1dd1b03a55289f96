// Package aggregator turns raw match groups into ranked results.
package aggregator

import (
	"sort"

	"github.com/adaw/core-tools/internal/matcher"
	"github.com/adaw/core-tools/internal/types"
)

// Aggregate builds the final group list and stats from raw matcher output.
//
// For each group the file paths are sorted lexicographically, the first
// file's size becomes the representative (members of a content or name
// group share a size by construction; perceptual groups may not, and the
// first file stands in for the wasted-bytes estimate), and wasted bytes
// are size*(count-1). Groups are ordered by wasted bytes descending with
// ties keeping their input order. Pure function: same input, same output.
//
// filesScanned is supplied by the caller since the aggregator only ever
// sees files that matched.
func Aggregate(raw []matcher.RawGroup, filesScanned int) ([]types.DuplicateGroup, types.ScanStats) {
	stats := types.ScanStats{FilesScanned: filesScanned}

	groups := make([]types.DuplicateGroup, 0, len(raw))
	for _, rg := range raw {
		if len(rg.Files) < 2 {
			continue
		}
		g := types.NewDuplicateGroup(rg.Key, rg.Method, rg.Files)
		stats.DuplicatesFound += g.Count - 1
		stats.WastedBytes += g.WastedBytes
		groups = append(groups, g)
	}

	// Stable keeps insertion order for equal wasted-byte totals.
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].WastedBytes > groups[j].WastedBytes
	})

	return groups, stats
}
