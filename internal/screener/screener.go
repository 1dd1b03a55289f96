// Package screener screens candidates to find potential duplicates.
//
// The screener is the first filtering stage in the pipeline: it partitions
// candidates by exact byte size and discards singleton buckets, since a
// file whose size is unique cannot have a duplicate. Size grouping is O(n),
// needs no I/O and eliminates most files before any hashing happens.
package screener

import (
	"github.com/adaw/core-tools/internal/types"
)

// SizeBuckets maps a byte size to the candidates sharing it.
// Only sizes with two or more candidates appear.
type SizeBuckets map[int64][]*types.CandidateFile

// GroupBySize partitions candidates by size and keeps buckets with
// cardinality >= 2. Pure function, no I/O.
func GroupBySize(files []*types.CandidateFile) SizeBuckets {
	bySize := make(map[int64][]*types.CandidateFile)
	for _, f := range files {
		bySize[f.Size] = append(bySize[f.Size], f)
	}
	for size, group := range bySize {
		if len(group) < 2 {
			delete(bySize, size)
		}
	}
	return SizeBuckets(bySize)
}

// Candidates returns all bucket members as a flat slice.
// Order follows map iteration and carries no contract.
func (b SizeBuckets) Candidates() []*types.CandidateFile {
	var out []*types.CandidateFile
	for _, group := range b {
		out = append(out, group...)
	}
	return out
}

// Len returns the total number of candidates across all buckets.
func (b SizeBuckets) Len() int {
	n := 0
	for _, group := range b {
		n += len(group)
	}
	return n
}
