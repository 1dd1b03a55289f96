package matcher

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adaw/core-tools/internal/screener"
	"github.com/adaw/core-tools/internal/types"
)

const nameProgressEvery = 500

// nameKey groups files by size plus case-folded base name.
type nameKey struct {
	size int64
	name string
}

// NameMatcher groups candidates by (size, lowercased base name).
//
// A cheaper alternative to content hashing: no reads beyond the metadata
// the collector already gathered. Useful when content differs trivially
// (re-encoded copies) but names were preserved.
type NameMatcher struct {
	cancel     *types.CancelFlag
	onProgress types.ProgressFunc
}

// NewName creates a NameMatcher. onProgress may be nil.
func NewName(cancel *types.CancelFlag, onProgress types.ProgressFunc) *NameMatcher {
	return &NameMatcher{cancel: cancel, onProgress: onProgress}
}

// Run groups the surviving size buckets by name key and returns groups
// with two or more members.
func (m *NameMatcher) Run(buckets screener.SizeBuckets) []RawGroup {
	groups := make(map[nameKey][]*types.CandidateFile)
	done := 0
	for _, bucket := range buckets {
		if m.cancel.Cancelled() {
			break
		}
		for _, f := range bucket {
			key := nameKey{f.Size, strings.ToLower(filepath.Base(f.Path))}
			groups[key] = append(groups[key], f)
			done++
			if done%nameProgressEvery == 0 {
				m.report(fmt.Sprintf("Comparing names... %d", done), done, done)
			}
		}
	}

	var out []RawGroup
	for key, files := range groups {
		if len(files) > 1 {
			out = append(out, RawGroup{
				Key:    fmt.Sprintf("%s:%d", key.name, key.size),
				Method: types.MethodNameSize,
				Files:  files,
			})
		}
	}
	return out
}

func (m *NameMatcher) report(msg string, current, total int) {
	if m.onProgress != nil {
		m.onProgress(msg, current, total)
	}
}
