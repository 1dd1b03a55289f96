// Package matcher implements the duplicate matching strategies.
//
// Three matchers share the candidate pipeline:
//
//   - ContentMatcher: exact byte-for-byte duplicates via two-stage hashing
//   - NameMatcher: (size, case-folded name) equivalence, no extra I/O
//   - PerceptualMatcher: visually similar images via perceptual fingerprints
//
// Matchers produce RawGroups; ranking and stats are the aggregator's job.
// Hashing and fingerprinting fan out across a bounded worker pool since
// the work is dominated by file I/O. Workers poll the cancellation flag
// between files: once it is set they stop consuming new work, and groups
// already fully computed remain valid partial results.
package matcher

import (
	"crypto/md5"
	"crypto/sha256"
	"fmt"
	"hash"
	"sync"

	"github.com/adaw/core-tools/internal/types"
)

// DefaultWorkers is the worker pool size used when the request does not
// specify one.
const DefaultWorkers = 4

// RawGroup is an unranked set of matching files handed to the aggregator.
type RawGroup struct {
	Key    string
	Method types.MatchMethod
	Files  []*types.CandidateFile
}

// Algo selects the digest algorithm used by the content matcher.
// Collision resistance is assumed, not engineered: md5 is acceptable here
// because the two-stage design only ever compares same-size files.
type Algo string

const (
	AlgoSHA256 Algo = "sha256"
	AlgoMD5    Algo = "md5"
)

// Name returns the canonical algorithm name; the zero value means sha256.
func (a Algo) Name() string {
	if a == "" {
		return string(AlgoSHA256)
	}
	return string(a)
}

// New returns a fresh hash.Hash for the algorithm.
func (a Algo) New() (hash.Hash, error) {
	switch a {
	case AlgoSHA256, "":
		return sha256.New(), nil
	case AlgoMD5:
		return md5.New(), nil
	default:
		return nil, fmt.Errorf("unknown digest algorithm %q", a)
	}
}

// forEach runs fn for every file on a pool of workers goroutines.
// The cancellation flag is checked before each file; remaining work is
// drained without being processed once it is set. fn is responsible for
// synchronizing any shared state it mutates.
func forEach(files []*types.CandidateFile, workers int, cancel *types.CancelFlag, fn func(*types.CandidateFile)) {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	jobCh := make(chan *types.CandidateFile)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobCh {
				if cancel.Cancelled() {
					continue // Drain remaining jobs without working
				}
				fn(f)
			}
		}()
	}

	for _, f := range files {
		jobCh <- f
	}
	close(jobCh)
	wg.Wait()
}
