package matcher

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/adaw/core-tools/internal/cache"
	"github.com/adaw/core-tools/internal/screener"
	"github.com/adaw/core-tools/internal/types"
)

const (
	// quickProbeSize is how much of a file's head the quick hash covers.
	quickProbeSize = 64 * 1024
	// blockSize is the read buffer size for full-content hashing.
	blockSize = 64 * 1024

	quickProgressEvery = 100
	fullProgressEvery  = 50
)

// quickKey groups files by size plus the digest of their leading chunk.
// Intermediate only, never exposed to the caller.
type quickKey struct {
	size   int64
	digest string
}

// ContentMatcher finds exact duplicates with two hashing stages.
//
// Stage A reads only the first 64 KiB of every candidate and groups by
// (size, digest); singleton groups are discarded, which eliminates most
// same-size false candidates without a single full read. Stage B streams
// the entire content of the survivors and groups by the full digest.
//
// The matcher is designed for single-use: create with NewContent, call Run once.
type ContentMatcher struct {
	algo       Algo
	workers    int
	cancel     *types.CancelFlag
	onProgress types.ProgressFunc
	hashCache  *cache.Cache // May be nil (disabled)

	// OnFullRead, when set, is invoked for every file whose whole content
	// is about to be read. Test instrumentation for the quick-hash
	// short-circuit guarantee.
	OnFullRead func(path string)
}

// NewContent creates a ContentMatcher. hashCache may be nil; onProgress may be nil.
func NewContent(algo Algo, workers int, cancel *types.CancelFlag, onProgress types.ProgressFunc, hashCache *cache.Cache) *ContentMatcher {
	return &ContentMatcher{
		algo:       algo,
		workers:    workers,
		cancel:     cancel,
		onProgress: onProgress,
		hashCache:  hashCache,
	}
}

// Run executes both hashing stages over the surviving size buckets and
// returns the confirmed exact-duplicate groups. Per-file I/O errors drop
// that file from consideration; a cancelled run returns the groups whose
// hashes completed before the flag was observed.
func (m *ContentMatcher) Run(buckets screener.SizeBuckets) ([]RawGroup, error) {
	if _, err := m.algo.New(); err != nil {
		return nil, err
	}

	candidates := buckets.Candidates()
	survivors := m.quickStage(candidates)
	if len(survivors) == 0 {
		return nil, nil
	}
	return m.fullStage(survivors), nil
}

// quickStage hashes the first 64 KiB of every candidate and returns the
// files belonging to colliding (size, digest) groups.
func (m *ContentMatcher) quickStage(candidates []*types.CandidateFile) []*types.CandidateFile {
	var (
		mu     sync.Mutex
		groups = make(map[quickKey][]*types.CandidateFile)
		done   atomic.Int64
		total  = len(candidates)
	)

	forEach(candidates, m.workers, m.cancel, func(f *types.CandidateFile) {
		digest, err := m.hashHead(f.Path)
		if err != nil {
			return // Unreadable file drops out of consideration
		}
		mu.Lock()
		groups[quickKey{f.Size, digest}] = append(groups[quickKey{f.Size, digest}], f)
		mu.Unlock()
		if n := done.Add(1); n%quickProgressEvery == 0 {
			m.report(fmt.Sprintf("Quick hash... %d/%d", n, total), int(n), total)
		}
	})

	var survivors []*types.CandidateFile
	for _, files := range groups {
		if len(files) > 1 {
			survivors = append(survivors, files...)
		}
	}
	return survivors
}

// fullStage hashes the entire content of every survivor and builds groups
// from full-digest collisions.
func (m *ContentMatcher) fullStage(survivors []*types.CandidateFile) []RawGroup {
	var (
		mu     sync.Mutex
		groups = make(map[string][]*types.CandidateFile)
		done   atomic.Int64
		total  = len(survivors)
	)

	forEach(survivors, m.workers, m.cancel, func(f *types.CandidateFile) {
		digest, err := m.hashFull(f)
		if err != nil {
			return
		}
		mu.Lock()
		groups[digest] = append(groups[digest], f)
		mu.Unlock()
		if n := done.Add(1); n%fullProgressEvery == 0 {
			m.report(fmt.Sprintf("Full hash... %d/%d", n, total), int(n), total)
		}
	})

	var out []RawGroup
	for digest, files := range groups {
		if len(files) > 1 {
			out = append(out, RawGroup{Key: digest, Method: types.MethodContentHash, Files: files})
		}
	}
	return out
}

// hashHead digests the first quickProbeSize bytes of the file.
func (m *ContentMatcher) hashHead(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	hasher, err := m.algo.New()
	if err != nil {
		return "", err
	}
	if _, err := io.CopyN(hasher, f, quickProbeSize); err != nil && err != io.EOF {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// hashFull digests the whole file, streamed in blockSize reads.
// Consults the digest cache first when one is attached.
func (m *ContentMatcher) hashFull(cf *types.CandidateFile) (string, error) {
	if cached := m.hashCache.Lookup(m.algo.Name(), cf); cached != nil {
		return hex.EncodeToString(cached), nil
	}

	if m.OnFullRead != nil {
		m.OnFullRead(cf.Path)
	}

	f, err := os.Open(cf.Path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	hasher, err := m.algo.New()
	if err != nil {
		return "", err
	}
	buf := make([]byte, blockSize)
	if _, err := io.CopyBuffer(hasher, f, buf); err != nil {
		return "", err
	}

	digest := hasher.Sum(nil)
	m.hashCache.Store(m.algo.Name(), cf, digest)
	return hex.EncodeToString(digest), nil
}

func (m *ContentMatcher) report(msg string, current, total int) {
	if m.onProgress != nil {
		m.onProgress(msg, current, total)
	}
}
