package matcher

import (
	"fmt"
	"math/bits"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/adaw/core-tools/internal/types"
)

const perceptualProgressEvery = 20

// DefaultImageExtensions are the extensions treated as images when the
// request does not supply its own set.
var DefaultImageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".bmp": {},
	".gif": {}, ".tiff": {}, ".webp": {},
}

// FingerprintProvider computes a perceptual fingerprint for an image file.
// Visually similar images yield fingerprints with small Hamming distance.
// The provider is an optional capability: a scan configured without one
// degrades to zero perceptual groups instead of failing.
type FingerprintProvider interface {
	Fingerprint(path string) (uint64, error)
}

// PerceptualMatcher clusters image files whose fingerprints are within a
// Hamming-distance threshold of a cluster anchor.
//
// Clustering is anchor-based, not transitive: fingerprints are visited in
// candidate order, the first unassigned item seeds a cluster, and every
// later unassigned item within threshold of that anchor joins it. Two
// members of a cluster are each close to the anchor but not necessarily
// to each other, and an item just over threshold from the anchor never
// joins even if it is close to another member. Results therefore depend
// on the order candidates arrive in.
type PerceptualMatcher struct {
	provider   FingerprintProvider
	threshold  int
	imageExts  map[string]struct{}
	workers    int
	cancel     *types.CancelFlag
	onProgress types.ProgressFunc
}

// NewPerceptual creates a PerceptualMatcher. A nil imageExts falls back to
// DefaultImageExtensions; onProgress may be nil.
func NewPerceptual(provider FingerprintProvider, threshold int, imageExts map[string]struct{}, workers int, cancel *types.CancelFlag, onProgress types.ProgressFunc) *PerceptualMatcher {
	if imageExts == nil {
		imageExts = DefaultImageExtensions
	}
	return &PerceptualMatcher{
		provider:   provider,
		threshold:  threshold,
		imageExts:  imageExts,
		workers:    workers,
		cancel:     cancel,
		onProgress: onProgress,
	}
}

// Run fingerprints every image candidate on the worker pool, then clusters
// single-threaded in the original candidate order. Files that fail to
// decode are skipped. Returns nil with a progress message when no
// fingerprint provider is available.
func (m *PerceptualMatcher) Run(candidates []*types.CandidateFile) []RawGroup {
	if m.provider == nil {
		m.report("Perceptual hashing unavailable, skipping", 0, 1)
		return nil
	}

	images := make([]*types.CandidateFile, 0)
	for _, f := range candidates {
		ext := strings.ToLower(filepath.Ext(f.Path))
		if _, ok := m.imageExts[ext]; ok {
			images = append(images, f)
		}
	}
	if len(images) == 0 {
		return nil
	}

	fingerprints := m.fingerprintAll(images)
	return m.cluster(fingerprints)
}

// fingerprint pairs a candidate with its computed fingerprint.
type fingerprint struct {
	file *types.CandidateFile
	hash uint64
	ok   bool
}

// fingerprintAll computes fingerprints in parallel while preserving the
// input order: each worker writes only its own slot, and decode failures
// are compacted out afterwards. Fingerprinting may complete out of order;
// the slice handed to clustering never does.
func (m *PerceptualMatcher) fingerprintAll(images []*types.CandidateFile) []fingerprint {
	results := make([]fingerprint, len(images))
	index := make(map[*types.CandidateFile]int, len(images))
	for i, f := range images {
		index[f] = i
	}

	var done atomic.Int64
	total := len(images)
	forEach(images, m.workers, m.cancel, func(f *types.CandidateFile) {
		h, err := m.provider.Fingerprint(f.Path)
		i := index[f]
		if err != nil {
			results[i] = fingerprint{file: f} // Decode failure - skipped, not fatal
		} else {
			results[i] = fingerprint{file: f, hash: h, ok: true}
		}
		if n := done.Add(1); n%perceptualProgressEvery == 0 {
			m.report(fmt.Sprintf("Perceptual hash... %d/%d", n, total), int(n), total)
		}
	})

	compact := results[:0]
	for _, r := range results {
		if r.ok {
			compact = append(compact, r)
		}
	}
	return compact
}

// cluster performs the anchor-based similarity pass over fingerprints in
// their given order.
func (m *PerceptualMatcher) cluster(fps []fingerprint) []RawGroup {
	assigned := make([]bool, len(fps))
	var out []RawGroup
	gid := 0
	for i, anchor := range fps {
		if assigned[i] {
			continue
		}
		group := []*types.CandidateFile{anchor.file}
		assigned[i] = true
		for j := i + 1; j < len(fps); j++ {
			if assigned[j] {
				continue
			}
			if hamming(anchor.hash, fps[j].hash) <= m.threshold {
				group = append(group, fps[j].file)
				assigned[j] = true
			}
		}
		if len(group) > 1 {
			out = append(out, RawGroup{
				Key:    fmt.Sprintf("phash_group_%d", gid),
				Method: types.MethodPerceptual,
				Files:  group,
			})
			gid++
		}
	}
	return out
}

// hamming returns the Hamming distance between two 64-bit fingerprints.
func hamming(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

func (m *PerceptualMatcher) report(msg string, current, total int) {
	if m.onProgress != nil {
		m.onProgress(msg, current, total)
	}
}
