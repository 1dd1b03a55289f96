// Package controller orchestrates the scan pipeline on a background
// goroutine: collect, group by size, match, aggregate.
//
// The controller owns the cooperative cancellation flag and the callback
// contract: progress updates are throttled and best-effort, the
// completion callback fires exactly once per scan with whatever results
// exist, and a scan cancelled mid-match still delivers the groups whose
// hashing finished before the flag was observed. The only state carried
// across scans is the last completed stats snapshot.
package controller

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adaw/core-tools/internal/aggregator"
	"github.com/adaw/core-tools/internal/cache"
	"github.com/adaw/core-tools/internal/collector"
	"github.com/adaw/core-tools/internal/matcher"
	"github.com/adaw/core-tools/internal/screener"
	"github.com/adaw/core-tools/internal/types"
)

// DefaultThreshold is the Hamming-distance threshold used when the
// request does not specify one.
const DefaultThreshold = 5

// Request validation errors, reported synchronously from Start before any
// background work begins.
var (
	ErrNoRoots      = errors.New("no root directories given")
	ErrSizeRange    = errors.New("min size exceeds max size")
	ErrDateRange    = errors.New("date-from is after date-to")
	ErrScanRunning  = errors.New("a scan is already running")
	ErrNoCompletion = errors.New("completion callback is required")
)

// State tracks the scan lifecycle.
type State int32

const (
	StateIdle State = iota
	StateCollecting
	StateGrouping
	StateMatching
	StateAggregating
	StateDone
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollecting:
		return "collecting"
	case StateGrouping:
		return "grouping"
	case StateMatching:
		return "matching"
	case StateAggregating:
		return "aggregating"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Request describes a single scan invocation.
type Request struct {
	Roots  []string
	Method types.MatchMethod
	Algo   matcher.Algo // Content-hash digest algorithm, sha256 when empty

	MinSize    int64
	MaxSize    int64
	Extensions map[string]struct{}
	DateFrom   time.Time
	DateTo     time.Time

	ImageExtensions map[string]struct{} // nil means the default image set
	Threshold       int                 // Hamming distance, DefaultThreshold when 0
	Workers         int                 // Worker pool size, matcher.DefaultWorkers when 0

	OnProgress types.ProgressFunc
	OnComplete types.CompleteFunc
}

// Controller runs scans. Capabilities (perceptual provider, hash cache)
// are resolved once at construction; a nil provider degrades perceptual
// scans to zero groups rather than failing them.
type Controller struct {
	perceptual matcher.FingerprintProvider
	hashCache  *cache.Cache

	state     atomic.Int32
	cancel    *types.CancelFlag
	running   atomic.Bool
	statsMu   sync.Mutex
	lastStats types.ScanStats
}

// New creates a Controller. Both arguments may be nil.
func New(perceptual matcher.FingerprintProvider, hashCache *cache.Cache) *Controller {
	return &Controller{perceptual: perceptual, hashCache: hashCache}
}

// Start validates the request and launches the scan on a background
// goroutine. Validation failures return synchronously; everything after
// that is reported through the callbacks.
func (c *Controller) Start(req Request) error {
	if err := validate(req); err != nil {
		return err
	}
	if !c.running.CompareAndSwap(false, true) {
		return ErrScanRunning
	}

	c.cancel = &types.CancelFlag{}
	c.state.Store(int32(StateIdle))
	go c.run(req)
	return nil
}

// Cancel requests cooperative cancellation of the running scan, if any.
// The flag is one-shot: once set it stays set for the rest of that scan.
func (c *Controller) Cancel() {
	if c.running.Load() && c.cancel != nil {
		c.cancel.Cancel()
	}
}

// State returns the current scan state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// LastStats returns the stats snapshot of the most recently completed
// scan. Kept for caller convenience; no other state survives a scan.
func (c *Controller) LastStats() types.ScanStats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.lastStats
}

func validate(req Request) error {
	if len(req.Roots) == 0 {
		return ErrNoRoots
	}
	if req.OnComplete == nil {
		return ErrNoCompletion
	}
	if req.MaxSize > 0 && req.MinSize > req.MaxSize {
		return ErrSizeRange
	}
	if !req.DateFrom.IsZero() && !req.DateTo.IsZero() && req.DateFrom.After(req.DateTo) {
		return ErrDateRange
	}
	if _, err := req.Algo.New(); err != nil {
		return err
	}
	return nil
}

// run executes the pipeline. Completion is delivered from the deferred
// finisher so it fires exactly once on every exit path, including an
// internal panic (surfaced as an error-tagged progress message with
// whatever partial results exist).
func (c *Controller) run(req Request) {
	var (
		groups []types.DuplicateGroup
		stats  types.ScanStats
		once   sync.Once
	)

	finish := func() {
		once.Do(func() {
			if c.cancel.Cancelled() {
				c.state.Store(int32(StateCancelled))
			} else {
				c.state.Store(int32(StateDone))
			}
			c.statsMu.Lock()
			c.lastStats = stats
			c.statsMu.Unlock()
			c.running.Store(false)
			req.OnComplete(groups, stats)
		})
	}
	defer func() {
		if r := recover(); r != nil {
			c.report(req, fmt.Sprintf("Error: %v", r), -1, -1)
		}
		finish()
	}()

	// Phase 1: collect candidates.
	c.state.Store(int32(StateCollecting))
	c.report(req, "Collecting files...", 0, 0)
	filter := collector.Filter{
		MinSize:    req.MinSize,
		MaxSize:    req.MaxSize,
		Extensions: req.Extensions,
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
	}
	candidates := collector.New(req.Roots, filter, c.cancel, req.OnProgress).Run()
	if len(candidates) == 0 || c.cancel.Cancelled() {
		return // Nothing collected yet - cancelled scans end empty here
	}
	stats.FilesScanned = len(candidates)

	// Phase 2: group by size.
	c.state.Store(int32(StateGrouping))
	c.report(req, "Grouping by size...", 0, len(candidates))
	buckets := screener.GroupBySize(candidates)
	c.report(req, fmt.Sprintf("%d candidates in %d size groups", buckets.Len(), len(buckets)), 0, buckets.Len())

	// Phase 3: match.
	c.state.Store(int32(StateMatching))
	raw := c.match(req, buckets, candidates)

	// Phase 4: aggregate. Runs even after cancellation so completed
	// groups become a best-effort partial result.
	c.state.Store(int32(StateAggregating))
	groups, stats = aggregator.Aggregate(raw, len(candidates))
	c.report(req, "Done", 1, 1)
}

func (c *Controller) match(req Request, buckets screener.SizeBuckets, candidates []*types.CandidateFile) []matcher.RawGroup {
	threshold := req.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	switch req.Method {
	case types.MethodNameSize:
		return matcher.NewName(c.cancel, req.OnProgress).Run(buckets)
	case types.MethodPerceptual:
		// Perceptual similarity is size-independent: the matcher sees the
		// full candidate list, not the size buckets.
		m := matcher.NewPerceptual(c.perceptual, threshold, req.ImageExtensions, req.Workers, c.cancel, req.OnProgress)
		return m.Run(candidates)
	default:
		m := matcher.NewContent(req.Algo, req.Workers, c.cancel, req.OnProgress, c.hashCache)
		raw, err := m.Run(buckets)
		if err != nil {
			// Algo was validated in Start; anything here is unexpected.
			c.report(req, fmt.Sprintf("Error: %v", err), -1, -1)
			return nil
		}
		return raw
	}
}

func (c *Controller) report(req Request, msg string, current, total int) {
	if req.OnProgress != nil {
		req.OnProgress(msg, current, total)
	}
}
