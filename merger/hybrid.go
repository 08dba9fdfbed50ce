package merger

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/kvsearch/qexec/flow"
	"github.com/kvsearch/qexec/lookup"
	"github.com/kvsearch/qexec/sresult"
	"github.com/kvsearch/qexec/value"
)

// Mode selects the hybrid merger's fusion algorithm.
type Mode uint8

const (
	// ModeLinear fuses scores as a weighted sum: sum(w_i * s_i) over
	// upstreams the document appears in.
	ModeLinear Mode = iota
	// ModeRRF fuses by Reciprocal Rank Fusion: sum(1 / (k + rank_i)).
	ModeRRF
)

const defaultRRFConstant = 60

// Config configures one HybridMerger instance.
type Config struct {
	Mode Mode

	// Linear mode.
	Weights []float64

	// RRF mode.
	K      int // default 60 when zero
	Window int // per-upstream rank cap; 0 means unbounded

	// ScoreKey, if non-nil, is where the fused score is written on the
	// primary row; otherwise only SearchResult.Score is set.
	ScoreKey *lookup.Key

	// Sides labels each subchain for error context-enhancement (e.g.
	// "search", "filter"); Sides[i] tags subchains[i]'s errors via
	// qerr.WithSubquerySide. A short or absent slice leaves the
	// corresponding depleters untagged.
	Sides []string
}

type bucketEntry struct {
	results []*sresult.SearchResult // indexed by upstream, nil if absent
}

// HybridMerger fuses N depleted ranked streams into one, per Config.Mode.
type HybridMerger struct {
	cfg       Config
	depleters []*Depleter
	fused     []*sresult.SearchResult
	idx       int
	built     bool
	exec      *flow.ExecContext
}

// New builds a HybridMerger over the given sub-pipeline terminal stages,
// each wrapped in its own Depleter sharing a fill barrier.
func New(subchains []flow.Stage, exec *flow.ExecContext, cfg Config) *HybridMerger {
	var barrier sync.WaitGroup
	barrier.Add(len(subchains))
	depleters := make([]*Depleter, len(subchains))
	for i, s := range subchains {
		var side string
		if i < len(cfg.Sides) {
			side = cfg.Sides[i]
		}
		depleters[i] = NewDepleter(s, exec, &barrier, side)
	}
	return &HybridMerger{cfg: cfg, depleters: depleters, exec: exec}
}

func (m *HybridMerger) Type() flow.Type          { return flow.TypeMerger }
func (m *HybridMerger) Upstream() flow.Stage     { return nil }
func (m *HybridMerger) Behavior() flow.Behavior  { return flow.BehaviorAccumulator }

func (m *HybridMerger) Next(res *sresult.SearchResult) flow.Status {
	if !m.built {
		if st := m.build(); st != flow.StatusOK {
			return st
		}
		m.built = true
	}
	if m.idx >= len(m.fused) {
		return flow.StatusEOF
	}
	top := m.fused[m.idx]
	m.idx++
	*res = *top
	return flow.StatusOK
}

// build drains every depleter to completion, then fuses the buffered
// results. A sub-pipeline ERROR makes build report ERROR. TIMED_OUT is not
// reported: rows of a timed-out sub-pipeline are fused like the others and
// Next ends with EOF, under either timeout policy.
func (m *HybridMerger) build() flow.Status {
	if err := FillAll(m.depleters); err != nil {
		return flow.StatusError
	}

	worstStatus := flow.StatusEOF
	for _, d := range m.depleters {
		if d.status == flow.StatusError {
			worstStatus = flow.StatusError
		} else if d.status == flow.StatusTimedOut && worstStatus != flow.StatusError {
			worstStatus = flow.StatusTimedOut
		}
	}

	buckets := map[uint64]*bucketEntry{}
	order := make([]uint64, 0)
	for i, d := range m.depleters {
		n := d.Len()
		ranked := rankByScore(d, n, m.cfg.Window)
		for _, r := range ranked {
			b, ok := buckets[r.DocID]
			if !ok {
				b = &bucketEntry{results: make([]*sresult.SearchResult, len(m.depleters))}
				buckets[r.DocID] = b
				order = append(order, r.DocID)
			}
			b.results[i] = r
		}
	}

	m.fused = make([]*sresult.SearchResult, 0, len(order))
	for _, docID := range order {
		b := buckets[docID]
		m.fused = append(m.fused, m.fuse(b))
	}

	if worstStatus == flow.StatusTimedOut {
		// the timeout is not surfaced: callers drain m.fused to
		// exhaustion and the final Next call (idx == len(fused)) reports
		// EOF, not TIMED_OUT.
		return flow.StatusOK
	}
	if worstStatus == flow.StatusError {
		return flow.StatusError
	}
	return flow.StatusOK
}

func rankByScore(d *Depleter, n, window int) []*sresult.SearchResult {
	idxs := make([]int, n)
	for i := range idxs {
		idxs[i] = i
	}
	sort.Slice(idxs, func(a, b int) bool {
		return d.At(idxs[a]).Score > d.At(idxs[b]).Score
	})
	if window > 0 && window < len(idxs) {
		idxs = idxs[:window]
	}
	return lo.Map(idxs, func(i, _ int) *sresult.SearchResult { return d.At(i) })
}

// fuse computes one document's fused score and designates the primary
// entry (the first non-nil by upstream index) as the row carrier.
func (m *HybridMerger) fuse(b *bucketEntry) *sresult.SearchResult {
	var primary *sresult.SearchResult
	var primaryIdx int
	for i, r := range b.results {
		if r != nil {
			primary = r
			primaryIdx = i
			break
		}
	}

	var score float64
	switch m.cfg.Mode {
	case ModeRRF:
		k := m.cfg.K
		if k == 0 {
			k = defaultRRFConstant
		}
		for i, r := range b.results {
			if r == nil {
				continue
			}
			rank := rankWithin(m.depleters[i], r)
			score += 1.0 / float64(k+rank)
		}
	default: // ModeLinear
		for i, r := range b.results {
			if r == nil {
				continue
			}
			w := 1.0
			if i < len(m.cfg.Weights) {
				w = m.cfg.Weights[i]
			}
			score += w * r.Score
		}
	}

	var merged sresult.Flag
	for _, r := range b.results {
		if r != nil {
			merged |= r.Flags
		}
	}
	primary.Flags = merged
	primary.Score = score
	if m.cfg.ScoreKey != nil {
		primary.Row.EnsureLen(m.cfg.ScoreKey.DstIdx() + 1)
		primary.Row.Set(m.cfg.ScoreKey.DstIdx(), value.NewNumber(score))
	}

	for i, r := range b.results {
		if r != nil && i != primaryIdx {
			r.Destroy()
		}
	}
	return primary
}

// rankWithin finds r's 1-based rank by descending score among d's
// buffered results (linear scan: buffers are request-scoped and small
// relative to the window cap in the common case).
func rankWithin(d *Depleter, r *sresult.SearchResult) int {
	rank := 1
	for i := 0; i < d.Len(); i++ {
		if d.At(i).Score > r.Score {
			rank++
		}
	}
	return rank
}

func (m *HybridMerger) Free() {
	for _, d := range m.depleters {
		d.Free()
	}
	for i := m.idx; i < len(m.fused); i++ {
		m.fused[i].Destroy()
	}
}
