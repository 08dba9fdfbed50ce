package flow

import (
	"container/heap"

	"github.com/kvsearch/qexec/lookup"
	"github.com/kvsearch/qexec/sresult"
	"github.com/kvsearch/qexec/value"
)

// SortCriterion is one key in a composite sort-key tuple.
type SortCriterion struct {
	Key        *lookup.Key
	Descending bool
}

// less reports whether a sorts strictly before b under criteria, with a
// docId tie-break per criterion[0]'s direction.
func less(criteria []SortCriterion, a, b *sresult.SearchResult) bool {
	for _, c := range criteria {
		av := a.Row.Get(c.Key.DstIdx())
		bv := b.Row.Get(c.Key.DstIdx())
		cmp := value.Compare(av, bv)
		if c.Descending {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp < 0
		}
	}
	if len(criteria) == 0 {
		// default: score descending, docId ascending tie-break
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.DocID < b.DocID
	}
	if criteria[0].Descending {
		return a.DocID > b.DocID
	}
	return a.DocID < b.DocID
}

// sortHeap is a min-heap over "preferred" ordering: its root is the
// worst-kept element, so eviction is O(log n).
type sortHeap struct {
	criteria []SortCriterion
	items    []*sresult.SearchResult
}

func (h *sortHeap) Len() int { return len(h.items) }
func (h *sortHeap) Less(i, j int) bool {
	// min-heap root = worst element = the one that is NOT preferred,
	// i.e. items[j] is preferred over items[i] iff less(criteria, j, i).
	return less(h.criteria, h.items[j], h.items[i])
}
func (h *sortHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *sortHeap) Push(x any)    { h.items = append(h.items, x.(*sresult.SearchResult)) }
func (h *sortHeap) Pop() any {
	n := len(h.items)
	it := h.items[n-1]
	h.items[n-1] = nil
	h.items = h.items[:n-1]
	return it
}

// SorterStage maintains a bounded min-heap (root = worst kept) of the best
// limit candidates seen so far, then yields them in preferred order.
type SorterStage struct {
	base
	exec      *ExecContext
	limit     int
	quickExit bool
	heap      *sortHeap
	minScore  float64

	yielding bool
	yieldBuf []*sresult.SearchResult
	terminal Status // status reported once yieldBuf drains: EOF or TimedOut
}

// NewSorter builds a Sorter stage over upstream, keeping the best
// offset+limitCap results ordered by criteria (empty criteria means sort
// by score descending, docId ascending). exec governs the RETURN/FAIL
// timeout policy observed once accumulation sees TIMED_OUT.
func NewSorter(upstream Stage, exec *ExecContext, criteria []SortCriterion, limit int, quickExit bool) *SorterStage {
	return &SorterStage{
		base:      base{upstream: upstream},
		exec:      exec,
		limit:     limit,
		quickExit: quickExit,
		heap:      &sortHeap{criteria: criteria},
		terminal:  StatusEOF,
	}
}

func (s *SorterStage) Type() Type         { return TypeSorter }
func (s *SorterStage) Behavior() Behavior { return BehaviorAccumulator }

// MinScore reports the current short-circuit threshold: the highest score
// among rows the full heap has evicted or refused, or 0 before any.
func (s *SorterStage) MinScore() float64 { return s.minScore }

func (s *SorterStage) Next(res *sresult.SearchResult) Status {
	if !s.yielding {
		st := s.accumulate()
		switch st {
		case StatusEOF:
			s.terminal = StatusEOF
			s.beginYield()
		case StatusTimedOut:
			// under FAIL policy, TIMED_OUT is propagated immediately with
			// no rows emitted; under RETURN, buffered candidates are
			// still yielded and TIMED_OUT surfaces once they're drained.
			if s.exec != nil && s.exec.Policy == PolicyFail {
				return StatusTimedOut
			}
			s.terminal = StatusTimedOut
			s.beginYield()
		default:
			return st
		}
	}
	return s.yieldOne(res)
}

func (s *SorterStage) accumulate() Status {
	scratch := sresult.New(0)
	for {
		st := pull(s.upstream, scratch)
		switch st {
		case StatusOK:
			s.consider(scratch)
			scratch = sresult.New(0)
		case StatusEOF:
			return StatusEOF
		case StatusTimedOut:
			return StatusTimedOut
		default:
			return st
		}
		if s.quickExit && s.limit > 0 && s.heap.Len() == s.limit {
			return StatusEOF
		}
	}
}

func (s *SorterStage) consider(r *sresult.SearchResult) {
	if s.limit <= 0 {
		r.Destroy()
		return
	}
	if s.heap.Len() < s.limit {
		heap.Push(s.heap, r)
		return
	}
	worst := s.heap.items[0]
	if less(s.heap.criteria, r, worst) {
		evicted := heap.Pop(s.heap).(*sresult.SearchResult)
		if evicted.Score > s.minScore {
			s.minScore = evicted.Score
		}
		evicted.Destroy()
		heap.Push(s.heap, r)
	} else {
		if r.Score > s.minScore {
			s.minScore = r.Score
		}
		r.Destroy()
	}
}

func (s *SorterStage) beginYield() {
	s.yielding = true
	n := s.heap.Len()
	s.yieldBuf = make([]*sresult.SearchResult, n)
	for i := n - 1; i >= 0; i-- {
		s.yieldBuf[i] = heap.Pop(s.heap).(*sresult.SearchResult)
	}
}

func (s *SorterStage) yieldOne(res *sresult.SearchResult) Status {
	if len(s.yieldBuf) == 0 {
		return s.terminal
	}
	top := s.yieldBuf[0]
	s.yieldBuf = s.yieldBuf[1:]
	*res = *top
	return StatusOK
}

func (s *SorterStage) Free() {
	if s.alreadyFreed() {
		return
	}
	s.markFreed()
	for _, r := range s.heap.items {
		r.Destroy()
	}
	for _, r := range s.yieldBuf {
		r.Destroy()
	}
	if s.upstream != nil {
		s.upstream.Free()
	}
}
