package flow

import (
	"github.com/kvsearch/qexec/lookup"
	"github.com/kvsearch/qexec/source"
	"github.com/kvsearch/qexec/sresult"
	"github.com/kvsearch/qexec/value"
)

// ScoreFunc computes a document's score from the opaque index stats and
// result, the document metadata, the sorter's current short-circuit
// threshold (minScore), and per-query user data. Returning filterOut
// true is the FILTER_OUT sentinel: the document is dropped entirely.
type ScoreFunc func(indexStats any, ir *source.IndexResult, md *source.DocMetadata, minScore float64, userData any) (score float64, explain *sresult.Explain, filterOut bool)

// ScorerStage holds a scoring function, its per-query argument struct,
// and an optional score-key identifying where to write the score into
// the row.
type ScorerStage struct {
	base
	fn          ScoreFunc
	indexStats  any
	userData    any
	scoreKey    *lookup.Key // nil: do not write the row
	wantExplain bool
	minScoreFn  func() float64 // reads the sorter's current threshold, if spliced
	exec        *ExecContext
}

// NewScorer builds a Scorer stage over upstream.
func NewScorer(upstream Stage, fn ScoreFunc, indexStats, userData any, scoreKey *lookup.Key, wantExplain bool, exec *ExecContext) *ScorerStage {
	return &ScorerStage{
		base:        base{upstream: upstream},
		fn:          fn,
		indexStats:  indexStats,
		userData:    userData,
		scoreKey:    scoreKey,
		wantExplain: wantExplain,
		minScoreFn:  func() float64 { return 0 },
		exec:        exec,
	}
}

// SetMinScoreSource lets a downstream sorter feed its current top-K
// threshold back to the scorer so scoring functions that support early
// rejection can short-circuit.
func (s *ScorerStage) SetMinScoreSource(fn func() float64) { s.minScoreFn = fn }

func (s *ScorerStage) Type() Type { return TypeScorer }

func (s *ScorerStage) Next(res *sresult.SearchResult) Status {
	for {
		st := pull(s.upstream, res)
		if st != StatusOK {
			return st
		}

		score, explain, filterOut := s.fn(s.indexStats, res.IndexResult, res.DMD, s.minScoreFn(), s.userData)
		if filterOut {
			if s.exec != nil {
				s.exec.IncrTotalResults(-1)
			}
			res.Clear()
			continue
		}

		if s.wantExplain {
			res.Explain = explain
		}

		res.Score = score
		if s.scoreKey != nil {
			res.Row.EnsureLen(s.scoreKey.DstIdx() + 1)
			res.Row.Set(s.scoreKey.DstIdx(), value.NewNumber(score))
		}
		return StatusOK
	}
}
