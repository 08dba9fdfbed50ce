package flow

import "github.com/kvsearch/qexec/sresult"

// CounterStage drains its upstream entirely, counting OKs, then reports
// EOF. It never yields a visible row; Count is read out of band.
type CounterStage struct {
	base
	count int
	done  bool
}

// NewCounter builds a Counter stage over upstream.
func NewCounter(upstream Stage) *CounterStage {
	return &CounterStage{base: base{upstream: upstream}}
}

func (c *CounterStage) Type() Type         { return TypeCounter }
func (c *CounterStage) Behavior() Behavior { return BehaviorAccumulator }

// Count reports how many upstream results were drained so far (final
// once Next has returned a non-OK status).
func (c *CounterStage) Count() int { return c.count }

func (c *CounterStage) Next(res *sresult.SearchResult) Status {
	if c.done {
		return StatusEOF
	}
	scratch := sresult.New(0)
	for {
		st := pull(c.upstream, scratch)
		switch st {
		case StatusOK:
			c.count++
			scratch.Clear()
		case StatusEOF:
			c.done = true
			return StatusEOF
		default:
			c.done = true
			return st
		}
	}
}
