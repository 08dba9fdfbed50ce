package flow

import (
	"time"

	"github.com/kvsearch/qexec/sresult"
)

// ProfileStage wraps another stage transparently, timing each wrapped
// Next call with a monotonic clock and counting calls. On EOF the call
// counter is bumped once more so it reflects how many times the wrapped
// stage conceptually ran.
type ProfileStage struct {
	base
	wrapped  Stage
	calls    int
	duration time.Duration
}

// NewProfile wraps stage for timing. It reports Upstream() as stage's own
// upstream so the chain's shape is unaffected by profiling.
func NewProfile(stage Stage) *ProfileStage {
	return &ProfileStage{base: base{upstream: stage.Upstream()}, wrapped: stage}
}

func (p *ProfileStage) Type() Type         { return TypeProfile }
func (p *ProfileStage) Behavior() Behavior { return p.wrapped.Behavior() }

// Calls reports how many Next calls the wrapped stage has handled so far.
func (p *ProfileStage) Calls() int { return p.calls }

// Duration reports cumulative time spent in the wrapped stage's Next.
func (p *ProfileStage) Duration() time.Duration { return p.duration }

func (p *ProfileStage) Next(res *sresult.SearchResult) Status {
	start := time.Now()
	st := p.wrapped.Next(res)
	p.duration += time.Since(start)
	p.calls++
	if st == StatusEOF {
		p.calls++
	}
	return st
}

func (p *ProfileStage) Free() {
	if p.alreadyFreed() {
		return
	}
	p.markFreed()
	p.wrapped.Free()
}
