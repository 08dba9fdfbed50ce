// Package merger implements the hybrid result merger: per-subquery
// depleters that buffer a sub-pipeline to completion, and a fusion stage
// that combines their buffers by Reciprocal Rank Fusion or weighted-linear
// scoring.
package merger

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kvsearch/qexec/flow"
	"github.com/kvsearch/qexec/qerr"
	"github.com/kvsearch/qexec/sresult"
)

// fillPhase tracks a Depleter's progress through filling its buffer, then
// draining (replaying) it to the merger.
type fillPhase uint8

const (
	phaseFilling fillPhase = iota
	phaseDraining
	phaseDone
)

// Depleter drains one hybrid sub-pipeline into an in-memory buffer, then
// replays it on demand. The buffer has no size cap: it holds every row the
// sub-pipeline yields. While filling it reports DEPLETING; the
// merger must not observe a depleter's buffer until filling completes.
type Depleter struct {
	upstream flow.Stage
	exec     *flow.ExecContext
	side     string // which hybrid sub-query this depleter drains, e.g. "search" or "filter"

	phase fillPhase
	buf   []*sresult.SearchResult
	cur   int

	status flow.Status // terminal status filling ended with (EOF or TIMED_OUT)

	// barrier is the shared counter all sibling depleters hold a
	// reference to; it reaches zero once every depleter has finished
	// filling, which is the signal that no two depleters can still be
	// racing for the same store lock.
	barrier *sync.WaitGroup
}

// NewDepleter builds a Depleter over a sub-pipeline's terminal stage,
// sharing barrier with its sibling depleters in the same hybrid request.
// side identifies this sub-pipeline for error context-enhancement (see
// qerr.WithSubquerySide); pass "" when the caller has no such distinction.
func NewDepleter(upstream flow.Stage, exec *flow.ExecContext, barrier *sync.WaitGroup, side string) *Depleter {
	return &Depleter{upstream: upstream, exec: exec, barrier: barrier, side: side}
}

// Fill drains upstream fully into the buffer. Safe to run concurrently for
// sibling depleters of the same merger via errgroup; it calls Done on the
// shared barrier exactly once, when it returns, after it stops filling.
func (d *Depleter) Fill() error {
	defer d.barrier.Done()
	for {
		r := sresult.New(0)
		st := d.upstream.Next(r)
		switch st {
		case flow.StatusOK:
			d.buf = append(d.buf, r.Clone())
			r.Clear()
		case flow.StatusEOF, flow.StatusTimedOut:
			d.status = st
			d.phase = phaseDraining
			return nil
		case flow.StatusError:
			d.status = st
			d.phase = phaseDraining
			if err := d.exec.Err(); err != nil {
				return qerr.WithSubquerySide(err, d.side)
			}
			return qerr.WithSubquerySide(qerr.New(qerr.CodeGeneric, "sub-pipeline reported an error"), d.side)
		default:
			continue
		}
	}
}

// Next replays the buffer once filling is complete; before that it
// reports DEPLETING.
func (d *Depleter) Next(res *sresult.SearchResult) flow.Status {
	if d.phase == phaseFilling {
		return flow.StatusDepleting
	}
	if d.cur >= len(d.buf) {
		d.phase = phaseDone
		return d.status
	}
	*res = *d.buf[d.cur]
	d.cur++
	return flow.StatusOK
}

// Len reports the buffer's size, valid once filling has completed.
func (d *Depleter) Len() int { return len(d.buf) }

// At returns the i-th buffered result without advancing Next's cursor,
// used by the fusion pass to rank every buffered entry.
func (d *Depleter) At(i int) *sresult.SearchResult { return d.buf[i] }

// FillAll concurrently fills every depleter in the set and waits for all
// to finish (or the first hard error).
func FillAll(depleters []*Depleter) error {
	var barrier sync.WaitGroup
	barrier.Add(len(depleters))
	for _, d := range depleters {
		d.barrier = &barrier
	}

	g := new(errgroup.Group)
	for _, d := range depleters {
		d := d
		g.Go(d.Fill)
	}
	return g.Wait()
}

// Free releases this depleter's sub-pipeline and any unreplayed buffered
// results.
func (d *Depleter) Free() {
	for i := d.cur; i < len(d.buf); i++ {
		d.buf[i].Destroy()
	}
	d.buf = nil
	if d.upstream != nil {
		d.upstream.Free()
	}
}
