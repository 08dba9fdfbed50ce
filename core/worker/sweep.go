package worker

import (
	"context"

	"github.com/kvsearch/qexec/cursor"
)

// SweepWorker evicts idle-expired cursors on each BatchJob tick. It
// implements BatchWorker: Context stores the job's context (a sweep pass
// does not consult it), Done signals completion back to the scheduling job.
type SweepWorker struct {
	Table *cursor.Table

	ctx  context.Context
	done chan struct{}
}

func NewSweepWorker(table *cursor.Table) *SweepWorker {
	return &SweepWorker{Table: table, done: make(chan struct{}, 1)}
}

func (w *SweepWorker) Context(ctx context.Context) {
	w.ctx = ctx
}

func (w *SweepWorker) Done() <-chan struct{} {
	return w.done
}

func (w *SweepWorker) Work() {
	defer func() { w.done <- struct{}{} }()
	w.Table.Sweep()
}
