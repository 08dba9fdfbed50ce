// Package engine wires the cursor idle-sweep and request-offload jobs
// into a single process lifecycle: Run launches every job, blocks for a
// shutdown signal, then stops them.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kvsearch/qexec/core/job"
)

type Options struct {
	Jobs []job.Job
}

type Engine struct {
	stopChan chan os.Signal
	jobs     []job.Job
}

func New(opt *Options) *Engine {
	return &Engine{
		jobs:     opt.Jobs,
		stopChan: make(chan os.Signal, 1),
	}
}

func (e *Engine) start() error {
	slog.Info("engine starting", slog.Int("jobs", len(e.jobs)))
	ctx := context.Background()
	errs := make([]error, 0, len(e.jobs))
	for _, j := range e.jobs {
		errs = append(errs, j.Start(ctx))
	}
	return errors.Join(errs...)
}

func (e *Engine) wait() {
	signal.Notify(e.stopChan, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
	<-e.stopChan
	close(e.stopChan)
}

func (e *Engine) stop() error {
	slog.Info("engine stopping")
	errs := make([]error, 0, len(e.jobs))
	for _, j := range e.jobs {
		errs = append(errs, j.Stop())
	}
	return errors.Join(errs...)
}

// Run starts every job, blocks until a termination signal arrives, then
// stops every job in turn.
func (e *Engine) Run() error {
	if err := e.start(); err != nil {
		return err
	}
	e.wait()
	return e.stop()
}
