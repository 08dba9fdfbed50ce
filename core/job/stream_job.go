package job

import (
	"context"

	"github.com/kvsearch/qexec/core/broker"
	"github.com/kvsearch/qexec/core/scheduler"
	"github.com/kvsearch/qexec/core/worker"
)

// StreamJobConfig bounds how many offloaded requests a StreamJob drains
// concurrently.
type StreamJobConfig struct {
	MaxWork int `yaml:"MaxWorker"`
}

type StreamJobOptions struct {
	Config *StreamJobConfig
	Worker worker.StreamWorker
	Broker broker.Broker
}

// StreamJob runs a StreamWorker against a broker's queue of offloaded
// aggregation requests. It is a thin Job wrapper around a scheduler,
// which owns the actual consume-work-ack loop and concurrency limiter.
type StreamJob struct {
	sched *scheduler.Scheduler
}

func NewStreamJob(opt *StreamJobOptions) Job {
	return &StreamJob{
		sched: scheduler.New(&scheduler.Options{
			Config: &scheduler.Config{MaxWorker: opt.Config.MaxWork},
			Worker: opt.Worker,
			Broker: opt.Broker,
		}),
	}
}

func (s *StreamJob) Start(ctx context.Context) error {
	s.sched.Start(ctx)
	return nil
}

func (s *StreamJob) Stop() error {
	s.sched.Stop()
	return nil
}
