package trigger

import (
	"context"
	"testing"
	"time"

	"github.com/kvsearch/qexec/core/worker"
	"github.com/kvsearch/qexec/cursor"
)

func TestNewCronTrigger(t *testing.T) {
	ct := NewCronTrigger(&CronTriggerOptions{
		Spec: "0/1 * * * * ?",
	})
	ctx, cancel := context.WithCancel(context.Background())
	tbl := cursor.New()
	_, _ = ct.AddWorkers(ctx, worker.NewSweepWorker(tbl))
	time.Sleep(2 * time.Second)
	cancel()
	time.Sleep(1 * time.Second)
}

func TestNewCronTrigger2(t *testing.T) {
	ct := NewCronTrigger(&CronTriggerOptions{
		Spec: "0/1 * * * * ?",
	})
	ctx, cancel := context.WithCancel(context.Background())
	tbl := cursor.New()
	_, _ = ct.AddWorkers(ctx, worker.NewSweepWorker(tbl), worker.NewSweepWorker(tbl))
	_, _ = ct.AddWorkers(ctx, worker.NewSweepWorker(tbl), worker.NewSweepWorker(tbl))
	time.Sleep(2 * time.Second)
	cancel()
	time.Sleep(1 * time.Second)
}
