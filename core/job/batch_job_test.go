package job

import (
	"context"
	"testing"
	"time"

	"github.com/kvsearch/qexec/core/trigger"
	"github.com/kvsearch/qexec/core/worker"
	"github.com/kvsearch/qexec/cursor"
)

func TestNewBatchJob(t *testing.T) {
	tbl := cursor.New()
	bj := NewBatchJob(&BatchJobOptions{
		Trigger: trigger.NewCronTrigger(&trigger.CronTriggerOptions{
			Spec: "0/1 * * * * ?",
		}),
		Workers: []worker.BatchWorker{worker.NewSweepWorker(tbl), worker.NewSweepWorker(tbl)},
	})
	err := bj.Start(context.Background())
	t.Log(err)
	time.Sleep(2 * time.Second)
	err = bj.Stop()
	t.Log(err)
}
