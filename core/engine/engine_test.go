package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kvsearch/qexec/core/broker"
	"github.com/kvsearch/qexec/core/job"
	"github.com/kvsearch/qexec/core/trigger"
	"github.com/kvsearch/qexec/core/worker"
	"github.com/kvsearch/qexec/cursor"
	"github.com/kvsearch/qexec/flow"
	"github.com/kvsearch/qexec/params"
	"github.com/kvsearch/qexec/source"
)

type emptyIterator struct{}

func (emptyIterator) Next() (uint64, *source.IndexResult, *source.DocMetadata, source.IterStatus) {
	return 0, nil, nil, source.IterEOF
}
func (emptyIterator) Close() {}

type emptyMeta struct{}

func (emptyMeta) Lookup(docID uint64) *source.DocMetadata { return nil }

type allShards struct{}

func (allShards) Owns(uint64) bool { return true }

func TestEngineRun(t *testing.T) {
	table := cursor.New()

	bj := job.NewBatchJob(&job.BatchJobOptions{
		Trigger: trigger.NewCronTrigger(&trigger.CronTriggerOptions{Spec: "@every 1s"}),
		Workers: []worker.BatchWorker{worker.NewSweepWorker(table)},
	})

	deps := func(req *params.Request) (flow.Deps, flow.Plan, error) {
		return flow.Deps{
				Iterator:  emptyIterator{},
				MetaStore: emptyMeta{},
				Shard:     allShards{},
			}, flow.Plan{
				TimeoutAt: time.Now().Add(time.Second),
			}, nil
	}
	sj := job.NewStreamJob(&job.StreamJobOptions{
		Worker: &worker.PipelineWorker{Deps: deps},
		Broker: &broker.MockBroker{Empty: true},
		Config: &job.StreamJobConfig{MaxWork: 2},
	})

	eng := New(&Options{Jobs: []job.Job{bj, sj}})
	require.NoError(t, eng.start())
	require.NoError(t, eng.stop())
}
