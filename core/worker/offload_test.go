package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kvsearch/qexec/core/message"
	"github.com/kvsearch/qexec/flow"
	"github.com/kvsearch/qexec/params"
	"github.com/kvsearch/qexec/source"
)

type fakeIterator struct {
	docs []uint64
	pos  int
}

func (f *fakeIterator) Next() (uint64, *source.IndexResult, *source.DocMetadata, source.IterStatus) {
	if f.pos >= len(f.docs) {
		return 0, nil, nil, source.IterEOF
	}
	id := f.docs[f.pos]
	f.pos++
	return id, &source.IndexResult{}, &source.DocMetadata{DocID: id}, source.IterOK
}
func (f *fakeIterator) Close() {}

type fakeMeta struct{}

func (fakeMeta) Lookup(docID uint64) *source.DocMetadata { return &source.DocMetadata{DocID: docID} }

type fakeShard struct{}

func (fakeShard) Owns(uint64) bool { return true }

func TestPipelineWorkerDrainsOffloadedRequest(t *testing.T) {
	w := &PipelineWorker{
		Deps: func(req *params.Request) (flow.Deps, flow.Plan, error) {
			return flow.Deps{
					Iterator:  &fakeIterator{docs: []uint64{1, 2, 3}},
					MetaStore: fakeMeta{},
					Shard:     fakeShard{},
				}, flow.Plan{
					TimeoutAt: time.Now().Add(time.Second),
				}, nil
		},
	}

	payload, err := json.Marshal(&params.Request{QueryString: "*"})
	require.NoError(t, err)

	replies, err := w.Work(context.Background(), message.New(payload))
	require.NoError(t, err)
	require.Len(t, replies, 1)

	var out Outcome
	require.NoError(t, replies[0].Unmarshal(&out))
	require.Equal(t, 3, out.RowCount)
	require.Empty(t, out.Err)
}

func TestPipelineWorkerPropagatesDepsError(t *testing.T) {
	boom := context.Canceled
	w := &PipelineWorker{
		Deps: func(req *params.Request) (flow.Deps, flow.Plan, error) {
			return flow.Deps{}, flow.Plan{}, boom
		},
	}
	payload, err := json.Marshal(&params.Request{})
	require.NoError(t, err)

	_, err = w.Work(context.Background(), message.New(payload))
	require.ErrorIs(t, err, boom)
}
