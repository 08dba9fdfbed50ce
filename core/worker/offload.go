package worker

import (
	"context"
	"encoding/json"

	"github.com/kvsearch/qexec/core/message"
	"github.com/kvsearch/qexec/flow"
	"github.com/kvsearch/qexec/params"
	"github.com/kvsearch/qexec/pkg/result"
	"github.com/kvsearch/qexec/sresult"
)

// DepsFactory resolves one request's live execution dependencies (index
// iterator, store handles, schema resolver, scorer) from its parsed
// parameters, and translates it into a builder Plan. It is the engine's
// seam into the index/store a PipelineWorker otherwise knows nothing
// about: only params.Request crosses the broker, never a live handle.
type DepsFactory func(req *params.Request) (flow.Deps, flow.Plan, error)

// Outcome is what a PipelineWorker reports back for one offloaded
// request. Rows themselves are not carried back through the broker; a
// deployment wires the worker's reply sink (not modelled here) to the
// connection that submitted the request.
type Outcome struct {
	RowCount int    `json:"rowCount"`
	Err      string `json:"err,omitempty"`
}

// PipelineWorker drains one offloaded aggregation request to
// completion. It implements StreamWorker: one message in, zero or one
// reply out.
type PipelineWorker struct {
	Deps DepsFactory
}

func (w *PipelineWorker) Sleep() {}

func (w *PipelineWorker) Work(ctx context.Context, msg *message.Msg) ([]*message.Msg, error) {
	var req params.Request
	if err := msg.Unmarshal(&req); err != nil {
		return nil, err
	}

	deps, plan, err := w.Deps(&req)
	if err != nil {
		return nil, err
	}

	stage, _, exec, err := flow.Build(plan, deps)
	if err != nil {
		return nil, err
	}
	defer stage.Free()

	r := drain(ctx, stage, exec)
	out, err := r.Get()
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return []*message.Msg{message.New(payload)}, nil
}

// drain pulls stage to completion, reporting either the row count it
// produced or the error that aborted it.
func drain(ctx context.Context, stage flow.Stage, exec *flow.ExecContext) result.Result[Outcome] {
	res := sresult.New(0)
	rows := 0
	for {
		select {
		case <-ctx.Done():
			return result.Error[Outcome](ctx.Err())
		default:
		}

		switch stage.Next(res) {
		case flow.StatusOK:
			rows++
			res.Clear()
		case flow.StatusEOF, flow.StatusTimedOut:
			out := Outcome{RowCount: rows}
			if qe := exec.Err(); qe != nil {
				out.Err = qe.Error()
			}
			return result.Value(out)
		case flow.StatusError:
			if qe := exec.Err(); qe != nil {
				return result.Error[Outcome](qe)
			}
			return result.Value(Outcome{RowCount: rows})
		}
	}
}
