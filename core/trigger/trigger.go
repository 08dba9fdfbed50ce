package trigger

import (
	"context"
	"github.com/kvsearch/qexec/core/worker"
)

type Trigger interface {
	AddWorkers(ctx context.Context, workers ...worker.Worker) (int, error)
}
