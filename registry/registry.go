// Package registry holds the process-wide, immutable-after-init tables of
// scorer and reducer plugins. Both are closed sets initialised once per
// process and read-only during request processing.
package registry

import (
	"sync"

	"github.com/kvsearch/qexec/flow"
	"github.com/kvsearch/qexec/pkg/kv"
	"github.com/kvsearch/qexec/qerr"
	"github.com/kvsearch/qexec/reducer"
)

var (
	once       sync.Once
	scorers    kv.KV[string, flow.ScoreFunc]
	reducerFns map[reducer.Name]struct{} // membership only; reducer.New does construction
)

// Init populates the registry. Calling it more than once is a no-op; the
// first call wins, matching the "initialised once per process" discipline.
func Init(builtinScorers map[string]flow.ScoreFunc) {
	once.Do(func() {
		scorers = kv.New[string, flow.ScoreFunc](len(builtinScorers))
		for name, fn := range builtinScorers {
			scorers.Put(name, fn)
		}
		reducerFns = map[reducer.Name]struct{}{
			reducer.Count:            {},
			reducer.CountDistinct:    {},
			reducer.CountDistinctish: {},
			reducer.Sum:              {},
			reducer.Min:              {},
			reducer.Max:              {},
			reducer.Avg:              {},
			reducer.Stddev:           {},
			reducer.Quantile:         {},
			reducer.ToList:           {},
			reducer.ToHash:           {},
			reducer.FirstValue:       {},
			reducer.RandomSample:     {},
		}
	})
}

// Scorer looks up a registered scoring function by name.
func Scorer(name string) (flow.ScoreFunc, error) {
	fn, ok := scorers.Value(name)
	if !ok {
		return nil, qerr.Newf(qerr.CodeGeneric, "unknown scorer %q", name)
	}
	return fn, nil
}

// HasReducer reports whether name is one of the closed set of reducer
// kinds known to the registry.
func HasReducer(name reducer.Name) bool {
	_, ok := reducerFns[name]
	return ok
}
