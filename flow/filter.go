package flow

import (
	"github.com/kvsearch/qexec/qerr"
	"github.com/kvsearch/qexec/sresult"
	"github.com/kvsearch/qexec/value"
)

// FilterStage evaluates an expression against each row and drops rows
// whose value is not truthy (FILTER).
type FilterStage struct {
	base
	expr Expr
	exec *ExecContext
}

// NewFilter builds a Filter stage over upstream.
func NewFilter(upstream Stage, expr Expr, exec *ExecContext) *FilterStage {
	return &FilterStage{base: base{upstream: upstream}, expr: expr, exec: exec}
}

func (f *FilterStage) Type() Type { return TypeFilter }

func (f *FilterStage) Next(res *sresult.SearchResult) Status {
	for {
		st := pull(f.upstream, res)
		if st != StatusOK {
			return st
		}

		v, err := f.expr.Eval(res.Row)
		if err != nil {
			if f.exec != nil {
				f.exec.SetError(qerr.Wrap(qerr.CodeInvalid, "filter expression failed", err))
			}
			return StatusError
		}

		if value.Truthy(v) {
			return StatusOK
		}

		if f.exec != nil {
			f.exec.IncrTotalResults(-1)
		}
		res.Clear()
	}
}
