package flow

import (
	"github.com/kvsearch/qexec/lookup"
	"github.com/kvsearch/qexec/qerr"
	"github.com/kvsearch/qexec/sresult"
)

// ProjectorStage evaluates an expression against each row and writes the
// resulting Value under a destination key (APPLY).
type ProjectorStage struct {
	base
	expr Expr
	dst  *lookup.Key
	exec *ExecContext
}

// NewProjector builds a Projector stage over upstream.
func NewProjector(upstream Stage, expr Expr, dst *lookup.Key, exec *ExecContext) *ProjectorStage {
	return &ProjectorStage{base: base{upstream: upstream}, expr: expr, dst: dst, exec: exec}
}

func (p *ProjectorStage) Type() Type { return TypeProjector }

func (p *ProjectorStage) Next(res *sresult.SearchResult) Status {
	st := pull(p.upstream, res)
	if st != StatusOK {
		return st
	}

	v, err := p.expr.Eval(res.Row)
	if err != nil {
		if p.exec != nil {
			p.exec.SetError(qerr.Wrap(qerr.CodeInvalid, "apply expression failed", err))
		}
		return StatusError
	}

	res.Row.EnsureLen(p.dst.DstIdx() + 1)
	res.Row.Set(p.dst.DstIdx(), v)
	return StatusOK
}
