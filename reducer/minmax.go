package reducer

import "github.com/kvsearch/qexec/value"

type minMaxReducer struct {
	srcIdx    int
	preferMax bool
	have      bool
	best      *value.Value
}

func (r *minMaxReducer) Add(row RowReader) {
	v := row.Get(r.srcIdx)
	if v == nil {
		return
	}
	if !r.have {
		r.have = true
		r.best = v
		return
	}
	cmp := value.Compare(v, r.best)
	if (r.preferMax && cmp > 0) || (!r.preferMax && cmp < 0) {
		r.best = v
	}
}

func (r *minMaxReducer) Finalize() *value.Value {
	if !r.have {
		return value.Null
	}
	return r.best
}

func (r *minMaxReducer) Free() {}
