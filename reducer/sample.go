package reducer

import (
	"github.com/samber/lo"

	"github.com/kvsearch/qexec/pkg/random"
	"github.com/kvsearch/qexec/value"
)

// randomSampleReducer keeps a uniform reservoir of up to k values using
// Algorithm R, so every row seen has equal probability of surviving to
// Finalize regardless of group size.
type randomSampleReducer struct {
	srcIdx int
	k      int
	seen   int64
	pool   []*value.Value
}

func newRandomSampleReducer(srcIdx, k int) *randomSampleReducer {
	if k <= 0 {
		k = 1
	}
	return &randomSampleReducer{srcIdx: srcIdx, k: k, pool: make([]*value.Value, 0, k)}
}

func (r *randomSampleReducer) Add(row RowReader) {
	v := row.Get(r.srcIdx)
	r.seen++
	if len(r.pool) < r.k {
		r.pool = append(r.pool, v)
		return
	}
	j := random.Int(0, int(r.seen))
	if j < r.k {
		r.pool[j] = v
	}
}

func (r *randomSampleReducer) Finalize() *value.Value {
	return value.NewArray(lo.Map(r.pool, func(v *value.Value, _ int) *value.Value { return v })...)
}

func (r *randomSampleReducer) Free() { r.pool = nil }
