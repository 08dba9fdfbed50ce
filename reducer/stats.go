package reducer

import (
	"math"
	"sort"

	"github.com/kvsearch/qexec/value"
)

type sumReducer struct {
	srcIdx int
	total  float64
}

func (r *sumReducer) Add(row RowReader) {
	r.total += value.NumberVal(row.Get(r.srcIdx))
}
func (r *sumReducer) Finalize() *value.Value { return value.NewNumber(r.total) }
func (r *sumReducer) Free()                  {}

type avgReducer struct {
	srcIdx int
	total  float64
	n      int64
}

func (r *avgReducer) Add(row RowReader) {
	r.total += value.NumberVal(row.Get(r.srcIdx))
	r.n++
}

func (r *avgReducer) Finalize() *value.Value {
	if r.n == 0 {
		return value.NewNumber(0)
	}
	return value.NewNumber(r.total / float64(r.n))
}
func (r *avgReducer) Free() {}

// stddevReducer computes the sample standard deviation with Welford's
// online algorithm, avoiding a second pass over the group's values.
type stddevReducer struct {
	srcIdx int
	n      int64
	mean   float64
	m2     float64
}

func (r *stddevReducer) Add(row RowReader) {
	x := value.NumberVal(row.Get(r.srcIdx))
	r.n++
	delta := x - r.mean
	r.mean += delta / float64(r.n)
	r.m2 += delta * (x - r.mean)
}

func (r *stddevReducer) Finalize() *value.Value {
	if r.n < 2 {
		return value.NewNumber(0)
	}
	variance := r.m2 / float64(r.n-1)
	return value.NewNumber(math.Sqrt(variance))
}
func (r *stddevReducer) Free() {}

// quantileReducer retains every observed value and computes the q-th
// quantile (0 <= q <= 1) by linear interpolation at Finalize, matching
// the common nearest-rank-with-interpolation convention.
type quantileReducer struct {
	srcIdx int
	q      float64
	values []float64
}

func (r *quantileReducer) Add(row RowReader) {
	r.values = append(r.values, value.NumberVal(row.Get(r.srcIdx)))
}

func (r *quantileReducer) Finalize() *value.Value {
	n := len(r.values)
	if n == 0 {
		return value.NewNumber(0)
	}
	sort.Float64s(r.values)
	if n == 1 {
		return value.NewNumber(r.values[0])
	}
	pos := r.q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return value.NewNumber(r.values[lo])
	}
	frac := pos - float64(lo)
	return value.NewNumber(r.values[lo]*(1-frac) + r.values[hi]*frac)
}
func (r *quantileReducer) Free() { r.values = nil }
