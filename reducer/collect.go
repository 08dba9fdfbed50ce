package reducer

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/kvsearch/qexec/value"
)

// toListReducer collects every distinct value seen, in first-seen order,
// into an Array.
type toListReducer struct {
	srcIdx int
	seen   *orderedmap.OrderedMap[string, *value.Value]
}

func (r *toListReducer) Add(row RowReader) {
	if r.seen == nil {
		r.seen = orderedmap.New[string, *value.Value]()
	}
	v := row.Get(r.srcIdx)
	key := value.HashKey(v)
	if _, ok := r.seen.Get(key); !ok {
		r.seen.Set(key, v)
	}
}

func (r *toListReducer) Finalize() *value.Value {
	if r.seen == nil {
		return value.NewArray()
	}
	elems := make([]*value.Value, 0, r.seen.Len())
	for pair := r.seen.Oldest(); pair != nil; pair = pair.Next() {
		elems = append(elems, pair.Value)
	}
	return value.NewArray(elems...)
}
func (r *toListReducer) Free() { r.seen = nil }

// toHashReducer pairs each row's source slot (key) with its aux slot
// (value) into a single Map, last writer per key wins.
type toHashReducer struct {
	srcIdx, auxIdx int
	m              *value.Value
}

func (r *toHashReducer) Add(row RowReader) {
	if r.m == nil {
		r.m = value.NewMap()
	}
	k := row.Get(r.srcIdx)
	v := row.Get(r.auxIdx)
	r.m.Set(k, v)
}

func (r *toHashReducer) Finalize() *value.Value {
	if r.m == nil {
		return value.NewMap()
	}
	return r.m
}
func (r *toHashReducer) Free() { r.m = nil }

// firstValueReducer keeps the first row's source slot value seen, unless
// an aux ("BY") slot is bound, in which case it keeps the value whose aux
// slot compares greatest.
type firstValueReducer struct {
	srcIdx, auxIdx int
	have           bool
	best, bestAux  *value.Value
}

func (r *firstValueReducer) Add(row RowReader) {
	v := row.Get(r.srcIdx)
	if r.auxIdx < 0 {
		if !r.have {
			r.have = true
			r.best = v
		}
		return
	}
	aux := row.Get(r.auxIdx)
	if !r.have || value.Compare(aux, r.bestAux) > 0 {
		r.have = true
		r.best = v
		r.bestAux = aux
	}
}

func (r *firstValueReducer) Finalize() *value.Value {
	if !r.have {
		return value.Null
	}
	return r.best
}
func (r *firstValueReducer) Free() {}
