package flow

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/kvsearch/qexec/lookup"
	"github.com/kvsearch/qexec/reducer"
	"github.com/kvsearch/qexec/sresult"
	"github.com/kvsearch/qexec/value"
)

// GroupReducer pairs a constructed Reducer with the destination key its
// finalized value is written to.
type GroupReducer struct {
	R   reducer.Reducer
	Dst *lookup.Key
}

// bucket is one group's accumulated state: the dimension values (for
// re-emission) plus one live reducer per clause.
type bucket struct {
	dims     []*value.Value
	reducers []GroupReducer
}

// rowAdapter lets a reducer read a *value.Row through the reducer.RowReader
// seam without the reducer package depending on value.Row directly.
type rowAdapter struct{ row *value.Row }

func (a rowAdapter) Get(idx int) *value.Value { return a.row.Get(idx) }

// GrouperStage accumulates rows by a composite group-key built from
// srcKeys, then emits one row per group (dims + reducer results).
type GrouperStage struct {
	base
	srcKeys []*lookup.Key
	dstKeys []*lookup.Key
	makeRs  func() []GroupReducer
	buckets *orderedmap.OrderedMap[string, *bucket]
	emitted *orderedmap.Pair[string, *bucket]
	started bool

	emitting bool
}

// NewGrouper builds a Grouper stage over upstream. makeRs constructs a
// fresh set of reducers for each newly seen group key (reducers must not
// be shared across groups).
func NewGrouper(upstream Stage, srcKeys, dstKeys []*lookup.Key, makeRs func() []GroupReducer) *GrouperStage {
	return &GrouperStage{
		base:    base{upstream: upstream},
		srcKeys: srcKeys,
		dstKeys: dstKeys,
		makeRs:  makeRs,
		buckets: orderedmap.New[string, *bucket](),
	}
}

func (g *GrouperStage) Type() Type         { return TypeGrouper }
func (g *GrouperStage) Behavior() Behavior { return BehaviorAccumulator }

func (g *GrouperStage) Next(res *sresult.SearchResult) Status {
	if !g.emitting {
		st := g.accumulate()
		if st != StatusEOF {
			return st
		}
		g.emitting = true
	}
	return g.emitOne(res)
}

func (g *GrouperStage) accumulate() Status {
	scratch := sresult.New(0)
	for {
		st := pull(g.upstream, scratch)
		switch st {
		case StatusOK:
			g.absorb(scratch)
			scratch.Clear()
		case StatusEOF:
			return StatusEOF
		default:
			return st
		}
	}
}

func (g *GrouperStage) absorb(res *sresult.SearchResult) {
	dims := make([]*value.Value, len(g.srcKeys))
	var key string
	for i, k := range g.srcKeys {
		v := res.Row.Get(k.DstIdx())
		dims[i] = v
		key += value.HashKey(v) + "\x1f"
	}

	b, ok := g.buckets.Get(key)
	if !ok {
		b = &bucket{dims: dims, reducers: g.makeRs()}
		g.buckets.Set(key, b)
	}

	reader := rowAdapter{row: res.Row}
	for _, gr := range b.reducers {
		gr.R.Add(reader)
	}
}

func (g *GrouperStage) emitOne(res *sresult.SearchResult) Status {
	var pair *orderedmap.Pair[string, *bucket]
	if !g.started {
		g.started = true
		pair = g.buckets.Oldest()
	} else if g.emitted != nil {
		pair = g.emitted.Next()
	}
	g.emitted = pair
	if pair == nil {
		return StatusEOF
	}

	b := pair.Value
	for i, k := range g.dstKeys {
		res.Row.EnsureLen(k.DstIdx() + 1)
		res.Row.Set(k.DstIdx(), b.dims[i])
	}
	for _, gr := range b.reducers {
		v := gr.R.Finalize()
		res.Row.EnsureLen(gr.Dst.DstIdx() + 1)
		res.Row.Set(gr.Dst.DstIdx(), v)
		gr.R.Free()
	}
	return StatusOK
}

func (g *GrouperStage) Free() {
	if g.alreadyFreed() {
		return
	}
	g.markFreed()
	if g.upstream != nil {
		g.upstream.Free()
	}
}
