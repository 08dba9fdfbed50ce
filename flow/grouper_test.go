package flow

import (
	"testing"

	"github.com/kvsearch/qexec/lookup"
	"github.com/kvsearch/qexec/reducer"
	"github.com/kvsearch/qexec/sresult"
	"github.com/kvsearch/qexec/value"
)

func mkGroupRow(l *lookup.Lookup, catKey, valKey *lookup.Key, cat string, val float64) *sresult.SearchResult {
	r := sresult.New(l.RowLen())
	r.Row.Set(catKey.DstIdx(), value.NewString(cat, value.OwnershipBorrowed))
	r.Row.Set(valKey.DstIdx(), value.NewNumber(val))
	return r
}

func TestGrouperSumsByCategory(t *testing.T) {
	l := lookup.New(nil)
	catKey := l.GetReadKey("category", true)
	valKey := l.GetReadKey("value", true)
	sumKey, err := l.GetWriteKey("sum", false)
	if err != nil {
		t.Fatal(err)
	}

	src := newFakeSource(
		mkGroupRow(l, catKey, valKey, "a", 1),
		mkGroupRow(l, catKey, valKey, "b", 10),
		mkGroupRow(l, catKey, valKey, "a", 2),
		mkGroupRow(l, catKey, valKey, "b", 20),
		mkGroupRow(l, catKey, valKey, "a", 3),
	)

	makeRs := func() []GroupReducer {
		r, err := reducer.New(reducer.Spec{Kind: reducer.Sum, SrcIdx: valKey.DstIdx()})
		if err != nil {
			t.Fatal(err)
		}
		return []GroupReducer{{R: r, Dst: sumKey}}
	}

	g := NewGrouper(src, []*lookup.Key{catKey}, []*lookup.Key{catKey}, makeRs)
	defer g.Free()

	sums := map[string]float64{}
	res := sresult.New(l.RowLen())
	for {
		st := g.Next(res)
		if st != StatusOK {
			if st != StatusEOF {
				t.Fatalf("unexpected status %v", st)
			}
			break
		}
		cat := value.StringVal(res.Row.Get(catKey.DstIdx()))
		sums[cat] = value.NumberVal(res.Row.Get(sumKey.DstIdx()))
	}

	if len(sums) != 2 {
		t.Fatalf("want 2 groups, got %d (%v)", len(sums), sums)
	}
	if got := sums["a"]; got != 6 {
		t.Fatalf("group a: want sum 6, got %v", got)
	}
	if got := sums["b"]; got != 30 {
		t.Fatalf("group b: want sum 30, got %v", got)
	}
}
