package reducer

import (
	"hash/fnv"
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/kvsearch/qexec/pkg/sets"
	"github.com/kvsearch/qexec/value"
)

const distinctishSketchBits = 1 << 16

// distinctReducer backs both COUNT_DISTINCT (exact, via a hash set of
// canonical value keys) and COUNT_DISTINCTISH (approximate, via a
// fixed-size bit sketch and the linear-counting cardinality estimator).
type distinctReducer struct {
	srcIdx      int
	approximate bool
	exact       sets.Set[string]
	sketch      *bitset.BitSet
}

func newDistinctReducer(srcIdx int, approximate bool) *distinctReducer {
	r := &distinctReducer{srcIdx: srcIdx, approximate: approximate}
	if approximate {
		r.sketch = bitset.New(distinctishSketchBits)
	} else {
		r.exact = sets.NewHashSet[string]()
	}
	return r
}

func (r *distinctReducer) Add(row RowReader) {
	key := value.HashKey(row.Get(r.srcIdx))
	if r.approximate {
		h := fnv.New32a()
		_, _ = h.Write([]byte(key))
		r.sketch.Set(uint(h.Sum32()) % distinctishSketchBits)
		return
	}
	r.exact.Add(key)
}

func (r *distinctReducer) Finalize() *value.Value {
	if r.approximate {
		setBits := float64(r.sketch.Count())
		m := float64(distinctishSketchBits)
		if setBits >= m {
			return value.NewNumber(m)
		}
		// linear counting estimator: -m * ln(1 - setBits/m)
		estimate := -m * math.Log(1-setBits/m)
		return value.NewNumber(math.Round(estimate))
	}
	return value.NewNumber(float64(r.exact.Size()))
}

func (r *distinctReducer) Free() {
	r.exact = nil
	r.sketch = nil
}
