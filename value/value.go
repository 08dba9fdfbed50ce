// Package value implements the reference-counted polymorphic value model
// that flows through every stage of the query execution pipeline: a
// tagged union (Number, String, Null, Array, Map, Reference, Duo) plus
// the Row container that indexes values by lookup slot.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind discriminates the payload carried by a Value.
type Kind uint8

const (
	KindNumber Kind = iota
	KindString
	KindNull
	KindArray
	KindMap
	KindReference
	KindDuo
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindNull:
		return "null"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindReference:
		return "reference"
	case KindDuo:
		return "duo"
	default:
		return "unknown"
	}
}

// Ownership describes who owns a String Value's backing bytes.
type Ownership uint8

const (
	OwnershipBorrowed Ownership = iota
	OwnershipOwned
	OwnershipSharedInterned
)

// Value is a tagged, reference-counted union. The zero Value is not
// valid; use one of the constructors.
type Value struct {
	kind Kind
	refs atomic.Int32

	num float64

	str   string
	owner Ownership

	arr []*Value

	pairs *orderedmap.OrderedMap[*Value, *Value]

	ref *Value

	duoPrimary  *Value
	duoDisplay  *Value
	duoExpanded *Value // optional, may be nil
}

// Null is the single shared global Null instance. Its refcount is
// ignored per the data model invariants.
var Null = &Value{kind: KindNull}

// NewNumber creates a Number Value with refcount 1.
func NewNumber(n float64) *Value {
	v := &Value{kind: KindNumber, num: n}
	v.refs.Store(1)
	return v
}

// NewString creates a String Value with refcount 1.
func NewString(s string, owner Ownership) *Value {
	v := &Value{kind: KindString, str: s, owner: owner}
	v.refs.Store(1)
	return v
}

// NewArray creates an Array Value taking ownership of elems: each element's
// refcount is incremented by one to reflect the array's new holder.
func NewArray(elems ...*Value) *Value {
	v := &Value{kind: KindArray, arr: elems}
	v.refs.Store(1)
	for _, e := range elems {
		if e != nil {
			e.Incref()
		}
	}
	return v
}

// NewMap creates an empty Map Value. Pairs preserve insertion order.
func NewMap() *Value {
	v := &Value{kind: KindMap, pairs: orderedmap.New[*Value, *Value]()}
	v.refs.Store(1)
	return v
}

// Set inserts or replaces key -> val in a Map Value, taking a reference on
// both. Panics if called on a non-Map Value.
func (v *Value) Set(key, val *Value) {
	if v.kind != KindMap {
		panic("value: Set called on non-map Value")
	}
	if old, present := v.pairs.Get(key); present {
		old.Decref()
	} else {
		key.Incref()
	}
	val.Incref()
	v.pairs.Set(key, val)
}

// Pairs iterates a Map Value's entries in insertion order.
func (v *Value) Pairs(fn func(k, val *Value) bool) {
	if v.kind != KindMap {
		return
	}
	for pair := v.pairs.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// NewReference creates a Reference Value pointing at target, incrementing
// target's refcount.
func NewReference(target *Value) *Value {
	target.Incref()
	v := &Value{kind: KindReference, ref: target}
	v.refs.Store(1)
	return v
}

// NewDuo creates a Duo Value: primary drives ordering/comparison, display
// drives reply serialisation. expanded is optional (the multi-value array
// form) and may be nil.
func NewDuo(primary, display, expanded *Value) *Value {
	primary.Incref()
	display.Incref()
	if expanded != nil {
		expanded.Incref()
	}
	v := &Value{kind: KindDuo, duoPrimary: primary, duoDisplay: display, duoExpanded: expanded}
	v.refs.Store(1)
	return v
}

// Kind returns the Value's tag.
func (v *Value) Kind() Kind { return v.kind }

// Incref records a new holder of v. Null's refcount is never touched.
func (v *Value) Incref() {
	if v == nil || v == Null {
		return
	}
	v.refs.Add(1)
}

// Decref releases one holder of v, recursively freeing children when the
// count reaches zero. Null is a no-op.
func (v *Value) Decref() {
	if v == nil || v == Null {
		return
	}
	if v.refs.Add(-1) > 0 {
		return
	}
	switch v.kind {
	case KindArray:
		for _, e := range v.arr {
			e.Decref()
		}
	case KindMap:
		for pair := v.pairs.Oldest(); pair != nil; pair = pair.Next() {
			pair.Key.Decref()
			pair.Value.Decref()
		}
	case KindReference:
		v.ref.Decref()
	case KindDuo:
		v.duoPrimary.Decref()
		v.duoDisplay.Decref()
		if v.duoExpanded != nil {
			v.duoExpanded.Decref()
		}
	}
}

// RefCount reports the current live-holder count. Intended for tests that
// verify refcount balance.
func (v *Value) RefCount() int32 {
	if v == nil {
		return 0
	}
	return v.refs.Load()
}

// Deref follows a Reference chain to a non-Reference Value. The data
// model forbids cycles, so this always terminates.
func Deref(v *Value) *Value {
	for v != nil && v.kind == KindReference {
		v = v.ref
	}
	return v
}

// NumberVal returns the float64 payload of a Number Value, or 0 if v is
// not a Number (after dereferencing and resolving Duo primaries).
func NumberVal(v *Value) float64 {
	v = resolveOrdering(v)
	if v == nil || v.kind != KindNumber {
		return 0
	}
	return v.num
}

// StringVal returns the textual form of any Value, following the rules
// used for reply rendering: integral Numbers print without a fractional
// part, Duo uses its display representation.
func StringVal(v *Value) string {
	v = Deref(v)
	if v == nil {
		return ""
	}
	switch v.kind {
	case KindNumber:
		return formatNumber(v.num)
	case KindString:
		return v.str
	case KindNull:
		return ""
	case KindDuo:
		return StringVal(v.duoDisplay)
	default:
		return fmt.Sprintf("%v", v.kind)
	}
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) && !math.IsInf(n, 0) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// resolveOrdering dereferences and, for a Duo, returns its primary
// representation -- the value that drives sort comparison.
func resolveOrdering(v *Value) *Value {
	v = Deref(v)
	if v != nil && v.kind == KindDuo {
		return resolveOrdering(v.duoPrimary)
	}
	return v
}

// Truthy implements the projector/filter truthiness rule: Null is false;
// empty String/Array/Map is false; Number 0 is false; everything else is
// true.
func Truthy(v *Value) bool {
	v = resolveOrdering(v)
	if v == nil || v.kind == KindNull {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num != 0
	case KindString:
		return v.str != ""
	case KindArray:
		return len(v.arr) > 0
	case KindMap:
		return v.pairs.Len() > 0
	default:
		return true
	}
}

// Compare orders two Values per the data model's fallback rules: Null
// sorts below any non-null; differing kinds with at least one Number
// compare numerically; otherwise compare is by textual form.
func Compare(a, b *Value) int {
	a = resolveOrdering(a)
	b = resolveOrdering(b)
	aNull := a == nil || a.kind == KindNull
	bNull := b == nil || b.kind == KindNull
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return -1
	case bNull:
		return 1
	}
	if a.kind == KindNumber || b.kind == KindNumber {
		af, bf := coerceNumber(a), coerceNumber(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(StringVal(a), StringVal(b))
}

func coerceNumber(v *Value) float64 {
	if v.kind == KindNumber {
		return v.num
	}
	f, err := strconv.ParseFloat(StringVal(v), 64)
	if err != nil {
		return 0
	}
	return f
}

// Equal reports whether a and b compare equal under Compare, which is the
// contract hashing must agree with.
func Equal(a, b *Value) bool { return Compare(a, b) == 0 }

// HashKey returns a canonical string usable as a map key for a Value,
// satisfying "equal values hash equal". It is used by the grouper to key
// its bucket map and by DISTINCT-family reducers.
func HashKey(v *Value) string {
	v = resolveOrdering(v)
	if v == nil || v.kind == KindNull {
		return "\x00null"
	}
	switch v.kind {
	case KindNumber:
		return "\x01" + formatNumber(v.num)
	case KindString:
		return "\x02" + v.str
	case KindArray:
		var b strings.Builder
		b.WriteString("\x03")
		for _, e := range v.arr {
			b.WriteString(HashKey(e))
			b.WriteByte(',')
		}
		return b.String()
	case KindMap:
		var b strings.Builder
		b.WriteString("\x04")
		v.Pairs(func(k, val *Value) bool {
			b.WriteString(HashKey(k))
			b.WriteByte('=')
			b.WriteString(HashKey(val))
			b.WriteByte(',')
			return true
		})
		return b.String()
	default:
		return "\x05" + StringVal(v)
	}
}
