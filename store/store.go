// Package store abstracts the live document store that the document
// loader reads from and that buffer-and-lock/unlock stages serialise
// access to. On-disk persistence and replication formats are out of
// scope (spec §1); this package fixes only the read interface and the
// global lock contract.
package store

import (
	"sync"
	"sync/atomic"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/kvsearch/qexec/value"
)

// Lock is the store's single global mutex, gating access to the live
// document store. Exactly one acquire must be paired with exactly one
// release on every exit path (success, EOF, timeout, error, cancel).
type Lock struct {
	mu      sync.RWMutex
	version atomic.Uint64
}

// NewLock creates a Lock at version 0.
func NewLock() *Lock { return &Lock{} }

// RLock acquires the store for read access (document loads).
func (l *Lock) RLock() { l.mu.RLock() }

// RUnlock releases a read acquisition.
func (l *Lock) RUnlock() { l.mu.RUnlock() }

// Version returns the store's current mutation version, used by
// buffer-and-lock to detect whether results buffered before acquisition
// may now be stale.
func (l *Lock) Version() uint64 { return l.version.Load() }

// Bump increments the store's version; called by the (out-of-scope)
// mutation path whenever a document changes, so buffer-and-lock stages
// downstream can detect staleness.
func (l *Lock) Bump() { l.version.Add(1) }

// Field is one (name, value) pair read off a live document by a
// RecordSource.
type Field struct {
	Name  string
	Value *value.Value
}

// RecordSource opens a document by key and iterates its fields as a
// flat record -- the "record source" loader mode of spec §4.5.
type RecordSource interface {
	// Open returns the document's fields, or ok=false if the document is
	// absent or of the wrong underlying type.
	Open(docID uint64) (fields []Field, ok bool)
}

// StructuredSource opens a document's root and evaluates a path
// expression per key -- the "structured source" loader mode. Path
// syntax is whatever gjson accepts (dot paths, array indices, wildcards).
type StructuredSource interface {
	Root(docID uint64) (json []byte, ok bool)
}

// EvalPath evaluates a gjson path against a structured document root and
// returns the resulting Values: a single value for a scalar match, or
// multiple for an array/wildcard match. The returned slice is never
// empty when ok is true.
func EvalPath(root []byte, path string) (values []*value.Value, ok bool) {
	res := gjson.GetBytes(root, path)
	if !res.Exists() {
		return nil, false
	}
	if res.IsArray() {
		res.ForEach(func(_, v gjson.Result) bool {
			values = append(values, fromGJSON(v))
			return true
		})
		return values, len(values) > 0
	}
	return []*value.Value{fromGJSON(res)}, true
}

func fromGJSON(r gjson.Result) *value.Value {
	switch r.Type {
	case gjson.Number:
		return value.NewNumber(r.Num)
	case gjson.Null:
		return value.Null
	default:
		return value.NewString(r.String(), value.OwnershipOwned)
	}
}

// SerializeWithField returns root with path set to the JSON encoding of
// raw, used to build a Duo's "display" representation when a structured
// field yields multiple values -- the reply needs the whole
// sub-document, sorting needs only the first value.
func SerializeWithField(root []byte, path string, raw any) ([]byte, error) {
	return sjson.SetBytes(root, path, raw)
}
