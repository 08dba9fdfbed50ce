// Package sresult defines SearchResult, the row-in-transit type passed
// between stages of the query execution pipeline.
package sresult

import (
	"github.com/kvsearch/qexec/source"
	"github.com/kvsearch/qexec/value"
)

// Flag tracks per-result status bits.
type Flag uint8

const (
	FlagExpiredDoc Flag = 1 << iota
	FlagValIsNull
)

func (f Flag) Has(bit Flag) bool { return f&bit != 0 }

// Explain is an opaque, scorer-produced explanation tree attached to a
// result only when explanation was requested.
type Explain struct {
	Text     string
	Children []*Explain
}

// SearchResult is one row in transit: (docId, score, explain?, index
// result?, dmd?, row, flags). It is reused across iterations by the
// terminal consumer: Clear() runs between rows, Destroy() once at EOF.
type SearchResult struct {
	DocID       uint64
	Score       float64
	Explain     *Explain
	IndexResult *source.IndexResult
	DMD         *source.DocMetadata
	Row         *value.Row
	Flags       Flag
}

// New allocates a SearchResult with an empty Row of the given slot
// capacity.
func New(rowCap int) *SearchResult {
	return &SearchResult{Row: value.NewRow(rowCap)}
}

// ClearIndexResult releases the result's borrowed IndexResult reference
// without touching the row or score.
func (r *SearchResult) ClearIndexResult() {
	r.IndexResult = nil
}

// ClearDMD releases the result's borrowed DocMetadata reference.
func (r *SearchResult) ClearDMD() {
	r.DMD = nil
}

// Clear resets a SearchResult for reuse: the row's slots are decreffed,
// borrowed pointers dropped, and flags/score zeroed. Called by the
// terminal consumer between rows.
func (r *SearchResult) Clear() {
	if r.Row != nil {
		r.Row.Clear()
	}
	r.IndexResult = nil
	r.DMD = nil
	r.Explain = nil
	r.Score = 0
	r.Flags = 0
	r.DocID = 0
}

// Destroy tears a SearchResult down entirely, called once at end of
// stream.
func (r *SearchResult) Destroy() {
	if r.Row != nil {
		r.Row.Destroy()
	}
	r.IndexResult = nil
	r.DMD = nil
	r.Explain = nil
}

// Clone produces an independent copy suitable for retention beyond the
// next Clear/reuse of the original -- used by stages (sorter, depleter)
// that must hold onto a result across further upstream calls.
func (r *SearchResult) Clone() *SearchResult {
	clone := &SearchResult{
		DocID:       r.DocID,
		Score:       r.Score,
		Explain:     r.Explain,
		IndexResult: r.IndexResult,
		DMD:         r.DMD,
		Flags:       r.Flags,
	}
	if r.Row != nil {
		clone.Row = r.Row.Clone()
	}
	return clone
}
