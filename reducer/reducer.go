// Package reducer implements the grouper's closed set of per-group
// accumulators: COUNT, COUNT_DISTINCT, COUNT_DISTINCTISH, SUM, MIN, MAX,
// AVG, STDDEV, QUANTILE, TOLIST, TOHASH, FIRST_VALUE and RANDOM_SAMPLE.
package reducer

import (
	"github.com/kvsearch/qexec/qerr"
	"github.com/kvsearch/qexec/value"
)

// Reducer is a per-group accumulator. Add is called once per row routed
// into the reducer's group; Finalize is called exactly once, after the
// group's input is exhausted, to obtain the reduced Value.
type Reducer interface {
	Add(row RowReader)
	Finalize() *value.Value
	Free()
}

// RowReader is the minimal row access a reducer needs: read a value by
// its bound source key's destination slot.
type RowReader interface {
	Get(dstIdx int) *value.Value
}

// Name is one of the closed set of reducer kinds.
type Name string

const (
	Count             Name = "COUNT"
	CountDistinct     Name = "COUNT_DISTINCT"
	CountDistinctish  Name = "COUNT_DISTINCTISH"
	Sum               Name = "SUM"
	Min               Name = "MIN"
	Max               Name = "MAX"
	Avg               Name = "AVG"
	Stddev            Name = "STDDEV"
	Quantile          Name = "QUANTILE"
	ToList            Name = "TOLIST"
	ToHash            Name = "TOHASH"
	FirstValue        Name = "FIRST_VALUE"
	RandomSample      Name = "RANDOM_SAMPLE"
)

// Spec describes one grouper reducer clause: its kind, the source row
// slot(s) it reads (most reducers take exactly one; FIRST_VALUE may take
// an additional sort-by slot, and TOHASH reads each pair's value from a
// second slot), and any numeric arguments (QUANTILE's
// quantile value, RANDOM_SAMPLE's sample size).
type Spec struct {
	Kind     Name
	SrcIdx   int
	AuxIdx   int // FIRST_VALUE's optional sort-by slot, TOHASH's value slot; -1 if unused
	NumArg   float64
	IntArg   int
	Alias    string
	Hidden   bool
}

// New constructs the Reducer named by spec.Kind. Unknown kinds return a
// NO_REDUCER error, matching the schema-resolution failure mode of a
// pipeline built from a malformed aggregation plan.
func New(spec Spec) (Reducer, error) {
	switch spec.Kind {
	case Count:
		return &countReducer{}, nil
	case CountDistinct:
		return newDistinctReducer(spec.SrcIdx, false), nil
	case CountDistinctish:
		return newDistinctReducer(spec.SrcIdx, true), nil
	case Sum:
		return &sumReducer{srcIdx: spec.SrcIdx}, nil
	case Min:
		return &minMaxReducer{srcIdx: spec.SrcIdx, preferMax: false}, nil
	case Max:
		return &minMaxReducer{srcIdx: spec.SrcIdx, preferMax: true}, nil
	case Avg:
		return &avgReducer{srcIdx: spec.SrcIdx}, nil
	case Stddev:
		return &stddevReducer{srcIdx: spec.SrcIdx}, nil
	case Quantile:
		return &quantileReducer{srcIdx: spec.SrcIdx, q: spec.NumArg}, nil
	case ToList:
		return &toListReducer{srcIdx: spec.SrcIdx}, nil
	case ToHash:
		return &toHashReducer{srcIdx: spec.SrcIdx, auxIdx: spec.AuxIdx}, nil
	case FirstValue:
		return &firstValueReducer{srcIdx: spec.SrcIdx, auxIdx: spec.AuxIdx}, nil
	case RandomSample:
		return newRandomSampleReducer(spec.SrcIdx, spec.IntArg), nil
	default:
		return nil, qerr.Newf(qerr.CodeNoReducer, "unknown reducer %q", spec.Kind)
	}
}
