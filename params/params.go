// Package params defines the request parameters and aggregation-plan
// step descriptors handed to the pipeline builder. Parsing the query
// string into these values is an external concern; this package only
// carries the parsed shape.
package params

import "time"

// Flag is a request-level behaviour bit.
type Flag uint32

const (
	IsSearch Flag = 1 << iota
	IsExtended
	IsCursor
	NoRows
	SendNoFields
	SendScores
	SendScoresAsField
	SendPayloads
	SendSortKeys
	SendHighlight
	SendScoreExplain
	SendRawIDs
	Optimize
	Profile
	RequiredFields
	FormatExpand
	IsHybridSearchSubquery
	IsHybridVectorAggregateSubquery
)

func (f Flag) Has(bit Flag) bool { return f&bit != 0 }

// SortSpec is an ARRANGE step's or top-level request's sort specification:
// parallel key names and an ascending bitmap (bit i set = ascending for
// key i), per the 64-key cap of the aggregation step descriptor.
type SortSpec struct {
	Keys   []string
	AscMap uint64
}

func (s SortSpec) Ascending(i int) bool { return s.AscMap&(1<<uint(i)) != 0 }

// TimeoutPolicy mirrors flow.TimeoutPolicy without importing it, so this
// package stays independent of the execution engine.
type TimeoutPolicy uint8

const (
	TimeoutReturn TimeoutPolicy = iota
	TimeoutFail
)

// Request is the full set of parameters handed to the pipeline builder.
type Request struct {
	QueryString    string
	DialectVersion int

	Plan []Step

	Flags Flag

	MaxSearchResults    int64
	MaxAggregateResults int64
	QueryTimeout        time.Duration
	CursorMaxIdle        time.Duration
	CursorChunkSize      int

	ScorerName        string
	Language          string
	ExpanderName      string
	ExplicitReturn    []string
	Sort              SortSpec
	TimeoutPolicy     TimeoutPolicy
}

// StepKind discriminates an aggregation-plan step.
type StepKind uint8

const (
	StepGroup StepKind = iota
	StepArrange
	StepApply
	StepFilter
	StepLoad
	StepVectorNormalizer
	StepRoot
	StepDistribute
)

// ReducerClause is one GROUP step's reducer: (name, args, alias, hidden?).
type ReducerClause struct {
	Name   string
	Args   []string
	Alias  string
	Hidden bool
}

// FieldSpec is one LOAD step's field: a path, optionally aliased.
type FieldSpec struct {
	Path     string
	Alias    string // empty means no AS clause
	Wildcard bool   // true means "load all", Path/Alias unused
}

// Step is one entry in an aggregation plan. Only the fields relevant to
// Kind are populated.
type Step struct {
	Kind StepKind

	// GROUP
	GroupProperties []string
	Reducers        []ReducerClause

	// ARRANGE
	Offset int
	Limit  int
	Sort   SortSpec

	// APPLY
	Expression string
	Alias      string

	// FILTER reuses Expression.

	// LOAD
	Fields []FieldSpec

	// VECTOR_NORMALIZER
	VectorField       string
	DistanceFieldAlias string

	// DISTRIBUTE
	ShardCount int
}
