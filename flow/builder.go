package flow

import (
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/kvsearch/qexec/lookup"
	"github.com/kvsearch/qexec/qerr"
	"github.com/kvsearch/qexec/reducer"
	"github.com/kvsearch/qexec/source"
	"github.com/kvsearch/qexec/store"
	"github.com/kvsearch/qexec/value"
)

// noopReducer substitutes for a reducer whose construction failed after
// the grouper has already started accumulating; it keeps the chain alive
// at the cost of that one reducer's output silently becoming Null rather
// than aborting an in-flight request.
type noopReducer struct{}

func (noopReducer) Add(reducer.RowReader)    {}
func (noopReducer) Finalize() *value.Value   { return value.Null }
func (noopReducer) Free()                    {}

// ExprCompiler turns a plan step's expression string into a bound Expr
// against lk. Expression parsing itself is an external concern; the
// builder only needs somewhere to plug it in.
type ExprCompiler func(expression string, lk *lookup.Lookup) (Expr, error)

// Deps bundles the builder's external collaborators.
type Deps struct {
	Iterator   source.Iterator
	MetaStore  source.MetadataStore
	Shard      source.ShardRange
	StoreLock  *store.Lock
	Record     store.RecordSource
	Structured store.StructuredSource
	Resolver   lookup.SchemaResolver
	Scorer     ScoreFunc
	IndexStats any
	UserData   any
	CompileExpr ExprCompiler
}

// Plan mirrors params.Request's shape without importing params, keeping
// flow independent of the request-parsing package. Callers translate
// params.Request into a Plan before calling Build.
type Plan struct {
	TimeoutAt     time.Time
	Policy        TimeoutPolicy
	WantProfile   bool
	WantExplain   bool
	ScoreKey      string // "" means none
	Steps         []PlanStep

	// Highlight, when HighlightFields is non-empty, splices a Highlighter
	// stage at the end of the chain (after the last step, per the
	// source → ... → loader → highlighter → caller order), tagging
	// occurrences of HighlightTerms in those fields. Empty tags default
	// to "<b>"/"</b>".
	HighlightFields                     []string
	HighlightTerms                      []string
	HighlightOpenTag, HighlightCloseTag string
}

// PlanStep is one builder instruction; Kind selects which fields matter.
type PlanStep struct {
	Kind StepKind

	// Apply / Filter
	Expression string
	DestName   string // Apply's alias

	// Load
	LoadFields []LoadField

	// Arrange
	Offset, Limit int
	SortKeys      []string
	SortDesc      []bool
	QuickExit     bool

	// Group
	GroupBy  []string
	Reducers []ReducerStep

	// VectorNormalizer
	VectorField        string
	DistanceFieldAlias string
	VectorMetric        qdrant.Distance
}

type LoadField struct {
	Path, Alias string
	Wildcard    bool
}

type ReducerStep struct {
	Kind   reducer.Name
	Src    string
	Aux    string // "" means unused
	NumArg float64
	IntArg int
	Alias  string
	Hidden bool
}

// StepKind mirrors params.StepKind.
type StepKind uint8

const (
	StepApply StepKind = iota
	StepFilter
	StepLoad
	StepArrange
	StepGroup
	StepVectorNormalizer
)

// Build translates a Plan into a stage chain rooted at a Source stage,
// returning the terminal stage, the request's Lookup, and its
// ExecContext.
func Build(plan Plan, deps Deps) (Stage, *lookup.Lookup, *ExecContext, error) {
	exec := NewExecContext(plan.TimeoutAt, plan.Policy)
	exec.StoreLock = deps.StoreLock

	lk := lookup.New(deps.Resolver)

	var scoreKey *lookup.Key
	if plan.ScoreKey != "" {
		k, err := lk.GetWriteKey(plan.ScoreKey, true)
		if err != nil {
			return nil, nil, nil, err
		}
		scoreKey = k
	}

	var cur Stage = NewSource(deps.Iterator, deps.MetaStore, deps.Shard, exec)
	if deps.Scorer != nil {
		cur = NewScorer(cur, deps.Scorer, deps.IndexStats, deps.UserData, scoreKey, plan.WantExplain, exec)
	}
	cur = NewMetricsLoader(cur, lk)

	if plan.WantProfile {
		cur = NewProfile(cur)
	}

	for _, step := range plan.Steps {
		next, err := buildStep(cur, step, lk, deps, exec)
		if err != nil {
			return nil, nil, nil, err
		}
		cur = next
		if plan.WantProfile {
			cur = NewProfile(cur)
		}
	}

	if len(plan.HighlightFields) > 0 {
		keys := make([]*lookup.Key, len(plan.HighlightFields))
		for i, name := range plan.HighlightFields {
			keys[i] = lk.GetReadKey(name, true)
		}
		openTag, closeTag := plan.HighlightOpenTag, plan.HighlightCloseTag
		if openTag == "" && closeTag == "" {
			openTag, closeTag = "<b>", "</b>"
		}
		cur = NewHighlighter(cur, keys, plan.HighlightTerms, openTag, closeTag)
		if plan.WantProfile {
			cur = NewProfile(cur)
		}
	}

	return cur, lk, exec, nil
}

func buildStep(cur Stage, step PlanStep, lk *lookup.Lookup, deps Deps, exec *ExecContext) (Stage, error) {
	switch step.Kind {
	case StepApply:
		if deps.CompileExpr == nil {
			return nil, qerr.New(qerr.CodeUnsupported, "no expression compiler configured")
		}
		expr, err := deps.CompileExpr(step.Expression, lk)
		if err != nil {
			return nil, err
		}
		dst, err := lk.GetWriteKey(step.DestName, true)
		if err != nil {
			return nil, err
		}
		return NewProjector(cur, expr, dst, exec), nil

	case StepFilter:
		if deps.CompileExpr == nil {
			return nil, qerr.New(qerr.CodeUnsupported, "no expression compiler configured")
		}
		expr, err := deps.CompileExpr(step.Expression, lk)
		if err != nil {
			return nil, err
		}
		return NewFilter(cur, expr, exec), nil

	case StepLoad:
		return buildLoad(cur, step, lk, deps)

	case StepArrange:
		criteria := make([]SortCriterion, len(step.SortKeys))
		for i, name := range step.SortKeys {
			k := lk.GetReadKey(name, true)
			desc := i < len(step.SortDesc) && step.SortDesc[i]
			criteria[i] = SortCriterion{Key: k, Descending: desc}
		}
		sorter := NewSorter(cur, exec, criteria, step.Offset+step.Limit, step.QuickExit)
		return NewPager(sorter, step.Offset, step.Limit), nil

	case StepGroup:
		return buildGroup(cur, step, lk)

	case StepVectorNormalizer:
		src := lk.GetReadKey(step.VectorField, true)
		dst, err := lk.GetWriteKey(step.DistanceFieldAlias, true)
		if err != nil {
			return nil, err
		}
		return NewVectorNormalizer(cur, src, dst, step.VectorMetric), nil

	default:
		return nil, qerr.Newf(qerr.CodeInvalid, "unknown plan step kind %d", step.Kind)
	}
}

func buildLoad(cur Stage, step PlanStep, lk *lookup.Lookup, deps Deps) (Stage, error) {
	mode := LoadModeKeys
	var keys []*lookup.Key
	for _, f := range step.LoadFields {
		if f.Wildcard {
			mode = LoadModeAll
			continue
		}
		name := f.Alias
		if name == "" {
			name = f.Path
		}
		k, _, err := lk.GetLoadKey(name, false, false)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return NewDocLoader(cur, keys, mode, false, false, deps.Record, deps.Structured, lk), nil
}

func buildGroup(cur Stage, step PlanStep, lk *lookup.Lookup) (Stage, error) {
	srcKeys := make([]*lookup.Key, len(step.GroupBy))
	dstKeys := make([]*lookup.Key, len(step.GroupBy))
	for i, name := range step.GroupBy {
		srcKeys[i] = lk.GetReadKey(name, true)
		dk, err := lk.GetWriteKey(name, true)
		if err != nil {
			return nil, err
		}
		dstKeys[i] = dk
	}

	reducerSteps := step.Reducers
	makeRs := func() []GroupReducer {
		grs := make([]GroupReducer, len(reducerSteps))
		for i, rs := range reducerSteps {
			srcK := lk.GetReadKey(rs.Src, true)
			auxIdx := -1
			if rs.Aux != "" {
				auxIdx = lk.GetReadKey(rs.Aux, true).DstIdx()
			}
			dstK, err := lk.GetWriteKey(rs.Alias, true)
			if err != nil {
				// write-key conflicts inside a reducer factory cannot
				// surface as a builder-time error; degrade to sharing
				// the existing key rather than panicking mid-request.
				dstK = lk.GetReadKey(rs.Alias, true)
			}
			r, err := reducer.New(reducer.Spec{
				Kind:   rs.Kind,
				SrcIdx: srcK.DstIdx(),
				AuxIdx: auxIdx,
				NumArg: rs.NumArg,
				IntArg: rs.IntArg,
				Alias:  rs.Alias,
				Hidden: rs.Hidden,
			})
			if err != nil {
				r = &noopReducer{}
			}
			grs[i] = GroupReducer{R: r, Dst: dstK}
		}
		return grs
	}

	return NewGrouper(cur, srcKeys, dstKeys, makeRs), nil
}
