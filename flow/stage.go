package flow

import "github.com/kvsearch/qexec/sresult"

// Status is the outcome of one Stage.Next call.
type Status uint8

const (
	// StatusOK means result was populated and the caller may ask for
	// more.
	StatusOK Status = iota
	// StatusEOF means the stream ended normally; result was not
	// populated.
	StatusEOF
	// StatusTimedOut means the request deadline was reached; under the
	// RETURN policy rows already produced are valid, under FAIL none
	// are.
	StatusTimedOut
	// StatusError is a hard failure; the pipeline's shared error slot
	// carries the cause.
	StatusError
	// StatusDepleting is internal to the hybrid merger: this upstream
	// is still filling its buffer.
	StatusDepleting
	// StatusPaused is internal cooperative yielding; never surfaced to
	// the caller.
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusEOF:
		return "EOF"
	case StatusTimedOut:
		return "TIMED_OUT"
	case StatusError:
		return "ERROR"
	case StatusDepleting:
		return "DEPLETING"
	case StatusPaused:
		return "PAUSED"
	default:
		return "UNKNOWN"
	}
}

// Behavior is a set of optional bits describing how a stage participates
// in the chain's dependency rules (spec §4.1, §4.10).
type Behavior uint8

const (
	// BehaviorAccumulator stages will not produce until upstream signals
	// EOF (sorter, grouper, counter).
	BehaviorAccumulator Behavior = 1 << iota
	// BehaviorAborter stages may declare EOF without consulting upstream
	// again (pager, once its limit is reached).
	BehaviorAborter
	// BehaviorAccessStore stages require the global store lock held.
	BehaviorAccessStore
)

func (b Behavior) Has(bit Behavior) bool { return b&bit != 0 }

// Type discriminates a stage for diagnostics and behaviour-dependent
// wrapping (e.g. the builder deciding where a loader needs splicing).
type Type uint8

const (
	TypeSource Type = iota
	TypeScorer
	TypeMetricsLoader
	TypeDocLoader
	TypeProjector
	TypeFilter
	TypeHighlighter
	TypeSorter
	TypePager
	TypeCounter
	TypeGrouper
	TypeProfile
	TypeBufferLock
	TypeUnlocker
	TypeMerger
	TypeDepleter
)

// Stage is the pipeline's unit of composition (synonym: result
// processor). A stage MUST NOT mutate its upstream's state other than by
// calling Next.
type Stage interface {
	// Next attempts to produce one result into res. On StatusOK, res is
	// populated; on any other status, res is left untouched.
	Next(res *sresult.SearchResult) Status
	// Free releases resources; safe to call at any time after
	// construction, including on an un-exhausted chain. Free must be
	// idempotent and must free the upstream chain bottom-up.
	Free()
	// Type is this stage's discriminant.
	Type() Type
	// Upstream returns the stage this one pulls from, or nil for a
	// source stage.
	Upstream() Stage
	// Behavior reports this stage's optional behaviour bits.
	Behavior() Behavior
}

// base is embedded by every concrete stage to provide the structural
// upstream link and default Behavior/Free/Upstream implementations.
// Concrete stages override Type and Next, and Behavior when non-zero.
type base struct {
	upstream Stage
	freed    bool
}

func (b *base) Upstream() Stage      { return b.upstream }
func (b *base) Behavior() Behavior   { return 0 }
func (b *base) alreadyFreed() bool   { return b.freed }
func (b *base) markFreed()           { b.freed = true }

// Free releases the upstream chain bottom-up. Concrete stages that hold
// their own resources override Free: they guard with alreadyFreed/
// markFreed, release their own resources, then free their upstream.
func (b *base) Free() {
	if b.freed {
		return
	}
	b.freed = true
	if b.upstream != nil {
		b.upstream.Free()
	}
}

// pull is a small helper used by 1-in/1-out stages: it forwards to
// upstream.Next and returns the status unchanged, letting the caller
// handle only the OK path.
func pull(upstream Stage, res *sresult.SearchResult) Status {
	if upstream == nil {
		return StatusEOF
	}
	return upstream.Next(res)
}
