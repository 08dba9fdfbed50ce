package flow

import (
	"sync/atomic"
	"time"

	"github.com/kvsearch/qexec/qerr"
	"github.com/kvsearch/qexec/store"
)

// TimeoutPolicy governs what a stage does when it notices the request
// deadline has passed.
type TimeoutPolicy uint8

const (
	// PolicyReturn emits buffered/partial results, then reports
	// TIMED_OUT once all available work is drained.
	PolicyReturn TimeoutPolicy = iota
	// PolicyFail reports TIMED_OUT immediately, with no emissions.
	PolicyFail
)

// ExecContext is the state shared by every stage in one request's chain:
// the cooperative deadline, its policy, the shared error slot, the
// running result counter, and (when applicable) the store lock.
//
// ExecContext is read/written only from the request's own goroutine,
// except for the error slot and lock-held flag which the merger's
// depleter goroutines also touch; those are synchronised internally.
type ExecContext struct {
	TimeoutAt time.Time
	Policy    TimeoutPolicy

	totalResults atomic.Int64

	StoreLock *store.Lock
	lockHeld  atomic.Bool

	err atomic.Pointer[qerr.QError]
}

// NewExecContext creates a context with the given deadline and policy.
// A zero TimeoutAt means "no deadline".
func NewExecContext(timeoutAt time.Time, policy TimeoutPolicy) *ExecContext {
	return &ExecContext{TimeoutAt: timeoutAt, Policy: policy}
}

// Expired reports whether the deadline has passed. A zero TimeoutAt
// never expires.
func (c *ExecContext) Expired() bool {
	if c.TimeoutAt.IsZero() {
		return false
	}
	return time.Now().After(c.TimeoutAt)
}

// IncrTotalResults increments the pipeline's total-results counter, used
// by the source stage on every match it surfaces.
func (c *ExecContext) IncrTotalResults(delta int64) {
	c.totalResults.Add(delta)
}

// TotalResults reads the running count.
func (c *ExecContext) TotalResults() int64 { return c.totalResults.Load() }

// SetError assigns the pipeline's shared error slot. Once set, every
// subsequent Next call on every stage must return StatusError.
func (c *ExecContext) SetError(err *qerr.QError) {
	c.err.Store(err)
}

// Err reads the shared error slot, or nil.
func (c *ExecContext) Err() *qerr.QError { return c.err.Load() }

// AcquireLock acquires the store's global lock, marking it held in the
// shared context so a downstream Unlocker can find and release it.
func (c *ExecContext) AcquireLock() {
	if c.StoreLock == nil {
		return
	}
	c.StoreLock.RLock()
	c.lockHeld.Store(true)
}

// ReleaseLock releases the store's global lock if currently held. Safe
// to call more than once; only the first call after an acquire has an
// effect.
func (c *ExecContext) ReleaseLock() {
	if c.StoreLock == nil {
		return
	}
	if c.lockHeld.CompareAndSwap(true, false) {
		c.StoreLock.RUnlock()
	}
}

// LockHeld reports whether this context currently holds the store lock.
func (c *ExecContext) LockHeld() bool { return c.lockHeld.Load() }
