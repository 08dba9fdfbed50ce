package flow

import (
	"github.com/kvsearch/qexec/sresult"
)

// BufferAndLockStage drains upstream into memory, then acquires the
// store's global lock before yielding what it buffered. If the store's
// version changed while buffering, buffered results whose document is
// now flagged deleted are silently dropped on yield.
type BufferAndLockStage struct {
	base
	exec      *ExecContext
	startVer  uint64
	buf       []*sresult.SearchResult
	yielding  bool
	buffering bool
	terminal  Status // status reported once buf drains: EOF or TimedOut
}

// NewBufferAndLock builds a BufferAndLock stage over upstream.
func NewBufferAndLock(upstream Stage, exec *ExecContext) *BufferAndLockStage {
	return &BufferAndLockStage{base: base{upstream: upstream}, exec: exec, terminal: StatusEOF}
}

func (b *BufferAndLockStage) Type() Type         { return TypeBufferLock }
func (b *BufferAndLockStage) Behavior() Behavior { return BehaviorAccumulator | BehaviorAccessStore }

func (b *BufferAndLockStage) Next(res *sresult.SearchResult) Status {
	if !b.yielding {
		if b.exec.StoreLock != nil {
			b.startVer = b.exec.StoreLock.Version()
		}
		st := b.buffer()
		// Under FAIL policy, TIMED_OUT propagates immediately with no
		// emissions and the lock is never taken. Under RETURN, a
		// TIMED_OUT upstream is treated like EOF: buffer what was
		// collected and yield it, surfacing TIMED_OUT once drained.
		if st == StatusTimedOut && b.exec.Policy == PolicyFail {
			return StatusTimedOut
		}
		if st != StatusEOF && st != StatusTimedOut {
			return st
		}
		b.terminal = st
		b.exec.AcquireLock()
		b.validateAfterLock()
		b.yielding = true
	}
	return b.yieldOne(res)
}

func (b *BufferAndLockStage) buffer() Status {
	for {
		r := sresult.New(0)
		st := pull(b.upstream, r)
		switch st {
		case StatusOK:
			b.buf = append(b.buf, r.Clone())
			r.Clear()
		case StatusEOF, StatusTimedOut:
			return st
		default:
			return st
		}
	}
}

// validateAfterLock drops buffered results whose document was deleted
// after this request started buffering but before the lock was granted.
func (b *BufferAndLockStage) validateAfterLock() {
	if b.exec.StoreLock == nil || b.exec.StoreLock.Version() == b.startVer {
		return
	}
	kept := b.buf[:0]
	for _, r := range b.buf {
		if r.DMD != nil && r.DMD.Deleted {
			r.Destroy()
			if b.exec != nil {
				b.exec.IncrTotalResults(-1)
			}
			continue
		}
		kept = append(kept, r)
	}
	b.buf = kept
}

func (b *BufferAndLockStage) yieldOne(res *sresult.SearchResult) Status {
	if len(b.buf) == 0 {
		return b.terminal
	}
	top := b.buf[0]
	b.buf = b.buf[1:]
	*res = *top
	return StatusOK
}

func (b *BufferAndLockStage) Free() {
	if b.alreadyFreed() {
		return
	}
	b.markFreed()
	for _, r := range b.buf {
		r.Destroy()
	}
	if b.upstream != nil {
		b.upstream.Free()
	}
}

// UnlockerStage releases the store's global lock on any terminal status
// from upstream (success, EOF, timeout, or error), and must be placed
// strictly after the last store-accessing stage in the chain.
type UnlockerStage struct {
	base
	exec *ExecContext
}

// NewUnlocker builds an Unlocker stage over upstream.
func NewUnlocker(upstream Stage, exec *ExecContext) *UnlockerStage {
	return &UnlockerStage{base: base{upstream: upstream}, exec: exec}
}

func (u *UnlockerStage) Type() Type { return TypeUnlocker }

func (u *UnlockerStage) Next(res *sresult.SearchResult) Status {
	st := pull(u.upstream, res)
	if st != StatusOK {
		u.exec.ReleaseLock()
	}
	return st
}

func (u *UnlockerStage) Free() {
	if u.alreadyFreed() {
		return
	}
	u.markFreed()
	u.exec.ReleaseLock()
	if u.upstream != nil {
		u.upstream.Free()
	}
}
