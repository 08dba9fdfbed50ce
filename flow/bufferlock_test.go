package flow

import (
	"testing"
	"time"

	"github.com/kvsearch/qexec/sresult"
)

func TestBufferAndLockReturnPolicyYieldsBufferedRowsThenTimedOut(t *testing.T) {
	src := newFakeSourceWithTerminal(StatusTimedOut, mkResult(1, 1), mkResult(2, 2))
	exec := NewExecContext(time.Time{}, PolicyReturn)
	stage := NewBufferAndLock(src, exec)
	defer stage.Free()

	var got []uint64
	res := sresult.New(0)
	var final Status
	for {
		st := stage.Next(res)
		if st != StatusOK {
			final = st
			break
		}
		got = append(got, res.DocID)
	}

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("want both buffered rows emitted before terminal status, got %v", got)
	}
	if final != StatusTimedOut {
		t.Fatalf("want terminal status TIMED_OUT once buffered rows are drained, got %v", final)
	}
}

func TestBufferAndLockFailPolicyPropagatesTimedOutImmediately(t *testing.T) {
	src := newFakeSourceWithTerminal(StatusTimedOut, mkResult(1, 1), mkResult(2, 2))
	exec := NewExecContext(time.Time{}, PolicyFail)
	stage := NewBufferAndLock(src, exec)
	defer stage.Free()

	res := sresult.New(0)
	if st := stage.Next(res); st != StatusTimedOut {
		t.Fatalf("FAIL policy must propagate TIMED_OUT immediately with no rows, got %v", st)
	}
}
