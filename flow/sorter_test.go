package flow

import (
	"testing"
	"time"

	"github.com/kvsearch/qexec/sresult"
)

func mkResult(docID uint64, score float64) *sresult.SearchResult {
	r := sresult.New(0)
	r.DocID = docID
	r.Score = score
	return r
}

func TestSorterTopKByScoreDescending(t *testing.T) {
	src := newFakeSource(
		mkResult(1, 5),
		mkResult(2, 9),
		mkResult(3, 1),
		mkResult(4, 7),
		mkResult(5, 3),
	)
	sorter := NewSorter(src, nil, nil, 3, false)
	defer sorter.Free()

	var got []float64
	res := sresult.New(0)
	for {
		st := sorter.Next(res)
		if st != StatusOK {
			break
		}
		got = append(got, res.Score)
	}

	want := []float64{9, 7, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v results, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %v, want %v", i, got, want)
		}
	}
}

func TestSorterQuickExitStopsAtLimit(t *testing.T) {
	src := newFakeSource(
		mkResult(1, 5),
		mkResult(2, 9),
		mkResult(3, 1),
	)
	sorter := NewSorter(src, nil, nil, 2, true)
	defer sorter.Free()

	res := sresult.New(0)
	count := 0
	for sorter.Next(res) == StatusOK {
		count++
	}
	if count != 2 {
		t.Fatalf("quickExit with limit 2 should yield exactly 2 results, got %d", count)
	}
	// the third source result was never consumed once the heap filled.
	if src.pos != 2 {
		t.Fatalf("quickExit should stop pulling once heap is full, pulled %d", src.pos)
	}
}

func TestSorterReturnPolicyYieldsBufferedRowsThenTimedOut(t *testing.T) {
	src := newFakeSourceWithTerminal(StatusTimedOut, mkResult(1, 5), mkResult(2, 9))
	exec := NewExecContext(time.Time{}, PolicyReturn)
	sorter := NewSorter(src, exec, nil, 100, false)
	defer sorter.Free()

	var got []float64
	res := sresult.New(0)
	var final Status
	for {
		st := sorter.Next(res)
		if st != StatusOK {
			final = st
			break
		}
		got = append(got, res.Score)
	}

	if len(got) != 2 || got[0] != 9 || got[1] != 5 {
		t.Fatalf("want buffered rows [9 5] emitted before terminal status, got %v", got)
	}
	if final != StatusTimedOut {
		t.Fatalf("want terminal status TIMED_OUT once buffered rows are drained, got %v", final)
	}
}

func TestSorterFailPolicyPropagatesTimedOutImmediately(t *testing.T) {
	src := newFakeSourceWithTerminal(StatusTimedOut, mkResult(1, 5), mkResult(2, 9))
	exec := NewExecContext(time.Time{}, PolicyFail)
	sorter := NewSorter(src, exec, nil, 100, false)
	defer sorter.Free()

	res := sresult.New(0)
	if st := sorter.Next(res); st != StatusTimedOut {
		t.Fatalf("FAIL policy must propagate TIMED_OUT immediately with no rows, got %v", st)
	}
}
