package flow

import (
	"testing"

	"github.com/kvsearch/qexec/sresult"
)

func TestPagerSkipsOffsetAndBoundsLimit(t *testing.T) {
	src := newFakeSource(
		mkResult(1, 0),
		mkResult(2, 0),
		mkResult(3, 0),
		mkResult(4, 0),
		mkResult(5, 0),
	)
	pager := NewPager(src, 1, 2)
	defer pager.Free()

	var got []uint64
	res := sresult.New(0)
	for {
		st := pager.Next(res)
		if st != StatusOK {
			break
		}
		got = append(got, res.DocID)
	}

	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("offset 1 limit 2 over docs 1..5 should yield [2 3], got %v", got)
	}
}

func TestPagerEOFWithoutTouchingUpstreamOnceLimitReached(t *testing.T) {
	src := newFakeSource(mkResult(1, 0), mkResult(2, 0))
	pager := NewPager(src, 0, 1)
	defer pager.Free()

	res := sresult.New(0)
	if st := pager.Next(res); st != StatusOK {
		t.Fatalf("first Next should be OK, got %v", st)
	}
	if st := pager.Next(res); st != StatusEOF {
		t.Fatalf("second Next should be EOF once limit is reached, got %v", st)
	}
	if src.pos != 1 {
		t.Fatalf("pager must not pull upstream once its limit is satisfied, pulled %d", src.pos)
	}
}
