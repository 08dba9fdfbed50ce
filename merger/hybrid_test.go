package merger

import (
	"testing"
	"time"

	"github.com/kvsearch/qexec/flow"
	"github.com/kvsearch/qexec/sresult"
)

// listStage plays back a fixed list of results, then EOFs.
type listStage struct {
	results []*sresult.SearchResult
	pos     int
}

func (l *listStage) Next(res *sresult.SearchResult) flow.Status {
	if l.pos >= len(l.results) {
		return flow.StatusEOF
	}
	*res = *l.results[l.pos]
	l.pos++
	return flow.StatusOK
}
func (l *listStage) Free()                  {}
func (l *listStage) Upstream() flow.Stage   { return nil }
func (l *listStage) Behavior() flow.Behavior { return 0 }
func (l *listStage) Type() flow.Type         { return flow.TypeSource }

func doc(id uint64, score float64) *sresult.SearchResult {
	r := sresult.New(0)
	r.DocID = id
	r.Score = score
	return r
}

func TestHybridMergerLinearFusesOverlappingDocs(t *testing.T) {
	a := &listStage{results: []*sresult.SearchResult{doc(1, 1.0), doc(2, 0.5)}}
	b := &listStage{results: []*sresult.SearchResult{doc(1, 0.8), doc(3, 0.3)}}

	exec := flow.NewExecContext(time.Time{}, flow.PolicyReturn)
	m := New([]flow.Stage{a, b}, exec, Config{Mode: ModeLinear, Weights: []float64{1, 1}})
	defer m.Free()

	seen := map[uint64]float64{}
	res := &sresult.SearchResult{}
	for {
		st := m.Next(res)
		if st != flow.StatusOK {
			break
		}
		seen[res.DocID] = res.Score
	}

	if len(seen) != 3 {
		t.Fatalf("want 3 distinct docs across both streams, got %d (%v)", len(seen), seen)
	}
	if got := seen[1]; got != 1.8 {
		t.Fatalf("doc 1 appears in both streams, want fused score 1.8, got %v", got)
	}
	if got := seen[2]; got != 0.5 {
		t.Fatalf("doc 2 only in stream a, want 0.5, got %v", got)
	}
	if got := seen[3]; got != 0.3 {
		t.Fatalf("doc 3 only in stream b, want 0.3, got %v", got)
	}
}

func TestHybridMergerRRFRanksByReciprocalRank(t *testing.T) {
	// doc 1 ranks 1st in stream a and 2nd in stream b; doc 2 ranks 2nd in
	// a and 1st in b; doc 3 only appears in b, ranked 3rd there.
	a := &listStage{results: []*sresult.SearchResult{doc(1, 10), doc(2, 5)}}
	b := &listStage{results: []*sresult.SearchResult{doc(2, 9), doc(1, 8), doc(3, 1)}}

	exec := flow.NewExecContext(time.Time{}, flow.PolicyReturn)
	m := New([]flow.Stage{a, b}, exec, Config{Mode: ModeRRF, K: 60})
	defer m.Free()

	seen := map[uint64]float64{}
	res := &sresult.SearchResult{}
	for {
		st := m.Next(res)
		if st != flow.StatusOK {
			break
		}
		seen[res.DocID] = res.Score
	}

	const k = 60
	want1 := 1.0/float64(k+1) + 1.0/float64(k+2)
	want2 := 1.0/float64(k+2) + 1.0/float64(k+1)
	want3 := 1.0 / float64(k+3)

	if got := seen[1]; got != want1 {
		t.Fatalf("doc 1 RRF score: want %v, got %v", want1, got)
	}
	if got := seen[2]; got != want2 {
		t.Fatalf("doc 2 RRF score: want %v, got %v", want2, got)
	}
	if got := seen[3]; got != want3 {
		t.Fatalf("doc 3 RRF score: want %v, got %v", want3, got)
	}
}
