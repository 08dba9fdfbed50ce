package flow

import "github.com/kvsearch/qexec/sresult"

// fakeSource plays back a fixed list of results, then reports terminal
// (StatusEOF by default). Used by stage-level tests that need a simple
// deterministic upstream.
type fakeSource struct {
	base
	results  []*sresult.SearchResult
	pos      int
	terminal Status
}

func newFakeSource(results ...*sresult.SearchResult) *fakeSource {
	return &fakeSource{results: results, terminal: StatusEOF}
}

// newFakeSourceWithTerminal is like newFakeSource but reports terminal
// once results is exhausted, instead of StatusEOF.
func newFakeSourceWithTerminal(terminal Status, results ...*sresult.SearchResult) *fakeSource {
	return &fakeSource{results: results, terminal: terminal}
}

func (f *fakeSource) Type() Type { return TypeSource }

func (f *fakeSource) Next(res *sresult.SearchResult) Status {
	if f.pos >= len(f.results) {
		return f.terminal
	}
	*res = *f.results[f.pos]
	f.pos++
	return StatusOK
}
