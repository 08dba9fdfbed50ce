package flow

import "github.com/kvsearch/qexec/sresult"

// PagerStage skips offset results, then forwards up to limit more before
// declaring EOF without consulting upstream again.
type PagerStage struct {
	base
	offset, limit int
	count         int
}

// NewPager builds a Pager stage over upstream.
func NewPager(upstream Stage, offset, limit int) *PagerStage {
	return &PagerStage{base: base{upstream: upstream}, offset: offset, limit: limit}
}

func (p *PagerStage) Type() Type         { return TypePager }
func (p *PagerStage) Behavior() Behavior { return BehaviorAborter }

func (p *PagerStage) Next(res *sresult.SearchResult) Status {
	for p.count < p.offset {
		st := pull(p.upstream, res)
		if st != StatusOK {
			return st
		}
		p.count++
		res.Clear()
	}

	if p.count >= p.offset+p.limit {
		return StatusEOF
	}

	st := pull(p.upstream, res)
	if st == StatusOK {
		p.count++
	}
	return st
}
