package flow

import (
	"github.com/kvsearch/qexec/source"
	"github.com/kvsearch/qexec/sresult"
)

// timeoutCheckPeriod bounds how often the Source stage checks its
// cooperative deadline; spec §4.2 requires K <= 2^14.
const timeoutCheckPeriod = 1 << 10

// SourceStage wraps an index iterator, emitting one result per matching
// document. It is the only stage whose Next may itself fail with
// TIMED_OUT for reasons not originating in an upstream.
type SourceStage struct {
	base
	iter     source.Iterator
	mdStore  source.MetadataStore
	shard    source.ShardRange
	exec     *ExecContext
	calls    uint32
}

// NewSource builds a Source stage. mdStore and shard may be nil (no
// external metadata lookup / not a sharded deployment).
func NewSource(iter source.Iterator, mdStore source.MetadataStore, shard source.ShardRange, exec *ExecContext) *SourceStage {
	return &SourceStage{iter: iter, mdStore: mdStore, shard: shard, exec: exec}
}

func (s *SourceStage) Type() Type { return TypeSource }

func (s *SourceStage) Free() {
	if s.alreadyFreed() {
		return
	}
	s.markFreed()
	if s.iter != nil {
		s.iter.Close()
	}
}

func (s *SourceStage) Next(res *sresult.SearchResult) Status {
	for {
		s.calls++
		if s.calls%timeoutCheckPeriod == 0 && s.exec.Expired() {
			return StatusTimedOut
		}

		docID, ir, md, st := s.iter.Next()
		switch st {
		case source.IterEOF:
			return StatusEOF
		case source.IterTimedOut:
			return StatusTimedOut
		case source.IterNotFound:
			continue
		}

		if md == nil && s.mdStore != nil {
			md = s.mdStore.Lookup(docID)
		}
		if md == nil || md.Deleted {
			continue
		}

		if s.shard != nil && !s.shard.Owns(docID) {
			continue
		}

		s.exec.IncrTotalResults(1)

		res.DocID = docID
		res.IndexResult = ir
		res.Score = 0
		res.DMD = md
		res.Flags = 0
		if md.SortVector != nil {
			res.Row.SetSortVector(md.SortVector)
		}
		return StatusOK
	}
}
