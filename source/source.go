// Package source defines the external collaborators the pipeline treats
// as opaque: the index iterator and the document metadata it returns.
// Query-string parsing and the actual inverted/numeric/vector index
// implementations are out of scope (spec §1); this package fixes only
// the interfaces the Source stage consumes.
package source

import "github.com/kvsearch/qexec/value"

// IterStatus is the raw status an index iterator reports per call,
// distinct from (but mapped onto) a stage's Status.
type IterStatus uint8

const (
	IterOK IterStatus = iota
	IterNotFound
	IterEOF
	IterTimedOut
)

// Metric is one (key, value) pair attached to an index match, consumed
// by the metrics-loader stage.
type Metric struct {
	Key   string
	Value *value.Value
}

// IndexResult is the opaque per-match payload an iterator returns
// alongside a docId: whatever the scoring function and metrics loader
// need, without the pipeline knowing the concrete index type.
type IndexResult struct {
	Metrics []Metric
	// Raw is the index-specific representation consulted by scorer
	// plugins (BM25 term frequencies, vector distances, ...).
	Raw any
}

// DocMetadata (DMD) carries per-document attributes needed downstream:
// deletion status, a shard slot for cluster filtering, and the
// precomputed sort vector.
type DocMetadata struct {
	DocID      uint64
	Deleted    bool
	ShardSlot  uint16
	SortVector *value.SortVector
}

// Iterator yields raw index records. Implementations may do I/O
// (on-disk readers); the Source stage is one of the pipeline's
// designated suspension points.
type Iterator interface {
	// Next returns the next record, or a non-OK status. A Metadata that
	// is non-nil on return is already resolved and should be reused
	// rather than looked up again.
	Next() (docID uint64, res *IndexResult, md *DocMetadata, status IterStatus)
	// Close releases the iterator's resources.
	Close()
}

// MetadataStore resolves document metadata by docId when an iterator
// does not carry it inline.
type MetadataStore interface {
	Lookup(docID uint64) *DocMetadata
}

// ShardRange reports whether a document key's hash slot falls in this
// shard's owned range, used by the Source stage under a sharded
// deployment.
type ShardRange interface {
	Owns(docID uint64) bool
}
