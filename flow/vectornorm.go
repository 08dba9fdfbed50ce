package flow

import (
	"github.com/qdrant/go-client/qdrant"

	"github.com/kvsearch/qexec/lookup"
	"github.com/kvsearch/qexec/sresult"
	"github.com/kvsearch/qexec/value"
)

// VectorNormalizerStage reads a raw vector distance out of the row (the
// source key) and writes a normalised similarity score (the destination
// key), with the normalisation formula selected by the distance metric
// the vector field was indexed with.
type VectorNormalizerStage struct {
	base
	src, dst *lookup.Key
	metric   qdrant.Distance
}

// NewVectorNormalizer builds a VectorNormalizer stage over upstream.
func NewVectorNormalizer(upstream Stage, src, dst *lookup.Key, metric qdrant.Distance) *VectorNormalizerStage {
	return &VectorNormalizerStage{base: base{upstream: upstream}, src: src, dst: dst, metric: metric}
}

func (v *VectorNormalizerStage) Type() Type { return TypeProjector }

func (v *VectorNormalizerStage) Next(res *sresult.SearchResult) Status {
	st := pull(v.upstream, res)
	if st != StatusOK {
		return st
	}

	d := value.NumberVal(res.Row.Get(v.src.DstIdx()))
	sim := normalize(v.metric, d)

	res.Row.EnsureLen(v.dst.DstIdx() + 1)
	res.Row.Set(v.dst.DstIdx(), value.NewNumber(sim))
	return StatusOK
}

// normalize maps a raw distance to a [0,1]-ish similarity, per metric.
func normalize(metric qdrant.Distance, d float64) float64 {
	switch metric {
	case qdrant.Distance_Dot:
		return (1 + d) / 2
	case qdrant.Distance_Cosine:
		return (1 + (1 - d)) / 2
	default: // Euclid (L2) and anything else falls back to the L2 formula
		return 1 / (1 + d)
	}
}
