package flow

import (
	"github.com/kvsearch/qexec/lookup"
	"github.com/kvsearch/qexec/sresult"
)

// MetricsLoaderStage writes every (key, value) pair from the index
// result's per-match metric list into the row, resolving each key
// through a shared Lookup on first sight.
type MetricsLoaderStage struct {
	base
	lk *lookup.Lookup
}

// NewMetricsLoader builds a MetricsLoader stage over upstream.
func NewMetricsLoader(upstream Stage, lk *lookup.Lookup) *MetricsLoaderStage {
	return &MetricsLoaderStage{base: base{upstream: upstream}, lk: lk}
}

func (m *MetricsLoaderStage) Type() Type { return TypeMetricsLoader }

func (m *MetricsLoaderStage) Next(res *sresult.SearchResult) Status {
	st := pull(m.upstream, res)
	if st != StatusOK {
		return st
	}
	if res.IndexResult == nil {
		return StatusOK
	}
	for _, metric := range res.IndexResult.Metrics {
		k := m.lk.GetReadKey(metric.Key, true)
		res.Row.EnsureLen(k.DstIdx() + 1)
		res.Row.Set(k.DstIdx(), metric.Value)
	}
	return StatusOK
}
