// Package flow implements the pull-based result-processor chain: the
// stage contract, every concrete stage (source, scorer, loaders,
// projector, filter, sorter, pager, counter, grouper, profile wrapper,
// buffer/lock pair), and the pipeline builder that turns an ordered
// aggregation plan into a stage chain.
//
// A stage produces at most one result per Next call by pulling from its
// single upstream; the terminal stage is driven by the caller until
// end-of-stream, a timeout, or an error. Stages are composed bottom-up:
// each stage owns (and frees) its upstream.
package flow
