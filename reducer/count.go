package reducer

import "github.com/kvsearch/qexec/value"

type countReducer struct {
	n int64
}

func (c *countReducer) Add(RowReader)       { c.n++ }
func (c *countReducer) Finalize() *value.Value { return value.NewNumber(float64(c.n)) }
func (c *countReducer) Free()               {}
