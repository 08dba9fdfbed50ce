package flow

import (
	"github.com/kvsearch/qexec/value"
)

// Expr is a pre-parsed, pre-bound expression AST. Parsing and binding
// (resolving identifiers to lookup keys) happen upstream of this package;
// a Stage only ever evaluates an already-compiled Expr against a row.
type Expr interface {
	// Eval computes the expression's value for one row. Bound keys are
	// read directly off row by the implementation holding their indices.
	Eval(row *value.Row) (*value.Value, error)
}

// ExprFunc adapts a plain function to the Expr interface.
type ExprFunc func(row *value.Row) (*value.Value, error)

func (f ExprFunc) Eval(row *value.Row) (*value.Value, error) { return f(row) }
