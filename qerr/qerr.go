// Package qerr defines the error kinds the query execution pipeline can
// surface to a caller, per the error handling design of the core spec.
//
// Validation errors are constructed before a pipeline runs and returned
// without producing any row. Runtime errors are assigned to a pipeline's
// shared error slot and surface as a stage's next status turning ERROR.
package qerr

import (
	"errors"
	"fmt"
)

// Code is a canonical error kind. The set is non-exhaustive but fixed for
// the core: new kinds are added here, never invented ad hoc at call sites.
type Code string

const (
	CodeParseArgs          Code = "PARSE_ARGS"
	CodeBadValue           Code = "BAD_VALUE"
	CodeInvalid            Code = "INVALID"
	CodeNoPropKey          Code = "NO_PROPKEY"
	CodeDupField           Code = "DUP_FIELD"
	CodeNoReducer          Code = "NO_REDUCER"
	CodeLimit              Code = "LIMIT"
	CodeIndexExists        Code = "INDEX_EXISTS"
	CodeNotNumeric         Code = "NOT_NUMERIC"
	CodeNoDoc              Code = "NO_DOC"
	CodeKeyType            Code = "REDIS_KEYTYPE"
	CodeGeneric            Code = "GENERIC"
	CodeUnsupported        Code = "UNSUPPORTED"
	CodeVectorNotAllowed   Code = "VECTOR_NOT_ALLOWED"
	CodeWeightNotAllowed   Code = "WEIGHT_NOT_ALLOWED"
)

// QError is the concrete error type carried through the pipeline's shared
// error slot and returned to callers for pre-execution validation failures.
type QError struct {
	Code    Code
	Message string
	cause   error
}

func (e *QError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *QError) Unwrap() error { return e.cause }

// New builds a QError with no wrapped cause.
func New(code Code, message string) *QError {
	return &QError{Code: code, Message: message}
}

// Newf builds a QError with a formatted message.
func Newf(code Code, format string, args ...any) *QError {
	return &QError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a QError that carries cause as its unwrap target.
func Wrap(code Code, message string, cause error) *QError {
	return &QError{Code: code, Message: message, cause: cause}
}

// Is reports whether err is a QError of the given code.
func Is(err error, code Code) bool {
	var qe *QError
	if errors.As(err, &qe) {
		return qe.Code == code
	}
	return false
}

// WithSubquerySide rewrites a merger sub-query error so VECTOR_NOT_ALLOWED
// and WEIGHT_NOT_ALLOWED messages identify which side of a hybrid request
// (filter or search) violated the rule, per the merger's context-enhancement
// rule. Any other code passes through unchanged.
func WithSubquerySide(err error, side string) error {
	var qe *QError
	if !errors.As(err, &qe) {
		return err
	}
	if qe.Code != CodeVectorNotAllowed && qe.Code != CodeWeightNotAllowed {
		return err
	}
	return &QError{
		Code:    qe.Code,
		Message: fmt.Sprintf("%s (%s side)", qe.Message, side),
		cause:   qe.cause,
	}
}
