package scheme

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an evaluation failure.
type ErrorKind int

const (
	UnboundName ErrorKind = iota + 1
	UndefinedFunction
	NotCallable
	ArityMismatch
	TypeMismatch
	DivisionByZero
	UnrecognizedOperator
	IOFailure
)

func (k ErrorKind) String() string {
	switch k {
	case UnboundName:
		return "unbound name"
	case UndefinedFunction:
		return "undefined function"
	case NotCallable:
		return "not callable"
	case ArityMismatch:
		return "arity mismatch"
	case TypeMismatch:
		return "type mismatch"
	case DivisionByZero:
		return "division by zero"
	case UnrecognizedOperator:
		return "unrecognized operator"
	case IOFailure:
		return "i/o failure"
	default:
		return fmt.Sprintf("error(%d)", int(k))
	}
}

// EvalError is the single error type the evaluator returns. Every failure is
// fatal to the run that produced it.
type EvalError struct {
	Kind ErrorKind
	Pos  Pos // zero when the failure has no source position
	Msg  string
}

func (e *EvalError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("error at line %d, column %d: %s", e.Pos.Line, e.Pos.Col, e.Msg)
	}
	return "error: " + e.Msg
}

// Is lets errors.Is match on kind alone: errors.Is(err, &EvalError{Kind: TypeMismatch}).
func (e *EvalError) Is(target error) bool {
	t, ok := target.(*EvalError)
	return ok && t.Kind == e.Kind
}

func newError(kind ErrorKind, pos Pos, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// at fills in a position on errors raised by position-less helpers
// (environment lookups, natives).
func at(err error, pos Pos) error {
	if ee, ok := err.(*EvalError); ok && ee.Pos.Line == 0 {
		cp := *ee
		cp.Pos = pos
		return &cp
	}
	return err
}

// SyntaxError reports malformed source. The front end stops at the first one.
// Incomplete is set when the source ended inside an open list or string.
type SyntaxError struct {
	Pos        Pos
	Msg        string
	Incomplete bool
}

// IsIncomplete reports whether err is a SyntaxError caused by truncated input.
func IsIncomplete(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se) && se.Incomplete
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Pos.Line, e.Pos.Col, e.Msg)
}
