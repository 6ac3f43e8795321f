package eval

import "fmt"

// Kind classifies an evaluator failure per spec.md §7.
type Kind int

const (
	// ReferenceError: access of a missing attribute.
	ReferenceError Kind = iota
	// TypeError: a built-in received a non-primitive where a primitive was required.
	TypeError
	// InvariantViolation: a surface-only node survived to evaluation, or a
	// block was inspected while its pending-clone table was non-empty.
	InvariantViolation
)

func (k Kind) String() string {
	switch k {
	case ReferenceError:
		return "reference error"
	case TypeError:
		return "type error"
	case InvariantViolation:
		return "invariant violation"
	default:
		return "error"
	}
}

// Error is an evaluator-time failure. Unlike lex/parse errors, evaluator
// errors carry no source position (the graph no longer tracks one by this
// stage); instead they identify the failing attribute name and the observed
// node kind, per spec.md §7.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func errTypef(format string, args ...any) *Error {
	return &Error{Kind: TypeError, Message: fmt.Sprintf(format, args...)}
}

func errReff(format string, args ...any) *Error {
	return &Error{Kind: ReferenceError, Message: fmt.Sprintf(format, args...)}
}

func errInvariantf(format string, args ...any) *Error {
	return &Error{Kind: InvariantViolation, Message: fmt.Sprintf(format, args...)}
}
