// Package compileerr defines the recoverable error taxonomy shared across
// the Mellow compilation pipeline: lexing, parsing, type checking, TAC
// lowering, and register allocation.
package compileerr

import "fmt"

// Kind identifies which stage of the pipeline raised an error.
type Kind int

const (
	LexError Kind = iota
	ParseError
	TypeError
	LowerError
	AllocError
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "lex error"
	case ParseError:
		return "parse error"
	case TypeError:
		return "type error"
	case LowerError:
		return "lower error"
	case AllocError:
		return "alloc error"
	default:
		return "error"
	}
}

// Error is a recoverable compiler error: the driver prints it as a single
// line and exits with status 1. It is never retried.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// InvalidCharacter reports a LexError for an unrecognized input byte.
func InvalidCharacter(ch byte, line, column int) *Error {
	return newError(LexError, "invalid character %q at line %d, column %d", ch, line, column)
}

// ExpectedButGot reports a ParseError when the parser required one token
// kind but the input held another.
func ExpectedButGot(expected, got string, line, column int) *Error {
	return newError(ParseError, "expected %s, but got %s at line %d, column %d", expected, got, line, column)
}

// AssignToImmutable reports a TypeError for assignment to a non-mutable
// variable.
func AssignToImmutable(name string) *Error {
	return newError(TypeError, "cannot assign to immutable variable %q", name)
}

// UnknownVariable reports a TypeError for a reference to an undeclared
// name.
func UnknownVariable(name string) *Error {
	return newError(TypeError, "unknown variable %q", name)
}

// TypeMismatch reports a TypeError when an operation receives operands of
// incompatible type.
func TypeMismatch(context string, expected, got string) *Error {
	return newError(TypeError, "%s: expected %s, got %s", context, expected, got)
}

// UnsupportedConstruct reports a LowerError for an AST shape the current
// tier cannot lower, such as an if-expression outside of statement
// position.
func UnsupportedConstruct(construct string) *Error {
	return newError(LowerError, "unsupported construct at this tier: %s", construct)
}

// OutOfRegisters reports an AllocError: the greedy colorer ran out of
// allocable registers for a temporary. Spilling is out of scope; this is
// the defined failure mode.
func OutOfRegisters(temp int) *Error {
	return newError(AllocError, "out of registers allocating temporary t%d", temp)
}

// Bug panics with a descriptive message. It signals an invariant violation
// in the compiler itself rather than a problem with the input program, and
// is never recovered.
func Bug(format string, args ...any) {
	panic(fmt.Sprintf("compiler bug: %s", fmt.Sprintf(format, args...)))
}
