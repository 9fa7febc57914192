// Package host defines the contract that expr's compiled tree relies on for
// everything outside the scope of the expression grammar itself: the
// numeric tower, the function library, matrices, units, and ranges (§6.2 of
// the language notes). expr never constructs a Value itself beyond string,
// bool, and "undefined" constants; every arithmetic or structural operation
// is delegated to whatever Host the embedder supplies.
package host

// Value is an opaque value produced and consumed by a Host implementation.
// expr treats it as inert data: it stores Values in a Scope, passes them to
// Host functions, and hands them back to the caller, but never inspects
// their internal representation.
type Value = any

// Func is a named operation a Host makes available to OperatorNode,
// FunctionNode, and the other AST nodes that need host cooperation. It
// receives already-evaluated arguments and returns a Value or an error.
type Func func(args []Value) (Value, error)

// NumberKind selects which numeric representation bare numeric literals
// compile to, mirroring mathjs's "number" vs "bignumber" configuration
// option (§6.2).
type NumberKind string

const (
	NumberKindDefault   NumberKind = "number"
	NumberKindBignumber NumberKind = "bignumber"
)

// Host is the set of collaborators the compiled tree needs from the numeric
// tower and function library that spec.md places out of scope for the core
// engine. A Host is supplied once, at compile time (Node.Compile(host)), and
// is shared by every Evaluable produced from that compilation.
type Host interface {
	// Function looks up a named host operation, such as "add" or "sin". ok
	// is false if no such function is defined.
	Function(name string) (fn Func, ok bool)

	// Truthy implements the host's truthiness predicate used by
	// ConditionalNode: numbers are true iff nonzero, booleans are
	// themselves, and any other non-nil value is true (§4.3).
	Truthy(v Value) bool

	// NumberKind reports which numeric representation ConstantNode compiles
	// bare numeric literals to.
	NumberKind() NumberKind

	// ParseNumber converts the literal text of a numeric token (e.g. "3.2",
	// ".5e-3") into a Value of the Host's numeric kind. It returns an error
	// if the text is not a well-formed number, which is how malformed
	// literals such as "32e" are finally rejected (§4.1).
	ParseNumber(text string) (Value, error)

	// Unit attaches the named unit to v, used when a numeric literal is
	// immediately followed by a bare symbol (e.g. "5cm"). ok is false if
	// name is not a known unit, in which case the caller falls back to
	// treating the adjacency as implicit multiplication.
	Unit(v Value, name string) (result Value, ok bool)
}
