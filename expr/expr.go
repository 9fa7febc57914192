// Package expr implements a small, embeddable expression language: a
// lexer, a recursive-descent parser producing a fixed set of AST node
// types, a two-phase compiler that binds a parsed tree to a Host, and a
// scope-based evaluator. The package does not know about numbers, matrices,
// or units itself; all of that is supplied by a host.Host implementation
// (see github.com/dekarrin/mathscript/host and host/stdhost for the
// default one).
package expr

import "github.com/dekarrin/mathscript/host"

// Eval parses source, compiles it against h, and evaluates it against
// scope, in one call. It is a convenience wrapper; callers who evaluate the
// same source repeatedly should call Parse and Node.Compile once and reuse
// the resulting Evaluable.
func Eval(source string, h host.Host, scope *Scope) (host.Value, error) {
	node, err := Parse(source)
	if err != nil {
		return nil, err
	}
	ev, err := node.Compile(h)
	if err != nil {
		return nil, err
	}
	return ev.Eval(scope)
}
