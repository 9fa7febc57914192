package expr

import "github.com/dekarrin/mathscript/host"

// reservedNames are symbols the language manages itself; a caller-supplied
// scope may not define them (§6.3).
var reservedNames = map[string]bool{
	"end": true,
}

// Scope holds the variable bindings visible to a compiled tree during
// evaluation. It is externally owned: callers construct one with NewScope
// (seeding it with whatever initial bindings they want visible) and can
// inspect it after Eval to observe assignments the expression made.
//
// A Scope is not safe for concurrent use without external synchronization,
// matching the teacher's WorldInterface/Interpreter state, which is likewise
// single-writer (dekarrin-tunaq/tunascript/tunascript.go).
type Scope struct {
	parent *Scope
	vars   map[string]host.Value
}

// NewScope constructs a Scope seeded with initial. It returns
// IllegalScopeError if initial defines any reserved name.
func NewScope(initial map[string]host.Value) (*Scope, error) {
	for name := range initial {
		if reservedNames[name] {
			return nil, IllegalScopeError{Name: name}
		}
	}
	vars := make(map[string]host.Value, len(initial))
	for k, v := range initial {
		vars[k] = v
	}
	return &Scope{vars: vars}, nil
}

// Get looks up name, checking this scope and then each enclosing scope in
// turn.
func (s *Scope) Get(name string) (host.Value, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set binds name to value in this scope specifically, shadowing (but not
// altering) any binding of the same name in an enclosing scope.
func (s *Scope) Set(name string, value host.Value) {
	if s.vars == nil {
		s.vars = make(map[string]host.Value)
	}
	s.vars[name] = value
}

// child returns a new Scope that falls back to s for lookups not satisfied
// locally. It is used internally to bind transient names such as "end"
// during index evaluation and a function call's parameters, without
// mutating the caller's scope.
func (s *Scope) child() *Scope {
	return &Scope{parent: s, vars: make(map[string]host.Value)}
}

// ResultSet is the value produced by evaluating a BlockNode with more than
// one visible statement: the ordered list of each visible statement's
// result.
type ResultSet struct {
	Values []host.Value
}
