package expr

import (
	"fmt"

	"github.com/dekarrin/mathscript/host"
)

// Evaluable is a compiled node: all host function lookups and literal
// parsing have already happened, so Eval only ever touches the Scope and the
// closures captured at Compile time.
//
// This mirrors the teacher's split between an AST and its evaluated form,
// generalized here into an explicit two-phase compile/eval contract so that
// an expression parsed once can be evaluated repeatedly against different
// scopes without re-walking the tree or re-resolving host functions.
type Evaluable interface {
	Eval(scope *Scope) (host.Value, error)
}

type constEvaluable struct {
	value host.Value
}

func (e constEvaluable) Eval(scope *Scope) (host.Value, error) {
	return e.value, nil
}

type symbolEvaluable struct {
	name string
}

func (e symbolEvaluable) Eval(scope *Scope) (host.Value, error) {
	v, ok := scope.Get(e.name)
	if !ok {
		return nil, UndefinedSymbolError{Name: e.name}
	}
	return v, nil
}

type operatorEvaluable struct {
	fn   host.Func
	name string
	args []Evaluable
}

func (e operatorEvaluable) Eval(scope *Scope) (host.Value, error) {
	vals := make([]host.Value, len(e.args))
	for i, a := range e.args {
		v, err := a.Eval(scope)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return e.fn(vals)
}

type conditionalEvaluable struct {
	cond, then, els Evaluable
	truthy          func(host.Value) bool
}

func (e conditionalEvaluable) Eval(scope *Scope) (host.Value, error) {
	c, err := e.cond.Eval(scope)
	if err != nil {
		return nil, err
	}
	if e.truthy(c) {
		return e.then.Eval(scope)
	}
	return e.els.Eval(scope)
}

type rangeEvaluable struct {
	fn         host.Func
	start, end Evaluable
	step       Evaluable
}

func (e rangeEvaluable) Eval(scope *Scope) (host.Value, error) {
	start, err := e.start.Eval(scope)
	if err != nil {
		return nil, err
	}
	end, err := e.end.Eval(scope)
	if err != nil {
		return nil, err
	}
	var step host.Value
	if e.step != nil {
		step, err = e.step.Eval(scope)
		if err != nil {
			return nil, err
		}
	}
	return e.fn([]host.Value{start, end, step})
}

type arrayEvaluable struct {
	fn   host.Func
	rows [][]Evaluable
}

func (e arrayEvaluable) Eval(scope *Scope) (host.Value, error) {
	rows := make([][]host.Value, len(e.rows))
	for i, row := range e.rows {
		vals := make([]host.Value, len(row))
		for j, c := range row {
			v, err := c.Eval(scope)
			if err != nil {
				return nil, err
			}
			vals[j] = v
		}
		rows[i] = vals
	}
	return e.fn([]host.Value{rows})
}

// evalDims evaluates each dimension expression, binding "end" in a child
// scope to the size of object along that dimension whenever size is
// available. Dimensions that are themselves RangeNodes see the same "end"
// binding throughout their Start/End/Step.
func evalDims(dims []Evaluable, object host.Value, size host.Func, scope *Scope) ([]host.Value, error) {
	vals := make([]host.Value, len(dims))
	for i, d := range dims {
		dimScope := scope
		if size != nil {
			end, err := size([]host.Value{object, i + 1})
			if err == nil {
				dimScope = scope.child()
				dimScope.Set("end", end)
			}
		}
		v, err := d.Eval(dimScope)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

type indexEvaluable struct {
	object     Evaluable
	dims       []Evaluable
	subset, size host.Func
}

func (e indexEvaluable) Eval(scope *Scope) (host.Value, error) {
	obj, err := e.object.Eval(scope)
	if err != nil {
		return nil, err
	}
	dims, err := evalDims(e.dims, obj, e.size, scope)
	if err != nil {
		return nil, err
	}
	return e.subset(append([]host.Value{obj}, dims...))
}

type assignSymbolEvaluable struct {
	name  string
	value Evaluable
}

func (e assignSymbolEvaluable) Eval(scope *Scope) (host.Value, error) {
	v, err := e.value.Eval(scope)
	if err != nil {
		return nil, err
	}
	scope.Set(e.name, v)
	return v, nil
}

type assignIndexEvaluable struct {
	name         string
	object       Evaluable
	dims         []Evaluable
	value        Evaluable
	subsetSet, size host.Func
}

func (e assignIndexEvaluable) Eval(scope *Scope) (host.Value, error) {
	obj, err := e.object.Eval(scope)
	if err != nil {
		return nil, err
	}
	dims, err := evalDims(e.dims, obj, e.size, scope)
	if err != nil {
		return nil, err
	}
	val, err := e.value.Eval(scope)
	if err != nil {
		return nil, err
	}
	updated, err := e.subsetSet(append(append([]host.Value{obj}, dims...), val))
	if err != nil {
		return nil, err
	}
	scope.Set(e.name, updated)
	return updated, nil
}

type callEvaluable struct {
	name      string
	args      []Evaluable
	hostFn    host.Func
	hasHostFn bool
}

func (e callEvaluable) Eval(scope *Scope) (host.Value, error) {
	vals := make([]host.Value, len(e.args))
	for i, a := range e.args {
		v, err := a.Eval(scope)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	if e.hasHostFn {
		return e.hostFn(vals)
	}
	if bound, ok := scope.Get(e.name); ok {
		if fn, ok := bound.(*userFunction); ok {
			return fn.call(vals)
		}
	}
	return nil, UndefinedSymbolError{Name: e.name}
}

// userFunction is the callable value a FunctionAssignmentNode binds into
// scope. It captures the defining scope by reference: assignments made into
// that scope after the function is defined are visible on the next call,
// which is the same benign self-reference the teacher's Interpreter.Target
// closures rely on.
type userFunction struct {
	name    string
	params  []string
	body    Evaluable
	defined *Scope
}

func (f *userFunction) call(args []host.Value) (host.Value, error) {
	if len(args) != len(f.params) {
		return nil, ArgumentsError{Message: fmt.Sprintf(
			"function %s expects %d argument(s), got %d", f.name, len(f.params), len(args))}
	}
	callScope := f.defined.child()
	for i, p := range f.params {
		callScope.Set(p, args[i])
	}
	return f.body.Eval(callScope)
}

type defineFunctionEvaluable struct {
	name   string
	params []string
	body   Evaluable
}

func (e defineFunctionEvaluable) Eval(scope *Scope) (host.Value, error) {
	fn := &userFunction{name: e.name, params: e.params, body: e.body, defined: scope}
	scope.Set(e.name, fn)
	return fn, nil
}

type blockEvaluable struct {
	statements []Evaluable
	visible    []bool
}

func (e blockEvaluable) Eval(scope *Scope) (host.Value, error) {
	var results []host.Value
	for i, stmt := range e.statements {
		v, err := stmt.Eval(scope)
		if err != nil {
			return nil, err
		}
		if i < len(e.visible) && e.visible[i] {
			results = append(results, v)
		}
	}
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return ResultSet{Values: results}, nil
	}
}
