package stdhost

import (
	"math"

	"github.com/dekarrin/mathscript/expr"
	"github.com/dekarrin/mathscript/host"
)

// binaryImpl and unaryImpl adapt a typed Go function to the host.Func shape
// (a slice of opaque Values in, one Value or error out), the same adapter
// pattern the teacher uses to wire its own operator table (see
// tunascript/functions.go's funcImpl/binaryImpl/unaryImpl helpers).
func binaryImpl(name string, fn func(a, b Value) (Value, error)) host.Func {
	return func(args []host.Value) (host.Value, error) {
		if len(args) != 2 {
			return nil, expr.ArgumentsError{Message: name + " requires exactly 2 arguments"}
		}
		return fn(asValue(args[0]), asValue(args[1]))
	}
}

func unaryImpl(name string, fn func(a Value) (Value, error)) host.Func {
	return func(args []host.Value) (host.Value, error) {
		if len(args) != 1 {
			return nil, expr.ArgumentsError{Message: name + " requires exactly 1 argument"}
		}
		return fn(asValue(args[0]))
	}
}

// arithmetic combines a scalar operator with its elementwise matrix
// broadcast: matrix op matrix (same shape), matrix op scalar, and scalar op
// matrix.
func arithmetic(name string, scalar func(a, b float64) (float64, error)) func(a, b Value) (Value, error) {
	return func(a, b Value) (Value, error) {
		if a.Kind == KindMatrix || b.Kind == KindMatrix {
			return matrixArith(a, b, scalar)
		}
		if a.Kind == KindString || b.Kind == KindString {
			if name == "add" {
				return String(a.String() + b.String()), nil
			}
			return Value{}, typeErrorf("cannot %s strings", name)
		}
		af, err := a.toNumber()
		if err != nil {
			return Value{}, err
		}
		bf, err := b.toNumber()
		if err != nil {
			return Value{}, err
		}
		r, err := scalar(af, bf)
		if err != nil {
			return Value{}, err
		}
		return Number(r), nil
	}
}

func matrixArith(a, b Value, scalar func(x, y float64) (float64, error)) (Value, error) {
	op := func(x, y Value) (Value, error) {
		xf, err := x.toNumber()
		if err != nil {
			return Value{}, err
		}
		yf, err := y.toNumber()
		if err != nil {
			return Value{}, err
		}
		r, err := scalar(xf, yf)
		if err != nil {
			return Value{}, err
		}
		return Number(r), nil
	}
	if a.Kind == KindMatrix && b.Kind == KindMatrix {
		rows, err := elementwise(a.Mat, b.Mat, op)
		if err != nil {
			return Value{}, err
		}
		return Matrix(rows), nil
	}
	if a.Kind == KindMatrix {
		rows, err := mapElements(a.Mat, func(x Value) (Value, error) { return op(x, b) })
		if err != nil {
			return Value{}, err
		}
		return Matrix(rows), nil
	}
	rows, err := mapElements(b.Mat, func(y Value) (Value, error) { return op(a, y) })
	if err != nil {
		return Value{}, err
	}
	return Matrix(rows), nil
}

func compareImpl(name string, cmp func(a, b float64) bool) func(a, b Value) (Value, error) {
	return func(a, b Value) (Value, error) {
		af, err := a.toNumber()
		if err != nil {
			return Value{}, err
		}
		bf, err := b.toNumber()
		if err != nil {
			return Value{}, err
		}
		return Bool(cmp(af, bf)), nil
	}
}

func registerFunctions(fns map[string]host.Func) {
	fns["add"] = binaryImpl("add", arithmetic("add", func(a, b float64) (float64, error) { return a + b, nil }))
	fns["subtract"] = binaryImpl("subtract", arithmetic("subtract", func(a, b float64) (float64, error) { return a - b, nil }))
	fns["multiply"] = binaryImpl("multiply", arithmetic("multiply", func(a, b float64) (float64, error) { return a * b, nil }))
	fns["divide"] = binaryImpl("divide", arithmetic("divide", func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, expr.ArgumentsError{Message: "division by zero"}
		}
		return a / b, nil
	}))
	fns["dotMultiply"] = fns["multiply"]
	fns["dotDivide"] = fns["divide"]
	fns["pow"] = binaryImpl("pow", arithmetic("pow", func(a, b float64) (float64, error) { return math.Pow(a, b), nil }))
	fns["dotPow"] = fns["pow"]
	fns["mod"] = binaryImpl("mod", arithmetic("mod", func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, expr.ArgumentsError{Message: "modulo by zero"}
		}
		return math.Mod(math.Mod(a, b)+b, b), nil
	}))

	fns["equal"] = binaryImpl("equal", func(a, b Value) (Value, error) { return Bool(valuesEqual(a, b)), nil })
	fns["unequal"] = binaryImpl("unequal", func(a, b Value) (Value, error) { return Bool(!valuesEqual(a, b)), nil })
	fns["smaller"] = binaryImpl("smaller", compareImpl("smaller", func(a, b float64) bool { return a < b }))
	fns["larger"] = binaryImpl("larger", compareImpl("larger", func(a, b float64) bool { return a > b }))
	fns["smallerEq"] = binaryImpl("smallerEq", compareImpl("smallerEq", func(a, b float64) bool { return a <= b }))
	fns["largerEq"] = binaryImpl("largerEq", compareImpl("largerEq", func(a, b float64) bool { return a >= b }))

	fns["and"] = binaryImpl("and", func(a, b Value) (Value, error) { return Bool(!a.isZero() && !b.isZero()), nil })
	fns["or"] = binaryImpl("or", func(a, b Value) (Value, error) { return Bool(!a.isZero() || !b.isZero()), nil })
	fns["xor"] = binaryImpl("xor", func(a, b Value) (Value, error) { return Bool(a.isZero() != b.isZero()), nil })
	fns["not"] = unaryImpl("not", func(a Value) (Value, error) { return Bool(a.isZero()), nil })

	fns["unaryMinus"] = unaryImpl("unaryMinus", func(a Value) (Value, error) {
		if a.Kind == KindMatrix {
			rows, err := mapElements(a.Mat, func(x Value) (Value, error) {
				f, err := x.toNumber()
				if err != nil {
					return Value{}, err
				}
				return Number(-f), nil
			})
			return Matrix(rows), err
		}
		f, err := a.toNumber()
		if err != nil {
			return Value{}, err
		}
		return Number(-f), nil
	})
	fns["unaryPlus"] = unaryImpl("unaryPlus", func(a Value) (Value, error) {
		f, err := a.toNumber()
		if err != nil {
			return Value{}, err
		}
		return Number(f), nil
	})

	fns["factorial"] = unaryImpl("factorial", func(a Value) (Value, error) {
		f, err := a.toNumber()
		if err != nil {
			return Value{}, err
		}
		if f < 0 || !isInt(f) {
			return Value{}, typeErrorf("factorial requires a non-negative integer, got %v", f)
		}
		result := 1.0
		for i := 2.0; i <= f; i++ {
			result *= i
		}
		return Number(result), nil
	})

	fns["transpose"] = unaryImpl("transpose", func(a Value) (Value, error) {
		if a.Kind != KindMatrix {
			return a, nil
		}
		if len(a.Mat) == 0 {
			return Matrix(nil), nil
		}
		cols := len(a.Mat[0])
		out := make([][]Value, cols)
		for j := 0; j < cols; j++ {
			out[j] = make([]Value, len(a.Mat))
			for i := range a.Mat {
				out[j][i] = a.Mat[i][j]
			}
		}
		return Matrix(out), nil
	})

	fns["to"] = binaryImpl("to", func(a, b Value) (Value, error) {
		if b.Kind != KindString {
			return Value{}, typeErrorf("conversion target must be a unit name")
		}
		return convertUnit(a, b.Str)
	})

	fns["range"] = func(args []host.Value) (host.Value, error) {
		if len(args) != 3 {
			return nil, expr.ArgumentsError{Message: "range requires start, end, and step"}
		}
		start, err := asValue(args[0]).toNumber()
		if err != nil {
			return nil, err
		}
		end, err := asValue(args[1]).toNumber()
		if err != nil {
			return nil, err
		}
		step := 1.0
		if args[2] != nil {
			step, err = asValue(args[2]).toNumber()
			if err != nil {
				return nil, err
			}
		}
		if step == 0 {
			return nil, expr.ArgumentsError{Message: "range step must not be zero"}
		}
		var row []Value
		if step > 0 {
			for v := start; v <= end; v += step {
				row = append(row, Number(v))
			}
		} else {
			for v := start; v >= end; v += step {
				row = append(row, Number(v))
			}
		}
		return Matrix([][]Value{row}), nil
	}

	fns["matrix"] = func(args []host.Value) (host.Value, error) {
		if len(args) != 1 {
			return nil, expr.ArgumentsError{Message: "matrix requires exactly 1 argument"}
		}
		rows, ok := args[0].([][]host.Value)
		if !ok {
			return nil, typeErrorf("matrix requires a row list")
		}
		width := -1
		out := make([][]Value, len(rows))
		for i, row := range rows {
			if width == -1 {
				width = len(row)
			} else if len(row) != width {
				return nil, dimensionErrorf("Column dimensions mismatch")
			}
			out[i] = make([]Value, len(row))
			for j, c := range row {
				out[i][j] = asValue(c)
			}
		}
		return Matrix(out), nil
	}

	fns["size"] = func(args []host.Value) (host.Value, error) {
		if len(args) != 2 {
			return nil, expr.ArgumentsError{Message: "size requires an object and a dimension"}
		}
		dim, ok := args[1].(int)
		if !ok {
			return nil, typeErrorf("dimension must be an integer")
		}
		v := asValue(args[0])
		switch {
		case v.Kind == KindMatrix && dim == 1:
			return Number(float64(len(v.Mat))), nil
		case v.Kind == KindMatrix && dim == 2:
			if len(v.Mat) == 0 {
				return Number(0), nil
			}
			return Number(float64(len(v.Mat[0]))), nil
		default:
			return Number(1), nil
		}
	}

	fns["subset"] = func(args []host.Value) (host.Value, error) {
		if len(args) < 2 {
			return nil, expr.ArgumentsError{Message: "subset requires an object and at least one dimension"}
		}
		return subsetGet(asValue(args[0]), args[1:])
	}

	fns["subsetSet"] = func(args []host.Value) (host.Value, error) {
		if len(args) < 3 {
			return nil, expr.ArgumentsError{Message: "subsetSet requires an object, dimension(s), and a value"}
		}
		obj := asValue(args[0])
		dims := args[1 : len(args)-1]
		val := asValue(args[len(args)-1])
		return subsetSet(obj, dims, val)
	}

	registerMathFunctions(fns)

	fns["concat"] = func(args []host.Value) (host.Value, error) {
		var sb []string
		for _, a := range args {
			sb = append(sb, asValue(a).String())
		}
		s := ""
		for _, p := range sb {
			s += p
		}
		return String(s), nil
	}
}

// mathFn registers a named scalar math function under fns, broadcasting it
// elementwise over a matrix argument the same way the arithmetic operators
// do (see arithmetic/matrixArith above).
func mathFn(fns map[string]host.Func, name string, f func(float64) float64) {
	fns[name] = unaryImpl(name, func(a Value) (Value, error) {
		if a.Kind == KindMatrix {
			rows, err := mapElements(a.Mat, func(x Value) (Value, error) {
				xf, err := x.toNumber()
				if err != nil {
					return Value{}, err
				}
				return Number(f(xf)), nil
			})
			return Matrix(rows), err
		}
		af, err := a.toNumber()
		if err != nil {
			return Value{}, err
		}
		return Number(f(af)), nil
	})
}

// registerMathFunctions fills out the named function library (§ MODULE
// LAYOUT: "functions.go -- named function library (sqrt, sin, concat,
// ...)"), each backed by the matching math package routine.
func registerMathFunctions(fns map[string]host.Func) {
	mathFn(fns, "sqrt", math.Sqrt)
	mathFn(fns, "sin", math.Sin)
	mathFn(fns, "cos", math.Cos)
	mathFn(fns, "tan", math.Tan)
	mathFn(fns, "asin", math.Asin)
	mathFn(fns, "acos", math.Acos)
	mathFn(fns, "atan", math.Atan)
	mathFn(fns, "log", math.Log)
	mathFn(fns, "log2", math.Log2)
	mathFn(fns, "log10", math.Log10)
	mathFn(fns, "exp", math.Exp)
	mathFn(fns, "abs", math.Abs)
	mathFn(fns, "floor", math.Floor)
	mathFn(fns, "ceil", math.Ceil)
	mathFn(fns, "round", math.Round)

	fns["atan2"] = binaryImpl("atan2", func(a, b Value) (Value, error) {
		af, err := a.toNumber()
		if err != nil {
			return Value{}, err
		}
		bf, err := b.toNumber()
		if err != nil {
			return Value{}, err
		}
		return Number(math.Atan2(af, bf)), nil
	})
}

func valuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		af, aerr := a.toNumber()
		bf, berr := b.toNumber()
		if aerr == nil && berr == nil {
			return af == bf
		}
		return false
	}
	switch a.Kind {
	case KindNumber:
		return a.Num == b.Num
	case KindString:
		return a.Str == b.Str
	case KindBool:
		return a.Bool == b.Bool
	case KindUndefined:
		return true
	default:
		return false
	}
}
