// Package stdhost is the default host.Host implementation: a small numeric
// tower (float64-backed numbers, strings, booleans, and row-major
// matrices) sufficient to evaluate ordinary arithmetic, comparison, and
// matrix expressions without pulling in an external math library.
//
// Its Value type and coercion rules are modeled directly on the teacher's
// quad-typed Value (dekarrin-tunaq/tunascript/syntax/value.go), generalized
// from {Int, Float, String, Bool} to {Number, String, Bool, Matrix} to match
// the data model this language needs.
package stdhost

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dekarrin/mathscript/expr"
)

func typeErrorf(format string, args ...any) error {
	return expr.TypeError{Message: fmt.Sprintf(format, args...)}
}

func dimensionErrorf(format string, args ...any) error {
	return expr.DimensionError{Message: fmt.Sprintf(format, args...)}
}

func indexErrorUnder(idx1 int) error {
	return expr.IndexError{Index: idx1, Under: true}
}

func indexErrorOver(idx1, max int) error {
	return expr.IndexError{Index: idx1, Max: max}
}

// Kind identifies which alternative of Value is populated.
type Kind int

const (
	KindUndefined Kind = iota
	KindNumber
	KindString
	KindBool
	KindMatrix
)

// Value is the concrete value type stdhost's Host produces and consumes.
// Exactly one of its fields is meaningful, selected by Kind, mirroring the
// teacher's Value struct (tunascript/syntax/value.go) rather than a Go
// interface-per-kind design, so that zero values are cheap and comparisons
// stay simple.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	Bool bool
	Mat  [][]Value
}

func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func String(s string) Value  { return Value{Kind: KindString, Str: s} }
func Bool(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func Matrix(rows [][]Value) Value {
	return Value{Kind: KindMatrix, Mat: rows}
}
func Undefined() Value { return Value{Kind: KindUndefined} }

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindString:
		return v.Str
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindMatrix:
		rows := make([]string, len(v.Mat))
		for i, row := range v.Mat {
			cells := make([]string, len(row))
			for j, c := range row {
				cells[j] = c.String()
			}
			rows[i] = "[" + strings.Join(cells, ", ") + "]"
		}
		return "[" + strings.Join(rows, ", ") + "]"
	default:
		return "undefined"
	}
}

// asValue coerces an arbitrary host.Value (always a Value here, by
// construction of this package's Func closures) back to Value, panicking on
// a foreign type -- which would indicate a caller mixing Values from two
// different Host implementations, a programmer error rather than a
// recoverable runtime condition.
func asValue(v any) Value {
	if val, ok := v.(Value); ok {
		return val
	}
	if v == nil {
		return Undefined()
	}
	panic(fmt.Sprintf("stdhost: value of foreign type %T", v))
}

func (v Value) toNumber() (float64, error) {
	switch v.Kind {
	case KindNumber:
		return v.Num, nil
	case KindBool:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, typeErrorf("cannot convert string %q to a number", v.Str)
		}
		return f, nil
	default:
		return 0, typeErrorf("cannot convert %s to a number", v.kindName())
	}
}

func (v Value) kindName() string {
	switch v.Kind {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindMatrix:
		return "matrix"
	default:
		return "undefined"
	}
}

// isZero reports whether v is the host's falsy value, used for Truthy.
func (v Value) isZero() bool {
	switch v.Kind {
	case KindNumber:
		return v.Num == 0
	case KindBool:
		return !v.Bool
	case KindUndefined:
		return true
	default:
		return false
	}
}

func sameShape(a, b [][]Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
	}
	return true
}

func elementwise(a, b [][]Value, op func(Value, Value) (Value, error)) ([][]Value, error) {
	if !sameShape(a, b) {
		return nil, dimensionErrorf("matrices must have matching dimensions")
	}
	out := make([][]Value, len(a))
	for i := range a {
		out[i] = make([]Value, len(a[i]))
		for j := range a[i] {
			v, err := op(a[i][j], b[i][j])
			if err != nil {
				return nil, err
			}
			out[i][j] = v
		}
	}
	return out, nil
}

func mapElements(a [][]Value, op func(Value) (Value, error)) ([][]Value, error) {
	out := make([][]Value, len(a))
	for i := range a {
		out[i] = make([]Value, len(a[i]))
		for j := range a[i] {
			v, err := op(a[i][j])
			if err != nil {
				return nil, err
			}
			out[i][j] = v
		}
	}
	return out, nil
}

func isInt(f float64) bool {
	return f == math.Trunc(f)
}

func (k Kind) jsonName() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindMatrix:
		return "matrix"
	default:
		return "undefined"
	}
}

func kindFromJSONName(name string) (Kind, error) {
	switch name {
	case "number":
		return KindNumber, nil
	case "string":
		return KindString, nil
	case "bool":
		return KindBool, nil
	case "matrix":
		return KindMatrix, nil
	case "undefined":
		return KindUndefined, nil
	default:
		return KindUndefined, fmt.Errorf("unknown value kind %q", name)
	}
}

// jsonValue is the wire shape a Value marshals to/from, following the
// teacher's shadow-struct convention for external representations
// (internal/game/marshaling.go's jsonNPC et al.) rather than embedding
// json tags directly on the domain type.
type jsonValue struct {
	Kind string    `json:"kind"`
	Num  float64   `json:"num,omitempty"`
	Str  string    `json:"str,omitempty"`
	Bool bool      `json:"bool,omitempty"`
	Mat  [][]Value `json:"mat,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	jv := jsonValue{Kind: v.Kind.jsonName()}
	switch v.Kind {
	case KindNumber:
		jv.Num = v.Num
	case KindString:
		jv.Str = v.Str
	case KindBool:
		jv.Bool = v.Bool
	case KindMatrix:
		jv.Mat = v.Mat
	}
	return json.Marshal(jv)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var jv jsonValue
	if err := json.Unmarshal(data, &jv); err != nil {
		return err
	}
	kind, err := kindFromJSONName(jv.Kind)
	if err != nil {
		return err
	}
	*v = Value{Kind: kind, Num: jv.Num, Str: jv.Str, Bool: jv.Bool, Mat: jv.Mat}
	return nil
}
