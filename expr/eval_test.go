package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/mathscript/expr"
	"github.com/dekarrin/mathscript/host/stdhost"
)

func evalSrc(t *testing.T, src string, initial map[string]any) (any, error) {
	t.Helper()
	h := stdhost.New()
	scope, err := expr.NewScope(initial)
	require.NoError(t, err)
	return expr.Eval(src, h, scope)
}

func Test_Eval_arithmetic(t *testing.T) {
	testCases := []struct {
		src  string
		want stdhost.Value
	}{
		{"2 + 3", stdhost.Number(5)},
		{"2 + 3 * 4", stdhost.Number(14)},
		{"(2 + 3) * 4", stdhost.Number(20)},
		{"2^10", stdhost.Number(1024)},
		{"-2^2", stdhost.Number(-4)},
		{"10 mod 3", stdhost.Number(1)},
		{"7 / 2", stdhost.Number(3.5)},
	}
	for _, tc := range testCases {
		t.Run(tc.src, func(t *testing.T) {
			got, err := evalSrc(t, tc.src, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func Test_Eval_comparisonAndLogic(t *testing.T) {
	got, err := evalSrc(t, "1 < 2 and 2 < 3", nil)
	require.NoError(t, err)
	assert.Equal(t, stdhost.Bool(true), got)
}

func Test_Eval_conditional(t *testing.T) {
	got, err := evalSrc(t, "5 > 0 ? 1 : -1", nil)
	require.NoError(t, err)
	assert.Equal(t, stdhost.Number(1), got)
}

func Test_Eval_assignmentPersistsInScope(t *testing.T) {
	h := stdhost.New()
	scope, err := expr.NewScope(nil)
	require.NoError(t, err)
	_, err = expr.Eval("x = 10", h, scope)
	require.NoError(t, err)
	v, ok := scope.Get("x")
	require.True(t, ok)
	assert.Equal(t, stdhost.Number(10), v)
}

func Test_Eval_functionDefinitionAndCall(t *testing.T) {
	h := stdhost.New()
	scope, err := expr.NewScope(nil)
	require.NoError(t, err)
	_, err = expr.Eval("square(x) = x * x", h, scope)
	require.NoError(t, err)
	got, err := expr.Eval("square(5)", h, scope)
	require.NoError(t, err)
	assert.Equal(t, stdhost.Number(25), got)
}

func Test_Eval_undefinedSymbolError(t *testing.T) {
	_, err := evalSrc(t, "y + 1", nil)
	require.Error(t, err)
	_, ok := err.(expr.UndefinedSymbolError)
	assert.True(t, ok)
	assert.Equal(t, "Undefined symbol y", err.Error())
}

func Test_Eval_matrixIndexOutOfRange(t *testing.T) {
	_, err := evalSrc(t, "[1, 2, 3][5]", nil)
	require.Error(t, err)
	ierr, ok := err.(expr.IndexError)
	if assert.True(t, ok) {
		assert.Equal(t, "Index out of range (5 > 3)", ierr.Error())
	}
}

func Test_Eval_matrixIndexBelowOne(t *testing.T) {
	_, err := evalSrc(t, "[1, 2, 3][0]", nil)
	require.Error(t, err)
	assert.Equal(t, "Index out of range (0 < 1)", err.Error())
}

func Test_Eval_indexAssignment(t *testing.T) {
	h := stdhost.New()
	scope, err := expr.NewScope(map[string]any{"a": stdhost.Matrix([][]stdhost.Value{
		{stdhost.Number(1)}, {stdhost.Number(2)}, {stdhost.Number(3)},
	})})
	require.NoError(t, err)
	_, err = expr.Eval("a[2] = 99", h, scope)
	require.NoError(t, err)
	v, _ := scope.Get("a")
	mat := v.(stdhost.Value)
	assert.Equal(t, stdhost.Number(99), mat.Mat[1][0])
}

func Test_Eval_bareTrailingUnitKeyword(t *testing.T) {
	got, err := evalSrc(t, "2 in", nil)
	require.NoError(t, err)
	assert.Equal(t, stdhost.Number(2/0.0254), got)
}

func Test_Eval_indexAssignmentReturnsUpdatedContainer(t *testing.T) {
	h := stdhost.New()
	scope, err := expr.NewScope(map[string]any{"a": stdhost.Matrix([][]stdhost.Value{
		{stdhost.Number(1)}, {stdhost.Number(2)}, {stdhost.Number(3)},
	})})
	require.NoError(t, err)
	got, err := expr.Eval("a[2] = 99", h, scope)
	require.NoError(t, err)
	mat := got.(stdhost.Value)
	assert.Equal(t, stdhost.Number(99), mat.Mat[1][0])
	assert.Equal(t, stdhost.Number(1), mat.Mat[0][0])
}

func Test_Eval_indexAssignment2DAutoResize(t *testing.T) {
	h := stdhost.New()
	scope, err := expr.NewScope(map[string]any{"a": stdhost.Matrix([][]stdhost.Value{
		{stdhost.Number(1), stdhost.Number(2)},
		{stdhost.Number(3), stdhost.Number(4)},
	})})
	require.NoError(t, err)
	got, err := expr.Eval("a[2:3,2:3] = [10,11;12,13]", h, scope)
	require.NoError(t, err)
	mat := got.(stdhost.Value)
	want := [][]stdhost.Value{
		{stdhost.Number(1), stdhost.Number(2), stdhost.Number(0)},
		{stdhost.Number(3), stdhost.Number(10), stdhost.Number(11)},
		{stdhost.Number(0), stdhost.Number(12), stdhost.Number(13)},
	}
	assert.Equal(t, want, mat.Mat)

	v, ok := scope.Get("a")
	require.True(t, ok)
	assert.Equal(t, want, v.(stdhost.Value).Mat)
}

func Test_Eval_namedMathFunctions(t *testing.T) {
	testCases := []struct {
		src  string
		want stdhost.Value
	}{
		{"sqrt(4)", stdhost.Number(2)},
		{"sin(0)", stdhost.Number(0)},
		{"abs(-5)", stdhost.Number(5)},
		{"floor(1.9)", stdhost.Number(1)},
	}
	for _, tc := range testCases {
		t.Run(tc.src, func(t *testing.T) {
			got, err := evalSrc(t, tc.src, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func Test_Eval_indexWithEndKeyword(t *testing.T) {
	h := stdhost.New()
	scope, err := expr.NewScope(map[string]any{"a": stdhost.Matrix([][]stdhost.Value{
		{stdhost.Number(1), stdhost.Number(2)},
		{stdhost.Number(3), stdhost.Number(4)},
		{stdhost.Number(5), stdhost.Number(6)},
	})})
	require.NoError(t, err)
	got, err := expr.Eval("a[end]", h, scope)
	require.NoError(t, err)
	v := got.(stdhost.Value)
	assert.Equal(t, stdhost.KindMatrix, v.Kind)
	assert.Equal(t, stdhost.Number(5), v.Mat[0][0])
	assert.Equal(t, stdhost.Number(6), v.Mat[0][1])
}

func Test_Eval_fullRangeDimension(t *testing.T) {
	h := stdhost.New()
	scope, err := expr.NewScope(map[string]any{"a": stdhost.Matrix([][]stdhost.Value{
		{stdhost.Number(1), stdhost.Number(2)},
		{stdhost.Number(3), stdhost.Number(4)},
	})})
	require.NoError(t, err)
	got, err := expr.Eval("a[:, 1]", h, scope)
	require.NoError(t, err)
	v := got.(stdhost.Value)
	assert.Equal(t, stdhost.KindMatrix, v.Kind)
	assert.Len(t, v.Mat, 2)
}

func Test_Eval_implicitMultiplicationNotConfusedWithParenCall(t *testing.T) {
	got, err := evalSrc(t, "(2+3)(4+5)", nil)
	require.NoError(t, err)
	assert.Equal(t, stdhost.Number(45), got)
}

func Test_NewScope_rejectsReservedName(t *testing.T) {
	_, err := expr.NewScope(map[string]any{"end": stdhost.Number(1)})
	require.Error(t, err)
	_, ok := err.(expr.IllegalScopeError)
	assert.True(t, ok)
	assert.Equal(t, "Scope contains an illegal symbol", err.Error())
}

func Test_Eval_blockProducesResultSet(t *testing.T) {
	got, err := evalSrc(t, "a = 1\nb = 2", nil)
	require.NoError(t, err)
	rs, ok := got.(expr.ResultSet)
	if assert.True(t, ok) {
		assert.Equal(t, []any{stdhost.Number(1), stdhost.Number(2)}, rs.Values)
	}
}

func Test_Eval_rangeProducesVector(t *testing.T) {
	got, err := evalSrc(t, "1:3", nil)
	require.NoError(t, err)
	v := got.(stdhost.Value)
	assert.Equal(t, stdhost.KindMatrix, v.Kind)
	assert.Len(t, v.Mat[0], 3)
}

func Test_Eval_unitConversion(t *testing.T) {
	got, err := evalSrc(t, "100 to cm", nil)
	require.NoError(t, err)
	assert.Equal(t, stdhost.Number(10000), got)
}

func Test_Eval_numberAdjacentToUnitSymbol(t *testing.T) {
	// "5cm" is a unit literal (5 centimeters, base-unit value 0.05 meters),
	// so converting it back to cm recovers 5.
	got, err := evalSrc(t, "5cm to cm", nil)
	require.NoError(t, err)
	assert.Equal(t, stdhost.Number(5), got)
}

func Test_Eval_unitConversionInvariant(t *testing.T) {
	// spec invariant: "5.08 cm * 1000 to inch" is equivalent to 2000 inch.
	got, err := evalSrc(t, "5.08 cm * 1000 to inch", nil)
	require.NoError(t, err)
	assert.Equal(t, stdhost.Number(2000), got)
}

func Test_Eval_implicitMultiplicationByUnboundSymbolStillErrors(t *testing.T) {
	_, err := evalSrc(t, "2 notaunit", nil)
	assert.Error(t, err)
}

func Test_Eval_implicitMultiplicationByBoundSymbolStillMultiplies(t *testing.T) {
	got, err := evalSrc(t, "2 x", map[string]any{"x": stdhost.Number(5)})
	require.NoError(t, err)
	assert.Equal(t, stdhost.Number(10), got)
}
