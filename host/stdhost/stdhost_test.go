package stdhost_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/mathscript/host/stdhost"
)

func Test_Host_Function_add(t *testing.T) {
	h := stdhost.New()
	fn, ok := h.Function("add")
	require.True(t, ok)
	got, err := fn([]any{stdhost.Number(2), stdhost.Number(3)})
	require.NoError(t, err)
	assert.Equal(t, stdhost.Number(5), got)
}

func Test_Host_Function_unknownName(t *testing.T) {
	h := stdhost.New()
	_, ok := h.Function("frobnicate")
	assert.False(t, ok)
}

func Test_Host_Truthy(t *testing.T) {
	h := stdhost.New()
	assert.True(t, h.Truthy(stdhost.Number(1)))
	assert.False(t, h.Truthy(stdhost.Number(0)))
	assert.False(t, h.Truthy(stdhost.Undefined()))
}

func Test_Host_ParseNumber_rejectsMalformed(t *testing.T) {
	h := stdhost.New()
	_, err := h.ParseNumber("32e")
	assert.Error(t, err)
}

func Test_Matrix_transpose(t *testing.T) {
	h := stdhost.New()
	fn, _ := h.Function("transpose")
	m := stdhost.Matrix([][]stdhost.Value{
		{stdhost.Number(1), stdhost.Number(2)},
		{stdhost.Number(3), stdhost.Number(4)},
	})
	got, err := fn([]any{m})
	require.NoError(t, err)
	want := stdhost.Matrix([][]stdhost.Value{
		{stdhost.Number(1), stdhost.Number(3)},
		{stdhost.Number(2), stdhost.Number(4)},
	})
	assert.Equal(t, want, got)
}

func Test_Matrix_dimensionMismatchAdd(t *testing.T) {
	h := stdhost.New()
	fn, _ := h.Function("add")
	a := stdhost.Matrix([][]stdhost.Value{{stdhost.Number(1), stdhost.Number(2)}})
	b := stdhost.Matrix([][]stdhost.Value{{stdhost.Number(1)}})
	_, err := fn([]any{a, b})
	assert.Error(t, err)
}
