package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse_operatorPrecedence(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want string
	}{
		{"addition and multiplication", "2 + 3 * 4", "2 + 3 * 4"},
		{"unary binds looser than power", "-2^2", "-2^2"},
		{"power is right associative", "2^3^2", "2^3^2"},
		{"parentheses preserved in String", "(2 + 3) * 4", "(2 + 3) * 4"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			node, err := Parse(tc.src)
			require.NoError(t, err)
			require.NotNil(t, node)
			assert.Equal(t, tc.want, node.String())
		})
	}
}

func Test_OperatorNode_String_parenthesizesAmbiguousDirectlyConstructedTrees(t *testing.T) {
	testCases := []struct {
		name string
		node Node
		want string
	}{
		{
			"right operand of left-associative subtract needs parens",
			&OperatorNode{Fn: "subtract", Symbol: "-", Args: []Node{
				&SymbolNode{Name: "a"},
				&OperatorNode{Fn: "subtract", Symbol: "-", Args: []Node{&SymbolNode{Name: "b"}, &SymbolNode{Name: "c"}}},
			}},
			"a - (b - c)",
		},
		{
			"left operand of left-associative subtract needs no parens",
			&OperatorNode{Fn: "subtract", Symbol: "-", Args: []Node{
				&OperatorNode{Fn: "subtract", Symbol: "-", Args: []Node{&SymbolNode{Name: "a"}, &SymbolNode{Name: "b"}}},
				&SymbolNode{Name: "c"},
			}},
			"a - b - c",
		},
		{
			"left operand of right-associative power needs parens",
			&OperatorNode{Fn: "pow", Symbol: "^", Args: []Node{
				&OperatorNode{Fn: "pow", Symbol: "^", Args: []Node{&SymbolNode{Name: "a"}, &SymbolNode{Name: "b"}}},
				&SymbolNode{Name: "c"},
			}},
			"(a^b)^c",
		},
		{
			"right operand of right-associative power needs no parens",
			&OperatorNode{Fn: "pow", Symbol: "^", Args: []Node{
				&SymbolNode{Name: "a"},
				&OperatorNode{Fn: "pow", Symbol: "^", Args: []Node{&SymbolNode{Name: "b"}, &SymbolNode{Name: "c"}}},
			}},
			"a^b^c",
		},
		{
			"additive operand of multiplicative op needs parens",
			&OperatorNode{Fn: "multiply", Symbol: "*", Args: []Node{
				&OperatorNode{Fn: "add", Symbol: "+", Args: []Node{&SymbolNode{Name: "a"}, &SymbolNode{Name: "b"}}},
				&SymbolNode{Name: "c"},
			}},
			"(a + b) * c",
		},
		{
			"multiplicative operand of additive op needs no parens",
			&OperatorNode{Fn: "add", Symbol: "+", Args: []Node{
				&OperatorNode{Fn: "multiply", Symbol: "*", Args: []Node{&SymbolNode{Name: "a"}, &SymbolNode{Name: "b"}}},
				&SymbolNode{Name: "c"},
			}},
			"a * b + c",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.node.String())
		})
	}
}

func Test_Parse_bareTrailingUnitKeyword(t *testing.T) {
	assert := assert.New(t)
	node, err := Parse("2 in")
	assert.NoError(err)
	op, ok := node.(*OperatorNode)
	if assert.True(ok) && assert.Len(op.Args, 2) {
		assert.Equal("to", op.Fn)
		unit, ok := op.Args[1].(*ConstantNode)
		if assert.True(ok) {
			assert.Equal(KindString, unit.Kind)
			assert.Equal("in", unit.Text)
		}
	}
}

func Test_Parse_assignment(t *testing.T) {
	assert := assert.New(t)
	node, err := Parse("x = 5")
	assert.NoError(err)
	_, ok := node.(*AssignmentNode)
	assert.True(ok)
}

func Test_Parse_functionAssignment(t *testing.T) {
	assert := assert.New(t)
	node, err := Parse("f(x, y) = x + y")
	assert.NoError(err)
	fa, ok := node.(*FunctionAssignmentNode)
	if assert.True(ok) {
		assert.Equal("f", fa.Name)
		assert.Equal([]string{"x", "y"}, fa.Params)
	}
}

func Test_Parse_blockWithSuppressedStatement(t *testing.T) {
	assert := assert.New(t)
	node, err := Parse("a = 1;\nb = 2")
	assert.NoError(err)
	block, ok := node.(*BlockNode)
	if assert.True(ok) {
		assert.Len(block.Statements, 2)
		assert.False(block.Visible[0])
		assert.True(block.Visible[1])
	}
}

func Test_Parse_matrixLiteral(t *testing.T) {
	assert := assert.New(t)
	node, err := Parse("[1, 2; 3, 4]")
	assert.NoError(err)
	arr, ok := node.(*ArrayNode)
	if assert.True(ok) {
		assert.Len(arr.Rows, 2)
		assert.Len(arr.Rows[0], 2)
	}
}

func Test_Parse_conditional(t *testing.T) {
	assert := assert.New(t)
	node, err := Parse("x > 0 ? 1 : -1")
	assert.NoError(err)
	_, ok := node.(*ConditionalNode)
	assert.True(ok)
}

func Test_Parse_range(t *testing.T) {
	assert := assert.New(t)
	node, err := Parse("1:2:10")
	assert.NoError(err)
	r, ok := node.(*RangeNode)
	if assert.True(ok) {
		assert.NotNil(r.Step)
	}
}

func Test_Parse_indexing(t *testing.T) {
	assert := assert.New(t)
	node, err := Parse("a[1, 2]")
	assert.NoError(err)
	_, ok := node.(*IndexNode)
	assert.True(ok)
}

func Test_Parse_indexingFullRangeDim(t *testing.T) {
	assert := assert.New(t)
	node, err := Parse("a[:, 2]")
	assert.NoError(err)
	idx, ok := node.(*IndexNode)
	if assert.True(ok) && assert.Len(idx.Dims, 2) {
		r, ok := idx.Dims[0].(*RangeNode)
		if assert.True(ok) {
			end, ok := r.End.(*SymbolNode)
			if assert.True(ok) {
				assert.Equal("end", end.Name)
			}
		}
	}
}

func Test_Parse_parenNotConfusedWithIndexing(t *testing.T) {
	assert := assert.New(t)
	node, err := Parse("(2+3)(4+5)")
	assert.NoError(err)
	op, ok := node.(*OperatorNode)
	if assert.True(ok) {
		assert.Equal("multiply", op.Fn)
	}
}

func Test_Parse_indexingBindsTighterThanImplicitMultiplication(t *testing.T) {
	assert := assert.New(t)
	node, err := Parse("2 a[1]")
	assert.NoError(err)
	op, ok := node.(*OperatorNode)
	if assert.True(ok) && assert.Len(op.Args, 2) {
		_, ok := op.Args[1].(*IndexNode)
		assert.True(ok)
	}
}

func Test_Parse_indexAssignmentTarget(t *testing.T) {
	assert := assert.New(t)
	node, err := Parse(`c[end-2:-1:1] = "leh"`)
	assert.NoError(err)
	upd, ok := node.(*UpdateNode)
	if assert.True(ok) {
		assert.Equal("c", upd.Name)
		assert.NotNil(upd.Index)
	}
}

func Test_Parse_syntaxErrorReportsPosition(t *testing.T) {
	assert := assert.New(t)
	_, err := Parse("1 + ")
	if assert.Error(err) {
		serr, ok := err.(SyntaxError)
		assert.True(ok)
		assert.Greater(serr.Pos, 0)
	}
}

func Test_Parse_implicitMultiplication(t *testing.T) {
	assert := assert.New(t)
	node, err := Parse("2x")
	assert.NoError(err)
	op, ok := node.(*OperatorNode)
	if assert.True(ok) {
		assert.Equal("multiply", op.Fn)
	}
}
