package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func allTokens(src string) []Token {
	lx := NewLexer(src)
	var toks []Token
	for {
		t := lx.Current()
		toks = append(toks, t)
		if t.Kind == KindEndOfInput {
			return toks
		}
		lx.Advance()
	}
}

func Test_Lexer_Current_basicTokens(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		wantKind []Kind
		wantText []string
	}{
		{
			name:     "number then operator then number",
			input:    "3.2 + 4",
			wantKind: []Kind{KindNumber, KindOperator, KindNumber, KindEndOfInput},
			wantText: []string{"3.2", "+", "4", ""},
		},
		{
			name:     "string literal",
			input:    `"hello"`,
			wantKind: []Kind{KindString, KindEndOfInput},
			wantText: []string{`"hello"`, ""},
		},
		{
			name:     "symbol",
			input:    "foo_bar2",
			wantKind: []Kind{KindSymbol, KindEndOfInput},
			wantText: []string{"foo_bar2", ""},
		},
		{
			name:     "semicolon is end of expression",
			input:    "1;2",
			wantKind: []Kind{KindNumber, KindEndOfExpression, KindNumber, KindEndOfInput},
			wantText: []string{"1", ";", "2", ""},
		},
		{
			name:     "multi-char operators prefer longest match",
			input:    "a==b",
			wantKind: []Kind{KindSymbol, KindOperator, KindSymbol, KindEndOfInput},
			wantText: []string{"a", "==", "b", ""},
		},
		{
			name:     "plus and equals lex as separate operators",
			input:    "x = y+=1",
			wantKind: []Kind{KindSymbol, KindOperator, KindSymbol, KindOperator, KindOperator, KindNumber, KindEndOfInput},
			wantText: []string{"x", "=", "y", "+", "=", "1", ""},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			toks := allTokens(tc.input)
			assert := assert.New(t)
			if !assert.Equal(len(tc.wantKind), len(toks)) {
				return
			}
			for i := range toks {
				assert.Equal(tc.wantKind[i], toks[i].Kind, "token %d kind", i)
				if tc.wantText[i] != "" {
					assert.Equal(tc.wantText[i], toks[i].Text, "token %d text", i)
				}
			}
		})
	}
}

func Test_Lexer_newlineInsideParens_isContinuation(t *testing.T) {
	assert := assert.New(t)
	toks := allTokens("(1 +\n2)")
	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.NotContains(kinds, KindEndOfExpression)
}

func Test_Lexer_newlineInsideMatrix_isRowSeparator(t *testing.T) {
	assert := assert.New(t)
	toks := allTokens("[1, 2\n3, 4]")
	var sawSeparator bool
	for _, tok := range toks {
		if tok.Kind == KindEndOfExpression {
			sawSeparator = true
		}
	}
	assert.True(sawSeparator)
}

func Test_Lexer_malformedNumber_stillOneToken(t *testing.T) {
	assert := assert.New(t)
	toks := allTokens("32e")
	assert.Equal(KindNumber, toks[0].Kind)
	assert.Equal("32e", toks[0].Text)
}

func Test_Lexer_Pos_is1Based(t *testing.T) {
	assert := assert.New(t)
	toks := allTokens("  42")
	assert.Equal(3, toks[0].Pos)
}
