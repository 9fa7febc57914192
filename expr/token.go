package expr

// Kind identifies the lexical category of a Token.
type Kind int

const (
	// KindNumber is a numeric literal, e.g. "3.2" or ".5e-3".
	KindNumber Kind = iota
	// KindSymbol is an identifier: a bare name such as "x" or "sin".
	KindSymbol
	// KindString is a double-quoted string literal, including the quotes.
	KindString
	// KindDelimiter is one of ( ) [ ] { } , : ?
	KindDelimiter
	// KindOperator is one of the recognized operator lexemes. The keyword
	// operators (to, in, mod, and, or, not, xor) are not of this kind: they
	// stay KindSymbol tokens (see keywordOperators).
	KindOperator
	// KindEndOfExpression marks a newline or semicolon acting as a statement
	// terminator.
	KindEndOfExpression
	// KindEndOfInput marks exhaustion of the source text.
	KindEndOfInput
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindDelimiter:
		return "delimiter"
	case KindOperator:
		return "operator"
	case KindEndOfExpression:
		return "end of expression"
	case KindEndOfInput:
		return "end of input"
	default:
		return "unknown"
	}
}

// Token is a single lexical unit produced by the Lexer. Pos is the 1-based
// character offset of the first rune of the token within the original source
// text, suitable for inclusion directly in user-facing error messages.
type Token struct {
	Kind Kind
	Text string
	Pos  int
}

// keywordOperators is the set of bare words that the lexer still returns as
// KindSymbol but that the parser treats as operators when it finds one where
// an operator is expected (see §4.2.1 of the language grammar notes for the
// "in"/"to" special case). The lexer itself stays agnostic to this
// distinction; see parser.go's atKeyword.
var keywordOperators = map[string]bool{
	"to":  true,
	"in":  true,
	"mod": true,
	"and": true,
	"or":  true,
	"not": true,
	"xor": true,
}
