package expr


// parser implements the recursive-descent precedence cascade described in
// the grammar notes (§4.2): Block, Assignment, Conditional, Range,
// Conversion, Relational (comparisons joined by and/or/xor), Additive, Multiplicative, Unary, Power, Postfix,
// implicit multiplication, and Atom, each tier calling down into the next
// tighter one.
//
// It follows the shape of the teacher's hand-written parser
// (internal/tunascript/parser.go) in spirit -- a cursor over a token stream
// with one method per precedence level -- but abandons the teacher's
// Pratt/nud-led dispatch table in favor of a plain tier-by-tier descent,
// since the grammar here is fixed and does not need a table-driven rebuild
// at runtime.
type parser struct {
	lx      *Lexer
	opts    parseOptions
}

func newParser(source string, opts parseOptions) *parser {
	return &parser{lx: NewLexer(source), opts: opts}
}

func (p *parser) cur() Token { return p.lx.Current() }

func (p *parser) advance() Token { return p.lx.Advance() }

// atText reports whether the current token is a delimiter or operator with
// the given text.
func (p *parser) atText(text string) bool {
	t := p.cur()
	return (t.Kind == KindDelimiter || t.Kind == KindOperator) && t.Text == text
}

// atKeyword reports whether the current token is a bare word the parser is
// entitled to promote to a keyword operator (to, in, mod, and, or, not,
// xor), per the teacher-derived convention recorded in token.go.
func (p *parser) atKeyword(word string) bool {
	t := p.cur()
	return t.Kind == KindSymbol && t.Text == word && keywordOperators[word]
}

// expectDelim consumes a delimiter token matching text, or reports the
// generic fallback syntax error (§6.4): "Unexpected end of expression" at
// EOF, otherwise "Syntax error in part". Call sites whose spec wording
// differs (closing parenthesis, end of matrix, false-branch colon) use
// expectDelimOr with a specific error instead.
func (p *parser) expectDelim(text string) (Token, error) {
	return p.expectDelimOr(text, nil)
}

func (p *parser) expectDelimOr(text string, onMismatch func(Token) SyntaxError) (Token, error) {
	t := p.cur()
	if t.Kind != KindDelimiter || t.Text != text {
		if onMismatch != nil {
			return t, onMismatch(t)
		}
		if t.Kind == KindEndOfInput {
			return t, errUnexpectedEnd(t)
		}
		return t, errSyntaxInPart(t)
	}
	return p.advance(), nil
}

// atomError reports the error for a token that cannot start an atom: the
// bare "Unexpected end of expression" at EOF, otherwise "Value expected".
func atomError(t Token) SyntaxError {
	if t.Kind == KindEndOfInput {
		return errUnexpectedEnd(t)
	}
	return errValueExpected(t)
}

// Parse parses source into a single root Node. If the source is a single
// statement, that statement's node is returned directly; if it contains
// more than one (separated by newlines or semicolons), a *BlockNode wraps
// them in order.
func Parse(source string, opts ...ParseOption) (Node, error) {
	var o parseOptions
	for _, fn := range opts {
		fn(&o)
	}
	p := newParser(source, o)
	node, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if t := p.cur(); t.Kind != KindEndOfInput {
		return nil, errUnexpectedPart(t)
	}
	return node, nil
}

func (p *parser) skipStatementSeparators() {
	for p.cur().Kind == KindEndOfExpression {
		p.advance()
	}
}

func (p *parser) parseBlock() (Node, error) {
	p.skipStatementSeparators()
	if p.cur().Kind == KindEndOfInput {
		return &ConstantNode{Kind: KindSymbol, Text: "null"}, nil
	}

	var statements []Node
	var visible []bool

	for {
		stmt, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)

		t := p.cur()
		if t.Kind == KindEndOfExpression {
			visible = append(visible, t.Text != ";")
			p.advance()
			p.skipStatementSeparators()
			if p.cur().Kind == KindEndOfInput {
				break
			}
			continue
		}
		visible = append(visible, true)
		break
	}

	if len(statements) == 1 {
		return statements[0], nil
	}
	return &BlockNode{Statements: statements, Visible: visible}, nil
}

// parseAssignment handles "name = expr", "name(params) = expr" (function
// definition), and "target[dims] = expr" (indexed update). Anything else
// falls through to the conditional tier.
func (p *parser) parseAssignment() (Node, error) {
	start := p.cur()

	if start.Kind == KindSymbol && !keywordOperators[start.Text] {
		// look ahead for "name = ..." or "name(...) = ...".
		save := *p.lx
		name := start.Text
		p.advance()

		if p.atText("(") {
			params, isParams, err := p.tryParseParamList()
			if err == nil && isParams && p.atText("=") && !p.atText("==") {
				p.advance()
				body, err := p.parseAssignment()
				if err != nil {
					return nil, err
				}
				return &FunctionAssignmentNode{Name: name, Params: params, Body: body}, nil
			}
			// not a parameter list / definition: rewind and parse normally.
			*p.lx = save
		} else if p.atText("=") {
			p.advance()
			val, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			return &AssignmentNode{Target: &SymbolNode{Name: name}, Value: val}, nil
		} else {
			*p.lx = save
		}
	}

	target, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if p.atText("=") {
		if sym, ok := target.(*SymbolNode); ok {
			p.advance()
			val, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			return &AssignmentNode{Target: sym, Value: val}, nil
		}
		if idx, ok := target.(*IndexNode); ok {
			name, ok := idx.Object.(*SymbolNode)
			if !ok {
				return nil, syntaxErrorAt(p.cur(), "invalid assignment LHS")
			}
			p.advance()
			val, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			return &UpdateNode{Name: name.Name, Index: idx, Value: val}, nil
		}
		return nil, syntaxErrorAt(p.cur(), "invalid assignment LHS")
	}
	return target, nil
}

// tryParseParamList attempts to parse "(" name ("," name)* ")" as a bare
// parameter list, used to decide whether "f(x, y)" on the left of "=" is a
// function definition. isParams is false (with the cursor unspecified) if
// the parenthesized list is not all bare symbols.
func (p *parser) tryParseParamList() ([]string, bool, error) {
	if _, err := p.expectDelim("("); err != nil {
		return nil, false, err
	}
	var params []string
	if !p.atText(")") {
		for {
			t := p.cur()
			if t.Kind != KindSymbol || keywordOperators[t.Text] {
				return nil, false, nil
			}
			params = append(params, t.Text)
			p.advance()
			if p.atText(",") {
				p.advance()
				continue
			}
			break
		}
	}
	if !p.atText(")") {
		return nil, false, nil
	}
	p.advance()
	return params, true, nil
}

func (p *parser) parseConditional() (Node, error) {
	cond, err := p.parseRange()
	if err != nil {
		return nil, err
	}
	if p.atText("?") {
		p.advance()
		then, err := p.parseConversion()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectDelimOr(":", func(Token) SyntaxError { return errFalsePartExpected() }); err != nil {
			return nil, err
		}
		els, err := p.parseConditional()
		if err != nil {
			return nil, err
		}
		return &ConditionalNode{Cond: cond, Then: then, Else: els}, nil
	}
	return cond, nil
}

func (p *parser) parseRange() (Node, error) {
	start, err := p.parseConversion()
	if err != nil {
		return nil, err
	}
	if !p.atText(":") {
		return start, nil
	}
	p.advance()
	second, err := p.parseConversion()
	if err != nil {
		return nil, err
	}
	if p.atText(":") {
		p.advance()
		end, err := p.parseConversion()
		if err != nil {
			return nil, err
		}
		return &RangeNode{Start: start, Step: second, End: end}, nil
	}
	return &RangeNode{Start: start, End: second}, nil
}

// canStartExpression reports whether t could be the first token of a
// right-hand operand. parseConversion uses it to tell a genuine conversion
// target apart from a trailing "to"/"in" with nothing after it, which names
// a unit by itself (e.g. "2 in" is 2 inches, not a conversion missing its
// target).
func canStartExpression(t Token) bool {
	switch t.Kind {
	case KindNumber, KindString:
		return true
	case KindSymbol:
		if !keywordOperators[t.Text] {
			return true
		}
		return t.Text == "not"
	case KindOperator:
		return t.Text == "-" || t.Text == "+"
	case KindDelimiter:
		return t.Text == "(" || t.Text == "["
	default:
		return false
	}
}

// parseConversion handles the "to"/"in" unit-conversion operator. The
// right-hand operand is taken as a bare unit name (not looked up as a
// variable) whenever it is a plain symbol not itself followed by "(": a
// symbol followed by "(" is parsed as a function call instead. An operator
// after the bare unit name is not consumed here.
func (p *parser) parseConversion() (Node, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("to") || p.atKeyword("in") {
		keyword := p.cur().Text
		p.advance()
		if !canStartExpression(p.cur()) {
			// Nothing follows that could be a conversion target: the
			// keyword itself names the unit, e.g. a bare "2 in".
			left = &OperatorNode{Fn: "to", Symbol: "to", Args: []Node{left, &ConstantNode{Kind: KindString, Text: keyword}}}
			continue
		}
		unitTok := p.cur()
		var rhs Node
		if unitTok.Kind == KindSymbol && !keywordOperators[unitTok.Text] {
			p.advance()
			if p.atText("(") {
				// actually a function call, e.g. "x to f(y)": fall back to a
				// normal relational parse rooted at the symbol we consumed.
				rhs, err = p.finishFunctionCall(unitTok.Text)
				if err != nil {
					return nil, err
				}
			} else {
				rhs = &ConstantNode{Kind: KindString, Text: unitTok.Text}
			}
		} else {
			rhs, err = p.parseRelational()
			if err != nil {
				return nil, err
			}
		}
		left = &OperatorNode{Fn: "to", Symbol: "to", Args: []Node{left, rhs}}
	}
	return left, nil
}

// parseRelational joins comparisons with the left-associative keyword
// operators "and", "or", and "xor".
func (p *parser) parseRelational() (Node, error) {
	left, err := p.parseComparison()
	for err == nil && (p.atKeyword("and") || p.atKeyword("or") || p.atKeyword("xor")) {
		fn := p.cur().Text
		p.advance()
		var right Node
		if right, err = p.parseComparison(); err == nil {
			left = &OperatorNode{Fn: fn, Symbol: fn, Args: []Node{left, right}}
		}
	}
	return left, err
}

func (p *parser) parseComparison() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	type step struct {
		fn, symbol string
		operand    Node
	}
	var steps []step
	for {
		fn, symbol, ok := relationalOp(p.cur())
		if !ok {
			break
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		steps = append(steps, step{fn, symbol, right})
	}
	if len(steps) == 0 {
		return left, nil
	}
	if len(steps) == 1 {
		return &OperatorNode{Fn: steps[0].fn, Symbol: steps[0].symbol, Args: []Node{left, steps[0].operand}}, nil
	}
	// chained relational ("1 < x < 10"): and-combine each pairwise
	// comparison, matching the host's named "and" function.
	prev := left
	var parts []Node
	for _, s := range steps {
		parts = append(parts, &OperatorNode{Fn: s.fn, Symbol: s.symbol, Args: []Node{prev, s.operand}})
		prev = s.operand
	}
	combined := parts[0]
	for _, part := range parts[1:] {
		combined = &OperatorNode{Fn: "and", Symbol: "and", Args: []Node{combined, part}}
	}
	return combined, nil
}

func relationalOp(t Token) (fn, symbol string, ok bool) {
	if t.Kind != KindOperator {
		return "", "", false
	}
	switch t.Text {
	case "==":
		return "equal", "==", true
	case "!=":
		return "unequal", "!=", true
	case "<":
		return "smaller", "<", true
	case ">":
		return "larger", ">", true
	case "<=":
		return "smallerEq", "<=", true
	case ">=":
		return "largerEq", ">=", true
	}
	return "", "", false
}

func (p *parser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var fn string
		switch {
		case p.atText("+"):
			fn = "add"
		case p.atText("-"):
			fn = "subtract"
		default:
			return left, nil
		}
		symbol := p.cur().Text
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &OperatorNode{Fn: fn, Symbol: symbol, Args: []Node{left, right}}
	}
}

func (p *parser) parseMultiplicative() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var fn string
		switch {
		case p.atText("*"):
			fn = "multiply"
		case p.atText("/"):
			fn = "divide"
		case p.atText(".*"):
			fn = "dotMultiply"
		case p.atText("./"):
			fn = "dotDivide"
		case p.atKeyword("mod"):
			fn = "mod"
		default:
			return left, nil
		}
		symbol := p.cur().Text
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &OperatorNode{Fn: fn, Symbol: symbol, Args: []Node{left, right}}
	}
}

func (p *parser) parseUnary() (Node, error) {
	switch {
	case p.atText("-"):
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &OperatorNode{Fn: "unaryMinus", Symbol: "-", Args: []Node{operand}}, nil
	case p.atText("+"):
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &OperatorNode{Fn: "unaryPlus", Symbol: "+", Args: []Node{operand}}, nil
	case p.atKeyword("not"):
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &OperatorNode{Fn: "not", Symbol: "not", Args: []Node{operand}}, nil
	default:
		return p.parsePower()
	}
}

func (p *parser) parsePower() (Node, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	var fn, symbol string
	switch {
	case p.atText("^"):
		fn, symbol = "pow", "^"
	case p.atText(".^"):
		fn, symbol = "dotPow", ".^"
	default:
		return base, nil
	}
	p.advance()
	exponent, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &OperatorNode{Fn: fn, Symbol: symbol, Args: []Node{base, exponent}}, nil
}

func (p *parser) parsePostfix() (Node, error) {
	node, err := p.parseImplicitMultiplication()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atText("!"):
			p.advance()
			node = &OperatorNode{Fn: "factorial", Symbol: "!", Args: []Node{node}}
		case p.atText("'"):
			p.advance()
			node = &OperatorNode{Fn: "transpose", Symbol: "'", Args: []Node{node}}
		default:
			return node, nil
		}
	}
}

// parseImplicitMultiplication handles juxtaposition such as "2x" or "2(x+1)"
// by chaining atoms together with a synthetic "multiply" operator whenever
// an atom is immediately followed by another atom-starting token with no
// intervening explicit operator.
func (p *parser) parseImplicitMultiplication() (Node, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.canStartImplicitFactor() {
		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		left = &OperatorNode{Fn: "multiply", Symbol: " ", Args: []Node{left, right}}
	}
	return left, nil
}

func (p *parser) canStartImplicitFactor() bool {
	t := p.cur()
	switch t.Kind {
	case KindNumber, KindString:
		return true
	case KindSymbol:
		return !keywordOperators[t.Text]
	case KindDelimiter:
		// "[" is deliberately excluded: adjacency of an atom and "[" is
		// always indexing (handled as an atom suffix in parseAtom), never
		// implicit multiplication (§4.2.12).
		return t.Text == "("
	default:
		return false
	}
}

func (p *parser) parseArgList(open, close string) ([]Node, error) {
	if _, err := p.expectDelim(open); err != nil {
		return nil, err
	}
	var args []Node
	if !p.atText(close) {
		for {
			arg, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.atText(",") {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expectDelimOr(close, closeDelimError(close)); err != nil {
		return nil, err
	}
	return args, nil
}

// closeDelimError picks the bit-exact closing-delimiter message (§6.4) for
// the given closing delimiter text, or nil to fall back to the generic one.
func closeDelimError(close string) func(Token) SyntaxError {
	switch close {
	case ")":
		return func(Token) SyntaxError { return errParenExpected() }
	case "]":
		return func(Token) SyntaxError { return errMatrixEndExpected() }
	default:
		return nil
	}
}

// parseAtom parses a single atom (§4.2.13) and then any immediately
// following "[...]" indexing suffixes (§4.2.3): indexing binds at the atom
// tier, tighter than implicit multiplication, so "2 a[1]" is "2 * (a[1])"
// and not "(2*a)[1]".
func (p *parser) parseAtom() (Node, error) {
	node, err := p.parseAtomBase()
	if err != nil {
		return nil, err
	}
	for p.atText("[") {
		dims, err := p.parseIndexDims()
		if err != nil {
			return nil, err
		}
		node = &IndexNode{Object: node, Dims: dims}
	}
	return node, nil
}

// parseIndexDims parses "[" dim ("," dim)* "]", where each dim is either an
// ordinary expression (possibly a range) or a bare ":" full-range shortcut.
func (p *parser) parseIndexDims() ([]Node, error) {
	if _, err := p.expectDelim("["); err != nil {
		return nil, err
	}
	var dims []Node
	if !p.atText("]") {
		for {
			if p.atText(":") {
				p.advance()
				dims = append(dims, fullRangeDim())
			} else {
				d, err := p.parseAssignment()
				if err != nil {
					return nil, err
				}
				dims = append(dims, d)
			}
			if p.atText(",") {
				p.advance()
				continue
			}
			break
		}
	}
	if t := p.cur(); t.Kind != KindDelimiter || t.Text != "]" {
		return nil, errMatrixEndExpected()
	}
	p.advance()
	return dims, nil
}

// fullRangeDim desugars a bare ":" dimension to "1:end", relying on end
// being bound per-dimension during evaluation (evalDims in compile.go).
func fullRangeDim() Node {
	return &RangeNode{
		Start: &ConstantNode{Kind: KindNumber, Text: "1"},
		End:   &SymbolNode{Name: "end"},
	}
}

func (p *parser) parseAtomBase() (Node, error) {
	t := p.cur()
	switch t.Kind {
	case KindNumber:
		p.advance()
		return &ConstantNode{Kind: KindNumber, Text: t.Text}, nil

	case KindString:
		p.advance()
		return &ConstantNode{Kind: KindString, Text: t.Text}, nil

	case KindSymbol:
		switch t.Text {
		case "true", "false", "null", "undefined":
			p.advance()
			return &ConstantNode{Kind: KindSymbol, Text: t.Text}, nil
		}
		if keywordOperators[t.Text] {
			return nil, atomError(t)
		}
		p.advance()
		if p.atText("(") {
			return p.finishFunctionCall(t.Text)
		}
		return &SymbolNode{Name: t.Text}, nil

	case KindDelimiter:
		switch t.Text {
		case "(":
			p.advance()
			inner, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectDelimOr(")", closeDelimError(")")); err != nil {
				return nil, err
			}
			return &ParenthesisNode{Inner: inner}, nil
		case "[":
			return p.parseArrayLiteral()
		}
	}
	return nil, atomError(t)
}

func (p *parser) finishFunctionCall(name string) (Node, error) {
	args, err := p.parseArgList("(", ")")
	if err != nil {
		return nil, err
	}
	if ctor, ok := p.opts.customNodes[name]; ok {
		return ctor(name, args)
	}
	return &FunctionNode{Name: name, Args: args}, nil
}

// parseArrayLiteral parses "[" row ("," row)* ("," | ";" | newline separated
// rows) "]" where a row is a comma-separated list of expressions. Rows are
// separated by ";" or a newline (both lexed as KindEndOfExpression inside
// "[...]"; see lex.go), and every row must have the same column count
// (enforced by the host's "matrix" function at evaluation time, not here).
func (p *parser) parseArrayLiteral() (Node, error) {
	if _, err := p.expectDelim("["); err != nil {
		return nil, err
	}
	var rows [][]Node
	var row []Node

	flushRow := func() {
		rows = append(rows, row)
		row = nil
	}

	for p.cur().Kind == KindEndOfExpression {
		p.advance()
	}

	if !p.atText("]") {
		for {
			expr, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			row = append(row, expr)

			if p.atText(",") {
				p.advance()
				continue
			}
			if p.cur().Kind == KindEndOfExpression {
				flushRow()
				for p.cur().Kind == KindEndOfExpression {
					p.advance()
				}
				if p.atText("]") {
					break
				}
				continue
			}
			break
		}
		if len(row) > 0 {
			flushRow()
		}
	}

	if _, err := p.expectDelimOr("]", closeDelimError("]")); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		rows = [][]Node{{}}
	}
	return &ArrayNode{Rows: rows}, nil
}
