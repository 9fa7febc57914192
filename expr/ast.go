package expr

import (
	"fmt"
	"strings"

	"github.com/dekarrin/mathscript/host"
)

// Node is the interface implemented by every AST variant the parser
// produces. The node set is closed: each variant below implements Compile,
// String, and Find itself, so walking a tree dispatches through these
// methods rather than through a switch over a NodeType as the teacher's
// ast.go does (tunascript/syntax/ast.go).
//
// Custom nodes supplied through WithCustomNodes (custom.go) also satisfy this
// interface; the core treats them opaquely and never type-switches on them.
type Node interface {
	// Compile binds the node to a Host and produces something that can be
	// evaluated against a Scope as many times as the caller likes.
	Compile(h host.Host) (Evaluable, error)

	// String renders the node back to expression source. It is not
	// guaranteed to reproduce the original text byte-for-byte (whitespace
	// and redundant parentheses are not preserved) but reparsing it
	// produces an equivalent tree.
	String() string

	// Find returns every node in the subtree rooted at this node, including
	// itself, for which pred returns true. Traversal order is preorder,
	// left to right.
	Find(pred func(Node) bool) []Node
}

// findSelfAndChildren is the shared Find implementation: it tests n, then
// recurses into each child node returned by children.
func findSelfAndChildren(n Node, pred func(Node) bool, children []Node) []Node {
	var out []Node
	if pred(n) {
		out = append(out, n)
	}
	for _, c := range children {
		if c == nil {
			continue
		}
		out = append(out, c.Find(pred)...)
	}
	return out
}

// ConstantNode holds a literal value parsed directly from source: a number,
// a string, a boolean, or the null/undefined literal.
type ConstantNode struct {
	Kind Kind
	Text string
}

func (n *ConstantNode) String() string {
	if n.Kind == KindString {
		return n.Text
	}
	return n.Text
}

func (n *ConstantNode) Find(pred func(Node) bool) []Node {
	return findSelfAndChildren(n, pred, nil)
}

func (n *ConstantNode) Compile(h host.Host) (Evaluable, error) {
	switch n.Kind {
	case KindNumber:
		v, err := h.ParseNumber(n.Text)
		if err != nil {
			return nil, err
		}
		return constEvaluable{v}, nil
	case KindString:
		return constEvaluable{unquote(n.Text)}, nil
	default:
		switch n.Text {
		case "true":
			return constEvaluable{true}, nil
		case "false":
			return constEvaluable{false}, nil
		case "null", "undefined":
			return constEvaluable{nil}, nil
		}
		return nil, TypeError{Message: fmt.Sprintf("unrecognized constant %q", n.Text)}
	}
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// SymbolNode references a name to be looked up in the scope at evaluation
// time.
type SymbolNode struct {
	Name string
}

func (n *SymbolNode) String() string { return n.Name }

func (n *SymbolNode) Find(pred func(Node) bool) []Node {
	return findSelfAndChildren(n, pred, nil)
}

func (n *SymbolNode) Compile(h host.Host) (Evaluable, error) {
	return symbolEvaluable{n.Name}, nil
}

// OperatorNode is a named operation applied to a fixed argument list. Fn is
// the host function name (e.g. "add", "unaryMinus"); Symbol is the source
// spelling used only by String (e.g. "+").
type OperatorNode struct {
	Fn     string
	Symbol string
	Args   []Node
}

// operatorAssoc is which side a binary operator groups same-precedence
// operands toward.
type operatorAssoc int

const (
	leftAssoc operatorAssoc = iota
	rightAssoc
)

// operatorPrecedence is the Fn name's tier in the grammar cascade parser.go
// implements (§4.2): higher binds tighter. Conditional and range sit below
// every OperatorNode tier and are handled separately in childString.
const (
	precConversion = iota + 1 // to/in
	precLogical               // and, or, xor (also joins chained comparisons)
	precRelational            // ==, !=, <, >, <=, >=
	precAdditive              // +, -
	precMultiplicative        // *, /, .*, ./, mod
	precUnary                 // unary -, unary +, not
	precPower                 // ^, .^
	precPostfix               // !, '
)

type operatorInfo struct {
	prec  int
	assoc operatorAssoc
}

// operatorPrecedence maps every Fn name an OperatorNode can carry to its
// precedence tier and associativity, used by String to decide when a child
// operator needs parenthesizing to round-trip to a structurally equal tree
// (§3.5, §4.5).
var operatorPrecedence = map[string]operatorInfo{
	"to":        {precConversion, leftAssoc},
	"equal":     {precRelational, leftAssoc},
	"unequal":   {precRelational, leftAssoc},
	"smaller":   {precRelational, leftAssoc},
	"larger":    {precRelational, leftAssoc},
	"smallerEq": {precRelational, leftAssoc},
	"largerEq":  {precRelational, leftAssoc},
	"and":       {precLogical, leftAssoc},
	"or":        {precLogical, leftAssoc},
	"xor":       {precLogical, leftAssoc},
	"add":       {precAdditive, leftAssoc},
	"subtract":  {precAdditive, leftAssoc},

	"multiply":    {precMultiplicative, leftAssoc},
	"divide":      {precMultiplicative, leftAssoc},
	"dotMultiply": {precMultiplicative, leftAssoc},
	"dotDivide":   {precMultiplicative, leftAssoc},
	"mod":         {precMultiplicative, leftAssoc},

	"unaryMinus": {precUnary, leftAssoc},
	"unaryPlus":  {precUnary, leftAssoc},
	"not":        {precUnary, leftAssoc},

	"pow":    {precPower, rightAssoc},
	"dotPow": {precPower, rightAssoc},

	"factorial": {precPostfix, leftAssoc},
	"transpose": {precPostfix, leftAssoc},
}

func isPostfixOperator(fn string) bool {
	return fn == "factorial" || fn == "transpose"
}

// childPrecedence reports the precedence a node would bind at if it appeared
// as an operand, and whether that precedence is meaningful at all -- atoms,
// calls, and parenthesized/indexed forms are never ambiguous as operands and
// report ok=false.
func childPrecedence(n Node) (prec int, ok bool) {
	switch v := n.(type) {
	case *OperatorNode:
		info, found := operatorPrecedence[v.Fn]
		if !found {
			return 0, false
		}
		return info.prec, true
	case *ConditionalNode, *RangeNode:
		// Both sit below every operator tier (parseConditional calls
		// parseRange calls parseConversion), so any operator embedding one
		// directly as an operand must parenthesize it.
		return 0, true
	default:
		return 0, false
	}
}

// childString renders child as an operand of a binary operator with the
// given precedence/associativity, parenthesizing it whenever printing it
// bare would let it bind to the wrong operator on reparse.
func childString(child Node, parent operatorInfo, isRightOperand bool) string {
	s := child.String()
	prec, ok := childPrecedence(child)
	if !ok {
		return s
	}
	needsParens := prec < parent.prec
	if !needsParens && prec == parent.prec {
		if parent.assoc == leftAssoc && isRightOperand {
			needsParens = true
		}
		if parent.assoc == rightAssoc && !isRightOperand {
			needsParens = true
		}
	}
	if needsParens {
		return "(" + s + ")"
	}
	return s
}

func (n *OperatorNode) String() string {
	info, ok := operatorPrecedence[n.Fn]
	if !ok {
		// Unknown Fn (e.g. a custom node built the name directly): fall back
		// to the old unparenthesized join rather than guessing a precedence.
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = a.String()
		}
		if len(parts) == 1 {
			return n.Symbol + parts[0]
		}
		return strings.Join(parts, " "+n.Symbol+" ")
	}

	if len(n.Args) == 1 {
		operand := childString(n.Args[0], info, false)
		if isPostfixOperator(n.Fn) {
			return operand + n.Symbol
		}
		return n.Symbol + operand
	}

	left := childString(n.Args[0], info, false)
	right := childString(n.Args[1], info, true)
	if strings.TrimSpace(n.Symbol) == "" {
		return left + " " + right
	}
	if n.Fn == "pow" || n.Fn == "dotPow" {
		return left + n.Symbol + right
	}
	return left + " " + n.Symbol + " " + right
}

func (n *OperatorNode) Find(pred func(Node) bool) []Node {
	return findSelfAndChildren(n, pred, n.Args)
}

func (n *OperatorNode) Compile(h host.Host) (Evaluable, error) {
	// A number atom immediately followed by a bare symbol parses as
	// implicit multiplication (e.g. "5cm" and "2x" are structurally
	// identical: multiply(5, cm) and multiply(2, x)). Per host.Host.Unit's
	// contract, a trailing symbol names a unit if the host recognizes it;
	// otherwise the adjacency really is multiplication by a scope symbol.
	// Both the unit table and the numeric literal are fixed at compile
	// time, so the choice is made once here rather than re-checked on
	// every Eval.
	if n.Fn == "multiply" && len(n.Args) == 2 {
		if numConst, ok := n.Args[0].(*ConstantNode); ok && numConst.Kind == KindNumber {
			if sym, ok := n.Args[1].(*SymbolNode); ok {
				return n.compileNumberSymbolAdjacency(h, numConst, sym)
			}
		}
	}

	fn, ok := h.Function(n.Fn)
	if !ok {
		return nil, TypeError{Message: fmt.Sprintf("host does not implement operator %q", n.Fn)}
	}
	args := make([]Evaluable, len(n.Args))
	for i, a := range n.Args {
		ev, err := a.Compile(h)
		if err != nil {
			return nil, err
		}
		args[i] = ev
	}
	return operatorEvaluable{fn: fn, name: n.Fn, args: args}, nil
}

// compileNumberSymbolAdjacency resolves "<number><symbol>" adjacency to
// either a unit literal or ordinary multiplication, per the fallback order
// host.Host.Unit documents.
func (n *OperatorNode) compileNumberSymbolAdjacency(h host.Host, numConst *ConstantNode, sym *SymbolNode) (Evaluable, error) {
	v, err := h.ParseNumber(numConst.Text)
	if err != nil {
		return nil, err
	}
	if unitVal, ok := h.Unit(v, sym.Name); ok {
		return constEvaluable{unitVal}, nil
	}

	fn, ok := h.Function(n.Fn)
	if !ok {
		return nil, TypeError{Message: fmt.Sprintf("host does not implement operator %q", n.Fn)}
	}
	left, err := numConst.Compile(h)
	if err != nil {
		return nil, err
	}
	right, err := sym.Compile(h)
	if err != nil {
		return nil, err
	}
	return operatorEvaluable{fn: fn, name: n.Fn, args: []Evaluable{left, right}}, nil
}

// ConditionalNode is the ternary a ? b : c form.
type ConditionalNode struct {
	Cond, Then, Else Node
}

func (n *ConditionalNode) String() string {
	return fmt.Sprintf("%s ? %s : %s", n.Cond, n.Then, n.Else)
}

func (n *ConditionalNode) Find(pred func(Node) bool) []Node {
	return findSelfAndChildren(n, pred, []Node{n.Cond, n.Then, n.Else})
}

func (n *ConditionalNode) Compile(h host.Host) (Evaluable, error) {
	cond, err := n.Cond.Compile(h)
	if err != nil {
		return nil, err
	}
	then, err := n.Then.Compile(h)
	if err != nil {
		return nil, err
	}
	els, err := n.Else.Compile(h)
	if err != nil {
		return nil, err
	}
	return conditionalEvaluable{cond: cond, then: then, els: els, truthy: h.Truthy}, nil
}

// RangeNode is start:end or start:step:end.
type RangeNode struct {
	Start, End Node
	Step       Node // nil if no explicit step
}

func (n *RangeNode) String() string {
	if n.Step != nil {
		return fmt.Sprintf("%s:%s:%s", n.Start, n.Step, n.End)
	}
	return fmt.Sprintf("%s:%s", n.Start, n.End)
}

func (n *RangeNode) Find(pred func(Node) bool) []Node {
	return findSelfAndChildren(n, pred, []Node{n.Start, n.End, n.Step})
}

func (n *RangeNode) Compile(h host.Host) (Evaluable, error) {
	fn, ok := h.Function("range")
	if !ok {
		return nil, TypeError{Message: "host does not implement range"}
	}
	start, err := n.Start.Compile(h)
	if err != nil {
		return nil, err
	}
	end, err := n.End.Compile(h)
	if err != nil {
		return nil, err
	}
	var step Evaluable
	if n.Step != nil {
		step, err = n.Step.Compile(h)
		if err != nil {
			return nil, err
		}
	}
	return rangeEvaluable{fn: fn, start: start, end: end, step: step}, nil
}

// ArrayNode is a matrix literal: [[a, b], [c, d]]. A vector is a single-row
// matrix.
type ArrayNode struct {
	Rows [][]Node
}

func (n *ArrayNode) String() string {
	rows := make([]string, len(n.Rows))
	for i, row := range n.Rows {
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = c.String()
		}
		rows[i] = strings.Join(cells, ", ")
	}
	return "[" + strings.Join(rows, "; ") + "]"
}

func (n *ArrayNode) Find(pred func(Node) bool) []Node {
	var all []Node
	for _, row := range n.Rows {
		all = append(all, row...)
	}
	return findSelfAndChildren(n, pred, all)
}

func (n *ArrayNode) Compile(h host.Host) (Evaluable, error) {
	fn, ok := h.Function("matrix")
	if !ok {
		return nil, TypeError{Message: "host does not implement matrix"}
	}
	rows := make([][]Evaluable, len(n.Rows))
	for i, row := range n.Rows {
		evs := make([]Evaluable, len(row))
		for j, c := range row {
			ev, err := c.Compile(h)
			if err != nil {
				return nil, err
			}
			evs[j] = ev
		}
		rows[i] = evs
	}
	return arrayEvaluable{fn: fn, rows: rows}, nil
}

// IndexNode applies one or more 1-based dimension indices (or ranges) to
// Object. It serves as both a read, when compiled standalone, and as an
// assignment target, when it appears as the Index of an UpdateNode.
type IndexNode struct {
	Object Node
	Dims   []Node
}

func (n *IndexNode) String() string {
	parts := make([]string, len(n.Dims))
	for i, d := range n.Dims {
		parts[i] = d.String()
	}
	return fmt.Sprintf("%s[%s]", n.Object, strings.Join(parts, ", "))
}

func (n *IndexNode) Find(pred func(Node) bool) []Node {
	all := append([]Node{n.Object}, n.Dims...)
	return findSelfAndChildren(n, pred, all)
}

func (n *IndexNode) Compile(h host.Host) (Evaluable, error) {
	obj, err := n.Object.Compile(h)
	if err != nil {
		return nil, err
	}
	subset, ok := h.Function("subset")
	if !ok {
		return nil, TypeError{Message: "host does not implement subset"}
	}
	sizeFn, _ := h.Function("size")
	dims := make([]Evaluable, len(n.Dims))
	for i, d := range n.Dims {
		ev, err := d.Compile(h)
		if err != nil {
			return nil, err
		}
		dims[i] = ev
	}
	return indexEvaluable{object: obj, dims: dims, subset: subset, size: sizeFn}, nil
}

// AssignmentNode binds a value to a plain symbol. Indexed assignment
// (a[dims...] = value) is UpdateNode's job, not this node's (§3.2).
type AssignmentNode struct {
	Target *SymbolNode
	Value  Node
}

func (n *AssignmentNode) String() string {
	return fmt.Sprintf("%s = %s", n.Target, n.Value)
}

func (n *AssignmentNode) Find(pred func(Node) bool) []Node {
	return findSelfAndChildren(n, pred, []Node{n.Target, n.Value})
}

func (n *AssignmentNode) Compile(h host.Host) (Evaluable, error) {
	val, err := n.Value.Compile(h)
	if err != nil {
		return nil, err
	}
	return assignSymbolEvaluable{name: n.Target.Name, value: val}, nil
}

// UpdateNode is indexed assignment: Index.Object must resolve to a symbol,
// whose container is read, updated via the host's subsetSet, and written
// back; the expression's own value is the new container (§4.3).
type UpdateNode struct {
	Name  string
	Index *IndexNode
	Value Node
}

func (n *UpdateNode) String() string {
	return fmt.Sprintf("%s = %s", n.Index, n.Value)
}

func (n *UpdateNode) Find(pred func(Node) bool) []Node {
	return findSelfAndChildren(n, pred, []Node{n.Index, n.Value})
}

func (n *UpdateNode) Compile(h host.Host) (Evaluable, error) {
	val, err := n.Value.Compile(h)
	if err != nil {
		return nil, err
	}
	obj, err := n.Index.Object.Compile(h)
	if err != nil {
		return nil, err
	}
	if _, ok := n.Index.Object.(*SymbolNode); !ok {
		return nil, SyntaxError{Message: "assignment target index must apply to a symbol"}
	}
	subsetSet, ok := h.Function("subsetSet")
	if !ok {
		return nil, TypeError{Message: "host does not implement subsetSet"}
	}
	sizeFn, _ := h.Function("size")
	dims := make([]Evaluable, len(n.Index.Dims))
	for i, d := range n.Index.Dims {
		ev, err := d.Compile(h)
		if err != nil {
			return nil, err
		}
		dims[i] = ev
	}
	return assignIndexEvaluable{
		name: n.Name, object: obj, dims: dims, value: val,
		subsetSet: subsetSet, size: sizeFn,
	}, nil
}

// FunctionNode calls a named function, either a host builtin or a
// user-defined function bound in scope by a FunctionAssignmentNode.
type FunctionNode struct {
	Name string
	Args []Node
}

func (n *FunctionNode) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Name, strings.Join(parts, ", "))
}

func (n *FunctionNode) Find(pred func(Node) bool) []Node {
	return findSelfAndChildren(n, pred, n.Args)
}

func (n *FunctionNode) Compile(h host.Host) (Evaluable, error) {
	args := make([]Evaluable, len(n.Args))
	for i, a := range n.Args {
		ev, err := a.Compile(h)
		if err != nil {
			return nil, err
		}
		args[i] = ev
	}
	hostFn, hasHostFn := h.Function(n.Name)
	return callEvaluable{name: n.Name, args: args, hostFn: hostFn, hasHostFn: hasHostFn}, nil
}

// FunctionAssignmentNode defines f(params...) = body, binding a callable
// value under Name. The closure captures the defining scope by reference, so
// later assignments into that scope are visible the next time f is called
// (§6.3's benign reference cycle).
type FunctionAssignmentNode struct {
	Name   string
	Params []string
	Body   Node
}

func (n *FunctionAssignmentNode) String() string {
	return fmt.Sprintf("%s(%s) = %s", n.Name, strings.Join(n.Params, ", "), n.Body)
}

func (n *FunctionAssignmentNode) Find(pred func(Node) bool) []Node {
	return findSelfAndChildren(n, pred, []Node{n.Body})
}

func (n *FunctionAssignmentNode) Compile(h host.Host) (Evaluable, error) {
	body, err := n.Body.Compile(h)
	if err != nil {
		return nil, err
	}
	return defineFunctionEvaluable{name: n.Name, params: n.Params, body: body}, nil
}

// BlockNode sequences one or more statements. Visible marks which statements
// contribute their value to the ResultSet; a statement suppressed by a
// trailing semicolon is still executed for side effects but omitted from the
// result.
type BlockNode struct {
	Statements []Node
	Visible    []bool
}

func (n *BlockNode) String() string {
	parts := make([]string, len(n.Statements))
	for i, s := range n.Statements {
		sep := "\n"
		if i < len(n.Visible) && !n.Visible[i] {
			sep = ";\n"
		}
		parts[i] = s.String() + sep
	}
	return strings.Join(parts, "")
}

func (n *BlockNode) Find(pred func(Node) bool) []Node {
	return findSelfAndChildren(n, pred, n.Statements)
}

func (n *BlockNode) Compile(h host.Host) (Evaluable, error) {
	stmts := make([]Evaluable, len(n.Statements))
	for i, s := range n.Statements {
		ev, err := s.Compile(h)
		if err != nil {
			return nil, err
		}
		stmts[i] = ev
	}
	visible := n.Visible
	if len(visible) < len(stmts) {
		visible = make([]bool, len(stmts))
		for i := range visible {
			visible[i] = true
		}
	}
	return blockEvaluable{statements: stmts, visible: visible}, nil
}

// ParenthesisNode preserves an explicit grouping from source. It has no
// effect on evaluation.
type ParenthesisNode struct {
	Inner Node
}

func (n *ParenthesisNode) String() string {
	return "(" + n.Inner.String() + ")"
}

func (n *ParenthesisNode) Find(pred func(Node) bool) []Node {
	return findSelfAndChildren(n, pred, []Node{n.Inner})
}

func (n *ParenthesisNode) Compile(h host.Host) (Evaluable, error) {
	return n.Inner.Compile(h)
}
