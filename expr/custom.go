package expr

// CustomNodeConstructor builds a caller-defined Node variant from the
// argument list of what would otherwise parse as an ordinary function call.
// It lets an embedder extend the closed AST node set with its own syntax
// sugar (for example, a "derivative(f, x)" form that needs to inspect the
// unevaluated argument nodes at parse time) without forking the parser.
type CustomNodeConstructor func(name string, args []Node) (Node, error)

// CustomNodes is a caller-supplied name-to-constructor mapping, passed to
// Parse via WithCustomNodes. Whenever the parser reduces a call-shaped form
// "name(args...)" and name is present in this map, it invokes the
// constructor instead of producing a FunctionNode.
type CustomNodes map[string]CustomNodeConstructor

// ParseOption configures a single call to Parse.
type ParseOption func(*parseOptions)

type parseOptions struct {
	customNodes CustomNodes
}

// WithCustomNodes registers custom node constructors for use during this
// parse. Names not present in nodes parse as ordinary FunctionNode calls.
func WithCustomNodes(nodes CustomNodes) ParseOption {
	return func(o *parseOptions) {
		o.customNodes = nodes
	}
}
