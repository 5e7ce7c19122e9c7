package graph

// customNode derives its Go value from one or more Reads by evaluating a
// caller-supplied Go expression, and derives the values those reads need to
// write by evaluating the inverse. It is the escape hatch the Bool and
// StringUTF8 convenience constructors are built from, and is exported
// (Scope.Custom) for callers defining their own views over a primitive
// node.
type customNode struct {
	GoType string
	Reads  []Ref

	// ReadExpr receives one Go expression string per entry in Reads (in
	// order) and returns a Go expression of type GoType.
	ReadExpr func(vals []string) string

	// WriteExpr receives a Go expression string for this node's own value
	// and returns one Go expression per entry in Reads (in order), used to
	// drive those nodes' own write encoding.
	WriteExpr func(self string) []string
}
