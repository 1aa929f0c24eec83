package query

// ParseNode represents a node in a parsed query tree
type ParseNode interface {
	parseNode()
}

// OrNode represents a disjunction of two or more child expressions
type OrNode struct {
	Children []ParseNode
}

// AndNode represents a conjunction of two or more child expressions
type AndNode struct {
	Children []ParseNode
}

// LookupNode represents a single field comparison. RawValue holds the value
// lexeme exactly as scanned, quotes included; coercion happens when the
// filter is built. Pos is the byte offset of the field name in the input.
type LookupNode struct {
	Field    string
	Operator string
	RawValue string
	Pos      int
}

func (n *OrNode) parseNode()     {}
func (n *AndNode) parseNode()    {}
func (n *LookupNode) parseNode() {}
