package types

// NodeType identifies the type of an AST node.
type NodeType string

// AST node types.
const (
	NodeNumber NodeType = "number" // digit run
	NodeUnary  NodeType = "unary"  // leading + or - of a factor
	NodeBinary NodeType = "binary" // + - * /
	NodeGroup  NodeType = "group"  // ( expression )
)

// Level is the grammar level a production is parsed at.
// Lower levels bind more loosely.
type Level uint8

const (
	// LevelExpression binds + and -.
	LevelExpression Level = iota
	// LevelTerm binds * and /.
	LevelTerm
	// LevelFactor binds a unary sign, literals and parenthesised expressions.
	LevelFactor
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelExpression:
		return "expression"
	case LevelTerm:
		return "term"
	case LevelFactor:
		return "factor"
	default:
		return "unknown"
	}
}

// Next returns the next tighter level. LevelFactor has no tighter level and
// returns itself.
func (l Level) Next() Level {
	if l >= LevelFactor {
		return LevelFactor
	}
	return l + 1
}

// ASTNode represents a node in the Abstract Syntax Tree.
type ASTNode struct {
	Type     NodeType
	Value    int64 // raw literal for NodeNumber, not reduced
	Op       byte  // operator for NodeUnary and NodeBinary
	Level    Level // level the node was produced at
	Position int   // offset into the compact source

	LHS *ASTNode // left operand, or the operand of unary/group nodes
	RHS *ASTNode // right operand of binary nodes
}

// NewASTNode creates a new AST node of the specified type.
// Prefer NodeArena.Alloc when parsing to reduce per-node heap allocations.
func NewASTNode(nodeType NodeType, position int) *ASTNode {
	return &ASTNode{
		Type:     nodeType,
		Position: position,
	}
}

// arenaChunkSize is the number of ASTNode values pre-allocated per arena chunk.
// One line of input rarely needs more.
const arenaChunkSize = 64

// NodeArena is a bump-pointer allocator for ASTNode values.
//
// Instead of allocating each node individually on the heap, the arena
// pre-allocates fixed-size chunks of ASTNode structs and returns pointers
// into them.
//
// # Lifetime
//
// The arena MUST stay alive as long as any pointer returned by Alloc is
// reachable. Nodes point into the chunks, so holding the root node keeps the
// arena alive.
//
// # Thread safety
//
// NodeArena is NOT thread-safe. Each parser owns its own arena.
type NodeArena struct {
	chunks [][]ASTNode
	pos    int // next free index in the last chunk
}

// NewNodeArena allocates an arena pre-warmed with one initial chunk.
func NewNodeArena() *NodeArena {
	return &NodeArena{
		chunks: [][]ASTNode{make([]ASTNode, arenaChunkSize)},
	}
}

// Alloc returns a pointer to a zero-valued ASTNode inside the arena,
// with Type and Position set.
func (a *NodeArena) Alloc(nodeType NodeType, position int) *ASTNode {
	if a.pos >= arenaChunkSize {
		a.chunks = append(a.chunks, make([]ASTNode, arenaChunkSize))
		a.pos = 0
	}
	n := &a.chunks[len(a.chunks)-1][a.pos]
	a.pos++
	n.Type = nodeType
	n.Position = position
	return n
}

// Len returns the number of nodes allocated so far.
func (a *NodeArena) Len() int {
	return (len(a.chunks)-1)*arenaChunkSize + a.pos
}

// String returns a string representation of the node type.
func (n *ASTNode) String() string {
	return string(n.Type)
}

// Depth returns the nesting depth of the subtree rooted at n.
// A single literal has depth 1.
func (n *ASTNode) Depth() int {
	if n == nil {
		return 0
	}
	l, r := n.LHS.Depth(), n.RHS.Depth()
	if r > l {
		l = r
	}
	return l + 1
}
