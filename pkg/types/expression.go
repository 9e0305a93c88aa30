// Package types defines the core types shared by the parser and evaluator.
//
// This package contains type definitions for:
//   - Expression: compiled arithmetic expressions
//   - ASTNode: Abstract Syntax Tree nodes and their arena allocator
//   - Level: the grammar level (expression, term, factor)
//   - Error types: structured errors with codes
package types

// Expression represents a compiled arithmetic expression.
//
// An Expression can be evaluated multiple times by passing it to
// [evaluator.Evaluator.Eval]. It is immutable after parsing and safe for
// concurrent use by multiple goroutines.
type Expression struct {
	ast    *ASTNode
	source string // compact, whitespace-free text
	nodes  int
}

// NewExpression creates a new Expression from an AST.
func NewExpression(ast *ASTNode, source string) *Expression {
	return &Expression{
		ast:    ast,
		source: source,
	}
}

// NewExpressionFromArena is NewExpression recording the arena's node count.
func NewExpressionFromArena(ast *ASTNode, source string, arena *NodeArena) *Expression {
	e := NewExpression(ast, source)
	if arena != nil {
		e.nodes = arena.Len()
	}
	return e
}

// AST returns the Abstract Syntax Tree of the expression.
func (e *Expression) AST() *ASTNode {
	return e.ast
}

// Source returns the whitespace-free source of the expression.
func (e *Expression) Source() string {
	return e.source
}

// Nodes returns the number of AST nodes, or 0 when unknown.
func (e *Expression) Nodes() int {
	return e.nodes
}

// Depth returns the nesting depth of the AST.
func (e *Expression) Depth() int {
	return e.ast.Depth()
}

// String returns a string representation of the expression.
func (e *Expression) String() string {
	return e.source
}
