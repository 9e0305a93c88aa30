package parser

// Package parser compiles arithmetic expressions over the prime field into
// an immutable AST.
//
// The grammar has three levels, each parsed by the same recursive descent
// routine with the level passed explicitly:
//
//	expression := term   { ("+" | "-") term }
//	term       := factor { ("*" | "/") factor }
//	factor     := [ "+" | "-" ] ( number | "(" expression ")" )
//
// Equal-precedence operators are folded iteratively, which makes them
// left-associative. Whitespace is removed before parsing.
//
// # Example
//
//	expr, err := parser.Parse("1 + 2 * (3 - 4)")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ast := expr.AST()

import (
	"github.com/sandrolain/gomodeval/pkg/types"
)

// Parse parses an expression and returns the compiled Expression.
//
// Errors are *types.Error values carrying the offset into the
// whitespace-free source.
func Parse(query string) (*types.Expression, error) {
	p := NewParser(query)
	return p.Parse()
}

// Compile is Parse with options.
func Compile(query string, opts ...CompileOption) (*types.Expression, error) {
	p := NewParser(query, opts...)
	return p.Parse()
}

// CompileOption configures compilation behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxDepth limits parenthesis nesting to prevent stack overflow.
	// Zero or negative disables the limit.
	MaxDepth int
}

// DefaultMaxDepth is the nesting limit used when none is configured.
const DefaultMaxDepth = 1000

// WithMaxDepth sets the maximum parenthesis nesting depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}
