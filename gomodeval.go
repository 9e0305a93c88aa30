// Package gomodeval evaluates arithmetic expressions modulo the prime 1,000,000,007.
//
// Expressions use integer literals, + - * /, parentheses and a unary sign.
// Division multiplies by the modular inverse, so every result is an integer
// in [0, 1000000006].
//
// # Quick Start
//
//	// Simple evaluation
//	v, err := gomodeval.Eval("1 + 2 * (3 - 4)")
//
//	// Compile once, evaluate many times
//	expr, err := gomodeval.Compile("55 + 68*(5*72)")
//	ev := evaluator.New()
//	v1, _ := ev.Eval(ctx, expr)
//
//	// With options
//	v, err := gomodeval.Eval("1/0",
//	    gomodeval.WithDivisionPolicy(gomodeval.DivisionZero),
//	)
//
// # Errors
//
// Malformed input, literals that overflow int64, division by a multiple of
// the modulus and nesting beyond the configured depth are reported as
// *types.Error values with distinct codes. Use errors.Is with
// types.ErrMalformed, types.ErrOverflow, types.ErrDivByZero or
// types.ErrDepthExceeded to classify them.
//
// # More Information
//
//   - Parser: github.com/sandrolain/gomodeval/pkg/parser
//   - Evaluator: github.com/sandrolain/gomodeval/pkg/evaluator
//   - Modular arithmetic: github.com/sandrolain/gomodeval/pkg/modular
//   - Types: github.com/sandrolain/gomodeval/pkg/types
package gomodeval

import (
	"context"
	"fmt"
	"time"

	"github.com/sandrolain/gomodeval/pkg/evaluator"
	"github.com/sandrolain/gomodeval/pkg/modular"
	"github.com/sandrolain/gomodeval/pkg/parser"
	"github.com/sandrolain/gomodeval/pkg/types"
)

// Modulus is the prime every result is reduced by.
const Modulus = modular.Modulus

// Version returns the current version of GoModEval.
func Version() string {
	return "v0.1.0-dev"
}

// Compile compiles an expression for repeated evaluation.
//
// The compiled expression can be evaluated multiple times and is safe for
// concurrent use.
//
// Example:
//
//	expr, err := gomodeval.Compile("2 + 3 * 4")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v, _ := evaluator.New().Eval(ctx, expr)
func Compile(query string, opts ...parser.CompileOption) (*types.Expression, error) {
	return parser.Compile(query, opts...)
}

// Eval is a convenience function that compiles and evaluates an expression
// in a single call.
//
// For repeated evaluations of the same expression, use Compile instead.
func Eval(query string, opts ...evaluator.EvalOption) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return EvalWithContext(ctx, query, opts...)
}

// EvalWithContext evaluates an expression with a custom context.
func EvalWithContext(ctx context.Context, query string, opts ...evaluator.EvalOption) (int64, error) {
	return evaluator.New(opts...).EvalString(ctx, query)
}

// EvalDirect evaluates an expression in a single pass without building an AST.
func EvalDirect(ctx context.Context, query string, opts ...evaluator.EvalOption) (int64, error) {
	return evaluator.New(opts...).EvalDirect(ctx, query)
}

// MustCompile is like Compile but panics if the expression cannot be compiled.
// It simplifies safe initialization of global variables.
func MustCompile(query string) *types.Expression {
	expr, err := Compile(query)
	if err != nil {
		panic(fmt.Sprintf("gomodeval: Compile(%q): %v", query, err))
	}
	return expr
}

// DivisionPolicy aliases evaluator.DivisionPolicy.
type DivisionPolicy = evaluator.DivisionPolicy

// Division policies.
const (
	DivisionStrict = evaluator.DivisionStrict
	DivisionZero   = evaluator.DivisionZero
)

// Option re-exports for convenience.
var (
	WithCaching        = evaluator.WithCaching
	WithCacheSize      = evaluator.WithCacheSize
	WithCache          = evaluator.WithCache
	WithTimeout        = evaluator.WithTimeout
	WithDivisionPolicy = evaluator.WithDivisionPolicy
	WithDebug          = evaluator.WithDebug
	WithLogger         = evaluator.WithLogger
	WithMaxDepth       = evaluator.WithMaxDepth
)
