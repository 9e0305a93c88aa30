package evaluator

// Package evaluator evaluates arithmetic expressions modulo a fixed prime.
//
// Two entry points share the same grammar and give identical results:
//   - Eval walks an AST produced by the parser package. Compiled expressions
//     are immutable and may be cached and evaluated many times.
//   - EvalDirect parses and evaluates in a single pass over a cursor, without
//     building a tree.
//
// Every result is in [0, modular.Modulus-1].
//
// # Example
//
//	ev := evaluator.New()
//	v, err := ev.EvalString(ctx, "55 + 68*(5*72)")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Division
//
// By default a divisor congruent to zero is an error. WithDivisionPolicy(DivisionZero)
// restores the behaviour of returning 0 for such divisions.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandrolain/gomodeval/pkg/cache"
	"github.com/sandrolain/gomodeval/pkg/parser"
	"github.com/sandrolain/gomodeval/pkg/types"
)

// DivisionPolicy selects what happens when dividing by a multiple of the modulus.
type DivisionPolicy uint8

const (
	// DivisionStrict reports a division-by-zero error.
	DivisionStrict DivisionPolicy = iota
	// DivisionZero returns 0, like the inverse of zero computed by Fermat's theorem.
	DivisionZero
)

// String returns the policy name as accepted by ParseDivisionPolicy.
func (p DivisionPolicy) String() string {
	switch p {
	case DivisionStrict:
		return "strict"
	case DivisionZero:
		return "zero"
	default:
		return fmt.Sprintf("DivisionPolicy(%d)", uint8(p))
	}
}

// ParseDivisionPolicy parses "strict" or "zero". The empty string is strict.
func ParseDivisionPolicy(s string) (DivisionPolicy, error) {
	switch s {
	case "", "strict":
		return DivisionStrict, nil
	case "zero", "compat":
		return DivisionZero, nil
	default:
		return DivisionStrict, fmt.Errorf("unknown division policy %q", s)
	}
}

// Evaluator evaluates arithmetic expressions.
// It is safe for concurrent use; each call owns its evaluation state.
type Evaluator struct {
	opts   EvalOptions
	logger *slog.Logger
	cache  *cache.Cache // non-nil when Caching is enabled
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Caching enables expression compilation caching in EvalString.
	// The default cache holds up to 256 entries with LRU eviction.
	Caching bool
	// CacheSize sets the maximum number of cached expressions.
	// Only used when Caching is true and no explicit Cache is provided.
	CacheSize int
	// Cache is a custom expression cache. If non-nil, Caching is implicitly enabled.
	Cache *cache.Cache
	// MaxDepth limits parenthesis nesting. Zero or negative disables the limit.
	MaxDepth int
	// Timeout sets evaluation timeout.
	Timeout time.Duration
	// DivisionPolicy selects the behaviour of division by zero.
	DivisionPolicy DivisionPolicy
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// New creates a new Evaluator with default options.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		MaxDepth:       parser.DefaultMaxDepth,
		Timeout:        30 * time.Second,
		DivisionPolicy: DivisionStrict,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	var c *cache.Cache
	if options.Cache != nil {
		c = options.Cache
	} else if options.Caching {
		c = cache.New(options.CacheSize)
	}

	return &Evaluator{
		opts:   options,
		logger: options.Logger,
		cache:  c,
	}
}

// Cache returns the expression cache, or nil if caching is disabled.
func (e *Evaluator) Cache() *cache.Cache {
	return e.cache
}

// Options returns a copy of the evaluator's options.
func (e *Evaluator) Options() EvalOptions {
	return e.opts
}

// Compile parses query with the evaluator's depth limit, going through the
// cache when one is configured.
func (e *Evaluator) Compile(query string) (*types.Expression, error) {
	compact := parser.StripWhitespace(query)
	compile := func() (*types.Expression, error) {
		if e.opts.Debug {
			e.logger.Debug("compiling expression", "source", compact, "cached", e.cache != nil)
		}
		return parser.Compile(compact, parser.WithMaxDepth(e.opts.MaxDepth))
	}
	if e.cache == nil {
		return compile()
	}
	return e.cache.GetOrCompile(compact, compile)
}

// Eval evaluates a compiled expression.
func (e *Evaluator) Eval(ctx context.Context, expr *types.Expression) (int64, error) {
	if expr == nil || expr.AST() == nil {
		return 0, fmt.Errorf("invalid expression")
	}

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	evalCtx := acquireEvalCtx()
	result, err := e.evalNode(ctx, expr.AST(), evalCtx)
	releaseEvalCtx(evalCtx)
	if err != nil {
		return 0, err
	}

	if e.opts.Debug {
		e.logger.Debug("evaluated expression",
			"source", expr.Source(),
			"nodes", expr.Nodes(),
			"result", result,
		)
	}
	return result, nil
}

// EvalString compiles and evaluates query.
func (e *Evaluator) EvalString(ctx context.Context, query string) (int64, error) {
	expr, err := e.Compile(query)
	if err != nil {
		return 0, err
	}
	return e.Eval(ctx, expr)
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithCaching enables or disables expression compilation caching.
// When enabled, a default LRU cache of 256 entries is created.
// To control the cache size use WithCacheSize; to supply your own cache use WithCache.
func WithCaching(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Caching = enabled
	}
}

// WithCacheSize sets the maximum number of cached expressions.
// Only effective when combined with WithCaching(true).
func WithCacheSize(size int) EvalOption {
	return func(opts *EvalOptions) {
		opts.CacheSize = size
	}
}

// WithCache attaches an external expression cache.
// The evaluator will use this cache regardless of the Caching flag.
func WithCache(c *cache.Cache) EvalOption {
	return func(opts *EvalOptions) {
		opts.Cache = c
	}
}

// WithTimeout sets the evaluation timeout.
func WithTimeout(timeout time.Duration) EvalOption {
	return func(opts *EvalOptions) {
		opts.Timeout = timeout
	}
}

// WithDivisionPolicy sets the division-by-zero policy.
func WithDivisionPolicy(policy DivisionPolicy) EvalOption {
	return func(opts *EvalOptions) {
		opts.DivisionPolicy = policy
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// WithMaxDepth sets the maximum parenthesis nesting depth.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}
