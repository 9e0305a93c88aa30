package evaluator

import (
	"context"

	"github.com/sandrolain/gomodeval/pkg/modular"
	"github.com/sandrolain/gomodeval/pkg/parser"
	"github.com/sandrolain/gomodeval/pkg/types"
)

// EvalDirect parses and evaluates query in one pass, without building an AST
// or touching the cache. It returns the same values as EvalString. When the
// input has several faults the reported error can differ, because EvalDirect
// stops at the first one it reaches, e.g. a division by zero before a later
// syntax error.
func (e *Evaluator) EvalDirect(ctx context.Context, query string) (int64, error) {
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	cur := parser.NewCursor(parser.StripWhitespace(query))
	if cur.AtEnd() {
		return 0, parser.EmptyExpressionError(cur)
	}

	evalCtx := acquireEvalCtx()
	result, err := e.Evaluate(ctx, cur, types.LevelExpression, evalCtx)
	releaseEvalCtx(evalCtx)
	if err != nil {
		return 0, err
	}
	if !cur.AtEnd() {
		return 0, parser.TrailingInputError(cur)
	}

	if e.opts.Debug {
		e.logger.Debug("evaluated expression", "source", cur.Input(), "direct", true, "result", result)
	}
	return result, nil
}

// Evaluate consumes exactly one unit of the given level from cur and returns
// its value. On return cur points just past that unit; a byte that does not
// belong to the unit, such as ')' or an operator of a looser level, is left
// unconsumed for the caller.
func (e *Evaluator) Evaluate(ctx context.Context, cur *parser.Cursor, level types.Level, evalCtx *EvalContext) (int64, error) {
	if err := checkCancel(ctx, evalCtx); err != nil {
		return 0, err
	}

	if level == types.LevelFactor {
		return e.evaluateFactor(ctx, cur, evalCtx)
	}

	acc, err := e.Evaluate(ctx, cur, level.Next(), evalCtx)
	if err != nil {
		return 0, err
	}

	for op := cur.Peek(); parser.Binds(level, op); op = cur.Peek() {
		pos := cur.Pos()
		cur.Advance()

		rhs, err := e.Evaluate(ctx, cur, level.Next(), evalCtx)
		if err != nil {
			return 0, err
		}
		acc, err = e.apply(op, acc, rhs, pos)
		if err != nil {
			return 0, err
		}
	}
	return acc, nil
}

func (e *Evaluator) evaluateFactor(ctx context.Context, cur *parser.Cursor, evalCtx *EvalContext) (int64, error) {
	negate := false
	if ch := cur.Peek(); ch == '+' || ch == '-' {
		negate = ch == '-'
		cur.Advance()
	}

	var v int64
	switch ch := cur.Peek(); {
	case parser.IsDigit(ch):
		lit, err := parser.ReadLiteral(cur)
		if err != nil {
			return 0, err
		}
		v = modular.Reduce(lit)

	case ch == '(':
		pos := cur.Pos()
		cur.Advance()
		if evalCtx.enter(e.opts.MaxDepth) {
			return 0, parser.DepthError(pos, e.opts.MaxDepth)
		}
		inner, err := e.Evaluate(ctx, cur, types.LevelExpression, evalCtx)
		evalCtx.leave()
		if err != nil {
			return 0, err
		}
		if cur.Peek() != ')' {
			return 0, parser.UnclosedGroupError(cur)
		}
		cur.Advance()
		v = inner

	default:
		return 0, parser.MissingOperandError(cur)
	}

	if negate {
		return modular.Neg(v), nil
	}
	return v, nil
}
