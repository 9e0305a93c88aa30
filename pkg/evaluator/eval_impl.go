package evaluator

import (
	"context"
	"fmt"

	"github.com/sandrolain/gomodeval/pkg/modular"
	"github.com/sandrolain/gomodeval/pkg/parser"
	"github.com/sandrolain/gomodeval/pkg/types"
)

// cancelCheckInterval is how many steps pass between context checks.
const cancelCheckInterval = 256

// checkCancel returns ctx.Err() every cancelCheckInterval steps.
func checkCancel(ctx context.Context, evalCtx *EvalContext) error {
	evalCtx.steps++
	if evalCtx.steps%cancelCheckInterval != 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func (e *Evaluator) evalNode(ctx context.Context, node *types.ASTNode, evalCtx *EvalContext) (int64, error) {
	if err := checkCancel(ctx, evalCtx); err != nil {
		return 0, err
	}

	if node == nil {
		return 0, fmt.Errorf("invalid expression: nil node")
	}

	switch node.Type {
	case types.NodeNumber:
		return modular.Reduce(node.Value), nil

	case types.NodeUnary:
		v, err := e.evalNode(ctx, node.LHS, evalCtx)
		if err != nil {
			return 0, err
		}
		if node.Op == '-' {
			return modular.Neg(v), nil
		}
		return v, nil

	case types.NodeGroup:
		if evalCtx.enter(e.opts.MaxDepth) {
			return 0, parser.DepthError(node.Position, e.opts.MaxDepth)
		}
		defer evalCtx.leave()
		return e.evalNode(ctx, node.LHS, evalCtx)

	case types.NodeBinary:
		return e.evalChain(ctx, node, evalCtx)

	default:
		return 0, fmt.Errorf("unknown node type %q", node.Type)
	}
}

// evalChain folds a left-leaning run of same-level binary nodes iteratively,
// so long operator chains do not grow the stack.
func (e *Evaluator) evalChain(ctx context.Context, node *types.ASTNode, evalCtx *EvalContext) (int64, error) {
	sp := acquireSpine()
	defer releaseSpine(sp)

	n := node
	for n.Type == types.NodeBinary && n.Level == node.Level {
		*sp = append(*sp, n)
		n = n.LHS
	}
	spine := *sp

	acc, err := e.evalNode(ctx, n, evalCtx)
	if err != nil {
		return 0, err
	}

	for i := len(spine) - 1; i >= 0; i-- {
		op := spine[i]
		rhs, err := e.evalNode(ctx, op.RHS, evalCtx)
		if err != nil {
			return 0, err
		}
		acc, err = e.apply(op.Op, acc, rhs, op.Position)
		if err != nil {
			return 0, err
		}
	}
	return acc, nil
}

// apply combines two reduced operands. pos locates the operator in the source.
func (e *Evaluator) apply(op byte, a, b int64, pos int) (int64, error) {
	switch op {
	case '+':
		return modular.Add(a, b), nil
	case '-':
		return modular.Sub(a, b), nil
	case '*':
		return modular.Mul(a, b), nil
	case '/':
		return e.divide(a, b, pos)
	default:
		return 0, types.NewError(types.ErrMalformedExpression, fmt.Sprintf("unknown operator %q", op), pos)
	}
}

func (e *Evaluator) divide(a, b int64, pos int) (int64, error) {
	if e.opts.DivisionPolicy == DivisionZero {
		if e.opts.Debug && b == 0 {
			e.logger.Debug("division by zero modulus yields 0", "position", pos)
		}
		return modular.DivUnchecked(a, b), nil
	}

	q, err := modular.Div(a, b)
	if err != nil {
		return 0, types.NewError(types.ErrDivisionByZero, "division by zero modulus", pos).
			WithToken("/").
			WithCause(err)
	}
	return q, nil
}
