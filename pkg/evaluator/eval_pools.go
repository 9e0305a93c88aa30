package evaluator

import (
	"sync"

	"github.com/sandrolain/gomodeval/pkg/types"
)

// evalCtxPool is a process-wide pool of *EvalContext, one per top-level Eval
// or EvalDirect call.
//
// THREAD-SAFETY AUDIT: safe.
//   - sync.Pool is designed for concurrent use.
//   - Each caller receives exclusive ownership via acquireEvalCtx; the context
//     is never shared between goroutines and never escapes the call.
var evalCtxPool = sync.Pool{
	New: func() interface{} { return new(EvalContext) },
}

// acquireEvalCtx returns a zeroed EvalContext from the pool.
func acquireEvalCtx() *EvalContext {
	c := evalCtxPool.Get().(*EvalContext)
	c.depth = 0
	c.steps = 0
	return c
}

// releaseEvalCtx returns c to the pool.
func releaseEvalCtx(c *EvalContext) {
	if c == nil {
		return
	}
	evalCtxPool.Put(c)
}

// spinePool holds the scratch slices evalChain uses to unwind a left-leaning
// operator chain.
//
// THREAD-SAFETY AUDIT: safe.
//   - Each slice is owned by one evalChain frame between acquire and release.
//   - Node pointers are cleared before pooling so compiled trees are not retained.
var spinePool = sync.Pool{
	New: func() interface{} {
		s := make([]*types.ASTNode, 0, 16)
		return &s
	},
}

func acquireSpine() *[]*types.ASTNode {
	s := spinePool.Get().(*[]*types.ASTNode)
	*s = (*s)[:0]
	return s
}

// releaseSpine returns s to the pool. Very long spines are discarded to
// prevent unbounded memory retention.
func releaseSpine(s *[]*types.ASTNode) {
	if cap(*s) > 4096 {
		return
	}
	clear(*s)
	*s = (*s)[:0]
	spinePool.Put(s)
}
