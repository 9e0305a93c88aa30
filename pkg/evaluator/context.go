package evaluator

// EvalContext holds the mutable state of one evaluation.
// It is never shared between goroutines.
type EvalContext struct {
	// depth is the current parenthesis nesting
	depth int

	// steps counts visited nodes or factors
	steps int
}

// NewContext creates a new evaluation context.
func NewContext() *EvalContext {
	return &EvalContext{}
}

// Depth returns the current nesting depth.
func (c *EvalContext) Depth() int {
	return c.depth
}

// Steps returns the number of nodes or factors visited so far.
func (c *EvalContext) Steps() int {
	return c.steps
}

// enter increments the nesting depth and reports whether limit is exceeded.
// A non-positive limit never trips.
func (c *EvalContext) enter(limit int) bool {
	c.depth++
	return limit > 0 && c.depth > limit
}

func (c *EvalContext) leave() {
	c.depth--
}
