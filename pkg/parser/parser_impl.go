package parser

import (
	"fmt"

	"github.com/sandrolain/gomodeval/pkg/types"
)

// Parser implements a recursive descent parser for arithmetic expressions.
// Each call to parseLevel consumes exactly one unit of the level it is given.
type Parser struct {
	cur   *Cursor
	arena *types.NodeArena
	depth int
	opts  CompileOptions
}

// NewParser creates a new parser for the given input string.
// Spaces and tabs in input are ignored.
func NewParser(input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Parser{
		cur:   NewCursor(StripWhitespace(input)),
		arena: types.NewNodeArena(),
		opts:  options,
	}
}

// Parse parses the entire input and returns the compiled expression.
func (p *Parser) Parse() (*types.Expression, error) {
	if p.cur.AtEnd() {
		return nil, EmptyExpressionError(p.cur)
	}

	node, err := p.parseLevel(types.LevelExpression)
	if err != nil {
		return nil, err
	}

	if !p.cur.AtEnd() {
		return nil, TrailingInputError(p.cur)
	}

	return types.NewExpressionFromArena(node, p.cur.Input(), p.arena), nil
}

// ErrorAt builds an error positioned at the cursor.
func ErrorAt(c *Cursor, code types.ErrorCode, message string) *types.Error {
	return types.NewError(code, message, c.Pos()).WithToken(c.token())
}

// EmptyExpressionError reports input with nothing to evaluate.
func EmptyExpressionError(c *Cursor) *types.Error {
	return ErrorAt(c, types.ErrMalformedExpression, "empty expression")
}

// TrailingInputError reports input left over after a complete expression.
func TrailingInputError(c *Cursor) *types.Error {
	return ErrorAt(c, types.ErrMalformedExpression, fmt.Sprintf("unexpected character %q", c.Peek()))
}

// MissingOperandError reports a factor that is neither a literal nor a group.
func MissingOperandError(c *Cursor) *types.Error {
	if c.AtEnd() {
		return ErrorAt(c, types.ErrMalformedExpression, "missing operand at end of expression")
	}
	return ErrorAt(c, types.ErrMalformedExpression, fmt.Sprintf("missing operand before %q", c.Peek()))
}

// UnclosedGroupError reports a group whose closing byte is not ')'.
func UnclosedGroupError(c *Cursor) *types.Error {
	return ErrorAt(c, types.ErrMalformedExpression, "expected ')'")
}

// DepthError reports nesting beyond limit at position pos.
func DepthError(pos, limit int) *types.Error {
	return types.NewError(types.ErrStackOverflow, fmt.Sprintf("nesting deeper than %d", limit), pos)
}

// Binds reports whether ch is a binary operator at level.
// Factor binds no binary operator.
func Binds(level types.Level, ch byte) bool {
	switch level {
	case types.LevelExpression:
		return ch == '+' || ch == '-'
	case types.LevelTerm:
		return ch == '*' || ch == '/'
	default:
		return false
	}
}

// parseLevel parses one unit at the given level.
func (p *Parser) parseLevel(level types.Level) (*types.ASTNode, error) {
	if level == types.LevelFactor {
		return p.parseFactor()
	}

	left, err := p.parseLevel(level.Next())
	if err != nil {
		return nil, err
	}

	// Fold while the next byte is an operator of this level. Anything else,
	// including ')' and the end of input, belongs to the caller.
	for op := p.cur.Peek(); Binds(level, op); op = p.cur.Peek() {
		pos := p.cur.Pos()
		p.cur.Advance()

		right, err := p.parseLevel(level.Next())
		if err != nil {
			return nil, err
		}

		node := p.arena.Alloc(types.NodeBinary, pos)
		node.Op = op
		node.Level = level
		node.LHS = left
		node.RHS = right
		left = node
	}

	return left, nil
}

// parseFactor parses an optionally signed literal or parenthesised expression.
// Only one sign is accepted per factor.
func (p *Parser) parseFactor() (*types.ASTNode, error) {
	start := p.cur.Pos()

	var sign byte
	if ch := p.cur.Peek(); ch == '+' || ch == '-' {
		sign = ch
		p.cur.Advance()
	}

	operand, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	if sign == 0 {
		return operand, nil
	}

	node := p.arena.Alloc(types.NodeUnary, start)
	node.Op = sign
	node.Level = types.LevelFactor
	node.LHS = operand
	return node, nil
}

func (p *Parser) parseOperand() (*types.ASTNode, error) {
	ch := p.cur.Peek()
	switch {
	case isDigit(ch):
		pos := p.cur.Pos()
		v, err := ReadLiteral(p.cur)
		if err != nil {
			return nil, err
		}
		node := p.arena.Alloc(types.NodeNumber, pos)
		node.Value = v
		node.Level = types.LevelFactor
		return node, nil

	case ch == '(':
		return p.parseGroup()

	default:
		return nil, MissingOperandError(p.cur)
	}
}

func (p *Parser) parseGroup() (*types.ASTNode, error) {
	pos := p.cur.Pos()
	p.cur.Advance() // (

	p.depth++
	defer func() { p.depth-- }()
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return nil, DepthError(pos, p.opts.MaxDepth)
	}

	inner, err := p.parseLevel(types.LevelExpression)
	if err != nil {
		return nil, err
	}

	if p.cur.Peek() != ')' {
		return nil, UnclosedGroupError(p.cur)
	}
	p.cur.Advance()

	node := p.arena.Alloc(types.NodeGroup, pos)
	node.Level = types.LevelFactor
	node.LHS = inner
	return node, nil
}
