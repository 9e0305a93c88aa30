package parser

import (
	"math"

	"github.com/sandrolain/gomodeval/pkg/types"
)

// ReadLiteral consumes the maximal run of decimal digits under the cursor and
// returns its value. The value is not reduced by the modulus.
//
// The cursor must be positioned at a digit. A run that does not fit in an
// int64 fails with an ErrLiteralOverflow error; the cursor is still moved
// past the whole run.
func ReadLiteral(c *Cursor) (int64, error) {
	start := c.Pos()
	var value int64
	overflow := false
	for isDigit(c.Peek()) {
		d := int64(c.Peek() - '0')
		if !overflow && value > (math.MaxInt64-d)/10 {
			overflow = true
		}
		if !overflow {
			value = value*10 + d
		}
		c.Advance()
	}
	if c.Pos() == start {
		return 0, ErrorAt(c, types.ErrMalformedExpression, "expected digit")
	}
	if overflow {
		return 0, types.NewError(types.ErrLiteralOverflow, "integer literal out of range", start).
			WithToken(c.Input()[start:c.Pos()])
	}
	return value, nil
}
