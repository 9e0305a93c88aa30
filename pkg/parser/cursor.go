package parser

// eof is returned by Peek once the input is exhausted.
const eof = 0

// Cursor is a forward-only position into whitespace-free expression text.
// It marks the next unconsumed byte.
//
// A Cursor is owned by a single call chain and is NOT thread-safe.
type Cursor struct {
	input string
	pos   int
}

// NewCursor returns a cursor at the start of input.
// input must already be stripped of whitespace, see StripWhitespace.
func NewCursor(input string) *Cursor {
	return &Cursor{input: input}
}

// Peek returns the byte under the cursor without consuming it,
// or eof at the end of the input.
func (c *Cursor) Peek() byte {
	if c.pos >= len(c.input) {
		return eof
	}
	return c.input[c.pos]
}

// Advance consumes one byte. It is a no-op at the end of the input.
func (c *Cursor) Advance() {
	if c.pos < len(c.input) {
		c.pos++
	}
}

// Pos returns the offset of the next unconsumed byte.
func (c *Cursor) Pos() int {
	return c.pos
}

// AtEnd reports whether the whole input has been consumed.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.input)
}

// Input returns the text the cursor walks.
func (c *Cursor) Input() string {
	return c.input
}

// Rest returns the unconsumed suffix.
func (c *Cursor) Rest() string {
	return c.input[c.pos:]
}

// token returns the byte under the cursor as a string, or "" at the end.
func (c *Cursor) token() string {
	if c.AtEnd() {
		return ""
	}
	return c.input[c.pos : c.pos+1]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// IsDigit reports whether ch is an ASCII decimal digit.
func IsDigit(ch byte) bool {
	return isDigit(ch)
}
