package types

import "fmt"

// ErrorCode classifies an evaluation failure.
type ErrorCode string

// Error codes.
const (
	// E01xx: syntax
	ErrMalformedExpression ErrorCode = "E0101"

	// E02xx: literals
	ErrLiteralOverflow ErrorCode = "E0201"

	// E03xx: arithmetic
	ErrDivisionByZero ErrorCode = "E0301"

	// E04xx: resources
	ErrStackOverflow ErrorCode = "E0401"
)

// Sentinels for errors.Is. Any *Error with the same code matches.
var (
	ErrMalformed     = &Error{Code: ErrMalformedExpression, Message: "malformed expression", Position: -1}
	ErrOverflow      = &Error{Code: ErrLiteralOverflow, Message: "literal overflow", Position: -1}
	ErrDivByZero     = &Error{Code: ErrDivisionByZero, Message: "division by zero modulus", Position: -1}
	ErrDepthExceeded = &Error{Code: ErrStackOverflow, Message: "maximum nesting depth exceeded", Position: -1}
)

// Error represents a structured evaluation error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new error at the given offset into the compact source.
// Pass a negative position when no offset applies.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}
