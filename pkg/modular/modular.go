// Package modular implements arithmetic over the integers modulo a fixed prime.
//
// Every function returns a value in [0, Modulus-1]. Operands are expected to be
// reduced already, except for Reduce which accepts any int64.
//
// Division is multiplication by the modular inverse, computed with Fermat's
// little theorem (b^(M-2) mod M). That is only valid because Modulus is prime.
//
// # Example
//
//	q, err := modular.Div(7, 3)
//	if err != nil {
//	    return err
//	}
//	// modular.Mul(q, 3) == 7
package modular

import "errors"

// Modulus is the prime every result is reduced by.
const Modulus int64 = 1_000_000_007

// ErrDivisionByZero is returned by Div when the divisor is congruent to zero.
var ErrDivisionByZero = errors.New("modular: division by zero modulus")

// Reduce maps any int64 into [0, Modulus-1].
func Reduce(x int64) int64 {
	x %= Modulus
	if x < 0 {
		x += Modulus
	}
	return x
}

// Add returns (a + b) mod Modulus.
func Add(a, b int64) int64 {
	return (a + b) % Modulus
}

// Sub returns (a - b) mod Modulus, never negative.
func Sub(a, b int64) int64 {
	return (a - b + Modulus) % Modulus
}

// Neg returns the additive inverse of a.
func Neg(a int64) int64 {
	return Sub(0, a)
}

// Mul returns (a * b) mod Modulus.
// Both operands are below 2^30, so the product fits in an int64.
func Mul(a, b int64) int64 {
	return (a * b) % Modulus
}

// Pow returns base^exp mod Modulus using square-and-multiply.
// exp must be non-negative; Pow(x, 0) is 1 for every x, including 0.
func Pow(base, exp int64) int64 {
	result := int64(1)
	base = Reduce(base)
	for exp > 0 {
		if exp&1 == 1 {
			result = Mul(result, base)
		}
		base = Mul(base, base)
		exp >>= 1
	}
	return result
}

// Inverse returns the multiplicative inverse of b.
// The result is 0 when b is congruent to zero; callers that care use Div.
func Inverse(b int64) int64 {
	return Pow(b, Modulus-2)
}

// Div returns a * b^-1 mod Modulus.
// It fails with ErrDivisionByZero when b is congruent to zero.
func Div(a, b int64) (int64, error) {
	if Reduce(b) == 0 {
		return 0, ErrDivisionByZero
	}
	return Mul(a, Inverse(b)), nil
}

// DivUnchecked is Div without the zero check. Dividing by zero yields 0,
// because Inverse(0) is 0.
func DivUnchecked(a, b int64) int64 {
	return Mul(a, Inverse(b))
}
