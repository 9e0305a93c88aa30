package modular_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/gomodeval/pkg/modular"
)

const m = modular.Modulus

// samples returns n pseudo-random residues plus the boundary values.
func samples(n int) []int64 {
	r := rand.New(rand.NewSource(1))
	out := []int64{0, 1, 2, m - 2, m - 1}
	for i := 0; i < n; i++ {
		out = append(out, r.Int63n(m))
	}
	return out
}

func inRange(t *testing.T, v int64) {
	t.Helper()
	assert.GreaterOrEqual(t, v, int64(0))
	assert.Less(t, v, m)
}

func TestReduce(t *testing.T) {
	tests := []struct {
		name string
		in   int64
		want int64
	}{
		{"zero", 0, 0},
		{"small", 42, 42},
		{"modulus", m, 0},
		{"above modulus", m + 5, 5},
		{"negative", -1, m - 1},
		{"negative multiple", -3 * m, 0},
		{"large", 9_000_000_000_000_000_000, 9_000_000_000_000_000_000 % m},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, modular.Reduce(tt.in))
		})
	}
}

func TestBinaryOpsStayInRange(t *testing.T) {
	xs := samples(200)
	for i, a := range xs {
		b := xs[len(xs)-1-i]
		inRange(t, modular.Add(a, b))
		inRange(t, modular.Sub(a, b))
		inRange(t, modular.Mul(a, b))
		inRange(t, modular.Neg(a))
	}
}

func TestAddSubInverse(t *testing.T) {
	xs := samples(100)
	for i, a := range xs {
		b := xs[(i+7)%len(xs)]
		assert.Equal(t, a, modular.Sub(modular.Add(a, b), b))
	}
}

func TestSubNeverNegative(t *testing.T) {
	assert.Equal(t, m-1, modular.Sub(0, 1))
	assert.Equal(t, int64(0), modular.Sub(m-1, m-1))
	assert.Equal(t, int64(1), modular.Sub(0, m-1))
}

func TestMulWraps(t *testing.T) {
	// (M-1)^2 = M^2 - 2M + 1 ≡ 1
	assert.Equal(t, int64(1), modular.Mul(m-1, m-1))
	assert.Equal(t, int64(0), modular.Mul(0, m-1))
}

func TestPow(t *testing.T) {
	for _, a := range samples(50) {
		assert.Equal(t, int64(1), modular.Pow(a, 0), "pow(%d, 0)", a)
		assert.Equal(t, a%m, modular.Pow(a, 1), "pow(%d, 1)", a)
	}
	assert.Equal(t, int64(1024), modular.Pow(2, 10))
	assert.Equal(t, int64(1), modular.Pow(0, 0))
	assert.Equal(t, int64(0), modular.Pow(0, 5))
	// Fermat: a^(M-1) ≡ 1 for a != 0
	assert.Equal(t, int64(1), modular.Pow(123456789, m-1))
	// non-reduced base
	assert.Equal(t, int64(4), modular.Pow(m+2, 2))
}

func TestDivInvertsMul(t *testing.T) {
	xs := samples(200)
	for i, a := range xs {
		b := xs[(i+3)%len(xs)]
		if b == 0 {
			continue
		}
		q, err := modular.Div(a, b)
		require.NoError(t, err)
		inRange(t, q)
		assert.Equal(t, a, modular.Mul(q, b), "div(%d, %d) * %d", a, b, b)
	}
}

func TestDivKnownValues(t *testing.T) {
	q, err := modular.Div(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(500000004), q)

	q, err = modular.Div(6, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), q)
}

func TestDivByZero(t *testing.T) {
	_, err := modular.Div(5, 0)
	assert.ErrorIs(t, err, modular.ErrDivisionByZero)

	_, err = modular.Div(5, m)
	assert.ErrorIs(t, err, modular.ErrDivisionByZero)

	assert.Equal(t, int64(0), modular.DivUnchecked(5, 0))
}

func TestInverse(t *testing.T) {
	for _, b := range samples(50) {
		if b == 0 {
			assert.Equal(t, int64(0), modular.Inverse(b))
			continue
		}
		assert.Equal(t, int64(1), modular.Mul(b, modular.Inverse(b)))
	}
}

func BenchmarkPow(b *testing.B) {
	for i := 0; i < b.N; i++ {
		modular.Pow(int64(i)+2, m-2)
	}
}
