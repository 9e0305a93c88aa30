package gomodeval_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sandrolain/gomodeval"
	"github.com/sandrolain/gomodeval/pkg/types"
)

func TestEval(t *testing.T) {
	tests := []struct {
		query string
		want  int64
	}{
		{"42", 42},
		{"1 + 2 * 3", 7},
		{"(2+3)*4", 20},
		{"8-3-2", 3},
		{"-5", gomodeval.Modulus - 5},
		{"1/3", 333333336},
		{"55 + 68*(5*72+32*3*1*1*2*1*1*(4+5*(7+3+2+3*4*(5+2*3*2)*5*5)))", 333788119},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := gomodeval.Eval(tt.query)
			if err != nil {
				t.Fatalf("Eval(%q): %v", tt.query, err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %d, want %d", tt.query, got, tt.want)
			}

			direct, err := gomodeval.EvalDirect(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("EvalDirect(%q): %v", tt.query, err)
			}
			if direct != got {
				t.Errorf("EvalDirect(%q) = %d, Eval = %d", tt.query, direct, got)
			}
		})
	}
}

func TestEvalOptions(t *testing.T) {
	if _, err := gomodeval.Eval("1/0"); !errors.Is(err, types.ErrDivByZero) {
		t.Errorf("expected division by zero, got %v", err)
	}

	got, err := gomodeval.Eval("1/0", gomodeval.WithDivisionPolicy(gomodeval.DivisionZero))
	if err != nil || got != 0 {
		t.Errorf("zero policy: got %d, %v", got, err)
	}

	if _, err := gomodeval.Eval("((1))", gomodeval.WithMaxDepth(1)); !errors.Is(err, types.ErrDepthExceeded) {
		t.Errorf("expected depth error, got %v", err)
	}
}

func TestEvalWithContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	query := strings.Repeat("1+", 5000) + "1"
	if _, err := gomodeval.EvalWithContext(ctx, query); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCompile(t *testing.T) {
	expr, err := gomodeval.Compile(" 1 + ( 2 * 3 ) ")
	if err != nil {
		t.Fatal(err)
	}
	if expr.Source() != "1+(2*3)" {
		t.Errorf("Source() = %q", expr.Source())
	}

	if _, err := gomodeval.Compile("1+"); !errors.Is(err, types.ErrMalformed) {
		t.Errorf("expected malformed expression, got %v", err)
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile did not panic")
		}
	}()
	gomodeval.MustCompile("(1")
}

func TestVersion(t *testing.T) {
	if gomodeval.Version() == "" {
		t.Error("empty version")
	}
}

func ExampleEval() {
	v, err := gomodeval.Eval("1 + 1 * 2 + 2 * (3 + 5 * 4)")
	if err != nil {
		panic(err)
	}
	fmt.Println(v)
	// Output: 49
}

func ExampleEval_inverse() {
	v, _ := gomodeval.Eval("1/3")
	fmt.Println(v)
	// Output: 333333336
}

func ExampleEval_divisionPolicy() {
	_, err := gomodeval.Eval("5/(1000000007)")
	fmt.Println(errors.Is(err, types.ErrDivByZero))

	v, _ := gomodeval.Eval("5/(1000000007)", gomodeval.WithDivisionPolicy(gomodeval.DivisionZero))
	fmt.Println(v)
	// Output:
	// true
	// 0
}
