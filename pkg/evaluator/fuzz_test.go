package evaluator_test

import (
	"context"
	"testing"

	"github.com/sandrolain/gomodeval/pkg/evaluator"
)

// FuzzEvaluator checks that the compiled and direct paths agree on every
// input that both accept, and that results stay in range.
func FuzzEvaluator(f *testing.F) {
	seeds := []string{
		`1 + 2 * 3`,
		`(2+3)*4`,
		`8-3-2`,
		`-(1)`,
		`7/3*3`,
		`1/0`,
		`--5`,
		`(`,
		``,
		"0\r ",
		"1 +\t2\r\r",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	ev := evaluator.New(evaluator.WithMaxDepth(64), evaluator.WithTimeout(0))
	f.Fuzz(func(t *testing.T, input string) {
		ctx := context.Background()
		compiled, cerr := ev.EvalString(ctx, input)
		direct, derr := ev.EvalDirect(ctx, input)
		if cerr != nil || derr != nil {
			if (cerr == nil) != (derr == nil) {
				t.Fatalf("%q: compiled err %v, direct err %v", input, cerr, derr)
			}
			return
		}
		if compiled != direct {
			t.Fatalf("%q: compiled %d, direct %d", input, compiled, direct)
		}
		if compiled < 0 || compiled >= m {
			t.Fatalf("%q: result %d out of range", input, compiled)
		}
	})
}
