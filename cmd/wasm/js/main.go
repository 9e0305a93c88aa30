//go:build js && wasm

// Command gomodeval-wasm-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `gomodeval` object with the following API:
//
//	gomodeval.version()           → string
//	gomodeval.modulus()           → number
//	gomodeval.eval(expression)    → string  (decimal result, throws on error)
//	gomodeval.compile(expression) → { eval() → string, source }  (throws on error)
//
// Results are returned as decimal strings; they fit in a JS number, but this
// keeps the API uniform with callers that use BigInt.
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o gomodeval.wasm ./cmd/wasm/js/
//
// Usage in Node.js:
//
//	require('./wasm_exec.js')
//	// ... instantiate gomodeval.wasm with new Go().importObject
//	console.log(gomodeval.eval('1/3')) // '333333336'
package main

import (
	"context"
	"fmt"
	"strconv"
	"syscall/js"

	"github.com/sandrolain/gomodeval"
	"github.com/sandrolain/gomodeval/pkg/evaluator"
)

// jsThrow panics with a JS Error so the caller receives a thrown exception.
func jsThrow(msg string) {
	js.Global().Get("Error").New(msg)
	panic(msg)
}

// jsEval implements gomodeval.eval(expression) → string.
func jsEval(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("gomodeval.eval requires 1 argument: expression (string)")
	}

	v, err := gomodeval.EvalWithContext(context.Background(), args[0].String())
	if err != nil {
		jsThrow(fmt.Sprintf("gomodeval.eval: %v", err))
	}
	return strconv.FormatInt(v, 10)
}

// jsCompile implements gomodeval.compile(expression) → { eval() → string }.
func jsCompile(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("gomodeval.compile requires 1 argument: expression (string)")
	}

	expr, err := gomodeval.Compile(args[0].String())
	if err != nil {
		jsThrow(fmt.Sprintf("gomodeval.compile: %v", err))
	}

	ev := evaluator.New()

	evalFn := js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
		v, e := ev.Eval(context.Background(), expr)
		if e != nil {
			jsThrow(fmt.Sprintf("compiled.eval: %v", e))
		}
		return strconv.FormatInt(v, 10)
	})

	return js.ValueOf(map[string]interface{}{
		"eval":   evalFn,
		"source": expr.Source(),
	})
}

func main() {
	api := map[string]interface{}{
		"eval":    js.FuncOf(jsEval),
		"compile": js.FuncOf(jsCompile),
		"modulus": js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
			return float64(gomodeval.Modulus)
		}),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
			return gomodeval.Version()
		}),
	}
	js.Global().Set("gomodeval", js.ValueOf(api))

	// Block forever; the JS event loop owns execution from here.
	select {}
}
