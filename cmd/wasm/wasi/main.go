//go:build wasip1

// Command gomodeval-wasm-wasi is the WASI (wasip1) entrypoint for use from any
// language that supports the WebAssembly System Interface.
//
// Protocol: single JSON object on stdin → single JSON object on stdout.
//
//	stdin:  { "expressions": ["1+1", "1/0"], "division_policy": "strict" }
//	stdout: { "results": [ {"value": 2}, {"error": "E0301 ..."} ] }
//	        { "error": "<message>" }    on a bad request (exit code 1)
//
// Per-expression failures are reported in their result and do not change the
// exit code.
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o gomodeval.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"expressions":["2*(3+4)"]}' | wasmtime gomodeval.wasm
//
// From Go, see package pkg/wasihost.
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/sandrolain/gomodeval/pkg/evaluator"
)

type request struct {
	Expressions    []string `json:"expressions"`
	DivisionPolicy string   `json:"division_policy,omitempty"`
}

type result struct {
	Value *int64 `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

type response struct {
	Results []result `json:"results,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func writeResponse(r response, exitCode int) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	os.Exit(exitCode)
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(response{Error: "invalid request JSON: " + err.Error()}, 1)
	}

	policy, err := evaluator.ParseDivisionPolicy(req.DivisionPolicy)
	if err != nil {
		writeResponse(response{Error: err.Error()}, 1)
	}

	ev := evaluator.New(evaluator.WithDivisionPolicy(policy))
	ctx := context.Background()

	results := make([]result, len(req.Expressions))
	for i, src := range req.Expressions {
		v, err := ev.EvalString(ctx, src)
		if err != nil {
			results[i].Error = err.Error()
			continue
		}
		results[i].Value = &v
	}

	writeResponse(response{Results: results}, 0)
}
