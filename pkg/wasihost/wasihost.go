// Package wasihost runs the WASI build of gomodeval (cmd/wasm/wasi) inside a
// wazero runtime.
//
// The guest reads one JSON request on stdin and writes one JSON response on
// stdout:
//
//	stdin:  { "expressions": ["1+1", "1/0"], "division_policy": "strict" }
//	stdout: { "results": [ {"value": 2}, {"error": "E0301 ..."} ] }
//
// The compiled module is kept for the lifetime of the Runner; each call gets
// a fresh, anonymous module instance.
package wasihost

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
)

// Request is the JSON document the guest reads from stdin.
type Request struct {
	Expressions    []string `json:"expressions"`
	DivisionPolicy string   `json:"division_policy,omitempty"`
}

// Result is the outcome for one expression.
type Result struct {
	Value *int64 `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// Response is the JSON document the guest writes to stdout.
type Response struct {
	Results []Result `json:"results,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Runner holds a wazero runtime and the compiled guest module.
type Runner struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
}

// New compiles wasm and prepares a runtime with WASI preview 1 imports.
func New(ctx context.Context, wasm []byte) (*Runner, error) {
	rt := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)

	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("compile wasm module: %w", err)
	}
	return &Runner{runtime: rt, compiled: compiled}, nil
}

// Load reads a .wasm file and calls New.
func Load(ctx context.Context, path string) (*Runner, error) {
	wasm, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wasm module: %w", err)
	}
	return New(ctx, wasm)
}

// Run instantiates the module with the given stdio and runs it to completion.
// It returns the guest's exit code. A non-nil error means the guest could
// not be run at all.
func (r *Runner) Run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) (uint32, error) {
	cfg := wazero.NewModuleConfig().
		WithName("").
		WithArgs("gomodeval").
		WithStdin(stdin).
		WithStdout(stdout).
		WithStderr(stderr).
		WithSysWalltime().
		WithSysNanotime().
		WithRandSource(rand.Reader)

	mod, err := r.runtime.InstantiateModule(ctx, r.compiled, cfg)
	if mod != nil {
		defer mod.Close(ctx)
	}
	if err != nil {
		var exitErr *sys.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("run wasm module: %w", err)
	}
	return 0, nil
}

// Eval sends expressions to the guest and decodes its response.
// The returned slice has one Result per expression.
func (r *Runner) Eval(ctx context.Context, divisionPolicy string, expressions ...string) ([]Result, error) {
	req, err := json.Marshal(Request{Expressions: expressions, DivisionPolicy: divisionPolicy})
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	code, err := r.Run(ctx, bytes.NewReader(req), &stdout, &stderr)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("decode guest response (exit %d, stderr %q): %w", code, stderr.String(), err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("guest error (exit %d): %s", code, resp.Error)
	}
	if len(resp.Results) != len(expressions) {
		return nil, fmt.Errorf("guest returned %d results for %d expressions", len(resp.Results), len(expressions))
	}
	return resp.Results, nil
}

// Close releases the runtime and the compiled module.
func (r *Runner) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}
