package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sandrolain/gomodeval/pkg/config"
	"github.com/sandrolain/gomodeval/pkg/evaluator"
	"github.com/sandrolain/gomodeval/pkg/parser"
	"github.com/sandrolain/gomodeval/pkg/wasihost"
)

// app holds the state of one command invocation.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	eval   *evaluator.Evaluator
	guest  *wasihost.Runner // non-nil with --wasm

	stdout io.Writer
	stderr io.Writer
	styles palette

	failed int
}

// palette styles terminal output. The zero value renders plain text.
type palette struct {
	enabled bool
	prompt  lipgloss.Style
	err     lipgloss.Style
	value   lipgloss.Style
}

func newPalette() palette {
	return palette{
		enabled: true,
		prompt:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		value:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

func (p palette) render(s lipgloss.Style, text string) string {
	if !p.enabled {
		return text
	}
	return s.Render(text)
}

// newApp loads the configuration file and lets explicitly set flags override it.
func newApp(cmd *cobra.Command, opts *options) (*app, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("division-policy") {
		cfg.Evaluator.DivisionPolicy = opts.divisionPolicy
	}
	if flags.Changed("max-depth") {
		cfg.Evaluator.MaxDepth = opts.maxDepth
	}
	if flags.Changed("fail-on-error") {
		cfg.CLI.FailOnError = opts.failOnError
	}
	if opts.verbose {
		cfg.CLI.LogLevel = "debug"
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stderr := cmd.ErrOrStderr()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))

	evalOpts := append(cfg.EvalOptions(),
		evaluator.WithLogger(logger),
		evaluator.WithDebug(cfg.LogLevel() <= slog.LevelDebug),
	)

	a := &app{
		cfg:    cfg,
		logger: logger,
		eval:   evaluator.New(evalOpts...),
		stdout: cmd.OutOrStdout(),
		stderr: stderr,
	}

	logger.Debug("configuration loaded",
		"config", opts.configFile,
		"division_policy", cfg.Evaluator.DivisionPolicy,
		"max_depth", cfg.Evaluator.MaxDepth,
		"cache_size", cfg.Evaluator.CacheSize,
		"timeout", cfg.Timeout(),
	)

	if opts.wasmFile != "" {
		guest, err := wasihost.Load(cmd.Context(), opts.wasmFile)
		if err != nil {
			return nil, err
		}
		a.guest = guest
		logger.Debug("using WASI guest", "path", opts.wasmFile)
	}

	return a, nil
}

func (a *app) close(ctx context.Context) {
	if a.guest != nil {
		if err := a.guest.Close(ctx); err != nil {
			a.logger.Warn("closing WASI runtime", "error", err)
		}
	}
}

// runInputs evaluates every line of the named files, or of stdin when there
// are none. "-" names stdin.
func (a *app) runInputs(ctx context.Context, stdin io.Reader, files []string) error {
	if len(files) == 0 {
		interactive := isTerminal(stdin)
		if interactive {
			a.styles = newPalette()
		}
		if err := a.evalLines(ctx, stdin, interactive); err != nil {
			return err
		}
		return a.finish()
	}

	for _, name := range files {
		if err := a.evalFile(ctx, stdin, name); err != nil {
			return err
		}
	}
	return a.finish()
}

func (a *app) evalFile(ctx context.Context, stdin io.Reader, name string) error {
	if name == "-" {
		return a.evalLines(ctx, stdin, false)
	}
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	a.logger.Debug("evaluating file", "path", name)
	return a.evalLines(ctx, f, false)
}

// runArgs evaluates each argument as one expression.
func (a *app) runArgs(ctx context.Context, exprs []string) error {
	if a.guest != nil {
		results, err := a.guest.Eval(ctx, a.cfg.Evaluator.DivisionPolicy, exprs...)
		if err != nil {
			return err
		}
		for i, res := range results {
			a.reportGuest(fmt.Sprintf("argument %d", i+1), res)
		}
		return a.finish()
	}

	for i, src := range exprs {
		v, err := a.eval.EvalString(ctx, src)
		a.report(fmt.Sprintf("argument %d", i+1), v, err)
	}
	return a.finish()
}

// evalLines evaluates r line by line until EOF or cancellation.
func (a *app) evalLines(ctx context.Context, r io.Reader, interactive bool) error {
	if a.guest != nil {
		return a.evalLinesGuest(ctx, r, interactive)
	}

	results, err := a.eval.EvalStream(ctx, r)
	if err != nil {
		return err
	}

	a.prompt(interactive)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				a.endPrompt(interactive)
				return nil
			}
			if res.Fatal() {
				return res.Err
			}
			a.report("line "+strconv.Itoa(res.Line), res.Value, res.Err)
			a.prompt(interactive)
		}
	}
}

// evalLinesGuest is evalLines for the WASI guest. Each line runs in a fresh
// module instance.
func (a *app) evalLinesGuest(ctx context.Context, r io.Reader, interactive bool) error {
	lr := evaluator.NewLineReader(r)

	a.prompt(interactive)
	for {
		line, text, err := lr.Next()
		switch {
		case err == io.EOF:
			a.endPrompt(interactive)
			return nil
		case errors.Is(err, evaluator.ErrLineTooLong):
			a.report("line "+strconv.Itoa(line), 0, err)
			continue
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		}

		src := parser.StripWhitespace(text)
		if src == "" {
			continue
		}

		results, err := a.guest.Eval(ctx, a.cfg.Evaluator.DivisionPolicy, src)
		if err != nil {
			return err
		}
		a.reportGuest("line "+strconv.Itoa(line), results[0])
		a.prompt(interactive)
	}
}

func (a *app) report(label string, v int64, err error) {
	if err != nil {
		a.failed++
		fmt.Fprintln(a.stderr, a.styles.render(a.styles.err, label+": "+err.Error()))
		return
	}
	fmt.Fprintln(a.stdout, a.styles.render(a.styles.value, strconv.FormatInt(v, 10)))
}

func (a *app) reportGuest(label string, res wasihost.Result) {
	if res.Error != "" || res.Value == nil {
		msg := res.Error
		if msg == "" {
			msg = "guest returned no value"
		}
		a.report(label, 0, errors.New(msg))
		return
	}
	a.report(label, *res.Value, nil)
}

func (a *app) prompt(interactive bool) {
	if interactive {
		fmt.Fprint(a.stdout, a.styles.render(a.styles.prompt, a.cfg.CLI.Prompt))
	}
}

func (a *app) endPrompt(interactive bool) {
	if interactive {
		fmt.Fprintln(a.stdout)
	}
}

func (a *app) finish() error {
	a.logger.Debug("input exhausted", "failed", a.failed)
	if a.failed > 0 && a.cfg.CLI.FailOnError {
		return errLinesFailed
	}
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
