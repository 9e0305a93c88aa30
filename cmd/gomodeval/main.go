// Command gomodeval evaluates arithmetic expressions modulo 1000000007.
//
// Each input line holds one expression. Results are written to stdout, one
// per evaluated line; failures are written to stderr as "line N: <error>" and
// processing continues.
//
//	$ printf '1+1\n2*(3+4)\n1/0\n' | gomodeval
//	2
//	14
//	line 3: E0301 at position 1: division by zero modulus
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sandrolain/gomodeval"
)

// errLinesFailed is returned when --fail-on-error is set and a line failed.
// The per-line diagnostics have already been printed.
var errLinesFailed = errors.New("one or more expressions failed")

type options struct {
	configFile     string
	divisionPolicy string
	maxDepth       int
	verbose        bool
	failOnError    bool
	wasmFile       string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "gomodeval [file...]",
		Short: "Evaluate arithmetic expressions modulo 1000000007",
		Long: `Gomodeval reads one arithmetic expression per line and prints its value
modulo the prime 1000000007.

Expressions use non-negative integer literals, + - * /, parentheses and a
unary sign. Division multiplies by the modular inverse of the divisor.

Input is read from the named files, or from stdin when none are given.
When stdin is a terminal a prompt is shown.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())
			return a.runInputs(cmd.Context(), cmd.InOrStdin(), args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "Configuration file (YAML)")
	pf.StringVar(&opts.divisionPolicy, "division-policy", "strict", `Division by zero: "strict" reports an error, "zero" yields 0`)
	pf.IntVar(&opts.maxDepth, "max-depth", 0, "Maximum parenthesis nesting (0 selects the default of 1000, negative disables the limit)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVar(&opts.failOnError, "fail-on-error", false, "Exit with status 1 if any expression fails")
	pf.StringVar(&opts.wasmFile, "wasm", "", "Evaluate with a WASI build of gomodeval instead of natively")

	cmd.AddCommand(newEvalCmd(opts), newVersionCmd())
	return cmd
}

func newEvalCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression>...",
		Short: "Evaluate expressions given as arguments",
		Example: `  gomodeval eval '1/3' '55 + 68*(5*72)'
  gomodeval eval --division-policy zero '1/0'
  gomodeval eval -- '-5'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())
			return a.runArgs(cmd.Context(), args)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gomodeval.Version())
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, errLinesFailed), errors.Is(err, context.Canceled):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
