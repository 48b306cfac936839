package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-logo/qlogo/internal/evaluator"
	"github.com/go-logo/qlogo/internal/interp"
	"github.com/go-logo/qlogo/internal/terminal"
	"github.com/go-logo/qlogo/internal/turtle"
)

var prompt string

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Logo session",
	Long:  `Read-eval-print loop over stdin/stdout, printing each error and top-level output, until end of input.`,
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringVar(&prompt, "prompt", "? ", "prompt string shown before each input line")
	replCmd.Flags().BoolVar(&trace, "trace", false, "trace GOTO jumps")
}

func runRepl(_ *cobra.Command, args []string) error {
	term := terminal.NewStdio(os.Stdin, os.Stdout)
	in := interp.New(term, turtle.NewHeadless())
	in.Prompt = prompt

	if trace {
		in.SetTracer(func(ev evaluator.TraceEvent) {
			fmt.Fprintf(os.Stderr, "[trace] %s: %s\n", ev.Kind, ev.Detail)
		})
	}

	in.REPL()
	return nil
}
