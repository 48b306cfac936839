package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-logo/qlogo/internal/datum"
	"github.com/go-logo/qlogo/internal/evaluator"
	"github.com/go-logo/qlogo/internal/interp"
	"github.com/go-logo/qlogo/internal/terminal"
	"github.com/go-logo/qlogo/internal/turtle"
)

var (
	evalExpr string
	dumpAST  bool
	trace    bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Logo program from a file or inline expression",
	Long: `Execute a Logo program from a file or inline expression.

Examples:
  # Run a script file
  qlogo run script.logo

  # Evaluate inline code instead of reading from file
  qlogo run -e "print sum 2 3"

  # Run with AST dump (for debugging)
  qlogo run --dump-ast script.logo

  # Run with execution trace
  qlogo run --trace script.logo`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump each statement's parsed AST before running it")
	runCmd.Flags().BoolVar(&trace, "trace", false, "trace GOTO jumps")
}

func runScript(_ *cobra.Command, args []string) error {
	var input, filename string
	switch {
	case evalExpr != "":
		input = evalExpr
		filename = "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		input = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e flag for inline code")
	}

	term := terminal.NewStdio(strings.NewReader(input), os.Stdout)
	in := interp.New(term, turtle.NewHeadless())

	if dumpAST {
		in.DumpAST = func(nodes []*datum.ASTNode) {
			for _, n := range nodes {
				dumpNode(n, "")
			}
		}
	}
	if trace {
		in.SetTracer(func(ev evaluator.TraceEvent) {
			fmt.Fprintf(os.Stderr, "[trace] %s: %s\n", ev.Kind, ev.Detail)
		})
	}

	if errd := in.RunAll(); errd != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errd.Message())
		return fmt.Errorf("execution failed in %s", filename)
	}
	return nil
}

func dumpNode(n *datum.ASTNode, indent string) {
	fmt.Println(indent + n.DisplayName())
	for _, c := range n.Children {
		dumpNode(c, indent+"  ")
	}
}
