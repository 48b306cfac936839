package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "qlogo",
	Short: "A UCBLogo-compatible Logo interpreter",
	Long: `qlogo is a Go implementation of a UCBLogo-compatible Logo interpreter.

It supports:
  - TO/END procedure definition, with optional and rest parameters
  - .MACRO/.DEFMACRO macro procedures
  - GOTO/TAG, CATCH/THROW, STOP/OUTPUT non-local control flow
  - Property lists, workspace introspection (ALLNAMES, ARITY, BURY)
  - SAVE/LOAD/DRIBBLE persisted workspace state
  - Turtle graphics (FORWARD, RIGHT, and their siblings)

This is a Go-native rendition, not a transliteration of any particular
reference interpreter's source.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
