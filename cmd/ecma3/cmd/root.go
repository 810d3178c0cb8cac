// Package cmd implements the ecma3 command-line front end: a small cobra
// tree whose run command goes through pkg/ecma3's embedding API, while
// parse and compile call the internal parser/bytecode packages directly
// to show the raw AST or disassembly.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ecma3",
	Short: "ECMAScript edition-3 interpreter and compiler",
	Long: `ecma3 is a Go implementation of an ECMAScript edition-3 engine:
lexer, recursive-descent parser, single-pass bytecode compiler, and a
stack-based virtual machine, exposed both as a library (pkg/ecma3) and
as this standalone command-line tool.`,
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
