package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/go-ecma3/ecma3/internal/parser"
	"github.com/spf13/cobra"
)

var parseExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse source code and print the AST",
	Long: `Parse source code and print its Abstract Syntax Tree.

Reads from the given file, from -e, or from stdin if neither is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseExpr, "eval", "e", "", "parse an inline expression instead of a file")
}

func runParse(_ *cobra.Command, args []string) error {
	var input, filename string
	switch {
	case parseExpr != "":
		input, filename = parseExpr, "<eval>"
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		input, filename = string(data), args[0]
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input, filename = string(data), "<stdin>"
	}

	program, errs := parser.Parse(input, filename)
	if len(errs) > 0 {
		printErrors(errs, input, filename)
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	fmt.Printf("%#v\n", program)
	return nil
}
