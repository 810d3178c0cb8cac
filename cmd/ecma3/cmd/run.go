package cmd

import (
	"fmt"
	"os"

	"github.com/go-ecma3/ecma3/pkg/ecma3"
	"github.com/spf13/cobra"
)

var (
	evalExpr string
	dumpAST  bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a script file or expression",
	Long: `Execute a program from a file or inline expression.

Examples:
  # Run a script file
  ecma3 run script.js

  # Evaluate an inline expression
  ecma3 run -e "println('Hello, World!');"

  # Dump the parsed AST instead of running it
  ecma3 run --dump-ast script.js`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST (for debugging)")
}

func runScript(_ *cobra.Command, args []string) error {
	input, _, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	engine, err := ecma3.New()
	if err != nil {
		return err
	}

	if dumpAST {
		prog, perr := engine.Parse(input)
		if prog != nil {
			fmt.Println("AST:")
			fmt.Printf("%#v\n", prog)
			fmt.Println()
		}
		if perr != nil {
			return perr
		}
	}

	result, err := engine.Eval(input)
	if result != nil {
		fmt.Print(result.Output)
	}
	if err != nil {
		return err
	}
	if result != nil && !result.Success {
		return fmt.Errorf("execution failed")
	}
	return nil
}

func readSource(evalExpr string, args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline code")
}
