package cmd

import (
	"fmt"
	"os"

	"github.com/go-ecma3/ecma3/internal/bytecode"
	"github.com/go-ecma3/ecma3/internal/errors"
	"github.com/go-ecma3/ecma3/internal/parser"
	"github.com/spf13/cobra"
)

var disassemble bool

var compileCmd = &cobra.Command{
	Use:   "compile <file>",
	Short: "Compile a script to bytecode and optionally disassemble it",
	Long: `Compile a program to bytecode without running it.

This is mainly a debugging aid: pass --disassemble to print the
resulting instruction stream, including every nested function body and
try/finally block compiled alongside the top-level program.`,
	Args: cobra.ExactArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().BoolVar(&disassemble, "disassemble", false, "print the disassembled bytecode")
}

func compileScript(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	input := string(content)

	program, errs := parser.Parse(input, filename)
	if len(errs) > 0 {
		printErrors(errs, input, filename)
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	chunk := bytecode.Compile(program)
	if verbose {
		fmt.Fprintf(os.Stderr, "instructions: %d, constants: %d, nested functions: %d\n",
			len(chunk.Code), len(chunk.Consts), len(chunk.Functions))
	}
	if disassemble {
		bytecode.Disassemble(chunk, filename, os.Stdout)
	}
	return nil
}

func printErrors(errs []*errors.EngineError, source, file string) {
	for _, e := range errs {
		e.Source = source
		e.File = file
	}
	fmt.Fprint(os.Stderr, errors.FormatErrors(errs, true))
}
