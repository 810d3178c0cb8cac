package bytecode

import (
	"fmt"
	"io"
)

// Disassemble writes a human-readable listing of chunk to w: one line per
// instruction, constant/function-pool operands rendered alongside their
// raw index. Nested function bodies and finally blocks are listed after
// the top-level chunk, each under its own header.
func Disassemble(chunk *Chunk, name string, w io.Writer) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for pc, instr := range chunk.Code {
		fmt.Fprintf(w, "%04d  %s", pc, instr.Op)
		switch instr.Op {
		case OpLiteral:
			if instr.A >= 0 && instr.A < len(chunk.Consts) {
				fmt.Fprintf(w, " %d ; %v", instr.A, chunk.Consts[instr.A])
			}
		case OpFunc:
			if instr.A >= 0 && instr.A < len(chunk.Functions) {
				fmt.Fprintf(w, " %d ; function %s", instr.A, chunk.Functions[instr.A].Name)
			}
		case OpBAlways, OpBTrue, OpBEnum:
			fmt.Fprintf(w, " -> %04d", instr.A)
		case OpNew, OpCall, OpEnd:
			fmt.Fprintf(w, " %d", instr.A)
		case OpSTryC:
			fmt.Fprintf(w, " catch=%04d finally=%d", instr.A, instr.B)
		case OpSTryF:
			fmt.Fprintf(w, " finally=%d", instr.A)
		}
		fmt.Fprintln(w)
	}
	for i, fn := range chunk.Functions {
		Disassemble(fn.Body, fmt.Sprintf("%s/function %d (%s)", name, i, fn.Name), w)
	}
	for i, f := range chunk.Finallys {
		Disassemble(f, fmt.Sprintf("%s/finally %d", name, i), w)
	}
}
