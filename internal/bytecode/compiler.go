package bytecode

import (
	"github.com/go-ecma3/ecma3/internal/ast"
	"github.com/go-ecma3/ecma3/internal/value"
)

// Compiler performs a single pass over an already-parsed AST, emitting
// instructions directly into a Chunk and patching forward branches once
// their target address is known (the "here"/"patch" pattern: Emit
// returns the address of a branch instruction, and once the compiler
// reaches the jump's destination, Patch fills in the operand).
//
// Syntax errors are caught by the parser; the compiler assumes a
// well-formed tree and reports nothing of its own.
type Compiler struct {
	chunk *Chunk

	// blockDepth counts the currently open with/enum/try blocks, so a
	// break/continue/return can tell END how many block-stack
	// entries to unwind through to reach its target.
	blockDepth int

	loops []*loopCtx
}

// loopCtx tracks one open loop or switch so break/continue can find their
// target and know how many block-stack entries to unwind through.
type loopCtx struct {
	labels        map[string]bool
	isLoop        bool // false for a bare switch: accepts break but not continue
	blockDepth    int  // compiler.blockDepth at loop entry
	breakSites    []int
	continueSites []int
}

// Compile compiles a parsed program into a Chunk ready for VM.RunProgram.
// When the program's last top-level statement is an expression statement,
// its value is the completion value RunProgram returns; in every other
// case that value is undefined (earlier statements, and statements nested
// in blocks, loops or try, do not set it).
func Compile(prog *ast.Program) *Chunk {
	c := &Compiler{chunk: NewChunk()}
	c.chunk.VarNames = prog.VarNames
	for _, fd := range prog.FuncDecls {
		idx := c.compileFunctionProto(fd.Name, fd.Params, fd.Body)
		c.chunk.HoistedFuncs = append(c.chunk.HoistedFuncs, idx)
	}
	for i, s := range prog.Body {
		if es, ok := s.(*ast.ExprStmt); ok && i == len(prog.Body)-1 {
			// Keep the final expression's value as the completion value.
			c.compileExpr(es.X)
			c.emit(OpReturn)
			continue
		}
		c.compileStmt(s)
	}
	return c.chunk
}

// compileFunctionBody compiles a single function body into its own
// FunctionProto, used both for top-level function declarations and
// recursively for nested ones.
func compileFunctionBody(name string, params []string, body *ast.FunctionBody) *FunctionProto {
	c := &Compiler{chunk: NewChunk()}
	c.chunk.VarNames = body.VarNames
	for _, fd := range body.FuncDecls {
		idx := c.compileFunctionProto(fd.Name, fd.Params, fd.Body)
		c.chunk.HoistedFuncs = append(c.chunk.HoistedFuncs, idx)
	}
	for _, s := range body.Body {
		c.compileStmt(s)
	}
	return &FunctionProto{Name: name, Params: params, Body: c.chunk}
}

func (c *Compiler) compileFunctionProto(name string, params []string, body *ast.FunctionBody) int {
	proto := compileFunctionBody(name, params, body)
	return c.chunk.AddFunction(proto)
}

func (c *Compiler) emit(op Op, operands ...int) int {
	return c.chunk.Emit(op, operands...)
}

func (c *Compiler) constNum(n float64) int { return c.chunk.AddConst(value.Num(n)) }
func (c *Compiler) constStr(s string) int  { return c.chunk.AddConst(value.Str_(value.NewString(s))) }
func (c *Compiler) constBool(b bool) int   { return c.chunk.AddConst(value.Bool(b)) }
func (c *Compiler) constUndef() int        { return c.chunk.AddConst(value.Undef()) }
