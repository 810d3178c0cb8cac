package bytecode

import "github.com/go-ecma3/ecma3/internal/ast"

func (c *Compiler) compileStmt(s ast.Stmt) {
	c.emit(OpSetLoc)
	switch x := s.(type) {
	case *ast.BlockStmt:
		for _, st := range x.Body {
			c.compileStmt(st)
		}

	case *ast.VarDecl:
		c.compileVarDecl(x)

	case *ast.ExprStmt:
		c.compileExpr(x.X)
		c.emit(OpPop)

	case *ast.EmptyStmt:
		// nothing to emit

	case *ast.IfStmt:
		c.compileExpr(x.Cond)
		c.emit(OpToBoolean)
		c.emit(OpNot)
		elseJump := c.emit(OpBTrue, 0)
		c.compileStmt(x.Then)
		if x.Else != nil {
			end := c.emit(OpBAlways, 0)
			c.chunk.Patch(elseJump, c.chunk.Here())
			c.compileStmt(x.Else)
			c.chunk.Patch(end, c.chunk.Here())
		} else {
			c.chunk.Patch(elseJump, c.chunk.Here())
		}

	case *ast.DoWhileStmt:
		c.compileDoWhile(x, nil)

	case *ast.WhileStmt:
		c.compileWhile(x, nil)

	case *ast.ForStmt:
		c.compileFor(x, nil)

	case *ast.ForInStmt:
		c.compileForIn(x, nil)

	case *ast.ContinueStmt:
		c.compileBreakContinue(x.Label, true)

	case *ast.BreakStmt:
		c.compileBreakContinue(x.Label, false)

	case *ast.ReturnStmt:
		if x.X != nil {
			c.compileExpr(x.X)
		} else {
			c.emit(OpLiteral, c.constUndef())
		}
		c.emitEnd(c.blockDepth)
		c.emit(OpReturn)

	case *ast.WithStmt:
		c.compileExpr(x.Object)
		c.emit(OpToObject)
		c.emit(OpSWith)
		c.blockDepth++
		c.compileStmt(x.Body)
		c.blockDepth--
		c.emitEnd(1)

	case *ast.LabeledStmt:
		c.compileLabeled(x)

	case *ast.SwitchStmt:
		c.compileSwitch(x, nil)

	case *ast.ThrowStmt:
		c.compileExpr(x.X)
		c.emit(OpThrow)

	case *ast.TryStmt:
		c.compileTry(x)

	case *ast.FunctionDecl:
		// Hoisted function declarations are emitted once, up front, by
		// Compile/compileFunctionBody; encountering one again here as an
		// ordinary statement is a no-op.

	case *ast.DebuggerStmt:
		// no VM debug hook exists yet; reserved for one.

	default:
		panic("bytecode: unhandled statement node")
	}
}

func (c *Compiler) compileVarDecl(x *ast.VarDecl) {
	for _, b := range x.Decls {
		if b.Init == nil {
			continue
		}
		c.emit(OpLookup, c.constStr(b.Name.Name))
		c.compileExpr(b.Init)
		c.emit(OpPutValue)
		c.emit(OpPop)
	}
}

// emitEnd emits OpEnd unwinding the n block-stack entries opened since the
// enclosing loop/switch/function body began, so a break/continue/return can
// jump out of (or restart) an arbitrary nesting of with/enum/try blocks in
// one step.
func (c *Compiler) emitEnd(n int) {
	if n > 0 {
		c.emit(OpEnd, n)
	}
}

func (c *Compiler) pushLoop(labels map[string]bool, isLoop bool) *loopCtx {
	l := &loopCtx{labels: labels, isLoop: isLoop, blockDepth: c.blockDepth}
	c.loops = append(c.loops, l)
	return l
}

func (c *Compiler) popLoop() {
	c.loops = c.loops[:len(c.loops)-1]
}

func (c *Compiler) compileBreakContinue(label string, isContinue bool) {
	for i := len(c.loops) - 1; i >= 0; i-- {
		l := c.loops[i]
		if label != "" && !l.labels[label] {
			continue
		}
		if isContinue && !l.isLoop {
			continue
		}
		c.emitEnd(c.blockDepth - l.blockDepth)
		target := c.emit(OpBAlways, 0)
		if isContinue {
			l.continueSites = append(l.continueSites, target)
		} else {
			l.breakSites = append(l.breakSites, target)
		}
		return
	}
	// Unresolvable without a matching label: the parser already rejects
	// this, so reaching here means a parser bug, not user input.
	panic("bytecode: break/continue with no matching target")
}

func (c *Compiler) patchBreaks(l *loopCtx, target int) {
	for _, at := range l.breakSites {
		c.chunk.Patch(at, target)
	}
}

func (c *Compiler) patchContinues(l *loopCtx, target int) {
	for _, at := range l.continueSites {
		c.chunk.Patch(at, target)
	}
}

func (c *Compiler) compileWhile(x *ast.WhileStmt, labels map[string]bool) {
	l := c.pushLoop(labels, true)
	top := c.chunk.Here()
	c.compileExpr(x.Cond)
	c.emit(OpToBoolean)
	c.emit(OpNot)
	exit := c.emit(OpBTrue, 0)
	c.compileStmt(x.Body)
	c.patchContinues(l, c.chunk.Here())
	c.emit(OpBAlways, top)
	end := c.chunk.Here()
	c.chunk.Patch(exit, end)
	c.patchBreaks(l, end)
	c.popLoop()
}

func (c *Compiler) compileDoWhile(x *ast.DoWhileStmt, labels map[string]bool) {
	l := c.pushLoop(labels, true)
	top := c.chunk.Here()
	c.compileStmt(x.Body)
	c.patchContinues(l, c.chunk.Here())
	c.compileExpr(x.Cond)
	c.emit(OpToBoolean)
	c.emit(OpBTrue, top)
	end := c.chunk.Here()
	c.patchBreaks(l, end)
	c.popLoop()
}

func (c *Compiler) compileFor(x *ast.ForStmt, labels map[string]bool) {
	if x.InitDecl != nil {
		c.compileVarDecl(x.InitDecl)
	} else if x.Init != nil {
		c.compileExpr(x.Init)
		c.emit(OpPop)
	}
	l := c.pushLoop(labels, true)
	top := c.chunk.Here()
	var exit int
	hasCond := x.Cond != nil
	if hasCond {
		c.compileExpr(x.Cond)
		c.emit(OpToBoolean)
		c.emit(OpNot)
		exit = c.emit(OpBTrue, 0)
	}
	c.compileStmt(x.Body)
	c.patchContinues(l, c.chunk.Here())
	if x.Post != nil {
		c.compileExpr(x.Post)
		c.emit(OpPop)
	}
	c.emit(OpBAlways, top)
	end := c.chunk.Here()
	if hasCond {
		c.chunk.Patch(exit, end)
	}
	c.patchBreaks(l, end)
	c.popLoop()
}

// compileForIn lowers for-in using the SEnum/BEnum pair: SEnum snapshots
// the object's enumerable property names once up front (ed.3 §12.6.4 —
// names added after enumeration starts are not visited), and each BEnum
// either binds the next surviving name and falls through, or branches past
// the loop once the snapshot is exhausted.
func (c *Compiler) compileForIn(x *ast.ForInStmt, labels map[string]bool) {
	c.compileExpr(x.Object)
	c.emit(OpToObject)
	c.emit(OpSEnum)
	c.blockDepth++
	l := c.pushLoop(labels, true)
	top := c.chunk.Here()
	exit := c.emit(OpBEnum, 0) // pushes the next name, or branches to exit
	if x.DeclName != "" {
		c.emit(OpLookup, c.constStr(x.DeclName))
	} else {
		c.compileRef(x.Target)
	}
	c.emit(OpExch)
	c.emit(OpPutValue)
	c.emit(OpPop)
	c.compileStmt(x.Body)
	c.patchContinues(l, c.chunk.Here())
	c.emit(OpBAlways, top)
	end := c.chunk.Here()
	c.chunk.Patch(exit, end)
	c.patchBreaks(l, end)
	c.popLoop()
	c.blockDepth--
	c.emitEnd(1)
}

func (c *Compiler) compileLabeled(x *ast.LabeledStmt) {
	labels := map[string]bool{x.Label: true}
	body := x.Body
	// Collapse nested labels (`a: b: while (...)`) onto the same loop.
	for n, ok := body.(*ast.LabeledStmt); ok; n, ok = body.(*ast.LabeledStmt) {
		labels[n.Label] = true
		body = n.Body
	}
	switch body := body.(type) {
	case *ast.WhileStmt:
		c.compileWhile(body, labels)
	case *ast.DoWhileStmt:
		c.compileDoWhile(body, labels)
	case *ast.ForStmt:
		c.compileFor(body, labels)
	case *ast.ForInStmt:
		c.compileForIn(body, labels)
	case *ast.SwitchStmt:
		c.compileSwitch(body, labels)
	default:
		// A label on a non-iteration statement makes it a target for
		// `break label`; model it as a break-only loop whose body never
		// actually loops.
		l := c.pushLoop(labels, false)
		c.compileStmt(body)
		end := c.chunk.Here()
		c.patchBreaks(l, end)
		c.popLoop()
	}
}

// compileSwitch compiles a sequence of strict-equality tests against Tag
// (ed.3 §12.11's CaseClause order is source order, default included),
// falling through from one case body into the next exactly like a JS
// switch/case.
func (c *Compiler) compileSwitch(x *ast.SwitchStmt, labels map[string]bool) {
	c.compileExpr(x.Tag)
	l := c.pushLoop(labels, false)

	var bodyJumps []int
	defaultIdx := -1
	for i, cs := range x.Cases {
		if cs.Test == nil {
			defaultIdx = i
			bodyJumps = append(bodyJumps, -1)
			continue
		}
		c.emit(OpDup)
		c.compileExpr(cs.Test)
		c.emit(OpSeq)
		bodyJumps = append(bodyJumps, c.emit(OpBTrue, 0))
	}
	var toDefault int
	hasDefault := defaultIdx >= 0
	if hasDefault {
		toDefault = c.emit(OpBAlways, 0)
	}
	afterTests := c.emit(OpBAlways, 0) // no case matched and no default: skip all bodies

	caseEntry := make([]int, len(x.Cases))
	fallIn := -1
	for i, cs := range x.Cases {
		caseEntry[i] = c.chunk.Here()
		if cs.Test == nil {
			c.chunk.Patch(toDefault, caseEntry[i])
		} else {
			c.chunk.Patch(bodyJumps[i], caseEntry[i])
		}
		c.emit(OpPop) // discard the duplicated Tag once we commit to a body
		if fallIn >= 0 {
			c.chunk.Patch(fallIn, c.chunk.Here())
		}
		for _, st := range cs.Body {
			c.compileStmt(st)
		}
		if i < len(x.Cases)-1 {
			// Falling through into the next body: Tag is already gone, so
			// jump past that body's entry Pop.
			fallIn = c.emit(OpBAlways, 0)
		}
	}
	// Falling off the last case body already dropped Tag at its own
	// entry Pop, so it must skip the no-match trampoline below rather
	// than run straight into its Pop a second time.
	skipTrampoline := c.emit(OpBAlways, 0)

	trampoline := c.chunk.Here()
	c.emit(OpPop) // no case matched and there is no default: drop Tag
	end := c.chunk.Here()

	c.chunk.Patch(skipTrampoline, end)
	if hasDefault {
		c.chunk.Patch(afterTests, end) // unreachable: toDefault already covers the no-match case
	} else {
		c.chunk.Patch(afterTests, trampoline)
	}
	c.patchBreaks(l, end)
	c.popLoop()
}

// compileTry lowers try/catch/finally onto STRYC/STRYF plus END, matching
// the uniform block-stack unwind every other scope form uses.
// compileTry lowers try/catch/finally. A catch-and-finally form compiles as
// an outer try/finally wrapping an inner try/catch, matching how the two
// clauses actually compose: the finally must run exactly once after the
// catch completes (however it completes), not once after Block and again
// after Catch.
func (c *Compiler) compileTry(x *ast.TryStmt) {
	switch {
	case x.Catch != nil && x.Finally != nil:
		finallyIdx := c.chunk.AddFinally(compileFinallyChunk(x.Finally))
		c.emit(OpSTryF, finallyIdx)
		c.blockDepth++
		c.compileTryCatch(x.Block, x.Catch)
		c.blockDepth--
		c.emitEnd(1)

	case x.Catch != nil:
		c.compileTryCatch(x.Block, x.Catch)

	default: // finally only
		finallyIdx := c.chunk.AddFinally(compileFinallyChunk(x.Finally))
		c.emit(OpSTryF, finallyIdx)
		c.blockDepth++
		c.compileStmt(x.Block)
		c.blockDepth--
		c.emitEnd(1)
	}
}

func (c *Compiler) compileTryCatch(block *ast.BlockStmt, catch *ast.CatchClause) {
	stry := c.emit(OpSTryC, 0, -1)
	c.blockDepth++
	c.compileStmt(block)
	c.blockDepth--
	c.emitEnd(1)
	afterCatch := c.emit(OpBAlways, 0)

	c.chunk.Patch(stry, c.chunk.Here())
	c.emit(OpCatchBind, c.constStr(catch.Param))
	c.blockDepth++
	c.compileStmt(catch.Block)
	c.blockDepth--
	c.emitEnd(1)
	c.chunk.Patch(afterCatch, c.chunk.Here())
}

// compileFinallyChunk compiles a finally clause as an independent Chunk:
// its own fresh Compiler with no enclosing loops, so a bare break/continue
// that tries to reach past the finally into the protected try's own
// enclosing loop is rejected the same way a parser bug would be (not a
// supported construct here; see DESIGN.md).
func compileFinallyChunk(block *ast.BlockStmt) *Chunk {
	fc := &Compiler{chunk: NewChunk()}
	fc.compileStmt(block)
	return fc.chunk
}
