package bytecode

import (
	"github.com/go-ecma3/ecma3/internal/ast"
	"github.com/go-ecma3/ecma3/internal/value"
)

// compileExpr compiles e so that exactly one already-dereferenced value is
// left on the operand stack; it never leaves a Reference behind.
func (c *Compiler) compileExpr(e ast.Expr) {
	switch x := e.(type) {
	case *ast.Ident:
		c.compileRef(x)
		c.emit(OpGetValue)

	case *ast.ThisExpr:
		c.emit(OpThis)

	case *ast.NullLit:
		c.emit(OpLiteral, c.chunk.AddConst(value.Null_()))

	case *ast.BoolLit:
		c.emit(OpLiteral, c.constBool(x.Value))

	case *ast.NumberLit:
		c.emit(OpLiteral, c.constNum(x.Value))

	case *ast.StringLit:
		c.emit(OpLiteral, c.constStr(x.Value))

	case *ast.RegexpLit:
		c.emit(OpRegexp, c.constStr(x.Pattern), c.constStr(x.Flags))

	case *ast.ArrayLit:
		for _, el := range x.Elements {
			if el == nil {
				// An elision bumps Array.length without creating an own
				// property; we don't yet have a stack encoding for a
				// true hole, so it compiles as an explicit undefined
				// element instead (see DESIGN.md).
				c.emit(OpLiteral, c.constUndef())
				continue
			}
			c.compileExpr(el)
		}
		c.emit(OpArray, len(x.Elements))

	case *ast.ObjectLit:
		c.emit(OpObject)
		for _, p := range x.Props {
			c.emit(OpDup)
			c.emit(OpLiteral, c.constStr(p.Key))
			c.emit(OpRef)
			switch p.Kind {
			case ast.PropGetter, ast.PropSetter:
				// Getter/setter accessors compile as a plain data
				// property holding the accessor function; true
				// accessor wiring is left to the object model (see
				// DESIGN.md).
				c.compileExpr(p.Value)
			default:
				c.compileExpr(p.Value)
			}
			c.emit(OpPutValue)
			c.emit(OpPop)
		}

	case *ast.FunctionExpr:
		idx := c.compileFunctionProto(x.Name, x.Params, x.Body)
		c.emit(OpFunc, idx)

	case *ast.UnaryExpr:
		c.compileUnary(x)

	case *ast.UpdateExpr:
		c.compileUpdate(x)

	case *ast.BinaryExpr:
		c.compileBinary(x)

	case *ast.LogicalExpr:
		c.compileLogical(x)

	case *ast.AssignExpr:
		c.compileAssign(x)

	case *ast.ConditionalExpr:
		c.compileExpr(x.Cond)
		c.emit(OpToBoolean)
		c.emit(OpNot)
		elseJump := c.emit(OpBTrue, 0)
		c.compileExpr(x.Then)
		end := c.emit(OpBAlways, 0)
		c.chunk.Patch(elseJump, c.chunk.Here())
		c.compileExpr(x.Else)
		c.chunk.Patch(end, c.chunk.Here())

	case *ast.CallExpr:
		c.compileCall(x)

	case *ast.NewExpr:
		c.compileExpr(x.Callee)
		c.compileArgs(x.Args)
		c.emit(OpNew, len(x.Args))

	case *ast.MemberExpr:
		c.compileRef(x)
		c.emit(OpGetValue)

	case *ast.SequenceExpr:
		for i, sub := range x.Exprs {
			c.compileExpr(sub)
			if i != len(x.Exprs)-1 {
				c.emit(OpPop)
			}
		}

	default:
		panic("bytecode: unhandled expression node")
	}
}

// compileRef compiles e as a Reference rather than a dereferenced value;
// only valid for the two production kinds ed.3 admits as assignment
// targets, which is all the parser ever hands this function.
func (c *Compiler) compileRef(e ast.Expr) {
	switch x := e.(type) {
	case *ast.Ident:
		c.emit(OpLookup, c.constStr(x.Name))

	case *ast.MemberExpr:
		c.compileExpr(x.Object)
		c.emit(OpToObject)
		if x.Computed {
			c.compileExpr(x.Property)
			c.emit(OpToString)
		} else {
			c.emit(OpLiteral, c.constStr(x.Name))
		}
		c.emit(OpRef)

	default:
		panic("bytecode: not a reference expression")
	}
}

func (c *Compiler) compileArgs(args []ast.Expr) {
	for _, a := range args {
		c.compileExpr(a)
	}
}

// compileCall compiles a call expression so the callee and its `this`
// binding are on the stack in the order OpCall expects (ed.3 §11.2.3): a
// member-expression callee supplies its base object as this, anything
// else calls with this == undefined.
func (c *Compiler) compileCall(x *ast.CallExpr) {
	if m, ok := x.Callee.(*ast.MemberExpr); ok {
		c.compileExpr(m.Object)
		c.emit(OpToObject)
		c.emit(OpDup)
		if m.Computed {
			c.compileExpr(m.Property)
			c.emit(OpToString)
		} else {
			c.emit(OpLiteral, c.constStr(m.Name))
		}
		c.emit(OpRef)
		c.emit(OpGetValue)
		c.emit(OpExch) // [this fn] -> [fn this]
	} else {
		c.compileExpr(x.Callee)
		c.emit(OpLiteral, c.constUndef())
	}
	c.compileArgs(x.Args)
	c.emit(OpCall, len(x.Args))
}

func (c *Compiler) compileUnary(x *ast.UnaryExpr) {
	switch x.Op {
	case "delete":
		switch t := x.X.(type) {
		case *ast.Ident:
			c.emit(OpLookup, c.constStr(t.Name))
		case *ast.MemberExpr:
			c.compileRef(t)
		default:
			c.compileExpr(x.X)
			c.emit(OpPop)
			c.emit(OpLiteral, c.constBool(true))
			return
		}
		c.emit(OpDelete)

	case "void":
		c.compileExpr(x.X)
		c.emit(OpPop)
		c.emit(OpLiteral, c.constUndef())

	case "typeof":
		switch t := x.X.(type) {
		case *ast.Ident:
			c.emit(OpLookup, c.constStr(t.Name))
		case *ast.MemberExpr:
			c.compileRef(t)
		default:
			c.compileExpr(x.X)
		}
		c.emit(OpTypeof)

	case "+":
		c.compileExpr(x.X)
		c.emit(OpToNumber)

	case "-":
		c.compileExpr(x.X)
		c.emit(OpNeg)

	case "~":
		c.compileExpr(x.X)
		c.emit(OpInv)

	case "!":
		c.compileExpr(x.X)
		c.emit(OpNot)

	default:
		panic("bytecode: unknown unary operator " + x.Op)
	}
}

// compileUpdate lowers prefix/postfix ++/-- using Dup/Exch/Roll3 to evaluate
// the reference exactly once while still producing both the old and new
// numeric values, picking whichever one the form calls for.
func (c *Compiler) compileUpdate(x *ast.UpdateExpr) {
	c.compileRef(x.X)
	c.emit(OpDup)
	c.emit(OpGetValue)
	c.emit(OpToNumber) // [ref, num]
	c.emit(OpDup)
	c.emit(OpLiteral, c.constNum(1)) // [ref, num, num, 1]
	if x.Op == "++" {
		c.emit(OpAdd)
	} else {
		c.emit(OpSub)
	}
	// [ref, num, newNum]
	c.emit(OpRoll3) // [num, newNum, ref]
	c.emit(OpExch)  // [num, ref, newNum]
	c.emit(OpPutValue)
	// [num, newNum]
	if x.Prefix {
		c.emit(OpExch)
		c.emit(OpPop)
	} else {
		c.emit(OpPop)
	}
}

var binOpCodes = map[string]Op{
	"*": OpMul, "/": OpDiv, "%": OpMod,
	"+": OpAdd, "-": OpSub,
	"<<": OpLShift, ">>": OpRShift, ">>>": OpURShift,
	"<": OpLt, ">": OpGt, "<=": OpLe, ">=": OpGe,
	"instanceof": OpInstanceof, "in": OpIn,
	"&": OpBAnd, "^": OpBXor, "|": OpBOr,
}

func (c *Compiler) compileBinary(x *ast.BinaryExpr) {
	switch x.Op {
	case "!=":
		c.compileExpr(x.X)
		c.compileExpr(x.Y)
		c.emit(OpEq)
		c.emit(OpNot)
		return
	case "!==":
		c.compileExpr(x.X)
		c.compileExpr(x.Y)
		c.emit(OpSeq)
		c.emit(OpNot)
		return
	case "==":
		c.compileExpr(x.X)
		c.compileExpr(x.Y)
		c.emit(OpEq)
		return
	case "===":
		c.compileExpr(x.X)
		c.compileExpr(x.Y)
		c.emit(OpSeq)
		return
	}
	op, ok := binOpCodes[x.Op]
	if !ok {
		panic("bytecode: unknown binary operator " + x.Op)
	}
	c.compileExpr(x.X)
	c.compileExpr(x.Y)
	c.emit(op)
}

// compileLogical lowers && and || with short-circuit evaluation: the
// untouched left operand is kept as the result when it already decides the
// outcome, matching ed.3 §11.11 (the result is a value, not a boolean).
func (c *Compiler) compileLogical(x *ast.LogicalExpr) {
	c.compileExpr(x.X)
	c.emit(OpDup)
	c.emit(OpToBoolean)
	if x.Op == "&&" {
		c.emit(OpNot)
	}
	jump := c.emit(OpBTrue, 0)
	c.emit(OpPop)
	c.compileExpr(x.Y)
	c.chunk.Patch(jump, c.chunk.Here())
}

func (c *Compiler) compileAssign(x *ast.AssignExpr) {
	c.compileRef(x.Target)
	if x.Op == "=" {
		c.compileExpr(x.Value)
		c.emit(OpPutValue)
		return
	}
	op, ok := binOpCodes[x.Op[:len(x.Op)-1]]
	if !ok {
		panic("bytecode: unknown compound assignment operator " + x.Op)
	}
	c.emit(OpDup)
	c.emit(OpGetValue)
	c.compileExpr(x.Value)
	c.emit(op)
	c.emit(OpPutValue)
}
