package bytecode

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-ecma3/ecma3/internal/object"
	"github.com/go-ecma3/ecma3/internal/parser"
	"github.com/go-ecma3/ecma3/internal/runtime"
	"github.com/go-ecma3/ecma3/internal/value"
)

// VM executes compiled Chunks against a runtime.Context. It holds no
// per-run state of its own (the operand stack, block stack, and program
// counter all live on run's call stack), so a single VM is safe to reuse
// across unrelated executions and is itself reentered recursively for
// every nested function call and finally clause.
type VM struct {
	global *object.Object

	// evalFn is the distinguished eval function object installed by
	// InstallEval. OpCall compares a callee against this by identity to
	// tell a direct eval call (ed.3 §15.1.2.1.1) from an ordinary one, since
	// only a direct call re-enters the caller's own scope chain and
	// variable object rather than running in a fresh context.
	evalFn value.Object

	regex RegexEngine
}

// New creates a VM whose unresolvable-reference writes (ed.3 §8.7.2,
// assigning to an undeclared name) land on global.
func New(global *object.Object) *VM {
	return &VM{global: global, regex: defaultRegexEngine{}}
}

// SetRegexEngine swaps the backend OpRegexp and RegExp literals compile
// against. Passing nil restores defaultRegexEngine.
func (vm *VM) SetRegexEngine(engine RegexEngine) {
	if engine == nil {
		engine = defaultRegexEngine{}
	}
	vm.regex = engine
}

// InstallEval wires the eval global onto target (normally the same global
// object the VM was constructed with). OpCall recognises this exact object
// by pointer identity, so every script call whose callee is it — `eval(src)`,
// `(0, eval)(src)` and `var e = eval; e(src)` alike — shares the caller's
// scope chain and variable object. evalNative, which runs the source as
// global code, is reached only when the function is invoked through
// Object.Call from Go rather than from an OpCall.
func (vm *VM) InstallEval(target *object.Object) {
	fn := object.NewFunction("eval", 1, vm.evalNative, nil)
	vm.evalFn = fn
	target.PutHidden("eval", value.FromObject(fn))
}

// evalNative implements the "indirect eval" fallback: by the time a call
// reaches here through the ordinary Object.Call path, the calling
// execution context is gone, so it runs as global code (ed.3
// §10.2.1/§15.1.2.1.1 step 1's "otherwise" branch).
func (vm *VM) evalNative(this value.Value, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Undef(), nil
	}
	if !args[0].IsString() {
		return args[0], nil
	}
	ctx := runtime.NewGlobalContext(vm.global)
	return vm.evalSource(args[0].StringVal().Value(), ctx)
}

// evalDirect runs src as eval code in callerCtx's own scope chain and
// variable object (ed.3 §10.2.1, §15.1.2.1.1's direct-call case), the
// re-entrant path OpCall takes when the callee is exactly vm.evalFn.
func (vm *VM) evalDirect(callerCtx *runtime.Context, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Undef(), nil
	}
	if !args[0].IsString() {
		return args[0], nil
	}
	ctx := runtime.NewEvalContext(callerCtx.Scope, callerCtx.VariableObject, callerCtx.This)
	return vm.evalSource(args[0].StringVal().Value(), ctx)
}

// evalSource parses and runs src against ctx, translating a parse failure
// into a thrown SyntaxError the way a runtime error from the body itself
// would be (ed.3 §15.1.2.1.1 steps 2-3).
func (vm *VM) evalSource(src string, ctx *runtime.Context) (value.Value, error) {
	prog, errs := parser.Parse(src, "<eval>")
	if len(errs) > 0 {
		return value.Value{}, &ThrownError{Value: vm.errorValue(&value.SyntaxError{Msg: errs[0].Error()})}
	}
	chunk := Compile(prog)
	if err := vm.InstantiateVars(chunk, ctx); err != nil {
		return value.Value{}, err
	}
	e, err := vm.run(chunk, ctx, value.Undef())
	if err != nil {
		return value.Value{}, err
	}
	if e.kind == execThrow {
		return value.Value{}, &ThrownError{Value: e.val}
	}
	return e.val, nil
}

// ThrownError wraps an uncaught ECMAScript exception as it crosses back
// into Go: RunProgram and Call return this when the script itself threw,
// as opposed to a Go-level fault in the VM.
type ThrownError struct {
	Value value.Value
}

func (e *ThrownError) Error() string {
	s, err := e.Value.ToString()
	if err != nil {
		return "uncaught exception"
	}
	return "uncaught exception: " + s.Value()
}

type execKind int

const (
	execNormal execKind = iota
	execReturn
	execThrow
)

// exec is the completion of one run() call: either it fell off the end of
// its Chunk normally, returned a value, or is carrying an uncaught
// exception back to its caller (which is itself either an enclosing
// run() — a nested call or finally chunk — or the top-level embedder).
type exec struct {
	kind execKind
	val  value.Value
}

type blockKind int

const (
	blockWith blockKind = iota
	blockEnum
	blockTryCatch
	blockTryFinally
)

// blockEntry is one open with/enumeration/try scope. Entries are pointers
// so OpBEnum can advance enumIdx on the innermost one in place.
type blockEntry struct {
	kind blockKind

	scopeMark int // with: runtime.Chain mark to TruncateTo on exit

	enumNames  []*value.Str // enum: snapshot taken by OpSEnum
	enumIdx    int
	enumObject value.Object // enum: subject object, rechecked each advance to honor mid-iteration deletions

	catchTarget int // tryCatch: pc to jump to on a caught exception
	finallyIdx  int // tryFinally: index into the owning Chunk's Finallys
}

// InstantiateVars performs ed.3 §10.1.3 variable instantiation for chunk
// into ctx's variable object: each hoisted function declaration is bound
// unconditionally (later declarations of the same name win), then each
// var name is bound to undefined unless a property of that name already
// exists (so a same-named function declaration, or a parameter, is never
// clobbered). Callers run this once per activation — program start or
// function call — never per finally/nested run().
func (vm *VM) InstantiateVars(chunk *Chunk, ctx *runtime.Context) error {
	vo := ctx.VariableObject
	for _, idx := range chunk.HoistedFuncs {
		proto := chunk.Functions[idx]
		fn := vm.makeClosure(proto, ctx.Scope)
		if err := vo.Put(value.Intern(proto.Name), value.FromObject(fn), ctx.VarAttrs); err != nil {
			return err
		}
	}
	for _, name := range chunk.VarNames {
		if err := ctx.DeclareVar(value.Intern(name)); err != nil {
			return err
		}
	}
	return nil
}

// RunProgram runs chunk as a top-level program or eval body: variable
// instantiation, then execution, translating an uncaught script exception
// into a *ThrownError.
func (vm *VM) RunProgram(chunk *Chunk, ctx *runtime.Context) (value.Value, error) {
	if err := vm.InstantiateVars(chunk, ctx); err != nil {
		return value.Value{}, err
	}
	e, err := vm.run(chunk, ctx, value.Undef())
	if err != nil {
		return value.Value{}, err
	}
	if e.kind == execThrow {
		return value.Value{}, &ThrownError{Value: e.val}
	}
	return e.val, nil
}

// makeClosure instantiates a callable (and constructible) native object
// from a compiled FunctionProto, closing over closureScope the way ed.3
// §13.2 requires: each call gets a fresh activation object (holding the
// parameters, an arguments object, and the body's own hoisted vars/funcs)
// pushed in front of a clone of the scope the function was defined in.
func (vm *VM) makeClosure(proto *FunctionProto, closureScope *runtime.Chain) *object.Object {
	// Snapshot the chain now: the caller's *Chain is pushed and truncated
	// in place as with/catch blocks are entered and left.
	closureScope = closureScope.Clone()
	var fnObj *object.Object
	call := func(this value.Value, args []value.Value) (value.Value, error) {
		return vm.callUser(proto, closureScope, fnObj, this, args)
	}
	construct := func(args []value.Value) (value.Value, error) {
		var proto *object.Object
		if protoVal, err := fnObj.Get(value.Intern("prototype")); err == nil && protoVal.IsObject() {
			if po, ok := protoVal.Object().(*object.Object); ok {
				proto = po
			}
		}
		inst := object.New("Object", proto)
		res, err := call(value.FromObject(inst), args)
		if err != nil {
			return value.Value{}, err
		}
		if res.IsObject() {
			return res, nil
		}
		return value.FromObject(inst), nil
	}
	fnObj = object.NewFunction(proto.Name, len(proto.Params), call, construct)

	protoObj := object.New("Object", nil)
	protoObj.PutHidden("constructor", value.FromObject(fnObj))
	_ = fnObj.Put(value.Intern("prototype"), value.FromObject(protoObj), value.DontEnum|value.DontDelete)
	return fnObj
}

// callUser runs one invocation of a user-defined function: builds the
// activation object and Context, instantiates its own vars, executes its
// body, and reduces the body's completion to ed.3 §13.2.1's ordinary
// [[Call]] result (undefined on a fall-off-the-end or bare `return;`).
func (vm *VM) callUser(proto *FunctionProto, closureScope *runtime.Chain, self *object.Object, this value.Value, args []value.Value) (value.Value, error) {
	thisVal, err := runtime.ComputeThis(vm.global, this)
	if err != nil {
		return value.Value{}, err
	}

	activation := object.New("Activation", nil)
	for i, p := range proto.Params {
		v := value.Undef()
		if i < len(args) {
			v = args[i]
		}
		_ = activation.Put(value.Intern(p), v, 0)
	}
	activation.PutHidden("arguments", value.FromObject(vm.makeArguments(args)))

	fnCtx := runtime.NewFunctionContext(closureScope, activation, thisVal)
	if err := vm.InstantiateVars(proto.Body, fnCtx); err != nil {
		return value.Value{}, err
	}

	e, err := vm.run(proto.Body, fnCtx, value.FromObject(self))
	if err != nil {
		return value.Value{}, err
	}
	switch e.kind {
	case execThrow:
		return value.Value{}, &ThrownError{Value: e.val}
	case execReturn:
		return e.val, nil
	default:
		return value.Undef(), nil
	}
}

// makeArguments builds a minimal array-like Arguments object: indexed
// properties and length, without the live parameter-linking or callee
// property ed.3 §10.1.8 specifies — a deliberate simplification (see
// DESIGN.md).
func (vm *VM) makeArguments(args []value.Value) *object.Object {
	o := object.NewArray(nil)
	o.PutConst("length", value.Num(float64(len(args))))
	for i, a := range args {
		o.PutHidden(strconv.Itoa(i), a)
	}
	return o
}

// run executes chunk from its first instruction until it falls off the
// end or produces a Return/Throw completion. self is the value OpGetC
// pushes (the running function's own closure, for self-reference); it is
// Undefined at the top level.
func (vm *VM) run(chunk *Chunk, ctx *runtime.Context, self value.Value) (exec, error) {
	var stack []value.Value
	var blocks []*blockEntry
	pc := 0

	push := func(v value.Value) { stack = append(stack, v) }
	pop := func() value.Value {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}

	// raise searches the block stack for a handler for v, running any
	// finally clauses found along the way. ok reports whether a try/catch
	// absorbed it (pc has been updated; the caller should resume its
	// dispatch loop); when ok is false the caller must return the
	// returned exec directly (either the unhandled throw, or a finally's
	// own overriding completion).
	raise := func(v value.Value) (ok bool, result exec, err error) {
		for len(blocks) > 0 {
			b := blocks[len(blocks)-1]
			blocks = blocks[:len(blocks)-1]
			switch b.kind {
			case blockWith:
				ctx.Scope.TruncateTo(b.scopeMark)
			case blockEnum:
				// no cleanup beyond discarding the snapshot
			case blockTryFinally:
				fr, ferr := vm.run(chunk.Finallys[b.finallyIdx], ctx, self)
				if ferr != nil {
					return false, exec{}, ferr
				}
				if fr.kind != execNormal {
					return false, fr, nil
				}
			case blockTryCatch:
				pc = b.catchTarget
				push(v)
				return true, exec{}, nil
			}
		}
		return false, exec{kind: execThrow, val: v}, nil
	}

	for pc < len(chunk.Code) {
		instr := chunk.Code[pc]
		pc++

		switch instr.Op {
		case OpNop, OpSetLoc, OpLoc:
			// SETLOC/LOC are source-position bookkeeping for a future
			// error-context pass; no runtime effect yet.

		case OpDup:
			push(stack[len(stack)-1])
		case OpPop:
			pop()
		case OpExch:
			n := len(stack)
			stack[n-1], stack[n-2] = stack[n-2], stack[n-1]
		case OpRoll3:
			n := len(stack)
			a, b, c := stack[n-3], stack[n-2], stack[n-1]
			stack[n-3], stack[n-2], stack[n-1] = b, c, a

		case OpThrow:
			v := pop()
			ok, result, err := raise(v)
			if err != nil {
				return exec{}, err
			}
			if !ok {
				return result, nil
			}
		case OpReturn:
			return exec{kind: execReturn, val: pop()}, nil

		case OpGetC:
			push(self)
		case OpThis:
			push(ctx.This)
		case OpObject:
			push(value.FromObject(object.New("Object", nil)))
		case OpArray:
			n := instr.A
			elems := make([]value.Value, n)
			copy(elems, stack[len(stack)-n:])
			stack = stack[:len(stack)-n]
			arr := object.NewArray(nil)
			for i, v := range elems {
				_ = arr.Put(value.Intern(strconv.Itoa(i)), v, 0)
			}
			_ = arr.Put(value.Intern("length"), value.Num(float64(n)), 0)
			push(value.FromObject(arr))
		case OpRegexp:
			pat := chunk.Consts[instr.A].StringVal().Value()
			flags := chunk.Consts[instr.B].StringVal().Value()
			push(value.FromObject(vm.newRegexp(pat, flags)))

		case OpRef:
			name := pop()
			base := pop()
			n, err := name.ToString()
			if err != nil {
				return exec{}, err
			}
			push(value.FromRef(&value.Ref{Base: base.Object(), Name: n}))
		case OpGetValue:
			v, err := stack[len(stack)-1].GetValue()
			if err != nil {
				ok, result, rerr := raise(vm.errorValue(err))
				if rerr != nil {
					return exec{}, rerr
				}
				if !ok {
					return result, nil
				}
				continue
			}
			pop()
			push(v)
		case OpLookup:
			name := chunk.Consts[instr.A].StringVal()
			push(value.FromRef(ctx.Scope.Resolve(name)))
		case OpPutValue:
			v := pop()
			refVal := pop()
			if err := vm.putValue(ctx, refVal, v); err != nil {
				ok, result, rerr := raise(vm.errorValue(err))
				if rerr != nil {
					return exec{}, rerr
				}
				if !ok {
					return result, nil
				}
				continue
			}
			push(v)

		case OpDelete:
			r := pop().Ref()
			if r.IsUnresolvable() {
				push(value.Bool(true))
				break
			}
			ok, err := r.Base.Delete(r.Name, false)
			if err != nil {
				return exec{}, err
			}
			push(value.Bool(ok))
		case OpTypeof:
			v := pop()
			if v.IsReference() {
				r := v.Ref()
				if r.IsUnresolvable() {
					push(value.Str_(value.Intern("undefined")))
					break
				}
				dv, err := v.GetValue()
				if err != nil {
					return exec{}, err
				}
				v = dv
			}
			push(value.Str_(value.Intern(typeofName(v))))

		case OpToObject:
			o, err := stack[len(stack)-1].ToObject()
			if err != nil {
				ok, result, rerr := raise(vm.errorValue(err))
				if rerr != nil {
					return exec{}, rerr
				}
				if !ok {
					return result, nil
				}
				continue
			}
			pop()
			push(value.FromObject(o))
		case OpToNumber:
			n, err := pop().ToNumber()
			if err != nil {
				return exec{}, err
			}
			push(value.Num(n))
		case OpToBoolean:
			push(value.Bool(pop().ToBoolean()))
		case OpToString:
			s, err := pop().ToString()
			if err != nil {
				ok, result, rerr := raise(vm.errorValue(err))
				if rerr != nil {
					return exec{}, rerr
				}
				if !ok {
					return result, nil
				}
				continue
			}
			push(value.Str_(s))
		case OpToPrimitive:
			p, err := pop().ToPrimitive(value.Undefined)
			if err != nil {
				return exec{}, err
			}
			push(p)

		case OpNeg:
			n, err := pop().ToNumber()
			if err != nil {
				return exec{}, err
			}
			push(value.Num(-n))
		case OpInv:
			i, err := pop().ToInt32()
			if err != nil {
				return exec{}, err
			}
			push(value.Num(float64(^i)))
		case OpNot:
			push(value.Bool(!pop().ToBoolean()))

		case OpMul, OpDiv, OpMod, OpAdd, OpSub,
			OpLShift, OpRShift, OpURShift,
			OpLt, OpGt, OpLe, OpGe,
			OpInstanceof, OpIn, OpEq, OpSeq,
			OpBAnd, OpBXor, OpBOr:
			b := pop()
			a := pop()
			res, err := vm.binary(instr.Op, a, b)
			if err != nil {
				ok, result, rerr := raise(vm.errorValue(err))
				if rerr != nil {
					return exec{}, rerr
				}
				if !ok {
					return result, nil
				}
				continue
			}
			push(res)

		case OpSEnum:
			obj := pop().Object()
			var names []*value.Str
			en := obj.Enumerator()
			for {
				n, ok := en.Next()
				if !ok {
					break
				}
				names = append(names, n)
			}
			blocks = append(blocks, &blockEntry{kind: blockEnum, enumNames: names, enumObject: obj})
		case OpSWith:
			obj := pop().Object()
			mark := ctx.Scope.Push(obj)
			blocks = append(blocks, &blockEntry{kind: blockWith, scopeMark: mark})
		case OpCatchBind:
			name := chunk.Consts[instr.A].StringVal()
			v := pop()
			bind := object.New("Object", nil)
			_ = bind.Put(name, v, 0)
			mark := ctx.Scope.Push(bind)
			blocks = append(blocks, &blockEntry{kind: blockWith, scopeMark: mark})

		case OpNew:
			argc := instr.A
			args := make([]value.Value, argc)
			copy(args, stack[len(stack)-argc:])
			stack = stack[:len(stack)-argc]
			calleeVal := pop()
			if !calleeVal.IsObject() || !calleeVal.Object().IsConstructor() {
				ok, result, rerr := raise(vm.errorValue(&value.TypeError{Msg: "value is not a constructor"}))
				if rerr != nil {
					return exec{}, rerr
				}
				if !ok {
					return result, nil
				}
				continue
			}
			res, err := calleeVal.Object().Construct(args)
			if err != nil {
				ok, result, rerr := raise(vm.errorValue(err))
				if rerr != nil {
					return exec{}, rerr
				}
				if !ok {
					return result, nil
				}
				continue
			}
			push(res)

		case OpCall:
			argc := instr.A
			args := make([]value.Value, argc)
			copy(args, stack[len(stack)-argc:])
			stack = stack[:len(stack)-argc]
			thisVal := pop()
			calleeVal := pop()
			if !calleeVal.IsObject() || !calleeVal.Object().IsCallable() {
				ok, result, rerr := raise(vm.errorValue(&value.TypeError{Msg: "value is not a function"}))
				if rerr != nil {
					return exec{}, rerr
				}
				if !ok {
					return result, nil
				}
				continue
			}
			var res value.Value
			var err error
			if vm.evalFn != nil && calleeVal.Object() == vm.evalFn {
				res, err = vm.evalDirect(ctx, args)
			} else {
				res, err = calleeVal.Object().Call(thisVal, args)
			}
			if err != nil {
				if thrown, ok := err.(*ThrownError); ok {
					ok, result, rerr := raise(thrown.Value)
					if rerr != nil {
						return exec{}, rerr
					}
					if !ok {
						return result, nil
					}
					continue
				}
				ok, result, rerr := raise(vm.errorValue(err))
				if rerr != nil {
					return exec{}, rerr
				}
				if !ok {
					return result, nil
				}
				continue
			}
			push(res)

		case OpEnd:
			n := instr.A
			for i := 0; i < n; i++ {
				b := blocks[len(blocks)-1]
				blocks = blocks[:len(blocks)-1]
				switch b.kind {
				case blockWith:
					ctx.Scope.TruncateTo(b.scopeMark)
				case blockEnum:
				case blockTryFinally:
					fr, err := vm.run(chunk.Finallys[b.finallyIdx], ctx, self)
					if err != nil {
						return exec{}, err
					}
					if fr.kind != execNormal {
						return fr, nil
					}
				case blockTryCatch:
					// normal fallthrough past a try/catch with no
					// exception in flight: nothing to do.
				}
			}

		case OpBAlways:
			pc = instr.A
		case OpBTrue:
			if pop().Bool() {
				pc = instr.A
			}
		case OpBEnum:
			b := blocks[len(blocks)-1]
			var name *value.Str
			for b.enumIdx < len(b.enumNames) {
				n := b.enumNames[b.enumIdx]
				b.enumIdx++
				if b.enumObject.HasProperty(n) {
					name = n
					break
				}
			}
			if name == nil {
				pc = instr.A
				break
			}
			push(value.Str_(name))
		case OpSTryC:
			blocks = append(blocks, &blockEntry{kind: blockTryCatch, catchTarget: instr.A, finallyIdx: instr.B})
		case OpSTryF:
			blocks = append(blocks, &blockEntry{kind: blockTryFinally, finallyIdx: instr.A})

		case OpFunc:
			fn := vm.makeClosure(chunk.Functions[instr.A], ctx.Scope)
			push(value.FromObject(fn))
		case OpLiteral:
			push(chunk.Consts[instr.A])

		default:
			return exec{}, &value.TypeError{Msg: "unimplemented opcode " + instr.Op.String()}
		}
	}
	return exec{kind: execNormal, val: value.Undef()}, nil
}

// putValue implements ed.3 §8.7.2: writing through an unresolvable
// reference creates (or updates) the property on the global object rather
// than failing, matching non-strict assignment-to-undeclared-name
// semantics.
func (vm *VM) putValue(ctx *runtime.Context, refVal, v value.Value) error {
	r := refVal.Ref()
	if r.IsUnresolvable() {
		return vm.global.Put(r.Name, v, 0)
	}
	return r.Base.Put(r.Name, v, 0)
}

func typeofName(v value.Value) string {
	switch v.Kind() {
	case value.Undefined:
		return "undefined"
	case value.Null:
		return "object"
	case value.Boolean:
		return "boolean"
	case value.Number:
		return "number"
	case value.String:
		return "string"
	case value.Obj:
		if v.Object().IsCallable() {
			return "function"
		}
		return "object"
	}
	return "undefined"
}

// newRegexp builds a RegExp-classed object from a literal's pattern and
// flags, compiling it through vm.regex rather than a hardcoded backend so
// an embedder-supplied RegexEngine governs matching (see SetRegexEngine).
// A pattern the engine rejects still produces a RegExp object (ed.3 §15.10
// literals never fail to construct) whose HostData stays nil; test/exec
// built on top of this must treat that as "never matches".
func (vm *VM) newRegexp(pattern, flags string) *object.Object {
	o := object.New("RegExp", nil)
	if re, err := vm.regex.Compile(pattern, flags); err == nil {
		o.HostData = re
	}
	o.PutHidden("source", value.Str_(value.NewString(pattern)))
	o.PutHidden("global", value.Bool(strings.Contains(flags, "g")))
	o.PutHidden("ignoreCase", value.Bool(strings.Contains(flags, "i")))
	o.PutHidden("multiline", value.Bool(strings.Contains(flags, "m")))
	o.PutHidden("lastIndex", value.Num(0))
	return o
}

// errorValue converts a Go-level failure from a value/object operation
// into a thrown script value. Kind is inferred from the concrete Go error
// type; there is no prototype chain behind the result (no Error.prototype
// link, no stack trace) since wiring the actual Error/TypeError/... global
// constructors is pkg/ecma3's job, not the VM's — see DESIGN.md.
func (vm *VM) errorValue(err error) value.Value {
	name := "Error"
	switch err.(type) {
	case *value.TypeError:
		name = "TypeError"
	case *value.UnresolvableReferenceError:
		name = "ReferenceError"
	case *value.SyntaxError:
		name = "SyntaxError"
	}
	o := object.New("Error", nil)
	o.PutHidden("name", value.Str_(value.NewString(name)))
	o.PutHidden("message", value.Str_(value.NewString(err.Error())))
	return value.FromObject(o)
}

// binary implements the nineteen arithmetic/bitwise/relational/equality
// operators that share a simple (pop b, pop a, push result) shape; OpEq/
// OpSeq/comparisons reuse internal/value's abstract algorithms directly.
func (vm *VM) binary(op Op, a, b value.Value) (value.Value, error) {
	switch op {
	case OpAdd:
		return jsAdd(a, b)
	case OpSub:
		return numOp(a, b, func(x, y float64) float64 { return x - y })
	case OpMul:
		return numOp(a, b, func(x, y float64) float64 { return x * y })
	case OpDiv:
		return numOp(a, b, func(x, y float64) float64 { return x / y })
	case OpMod:
		return numOp(a, b, math.Mod)

	case OpLShift:
		return shiftOp(a, b, func(x int32, s uint) int32 { return x << s })
	case OpRShift:
		return shiftOp(a, b, func(x int32, s uint) int32 { return x >> s })
	case OpURShift:
		x, err := a.ToUint32()
		if err != nil {
			return value.Value{}, err
		}
		s, err := b.ToUint32()
		if err != nil {
			return value.Value{}, err
		}
		return value.Num(float64(x >> (s & 0x1f))), nil

	case OpBAnd:
		return intOp(a, b, func(x, y int32) int32 { return x & y })
	case OpBXor:
		return intOp(a, b, func(x, y int32) int32 { return x ^ y })
	case OpBOr:
		return intOp(a, b, func(x, y int32) int32 { return x | y })

	case OpLt:
		r, err := value.AbstractCompare(a, b, true)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(r == value.CompareLess), nil
	case OpGt:
		r, err := value.AbstractCompare(b, a, false)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(r == value.CompareLess), nil
	case OpLe:
		r, err := value.AbstractCompare(b, a, false)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(r == value.CompareNotLess), nil
	case OpGe:
		r, err := value.AbstractCompare(a, b, true)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(r == value.CompareNotLess), nil

	case OpEq:
		eq, err := a.AbstractEquals(b)
		return value.Bool(eq), err
	case OpSeq:
		return value.Bool(a.StrictEquals(b)), nil

	case OpInstanceof:
		if !b.IsObject() {
			return value.Value{}, &value.TypeError{Msg: "right-hand side of instanceof is not an object"}
		}
		ok, err := b.Object().HasInstance(a)
		return value.Bool(ok), err
	case OpIn:
		if !b.IsObject() {
			return value.Value{}, &value.TypeError{Msg: "right-hand side of 'in' is not an object"}
		}
		name, err := a.ToString()
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(b.Object().HasProperty(name)), nil
	}
	return value.Value{}, &value.TypeError{Msg: "unimplemented binary operator"}
}

func jsAdd(a, b value.Value) (value.Value, error) {
	pa, err := a.ToPrimitive(value.Undefined)
	if err != nil {
		return value.Value{}, err
	}
	pb, err := b.ToPrimitive(value.Undefined)
	if err != nil {
		return value.Value{}, err
	}
	if pa.IsString() || pb.IsString() {
		sa, err := pa.ToString()
		if err != nil {
			return value.Value{}, err
		}
		sb, err := pb.ToString()
		if err != nil {
			return value.Value{}, err
		}
		return value.Str_(value.NewString(sa.Value() + sb.Value())), nil
	}
	na, err := pa.ToNumber()
	if err != nil {
		return value.Value{}, err
	}
	nb, err := pb.ToNumber()
	if err != nil {
		return value.Value{}, err
	}
	return value.Num(na + nb), nil
}

func numOp(a, b value.Value, f func(x, y float64) float64) (value.Value, error) {
	na, err := a.ToNumber()
	if err != nil {
		return value.Value{}, err
	}
	nb, err := b.ToNumber()
	if err != nil {
		return value.Value{}, err
	}
	return value.Num(f(na, nb)), nil
}

func intOp(a, b value.Value, f func(x, y int32) int32) (value.Value, error) {
	ia, err := a.ToInt32()
	if err != nil {
		return value.Value{}, err
	}
	ib, err := b.ToInt32()
	if err != nil {
		return value.Value{}, err
	}
	return value.Num(float64(f(ia, ib))), nil
}

func shiftOp(a, b value.Value, f func(x int32, s uint) int32) (value.Value, error) {
	ia, err := a.ToInt32()
	if err != nil {
		return value.Value{}, err
	}
	sb, err := b.ToUint32()
	if err != nil {
		return value.Value{}, err
	}
	return value.Num(float64(f(ia, uint(sb&0x1f)))), nil
}
