// Package ecma3 is the embeddable, host-facing API: construct an Engine,
// register Go functions as callable script globals, and run source text.
// Everything in internal/ below it is free to evolve; this package is the
// one compatibility surface callers should depend on.
package ecma3

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-ecma3/ecma3/internal/ast"
	"github.com/go-ecma3/ecma3/internal/bytecode"
	"github.com/go-ecma3/ecma3/internal/object"
	"github.com/go-ecma3/ecma3/internal/parser"
	"github.com/go-ecma3/ecma3/internal/runtime"
	"github.com/go-ecma3/ecma3/internal/value"
)

// Engine is one independent global object plus the VM that runs programs
// against it. Script state (variables, registered host functions) persists
// across calls to Eval/Run on the same Engine; two Engines never share
// anything.
type Engine struct {
	global *object.Object
	vm     *bytecode.VM

	out        io.Writer
	captureBuf *bytes.Buffer

	protoAlias  bool
	regexEngine bytecode.RegexEngine
	fnNames     map[string]bool
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithOutput mirrors everything the script prints to w, in addition to the
// per-call capture already returned in Result.Output.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.out = w }
}

// WithProtoAlias turns on the __proto__ read/write compatibility accessor
// on every object the engine creates.
func WithProtoAlias(enable bool) Option {
	return func(e *Engine) { e.protoAlias = enable }
}

// WithRegexEngine replaces the backend regular-expression literals compile
// against (bytecode.defaultRegexEngine, built on Go's RE2-based regexp
// package, otherwise). Supply one backed by a true ed.3 §15.10 backtracking
// matcher to support backreferences/lookahead the default cannot.
func WithRegexEngine(engine bytecode.RegexEngine) Option {
	return func(e *Engine) { e.regexEngine = engine }
}

// New builds a ready-to-use Engine: a fresh global object carrying the
// host print functions and the native Error constructors, and nothing
// else — no Object/Array/String/Math standard library is wired at this
// layer (see DESIGN.md).
func New(opts ...Option) (*Engine, error) {
	e := &Engine{fnNames: make(map[string]bool)}
	for _, opt := range opts {
		opt(e)
	}
	e.global = object.New("global", nil)
	if e.protoAlias {
		e.global.AllowProtoAlias(true)
	}
	e.vm = bytecode.New(e.global)
	if e.regexEngine != nil {
		e.vm.SetRegexEngine(e.regexEngine)
	}
	e.installGlobals()
	return e, nil
}

// installGlobals wires the handful of capabilities every hosted script can
// rely on regardless of what the embedder registers: the print/println
// output functions, the seven native error constructors of ed.3 §15.11, and
// the distinguished eval function.
func (e *Engine) installGlobals() {
	e.global.PutHidden("print", value.FromObject(object.NewFunction("print", 1, e.hostPrint(false), nil)))
	e.global.PutHidden("println", value.FromObject(object.NewFunction("println", 1, e.hostPrint(true), nil)))
	installErrorConstructors(e.global)
	e.vm.InstallEval(e.global)
}

func (e *Engine) hostPrint(newline bool) func(this value.Value, args []value.Value) (value.Value, error) {
	return func(this value.Value, args []value.Value) (value.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			s, err := a.ToString()
			if err != nil {
				return value.Value{}, err
			}
			parts[i] = s.Value()
		}
		line := strings.Join(parts, " ")
		if newline {
			line += "\n"
		}
		e.write(line)
		return value.Undef(), nil
	}
}

func (e *Engine) write(s string) {
	if e.captureBuf != nil {
		e.captureBuf.WriteString(s)
	}
	if e.out != nil {
		fmt.Fprint(e.out, s)
	}
}

// Parse runs the lexer and parser alone, returning the AST for inspection
// (tooling, linting) without compiling or running it. A syntax error is
// reported as a *CompileError with Stage "parsing"; the partial AST the
// parser managed to build is still returned alongside it.
func (e *Engine) Parse(src string) (*ast.Program, error) {
	prog, errs := parser.Parse(src, "<eval>")
	if len(errs) > 0 {
		return prog, newCompileError("parsing", src, errs)
	}
	return prog, nil
}

// Program is source compiled once, ready to be Run any number of times.
type Program struct {
	ast   *ast.Program
	chunk *bytecode.Chunk
}

// Compile parses and compiles src without running it.
func (e *Engine) Compile(src string) (*Program, error) {
	prog, err := e.Parse(src)
	if err != nil {
		return nil, err
	}
	chunk := bytecode.Compile(prog)
	return &Program{ast: prog, chunk: chunk}, nil
}

// Result is what one Eval/Run call produced: everything printed during
// that call, the ToString of the program's completion value (the value of
// its last statement when that is an expression statement; "undefined",
// not empty, otherwise), and whether it completed without an uncaught
// exception.
type Result struct {
	Output  string
	Value   string
	Success bool
}

// Run executes an already-compiled Program against this Engine's global
// object. Variables and functions it declares persist on the Engine for
// subsequent Run/Eval calls, exactly like re-running a REPL line against
// the same session.
func (e *Engine) Run(p *Program) (*Result, error) {
	var buf bytes.Buffer
	e.captureBuf = &buf
	defer func() { e.captureBuf = nil }()

	ctx := runtime.NewGlobalContext(e.global)
	v, err := e.vm.RunProgram(p.chunk, ctx)
	res := &Result{Output: buf.String()}
	if err != nil {
		if thrown, ok := err.(*bytecode.ThrownError); ok {
			return res, newScriptError(thrown)
		}
		return res, err
	}
	res.Success = true
	if s, serr := v.ToString(); serr == nil {
		res.Value = s.Value()
	}
	return res, nil
}

// Eval compiles and immediately runs src in one step.
func (e *Engine) Eval(src string) (*Result, error) {
	prog, err := e.Compile(src)
	if err != nil {
		return nil, err
	}
	return e.Run(prog)
}
