package bytecode

import (
	"github.com/go-ecma3/ecma3/internal/token"
	"github.com/go-ecma3/ecma3/internal/value"
)

// Instr is one decoded instruction. A and B carry whatever operands Op
// needs (a branch target, a literal-pool index, an argument count); most
// opcodes use neither.
type Instr struct {
	Op   Op
	A, B int
}

// FunctionProto is the compiled form of a function declaration or
// expression: its own Chunk plus the metadata the VM needs to build an
// activation object and a closure around it at OpFunc/CALL time.
type FunctionProto struct {
	Name   string
	Params []string
	Body   *Chunk
}

// Chunk is one compiled function or program body: its instruction
// stream plus the constant, function, and source-location pools OpLiteral
// /OpFunc/OpLoc index into, and the names ed.3 §10.1.3 variable
// instantiation must bind into the variable object before this chunk's
// first instruction ever runs.
type Chunk struct {
	Code      []Instr
	Consts    []value.Value
	Functions []*FunctionProto
	Locations []token.Position

	// Finallys holds each try statement's finally block compiled as its
	// own self-contained Chunk, indexed by OpSTryF's operand. A finally clause runs whenever its try's protected region
	// leaves abruptly for any reason (exception, return, break, continue)
	// as well as on normal completion, and its own completion (if
	// abrupt) overrides whichever one was already in flight — compiling
	// it as an independently runnable Chunk lets the VM execute it by a
	// plain recursive call and use that call's own result to decide
	// whether to resume the original unwind or replace it.
	Finallys []*Chunk

	// MaxStack is reserved for a future fixed-capacity operand stack; the
	// VM currently grows its stack with append, so the compiler leaves
	// this at zero.
	MaxStack int

	// VarNames are every `var`-declared name in this chunk's own
	// function/program scope (not nested functions), instantiated as
	// undefined unless already present.
	VarNames []string
	// HoistedFuncs are top-level function declarations of this scope,
	// instantiated (unconditionally bound) before VarNames, per ed.3
	// §10.1.3's ordering (functions override same-named vars, not vice
	// versa). Index i's proto is the i'th hoisted declaration; its name
	// is proto.Name.
	HoistedFuncs []int // indices into Functions
}

func NewChunk() *Chunk {
	return &Chunk{}
}

// Emit appends an instruction and returns its index (its "here" address),
// used by the compiler as the jump target for a backward branch or as
// the site to Patch once a forward branch's target is known.
func (c *Chunk) Emit(op Op, operands ...int) int {
	instr := Instr{Op: op}
	if len(operands) > 0 {
		instr.A = operands[0]
	}
	if len(operands) > 1 {
		instr.B = operands[1]
	}
	c.Code = append(c.Code, instr)
	return len(c.Code) - 1
}

// Here returns the address the next Emit call will use.
func (c *Chunk) Here() int { return len(c.Code) }

// Patch overwrites instruction at's A operand (always its branch target)
// with target, once a forward jump's destination becomes known.
func (c *Chunk) Patch(at, target int) {
	c.Code[at].A = target
}

// PatchB overwrites instruction at's B operand. The compiler does not call
// it: OpSTryC's second operand is fixed at -1 when emitted.
func (c *Chunk) PatchB(at, target int) {
	c.Code[at].B = target
}

func (c *Chunk) AddConst(v value.Value) int {
	c.Consts = append(c.Consts, v)
	return len(c.Consts) - 1
}

func (c *Chunk) AddFunction(f *FunctionProto) int {
	c.Functions = append(c.Functions, f)
	return len(c.Functions) - 1
}

func (c *Chunk) AddLocation(pos token.Position) int {
	c.Locations = append(c.Locations, pos)
	return len(c.Locations) - 1
}

func (c *Chunk) AddFinally(f *Chunk) int {
	c.Finallys = append(c.Finallys, f)
	return len(c.Finallys) - 1
}
