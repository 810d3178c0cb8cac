// Package value implements the ECMAScript value model: a tagged union over
// undefined, null, boolean, number, string, and object, plus two internal
// kinds — reference and completion — that the bytecode VM produces and
// consumes but which never escape to user code.
//
// Value is the single sum type used both publicly and on the VM operand
// stack, rather than splitting a public value type from an internal one
// that adds reference and completion; Reference and Completion are
// carried inside it behind the Kind tag, but every public API that
// returns a Value to a host or to user code is documented to never return
// a reference or completion kind — the VM unwraps those before they cross
// that boundary.
package value

// Kind tags the active alternative of a Value.
type Kind int

const (
	Undefined Kind = iota
	Null
	Boolean
	Number
	String
	Obj
	// Reference and Completion are internal VM-only kinds.
	Reference
	Completion
)

func (k Kind) String() string {
	switch k {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Obj:
		return "object"
	case Reference:
		return "reference"
	case Completion:
		return "completion"
	}
	return "unknown"
}

// Object is the minimal capability contract a value's object alternative
// must satisfy. internal/object.Object implements
// this; Value only depends on the interface so the value and object
// packages do not import each other cyclically.
type Object interface {
	ClassName() string
	Get(name *Str) (Value, error)
	Put(name *Str, v Value, attrs PropAttr) error
	CanPut(name *Str) bool
	HasProperty(name *Str) bool
	Delete(name *Str, force bool) (bool, error)
	DefaultValue(hint Kind) (Value, error)
	Enumerator() Enumerator
	Prototype() Object

	IsCallable() bool
	Call(this Value, args []Value) (Value, error)
	IsConstructor() bool
	Construct(args []Value) (Value, error)
	HasInstance(v Value) (bool, error)
}

// Enumerator produces each own, non-DontEnum property name of an object
// exactly once, then each inherited one. Consumers may assume no structural
// mutation of the object occurs while enumerating; the VM's S_ENUM block
// instead snapshots names up front specifically so for-in can tolerate
// deletions of properties during the loop body.
type Enumerator interface {
	Next() (name *Str, ok bool)
}

// PropAttr is the attribute bitmask gating property mutation: ReadOnly,
// DontEnum, DontDelete, Internal.
type PropAttr uint8

const (
	ReadOnly PropAttr = 1 << iota
	DontEnum
	DontDelete
	Internal
)

// Reference is the internal (base object, property name) binding produced
// by name/property lookup. A Reference with a nil Base
// denotes an unresolvable binding ("undefined-reference"): scope lookup
// exhausted the chain without finding an object that HasProperty(Name).
type Ref struct {
	Base Object
	Name *Str
	// StrictBase marks a base that resolved to the activation object
	// itself, distinguishing it for CALL's `this`-computation rule: `this`
	// is computed from the reference base unless the base is the
	// activation object, in which case `this` is undefined.
	StrictBase bool
}

// CompletionType classifies how a statement finished (the glossary).
type CompletionType int

const (
	CompletionNormal CompletionType = iota
	CompletionBreak
	CompletionContinue
	CompletionReturn
	CompletionThrow
)

// Completion is the internal result of evaluating a statement, consumed
// entirely by the VM's block-unwind logic; it never appears in
// a Value returned across the host embedding boundary.
type Comp struct {
	Type   CompletionType
	Value  Value
	Target int // labelset target for break/continue; -1 for unlabelled
}

// Value is the tagged union described above. The zero Value is Undefined.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    *Str
	obj  Object
	ref  *Ref
	comp *Comp
}

func Undef() Value                  { return Value{kind: Undefined} }
func Null_() Value                  { return Value{kind: Null} }
func Bool(b bool) Value             { return Value{kind: Boolean, b: b} }
func Num(n float64) Value           { return Value{kind: Number, n: n} }
func Str_(s *Str) Value             { return Value{kind: String, s: s} }
func FromObject(o Object) Value     { return Value{kind: Obj, obj: o} }
func FromRef(r *Ref) Value          { return Value{kind: Reference, ref: r} }
func FromCompletion(c *Comp) Value  { return Value{kind: Completion, comp: c} }

func (v Value) Kind() Kind       { return v.kind }
func (v Value) IsUndefined() bool { return v.kind == Undefined }
func (v Value) IsNull() bool      { return v.kind == Null }
func (v Value) IsBoolean() bool   { return v.kind == Boolean }
func (v Value) IsNumber() bool    { return v.kind == Number }
func (v Value) IsString() bool    { return v.kind == String }
func (v Value) IsObject() bool    { return v.kind == Obj }
func (v Value) IsReference() bool { return v.kind == Reference }
func (v Value) IsCompletion() bool { return v.kind == Completion }

// IsNullOrUndefined reports ed.3 §9's frequent "undefined or null" guard.
func (v Value) IsNullOrUndefined() bool { return v.kind == Undefined || v.kind == Null }

func (v Value) Bool() bool     { return v.b }
func (v Value) NumberVal() float64 { return v.n }
func (v Value) StringVal() *Str { return v.s }
func (v Value) Object() Object  { return v.obj }
func (v Value) Ref() *Ref       { return v.ref }
func (v Value) CompletionVal() *Comp { return v.comp }

// GetValue dereferences a reference to the value it denotes, or returns a
// non-reference value unchanged. A reference whose base is absent cannot
// be dereferenced: GetValue then returns Undefined together with an
// *UnresolvableReferenceError naming the identifier, rather than silently
// succeeding.
func (v Value) GetValue() (Value, error) {
	if v.kind != Reference {
		return v, nil
	}
	r := v.ref
	if r.Base == nil {
		return Undef(), &UnresolvableReferenceError{Name: r.Name}
	}
	return r.Base.Get(r.Name)
}

// IsUnresolvable reports whether a reference's base was never found by
// scope lookup.
func (r *Ref) IsUnresolvable() bool { return r == nil || r.Base == nil }

// UnresolvableReferenceError is returned by GetValue/PutValue on a
// reference with an absent base.
type UnresolvableReferenceError struct {
	Name *Str
}

func (e *UnresolvableReferenceError) Error() string {
	n := "<unknown>"
	if e.Name != nil {
		n = e.Name.Value()
	}
	return n + " is not defined"
}
