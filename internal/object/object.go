// Package object implements the polymorphic native object model of spec
// §3 ("Object") and §4.2: a property map keyed by interned name with
// ReadOnly/DontEnum/DontDelete/Internal attribute bits, a one-slot
// most-recently-used lookup cache, a prototype link, and the class vtable
// operations (Get/Put/CanPut/HasProperty/Delete/DefaultValue/Enumerator,
// optional Call/Construct/HasInstance).
package object

import (
	"github.com/go-ecma3/ecma3/internal/value"
)

// prop is a single property slot: its value and attribute bitmask.
type prop struct {
	v     value.Value
	attrs value.PropAttr
}

// Object is the standard "native" object of ed.3 §8.6.2: a property map
// plus an optional class-specific vtable. Host objects wrap it (embedding
// *Object) to add their own state while
// reusing its property-map behavior; Function-like objects set CallFn /
// ConstructFn to participate in CALL/NEW bytecode.
type Object struct {
	class string
	proto *Object

	props map[string]*prop
	order []string // insertion order, for stable enumeration

	mruName string
	mruProp *prop

	// HostData is an opaque pointer for embedding-provided host objects
	//; the engine never
	// interprets it.
	HostData any

	// allowProtoAlias implements the compatibility flag exposing
	// __proto__ as a read/write alias for Prototype.
	allowProtoAlias bool

	// CallFn / ConstructFn / HasInstanceFn / DefaultValueFn let a class
	// override the corresponding vtable entry; nil means "not present"
	// (IsCallable/IsConstructor report false) or "use the generic
	// DefaultValue algorithm" for DefaultValueFn.
	CallFn         func(this value.Value, args []value.Value) (value.Value, error)
	ConstructFn    func(args []value.Value) (value.Value, error)
	HasInstanceFn  func(v value.Value) (bool, error)
	DefaultValueFn func(hint value.Kind) (value.Value, error)
}

// New creates an empty native object of the given class name with the
// given prototype (nil for none).
func New(class string, proto *Object) *Object {
	return &Object{class: class, proto: proto, props: make(map[string]*prop)}
}

// AllowProtoAlias enables the __proto__ compatibility accessor on o, one
// of the engine's opt-in compatibility flags.
func (o *Object) AllowProtoAlias(enable bool) { o.allowProtoAlias = enable }

func (o *Object) ClassName() string { return o.class }

// Prototype returns o's prototype link as a value.Object (nil-safe: a nil
// *Object becomes a nil value.Object interface, not a non-nil interface
// wrapping a nil pointer, so callers can compare directly to nil).
func (o *Object) Prototype() value.Object {
	if o.proto == nil {
		return nil
	}
	return o.proto
}

// SetPrototype replaces o's prototype link directly, bypassing the
// __proto__ cycle check (used by constructors wiring up .prototype before
// any user code can observe the object).
func (o *Object) SetPrototype(p *Object) { o.proto = p }

func (o *Object) lookupOwn(name string) (*prop, bool) {
	if o.mruProp != nil && o.mruName == name {
		return o.mruProp, true
	}
	p, ok := o.props[name]
	if ok {
		o.mruName, o.mruProp = name, p
	}
	return p, ok
}

// Get implements ed.3 §8.6.2.1: walk own property, then prototype chain.
func (o *Object) Get(name *value.Str) (value.Value, error) {
	n := name.Value()
	if o.allowProtoAlias && n == "__proto__" {
		if o.proto == nil {
			return value.Null_(), nil
		}
		return value.FromObject(o.proto), nil
	}
	for cur := o; cur != nil; cur = cur.proto {
		if p, ok := cur.lookupOwn(n); ok {
			return p.v, nil
		}
	}
	return value.Undef(), nil
}

// CanPut implements ed.3 §8.6.2.3: false if an own or inherited property
// exists with ReadOnly set; otherwise true (a new own property may always
// be created unless an ancestor marks the name ReadOnly).
func (o *Object) CanPut(name *value.Str) bool {
	n := name.Value()
	for cur := o; cur != nil; cur = cur.proto {
		if p, ok := cur.lookupOwn(n); ok {
			return p.attrs&value.ReadOnly == 0
		}
	}
	return true
}

// Put implements ed.3 §8.6.2.2: if CanPut, create-or-update the own
// property (attrs only take effect on creation; updating an existing
// property keeps its attributes unchanged).
func (o *Object) Put(name *value.Str, v value.Value, attrs value.PropAttr) error {
	if !o.CanPut(name) {
		return nil // silent no-op per non-strict ed.3 semantics
	}
	n := name.Value()
	if o.allowProtoAlias && n == "__proto__" {
		return o.putProtoAlias(v)
	}
	if p, ok := o.props[n]; ok {
		p.v = v
		return nil
	}
	p := &prop{v: v, attrs: attrs}
	o.props[n] = p
	o.order = append(o.order, n)
	o.mruName, o.mruProp = n, p
	return nil
}

// putProtoAlias implements the __proto__ write path: rejects a prototype
// chain that would create a cycle by walking the proposed chain first.
// The check only follows *Object prototype links, so a cycle introduced
// transitively through a non-default value.Object implementation is a
// host responsibility, not this package's — see DESIGN.md.
func (o *Object) putProtoAlias(v value.Value) error {
	if v.IsNull() {
		o.proto = nil
		return nil
	}
	if !v.IsObject() {
		return nil
	}
	newProto, ok := v.Object().(*Object)
	if !ok {
		o.proto = nil
		return nil
	}
	for cur := newProto; cur != nil; cur = cur.proto {
		if cur == o {
			return &value.TypeError{Msg: "cyclic __proto__ assignment rejected"}
		}
	}
	o.proto = newProto
	return nil
}

// HasProperty implements ed.3 §8.6.2.4.
func (o *Object) HasProperty(name *value.Str) bool {
	n := name.Value()
	for cur := o; cur != nil; cur = cur.proto {
		if _, ok := cur.lookupOwn(n); ok {
			return true
		}
	}
	return false
}

// Delete implements ed.3 §8.6.2.5. force bypasses the DontDelete check;
// the VM always passes false (it unwinds catch/with scopes by truncating
// the scope chain, not by deleting bindings).
func (o *Object) Delete(name *value.Str, force bool) (bool, error) {
	n := name.Value()
	p, ok := o.props[n]
	if !ok {
		return true, nil
	}
	if !force && p.attrs&value.DontDelete != 0 {
		return false, nil
	}
	delete(o.props, n)
	if o.mruName == n {
		o.mruName, o.mruProp = "", nil
	}
	for i, on := range o.order {
		if on == n {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// DefaultValue implements ed.3 §8.6.2.6. hint==value.String calls toString
// then valueOf; any other hint (including the zero value, Undefined, used
// to mean "no explicit hint" i.e. Number) reverses that order. A class may
// override this entirely via DefaultValueFn (used for classes such as
// Date whose hint defaults to String rather than Number).
func (o *Object) DefaultValue(hint value.Kind) (value.Value, error) {
	if o.DefaultValueFn != nil {
		return o.DefaultValueFn(hint)
	}
	order := []string{"valueOf", "toString"}
	if hint == value.String {
		order = []string{"toString", "valueOf"}
	}
	for _, name := range order {
		v, err := o.Get(value.Intern(name))
		if err != nil {
			return value.Value{}, err
		}
		if v.IsObject() && v.Object().IsCallable() {
			res, err := v.Object().Call(value.FromObject(o), nil)
			if err != nil {
				return value.Value{}, err
			}
			if !res.IsObject() {
				return res, nil
			}
		}
	}
	return value.Value{}, &value.TypeError{Msg: "cannot convert object to a primitive value"}
}

// IsCallable / Call / IsConstructor / Construct / HasInstance implement
// the optional vtable entries: presence of a Call implementation marks a
// callable object, presence of Construct marks a constructor.
func (o *Object) IsCallable() bool    { return o.CallFn != nil }
func (o *Object) IsConstructor() bool { return o.ConstructFn != nil }

func (o *Object) Call(this value.Value, args []value.Value) (value.Value, error) {
	if o.CallFn == nil {
		return value.Value{}, &value.TypeError{Msg: o.class + " is not a function"}
	}
	return o.CallFn(this, args)
}

func (o *Object) Construct(args []value.Value) (value.Value, error) {
	if o.ConstructFn == nil {
		return value.Value{}, &value.TypeError{Msg: o.class + " is not a constructor"}
	}
	return o.ConstructFn(args)
}

func (o *Object) HasInstance(v value.Value) (bool, error) {
	if o.HasInstanceFn == nil {
		return false, &value.TypeError{Msg: "instanceof called on a non-function object"}
	}
	return o.HasInstanceFn(v)
}
