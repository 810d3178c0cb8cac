package object

import "github.com/go-ecma3/ecma3/internal/value"

func init() {
	value.BoxPrimitive = boxPrimitive
}

// boxPrimitive implements ed.3 §9.9 ToObject for the three primitive
// kinds that have wrapper classes (Boolean, Number, String); it is wired
// into value.BoxPrimitive so internal/value's ToObject can call back into
// the object model without an import cycle (see the doc comment on
// value.BoxPrimitive).
//
// The wrapper carries no shared Boolean.prototype/Number.prototype/
// String.prototype link here — those belong to a concrete standard
// library built on top of this package — so DefaultValueFn simply returns
// the original primitive regardless of hint, which is observably correct
// for every ToPrimitive call site here (with/for-in/method dispatch never
// need the wrapper's own valueOf/toString to be overridable, since user
// code cannot reach Boolean.prototype without that library). The String
// wrapper additionally exposes `.length`, since indexed character access
// is part of a concrete String built-in this package does not provide.
func boxPrimitive(v value.Value) (value.Object, error) {
	switch v.Kind() {
	case value.Boolean:
		o := New("Boolean", nil)
		o.HostData = v
		o.DefaultValueFn = func(value.Kind) (value.Value, error) { return v, nil }
		return o, nil
	case value.Number:
		o := New("Number", nil)
		o.HostData = v
		o.DefaultValueFn = func(value.Kind) (value.Value, error) { return v, nil }
		return o, nil
	case value.String:
		o := New("String", nil)
		o.HostData = v
		o.DefaultValueFn = func(value.Kind) (value.Value, error) { return v, nil }
		o.PutConst("length", value.Num(float64(v.StringVal().Len())))
		return o, nil
	}
	return nil, &value.TypeError{Msg: "cannot box " + v.Kind().String()}
}

// NewFunction builds a callable (and, if constructFn is non-nil,
// constructible) native object for a host-provided function, minus the
// compiled-body/closure-scope state of user-defined functions (those are
// built by internal/bytecode's makeClosure, which also returns an *Object
// and keeps that state in its call/construct closures).
func NewFunction(name string, length int, callFn func(this value.Value, args []value.Value) (value.Value, error), constructFn func(args []value.Value) (value.Value, error)) *Object {
	o := New("Function", nil)
	o.CallFn = callFn
	o.ConstructFn = constructFn
	o.PutConst("name", value.Str_(value.NewString(name)))
	o.PutConst("length", value.Num(float64(length)))
	return o
}

// NewArray creates an Array-classed object with an own, writable,
// non-enumerable "length" whose invariant (length >= 1 + highest numeric
// index) callers populating elements must maintain themselves; this
// engine's VM is the only caller, via OpArray/array element stores.
func NewArray(proto *Object) *Object {
	o := New("Array", proto)
	o.PutHidden("length", value.Num(0))
	return o
}
