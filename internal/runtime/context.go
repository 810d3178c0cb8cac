package runtime

import (
	"github.com/go-ecma3/ecma3/internal/value"
)

// Context is an execution context (ed.3 §10.2): the variable object new
// var/function declarations bind into, the scope chain identifiers
// resolve against, the this binding, and whether the context runs in the
// implicit DontDelete mode of global/function code (true) or the fully
// deletable mode eval code runs in (false).
type Context struct {
	Scope          *Chain
	VariableObject value.Object
	This           value.Value

	// VarAttrs is the attribute mask applied to variable and function
	// declarations hoisted into VariableObject: DontDelete for global and
	// function code, 0 for eval code (ed.3 §10.2.1-3).
	VarAttrs value.PropAttr
}

// NewGlobalContext builds the single execution context active before any
// call: its variable object and sole scope is global, and `this` is
// global itself (ed.3 §10.2.3).
func NewGlobalContext(global value.Object) *Context {
	return &Context{
		Scope:          NewChain(global),
		VariableObject: global,
		This:           value.FromObject(global),
		VarAttrs:       value.DontDelete,
	}
}

// NewFunctionContext builds the execution context entered on a function
// call (ed.3 §10.2.2): scope is the function's closed-over chain with a
// fresh activation object prepended, the activation object is also the
// variable object, and thisBinding is computed by the caller per the
// non-strict coercion rule (undefined/null this becomes the global
// object; a primitive this is boxed).
func NewFunctionContext(closureScope *Chain, activation value.Object, this value.Value) *Context {
	scope := closureScope.Clone()
	scope.Push(activation)
	return &Context{
		Scope:          scope,
		VariableObject: activation,
		This:           this,
		VarAttrs:       value.DontDelete,
	}
}

// NewEvalContext builds the execution context for a call to the built-in
// eval function (ed.3 §10.2.1, §15.1.2.1): direct eval shares the caller's
// scope chain, variable object, and this; declarations it hoists are
// deletable, unlike global/function code's.
func NewEvalContext(callerScope *Chain, callerVariableObject value.Object, this value.Value) *Context {
	return &Context{
		Scope:          callerScope,
		VariableObject: callerVariableObject,
		This:           this,
		VarAttrs:       0,
	}
}

// ComputeThis applies the non-strict `this` coercion rule used when
// entering a function context: undefined or null becomes the global
// object, any other primitive is boxed via ToObject, and an object
// passes through unchanged.
func ComputeThis(global value.Object, supplied value.Value) (value.Value, error) {
	if supplied.IsNullOrUndefined() {
		return value.FromObject(global), nil
	}
	if supplied.IsObject() {
		return supplied, nil
	}
	obj, err := supplied.ToObject()
	if err != nil {
		return value.Value{}, err
	}
	return value.FromObject(obj), nil
}
