package runtime

import "github.com/go-ecma3/ecma3/internal/value"

// DeclareVar implements the variable-instantiation half of ed.3 §10.1.3:
// if name is not already an own property of the variable object, create
// it as undefined with ctx.VarAttrs; if it already exists, leave its
// current value and attributes untouched (a second `var x` never clobbers
// a value x already holds, including one left by a prior function
// declaration of the same name).
func (ctx *Context) DeclareVar(name *value.Str) error {
	if ctx.VariableObject.HasProperty(name) {
		return nil
	}
	return ctx.VariableObject.Put(name, value.Undef(), ctx.VarAttrs)
}

// DeclareFunction implements the function-instantiation half of ed.3
// §10.1.3: bind name to fn in the variable object unconditionally
// (replacing any existing value, unlike DeclareVar), except that an
// existing DontDelete property is left alone only when it is itself the
// variable object's own property — this is the caller's responsibility to
// check via CanPut, since this method just performs an ordinary Put.
func (ctx *Context) DeclareFunction(name *value.Str, fn value.Value) error {
	return ctx.VariableObject.Put(name, fn, ctx.VarAttrs)
}
