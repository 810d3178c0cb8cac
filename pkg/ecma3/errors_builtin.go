package ecma3

import (
	"github.com/go-ecma3/ecma3/internal/object"
	"github.com/go-ecma3/ecma3/internal/value"
)

// nativeErrorKinds lists the native error constructors of ed.3 §15.11:
// Error itself plus its six named subclasses, each sharing Error's shape
// (a name and a message, and a toString that joins them) but distinct by
// constructor identity so `instanceof TypeError` can tell them apart.
var nativeErrorKinds = []string{
	"Error", "EvalError", "RangeError", "ReferenceError",
	"SyntaxError", "TypeError", "URIError",
}

// installErrorConstructors wires the seven native error constructors onto
// global. Error.prototype carries the shared toString; each subclass
// prototype chains to it and only overrides "name".
func installErrorConstructors(global *object.Object) {
	basePrototype := object.New("Error", nil)
	basePrototype.PutHidden("name", value.Str_(value.NewString("Error")))
	basePrototype.PutHidden("message", value.Str_(value.NewString("")))
	basePrototype.PutHidden("toString", value.FromObject(object.NewFunction("toString", 0, errorToString, nil)))

	for _, name := range nativeErrorKinds {
		proto := basePrototype
		if name != "Error" {
			proto = object.New("Error", basePrototype)
			proto.PutHidden("name", value.Str_(value.NewString(name)))
		}
		ctorName := name
		ctorProto := proto
		construct := func(args []value.Value) (value.Value, error) {
			return makeErrorInstance(ctorProto, args), nil
		}
		call := func(this value.Value, args []value.Value) (value.Value, error) {
			return makeErrorInstance(ctorProto, args), nil
		}
		ctor := object.NewFunction(ctorName, 1, call, construct)
		ctor.PutHidden("prototype", value.FromObject(proto))
		proto.PutHidden("constructor", value.FromObject(ctor))
		global.PutHidden(ctorName, value.FromObject(ctor))
	}
}

func makeErrorInstance(proto *object.Object, args []value.Value) value.Value {
	inst := object.New("Error", proto)
	if len(args) > 0 && !args[0].IsUndefined() {
		if s, err := args[0].ToString(); err == nil {
			inst.PutEnumerable("message", value.Str_(s))
		}
	}
	return value.FromObject(inst)
}

func errorToString(this value.Value, _ []value.Value) (value.Value, error) {
	if !this.IsObject() {
		return value.Str_(value.NewString("Error")), nil
	}
	obj, ok := this.Object().(*object.Object)
	if !ok {
		return value.Str_(value.NewString("Error")), nil
	}
	name := "Error"
	if v, err := obj.GetString("name"); err == nil && v.IsString() {
		name = v.StringVal().Value()
	}
	message := ""
	if v, err := obj.GetString("message"); err == nil && v.IsString() {
		message = v.StringVal().Value()
	}
	if message == "" {
		return value.Str_(value.NewString(name)), nil
	}
	return value.Str_(value.NewString(name + ": " + message)), nil
}
