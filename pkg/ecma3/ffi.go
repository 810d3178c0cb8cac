package ecma3

import (
	"fmt"
	"reflect"

	"github.com/go-ecma3/ecma3/internal/object"
	"github.com/go-ecma3/ecma3/internal/value"
)

// RegisterFunction exposes a Go function as a callable global under name.
// fn must be a non-nil func value; its parameters and results are each
// converted through goToJS/jsToGo, so only the handful of shapes those
// two functions know about are supported — string, the numeric kinds,
// bool, and a trailing error result are enough for the host functions a
// script typically needs (formatting, I/O, lookups), without pulling in
// a general-purpose marshaling layer.
func (e *Engine) RegisterFunction(name string, fn interface{}) error {
	if name == "" {
		return fmt.Errorf("ecma3: RegisterFunction: name must not be empty")
	}
	if e.fnNames[name] {
		return fmt.Errorf("ecma3: RegisterFunction: %q already registered", name)
	}
	if fn == nil {
		return fmt.Errorf("ecma3: RegisterFunction %q: fn must not be nil", name)
	}
	rv := reflect.ValueOf(fn)
	rt := rv.Type()
	if rt.Kind() != reflect.Func {
		return fmt.Errorf("ecma3: RegisterFunction %q: fn must be a function, got %s", name, rt.Kind())
	}
	for i := 0; i < rt.NumIn(); i++ {
		if !supportedGoType(rt.In(i)) {
			return fmt.Errorf("ecma3: RegisterFunction %q: unsupported parameter type %s", name, rt.In(i))
		}
	}
	for i := 0; i < rt.NumOut(); i++ {
		ot := rt.Out(i)
		isLastError := i == rt.NumOut()-1 && ot.Implements(reflect.TypeOf((*error)(nil)).Elem())
		if !isLastError && !supportedGoType(ot) {
			return fmt.Errorf("ecma3: RegisterFunction %q: unsupported return type %s", name, ot)
		}
	}

	call := func(this value.Value, args []value.Value) (value.Value, error) {
		in, err := buildArgs(rt, args)
		if err != nil {
			return value.Value{}, err
		}
		out := rv.Call(in)
		return reduceResults(rt, out)
	}
	e.global.PutHidden(name, value.FromObject(object.NewFunction(name, rt.NumIn(), call, nil)))
	e.fnNames[name] = true
	return nil
}

func supportedGoType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Float64, reflect.Float32,
		reflect.Int, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func buildArgs(rt reflect.Type, args []value.Value) ([]reflect.Value, error) {
	n := rt.NumIn()
	in := make([]reflect.Value, n)
	for i := 0; i < n; i++ {
		var arg value.Value
		if i < len(args) {
			arg = args[i]
		} else {
			arg = value.Undef()
		}
		gv, err := jsToGo(arg, rt.In(i))
		if err != nil {
			return nil, err
		}
		in[i] = gv
	}
	return in, nil
}

func jsToGo(v value.Value, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.String:
		s, err := v.ToString()
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(s.Value()).Convert(t), nil
	case reflect.Bool:
		return reflect.ValueOf(v.ToBoolean()).Convert(t), nil
	case reflect.Float64, reflect.Float32:
		n, err := v.ToNumber()
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := v.ToInteger()
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(int64(n)).Convert(t), nil
	default:
		return reflect.Value{}, fmt.Errorf("ecma3: unsupported parameter type %s", t)
	}
}

func goToJS(rv reflect.Value) (value.Value, error) {
	switch rv.Kind() {
	case reflect.String:
		return value.Str_(value.NewString(rv.String())), nil
	case reflect.Bool:
		return value.Bool(rv.Bool()), nil
	case reflect.Float64, reflect.Float32:
		return value.Num(rv.Float()), nil
	case reflect.Int, reflect.Int32, reflect.Int64:
		return value.Num(float64(rv.Int())), nil
	default:
		return value.Value{}, fmt.Errorf("ecma3: unsupported return type %s", rv.Type())
	}
}

func reduceResults(rt reflect.Type, out []reflect.Value) (value.Value, error) {
	n := rt.NumOut()
	if n == 0 {
		return value.Undef(), nil
	}
	last := out[n-1]
	if rt.Out(n-1).Implements(reflect.TypeOf((*error)(nil)).Elem()) {
		if !last.IsNil() {
			return value.Value{}, last.Interface().(error)
		}
		if n == 1 {
			return value.Undef(), nil
		}
		return goToJS(out[0])
	}
	return goToJS(out[0])
}
