package object

import (
	"testing"

	"github.com/go-ecma3/ecma3/internal/value"
)

func TestGetPutOwnProperty(t *testing.T) {
	o := New("Object", nil)
	name := value.Intern("x")
	if err := o.Put(name, value.Num(42), 0); err != nil {
		t.Fatal(err)
	}
	v, err := o.Get(name)
	if err != nil || !v.IsNumber() || v.NumberVal() != 42 {
		t.Fatalf("got %v, %v", v, err)
	}
}

func TestPrototypeChainGet(t *testing.T) {
	proto := New("Object", nil)
	proto.Put(value.Intern("inherited"), value.Bool(true), 0)
	child := New("Object", proto)

	v, err := child.Get(value.Intern("inherited"))
	if err != nil || !v.ToBoolean() {
		t.Fatalf("expected to inherit property: %v, %v", v, err)
	}
}

func TestReadOnlyCannotBeOverwritten(t *testing.T) {
	o := New("Object", nil)
	name := value.Intern("k")
	o.Put(name, value.Num(1), value.ReadOnly)
	o.Put(name, value.Num(2), 0)
	v, _ := o.Get(name)
	if v.NumberVal() != 1 {
		t.Fatalf("ReadOnly property was overwritten: %v", v)
	}
}

func TestDontDeleteBlocksDelete(t *testing.T) {
	o := New("Object", nil)
	name := value.Intern("k")
	o.Put(name, value.Num(1), value.DontDelete)
	ok, err := o.Delete(name, false)
	if err != nil || ok {
		t.Fatalf("expected delete to be refused")
	}
	if !o.HasProperty(name) {
		t.Fatalf("property should still be present")
	}
	ok, _ = o.Delete(name, true)
	if !ok || o.HasProperty(name) {
		t.Fatalf("forced delete should succeed")
	}
}

func TestEnumerationSkipsDontEnumAndDuplicates(t *testing.T) {
	proto := New("Object", nil)
	proto.Put(value.Intern("a"), value.Num(1), 0)
	proto.Put(value.Intern("hidden"), value.Num(2), value.DontEnum)
	child := New("Object", proto)
	child.Put(value.Intern("b"), value.Num(3), 0)
	child.Put(value.Intern("a"), value.Num(4), 0) // shadows proto's "a"

	e := child.Enumerator()
	seen := map[string]bool{}
	for {
		name, ok := e.Next()
		if !ok {
			break
		}
		if seen[name.Value()] {
			t.Fatalf("name %q produced more than once", name.Value())
		}
		seen[name.Value()] = true
	}
	if seen["hidden"] {
		t.Fatalf("DontEnum property should not be enumerated")
	}
	if !seen["a"] || !seen["b"] {
		t.Fatalf("expected a and b, got %v", seen)
	}
	if len(seen) != 2 {
		t.Fatalf("expected exactly 2 names, got %v", seen)
	}
}

func TestProtoAliasCycleRejected(t *testing.T) {
	a := New("Object", nil)
	a.AllowProtoAlias(true)
	b := New("Object", nil)
	b.AllowProtoAlias(true)
	b.SetPrototype(a)

	err := a.Put(value.Intern("__proto__"), value.FromObject(b), 0)
	if err == nil {
		t.Fatalf("expected a cycle to be rejected")
	}
}

func TestBoxPrimitiveStringLength(t *testing.T) {
	s := value.Str_(value.NewString("hello"))
	obj, err := s.ToObject()
	if err != nil {
		t.Fatal(err)
	}
	l, err := obj.Get(value.Intern("length"))
	if err != nil || l.NumberVal() != 5 {
		t.Fatalf("got %v, %v", l, err)
	}
}

func TestToObjectOnUndefinedThrows(t *testing.T) {
	_, err := value.Undef().ToObject()
	if err == nil {
		t.Fatalf("expected TypeError")
	}
}
