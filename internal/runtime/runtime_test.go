package runtime

import (
	"testing"

	"github.com/go-ecma3/ecma3/internal/object"
	"github.com/go-ecma3/ecma3/internal/value"
)

func TestResolveFindsInnermostBinding(t *testing.T) {
	global := object.New("global", nil)
	global.PutEnumerable(value.Intern("x").Value(), value.Num(1))
	chain := NewChain(global)

	withObj := object.New("Object", nil)
	withObj.PutEnumerable(value.Intern("x").Value(), value.Num(2))
	mark := chain.Push(withObj)

	ref := chain.Resolve(value.Intern("x"))
	if ref.IsUnresolvable() {
		t.Fatal("expected resolvable reference")
	}
	v, err := ref.Base.Get(value.Intern("x"))
	if err != nil || v.NumberVal() != 2 {
		t.Fatalf("expected inner x=2, got %v, %v", v, err)
	}

	chain.TruncateTo(mark)
	ref = chain.Resolve(value.Intern("x"))
	v, _ = ref.Base.Get(value.Intern("x"))
	if v.NumberVal() != 1 {
		t.Fatalf("expected outer x=1 after truncate, got %v", v)
	}
}

func TestResolveUnresolvableWhenAbsentEverywhere(t *testing.T) {
	global := object.New("global", nil)
	chain := NewChain(global)
	ref := chain.Resolve(value.Intern("missing"))
	if !ref.IsUnresolvable() {
		t.Fatal("expected an unresolvable reference")
	}
}

func TestComputeThisBoxesPrimitiveAndSubstitutesGlobalForNil(t *testing.T) {
	global := object.New("global", nil)

	this, err := ComputeThis(global, value.Undef())
	if err != nil || this.Object() != global {
		t.Fatalf("expected global substituted for undefined this, got %v, %v", this, err)
	}

	this, err = ComputeThis(global, value.Num(5))
	if err != nil || !this.IsObject() || this.Object().ClassName() != "Number" {
		t.Fatalf("expected boxed Number this, got %v, %v", this, err)
	}
}

func TestDeclareVarDoesNotClobberExistingValue(t *testing.T) {
	global := object.New("global", nil)
	ctx := NewGlobalContext(global)

	name := value.Intern("x")
	if err := global.Put(name, value.Num(7), 0); err != nil {
		t.Fatal(err)
	}
	if err := ctx.DeclareVar(name); err != nil {
		t.Fatal(err)
	}
	v, _ := global.Get(name)
	if v.NumberVal() != 7 {
		t.Fatalf("DeclareVar should not overwrite existing value, got %v", v)
	}
}

func TestFunctionContextPrependsActivationObject(t *testing.T) {
	global := object.New("global", nil)
	closureScope := NewChain(global)
	activation := object.New("Activation", nil)

	ctx := NewFunctionContext(closureScope, activation, value.FromObject(global))
	if ctx.VariableObject != activation {
		t.Fatal("variable object should be the activation object")
	}
	if ctx.Scope.Innermost() != activation {
		t.Fatal("activation object should be the innermost scope")
	}
	// the original closure chain must be unaffected (closures share a base
	// chain across multiple concurrent calls)
	if closureScope.Len() != 1 {
		t.Fatalf("closure scope should be untouched, got len %d", closureScope.Len())
	}
}
