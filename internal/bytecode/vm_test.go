package bytecode

import (
	"testing"

	"github.com/go-ecma3/ecma3/internal/object"
	"github.com/go-ecma3/ecma3/internal/parser"
	"github.com/go-ecma3/ecma3/internal/runtime"
	"github.com/go-ecma3/ecma3/internal/value"
)

func runSource(t *testing.T, src string) value.Value {
	t.Helper()
	prog, errs := parser.Parse(src, "<test>")
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	chunk := Compile(prog)
	global := object.New("global", nil)
	vm := New(global)
	ctx := runtime.NewGlobalContext(global)
	v, err := vm.RunProgram(chunk, ctx)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	return v
}

func TestArithmeticAndPrecedence(t *testing.T) {
	v := runSource(t, "2 + 3 * 4;")
	n, err := v.ToNumber()
	if err != nil || n != 14 {
		t.Errorf("expected 14, got %v (%v)", n, err)
	}
}

func TestVarHoistingAndAssignment(t *testing.T) {
	v := runSource(t, `
		var x = 1;
		function bump() { x = x + 1; }
		bump();
		bump();
		x;
	`)
	n, err := v.ToNumber()
	if err != nil || n != 3 {
		t.Errorf("expected 3, got %v (%v)", n, err)
	}
}

func TestIfElseBranching(t *testing.T) {
	v := runSource(t, `
		var y;
		if (1 < 2) { y = "yes"; } else { y = "no"; }
		y;
	`)
	s, err := v.ToString()
	if err != nil || s.Value() != "yes" {
		t.Errorf("expected \"yes\", got %v (%v)", s, err)
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	v := runSource(t, `
		var i = 0, sum = 0;
		while (i < 5) { sum = sum + i; i = i + 1; }
		sum;
	`)
	n, err := v.ToNumber()
	if err != nil || n != 10 {
		t.Errorf("expected 10, got %v (%v)", n, err)
	}
}

func TestTryCatchCatchesThrownValue(t *testing.T) {
	v := runSource(t, `
		var caught;
		try {
			throw "boom";
		} catch (e) {
			caught = e;
		}
		caught;
	`)
	s, err := v.ToString()
	if err != nil || s.Value() != "boom" {
		t.Errorf("expected \"boom\", got %v (%v)", s, err)
	}
}

func TestTryFinallyRunsOnReturn(t *testing.T) {
	v := runSource(t, `
		var log = "";
		function withFinally() {
			try {
				log = log + "a";
				return "early";
			} finally {
				log = log + "b";
			}
		}
		withFinally();
		log;
	`)
	s, err := v.ToString()
	if err != nil || s.Value() != "ab" {
		t.Errorf("expected \"ab\", got %v (%v)", s, err)
	}
}

func TestForInEnumeratesOwnNames(t *testing.T) {
	v := runSource(t, `
		var obj = { a: 1, b: 2 };
		var names = "";
		for (var k in obj) { names = names + k; }
		names;
	`)
	s, err := v.ToString()
	if err != nil {
		t.Fatalf("ToString: %v", err)
	}
	if s.Value() != "ab" && s.Value() != "ba" {
		t.Errorf("expected some permutation of \"ab\", got %v", s)
	}
}

func TestConstructorBuildsInstanceWithPrototype(t *testing.T) {
	v := runSource(t, `
		function Point(x, y) { this.x = x; this.y = y; }
		Point.prototype.sum = function() { return this.x + this.y; };
		var p = new Point(3, 4);
		p.sum();
	`)
	n, err := v.ToNumber()
	if err != nil || n != 7 {
		t.Errorf("expected 7, got %v (%v)", n, err)
	}
}

func TestUncaughtThrowSurfacesAsThrownError(t *testing.T) {
	prog, errs := parser.Parse(`throw "uncaught";`, "<test>")
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	chunk := Compile(prog)
	global := object.New("global", nil)
	vm := New(global)
	ctx := runtime.NewGlobalContext(global)
	_, err := vm.RunProgram(chunk, ctx)
	thrown, ok := err.(*ThrownError)
	if !ok {
		t.Fatalf("expected *ThrownError, got %T: %v", err, err)
	}
	s, serr := thrown.Value.ToString()
	if serr != nil || s.Value() != "uncaught" {
		t.Errorf("expected thrown value \"uncaught\", got %v", s)
	}
}
