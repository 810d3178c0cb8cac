package value

import "math"

// StrictEquals implements ed.3 §11.9.6 (===): no coercion, NaN never equal
// to anything including itself, -0 === +0 is true, objects compare by
// identity.
func (v Value) StrictEquals(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Undefined, Null:
		return true
	case Boolean:
		return v.b == o.b
	case Number:
		if math.IsNaN(v.n) || math.IsNaN(o.n) {
			return false
		}
		return v.n == o.n // Go's == already treats -0 == +0 as true
	case String:
		return v.s.Equal(o.s)
	case Obj:
		return v.obj == o.obj
	}
	return false
}

// AbstractEquals implements ed.3 §11.9.3 (==), including the cross-type
// coercion rules and their recursion bound (an object compared to a
// primitive is first reduced via ToPrimitive, at most once).
func (v Value) AbstractEquals(o Value) (bool, error) {
	if v.kind == o.kind {
		return v.StrictEquals(o), nil
	}

	if v.IsNullOrUndefined() && o.IsNullOrUndefined() {
		return true, nil
	}
	if v.IsNullOrUndefined() || o.IsNullOrUndefined() {
		return false, nil
	}

	if v.kind == Number && o.kind == String {
		on, err := o.ToNumber()
		if err != nil {
			return false, err
		}
		if math.IsNaN(v.n) || math.IsNaN(on) {
			return false, nil
		}
		return v.n == on, nil
	}
	if v.kind == String && o.kind == Number {
		return o.AbstractEquals(v)
	}
	if v.kind == Boolean {
		vn, err := v.ToNumber()
		if err != nil {
			return false, err
		}
		return Num(vn).AbstractEquals(o)
	}
	if o.kind == Boolean {
		on, err := o.ToNumber()
		if err != nil {
			return false, err
		}
		return v.AbstractEquals(Num(on))
	}
	if (v.kind == Number || v.kind == String) && o.kind == Obj {
		op, err := o.ToPrimitive(0)
		if err != nil {
			return false, err
		}
		return v.AbstractEquals(op)
	}
	if v.kind == Obj && (o.kind == Number || o.kind == String) {
		vp, err := v.ToPrimitive(0)
		if err != nil {
			return false, err
		}
		return vp.AbstractEquals(o)
	}
	return false, nil
}

// CompareResult is the tri-state result of an abstract relational
// comparison (ed.3 §11.8.5): LessThan, NotLess (false), or Undefined (a
// NaN was involved, so every relational operator yields false).
type CompareResult int

const (
	CompareLess CompareResult = iota
	CompareNotLess
	CompareUndefined
)

// AbstractCompare implements ed.3 §11.8.5's algorithm for `v < o`.
// leftFirst selects the order of the two ToPrimitive calls: true converts
// v then o, false converts o then v. The VM's `>` and `<=` call
// AbstractCompare(b, a, false), swapping the operands for the comparison
// while still converting the left source operand a first; operand
// evaluation itself happens earlier, in the generated code.
func AbstractCompare(v, o Value, leftFirst bool) (CompareResult, error) {
	var px, py Value
	var err error
	if leftFirst {
		px, err = v.ToPrimitive(Number)
		if err != nil {
			return CompareUndefined, err
		}
		py, err = o.ToPrimitive(Number)
	} else {
		py, err = o.ToPrimitive(Number)
		if err != nil {
			return CompareUndefined, err
		}
		px, err = v.ToPrimitive(Number)
	}
	if err != nil {
		return CompareUndefined, err
	}

	if px.kind == String && py.kind == String {
		if px.s.Less(py.s) {
			return CompareLess, nil
		}
		return CompareNotLess, nil
	}

	nx, err := px.ToNumber()
	if err != nil {
		return CompareUndefined, err
	}
	ny, err := py.ToNumber()
	if err != nil {
		return CompareUndefined, err
	}
	if math.IsNaN(nx) || math.IsNaN(ny) {
		return CompareUndefined, nil
	}
	if nx < ny {
		return CompareLess, nil
	}
	return CompareNotLess, nil
}
