package object

import "github.com/go-ecma3/ecma3/internal/value"

// nativeEnumerator walks an object's own property names in insertion
// order, then its prototype chain, producing each own non-DontEnum name
// exactly once. Names already seen are skipped so a shadowed inherited
// property is not repeated; the enumerator assumes no structural mutation
// occurs during a single pass. for-in's tolerance of deletions mid-loop is
// implemented one layer up, by S_ENUM snapshotting this enumerator's full
// output before the loop body runs at all.
type nativeEnumerator struct {
	cur  *Object
	idx  int
	seen map[string]bool
}

// Enumerator implements the value.Object vtable entry.
func (o *Object) Enumerator() value.Enumerator {
	return &nativeEnumerator{cur: o, seen: make(map[string]bool)}
}

func (e *nativeEnumerator) Next() (*value.Str, bool) {
	for e.cur != nil {
		if e.idx >= len(e.cur.order) {
			e.cur = e.cur.proto
			e.idx = 0
			continue
		}
		name := e.cur.order[e.idx]
		e.idx++
		if e.seen[name] {
			continue
		}
		e.seen[name] = true
		p, ok := e.cur.props[name]
		if !ok || p.attrs&value.DontEnum != 0 {
			continue
		}
		return value.Intern(name), true
	}
	return nil, false
}

// PutConst defines a ReadOnly|DontEnum|DontDelete own property, the
// shape used for built-in constants and internal slots.
func (o *Object) PutConst(name string, v value.Value) {
	_ = o.Put(value.Intern(name), v, value.ReadOnly|value.DontEnum|value.DontDelete)
}

// PutHidden defines a DontEnum own property (the common shape for methods
// and built-in properties that participate in normal mutation but should
// not show up in for-in).
func (o *Object) PutHidden(name string, v value.Value) {
	_ = o.Put(value.Intern(name), v, value.DontEnum)
}

// PutEnumerable defines a plain, enumerable, writable, configurable own
// property — what `var`/property-assignment/object-literal properties get.
func (o *Object) PutEnumerable(name string, v value.Value) {
	_ = o.Put(value.Intern(name), v, 0)
}

// GetString is a convenience wrapper around Get for callers holding a Go
// string rather than an already-interned *value.Str.
func (o *Object) GetString(name string) (value.Value, error) {
	return o.Get(value.Intern(name))
}
