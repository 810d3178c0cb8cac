// Package runtime implements the scope chain and execution context of
// ed.3 §10: the ordered list of objects searched to resolve an
// identifier, and the per-invocation record (variable object, scope,
// this) that the bytecode VM pushes and pops around function calls,
// with-statements, and catch clauses.
package runtime

import (
	"github.com/go-ecma3/ecma3/internal/value"
)

// Chain is a scope chain: an ordered list of objects searched front-to-back
// when resolving an identifier. The front of the chain is the innermost
// scope (e.g. a with-object or a catch binding object); the back is
// always the global object.
type Chain struct {
	objects []value.Object
}

// NewChain builds a chain whose sole, outermost link is global.
func NewChain(global value.Object) *Chain {
	return &Chain{objects: []value.Object{global}}
}

// Push prepends obj as the new innermost scope, returning the chain depth
// before the push (the value a matching Pop should restore to).
func (c *Chain) Push(obj value.Object) int {
	mark := len(c.objects)
	c.objects = append([]value.Object{obj}, c.objects...)
	return mark
}

// Pop removes the innermost scope. Callers that pushed several scopes
// (e.g. entering a with inside a catch) should prefer TruncateTo with the
// mark Push returned, so block exits compose correctly regardless of how
// many scopes were entered since.
func (c *Chain) Pop() {
	if len(c.objects) > 0 {
		c.objects = c.objects[1:]
	}
}

// Len reports the current chain depth.
func (c *Chain) Len() int { return len(c.objects) }

// TruncateTo restores the chain to the depth mark recorded by an earlier
// Push, discarding every scope entered since. It is how the VM's block
// stack unwinds nested with/catch scopes on an abrupt completion that
// skips past several of them at once.
func (c *Chain) TruncateTo(mark int) {
	depth := len(c.objects)
	if depth <= mark {
		return
	}
	c.objects = c.objects[depth-mark:]
}

// Clone returns an independent copy of the chain, sharing the underlying
// scope objects but not the slice — used when a closure captures its
// defining scope chain at function-creation time (ed.3 §13.2).
func (c *Chain) Clone() *Chain {
	cp := make([]value.Object, len(c.objects))
	copy(cp, c.objects)
	return &Chain{objects: cp}
}

// Resolve implements ed.3 §10.1.4 Identifier Resolution: walk the chain
// from innermost to outermost, returning a reference bound to the first
// object that HasProperty(name); if none qualifies, the reference's base
// is nil (unresolvable).
func (c *Chain) Resolve(name *value.Str) *value.Ref {
	for _, obj := range c.objects {
		if obj != nil && obj.HasProperty(name) {
			return &value.Ref{Base: obj, Name: name}
		}
	}
	return &value.Ref{Base: nil, Name: name}
}

// Innermost returns the front of the chain: the most recently pushed
// scope object, or nil for an empty chain.
func (c *Chain) Innermost() value.Object {
	if len(c.objects) == 0 {
		return nil
	}
	return c.objects[0]
}
