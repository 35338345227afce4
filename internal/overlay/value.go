package overlay

import "veneer/internal/lir"

// Value is the common interface of every overlay node. The interface
// is sealed; only this package adds implementations. A Value is owned
// by exactly one Context and projects onto exactly one lir node (its
// anchor; for instruction spans, the last lir instruction in program
// order).
type Value interface {
	// Class returns the node's class discriminator.
	Class() ClassID
	// ID returns the node's unique id within its Context.
	ID() uint64
	// Name returns the underlying node's name, "" if unnamed.
	Name() string
	// Type returns the underlying node's type handle.
	Type() lir.TypeID
	// Underlying returns the anchor lir node.
	Underlying() lir.Value
	// Context returns the owning registry.
	Context() *Context
	// NumUses returns the number of operand edges referencing the
	// value, queried live from the underlying use list.
	NumUses() int
	// UsesBegin returns an iterator over the value's uses. It is
	// invalidated by structural mutation.
	UsesBegin() UserUseIter
	// ReplaceAllUsesWith rewrites every use of the value. The
	// rewrites are tracked.
	ReplaceAllUsesWith(v Value)
	// ReplaceUsesWithIf rewrites every use for which should returns
	// true. A nil should rewrites everything.
	ReplaceUsesWithIf(v Value, should func(Use) bool)
	// String renders the node for diagnostics.
	String() string

	base() *value
}

// value carries the state shared by every overlay node: the class tag,
// the context-unique id, the anchor and the owning context. self holds
// the concrete node so base methods can dispatch to overridden
// behavior.
type value struct {
	class ClassID
	uid   uint64
	val   lir.Value
	ctx   *Context
	self  Value
}

func (v *value) Class() ClassID        { return v.class }
func (v *value) ID() uint64            { return v.uid }
func (v *value) Name() string          { return v.val.Name() }
func (v *value) Type() lir.TypeID      { return v.val.Type() }
func (v *value) Underlying() lir.Value { return v.val }
func (v *value) Context() *Context     { return v.ctx }
func (v *value) NumUses() int          { return v.val.NumUses() }
func (v *value) base() *value          { return v }

func (v *value) String() string { return v.ctx.render(v.self) }

func (v *value) UsesBegin() UserUseIter {
	return UserUseIter{edge: v.val.FirstUse(), ctx: v.ctx}
}

func (v *value) ReplaceAllUsesWith(to Value) {
	v.ReplaceUsesWithIf(to, nil)
}

// ReplaceUsesWithIf snapshots the use list before rewriting, so the
// relinking performed by each write cannot derail the walk.
func (v *value) ReplaceUsesWithIf(to Value, should func(Use) bool) {
	var edges []*lir.Use
	for e := v.val.FirstUse(); e != nil; e = e.NextUse() {
		edges = append(edges, e)
	}
	for _, e := range edges {
		if should != nil {
			usr := v.ctx.GetOrCreateValue(e.Owner()).(User)
			if !should(Use{edge: e, usr: usr, ctx: v.ctx}) {
				continue
			}
		}
		v.ctx.setEdge(e, to.Underlying())
	}
}

// UserUseIter walks a value's use list, wrapping each underlying edge
// in a Use. Single-pass; invalidated by structural mutation.
type UserUseIter struct {
	edge *lir.Use
	ctx  *Context
}

// Done reports whether the iterator is exhausted.
func (it UserUseIter) Done() bool { return it.edge == nil }

// Use returns the current edge view.
func (it UserUseIter) Use() Use {
	usr := it.ctx.GetOrCreateValue(it.edge.Owner()).(User)
	return Use{edge: it.edge, usr: usr, ctx: it.ctx}
}

// Next returns the iterator advanced by one edge.
func (it UserUseIter) Next() UserUseIter {
	return UserUseIter{edge: it.edge.NextUse(), ctx: it.ctx}
}
