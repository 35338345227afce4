package overlay

import "veneer/internal/lir"

// Use is one operand edge viewed through the overlay: the owning User
// references a Value through an operand slot. A Use owns nothing; it
// wraps the underlying edge handle, and its identity is that handle.
// Endpoints are resolved through the registry on every call, never
// cached, so a Use always reflects the current underlying state.
type Use struct {
	edge *lir.Use
	usr  User
	ctx  *Context
}

// Get returns the referenced overlay value, nil for the end sentinel
// or a dropped edge.
func (u Use) Get() Value {
	if u.edge == nil || u.edge.Get() == nil {
		return nil
	}
	return u.ctx.GetOrCreateValue(u.edge.Get())
}

// User returns the overlay node owning the operand slot.
func (u Use) User() User { return u.usr }

// OperandNo returns the logical operand index within the owning User.
// The owner supplies the mapping, since an overlay node may number its
// operands differently from its underlying instruction.
func (u Use) OperandNo() int { return u.usr.useOperandNo(u.edge) }

// Set rewrites the edge to reference v. The write is tracked.
func (u Use) Set(v Value) { u.ctx.setEdge(u.edge, v.Underlying()) }

// Swap exchanges the referenced values of two edges of the same owner,
// keeping both edge handles stable. The write is tracked.
func (u Use) Swap(o Use) {
	if u.edge.Owner() != o.edge.Owner() {
		panic("overlay: swap of uses with different owners")
	}
	u.ctx.swapEdges(u.edge.Owner(), u.edge.OperandNo(), o.edge.OperandNo())
}

// Equal reports whether two Use views wrap the same underlying edge.
func (u Use) Equal(o Use) bool { return u.edge == o.edge }

// Underlying returns the wrapped edge handle.
func (u Use) Underlying() *lir.Use { return u.edge }
