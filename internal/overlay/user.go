package overlay

import "veneer/internal/lir"

// User is a Value with operands. Operand access delegates to the
// underlying instruction's operand list; overlay operand order equals
// underlying order for every current class.
type User interface {
	Value

	// NumOperands returns the operand count.
	NumOperands() int
	// Operand returns the overlay value in slot i.
	Operand(i int) Value
	// OperandUse returns the edge view for slot i. Index
	// NumOperands() is the end sentinel; it must not be
	// dereferenced.
	OperandUse(i int) Use
	// SetOperand rewrites slot i. The write is tracked. This is the
	// only sanctioned way to mutate an operand.
	SetOperand(i int, v Value)
	// ReplaceUsesOfWith rewrites every operand equal to from.
	ReplaceUsesOfWith(from, to Value)
	// OperandsBegin returns an iterator over the operand edges.
	OperandsBegin() OperandUseIter

	// useOperandNo maps a raw underlying edge back to the logical
	// operand index (the inverse of OperandUse).
	useOperandNo(e *lir.Use) int
}

// user is the base of every overlay node with operands. Nodes whose
// underlying value is not an instruction (constants, functions) have
// zero operands.
type user struct {
	value
}

func (u *user) opInstr() *lir.Instr {
	in, _ := u.val.(*lir.Instr)
	return in
}

func (u *user) NumOperands() int {
	if in := u.opInstr(); in != nil {
		return in.NumOperands()
	}
	return 0
}

func (u *user) Operand(i int) Value {
	return u.ctx.GetOrCreateValue(u.opInstr().Operand(i))
}

func (u *user) OperandUse(i int) Use {
	self := u.self.(User)
	n := u.NumOperands()
	if i < 0 || i > n {
		panic("overlay: operand index out of range")
	}
	if i == n {
		return Use{usr: self, ctx: u.ctx} // end sentinel
	}
	return Use{edge: u.opInstr().OperandUse(i), usr: self, ctx: u.ctx}
}

func (u *user) SetOperand(i int, v Value) {
	u.ctx.setEdge(u.opInstr().OperandUse(i), v.Underlying())
}

func (u *user) ReplaceUsesOfWith(from, to Value) {
	in := u.opInstr()
	for i := 0; i < in.NumOperands(); i++ {
		if in.Operand(i) == from.Underlying() {
			u.SetOperand(i, to)
		}
	}
}

func (u *user) OperandsBegin() OperandUseIter {
	return OperandUseIter{usr: u.self.(User)}
}

func (u *user) useOperandNo(e *lir.Use) int { return e.OperandNo() }

// OperandUseIter walks a User's operand edges in slot order.
// Single-pass; invalidated by structural mutation.
type OperandUseIter struct {
	usr User
	i   int
}

// Done reports whether the iterator is exhausted.
func (it OperandUseIter) Done() bool { return it.i >= it.usr.NumOperands() }

// Use returns the current edge view.
func (it OperandUseIter) Use() Use { return it.usr.OperandUse(it.i) }

// Index returns the current operand index.
func (it OperandUseIter) Index() int { return it.i }

// Next returns the iterator advanced by one slot.
func (it OperandUseIter) Next() OperandUseIter {
	return OperandUseIter{usr: it.usr, i: it.i + 1}
}
