package lir

import "fmt"

// Instr is one lir instruction. It lives in at most one block at a time,
// linked through intrusive prev/next pointers, and owns its operand edges.
type Instr struct {
	valueBase
	op       Opcode
	operands []*Use
	parent   *Block
	prev     *Instr
	next     *Instr

	pred      CmpPred  // OpICmp
	volatile  bool     // OpLoad, OpStore
	allocated TypeID   // OpAlloca
	incoming  []*Block // OpPhi, parallel to operands

	destroyed bool
}

func newInstr(op Opcode, typ TypeID, name string, ops ...Value) *Instr {
	in := &Instr{op: op}
	in.typ = typ
	in.name = name
	for _, v := range ops {
		in.addOperand(v)
	}
	return in
}

// Op returns the instruction's opcode.
func (in *Instr) Op() Opcode { return in.op }

// Parent returns the containing block, or nil when detached.
func (in *Instr) Parent() *Block { return in.parent }

// Prev returns the previous instruction in the block, nil at the front.
func (in *Instr) Prev() *Instr { return in.prev }

// Next returns the next instruction in the block, nil at the back.
func (in *Instr) Next() *Instr { return in.next }

// Destroyed reports whether the instruction has been destroyed.
func (in *Instr) Destroyed() bool { return in.destroyed }

// Pred returns the icmp predicate.
func (in *Instr) Pred() CmpPred { return in.pred }

// Volatile reports whether a load/store is volatile.
func (in *Instr) Volatile() bool { return in.volatile }

// Allocated returns the allocated type of an alloca.
func (in *Instr) Allocated() TypeID { return in.allocated }

// NumOperands returns the operand count.
func (in *Instr) NumOperands() int { return len(in.operands) }

// Operand returns the value in slot i.
func (in *Instr) Operand(i int) Value { return in.operands[i].Get() }

// OperandUse returns the edge handle for slot i.
func (in *Instr) OperandUse(i int) *Use { return in.operands[i] }

// SetOperand rewrites slot i to reference v.
func (in *Instr) SetOperand(i int, v Value) { in.operands[i].Set(v) }

// SwapOperands exchanges the values in slots i and j without disturbing
// the edge handles.
func (in *Instr) SwapOperands(i, j int) { in.operands[i].swap(in.operands[j]) }

func (in *Instr) addOperand(v Value) *Use {
	u := &Use{owner: in, slot: len(in.operands)}
	u.Set(v)
	in.operands = append(in.operands, u)
	return u
}

// removeOperand unlinks slot i and returns the orphaned edge handle.
func (in *Instr) removeOperand(i int) *Use {
	u := in.operands[i]
	u.Set(nil)
	in.operands = append(in.operands[:i], in.operands[i+1:]...)
	for j := i; j < len(in.operands); j++ {
		in.operands[j].slot = j
	}
	return u
}

// reattachOperand splices an edge handle orphaned by removeOperand back
// into slot i and relinks it to v. The handle keeps its identity, so
// other holders of the same *Use stay valid.
func (in *Instr) reattachOperand(i int, u *Use, v Value) {
	u.slot = i
	in.operands = append(in.operands, nil)
	copy(in.operands[i+1:], in.operands[i:])
	in.operands[i] = u
	for j := i + 1; j < len(in.operands); j++ {
		in.operands[j].slot = j
	}
	u.Set(v)
}

// ReplaceAllUsesWith rewrites every use of the instruction's result.
func (in *Instr) ReplaceAllUsesWith(v Value) { ReplaceAllUsesWith(in, v) }

// IsTerminator reports whether the instruction ends its block.
func (in *Instr) IsTerminator() bool { return in.op.IsTerminator() }

// NumSuccessors returns the number of successor blocks of a terminator.
func (in *Instr) NumSuccessors() int {
	switch in.op {
	case OpBr:
		if len(in.operands) == 1 {
			return 1
		}
		return 2
	default:
		return 0
	}
}

// Successor returns the i-th successor block of a branch. A conditional
// branch stores [cond, then, else], so Successor(i) is operand 1+i; an
// unconditional branch stores [target].
func (in *Instr) Successor(i int) *Block {
	return in.Operand(in.successorSlot(i)).(*Block)
}

// SetSuccessor redirects the i-th successor edge.
func (in *Instr) SetSuccessor(i int, b *Block) {
	in.SetOperand(in.successorSlot(i), b)
}

func (in *Instr) successorSlot(i int) int {
	if in.op != OpBr {
		panic(fmt.Sprintf("lir: successor on non-branch %s", in.op))
	}
	if len(in.operands) == 1 {
		if i != 0 {
			panic("lir: successor index out of range")
		}
		return 0
	}
	if i < 0 || i > 1 {
		panic("lir: successor index out of range")
	}
	return 1 + i
}

// InsertBefore splices the detached instruction before pos.
func (in *Instr) InsertBefore(pos *Instr) {
	if pos.parent == nil {
		panic("lir: insert position is detached")
	}
	pos.parent.insert(in, pos)
}

// InsertAfter splices the detached instruction after pos.
func (in *Instr) InsertAfter(pos *Instr) {
	if pos.parent == nil {
		panic("lir: insert position is detached")
	}
	pos.parent.insert(in, pos.next)
}

// InsertInto splices the detached instruction into b before `before`;
// a nil `before` appends at the end.
func (in *Instr) InsertInto(b *Block, before *Instr) {
	b.insert(in, before)
}

// RemoveFromParent unlinks the instruction from its block without
// touching its operand edges or uses.
func (in *Instr) RemoveFromParent() {
	if in.parent == nil {
		panic("lir: remove of detached instruction")
	}
	in.parent.remove(in)
}

// DropOperands unlinks every operand edge from its value's use list and
// returns the prior values in slot order. The edge handles stay in place
// so RestoreOperands can relink them.
func (in *Instr) DropOperands() []Value {
	vals := make([]Value, len(in.operands))
	for i, u := range in.operands {
		vals[i] = u.Get()
		u.Set(nil)
	}
	return vals
}

// RestoreOperands relinks the operand edges dropped by DropOperands.
func (in *Instr) RestoreOperands(vals []Value) {
	if len(vals) != len(in.operands) {
		panic("lir: operand count changed across drop/restore")
	}
	for i, v := range vals {
		in.operands[i].Set(v)
	}
}

// Destroy drops the instruction's operand edges and marks it dead. The
// instruction must be detached and unused.
func (in *Instr) Destroy() {
	if in.parent != nil {
		panic("lir: destroy of attached instruction")
	}
	in.DropOperands()
	in.destroyed = true
}

// Phi accessors. Incoming blocks are stored parallel to the operands.

// NumIncoming returns the number of phi incoming pairs.
func (in *Instr) NumIncoming() int { return len(in.incoming) }

// IncomingBlock returns the i-th incoming block of a phi.
func (in *Instr) IncomingBlock(i int) *Block { return in.incoming[i] }

// SetIncomingBlock replaces the i-th incoming block of a phi.
func (in *Instr) SetIncomingBlock(i int, b *Block) { in.incoming[i] = b }

// AddIncoming appends an incoming (value, block) pair to a phi.
func (in *Instr) AddIncoming(v Value, b *Block) {
	if in.op != OpPhi {
		panic("lir: AddIncoming on non-phi")
	}
	in.addOperand(v)
	in.incoming = append(in.incoming, b)
}

// RemoveIncoming removes the i-th incoming pair and returns its value.
func (in *Instr) RemoveIncoming(i int) Value {
	v, _ := in.DetachIncoming(i)
	return v
}

// DetachIncoming removes the i-th incoming pair like RemoveIncoming and
// additionally returns the orphaned edge handle, so ReattachIncoming
// can later splice the same handle back.
func (in *Instr) DetachIncoming(i int) (Value, *Use) {
	if in.op != OpPhi {
		panic("lir: DetachIncoming on non-phi")
	}
	v := in.Operand(i)
	u := in.removeOperand(i)
	in.incoming = append(in.incoming[:i], in.incoming[i+1:]...)
	return v, u
}

// ReattachIncoming re-splices an edge handle detached by DetachIncoming
// at index i, relinking it to v with incoming block b. Holders of the
// handle observe a live edge again.
func (in *Instr) ReattachIncoming(i int, u *Use, v Value, b *Block) {
	if in.op != OpPhi {
		panic("lir: ReattachIncoming on non-phi")
	}
	in.reattachOperand(i, u, v)
	in.incoming = append(in.incoming, nil)
	copy(in.incoming[i+1:], in.incoming[i:])
	in.incoming[i] = b
}

// BlockIndex returns the incoming index for block b, or -1.
func (in *Instr) BlockIndex(b *Block) int {
	for i, ib := range in.incoming {
		if ib == b {
			return i
		}
	}
	return -1
}
