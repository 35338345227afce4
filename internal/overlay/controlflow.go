package overlay

// BranchInst is a conditional or unconditional branch. A conditional
// branch stores operands [cond, then, else]; an unconditional one
// stores [target].
type BranchInst struct {
	instruction
}

// IsConditional reports whether the branch carries a condition.
func (b *BranchInst) IsConditional() bool { return b.anchor().NumOperands() == 3 }

// Condition returns the i1 condition of a conditional branch.
func (b *BranchInst) Condition() Value {
	if !b.IsConditional() {
		panic("overlay: condition of unconditional branch")
	}
	return b.Operand(0)
}

// NumSuccessors returns 1 or 2.
func (b *BranchInst) NumSuccessors() int { return b.anchor().NumSuccessors() }

// Successor returns the i-th successor block.
func (b *BranchInst) Successor(i int) *BasicBlock {
	return b.ctx.GetOrCreateValue(b.anchor().Successor(i)).(*BasicBlock)
}

// SetSuccessor redirects the i-th successor edge. The write is tracked.
func (b *BranchInst) SetSuccessor(i int, bb *BasicBlock) {
	b.SetOperand(b.successorSlot(i), bb)
}

func (b *BranchInst) successorSlot(i int) int {
	if !b.IsConditional() {
		if i != 0 {
			panic("overlay: successor index out of range")
		}
		return 0
	}
	if i < 0 || i > 1 {
		panic("overlay: successor index out of range")
	}
	return 1 + i
}

// SwapSuccessors exchanges the two successors of a conditional branch
// in place. The edge handles stay stable and the swap is tracked.
func (b *BranchInst) SwapSuccessors() {
	if !b.IsConditional() {
		panic("overlay: SwapSuccessors on unconditional branch")
	}
	b.ctx.swapEdges(b.anchor(), 1, 2)
}

// ReturnInst returns from the containing function.
type ReturnInst struct {
	instruction
}

// ReturnValue returns the returned value, nil for a void return.
func (r *ReturnInst) ReturnValue() Value {
	if r.NumOperands() == 0 {
		return nil
	}
	return r.Operand(0)
}

// UnreachableInst marks unreachable control flow.
type UnreachableInst struct {
	instruction
}
