package overlay

import "veneer/internal/lir"

// Instruction is a User with a program-order position inside a
// BasicBlock. An instruction moves through three states: detached (no
// parent block), attached (parent and position), erased (terminal; the
// node must not be dereferenced again). Every structural transition
// below keeps the overlay and lir graphs consistent before returning
// and is recorded on the open checkpoint.
type Instruction interface {
	User

	// Opcode returns the overlay opcode.
	Opcode() Opcode
	// Parent returns the containing block, nil when detached.
	Parent() *BasicBlock
	// PrevNode returns the previous instruction in the block, nil at
	// the front or when detached.
	PrevNode() Instruction
	// NextNode returns the next instruction in the block, nil at the
	// back or when detached.
	NextNode() Instruction

	// InsertBefore attaches the detached instruction before pos.
	InsertBefore(pos Instruction)
	// InsertAfter attaches the detached instruction after pos.
	InsertAfter(pos Instruction)
	// InsertInto attaches the detached instruction into bb before
	// `before`; nil appends at the end.
	InsertInto(bb *BasicBlock, before Instruction)
	// RemoveFromParent detaches the instruction without touching its
	// operand edges or uses.
	RemoveFromParent()
	// MoveBefore re-positions the attached instruction before pos.
	// A self-move is a no-op.
	MoveBefore(pos Instruction)
	// MoveAfter re-positions the attached instruction after pos.
	// A self-move is a no-op.
	MoveAfter(pos Instruction)
	// MoveInto re-positions the attached instruction into bb before
	// `before`; nil appends.
	MoveInto(bb *BasicBlock, before Instruction)
	// EraseFromParent detaches (if attached), unregisters the node
	// and destroys the underlying instruction(s). Under an open
	// checkpoint destruction is deferred so Revert can resurrect the
	// node under its original identity.
	EraseFromParent()

	// UnderlyingInstrs returns the lir instructions this node spans,
	// contiguous in program order. Normally one; classes grouping
	// several lir instructions override this.
	UnderlyingInstrs() []*lir.Instr
	// NumUnderlying returns len(UnderlyingInstrs()).
	NumUnderlying() int
}

// instruction is the base of every concrete instruction class. The
// anchor (value.val) is the last lir instruction of the span.
type instruction struct {
	user
	op Opcode
}

func instrBase(op Opcode) instruction {
	return instruction{op: op}
}

func (in *instruction) Opcode() Opcode { return in.op }

func (in *instruction) anchor() *lir.Instr { return in.val.(*lir.Instr) }

func (in *instruction) UnderlyingInstrs() []*lir.Instr {
	return []*lir.Instr{in.anchor()}
}

func (in *instruction) NumUnderlying() int { return 1 }

// span returns the underlying instructions through the concrete class,
// honoring overrides.
func (in *instruction) span() []*lir.Instr {
	return in.self.(Instruction).UnderlyingInstrs()
}

// topmost returns the first lir instruction of the span.
func (in *instruction) topmost() *lir.Instr {
	return in.span()[0]
}

func (in *instruction) Parent() *BasicBlock {
	p := in.anchor().Parent()
	if p == nil {
		return nil
	}
	return in.ctx.GetOrCreateValue(p).(*BasicBlock)
}

func (in *instruction) PrevNode() Instruction {
	p := in.topmost().Prev()
	if p == nil {
		return nil
	}
	return in.ctx.GetOrCreateValue(p).(Instruction)
}

func (in *instruction) NextNode() Instruction {
	n := in.anchor().Next()
	if n == nil {
		return nil
	}
	return in.ctx.GetOrCreateValue(n).(Instruction)
}

func (in *instruction) InsertBefore(pos Instruction) {
	top := pos.UnderlyingInstrs()[0]
	if top.Parent() == nil {
		panic("overlay: insert position is detached")
	}
	in.ctx.insertSpan(in.self.(Instruction), top.Parent(), top)
}

func (in *instruction) InsertAfter(pos Instruction) {
	span := pos.UnderlyingInstrs()
	anchor := span[len(span)-1]
	if anchor.Parent() == nil {
		panic("overlay: insert position is detached")
	}
	in.ctx.insertSpan(in.self.(Instruction), anchor.Parent(), anchor.Next())
}

func (in *instruction) InsertInto(bb *BasicBlock, before Instruction) {
	var pos *lir.Instr
	if before != nil {
		pos = before.UnderlyingInstrs()[0]
	}
	in.ctx.insertSpan(in.self.(Instruction), bb.blk(), pos)
}

func (in *instruction) RemoveFromParent() {
	in.ctx.removeSpan(in.self.(Instruction))
}

func (in *instruction) MoveBefore(pos Instruction) {
	if in.self == Value(pos) {
		return
	}
	in.RemoveFromParent()
	in.InsertBefore(pos)
}

func (in *instruction) MoveAfter(pos Instruction) {
	if in.self == Value(pos) {
		return
	}
	in.RemoveFromParent()
	in.InsertAfter(pos)
}

func (in *instruction) MoveInto(bb *BasicBlock, before Instruction) {
	if before != nil && in.self == Value(before) {
		return
	}
	in.RemoveFromParent()
	in.InsertInto(bb, before)
}

func (in *instruction) EraseFromParent() {
	in.ctx.eraseInstr(in.self.(Instruction))
}
