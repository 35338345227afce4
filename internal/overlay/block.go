package overlay

import "veneer/internal/lir"

// BasicBlock is an ordered container of Instructions, projected from
// the underlying block. Overlay instruction order always matches
// underlying order; every structural mutation re-establishes this
// before returning.
type BasicBlock struct {
	value
}

func (b *BasicBlock) blk() *lir.Block { return b.val.(*lir.Block) }

// Parent returns the owning function.
func (b *BasicBlock) Parent() *Function {
	return b.ctx.GetOrCreateValue(b.blk().Parent()).(*Function)
}

// Len returns the number of underlying instructions.
func (b *BasicBlock) Len() int { return b.blk().Len() }

// Empty reports whether the block has no instructions.
func (b *BasicBlock) Empty() bool { return b.blk().Empty() }

// First returns the first instruction, nil when empty.
func (b *BasicBlock) First() Instruction {
	in := b.blk().First()
	if in == nil {
		return nil
	}
	return b.ctx.GetOrCreateValue(in).(Instruction)
}

// Terminator returns the block's terminator, nil if the block does not
// end in one.
func (b *BasicBlock) Terminator() Instruction {
	t := b.blk().Terminator()
	if t == nil {
		return nil
	}
	return b.ctx.GetOrCreateValue(t).(Instruction)
}

// Begin returns an iterator at the first instruction.
func (b *BasicBlock) Begin() BlockIter {
	return BlockIter{blk: b.blk(), cur: b.blk().First(), ctx: b.ctx}
}

// End returns the past-the-end iterator.
func (b *BasicBlock) End() BlockIter {
	return BlockIter{blk: b.blk(), ctx: b.ctx}
}

// Instrs returns the block's instructions in program order. The slice
// is a snapshot; mutating the block does not affect it.
func (b *BasicBlock) Instrs() []Instruction {
	out := make([]Instruction, 0, b.Len())
	for it := b.Begin(); !it.Done(); it = it.Next() {
		out = append(out, it.Get())
	}
	return out
}

// BlockIter is a bidirectional position inside a block. The position
// is the first underlying instruction of an overlay node's span (nil
// for the end position), so stepping skips whole spans. Invalidated by
// structural mutation.
type BlockIter struct {
	blk *lir.Block
	cur *lir.Instr
	ctx *Context
}

// Done reports whether the iterator is at the end position.
func (it BlockIter) Done() bool { return it.cur == nil }

// Get returns the overlay instruction at the position.
func (it BlockIter) Get() Instruction {
	return it.ctx.GetOrCreateValue(it.cur).(Instruction)
}

// Next returns the iterator advanced past the current span.
func (it BlockIter) Next() BlockIter {
	span := it.Get().UnderlyingInstrs()
	return BlockIter{blk: it.blk, cur: span[len(span)-1].Next(), ctx: it.ctx}
}

// Prev returns the iterator stepped back one overlay instruction.
func (it BlockIter) Prev() BlockIter {
	var last *lir.Instr
	if it.cur == nil {
		last = it.blk.Last()
	} else {
		last = it.cur.Prev()
	}
	if last == nil {
		panic("overlay: Prev at beginning of block")
	}
	n := it.ctx.GetOrCreateValue(last).(Instruction)
	return BlockIter{blk: it.blk, cur: n.UnderlyingInstrs()[0], ctx: it.ctx}
}

// Equal reports whether two iterators denote the same position.
func (it BlockIter) Equal(o BlockIter) bool {
	return it.blk == o.blk && it.cur == o.cur
}
