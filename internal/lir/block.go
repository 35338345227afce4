package lir

// Block is an ordered container of instructions inside a Function.
// Blocks are label-typed values, so terminators reference them as
// ordinary operands.
type Block struct {
	valueBase
	parent *Function
	first  *Instr
	last   *Instr
	n      int
}

// Parent returns the owning function.
func (b *Block) Parent() *Function { return b.parent }

// First returns the first instruction, nil when empty.
func (b *Block) First() *Instr { return b.first }

// Last returns the last instruction, nil when empty.
func (b *Block) Last() *Instr { return b.last }

// Len returns the number of instructions in the block.
func (b *Block) Len() int { return b.n }

// Empty reports whether the block has no instructions.
func (b *Block) Empty() bool { return b.n == 0 }

// Terminator returns the block's terminator, or nil if the block does
// not end in one.
func (b *Block) Terminator() *Instr {
	if b.last != nil && b.last.IsTerminator() {
		return b.last
	}
	return nil
}

// Append splices a detached instruction at the end of the block.
func (b *Block) Append(in *Instr) { b.insert(in, nil) }

// insert links `in` before `before`; nil `before` appends.
func (b *Block) insert(in *Instr, before *Instr) {
	if in.parent != nil {
		panic("lir: insert of attached instruction")
	}
	if in.destroyed {
		panic("lir: insert of destroyed instruction")
	}
	if before != nil && before.parent != b {
		panic("lir: insert position belongs to another block")
	}
	in.parent = b
	if before == nil {
		in.prev = b.last
		in.next = nil
		if b.last != nil {
			b.last.next = in
		} else {
			b.first = in
		}
		b.last = in
	} else {
		in.prev = before.prev
		in.next = before
		if before.prev != nil {
			before.prev.next = in
		} else {
			b.first = in
		}
		before.prev = in
	}
	b.n++
}

// remove unlinks `in` from the block.
func (b *Block) remove(in *Instr) {
	if in.parent != b {
		panic("lir: remove of instruction from another block")
	}
	if in.prev != nil {
		in.prev.next = in.next
	} else {
		b.first = in.next
	}
	if in.next != nil {
		in.next.prev = in.prev
	} else {
		b.last = in.prev
	}
	in.prev, in.next, in.parent = nil, nil, nil
	b.n--
}

// Instrs returns the instructions in program order. The slice is a
// snapshot; mutating the block does not affect it.
func (b *Block) Instrs() []*Instr {
	out := make([]*Instr, 0, b.n)
	for in := b.first; in != nil; in = in.next {
		out = append(out, in)
	}
	return out
}
