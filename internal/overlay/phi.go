package overlay

// PHINode merges values from predecessor blocks. Incoming values are
// the operands; incoming blocks are stored parallel to them on the
// underlying phi.
type PHINode struct {
	instruction
}

// NumIncoming returns the number of incoming pairs.
func (p *PHINode) NumIncoming() int { return p.anchor().NumIncoming() }

// IncomingValue returns the i-th incoming value.
func (p *PHINode) IncomingValue(i int) Value { return p.Operand(i) }

// SetIncomingValue rewrites the i-th incoming value. Tracked.
func (p *PHINode) SetIncomingValue(i int, v Value) { p.SetOperand(i, v) }

// IncomingBlock returns the i-th incoming block.
func (p *PHINode) IncomingBlock(i int) *BasicBlock {
	return p.ctx.GetOrCreateValue(p.anchor().IncomingBlock(i)).(*BasicBlock)
}

// SetIncomingBlock replaces the i-th incoming block. Tracked.
func (p *PHINode) SetIncomingBlock(i int, bb *BasicBlock) {
	p.ctx.phiSetBlock(p.anchor(), i, bb.blk())
}

// AddIncoming appends an incoming (value, block) pair. Tracked.
func (p *PHINode) AddIncoming(v Value, bb *BasicBlock) {
	p.ctx.phiAdd(p.anchor(), v.Underlying(), bb.blk())
}

// RemoveIncomingAt removes the i-th incoming pair and returns its
// value. Tracked; revert restores the pair with its original edge
// handle.
func (p *PHINode) RemoveIncomingAt(i int) Value {
	v := p.ctx.phiRemove(p.anchor(), i)
	return p.ctx.GetOrCreateValue(v)
}

// IncomingBlockIndex returns the incoming index for bb, or -1.
func (p *PHINode) IncomingBlockIndex(bb *BasicBlock) int {
	return p.anchor().BlockIndex(bb.blk())
}
