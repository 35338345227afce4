package overlay

import "veneer/internal/lir"

// Constant is an interned constant. Constants are canonical in lir, so
// their overlay nodes are canonical too.
type Constant struct {
	user
}

// IntValue returns the integer value of an integer constant.
func (c *Constant) IntValue() int64 {
	ci, ok := c.val.(*lir.ConstInt)
	if !ok {
		panic("overlay: IntValue on non-integer constant")
	}
	return ci.Value()
}

// Function is a function definition. It is a constant-category value
// owning an argument list and an ordered sequence of blocks, both
// projected from the underlying function.
type Function struct {
	Constant
}

func (f *Function) fn() *lir.Function { return f.val.(*lir.Function) }

// NumArgs returns the number of formal parameters.
func (f *Function) NumArgs() int { return f.fn().NumArgs() }

// Arg returns the i-th formal parameter.
func (f *Function) Arg(i int) *Argument {
	return f.ctx.GetOrCreateValue(f.fn().Arg(i)).(*Argument)
}

// EntryBlock returns the entry block, nil for a body-less function.
func (f *Function) EntryBlock() *BasicBlock {
	e := f.fn().Entry()
	if e == nil {
		return nil
	}
	return f.ctx.GetOrCreateValue(e).(*BasicBlock)
}

// Blocks returns the blocks in layout order. The slice is a snapshot.
func (f *Function) Blocks() []*BasicBlock {
	bs := f.fn().Blocks()
	out := make([]*BasicBlock, len(bs))
	for i, b := range bs {
		out[i] = f.ctx.GetOrCreateValue(b).(*BasicBlock)
	}
	return out
}
