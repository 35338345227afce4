package lir

// Function is a named, func-typed value owning an argument list and an
// ordered list of blocks. The first block is the entry.
type Function struct {
	valueBase
	module *Module
	args   []*Argument
	blocks []*Block
}

// Module returns the owning module.
func (f *Function) Module() *Module { return f.module }

// NumArgs returns the number of formal parameters.
func (f *Function) NumArgs() int { return len(f.args) }

// Arg returns the i-th formal parameter.
func (f *Function) Arg(i int) *Argument { return f.args[i] }

// Args returns the formal parameters in order.
func (f *Function) Args() []*Argument { return f.args }

// Blocks returns the blocks in layout order.
func (f *Function) Blocks() []*Block { return f.blocks }

// Entry returns the entry block, nil for a body-less function.
func (f *Function) Entry() *Block {
	if len(f.blocks) == 0 {
		return nil
	}
	return f.blocks[0]
}

// Result returns the function's result type.
func (f *Function) Result() TypeID {
	return f.module.Types().Lookup(f.typ).Result
}

// NewBlock appends a new empty block with the given label.
func (f *Function) NewBlock(name string) *Block {
	b := &Block{parent: f}
	b.typ = f.module.Types().Builtins().Label
	b.name = name
	f.blocks = append(f.blocks, b)
	return b
}

// Block returns the block labeled name, or nil.
func (f *Function) Block(name string) *Block {
	for _, b := range f.blocks {
		if b.Name() == name {
			return b
		}
	}
	return nil
}
