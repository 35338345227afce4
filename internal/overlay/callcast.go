package overlay

import "veneer/internal/lir"

// CallInst calls a function value. Operand 0 is the callee, arguments
// follow.
type CallInst struct {
	instruction
}

// Callee returns the called value.
func (c *CallInst) Callee() Value { return c.Operand(0) }

// SetCallee rewrites the callee edge. The write is tracked.
func (c *CallInst) SetCallee(v Value) { c.SetOperand(0, v) }

// NumArgs returns the argument count.
func (c *CallInst) NumArgs() int { return c.NumOperands() - 1 }

// Arg returns the i-th call argument.
func (c *CallInst) Arg(i int) Value { return c.Operand(1 + i) }

// CastInst converts a value between integer and pointer types.
type CastInst struct {
	instruction
}

// SrcType returns the type of the converted operand.
func (c *CastInst) SrcType() lir.TypeID { return c.anchor().Operand(0).Type() }

// DestType returns the result type.
func (c *CastInst) DestType() lir.TypeID { return c.Type() }
