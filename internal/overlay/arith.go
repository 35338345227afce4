package overlay

import "veneer/internal/lir"

// BinaryInst is an integer binary instruction (add..ashr).
type BinaryInst struct {
	instruction
}

// LHS returns the left operand.
func (b *BinaryInst) LHS() Value { return b.Operand(0) }

// RHS returns the right operand.
func (b *BinaryInst) RHS() Value { return b.Operand(1) }

// UnaryInst is a neg or not instruction.
type UnaryInst struct {
	instruction
}

// CmpInst is an integer comparison producing i1.
type CmpInst struct {
	instruction
}

// Predicate returns the comparison predicate.
func (c *CmpInst) Predicate() lir.CmpPred { return c.anchor().Pred() }

// LHS returns the left operand.
func (c *CmpInst) LHS() Value { return c.Operand(0) }

// RHS returns the right operand.
func (c *CmpInst) RHS() Value { return c.Operand(1) }

// SelectInst picks one of two values by an i1 condition. Operands are
// [cond, true, false].
type SelectInst struct {
	instruction
}

// Condition returns the i1 condition.
func (s *SelectInst) Condition() Value { return s.Operand(0) }

// TrueValue returns the value produced when the condition holds.
func (s *SelectInst) TrueValue() Value { return s.Operand(1) }

// FalseValue returns the value produced when the condition fails.
func (s *SelectInst) FalseValue() Value { return s.Operand(2) }

// SwapValues exchanges the true and false values in place. The edge
// handles stay stable and the swap is tracked.
func (s *SelectInst) SwapValues() {
	s.ctx.swapEdges(s.anchor(), 1, 2)
}
