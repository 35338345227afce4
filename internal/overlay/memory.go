package overlay

// LoadInst reads through a pointer.
type LoadInst struct {
	instruction
}

// PointerOperand returns the loaded-from pointer.
func (l *LoadInst) PointerOperand() Value { return l.Operand(0) }

// IsVolatile reports whether the load is volatile.
func (l *LoadInst) IsVolatile() bool { return l.anchor().Volatile() }

// StoreInst writes through a pointer. Operands are [value, pointer].
type StoreInst struct {
	instruction
}

// ValueOperand returns the stored value.
func (s *StoreInst) ValueOperand() Value { return s.Operand(0) }

// PointerOperand returns the stored-to pointer.
func (s *StoreInst) PointerOperand() Value { return s.Operand(1) }

// IsVolatile reports whether the store is volatile.
func (s *StoreInst) IsVolatile() bool { return s.anchor().Volatile() }

// OpaqueInst covers lir instructions without a dedicated overlay
// class (currently alloca). It exposes the generic Instruction API
// only; clients needing class-specific state go through Underlying.
type OpaqueInst struct {
	instruction
}
