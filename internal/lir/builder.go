package lir

import "fmt"

// Builder creates detached, well-formed instructions for a module.
// Insertion into a block is a separate step, so callers can splice the
// result wherever they need it.
type Builder struct {
	M *Module
}

// Binary creates an integer binary instruction. Result type follows lhs.
func (bld Builder) Binary(op Opcode, lhs, rhs Value, name string) *Instr {
	if !op.IsBinary() {
		panic(fmt.Sprintf("lir: %s is not a binary opcode", op))
	}
	return newInstr(op, lhs.Type(), name, lhs, rhs)
}

// Unary creates a neg/not instruction.
func (bld Builder) Unary(op Opcode, v Value, name string) *Instr {
	if !op.IsUnary() {
		panic(fmt.Sprintf("lir: %s is not a unary opcode", op))
	}
	return newInstr(op, v.Type(), name, v)
}

// ICmp creates an integer comparison producing i1.
func (bld Builder) ICmp(pred CmpPred, lhs, rhs Value, name string) *Instr {
	in := newInstr(OpICmp, bld.M.Types().Builtins().I1, name, lhs, rhs)
	in.pred = pred
	return in
}

// Select creates a two-way select on an i1 condition.
func (bld Builder) Select(cond, then, els Value, name string) *Instr {
	return newInstr(OpSelect, then.Type(), name, cond, then, els)
}

// Br creates an unconditional branch.
func (bld Builder) Br(target *Block) *Instr {
	return newInstr(OpBr, bld.M.Types().Builtins().Void, "", target)
}

// CondBr creates a conditional branch with operands [cond, then, else].
func (bld Builder) CondBr(cond Value, then, els *Block) *Instr {
	return newInstr(OpBr, bld.M.Types().Builtins().Void, "", cond, then, els)
}

// Ret creates a return; a nil v returns void.
func (bld Builder) Ret(v Value) *Instr {
	if v == nil {
		return newInstr(OpRet, bld.M.Types().Builtins().Void, "")
	}
	return newInstr(OpRet, bld.M.Types().Builtins().Void, "", v)
}

// Unreachable creates an unreachable terminator.
func (bld Builder) Unreachable() *Instr {
	return newInstr(OpUnreachable, bld.M.Types().Builtins().Void, "")
}

// Call creates a call. Operand 0 is the callee, arguments follow. The
// result type is taken from the callee's signature.
func (bld Builder) Call(callee Value, args []Value, name string) *Instr {
	sig := bld.M.Types().Lookup(callee.Type())
	if sig.Kind != KindFunc {
		panic("lir: call of non-function value")
	}
	ops := append([]Value{callee}, args...)
	return newInstr(OpCall, sig.Result, name, ops...)
}

// Cast creates a cast of v to dst.
func (bld Builder) Cast(op Opcode, v Value, dst TypeID, name string) *Instr {
	if !op.IsCast() {
		panic(fmt.Sprintf("lir: %s is not a cast opcode", op))
	}
	return newInstr(op, dst, name, v)
}

// Load creates a load of typ through ptr.
func (bld Builder) Load(typ TypeID, ptr Value, volatile bool, name string) *Instr {
	in := newInstr(OpLoad, typ, name, ptr)
	in.volatile = volatile
	return in
}

// Store creates a store of val through ptr.
func (bld Builder) Store(val, ptr Value, volatile bool) *Instr {
	in := newInstr(OpStore, bld.M.Types().Builtins().Void, "", val, ptr)
	in.volatile = volatile
	return in
}

// Alloca creates a stack allocation of typ, producing a ptr.
func (bld Builder) Alloca(typ TypeID, name string) *Instr {
	in := newInstr(OpAlloca, bld.M.Types().Builtins().Ptr, name)
	in.allocated = typ
	return in
}

// Phi creates an empty phi of typ; pairs are added with AddIncoming.
func (bld Builder) Phi(typ TypeID, name string) *Instr {
	return newInstr(OpPhi, typ, name)
}
