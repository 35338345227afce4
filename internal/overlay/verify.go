package overlay

import (
	"fmt"

	"veneer/internal/lir"
)

// assertf panics when cond fails and the veneer_checks build tag is
// set. Used for structural invariants on hot mutation paths.
func assertf(cond bool, format string, args ...any) {
	if debugChecks && !cond {
		panic("overlay: " + fmt.Sprintf(format, args...))
	}
}

// Verify runs cheap structural sanity checks over the module and the
// registry: operand edges must be owned correctly, blocks must end in
// terminators, and every registered instruction must agree with its
// underlying position.
func (c *Context) Verify() error {
	for _, f := range c.mod.Functions() {
		for _, b := range f.Blocks() {
			if err := c.verifyBlock(f, b); err != nil {
				return err
			}
		}
	}
	for uv, ov := range c.values {
		if in, ok := uv.(*lir.Instr); ok {
			if in.Destroyed() {
				return fmt.Errorf("overlay: destroyed instruction %q still registered", in.Name())
			}
			if _, ok := ov.(Instruction); !ok {
				return fmt.Errorf("overlay: instruction %q registered as %s", in.Name(), ov.Class())
			}
		}
	}
	return nil
}

func (c *Context) verifyBlock(f *lir.Function, b *lir.Block) error {
	if !b.Empty() && b.Terminator() == nil {
		return fmt.Errorf("@%s: block %%%s does not end in a terminator", f.Name(), b.Name())
	}
	for in := b.First(); in != nil; in = in.Next() {
		for i := 0; i < in.NumOperands(); i++ {
			e := in.OperandUse(i)
			if e.Owner() != in || e.OperandNo() != i {
				return fmt.Errorf("@%s: %%%s operand %d edge is mislinked", f.Name(), in.Name(), i)
			}
			v := e.Get()
			if v == nil {
				return fmt.Errorf("@%s: %%%s operand %d is dropped", f.Name(), in.Name(), i)
			}
			if !onUseList(v, e) {
				return fmt.Errorf("@%s: %%%s operand %d missing from use list", f.Name(), in.Name(), i)
			}
		}
		if ov := c.values[in]; ov != nil {
			oi := ov.(Instruction)
			span := oi.UnderlyingInstrs()
			if span[len(span)-1].Parent() != b {
				return fmt.Errorf("@%s: overlay #%d disagrees with block %%%s", f.Name(), ov.ID(), b.Name())
			}
		}
	}
	return nil
}

func onUseList(v lir.Value, e *lir.Use) bool {
	for u := v.FirstUse(); u != nil; u = u.NextUse() {
		if u == e {
			return true
		}
	}
	return false
}
