package lir

// Use is one operand edge: instruction `owner` references `val` through
// operand slot `slot`. Every Use is linked into val's use list, so walking
// a value's uses and walking an instruction's operands observe the same
// edges. The *Use pointer is the edge handle overlay views wrap; it stays
// stable across SetOperand and across a tracked erase/resurrect cycle.
type Use struct {
	owner *Instr
	slot  int
	val   Value

	prevUse, nextUse *Use
}

// Owner returns the instruction holding this operand slot.
func (u *Use) Owner() *Instr { return u.owner }

// OperandNo returns the slot index within the owner's operand list.
func (u *Use) OperandNo() int { return u.slot }

// Get returns the referenced value, nil for a dropped edge.
func (u *Use) Get() Value { return u.val }

// NextUse returns the next edge in the referenced value's use list.
func (u *Use) NextUse() *Use { return u.nextUse }

// Set relinks the edge to reference v. A nil v drops the edge.
func (u *Use) Set(v Value) {
	if u.val != nil {
		u.val.base().removeUse(u)
	}
	u.val = v
	if v != nil {
		v.base().addUse(u)
	}
}

// swap exchanges the referenced values of two edges in place, keeping
// both edge handles stable.
func (u *Use) swap(o *Use) {
	uv, ov := u.val, o.val
	u.Set(ov)
	o.Set(uv)
}
