package lir

// Value is the common interface of everything an operand can reference:
// arguments, constants, blocks, functions and instructions. The interface
// is sealed; only this package adds implementations.
type Value interface {
	// Name returns the value's name without sigil, or "" if unnamed.
	Name() string
	// SetName renames the value.
	SetName(string)
	// Type returns the value's type handle.
	Type() TypeID
	// FirstUse returns the head of the value's use list, nil if unused.
	FirstUse() *Use
	// NumUses returns the number of operand edges referencing the value.
	NumUses() int

	base() *valueBase
}

// valueBase carries the state shared by every lir value: a name, a type
// and the head of the intrusive use list.
type valueBase struct {
	name  string
	typ   TypeID
	uses  *Use
	nuses int
}

func (v *valueBase) Name() string        { return v.name }
func (v *valueBase) SetName(name string) { v.name = name }
func (v *valueBase) Type() TypeID        { return v.typ }
func (v *valueBase) FirstUse() *Use      { return v.uses }
func (v *valueBase) NumUses() int        { return v.nuses }
func (v *valueBase) base() *valueBase    { return v }

func (v *valueBase) addUse(u *Use) {
	u.prevUse = nil
	u.nextUse = v.uses
	if v.uses != nil {
		v.uses.prevUse = u
	}
	v.uses = u
	v.nuses++
}

func (v *valueBase) removeUse(u *Use) {
	if u.prevUse != nil {
		u.prevUse.nextUse = u.nextUse
	} else {
		v.uses = u.nextUse
	}
	if u.nextUse != nil {
		u.nextUse.prevUse = u.prevUse
	}
	u.prevUse, u.nextUse = nil, nil
	v.nuses--
}

// ReplaceAllUsesWith rewrites every use of old to point at v instead.
func ReplaceAllUsesWith(old, v Value) {
	for u := old.FirstUse(); u != nil; u = old.FirstUse() {
		u.Set(v)
	}
}

// Argument is a formal parameter of a Function.
type Argument struct {
	valueBase
	parent *Function
	index  int
}

// Parent returns the owning function.
func (a *Argument) Parent() *Function { return a.parent }

// Index returns the argument's position in the parameter list.
func (a *Argument) Index() int { return a.index }

// ConstInt is an interned integer constant. At most one ConstInt exists
// per (type, value) pair in a module.
type ConstInt struct {
	valueBase
	value int64
}

// Value returns the constant's integer value.
func (c *ConstInt) Value() int64 { return c.value }
