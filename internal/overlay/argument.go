package overlay

import "veneer/internal/lir"

// Argument is a formal parameter of a Function.
type Argument struct {
	value
}

func (a *Argument) arg() *lir.Argument { return a.val.(*lir.Argument) }

// Index returns the argument's position in the parameter list.
func (a *Argument) Index() int { return a.arg().Index() }

// Parent returns the owning function.
func (a *Argument) Parent() *Function {
	return a.ctx.GetOrCreateValue(a.arg().Parent()).(*Function)
}
