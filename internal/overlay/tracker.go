package overlay

import "veneer/internal/lir"

// change is one recorded mutation. revert applies the inverse action;
// accept finalizes whatever the change deferred (only erase defers
// anything).
type change interface {
	revert(c *Context)
	accept(c *Context)
}

// tracker is the checkpoint stack. Each open checkpoint holds the
// changes recorded since its Save, in application order.
type tracker struct {
	stack [][]change
}

func (t *tracker) active() bool { return len(t.stack) > 0 }

func (t *tracker) record(ch change) {
	top := len(t.stack) - 1
	t.stack[top] = append(t.stack[top], ch)
}

func (t *tracker) save() {
	t.stack = append(t.stack, nil)
}

func (t *tracker) revert(c *Context) {
	if !t.active() {
		panic("overlay: revert without open checkpoint")
	}
	log := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	for i := len(log) - 1; i >= 0; i-- {
		log[i].revert(c)
	}
}

func (t *tracker) accept(c *Context) {
	if !t.active() {
		panic("overlay: accept without open checkpoint")
	}
	log := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	if len(t.stack) > 0 {
		// Fold into the enclosing checkpoint so an outer revert
		// still restores the outer state.
		top := len(t.stack) - 1
		t.stack[top] = append(t.stack[top], log...)
		return
	}
	for _, ch := range log {
		ch.accept(c)
	}
}

// setOperandChange records one operand edge rewrite.
type setOperandChange struct {
	edge *lir.Use
	old  lir.Value
}

func (ch *setOperandChange) revert(*Context) { ch.edge.Set(ch.old) }
func (ch *setOperandChange) accept(*Context) {}

// insertChange records the attachment of a detached instruction.
type insertChange struct {
	n Instruction
}

func (ch *insertChange) revert(*Context) {
	for _, li := range ch.n.UnderlyingInstrs() {
		li.RemoveFromParent()
	}
}
func (ch *insertChange) accept(*Context) {}

// removeChange records the detachment of an instruction, remembering
// its block and the instruction it preceded.
type removeChange struct {
	n    Instruction
	blk  *lir.Block
	next *lir.Instr
}

func (ch *removeChange) revert(*Context) {
	for _, li := range ch.n.UnderlyingInstrs() {
		li.InsertInto(ch.blk, ch.next)
	}
}
func (ch *removeChange) accept(*Context) {}

// createChange records a factory-created instruction. Revert removes
// it from both graphs entirely.
type createChange struct {
	n Instruction
}

func (ch *createChange) revert(c *Context) {
	span := ch.n.UnderlyingInstrs()
	if span[len(span)-1].Parent() != nil {
		for _, li := range span {
			li.RemoveFromParent()
		}
	}
	for _, li := range span {
		li.Destroy()
		delete(c.values, li)
	}
}
func (ch *createChange) accept(*Context) {}

// eraseChange records a tracked erase. The overlay node and its lir
// instructions stay alive inside the change so revert can resurrect
// them under their original identities with their original operands
// (the edge handles stay stable across the cycle). Accept finally
// destroys them.
type eraseChange struct {
	n      Instruction
	instrs []*lir.Instr
	ops    [][]lir.Value
}

func (ch *eraseChange) revert(c *Context) {
	for i, li := range ch.instrs {
		li.RestoreOperands(ch.ops[i])
		c.values[li] = ch.n
	}
}

func (ch *eraseChange) accept(*Context) {
	for _, li := range ch.instrs {
		li.Destroy()
	}
}

// phiAddChange records an appended incoming pair.
type phiAddChange struct {
	in *lir.Instr
}

func (ch *phiAddChange) revert(*Context) {
	ch.in.RemoveIncoming(ch.in.NumIncoming() - 1)
}
func (ch *phiAddChange) accept(*Context) {}

// phiRemoveChange records a removed incoming pair together with its
// detached edge handle. Revert re-splices the same handle, so operand
// writes on the slot recorded earlier in the checkpoint still revert
// through a live edge.
type phiRemoveChange struct {
	in   *lir.Instr
	idx  int
	edge *lir.Use
	val  lir.Value
	blk  *lir.Block
}

func (ch *phiRemoveChange) revert(*Context) {
	ch.in.ReattachIncoming(ch.idx, ch.edge, ch.val, ch.blk)
}
func (ch *phiRemoveChange) accept(*Context) {}

// phiSetBlockChange records a replaced incoming block.
type phiSetBlockChange struct {
	in  *lir.Instr
	idx int
	old *lir.Block
}

func (ch *phiSetBlockChange) revert(*Context) {
	ch.in.SetIncomingBlock(ch.idx, ch.old)
}
func (ch *phiSetBlockChange) accept(*Context) {}
