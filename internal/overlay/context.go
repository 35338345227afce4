package overlay

import (
	"fmt"

	"veneer/internal/lir"
	"veneer/internal/trace"
)

// Context is the registry owning every overlay node of one lir module.
// It maps lir identity to overlay identity (the only place such a
// mapping exists), materializes nodes lazily, and carries the
// checkpoint stack behind Save/Revert/Accept. At most one overlay node
// exists per lir node at any time.
type Context struct {
	mod     *lir.Module
	bld     lir.Builder
	values  map[lir.Value]Value
	nextUID uint64
	track   tracker
	tracer  trace.Tracer
}

// Option configures a Context.
type Option func(*Context)

// WithTracer routes the context's events through t.
func WithTracer(t trace.Tracer) Option {
	return func(c *Context) { c.tracer = t }
}

// NewContext creates an empty registry over m.
func NewContext(m *lir.Module, opts ...Option) *Context {
	c := &Context{
		mod:    m,
		bld:    lir.Builder{M: m},
		values: make(map[lir.Value]Value),
		tracer: trace.Nop,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Module returns the underlying module.
func (c *Context) Module() *lir.Module { return c.mod }

// NumValues returns the number of registered overlay nodes.
func (c *Context) NumValues() int { return len(c.values) }

// GetValue is a pure lookup: it returns the overlay node registered
// for v, or nil without materializing anything.
func (c *Context) GetValue(v lir.Value) Value {
	return c.values[v]
}

// GetOrCreateValue returns the canonical overlay node for v, creating
// and registering it on first request.
func (c *Context) GetOrCreateValue(v lir.Value) Value {
	if v == nil {
		return nil
	}
	if n, ok := c.values[v]; ok {
		return n
	}
	return c.wrap(v)
}

func (c *Context) wrap(v lir.Value) Value {
	switch v := v.(type) {
	case *lir.Argument:
		return c.register(&Argument{}, ClassArgument, v)
	case *lir.ConstInt:
		return c.register(&Constant{}, ClassConstant, v)
	case *lir.Block:
		return c.register(&BasicBlock{}, ClassBlock, v)
	case *lir.Function:
		return c.register(&Function{}, ClassFunction, v)
	case *lir.Instr:
		return c.wrapInstr(v)
	default:
		panic(fmt.Sprintf("overlay: cannot wrap %T", v))
	}
}

func (c *Context) wrapInstr(in *lir.Instr) Value {
	op, class := classify(in.Op())
	var n Value
	switch class {
	case ClassBinary:
		n = &BinaryInst{instruction: instrBase(op)}
	case ClassUnary:
		n = &UnaryInst{instruction: instrBase(op)}
	case ClassCmp:
		n = &CmpInst{instruction: instrBase(op)}
	case ClassSelect:
		n = &SelectInst{instruction: instrBase(op)}
	case ClassBranch:
		n = &BranchInst{instruction: instrBase(op)}
	case ClassReturn:
		n = &ReturnInst{instruction: instrBase(op)}
	case ClassUnreachable:
		n = &UnreachableInst{instruction: instrBase(op)}
	case ClassLoad:
		n = &LoadInst{instruction: instrBase(op)}
	case ClassStore:
		n = &StoreInst{instruction: instrBase(op)}
	case ClassCall:
		n = &CallInst{instruction: instrBase(op)}
	case ClassCast:
		n = &CastInst{instruction: instrBase(op)}
	case ClassPHI:
		n = &PHINode{instruction: instrBase(op)}
	default:
		n = &OpaqueInst{instruction: instrBase(OpOpaque)}
		class = ClassOpaque
	}
	return c.register(n, class, in)
}

func (c *Context) register(n Value, class ClassID, v lir.Value) Value {
	b := n.base()
	b.class = class
	b.val = v
	b.ctx = c
	b.self = n
	c.nextUID++
	b.uid = c.nextUID
	c.values[v] = n
	trace.Point(c.tracer, trace.ScopeGraph, "materialize", class.String())
	return n
}

// CreateFunction eagerly materializes a whole function: arguments,
// every block, and every instruction in program order. This is the
// typical entry point.
func (c *Context) CreateFunction(f *lir.Function) *Function {
	fn := c.GetOrCreateValue(f).(*Function)
	for _, a := range f.Args() {
		c.GetOrCreateValue(a)
	}
	for _, b := range f.Blocks() {
		c.GetOrCreateValue(b)
		for in := b.First(); in != nil; in = in.Next() {
			c.GetOrCreateValue(in)
		}
	}
	trace.Point(c.tracer, trace.ScopeGraph, "function", f.Name())
	return fn
}

// Save opens a checkpoint. Every structural and operand mutation made
// through the overlay API is recorded until the matching Revert or
// Accept. Checkpoints nest.
func (c *Context) Save() {
	c.track.save()
	trace.Point(c.tracer, trace.ScopeCheckpoint, "save", "")
}

// Revert undoes every mutation recorded since the innermost Save,
// restoring both graphs, resurrecting erased nodes under their
// original identities and removing created ones.
func (c *Context) Revert() {
	c.track.revert(c)
	trace.Point(c.tracer, trace.ScopeCheckpoint, "revert", "")
}

// Accept commits the innermost checkpoint. With an enclosing
// checkpoint still open the log folds into it, so an outer Revert can
// still restore the outer state.
func (c *Context) Accept() {
	c.track.accept(c)
	trace.Point(c.tracer, trace.ScopeCheckpoint, "accept", "")
}

// InCheckpoint reports whether a checkpoint is open.
func (c *Context) InCheckpoint() bool { return c.track.active() }

// Tracked mutation entry points. All overlay mutation funnels through
// these so that every change is observable to the tracker.

func (c *Context) setEdge(e *lir.Use, v lir.Value) {
	if c.track.active() {
		c.track.record(&setOperandChange{edge: e, old: e.Get()})
	}
	e.Set(v)
	trace.Point(c.tracer, trace.ScopeMutation, "set-operand", "")
}

func (c *Context) swapEdges(in *lir.Instr, i, j int) {
	if c.track.active() {
		c.track.record(&setOperandChange{edge: in.OperandUse(i), old: in.Operand(i)})
		c.track.record(&setOperandChange{edge: in.OperandUse(j), old: in.Operand(j)})
	}
	in.SwapOperands(i, j)
	trace.Point(c.tracer, trace.ScopeMutation, "swap-operands", "")
}

func (c *Context) insertSpan(n Instruction, blk *lir.Block, before *lir.Instr) {
	span := n.UnderlyingInstrs()
	for _, li := range span {
		li.InsertInto(blk, before)
	}
	for i := 0; i+1 < len(span); i++ {
		assertf(span[i].Next() == span[i+1], "span of %q is not contiguous", n.Name())
	}
	if c.track.active() {
		c.track.record(&insertChange{n: n})
	}
	trace.Point(c.tracer, trace.ScopeMutation, "insert", n.Name())
}

func (c *Context) removeSpan(n Instruction) {
	span := n.UnderlyingInstrs()
	anchor := span[len(span)-1]
	blk := anchor.Parent()
	if blk == nil {
		panic("overlay: remove of detached instruction")
	}
	next := anchor.Next()
	for i := 0; i+1 < len(span); i++ {
		assertf(span[i].Next() == span[i+1], "span of %q is not contiguous", n.Name())
	}
	for _, li := range span {
		li.RemoveFromParent()
	}
	if c.track.active() {
		c.track.record(&removeChange{n: n, blk: blk, next: next})
	}
	trace.Point(c.tracer, trace.ScopeMutation, "remove", n.Name())
}

func (c *Context) eraseInstr(n Instruction) {
	span := n.UnderlyingInstrs()
	if span[len(span)-1].Parent() != nil {
		c.removeSpan(n)
	}
	ops := make([][]lir.Value, len(span))
	for i, li := range span {
		ops[i] = li.DropOperands()
	}
	for _, li := range span {
		delete(c.values, li)
	}
	if c.track.active() {
		c.track.record(&eraseChange{n: n, instrs: span, ops: ops})
	} else {
		for _, li := range span {
			li.Destroy()
		}
	}
	trace.Point(c.tracer, trace.ScopeMutation, "erase", n.Name())
}

func (c *Context) phiAdd(in *lir.Instr, v lir.Value, b *lir.Block) {
	in.AddIncoming(v, b)
	if c.track.active() {
		c.track.record(&phiAddChange{in: in})
	}
	trace.Point(c.tracer, trace.ScopeMutation, "phi-add", in.Name())
}

func (c *Context) phiRemove(in *lir.Instr, i int) lir.Value {
	blk := in.IncomingBlock(i)
	v, u := in.DetachIncoming(i)
	if c.track.active() {
		c.track.record(&phiRemoveChange{in: in, idx: i, edge: u, val: v, blk: blk})
	}
	trace.Point(c.tracer, trace.ScopeMutation, "phi-remove", in.Name())
	return v
}

func (c *Context) phiSetBlock(in *lir.Instr, i int, b *lir.Block) {
	if c.track.active() {
		c.track.record(&phiSetBlockChange{in: in, idx: i, old: in.IncomingBlock(i)})
	}
	in.SetIncomingBlock(i, b)
	trace.Point(c.tracer, trace.ScopeMutation, "phi-set-block", in.Name())
}

// Creation factories. Construction of overlay instructions is only
// reachable through these: each builds a detached lir instruction,
// splices it at pos, registers the overlay node and records the
// creation so Revert can undo it.

// InsertPos names a position inside a block.
type InsertPos struct {
	bb     *BasicBlock
	before Instruction
}

// Before positions new instructions immediately before i.
func Before(i Instruction) InsertPos {
	p := i.Parent()
	if p == nil {
		panic("overlay: position before detached instruction")
	}
	return InsertPos{bb: p, before: i}
}

// AtEnd positions new instructions at the end of bb.
func AtEnd(bb *BasicBlock) InsertPos { return InsertPos{bb: bb} }

func (c *Context) emit(li *lir.Instr, pos InsertPos) Instruction {
	var before *lir.Instr
	if pos.before != nil {
		before = pos.before.UnderlyingInstrs()[0]
	}
	li.InsertInto(pos.bb.blk(), before)
	n := c.GetOrCreateValue(li).(Instruction)
	if c.track.active() {
		c.track.record(&createChange{n: n})
	}
	trace.Point(c.tracer, trace.ScopeMutation, "create", n.Opcode().String())
	return n
}

// NewBinary creates an integer binary instruction at pos.
func (c *Context) NewBinary(op Opcode, lhs, rhs Value, pos InsertPos, name string) *BinaryInst {
	lop, ok := lirOpcode(op)
	if !ok || !lop.IsBinary() {
		panic(fmt.Sprintf("overlay: NewBinary with opcode %s", op))
	}
	li := c.bld.Binary(lop, lhs.Underlying(), rhs.Underlying(), name)
	return c.emit(li, pos).(*BinaryInst)
}

// NewUnary creates a neg/not instruction at pos.
func (c *Context) NewUnary(op Opcode, v Value, pos InsertPos, name string) *UnaryInst {
	lop, ok := lirOpcode(op)
	if !ok || !lop.IsUnary() {
		panic(fmt.Sprintf("overlay: NewUnary with opcode %s", op))
	}
	li := c.bld.Unary(lop, v.Underlying(), name)
	return c.emit(li, pos).(*UnaryInst)
}

// NewCmp creates an integer comparison at pos.
func (c *Context) NewCmp(pred lir.CmpPred, lhs, rhs Value, pos InsertPos, name string) *CmpInst {
	li := c.bld.ICmp(pred, lhs.Underlying(), rhs.Underlying(), name)
	return c.emit(li, pos).(*CmpInst)
}

// NewSelect creates a select at pos.
func (c *Context) NewSelect(cond, t, f Value, pos InsertPos, name string) *SelectInst {
	li := c.bld.Select(cond.Underlying(), t.Underlying(), f.Underlying(), name)
	return c.emit(li, pos).(*SelectInst)
}

// NewBranch creates an unconditional branch at pos.
func (c *Context) NewBranch(target *BasicBlock, pos InsertPos) *BranchInst {
	li := c.bld.Br(target.blk())
	return c.emit(li, pos).(*BranchInst)
}

// NewCondBranch creates a conditional branch at pos.
func (c *Context) NewCondBranch(cond Value, then, els *BasicBlock, pos InsertPos) *BranchInst {
	li := c.bld.CondBr(cond.Underlying(), then.blk(), els.blk())
	return c.emit(li, pos).(*BranchInst)
}

// NewReturn creates a return at pos; a nil v returns void.
func (c *Context) NewReturn(v Value, pos InsertPos) *ReturnInst {
	var uv lir.Value
	if v != nil {
		uv = v.Underlying()
	}
	li := c.bld.Ret(uv)
	return c.emit(li, pos).(*ReturnInst)
}

// NewUnreachable creates an unreachable terminator at pos.
func (c *Context) NewUnreachable(pos InsertPos) *UnreachableInst {
	li := c.bld.Unreachable()
	return c.emit(li, pos).(*UnreachableInst)
}

// NewLoad creates a load at pos.
func (c *Context) NewLoad(typ lir.TypeID, ptr Value, volatile bool, pos InsertPos, name string) *LoadInst {
	li := c.bld.Load(typ, ptr.Underlying(), volatile, name)
	return c.emit(li, pos).(*LoadInst)
}

// NewStore creates a store at pos.
func (c *Context) NewStore(val, ptr Value, volatile bool, pos InsertPos) *StoreInst {
	li := c.bld.Store(val.Underlying(), ptr.Underlying(), volatile)
	return c.emit(li, pos).(*StoreInst)
}

// NewCall creates a call at pos.
func (c *Context) NewCall(callee Value, args []Value, pos InsertPos, name string) *CallInst {
	uargs := make([]lir.Value, len(args))
	for i, a := range args {
		uargs[i] = a.Underlying()
	}
	li := c.bld.Call(callee.Underlying(), uargs, name)
	return c.emit(li, pos).(*CallInst)
}

// NewCast creates a cast at pos.
func (c *Context) NewCast(op Opcode, v Value, dst lir.TypeID, pos InsertPos, name string) *CastInst {
	lop, ok := lirOpcode(op)
	if !ok || !lop.IsCast() {
		panic(fmt.Sprintf("overlay: NewCast with opcode %s", op))
	}
	li := c.bld.Cast(lop, v.Underlying(), dst, name)
	return c.emit(li, pos).(*CastInst)
}

// NewPHI creates an empty phi at pos; pairs are added with AddIncoming.
func (c *Context) NewPHI(typ lir.TypeID, pos InsertPos, name string) *PHINode {
	li := c.bld.Phi(typ, name)
	return c.emit(li, pos).(*PHINode)
}
