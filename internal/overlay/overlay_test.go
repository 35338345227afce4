package overlay_test

import (
	"strings"
	"testing"

	"veneer/internal/lir"
	"veneer/internal/overlay"
)

const condBrSrc = `
func @f(i32 %a, ptr %p) i32 {
entry:
  %x = add i32 %a, 1
  %c = icmp sgt i32 %x, 0
  br i1 %c, label %then, label %else
then:
  %v = load i32, ptr %p
  ret i32 %v
else:
  ret i32 0
}
`

func load(t *testing.T, src string) (*overlay.Context, *overlay.Function) {
	t.Helper()
	m, err := lir.Parse("test", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ctx := overlay.NewContext(m)
	return ctx, ctx.CreateFunction(m.Functions()[0])
}

func block(t *testing.T, f *overlay.Function, name string) *overlay.BasicBlock {
	t.Helper()
	for _, b := range f.Blocks() {
		if b.Name() == name {
			return b
		}
	}
	t.Fatalf("block %%%s not found", name)
	return nil
}

// assertMirrors checks that the overlay instruction sequence of bb
// equals the underlying sequence element for element.
func assertMirrors(t *testing.T, bb *overlay.BasicBlock) {
	t.Helper()
	lb := bb.Underlying().(*lir.Block)
	li := lb.First()
	for it := bb.Begin(); !it.Done(); it = it.Next() {
		for _, s := range it.Get().UnderlyingInstrs() {
			if s != li {
				t.Fatal("overlay order diverged from underlying order")
			}
			li = li.Next()
		}
	}
	if li != nil {
		t.Fatal("underlying block has instructions the overlay missed")
	}
}

// TestCanonicalization tests that repeated lookups return the
// identical overlay node and that GetValue never materializes.
func TestCanonicalization(t *testing.T) {
	ctx, f := load(t, condBrSrc)
	lf := f.Underlying().(*lir.Function)
	add := lf.Block("entry").First()

	n1 := ctx.GetOrCreateValue(add)
	n2 := ctx.GetOrCreateValue(add)
	if n1 != n2 {
		t.Fatal("two lookups produced distinct overlay nodes")
	}
	if ctx.GetValue(add) != n1 {
		t.Fatal("GetValue disagrees with GetOrCreateValue")
	}

	m2, err := lir.Parse("test", condBrSrc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	fresh := overlay.NewContext(m2)
	if fresh.GetValue(m2.Functions()[0]) != nil {
		t.Fatal("GetValue materialized a node")
	}
	if fresh.NumValues() != 0 {
		t.Fatalf("NumValues = %d on fresh context", fresh.NumValues())
	}
}

// TestEagerMaterialization tests that CreateFunction covers args,
// blocks and instructions.
func TestEagerMaterialization(t *testing.T) {
	ctx, f := load(t, condBrSrc)
	lf := f.Underlying().(*lir.Function)
	for _, a := range lf.Args() {
		if ctx.GetValue(a) == nil {
			t.Fatalf("argument %%%s not materialized", a.Name())
		}
	}
	for _, b := range lf.Blocks() {
		if ctx.GetValue(b) == nil {
			t.Fatalf("block %%%s not materialized", b.Name())
		}
		for in := b.First(); in != nil; in = in.Next() {
			if ctx.GetValue(in) == nil {
				t.Fatalf("instruction %%%s not materialized", in.Name())
			}
		}
	}
	if f.NumArgs() != 2 {
		t.Fatalf("NumArgs = %d, want 2", f.NumArgs())
	}
	if f.Arg(0).Index() != 0 || f.Arg(0).Parent() != f {
		t.Fatal("argument accessors wrong")
	}
}

// TestClassDispatch tests that materialization picks the concrete
// classes and opcodes.
func TestClassDispatch(t *testing.T) {
	_, f := load(t, condBrSrc)
	entry := block(t, f, "entry")

	it := entry.Begin()
	add, ok := it.Get().(*overlay.BinaryInst)
	if !ok || add.Opcode() != overlay.OpAdd {
		t.Fatalf("first = %T/%s", it.Get(), it.Get().Opcode())
	}
	it = it.Next()
	cmp, ok := it.Get().(*overlay.CmpInst)
	if !ok || cmp.Predicate() != lir.PredSgt {
		t.Fatalf("second = %T", it.Get())
	}
	it = it.Next()
	br, ok := it.Get().(*overlay.BranchInst)
	if !ok || !br.IsConditional() {
		t.Fatalf("third = %T", it.Get())
	}
	if br.Condition() != overlay.Value(cmp) {
		t.Fatal("branch condition is not the cmp")
	}
	then := block(t, f, "then")
	if _, ok := then.First().(*overlay.LoadInst); !ok {
		t.Fatalf("then first = %T", then.First())
	}
	if _, ok := then.Terminator().(*overlay.ReturnInst); !ok {
		t.Fatalf("then terminator = %T", then.Terminator())
	}
}

// TestOpaqueMaterialization tests the catch-all class.
func TestOpaqueMaterialization(t *testing.T) {
	src := `
func @g() i32 {
entry:
  %s = alloca i32
  store i32 0, ptr %s
  %v = load i32, ptr %s
  ret i32 %v
}
`
	_, f := load(t, src)
	entry := block(t, f, "entry")
	op, ok := entry.First().(*overlay.OpaqueInst)
	if !ok {
		t.Fatalf("alloca materialized as %T", entry.First())
	}
	if op.Opcode() != overlay.OpOpaque || op.Class() != overlay.ClassOpaque {
		t.Fatalf("opaque tags wrong: %s/%s", op.Opcode(), op.Class())
	}
	// The generic instruction surface still works.
	if op.NumOperands() != 0 || op.NumUses() != 2 {
		t.Fatalf("opaque shape wrong: %d operands, %d uses", op.NumOperands(), op.NumUses())
	}
}

// TestOperandRoundTrip tests setOperand/getOperand against both
// graphs.
func TestOperandRoundTrip(t *testing.T) {
	ctx, f := load(t, condBrSrc)
	entry := block(t, f, "entry")
	add := entry.First().(*overlay.BinaryInst)
	a := f.Arg(0)

	one := ctx.GetOrCreateValue(ctx.Module().ConstInt(ctx.Module().Types().Builtins().I32, 1))
	add.SetOperand(0, one)
	if add.Operand(0) != one {
		t.Fatal("operand round trip failed")
	}
	under := add.Underlying().(*lir.Instr)
	if under.Operand(0) != one.Underlying() {
		t.Fatal("underlying operand not rewritten")
	}
	if a.NumUses() != 0 {
		t.Fatalf("old operand still used: %d", a.NumUses())
	}
}

// TestUseOperandNoInverse tests the use/operand-index inverse law.
func TestUseOperandNoInverse(t *testing.T) {
	_, f := load(t, condBrSrc)
	for _, b := range f.Blocks() {
		for it := b.Begin(); !it.Done(); it = it.Next() {
			n := it.Get()
			for i := 0; i < n.NumOperands(); i++ {
				if got := n.OperandUse(i).OperandNo(); got != i {
					t.Fatalf("%%%s: OperandNo = %d, want %d", n.Name(), got, i)
				}
			}
		}
	}
}

// TestOperandUseBounds tests the end sentinel and the range check,
// including on operand-less values.
func TestOperandUseBounds(t *testing.T) {
	ctx, f := load(t, condBrSrc)
	add := block(t, f, "entry").First()
	if end := add.OperandUse(add.NumOperands()); end.Get() != nil {
		t.Fatal("end sentinel resolved a value")
	}

	c := ctx.GetOrCreateValue(ctx.Module().ConstInt(ctx.Module().Types().Builtins().I32, 7)).(*overlay.Constant)
	if end := c.OperandUse(0); end.Get() != nil {
		t.Fatal("end sentinel of an operand-less value resolved")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("out-of-range OperandUse did not panic")
		}
	}()
	c.OperandUse(1)
}

// TestUsesIterator tests walking a value's users.
func TestUsesIterator(t *testing.T) {
	_, f := load(t, condBrSrc)
	entry := block(t, f, "entry")
	add := entry.First().(*overlay.BinaryInst)

	if add.NumUses() != 1 {
		t.Fatalf("add uses = %d, want 1", add.NumUses())
	}
	it := add.UsesBegin()
	if it.Done() {
		t.Fatal("use iterator empty")
	}
	u := it.Use()
	cmp := entry.Begin().Next().Get()
	if u.User() != overlay.User(cmp.(*overlay.CmpInst)) {
		t.Fatalf("use owner = %T", u.User())
	}
	if u.OperandNo() != 0 {
		t.Fatalf("use slot = %d, want 0", u.OperandNo())
	}
	if u.Get() != overlay.Value(add) {
		t.Fatal("use does not resolve back to add")
	}
	if !it.Next().Done() {
		t.Fatal("unexpected extra use")
	}
}

// TestReplaceUses tests RAUW and the filtered variant.
func TestReplaceUses(t *testing.T) {
	src := `
func @g(i32 %a) i32 {
entry:
  %x = add i32 %a, %a
  %y = mul i32 %x, %x
  %z = sub i32 %y, %x
  ret i32 %z
}
`
	_, f := load(t, src)
	entry := block(t, f, "entry")
	x := entry.First()
	a := f.Arg(0)

	x.ReplaceUsesWithIf(a, func(u overlay.Use) bool {
		inst, ok := u.User().(overlay.Instruction)
		return ok && inst.Opcode() == overlay.OpMul
	})
	y := entry.Begin().Next().Get()
	if y.Operand(0) != overlay.Value(a) || y.Operand(1) != overlay.Value(a) {
		t.Fatal("mul operands not rewritten")
	}
	if x.NumUses() != 1 {
		t.Fatalf("x uses after filtered replace = %d, want 1", x.NumUses())
	}
	x.ReplaceAllUsesWith(a)
	if x.NumUses() != 0 {
		t.Fatalf("x uses after RAUW = %d, want 0", x.NumUses())
	}
}

// TestUseCountAccuracy tests that NumUses equals the live operand
// slots referencing the value.
func TestUseCountAccuracy(t *testing.T) {
	_, f := load(t, condBrSrc)
	for _, b := range f.Blocks() {
		for it := b.Begin(); !it.Done(); it = it.Next() {
			n := it.Get()
			want := 0
			for _, ob := range f.Blocks() {
				for jt := ob.Begin(); !jt.Done(); jt = jt.Next() {
					u := jt.Get()
					for i := 0; i < u.NumOperands(); i++ {
						if u.Operand(i) == overlay.Value(n) {
							want++
						}
					}
				}
			}
			if n.NumUses() != want {
				t.Fatalf("%%%s: NumUses = %d, want %d", n.Name(), n.NumUses(), want)
			}
		}
	}
}

// TestDetachReattach tests that remove+insert equals a direct move.
func TestDetachReattach(t *testing.T) {
	_, f := load(t, condBrSrc)
	entry := block(t, f, "entry")
	add := entry.First()
	cmp := add.NextNode()

	add.RemoveFromParent()
	if add.Parent() != nil {
		t.Fatal("remove did not detach")
	}
	assertMirrors(t, entry)
	add.InsertBefore(entry.Terminator())
	assertMirrors(t, entry)

	order1 := names(entry)

	// The same reshuffle via MoveBefore must agree.
	add.MoveBefore(cmp)
	add.MoveBefore(entry.Terminator())
	if got := names(entry); got != order1 {
		t.Fatalf("move order %q != remove+insert order %q", got, order1)
	}
	assertMirrors(t, entry)
}

func names(bb *overlay.BasicBlock) string {
	out := ""
	for it := bb.Begin(); !it.Done(); it = it.Next() {
		out += it.Get().Opcode().String() + " "
	}
	return out
}

// TestMoveSelfNoop tests that moving an instruction relative to itself
// leaves the block untouched.
func TestMoveSelfNoop(t *testing.T) {
	_, f := load(t, condBrSrc)
	entry := block(t, f, "entry")
	add := entry.First()
	order := names(entry)

	add.MoveBefore(add)
	add.MoveAfter(add)
	if got := names(entry); got != order || entry.First() != add {
		t.Fatalf("self-move changed the block: %q", got)
	}
	assertMirrors(t, entry)
}

// TestMoveBetweenBlocks tests MoveInto across blocks.
func TestMoveBetweenBlocks(t *testing.T) {
	_, f := load(t, condBrSrc)
	entry := block(t, f, "entry")
	then := block(t, f, "then")
	add := entry.First()

	add.MoveInto(then, then.First())
	if add.Parent() != then || then.First() != add {
		t.Fatal("MoveInto did not relocate")
	}
	assertMirrors(t, entry)
	assertMirrors(t, then)
	if entry.Len() != 2 || then.Len() != 3 {
		t.Fatalf("lengths = %d/%d", entry.Len(), then.Len())
	}
}

// TestBlockIter tests bidirectional iteration and position equality.
func TestBlockIter(t *testing.T) {
	_, f := load(t, condBrSrc)
	entry := block(t, f, "entry")

	it := entry.End().Prev()
	if _, ok := it.Get().(*overlay.BranchInst); !ok {
		t.Fatalf("Prev from end = %T", it.Get())
	}
	it = it.Prev().Prev()
	if !it.Equal(entry.Begin()) {
		t.Fatal("Prev did not reach the beginning")
	}
	count := 0
	for jt := entry.Begin(); !jt.Done(); jt = jt.Next() {
		count++
	}
	if count != 3 {
		t.Fatalf("iterated %d instructions, want 3", count)
	}
}

// TestSwapSuccessors tests the conditional-branch scenario: swap,
// check both views, revert, check restoration.
func TestSwapSuccessors(t *testing.T) {
	ctx, f := load(t, condBrSrc)
	entry := block(t, f, "entry")
	then := block(t, f, "then")
	els := block(t, f, "else")
	br := entry.Terminator().(*overlay.BranchInst)

	if br.Successor(0) != then || br.Successor(1) != els {
		t.Fatal("initial successors wrong")
	}

	ctx.Save()
	br.SwapSuccessors()

	if br.Successor(0) != els || br.Successor(1) != then {
		t.Fatal("successors not swapped in overlay")
	}
	under := br.Underlying().(*lir.Instr)
	if under.Successor(0) != els.Underlying() || under.Successor(1) != then.Underlying() {
		t.Fatal("successors not swapped in underlying graph")
	}

	ctx.Revert()
	if br.Successor(0) != then || br.Successor(1) != els {
		t.Fatal("successors not restored by revert")
	}
	if under.Successor(0) != then.Underlying() || under.Successor(1) != els.Underlying() {
		t.Fatal("underlying successors not restored by revert")
	}
}

// TestSelectSwapValues tests the select swap with stable edges.
func TestSelectSwapValues(t *testing.T) {
	src := `
func @g(i1 %c, i32 %a, i32 %b) i32 {
entry:
  %s = select i1 %c, i32 %a, i32 %b
  ret i32 %s
}
`
	_, f := load(t, src)
	entry := block(t, f, "entry")
	sel := entry.First().(*overlay.SelectInst)
	a, b := f.Arg(1), f.Arg(2)

	u1, u2 := sel.OperandUse(1), sel.OperandUse(2)
	sel.SwapValues()
	if sel.TrueValue() != overlay.Value(b) || sel.FalseValue() != overlay.Value(a) {
		t.Fatal("values not swapped")
	}
	if !sel.OperandUse(1).Equal(u1) || !sel.OperandUse(2).Equal(u2) {
		t.Fatal("edge handles changed across swap")
	}
}

// TestPHINodeAPI tests the phi accessors and pair management.
func TestPHINodeAPI(t *testing.T) {
	src := `
func @loop(i32 %n) i32 {
entry:
  br label %head
head:
  %i = phi i32 [ 0, %entry ], [ %next, %head ]
  %next = add i32 %i, 1
  %done = icmp sge i32 %next, %n
  br i1 %done, label %exit, label %head
exit:
  ret i32 %i
}
`
	ctx, f := load(t, src)
	head := block(t, f, "head")
	entry := block(t, f, "entry")
	phi := head.First().(*overlay.PHINode)

	if phi.NumIncoming() != 2 {
		t.Fatalf("NumIncoming = %d, want 2", phi.NumIncoming())
	}
	if phi.IncomingBlock(0) != entry || phi.IncomingBlockIndex(head) != 1 {
		t.Fatal("incoming block mapping wrong")
	}
	zero := phi.IncomingValue(0)
	if c, ok := zero.(*overlay.Constant); !ok || c.IntValue() != 0 {
		t.Fatalf("incoming 0 = %T", zero)
	}

	five := ctx.GetOrCreateValue(ctx.Module().ConstInt(ctx.Module().Types().Builtins().I32, 5))
	phi.SetIncomingValue(0, five)
	if phi.IncomingValue(0) != five {
		t.Fatal("SetIncomingValue failed")
	}

	got := phi.RemoveIncomingAt(0)
	if got != five || phi.NumIncoming() != 1 {
		t.Fatal("RemoveIncomingAt failed")
	}
	phi.AddIncoming(five, entry)
	if phi.NumIncoming() != 2 || phi.IncomingBlock(1) != entry {
		t.Fatal("AddIncoming failed")
	}
}

// TestDumpFunction tests the diagnostic rendering.
func TestDumpFunction(t *testing.T) {
	ctx, f := load(t, condBrSrc)
	out := ctx.DumpFunction(f)
	if out == "" {
		t.Fatal("empty dump")
	}
	for _, frag := range []string{"@f", "add i32", "br i1", "; #"} {
		if !strings.Contains(out, frag) {
			t.Fatalf("dump missing %q:\n%s", frag, out)
		}
	}
}

// TestVerify tests the sanity checker on a well-formed module.
func TestVerify(t *testing.T) {
	ctx, f := load(t, condBrSrc)
	if err := ctx.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	// Still clean after a round of mutation.
	entry := block(t, f, "entry")
	entry.First().MoveBefore(entry.Terminator())
	if err := ctx.Verify(); err != nil {
		t.Fatalf("Verify after move: %v", err)
	}
}
