package lir_test

import (
	"strings"
	"testing"

	"veneer/internal/lir"
)

const twoBlockSrc = `
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

// TestParseTwoBlockFunction tests structural results of parsing.
func TestParseTwoBlockFunction(t *testing.T) {
	m, err := lir.Parse("test", twoBlockSrc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	f := m.Function("f")
	if f == nil {
		t.Fatal("function @f not found")
	}
	if got := f.NumArgs(); got != 2 {
		t.Fatalf("NumArgs = %d, want 2", got)
	}
	if got := len(f.Blocks()); got != 3 {
		t.Fatalf("blocks = %d, want 3", got)
	}
	entry := f.Block("entry")
	if entry.Len() != 3 {
		t.Fatalf("entry len = %d, want 3", entry.Len())
	}
	br := entry.Terminator()
	if br == nil || br.Op() != lir.OpBr {
		t.Fatalf("entry terminator = %v", br)
	}
	if br.NumSuccessors() != 2 {
		t.Fatalf("NumSuccessors = %d, want 2", br.NumSuccessors())
	}
	if br.Successor(0) != f.Block("then") || br.Successor(1) != f.Block("else") {
		t.Fatal("branch successors resolved wrong")
	}
}

// TestUseListTracking tests that operand edges appear on use lists.
func TestUseListTracking(t *testing.T) {
	m, err := lir.Parse("test", twoBlockSrc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	f := m.Function("f")
	a := f.Arg(0)
	if a.NumUses() != 1 {
		t.Fatalf("arg uses = %d, want 1", a.NumUses())
	}
	add := f.Block("entry").First()
	u := a.FirstUse()
	if u.Owner() != add || u.OperandNo() != 0 {
		t.Fatalf("use edge owner/slot wrong: %v/%d", u.Owner().Op(), u.OperandNo())
	}

	// Rewriting the operand moves the edge between use lists.
	one := m.ConstInt(m.Types().Builtins().I32, 1)
	before := one.NumUses()
	add.SetOperand(0, one)
	if a.NumUses() != 0 {
		t.Fatalf("arg uses after rewrite = %d, want 0", a.NumUses())
	}
	if one.NumUses() != before+1 {
		t.Fatalf("const uses = %d, want %d", one.NumUses(), before+1)
	}
}

// TestSwapOperandsKeepsEdges tests that swapping preserves edge handles.
func TestSwapOperandsKeepsEdges(t *testing.T) {
	m, err := lir.Parse("test", twoBlockSrc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	br := m.Function("f").Block("entry").Terminator()
	u1, u2 := br.OperandUse(1), br.OperandUse(2)
	s0, s1 := br.Successor(0), br.Successor(1)
	br.SwapOperands(1, 2)
	if br.OperandUse(1) != u1 || br.OperandUse(2) != u2 {
		t.Fatal("edge handles changed across swap")
	}
	if br.Successor(0) != s1 || br.Successor(1) != s0 {
		t.Fatal("successors not swapped")
	}
}

// TestRemoveInsertOrder tests block splicing.
func TestRemoveInsertOrder(t *testing.T) {
	m, err := lir.Parse("test", twoBlockSrc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	entry := m.Function("f").Block("entry")
	add := entry.First()
	cmp := add.Next()

	add.RemoveFromParent()
	if add.Parent() != nil || entry.Len() != 2 {
		t.Fatal("remove did not detach")
	}
	if entry.First() != cmp {
		t.Fatal("list head not updated")
	}
	add.InsertBefore(entry.Terminator())
	order := entry.Instrs()
	if order[0] != cmp || order[1] != add {
		t.Fatal("insert before terminator produced wrong order")
	}
	// Uses survive detach/reattach.
	if add.NumUses() != 1 {
		t.Fatalf("add uses = %d, want 1", add.NumUses())
	}
}

// TestReplaceAllUsesWith tests RAUW over several users.
func TestReplaceAllUsesWith(t *testing.T) {
	src := `
func @g(i32 %a) i32 {
entry:
  %x = add i32 %a, %a
  %y = mul i32 %x, %x
  %z = sub i32 %y, %x
  ret i32 %z
}
`
	m, err := lir.Parse("test", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	entry := m.Function("g").Block("entry")
	x := entry.First()
	if x.NumUses() != 3 {
		t.Fatalf("x uses = %d, want 3", x.NumUses())
	}
	a := m.Function("g").Arg(0)
	x.ReplaceAllUsesWith(a)
	if x.NumUses() != 0 {
		t.Fatalf("x uses after RAUW = %d, want 0", x.NumUses())
	}
	y := x.Next()
	if y.Operand(0) != a || y.Operand(1) != a {
		t.Fatal("mul operands not rewritten")
	}
}

// TestDropRestoreOperands tests the erase/resurrect primitives.
func TestDropRestoreOperands(t *testing.T) {
	m, err := lir.Parse("test", twoBlockSrc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	f := m.Function("f")
	add := f.Block("entry").First()
	a := f.Arg(0)

	vals := add.DropOperands()
	if a.NumUses() != 0 {
		t.Fatal("drop did not unlink use")
	}
	if add.Operand(0) != nil {
		t.Fatal("dropped operand still set")
	}
	add.RestoreOperands(vals)
	if a.NumUses() != 1 || add.Operand(0) != a {
		t.Fatal("restore did not relink")
	}
}

// TestPhiIncoming tests phi pair management.
func TestPhiIncoming(t *testing.T) {
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
	m, err := lir.Parse("test", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	f := m.Function("loop")
	phi := f.Block("head").First()
	if phi.Op() != lir.OpPhi || phi.NumIncoming() != 2 {
		t.Fatalf("phi shape wrong: %v/%d", phi.Op(), phi.NumIncoming())
	}
	if phi.IncomingBlock(0) != f.Block("entry") || phi.IncomingBlock(1) != f.Block("head") {
		t.Fatal("incoming blocks wrong")
	}
	if got := phi.BlockIndex(f.Block("head")); got != 1 {
		t.Fatalf("BlockIndex = %d, want 1", got)
	}
	v := phi.RemoveIncoming(0)
	if c, ok := v.(*lir.ConstInt); !ok || c.Value() != 0 {
		t.Fatalf("removed value = %v", v)
	}
	if phi.NumIncoming() != 1 || phi.NumOperands() != 1 {
		t.Fatal("phi pair not removed")
	}

	// Detaching keeps the edge handle; reattaching splices the same
	// handle back.
	u := phi.OperandUse(0)
	v2, du := phi.DetachIncoming(0)
	if du != u || u.Get() != nil {
		t.Fatal("detach did not orphan the original edge handle")
	}
	phi.ReattachIncoming(0, du, v2, f.Block("head"))
	if phi.OperandUse(0) != u || u.Get() != v2 || u.OperandNo() != 0 {
		t.Fatal("reattach did not restore the edge handle")
	}
	if phi.NumIncoming() != 1 || phi.IncomingBlock(0) != f.Block("head") {
		t.Fatal("reattached pair wrong")
	}
}

// TestPrintParseRoundTrip tests that printing a parsed module reparses
// to the same text.
func TestPrintParseRoundTrip(t *testing.T) {
	srcs := []string{twoBlockSrc, `
func @mix(i64 %a, ptr %p) i64 {
entry:
  %s = alloca i64
  store volatile i64 %a, ptr %s
  %l = load volatile i64, ptr %s
  %t = trunc i64 %l to i32
  %w = sext i32 %t to i64
  %m = select i1 1, i64 %w, i64 %a
  %r = call i64 @mix(i64 %m, ptr %p)
  ret i64 %r
}
`}
	for _, src := range srcs {
		m, err := lir.Parse("test", src)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		text := lir.NewPrinter(m).Module(m)
		m2, err := lir.Parse("test", text)
		if err != nil {
			t.Fatalf("reparse: %v\n%s", err, text)
		}
		text2 := lir.NewPrinter(m2).Module(m2)
		if text != text2 {
			t.Fatalf("round trip diverged:\n--- first\n%s\n--- second\n%s", text, text2)
		}
	}
}

// TestParseErrors tests rejection with line info.
func TestParseErrors(t *testing.T) {
	cases := []struct {
		src  string
		frag string
	}{
		{"func @f() void {\nentry:\n  ret void\n}\nfunc @f() void {\nentry:\n  ret void\n}", "duplicate function"},
		{"func @f() void {\nentry:\n  %x = frob i32 %y\n}", "unknown instruction"},
		{"func @f() void {\nentry:\n  %x = add i37 %x, 1\n  ret void\n}", "unknown type"},
		{"func @f() void {\nentry:\n  %x = add i32 %nope, 1\n  ret void\n}", "unknown value"},
		{"func @f() void {\nentry:\n  br label %entry\n", "unterminated"},
	}
	for _, tc := range cases {
		_, err := lir.Parse("test", tc.src)
		if err == nil {
			t.Fatalf("no error for %q", tc.src)
		}
		if !strings.Contains(err.Error(), tc.frag) {
			t.Fatalf("error %q does not mention %q", err, tc.frag)
		}
	}
}

// TestBuilderDetachedCreation tests that builder output is detached and
// typed correctly.
func TestBuilderDetachedCreation(t *testing.T) {
	m := lir.NewModule("test")
	bi := m.Types().Builtins()
	f, err := m.NewFunction("h", bi.I32, []lir.TypeID{bi.I32}, []string{"a"})
	if err != nil {
		t.Fatalf("NewFunction: %v", err)
	}
	entry := f.NewBlock("entry")
	bld := lir.Builder{M: m}

	add := bld.Binary(lir.OpAdd, f.Arg(0), m.ConstInt(bi.I32, 2), "x")
	if add.Parent() != nil {
		t.Fatal("builder attached instruction")
	}
	if add.Type() != bi.I32 {
		t.Fatal("binary result type wrong")
	}
	entry.Append(add)
	ret := bld.Ret(add)
	entry.Append(ret)
	if entry.Terminator() != ret {
		t.Fatal("terminator not last")
	}

	cmp := bld.ICmp(lir.PredEq, add, f.Arg(0), "c")
	if cmp.Type() != bi.I1 {
		t.Fatal("icmp must produce i1")
	}
	if cmp.Pred() != lir.PredEq {
		t.Fatal("icmp predicate lost")
	}
}

// TestConstInterning tests canonical constants.
func TestConstInterning(t *testing.T) {
	m := lir.NewModule("test")
	bi := m.Types().Builtins()
	if m.ConstInt(bi.I32, 7) != m.ConstInt(bi.I32, 7) {
		t.Fatal("same (type, value) produced distinct constants")
	}
	if m.ConstInt(bi.I32, 7) == m.ConstInt(bi.I64, 7) {
		t.Fatal("distinct types shared one constant")
	}
}
