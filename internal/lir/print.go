package lir

import (
	"fmt"
	"strings"
)

// Printer renders modules, functions and instructions in the textual
// format accepted by Parse.
type Printer struct {
	types *Interner
}

// NewPrinter creates a printer over the module's type interner.
func NewPrinter(m *Module) *Printer { return &Printer{types: m.Types()} }

// Module renders the whole module.
func (p *Printer) Module(m *Module) string {
	var sb strings.Builder
	for i, f := range m.Functions() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(p.Function(f))
	}
	return sb.String()
}

// Function renders one function definition.
func (p *Printer) Function(f *Function) string {
	var sb strings.Builder
	sb.WriteString("func @")
	sb.WriteString(f.Name())
	sb.WriteString("(")
	for i, a := range f.Args() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.types.String(a.Type()))
		sb.WriteString(" %")
		sb.WriteString(a.Name())
	}
	sb.WriteString(") ")
	sb.WriteString(p.types.String(f.Result()))
	sb.WriteString(" {\n")
	for _, b := range f.Blocks() {
		sb.WriteString(b.Name())
		sb.WriteString(":\n")
		for in := b.First(); in != nil; in = in.Next() {
			sb.WriteString("  ")
			sb.WriteString(p.Instr(in))
			sb.WriteString("\n")
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

// Ref renders a value as an operand reference.
func (p *Printer) Ref(v Value) string {
	switch v := v.(type) {
	case *ConstInt:
		return fmt.Sprintf("%d", v.Value())
	case *Function:
		return "@" + v.Name()
	case *Block:
		return "%" + v.Name()
	default:
		return "%" + v.Name()
	}
}

func (p *Printer) typedRef(v Value) string {
	return p.types.String(v.Type()) + " " + p.Ref(v)
}

// Instr renders one instruction.
func (p *Printer) Instr(in *Instr) string {
	var sb strings.Builder
	if in.Name() != "" {
		sb.WriteString("%")
		sb.WriteString(in.Name())
		sb.WriteString(" = ")
	}
	op := in.Op()
	switch {
	case op.IsBinary(), op.IsUnary():
		sb.WriteString(op.String())
		sb.WriteString(" ")
		sb.WriteString(p.types.String(in.Type()))
		for i := 0; i < in.NumOperands(); i++ {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(" ")
			sb.WriteString(p.Ref(in.Operand(i)))
		}
	case op == OpICmp:
		fmt.Fprintf(&sb, "icmp %s %s %s, %s",
			in.Pred(), p.types.String(in.Operand(0).Type()),
			p.Ref(in.Operand(0)), p.Ref(in.Operand(1)))
	case op == OpSelect:
		fmt.Fprintf(&sb, "select %s, %s, %s",
			p.typedRef(in.Operand(0)), p.typedRef(in.Operand(1)), p.typedRef(in.Operand(2)))
	case op == OpBr:
		if in.NumOperands() == 1 {
			fmt.Fprintf(&sb, "br label %s", p.Ref(in.Operand(0)))
		} else {
			fmt.Fprintf(&sb, "br %s, label %s, label %s",
				p.typedRef(in.Operand(0)), p.Ref(in.Operand(1)), p.Ref(in.Operand(2)))
		}
	case op == OpRet:
		if in.NumOperands() == 0 {
			sb.WriteString("ret void")
		} else {
			fmt.Fprintf(&sb, "ret %s", p.typedRef(in.Operand(0)))
		}
	case op == OpUnreachable:
		sb.WriteString("unreachable")
	case op == OpCall:
		fmt.Fprintf(&sb, "call %s %s(", p.types.String(in.Type()), p.Ref(in.Operand(0)))
		for i := 1; i < in.NumOperands(); i++ {
			if i > 1 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.typedRef(in.Operand(i)))
		}
		sb.WriteString(")")
	case op.IsCast():
		fmt.Fprintf(&sb, "%s %s to %s",
			op, p.typedRef(in.Operand(0)), p.types.String(in.Type()))
	case op == OpLoad:
		sb.WriteString("load ")
		if in.Volatile() {
			sb.WriteString("volatile ")
		}
		fmt.Fprintf(&sb, "%s, %s", p.types.String(in.Type()), p.typedRef(in.Operand(0)))
	case op == OpStore:
		sb.WriteString("store ")
		if in.Volatile() {
			sb.WriteString("volatile ")
		}
		fmt.Fprintf(&sb, "%s, %s", p.typedRef(in.Operand(0)), p.typedRef(in.Operand(1)))
	case op == OpAlloca:
		fmt.Fprintf(&sb, "alloca %s", p.types.String(in.Allocated()))
	case op == OpPhi:
		fmt.Fprintf(&sb, "phi %s ", p.types.String(in.Type()))
		for i := 0; i < in.NumOperands(); i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "[ %s, %%%s ]", p.Ref(in.Operand(i)), in.IncomingBlock(i).Name())
		}
	default:
		fmt.Fprintf(&sb, "%s <%d operands>", op, in.NumOperands())
	}
	return sb.String()
}
