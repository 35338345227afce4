package overlay

import (
	"fmt"
	"strings"

	"veneer/internal/lir"
)

// render produces the diagnostic form of an overlay node: the lir
// textual rendering plus the node's overlay id.
func (c *Context) render(v Value) string {
	p := lir.NewPrinter(c.mod)
	switch n := v.(type) {
	case Instruction:
		span := n.UnderlyingInstrs()
		return fmt.Sprintf("%s ; #%d", p.Instr(span[len(span)-1]), n.ID())
	case *BasicBlock:
		return fmt.Sprintf("%s: ; #%d", n.Name(), n.ID())
	case *Function:
		return fmt.Sprintf("@%s ; #%d", n.Name(), n.ID())
	case *Argument:
		return fmt.Sprintf("%%%s ; #%d", n.Name(), n.ID())
	case *Constant:
		return fmt.Sprintf("%s ; #%d", p.Ref(n.Underlying()), n.ID())
	default:
		return fmt.Sprintf("<%s> ; #%d", v.Class(), v.ID())
	}
}

// DumpFunction renders a whole function through the overlay view, one
// instruction per line with overlay ids.
func (c *Context) DumpFunction(f *Function) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s {\n", f.String())
	for _, b := range f.Blocks() {
		fmt.Fprintf(&sb, "%s\n", b.String())
		for it := b.Begin(); !it.Done(); it = it.Next() {
			fmt.Fprintf(&sb, "  %s\n", it.Get().String())
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}
