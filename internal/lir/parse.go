package lir

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse builds a module from its textual form. Errors carry 1-based line
// numbers. Blocks and values may be referenced before their definition
// anywhere inside the defining function.
func Parse(name, src string) (*Module, error) {
	p := &parser{m: NewModule(name)}
	if err := p.run(src); err != nil {
		return nil, err
	}
	return p.m, nil
}

type parser struct {
	m *Module
}

// operandRef is an unresolved operand token recorded in the first pass
// over a function body.
type operandRef struct {
	typ   TypeID // contextual type for integer literals
	tok   string
	label bool // block reference
	line  int
}

// instrForm is an instruction whose operands still need resolving.
type instrForm struct {
	in       *Instr
	ops      []operandRef
	incoming []string // phi incoming labels, parallel to ops
	line     int
}

type bodyLine struct {
	no   int
	toks []string
}

func (p *parser) run(src string) error {
	lines := strings.Split(src, "\n")
	type fnChunk struct {
		headerNo int
		header   []string
		body     []bodyLine
	}
	var chunks []fnChunk
	open := -1
	for i, raw := range lines {
		no := i + 1
		toks := lexLine(raw)
		if len(toks) == 0 {
			continue
		}
		switch {
		case toks[0] == "func":
			if open >= 0 {
				return fmt.Errorf("line %d: nested func", no)
			}
			if toks[len(toks)-1] != "{" {
				return fmt.Errorf("line %d: func header must end with '{'", no)
			}
			chunks = append(chunks, fnChunk{headerNo: no, header: toks[:len(toks)-1]})
			open = len(chunks) - 1
		case toks[0] == "}":
			if open < 0 {
				return fmt.Errorf("line %d: unmatched '}'", no)
			}
			open = -1
		case toks[0] == "module":
			if len(toks) == 2 {
				p.m.Name = strings.Trim(toks[1], `"`)
			}
		default:
			if open < 0 {
				return fmt.Errorf("line %d: statement outside function", no)
			}
			chunks[open].body = append(chunks[open].body, bodyLine{no: no, toks: toks})
		}
	}
	if open >= 0 {
		return fmt.Errorf("line %d: unterminated function", chunks[open].headerNo)
	}

	// Define every function shell first so call operands can reference
	// functions in any order.
	fns := make([]*Function, len(chunks))
	for i, ch := range chunks {
		f, err := p.parseHeader(ch.headerNo, ch.header)
		if err != nil {
			return err
		}
		fns[i] = f
	}
	for i, ch := range chunks {
		if err := p.parseBody(fns[i], ch.body); err != nil {
			return err
		}
	}
	return nil
}

// parseHeader handles `func @name(TYPE %p, ...) RESULT`.
func (p *parser) parseHeader(no int, toks []string) (*Function, error) {
	c := &cursor{no: no, toks: toks}
	c.next() // "func"
	nameTok := c.next()
	if !strings.HasPrefix(nameTok, "@") {
		return nil, c.errf("expected @name, got %q", nameTok)
	}
	if err := c.expect("("); err != nil {
		return nil, err
	}
	var params []TypeID
	var paramNames []string
	for c.peek() != ")" {
		if len(params) > 0 {
			if err := c.expect(","); err != nil {
				return nil, err
			}
		}
		pt, err := p.parseType(c)
		if err != nil {
			return nil, err
		}
		pn := c.next()
		if !strings.HasPrefix(pn, "%") {
			return nil, c.errf("expected %%param, got %q", pn)
		}
		params = append(params, pt)
		paramNames = append(paramNames, pn[1:])
	}
	c.next() // ")"
	result, err := p.parseType(c)
	if err != nil {
		return nil, err
	}
	return p.m.NewFunction(nameTok[1:], result, params, paramNames)
}

func (p *parser) parseBody(f *Function, body []bodyLine) error {
	values := make(map[string]Value, len(body)+f.NumArgs())
	for _, a := range f.Args() {
		values[a.Name()] = a
	}

	// Pass 1: create blocks and instruction shells, recording operand
	// tokens for the second pass. This lets phis and branches reference
	// blocks and values defined later in the function.
	var forms []*instrForm
	var blk *Block
	for _, ln := range body {
		if len(ln.toks) == 2 && ln.toks[1] == ":" {
			label := ln.toks[0]
			if f.Block(label) != nil {
				return fmt.Errorf("line %d: duplicate block label %q", ln.no, label)
			}
			blk = f.NewBlock(label)
			continue
		}
		if blk == nil {
			return fmt.Errorf("line %d: instruction before first block label", ln.no)
		}
		form, err := p.parseInstr(ln.no, ln.toks)
		if err != nil {
			return err
		}
		blk.Append(form.in)
		if rn := form.in.Name(); rn != "" {
			if _, dup := values[rn]; dup {
				return fmt.Errorf("line %d: duplicate value %%%s", ln.no, rn)
			}
			values[rn] = form.in
		}
		forms = append(forms, form)
	}

	// Pass 2: resolve operands.
	for _, form := range forms {
		for i, ref := range form.ops {
			v, err := p.resolve(f, values, ref)
			if err != nil {
				return err
			}
			if form.in.Op() == OpPhi {
				ib := f.Block(form.incoming[i])
				if ib == nil {
					return fmt.Errorf("line %d: unknown block %%%s", form.line, form.incoming[i])
				}
				form.in.AddIncoming(v, ib)
			} else {
				form.in.addOperand(v)
			}
		}
	}

	for _, b := range f.Blocks() {
		if b.Terminator() == nil {
			return fmt.Errorf("func @%s: block %%%s does not end in a terminator", f.Name(), b.Name())
		}
	}
	return nil
}

func (p *parser) parseInstr(no int, toks []string) (*instrForm, error) {
	c := &cursor{no: no, toks: toks}
	resName := ""
	if strings.HasPrefix(c.peek(), "%") {
		resName = c.next()[1:]
		if err := c.expect("="); err != nil {
			return nil, err
		}
	}
	mnem := c.next()
	form := &instrForm{line: no}
	bi := p.m.Types().Builtins()

	switch {
	case isBinaryMnemonic(mnem) || mnem == "neg" || mnem == "not":
		op, _ := ParseOpcode(mnem)
		typ, err := p.parseType(c)
		if err != nil {
			return nil, err
		}
		form.in = newInstr(op, typ, resName)
		n := 2
		if op.IsUnary() {
			n = 1
		}
		for i := 0; i < n; i++ {
			if i > 0 {
				if err := c.expect(","); err != nil {
					return nil, err
				}
			}
			form.ops = append(form.ops, operandRef{typ: typ, tok: c.next(), line: no})
		}

	case mnem == "icmp":
		pred, ok := ParseCmpPred(c.next())
		if !ok {
			return nil, c.errf("bad icmp predicate")
		}
		typ, err := p.parseType(c)
		if err != nil {
			return nil, err
		}
		form.in = newInstr(OpICmp, bi.I1, resName)
		form.in.pred = pred
		form.ops = append(form.ops, operandRef{typ: typ, tok: c.next(), line: no})
		if err := c.expect(","); err != nil {
			return nil, err
		}
		form.ops = append(form.ops, operandRef{typ: typ, tok: c.next(), line: no})

	case mnem == "select":
		var refs []operandRef
		for i := 0; i < 3; i++ {
			if i > 0 {
				if err := c.expect(","); err != nil {
					return nil, err
				}
			}
			typ, err := p.parseType(c)
			if err != nil {
				return nil, err
			}
			refs = append(refs, operandRef{typ: typ, tok: c.next(), line: no})
		}
		form.in = newInstr(OpSelect, refs[1].typ, resName)
		form.ops = refs

	case mnem == "br":
		form.in = newInstr(OpBr, bi.Void, resName)
		if c.peek() == "label" {
			c.next()
			form.ops = append(form.ops, operandRef{tok: c.next(), label: true, line: no})
		} else {
			typ, err := p.parseType(c)
			if err != nil {
				return nil, err
			}
			form.ops = append(form.ops, operandRef{typ: typ, tok: c.next(), line: no})
			for i := 0; i < 2; i++ {
				if err := c.expect(","); err != nil {
					return nil, err
				}
				if err := c.expect("label"); err != nil {
					return nil, err
				}
				form.ops = append(form.ops, operandRef{tok: c.next(), label: true, line: no})
			}
		}

	case mnem == "ret":
		form.in = newInstr(OpRet, bi.Void, resName)
		typ, err := p.parseType(c)
		if err != nil {
			return nil, err
		}
		if typ != bi.Void {
			form.ops = append(form.ops, operandRef{typ: typ, tok: c.next(), line: no})
		}

	case mnem == "unreachable":
		form.in = newInstr(OpUnreachable, bi.Void, resName)

	case mnem == "call":
		typ, err := p.parseType(c)
		if err != nil {
			return nil, err
		}
		form.in = newInstr(OpCall, typ, resName)
		form.ops = append(form.ops, operandRef{tok: c.next(), line: no})
		if err := c.expect("("); err != nil {
			return nil, err
		}
		for c.peek() != ")" {
			if len(form.ops) > 1 {
				if err := c.expect(","); err != nil {
					return nil, err
				}
			}
			at, err := p.parseType(c)
			if err != nil {
				return nil, err
			}
			form.ops = append(form.ops, operandRef{typ: at, tok: c.next(), line: no})
		}
		c.next() // ")"

	case isCastMnemonic(mnem):
		op, _ := ParseOpcode(mnem)
		srcTy, err := p.parseType(c)
		if err != nil {
			return nil, err
		}
		src := operandRef{typ: srcTy, tok: c.next(), line: no}
		if err := c.expect("to"); err != nil {
			return nil, err
		}
		dst, err := p.parseType(c)
		if err != nil {
			return nil, err
		}
		form.in = newInstr(op, dst, resName)
		form.ops = append(form.ops, src)

	case mnem == "load":
		volatile := false
		if c.peek() == "volatile" {
			volatile = true
			c.next()
		}
		typ, err := p.parseType(c)
		if err != nil {
			return nil, err
		}
		if err := c.expect(","); err != nil {
			return nil, err
		}
		pty, err := p.parseType(c)
		if err != nil {
			return nil, err
		}
		form.in = newInstr(OpLoad, typ, resName)
		form.in.volatile = volatile
		form.ops = append(form.ops, operandRef{typ: pty, tok: c.next(), line: no})

	case mnem == "store":
		volatile := false
		if c.peek() == "volatile" {
			volatile = true
			c.next()
		}
		form.in = newInstr(OpStore, bi.Void, resName)
		form.in.volatile = volatile
		for i := 0; i < 2; i++ {
			if i > 0 {
				if err := c.expect(","); err != nil {
					return nil, err
				}
			}
			typ, err := p.parseType(c)
			if err != nil {
				return nil, err
			}
			form.ops = append(form.ops, operandRef{typ: typ, tok: c.next(), line: no})
		}

	case mnem == "alloca":
		typ, err := p.parseType(c)
		if err != nil {
			return nil, err
		}
		form.in = newInstr(OpAlloca, bi.Ptr, resName)
		form.in.allocated = typ

	case mnem == "phi":
		typ, err := p.parseType(c)
		if err != nil {
			return nil, err
		}
		form.in = newInstr(OpPhi, typ, resName)
		first := true
		for c.peek() == "[" || (!first && c.peek() == ",") {
			if !first {
				if err := c.expect(","); err != nil {
					return nil, err
				}
			}
			first = false
			if err := c.expect("["); err != nil {
				return nil, err
			}
			form.ops = append(form.ops, operandRef{typ: typ, tok: c.next(), line: no})
			if err := c.expect(","); err != nil {
				return nil, err
			}
			lbl := c.next()
			if !strings.HasPrefix(lbl, "%") {
				return nil, c.errf("expected %%label in phi, got %q", lbl)
			}
			form.incoming = append(form.incoming, lbl[1:])
			if err := c.expect("]"); err != nil {
				return nil, err
			}
		}
		if len(form.ops) == 0 {
			return nil, c.errf("phi needs at least one incoming pair")
		}

	default:
		return nil, c.errf("unknown instruction %q", mnem)
	}

	if c.idx < len(c.toks) {
		return nil, c.errf("trailing tokens after instruction")
	}
	if resName != "" && form.in.Type() == bi.Void {
		return nil, fmt.Errorf("line %d: void instruction cannot have a result name", no)
	}
	return form, nil
}

func (p *parser) resolve(f *Function, values map[string]Value, ref operandRef) (Value, error) {
	tok := ref.tok
	switch {
	case ref.label:
		if !strings.HasPrefix(tok, "%") {
			return nil, fmt.Errorf("line %d: expected %%label, got %q", ref.line, tok)
		}
		b := f.Block(tok[1:])
		if b == nil {
			return nil, fmt.Errorf("line %d: unknown block %s", ref.line, tok)
		}
		return b, nil
	case strings.HasPrefix(tok, "%"):
		v, ok := values[tok[1:]]
		if !ok {
			return nil, fmt.Errorf("line %d: unknown value %s", ref.line, tok)
		}
		return v, nil
	case strings.HasPrefix(tok, "@"):
		fn := p.m.Function(tok[1:])
		if fn == nil {
			return nil, fmt.Errorf("line %d: unknown function %s", ref.line, tok)
		}
		return fn, nil
	default:
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad operand %q", ref.line, tok)
		}
		if ref.typ == NoTypeID || ref.typ == p.m.Types().Builtins().Void {
			return nil, fmt.Errorf("line %d: integer literal %q has no type", ref.line, tok)
		}
		return p.m.ConstInt(ref.typ, n), nil
	}
}

func (p *parser) parseType(c *cursor) (TypeID, error) {
	bi := p.m.Types().Builtins()
	tok := c.next()
	switch tok {
	case "void":
		return bi.Void, nil
	case "i1":
		return bi.I1, nil
	case "i8":
		return bi.I8, nil
	case "i16":
		return bi.I16, nil
	case "i32":
		return bi.I32, nil
	case "i64":
		return bi.I64, nil
	case "ptr":
		return bi.Ptr, nil
	case "label":
		return bi.Label, nil
	default:
		return NoTypeID, c.errf("unknown type %q", tok)
	}
}

type cursor struct {
	no   int
	toks []string
	idx  int
}

func (c *cursor) peek() string {
	if c.idx < len(c.toks) {
		return c.toks[c.idx]
	}
	return ""
}

func (c *cursor) next() string {
	t := c.peek()
	if c.idx < len(c.toks) {
		c.idx++
	}
	return t
}

func (c *cursor) expect(tok string) error {
	if got := c.next(); got != tok {
		return c.errf("expected %q, got %q", tok, got)
	}
	return nil
}

func (c *cursor) errf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", c.no, fmt.Sprintf(format, args...))
}

func isBinaryMnemonic(s string) bool {
	op, ok := ParseOpcode(s)
	return ok && op.IsBinary()
}

func isCastMnemonic(s string) bool {
	op, ok := ParseOpcode(s)
	return ok && op.IsCast()
}

// lexLine splits one source line into tokens, dropping ';' comments.
// Punctuation characters are standalone tokens.
func lexLine(line string) []string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range line {
		switch r {
		case ' ', '\t', '\r':
			flush()
		case '=', ',', '(', ')', '[', ']', '{', '}', ':':
			flush()
			toks = append(toks, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}
