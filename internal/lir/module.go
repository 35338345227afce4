package lir

import "fmt"

type constKey struct {
	typ TypeID
	val int64
}

// Module owns functions, interned constants and the type interner.
type Module struct {
	Name string

	types      *Interner
	funcs      []*Function
	funcByName map[string]*Function
	consts     map[constKey]*ConstInt
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{
		Name:       name,
		types:      NewInterner(),
		funcByName: make(map[string]*Function),
		consts:     make(map[constKey]*ConstInt),
	}
}

// Types returns the module's type interner.
func (m *Module) Types() *Interner { return m.types }

// Functions returns the module's functions in definition order.
func (m *Module) Functions() []*Function { return m.funcs }

// Function returns the function named name, or nil.
func (m *Module) Function(name string) *Function { return m.funcByName[name] }

// NewFunction defines a function with the given result and parameter
// types. Parameter names may be empty.
func (m *Module) NewFunction(name string, result TypeID, params []TypeID, paramNames []string) (*Function, error) {
	if _, ok := m.funcByName[name]; ok {
		return nil, fmt.Errorf("lir: duplicate function @%s", name)
	}
	f := &Function{module: m}
	f.typ = m.types.Func(result, params)
	f.name = name
	for i, pt := range params {
		a := &Argument{parent: f, index: i}
		a.typ = pt
		if i < len(paramNames) {
			a.name = paramNames[i]
		}
		f.args = append(f.args, a)
	}
	m.funcs = append(m.funcs, f)
	m.funcByName[name] = f
	return f, nil
}

// ConstInt returns the canonical constant of the given type and value.
func (m *Module) ConstInt(typ TypeID, val int64) *ConstInt {
	key := constKey{typ, val}
	if c, ok := m.consts[key]; ok {
		return c
	}
	c := &ConstInt{value: val}
	c.typ = typ
	m.consts[key] = c
	return c
}
