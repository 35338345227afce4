package lir

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// TypeID is a stable handle into a module's type interner.
type TypeID uint32

// NoTypeID marks an absent or invalid type.
const NoTypeID TypeID = 0

// TypeKind discriminates type descriptors.
type TypeKind uint8

const (
	// KindInvalid is the zero kind, reserved for the invalid sentinel.
	KindInvalid TypeKind = iota
	// KindVoid is the empty result type.
	KindVoid
	// KindInt is a fixed-width integer type.
	KindInt
	// KindPtr is an untyped pointer.
	KindPtr
	// KindLabel is the type of basic blocks.
	KindLabel
	// KindFunc is a function signature type.
	KindFunc
)

// Type is a structural type descriptor. Descriptors are interned; compare
// TypeIDs, not Types.
type Type struct {
	Kind   TypeKind
	Bits   uint16   // KindInt
	Result TypeID   // KindFunc
	Params []TypeID // KindFunc
}

// Builtins stores TypeIDs for the primitive types every module uses.
type Builtins struct {
	Void  TypeID
	I1    TypeID
	I8    TypeID
	I16   TypeID
	I32   TypeID
	I64   TypeID
	Ptr   TypeID
	Label TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
type Interner struct {
	types    []Type
	index    map[string]TypeID
	builtins Builtins
}

// NewInterner constructs an interner seeded with the built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[string]TypeID, 16),
	}
	in.types = append(in.types, Type{Kind: KindInvalid}) // reserve 0
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.I1 = in.Intern(Type{Kind: KindInt, Bits: 1})
	in.builtins.I8 = in.Intern(Type{Kind: KindInt, Bits: 8})
	in.builtins.I16 = in.Intern(Type{Kind: KindInt, Bits: 16})
	in.builtins.I32 = in.Intern(Type{Kind: KindInt, Bits: 32})
	in.builtins.I64 = in.Intern(Type{Kind: KindInt, Bits: 64})
	in.builtins.Ptr = in.Intern(Type{Kind: KindPtr})
	in.builtins.Label = in.Intern(Type{Kind: KindLabel})
	return in
}

// Builtins returns TypeIDs for the primitive types.
func (in *Interner) Builtins() Builtins { return in.builtins }

// Intern ensures the descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	raw, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Sprintf("lir: type table overflow: %v", err))
	}
	id := TypeID(raw)
	in.types = append(in.types, t)
	in.index[key] = id
	return id
}

// Func interns a function signature type.
func (in *Interner) Func(result TypeID, params []TypeID) TypeID {
	return in.Intern(Type{Kind: KindFunc, Result: result, Params: append([]TypeID(nil), params...)})
}

// Lookup returns the descriptor for id.
func (in *Interner) Lookup(id TypeID) Type {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{Kind: KindInvalid}
	}
	return in.types[id]
}

// String renders the type for the textual format.
func (in *Interner) String(id TypeID) string {
	t := in.Lookup(id)
	switch t.Kind {
	case KindVoid:
		return "void"
	case KindInt:
		return fmt.Sprintf("i%d", t.Bits)
	case KindPtr:
		return "ptr"
	case KindLabel:
		return "label"
	case KindFunc:
		var sb strings.Builder
		sb.WriteString(in.String(t.Result))
		sb.WriteString(" (")
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(in.String(p))
		}
		sb.WriteString(")")
		return sb.String()
	default:
		return "invalid"
	}
}

func typeKey(t Type) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d:%d:%d", t.Kind, t.Bits, t.Result)
	for _, p := range t.Params {
		fmt.Fprintf(&sb, ":%d", p)
	}
	return sb.String()
}
