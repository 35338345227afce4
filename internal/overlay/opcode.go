package overlay

import "veneer/internal/lir"

// Opcode enumerates overlay instruction kinds. It is a superset of the
// lir opcode set: OpOpaque is synthetic and covers every lir opcode
// without a dedicated overlay class.
type Opcode uint8

const (
	// OpInvalid is the zero opcode.
	OpInvalid Opcode = iota

	OpAdd
	OpSub
	OpMul
	OpSDiv
	OpUDiv
	OpSRem
	OpURem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpLShr
	OpAShr

	OpNeg
	OpNot

	OpICmp
	OpSelect

	OpBr
	OpRet
	OpUnreachable

	OpCall

	OpTrunc
	OpZExt
	OpSExt
	OpPtrToInt
	OpIntToPtr
	OpBitCast

	OpLoad
	OpStore

	OpPhi

	// OpOpaque marks an instruction the overlay exposes without
	// class-specific accessors.
	OpOpaque
)

var opcodeNames = [...]string{
	OpInvalid:     "invalid",
	OpAdd:         "add",
	OpSub:         "sub",
	OpMul:         "mul",
	OpSDiv:        "sdiv",
	OpUDiv:        "udiv",
	OpSRem:        "srem",
	OpURem:        "urem",
	OpAnd:         "and",
	OpOr:          "or",
	OpXor:         "xor",
	OpShl:         "shl",
	OpLShr:        "lshr",
	OpAShr:        "ashr",
	OpNeg:         "neg",
	OpNot:         "not",
	OpICmp:        "icmp",
	OpSelect:      "select",
	OpBr:          "br",
	OpRet:         "ret",
	OpUnreachable: "unreachable",
	OpCall:        "call",
	OpTrunc:       "trunc",
	OpZExt:        "zext",
	OpSExt:        "sext",
	OpPtrToInt:    "ptrtoint",
	OpIntToPtr:    "inttoptr",
	OpBitCast:     "bitcast",
	OpLoad:        "load",
	OpStore:       "store",
	OpPhi:         "phi",
	OpOpaque:      "opaque",
}

// String returns the opcode mnemonic.
func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return "invalid"
}

var fromLIR = map[lir.Opcode]Opcode{
	lir.OpAdd:         OpAdd,
	lir.OpSub:         OpSub,
	lir.OpMul:         OpMul,
	lir.OpSDiv:        OpSDiv,
	lir.OpUDiv:        OpUDiv,
	lir.OpSRem:        OpSRem,
	lir.OpURem:        OpURem,
	lir.OpAnd:         OpAnd,
	lir.OpOr:          OpOr,
	lir.OpXor:         OpXor,
	lir.OpShl:         OpShl,
	lir.OpLShr:        OpLShr,
	lir.OpAShr:        OpAShr,
	lir.OpNeg:         OpNeg,
	lir.OpNot:         OpNot,
	lir.OpICmp:        OpICmp,
	lir.OpSelect:      OpSelect,
	lir.OpBr:          OpBr,
	lir.OpRet:         OpRet,
	lir.OpUnreachable: OpUnreachable,
	lir.OpCall:        OpCall,
	lir.OpTrunc:       OpTrunc,
	lir.OpZExt:        OpZExt,
	lir.OpSExt:        OpSExt,
	lir.OpPtrToInt:    OpPtrToInt,
	lir.OpIntToPtr:    OpIntToPtr,
	lir.OpBitCast:     OpBitCast,
	lir.OpLoad:        OpLoad,
	lir.OpStore:       OpStore,
	lir.OpPhi:         OpPhi,
}

var toLIR = map[Opcode]lir.Opcode{}

func init() {
	for l, o := range fromLIR {
		toLIR[o] = l
	}
}

// classify maps a lir opcode to the overlay opcode and node class.
// Opcodes without a dedicated class (alloca, anything future) come
// back as OpOpaque/ClassOpaque.
func classify(op lir.Opcode) (Opcode, ClassID) {
	o, ok := fromLIR[op]
	if !ok {
		return OpOpaque, ClassOpaque
	}
	switch {
	case op.IsBinary():
		return o, ClassBinary
	case op.IsUnary():
		return o, ClassUnary
	case op.IsCast():
		return o, ClassCast
	}
	switch op {
	case lir.OpICmp:
		return o, ClassCmp
	case lir.OpSelect:
		return o, ClassSelect
	case lir.OpBr:
		return o, ClassBranch
	case lir.OpRet:
		return o, ClassReturn
	case lir.OpUnreachable:
		return o, ClassUnreachable
	case lir.OpCall:
		return o, ClassCall
	case lir.OpLoad:
		return o, ClassLoad
	case lir.OpStore:
		return o, ClassStore
	case lir.OpPhi:
		return o, ClassPHI
	}
	return OpOpaque, ClassOpaque
}

// lirOpcode maps an overlay opcode back to lir, false for synthetic
// opcodes.
func lirOpcode(op Opcode) (lir.Opcode, bool) {
	l, ok := toLIR[op]
	return l, ok
}
