package lir

// Opcode enumerates instruction kinds in lir.
type Opcode uint8

const (
	// OpInvalid is the zero opcode.
	OpInvalid Opcode = iota

	// Integer binary operations.
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

	// Unary operations.
	OpNeg
	OpNot

	// OpICmp compares two integers under a predicate.
	OpICmp
	// OpSelect picks one of two values by an i1 condition.
	OpSelect

	// Terminators.
	OpBr
	OpRet
	OpUnreachable

	// OpCall calls a function value.
	OpCall

	// Casts.
	OpTrunc
	OpZExt
	OpSExt
	OpPtrToInt
	OpIntToPtr
	OpBitCast

	// Memory.
	OpLoad
	OpStore
	OpAlloca

	// OpPhi merges values from predecessor blocks.
	OpPhi
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
	OpAlloca:      "alloca",
	OpPhi:         "phi",
}

// String returns the textual mnemonic of the opcode.
func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return "invalid"
}

// IsBinary reports whether op is an integer binary operation.
func (op Opcode) IsBinary() bool { return op >= OpAdd && op <= OpAShr }

// IsUnary reports whether op is a unary operation.
func (op Opcode) IsUnary() bool { return op == OpNeg || op == OpNot }

// IsCast reports whether op is a cast.
func (op Opcode) IsCast() bool { return op >= OpTrunc && op <= OpBitCast }

// IsTerminator reports whether op ends a basic block.
func (op Opcode) IsTerminator() bool {
	return op == OpBr || op == OpRet || op == OpUnreachable
}

// CmpPred is an icmp predicate.
type CmpPred uint8

const (
	// PredInvalid is the zero predicate.
	PredInvalid CmpPred = iota
	// PredEq tests equality.
	PredEq
	// PredNe tests inequality.
	PredNe
	// PredSgt tests signed greater-than.
	PredSgt
	// PredSge tests signed greater-or-equal.
	PredSge
	// PredSlt tests signed less-than.
	PredSlt
	// PredSle tests signed less-or-equal.
	PredSle
	// PredUgt tests unsigned greater-than.
	PredUgt
	// PredUge tests unsigned greater-or-equal.
	PredUge
	// PredUlt tests unsigned less-than.
	PredUlt
	// PredUle tests unsigned less-or-equal.
	PredUle
)

var predNames = [...]string{
	PredInvalid: "invalid",
	PredEq:      "eq",
	PredNe:      "ne",
	PredSgt:     "sgt",
	PredSge:     "sge",
	PredSlt:     "slt",
	PredSle:     "sle",
	PredUgt:     "ugt",
	PredUge:     "uge",
	PredUlt:     "ult",
	PredUle:     "ule",
}

// String returns the textual form of the predicate.
func (p CmpPred) String() string {
	if int(p) < len(predNames) {
		return predNames[p]
	}
	return "invalid"
}

// ParseCmpPred converts textual form to a predicate.
func ParseCmpPred(s string) (CmpPred, bool) {
	for p, name := range predNames {
		if p != 0 && name == s {
			return CmpPred(p), true
		}
	}
	return PredInvalid, false
}

// ParseOpcode converts a mnemonic to an opcode.
func ParseOpcode(s string) (Opcode, bool) {
	for op, name := range opcodeNames {
		if op != 0 && name == s {
			return Opcode(op), true
		}
	}
	return OpInvalid, false
}
