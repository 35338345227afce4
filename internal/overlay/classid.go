package overlay

// ClassID discriminates the concrete overlay node types. It is fixed
// at construction and never changes.
type ClassID uint8

const (
	// ClassInvalid is the zero class.
	ClassInvalid ClassID = iota
	// ClassArgument is a formal parameter.
	ClassArgument
	// ClassConstant is an interned constant.
	ClassConstant
	// ClassFunction is a function definition.
	ClassFunction
	// ClassBlock is a basic block.
	ClassBlock
	// ClassBinary is an integer binary instruction.
	ClassBinary
	// ClassUnary is a neg/not instruction.
	ClassUnary
	// ClassCmp is an integer comparison.
	ClassCmp
	// ClassSelect is a two-way select.
	ClassSelect
	// ClassBranch is a conditional or unconditional branch.
	ClassBranch
	// ClassReturn is a return.
	ClassReturn
	// ClassUnreachable is an unreachable terminator.
	ClassUnreachable
	// ClassLoad is a memory load.
	ClassLoad
	// ClassStore is a memory store.
	ClassStore
	// ClassCall is a function call.
	ClassCall
	// ClassCast is a value cast.
	ClassCast
	// ClassPHI is a phi node.
	ClassPHI
	// ClassOpaque is the catch-all for lir instructions without a
	// dedicated overlay class.
	ClassOpaque
)

var classNames = [...]string{
	ClassInvalid:     "invalid",
	ClassArgument:    "argument",
	ClassConstant:    "constant",
	ClassFunction:    "function",
	ClassBlock:       "block",
	ClassBinary:      "binary",
	ClassUnary:       "unary",
	ClassCmp:         "cmp",
	ClassSelect:      "select",
	ClassBranch:      "branch",
	ClassReturn:      "return",
	ClassUnreachable: "unreachable",
	ClassLoad:        "load",
	ClassStore:       "store",
	ClassCall:        "call",
	ClassCast:        "cast",
	ClassPHI:         "phi",
	ClassOpaque:      "opaque",
}

// String returns the class name.
func (c ClassID) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "invalid"
}
