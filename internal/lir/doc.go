// Package lir implements the low-level IR that the overlay mirrors.
//
// lir owns the real graph: every operand relationship is a *Use edge
// linked into the referenced value's use list, and every instruction is
// linked into its block's intrusive list. The overlay package never
// duplicates this state; it projects onto it and mutates through the
// primitives exposed here (SetOperand, InsertBefore, RemoveFromParent,
// Destroy, ReplaceAllUsesWith).
//
// The package also ships a textual format (see print.go and parse.go)
// used by the CLI and test fixtures.
package lir
