package trace

import (
	"sync/atomic"
	"time"
)

// Scope indicates the granularity level of the event.
// Lower numeric values represent higher-level/coarser events.
type Scope uint8

const (
	// ScopeCheckpoint covers save/revert/accept transitions.
	ScopeCheckpoint Scope = iota + 1
	// ScopeGraph covers function and block materialization.
	ScopeGraph
	// ScopeMutation covers individual structural and operand edits.
	ScopeMutation
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeCheckpoint:
		return "checkpoint"
	case ScopeGraph:
		return "graph"
	case ScopeMutation:
		return "mutation"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time   time.Time // wall-clock timestamp
	Seq    uint64    // global sequence number (monotonic)
	Scope  Scope     // granularity level
	Name   string    // e.g. "save", "materialize", "insert"
	Detail string    // optional detail, e.g. the touched value
}

var seq atomic.Uint64

// NextSeq returns the next global event sequence number.
func NextSeq() uint64 { return seq.Add(1) }
