package trace

import "fmt"

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff Level = iota // no tracing
	// LevelCheckpoint emits checkpoint transitions only.
	LevelCheckpoint
	// LevelGraph adds materialization events.
	LevelGraph
	// LevelMutation adds every structural and operand mutation.
	LevelMutation
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelCheckpoint:
		return "checkpoint"
	case LevelGraph:
		return "graph"
	case LevelMutation:
		return "mutation"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "off", "OFF":
		return LevelOff, nil
	case "checkpoint", "CHECKPOINT":
		return LevelCheckpoint, nil
	case "graph", "GRAPH":
		return LevelGraph, nil
	case "mutation", "MUTATION":
		return LevelMutation, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|checkpoint|graph|mutation)", s)
	}
}

// ShouldEmit returns true if the given scope should emit at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelOff:
		return false
	case LevelCheckpoint:
		return scope == ScopeCheckpoint
	case LevelGraph:
		return scope <= ScopeGraph
	case LevelMutation:
		return true
	}
	return false
}
