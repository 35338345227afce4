// Package trace provides a tracing subsystem for the overlay graph.
//
// Tracing answers "what did this pass do to the graph": every
// materialization, structural mutation and checkpoint transition can be
// emitted as an event. The overlay context holds a Tracer and emits
// through it; with the nop tracer the cost is a single branch.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	veneer check --trace=- --trace-level=mutation myfile.vir
//
// # Levels
//
// Tracing verbosity is controlled by levels:
//
//   - LevelOff: no tracing
//   - LevelCheckpoint: save/revert/accept transitions only
//   - LevelGraph: plus function and block materialization
//   - LevelMutation: plus every structural and operand mutation
//
// # Implementations
//
//   - Nop: zero-overhead singleton used when tracing is disabled
//   - StreamTracer: one line per event to an io.Writer
package trace
