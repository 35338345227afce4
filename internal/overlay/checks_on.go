//go:build veneer_checks

package overlay

const debugChecks = true
