// Package driver loads textual IR files into overlay contexts and runs
// structural checks over them, optionally in parallel and backed by a
// disk cache keyed by file content.
package driver

import (
	"fmt"
	"os"

	"veneer/internal/lir"
	"veneer/internal/overlay"
	"veneer/internal/trace"
)

// Load reads and parses path and materializes every function into a
// fresh overlay context.
func Load(path string, tracer trace.Tracer) (*overlay.Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return LoadSource(path, string(data), tracer)
}

// LoadSource parses src and materializes every function into a fresh
// overlay context.
func LoadSource(name, src string, tracer trace.Tracer) (*overlay.Context, error) {
	m, err := lir.Parse(name, src)
	if err != nil {
		return nil, err
	}
	if tracer == nil {
		tracer = trace.Nop
	}
	ctx := overlay.NewContext(m, overlay.WithTracer(tracer))
	for _, f := range m.Functions() {
		ctx.CreateFunction(f)
	}
	return ctx, nil
}

// CheckResult is the verdict for one checked file.
type CheckResult struct {
	Path   string
	Funcs  int
	Blocks int
	Instrs int
	Err    string // parse or verification failure, "" when clean
	Cached bool   // verdict served from the disk cache
}

// OK reports whether the file checked clean.
func (r CheckResult) OK() bool { return r.Err == "" }

// CheckFile parses path, materializes it and verifies the structural
// invariants. Failures land in the result, not in an error: an error
// return means the check itself could not run.
func CheckFile(path string, tracer trace.Tracer) (CheckResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CheckResult{}, fmt.Errorf("read %s: %w", path, err)
	}
	res := checkSource(path, string(data), tracer)
	return res, nil
}

func checkSource(path, src string, tracer trace.Tracer) CheckResult {
	res := CheckResult{Path: path}
	ctx, err := LoadSource(path, src, tracer)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	if err := ctx.Verify(); err != nil {
		res.Err = err.Error()
	}
	m := ctx.Module()
	res.Funcs = len(m.Functions())
	for _, f := range m.Functions() {
		res.Blocks += len(f.Blocks())
		for _, b := range f.Blocks() {
			res.Instrs += b.Len()
		}
	}
	return res
}
