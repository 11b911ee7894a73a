// Package shadow implements the dual-execution cross-validation harness of
// spec.md §4.6: every JIT-eligible call runs both the interpreter and the
// compiled thunk, compares results, and falls back deterministically.
package shadow

import (
	"time"

	"github.com/go-logr/logr"

	"github.com/jil-lang/jil/internal/runtime"
	"github.com/jil-lang/jil/internal/trace"
)

// Harness runs the interpreter and a JIT thunk side by side for every call
// with an attached thunk (spec.md §4.6). Strict turns a divergence into a
// propagated error instead of a logged warning (spec.md §9's "stricter
// mode... recommended for tests").
type Harness struct {
	Logger logr.Logger
	Tracer *trace.Tracer // nil disables trace recording
	Strict bool
}

// New creates a Harness.
func New(logger logr.Logger, tracer *trace.Tracer, strict bool) *Harness {
	return &Harness{Logger: logger, Tracer: tracer, Strict: strict}
}

// Call implements interp.Shadow (spec.md §4.6 steps 1-4):
//  1. run the interpreter path, measuring time,
//  2. invoke the thunk, measuring time,
//  3. on a JIT value error, log and return the interpreter result,
//  4. otherwise, on a value mismatch, report a divergence but still return
//     the thunk's result — unless Strict is set, in which case the
//     divergence is propagated as an error.
func (h *Harness) Call(fn *runtime.Function, thunk runtime.JITThunk, args []runtime.Value, interpretPath func() (runtime.Value, error)) (runtime.Value, error) {
	interpStart := time.Now()
	interpResult, interpErr := interpretPath()
	interpDuration := time.Since(interpStart)
	if interpErr != nil {
		return nil, interpErr
	}

	jitStart := time.Now()
	jitResult, jitErr := thunk.Call(args)
	jitDuration := time.Since(jitStart)

	if h.Tracer != nil {
		h.Tracer.RecordShadowRun(interpDuration, jitDuration, jitErr == nil && !diverges(interpResult, jitResult), jitErr)
	}

	if jitErr != nil {
		h.Logger.V(1).Info("JIT thunk raised a value error, falling back to interpreter", "error", jitErr)
		return interpResult, nil
	}

	if diverges(interpResult, jitResult) {
		if h.Strict {
			return nil, &DivergenceError{Interp: interpResult, JIT: jitResult}
		}
		h.Logger.Info("shadow execution divergence", "interpreter", interpResult.String(), "jit", jitResult.String())
		return jitResult, nil
	}

	return jitResult, nil
}

func diverges(a, b runtime.Value) bool {
	return a.String() != b.String()
}

// DivergenceError is returned instead of a logged warning when Strict is
// set and the interpreter and JIT results disagree.
type DivergenceError struct {
	Interp runtime.Value
	JIT    runtime.Value
}

func (e *DivergenceError) Error() string {
	return "shadow execution divergence: interpreter=" + e.Interp.String() + " jit=" + e.JIT.String()
}
