package jit

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestStencilAssemblySnapshot pins the generated stencil text so a change to
// spec.md §4.4's fixed assembly bodies is visible in a diff instead of
// silently drifting.
func TestStencilAssemblySnapshot(t *testing.T) {
	snaps.MatchSnapshot(t, allStencilsText())
}

// TestEmittedFunctionAssemblySnapshot pins a representative function's
// generated assembly (arithmetic, a conditional and a self-recursive call)
// against spec.md §4.3's lowering rules.
func TestEmittedFunctionAssemblySnapshot(t *testing.T) {
	fn, env := parseFunction(t, `let f: (int) -> int = fn(n: int) -> int {
		if n <= 1 { 1 } else { n * f(n - 1) }
	}`)
	em := newTestEmitter(env, fn, "func_10")

	body, err := em.emitFunction(fn)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	snaps.MatchSnapshot(t, body)
}
