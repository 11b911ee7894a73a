package jit

import (
	"fmt"

	"github.com/ebitengine/purego"

	"github.com/jil-lang/jil/internal/errors"
	"github.com/jil-lang/jil/internal/runtime"
)

// maxThunkArgs is the six-integer-register limitation spec.md §4.5 calls
// out explicitly: "sets the foreign-call argument types to six 64-bit
// slots (limitation)".
const maxThunkArgs = 6

// Thunk implements runtime.JITThunk: it resolves its symbol lazily on each
// call (spec.md §4.5 JITThunk contract) so a reload always reaches the
// current shared object, invokes it via purego.SyscallN, and casts the
// 64-bit integer result into the declared return type.
type Thunk struct {
	Label      string
	ReturnType runtime.Type
	Engine     *Engine
}

// Call marshals args into integer registers, invokes the native symbol, and
// wraps the result. Any representation mismatch (more than six arguments, a
// non-integer argument, an unresolved symbol) is a "JIT value" error: the
// caller (Shadow Harness or the interpreter fallback path) is expected to
// fall back to interpretation (spec.md §4.6, §7).
func (t *Thunk) Call(args []runtime.Value) (runtime.Value, error) {
	if len(args) > maxThunkArgs {
		return nil, fmt.Errorf("%w: %d arguments exceeds the %d-register thunk limit", errors.ErrJITValue, len(args), maxThunkArgs)
	}

	handle := t.Engine.handleSnapshot()
	if handle == 0 {
		return nil, fmt.Errorf("%w: engine has no loaded shared object", errors.ErrJITValue)
	}

	sym, err := purego.Dlsym(handle, t.Label)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving symbol %q: %w", errors.ErrJITValue, t.Label, err)
	}

	callArgs := make([]uintptr, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case runtime.Int:
			callArgs[i] = uintptr(int64(v))
		case runtime.U64:
			callArgs[i] = uintptr(uint64(v))
		default:
			return nil, fmt.Errorf("%w: argument %d of type %s is not representable in a register", errors.ErrJITValue, i, a.Type().Name())
		}
	}

	r1, _, errno := purego.SyscallN(sym, callArgs...)
	if errno != 0 {
		return nil, fmt.Errorf("%w: native call failed: %s", errors.ErrJITValue, errno)
	}

	if _, ok := t.ReturnType.(runtime.NoReturnType); ok {
		return runtime.NoReturn{}, nil
	}
	return t.ReturnType.Cast(runtime.Int(int64(r1)))
}
