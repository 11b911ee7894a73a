package interp

import (
	stderrors "errors"
	"fmt"

	"github.com/jil-lang/jil/internal/errors"
	"github.com/jil-lang/jil/internal/runtime"
)

// callValue dispatches a call to either a host Native or a user Function
// (spec.md §4.1: "resolve the callee by name in env, dispatch").
func (ip *Interpreter) callValue(callee runtime.Value, args []runtime.Value, callSiteEnv *runtime.Environment) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.Native:
		return fn.Fn(args)
	case *runtime.Function:
		return ip.callFunction(fn, args, callSiteEnv)
	default:
		return nil, fmt.Errorf("value of type %s is not callable", callee.Type().Name())
	}
}

// callFunction is interpret_func_call (spec.md §4.1, §4.5-§4.6): every call
// made while the function has no thunk attached offers it to the Compiler
// (a rejected function is offered again on its next call); once a thunk is
// attached, calls go through the Shadow harness (or the thunk alone, or the
// interpreter alone, depending on configuration).
func (ip *Interpreter) callFunction(fn *runtime.Function, args []runtime.Value, callSiteEnv *runtime.Environment) (runtime.Value, error) {
	interpretPath := func() (runtime.Value, error) {
		return ip.runFunctionBody(fn, args, callSiteEnv)
	}

	if ip.Compiler == nil {
		return interpretPath()
	}

	if fn.JITThunk() == nil {
		// A rejected compile is non-fatal (spec.md §4.3 "not implemented"
		// construct policy): the interpreter path remains authoritative.
		// A JIT build failure (assembler/linker, cache dir, dlopen) is fatal.
		if err := ip.Compiler.Compile(fn, callSiteEnv); err != nil && stderrors.Is(err, errors.ErrJITBuildFailure) {
			return nil, err
		}
	}

	thunk := fn.JITThunk()
	if thunk == nil {
		return interpretPath()
	}

	if ip.Shadow != nil {
		return ip.Shadow.Call(fn, thunk, args, interpretPath)
	}

	v, err := thunk.Call(args)
	if err != nil {
		return interpretPath()
	}
	return v, nil
}

// runFunctionBody binds args into a fresh Environment and evaluates the
// body. Per the original source's interpret_func_call, the new frame's
// parent is the *call site's* environment, not the function's declaration
// environment — functions are not closures (spec.md §1 Non-goals); only the
// global built-in environment is guaranteed reachable from every call
// chain's root.
func (ip *Interpreter) runFunctionBody(fn *runtime.Function, args []runtime.Value, callSiteEnv *runtime.Environment) (runtime.Value, error) {
	if len(args) != len(fn.Args) {
		return nil, fmt.Errorf("function expects %d arguments, got %d", len(fn.Args), len(args))
	}

	newEnv := callSiteEnv.NewChild()
	for i, a := range fn.Args {
		cast, err := a.Type.Cast(args[i])
		if err != nil {
			return nil, errors.Newf(errors.ErrTypeCast, fn.Body.Pos(), "argument %q: %s", a.Name, err)
		}
		newEnv.Declare(a.Name, cast, a.Type)
	}

	result, err := ip.EvalBlock(fn.Body, newEnv)
	if err != nil {
		return nil, err
	}

	if _, ok := fn.ReturnType.(runtime.NoReturnType); ok {
		return runtime.NoReturn{}, nil
	}
	return fn.ReturnType.Cast(result)
}
