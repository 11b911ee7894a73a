package interp

import (
	"fmt"
	"strings"

	"github.com/jil-lang/jil/internal/runtime"
)

// NewGlobalEnvironment builds the process-wide built-in environment
// (spec.md §3 "Lifecycles"): the ASCII operator symbols bound to host
// callables, plus the u64/struct type constructors.
func NewGlobalEnvironment() *runtime.Environment {
	env := runtime.NewEnvironment()

	for name, op := range arithmeticOps {
		env.Declare(name, &runtime.Native{Name: name, Fn: op}, runtime.NativeType{})
	}
	for name, op := range comparisonOps {
		env.Declare(name, &runtime.Native{Name: name, Fn: op}, runtime.NativeType{})
	}
	env.Declare("print", &runtime.Native{Name: "print", Fn: builtinPrint}, runtime.NativeType{})
	env.Declare("u64", &runtime.Native{Name: "u64", Fn: builtinU64}, runtime.NativeType{})
	env.Declare("struct", &runtime.Native{Name: "struct", Fn: builtinStruct}, runtime.NativeType{})

	return env
}

func asInt64(v runtime.Value) (int64, error) {
	switch vv := v.(type) {
	case runtime.Int:
		return int64(vv), nil
	case runtime.U64:
		return int64(vv), nil
	default:
		return 0, fmt.Errorf("expected a numeric operand, got %s", v.Type().Name())
	}
}

// resultLike casts i back into a Value of the same variant as left, per
// spec.md §4.1's tie-break rule: "the result type is the type of the left
// operand".
func resultLike(left runtime.Value, i int64) runtime.Value {
	if _, ok := left.(runtime.U64); ok {
		return runtime.U64(uint64(i))
	}
	return runtime.Int(i)
}

func binaryArith(args []runtime.Value, combine func(a, b int64) (int64, error)) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("operator expects 2 arguments, got %d", len(args))
	}
	a, err := asInt64(args[0])
	if err != nil {
		return nil, err
	}
	b, err := asInt64(args[1])
	if err != nil {
		return nil, err
	}
	result, err := combine(a, b)
	if err != nil {
		return nil, err
	}
	return resultLike(args[0], result), nil
}

func binaryCompare(args []runtime.Value, cmp func(a, b int64) bool) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("operator expects 2 arguments, got %d", len(args))
	}
	a, err := asInt64(args[0])
	if err != nil {
		return nil, err
	}
	b, err := asInt64(args[1])
	if err != nil {
		return nil, err
	}
	if cmp(a, b) {
		return runtime.Int(1), nil
	}
	return runtime.Int(0), nil
}

var arithmeticOps = map[string]func(args []runtime.Value) (runtime.Value, error){
	"+": func(args []runtime.Value) (runtime.Value, error) {
		return binaryArith(args, func(a, b int64) (int64, error) { return a + b, nil })
	},
	"-": func(args []runtime.Value) (runtime.Value, error) {
		return binaryArith(args, func(a, b int64) (int64, error) { return a - b, nil })
	},
	"*": func(args []runtime.Value) (runtime.Value, error) {
		return binaryArith(args, func(a, b int64) (int64, error) { return a * b, nil })
	},
	"/": func(args []runtime.Value) (runtime.Value, error) {
		return binaryArith(args, func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			// Zero-extended unsigned division, matching the JIT's `/`
			// stencil (internal/jit/stencils.go's bare x86 `div`) bit for
			// bit, so a negative Int or high-bit U64 divides identically
			// in both paths.
			return int64(uint64(a) / uint64(b)), nil
		})
	},
}

var comparisonOps = map[string]func(args []runtime.Value) (runtime.Value, error){
	"<":  func(args []runtime.Value) (runtime.Value, error) { return binaryCompare(args, func(a, b int64) bool { return a < b }) },
	"<=": func(args []runtime.Value) (runtime.Value, error) { return binaryCompare(args, func(a, b int64) bool { return a <= b }) },
	">":  func(args []runtime.Value) (runtime.Value, error) { return binaryCompare(args, func(a, b int64) bool { return a > b }) },
	">=": func(args []runtime.Value) (runtime.Value, error) { return binaryCompare(args, func(a, b int64) bool { return a >= b }) },
	"==": func(args []runtime.Value) (runtime.Value, error) { return binaryCompare(args, func(a, b int64) bool { return a == b }) },
	"!=": func(args []runtime.Value) (runtime.Value, error) { return binaryCompare(args, func(a, b int64) bool { return a != b }) },
}

func builtinPrint(args []runtime.Value) (runtime.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	fmt.Println(strings.Join(parts, " "))
	return runtime.NoReturn{}, nil
}

func builtinU64(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("u64 expects 1 argument, got %d", len(args))
	}
	return runtime.U64Type{}.Cast(args[0])
}

// builtinStruct is bound for interface completeness with spec.md §4.1's
// list of type constructors, but struct values are always produced through
// the StructValue literal node (spec.md §6), never through a call — calling
// it directly is therefore always a "not implemented" error.
func builtinStruct(args []runtime.Value) (runtime.Value, error) {
	return nil, fmt.Errorf("struct() constructor is not implemented: use a struct literal")
}
