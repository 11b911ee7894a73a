package interp

import (
	"testing"

	"github.com/jil-lang/jil/internal/runtime"
)

func TestArithmeticOpsResultTypeFollowsLeftOperand(t *testing.T) {
	v, err := arithmeticOps["+"]([]runtime.Value{runtime.U64(3), runtime.Int(4)})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, ok := v.(runtime.U64); !ok {
		t.Fatalf("expected U64 result (left operand's type), got %T", v)
	}
	if v != runtime.U64(7) {
		t.Fatalf("expected 7, got %v", v)
	}
}

func TestArithmeticDivisionByZero(t *testing.T) {
	if _, err := arithmeticOps["/"]([]runtime.Value{runtime.Int(1), runtime.Int(0)}); err == nil {
		t.Fatalf("expected an error dividing by zero")
	}
}

// TestArithmeticDivisionMatchesJITUnsignedStencil pins the interpreter's `/`
// to the same zero-extended unsigned division the JIT's bare x86 `div`
// stencil performs (internal/jit/stencils.go), so spec.md §8 Testable
// Property 1 (interpreter/JIT result equality) holds for negative operands
// too.
func TestArithmeticDivisionMatchesJITUnsignedStencil(t *testing.T) {
	// -10 / 3 as signed division is -3; as the stencil's unsigned division
	// it is uint64(-10)/3, truncated back into an Int.
	v, err := arithmeticOps["/"]([]runtime.Value{runtime.Int(-10), runtime.Int(3)})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := runtime.Int(int64((^uint64(0) - 9) / 3)) // ^uint64(0)-9 is uint64(-10)
	if v != want {
		t.Fatalf("expected %v (unsigned division, matching the JIT stencil), got %v", want, v)
	}
}

func TestComparisonOpsReturnIntBoolLikeValues(t *testing.T) {
	tests := []struct {
		op   string
		a, b int64
		want runtime.Int
	}{
		{"<", 3, 5, 1},
		{"<=", 5, 5, 1},
		{">", 7, 2, 1},
		{">=", 2, 3, 0},
		{"==", 4, 4, 1},
		{"!=", 2, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			v, err := comparisonOps[tt.op]([]runtime.Value{runtime.Int(tt.a), runtime.Int(tt.b)})
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if v != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, v)
			}
		})
	}
}

func TestBinaryArithWrongArgCount(t *testing.T) {
	if _, err := arithmeticOps["+"]([]runtime.Value{runtime.Int(1)}); err == nil {
		t.Fatalf("expected an error for a wrong argument count")
	}
}

func TestAsInt64RejectsNonNumeric(t *testing.T) {
	if _, err := asInt64(runtime.NoReturn{}); err == nil {
		t.Fatalf("expected an error for a non-numeric operand")
	}
}

func TestBuiltinU64CastsModularly(t *testing.T) {
	v, err := builtinU64([]runtime.Value{runtime.Int(-1)})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if v != runtime.U64(^uint64(0)) {
		t.Fatalf("expected modular wraparound, got %v", v)
	}
}

func TestBuiltinStructIsNotImplemented(t *testing.T) {
	if _, err := builtinStruct(nil); err == nil {
		t.Fatalf("expected struct() to always be rejected in favor of struct literals")
	}
}

func TestNewGlobalEnvironmentBindsAllOperatorsAndBuiltins(t *testing.T) {
	env := NewGlobalEnvironment()
	for _, name := range []string{"+", "-", "*", "/", "<", "<=", ">", ">=", "==", "!=", "print", "u64", "struct"} {
		if _, err := env.Get(name); err != nil {
			t.Fatalf("expected %q to be bound in the global environment: %s", name, err)
		}
	}
}
