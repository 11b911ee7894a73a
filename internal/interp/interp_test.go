package interp

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/jil-lang/jil/internal/parser"
	"github.com/jil-lang/jil/internal/runtime"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// whatever it wrote, since builtinPrint writes via fmt.Println directly.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %s", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func evalSource(t *testing.T, ip *Interpreter, src string) {
	t.Helper()
	p := parser.New(src, "test.jil")
	m, err := p.ParseModule()
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	env := NewGlobalEnvironment()
	if err := ip.EvalModule(m, env); err != nil {
		t.Fatalf("eval error: %s", err)
	}
}

// TestArithmeticScenario is spec.md §8 scenario 1.
func TestArithmeticScenario(t *testing.T) {
	ip := New(nil, nil)
	out := captureStdout(t, func() {
		evalSource(t, ip, "print(1 + 2 * 3)")
	})
	if out != "7\n" {
		t.Fatalf("expected %q, got %q", "7\n", out)
	}
}

// TestFunctionAndWhileScenario is spec.md §8 scenario 2.
func TestFunctionAndWhileScenario(t *testing.T) {
	ip := New(nil, nil)
	out := captureStdout(t, func() {
		evalSource(t, ip, `
			let sum: (int) -> int = fn(n: int) -> int {
				let s: int = 0
				while n > 0 {
					s = s + n
					n = n - 1
				}
				s
			}
			print(sum(10))
		`)
	})
	if out != "55\n" {
		t.Fatalf("expected %q, got %q", "55\n", out)
	}
}

// TestRecursionScenario is spec.md §8 scenario 3 (interpreter only).
func TestRecursionScenario(t *testing.T) {
	ip := New(nil, nil)
	out := captureStdout(t, func() {
		evalSource(t, ip, `
			let fact: (int) -> int = fn(n: int) -> int {
				if n <= 1 { 1 } else { n * fact(n - 1) }
			}
			print(fact(5))
		`)
	})
	if out != "120\n" {
		t.Fatalf("expected %q, got %q", "120\n", out)
	}
}

// TestComparisonStencilsScenario is spec.md §8 scenario 4.
func TestComparisonStencilsScenario(t *testing.T) {
	ip := New(nil, nil)
	out := captureStdout(t, func() {
		evalSource(t, ip, "print(3 < 5, 5 <= 5, 7 > 2, 2 != 2)")
	})
	if out != "1 1 1 0\n" {
		t.Fatalf("expected %q, got %q", "1 1 1 0\n", out)
	}
}

// TestNumberLiteralAcceptsFullUnsignedRange is spec.md §4.3: literals range
// over -2^63 < n < 2^64, so a literal past math.MaxInt64 (lexically valid
// per internal/lexer/lexer_test.go's TestIntegerLiterals) must still
// evaluate, as its raw bit pattern reinterpreted as Int, the same way the
// JIT emitter's strconv.ParseUint treats it.
func TestNumberLiteralAcceptsFullUnsignedRange(t *testing.T) {
	ip := New(nil, nil)
	out := captureStdout(t, func() {
		evalSource(t, ip, "print(18446744073709551615)")
	})
	if out != "-1\n" {
		t.Fatalf("expected the bit pattern reinterpreted as a signed Int (-1), got %q", out)
	}
}

// TestStructScenario is spec.md §8 scenario 5 (interpreter only).
func TestStructScenario(t *testing.T) {
	ip := New(nil, nil)
	out := captureStdout(t, func() {
		evalSource(t, ip, `
			let p: struct { x: int, y: int } = { x: 1, y: 2 }
			print(p.x + p.y)
		`)
	})
	if out != "3\n" {
		t.Fatalf("expected %q, got %q", "3\n", out)
	}
}

// fakeThunk is a handcrafted JITThunk returning a fixed value regardless of
// arguments, used to force a shadow divergence without going through the
// real assembler (internal/jit requires gcc).
type fakeThunk struct {
	result runtime.Value
	err    error
}

func (f *fakeThunk) Call(args []runtime.Value) (runtime.Value, error) {
	return f.result, f.err
}

// fakeCompiler attaches a pre-built thunk the first time Compile is called
// for a given function, then is a no-op (matching the real Engine's
// idempotence, spec.md §8 property 7).
type fakeCompiler struct {
	thunk runtime.JITThunk
}

func (c *fakeCompiler) Compile(fn *runtime.Function, env *runtime.Environment) error {
	if fn.JITThunk() == nil {
		fn.SetJITThunk(c.thunk)
	}
	return nil
}

// fakeShadow mimics the non-strict Shadow Harness: run both paths, log a
// divergence, return the JIT result (spec.md §4.6).
type fakeShadow struct {
	diverged bool
}

func (s *fakeShadow) Call(fn *runtime.Function, thunk runtime.JITThunk, args []runtime.Value, interpretPath func() (runtime.Value, error)) (runtime.Value, error) {
	jitVal, jitErr := thunk.Call(args)
	if jitErr != nil {
		return interpretPath()
	}
	interpVal, err := interpretPath()
	if err != nil {
		return nil, err
	}
	if interpVal.String() != jitVal.String() {
		s.diverged = true
	}
	return jitVal, nil
}

// TestShadowDivergenceScenario is spec.md §8 scenario 6: a thunk that
// disagrees with the interpreter still wins the call, and the divergence is
// observable to the harness.
func TestShadowDivergenceScenario(t *testing.T) {
	shadow := &fakeShadow{}
	ip := New(&fakeCompiler{thunk: &fakeThunk{result: runtime.Int(0)}}, shadow)

	p := parser.New(`
		let identity: (int) -> int = fn(n: int) -> int { 1 }
		identity(41)
	`, "test.jil")
	m, err := p.ParseModule()
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	env := NewGlobalEnvironment()
	if err := ip.EvalModule(m, env); err != nil {
		t.Fatalf("eval error: %s", err)
	}

	if !shadow.diverged {
		t.Fatalf("expected the shadow harness to observe a divergence")
	}
}

// TestCompileIdempotenceProperty is spec.md §8 property 7: compiling the
// same function twice must not replace an already-attached thunk.
func TestCompileIdempotenceProperty(t *testing.T) {
	first := &fakeThunk{result: runtime.Int(1)}
	second := &fakeThunk{result: runtime.Int(2)}
	fn := &runtime.Function{}

	fn.SetJITThunk(first)
	fn.SetJITThunk(second)

	if fn.JITThunk() != first {
		t.Fatalf("expected the first thunk to win and stay attached")
	}
}

// TestShadowFallbackOnThunkError is spec.md §8 property 8: a JIT value
// error falls back to the interpreter result when there is no Shadow
// harness configured.
func TestShadowFallbackOnThunkError(t *testing.T) {
	compiler := &fakeCompiler{thunk: &fakeThunk{err: errFakeThunk}}
	ip := New(compiler, nil)

	out := captureStdout(t, func() {
		evalSource(t, ip, `
			let answer: (int) -> int = fn(n: int) -> int { n + 1 }
			print(answer(41))
		`)
	})
	if out != "42\n" {
		t.Fatalf("expected fallback to the interpreter result 42, got %q", out)
	}
}

// TestArgumentBindingOrderProperty is spec.md §8 property 4: arguments bind
// to parameters positionally, by call order, not by name.
func TestArgumentBindingOrderProperty(t *testing.T) {
	ip := New(nil, nil)
	out := captureStdout(t, func() {
		evalSource(t, ip, `
			let sub: (int, int) -> int = fn(a: int, b: int) -> int { a - b }
			print(sub(10, 3))
		`)
	})
	if out != "7\n" {
		t.Fatalf("expected %q, got %q", "7\n", out)
	}
}

var errFakeThunk = &fakeError{"fake thunk value error"}

type fakeError struct{ msg string }

func (e *fakeError) Error() string { return e.msg }
