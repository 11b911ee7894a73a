// Package jit implements the per-function x86-64 JIT: the Emitter (spec.md
// §4.3), the Built-in Stencils (§4.4), and the Engine that accumulates
// emitted functions, invokes the system assembler/linker, and dynamically
// links the result (§4.5).
package jit

import (
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/ebitengine/purego"
	"github.com/go-logr/logr"

	"github.com/jil-lang/jil/internal/errors"
	"github.com/jil-lang/jil/internal/lexer"
	"github.com/jil-lang/jil/internal/runtime"
	"github.com/jil-lang/jil/internal/trace"
)

// noPos is used for Engine-level errors that have no single source
// location (they concern the accumulated build, not one AST node).
var noPos = lexer.Position{}

const (
	asmFileName = "jitted_functions.s"
	soFileName  = "jitted_functions.so"

	// Dlopen mode flags (Linux dlfcn.h values); purego does not export
	// named constants for these, so they are pinned here.
	rtldNow    = 0x00002
	rtldGlobal = 0x00100
)

// Engine owns the accumulated assembly text, the backing file, and the
// loaded shared object handle exclusively (spec.md §5): no other component
// may mutate them.
type Engine struct {
	CacheDir string
	Logger   logr.Logger
	Tracer   *trace.Tracer // nil disables trace recording

	mu         sync.Mutex
	labels     *labelCounter
	funcLabels map[*runtime.Function]string
	bodies     []string // accumulated per-function assembly, in emission order
	handle     uintptr  // 0 until the first successful reload
}

// NewEngine creates an Engine whose cache directory is cacheDir (created on
// first reload if absent). tracer may be nil to disable trace recording.
func NewEngine(cacheDir string, logger logr.Logger, tracer *trace.Tracer) *Engine {
	e := &Engine{
		CacheDir:   cacheDir,
		Logger:     logger,
		Tracer:     tracer,
		labels:     newLabelCounter(),
		funcLabels: make(map[*runtime.Function]string),
	}
	// Reserve func_0..func_(k-1) for the stencils so user function labels
	// never collide with them (spec.md §4.3).
	for range stencilOrder {
		e.labels.next("func")
	}
	return e
}

// Compile implements interp.Compiler: assign a fresh label, emit the
// function, reload the shared object, and attach a thunk on success
// (spec.md §4.5 compile_function).
func (e *Engine) Compile(fn *runtime.Function, env *runtime.Environment) error {
	start := time.Now()

	e.mu.Lock()
	label := e.labels.next("func")
	resolve := e.resolveCallee(fn, label)
	em := &emitter{label: label, selfFn: fn, env: env, labels: e.labels, resolve: resolve}
	e.mu.Unlock()

	body, err := em.emitFunction(fn)
	if err != nil {
		e.Logger.V(1).Info("JIT rejected function", "label", label, "reason", err)
		e.recordCompile(label, time.Since(start), false, err)
		return err
	}

	e.mu.Lock()
	e.bodies = append(e.bodies, body)
	e.funcLabels[fn] = label
	e.mu.Unlock()

	if err := e.reload(); err != nil {
		e.recordCompile(label, time.Since(start), false, err)
		return err
	}

	fn.SetJITThunk(&Thunk{Label: label, ReturnType: fn.ReturnType, Engine: e})
	e.recordCompile(label, time.Since(start), true, nil)
	return nil
}

func (e *Engine) recordCompile(label string, d time.Duration, ok bool, err error) {
	if e.Tracer != nil {
		e.Tracer.RecordCompile(label, d, ok, err)
	}
}

// resolveCallee builds the name-resolution closure an Emitter uses to turn
// a FunctionCall's callee name into an already-assigned label: self-calls
// resolve to the label just assigned (supporting straightforward
// recursion); any other callee must already have a JIT label, i.e. already
// be compiled.
func (e *Engine) resolveCallee(self *runtime.Function, selfLabel string) resolveCallee {
	return func(name string, env *runtime.Environment) (string, bool) {
		v, err := env.Get(name)
		if err != nil {
			return "", false
		}
		f, ok := v.(*runtime.Function)
		if !ok {
			return "", false
		}
		if f == self {
			return selfLabel, true
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		label, ok := e.funcLabels[f]
		return label, ok
	}
}

// reload writes the accumulated assembly to disk, invokes the system
// assembler/linker, and loads the resulting shared object (spec.md §4.5).
// A non-zero linker exit is fatal and includes its stderr in the error.
func (e *Engine) reload() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := os.MkdirAll(e.CacheDir, 0o755); err != nil {
		err = errors.Newf(errors.ErrJITBuildFailure, noPos, "creating cache dir: %s", err)
		e.recordReload(false, err)
		return err
	}

	asmPath := filepath.Join(e.CacheDir, asmFileName)
	soPath := filepath.Join(e.CacheDir, soFileName)

	var text string
	text += allStencilsText()
	for _, b := range e.bodies {
		text += b
	}

	if err := os.WriteFile(asmPath, []byte(text), 0o644); err != nil {
		err = errors.Newf(errors.ErrJITBuildFailure, noPos, "writing %s: %s", asmPath, err)
		e.recordReload(false, err)
		return err
	}

	cmd := exec.Command("gcc", "-shared", "-g", "-o", soPath, asmPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		err = errors.Newf(errors.ErrJITBuildFailure, noPos, "gcc failed: %s\n%s", err, out)
		e.recordReload(false, err)
		return err
	}

	// purego has no exported Dlclose; the previous handle (if any) is left
	// open and simply superseded. The process is expected to reload rarely
	// (once per newly JIT-eligible function), so this is an acceptable
	// leak for the lifetime of a single run.
	handle, err := purego.Dlopen(soPath, rtldNow|rtldGlobal)
	if err != nil {
		err = errors.Newf(errors.ErrJITBuildFailure, noPos, "dlopen %s: %s", soPath, err)
		e.recordReload(false, err)
		return err
	}
	e.handle = handle
	e.recordReload(true, nil)
	return nil
}

func (e *Engine) recordReload(ok bool, err error) {
	if e.Tracer != nil {
		e.Tracer.RecordReload(ok, err)
	}
}

func (e *Engine) handleSnapshot() uintptr {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handle
}
