// Package trace appends one JSON object per line to a cache-directory trace
// log for JIT compiles and shadow-harness runs (SPEC_FULL.md §4.11), and
// answers gjson-path queries back over the accumulated log.
package trace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const fileName = "trace.jsonl"

// Tracer appends trace records to <CacheDir>/trace.jsonl.
type Tracer struct {
	CacheDir string

	mu sync.Mutex
}

// New creates a Tracer rooted at cacheDir.
func New(cacheDir string) *Tracer {
	return &Tracer{CacheDir: cacheDir}
}

// RecordCompile appends one record for a compile_function invocation
// (SPEC_FULL.md §4.11).
func (t *Tracer) RecordCompile(label string, duration time.Duration, success bool, compileErr error) error {
	rec := "{}"
	rec, _ = sjson.Set(rec, "kind", "compile")
	rec, _ = sjson.Set(rec, "label", label)
	rec, _ = sjson.Set(rec, "durationMs", duration.Milliseconds())
	rec, _ = sjson.Set(rec, "success", success)
	if compileErr != nil {
		rec, _ = sjson.Set(rec, "error", compileErr.Error())
	}
	return t.append(rec)
}

// RecordShadowRun appends one record for a shadow-harness dual execution
// (SPEC_FULL.md §4.11).
func (t *Tracer) RecordShadowRun(interpDuration, jitDuration time.Duration, matched bool, jitErr error) error {
	rec := "{}"
	rec, _ = sjson.Set(rec, "kind", "shadow_run")
	rec, _ = sjson.Set(rec, "interpDurationMs", interpDuration.Milliseconds())
	rec, _ = sjson.Set(rec, "jitDurationMs", jitDuration.Milliseconds())
	rec, _ = sjson.Set(rec, "matched", matched)
	if jitErr != nil {
		rec, _ = sjson.Set(rec, "jitError", jitErr.Error())
	}
	return t.append(rec)
}

// RecordReload appends one record for a JIT Engine reload.
func (t *Tracer) RecordReload(success bool, reloadErr error) error {
	rec := "{}"
	rec, _ = sjson.Set(rec, "kind", "reload")
	rec, _ = sjson.Set(rec, "success", success)
	if reloadErr != nil {
		rec, _ = sjson.Set(rec, "error", reloadErr.Error())
	}
	return t.append(rec)
}

func (t *Tracer) append(record string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := os.MkdirAll(t.CacheDir, 0o755); err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(t.CacheDir, fileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	defer f.Close()

	_, err = f.WriteString(record + "\n")
	return err
}

// Query reads every record under cacheDir and evaluates a gjson path
// against the array they form, e.g. "#(kind==\"shadow_run\")#.matched" or
// "#(kind==\"compile\")#.label" (`jil trace show`, SPEC_FULL.md §4.13).
func Query(cacheDir, path string) (gjson.Result, error) {
	data, err := os.ReadFile(filepath.Join(cacheDir, fileName))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("trace: %w", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	array := "[" + strings.Join(lines, ",") + "]"
	return gjson.Get(array, path), nil
}
