// Package jlog wires a logr.Logger for the interpreter, JIT engine and
// shadow harness, so every component logs through one leveled interface
// instead of ad hoc fmt.Fprintf(os.Stderr, ...) calls (SPEC_FULL.md §4.12).
package jlog

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// New builds a funcr-backed text Logger. verbosity raises the V-level
// threshold (jil's `-v`/`--verbose` CLI flag, SPEC_FULL.md §4.13).
func New(verbosity int) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			os.Stderr.WriteString(prefix + ": " + args + "\n")
		} else {
			os.Stderr.WriteString(args + "\n")
		}
	}, funcr.Options{
		LogCaller:       funcr.None,
		Verbosity:       verbosity,
		LogTimestamp:    true,
		TimestampFormat: "15:04:05",
	})
}
