// Command jil is the CLI entry point: run, compile, trace show, version
// (SPEC_FULL.md §4.13).
package main

import (
	"fmt"
	"os"

	"github.com/jil-lang/jil/cmd/jil/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
