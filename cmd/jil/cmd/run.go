package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	jilerrors "github.com/jil-lang/jil/internal/errors"
	"github.com/jil-lang/jil/internal/interp"
	"github.com/jil-lang/jil/internal/jit"
	"github.com/jil-lang/jil/internal/parser"
	"github.com/jil-lang/jil/internal/shadow"
	"github.com/jil-lang/jil/internal/trace"
)

var (
	grammarPath string
	jitEnabled  bool
	noJIT       bool
	noShadow    bool
	strictMode  bool
	dumpAST     bool
	configPath  string
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a jil source file",
	Long: `Run executes a jil program: parse, then interpret, JIT-compiling each
user function on first call and shadow-validating it on every call after
(spec.md §4.6) unless disabled.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&grammarPath, "grammar", "", "grammar file path (accepted for interface compatibility; unused)")
	runCmd.Flags().BoolVar(&jitEnabled, "jit", true, "enable the JIT")
	runCmd.Flags().BoolVar(&noJIT, "no-jit", false, "disable the JIT (overrides --jit and config)")
	runCmd.Flags().BoolVar(&noShadow, "no-shadow", false, "disable shadow execution (thunk alone is authoritative once compiled)")
	runCmd.Flags().BoolVar(&strictMode, "strict", false, "treat a shadow divergence as a fatal error")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST before running")
	runCmd.Flags().StringVar(&configPath, "config", "", "path to .jilrc.yaml")
}

func runScript(cmd *cobra.Command, args []string) error {
	filename := args[0]
	source, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}

	cfg, logger, err := resolveConfig(filename)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	p := parser.New(string(source), filename)
	module, err := p.ParseModule()
	if err != nil {
		printDiagnostic(err)
		return fmt.Errorf("parsing %s failed", filename)
	}

	if dumpAST {
		fmt.Println(module.String())
	}

	env := interp.NewGlobalEnvironment()

	var compiler interp.Compiler
	var shadowHarness interp.Shadow
	if cfg.JIT {
		tracer := trace.New(cfg.CacheDir)
		engine := jit.NewEngine(cfg.CacheDir, logger, tracer)
		compiler = engine
		if cfg.Shadow {
			shadowHarness = shadow.New(logger, tracer, cfg.Strict)
		}
	}

	ip := interp.New(compiler, shadowHarness)
	if err := ip.EvalModule(module, env); err != nil {
		printDiagnostic(err)
		return fmt.Errorf("execution of %s failed", filename)
	}

	return nil
}

func printDiagnostic(err error) {
	if ce, ok := err.(*jilerrors.CompilerError); ok {
		fmt.Fprintln(os.Stderr, ce.Format(true))
		return
	}
	if re, ok := err.(*jilerrors.RuntimeError); ok {
		fmt.Fprintln(os.Stderr, re.Error())
		return
	}
	fmt.Fprintln(os.Stderr, err.Error())
}
