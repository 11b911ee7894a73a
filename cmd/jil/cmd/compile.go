package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jil-lang/jil/internal/ast"
	"github.com/jil-lang/jil/internal/interp"
	"github.com/jil-lang/jil/internal/jit"
	"github.com/jil-lang/jil/internal/parser"
	"github.com/jil-lang/jil/internal/runtime"
	"github.com/jil-lang/jil/internal/trace"
)

var compileCmd = &cobra.Command{
	Use:   "compile <file>",
	Short: "Eagerly JIT-compile every top-level function without running the module",
	Long: `Compile parses a jil source file, binds its top-level function
declarations into the global environment, and attempts to JIT-compile each
one (spec.md §4.5), reporting accept/reject per function. It never
evaluates a statement.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVar(&configPath, "config", "", "path to .jilrc.yaml")
}

func runCompile(cmd *cobra.Command, args []string) error {
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

	env := interp.NewGlobalEnvironment()
	tracer := trace.New(cfg.CacheDir)
	engine := jit.NewEngine(cfg.CacheDir, logger, tracer)

	var accepted, rejected int
	for _, stmt := range module.Body.Statements {
		vd, ok := stmt.(*ast.VarDeclaration)
		if !ok {
			continue
		}
		fnLit, ok := vd.Value.(*ast.FunctionDeclare)
		if !ok {
			continue
		}

		fnVal, err := bindTopLevelFunction(env, vd.Name.Value, fnLit)
		if err != nil {
			fmt.Printf("%-20s REJECTED (bind): %s\n", vd.Name.Value, err)
			rejected++
			continue
		}

		if err := engine.Compile(fnVal, env); err != nil {
			fmt.Printf("%-20s REJECTED: %s\n", vd.Name.Value, err)
			rejected++
			continue
		}
		fmt.Printf("%-20s accepted\n", vd.Name.Value)
		accepted++
	}

	fmt.Printf("\n%d accepted, %d rejected\n", accepted, rejected)
	return nil
}

// bindTopLevelFunction evaluates a function literal into a *runtime.Function
// and declares it in env under name. Unlike EvalStatement on a
// `let name: T = fn(...) -> R {...}` declaration, it types the binding with
// the function value's own FunctionType rather than the declared type T.
func bindTopLevelFunction(env *runtime.Environment, name string, lit *ast.FunctionDeclare) (*runtime.Function, error) {
	ip := interp.New(nil, nil)
	val, err := ip.EvalExpression(lit, env)
	if err != nil {
		return nil, err
	}
	fn, ok := val.(*runtime.Function)
	if !ok {
		return nil, fmt.Errorf("%s did not evaluate to a function", name)
	}
	argTypes := make([]runtime.Type, len(fn.Args))
	for i, a := range fn.Args {
		argTypes[i] = a.Type
	}
	env.Declare(name, fn, &runtime.FunctionType{Args: argTypes, Return: fn.ReturnType})
	return fn, nil
}
