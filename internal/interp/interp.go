// Package interp implements the tree-walking evaluator: eval_module,
// eval_block, eval_statement, eval_expression and interpret_typ (spec.md
// §4.1), plus the function-call dispatch that decides between the
// interpreter, the JIT thunk and the shadow harness (spec.md §4.6).
package interp

import (
	"fmt"
	"strconv"

	"github.com/jil-lang/jil/internal/ast"
	"github.com/jil-lang/jil/internal/errors"
	"github.com/jil-lang/jil/internal/runtime"
)

// Compiler is the subset of the JIT Engine the Interpreter depends on: the
// ability to compile a user function and attach a thunk to it (spec.md
// §4.5). Accepting this as an interface keeps internal/interp independent of
// internal/jit's concrete assembler/linker machinery.
type Compiler interface {
	Compile(fn *runtime.Function, env *runtime.Environment) error
}

// Shadow is the subset of the Shadow Harness the Interpreter depends on
// (spec.md §4.6): given a compiled function, its thunk, the call arguments
// and a callback that runs the interpreter path, decide what to return.
type Shadow interface {
	Call(fn *runtime.Function, thunk runtime.JITThunk, args []runtime.Value, interpretPath func() (runtime.Value, error)) (runtime.Value, error)
}

// Interpreter evaluates a Module against a root Environment, optionally
// dispatching eligible calls through a JIT Compiler and Shadow harness.
type Interpreter struct {
	Compiler Compiler // nil disables the JIT entirely
	Shadow   Shadow   // nil disables shadow execution; thunk alone is authoritative
}

// New creates an Interpreter. Either of compiler/shadow may be nil.
func New(compiler Compiler, shadow Shadow) *Interpreter {
	return &Interpreter{Compiler: compiler, Shadow: shadow}
}

// EvalModule evaluates the module's block for side effects only (spec.md
// §4.1 eval_module).
func (ip *Interpreter) EvalModule(m *ast.Module, env *runtime.Environment) error {
	_, err := ip.EvalBlock(m.Body, env)
	return err
}

// EvalBlock sequentially evaluates statements; the result is the value of
// the last statement. An empty block is a runtime error (spec.md §4.1).
func (ip *Interpreter) EvalBlock(b *ast.Block, env *runtime.Environment) (runtime.Value, error) {
	if len(b.Statements) == 0 {
		return nil, errors.Newf(errors.ErrEmptyBlock, b.Pos(), "block has no statements")
	}
	var result runtime.Value = runtime.NoReturn{}
	for _, s := range b.Statements {
		v, err := ip.EvalStatement(s, env)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// EvalStatement evaluates one statement (spec.md §4.1 eval_statement).
func (ip *Interpreter) EvalStatement(s ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	switch st := s.(type) {
	case *ast.ExpressionStatement:
		return ip.EvalExpression(st.Expr, env)

	case *ast.Assignment:
		val, err := ip.EvalExpression(st.Value, env)
		if err != nil {
			return nil, err
		}
		if err := env.Update(st.Name.Value, val); err != nil {
			kind := errors.ErrUndeclaredAssignment
			if _, lookupErr := env.GetType(st.Name.Value); lookupErr == nil {
				kind = errors.ErrTypeCast
			}
			return nil, errors.Newf(kind, st.Pos(), "%s", err)
		}
		return runtime.NoReturn{}, nil

	case *ast.VarDeclaration:
		typ, err := ip.InterpretTyp(st.Type, env)
		if err != nil {
			return nil, err
		}
		var val runtime.Value = runtime.Uninit{}
		if st.Value != nil {
			val, err = ip.EvalExpression(st.Value, env)
			if err != nil {
				return nil, err
			}
		}
		cast, err := typ.Cast(val)
		if err != nil {
			if _, isUninit := val.(runtime.Uninit); isUninit {
				cast = runtime.Uninit{}
			} else {
				return nil, errors.Newf(errors.ErrTypeCast, st.Pos(), "%s", err)
			}
		}
		env.Declare(st.Name.Value, cast, typ)
		return runtime.NoReturn{}, nil

	case *ast.If:
		cond, err := ip.EvalExpression(st.Condition, env)
		if err != nil {
			return nil, err
		}
		truthy, err := isTruthy(cond)
		if err != nil {
			return nil, errors.Newf(errors.ErrTypeCast, st.Pos(), "%s", err)
		}
		// The value of the branch taken is the value of the statement, so an
		// if/else can be a function body's result; no branch taken is NoReturn.
		if truthy {
			return ip.EvalBlock(st.Then, env.NewChild())
		} else if st.Else != nil {
			return ip.EvalBlock(st.Else, env.NewChild())
		}
		return runtime.NoReturn{}, nil

	case *ast.While:
		for {
			cond, err := ip.EvalExpression(st.Condition, env)
			if err != nil {
				return nil, err
			}
			truthy, err := isTruthy(cond)
			if err != nil {
				return nil, errors.Newf(errors.ErrTypeCast, st.Pos(), "%s", err)
			}
			if !truthy {
				break
			}
			// Deliberately the same environment across iterations, not a
			// child scope (spec.md §4.1): loop-local declarations persist
			// as shadowings across iterations.
			if _, err := ip.EvalBlock(st.Body, env); err != nil {
				return nil, err
			}
		}
		return runtime.NoReturn{}, nil

	case *ast.NamedBlock:
		return nil, errors.Newf(errors.ErrNotImplemented, st.Pos(), "named blocks are reserved for future use")

	default:
		return nil, errors.Newf(errors.ErrNotImplemented, s.Pos(), "unsupported statement %T", s)
	}
}

func isTruthy(v runtime.Value) (bool, error) {
	switch vv := v.(type) {
	case runtime.Int:
		return vv != 0, nil
	case runtime.U64:
		return vv != 0, nil
	default:
		return false, fmt.Errorf("condition must be numeric, got %s", v.Type().Name())
	}
}

// EvalExpression evaluates an expression to a Value (spec.md §4.1
// eval_expression).
func (ip *Interpreter) EvalExpression(e ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch ex := e.(type) {
	case *ast.Number:
		// spec.md §4.3: literals range over -2^63 < n < 2^64, so the raw
		// text is parsed as an unsigned 64-bit bit pattern and
		// reinterpreted, matching the JIT emitter's strconv.ParseUint
		// (internal/jit/emitter.go) rather than rejecting anything past
		// math.MaxInt64.
		n, err := strconv.ParseUint(ex.Value, 10, 64)
		if err != nil {
			return nil, errors.Newf(errors.ErrTypeCast, ex.Pos(), "invalid integer literal %q", ex.Value)
		}
		return runtime.Int(int64(n)), nil

	case *ast.Identifier:
		v, err := env.Get(ex.Value)
		if err != nil {
			return nil, errors.Newf(errors.ErrUnboundName, ex.Pos(), "%s", err)
		}
		return v, nil

	case *ast.BinaryOp:
		a, err := ip.EvalExpression(ex.A, env)
		if err != nil {
			return nil, err
		}
		b, err := ip.EvalExpression(ex.B, env)
		if err != nil {
			return nil, err
		}
		callee, err := env.Get(ex.Op.Value)
		if err != nil {
			return nil, errors.Newf(errors.ErrUnboundName, ex.Pos(), "%s", err)
		}
		v, err := ip.callValue(callee, []runtime.Value{a, b}, env)
		if err != nil {
			return nil, errors.Newf(errors.ErrTypeCast, ex.Pos(), "%s", err)
		}
		return v, nil

	case *ast.FunctionDeclare:
		args := make([]runtime.Arg, len(ex.Arguments))
		for i, p := range ex.Arguments {
			t, err := ip.InterpretTyp(p.Type, env)
			if err != nil {
				return nil, err
			}
			args[i] = runtime.Arg{Name: p.Name.Value, Type: t}
		}
		ret, err := ip.InterpretTyp(ex.ReturnType, env)
		if err != nil {
			return nil, err
		}
		return &runtime.Function{Args: args, ReturnType: ret, Body: ex.Body}, nil

	case *ast.FunctionCall:
		args := make([]runtime.Value, len(ex.Arguments))
		for i, a := range ex.Arguments {
			v, err := ip.EvalExpression(a, env)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		callee, err := env.Get(ex.Name.Value)
		if err != nil {
			return nil, errors.Newf(errors.ErrUnboundName, ex.Pos(), "%s", err)
		}
		return ip.callValue(callee, args, env)

	case *ast.StructValue:
		fields := make([]runtime.StructFieldValue, len(ex.Fields))
		for i, f := range ex.Fields {
			v, err := ip.EvalExpression(f.Value, env)
			if err != nil {
				return nil, err
			}
			fields[i] = runtime.StructFieldValue{Name: f.Name.Value, Value: v}
		}
		return &runtime.Struct{Fields: fields}, nil

	case *ast.FieldLookup:
		obj, err := ip.EvalExpression(ex.Obj, env)
		if err != nil {
			return nil, err
		}
		s, ok := obj.(*runtime.Struct)
		if !ok {
			return nil, errors.Newf(errors.ErrTypeCast, ex.Pos(), "field lookup on non-struct value %s", obj.Type().Name())
		}
		v, ok := s.Get(ex.Field.Value)
		if !ok {
			return nil, errors.Newf(errors.ErrUnboundName, ex.Pos(), "struct has no field %q", ex.Field.Value)
		}
		return v, nil

	case *ast.UninitValue:
		return runtime.Uninit{}, nil

	default:
		return nil, errors.Newf(errors.ErrNotImplemented, e.Pos(), "unsupported expression %T", e)
	}
}

// InterpretTyp resolves a TypeExpr node to a concrete Type against env
// (spec.md §4.1 interpret_typ).
func (ip *Interpreter) InterpretTyp(t ast.TypeExpr, env *runtime.Environment) (runtime.Type, error) {
	switch te := t.(type) {
	case *ast.TypeIdent:
		switch te.Name {
		case "int":
			return runtime.IntType{}, nil
		case "u64":
			return runtime.U64Type{}, nil
		}
		v, err := env.Get(te.Name)
		if err == nil {
			if tv, ok := v.(*runtime.TypeValue); ok {
				return tv.Of, nil
			}
		}
		return nil, errors.Newf(errors.ErrUnboundName, te.Pos(), "unknown type %q", te.Name)

	case *ast.FunctionTypeExpr:
		args := make([]runtime.Type, len(te.Args))
		for i, a := range te.Args {
			at, err := ip.InterpretTyp(a, env)
			if err != nil {
				return nil, err
			}
			args[i] = at
		}
		ret, err := ip.InterpretTyp(te.Return, env)
		if err != nil {
			return nil, err
		}
		return &runtime.FunctionType{Args: args, Return: ret}, nil

	case *ast.StructureTypeExpr:
		fields := make([]runtime.StructField, len(te.Fields))
		for i, f := range te.Fields {
			ft, err := ip.InterpretTyp(f.Type, env)
			if err != nil {
				return nil, err
			}
			fields[i] = runtime.StructField{Name: f.Name.Value, Type: ft}
		}
		return &runtime.StructType{Fields: fields}, nil

	case *ast.InferType:
		return runtime.InferType{}, nil

	case *ast.NoReturnType:
		return runtime.NoReturnType{}, nil

	default:
		return nil, errors.Newf(errors.ErrNotImplemented, t.Pos(), "unsupported type expression %T", t)
	}
}
