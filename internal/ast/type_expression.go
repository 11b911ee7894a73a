package ast

import (
	"strings"

	"github.com/jil-lang/jil/internal/lexer"
)

// TypeIdent is `Type(Identifier)` from spec.md §6: a type written as a bare
// name (`int`, `u64`, or a name whose binding in the environment at
// declaration time is a type value).
type TypeIdent struct {
	Token lexer.Token
	Name  string
}

func (t *TypeIdent) typeExprNode()      {}
func (t *TypeIdent) TokenLiteral() string { return t.Token.Literal }
func (t *TypeIdent) Pos() lexer.Position  { return t.Token.Pos }
func (t *TypeIdent) String() string       { return t.Name }

// FunctionTypeExpr is the `(T1, T2) -> Tr` type of a function value.
type FunctionTypeExpr struct {
	Token   lexer.Token
	Args    []TypeExpr
	Return  TypeExpr
}

func (f *FunctionTypeExpr) typeExprNode()      {}
func (f *FunctionTypeExpr) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionTypeExpr) Pos() lexer.Position  { return f.Token.Pos }
func (f *FunctionTypeExpr) String() string {
	var args []string
	for _, a := range f.Args {
		args = append(args, a.String())
	}
	return "(" + strings.Join(args, ", ") + ") -> " + f.Return.String()
}

// StructTypeField is one `name: TypeExpr` entry of a StructureTypeExpr.
type StructTypeField struct {
	Name *Identifier
	Type TypeExpr
}

// StructureTypeExpr is a `struct { a: int, b: int }` type expression.
type StructureTypeExpr struct {
	Token  lexer.Token
	Fields []*StructTypeField
}

func (s *StructureTypeExpr) typeExprNode()      {}
func (s *StructureTypeExpr) TokenLiteral() string { return s.Token.Literal }
func (s *StructureTypeExpr) Pos() lexer.Position  { return s.Token.Pos }
func (s *StructureTypeExpr) String() string {
	var fields []string
	for _, f := range s.Fields {
		fields = append(fields, f.Name.String()+": "+f.Type.String())
	}
	return "struct { " + strings.Join(fields, ", ") + " }"
}

// InferType is the `Infer` placeholder type. Per spec.md §3 it is always an
// error if it survives past declaration resolution.
type InferType struct {
	Token lexer.Token
}

func (i *InferType) typeExprNode()      {}
func (i *InferType) TokenLiteral() string { return i.Token.Literal }
func (i *InferType) Pos() lexer.Position  { return i.Token.Pos }
func (i *InferType) String() string       { return "<infer>" }

// NoReturnType marks a function declared to return nothing observable.
type NoReturnType struct {
	Token lexer.Token
}

func (n *NoReturnType) typeExprNode()      {}
func (n *NoReturnType) TokenLiteral() string { return n.Token.Literal }
func (n *NoReturnType) Pos() lexer.Position  { return n.Token.Pos }
func (n *NoReturnType) String() string       { return "noreturn" }

// UninitValue marks a declaration with no initializer expression
// (`let x: T` with no `= e`). In Expression position the interpreter
// evaluates it to Uninit. The parser represents a missing initializer as a
// nil VarDeclaration.Value instead, and the JIT emitter rejects UninitValue.
type UninitValue struct {
	Token lexer.Token
}

func (u *UninitValue) expressionNode()    {}
func (u *UninitValue) typeExprNode()        {}
func (u *UninitValue) TokenLiteral() string { return u.Token.Literal }
func (u *UninitValue) Pos() lexer.Position  { return u.Token.Pos }
func (u *UninitValue) String() string       { return "<uninit>" }
