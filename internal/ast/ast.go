package ast

import (
	"github.com/funvibe/packsig/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
}

// Type is a type expression node.
// E.g. Int, Array<T>, (Int, tail: Bool), T..., fn(Int) -> Bool
type Type interface {
	Node
	typeNode()
}

// Requirement is one clause of a where list.
type Requirement interface {
	Node
	requirementNode()
}

// Stmt is one statement inside a signature body.
type Stmt interface {
	Node
	stmtNode()
}

// File is the root node: every signature declaration of one source file.
type File struct {
	Path       string
	Signatures []*SignatureDecl
}

func (f *File) TokenLiteral() string {
	if len(f.Signatures) > 0 {
		return f.Signatures[0].TokenLiteral()
	}
	return ""
}

func (f *File) GetToken() token.Token {
	if len(f.Signatures) > 0 {
		return f.Signatures[0].GetToken()
	}
	return token.Token{}
}

// Identifier is a bare name.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }

// SignatureDecl is one signature declaration:
//
//	signature Name<params where reqs> { stmts }
type SignatureDecl struct {
	Token  token.Token // The 'signature' token
	Name   *Identifier
	Params []*GenericParamDecl
	Where  []Requirement
	Stmts  []Stmt
}

func (sd *SignatureDecl) TokenLiteral() string  { return sd.Token.Lexeme }
func (sd *SignatureDecl) GetToken() token.Token { return sd.Token }

// GenericParamDecl declares one generic parameter. Pack marks a variadic
// parameter, written Name... in source.
type GenericParamDecl struct {
	Token token.Token // The parameter's name token
	Name  *Identifier
	Pack  bool
}

func (gp *GenericParamDecl) TokenLiteral() string  { return gp.Token.Lexeme }
func (gp *GenericParamDecl) GetToken() token.Token { return gp.Token }

// TypeRequirement asserts that two types are equal: T == Int.
type TypeRequirement struct {
	Token token.Token // The '==' token
	Left  Type
	Right Type
}

func (tr *TypeRequirement) requirementNode()      {}
func (tr *TypeRequirement) TokenLiteral() string  { return tr.Token.Lexeme }
func (tr *TypeRequirement) GetToken() token.Token { return tr.Token }

// ShapeRequirement asserts that two shapes are equal:
// T.shape == U.shape, T.shape == 2.
type ShapeRequirement struct {
	Token token.Token // The '==' token
	Left  ShapeOperand
	Right ShapeOperand
}

func (sr *ShapeRequirement) requirementNode()      {}
func (sr *ShapeRequirement) TokenLiteral() string  { return sr.Token.Lexeme }
func (sr *ShapeRequirement) GetToken() token.Token { return sr.Token }

// ShapeOperand is one side of a shape requirement.
type ShapeOperand interface {
	Node
	shapeOperandNode()
}

// ShapeOf references the shape of a parameter: T.shape.
type ShapeOf struct {
	Token token.Token // The parameter's name token
	Param *Identifier
}

func (so *ShapeOf) shapeOperandNode()     {}
func (so *ShapeOf) TokenLiteral() string  { return so.Token.Lexeme }
func (so *ShapeOf) GetToken() token.Token { return so.Token }

// ArityLit is a literal element count in a shape requirement.
type ArityLit struct {
	Token token.Token // The integer token
	Value int
}

func (al *ArityLit) shapeOperandNode()     {}
func (al *ArityLit) TokenLiteral() string  { return al.Token.Lexeme }
func (al *ArityLit) GetToken() token.Token { return al.Token }

// TupleMatch asserts a correspondence between two tuple types:
//
//	tuple (T..., tail: U) ~ (Int, tail: Bool)
type TupleMatch struct {
	Token token.Token // The 'tuple' token
	Left  *TupleType
	Right *TupleType
}

func (tm *TupleMatch) stmtNode()             {}
func (tm *TupleMatch) TokenLiteral() string  { return tm.Token.Lexeme }
func (tm *TupleMatch) GetToken() token.Token { return tm.Token }

// ParamsMatch asserts a correspondence between two parameter lists:
//
//	params (T...) ~ (Int, String)
type ParamsMatch struct {
	Token token.Token // The 'params' token
	Left  []Type
	Right []Type
}

func (pm *ParamsMatch) stmtNode()             {}
func (pm *ParamsMatch) TokenLiteral() string  { return pm.Token.Lexeme }
func (pm *ParamsMatch) GetToken() token.Token { return pm.Token }

// NamedType is a named type reference, optionally applied: Int, Array<T>.
// Whether the name means a generic parameter or a nominal type is resolved
// during analysis, not parsing.
type NamedType struct {
	Token token.Token // The name token
	Name  *Identifier
	Args  []Type
}

func (nt *NamedType) typeNode()             {}
func (nt *NamedType) TokenLiteral() string  { return nt.Token.Lexeme }
func (nt *NamedType) GetToken() token.Token { return nt.Token }

// TupleElement is one element of a tuple type, optionally labeled.
type TupleElement struct {
	Token token.Token // The label token, or the element type's token
	Label *Identifier // nil when unlabeled
	Type  Type
}

func (te *TupleElement) TokenLiteral() string  { return te.Token.Lexeme }
func (te *TupleElement) GetToken() token.Token { return te.Token }

// TupleType is a parenthesized element list: (Int, tail: Bool).
type TupleType struct {
	Token    token.Token // The '(' token
	Elements []*TupleElement
}

func (tt *TupleType) typeNode()             {}
func (tt *TupleType) TokenLiteral() string  { return tt.Token.Lexeme }
func (tt *TupleType) GetToken() token.Token { return tt.Token }

// ExpansionType is a variadic expansion: T..., Array<T>...
type ExpansionType struct {
	Token   token.Token // The '...' token
	Pattern Type
}

func (et *ExpansionType) typeNode()             {}
func (et *ExpansionType) TokenLiteral() string  { return et.Token.Lexeme }
func (et *ExpansionType) GetToken() token.Token { return et.Token }

// FunctionType is a function type: fn(Int, T) -> Bool.
type FunctionType struct {
	Token  token.Token // The 'fn' token
	Params []Type
	Result Type
}

func (ft *FunctionType) typeNode()             {}
func (ft *FunctionType) TokenLiteral() string  { return ft.Token.Lexeme }
func (ft *FunctionType) GetToken() token.Token { return ft.Token }
