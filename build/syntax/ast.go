// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package syntax parses and prints the numeric language differentiated by fwdiff.
//
// The language is a small subset of Rust:
//
//	#[forward_autodiff]
//	fn f(x: f64, y: f64) -> f64 {
//	    let a = 7.0 * x;
//	    let b = a.sin() + y;
//	    return b;
//	}
//
// The parser accepts a larger language than what can be differentiated
// (control flow, mutations, aggregates, ...) so that unsupported constructs
// are reported with their position by the differentiator.
package syntax

import "go/token"

type (
	// Node is a node of the syntax tree.
	Node interface {
		Pos() token.Pos
		End() token.Pos
	}

	// Expr is an expression node.
	Expr interface {
		Node
		exprNode()
	}

	// Stmt is a statement node.
	Stmt interface {
		Node
		stmtNode()
	}
)

// ----------------------------------------------------------------------------
// Expressions

type (
	// Ident is an identifier.
	Ident struct {
		NamePos token.Pos
		Name    string
	}

	// BasicLit is a numeric literal, possibly with a type suffix and a leading minus sign.
	BasicLit struct {
		ValuePos token.Pos
		Value    string
	}

	// Path is a path with at least two segments, e.g. f64::sin.
	Path struct {
		Segments []*Ident
	}

	// BinaryExpr is a binary expression.
	BinaryExpr struct {
		X     Expr
		OpPos token.Pos
		Op    Token
		Y     Expr
	}

	// UnaryExpr is a unary expression: -x, !x, &x, or *x.
	UnaryExpr struct {
		OpPos token.Pos
		Op    Token
		X     Expr
	}

	// ParenExpr is a parenthesized expression.
	ParenExpr struct {
		Lparen token.Pos
		X      Expr
		Rparen token.Pos
	}

	// TupleExpr is a tuple: (a, b).
	TupleExpr struct {
		Lparen token.Pos
		Elts   []Expr
		Rparen token.Pos
	}

	// ArrayExpr is an array: [a, b].
	ArrayExpr struct {
		Lbrack token.Pos
		Elts   []Expr
		Rbrack token.Pos
	}

	// CallExpr is a call to a free function: f(a) or f64::powi(a, 2).
	CallExpr struct {
		Fun    Expr
		Lparen token.Pos
		Args   []Expr
		Rparen token.Pos
	}

	// MethodCallExpr is a method call: x.powi(2).
	MethodCallExpr struct {
		Recv   Expr
		Method *Ident
		Lparen token.Pos
		Args   []Expr
		Rparen token.Pos
	}

	// FieldExpr is a field access: x.a.
	FieldExpr struct {
		X     Expr
		Field *Ident
	}

	// IndexExpr is an index expression: x[i].
	IndexExpr struct {
		X      Expr
		Lbrack token.Pos
		Index  Expr
		Rbrack token.Pos
	}

	// CastExpr is a numeric cast: x as f64.
	CastExpr struct {
		X    Expr
		Type Expr
	}

	// ClosureExpr is a closure: |a, b| a + b.
	ClosureExpr struct {
		Bar    token.Pos
		Params []*Ident
		Body   Expr
	}

	// MacroExpr is a macro invocation: m!(...). Its arguments are not parsed.
	MacroExpr struct {
		Name   *Ident
		Rparen token.Pos
	}

	// IfExpr is an if expression.
	IfExpr struct {
		If   token.Pos
		Cond Expr
		Then *BlockStmt
		Else Expr // *IfExpr, *BlockExpr, or nil
	}

	// BlockExpr is a block used as an expression.
	BlockExpr struct {
		Block *BlockStmt
	}

	// LoopExpr is a loop, while, or for loop. The loop header is not parsed.
	LoopExpr struct {
		Keyword token.Pos
		Tok     Token
		Body    *BlockStmt
	}

	// MatchExpr is a match expression. Its arms are not parsed.
	MatchExpr struct {
		Match  token.Pos
		Rbrace token.Pos
	}

	// BranchExpr is a break or a continue.
	BranchExpr struct {
		TokPos token.Pos
		Tok    Token
	}

	// TupleType is a tuple type: (f64, f64).
	TupleType struct {
		Lparen token.Pos
		Elts   []Expr
		Rparen token.Pos
	}
)

func (x *Ident) Pos() token.Pos          { return x.NamePos }
func (x *BasicLit) Pos() token.Pos       { return x.ValuePos }
func (x *Path) Pos() token.Pos           { return x.Segments[0].Pos() }
func (x *BinaryExpr) Pos() token.Pos     { return x.X.Pos() }
func (x *UnaryExpr) Pos() token.Pos      { return x.OpPos }
func (x *ParenExpr) Pos() token.Pos      { return x.Lparen }
func (x *TupleExpr) Pos() token.Pos      { return x.Lparen }
func (x *ArrayExpr) Pos() token.Pos      { return x.Lbrack }
func (x *CallExpr) Pos() token.Pos       { return x.Fun.Pos() }
func (x *MethodCallExpr) Pos() token.Pos { return x.Recv.Pos() }
func (x *FieldExpr) Pos() token.Pos      { return x.X.Pos() }
func (x *IndexExpr) Pos() token.Pos      { return x.X.Pos() }
func (x *CastExpr) Pos() token.Pos       { return x.X.Pos() }
func (x *ClosureExpr) Pos() token.Pos    { return x.Bar }
func (x *MacroExpr) Pos() token.Pos      { return x.Name.Pos() }
func (x *IfExpr) Pos() token.Pos         { return x.If }
func (x *BlockExpr) Pos() token.Pos      { return x.Block.Pos() }
func (x *LoopExpr) Pos() token.Pos       { return x.Keyword }
func (x *MatchExpr) Pos() token.Pos      { return x.Match }
func (x *BranchExpr) Pos() token.Pos     { return x.TokPos }
func (x *TupleType) Pos() token.Pos      { return x.Lparen }

func (x *Ident) End() token.Pos          { return token.Pos(int(x.NamePos) + len(x.Name)) }
func (x *BasicLit) End() token.Pos       { return token.Pos(int(x.ValuePos) + len(x.Value)) }
func (x *Path) End() token.Pos           { return x.Segments[len(x.Segments)-1].End() }
func (x *BinaryExpr) End() token.Pos     { return x.Y.End() }
func (x *UnaryExpr) End() token.Pos      { return x.X.End() }
func (x *ParenExpr) End() token.Pos      { return x.Rparen + 1 }
func (x *TupleExpr) End() token.Pos      { return x.Rparen + 1 }
func (x *ArrayExpr) End() token.Pos      { return x.Rbrack + 1 }
func (x *CallExpr) End() token.Pos       { return x.Rparen + 1 }
func (x *MethodCallExpr) End() token.Pos { return x.Rparen + 1 }
func (x *FieldExpr) End() token.Pos      { return x.Field.End() }
func (x *IndexExpr) End() token.Pos      { return x.Rbrack + 1 }
func (x *CastExpr) End() token.Pos       { return x.Type.End() }
func (x *ClosureExpr) End() token.Pos    { return x.Body.End() }
func (x *MacroExpr) End() token.Pos      { return x.Rparen + 1 }
func (x *BlockExpr) End() token.Pos      { return x.Block.End() }
func (x *LoopExpr) End() token.Pos       { return x.Body.End() }
func (x *MatchExpr) End() token.Pos      { return x.Rbrace + 1 }
func (x *BranchExpr) End() token.Pos     { return token.Pos(int(x.TokPos) + len(x.Tok.String())) }
func (x *TupleType) End() token.Pos      { return x.Rparen + 1 }

func (x *IfExpr) End() token.Pos {
	if x.Else != nil {
		return x.Else.End()
	}
	return x.Then.End()
}

func (*Ident) exprNode()          {}
func (*BasicLit) exprNode()       {}
func (*Path) exprNode()           {}
func (*BinaryExpr) exprNode()     {}
func (*UnaryExpr) exprNode()      {}
func (*ParenExpr) exprNode()      {}
func (*TupleExpr) exprNode()      {}
func (*ArrayExpr) exprNode()      {}
func (*CallExpr) exprNode()       {}
func (*MethodCallExpr) exprNode() {}
func (*FieldExpr) exprNode()      {}
func (*IndexExpr) exprNode()      {}
func (*CastExpr) exprNode()       {}
func (*ClosureExpr) exprNode()    {}
func (*MacroExpr) exprNode()      {}
func (*IfExpr) exprNode()         {}
func (*BlockExpr) exprNode()      {}
func (*LoopExpr) exprNode()       {}
func (*MatchExpr) exprNode()      {}
func (*BranchExpr) exprNode()     {}
func (*TupleType) exprNode()      {}

// String returns the path with its segments separated by ::.
func (x *Path) String() string {
	s := ""
	for i, seg := range x.Segments {
		if i > 0 {
			s += "::"
		}
		s += seg.Name
	}
	return s
}

// ----------------------------------------------------------------------------
// Statements

type (
	// LetStmt binds names to values: let a = x; or let (a, b) = (x, y);
	LetStmt struct {
		Let   token.Pos
		Mut   bool
		Names []*Ident
		// Tuple is true if the names are in a tuple pattern.
		Tuple bool
		Type  Expr // optional type annotation
		Value Expr
		Semi  token.Pos
	}

	// ReturnStmt returns a value.
	ReturnStmt struct {
		Return token.Pos
		Result Expr // may be nil
		Semi   token.Pos
	}

	// AssignStmt is an assignment or a compound assignment: x = y; x += y;
	AssignStmt struct {
		Lhs    Expr
		TokPos token.Pos
		Tok    Token
		Rhs    Expr
		Semi   token.Pos
	}

	// ExprStmt is an expression used as a statement.
	// Semi is token.NoPos for a tail expression or a block-like expression.
	ExprStmt struct {
		X    Expr
		Semi token.Pos
	}

	// BlockStmt is a list of statements in braces.
	BlockStmt struct {
		Lbrace token.Pos
		List   []Stmt
		Rbrace token.Pos
	}
)

func (s *LetStmt) Pos() token.Pos    { return s.Let }
func (s *ReturnStmt) Pos() token.Pos { return s.Return }
func (s *AssignStmt) Pos() token.Pos { return s.Lhs.Pos() }
func (s *ExprStmt) Pos() token.Pos   { return s.X.Pos() }
func (s *BlockStmt) Pos() token.Pos  { return s.Lbrace }

func (s *LetStmt) End() token.Pos    { return s.Semi + 1 }
func (s *ReturnStmt) End() token.Pos { return s.Semi + 1 }
func (s *AssignStmt) End() token.Pos { return s.Semi + 1 }
func (s *BlockStmt) End() token.Pos  { return s.Rbrace + 1 }

func (s *ExprStmt) End() token.Pos {
	if s.Semi.IsValid() {
		return s.Semi + 1
	}
	return s.X.End()
}

func (*LetStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode() {}
func (*AssignStmt) stmtNode() {}
func (*ExprStmt) stmtNode()   {}
func (*BlockStmt) stmtNode()  {}

// ----------------------------------------------------------------------------
// Declarations

type (
	// Attribute is an attribute attached to a function: #[forward_autodiff].
	Attribute struct {
		Hash   token.Pos
		Name   *Ident
		Rbrack token.Pos
	}

	// Field is a function parameter.
	Field struct {
		Mut  bool
		Name *Ident
		Type Expr
	}

	// FuncDecl is a function declaration.
	FuncDecl struct {
		Attrs  []*Attribute
		Fn     token.Pos
		Name   *Ident
		Params []*Field
		Result Expr // *Ident, *TupleType, or nil
		Body   *BlockStmt
	}

	// File is a source file.
	File struct {
		Name  string
		Funcs []*FuncDecl
	}
)

func (a *Attribute) Pos() token.Pos { return a.Hash }
func (a *Attribute) End() token.Pos { return a.Rbrack + 1 }

func (f *Field) Pos() token.Pos { return f.Name.Pos() }
func (f *Field) End() token.Pos { return f.Type.End() }

func (f *FuncDecl) Pos() token.Pos {
	if len(f.Attrs) > 0 {
		return f.Attrs[0].Pos()
	}
	return f.Fn
}

func (f *FuncDecl) End() token.Pos { return f.Body.End() }

func (f *File) Pos() token.Pos {
	if len(f.Funcs) == 0 {
		return token.NoPos
	}
	return f.Funcs[0].Pos()
}

func (f *File) End() token.Pos {
	if len(f.Funcs) == 0 {
		return token.NoPos
	}
	return f.Funcs[len(f.Funcs)-1].End()
}

// HasAttribute returns true if the function has an attribute with the given name.
func (f *FuncDecl) HasAttribute(name string) bool {
	for _, attr := range f.Attrs {
		if attr.Name.Name == name {
			return true
		}
	}
	return false
}

// FindFunc returns the function with the given name or nil if none exists.
func (f *File) FindFunc(name string) *FuncDecl {
	for _, fn := range f.Funcs {
		if fn.Name.Name == name {
			return fn
		}
	}
	return nil
}

// Unparen removes the parentheses around an expression.
func Unparen(x Expr) Expr {
	for {
		paren, ok := x.(*ParenExpr)
		if !ok {
			return x
		}
		x = paren.X
	}
}
