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

package syntax

import (
	"fmt"
	"io"
	"strings"
)

const indentUnit = "    "

type printer struct {
	w      strings.Builder
	indent int
}

func (p *printer) print(a ...string) {
	for _, s := range a {
		p.w.WriteString(s)
	}
}

func (p *printer) newline() {
	p.w.WriteString("\n")
	p.w.WriteString(strings.Repeat(indentUnit, p.indent))
}

// Fprint writes the source code of a node to w.
func Fprint(w io.Writer, node Node) error {
	_, err := io.WriteString(w, String(node))
	return err
}

// String returns the source code of a node.
func String(node Node) string {
	p := &printer{}
	switch n := node.(type) {
	case *File:
		p.file(n)
	case *FuncDecl:
		p.funcDecl(n)
	case *BlockStmt:
		p.block(n)
	case Stmt:
		p.stmt(n)
	case Expr:
		p.expr(n, LowestPrec)
	case *Attribute:
		p.attribute(n)
	case *Field:
		p.field(n)
	default:
		return fmt.Sprintf("<unknown node %T>", node)
	}
	return p.w.String()
}

func (p *printer) file(f *File) {
	for i, fn := range f.Funcs {
		if i > 0 {
			p.print("\n")
		}
		p.funcDecl(fn)
		p.print("\n")
	}
}

func (p *printer) attribute(attr *Attribute) {
	p.print("#[", attr.Name.Name, "]")
}

func (p *printer) field(f *Field) {
	if f.Mut {
		p.print("mut ")
	}
	p.print(f.Name.Name, ": ")
	p.expr(f.Type, LowestPrec)
}

func (p *printer) funcDecl(fn *FuncDecl) {
	for _, attr := range fn.Attrs {
		p.attribute(attr)
		p.newline()
	}
	p.print("fn ", fn.Name.Name, "(")
	for i, param := range fn.Params {
		if i > 0 {
			p.print(", ")
		}
		p.field(param)
	}
	p.print(")")
	if fn.Result != nil {
		p.print(" -> ")
		p.expr(fn.Result, LowestPrec)
	}
	p.print(" ")
	p.block(fn.Body)
}

func (p *printer) block(b *BlockStmt) {
	p.print("{")
	p.indent++
	for _, stmt := range b.List {
		p.newline()
		p.stmt(stmt)
	}
	p.indent--
	p.newline()
	p.print("}")
}

func (p *printer) stmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *LetStmt:
		p.print("let ")
		if s.Mut {
			p.print("mut ")
		}
		if s.Tuple {
			p.print("(")
		}
		for i, name := range s.Names {
			if i > 0 {
				p.print(", ")
			}
			p.print(name.Name)
		}
		if s.Tuple {
			if len(s.Names) == 1 {
				p.print(",")
			}
			p.print(")")
		}
		if s.Type != nil {
			p.print(": ")
			p.expr(s.Type, LowestPrec)
		}
		p.print(" = ")
		p.expr(s.Value, LowestPrec)
		p.print(";")
	case *ReturnStmt:
		p.print("return")
		if s.Result != nil {
			p.print(" ")
			p.expr(s.Result, LowestPrec)
		}
		p.print(";")
	case *AssignStmt:
		p.expr(s.Lhs, LowestPrec)
		p.print(" ", s.Tok.String(), " ")
		p.expr(s.Rhs, LowestPrec)
		p.print(";")
	case *ExprStmt:
		p.expr(s.X, LowestPrec)
		if s.Semi.IsValid() {
			p.print(";")
		}
	case *BlockStmt:
		p.block(s)
	default:
		p.print(fmt.Sprintf("<unknown statement %T>", stmt))
	}
}

// exprPrec returns the precedence of an expression.
// Expressions with a precedence lower than the one expected by their parent are parenthesized.
func exprPrec(x Expr) int {
	switch x := x.(type) {
	case *BinaryExpr:
		return x.Op.Precedence()
	case *CastExpr:
		return CastPrec
	case *UnaryExpr:
		return UnaryPrec
	case *BasicLit:
		if strings.HasPrefix(x.Value, "-") {
			return UnaryPrec
		}
	case *ClosureExpr:
		return LowestPrec
	}
	return PostfixPrec
}

func (p *printer) exprList(xs []Expr) {
	for i, x := range xs {
		if i > 0 {
			p.print(", ")
		}
		p.expr(x, LowestPrec)
	}
}

func (p *printer) expr(x Expr, prec int) {
	if exprPrec(x) < prec {
		p.print("(")
		defer p.print(")")
	}
	switch x := x.(type) {
	case *Ident:
		p.print(x.Name)
	case *BasicLit:
		p.print(x.Value)
	case *Path:
		p.print(x.String())
	case *BinaryExpr:
		oprec := x.Op.Precedence()
		p.expr(x.X, oprec)
		p.print(" ", x.Op.String(), " ")
		p.expr(x.Y, oprec+1)
	case *UnaryExpr:
		p.print(x.Op.String())
		p.expr(x.X, UnaryPrec)
	case *ParenExpr:
		p.print("(")
		p.expr(x.X, LowestPrec)
		p.print(")")
	case *TupleExpr:
		p.print("(")
		p.exprList(x.Elts)
		if len(x.Elts) == 1 {
			p.print(",")
		}
		p.print(")")
	case *TupleType:
		p.print("(")
		p.exprList(x.Elts)
		if len(x.Elts) == 1 {
			p.print(",")
		}
		p.print(")")
	case *ArrayExpr:
		p.print("[")
		p.exprList(x.Elts)
		p.print("]")
	case *CallExpr:
		p.expr(x.Fun, PostfixPrec)
		p.print("(")
		p.exprList(x.Args)
		p.print(")")
	case *MethodCallExpr:
		p.expr(x.Recv, PostfixPrec)
		p.print(".", x.Method.Name, "(")
		p.exprList(x.Args)
		p.print(")")
	case *FieldExpr:
		p.expr(x.X, PostfixPrec)
		p.print(".", x.Field.Name)
	case *IndexExpr:
		p.expr(x.X, PostfixPrec)
		p.print("[")
		p.expr(x.Index, LowestPrec)
		p.print("]")
	case *CastExpr:
		p.expr(x.X, CastPrec)
		p.print(" as ")
		p.expr(x.Type, LowestPrec)
	case *ClosureExpr:
		p.print("|")
		for i, param := range x.Params {
			if i > 0 {
				p.print(", ")
			}
			p.print(param.Name)
		}
		p.print("| ")
		p.expr(x.Body, LowestPrec)
	case *MacroExpr:
		p.print(x.Name.Name, "!(..)")
	case *IfExpr:
		p.print("if ")
		p.expr(x.Cond, LowestPrec)
		p.print(" ")
		p.block(x.Then)
		if x.Else != nil {
			p.print(" else ")
			p.expr(x.Else, LowestPrec)
		}
	case *BlockExpr:
		p.block(x.Block)
	case *LoopExpr:
		// Loop headers are not kept by the parser.
		p.print(x.Tok.String(), " .. ")
		p.block(x.Body)
	case *MatchExpr:
		p.print("match .. { .. }")
	case *BranchExpr:
		p.print(x.Tok.String())
	default:
		p.print(fmt.Sprintf("<unknown expression %T>", x))
	}
}
