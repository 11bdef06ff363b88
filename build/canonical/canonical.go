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

// Package canonical rewrites a straight-line function into single-assignment form.
//
// In canonical form, the body of a function is a sequence of bindings followed by a return:
//
//	let a = x * y;
//	let t0 = a.sin();
//	let b = t0 + 1.0;
//	return b;
//
// Each binding has a unique name and binds a single primitive operation: a binary operation,
// a unary negation, a function call, a method call, a name, or a literal. The operands of a
// primitive operation are names or literals. The return statement returns a single name.
package canonical

import (
	"go/token"

	"github.com/gx-org/fwdiff/base/uname"
	"github.com/gx-org/fwdiff/build/fmterr"
	"github.com/gx-org/fwdiff/build/syntax"
)

// TempRoot is the root of the names of temporary variables.
const TempRoot = "t"

type canonicalizer struct {
	errs  *fmterr.Appender
	names *uname.Unique
	temps *uname.Root

	// rename maps a source name to the name of its current binding.
	rename map[string]string
	body   []syntax.Stmt
}

// Func rewrites a function into canonical form.
// The function is expected to have been validated: it only contains let bindings and a final return.
// The input function is not modified.
func Func(fset *token.FileSet, fn *syntax.FuncDecl) (*syntax.FuncDecl, error) {
	errs := &fmterr.Errors{}
	c := &canonicalizer{
		errs:   errs.NewAppender(fset),
		names:  uname.New(),
		rename: make(map[string]string),
	}
	c.temps = c.names.Root(TempRoot)
	c.registerNames(fn)
	for _, param := range fn.Params {
		c.rename[param.Name.Name] = param.Name.Name
	}
	for _, stmt := range fn.Body.List {
		c.stmt(stmt)
	}
	if !errs.Empty() {
		return nil, errs
	}
	out := &syntax.FuncDecl{
		Attrs:  fn.Attrs,
		Fn:     fn.Fn,
		Name:   fn.Name,
		Params: fn.Params,
		Result: fn.Result,
		Body: &syntax.BlockStmt{
			Lbrace: fn.Body.Lbrace,
			List:   c.body,
			Rbrace: fn.Body.Rbrace,
		},
	}
	if err := Check(fset, out); err != nil {
		return nil, err
	}
	return out, nil
}

// registerNames registers all the identifiers of the source code
// such that generated names never collide with them.
func (c *canonicalizer) registerNames(fn *syntax.FuncDecl) {
	syntax.Inspect(fn, func(node syntax.Node) bool {
		if ident, ok := node.(*syntax.Ident); ok {
			c.names.Register(ident.Name)
		}
		return true
	})
}

func (c *canonicalizer) stmt(stmt syntax.Stmt) {
	switch s := stmt.(type) {
	case *syntax.LetStmt:
		c.let(s)
	case *syntax.ReturnStmt:
		c.ret(s)
	default:
		c.errs.AppendInternalf(stmt, "statement %T not supported in canonical form", stmt)
	}
}

func (c *canonicalizer) let(s *syntax.LetStmt) {
	if len(s.Names) != 1 {
		c.errs.AppendInternalf(s, "let statement binds %d names", len(s.Names))
		return
	}
	value, ok := c.primitive(s.Value)
	src := s.Names[0]
	name := src.Name
	if _, rebound := c.rename[name]; rebound {
		name = c.names.Name(name)
	}
	// The name is bound even if its value is invalid to only report the first error.
	c.rename[src.Name] = name
	if !ok {
		return
	}
	c.body = append(c.body, &syntax.LetStmt{
		Let:   s.Let,
		Names: []*syntax.Ident{{NamePos: src.NamePos, Name: name}},
		Value: value,
		Semi:  s.Semi,
	})
}

func (c *canonicalizer) ret(s *syntax.ReturnStmt) {
	if s.Result == nil {
		c.errs.Appendf(fmterr.MalformedReturn, s, "missing return value")
		return
	}
	if ident, ok := syntax.Unparen(s.Result).(*syntax.Ident); ok {
		if _, bound := c.rename[ident.Name]; !bound {
			c.errs.Appendf(fmterr.MalformedReturn, ident, "return of unbound name %s", ident.Name)
			return
		}
	}
	result, ok := c.atom(s.Result)
	if !ok {
		return
	}
	if lit, isLit := result.(*syntax.BasicLit); isLit {
		result = c.hoist(lit)
	}
	c.body = append(c.body, &syntax.ReturnStmt{
		Return: s.Return,
		Result: result,
		Semi:   s.Semi,
	})
}

// IsAtom returns true if an expression is a name or a literal.
func IsAtom(x syntax.Expr) bool {
	switch x.(type) {
	case *syntax.Ident, *syntax.BasicLit:
		return true
	}
	return false
}

// atom returns a name or a literal for an expression,
// hoisting the expression into a temporary if required.
func (c *canonicalizer) atom(x syntax.Expr) (syntax.Expr, bool) {
	prim, ok := c.primitive(x)
	if !ok {
		return nil, false
	}
	if IsAtom(prim) {
		return prim, true
	}
	return c.hoist(prim), true
}

// hoist binds an expression to a new temporary name and returns a reference to that name.
func (c *canonicalizer) hoist(x syntax.Expr) *syntax.Ident {
	name := c.temps.Next()
	c.rename[name] = name
	c.body = append(c.body, &syntax.LetStmt{
		Let:   x.Pos(),
		Names: []*syntax.Ident{{NamePos: x.Pos(), Name: name}},
		Value: x,
		Semi:  x.End() - 1,
	})
	return &syntax.Ident{NamePos: x.Pos(), Name: name}
}

func (c *canonicalizer) atoms(xs []syntax.Expr) ([]syntax.Expr, bool) {
	out := make([]syntax.Expr, len(xs))
	allOk := true
	for i, x := range xs {
		var ok bool
		out[i], ok = c.atom(x)
		allOk = allOk && ok
	}
	return out, allOk
}

// primitive returns a primitive operation, the operands of which are names or literals.
func (c *canonicalizer) primitive(expr syntax.Expr) (syntax.Expr, bool) {
	switch x := syntax.Unparen(expr).(type) {
	case *syntax.Ident:
		name, ok := c.rename[x.Name]
		if !ok {
			c.errs.Appendf(fmterr.Unsupported, x, "undefined: %s", x.Name)
			return nil, false
		}
		return &syntax.Ident{NamePos: x.NamePos, Name: name}, true
	case *syntax.BasicLit:
		return x, true
	case *syntax.UnaryExpr:
		operand, ok := c.atom(x.X)
		if !ok {
			return nil, false
		}
		return &syntax.UnaryExpr{OpPos: x.OpPos, Op: x.Op, X: operand}, true
	case *syntax.BinaryExpr:
		lhs, lok := c.atom(x.X)
		rhs, rok := c.atom(x.Y)
		if !lok || !rok {
			return nil, false
		}
		return &syntax.BinaryExpr{X: lhs, OpPos: x.OpPos, Op: x.Op, Y: rhs}, true
	case *syntax.CallExpr:
		args, ok := c.atoms(x.Args)
		if !ok {
			return nil, false
		}
		return &syntax.CallExpr{Fun: x.Fun, Lparen: x.Lparen, Args: args, Rparen: x.Rparen}, true
	case *syntax.MethodCallExpr:
		recv, rok := c.atom(x.Recv)
		args, aok := c.atoms(x.Args)
		if !rok || !aok {
			return nil, false
		}
		return &syntax.MethodCallExpr{
			Recv:   recv,
			Method: x.Method,
			Lparen: x.Lparen,
			Args:   args,
			Rparen: x.Rparen,
		}, true
	}
	c.errs.AppendInternalf(expr, "expression %T not supported in canonical form", expr)
	return nil, false
}
