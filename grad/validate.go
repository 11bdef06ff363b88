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

package grad

import (
	"go/token"

	"github.com/gx-org/fwdiff/base/uname"
	"github.com/gx-org/fwdiff/build/fmterr"
	"github.com/gx-org/fwdiff/build/kind"
	"github.com/gx-org/fwdiff/build/syntax"
)

// posNode is a node at a single position in the source.
type posNode token.Pos

func (p posNode) Pos() token.Pos { return token.Pos(p) }
func (p posNode) End() token.Pos { return token.Pos(p) }

// signature of a function accepted by the transformer.
type signature struct {
	params []kind.Kind
	result kind.Kind
}

type validator struct {
	errs *fmterr.Appender
}

func (v *validator) unsupported(node fmterr.Node, what string) bool {
	return v.errs.Appendf(fmterr.Unsupported, node, "unsupported construct: %s", what)
}

func (v *validator) nonStraightLine(node fmterr.Node, what string) bool {
	return v.errs.Appendf(fmterr.Unsupported, node, "non-straight-line construct: %s", what)
}

func (v *validator) name(ident *syntax.Ident) bool {
	if !uname.IsReserved(ident.Name) {
		return true
	}
	return v.errs.Appendf(fmterr.Unsupported, ident, "reserved identifier %s: names cannot start with an underscore or contain a double underscore", ident.Name)
}

func (v *validator) scalarType(x syntax.Expr) kind.Kind {
	ident, ok := x.(*syntax.Ident)
	if !ok {
		v.errs.Appendf(fmterr.UnsupportedType, x, "unsupported type %s: aggregate types are not supported", syntax.String(x))
		return kind.Invalid
	}
	tp := kind.FromString(ident.Name)
	if tp == kind.Invalid {
		v.errs.Appendf(fmterr.UnsupportedType, x, "unsupported type %s", ident.Name)
	}
	return tp
}

// signature checks the parameters and the result of a function.
func (v *validator) signature(fn *syntax.FuncDecl) (*signature, bool) {
	sig := &signature{params: make([]kind.Kind, len(fn.Params))}
	ok := true
	names := make(map[string]bool)
	for i, param := range fn.Params {
		if param.Mut {
			ok = v.unsupported(param, "mutable parameter "+param.Name.Name)
		}
		ok = v.name(param.Name) && ok
		if names[param.Name.Name] {
			ok = v.errs.Appendf(fmterr.Unsupported, param.Name, "duplicate parameter %s", param.Name.Name)
		}
		names[param.Name.Name] = true
		sig.params[i] = v.scalarType(param.Type)
		ok = ok && sig.params[i] != kind.Invalid
	}
	if fn.Result == nil {
		return sig, v.errs.Appendf(fmterr.MalformedReturn, fn.Name, "function %s has no result", fn.Name.Name)
	}
	sig.result = v.scalarType(fn.Result)
	return sig, ok && sig.result != kind.Invalid
}

// body checks that the body of a function is a sequence of let bindings followed by a return.
func (v *validator) body(fn *syntax.FuncDecl) bool {
	list := fn.Body.List
	numErrs := v.errs.Len()
	for i, stmt := range list {
		v.stmt(stmt, i == len(list)-1)
	}
	if len(list) == 0 {
		v.errs.Appendf(fmterr.MalformedReturn, posNode(fn.Body.Rbrace), "missing return statement")
	} else if last := list[len(list)-1]; !isReturnOrTail(last) {
		v.errs.Appendf(fmterr.MalformedReturn, posNode(fn.Body.Rbrace), "missing return statement")
	}
	return v.errs.Len() == numErrs
}

func isReturnOrTail(stmt syntax.Stmt) bool {
	switch s := stmt.(type) {
	case *syntax.ReturnStmt:
		return true
	case *syntax.ExprStmt:
		return !s.Semi.IsValid()
	}
	return false
}

func (v *validator) stmt(stmt syntax.Stmt, last bool) {
	switch s := stmt.(type) {
	case *syntax.LetStmt:
		if s.Mut {
			v.unsupported(s, "mutable binding")
		}
		if s.Tuple {
			v.unsupported(s, "tuple pattern")
		}
		if s.Type != nil {
			v.unsupported(s.Type, "type annotation")
		}
		for _, name := range s.Names {
			v.name(name)
		}
		v.expr(s.Value)
	case *syntax.ReturnStmt:
		if !last {
			v.nonStraightLine(s, "early return")
		}
		switch result := syntax.Unparen(s.Result).(type) {
		case nil:
			v.errs.Appendf(fmterr.MalformedReturn, s, "missing return value")
		case *syntax.TupleExpr, *syntax.ArrayExpr:
			v.errs.Appendf(fmterr.MalformedReturn, result, "aggregate return value %s", syntax.String(result))
		default:
			v.expr(s.Result)
		}
	case *syntax.AssignStmt:
		if s.Tok == syntax.ASSIGN {
			v.unsupported(s, "assignment")
		} else {
			v.unsupported(s, "compound assignment "+s.Tok.String())
		}
	case *syntax.ExprStmt:
		switch s.X.(type) {
		case *syntax.IfExpr, *syntax.LoopExpr, *syntax.MatchExpr, *syntax.BranchExpr:
			v.expr(s.X)
		default:
			if last && !s.Semi.IsValid() {
				v.unsupported(s, "tail expression, use a return statement")
			} else {
				v.unsupported(s, "expression statement")
			}
		}
	case *syntax.BlockStmt:
		v.unsupported(s, "block")
	default:
		v.unsupported(stmt, "statement")
	}
}

func (v *validator) exprs(xs []syntax.Expr) {
	for _, x := range xs {
		v.expr(x)
	}
}

func (v *validator) expr(expr syntax.Expr) {
	switch x := expr.(type) {
	case *syntax.Ident:
		v.name(x)
	case *syntax.BasicLit:
		if _, err := kind.OfLiteral(x.Value); err != nil {
			v.errs.AppendAt(fmterr.UnsupportedType, x, err)
		}
	case *syntax.ParenExpr:
		v.expr(x.X)
	case *syntax.BinaryExpr:
		switch x.Op {
		case syntax.ADD, syntax.SUB, syntax.MUL, syntax.QUO:
		default:
			v.unsupported(posNode(x.OpPos), "operator "+x.Op.String())
		}
		v.expr(x.X)
		v.expr(x.Y)
	case *syntax.UnaryExpr:
		switch x.Op {
		case syntax.SUB:
		case syntax.AND:
			v.unsupported(x, "reference")
		case syntax.MUL:
			v.unsupported(x, "dereference")
		default:
			v.unsupported(x, "operator "+x.Op.String())
		}
		v.expr(x.X)
	case *syntax.CallExpr:
		switch x.Fun.(type) {
		case *syntax.Path, *syntax.Ident:
		default:
			v.unsupported(x.Fun, "call of "+syntax.String(x.Fun))
		}
		v.exprs(x.Args)
	case *syntax.MethodCallExpr:
		v.expr(x.Recv)
		v.exprs(x.Args)
	case *syntax.Path:
		v.unsupported(x, "path "+x.String())
	case *syntax.TupleExpr:
		v.unsupported(x, "tuple")
	case *syntax.ArrayExpr:
		v.unsupported(x, "array")
	case *syntax.FieldExpr:
		v.unsupported(x, "field access")
	case *syntax.IndexExpr:
		v.unsupported(x, "index expression")
	case *syntax.CastExpr:
		v.unsupported(x, "cast")
	case *syntax.ClosureExpr:
		v.unsupported(x, "closure")
	case *syntax.MacroExpr:
		v.unsupported(x, "macro "+x.Name.Name+"!")
	case *syntax.IfExpr:
		v.nonStraightLine(x, "if")
	case *syntax.LoopExpr:
		v.nonStraightLine(x, x.Tok.String())
	case *syntax.MatchExpr:
		v.nonStraightLine(x, "match")
	case *syntax.BranchExpr:
		v.nonStraightLine(x, x.Tok.String())
	case *syntax.BlockExpr:
		v.unsupported(x, "block")
	default:
		v.unsupported(expr, syntax.String(expr))
	}
}
