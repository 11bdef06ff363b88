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

package interp

import (
	"github.com/gx-org/fwdiff/build/fmterr"
	"github.com/gx-org/fwdiff/build/kind"
	"github.com/gx-org/fwdiff/build/syntax"
	"github.com/gx-org/fwdiff/internal/base/scope"
)

// maxDepth is the maximum number of nested function calls.
const maxDepth = 1000

// frame is the context of a function call.
type frame struct {
	itp   *Interpreter
	vars  *scope.RWScope[Value]
	depth int
}

func (f *frame) errorf(node fmterr.Node, format string, a ...any) error {
	return fmterr.Errorf(f.itp.fset, fmterr.Runtime, node, format, a...)
}

func (f *frame) unsupported(node fmterr.Node, what string) error {
	return fmterr.Errorf(f.itp.fset, fmterr.Unsupported, node, "cannot evaluate %s", what)
}

func (f *frame) at(node fmterr.Node, err error) error {
	if err == nil {
		return nil
	}
	return fmterr.Position(f.itp.fset, fmterr.Runtime, node, err)
}

func (f *frame) evalBlockStmt(body *syntax.BlockStmt) (Value, bool, error) {
	for i, stmt := range body.List {
		out, stop, err := f.evalStmt(stmt, i == len(body.List)-1)
		if err != nil || stop {
			return out, stop, err
		}
	}
	return Tuple(), false, nil
}

// evalStmt evaluates a statement. It returns true if the statement returns from the function.
func (f *frame) evalStmt(stmt syntax.Stmt, last bool) (Value, bool, error) {
	switch s := stmt.(type) {
	case *syntax.LetStmt:
		return Value{}, false, f.evalLetStmt(s)
	case *syntax.ReturnStmt:
		if s.Result == nil {
			return Tuple(), true, nil
		}
		out, err := f.evalExpr(s.Result)
		return out, true, err
	case *syntax.ExprStmt:
		out, err := f.evalExpr(s.X)
		return out, last && !s.Semi.IsValid(), err
	}
	return Value{}, false, f.unsupported(stmt, "statement "+syntax.String(stmt))
}

func (f *frame) evalLetStmt(s *syntax.LetStmt) error {
	val, err := f.evalExpr(s.Value)
	if err != nil {
		return err
	}
	if s.Type != nil {
		if val, err = f.convert(s.Type, val); err != nil {
			return err
		}
	}
	if !s.Tuple {
		f.vars.Define(s.Names[0].Name, val)
		return nil
	}
	if !val.IsTuple() || len(val.elts) != len(s.Names) {
		return f.errorf(s.Value, "cannot bind %s to %d names", val, len(s.Names))
	}
	for i, name := range s.Names {
		f.vars.Define(name.Name, val.elts[i])
	}
	return nil
}

// convert a value to a type expression: a scalar type or a tuple of types.
func (f *frame) convert(tp syntax.Expr, val Value) (Value, error) {
	switch tpT := tp.(type) {
	case *syntax.Ident:
		k := kind.FromString(tpT.Name)
		if k == kind.Invalid {
			return Value{}, f.unsupported(tp, "type "+tpT.Name)
		}
		out, err := val.convert(k)
		return out, f.at(tp, err)
	case *syntax.TupleType:
		if !val.IsTuple() || len(val.elts) != len(tpT.Elts) {
			return Value{}, f.errorf(tp, "cannot use %s as %s", val, syntax.String(tp))
		}
		elts := make([]Value, len(val.elts))
		for i, elt := range val.elts {
			var err error
			if elts[i], err = f.convert(tpT.Elts[i], elt); err != nil {
				return Value{}, err
			}
		}
		return Tuple(elts...), nil
	}
	return Value{}, f.unsupported(tp, "type "+syntax.String(tp))
}

func (f *frame) evalExprs(xs []syntax.Expr) ([]Value, error) {
	vals := make([]Value, len(xs))
	for i, x := range xs {
		var err error
		if vals[i], err = f.evalExpr(x); err != nil {
			return nil, err
		}
	}
	return vals, nil
}

func (f *frame) evalExpr(expr syntax.Expr) (Value, error) {
	switch x := expr.(type) {
	case *syntax.Ident:
		val, ok := f.vars.Find(x.Name)
		if !ok {
			return Value{}, f.errorf(x, "undefined: %s", x.Name)
		}
		return val, nil
	case *syntax.BasicLit:
		val, err := Literal(x.Value)
		return val, f.at(x, err)
	case *syntax.ParenExpr:
		return f.evalExpr(x.X)
	case *syntax.TupleExpr:
		vals, err := f.evalExprs(x.Elts)
		if err != nil {
			return Value{}, err
		}
		return Tuple(vals...), nil
	case *syntax.UnaryExpr:
		val, err := f.evalExpr(x.X)
		if err != nil {
			return Value{}, err
		}
		val, err = unaryOp(x.Op, val)
		return val, f.at(x, err)
	case *syntax.BinaryExpr:
		return f.evalBinaryExpr(x)
	case *syntax.CastExpr:
		return f.evalCastExpr(x)
	case *syntax.MethodCallExpr:
		recv, err := f.evalExpr(x.Recv)
		if err != nil {
			return Value{}, err
		}
		args, err := f.evalExprs(x.Args)
		if err != nil {
			return Value{}, err
		}
		val, err := callMethod(x.Method.Name, recv, args)
		return val, f.at(x, err)
	case *syntax.CallExpr:
		return f.evalCallExpr(x)
	case *syntax.BlockExpr:
		sub := &frame{itp: f.itp, vars: f.vars.NewChild(), depth: f.depth}
		val, _, err := sub.evalBlockStmt(x.Block)
		return val, err
	}
	return Value{}, f.unsupported(expr, syntax.String(expr))
}

func (f *frame) evalBinaryExpr(x *syntax.BinaryExpr) (Value, error) {
	left, err := f.evalExpr(x.X)
	if err != nil {
		return Value{}, err
	}
	right, err := f.evalExpr(x.Y)
	if err != nil {
		return Value{}, err
	}
	val, err := binaryOp(x.Op, left, right)
	return val, f.at(x, err)
}

func (f *frame) evalCastExpr(x *syntax.CastExpr) (Value, error) {
	val, err := f.evalExpr(x.X)
	if err != nil {
		return Value{}, err
	}
	to := ScalarKind(x.Type)
	if to == kind.Invalid {
		return Value{}, f.unsupported(x.Type, "cast to "+syntax.String(x.Type))
	}
	val, err = val.Cast(to)
	return val, f.at(x, err)
}

// evalCallExpr calls a function of the file or a method called as a free function, e.g. f64::sin(x).
func (f *frame) evalCallExpr(x *syntax.CallExpr) (Value, error) {
	args, err := f.evalExprs(x.Args)
	if err != nil {
		return Value{}, err
	}
	switch fun := x.Fun.(type) {
	case *syntax.Ident:
		fn, ok := f.itp.funcs[fun.Name]
		if !ok {
			return Value{}, f.errorf(fun, "undefined function %s", fun.Name)
		}
		if f.depth >= maxDepth {
			return Value{}, f.errorf(x, "maximum call depth %d exceeded", maxDepth)
		}
		return f.itp.call(fn, args, f.depth+1)
	case *syntax.Path:
		if len(fun.Segments) != 2 || len(args) == 0 {
			break
		}
		recvKind := kind.FromString(fun.Segments[0].Name)
		if recvKind == kind.Invalid {
			break
		}
		recv, err := args[0].convert(recvKind)
		if err != nil {
			return Value{}, f.at(x, err)
		}
		val, err := callMethod(fun.Segments[1].Name, recv, args[1:])
		return val, f.at(x, err)
	}
	return Value{}, f.unsupported(x.Fun, "call to "+syntax.String(x.Fun))
}
