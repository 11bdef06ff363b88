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

// Package interp evaluates functions of the numeric language.
//
// The interpreter is used to check the functions generated by the differentiator:
//
//	itp, err := interp.New(fset, file)
//	...
//	out, err := itp.Call("f", interp.Float64(3))
//	// out is (6.0, 2.0)
package interp

import (
	"go/token"

	"github.com/gx-org/fwdiff/build/fmterr"
	"github.com/gx-org/fwdiff/build/kind"
	"github.com/gx-org/fwdiff/build/syntax"
	"github.com/gx-org/fwdiff/internal/base/scope"
)

// Interpreter evaluates the functions of a file.
type Interpreter struct {
	fset  *token.FileSet
	funcs map[string]*syntax.FuncDecl
}

// New returns an interpreter for the functions of a file.
func New(fset *token.FileSet, file *syntax.File) (*Interpreter, error) {
	itp := &Interpreter{
		fset:  fset,
		funcs: make(map[string]*syntax.FuncDecl),
	}
	errs := &fmterr.Errors{}
	app := errs.NewAppender(fset)
	for _, fn := range file.Funcs {
		if _, ok := itp.funcs[fn.Name.Name]; ok {
			app.Appendf(fmterr.Unsupported, fn.Name, "%s redeclared in this file", fn.Name.Name)
			continue
		}
		itp.funcs[fn.Name.Name] = fn
	}
	if !errs.Empty() {
		return nil, errs
	}
	return itp, nil
}

// Call calls a function given its name.
// The elements of a tuple returned by the function are returned as a slice.
func (itp *Interpreter) Call(name string, args ...Value) ([]Value, error) {
	fn, ok := itp.funcs[name]
	if !ok {
		return nil, fmterr.Errorf(itp.fset, fmterr.Runtime, posNode(token.NoPos), "undefined function %s", name)
	}
	out, err := itp.call(fn, args, 0)
	if err != nil {
		return nil, err
	}
	if out.IsTuple() {
		return out.Elements(), nil
	}
	return []Value{out}, nil
}

// Eval evaluates a call expression, e.g. f(3.0, 2), and returns the result of the call.
// Arguments are constant expressions.
func (itp *Interpreter) Eval(src string) ([]Value, error) {
	expr, err := syntax.ParseExprFrom(itp.fset, "<eval>", src)
	if err != nil {
		return nil, err
	}
	call, ok := expr.(*syntax.CallExpr)
	if !ok {
		return nil, fmterr.Errorf(itp.fset, fmterr.Unsupported, expr, "%s is not a function call", src)
	}
	fun, ok := call.Fun.(*syntax.Ident)
	if !ok {
		return nil, fmterr.Errorf(itp.fset, fmterr.Unsupported, call.Fun, "%s is not a function name", syntax.String(call.Fun))
	}
	consts := &frame{itp: itp, vars: scope.NewScope[Value](nil)}
	args, err := consts.evalExprs(call.Args)
	if err != nil {
		return nil, err
	}
	return itp.Call(fun.Name, args...)
}

func (itp *Interpreter) call(fn *syntax.FuncDecl, args []Value, depth int) (Value, error) {
	f := &frame{itp: itp, vars: scope.NewScope[Value](nil), depth: depth}
	if len(args) != len(fn.Params) {
		return Value{}, f.errorf(fn.Name, "function %s takes %d argument(s) but %d were supplied", fn.Name.Name, len(fn.Params), len(args))
	}
	for i, param := range fn.Params {
		arg, err := f.convert(param.Type, args[i])
		if err != nil {
			return Value{}, err
		}
		f.vars.Define(param.Name.Name, arg)
	}
	out, _, err := f.evalBlockStmt(fn.Body)
	if err != nil {
		return Value{}, err
	}
	if fn.Result == nil {
		return out, nil
	}
	return f.convert(fn.Result, out)
}

type posNode token.Pos

func (p posNode) Pos() token.Pos { return token.Pos(p) }
func (p posNode) End() token.Pos { return token.Pos(p) }

// ScalarKind returns the kind of a type expression or kind.Invalid if the type is not a scalar type.
func ScalarKind(tp syntax.Expr) kind.Kind {
	ident, ok := tp.(*syntax.Ident)
	if !ok {
		return kind.Invalid
	}
	return kind.FromString(ident.Name)
}
