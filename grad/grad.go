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

// Package grad generates the forward-mode derivative of straight-line numeric functions.
//
// Given a function
//
//	#[forward_autodiff]
//	fn f(x: f64, y: f64) -> f64 {
//	    let a = x * y;
//	    return a.sin();
//	}
//
// the transformer rewrites it into canonical form and inserts, after each binding, the
// binding of the partial derivatives of the bound value with respect to all the inputs.
// The function then returns its result with the partial derivatives of the result:
//
//	fn f(x: f64, y: f64) -> (f64, f64, f64) {
//	    let a = x * y;
//	    let (__d_a__x, __d_a__y) = (y, x);
//	    let t0 = a.sin();
//	    let (__d_t0__x, __d_t0__y) = (a.cos() * __d_a__x, a.cos() * __d_a__y);
//	    return (t0, __d_t0__x, __d_t0__y);
//	}
package grad

import (
	"go/token"

	"github.com/gx-org/fwdiff/build/canonical"
	"github.com/gx-org/fwdiff/build/fmterr"
	"github.com/gx-org/fwdiff/build/syntax"
	"github.com/gx-org/fwdiff/grad/rules"
)

// Attribute marks the functions to differentiate in a file.
const Attribute = "forward_autodiff"

type (
	// Option of the transformer.
	Option func(*transformer)

	transformer struct {
		table *rules.Table
		name  func(string) string
	}
)

// WithRules sets the rule table used to differentiate primitive operations.
// The default is rules.Default().
func WithRules(table *rules.Table) Option {
	return func(t *transformer) {
		t.table = table
	}
}

// WithName sets the function computing the name of the output function
// given the name of the input function. By default, the name is kept.
func WithName(name func(string) string) Option {
	return func(t *transformer) {
		t.name = name
	}
}

func newTransformer(opts []Option) *transformer {
	t := &transformer{
		table: rules.Default(),
		name:  func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Forward returns the function computing the result of a function
// together with the partial derivatives of the result with respect to all its inputs.
// The input function is not modified.
func Forward(fset *token.FileSet, fn *syntax.FuncDecl, opts ...Option) (*syntax.FuncDecl, error) {
	errs := &fmterr.Errors{}
	out := newTransformer(opts).forward(errs.NewAppender(fset), fn)
	return out, errs.ToError()
}

// Canonical validates a function and returns its canonical form.
func Canonical(fset *token.FileSet, fn *syntax.FuncDecl) (*syntax.FuncDecl, error) {
	errs := &fmterr.Errors{}
	v := &validator{errs: errs.NewAppender(fset)}
	if _, ok := v.signature(fn); !ok || !v.body(fn) {
		return nil, errs
	}
	return canonical.Func(fset, fn)
}

// ForwardFile returns a copy of a file in which all the functions with the forward_autodiff
// attribute have been replaced by their derivative. Other functions are kept unchanged.
// Errors of all the functions are reported.
func ForwardFile(fset *token.FileSet, file *syntax.File, opts ...Option) (*syntax.File, error) {
	t := newTransformer(opts)
	errs := &fmterr.Errors{}
	app := errs.NewAppender(fset)
	out := &syntax.File{Name: file.Name, Funcs: make([]*syntax.FuncDecl, len(file.Funcs))}
	for i, fn := range file.Funcs {
		out.Funcs[i] = fn
		if !HasAttribute(fn) {
			continue
		}
		if dfn := t.forward(app, fn); dfn != nil {
			out.Funcs[i] = dfn
		}
	}
	if !errs.Empty() {
		return nil, errs
	}
	return out, nil
}

// HasAttribute returns true if a function is marked to be differentiated.
func HasAttribute(fn *syntax.FuncDecl) bool {
	for _, attr := range fn.Attrs {
		if attr.Name.Name == Attribute {
			return true
		}
	}
	return false
}

func (t *transformer) forward(errs *fmterr.Appender, fn *syntax.FuncDecl) *syntax.FuncDecl {
	v := &validator{errs: errs}
	sig, sigOk := v.signature(fn)
	if !v.body(fn) || !sigOk {
		return nil
	}
	cfn, err := canonical.Func(errs.FSet(), fn)
	if err != nil {
		errs.Append(err)
		return nil
	}
	fp := newForwardPass(errs, t.table, sig, cfn)
	body, ok := fp.process(cfn)
	if !ok {
		return nil
	}
	result := &syntax.TupleType{Elts: []syntax.Expr{cfn.Result}}
	for range fp.inputs {
		result.Elts = append(result.Elts, &syntax.Ident{Name: sig.result.String()})
	}
	out := &syntax.FuncDecl{
		Fn:     fn.Fn,
		Name:   &syntax.Ident{NamePos: fn.Name.NamePos, Name: t.name(fn.Name.Name)},
		Params: fn.Params,
		Result: result,
		Body:   body,
	}
	if !checkForward(errs, out) {
		return nil
	}
	return out
}

// checkForward checks that all the names of a differentiated function are bound once
// before being referenced.
func checkForward(errs *fmterr.Appender, fn *syntax.FuncDecl) bool {
	numErrs := errs.Len()
	bound := make(map[string]bool)
	define := func(ident *syntax.Ident) {
		if bound[ident.Name] {
			errs.AppendInternalf(ident, "%s bound more than once", ident.Name)
		}
		bound[ident.Name] = true
	}
	var refs func(syntax.Node) bool
	refs = func(node syntax.Node) bool {
		switch x := node.(type) {
		case *syntax.Ident:
			if !bound[x.Name] {
				errs.AppendInternalf(x, "%s referenced before being bound", x.Name)
			}
		case *syntax.Path:
			return false
		case *syntax.CallExpr:
			for _, arg := range x.Args {
				syntax.Inspect(arg, refs)
			}
			return false
		case *syntax.MethodCallExpr:
			syntax.Inspect(x.Recv, refs)
			for _, arg := range x.Args {
				syntax.Inspect(arg, refs)
			}
			return false
		case *syntax.CastExpr:
			syntax.Inspect(x.X, refs)
			return false
		}
		return true
	}
	for _, param := range fn.Params {
		define(param.Name)
	}
	for _, stmt := range fn.Body.List {
		switch s := stmt.(type) {
		case *syntax.LetStmt:
			syntax.Inspect(s.Value, refs)
			for _, name := range s.Names {
				define(name)
			}
		case *syntax.ReturnStmt:
			syntax.Inspect(s.Result, refs)
		}
	}
	return errs.Len() == numErrs
}
