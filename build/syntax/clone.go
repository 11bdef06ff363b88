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
	"reflect"

	"github.com/pkg/errors"
	"github.com/gx-org/fwdiff/build/fmterr"
)

// Transform returns a replacement for an expression, or nil to clone the expression as is.
type Transform func(Expr) Expr

type cloner struct {
	transform Transform
	errs      fmterr.Errors
}

func (cl *cloner) exprs(xs []Expr) []Expr {
	if xs == nil {
		return nil
	}
	out := make([]Expr, len(xs))
	for i, x := range xs {
		out[i] = cl.expr(x)
	}
	return out
}

func (cl *cloner) expr(x Expr) Expr {
	if x == nil {
		return nil
	}
	if cl.transform != nil {
		if out := cl.transform(x); out != nil {
			return out
		}
	}
	switch xT := x.(type) {
	case *Ident:
		o := *xT
		return &o
	case *BasicLit:
		o := *xT
		return &o
	case *Path:
		o := Path{Segments: make([]*Ident, len(xT.Segments))}
		for i, seg := range xT.Segments {
			segCopy := *seg
			o.Segments[i] = &segCopy
		}
		return &o
	case *BinaryExpr:
		o := *xT
		o.X = cl.expr(xT.X)
		o.Y = cl.expr(xT.Y)
		return &o
	case *UnaryExpr:
		o := *xT
		o.X = cl.expr(xT.X)
		return &o
	case *ParenExpr:
		o := *xT
		o.X = cl.expr(xT.X)
		return &o
	case *TupleExpr:
		o := *xT
		o.Elts = cl.exprs(xT.Elts)
		return &o
	case *TupleType:
		o := *xT
		o.Elts = cl.exprs(xT.Elts)
		return &o
	case *CallExpr:
		o := *xT
		o.Fun = cl.expr(xT.Fun)
		o.Args = cl.exprs(xT.Args)
		return &o
	case *MethodCallExpr:
		o := *xT
		o.Recv = cl.expr(xT.Recv)
		method := *xT.Method
		o.Method = &method
		o.Args = cl.exprs(xT.Args)
		return &o
	case *CastExpr:
		o := *xT
		o.X = cl.expr(xT.X)
		o.Type = cl.expr(xT.Type)
		return &o
	}
	cl.errs.Append(errors.Errorf("%T not supported", x))
	return x
}

// Clone an expression, potentially replacing some of its subexpressions.
// Only the expressions of straight-line code can be cloned.
func Clone[T Expr](x T, transform Transform) (outT T, err error) {
	cl := &cloner{transform: transform}
	out := cl.expr(x)
	outT, ok := out.(T)
	if !ok {
		cl.errs.Append(errors.Errorf("cannot cast %T to %s", out, reflect.TypeFor[T]().String()))
	}
	if cl.errs.Empty() {
		return outT, nil
	}
	return outT, fmt.Errorf("cannot clone expression %s:\n%+v", String(x), cl.errs.ToError())
}

// StripParens is a transform removing all the parentheses of an expression.
// The printer adds back the parentheses required by operator precedence.
func StripParens(cl Transform) Transform {
	var strip Transform
	strip = func(x Expr) Expr {
		if cl != nil {
			if out := cl(x); out != nil {
				return out
			}
		}
		paren, ok := x.(*ParenExpr)
		if !ok {
			return nil
		}
		out, _ := Clone(Unparen(paren), strip)
		return out
	}
	return strip
}
