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

package canonical

import (
	"go/token"

	"github.com/gx-org/fwdiff/build/fmterr"
	"github.com/gx-org/fwdiff/build/syntax"
)

type checker struct {
	errs  *fmterr.Appender
	bound map[string]bool
}

// Check returns an internal error if a function is not in canonical form.
func Check(fset *token.FileSet, fn *syntax.FuncDecl) error {
	errs := &fmterr.Errors{}
	c := &checker{
		errs:  errs.NewAppender(fset),
		bound: make(map[string]bool),
	}
	for _, param := range fn.Params {
		c.bound[param.Name.Name] = true
	}
	list := fn.Body.List
	if len(list) == 0 {
		c.errs.AppendInternalf(fn.Body, "empty function body")
	}
	for i, stmt := range list {
		c.stmt(stmt, i == len(list)-1)
	}
	return errs.ToError()
}

func (c *checker) stmt(stmt syntax.Stmt, last bool) {
	switch s := stmt.(type) {
	case *syntax.LetStmt:
		if last {
			c.errs.AppendInternalf(s, "function body does not end with a return statement")
		}
		if len(s.Names) != 1 || s.Tuple || s.Mut || s.Type != nil {
			c.errs.AppendInternalf(s, "%s is not a single name binding", syntax.String(s))
			return
		}
		c.primitive(s.Value)
		name := s.Names[0]
		if c.bound[name.Name] {
			c.errs.AppendInternalf(name, "%s bound more than once", name.Name)
		}
		c.bound[name.Name] = true
	case *syntax.ReturnStmt:
		if !last {
			c.errs.AppendInternalf(s, "return statement before the end of the function")
		}
		if _, ok := s.Result.(*syntax.Ident); !ok {
			c.errs.AppendInternalf(s, "%s does not return a single name", syntax.String(s))
			return
		}
		c.atom(s.Result)
	default:
		c.errs.AppendInternalf(stmt, "statement %T not supported in canonical form", stmt)
	}
}

func (c *checker) atom(x syntax.Expr) {
	switch a := x.(type) {
	case *syntax.Ident:
		if !c.bound[a.Name] {
			c.errs.AppendInternalf(a, "%s referenced before being bound", a.Name)
		}
	case *syntax.BasicLit:
	default:
		c.errs.AppendInternalf(x, "operand %s is not a name or a literal", syntax.String(x))
	}
}

func (c *checker) primitive(x syntax.Expr) {
	switch p := x.(type) {
	case *syntax.Ident, *syntax.BasicLit:
		c.atom(p)
	case *syntax.UnaryExpr:
		c.atom(p.X)
	case *syntax.BinaryExpr:
		c.atom(p.X)
		c.atom(p.Y)
	case *syntax.CallExpr:
		switch p.Fun.(type) {
		case *syntax.Ident, *syntax.Path:
		default:
			c.errs.AppendInternalf(p.Fun, "%s is not a function name", syntax.String(p.Fun))
		}
		for _, arg := range p.Args {
			c.atom(arg)
		}
	case *syntax.MethodCallExpr:
		c.atom(p.Recv)
		for _, arg := range p.Args {
			c.atom(arg)
		}
	default:
		c.errs.AppendInternalf(x, "%s is not a primitive operation", syntax.String(x))
	}
}
