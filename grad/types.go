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
	"github.com/gx-org/fwdiff/build/kind"
	"github.com/gx-org/fwdiff/build/syntax"
	"github.com/gx-org/fwdiff/grad/rules"
)

// typeInferer infers the type of bindings of literals without suffix, e.g. let a = 2.0;
// Such a binding takes the type of the first operand it is used for, or the result
// type if it is returned, or the default type of the literal otherwise.
type typeInferer struct {
	table  *rules.Table
	types  map[string]kind.Kind
	hints  map[string]kind.Kind
	idents map[string]string
}

func inferLiteralTypes(table *rules.Table, sig *signature, fn *syntax.FuncDecl) map[string]kind.Kind {
	ti := &typeInferer{
		table:  table,
		types:  make(map[string]kind.Kind),
		hints:  make(map[string]kind.Kind),
		idents: make(map[string]string),
	}
	for i, param := range fn.Params {
		ti.types[param.Name.Name] = sig.params[i]
	}
	var names []string
	for _, stmt := range fn.Body.List {
		switch s := stmt.(type) {
		case *syntax.LetStmt:
			name := s.Names[0].Name
			names = append(names, name)
			ti.types[name] = ti.typeOf(s.Value)
			if src, ok := s.Value.(*syntax.Ident); ok {
				ti.idents[name] = src.Name
			}
		case *syntax.ReturnStmt:
			if ident, ok := s.Result.(*syntax.Ident); ok {
				ti.hint(ident.Name, sig.result)
			}
		}
	}
	// Propagate hints backward through identity bindings.
	for i := len(names) - 1; i >= 0; i-- {
		name := names[i]
		src, ok := ti.idents[name]
		if !ok {
			continue
		}
		if hint, ok := ti.hints[name]; ok {
			ti.hint(src, hint)
		}
	}
	literals := make(map[string]kind.Kind)
	for _, name := range names {
		tp := ti.types[name]
		if !tp.IsNumber() {
			continue
		}
		if src, ok := ti.idents[name]; ok && literals[src] != kind.Invalid {
			// Identity bindings have the type of their source.
			literals[name] = literals[src]
			continue
		}
		if hint, ok := ti.hints[name]; ok && tp.AssignableTo(hint) {
			literals[name] = hint
		} else {
			literals[name] = tp.Default()
		}
	}
	return literals
}

func (ti *typeInferer) hint(name string, tp kind.Kind) {
	if !ti.types[name].IsNumber() {
		return
	}
	if _, done := ti.hints[name]; done {
		return
	}
	ti.hints[name] = tp
}

func (ti *typeInferer) argType(x syntax.Expr) kind.Kind {
	switch xT := x.(type) {
	case *syntax.Ident:
		return ti.types[xT.Name]
	case *syntax.BasicLit:
		tp, _ := kind.OfLiteral(xT.Value)
		return tp
	}
	return kind.Invalid
}

func (ti *typeInferer) typeOf(value syntax.Expr) kind.Kind {
	operands, key, ok := keyOf(value, ti.argType)
	if !ok {
		return ti.argType(value)
	}
	rule, found := ti.table.Resolve(key)
	if !found {
		return kind.Invalid
	}
	for i, operand := range operands {
		if ident, isIdent := operand.(*syntax.Ident); isIdent {
			ti.hint(ident.Name, rule.Key.Types[i])
		}
	}
	return rule.Output
}

// keyOf returns the operands and the rule key of a primitive operation.
// It returns false if the expression is not an operation (that is a name or a literal).
func keyOf(value syntax.Expr, typeOf func(syntax.Expr) kind.Kind) ([]syntax.Expr, rules.Key, bool) {
	types := func(xs []syntax.Expr) []kind.Kind {
		tps := make([]kind.Kind, len(xs))
		for i, x := range xs {
			tps[i] = typeOf(x)
		}
		return tps
	}
	switch x := value.(type) {
	case *syntax.UnaryExpr:
		return []syntax.Expr{x.X}, rules.UnaryKey(x.Op.String(), typeOf(x.X)), true
	case *syntax.BinaryExpr:
		return []syntax.Expr{x.X, x.Y}, rules.BinaryKey(x.Op.String(), typeOf(x.X), typeOf(x.Y)), true
	case *syntax.CallExpr:
		var path string
		switch fun := x.Fun.(type) {
		case *syntax.Path:
			path = fun.String()
		case *syntax.Ident:
			path = fun.Name
		}
		return x.Args, rules.FuncKey(path, types(x.Args)...), true
	case *syntax.MethodCallExpr:
		operands := append([]syntax.Expr{x.Recv}, x.Args...)
		tps := types(operands)
		return operands, rules.MethodKey(x.Method.Name, tps[0], tps[1:]...), true
	}
	return nil, rules.Key{}, false
}
