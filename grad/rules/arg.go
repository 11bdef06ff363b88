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

package rules

import (
	"strings"

	"github.com/gx-org/fwdiff/build/fmterr"
	"github.com/gx-org/fwdiff/build/kind"
	"github.com/gx-org/fwdiff/build/syntax"
	"github.com/gx-org/fwdiff/internal/base/scope"
)

// Arg is an operand of a primitive operation: a reference to a bound name or a literal.
type Arg struct {
	Expr syntax.Expr // *syntax.Ident or *syntax.BasicLit
	Kind kind.Kind
}

// NewArg returns the operand given its expression.
// The type of a name is looked up in types.
// Literals without suffix have a number kind until they are resolved.
func NewArg(errs *fmterr.Appender, x syntax.Expr, types scope.Scope[kind.Kind]) (Arg, bool) {
	switch xT := x.(type) {
	case *syntax.Ident:
		tp, ok := types.Find(xT.Name)
		if !ok {
			return Arg{}, errs.AppendInternalf(x, "%s has no type", xT.Name)
		}
		return Arg{Expr: xT, Kind: tp}, tp != kind.Invalid
	case *syntax.BasicLit:
		tp, err := kind.OfLiteral(xT.Value)
		if err != nil {
			return Arg{}, errs.AppendAt(fmterr.UnsupportedType, x, err)
		}
		return Arg{Expr: xT, Kind: tp}, true
	}
	return Arg{}, errs.AppendInternalf(x, "%s is not a name or a literal", syntax.String(x))
}

// Name returns the name referenced by the operand or an empty string for a literal.
func (a Arg) Name() string {
	ident, ok := a.Expr.(*syntax.Ident)
	if !ok {
		return ""
	}
	return ident.Name
}

// IsLiteral returns true if the operand is a literal.
func (a Arg) IsLiteral() bool {
	_, ok := a.Expr.(*syntax.BasicLit)
	return ok
}

// Resolve returns the operand with a concrete type.
// A literal without suffix takes the kind as a suffix.
func (a Arg) Resolve(k kind.Kind) Arg {
	if !a.Kind.IsNumber() || !k.IsConcrete() {
		return a
	}
	lit, ok := a.Expr.(*syntax.BasicLit)
	if !ok {
		return a
	}
	return Arg{
		Expr: &syntax.BasicLit{ValuePos: lit.ValuePos, Value: TypedLiteral(lit.Value, k)},
		Kind: k,
	}
}

// TypedLiteral appends a type suffix to the text of a literal without suffix.
func TypedLiteral(text string, k kind.Kind) string {
	if strings.HasSuffix(text, ".") {
		text += "0"
	}
	return text + k.Suffix()
}
