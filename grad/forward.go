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
	"github.com/gx-org/fwdiff/build/fmterr"
	"github.com/gx-org/fwdiff/build/kind"
	"github.com/gx-org/fwdiff/build/syntax"
	"github.com/gx-org/fwdiff/grad/rules"
	"github.com/gx-org/fwdiff/internal/base/scope"
)

// forwardPass interleaves the bindings of a canonical function with the bindings
// of their partial derivatives with respect to all the function inputs.
type forwardPass struct {
	errs     *fmterr.Appender
	table    *rules.Table
	sig      *signature
	inputs   []rules.Input
	types    *scope.RWScope[kind.Kind]
	literals map[string]kind.Kind
	body     []syntax.Stmt
}

func newForwardPass(errs *fmterr.Appender, table *rules.Table, sig *signature, fn *syntax.FuncDecl) *forwardPass {
	fp := &forwardPass{
		errs:   errs,
		table:  table,
		sig:    sig,
		inputs: make([]rules.Input, len(fn.Params)),
		types:  scope.NewScope[kind.Kind](nil),
	}
	for i, param := range fn.Params {
		fp.inputs[i] = rules.Input{Name: param.Name.Name, Kind: sig.params[i]}
		fp.types.Define(param.Name.Name, sig.params[i])
	}
	fp.literals = inferLiteralTypes(table, sig, fn)
	return fp
}

func (fp *forwardPass) process(fn *syntax.FuncDecl) (*syntax.BlockStmt, bool) {
	numErrs := fp.errs.Len()
	for _, stmt := range fn.Body.List {
		switch s := stmt.(type) {
		case *syntax.LetStmt:
			fp.let(s)
		case *syntax.ReturnStmt:
			fp.ret(s)
		default:
			fp.errs.AppendInternalf(stmt, "statement %T not supported in canonical form", stmt)
		}
	}
	if fp.errs.Len() > numErrs {
		return nil, false
	}
	return &syntax.BlockStmt{
		Lbrace: fn.Body.Lbrace,
		List:   fp.body,
		Rbrace: fn.Body.Rbrace,
	}, true
}

func (fp *forwardPass) let(s *syntax.LetStmt) {
	name := s.Names[0].Name
	tp, deriv, ok := fp.binding(name, s.Value)
	fp.types.Define(name, tp)
	fp.body = append(fp.body, s)
	if !ok || len(fp.inputs) == 0 {
		return
	}
	deriv.Let = s.Let
	deriv.Semi = s.Semi
	fp.body = append(fp.body, deriv)
}

// binding returns the type of a binding and the binding of its partial derivatives.
// It returns false if the binding depends on a binding that failed,
// or if an error has been reported.
func (fp *forwardPass) binding(name string, value syntax.Expr) (kind.Kind, *syntax.LetStmt, bool) {
	switch x := value.(type) {
	case *syntax.Ident:
		tp := fp.typeOfName(name, x)
		if tp == kind.Invalid {
			return kind.Invalid, nil, false
		}
		src := rules.Arg{Expr: x, Kind: tp}
		values := make([]syntax.Expr, len(fp.inputs))
		for i, input := range fp.inputs {
			values[i] = rules.PartialOf(src, input, fp.inputs)
		}
		return tp, rules.Bind(fp.inputs, name, values), true
	case *syntax.BasicLit:
		tp, err := kind.OfLiteral(x.Value)
		if err != nil {
			return kind.Invalid, nil, fp.errs.AppendAt(fmterr.UnsupportedType, x, err)
		}
		if tp.IsNumber() {
			tp = fp.literalType(name, tp)
		}
		values := make([]syntax.Expr, len(fp.inputs))
		for i := range fp.inputs {
			values[i] = rules.Zero(tp)
		}
		return tp, rules.Bind(fp.inputs, name, values), true
	}
	return fp.operation(name, value)
}

func (fp *forwardPass) typeOfName(name string, src *syntax.Ident) kind.Kind {
	tp, ok := fp.types.Find(src.Name)
	if !ok {
		fp.errs.AppendInternalf(src, "%s has no type", src.Name)
		return kind.Invalid
	}
	if tp.IsNumber() {
		return fp.literalType(name, tp)
	}
	return tp
}

func (fp *forwardPass) literalType(name string, tp kind.Kind) kind.Kind {
	if lit, ok := fp.literals[name]; ok {
		return lit
	}
	return tp.Default()
}

func (fp *forwardPass) operation(name string, value syntax.Expr) (kind.Kind, *syntax.LetStmt, bool) {
	var args []rules.Arg
	allOk := true
	operands, key, ok := keyOf(value, func(x syntax.Expr) kind.Kind {
		arg, argOk := rules.NewArg(fp.errs, x, fp.types)
		args = append(args, arg)
		allOk = allOk && argOk
		return arg.Kind
	})
	if !ok {
		return kind.Invalid, nil, fp.errs.AppendInternalf(value, "%s is not a primitive operation", syntax.String(value))
	}
	if !allOk {
		return kind.Invalid, nil, false
	}
	if len(args) != len(operands) {
		return kind.Invalid, nil, fp.errs.AppendInternalf(value, "got %d operand types for %d operands", len(args), len(operands))
	}
	rule, found := fp.table.Resolve(key)
	if !found {
		return kind.Invalid, nil, fp.errs.Appendf(fmterr.UnsupportedOperation, value, "unsupported derivative for %s", key.Defaults())
	}
	deriv, err := rule.Synthesize(fp.inputs, name, args)
	if err != nil {
		return kind.Invalid, nil, fp.errs.AppendAt(fmterr.InternalInvariant, value, fmterr.Internal(err))
	}
	return rule.Output, deriv, true
}

// ret rewrites the return statement to return the value with its partial derivatives:
//
//	return (r, __d_r__x1, ..., __d_r__xn);
func (fp *forwardPass) ret(s *syntax.ReturnStmt) {
	result, ok := s.Result.(*syntax.Ident)
	if !ok {
		fp.errs.AppendInternalf(s, "%s does not return a single name", syntax.String(s))
		return
	}
	tp, ok := fp.types.Find(result.Name)
	if !ok {
		fp.errs.Appendf(fmterr.MalformedReturn, result, "return of unbound name %s", result.Name)
		return
	}
	if tp == kind.Invalid {
		// An error has already been reported for the binding.
		return
	}
	if tp != fp.sig.result {
		fp.errs.Appendf(fmterr.MalformedReturn, result, "cannot return %s of type %s from a function returning %s", result.Name, tp, fp.sig.result)
		return
	}
	value := rules.Arg{Expr: result, Kind: tp}
	elts := []syntax.Expr{result}
	for _, input := range fp.inputs {
		elts = append(elts, rules.PartialOf(value, input, fp.inputs))
	}
	fp.body = append(fp.body, &syntax.ReturnStmt{
		Return: s.Return,
		Result: &syntax.TupleExpr{Elts: elts},
		Semi:   s.Semi,
	})
}
