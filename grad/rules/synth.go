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
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/gx-org/fwdiff/build/kind"
	"github.com/gx-org/fwdiff/build/syntax"
)

// Input of a function with respect to which derivatives are computed.
type Input struct {
	Name string
	Kind kind.Kind
}

const placeholderPrefix = "_"

func placeholder(i int) string {
	return placeholderPrefix + strconv.Itoa(i)
}

// literalValue returns the value of a literal expression.
func literalValue(x syntax.Expr) (float64, bool) {
	lit, ok := x.(*syntax.BasicLit)
	if !ok {
		return 0, false
	}
	body, _ := kind.SplitLiteral(lit.Value)
	val, err := strconv.ParseFloat(body, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

func isZero(x syntax.Expr) bool {
	val, ok := literalValue(x)
	return ok && val == 0
}

func isOne(x syntax.Expr) bool {
	val, ok := literalValue(x)
	return ok && val == 1
}

// Zero returns the literal 0 of a given kind.
func Zero(k kind.Kind) syntax.Expr {
	return &syntax.BasicLit{Value: k.Literal(0)}
}

// One returns the literal 1 of a given kind.
func One(k kind.Kind) syntax.Expr {
	return &syntax.BasicLit{Value: k.Literal(1)}
}

// PartialOf returns the partial derivative of an operand with respect to an input.
// If the operand is the input itself, the seed 1 is returned.
// If the operand is another input or a literal, 0 is returned.
func PartialOf(arg Arg, x Input, inputs []Input) syntax.Expr {
	name := arg.Name()
	if name == "" {
		return Zero(arg.Kind)
	}
	if name == x.Name {
		return One(arg.Kind)
	}
	for _, input := range inputs {
		if name == input.Name {
			return Zero(arg.Kind)
		}
	}
	return &syntax.Ident{Name: DerivName(name, x.Name)}
}

func buildMul(x, y syntax.Expr) syntax.Expr {
	switch {
	case isOne(x):
		return y
	case isOne(y):
		return x
	}
	return &syntax.BinaryExpr{X: x, Op: syntax.MUL, Y: y}
}

type term struct {
	x   syntax.Expr
	neg bool
}

func buildNeg(x syntax.Expr) syntax.Expr {
	if lit, ok := x.(*syntax.BasicLit); ok && !strings.HasPrefix(lit.Value, "-") {
		return &syntax.BasicLit{Value: "-" + lit.Value}
	}
	return &syntax.UnaryExpr{Op: syntax.SUB, X: x}
}

// buildSum returns the sum of all the terms, or the seed if there is no term.
// On unsigned types, a subtracted first term is subtracted from the seed.
func buildSum(terms []term, seed syntax.Expr, tp kind.Kind) syntax.Expr {
	if len(terms) == 0 {
		return seed
	}
	var sum syntax.Expr
	first := terms[0]
	switch {
	case !first.neg:
		sum = first.x
	case tp.IsSigned():
		sum = buildNeg(first.x)
	default:
		sum = &syntax.BinaryExpr{X: seed, Op: syntax.SUB, Y: first.x}
	}
	for _, t := range terms[1:] {
		op := syntax.ADD
		if t.neg {
			op = syntax.SUB
		}
		sum = &syntax.BinaryExpr{X: sum, Op: op, Y: t.x}
	}
	return sum
}

func (r *Rule) instantiate(x syntax.Expr, args []Arg) (syntax.Expr, error) {
	return syntax.Clone(x, func(x syntax.Expr) syntax.Expr {
		ident, ok := x.(*syntax.Ident)
		if !ok || !strings.HasPrefix(ident.Name, placeholderPrefix) {
			return nil
		}
		i, err := strconv.Atoi(strings.TrimPrefix(ident.Name, placeholderPrefix))
		if err != nil || i >= len(args) {
			return nil
		}
		return args[i].Expr
	})
}

// Derivative returns the expression of the partial derivative of the result of the operation
// with respect to an input. The operands need to have been resolved.
func (r *Rule) Derivative(x Input, inputs []Input, args []Arg) (syntax.Expr, error) {
	if len(args) != len(r.Partials) {
		return nil, errors.Errorf("rule %s requires %d operands but got %d", r.Key, len(r.Partials), len(args))
	}
	var terms []term
	for i, partial := range r.Partials {
		if partial == nil {
			continue
		}
		dArg := PartialOf(args[i], x, inputs)
		if isZero(dArg) || isZero(partial.Expr) {
			continue
		}
		dOp, err := r.instantiate(partial.Expr, args)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term{x: buildMul(dOp, dArg), neg: partial.Neg})
	}
	seed, err := r.instantiate(r.Seed, args)
	if err != nil {
		return nil, err
	}
	return buildSum(terms, seed, r.Output), nil
}

// ResolveArgs returns the operands with the types of the rule.
func (r *Rule) ResolveArgs(args []Arg) []Arg {
	resolved := make([]Arg, len(args))
	for i, arg := range args {
		resolved[i] = arg
		if i < len(r.Key.Types) {
			resolved[i] = arg.Resolve(r.Key.Types[i])
		}
	}
	return resolved
}

// Synthesize returns the statement binding the partial derivatives of output,
// the result of the operation, with respect to all the inputs:
//
//	let (__d_output__x1, ..., __d_output__xn) = (d1, ..., dn);
func (r *Rule) Synthesize(inputs []Input, output string, args []Arg) (*syntax.LetStmt, error) {
	args = r.ResolveArgs(args)
	values := make([]syntax.Expr, len(inputs))
	for i, input := range inputs {
		var err error
		if values[i], err = r.Derivative(input, inputs, args); err != nil {
			return nil, err
		}
	}
	return Bind(inputs, output, values), nil
}

// Bind returns the statement binding the partial derivatives of a variable
// with respect to all the inputs.
func Bind(inputs []Input, output string, values []syntax.Expr) *syntax.LetStmt {
	names := make([]*syntax.Ident, len(inputs))
	for i, input := range inputs {
		names[i] = &syntax.Ident{Name: DerivName(output, input.Name)}
	}
	if len(inputs) == 1 {
		return &syntax.LetStmt{Names: names, Value: values[0]}
	}
	return &syntax.LetStmt{
		Names: names,
		Tuple: true,
		Value: &syntax.TupleExpr{Elts: values},
	}
}
