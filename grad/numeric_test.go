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

package grad_test

import (
	"fmt"
	"go/token"
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/gx-org/fwdiff/build/kind"
	"github.com/gx-org/fwdiff/build/syntax"
	"github.com/gx-org/fwdiff/grad"
	"github.com/gx-org/fwdiff/grad/rules"
	"github.com/gx-org/fwdiff/interp"
)

const (
	epsilonGrad = 1e-6
	tolerance   = 1e-5
)

type numericTest struct {
	expr string
	x, y float64
}

var numericTests = []numericTest{
	{expr: "x + y", x: 1.5, y: -0.5},
	{expr: "x - y", x: 1.5, y: -0.5},
	{expr: "x * y", x: 1.5, y: -0.5},
	{expr: "x / y", x: 1.5, y: -0.5},
	{expr: "-x * y", x: 1.5, y: -0.5},
	{expr: "x.powi(3)", x: 1.5},
	{expr: "x.powf(y)", x: 1.5, y: 2.5},
	{expr: "x.sqrt()", x: 2.0},
	{expr: "x.cbrt()", x: 2.0},
	{expr: "x.exp()", x: 0.7},
	{expr: "x.exp2()", x: 0.7},
	{expr: "x.exp_m1()", x: 0.7},
	{expr: "x.ln()", x: 2.0},
	{expr: "x.ln_1p()", x: 2.0},
	{expr: "x.log(y)", x: 2.0, y: 3.0},
	{expr: "x.log10()", x: 2.0},
	{expr: "x.log2()", x: 2.0},
	{expr: "x.sin()", x: 0.7},
	{expr: "x.cos()", x: 0.7},
	{expr: "x.tan()", x: 0.7},
	{expr: "x.asin()", x: 0.3},
	{expr: "x.acos()", x: 0.3},
	{expr: "x.atan()", x: 0.3},
	{expr: "x.sinh()", x: 0.7},
	{expr: "x.cosh()", x: 0.7},
	{expr: "x.tanh()", x: 0.7},
	{expr: "x.asinh()", x: 0.7},
	{expr: "x.acosh()", x: 1.5},
	{expr: "x.atanh()", x: 0.3},
	{expr: "x.hypot(y)", x: 3.0, y: 4.0},
	{expr: "x.to_degrees()", x: 0.7},
	{expr: "x.to_radians()", x: 0.7},
	{expr: "x.abs()", x: -1.2},
	{expr: "x.recip()", x: -1.2},
	{expr: "x.mul_add(y, x)", x: 1.5, y: -0.5},
	{expr: "x.ceil()", x: 1.3},
	{expr: "x.floor()", x: 1.3},
	{expr: "x.round()", x: 1.3},
	{expr: "x.trunc()", x: 1.3},
	{expr: "x.signum()", x: 1.3},
	{expr: "x.fract()", x: 1.3},
	{expr: "f64::sin(x * y)", x: 1.5, y: -0.5},
	{expr: "(x * y).sin().exp() / (x + y.powi(2))", x: 0.4, y: 1.1},
	{expr: "(x.ln() - 2.0 * y).tanh().mul_add(x, y.sqrt())", x: 1.4, y: 0.6},
}

// numericalGradient computes the partial derivatives of fn at (x, y) using central finite differences.
func numericalGradient(t *testing.T, itp *interp.Interpreter, x, y float64) (dx, dy float64) {
	t.Helper()
	eval := func(x, y float64) float64 {
		out, err := itp.Call("f", interp.Float64(x), interp.Float64(y))
		require.NoError(t, err)
		return out[0].Float()
	}
	dx = (eval(x+epsilonGrad, y) - eval(x-epsilonGrad, y)) / (2 * epsilonGrad)
	dy = (eval(x, y+epsilonGrad) - eval(x, y-epsilonGrad)) / (2 * epsilonGrad)
	return dx, dy
}

func newInterpreter(t *testing.T, fset *token.FileSet, fns ...*syntax.FuncDecl) *interp.Interpreter {
	t.Helper()
	itp, err := interp.New(fset, &syntax.File{Funcs: fns})
	require.NoError(t, err)
	return itp
}

func TestNumericalGradient(t *testing.T) {
	for _, test := range numericTests {
		t.Run(test.expr, func(t *testing.T) {
			src := fmt.Sprintf("fn f(x: f64, y: f64) -> f64 { return %s; }", test.expr)
			fset := token.NewFileSet()
			file, err := syntax.ParseFile(fset, "test.fwd", []byte(src))
			require.NoError(t, err)
			fn := file.Funcs[0]
			dfn, err := grad.Forward(fset, fn)
			require.NoError(t, err)

			primal := newInterpreter(t, fset, fn)
			wantDx, wantDy := numericalGradient(t, primal, test.x, test.y)
			out, err := newInterpreter(t, fset, dfn).Call("f", interp.Float64(test.x), interp.Float64(test.y))
			require.NoError(t, err)
			require.Len(t, out, 3)

			value, err := primal.Call("f", interp.Float64(test.x), interp.Float64(test.y))
			require.NoError(t, err)
			assert.Equal(t, value[0].Float(), out[0].Float(), "value")
			assert.InDelta(t, wantDx, out[1].Float(), tolerance*math.Max(1, math.Abs(wantDx)), "d/dx of %s", syntax.String(dfn))
			assert.InDelta(t, wantDy, out[2].Float(), tolerance*math.Max(1, math.Abs(wantDy)), "d/dy of %s", syntax.String(dfn))
		})
	}
}

// TestNumericalCoverage checks that all the f64 methods of the default table are checked numerically.
func TestNumericalCoverage(t *testing.T) {
	tested := make(map[string]bool)
	methodRe := regexp.MustCompile(`\.([a-z0-9_]+)\(`)
	for _, test := range numericTests {
		for _, match := range methodRe.FindAllStringSubmatch(test.expr, -1) {
			tested[match[1]] = true
		}
	}
	for rule := range rules.Default().Rules() {
		if rule.Key.Kind != rules.Method || rule.Key.Types[0] != kind.Float64 {
			continue
		}
		if !tested[rule.Key.Name] {
			t.Errorf("rule %s has no numerical test", rule.Key)
		}
	}
}
