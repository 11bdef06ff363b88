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

package interp_test

import (
	"go/token"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/gx-org/fwdiff/build/fmterr"
	"github.com/gx-org/fwdiff/build/kind"
	"github.com/gx-org/fwdiff/build/syntax"
	"github.com/gx-org/fwdiff/interp"
)

func newInterpreter(t *testing.T, src string) *interp.Interpreter {
	t.Helper()
	fset := token.NewFileSet()
	file, err := syntax.ParseFile(fset, "test.fwd", []byte(src))
	require.NoError(t, err)
	itp, err := interp.New(fset, file)
	require.NoError(t, err)
	return itp
}

func TestEval(t *testing.T) {
	const src = `
fn f(x: f64) -> (f64, f64) {
    let a = 2.0 * x;
    let __d_a__x = 2.0f64;
    return (a, __d_a__x);
}

fn q(x: u16, y: u16) -> (u16, u16, u16) {
    let a = x * y;
    let (__d_a__x, __d_a__y) = (y, x);
    return (a, __d_a__x, __d_a__y);
}

fn wrap(x: u8) -> u8 {
    return x * 2 + 1u8;
}

fn neg(x: i8) -> i8 {
    return 0i8 - x - 1;
}

fn half(x: f32) -> f32 {
    return x / 3.0;
}

fn cast(x: f64) -> (i32, u8, f32) {
    return (x as i32, x as u8, x as f32);
}

fn methods(x: f64) -> (f64, f64, f64, f64) {
    return (x.powi(2), f64::powf(x, 0.5), x.mul_add(2.0, 1.0), 4f64.sqrt());
}

fn tail(x: i64) -> i64 {
    let y = x.pow(3);
    y / 2
}

fn call(x: f64) -> f64 {
    let (a, _b) = f(x);
    return a + 1.0;
}

fn block(x: i32) -> i32 {
    let y = {
        let z = x * 2;
        z + 1
    };
    return y;
}
`
	itp := newInterpreter(t, src)
	tests := []struct {
		call string
		want string
	}{
		{call: "f(3.0)", want: "(6.0, 2.0)"},
		{call: "q(3, 4)", want: "(12, 4, 3)"},
		{call: "wrap(200)", want: "(145,)"},
		{call: "neg(-128)", want: "(127,)"},
		{call: "half(1.0)", want: "(0.33333334,)"},
		{call: "cast(-1.5)", want: "(-1, 0, -1.5)"},
		{call: "cast(1e10)", want: "(2147483647, 255, 1e+10)"},
		{call: "methods(4.0)", want: "(16.0, 2.0, 9.0, 2.0)"},
		{call: "tail(5)", want: "(62,)"},
		{call: "call(0.5)", want: "(2.0,)"},
		{call: "block(20)", want: "(41,)"},
	}
	for _, test := range tests {
		got, err := itp.Eval(test.call)
		if err != nil {
			t.Errorf("%s: %+v", test.call, err)
			continue
		}
		if got := interp.Format(got); got != test.want {
			t.Errorf("%s = %s but want %s", test.call, got, test.want)
		}
	}
}

func TestCall(t *testing.T) {
	itp := newInterpreter(t, `
fn g(x: f64, y: f32) -> f64 {
    return x.sin() * y as f64;
}
`)
	out, err := itp.Call("g", interp.Float64(math.Pi/2), interp.Float32(3))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, kind.Float64, out[0].Kind())
	assert.InDelta(t, 3.0, out[0].Float(), 1e-12)
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		text string
		kind kind.Kind
		want string
	}{
		{text: "3.0", kind: kind.NumberFloat, want: "3.0"},
		{text: "7u16", kind: kind.Uint16, want: "7"},
		{text: "-2f32", kind: kind.Float32, want: "-2.0"},
		{text: "1_000i64", kind: kind.Int64, want: "1000"},
		{text: "1e3", kind: kind.NumberFloat, want: "1000.0"},
	}
	for _, test := range tests {
		got, err := interp.Literal(test.text)
		if err != nil {
			t.Errorf("%s: %v", test.text, err)
			continue
		}
		if got.Kind() != test.kind {
			t.Errorf("%s: got kind %s but want %s", test.text, got.Kind(), test.kind)
		}
		if got.String() != test.want {
			t.Errorf("%s: got %s but want %s", test.text, got, test.want)
		}
	}
	if _, err := interp.Literal("300u8"); err == nil {
		t.Errorf("expected an error for an out of range literal")
	}
}

func TestErrors(t *testing.T) {
	itp := newInterpreter(t, `
fn div(x: u32) -> u32 {
    return x / 0;
}

fn mixed(x: f64, y: f32) -> f64 {
    return x + y;
}

fn method(x: f64) -> f64 {
    return x.foo();
}

fn rec(x: f64) -> f64 {
    return rec(x);
}

fn unit(x: f64) -> f64 {
    let y = x;
}
`)
	tests := []struct {
		call string
		err  string
	}{
		{call: "div(1)", err: "test.fwd:3:12: attempt to divide by zero"},
		{call: "mixed(1.0, 2.0)", err: "test.fwd:7:12: mismatched types: f64 and f32"},
		{call: "method(1.0)", err: "test.fwd:11:12: no method named foo found for f64"},
		{call: "rec(1.0)", err: "maximum call depth"},
		{call: "unit(1.0)", err: "cannot use tuple ()"},
		{call: "undefined(1.0)", err: "undefined function undefined"},
		{call: "div(1.0)", err: "mismatched types: float number and u32"},
		{call: "div(1, 2)", err: "takes 1 argument(s) but 2 were supplied"},
	}
	for _, test := range tests {
		_, err := itp.Eval(test.call)
		if err == nil {
			t.Errorf("%s: expected an error", test.call)
			continue
		}
		if !strings.Contains(err.Error(), test.err) {
			t.Errorf("%s: got error %q but want %q", test.call, err.Error(), test.err)
		}
	}
	_, err := itp.Eval("div(1)")
	if got := fmterr.KindOf(err); got != fmterr.Runtime {
		t.Errorf("got error kind %s but want %s", got, fmterr.Runtime)
	}
}
