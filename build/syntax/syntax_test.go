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

package syntax_test

import (
	"go/token"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/fwdiff/build/fmterr"
	"github.com/gx-org/fwdiff/build/syntax"
)

func TestParseAndPrint(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{
			src: `
#[forward_autodiff]
fn f(x: f64) -> f64 {
	let a = 2.0 * x; return a;
}`,
			want: `
#[forward_autodiff]
fn f(x: f64) -> f64 {
    let a = 2.0 * x;
    return a;
}
`,
		},
		{
			src: `fn g(x: f32, y: f32) -> (f32, f32) { let (a, b) = (x, y,); return (a, b); }`,
			want: `
fn g(x: f32, y: f32) -> (f32, f32) {
    let (a, b) = (x, y);
    return (a, b);
}
`,
		},
		{
			src: `fn h(mut x: f64) -> f64 { x += 1.0; let mut y: f64 = -x.powi(2) as f64; return y; }`,
			want: `
fn h(mut x: f64) -> f64 {
    x += 1.0;
    let mut y: f64 = -x.powi(2) as f64;
    return y;
}
`,
		},
		{
			src: `fn k(x: f64) -> f64 {
	// Comment.
	if x > 0.0 { return x; } else { return -x; }
	/* Another comment. */
	loop { break; }
	let a = f64::sin(x) + x.cos() * (x - 1.0);
	return a;
}

fn l() -> f64 { return 1.0; }
`,
			want: `
fn k(x: f64) -> f64 {
    if x > 0.0 {
        return x;
    } else {
        return -x;
    }
    loop .. {
        break;
    }
    let a = f64::sin(x) + x.cos() * (x - 1.0);
    return a;
}

fn l() -> f64 {
    return 1.0;
}
`,
		},
	}
	for i, test := range tests {
		fset := token.NewFileSet()
		file, err := syntax.ParseFile(fset, "test.fwd", []byte(test.src))
		if err != nil {
			t.Errorf("test %d: cannot parse source:\n%s\nerror: %+v", i, test.src, err)
			continue
		}
		got := syntax.String(file)
		want := strings.TrimPrefix(test.want, "\n")
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("test %d: unexpected source code (-want +got):\n%s", i, diff)
		}
	}
}

func TestParseExpr(t *testing.T) {
	tests := []struct {
		src  string
		want string
		typ  string
	}{
		{src: "a+b*c", want: "a + b * c", typ: "*syntax.BinaryExpr"},
		{src: "(a + b) * c", want: "(a + b) * c", typ: "*syntax.BinaryExpr"},
		{src: "a - (b - c)", want: "a - (b - c)", typ: "*syntax.BinaryExpr"},
		{src: "-2.0f32", want: "-2.0f32", typ: "*syntax.BasicLit"},
		{src: "-x.powi(2)", want: "-x.powi(2)", typ: "*syntax.UnaryExpr"},
		{src: "2.0.powi(2)", want: "2.0.powi(2)", typ: "*syntax.MethodCallExpr"},
		{src: "f64::mul_add(x, y, z)", want: "f64::mul_add(x, y, z)", typ: "*syntax.CallExpr"},
		{src: "x as f64 * 2", want: "x as f64 * 2", typ: "*syntax.BinaryExpr"},
		{src: "t.0", want: "t.0", typ: "*syntax.FieldExpr"},
		{src: "v[1]", want: "v[1]", typ: "*syntax.IndexExpr"},
		{src: "|a, b| a + b", want: "|a, b| a + b", typ: "*syntax.ClosureExpr"},
		{src: "println!(x, 1)", want: "println!(..)", typ: "*syntax.MacroExpr"},
		{src: "(x,)", want: "(x,)", typ: "*syntax.TupleExpr"},
		{src: "[1, 2]", want: "[1, 2]", typ: "*syntax.ArrayExpr"},
		{src: "&x", want: "&x", typ: "*syntax.UnaryExpr"},
	}
	for _, test := range tests {
		x, err := syntax.ParseExpr(test.src)
		if err != nil {
			t.Errorf("cannot parse %q: %v", test.src, err)
			continue
		}
		if got := syntax.String(x); got != test.want {
			t.Errorf("%q: got %q but want %q", test.src, got, test.want)
		}
		if got := typeName(x); got != test.typ {
			t.Errorf("%q: got type %s but want %s", test.src, got, test.typ)
		}
	}
}

func typeName(x syntax.Expr) string {
	switch x.(type) {
	case *syntax.BinaryExpr:
		return "*syntax.BinaryExpr"
	case *syntax.BasicLit:
		return "*syntax.BasicLit"
	case *syntax.UnaryExpr:
		return "*syntax.UnaryExpr"
	case *syntax.MethodCallExpr:
		return "*syntax.MethodCallExpr"
	case *syntax.CallExpr:
		return "*syntax.CallExpr"
	case *syntax.FieldExpr:
		return "*syntax.FieldExpr"
	case *syntax.IndexExpr:
		return "*syntax.IndexExpr"
	case *syntax.ClosureExpr:
		return "*syntax.ClosureExpr"
	case *syntax.MacroExpr:
		return "*syntax.MacroExpr"
	case *syntax.TupleExpr:
		return "*syntax.TupleExpr"
	case *syntax.ArrayExpr:
		return "*syntax.ArrayExpr"
	}
	return "unknown"
}

func TestPrintPrecedence(t *testing.T) {
	ident := func(name string) *syntax.Ident { return &syntax.Ident{Name: name} }
	tests := []struct {
		x    syntax.Expr
		want string
	}{
		{
			x: &syntax.BinaryExpr{
				X:  ident("a"),
				Op: syntax.MUL,
				Y:  &syntax.BinaryExpr{X: ident("b"), Op: syntax.ADD, Y: ident("c")},
			},
			want: "a * (b + c)",
		},
		{
			x: &syntax.BinaryExpr{
				X:  &syntax.BinaryExpr{X: ident("a"), Op: syntax.SUB, Y: ident("b")},
				Op: syntax.SUB,
				Y:  ident("c"),
			},
			want: "a - b - c",
		},
		{
			x: &syntax.MethodCallExpr{
				Recv:   &syntax.BasicLit{Value: "-1.0f64"},
				Method: ident("cos"),
			},
			want: "(-1.0f64).cos()",
		},
		{
			x: &syntax.MethodCallExpr{
				Recv:   &syntax.BinaryExpr{X: ident("x"), Op: syntax.MUL, Y: ident("y")},
				Method: ident("sin"),
			},
			want: "(x * y).sin()",
		},
		{
			x: &syntax.UnaryExpr{
				Op: syntax.SUB,
				X:  &syntax.BinaryExpr{X: ident("a"), Op: syntax.QUO, Y: ident("b")},
			},
			want: "-(a / b)",
		},
	}
	for _, test := range tests {
		if got := syntax.String(test.x); got != test.want {
			t.Errorf("got %q but want %q", got, test.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{
			src:  "fn f() { let a = ; }",
			want: `test.fwd:1:18: expected expression, found ";"`,
		},
		{
			src:  "fn f() {\n  return a\n}",
			want: `test.fwd:3:1: expected ";", found "}"`,
		},
		{
			src:  "fn f() { let a = 1 @ 2; }",
			want: `test.fwd:1:20: illegal character U+0040 '@'`,
		},
		{
			src:  "fn (x: f64) {}",
			want: `test.fwd:1:4: expected identifier, found "("`,
		},
	}
	for _, test := range tests {
		fset := token.NewFileSet()
		_, err := syntax.ParseFile(fset, "test.fwd", []byte(test.src))
		if err == nil {
			t.Errorf("expected an error when parsing %q", test.src)
			continue
		}
		if got := err.Error(); got != test.want {
			t.Errorf("incorrect error for %q:\ngot:  %s\nwant: %s", test.src, got, test.want)
		}
		if kind := fmterr.KindOf(fmterr.All(err)[0]); kind != fmterr.Syntax {
			t.Errorf("incorrect error kind for %q: got %s but want %s", test.src, kind, fmterr.Syntax)
		}
	}
}
