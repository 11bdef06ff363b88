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

package main

import (
	"go/token"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/fwdiff/build/syntax"
	"github.com/gx-org/fwdiff/grad/rules"
)

const source = `
#[forward_autodiff]
fn f(x: f64) -> f64 {
    let y = 2.0 * x;
    return y;
}

fn g(x: f64) -> f64 {
    return x;
}
`

func TestTransform(t *testing.T) {
	tests := []struct {
		canonical bool
		want      string
	}{
		{
			want: `
fn f(x: f64) -> (f64, f64) {
    let y = 2.0 * x;
    let __d_y__x = 2.0f64;
    return (y, __d_y__x);
}

fn g(x: f64) -> f64 {
    return x;
}
`,
		},
		{
			canonical: true,
			want: `
#[forward_autodiff]
fn f(x: f64) -> f64 {
    let y = 2.0 * x;
    return y;
}

fn g(x: f64) -> f64 {
    return x;
}
`,
		},
	}
	for i, test := range tests {
		fset := token.NewFileSet()
		out, err := transform(fset, "input.fwd", []byte(source), config{table: rules.Default(), canonical: test.canonical})
		if err != nil {
			t.Errorf("test %d: %+v", i, err)
			continue
		}
		got := strings.TrimSpace(syntax.String(out))
		want := strings.TrimSpace(test.want)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("test %d: unexpected output (-want +got):\n%s", i, diff)
		}
	}
}

func TestPrintDiagnostics(t *testing.T) {
	const src = `
#[forward_autodiff]
fn f(x: f64) -> f64 {
    let mut y = x;
    return y;
}
`
	fset := token.NewFileSet()
	_, err := transform(fset, "input.fwd", []byte(src), config{table: rules.Default()})
	if err == nil {
		t.Fatal("expected an error but got nil")
	}
	tests := []struct {
		color bool
		want  string
	}{
		{
			want: "input.fwd:4:5: unsupported construct: mutable binding",
		},
		{
			color: true,
			want:  bold + "input.fwd:4:5:" + reset + " unsupported construct: mutable binding " + red + "[unsupported]" + reset,
		},
	}
	for _, test := range tests {
		var b strings.Builder
		printDiagnostics(&b, err, test.color)
		if !strings.HasPrefix(b.String(), test.want) {
			t.Errorf("color=%t: got %q but want prefix %q", test.color, b.String(), test.want)
		}
	}
}
