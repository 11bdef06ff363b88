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

package fmterr_test

import (
	"fmt"
	"go/token"
	"strings"
	"testing"

	"github.com/gx-org/fwdiff/build/fmterr"
)

type node struct {
	pos, end token.Pos
}

func (n node) Pos() token.Pos { return n.pos }
func (n node) End() token.Pos { return n.end }

func newFile(src string) (*token.FileSet, *token.File) {
	fset := token.NewFileSet()
	file := fset.AddFile("test.fwd", -1, len(src))
	file.SetLinesForContent([]byte(src))
	return fset, file
}

func TestErrorf(t *testing.T) {
	src := "fn f(x: f64) -> f64 {\n    let a = x.atan2(x);\n    return a;\n}\n"
	fset, file := newFile(src)
	off := strings.Index(src, "x.atan2")
	n := node{pos: file.Pos(off), end: file.Pos(off + len("x.atan2(x)"))}
	err := fmterr.Errorf(fset, fmterr.UnsupportedOperation, n, "unsupported derivative for %s", "f64.atan2(f64)")
	want := "test.fwd:2:13: unsupported derivative for f64.atan2(f64)"
	if got := err.Error(); got != want {
		t.Errorf("got %q but want %q", got, want)
	}
	if got := fmterr.KindOf(err); got != fmterr.UnsupportedOperation {
		t.Errorf("got kind %v but want %v", got, fmterr.UnsupportedOperation)
	}
	if got := fmterr.KindOf(fmt.Errorf("wrapped: %w", err)); got != fmterr.UnsupportedOperation {
		t.Errorf("got kind %v for a wrapped error but want %v", got, fmterr.UnsupportedOperation)
	}
}

func TestAppender(t *testing.T) {
	src := "let a = 1;\nlet b = 2;\n"
	fset, file := newFile(src)
	var errs fmterr.Errors
	app := errs.NewAppender(fset)
	if !app.Empty() {
		t.Fatalf("new appender should be empty")
	}
	if app.Errors() != nil {
		t.Errorf("empty appender should return nil errors")
	}
	app.Unsupportedf(node{pos: file.Pos(0), end: file.Pos(3)}, "non-straight-line construct: %s", "loop")
	app.Appendf(fmterr.MalformedReturn, node{pos: file.Pos(11), end: file.Pos(14)}, "missing return")
	if got := app.Len(); got != 2 {
		t.Fatalf("got %d errors but want 2", got)
	}
	got := errs.ToError().Error()
	want := "test.fwd:1:1: non-straight-line construct: loop\ntest.fwd:2:1: missing return"
	if got != want {
		t.Errorf("got:\n%s\nbut want:\n%s", got, want)
	}
	all := fmterr.All(errs.ToError())
	if len(all) != 2 {
		t.Fatalf("got %d errors but want 2", len(all))
	}
	if k := fmterr.KindOf(all[1]); k != fmterr.MalformedReturn {
		t.Errorf("got kind %v but want %v", k, fmterr.MalformedReturn)
	}
}

func TestKindString(t *testing.T) {
	tests := map[fmterr.Kind]string{
		fmterr.Unsupported:          "unsupported",
		fmterr.UnsupportedOperation: "unsupported-operation",
		fmterr.UnsupportedType:      "unsupported-type",
		fmterr.MalformedReturn:      "malformed-return",
		fmterr.InternalInvariant:    "internal",
		fmterr.Syntax:               "syntax",
		fmterr.Runtime:              "runtime",
		fmterr.Kind(0):              "unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("got %q but want %q", got, want)
		}
	}
}
