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

// Package testgrad provides functions to test forward-mode differentiation.
package testgrad

import (
	"fmt"
	"go/token"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/gx-org/fwdiff/build/syntax"
	"github.com/gx-org/fwdiff/grad"
	"github.com/gx-org/fwdiff/interp"
)

// Func differentiates the functions of a source and compares the result with an expected outcome.
type Func struct {
	// Src declares the functions to differentiate.
	// Functions are differentiated if they are marked with the forward_autodiff attribute.
	Src string

	// Want stores the source code of the expected file.
	Want string

	// Err is the substring expected if the transformer returns an error.
	Err string

	// Evals maps calls, e.g. f(3.0), to their expected result, e.g. (6.0, 2.0).
	// The calls are evaluated on the output of the transformer.
	Evals map[string]string

	// Options passed to the transformer.
	Options []grad.Option
}

// Filename used when parsing test sources.
const Filename = "input.fwd"

// Run the test: differentiate the source code, then compare with the expected outcome.
func (tt Func) Run() error {
	fset := token.NewFileSet()
	file, err := syntax.ParseFile(fset, Filename, []byte(tt.Src))
	if err != nil {
		return errors.Errorf("cannot parse source:\n%v", err)
	}
	out, err := grad.ForwardFile(fset, file, tt.Options...)
	if err != nil {
		return CheckError(tt.Err, err)
	}
	if tt.Err != "" {
		return errors.Errorf("expected error %q but got no error", tt.Err)
	}
	if err := CompareString(syntax.String(out), tt.Want); err != nil {
		return err
	}
	itp, err := interp.New(fset, out)
	if err != nil {
		return err
	}
	for call, want := range tt.Evals {
		got, err := itp.Eval(call)
		if err != nil {
			return errors.Errorf("cannot evaluate %s:\n%+v", call, err)
		}
		if gotS := interp.Format(got); gotS != want {
			return errors.Errorf("%s = %s but want %s", call, gotS, want)
		}
	}
	return nil
}

// Run all the tests.
func Run(t *testing.T, tests ...Func) {
	t.Helper()
	for i, test := range tests {
		if err := test.Run(); err != nil {
			t.Errorf("test %d: %+v\nsource:\n%s", i, err, numbered(test.Src))
		}
	}
}

// CompareString compares two source codes ignoring leading and trailing spaces.
// Returns nil if want is empty.
func CompareString(got, want string) error {
	if want == "" {
		return nil
	}
	got, want = strings.TrimSpace(got), strings.TrimSpace(want)
	if got == want {
		return nil
	}
	return errors.Errorf("incorrect output:\n%s\nwant:\n%s\ndiff (-want +got):\n%s", got, want, cmp.Diff(want, got))
}

// CheckError returns nil if the error contains a substring, the error itself otherwise.
func CheckError(want string, err error) error {
	if want == "" {
		return errors.Errorf("unexpected error:\n%+v", err)
	}
	if !strings.Contains(err.Error(), want) {
		return errors.Errorf("got error:\n%v\nbut want an error containing:\n%s", err, want)
	}
	return nil
}

func numbered(src string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		lines[i] = fmt.Sprintf("%3d %s", i+1, line)
	}
	return strings.Join(lines, "\n")
}
