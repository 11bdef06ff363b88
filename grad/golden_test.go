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
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
	"github.com/gx-org/fwdiff/grad/testgrad"
)

// goldenTest reads a test from a txtar archive with the following files:
//
//	input.fwd: the source to differentiate,
//	want.fwd:  the expected output,
//	errors:    the expected errors,
//	eval:      lines call = result evaluated on the output.
func goldenTest(t *testing.T, path string) testgrad.Func {
	t.Helper()
	ar, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var test testgrad.Func
	for _, file := range ar.Files {
		data := string(file.Data)
		switch file.Name {
		case "input.fwd":
			test.Src = data
		case "want.fwd":
			test.Want = data
		case "errors":
			test.Err = strings.TrimSpace(data)
		case "eval":
			test.Evals = make(map[string]string)
			for _, line := range strings.Split(strings.TrimSpace(data), "\n") {
				call, want, ok := strings.Cut(line, " = ")
				if !ok {
					t.Fatalf("%s: invalid eval line %q: want call = result", path, line)
				}
				test.Evals[call] = want
			}
		default:
			t.Fatalf("%s: unknown file %s", path, file.Name)
		}
	}
	if test.Src == "" {
		t.Fatalf("%s: missing input.fwd", path)
	}
	return test
}

func TestGolden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no test found in testdata")
	}
	for _, path := range paths {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			if err := goldenTest(t, path).Run(); err != nil {
				t.Errorf("%s: %+v", path, err)
			}
		})
	}
}
