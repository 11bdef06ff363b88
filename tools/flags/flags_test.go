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

package flags_test

import (
	"flag"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/fwdiff/tools/flags"
)

func TestStringList(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	list := flags.StringListVar(fs, "rules", "rule files")
	if err := fs.Parse([]string{"-rules", "a.yaml, b.yaml,", "-rules=c.yaml"}); err != nil {
		t.Fatal(err)
	}
	want := []string{"a.yaml", "b.yaml", "c.yaml"}
	if diff := cmp.Diff(want, *list); diff != "" {
		t.Errorf("unexpected list (-want +got):\n%s", diff)
	}
}

func TestChoice(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	color := flags.ChoiceVar(fs, "color", "colored output", "auto", "always", "never")
	if *color != "auto" {
		t.Errorf("got default %q but want %q", *color, "auto")
	}
	if err := fs.Parse([]string{"-color", "never"}); err != nil {
		t.Fatal(err)
	}
	if *color != "never" {
		t.Errorf("got %q but want %q", *color, "never")
	}
	if err := fs.Parse([]string{"-color", "sometimes"}); err == nil {
		t.Errorf("expected an error for an invalid choice")
	}
}
