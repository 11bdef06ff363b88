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

package scope_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/fwdiff/internal/base/scope"
)

func TestFind(t *testing.T) {
	root := scope.NewScope[string](nil)
	root.Define("x", "f64")
	root.Define("y", "u16")
	child := root.NewChild()
	child.Define("y", "f32")
	child.Define("a", "f64")
	tests := []struct {
		name  string
		want  string
		found bool
	}{
		{name: "x", want: "f64", found: true},
		{name: "y", want: "f32", found: true},
		{name: "a", want: "f64", found: true},
		{name: "b", found: false},
	}
	for _, test := range tests {
		got, found := child.Find(test.name)
		if found != test.found || got != test.want {
			t.Errorf("Find(%q) = %q, %t but want %q, %t", test.name, got, found, test.want, test.found)
		}
	}
	if root.IsLocal("a") {
		t.Errorf("a defined in a child should not be local to the root")
	}
	if _, found := root.Find("a"); found {
		t.Errorf("a defined in a child should not be visible from the root")
	}
}

func TestItems(t *testing.T) {
	root := scope.NewScope[int](nil)
	root.Define("x", 1)
	root.Define("y", 2)
	child := root.NewChild()
	child.Define("y", 3)
	child.Define("z", 4)
	items := child.Items()
	gotKeys := slices.Collect(items.Keys())
	if diff := cmp.Diff(gotKeys, []string{"x", "y", "z"}); diff != "" {
		t.Errorf("unexpected keys:\n%s", diff)
	}
	if y, _ := items.Load("y"); y != 3 {
		t.Errorf("y = %d but want 3", y)
	}
	if diff := cmp.Diff(slices.Collect(child.LocalKeys()), []string{"y", "z"}); diff != "" {
		t.Errorf("unexpected local keys:\n%s", diff)
	}
}
