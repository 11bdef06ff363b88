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

package uname_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/fwdiff/base/uname"
)

func TestName(t *testing.T) {
	// Rebinding x three times, then y twice.
	unames := uname.New()
	names := []string{"x", "x", "x", "y", "y", "z"}
	want := []string{"x", "x1", "x2", "y", "y1", "z"}
	got := make([]string, len(names))
	for i, name := range names {
		got[i] = unames.Name(name)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected names (-want +got):\n%s", diff)
	}
}

func TestNameSkipsRegistered(t *testing.T) {
	unames := uname.New()
	unames.Register("x", "x1", "x2")
	for i, want := range []string{"x3", "x4"} {
		got := unames.Name("x")
		if got != want {
			t.Errorf("index %d: got %s but want %s", i, got, want)
		}
	}
}

func TestRoot(t *testing.T) {
	// Temporaries must not collide with the identifiers of the source.
	unames := uname.New()
	unames.Register("u0", "v1", "v1_1")
	tmp, u, v := unames.Root("t"), unames.Root("u"), unames.Root("v")
	for i, test := range []struct {
		root *uname.Root
		want string
	}{
		{tmp, "t0"},
		{tmp, "t1"},
		{u, "u0_1"},
		{v, "v0"},
		{v, "v1_2"},
		{tmp, "t2"},
	} {
		if got := test.root.Next(); got != test.want {
			t.Errorf("test %d: for root %s, got %s but want %s", i, test.root.Root(), got, test.want)
		}
	}
}

func TestRootAndNameShareNamespace(t *testing.T) {
	unames := uname.New()
	tmp := unames.Root("t")
	if got := tmp.Next(); got != "t0" {
		t.Errorf("got %s but want t0", got)
	}
	if got := unames.Name("t0"); got != "t01" {
		t.Errorf("got %s but want t01", got)
	}
	if !unames.Taken("t01") {
		t.Errorf("t01 should be taken")
	}
}

func TestIsReserved(t *testing.T) {
	for name, want := range map[string]bool{
		"x":      false,
		"x_1":    false,
		"_x":     true,
		"__d_a_": true,
		"a__b":   true,
	} {
		if got := uname.IsReserved(name); got != want {
			t.Errorf("IsReserved(%q) = %t but want %t", name, got, want)
		}
	}
}
