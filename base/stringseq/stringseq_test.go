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

package stringseq_test

import (
	"slices"
	"testing"

	"github.com/gx-org/fwdiff/base/stringseq"
	"github.com/gx-org/fwdiff/build/kind"
)

func TestJoin(t *testing.T) {
	tests := []struct {
		seq  []string
		want string
	}{
		{want: ""},
		{seq: []string{"a"}, want: "a"},
		{seq: []string{"a", "b", "c"}, want: "a, b, c"},
	}
	for _, test := range tests {
		if got := stringseq.Join(slices.Values(test.seq), ", "); got != test.want {
			t.Errorf("Join(%v) = %q but want %q", test.seq, got, test.want)
		}
	}
}

func TestJoinStringer(t *testing.T) {
	got := stringseq.JoinStringer([]kind.Kind{kind.Float64, kind.Int32}, ", ")
	if want := "f64, i32"; got != want {
		t.Errorf("got %q but want %q", got, want)
	}
}
