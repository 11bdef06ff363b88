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

package ordered_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/fwdiff/base/ordered"
)

type entry struct {
	k string
	v int
}

func TestMap(t *testing.T) {
	tests := []struct {
		entries []entry
		want    []entry
	}{
		{
			entries: []entry{
				{k: "x", v: 1},
				{k: "t0", v: 2},
				{k: "a", v: 3},
			},
			want: []entry{
				{k: "x", v: 1},
				{k: "t0", v: 2},
				{k: "a", v: 3},
			},
		},
		{
			entries: []entry{
				{k: "a", v: 1},
				{k: "b", v: 2},
				{k: "a", v: 3},
			},
			want: []entry{
				{k: "a", v: 3},
				{k: "b", v: 2},
			},
		},
	}
	for ti, test := range tests {
		m := ordered.NewMap[string, int]()
		for _, entry := range test.entries {
			m.Store(entry.k, entry.v)
		}
		if m.Len() != len(test.want) {
			t.Errorf("test %d: map has %d entries but want %d", ti, m.Len(), len(test.want))
			continue
		}
		m = m.Clone()
		var got []entry
		for k, v := range m.Iter() {
			got = append(got, entry{k: k, v: v})
		}
		if diff := cmp.Diff(got, test.want, cmp.AllowUnexported(entry{})); diff != "" {
			t.Errorf("test %d: unexpected entries:\n%s", ti, diff)
		}
		for i, want := range test.want {
			if gotI := m.Index(want.k); gotI != i {
				t.Errorf("test %d: index of %s is %d but want %d", ti, want.k, gotI, i)
			}
		}
		wantKeys := make([]string, len(test.want))
		wantVals := make([]int, len(test.want))
		for i, e := range test.want {
			wantKeys[i], wantVals[i] = e.k, e.v
		}
		if diff := cmp.Diff(slices.Collect(m.Keys()), wantKeys); diff != "" {
			t.Errorf("test %d: unexpected keys:\n%s", ti, diff)
		}
		if diff := cmp.Diff(slices.Collect(m.Values()), wantVals); diff != "" {
			t.Errorf("test %d: unexpected values:\n%s", ti, diff)
		}
	}
}

func TestIndexAbsent(t *testing.T) {
	m := ordered.NewMap[string, int]()
	m.Store("a", 1)
	if got := m.Index("b"); got != -1 {
		t.Errorf("got index %d for an absent key but want -1", got)
	}
}
