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

package kind_test

import (
	"testing"

	"github.com/gx-org/fwdiff/build/kind"
)

func TestFromString(t *testing.T) {
	for _, k := range kind.All() {
		if got := kind.FromString(k.String()); got != k {
			t.Errorf("FromString(%q) = %v but want %v", k.String(), got, k)
		}
	}
	for _, name := range []string{"f16", "bool", "usize", ""} {
		if got := kind.FromString(name); got != kind.Invalid {
			t.Errorf("FromString(%q) = %v but want invalid", name, got)
		}
	}
}

func TestOfLiteral(t *testing.T) {
	tests := []struct {
		text string
		want kind.Kind
	}{
		{text: "3.0", want: kind.NumberFloat},
		{text: "7.", want: kind.NumberFloat},
		{text: "1e3", want: kind.NumberFloat},
		{text: "3f32", want: kind.Float32},
		{text: "2.5f64", want: kind.Float64},
		{text: "7u16", want: kind.Uint16},
		{text: "1_000i64", want: kind.Int64},
		{text: "2.0_f32", want: kind.Float32},
		{text: "-1i8", want: kind.Int8},
		{text: "7", want: kind.NumberInt},
		{text: "340282366920938463463374607431768211455u128", want: kind.Uint128},
	}
	for _, test := range tests {
		got, err := kind.OfLiteral(test.text)
		if err != nil {
			t.Errorf("OfLiteral(%q): %v", test.text, err)
			continue
		}
		if got != test.want {
			t.Errorf("OfLiteral(%q) = %v but want %v", test.text, got, test.want)
		}
	}
}

func TestOfLiteralErrors(t *testing.T) {
	for _, text := range []string{"3f16", "2.0u8", "7usize", "f32"} {
		if _, err := kind.OfLiteral(text); err == nil {
			t.Errorf("OfLiteral(%q): expected an error", text)
		}
	}
}

func TestAssignableTo(t *testing.T) {
	tests := []struct {
		from, to kind.Kind
		want     bool
	}{
		{from: kind.NumberInt, to: kind.Uint16, want: true},
		{from: kind.NumberInt, to: kind.Float64, want: true},
		{from: kind.NumberFloat, to: kind.Float32, want: true},
		{from: kind.NumberFloat, to: kind.Int32, want: false},
		{from: kind.Float32, to: kind.Float64, want: false},
		{from: kind.Uint16, to: kind.Uint16, want: true},
	}
	for _, test := range tests {
		if got := test.from.AssignableTo(test.to); got != test.want {
			t.Errorf("%v.AssignableTo(%v) = %t but want %t", test.from, test.to, got, test.want)
		}
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		k    kind.Kind
		val  int
		want string
	}{
		{k: kind.Float64, val: 0, want: "0f64"},
		{k: kind.Uint16, val: 1, want: "1u16"},
		{k: kind.NumberFloat, val: 1, want: "1f64"},
		{k: kind.Int8, val: -1, want: "-1i8"},
	}
	for _, test := range tests {
		if got := test.k.Literal(test.val); got != test.want {
			t.Errorf("%v.Literal(%d) = %q but want %q", test.k, test.val, got, test.want)
		}
	}
}
