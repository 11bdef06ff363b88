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

// Package stringseq joins sequences of strings.
package stringseq

import (
	"fmt"
	"iter"
	"strings"
)

// Append the items of a sequence to a builder, separated by sep.
func Append(b *strings.Builder, seq iter.Seq[string], sep string) {
	n := 0
	for item := range seq {
		if n > 0 {
			b.WriteString(sep)
		}
		b.WriteString(item)
		n++
	}
}

// Join the items of a sequence, separated by sep.
func Join(seq iter.Seq[string], sep string) string {
	var b strings.Builder
	Append(&b, seq, sep)
	return b.String()
}

// Map returns a sequence applying f to all elements of a slice.
func Map[T any](s []T, f func(T) string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, x := range s {
			if !yield(f(x)) {
				return
			}
		}
	}
}

// JoinStringer joins the string representations of a slice of stringers.
func JoinStringer[T fmt.Stringer](s []T, sep string) string {
	return Join(Map(s, func(x T) string { return x.String() }), sep)
}
