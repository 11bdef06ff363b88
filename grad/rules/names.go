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

package rules

import "strings"

const derivPrefix = "__d_"

// DerivName returns the name of the partial derivative of v with respect to the input x.
// Source names cannot start with an underscore or contain a double underscore,
// so derivative names never collide with source names.
func DerivName(v, x string) string {
	return derivPrefix + v + "__" + x
}

// ParseDerivName returns the names of the variable and of the input
// of a partial derivative name built by DerivName.
func ParseDerivName(name string) (v, x string, ok bool) {
	rest, ok := strings.CutPrefix(name, derivPrefix)
	if !ok {
		return "", "", false
	}
	sep := strings.LastIndex(rest, "__")
	if sep <= 0 || sep+2 == len(rest) {
		return "", "", false
	}
	return rest[:sep], rest[sep+2:], true
}
