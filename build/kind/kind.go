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

// Package kind defines the closed set of scalar types supported by the differentiator.
package kind

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind of a scalar value.
type Kind uint

const (
	// Invalid kind, returned for unsupported types.
	Invalid Kind = iota

	Float32
	Float64
	Int8
	Int16
	Int32
	Int64
	Int128
	Uint8
	Uint16
	Uint32
	Uint64
	Uint128

	// NumberFloat is a float literal with no suffix.
	NumberFloat
	// NumberInt is an integer literal with no suffix.
	NumberInt

	// Max value for a Kind constant.
	Max
)

// DefaultFloat is the type of float literals with no suffix.
const DefaultFloat = Float64

// DefaultInt is the type of integer literals with no suffix.
const DefaultInt = Int32

var names = [...]string{
	Invalid:     "invalid",
	Float32:     "f32",
	Float64:     "f64",
	Int8:        "i8",
	Int16:       "i16",
	Int32:       "i32",
	Int64:       "i64",
	Int128:      "i128",
	Uint8:       "u8",
	Uint16:      "u16",
	Uint32:      "u32",
	Uint64:      "u64",
	Uint128:     "u128",
	NumberFloat: "float number",
	NumberInt:   "int number",
}

func (k Kind) String() string {
	if k >= Max {
		return names[Invalid]
	}
	return names[k]
}

// FromString returns the kind of a type name, e.g. f64.
// Invalid is returned if the name is not a supported scalar type.
func FromString(ident string) Kind {
	for k := Float32; k <= Uint128; k++ {
		if names[k] == ident {
			return k
		}
	}
	return Invalid
}

// All returns all the concrete kinds.
func All() []Kind {
	all := make([]Kind, 0, Uint128)
	for k := Float32; k <= Uint128; k++ {
		all = append(all, k)
	}
	return all
}

// IsConcrete returns true if the kind is a scalar type, that is not a number literal type.
func (k Kind) IsConcrete() bool {
	return k >= Float32 && k <= Uint128
}

// IsNumber returns true if the kind is the type of a literal with no suffix.
func (k Kind) IsNumber() bool {
	return k == NumberFloat || k == NumberInt
}

// IsFloat returns true for floating point kinds.
func (k Kind) IsFloat() bool {
	return k == Float32 || k == Float64 || k == NumberFloat
}

// IsInteger returns true for integer kinds.
func (k Kind) IsInteger() bool {
	return (k >= Int8 && k <= Uint128) || k == NumberInt
}

// IsSigned returns true for kinds which can represent negative numbers.
func (k Kind) IsSigned() bool {
	return k.IsFloat() || (k >= Int8 && k <= Int128) || k == NumberInt
}

// Bits returns the size in bits of a concrete kind, 0 otherwise.
func (k Kind) Bits() int {
	switch k {
	case Int8, Uint8:
		return 8
	case Int16, Uint16:
		return 16
	case Float32, Int32, Uint32:
		return 32
	case Float64, Int64, Uint64:
		return 64
	case Int128, Uint128:
		return 128
	}
	return 0
}

// Default returns the kind a literal takes when nothing else constrains it.
func (k Kind) Default() Kind {
	switch k {
	case NumberFloat:
		return DefaultFloat
	case NumberInt:
		return DefaultInt
	}
	return k
}

// AssignableTo returns true if a value of kind k can be used where a value of kind to is expected.
// Number kinds can be used for any compatible concrete kinds.
func (k Kind) AssignableTo(to Kind) bool {
	if k == to {
		return true
	}
	switch k {
	case NumberInt:
		return to.IsConcrete()
	case NumberFloat:
		return to == Float32 || to == Float64
	}
	return false
}

// Suffix returns the literal suffix of a kind, e.g. f64 for Float64.
func (k Kind) Suffix() string {
	if !k.IsConcrete() {
		return ""
	}
	return names[k]
}

// Literal returns the text of an integer constant typed with the kind, e.g. 1f64.
func (k Kind) Literal(val int) string {
	return strconv.Itoa(val) + k.Default().Suffix()
}

// OfLiteral infers the kind of a numeric literal from its text.
// Suffixed literals have the kind of their suffix (e.g. 3f32 or 7u16).
// Literals without suffix have a number kind.
func OfLiteral(text string) (Kind, error) {
	body, suffix := SplitLiteral(text)
	if body == "" {
		return Invalid, errors.Errorf("%q is not a number", text)
	}
	if suffix != "" {
		k := FromString(suffix)
		if k == Invalid {
			return Invalid, errors.Errorf("unsupported literal suffix %q in %s", suffix, text)
		}
		if k.IsInteger() && strings.ContainsAny(body, ".eE") {
			return Invalid, errors.Errorf("float literal %s cannot have integer suffix %s", text, suffix)
		}
		return k, nil
	}
	if strings.ContainsAny(body, ".eE") {
		return NumberFloat, nil
	}
	return NumberInt, nil
}

// SplitLiteral splits the text of a numeric literal into its value and its type suffix.
// A leading minus sign is kept in the value and digit separators are removed.
func SplitLiteral(text string) (body, suffix string) {
	start := 0
	if strings.HasPrefix(text, "-") {
		start = 1
	}
	end := len(text)
	for i := start; i < len(text); i++ {
		c := text[i]
		if c == 'f' || c == 'i' || c == 'u' {
			end = i
			break
		}
	}
	body = strings.ReplaceAll(strings.TrimRight(text[:end], "_"), "_", "")
	suffix = text[end:]
	if body == "" || body == "-" {
		return "", suffix
	}
	return body, suffix
}
