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

import (
	"strconv"
	"strings"

	"github.com/gx-org/fwdiff/base/stringseq"
	"github.com/gx-org/fwdiff/build/kind"
)

// KeyKind is the kind of operation a key refers to.
type KeyKind int

const (
	// BinaryOp is a binary operator: x + y.
	BinaryOp KeyKind = iota
	// UnaryOp is a unary operator: -x.
	UnaryOp
	// Function is a call to a free function: f64::sin(x).
	Function
	// Method is a method call: x.sin(). The receiver is the first operand.
	Method
)

// Key identifies an operation with the types of its operands.
type Key struct {
	Kind  KeyKind
	Name  string
	Types []kind.Kind
}

// BinaryKey returns the key of a binary operator.
func BinaryKey(op string, x, y kind.Kind) Key {
	return Key{Kind: BinaryOp, Name: op, Types: []kind.Kind{x, y}}
}

// UnaryKey returns the key of a unary operator.
func UnaryKey(op string, x kind.Kind) Key {
	return Key{Kind: UnaryOp, Name: op, Types: []kind.Kind{x}}
}

// FuncKey returns the key of a free function given its path.
func FuncKey(path string, args ...kind.Kind) Key {
	return Key{Kind: Function, Name: path, Types: args}
}

// MethodKey returns the key of a method given the type of its receiver.
func MethodKey(name string, recv kind.Kind, args ...kind.Kind) Key {
	return Key{Kind: Method, Name: name, Types: append([]kind.Kind{recv}, args...)}
}

// Arity returns the number of operands of the operation.
func (k Key) Arity() int {
	return len(k.Types)
}

// IsConcrete returns true if the type of all operands is concrete.
func (k Key) IsConcrete() bool {
	for _, tp := range k.Types {
		if !tp.IsConcrete() {
			return false
		}
	}
	return true
}

// Defaults returns the key where number types are replaced by their default types.
func (k Key) Defaults() Key {
	types := make([]kind.Kind, len(k.Types))
	for i, tp := range k.Types {
		types[i] = tp.Default()
	}
	return Key{Kind: k.Kind, Name: k.Name, Types: types}
}

// group returns a string shared by all the keys of the same operation with the same arity.
func (k Key) group() string {
	var b strings.Builder
	b.WriteByte(byte('0' + k.Kind))
	b.WriteString(k.Name)
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(k.Arity()))
	return b.String()
}

// String returns the key in a syntax close to the source code,
// for example f64 + f64, -f64, f64::sin(f64), or f64.powi(i32).
func (k Key) String() string {
	types := k.Types
	switch k.Kind {
	case BinaryOp:
		if len(types) == 2 {
			return types[0].String() + " " + k.Name + " " + types[1].String()
		}
	case UnaryOp:
		if len(types) == 1 {
			return k.Name + types[0].String()
		}
	case Function:
		return k.Name + "(" + stringseq.JoinStringer(types, ", ") + ")"
	case Method:
		if len(types) > 0 {
			return types[0].String() + "." + k.Name + "(" + stringseq.JoinStringer(types[1:], ", ") + ")"
		}
	}
	return k.Name + "<" + stringseq.JoinStringer(types, ", ") + ">"
}
