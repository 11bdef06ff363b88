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

package interp

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"github.com/gx-org/fwdiff/base/stringseq"
	"github.com/gx-org/fwdiff/build/kind"
)

// Value is a scalar or a tuple of values.
//
// Floating point values are stored as float64 and rounded to float32 after each operation
// on f32 values. Integer values are stored as big integers wrapped to the size of their kind.
// Values of literals without suffix keep a number kind until they are used with a typed value.
type Value struct {
	kind kind.Kind
	flt  float64
	intg *big.Int
	elts []Value
}

// Float64 returns a f64 value.
func Float64(v float64) Value {
	return Value{kind: kind.Float64, flt: v}
}

// Float32 returns a f32 value.
func Float32(v float32) Value {
	return Value{kind: kind.Float32, flt: float64(v)}
}

// Int returns an integer value of a given kind. The value is wrapped to the size of the kind.
func Int(k kind.Kind, v int64) Value {
	return NewInt(k, big.NewInt(v))
}

// NewInt returns an integer value of a given kind. The value is wrapped to the size of the kind.
func NewInt(k kind.Kind, v *big.Int) Value {
	if k.IsConcrete() {
		v = wrap(k, v)
	}
	return Value{kind: k, intg: v}
}

// NewFloat returns a floating point value of a given kind.
func NewFloat(k kind.Kind, v float64) Value {
	return Value{kind: k, flt: roundFloat(k, v)}
}

// Tuple returns a tuple of values.
func Tuple(vals ...Value) Value {
	if vals == nil {
		vals = []Value{}
	}
	return Value{elts: vals}
}

// Literal returns the value of a numeric literal, e.g. 3.0, 7u16, or -2f32.
func Literal(text string) (Value, error) {
	k, err := kind.OfLiteral(text)
	if err != nil {
		return Value{}, err
	}
	body, _ := kind.SplitLiteral(text)
	if k.IsFloat() {
		f, err := strconv.ParseFloat(body, 64)
		if err != nil {
			return Value{}, errors.Errorf("invalid float literal %s", text)
		}
		return NewFloat(k, f), nil
	}
	i, ok := new(big.Int).SetString(body, 10)
	if !ok {
		return Value{}, errors.Errorf("invalid integer literal %s", text)
	}
	if k.IsConcrete() && wrap(k, i).Cmp(i) != 0 {
		return Value{}, errors.Errorf("literal %s out of range for %s", text, k)
	}
	return NewInt(k, i), nil
}

// Kind of the value. Tuples have an invalid kind.
func (v Value) Kind() kind.Kind {
	return v.kind
}

// IsTuple returns true if the value is a tuple.
func (v Value) IsTuple() bool {
	return v.elts != nil
}

// Elements returns the elements of a tuple.
func (v Value) Elements() []Value {
	return v.elts
}

// Float returns the value as a float64.
func (v Value) Float() float64 {
	if v.intg == nil {
		return v.flt
	}
	f, _ := new(big.Float).SetInt(v.intg).Float64()
	return f
}

// BigInt returns the value as an integer. Floating point values are truncated.
func (v Value) BigInt() *big.Int {
	if v.intg != nil {
		return new(big.Int).Set(v.intg)
	}
	i, _ := big.NewFloat(math.Trunc(v.flt)).Int(nil)
	return i
}

func (v Value) String() string {
	switch {
	case v.IsTuple():
		return Format(v.elts)
	case v.intg != nil:
		return v.intg.String()
	}
	switch {
	case math.IsNaN(v.flt):
		return "NaN"
	case math.IsInf(v.flt, 1):
		return "inf"
	case math.IsInf(v.flt, -1):
		return "-inf"
	}
	bitSize := 64
	if v.kind == kind.Float32 {
		bitSize = 32
	}
	s := strconv.FormatFloat(v.flt, 'g', -1, bitSize)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Format a list of values as a tuple, e.g. (6.0, 2.0).
func Format(vals []Value) string {
	if len(vals) == 1 {
		return "(" + vals[0].String() + ",)"
	}
	return "(" + stringseq.JoinStringer(vals, ", ") + ")"
}

// convert a value to a kind when the value is used where the kind is expected.
// Only values of literals without suffix can change kind.
func (v Value) convert(to kind.Kind) (Value, error) {
	if v.kind == to {
		return v, nil
	}
	if v.IsTuple() {
		return Value{}, errors.Errorf("cannot use tuple %s as %s", v, to)
	}
	if !v.kind.AssignableTo(to) {
		return Value{}, errors.Errorf("mismatched types: %s and %s", v.kind, to)
	}
	if to.IsFloat() {
		return NewFloat(to, v.Float()), nil
	}
	if to.IsConcrete() && wrap(to, v.intg).Cmp(v.intg) != 0 {
		return Value{}, errors.Errorf("literal %s out of range for %s", v, to)
	}
	return NewInt(to, v.intg), nil
}

// defaulted returns the value with the default kind if the value has a number kind.
func (v Value) defaulted() Value {
	if !v.kind.IsNumber() {
		return v
	}
	out, _ := v.convert(v.kind.Default())
	return out
}

// Cast converts a value to a kind the way the as operator does.
// Integers are wrapped. Floats converted to integers are truncated and saturated,
// NaN is converted to 0.
func (v Value) Cast(to kind.Kind) (Value, error) {
	if v.IsTuple() || !to.IsConcrete() {
		return Value{}, errors.Errorf("cannot cast %s to %s", v, to)
	}
	if to.IsFloat() {
		return NewFloat(to, v.Float()), nil
	}
	if v.intg != nil {
		return NewInt(to, v.intg), nil
	}
	if math.IsNaN(v.flt) {
		return NewInt(to, new(big.Int)), nil
	}
	lo, hi := intRange(to)
	f := new(big.Float).SetFloat64(math.Trunc(v.flt))
	if math.IsInf(v.flt, 0) {
		f = nil
	}
	switch {
	case v.flt < 0 && (f == nil || f.Cmp(new(big.Float).SetInt(lo)) < 0):
		return NewInt(to, lo), nil
	case v.flt > 0 && (f == nil || f.Cmp(new(big.Float).SetInt(hi)) > 0):
		return NewInt(to, hi), nil
	}
	i, _ := f.Int(nil)
	return NewInt(to, i), nil
}

// intRange returns the minimum and the maximum values of an integer kind.
func intRange(k kind.Kind) (lo, hi *big.Int) {
	bits := uint(k.Bits())
	if k.IsSigned() {
		hi = new(big.Int).Lsh(big.NewInt(1), bits-1)
		lo = new(big.Int).Neg(hi)
		hi.Sub(hi, big.NewInt(1))
		return lo, hi
	}
	hi = new(big.Int).Lsh(big.NewInt(1), bits)
	hi.Sub(hi, big.NewInt(1))
	return new(big.Int), hi
}

// wrap an integer to the size of a kind using two's complement for signed kinds.
func wrap(k kind.Kind, x *big.Int) *big.Int {
	bits := uint(k.Bits())
	mod := new(big.Int).Lsh(big.NewInt(1), bits)
	r := new(big.Int).Mod(x, mod)
	if k.IsSigned() && r.Bit(int(bits-1)) == 1 {
		r.Sub(r, mod)
	}
	return r
}

func toPrecision[T constraints.Float](x float64) float64 {
	return float64(T(x))
}

func roundFloat(k kind.Kind, x float64) float64 {
	if k == kind.Float32 {
		return toPrecision[float32](x)
	}
	return toPrecision[float64](x)
}
