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

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"github.com/gx-org/fwdiff/build/kind"
	"github.com/gx-org/fwdiff/build/syntax"
)

// unify returns two operands with the same kind.
// Values of literals without suffix take the kind of the other operand.
func unify(x, y Value) (Value, Value, error) {
	if x.IsTuple() || y.IsTuple() {
		return Value{}, Value{}, errors.Errorf("operator not defined on tuples")
	}
	switch {
	case x.kind == y.kind:
		return x, y, nil
	case x.kind.IsNumber() && y.kind.IsNumber():
		return NewFloat(kind.NumberFloat, x.Float()), NewFloat(kind.NumberFloat, y.Float()), nil
	case x.kind.IsNumber():
		var err error
		x, err = x.convert(y.kind)
		return x, y, err
	case y.kind.IsNumber():
		var err error
		y, err = y.convert(x.kind)
		return x, y, err
	}
	return Value{}, Value{}, errors.Errorf("mismatched types: %s and %s", x.kind, y.kind)
}

func binaryOp(op syntax.Token, x, y Value) (Value, error) {
	x, y, err := unify(x, y)
	if err != nil {
		return Value{}, err
	}
	if x.kind.IsFloat() {
		return binaryFloat(op, x.kind, x.flt, y.flt)
	}
	return binaryInt(op, x.kind, x.intg, y.intg)
}

func binaryFloat(op syntax.Token, k kind.Kind, x, y float64) (Value, error) {
	var val float64
	switch op {
	case syntax.ADD:
		val = x + y
	case syntax.SUB:
		val = x - y
	case syntax.MUL:
		val = x * y
	case syntax.QUO:
		val = x / y
	case syntax.REM:
		val = math.Mod(x, y)
	default:
		return Value{}, errors.Errorf("float binary operator %s not implemented", op)
	}
	return NewFloat(k, val), nil
}

func binaryInt(op syntax.Token, k kind.Kind, x, y *big.Int) (Value, error) {
	var val *big.Int
	switch op {
	case syntax.ADD:
		val = new(big.Int).Add(x, y)
	case syntax.SUB:
		val = new(big.Int).Sub(x, y)
	case syntax.MUL:
		val = new(big.Int).Mul(x, y)
	case syntax.QUO:
		if y.Sign() == 0 {
			return Value{}, errors.Errorf("attempt to divide by zero")
		}
		val = new(big.Int).Quo(x, y)
	case syntax.REM:
		if y.Sign() == 0 {
			return Value{}, errors.Errorf("attempt to calculate the remainder with a divisor of zero")
		}
		val = new(big.Int).Rem(x, y)
	default:
		return Value{}, errors.Errorf("integer binary operator %s not implemented", op)
	}
	return NewInt(k, val), nil
}

func unaryOp(op syntax.Token, x Value) (Value, error) {
	if x.IsTuple() {
		return Value{}, errors.Errorf("operator %s not defined on tuples", op)
	}
	if op != syntax.SUB {
		return Value{}, errors.Errorf("unary operator %s not implemented", op)
	}
	if !x.kind.IsSigned() {
		return Value{}, errors.Errorf("cannot apply unary operator - to type %s", x.kind)
	}
	if x.kind.IsFloat() {
		return NewFloat(x.kind, -x.flt), nil
	}
	return NewInt(x.kind, new(big.Int).Neg(x.intg)), nil
}

func signum[T constraints.Float](x T) T {
	switch {
	case x != x:
		return x
	case math.Signbit(float64(x)):
		return -1
	}
	return 1
}

func fract[T constraints.Float](x T) T {
	return x - T(math.Trunc(float64(x)))
}

func recip[T constraints.Float](x T) T {
	return 1 / x
}
