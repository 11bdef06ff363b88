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
	"github.com/gx-org/fwdiff/build/kind"
)

var (
	floatUnary = map[string]func(float64) float64{
		"sqrt":       math.Sqrt,
		"cbrt":       math.Cbrt,
		"exp":        math.Exp,
		"exp2":       math.Exp2,
		"exp_m1":     math.Expm1,
		"ln":         math.Log,
		"ln_1p":      math.Log1p,
		"log10":      math.Log10,
		"log2":       math.Log2,
		"sin":        math.Sin,
		"cos":        math.Cos,
		"tan":        math.Tan,
		"asin":       math.Asin,
		"acos":       math.Acos,
		"atan":       math.Atan,
		"sinh":       math.Sinh,
		"cosh":       math.Cosh,
		"tanh":       math.Tanh,
		"asinh":      math.Asinh,
		"acosh":      math.Acosh,
		"atanh":      math.Atanh,
		"abs":        math.Abs,
		"ceil":       math.Ceil,
		"floor":      math.Floor,
		"round":      math.Round,
		"trunc":      math.Trunc,
		"recip":      recip[float64],
		"fract":      fract[float64],
		"signum":     signum[float64],
		"to_degrees": func(x float64) float64 { return x * (180 / math.Pi) },
		"to_radians": func(x float64) float64 { return x * (math.Pi / 180) },
	}

	floatBinary = map[string]func(x, y float64) float64{
		"powf":  math.Pow,
		"log":   func(x, base float64) float64 { return math.Log(x) / math.Log(base) },
		"hypot": math.Hypot,
		"atan2": math.Atan2,
		"max":   math.Max,
		"min":   math.Min,
	}
)

// callMethod calls a method on a scalar receiver.
func callMethod(name string, recv Value, args []Value) (Value, error) {
	if recv.IsTuple() {
		return Value{}, errors.Errorf("no method %s on tuples", name)
	}
	recv = recv.defaulted()
	if recv.kind.IsFloat() {
		return floatMethod(name, recv, args)
	}
	return intMethod(name, recv, args)
}

func checkArity(name string, args []Value, want int) error {
	if len(args) != want {
		return errors.Errorf("method %s takes %d argument(s) but %d were supplied", name, want, len(args))
	}
	return nil
}

func floatMethod(name string, recv Value, args []Value) (Value, error) {
	if f, ok := floatUnary[name]; ok {
		if err := checkArity(name, args, 0); err != nil {
			return Value{}, err
		}
		return NewFloat(recv.kind, f(recv.flt)), nil
	}
	if f, ok := floatBinary[name]; ok {
		if err := checkArity(name, args, 1); err != nil {
			return Value{}, err
		}
		y, err := args[0].convert(recv.kind)
		if err != nil {
			return Value{}, err
		}
		return NewFloat(recv.kind, f(recv.flt, y.flt)), nil
	}
	switch name {
	case "powi":
		if err := checkArity(name, args, 1); err != nil {
			return Value{}, err
		}
		n, err := args[0].convert(kind.Int32)
		if err != nil {
			return Value{}, err
		}
		return NewFloat(recv.kind, math.Pow(recv.flt, n.Float())), nil
	case "mul_add":
		if err := checkArity(name, args, 2); err != nil {
			return Value{}, err
		}
		a, err := args[0].convert(recv.kind)
		if err != nil {
			return Value{}, err
		}
		b, err := args[1].convert(recv.kind)
		if err != nil {
			return Value{}, err
		}
		return NewFloat(recv.kind, math.FMA(recv.flt, a.flt, b.flt)), nil
	}
	return Value{}, errors.Errorf("no method named %s found for %s", name, recv.kind)
}

func intMethod(name string, recv Value, args []Value) (Value, error) {
	switch name {
	case "abs":
		if err := checkArity(name, args, 0); err != nil {
			return Value{}, err
		}
		if !recv.kind.IsSigned() {
			break
		}
		return NewInt(recv.kind, new(big.Int).Abs(recv.intg)), nil
	case "pow":
		if err := checkArity(name, args, 1); err != nil {
			return Value{}, err
		}
		n, err := args[0].convert(kind.Uint32)
		if err != nil {
			return Value{}, err
		}
		return NewInt(recv.kind, new(big.Int).Exp(recv.intg, n.intg, nil)), nil
	case "min", "max":
		if err := checkArity(name, args, 1); err != nil {
			return Value{}, err
		}
		y, err := args[0].convert(recv.kind)
		if err != nil {
			return Value{}, err
		}
		cmp := recv.intg.Cmp(y.intg)
		if (name == "min") == (cmp <= 0) {
			return recv, nil
		}
		return y, nil
	}
	return Value{}, errors.Errorf("no method named %s found for %s", name, recv.kind)
}
