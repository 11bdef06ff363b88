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

// Package fmterr builds errors attached to a position in the source code.
package fmterr

import (
	"fmt"
	"go/token"
	"runtime/debug"

	"github.com/pkg/errors"
)

// Kind of a diagnostic.
type Kind int

const (
	// Unsupported syntactic construct (control flow, mutation, aggregate, ...).
	Unsupported Kind = iota + 1
	// UnsupportedOperation is returned when no derivative rule exists for an operation.
	UnsupportedOperation
	// UnsupportedType is returned when a type is not in the set of supported scalars.
	UnsupportedType
	// MalformedReturn is returned for a missing, aggregate, or unbound return value.
	MalformedReturn
	// InternalInvariant is returned when the transformer breaks one of its own postconditions.
	InternalInvariant
	// Syntax error in the source code.
	Syntax
	// Runtime error raised when evaluating code, e.g. a division by zero.
	Runtime
)

var kindTags = map[Kind]string{
	Unsupported:          "unsupported",
	UnsupportedOperation: "unsupported-operation",
	UnsupportedType:      "unsupported-type",
	MalformedReturn:      "malformed-return",
	InternalInvariant:    "internal",
	Syntax:               "syntax",
	Runtime:              "runtime",
}

func (k Kind) String() string {
	tag, ok := kindTags[k]
	if !ok {
		return "unknown"
	}
	return tag
}

type (
	// Node is a node of the syntax tree.
	Node interface {
		Pos() token.Pos
		End() token.Pos
	}

	// ErrorWithPos is an error attached to a position in the source code.
	ErrorWithPos interface {
		error
		Kind() Kind
		FSet() *token.FileSet
		Pos() token.Pos
		End() token.Pos
		Err() error
	}

	errorWithPos struct {
		kind Kind
		fset *token.FileSet
		pos  token.Pos
		end  token.Pos
		err  error
	}
)

// Position attaches an error to a node.
func Position(fset *token.FileSet, kind Kind, src Node, err error) ErrorWithPos {
	return errorWithPos{
		kind: kind,
		fset: fset,
		pos:  src.Pos(),
		end:  src.End(),
		err:  err,
	}
}

// Errorf returns a formatted error attached to a node.
func Errorf(fset *token.FileSet, kind Kind, src Node, format string, a ...any) error {
	return Position(fset, kind, src, errors.Errorf(format, a...))
}

// Internal marks an error as an internal error.
func Internal(err error) error {
	return fmt.Errorf("internal error. This is a bug in fwdiff. Please report it. Error:\n%+v", err)
}

func (err errorWithPos) Error() (s string) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s = fmt.Sprintf("recovered from panic when building error message: %T:\n%v", err.err, string(debug.Stack()))
	}()
	if err.fset == nil || !err.pos.IsValid() {
		return err.err.Error()
	}
	return PosString(err.fset, err.pos) + " " + err.err.Error()
}

func (err errorWithPos) Unwrap() error {
	return err.err
}

func (err errorWithPos) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}

func (err errorWithPos) Kind() Kind {
	return err.kind
}

func (err errorWithPos) FSet() *token.FileSet {
	return err.fset
}

func (err errorWithPos) Pos() token.Pos {
	return err.pos
}

func (err errorWithPos) End() token.Pos {
	return err.end
}

func (err errorWithPos) Err() error {
	return err.err
}

// PosString returns the string of a position followed by a colon.
func PosString(fset *token.FileSet, pos token.Pos) string {
	return fset.Position(pos).String() + ":"
}

// KindOf returns the kind of an error or 0 if the error has no kind.
func KindOf(err error) Kind {
	var withPos ErrorWithPos
	if !errors.As(err, &withPos) {
		return 0
	}
	return withPos.Kind()
}
