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

package fmterr

import (
	"go/token"

	"github.com/pkg/errors"
)

type (
	// ErrAppender accumulates errors.
	ErrAppender interface {
		// Err returns the accumulator.
		Err() *Appender
	}

	// Appender appends errors to a set within the context of a FileSet.
	Appender struct {
		errors *Errors
		fset   *token.FileSet
	}
)

// Append an error to the set. Always returns false so that callers can write:
//
//	return app.Append(err)
func (app *Appender) Append(err error) bool {
	return app.errors.Append(err)
}

// AppendAt appends an error at the position of a node.
func (app *Appender) AppendAt(kind Kind, node Node, err error) bool {
	return app.Append(Position(app.fset, kind, node, err))
}

// Appendf appends a formatted error at the position of a node.
func (app *Appender) Appendf(kind Kind, node Node, format string, a ...any) bool {
	return app.Append(Errorf(app.fset, kind, node, format, a...))
}

// AppendInternalf appends an internal error at the position of a node.
func (app *Appender) AppendInternalf(node Node, format string, a ...any) bool {
	return app.Append(Position(app.fset, InternalInvariant, node, Internal(errors.Errorf(format, a...))))
}

// Unsupportedf appends an error for a construct that cannot be differentiated.
func (app *Appender) Unsupportedf(node Node, format string, a ...any) bool {
	return app.Appendf(Unsupported, node, format, a...)
}

// FSet returns the file set used to compute positions.
func (app *Appender) FSet() *token.FileSet {
	return app.fset
}

// Errors returns the set of errors or nil if the set is empty.
func (app *Appender) Errors() *Errors {
	if app.errors.Empty() {
		return nil
	}
	return app.errors
}

// Empty returns true if no error has been appended.
func (app *Appender) Empty() bool {
	return app.errors.Empty()
}

// Len returns the number of errors appended so far.
func (app *Appender) Len() int {
	return app.errors.Len()
}

func (app *Appender) String() string {
	return app.errors.String()
}
