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
	"fmt"
	"go/token"
	"strings"
)

// Errors is a set of errors.
type Errors struct {
	errs []error
}

// NewAppender returns an appender adding errors to this set.
func (errs *Errors) NewAppender(fset *token.FileSet) *Appender {
	return &Appender{errors: errs, fset: fset}
}

// Append an error to the set. Always returns false.
func (errs *Errors) Append(err error) bool {
	if err == nil {
		return false
	}
	if all, ok := err.(*Errors); ok {
		errs.errs = append(errs.errs, all.errs...)
		return false
	}
	errs.errs = append(errs.errs, err)
	return false
}

// Empty returns true if no error has been appended.
func (errs *Errors) Empty() bool {
	return errs == nil || len(errs.errs) == 0
}

// Len returns the number of errors in the set.
func (errs *Errors) Len() int {
	if errs == nil {
		return 0
	}
	return len(errs.errs)
}

func (errs *Errors) Error() string {
	ss := make([]string, len(errs.errs))
	for i, err := range errs.errs {
		ss[i] = err.Error()
	}
	return strings.Join(ss, "\n")
}

// Errors returns all the errors.
func (errs *Errors) Errors() []error {
	if errs == nil {
		return nil
	}
	return append([]error{}, errs.errs...)
}

// ToError returns nil if the set is empty, the set otherwise.
func (errs *Errors) ToError() error {
	if errs.Empty() {
		return nil
	}
	return errs
}

// Format the set of errors, one per line.
func (errs *Errors) Format(s fmt.State, verb rune) {
	flag := ""
	if s.Flag('+') {
		flag = "+"
	}
	for i, e := range errs.errs {
		if i > 0 {
			fmt.Fprintln(s)
		}
		fmt.Fprintf(s, fmt.Sprintf("%%%s%s", flag, string(verb)), e)
	}
}

func (errs *Errors) String() string {
	return errs.Error()
}

// All returns the errors contained in err.
// If err is a set of errors, its elements are returned. Else, err is returned as a single element.
func All(err error) []error {
	if err == nil {
		return nil
	}
	if all, ok := err.(*Errors); ok {
		return all.Errors()
	}
	return []error{err}
}
