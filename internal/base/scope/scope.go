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

// Package scope provides name to value mappings with parent lookups.
package scope

import (
	"fmt"
	"iter"
	"strings"

	"github.com/gx-org/fwdiff/base/ordered"
)

type (
	// Scope provides a set of values that can be found given their name.
	Scope[V any] interface {
		Find(string) (V, bool)
		Items() *ordered.Map[string, V]
	}

	// RWScope is a scope in which new names can be defined.
	// Names are looked up in the local scope first, then in the parent.
	RWScope[V any] struct {
		parent Scope[V]
		local  *ordered.Map[string, V]
	}
)

var _ Scope[any] = (*RWScope[any])(nil)

// NewScope returns a new scope given a parent. The parent may be nil.
func NewScope[V any](parent Scope[V]) *RWScope[V] {
	return &RWScope[V]{
		parent: parent,
		local:  ordered.NewMap[string, V](),
	}
}

// Define a name in the local scope.
func (s *RWScope[V]) Define(k string, v V) {
	s.local.Store(k, v)
}

// Find the value of a name.
func (s *RWScope[V]) Find(key string) (value V, ok bool) {
	value, ok = s.local.Load(key)
	if ok || s.parent == nil {
		return
	}
	return s.parent.Find(key)
}

// IsLocal returns true if the name is defined in the local scope.
func (s *RWScope[V]) IsLocal(key string) bool {
	_, ok := s.local.Load(key)
	return ok
}

// LocalKeys returns the names defined locally, in definition order.
func (s *RWScope[V]) LocalKeys() iter.Seq[string] {
	return s.local.Keys()
}

// Items returns all the items visible from the scope.
// Local items shadow parent items.
func (s *RWScope[V]) Items() *ordered.Map[string, V] {
	all := ordered.NewMap[string, V]()
	if s.parent != nil {
		for k, v := range s.parent.Items().Iter() {
			all.Store(k, v)
		}
	}
	for k, v := range s.local.Iter() {
		all.Store(k, v)
	}
	return all
}

// NewChild returns a new scope with s as a parent.
func (s *RWScope[V]) NewChild() *RWScope[V] {
	return NewScope[V](s)
}

func (s *RWScope[V]) String() string {
	if s.local.Len() == 0 {
		return "empty"
	}
	var kvs []string
	for k, v := range s.local.Iter() {
		kvs = append(kvs, fmt.Sprintf("%s: %v", k, v))
	}
	parent := "root"
	if s.parent != nil {
		parent = fmt.Sprint(s.parent)
	}
	return fmt.Sprintf("%s\n--\n%s", parent, strings.Join(kvs, "\n"))
}
