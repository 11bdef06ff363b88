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

// Package uname provides unique names.
package uname

import (
	"fmt"
	"strings"
)

type (
	// Unique generates unique names.
	Unique struct {
		taken map[string]bool
		next  map[string]int
	}

	// Root generates a sequence of names sharing the same root,
	// that is root0, root1, root2, ...
	Root struct {
		unames *Unique
		root   string
		index  int
	}
)

// New name generator.
func New() *Unique {
	return &Unique{
		taken: make(map[string]bool),
		next:  make(map[string]int),
	}
}

// Register a name as taken so that it is never returned by the generator.
func (n *Unique) Register(names ...string) {
	for _, name := range names {
		n.taken[name] = true
	}
}

// Taken returns true if the name has already been registered or generated.
func (n *Unique) Taken(name string) bool {
	return n.taken[name]
}

// Name returns a unique name given a desired base name.
// If the base name is available, it is returned directly. Else, a unique suffix is appended.
func (n *Unique) Name(root string) string {
	if !n.taken[root] {
		n.taken[root] = true
		return root
	}
	for {
		nextIndex := n.next[root] + 1
		n.next[root] = nextIndex
		name := fmt.Sprintf("%s%d", root, nextIndex)
		if !n.taken[name] {
			n.taken[name] = true
			return name
		}
	}
}

// Root returns a generator of names sharing the same root.
func (n *Unique) Root(root string) *Root {
	return &Root{unames: n, root: root}
}

// Next returns the next name of the sequence.
// If the name has been registered, _1, _2, ... is appended until the name is unique.
// The index of the sequence is incremented whatever the suffix.
func (r *Root) Next() string {
	base := fmt.Sprintf("%s%d", r.root, r.index)
	r.index++
	name := base
	for suffix := 1; r.unames.taken[name]; suffix++ {
		name = fmt.Sprintf("%s_%d", base, suffix)
	}
	r.unames.taken[name] = true
	return name
}

// Root returns the root of all the names.
func (r *Root) Root() string {
	return r.root
}

// IsReserved returns true if a name cannot be used in source code
// because it belongs to the namespace of generated names:
// names starting with an underscore or containing a double underscore.
func IsReserved(name string) bool {
	return strings.HasPrefix(name, "_") || strings.Contains(name, "__")
}
