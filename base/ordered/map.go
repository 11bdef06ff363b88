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

// Package ordered provides maps preserving the order in which keys have been inserted.
package ordered

import "iter"

// Map is a map remembering the insertion order of its keys.
type Map[K comparable, V any] struct {
	keys  []K
	index map[K]int
	vals  map[K]V
}

// NewMap returns a new empty ordered map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		index: make(map[K]int),
		vals:  make(map[K]V),
	}
}

// Store a value for a key.
// Storing a value for an existing key replaces the value but keeps the key position.
func (m *Map[K, V]) Store(k K, v V) {
	if _, in := m.index[k]; !in {
		m.index[k] = len(m.keys)
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

// Load the value stored for a key.
func (m *Map[K, V]) Load(k K) (V, bool) {
	v, ok := m.vals[k]
	return v, ok
}

// Index returns the insertion position of a key or -1 if the key is absent.
func (m *Map[K, V]) Index(k K) int {
	i, ok := m.index[k]
	if !ok {
		return -1
	}
	return i
}

// Iter iterates over all the (key, value) pairs in insertion order.
func (m *Map[K, V]) Iter() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

// Keys iterates over the keys in insertion order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, k := range m.keys {
			if !yield(k) {
				return
			}
		}
	}
}

// Values iterates over the values in insertion order.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, k := range m.keys {
			if !yield(m.vals[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy of the map.
func (m *Map[K, V]) Clone() *Map[K, V] {
	r := NewMap[K, V]()
	for k, v := range m.Iter() {
		r.Store(k, v)
	}
	return r
}

// Len returns the number of keys in the map.
func (m *Map[K, V]) Len() int {
	return len(m.keys)
}
