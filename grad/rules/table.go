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

// Package rules defines the derivative rules of primitive operations.
//
// A rule gives, for an operation and the types of its operands, the partial derivative of
// the result with respect to each operand. Rules are declared in YAML files as expression
// templates in which {0}, {1}, ... refer to the operands and {T} to the type of the rule:
//
//	- method: sin
//	  types: [f32, f64]
//	  partials: ["{0}.cos()"]
//
// The default rules are embedded in the package and loaded at initialization.
package rules

import (
	"iter"
	"slices"

	"github.com/gx-org/fwdiff/base/ordered"
	"github.com/gx-org/fwdiff/build/kind"
	"github.com/gx-org/fwdiff/build/syntax"
)

type (
	// Partial derivative of the result of an operation with respect to one of its operands.
	Partial struct {
		// Expr is the expression of the partial derivative.
		// The operands are referenced by the placeholders _0, _1, ...
		Expr syntax.Expr
		// Neg is true if the term of the operand is subtracted from the derivative.
		Neg bool
	}

	// Rule is the derivative rule of an operation.
	Rule struct {
		Key    Key
		Output kind.Kind
		// Seed is the derivative of the result when no operand depends on an input.
		Seed syntax.Expr
		// Partials of the result with respect to each operand.
		// A nil partial marks an operand the result cannot be differentiated with.
		Partials []*Partial
		// Source is where the rule has been declared.
		Source string
	}

	// Table of rules.
	Table struct {
		rules  *ordered.Map[string, *Rule]
		groups map[string][]*Rule
	}
)

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		rules:  ordered.NewMap[string, *Rule](),
		groups: make(map[string][]*Rule),
	}
}

// Register a rule in the table. A rule with the same key is replaced.
func (t *Table) Register(rule *Rule) {
	key := rule.Key.String()
	prev, replaced := t.rules.Load(key)
	t.rules.Store(key, rule)
	group := rule.Key.group()
	if !replaced {
		t.groups[group] = append(t.groups[group], rule)
		return
	}
	rules := t.groups[group]
	for i, r := range rules {
		if r == prev {
			rules[i] = rule
		}
	}
}

// Len returns the number of rules in the table.
func (t *Table) Len() int {
	return t.rules.Len()
}

// Rules returns all the rules of the table in registration order.
func (t *Table) Rules() iter.Seq[*Rule] {
	return t.rules.Values()
}

// Clone returns a copy of the table. Rules are shared.
func (t *Table) Clone() *Table {
	c := &Table{
		rules:  t.rules.Clone(),
		groups: make(map[string][]*Rule, len(t.groups)),
	}
	for group, rules := range t.groups {
		c.groups[group] = append([]*Rule{}, rules...)
	}
	return c
}

// Lookup returns the rule for a key. All the types of the key need to be concrete.
func (t *Table) Lookup(key Key) (*Rule, bool) {
	return t.rules.Load(key.String())
}

// Resolve returns the rule for a key, the types of which may be number kinds of untyped literals.
// Literals can take any type they are assignable to. If more than one rule matches,
// the rule where all literals take their default type is returned.
func (t *Table) Resolve(key Key) (*Rule, bool) {
	if key.IsConcrete() {
		return t.Lookup(key)
	}
	var candidates []*Rule
	for _, rule := range t.groups[key.group()] {
		if assignable(key, rule.Key) {
			candidates = append(candidates, rule)
		}
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}
	var best *Rule
	for _, rule := range candidates {
		if !takesDefaults(key, rule.Key) {
			continue
		}
		if best != nil {
			// Ambiguous.
			return nil, false
		}
		best = rule
	}
	return best, best != nil
}

// takesDefaults returns true if all the literals of a key take their default type in a rule key.
// Integer literals mixed with float literals take the default float type.
func takesDefaults(key, rule Key) bool {
	hasFloat := slices.Contains(key.Types, kind.NumberFloat)
	for i, tp := range key.Types {
		if !tp.IsNumber() {
			continue
		}
		got := rule.Types[i]
		if got == tp.Default() {
			continue
		}
		if tp == kind.NumberInt && hasFloat && got == kind.DefaultFloat {
			continue
		}
		return false
	}
	return true
}

func assignable(from, to Key) bool {
	for i, tp := range from.Types {
		if !tp.AssignableTo(to.Types[i]) {
			return false
		}
	}
	return true
}
