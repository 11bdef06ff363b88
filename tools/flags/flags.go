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

// Package flags provides flag types for fwdiff tools.
package flags

import (
	"flag"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

type stringList struct {
	list *[]string
}

func (sl *stringList) String() string {
	if sl.list == nil {
		return ""
	}
	return strings.Join(*sl.list, ",")
}

func (sl *stringList) Set(values string) error {
	for _, value := range strings.Split(values, ",") {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		*sl.list = append(*sl.list, value)
	}
	return nil
}

// StringList returns a flag to pass a list of string from the command line.
// Values are separated by commas and the flag can be repeated.
func StringList(name, doc string) *[]string {
	return StringListVar(flag.CommandLine, name, doc)
}

// StringListVar defines a string list flag in a flag set.
func StringListVar(fs *flag.FlagSet, name, doc string) *[]string {
	var list []string
	sList := stringList{&list}
	fs.Var(&sList, name, doc)
	return sList.list
}

type choice struct {
	value   *string
	choices []string
}

func (c *choice) String() string {
	if c.value == nil {
		return ""
	}
	return *c.value
}

func (c *choice) Set(value string) error {
	if !slices.Contains(c.choices, value) {
		return errors.Errorf("invalid value %q: want one of %s", value, strings.Join(c.choices, ", "))
	}
	*c.value = value
	return nil
}

// Choice returns a flag which value is one of a set of choices.
// The first choice is the default value.
func Choice(name, doc string, choices ...string) *string {
	return ChoiceVar(flag.CommandLine, name, doc, choices...)
}

// ChoiceVar defines a choice flag in a flag set.
func ChoiceVar(fs *flag.FlagSet, name, doc string, choices ...string) *string {
	value := choices[0]
	c := &choice{value: &value, choices: choices}
	fs.Var(c, name, doc+" ("+strings.Join(choices, "|")+")")
	return c.value
}
