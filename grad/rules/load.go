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

package rules

import (
	"bytes"
	_ "embed"
	"fmt"
	"go/token"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/gx-org/fwdiff/build/kind"
	"github.com/gx-org/fwdiff/build/syntax"
	"go.uber.org/multierr"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FormatMajor is the major version of the rule file format supported by the package.
const FormatMajor = "v1"

//go:embed rules.yaml
var defaultRules []byte

var defaultTable = func() *Table {
	table, err := Parse("rules.yaml", defaultRules)
	if err != nil {
		panic(fmt.Sprintf("cannot load the default derivative rules:\n%+v", err))
	}
	return table
}()

// Default returns the table of the default rules.
// The table must not be modified.
func Default() *Table {
	return defaultTable
}

type (
	ruleFile struct {
		Version string  `yaml:"version"`
		Rules   []entry `yaml:"rules"`
	}

	entry struct {
		Op       string   `yaml:"op"`
		Method   string   `yaml:"method"`
		Func     string   `yaml:"func"`
		Types    []string `yaml:"types"`
		Operands []string `yaml:"operands"`
		Output   string   `yaml:"output"`
		Seed     string   `yaml:"seed"`
		Partials []string `yaml:"partials"`
	}
)

// Parse the rules of a YAML file into a new table.
func Parse(filename string, data []byte) (*Table, error) {
	table := NewTable()
	if err := table.Parse(filename, data); err != nil {
		return nil, err
	}
	return table, nil
}

// Parse adds the rules of a YAML file to the table.
// Rules already in the table are replaced by rules with the same key.
func (t *Table) Parse(filename string, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var file ruleFile
	if err := dec.Decode(&file); err != nil {
		return errors.Wrapf(err, "cannot decode rule file %s", filename)
	}
	if !semver.IsValid(file.Version) {
		return errors.Errorf("%s: invalid format version %q", filename, file.Version)
	}
	if major := semver.Major(file.Version); major != FormatMajor {
		return errors.Errorf("%s: format version %s not supported: want %s.x.y", filename, file.Version, FormatMajor)
	}
	fset := token.NewFileSet()
	var errs error
	for i, e := range file.Rules {
		rules, err := e.rules(fset, filename)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "%s: rule %d", filename, i))
			continue
		}
		for _, rule := range rules {
			t.Register(rule)
		}
	}
	return errs
}

// Load returns a copy of a table extended with the rules of files.
// The files are read concurrently but their rules are added in order,
// such that a rule in a file replaces the rules with the same key in the previous files.
func Load(base *Table, filenames ...string) (*Table, error) {
	parsed := make([]*Table, len(filenames))
	var (
		wg   sync.WaitGroup
		lock sync.Mutex
		errs error
	)
	for i, filename := range filenames {
		wg.Go(func() {
			table, err := parseFile(filename)
			if err != nil {
				lock.Lock()
				defer lock.Unlock()
				errs = multierr.Append(errs, err)
				return
			}
			parsed[i] = table
		})
	}
	wg.Wait()
	if errs != nil {
		return nil, errs
	}
	table := base.Clone()
	for _, other := range parsed {
		for rule := range other.Rules() {
			table.Register(rule)
		}
	}
	return table, nil
}

func parseFile(filename string) (*Table, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Errorf("cannot read rule file: %v", err)
	}
	return Parse(filename, data)
}

func (e *entry) name() (KeyKind, string, error) {
	var kinds []KeyKind
	var name string
	if e.Op != "" {
		kinds = append(kinds, BinaryOp)
		name = e.Op
	}
	if e.Method != "" {
		kinds = append(kinds, Method)
		name = e.Method
	}
	if e.Func != "" {
		kinds = append(kinds, Function)
		name = e.Func
	}
	if len(kinds) != 1 {
		return 0, "", errors.Errorf("a rule requires exactly one of op, method, or func")
	}
	keyKind := kinds[0]
	if keyKind == BinaryOp {
		switch len(e.Partials) {
		case 1:
			keyKind = UnaryOp
		case 2:
		default:
			return 0, "", errors.Errorf("operator %s: got %d partials but want 1 or 2", name, len(e.Partials))
		}
	}
	return keyKind, name, nil
}

func (e *entry) rules(fset *token.FileSet, filename string) ([]*Rule, error) {
	keyKind, name, err := e.name()
	if err != nil {
		return nil, err
	}
	if len(e.Partials) == 0 {
		return nil, errors.Errorf("%s: no partial derivative", name)
	}
	if len(e.Operands) > 0 && len(e.Operands) != len(e.Partials) {
		return nil, errors.Errorf("%s: got %d operand types for %d partials", name, len(e.Operands), len(e.Partials))
	}
	if len(e.Types) == 0 {
		return nil, errors.Errorf("%s: no type", name)
	}
	var rules []*Rule
	var errs error
	for _, typeName := range e.Types {
		tp := kind.FromString(typeName)
		if tp == kind.Invalid {
			errs = multierr.Append(errs, errors.Errorf("%s: unsupported type %q", name, typeName))
			continue
		}
		inst := &instance{fset: fset, filename: filename, entry: e, tp: tp}
		inst.replacer = inst.newReplacer()
		tpRules, err := inst.rules(keyKind, name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		rules = append(rules, tpRules...)
	}
	return rules, errs
}

// instance of an entry for a given type.
type instance struct {
	fset     *token.FileSet
	filename string
	entry    *entry
	tp       kind.Kind
	replacer *strings.Replacer
}

func (inst *instance) newReplacer() *strings.Replacer {
	oldnew := []string{"{T}", inst.tp.Suffix()}
	for i := range inst.entry.Partials {
		oldnew = append(oldnew, "{"+strconv.Itoa(i)+"}", placeholder(i))
	}
	return strings.NewReplacer(oldnew...)
}

func (inst *instance) kind(text, def string) (kind.Kind, error) {
	if text == "" {
		text = def
	}
	tp := kind.FromString(inst.replacer.Replace(text))
	if tp == kind.Invalid {
		return tp, errors.Errorf("unsupported type %q", text)
	}
	return tp, nil
}

func (inst *instance) rules(keyKind KeyKind, name string) ([]*Rule, error) {
	e := inst.entry
	types := make([]kind.Kind, len(e.Partials))
	for i := range types {
		var opType string
		if len(e.Operands) > 0 {
			opType = e.Operands[i]
		}
		var err error
		if types[i], err = inst.kind(opType, "{T}"); err != nil {
			return nil, err
		}
	}
	output, err := inst.kind(e.Output, "{T}")
	if err != nil {
		return nil, err
	}
	var keys []Key
	switch keyKind {
	case BinaryOp:
		keys = append(keys, BinaryKey(name, types[0], types[1]))
	case UnaryOp:
		keys = append(keys, UnaryKey(name, types[0]))
	case Method:
		keys = append(keys,
			MethodKey(name, types[0], types[1:]...),
			FuncKey(inst.tp.Suffix()+"::"+name, types...),
		)
	case Function:
		keys = append(keys, FuncKey(inst.replacer.Replace(name), types...))
	}
	seedText := e.Seed
	if seedText == "" {
		seedText = "0{T}"
	}
	source := fmt.Sprintf("%s[%s]", inst.filename, keys[0])
	seed, err := inst.parse(source, seedText)
	if err != nil {
		return nil, errors.Wrapf(err, "seed of %s", keys[0])
	}
	partials := make([]*Partial, len(e.Partials))
	for i, text := range e.Partials {
		if strings.TrimSpace(text) == "" {
			continue
		}
		x, err := inst.parse(source, text)
		if err != nil {
			return nil, errors.Wrapf(err, "partial %d of %s", i, keys[0])
		}
		partials[i] = newPartial(x)
	}
	rules := make([]*Rule, len(keys))
	for i, key := range keys {
		rules[i] = &Rule{
			Key:      key,
			Output:   output,
			Seed:     seed,
			Partials: partials,
			Source:   source,
		}
	}
	return rules, nil
}

func newPartial(x syntax.Expr) *Partial {
	switch xT := x.(type) {
	case *syntax.UnaryExpr:
		if xT.Op == syntax.SUB {
			return &Partial{Expr: xT.X, Neg: true}
		}
	case *syntax.BasicLit:
		if value, ok := strings.CutPrefix(xT.Value, "-"); ok {
			return &Partial{Expr: &syntax.BasicLit{ValuePos: xT.ValuePos, Value: value}, Neg: true}
		}
	}
	return &Partial{Expr: x}
}

// parse a template and check that it only uses the constructs supported by templates.
func (inst *instance) parse(source, text string) (syntax.Expr, error) {
	x, err := syntax.ParseExprFrom(inst.fset, source, inst.replacer.Replace(text))
	if err != nil {
		return nil, err
	}
	if x, err = syntax.Clone(x, syntax.StripParens(nil)); err != nil {
		return nil, err
	}
	if err := checkTemplate(x, len(inst.entry.Partials)); err != nil {
		return nil, errors.Wrapf(err, "invalid template %q", text)
	}
	return x, nil
}

func checkTemplate(x syntax.Expr, arity int) error {
	switch xT := x.(type) {
	case *syntax.Ident:
		i, err := strconv.Atoi(strings.TrimPrefix(xT.Name, placeholderPrefix))
		if !strings.HasPrefix(xT.Name, placeholderPrefix) || err != nil || i < 0 || i >= arity {
			return errors.Errorf("unknown identifier %s", xT.Name)
		}
		return nil
	case *syntax.BasicLit:
		tp, err := kind.OfLiteral(xT.Value)
		if err != nil {
			return err
		}
		if !tp.IsConcrete() {
			return errors.Errorf("literal %s has no type suffix", xT.Value)
		}
		return nil
	case *syntax.BinaryExpr:
		switch xT.Op {
		case syntax.ADD, syntax.SUB, syntax.MUL, syntax.QUO:
		default:
			return errors.Errorf("operator %s not supported", xT.Op)
		}
		return multierr.Append(checkTemplate(xT.X, arity), checkTemplate(xT.Y, arity))
	case *syntax.UnaryExpr:
		if xT.Op != syntax.SUB {
			return errors.Errorf("operator %s not supported", xT.Op)
		}
		return checkTemplate(xT.X, arity)
	case *syntax.MethodCallExpr:
		errs := checkTemplate(xT.Recv, arity)
		for _, arg := range xT.Args {
			errs = multierr.Append(errs, checkTemplate(arg, arity))
		}
		return errs
	case *syntax.CallExpr:
		if _, ok := xT.Fun.(*syntax.Path); !ok {
			return errors.Errorf("function %s is not a path", syntax.String(xT.Fun))
		}
		var errs error
		for _, arg := range xT.Args {
			errs = multierr.Append(errs, checkTemplate(arg, arity))
		}
		return errs
	case *syntax.CastExpr:
		tpName, ok := xT.Type.(*syntax.Ident)
		if !ok || kind.FromString(tpName.Name) == kind.Invalid {
			return errors.Errorf("invalid cast to %s", syntax.String(xT.Type))
		}
		return checkTemplate(xT.X, arity)
	}
	return errors.Errorf("%s not supported in templates", syntax.String(x))
}
