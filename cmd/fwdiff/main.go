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

// Utility fwdiff generates the forward-mode derivative of the functions of a file
// marked with the #[forward_autodiff] attribute.
//
// Usage:
//
//	fwdiff [flags] FILE
//
// The differentiated file is written on the standard output unless -o is specified.
// With -eval, the call is evaluated on the differentiated functions and its result is printed.
package main

import (
	"flag"
	"fmt"
	"go/token"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/gx-org/fwdiff/build/fmterr"
	"github.com/gx-org/fwdiff/build/syntax"
	"github.com/gx-org/fwdiff/grad"
	"github.com/gx-org/fwdiff/grad/rules"
	"github.com/gx-org/fwdiff/interp"
	"github.com/gx-org/fwdiff/tools/flags"
)

var (
	output    = flag.String("o", "", "output file (default to the standard output)")
	ruleFiles = flags.StringList("rules", "comma-separated list of YAML files declaring additional derivative rules")
	canonical = flag.Bool("canonical", false, "output the canonical form of the functions instead of their derivative")
	eval      = flag.String("eval", "", "call to evaluate on the differentiated functions, e.g. f(3.0)")
	color     = flags.Choice("color", "color diagnostics", "auto", "always", "never")
)

func exit(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintln(os.Stderr)
	os.Exit(1)
}

type config struct {
	table     *rules.Table
	canonical bool
}

// transform parses a source and returns the differentiated file.
func transform(fset *token.FileSet, filename string, src []byte, cfg config) (*syntax.File, error) {
	file, err := syntax.ParseFile(fset, filename, src)
	if err != nil {
		return nil, err
	}
	if !cfg.canonical {
		return grad.ForwardFile(fset, file, grad.WithRules(cfg.table))
	}
	errs := &fmterr.Errors{}
	out := &syntax.File{Name: file.Name}
	for _, fn := range file.Funcs {
		if !grad.HasAttribute(fn) {
			out.Funcs = append(out.Funcs, fn)
			continue
		}
		cfn, err := grad.Canonical(fset, fn)
		if err != nil {
			errs.Append(err)
			continue
		}
		out.Funcs = append(out.Funcs, cfn)
	}
	return out, errs.ToError()
}

const (
	bold  = "\x1b[1m"
	red   = "\x1b[31m"
	reset = "\x1b[0m"
)

// printDiagnostics prints all the errors, one per line.
// With colors, the kind of the error is appended to the message.
func printDiagnostics(w io.Writer, err error, colored bool) {
	for _, e := range fmterr.All(err) {
		var withPos fmterr.ErrorWithPos
		if !colored || !errors.As(e, &withPos) || !withPos.Pos().IsValid() {
			fmt.Fprintln(w, e)
			continue
		}
		fmt.Fprintf(w, "%s%s%s %v %s[%s]%s\n",
			bold, fmterr.PosString(withPos.FSet(), withPos.Pos()), reset,
			withPos.Err(),
			red, withPos.Kind(), reset)
	}
}

func useColor(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func write(file *syntax.File) error {
	if *output == "" {
		return syntax.Fprint(os.Stdout, file)
	}
	f, err := os.Create(*output)
	if err != nil {
		return errors.Errorf("cannot create output file: %v", err)
	}
	defer f.Close()
	return syntax.Fprint(f, file)
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		exit("usage: fwdiff [flags] FILE")
	}
	filename := flag.Arg(0)
	src, err := os.ReadFile(filename)
	if err != nil {
		exit("cannot read source: %v", err)
	}
	table := rules.Default()
	if len(*ruleFiles) > 0 {
		if table, err = rules.Load(table, *ruleFiles...); err != nil {
			exit("cannot load derivative rules:\n%v", err)
		}
	}
	fset := token.NewFileSet()
	out, err := transform(fset, filename, src, config{table: table, canonical: *canonical})
	if err != nil {
		printDiagnostics(os.Stderr, err, useColor(*color, os.Stderr))
		os.Exit(1)
	}
	if *eval == "" || *output != "" {
		if err := write(out); err != nil {
			exit("%v", err)
		}
	}
	if *eval == "" {
		return
	}
	itp, err := interp.New(fset, out)
	if err != nil {
		exit("%+v", err)
	}
	vals, err := itp.Eval(*eval)
	if err != nil {
		printDiagnostics(os.Stderr, err, useColor(*color, os.Stderr))
		os.Exit(1)
	}
	fmt.Println(interp.Format(vals))
}
