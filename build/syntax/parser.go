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

package syntax

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/gx-org/fwdiff/build/fmterr"
)

type (
	parser struct {
		fset *token.FileSet
		file *token.File
		lex  *lexer
		errs fmterr.Errors

		// Next token.
		pos token.Pos
		tok Token
		lit string
	}

	// bailout is used by the parser to stop at the first error.
	bailout struct{}

	posNode token.Pos
)

func (p posNode) Pos() token.Pos { return token.Pos(p) }
func (p posNode) End() token.Pos { return token.Pos(p) }

func newParser(fset *token.FileSet, filename string, src []byte) *parser {
	p := &parser{fset: fset}
	p.file = fset.AddFile(filename, -1, len(src))
	p.lex = newLexer(p.file, src, func(pos token.Pos, msg string) {
		p.errorAt(pos, "%s", msg)
	})
	return p
}

func (p *parser) next() {
	p.pos, p.tok, p.lit = p.lex.scan()
}

func (p *parser) errorAt(pos token.Pos, format string, a ...any) {
	p.errs.Append(fmterr.Errorf(p.fset, fmterr.Syntax, posNode(pos), format, a...))
	panic(bailout{})
}

func (p *parser) tokString() string {
	switch p.tok {
	case IDENT, NUMBER:
		return fmt.Sprintf("%s %s", strings.ToLower(p.tok.String()), p.lit)
	case EOF:
		return "end of file"
	}
	return fmt.Sprintf("%q", p.tok.String())
}

func (p *parser) errorExpected(what string) {
	p.errorAt(p.pos, "expected %s, found %s", what, p.tokString())
}

func (p *parser) expect(tok Token) token.Pos {
	pos := p.pos
	if p.tok != tok {
		p.errorExpected(fmt.Sprintf("%q", tok.String()))
	}
	p.next()
	return pos
}

func (p *parser) got(tok Token) bool {
	if p.tok != tok {
		return false
	}
	p.next()
	return true
}

func (p *parser) run(f func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(bailout); !ok {
			panic(r)
		}
		err = p.errs.ToError()
	}()
	p.next()
	f()
	return p.errs.ToError()
}

// ----------------------------------------------------------------------------
// Declarations

func (p *parser) parseFile(name string) *File {
	file := &File{Name: name}
	for p.tok != EOF {
		file.Funcs = append(file.Funcs, p.parseFuncDecl())
	}
	return file
}

func (p *parser) parseAttribute() *Attribute {
	attr := &Attribute{Hash: p.expect(HASH)}
	p.expect(LBRACK)
	attr.Name = p.parseIdent()
	if p.tok == LPAREN {
		p.skipBalanced()
	}
	attr.Rbrack = p.expect(RBRACK)
	return attr
}

func (p *parser) parseFuncDecl() *FuncDecl {
	fn := &FuncDecl{}
	for p.tok == HASH {
		fn.Attrs = append(fn.Attrs, p.parseAttribute())
	}
	fn.Fn = p.expect(FN)
	fn.Name = p.parseIdent()
	p.expect(LPAREN)
	for p.tok != RPAREN {
		fn.Params = append(fn.Params, p.parseParam())
		if !p.got(COMMA) {
			break
		}
	}
	p.expect(RPAREN)
	if p.got(ARROW) {
		fn.Result = p.parseType()
	}
	fn.Body = p.parseBlock()
	return fn
}

func (p *parser) parseParam() *Field {
	field := &Field{Mut: p.got(MUT)}
	field.Name = p.parseIdent()
	p.expect(COLON)
	field.Type = p.parseType()
	return field
}

func (p *parser) parseType() Expr {
	switch p.tok {
	case IDENT:
		return p.parseIdent()
	case LPAREN:
		tuple := &TupleType{Lparen: p.pos}
		p.next()
		for p.tok != RPAREN {
			tuple.Elts = append(tuple.Elts, p.parseType())
			if !p.got(COMMA) {
				break
			}
		}
		tuple.Rparen = p.expect(RPAREN)
		return tuple
	}
	p.errorExpected("type")
	return nil
}

func (p *parser) parseIdent() *Ident {
	pos, name := p.pos, p.lit
	if p.tok != IDENT {
		p.errorExpected("identifier")
	}
	p.next()
	return &Ident{NamePos: pos, Name: name}
}

// ----------------------------------------------------------------------------
// Statements

func (p *parser) parseBlock() *BlockStmt {
	block := &BlockStmt{Lbrace: p.expect(LBRACE)}
	for p.tok != RBRACE && p.tok != EOF {
		if p.got(SEMICOLON) {
			continue
		}
		block.List = append(block.List, p.parseStmt())
	}
	block.Rbrace = p.expect(RBRACE)
	return block
}

func isBlockLike(x Expr) bool {
	switch x.(type) {
	case *IfExpr, *BlockExpr, *LoopExpr, *MatchExpr:
		return true
	}
	return false
}

func (p *parser) parseStmt() Stmt {
	switch p.tok {
	case LET:
		return p.parseLet()
	case RETURN:
		stmt := &ReturnStmt{Return: p.pos}
		p.next()
		if p.tok != SEMICOLON {
			stmt.Result = p.parseExpr()
		}
		stmt.Semi = p.expect(SEMICOLON)
		return stmt
	}
	x := p.parseExpr()
	if p.tok.IsAssignOp() {
		stmt := &AssignStmt{Lhs: x, TokPos: p.pos, Tok: p.tok}
		p.next()
		stmt.Rhs = p.parseExpr()
		stmt.Semi = p.expect(SEMICOLON)
		return stmt
	}
	stmt := &ExprStmt{X: x}
	switch {
	case p.tok == SEMICOLON:
		stmt.Semi = p.pos
		p.next()
	case isBlockLike(x) || p.tok == RBRACE:
	default:
		p.errorExpected(fmt.Sprintf("%q", SEMICOLON.String()))
	}
	return stmt
}

func (p *parser) parseLet() *LetStmt {
	stmt := &LetStmt{Let: p.expect(LET)}
	stmt.Mut = p.got(MUT)
	if p.tok == LPAREN {
		stmt.Tuple = true
		p.next()
		for p.tok != RPAREN {
			stmt.Names = append(stmt.Names, p.parseIdent())
			if !p.got(COMMA) {
				break
			}
		}
		p.expect(RPAREN)
	} else {
		stmt.Names = []*Ident{p.parseIdent()}
	}
	if p.got(COLON) {
		stmt.Type = p.parseType()
	}
	p.expect(ASSIGN)
	stmt.Value = p.parseExpr()
	stmt.Semi = p.expect(SEMICOLON)
	return stmt
}

// ----------------------------------------------------------------------------
// Expressions

func (p *parser) parseExpr() Expr {
	return p.parseBinaryExpr(LowestPrec + 1)
}

func (p *parser) parseBinaryExpr(prec1 int) Expr {
	x := p.parseCastExpr()
	for {
		op := p.tok
		oprec := op.Precedence()
		if oprec < prec1 {
			return x
		}
		pos := p.pos
		p.next()
		y := p.parseBinaryExpr(oprec + 1)
		x = &BinaryExpr{X: x, OpPos: pos, Op: op, Y: y}
	}
}

func (p *parser) parseCastExpr() Expr {
	x := p.parseUnaryExpr()
	for p.got(AS) {
		x = &CastExpr{X: x, Type: p.parseType()}
	}
	return x
}

func (p *parser) parseUnaryExpr() Expr {
	switch p.tok {
	case SUB, NOT, AND, MUL:
		pos, op := p.pos, p.tok
		p.next()
		x := p.parseUnaryExpr()
		if lit, ok := x.(*BasicLit); ok && op == SUB && !strings.HasPrefix(lit.Value, "-") {
			return &BasicLit{ValuePos: pos, Value: "-" + lit.Value}
		}
		return &UnaryExpr{OpPos: pos, Op: op, X: x}
	}
	return p.parsePostfixExpr(p.parseOperand())
}

func (p *parser) parsePostfixExpr(x Expr) Expr {
	for {
		switch p.tok {
		case PERIOD:
			p.next()
			var sel *Ident
			if p.tok == NUMBER {
				// Tuple field.
				sel = &Ident{NamePos: p.pos, Name: p.lit}
				p.next()
			} else {
				sel = p.parseIdent()
			}
			if p.tok != LPAREN {
				x = &FieldExpr{X: x, Field: sel}
				continue
			}
			call := &MethodCallExpr{Recv: x, Method: sel}
			call.Lparen, call.Args, call.Rparen = p.parseArgs()
			x = call
		case LPAREN:
			call := &CallExpr{Fun: x}
			call.Lparen, call.Args, call.Rparen = p.parseArgs()
			x = call
		case LBRACK:
			index := &IndexExpr{X: x, Lbrack: p.pos}
			p.next()
			index.Index = p.parseExpr()
			index.Rbrack = p.expect(RBRACK)
			x = index
		default:
			return x
		}
	}
}

func (p *parser) parseArgs() (lparen token.Pos, args []Expr, rparen token.Pos) {
	lparen = p.expect(LPAREN)
	for p.tok != RPAREN {
		args = append(args, p.parseExpr())
		if !p.got(COMMA) {
			break
		}
	}
	rparen = p.expect(RPAREN)
	return
}

func (p *parser) parseOperand() Expr {
	switch p.tok {
	case IDENT:
		id := p.parseIdent()
		switch p.tok {
		case PATHSEP:
			path := &Path{Segments: []*Ident{id}}
			for p.got(PATHSEP) {
				path.Segments = append(path.Segments, p.parseIdent())
			}
			return path
		case NOT:
			p.next()
			if p.tok != LPAREN && p.tok != LBRACK && p.tok != LBRACE {
				p.errorExpected("macro arguments")
			}
			return &MacroExpr{Name: id, Rparen: p.skipBalanced()}
		}
		return id
	case NUMBER:
		lit := &BasicLit{ValuePos: p.pos, Value: p.lit}
		p.next()
		return lit
	case LPAREN:
		lparen := p.pos
		p.next()
		if p.tok == RPAREN {
			return &TupleExpr{Lparen: lparen, Rparen: p.expect(RPAREN)}
		}
		x := p.parseExpr()
		if p.tok != COMMA {
			return &ParenExpr{Lparen: lparen, X: x, Rparen: p.expect(RPAREN)}
		}
		tuple := &TupleExpr{Lparen: lparen, Elts: []Expr{x}}
		for p.got(COMMA) && p.tok != RPAREN {
			tuple.Elts = append(tuple.Elts, p.parseExpr())
		}
		tuple.Rparen = p.expect(RPAREN)
		return tuple
	case LBRACK:
		array := &ArrayExpr{Lbrack: p.pos}
		p.next()
		for p.tok != RBRACK {
			array.Elts = append(array.Elts, p.parseExpr())
			if !p.got(COMMA) {
				break
			}
		}
		array.Rbrack = p.expect(RBRACK)
		return array
	case OR, LOR:
		return p.parseClosure()
	case IF:
		return p.parseIf()
	case LBRACE:
		return &BlockExpr{Block: p.parseBlock()}
	case LOOP, WHILE, FOR:
		loop := &LoopExpr{Keyword: p.pos, Tok: p.tok}
		p.next()
		p.skipTo(LBRACE)
		loop.Body = p.parseBlock()
		return loop
	case MATCH:
		match := &MatchExpr{Match: p.pos}
		p.next()
		p.skipTo(LBRACE)
		match.Rbrace = p.skipBalanced()
		return match
	case BREAK, CONTINUE:
		branch := &BranchExpr{TokPos: p.pos, Tok: p.tok}
		p.next()
		return branch
	}
	p.errorExpected("expression")
	return nil
}

func (p *parser) parseClosure() Expr {
	closure := &ClosureExpr{Bar: p.pos}
	if p.got(OR) {
		for p.tok != OR {
			closure.Params = append(closure.Params, p.parseIdent())
			if p.got(COLON) {
				p.parseType()
			}
			if !p.got(COMMA) {
				break
			}
		}
		p.expect(OR)
	} else {
		p.expect(LOR)
	}
	closure.Body = p.parseExpr()
	return closure
}

func (p *parser) parseIf() *IfExpr {
	x := &IfExpr{If: p.expect(IF)}
	x.Cond = p.parseExpr()
	x.Then = p.parseBlock()
	if !p.got(ELSE) {
		return x
	}
	if p.tok == IF {
		x.Else = p.parseIf()
	} else {
		x.Else = &BlockExpr{Block: p.parseBlock()}
	}
	return x
}

// skipTo skips all the tokens until tok is found outside of parentheses or brackets.
func (p *parser) skipTo(tok Token) {
	depth := 0
	for {
		switch p.tok {
		case EOF:
			p.errorExpected(fmt.Sprintf("%q", tok.String()))
		case LPAREN, LBRACK:
			depth++
		case RPAREN, RBRACK:
			depth--
		case tok:
			if depth == 0 {
				return
			}
		}
		p.next()
	}
}

// skipBalanced skips a group of tokens starting with an opening parenthesis,
// bracket, or brace up to its matching closing token.
// It returns the position of the closing token.
func (p *parser) skipBalanced() token.Pos {
	depth := 0
	for {
		switch p.tok {
		case EOF:
			p.errorAt(p.pos, "unbalanced delimiters")
		case LPAREN, LBRACK, LBRACE:
			depth++
		case RPAREN, RBRACK, RBRACE:
			depth--
			if depth == 0 {
				pos := p.pos
				p.next()
				return pos
			}
		}
		p.next()
	}
}

// ----------------------------------------------------------------------------
// Entry points

// ParseFile parses a source file.
func ParseFile(fset *token.FileSet, filename string, src []byte) (*File, error) {
	p := newParser(fset, filename, src)
	var file *File
	if err := p.run(func() { file = p.parseFile(filename) }); err != nil {
		return nil, err
	}
	return file, nil
}

// ParseExprFrom parses a single expression. The position of the nodes are added to fset.
func ParseExprFrom(fset *token.FileSet, filename string, src string) (Expr, error) {
	p := newParser(fset, filename, []byte(src))
	var x Expr
	if err := p.run(func() {
		x = p.parseExpr()
		if p.tok != EOF {
			p.errorExpected("end of expression")
		}
	}); err != nil {
		return nil, err
	}
	return x, nil
}

// ParseExpr parses a single expression.
func ParseExpr(src string) (Expr, error) {
	return ParseExprFrom(token.NewFileSet(), "", src)
}

// ParseStmt parses a single statement.
func ParseStmt(src string) (Stmt, error) {
	p := newParser(token.NewFileSet(), "", []byte(src))
	var stmt Stmt
	if err := p.run(func() {
		stmt = p.parseStmt()
		if p.tok != EOF {
			p.errorExpected("end of statement")
		}
	}); err != nil {
		return nil, err
	}
	return stmt, nil
}
