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
	"unicode"
	"unicode/utf8"
)

const eof = -1

// lexer tokenizes source code.
type lexer struct {
	file *token.File
	src  []byte
	err  func(pos token.Pos, msg string)

	ch       rune // current character, eof at the end of the source
	offset   int  // offset of ch
	rdOffset int  // offset of the character after ch
}

func newLexer(file *token.File, src []byte, err func(token.Pos, string)) *lexer {
	file.SetLinesForContent(src)
	l := &lexer{file: file, src: src, err: err}
	l.next()
	return l
}

func (l *lexer) next() {
	if l.rdOffset >= len(l.src) {
		l.offset = len(l.src)
		l.ch = eof
		return
	}
	l.offset = l.rdOffset
	r, w := rune(l.src[l.rdOffset]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(l.src[l.rdOffset:])
		if r == utf8.RuneError && w == 1 {
			l.error(l.offset, "illegal UTF-8 encoding")
		}
	}
	l.rdOffset += w
	l.ch = r
}

func (l *lexer) peek() rune {
	if l.rdOffset >= len(l.src) {
		return eof
	}
	r, _ := utf8.DecodeRune(l.src[l.rdOffset:])
	return r
}

func (l *lexer) error(offset int, msg string) {
	if l.err != nil {
		l.err(l.file.Pos(offset), msg)
	}
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch >= utf8.RuneSelf && unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9' || ch >= utf8.RuneSelf && unicode.IsDigit(ch)
}

func (l *lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.next()
		case l.ch == '/' && l.peek() == '/':
			for l.ch != '\n' && l.ch != eof {
				l.next()
			}
		case l.ch == '/' && l.peek() == '*':
			start := l.offset
			l.next()
			l.next()
			for !(l.ch == '*' && l.peek() == '/') {
				if l.ch == eof {
					l.error(start, "comment not terminated")
					return
				}
				l.next()
			}
			l.next()
			l.next()
		default:
			return
		}
	}
}

func (l *lexer) scanIdentifier() string {
	start := l.offset
	for isLetter(l.ch) || isDigit(l.ch) {
		l.next()
	}
	return string(l.src[start:l.offset])
}

func (l *lexer) scanDigits() {
	for isDigit(l.ch) || l.ch == '_' {
		l.next()
	}
}

// scanNumber scans a numeric literal with an optional type suffix, e.g. 7, 3.0, 1e-3, 2.0_f32, 7u16.
func (l *lexer) scanNumber() string {
	start := l.offset
	l.scanDigits()
	// A period is part of the number unless it starts a method call, a field access, or a range.
	if l.ch == '.' {
		if p := l.peek(); p != '.' && !isLetter(p) {
			l.next()
			l.scanDigits()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		p := l.peek()
		if isDigit(p) || p == '+' || p == '-' {
			l.next()
			if l.ch == '+' || l.ch == '-' {
				l.next()
			}
			if !isDigit(l.ch) {
				l.error(l.offset, "exponent has no digits")
			}
			l.scanDigits()
		}
	}
	if l.ch == 'f' || l.ch == 'i' || l.ch == 'u' {
		l.scanIdentifier()
	}
	return string(l.src[start:l.offset])
}

// switch2 returns tok1 if the next character is ch1 (which is then consumed), tok0 otherwise.
func (l *lexer) switch2(tok0 Token, ch1 rune, tok1 Token) Token {
	if l.ch == ch1 {
		l.next()
		return tok1
	}
	return tok0
}

// scan returns the next token, its position, and its literal string for identifiers and numbers.
func (l *lexer) scan() (pos token.Pos, tok Token, lit string) {
	l.skipWhitespaceAndComments()
	pos = l.file.Pos(l.offset)
	switch ch := l.ch; {
	case isLetter(ch):
		lit = l.scanIdentifier()
		tok = Lookup(lit)
		if tok != IDENT {
			lit = ""
		}
		return
	case isDigit(ch):
		return pos, NUMBER, l.scanNumber()
	}
	ch := l.ch
	l.next()
	switch ch {
	case eof:
		tok = EOF
	case '+':
		tok = l.switch2(ADD, '=', ADD_ASSIGN)
	case '-':
		switch l.ch {
		case '>':
			l.next()
			tok = ARROW
		case '=':
			l.next()
			tok = SUB_ASSIGN
		default:
			tok = SUB
		}
	case '*':
		tok = l.switch2(MUL, '=', MUL_ASSIGN)
	case '/':
		tok = l.switch2(QUO, '=', QUO_ASSIGN)
	case '%':
		tok = l.switch2(REM, '=', REM_ASSIGN)
	case '=':
		switch l.ch {
		case '=':
			l.next()
			tok = EQL
		case '>':
			l.next()
			tok = FATARROW
		default:
			tok = ASSIGN
		}
	case '!':
		tok = l.switch2(NOT, '=', NEQ)
	case '<':
		tok = l.switch2(LSS, '=', LEQ)
	case '>':
		tok = l.switch2(GTR, '=', GEQ)
	case '&':
		tok = l.switch2(AND, '&', LAND)
	case '|':
		tok = l.switch2(OR, '|', LOR)
	case '(':
		tok = LPAREN
	case ')':
		tok = RPAREN
	case '{':
		tok = LBRACE
	case '}':
		tok = RBRACE
	case '[':
		tok = LBRACK
	case ']':
		tok = RBRACK
	case ',':
		tok = COMMA
	case ';':
		tok = SEMICOLON
	case ':':
		tok = l.switch2(COLON, ':', PATHSEP)
	case '.':
		tok = l.switch2(PERIOD, '.', RANGE)
	case '#':
		tok = HASH
	default:
		l.error(l.file.Offset(pos), fmt.Sprintf("illegal character %#U", ch))
		tok = ILLEGAL
		lit = string(ch)
	}
	return
}
