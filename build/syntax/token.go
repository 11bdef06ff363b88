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

import "strconv"

// Token is the set of lexical tokens of the language.
type Token int

const (
	ILLEGAL Token = iota
	EOF

	IDENT  // x
	NUMBER // 3.0f64

	operatorBeg
	ADD // +
	SUB // -
	MUL // *
	QUO // /
	REM // %

	ADD_ASSIGN // +=
	SUB_ASSIGN // -=
	MUL_ASSIGN // *=
	QUO_ASSIGN // /=
	REM_ASSIGN // %=

	ASSIGN // =
	EQL    // ==
	NEQ    // !=
	LSS    // <
	LEQ    // <=
	GTR    // >
	GEQ    // >=
	LAND   // &&
	LOR    // ||
	NOT    // !
	AND    // &
	OR     // |

	ARROW     // ->
	FATARROW  // =>
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACK    // [
	RBRACK    // ]
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	PATHSEP   // ::
	PERIOD    // .
	RANGE     // ..
	HASH      // #
	operatorEnd

	keywordBeg
	AS
	BREAK
	CONTINUE
	ELSE
	FN
	FOR
	IF
	IN
	LET
	LOOP
	MATCH
	MUT
	RETURN
	WHILE
	keywordEnd
)

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	IDENT:   "IDENT",
	NUMBER:  "NUMBER",

	ADD: "+",
	SUB: "-",
	MUL: "*",
	QUO: "/",
	REM: "%",

	ADD_ASSIGN: "+=",
	SUB_ASSIGN: "-=",
	MUL_ASSIGN: "*=",
	QUO_ASSIGN: "/=",
	REM_ASSIGN: "%=",

	ASSIGN: "=",
	EQL:    "==",
	NEQ:    "!=",
	LSS:    "<",
	LEQ:    "<=",
	GTR:    ">",
	GEQ:    ">=",
	LAND:   "&&",
	LOR:    "||",
	NOT:    "!",
	AND:    "&",
	OR:     "|",

	ARROW:     "->",
	FATARROW:  "=>",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACK:    "[",
	RBRACK:    "]",
	COMMA:     ",",
	SEMICOLON: ";",
	COLON:     ":",
	PATHSEP:   "::",
	PERIOD:    ".",
	RANGE:     "..",
	HASH:      "#",

	AS:       "as",
	BREAK:    "break",
	CONTINUE: "continue",
	ELSE:     "else",
	FN:       "fn",
	FOR:      "for",
	IF:       "if",
	IN:       "in",
	LET:      "let",
	LOOP:     "loop",
	MATCH:    "match",
	MUT:      "mut",
	RETURN:   "return",
	WHILE:    "while",
}

func (tok Token) String() string {
	if tok >= 0 && int(tok) < len(tokens) && tokens[tok] != "" {
		return tokens[tok]
	}
	return "token(" + strconv.Itoa(int(tok)) + ")"
}

var keywords map[string]Token

func init() {
	keywords = make(map[string]Token, keywordEnd-(keywordBeg+1))
	for i := keywordBeg + 1; i < keywordEnd; i++ {
		keywords[tokens[i]] = i
	}
}

// Lookup maps an identifier to its keyword token or IDENT if it is not a keyword.
func Lookup(ident string) Token {
	if tok, isKeyword := keywords[ident]; isKeyword {
		return tok
	}
	return IDENT
}

// IsKeyword returns true for keyword tokens.
func (tok Token) IsKeyword() bool {
	return keywordBeg < tok && tok < keywordEnd
}

// Binary operator precedences.
const (
	LowestPrec  = 0
	CastPrec    = 8
	UnaryPrec   = 9
	PostfixPrec = 10
)

// Precedence returns the precedence of a binary operator or LowestPrec if tok is not a binary operator.
func (tok Token) Precedence() int {
	switch tok {
	case LOR:
		return 1
	case LAND:
		return 2
	case EQL, NEQ, LSS, LEQ, GTR, GEQ:
		return 3
	case OR:
		return 4
	case AND:
		return 5
	case ADD, SUB:
		return 6
	case MUL, QUO, REM:
		return 7
	}
	return LowestPrec
}

// IsAssignOp returns true if the token is an assignment or a compound assignment operator.
func (tok Token) IsAssignOp() bool {
	switch tok {
	case ASSIGN, ADD_ASSIGN, SUB_ASSIGN, MUL_ASSIGN, QUO_ASSIGN, REM_ASSIGN:
		return true
	}
	return false
}
