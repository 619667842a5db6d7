/*
Copyright (C) 2023  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package lexer

import "fmt"

// Kind identifies the lexical class of a Token.
type Kind uint8

const (
	EOF Kind = iota
	Ident
	Number

	// keywords
	KwFunc
	KwLet
	KwIf
	KwElse
	KwWhile
	KwReturn

	// punctuation
	LParen
	RParen
	LBrace
	RBrace
	Comma
	Semicolon

	// operators
	Plus
	Minus
	Star
	Slash
	Percent
	Lt
	Le
	Gt
	Ge
	EqEq
	NotEq
	AndAnd
	OrOr
	Bang
	Assign
)

var keywords = map[string]Kind{
	"func":   KwFunc,
	"let":    KwLet,
	"if":     KwIf,
	"else":   KwElse,
	"while":  KwWhile,
	"return": KwReturn,
}

var kindNames = map[Kind]string{
	EOF:       "eof",
	Ident:     "identifier",
	Number:    "number",
	KwFunc:    "func",
	KwLet:     "let",
	KwIf:      "if",
	KwElse:    "else",
	KwWhile:   "while",
	KwReturn:  "return",
	LParen:    "(",
	RParen:    ")",
	LBrace:    "{",
	RBrace:    "}",
	Comma:     ",",
	Semicolon: ";",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Percent:   "%",
	Lt:        "<",
	Le:        "<=",
	Gt:        ">",
	Ge:        ">=",
	EqEq:      "==",
	NotEq:     "!=",
	AndAnd:    "&&",
	OrOr:      "||",
	Bang:      "!",
	Assign:    "=",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Token is a single lexical unit together with its source position.
type Token struct {
	Kind   Kind
	Text   string // identifier name, or the literal text of a number
	Number int64  // populated when Kind == Number
	Line   int
	Column int
}

func (t Token) String() string {
	if t.Kind == Ident || t.Kind == Number {
		return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
	}
	return t.Kind.String()
}
