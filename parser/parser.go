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

// Package parser builds an ast.Program from a token stream via recursive
// descent with precedence climbing over the binary operators.
package parser

import (
	"fmt"

	"github.com/launix-de/edustc/ast"
	"github.com/launix-de/edustc/lexer"
)

// Error reports a parse failure at a specific token position.
type Error struct {
	Line, Column int
	Msg          string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (line %d, column %d)", e.Msg, e.Line, e.Column)
}

type parser struct {
	toks []lexer.Token
	pos  int
}

// Parse consumes the entire token stream and returns the program, or the
// first parse error encountered.
func Parse(toks []lexer.Token) (prog *ast.Program, err error) {
	p := &parser{toks: toks}
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*Error); ok {
				err = pe
				return
			}
			panic(r)
		}
	}()
	prog = p.parseProgram()
	return prog, nil
}

func (p *parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *parser) peekKind() lexer.Kind { return p.toks[p.pos].Kind }

func (p *parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if t.Kind != lexer.EOF {
		p.pos++
	}
	return t
}

func (p *parser) fail(msg string) {
	t := p.cur()
	panic(&Error{Line: t.Line, Column: t.Column, Msg: msg})
}

func (p *parser) expect(k lexer.Kind) lexer.Token {
	if p.peekKind() != k {
		p.fail(fmt.Sprintf("expected %s, found %s", k, p.cur().Kind))
	}
	return p.advance()
}

func (p *parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	for p.peekKind() != lexer.EOF {
		prog.Functions = append(prog.Functions, p.parseFunction())
	}
	return prog
}

func (p *parser) parseFunction() *ast.Function {
	line := p.cur().Line
	p.expect(lexer.KwFunc)
	name := p.expect(lexer.Ident).Text
	p.expect(lexer.LParen)
	var params []string
	if p.peekKind() != lexer.RParen {
		params = append(params, p.expect(lexer.Ident).Text)
		for p.peekKind() == lexer.Comma {
			p.advance()
			params = append(params, p.expect(lexer.Ident).Text)
		}
	}
	p.expect(lexer.RParen)
	body := p.parseBlock()
	return &ast.Function{Name: name, Params: params, Body: body, Line: line}
}

func (p *parser) parseBlock() *ast.Block {
	p.expect(lexer.LBrace)
	b := &ast.Block{}
	for p.peekKind() != lexer.RBrace {
		if p.peekKind() == lexer.EOF {
			p.fail("unexpected end of input, expected }")
		}
		b.Statements = append(b.Statements, p.parseStatement())
	}
	p.expect(lexer.RBrace)
	return b
}

func (p *parser) parseStatement() ast.Statement {
	line := p.cur().Line
	switch p.peekKind() {
	case lexer.KwLet:
		p.advance()
		name := p.expect(lexer.Ident).Text
		p.expect(lexer.Assign)
		val := p.parseExpr()
		p.expect(lexer.Semicolon)
		return &ast.VarDecl{Name: name, Value: val, Line: line}
	case lexer.KwIf:
		return p.parseIf()
	case lexer.KwWhile:
		return p.parseWhile()
	case lexer.KwReturn:
		p.advance()
		val := p.parseExpr()
		p.expect(lexer.Semicolon)
		return &ast.Return{Value: val, Line: line}
	case lexer.Ident:
		// either an assignment ("x = expr;") or a bare expression statement
		if p.toks[p.pos+1].Kind == lexer.Assign {
			name := p.advance().Text
			p.advance() // '='
			val := p.parseExpr()
			p.expect(lexer.Semicolon)
			return &ast.Assignment{Name: name, Value: val, Line: line}
		}
		fallthrough
	default:
		val := p.parseExpr()
		p.expect(lexer.Semicolon)
		return &ast.ExprStmt{Value: val, Line: line}
	}
}

func (p *parser) parseIf() ast.Statement {
	line := p.cur().Line
	p.expect(lexer.KwIf)
	cond := p.parseExpr()
	then := p.parseBlock()
	var els *ast.Block
	if p.peekKind() == lexer.KwElse {
		p.advance()
		if p.peekKind() == lexer.KwIf {
			// desugar "else if" into a single-statement else block
			els = &ast.Block{Statements: []ast.Statement{p.parseIf()}}
		} else {
			els = p.parseBlock()
		}
	}
	return &ast.If{Condition: cond, Then: then, Else: els, Line: line}
}

func (p *parser) parseWhile() ast.Statement {
	line := p.cur().Line
	p.expect(lexer.KwWhile)
	cond := p.parseExpr()
	body := p.parseBlock()
	return &ast.While{Condition: cond, Body: body, Line: line}
}

// Precedence climbing chain: LogicOr -> LogicAnd -> Equality -> Relational
// -> Additive -> Multiplicative -> Unary -> Primary.

func (p *parser) parseExpr() ast.Expr { return p.parseLogicOr() }

func (p *parser) parseLogicOr() ast.Expr {
	left := p.parseLogicAnd()
	for p.peekKind() == lexer.OrOr {
		line := p.advance().Line
		right := p.parseLogicAnd()
		left = &ast.Binary{Op: ast.Or, Left: left, Right: right, Line: line}
	}
	return left
}

func (p *parser) parseLogicAnd() ast.Expr {
	left := p.parseEquality()
	for p.peekKind() == lexer.AndAnd {
		line := p.advance().Line
		right := p.parseEquality()
		left = &ast.Binary{Op: ast.And, Left: left, Right: right, Line: line}
	}
	return left
}

func (p *parser) parseEquality() ast.Expr {
	left := p.parseRelational()
	for {
		var op ast.BinOp
		switch p.peekKind() {
		case lexer.EqEq:
			op = ast.Eq
		case lexer.NotEq:
			op = ast.Ne
		default:
			return left
		}
		line := p.advance().Line
		right := p.parseRelational()
		left = &ast.Binary{Op: op, Left: left, Right: right, Line: line}
	}
}

func (p *parser) parseRelational() ast.Expr {
	left := p.parseAdditive()
	for {
		var op ast.BinOp
		switch p.peekKind() {
		case lexer.Lt:
			op = ast.Lt
		case lexer.Le:
			op = ast.Le
		case lexer.Gt:
			op = ast.Gt
		case lexer.Ge:
			op = ast.Ge
		default:
			return left
		}
		line := p.advance().Line
		right := p.parseAdditive()
		left = &ast.Binary{Op: op, Left: left, Right: right, Line: line}
	}
}

func (p *parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for {
		var op ast.BinOp
		switch p.peekKind() {
		case lexer.Plus:
			op = ast.Add
		case lexer.Minus:
			op = ast.Sub
		default:
			return left
		}
		line := p.advance().Line
		right := p.parseMultiplicative()
		left = &ast.Binary{Op: op, Left: left, Right: right, Line: line}
	}
}

func (p *parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for {
		var op ast.BinOp
		switch p.peekKind() {
		case lexer.Star:
			op = ast.Mul
		case lexer.Slash:
			op = ast.Div
		case lexer.Percent:
			op = ast.Mod
		default:
			return left
		}
		line := p.advance().Line
		right := p.parseUnary()
		left = &ast.Binary{Op: op, Left: left, Right: right, Line: line}
	}
}

func (p *parser) parseUnary() ast.Expr {
	switch p.peekKind() {
	case lexer.Minus:
		line := p.advance().Line
		return &ast.Unary{Op: ast.Neg, Operand: p.parseUnary(), Line: line}
	case lexer.Bang:
		line := p.advance().Line
		return &ast.Unary{Op: ast.Not, Operand: p.parseUnary(), Line: line}
	default:
		return p.parsePrimary()
	}
}

func (p *parser) parsePrimary() ast.Expr {
	t := p.cur()
	switch t.Kind {
	case lexer.Number:
		p.advance()
		return &ast.Number{Value: t.Number, Line: t.Line}
	case lexer.Ident:
		p.advance()
		if p.peekKind() == lexer.LParen {
			p.advance()
			var args []ast.Expr
			if p.peekKind() != lexer.RParen {
				args = append(args, p.parseExpr())
				for p.peekKind() == lexer.Comma {
					p.advance()
					args = append(args, p.parseExpr())
				}
			}
			p.expect(lexer.RParen)
			return &ast.Call{Name: t.Text, Args: args, Line: t.Line}
		}
		return &ast.Variable{Name: t.Text, Line: t.Line}
	case lexer.LParen:
		p.advance()
		e := p.parseExpr()
		p.expect(lexer.RParen)
		return e
	}
	p.fail(fmt.Sprintf("unexpected token %s in expression", t.Kind))
	return nil
}
