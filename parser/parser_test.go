package parser

import (
	"testing"

	"github.com/launix-de/edustc/ast"
	"github.com/launix-de/edustc/lexer"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := Parse(toks)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog
}

func TestParseFunctionShape(t *testing.T) {
	prog := mustParse(t, "func add(a, b) { return a + b; }")
	if len(prog.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Name != "add" || len(fn.Params) != 2 || fn.Params[0] != "a" || fn.Params[1] != "b" {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(fn.Body.Statements))
	}
	ret, ok := fn.Body.Statements[0].(*ast.Return)
	if !ok {
		t.Fatalf("statement is %T, want *ast.Return", fn.Body.Statements[0])
	}
	bin, ok := ret.Value.(*ast.Binary)
	if !ok || bin.Op != ast.Add {
		t.Fatalf("return value is %+v, want Add binary", ret.Value)
	}
}

func TestParsePrecedence(t *testing.T) {
	// a + b * c should parse as a + (b * c)
	prog := mustParse(t, "func main() { return 1 + 2 * 3; }")
	ret := prog.Functions[0].Body.Statements[0].(*ast.Return)
	top, ok := ret.Value.(*ast.Binary)
	if !ok || top.Op != ast.Add {
		t.Fatalf("top operator should be Add, got %+v", ret.Value)
	}
	right, ok := top.Right.(*ast.Binary)
	if !ok || right.Op != ast.Mul {
		t.Fatalf("right operand should be Mul, got %+v", top.Right)
	}
}

func TestParseLeftAssociativity(t *testing.T) {
	// 1 - 2 - 3 should parse as (1 - 2) - 3
	prog := mustParse(t, "func main() { return 1 - 2 - 3; }")
	ret := prog.Functions[0].Body.Statements[0].(*ast.Return)
	top, ok := ret.Value.(*ast.Binary)
	if !ok || top.Op != ast.Sub {
		t.Fatalf("top should be Sub, got %+v", ret.Value)
	}
	left, ok := top.Left.(*ast.Binary)
	if !ok || left.Op != ast.Sub {
		t.Fatalf("left operand should be Sub, got %+v", top.Left)
	}
	if _, ok := top.Right.(*ast.Number); !ok {
		t.Fatalf("right operand should be a bare number, got %+v", top.Right)
	}
}

func TestParseIfElse(t *testing.T) {
	prog := mustParse(t, "func main() { if 1 < 2 { return 1; } else { return 0; } }")
	ifs, ok := prog.Functions[0].Body.Statements[0].(*ast.If)
	if !ok {
		t.Fatalf("statement is %T, want *ast.If", prog.Functions[0].Body.Statements[0])
	}
	if ifs.Else == nil {
		t.Fatal("expected an else block")
	}
}

func TestParseWhileAndCall(t *testing.T) {
	prog := mustParse(t, "func main() { while f(1, 2) { x = x + 1; } }")
	wh, ok := prog.Functions[0].Body.Statements[0].(*ast.While)
	if !ok {
		t.Fatalf("statement is %T, want *ast.While", prog.Functions[0].Body.Statements[0])
	}
	call, ok := wh.Condition.(*ast.Call)
	if !ok || call.Name != "f" || len(call.Args) != 2 {
		t.Fatalf("unexpected while condition: %+v", wh.Condition)
	}
}

func TestParseUnaryRightAssociative(t *testing.T) {
	prog := mustParse(t, "func main() { return !!1; }")
	ret := prog.Functions[0].Body.Statements[0].(*ast.Return)
	outer, ok := ret.Value.(*ast.Unary)
	if !ok || outer.Op != ast.Not {
		t.Fatalf("outer should be Not, got %+v", ret.Value)
	}
	if _, ok := outer.Operand.(*ast.Unary); !ok {
		t.Fatalf("inner operand should also be Unary, got %+v", outer.Operand)
	}
}

func TestParseMissingSemicolonIsError(t *testing.T) {
	toks, err := lexer.Tokenize("func main() { return 1 }")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if _, err := Parse(toks); err == nil {
		t.Fatal("expected a parse error for missing semicolon")
	}
}
