package lexer

import "testing"

func TestTokenizeBasic(t *testing.T) {
	toks, err := Tokenize("func main() { let x = 42; return x; }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Kind{
		KwFunc, Ident, LParen, RParen, LBrace,
		KwLet, Ident, Assign, Number, Semicolon,
		KwReturn, Ident, Semicolon,
		RBrace, EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
	if toks[8].Number != 42 {
		t.Errorf("literal: got %d, want 42", toks[8].Number)
	}
}

func TestTokenizeOperators(t *testing.T) {
	toks, err := Tokenize("<= >= == != && || ! = < >")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Kind{Le, Ge, EqEq, NotEq, AndAnd, OrOr, Bang, Assign, Lt, Gt, EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestTokenizeLineColumn(t *testing.T) {
	toks, err := Tokenize("a\nbb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Line != 1 || toks[0].Column != 1 {
		t.Errorf("first token position: got (%d,%d)", toks[0].Line, toks[0].Column)
	}
	if toks[1].Line != 2 || toks[1].Column != 1 {
		t.Errorf("second token position: got (%d,%d)", toks[1].Line, toks[1].Column)
	}
}

func TestTokenizeComment(t *testing.T) {
	toks, err := Tokenize("let x = 1; // trailing comment\nlet y = 2;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var count int
	for _, tok := range toks {
		if tok.Kind != EOF {
			count++
		}
	}
	if count != 10 {
		t.Errorf("got %d non-eof tokens, want 10", count)
	}
}

func TestTokenizeUnexpectedChar(t *testing.T) {
	if _, err := Tokenize("let x = @;"); err == nil {
		t.Fatal("expected an error for '@'")
	}
}

func TestTokenizeInvalidOperator(t *testing.T) {
	if _, err := Tokenize("a & b"); err == nil {
		t.Fatal("expected an error for single '&'")
	}
}
