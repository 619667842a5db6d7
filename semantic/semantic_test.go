package semantic

import (
	"testing"

	"github.com/launix-de/edustc/lexer"
	"github.com/launix-de/edustc/parser"
)

func analyzeSrc(t *testing.T, src string) error {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return Analyze(prog)
}

func TestAnalyzeAcceptsValidProgram(t *testing.T) {
	err := analyzeSrc(t, `
		func add(a, b) { return a + b; }
		func main() { return add(1, 2); }
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyzeRejectsMissingMain(t *testing.T) {
	err := analyzeSrc(t, `func f() { return 1; }`)
	if err == nil {
		t.Fatal("expected an error for missing main")
	}
}

func TestAnalyzeRejectsDuplicateFunction(t *testing.T) {
	err := analyzeSrc(t, `
		func f() { return 1; }
		func f() { return 2; }
		func main() { return f(); }
	`)
	if err == nil {
		t.Fatal("expected an error for duplicate function")
	}
}

func TestAnalyzeRejectsUndeclaredVariable(t *testing.T) {
	err := analyzeSrc(t, `func main() { return x; }`)
	if err == nil {
		t.Fatal("expected an error for undeclared variable")
	}
}

func TestAnalyzeRejectsArityMismatch(t *testing.T) {
	err := analyzeSrc(t, `
		func f(a) { return a; }
		func main() { return f(1, 2); }
	`)
	if err == nil {
		t.Fatal("expected an error for arity mismatch")
	}
}

func TestAnalyzeAllowsShadowingAcrossScopes(t *testing.T) {
	err := analyzeSrc(t, `
		func main() {
			let x = 1;
			if x == 1 {
				let x = 2;
				return x;
			}
			return x;
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error for shadowed variable: %v", err)
	}
}

func TestAnalyzeRejectsMainWithParams(t *testing.T) {
	err := analyzeSrc(t, `func main(a) { return a; }`)
	if err == nil {
		t.Fatal("expected an error for main with parameters")
	}
}

func TestAnalyzeRejectsUndeclaredCall(t *testing.T) {
	err := analyzeSrc(t, `func main() { return g(); }`)
	if err == nil {
		t.Fatal("expected an error for call to undeclared function")
	}
}
