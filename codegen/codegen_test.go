//go:build amd64

package codegen

import (
	"testing"

	"github.com/launix-de/edustc/lexer"
	"github.com/launix-de/edustc/parser"
	"github.com/launix-de/edustc/semantic"
)

func compileSrc(t *testing.T, src string) *Module {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if err := semantic.Analyze(prog); err != nil {
		t.Fatalf("semantic error: %v", err)
	}
	mod, err := Compile(prog, func(v int64) int64 { return v })
	if err != nil {
		t.Fatalf("codegen error: %v", err)
	}
	return mod
}

func TestCompileLiteralReturn(t *testing.T) {
	mod := compileSrc(t, `func main() { let x = 42; return x; }`)
	if got := mod.Entry(); got != 42 {
		t.Errorf("got %d, want 42", got)
	}
}

func TestCompileArithmeticPrecedence(t *testing.T) {
	mod := compileSrc(t, `func main() { let a = 10; let b = 20; let c = a + b * 2; return c; }`)
	if got := mod.Entry(); got != 50 {
		t.Errorf("got %d, want 50", got)
	}
}

func TestCompileIfElse(t *testing.T) {
	mod := compileSrc(t, `func main() { let x = 5; if x > 3 { return 1; } else { return 0; } }`)
	if got := mod.Entry(); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}

func TestCompileWhileLoop(t *testing.T) {
	mod := compileSrc(t, `func main() {
		let i = 0;
		let sum = 0;
		while i < 5 {
			sum = sum + i;
			i = i + 1;
		}
		return sum;
	}`)
	if got := mod.Entry(); got != 10 {
		t.Errorf("got %d, want 10", got)
	}
}

func TestCompileFunctionCall(t *testing.T) {
	mod := compileSrc(t, `
		func add(a, b) { return a + b; }
		func main() { return add(10, 20); }
	`)
	if got := mod.Entry(); got != 30 {
		t.Errorf("got %d, want 30", got)
	}
}

func TestCompileStrictLogical(t *testing.T) {
	mod := compileSrc(t, `func main() {
		let a = 1;
		let b = 0;
		if a && !b {
			if a || b {
				return 1;
			}
		}
		return 0;
	}`)
	if got := mod.Entry(); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}

func TestCompileDivMod(t *testing.T) {
	mod := compileSrc(t, `func main() { return 17 / 5 + 17 % 5; }`)
	if got := mod.Entry(); got != 5 {
		t.Errorf("got %d, want 5", got)
	}
}

func TestCompileNestedDivision(t *testing.T) {
	mod := compileSrc(t, `func main() { return (100 / (20 / 4)) / 5; }`)
	if got := mod.Entry(); got != 4 {
		t.Errorf("got %d, want 4", got)
	}
}

func TestCompileNestedCallArguments(t *testing.T) {
	mod := compileSrc(t, `
		func add(a, b) { return a + b; }
		func main() { return add(add(1, 2), add(3, 4)); }
	`)
	if got := mod.Entry(); got != 10 {
		t.Errorf("got %d, want 10", got)
	}
}

func TestCompilePrintReturnsItsArgument(t *testing.T) {
	mod := compileSrc(t, `func main() { return print(7); }`)
	if got := mod.Entry(); got != 7 {
		t.Errorf("got %d, want 7", got)
	}
}

func TestCompileLiveRegisterSurvivesCall(t *testing.T) {
	mod := compileSrc(t, `
		func id(x) { return x; }
		func main() { return 1000 + id(1) + id(2) + id(3); }
	`)
	if got := mod.Entry(); got != 1006 {
		t.Errorf("got %d, want 1006", got)
	}
}

func TestCompileRecursion(t *testing.T) {
	mod := compileSrc(t, `
		func fact(n) {
			if n <= 1 {
				return 1;
			}
			return n * fact(n - 1);
		}
		func main() { return fact(5); }
	`)
	if got := mod.Entry(); got != 120 {
		t.Errorf("got %d, want 120", got)
	}
}
