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

// Package compiler orchestrates the lexer/parser/semantic/codegen
// pipeline, stage by stage, short-circuiting and prefixing the error on
// first failure — mirroring the distilled reference implementation's
// own compile_and_run driver.
package compiler

import (
	"fmt"

	"github.com/launix-de/edustc/ast"
	"github.com/launix-de/edustc/codegen"
	"github.com/launix-de/edustc/lexer"
	"github.com/launix-de/edustc/parser"
	"github.com/launix-de/edustc/runtime"
	"github.com/launix-de/edustc/semantic"
	"github.com/launix-de/edustc/session"
	"github.com/launix-de/edustc/trace"
)

// Result is the outcome of a successful compile: the invocable module
// plus the session id it was tagged with for trace/diagnostic output.
type Result struct {
	Module    *codegen.Module
	SessionID string
}

// Compile runs the full pipeline and returns a ready-to-invoke module,
// without running it. Each stage's error is prefixed with the stage
// name, matching the CLI contract's "<Stage> error: <message>" shape.
func Compile(src string) (*Result, error) {
	id := session.New()
	t := trace.Current

	toks, err := stage(t, "lex", "compile", func() ([]lexer.Token, error) {
		return lexer.Tokenize(src)
	})
	if err != nil {
		return nil, fmt.Errorf("Lexer error: %w", err)
	}

	prog, err := stage(t, "parse", "compile", func() (*ast.Program, error) {
		return parser.Parse(toks)
	})
	if err != nil {
		return nil, fmt.Errorf("Parser error: %w", err)
	}

	if err := stageVoid(t, "semantic", "compile", func() error {
		return semantic.Analyze(prog)
	}); err != nil {
		return nil, fmt.Errorf("Semantic error: %w", err)
	}

	mod, err := stage(t, "codegen", "compile", func() (*codegen.Module, error) {
		return codegen.Compile(prog, runtime.PrintInt)
	})
	if err != nil {
		return nil, fmt.Errorf("Codegen error: %w", err)
	}

	return &Result{Module: mod, SessionID: id}, nil
}

// Run invokes the compiled entry point and returns its result. A
// RuntimeTrap (e.g. signed division by zero) is, per design, left
// genuinely unhandled here: no signal recovery is attempted, consistent
// with the specification's stance that trap behavior is owned by the
// backend/OS, not this layer.
func Run(r *Result) int64 {
	return r.Module.Entry()
}

// CompileAndRun is the single-shot convenience entry point used by the
// default CLI mode.
func CompileAndRun(src string) (int64, error) {
	r, err := Compile(src)
	if err != nil {
		return 0, err
	}
	return Run(r), nil
}

func stage[T any](t *trace.Tracefile, name, cat string, f func() (T, error)) (T, error) {
	var result T
	var err error
	run := func() error {
		result, err = f()
		return err
	}
	if t != nil {
		if tracedErr := t.Duration(name, cat, run); tracedErr != nil {
			return result, tracedErr
		}
		return result, err
	}
	run()
	return result, err
}

func stageVoid(t *trace.Tracefile, name, cat string, f func() error) error {
	if t != nil {
		return t.Duration(name, cat, f)
	}
	return f()
}
