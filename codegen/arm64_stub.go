//go:build arm64

/*
Copyright (C) 2024-2026  Carl-Philip Hänsch

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

// arm64 mirrors the interpreter JIT's own unfinished state: the
// instruction encoders exist only for amd64 (see jit_arm64.go's stub
// jitReturnLiteral/jitNthArgument/jitStackFrame, all TODO). Compile
// reports an honest CodegenError instead of silently emitting nothing.
package codegen

import "github.com/launix-de/edustc/ast"

// PrintInt is the runtime collaborator's signature; kept identical to
// the amd64 build so callers do not need build-tagged call sites.
type PrintInt func(int64) int64

// Module is never constructed on this architecture.
type Module struct {
	Entry       func() int64
	FuncOffsets map[string]int
	CodeSize    int
}

// Compile always fails on arm64: no instruction encoder exists for it yet.
func Compile(prog *ast.Program, printInt PrintInt) (*Module, error) {
	return nil, &Error{Msg: "codegen: arm64 backend is not implemented"}
}

// TODO: port the amd64 encoders in emit_amd64.go to AArch64 instruction
// encoding once a concrete need for a non-amd64 target arises.
