//go:build amd64

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
package codegen

// Reg is a hardware register index using the standard x86-64 encoding
// (0-7 legacy, 8-15 the REX-extended set).
type Reg uint8

const (
	RAX Reg = 0
	RCX Reg = 1
	RDX Reg = 2
	RBX Reg = 3
	RSP Reg = 4
	RBP Reg = 5
	RSI Reg = 6
	RDI Reg = 7
	R8  Reg = 8
	R9  Reg = 9
	R10 Reg = 10
	R11 Reg = 11
	R12 Reg = 12
	R13 Reg = 13
	R14 Reg = 14
	R15 Reg = 15
)

// abiArgRegs is the internal Go-register-style calling convention this
// backend uses for every call, Edust-to-Edust or Edust-to-print_int:
// integer arguments in order RAX, RBX, RCX, RDX, RSI, RDI, R8, R9, the
// result in RAX. Both call sides are generated by this same compiler, so
// no externally documented ABI is required.
var abiArgRegs = [8]Reg{RAX, RBX, RCX, RDX, RSI, RDI, R8, R9}

// generalPool excludes RAX/RDX (reserved for IDIV and the function
// result), RSP/RBP (frame pointer discipline), R10 (IDIV divisor
// scratch), R11 (absolute call-target scratch), R14 (holds the current
// goroutine for the Go code that calls into, and is called from,
// compiled code) and R15 (spare). The 8 remaining registers are six of
// the eight ABI argument registers plus R12/R13; none of them survives a
// call, so live ones are spilled around every call site.
var generalPool = []Reg{RBX, RCX, RSI, RDI, R8, R9, R12, R13}

const maxParams = 8

func isExtended(r Reg) bool { return r >= R8 }
