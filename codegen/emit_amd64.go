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

// Instruction encoders for the amd64 backend: hand-written REX/ModRM
// emission in the same style as the interpreter's JIT, specialized to
// this compiler's flat int64-everywhere, RBP-relative-memory world.
package codegen

// rex builds a REX prefix. w selects 64-bit operand size (always set in
// this backend); r/x/b are the extension bits for ModRM.reg, SIB.index
// and ModRM.rm/opcode-reg respectively.
func rex(w, r, x, b bool) byte {
	var v byte = 0x40
	if w {
		v |= 1 << 3
	}
	if r {
		v |= 1 << 2
	}
	if x {
		v |= 1 << 1
	}
	if b {
		v |= 1
	}
	return v
}

func modrm(mod, reg, rm byte) byte {
	return (mod << 6) | ((reg & 7) << 3) | (rm & 7)
}

// movRegReg: dst = src (MOV r/m64, r64).
func (w *Writer) movRegReg(dst, src Reg) {
	if dst == src {
		return
	}
	w.byte(rex(true, isExtended(src), false, isExtended(dst)))
	w.byte(0x89)
	w.byte(modrm(3, byte(src), byte(dst)))
}

// movRegImm64: dst = imm (MOV r64, imm64).
func (w *Writer) movRegImm64(dst Reg, imm uint64) {
	w.byte(rex(true, false, false, isExtended(dst)))
	w.byte(0xB8 + (byte(dst) & 7))
	w.imm64(imm)
}

// movRegMemRBP: dst = [rbp+disp] (MOV r64, r/m64).
func (w *Writer) movRegMemRBP(dst Reg, disp int32) {
	w.byte(rex(true, isExtended(dst), false, false))
	w.byte(0x8B)
	w.byte(modrm(2, byte(dst), byte(RBP)))
	w.imm32(disp)
}

// movMemRBPReg: [rbp+disp] = src (MOV r/m64, r64).
func (w *Writer) movMemRBPReg(disp int32, src Reg) {
	w.byte(rex(true, isExtended(src), false, false))
	w.byte(0x89)
	w.byte(modrm(2, byte(src), byte(RBP)))
	w.imm32(disp)
}

func (w *Writer) aluRegReg(opcode byte, dst, src Reg) {
	w.byte(rex(true, isExtended(src), false, isExtended(dst)))
	w.byte(opcode)
	w.byte(modrm(3, byte(src), byte(dst)))
}

// addRegReg: dst += src.
func (w *Writer) addRegReg(dst, src Reg) { w.aluRegReg(0x01, dst, src) }

// subRegReg: dst -= src.
func (w *Writer) subRegReg(dst, src Reg) { w.aluRegReg(0x29, dst, src) }

// andRegReg: dst &= src.
func (w *Writer) andRegReg(dst, src Reg) { w.aluRegReg(0x21, dst, src) }

// orRegReg: dst |= src.
func (w *Writer) orRegReg(dst, src Reg) { w.aluRegReg(0x09, dst, src) }

// cmpRegReg: compute a-b (flags only); a is the "left", b the "right".
func (w *Writer) cmpRegReg(a, b Reg) { w.aluRegReg(0x39, a, b) }

// imulRegReg: dst *= src (IMUL r64, r/m64 — two-byte opcode form).
func (w *Writer) imulRegReg(dst, src Reg) {
	w.byte(rex(true, isExtended(dst), false, isExtended(src)))
	w.byte(0x0F)
	w.byte(0xAF)
	w.byte(modrm(3, byte(dst), byte(src)))
}

// negReg: dst = -dst (NEG r/m64, opcode extension /3).
func (w *Writer) negReg(dst Reg) {
	w.byte(rex(true, false, false, isExtended(dst)))
	w.byte(0xF7)
	w.byte(modrm(3, 3, byte(dst)))
}

// cqo sign-extends RAX into RDX:RAX.
func (w *Writer) cqo() {
	w.byte(rex(true, false, false, false))
	w.byte(0x99)
}

// idivReg: RDX:RAX / divisor -> quotient in RAX, remainder in RDX
// (IDIV r/m64, opcode extension /7).
func (w *Writer) idivReg(divisor Reg) {
	w.byte(rex(true, false, false, isExtended(divisor)))
	w.byte(0xF7)
	w.byte(modrm(3, 7, byte(divisor)))
}

// condCode is an x86 condition code nibble used by both Jcc and SETcc.
type condCode byte

const (
	ccEq condCode = 0x4 // E/Z
	ccNe condCode = 0x5 // NE/NZ
	ccLt condCode = 0xC // L
	ccLe condCode = 0xE // LE
	ccGt condCode = 0xF // G
	ccGe condCode = 0xD // GE
)

// setcc writes 0/1 into the low byte of dst based on flags, then the
// caller is expected to have zeroed dst beforehand (MOV does not touch
// flags, so "mov dst,0; cmp ...; setcc dst" is unsafe ordering — the
// correct order used throughout this backend is "cmp ...; mov dst,0;
// setcc dst").
func (w *Writer) setcc(cc condCode, dst Reg) {
	w.byte(rex(false, false, false, isExtended(dst)))
	w.byte(0x0F)
	w.byte(0x90 | byte(cc))
	w.byte(modrm(3, 0, byte(dst)))
}

// jccRel32 reserves a 4-byte displacement to label, patched later.
func (w *Writer) jccRel32(cc condCode, label int) {
	w.byte(0x0F)
	w.byte(0x80 | byte(cc))
	w.addFixup(label, 4)
}

// jmpRel32 reserves a 4-byte displacement to label, patched later.
func (w *Writer) jmpRel32(label int) {
	w.byte(0xE9)
	w.addFixup(label, 4)
}

// callRel32 reserves a 4-byte displacement to label, patched later.
// Used for Edust-to-Edust calls: all functions live in the same module,
// well within rel32 reach.
func (w *Writer) callRel32(label int) {
	w.byte(0xE8)
	w.addFixup(label, 4)
}

// callAbs loads an absolute address into a scratch register and calls
// through it (CALL r/m64, opcode extension /2) — used for print_int,
// whose address may be arbitrarily far from mmap'd JIT pages.
func (w *Writer) callAbs(scratch Reg, addr uint64) {
	w.movRegImm64(scratch, addr)
	w.byte(rex(false, false, false, isExtended(scratch)))
	w.byte(0xFF)
	w.byte(modrm(3, 2, byte(scratch)))
}

func (w *Writer) push(r Reg) {
	if isExtended(r) {
		w.byte(rex(false, false, false, true))
	}
	w.byte(0x50 + (byte(r) & 7))
}

func (w *Writer) pop(r Reg) {
	if isExtended(r) {
		w.byte(rex(false, false, false, true))
	}
	w.byte(0x58 + (byte(r) & 7))
}

func (w *Writer) ret() { w.byte(0xC3) }

// subRspImm32Placeholder reserves space for the prologue's "sub rsp, imm32" and
// returns the position of the 4-byte immediate so it can be patched
// once the function's total frame size is known.
func (w *Writer) subRspImm32Placeholder() int {
	w.byte(rex(true, false, false, false))
	w.byte(0x81)
	w.byte(modrm(3, 5, byte(RSP)))
	pos := w.Pos()
	w.imm32(0)
	return pos
}

func (w *Writer) patchImm32At(pos int, v int32) {
	buf := w.Code[pos : pos+4]
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
}
