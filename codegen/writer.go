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

// Package codegen lowers a validated ast.Program to native machine code
// and hands back an invocable entry point.
package codegen

import "encoding/binary"

// Fixup records a forward (or backward) reference into the code buffer
// that must be patched once the target label's final position is known.
type Fixup struct {
	CodePos int    // byte offset in the buffer where the operand starts
	Label   int    // target label id
	Size    uint8  // 1 = rel8, 4 = rel32
}

// Writer accumulates machine code into a growable buffer, tracking
// labels and the fixups that reference them. Unlike the raw unsafe.Pointer
// buffer this is grounded on, it grows a plain []byte until the whole
// module is lowered, and is only copied into executable pages afterwards.
type Writer struct {
	Code   []byte
	labels []int // label id -> byte offset, -1 if not yet marked
	fixups []Fixup
}

func NewWriter() *Writer {
	return &Writer{Code: make([]byte, 0, 4096)}
}

// ReserveLabel allocates a label id without fixing its position yet.
func (w *Writer) ReserveLabel() int {
	w.labels = append(w.labels, -1)
	return len(w.labels) - 1
}

// MarkLabel fixes a previously reserved label at the current write position.
func (w *Writer) MarkLabel(id int) {
	w.labels[id] = len(w.Code)
}

// DefineLabel reserves and immediately marks a label at the current position.
func (w *Writer) DefineLabel() int {
	id := w.ReserveLabel()
	w.MarkLabel(id)
	return id
}

func (w *Writer) Pos() int { return len(w.Code) }

func (w *Writer) byte(b byte) { w.Code = append(w.Code, b) }

func (w *Writer) bytes(bs ...byte) { w.Code = append(w.Code, bs...) }

func (w *Writer) imm32(v int32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	w.Code = append(w.Code, buf[:]...)
}

func (w *Writer) imm64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	w.Code = append(w.Code, buf[:]...)
}

// addFixup records a pending rel32 reference to label, with the operand
// about to be written at the current position, and emits a zero
// placeholder of the given size.
func (w *Writer) addFixup(label int, size uint8) {
	w.fixups = append(w.fixups, Fixup{CodePos: len(w.Code), Label: label, Size: size})
	for i := uint8(0); i < size; i++ {
		w.byte(0)
	}
}

// ResolveFixups patches every recorded fixup now that all labels are
// marked. Displacements are relative to the byte immediately following
// the fixup's operand, matching x86 rel32/rel8 semantics.
func (w *Writer) ResolveFixups() error {
	for _, f := range w.fixups {
		target := w.labels[f.Label]
		if target < 0 {
			return errUnresolvedLabel(f.Label)
		}
		next := f.CodePos + int(f.Size)
		disp := int64(target - next)
		switch f.Size {
		case 4:
			binary.LittleEndian.PutUint32(w.Code[f.CodePos:], uint32(int32(disp)))
		case 1:
			w.Code[f.CodePos] = byte(int8(disp))
		}
	}
	return nil
}

type errUnresolvedLabel int

func (e errUnresolvedLabel) Error() string {
	return "codegen: label was never marked"
}
