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

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// execPages is a block of anonymous memory that started out read-write,
// was filled with machine code, and was then flipped to read-execute.
// It must never be unmapped while compiled code from it might still run.
type execPages struct {
	mem []byte
}

// allocExec copies code into a fresh RW mapping, then mprotects it to
// RX. Mirrors the interpreter JIT's allocExec/makeRX split, upgraded to
// golang.org/x/sys/unix from the raw syscall package.
func allocExec(code []byte) (*execPages, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("codegen: empty code buffer")
	}
	mem, err := unix.Mmap(-1, 0, len(code), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("codegen: mmap: %w", err)
	}
	copy(mem, code)
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		unix.Munmap(mem)
		return nil, fmt.Errorf("codegen: mprotect: %w", err)
	}
	return &execPages{mem: mem}, nil
}

// entryAt returns the compiled function starting at byte offset off as
// a callable Go closure, using the same one-word "funcval" cast trick
// the interpreter's JIT uses to invoke raw machine code without cgo or
// hand-written assembly: a single-field struct pointing at the code is
// reinterpreted as a Go func value, which Go calls precisely as a
// function pointer with no additional indirection.
func entryAt(p *execPages, off int) func() int64 {
	ptr := unsafe.Pointer(&p.mem[off])
	fn := unsafe.Pointer(&struct{ *byte }{(*byte)(ptr)})
	return *(*func() int64)(unsafe.Pointer(&fn))
}
