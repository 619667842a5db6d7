/*
Copyright (C) 2026  Carl-Philip Hänsch

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

// Package diagnostics implements "-dump": an ordered report of every
// compiled function's code offset plus the module's total footprint,
// adapted from the storage engine's btree-backed index (here a
// btree.BTree of offset-ordered entries).
package diagnostics

import (
	"fmt"
	"io"

	"github.com/docker/go-units"
	"github.com/google/btree"

	"github.com/launix-de/edustc/codegen"
)

type entry struct {
	offset int
	name   string
}

func (a entry) Less(b btree.Item) bool {
	return a.offset < b.(entry).offset
}

// Dump writes the function/offset index, ordered by code offset, and
// the module's total code-page size in human-readable form.
func Dump(mod *codegen.Module, sessionID string, w io.Writer) {
	fmt.Fprintf(w, "session %s\n", sessionID)
	fmt.Fprintf(w, "module size: %s (%d bytes)\n", units.HumanSize(float64(mod.CodeSize)), mod.CodeSize)

	idx := btree.New(8)
	for name, off := range mod.FuncOffsets {
		idx.ReplaceOrInsert(entry{offset: off, name: name})
	}
	idx.Ascend(func(item btree.Item) bool {
		e := item.(entry)
		fmt.Fprintf(w, "  %#06x  %s\n", e.offset, e.name)
		return true
	})
}
