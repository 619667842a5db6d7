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

// Package session tags each compile with an identifier, the way the
// storage engine tags rows with fast_uuid's UUIDs — these ids appear in
// "-dump" diagnostics and serve-mode replies, never anything security
// sensitive.
package session

import (
	"sync/atomic"

	"github.com/google/uuid"
)

var counter uint64

// New returns a UUIDv4-shaped identifier for one compile-and-run: a
// random uuid.New id with a process-wide atomic counter folded into it,
// echoing fast_uuid's own incrementing counter.
func New() string {
	n := atomic.AddUint64(&counter, 1)
	id := uuid.New()
	// Fold the counter into the two low bytes; the version and variant
	// bits live elsewhere, so the id stays v4-shaped.
	id[14] ^= byte(n)
	id[15] ^= byte(n >> 8)
	return id.String()
}
