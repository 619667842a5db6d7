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

// Package runtime holds the small set of collaborators a compiled Edust
// program can call into. Today that is a single function, print_int,
// bound into every module by absolute address.
package runtime

import (
	"bufio"
	"fmt"
	"os"
)

var stdout = bufio.NewWriter(os.Stdout)

// PrintInt writes v followed by a newline to standard output and
// returns v, so "print(x)" can be used as an expression. Flushed
// eagerly: a trapping program (e.g. division by zero) must not lose
// output that was already produced.
func PrintInt(v int64) int64 {
	fmt.Fprintln(stdout, v)
	stdout.Flush()
	return v
}
