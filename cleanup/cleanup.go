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

// Package cleanup keeps every module handed to Keep, and so its
// executable pages, reachable from a package-level slice until process
// exit; an onexit hook, registered the way storage/settings.go registers
// its trace flush, drops those references at exit. A compiled module
// must not be destroyed while "main" is still executing, nor garbage
// collected out from under a returned function pointer (SPEC_FULL.md
// §5/§9); these retained references are the concrete mechanism backing
// that requirement for the CLI driver's own lifetime.
package cleanup

import "github.com/dc0d/onexit"

var kept []interface{}

// Keep retains mod (any value, typically a *codegen.Module) for the
// remainder of the process's life.
func Keep(mod interface{}) {
	kept = append(kept, mod)
}

func init() {
	onexit.Register(func() {
		kept = nil
	})
}
