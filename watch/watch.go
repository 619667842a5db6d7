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

// Package watch recompiles and reruns a source file whenever it changes
// on disk, coalescing overlapping change events into a single in-flight
// compile via singleflight — the compiler pipeline itself stays
// single-threaded and synchronous (SPEC_FULL.md §5).
package watch

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"

	"github.com/launix-de/edustc/compiler"
)

// Run watches path and, on every write event, recompiles and runs it,
// printing the result or error the same way the single-shot CLI mode
// would. It blocks until the watcher's event channel closes.
func Run(path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(path); err != nil {
		return err
	}

	var g singleflight.Group
	compileOnce := func() {
		g.Do(path, func() (interface{}, error) {
			recompile(path)
			return nil, nil
		})
	}

	compileOnce()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				go compileOnce()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, "watch error:", err)
		}
	}
}

func recompile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read error:", err)
		return
	}
	result, err := compiler.CompileAndRun(string(data))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Program exited with code:", result)
}
