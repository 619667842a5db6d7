/*
Copyright (C) 2024  Carl-Philip Hänsch

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

// Package trace writes Chrome-trace-format JSON event logs of compile
// stage timings — adapted directly from the interpreter's own Tracefile.
// Tracing is switched on with SetTrace; the file is created in the
// directory named by EDUSTC_TRACEDIR (the current directory when unset).
package trace

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Tracefile struct {
	isFirst bool
	file    io.WriteCloser
	m       sync.Mutex
}

var Current *Tracefile // nil unless tracing was enabled for this run
var start = time.Now()

// SetTrace opens (or closes) the process-wide trace file. on=false
// closes any currently open trace and clears Current.
func SetTrace(on bool) error {
	if Current != nil {
		Current.Close()
		Current = nil
	}
	if !on {
		return nil
	}
	dir := os.Getenv("EDUSTC_TRACEDIR")
	name := "edustc_trace_" + time.Now().Format("20060102T150405") + ".json"
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	Current = NewTrace(f)
	return nil
}

func NewTrace(file io.WriteCloser) *Tracefile {
	file.Write([]byte("["))
	return &Tracefile{file: file, isFirst: true}
}

func (t *Tracefile) Close() {
	t.file.Write([]byte("]"))
	t.file.Close()
}

// Duration emits a begin/end event pair bracketing f.
func (t *Tracefile) Duration(name, cat string, f func() error) error {
	t.event(name, cat, "B")
	err := f()
	t.event(name, cat, "E")
	return err
}

func (t *Tracefile) event(name, cat, typ string) {
	ts := time.Since(start).Microseconds()
	t.m.Lock()
	defer t.m.Unlock()
	if t.isFirst {
		t.isFirst = false
	} else {
		t.file.Write([]byte(",\n"))
	}
	t.file.Write([]byte("{\"name\": "))
	b, _ := json.Marshal(name)
	t.file.Write(b)
	t.file.Write([]byte(", \"cat\": "))
	b, _ = json.Marshal(cat)
	t.file.Write(b)
	t.file.Write([]byte(", \"ph\": \""))
	t.file.Write([]byte(typ))
	t.file.Write([]byte("\", \"ts\": "))
	b, _ = json.Marshal(ts)
	t.file.Write(b)
	t.file.Write([]byte(", \"pid\": 0, \"tid\": 0}"))
}
