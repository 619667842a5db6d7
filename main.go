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
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/launix-de/edustc/cleanup"
	"github.com/launix-de/edustc/compiler"
	"github.com/launix-de/edustc/diagnostics"
	"github.com/launix-de/edustc/repl"
	"github.com/launix-de/edustc/serve"
	"github.com/launix-de/edustc/trace"
	"github.com/launix-de/edustc/watch"
)

func main() {
	replMode := flag.Bool("repl", false, "enter an interactive read-compile-run loop")
	watchPath := flag.String("watch", "", "recompile and rerun this file on every change")
	servePath := flag.String("serve", "", "serve compile-and-run over a websocket at this address")
	traceMode := flag.Bool("trace", false, "emit a Chrome-trace-format JSON log of stage timings")
	dumpMode := flag.Bool("dump", false, "print the function/offset index and module size instead of running main")
	flag.Usage = usage
	flag.Parse()

	if *traceMode {
		if err := trace.SetTrace(true); err != nil {
			fmt.Fprintln(os.Stderr, "Compilation error:", err)
			os.Exit(1)
		}
		defer trace.SetTrace(false)
	}

	switch {
	case *replMode:
		if err := repl.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	case *watchPath != "":
		if err := watch.Run(*watchPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	case *servePath != "":
		if err := serve.Run(*servePath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}

	src, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Compilation error:", err)
		os.Exit(1)
	}

	result, err := compiler.Compile(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Compilation error:", err)
		os.Exit(1)
	}
	cleanup.Keep(result.Module)

	if *dumpMode {
		diagnostics.Dump(result.Module, result.SessionID, os.Stdout)
		return
	}

	code := compiler.Run(result)
	fmt.Println("Program exited with code:", code)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: edustc [-repl] [-watch file] [-serve addr] [-trace] [-dump] <source-file>")
}
