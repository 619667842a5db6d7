/*
Copyright (C) 2023  Carl-Philip Hänsch
Copyright (C) 2013  Pieter Kelchtermans (originally licensed unter WTFPL 2.0)

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

// Package repl provides an interactive read-compile-run loop: each line
// (or multi-line block, once braces are balanced) is compiled and run
// as a standalone program. Adapted from the interpreter's own Repl.
package repl

import (
	"bytes"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/chzyer/readline"

	"github.com/launix-de/edustc/compiler"
)

const newprompt = "\033[32medust>\033[0m "
const contprompt = "\033[32m  ...>\033[0m "
const resultprompt = "\033[31m=\033[0m "

// Run starts the interactive loop, reading from and writing to the
// process's usual terminal streams.
func Run() error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            newprompt,
		HistoryFile:       ".edustc-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()
	l.CaptureExitSignal()

	var pending bytes.Buffer
	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if pending.Len() == 0 {
				break
			}
			pending.Reset()
			l.SetPrompt(newprompt)
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		pending.WriteString(line)
		pending.WriteByte('\n')

		if !balanced(pending.String()) {
			l.SetPrompt(contprompt)
			continue
		}
		src := pending.String()
		pending.Reset()
		l.SetPrompt(newprompt)
		if strings.TrimSpace(src) == "" {
			continue
		}
		runOne(src)
	}
	return nil
}

// runOne compiles and runs one snippet, recovering from any panic so a
// single bad line never kills the whole session.
func runOne(src string) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Println("panic:", r, string(debug.Stack()))
		}
	}()
	result, err := compiler.CompileAndRun(wrapAsMain(src))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(resultprompt)
	fmt.Println(result)
}

// wrapAsMain lets a REPL line be either a bare expression/statement
// sequence or a full function definition list; bare input is wrapped in
// an implicit main so "return 1+2;" works without boilerplate.
func wrapAsMain(src string) string {
	trimmed := strings.TrimSpace(src)
	if strings.HasPrefix(trimmed, "func ") {
		return src
	}
	return "func main() {\n" + src + "\n}\n"
}

func balanced(src string) bool {
	depth := 0
	for _, r := range src {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth <= 0
}
