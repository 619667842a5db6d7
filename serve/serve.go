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

// Package serve exposes compile-and-run as a tiny websocket service:
// source text in, a stage-tagged JSON result out. Adapted from the
// interpreter's own HTTPServe network entry point.
package serve

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/launix-de/edustc/compiler"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type response struct {
	SessionID string `json:"session_id,omitempty"`
	Result    int64  `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Run starts a websocket listener at addr. Each connection may send any
// number of source-text messages; each reply carries either the run
// result or the compile error.
func Run(addr string) error {
	http.HandleFunc("/compile", handleConn)
	log.Printf("edustc: serving on %s", addr)
	return http.ListenAndServe(addr, nil)
}

func handleConn(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		resp := compileOne(string(msg))
		b, _ := json.Marshal(resp)
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}
}

func compileOne(src string) response {
	result, err := compiler.Compile(src)
	if err != nil {
		return response{Error: err.Error()}
	}
	return response{SessionID: result.SessionID, Result: compiler.Run(result)}
}
