// seehuhn.de/go/annotcopy - copy annotations between matching PDF pages
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"seehuhn.de/go/annotcopy"
)

// record is one line of JSON output.
type record struct {
	Type   string           `json:"type"`
	Event  *annotcopy.Event `json:"event,omitempty"`
	Match  *annotcopy.Match `json:"match,omitempty"`
	Result *resultPayload   `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

type resultPayload struct {
	Pages       int    `json:"pages"`
	Matched     int    `json:"matched"`
	Copied      int    `json:"copied"`
	Annotations int    `json:"annotations"`
	Output      string `json:"output,omitempty"`
}

// eventWriter writes newline-delimited JSON records.
type eventWriter struct {
	enc *json.Encoder
	w   *bufio.Writer
	mu  sync.Mutex
}

func newEventWriter(w io.Writer) *eventWriter {
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &eventWriter{enc: enc, w: buf}
}

func (e *eventWriter) write(rec record) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = e.enc.Encode(rec)
	_ = e.w.Flush()
}

func (e *eventWriter) Event(ev annotcopy.Event) {
	e.write(record{Type: "event", Event: &ev})
}

func (e *eventWriter) Match(m annotcopy.Match) {
	e.write(record{Type: "match", Match: &m})
}

// Result writes the final summary.  The output name is empty for dry runs.
func (e *eventWriter) Result(res *annotcopy.Result, output string) {
	e.write(record{
		Type: "result",
		Result: &resultPayload{
			Pages:       res.Pages,
			Matched:     len(res.Matches),
			Copied:      res.Copied,
			Annotations: res.Annotations,
			Output:      output,
		},
	})
}

func (e *eventWriter) Error(err error) {
	e.write(record{Type: "error", Error: err.Error()})
}
