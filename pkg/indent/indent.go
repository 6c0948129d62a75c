// Copyright 2015 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package indent prefixes every line written through it.  Wrapping a
// writer repeatedly nests the prefixes, which is how tree output is
// indented one level per depth.
package indent

import (
	"bytes"
	"io"
	"strings"
)

// NewWriter returns a writer that inserts prefix at the start of every
// line written to w.  The prefix for a line is emitted when the first
// byte of that line arrives, so writes may be split anywhere.
func NewWriter(w io.Writer, prefix string) io.Writer {
	if prefix == "" {
		return w
	}
	return &writer{w: w, prefix: []byte(prefix), bol: true}
}

type writer struct {
	w      io.Writer
	prefix []byte
	bol    bool
}

func (iw *writer) Write(buf []byte) (int, error) {
	total := 0
	for len(buf) > 0 {
		if iw.bol {
			if _, err := iw.w.Write(iw.prefix); err != nil {
				return total, err
			}
			iw.bol = false
		}
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			n, err := iw.w.Write(buf)
			return total + n, err
		}
		n, err := iw.w.Write(buf[:i+1])
		total += n
		if err != nil {
			return total, err
		}
		iw.bol = true
		buf = buf[i+1:]
	}
	return total, nil
}

// String returns s with prefix inserted at the start of each line.
func String(prefix, s string) string {
	var b strings.Builder
	w := NewWriter(&b, prefix)
	io.WriteString(w, s)
	return b.String()
}

// Bytes returns b with prefix inserted at the start of each line.
func Bytes(prefix string, b []byte) []byte {
	var out bytes.Buffer
	NewWriter(&out, prefix).Write(b)
	return out.Bytes()
}
