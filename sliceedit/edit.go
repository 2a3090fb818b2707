// Copyright 2023 Jesus Ruiz. All rights reserved.
// Use of this source code is governed by an Apache-2.0
// license that can be found in the LICENSE file.

// Package sliceedit fills the «PLACEHOLDER» markers of markup shells.
// Edits are queued on an rsc.io/edit buffer and applied in one pass, so the
// text substituted for a marker is never scanned again for other markers.
package sliceedit

import (
	"bytes"
	"sort"

	"rsc.io/edit"
)

// Marker delimiters.
const (
	Open  = "«"
	Close = "»"
)

// Marker returns the placeholder text for name.
func Marker(name string) string {
	return Open + name + Close
}

// A Buffer is a queue of edits to apply to a shell.
type Buffer struct {
	ed  *edit.Buffer
	buf []byte
}

// NewBuffer returns a buffer accumulating changes to buf.
// buf must not be modified until the Buffer is done being used.
func NewBuffer(buf []byte) *Buffer {
	return &Buffer{buf: buf, ed: edit.NewBuffer(buf)}
}

// FindAll finds all non-overlapping instances of item in buf.
func FindAll(buf []byte, item string) []int {
	found := []int{}
	if len(item) == 0 {
		return found
	}

	offset := 0
	for {
		i := bytes.Index(buf, []byte(item))
		if i == -1 {
			return found
		}
		found = append(found, i+offset)
		buf = buf[i+len(item):]
		offset += i + len(item)
	}
}

// DeleteAllString deletes every instance of s.
func (b *Buffer) DeleteAllString(s string) {
	for _, hit := range FindAll(b.buf, s) {
		b.ed.Delete(hit, hit+len(s))
	}
}

// ReplaceAllString replaces every instance of old with new.
func (b *Buffer) ReplaceAllString(old string, new string) {
	if len(new) == 0 {
		b.DeleteAllString(old)
		return
	}
	for _, hit := range FindAll(b.buf, old) {
		b.ed.Replace(hit, hit+len(old), new)
	}
}

func (b *Buffer) Bytes() []byte {
	return b.ed.Bytes()
}

func (b *Buffer) String() string {
	return string(b.ed.Bytes())
}

// Fill replaces the markers of shell with values, keyed by marker name
// without delimiters. Markers missing from values are left as they are.
func Fill(shell string, values map[string]string) string {
	b := NewBuffer([]byte(shell))
	for name, value := range values {
		b.ReplaceAllString(Marker(name), value)
	}
	return b.String()
}

// Placeholders returns the sorted names of the markers found in shell.
func Placeholders(shell string) []string {
	seen := map[string]bool{}
	rest := []byte(shell)
	for {
		i := bytes.Index(rest, []byte(Open))
		if i == -1 {
			break
		}
		rest = rest[i+len(Open):]
		j := bytes.Index(rest, []byte(Close))
		if j == -1 {
			break
		}
		seen[string(rest[:j])] = true
		rest = rest[j+len(Close):]
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
