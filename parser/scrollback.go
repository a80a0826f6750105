// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: parser/scrollback.go
// Summary: Bounded FIFO ring of rows evicted off the top of the main screen.

package parser

const defaultScrollbackSize = 10000

// Scrollback is a capacity-bounded ring buffer of historical rows. Once full,
// appending overwrites the oldest entry. It is populated only while the main
// screen scrolls; the alternate screen never touches it.
type Scrollback struct {
	lines    [][]Cell
	head     int // index of the oldest entry
	count    int
	capacity int
}

// NewScrollback creates a ring with the given capacity. A capacity below one
// is treated as one so Append never has to special-case an empty ring.
func NewScrollback(capacity int) *Scrollback {
	if capacity < 1 {
		capacity = 1
	}
	return &Scrollback{
		lines:    make([][]Cell, capacity),
		capacity: capacity,
	}
}

// Append stores a row, evicting the oldest once at capacity. The row is not
// copied; callers hand over ownership.
func (s *Scrollback) Append(line []Cell) {
	if s.count < s.capacity {
		s.lines[(s.head+s.count)%s.capacity] = line
		s.count++
		return
	}
	s.lines[s.head] = line
	s.head = (s.head + 1) % s.capacity
}

// Len returns the number of stored rows.
func (s *Scrollback) Len() int {
	return s.count
}

// Line returns the i-th stored row, 0 being the oldest.
func (s *Scrollback) Line(i int) []Cell {
	if i < 0 || i >= s.count {
		return nil
	}
	return s.lines[(s.head+i)%s.capacity]
}

// Snapshot returns the most recent lastN rows, oldest first, without mutating
// the ring. lastN <= 0 or larger than Len returns everything.
func (s *Scrollback) Snapshot(lastN int) [][]Cell {
	n := s.count
	if lastN > 0 && lastN < n {
		n = lastN
	}
	out := make([][]Cell, n)
	start := s.count - n
	for i := 0; i < n; i++ {
		out[i] = s.Line(start + i)
	}
	return out
}

// Clear drops all stored rows (ED 3 and full reset).
func (s *Scrollback) Clear() {
	for i := range s.lines {
		s.lines[i] = nil
	}
	s.head = 0
	s.count = 0
}
