// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: parser/testharness.go
// Summary: Test harness for exercising control sequences against a VTerm.
// Usage: Used by test files to send sequences and verify grid state.

package parser

import (
	"testing"
)

// TestHarness bundles a VTerm with its parser for sequence-level tests.
type TestHarness struct {
	vterm  *VTerm
	parser *Parser

	// Responses collects everything the terminal wrote back (DA, DSR, ...).
	Responses [][]byte
}

// NewTestHarness creates a harness with the given terminal size.
func NewTestHarness(width, height int, opts ...Option) *TestHarness {
	h := &TestHarness{}
	opts = append([]Option{WithPtyWriter(func(b []byte) {
		h.Responses = append(h.Responses, append([]byte(nil), b...))
	})}, opts...)
	h.vterm = NewVTerm(width, height, opts...)
	h.parser = NewParser(h.vterm)
	return h
}

// SendSeq sends a string (text and/or control sequences) through the parser.
// Example: h.SendSeq("\x1b[5A") sends "cursor up 5".
func (h *TestHarness) SendSeq(seq string) {
	h.parser.ParseString(seq)
}

// GetCell returns the cell at (x, y) on the visible grid.
func (h *TestHarness) GetCell(x, y int) Cell {
	grid := h.vterm.Grid()
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return Cell{}
	}
	return grid[y][x]
}

// GetCursor returns the cursor position (0-based).
func (h *TestHarness) GetCursor() (x, y int) {
	return h.vterm.Cursor()
}

// RowText returns the plain text of row y, trailing blanks stripped.
func (h *TestHarness) RowText(y int) string {
	grid := h.vterm.Grid()
	if y < 0 || y >= len(grid) {
		return ""
	}
	return rowString(grid[y])
}

// LastResponse returns the most recent write-back, or "".
func (h *TestHarness) LastResponse() string {
	if len(h.Responses) == 0 {
		return ""
	}
	return string(h.Responses[len(h.Responses)-1])
}

// AssertCell verifies the glyph, colors and attributes of a cell.
func (h *TestHarness) AssertCell(t *testing.T, x, y int, expected Cell) {
	t.Helper()
	actual := h.GetCell(x, y)
	if actual.Rune != expected.Rune {
		t.Errorf("Cell[%d,%d] rune: expected %q, got %q", x, y, expected.Rune, actual.Rune)
	}
	if actual.FG != expected.FG {
		t.Errorf("Cell[%d,%d] FG: expected %+v, got %+v", x, y, expected.FG, actual.FG)
	}
	if actual.BG != expected.BG {
		t.Errorf("Cell[%d,%d] BG: expected %+v, got %+v", x, y, expected.BG, actual.BG)
	}
	if actual.Attr != expected.Attr {
		t.Errorf("Cell[%d,%d] attr: expected %v, got %v", x, y, expected.Attr, actual.Attr)
	}
}

// AssertCursor verifies the cursor position.
func (h *TestHarness) AssertCursor(t *testing.T, x, y int) {
	t.Helper()
	gotX, gotY := h.GetCursor()
	if gotX != x || gotY != y {
		t.Errorf("Cursor: expected (%d,%d), got (%d,%d)", x, y, gotX, gotY)
	}
}
