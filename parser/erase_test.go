// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: parser/erase_test.go
// Summary: ED/EL erase modes and the ICH/DCH/ECH/IL/DL edit family.

package parser

import "testing"

func fillRows(h *TestHarness, rows int) {
	for i := 0; i < rows; i++ {
		if i > 0 {
			h.SendSeq("\r\n")
		}
		h.SendSeq(string(rune('A' + i%26)))
	}
}

func TestEraseDisplay(t *testing.T) {
	t.Run("cursor to end", func(t *testing.T) {
		h := NewTestHarness(10, 4)
		fillRows(h, 4)
		h.SendSeq("\x1b[2;1H\x1b[0J")
		if got := h.RowText(0); got != "A" {
			t.Errorf("row 0: expected %q, got %q", "A", got)
		}
		for y := 1; y < 4; y++ {
			if got := h.RowText(y); got != "" {
				t.Errorf("row %d: expected blank, got %q", y, got)
			}
		}
	})

	t.Run("start to cursor", func(t *testing.T) {
		h := NewTestHarness(10, 4)
		fillRows(h, 4)
		h.SendSeq("\x1b[3;1H\x1b[1J")
		for y := 0; y < 3; y++ {
			if got := h.RowText(y); got != "" {
				t.Errorf("row %d: expected blank, got %q", y, got)
			}
		}
		if got := h.RowText(3); got != "D" {
			t.Errorf("row 3: expected %q, got %q", "D", got)
		}
	})

	t.Run("whole screen", func(t *testing.T) {
		h := NewTestHarness(10, 4)
		fillRows(h, 4)
		h.SendSeq("\x1b[2J")
		for y := 0; y < 4; y++ {
			if got := h.RowText(y); got != "" {
				t.Errorf("row %d: expected blank, got %q", y, got)
			}
		}
		// ED 2 clears content, not cursor position.
		h.AssertCursor(t, 1, 3)
	})

	t.Run("with scrollback", func(t *testing.T) {
		h := NewTestHarness(10, 4)
		fillRows(h, 8) // four rows scroll off the top
		if n := h.vterm.Scrollback().Len(); n != 4 {
			t.Fatalf("scrollback: expected 4 rows, got %d", n)
		}
		h.SendSeq("\x1b[3J")
		if n := h.vterm.Scrollback().Len(); n != 0 {
			t.Errorf("scrollback after ED 3: expected 0 rows, got %d", n)
		}
	})
}

func TestEraseLine(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want string
	}{
		{"cursor to end", "\x1b[0K", "abcd"},
		{"start to cursor", "\x1b[1K", "     fghij"},
		{"whole line", "\x1b[2K", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTestHarness(10, 4)
			h.SendSeq("abcdefghij\x1b[1;5H" + tt.mode)
			if got := h.RowText(0); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEraseCharacters(t *testing.T) {
	h := NewTestHarness(10, 4)
	h.SendSeq("abcdefghij\x1b[1;3H\x1b[4X")
	if got := h.RowText(0); got != "ab    ghij" {
		t.Errorf("ECH: expected %q, got %q", "ab    ghij", got)
	}
	// ECH never shifts; the cursor stays put.
	h.AssertCursor(t, 2, 0)

	// Overlong counts clamp at the right edge.
	h.SendSeq("\x1b[99X")
	if got := h.RowText(0); got != "ab" {
		t.Errorf("ECH clamp: expected %q, got %q", "ab", got)
	}
}

func TestInsertDeleteCharacters(t *testing.T) {
	h := NewTestHarness(10, 4)
	h.SendSeq("abcdefghij\x1b[1;3H\x1b[2@")
	if got := h.RowText(0); got != "ab  cdefgh" {
		t.Errorf("ICH: expected %q, got %q", "ab  cdefgh", got)
	}

	h.SendSeq("\x1b[2P")
	if got := h.RowText(0); got != "abcdefgh" {
		t.Errorf("DCH: expected %q, got %q", "abcdefgh", got)
	}

	// Deleting more than remains on the line just blanks the tail.
	h.SendSeq("\x1b[99P")
	if got := h.RowText(0); got != "ab" {
		t.Errorf("DCH clamp: expected %q, got %q", "ab", got)
	}
}

func TestInsertDeleteLines(t *testing.T) {
	h := NewTestHarness(10, 6)
	fillRows(h, 6)

	h.SendSeq("\x1b[2;1H\x1b[2L")
	want := []string{"A", "", "", "B", "C", "D"}
	for y, w := range want {
		if got := h.RowText(y); got != w {
			t.Errorf("after IL, row %d: expected %q, got %q", y, w, got)
		}
	}

	h.SendSeq("\x1b[2;1H\x1b[2M")
	want = []string{"A", "B", "C", "D", "", ""}
	for y, w := range want {
		if got := h.RowText(y); got != w {
			t.Errorf("after DL, row %d: expected %q, got %q", y, w, got)
		}
	}
}

// IL/DL are bound by the scroll region: rows below the bottom margin must
// never move, and outside the region they are no-ops.
func TestInsertDeleteLinesRespectRegion(t *testing.T) {
	h := NewTestHarness(10, 6)
	fillRows(h, 6)
	h.SendSeq("\x1b[2;4r")

	h.SendSeq("\x1b[2;1H\x1b[5L")
	want := []string{"A", "", "", "", "E", "F"}
	for y, w := range want {
		if got := h.RowText(y); got != w {
			t.Errorf("IL in region, row %d: expected %q, got %q", y, w, got)
		}
	}

	// Cursor below the region: nothing happens.
	h.SendSeq("\x1b[5;1H\x1b[2M")
	for y, w := range want {
		if got := h.RowText(y); got != w {
			t.Errorf("DL outside region, row %d: expected %q, got %q", y, w, got)
		}
	}
}

func TestRepeatCharacter(t *testing.T) {
	h := NewTestHarness(20, 4)
	h.SendSeq("x\x1b[4b")
	if got := h.RowText(0); got != "xxxxx" {
		t.Errorf("REP: expected %q, got %q", "xxxxx", got)
	}

	// REP with no preceding graphic character does nothing.
	h2 := NewTestHarness(20, 4)
	h2.SendSeq("\x1b[5b")
	if got := h2.RowText(0); got != "" {
		t.Errorf("REP without prior char: expected blank row, got %q", got)
	}
}

// No back-color-erase: cleared cells always carry default colors, not the
// current pen.
func TestEraseUsesDefaultColors(t *testing.T) {
	h := NewTestHarness(10, 4)
	h.SendSeq("\x1b[41mabc\x1b[1;1H\x1b[2K")
	h.AssertCell(t, 0, 0, Cell{Rune: ' ', FG: DefaultFG, BG: DefaultBG})
}
