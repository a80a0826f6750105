// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: parser/resize_test.go
// Summary: Geometry changes: shrink, enlarge, cursor clamping, margins.

package parser

import "testing"

func TestResizeShrinkKeepsTopLeft(t *testing.T) {
	h := NewTestHarness(80, 24)
	h.SendSeq("hello world\r\nsecond line")

	h.vterm.Resize(5, 1)
	w, ht := h.vterm.Size()
	if w != 5 || ht != 1 {
		t.Fatalf("size: expected 5x1, got %dx%d", w, ht)
	}
	if got := h.RowText(0); got != "hello" {
		t.Errorf("row 0: expected %q, got %q", "hello", got)
	}
}

func TestResizeEnlargeBlanksNewCells(t *testing.T) {
	h := NewTestHarness(5, 2)
	h.SendSeq("abcde\r\nfghij")

	h.vterm.Resize(8, 4)
	if got := h.RowText(0); got != "abcde" {
		t.Errorf("row 0: expected %q, got %q", "abcde", got)
	}
	if got := h.RowText(1); got != "fghij" {
		t.Errorf("row 1: expected %q, got %q", "fghij", got)
	}
	for y := 2; y < 4; y++ {
		if got := h.RowText(y); got != "" {
			t.Errorf("row %d: expected blank, got %q", y, got)
		}
	}
	h.AssertCell(t, 6, 0, Cell{Rune: ' ', FG: DefaultFG, BG: DefaultBG})
}

func TestResizeClampsCursor(t *testing.T) {
	h := NewTestHarness(80, 24)
	h.SendSeq("\x1b[24;80H")
	h.vterm.Resize(40, 10)
	h.AssertCursor(t, 39, 9)
}

func TestResizeResetsMargins(t *testing.T) {
	h := NewTestHarness(80, 24)
	h.SendSeq("\x1b[5;10r")
	h.vterm.Resize(40, 12)
	top, bottom := h.vterm.ScrollMargins()
	if top != 0 || bottom != 11 {
		t.Errorf("margins: expected (0,11), got (%d,%d)", top, bottom)
	}
}

func TestResizeAppliesToBothBuffers(t *testing.T) {
	h := NewTestHarness(20, 5)
	h.SendSeq("main line")
	h.SendSeq("\x1b[?1049h")
	h.SendSeq("alt line")

	h.vterm.Resize(40, 8)
	if got := h.RowText(0); got != "alt line" {
		t.Errorf("alt row 0: expected %q, got %q", "alt line", got)
	}

	h.SendSeq("\x1b[?1049l")
	if got := h.RowText(0); got != "main line" {
		t.Errorf("main row 0 after leave: expected %q, got %q", "main line", got)
	}
	w, ht := h.vterm.Size()
	if w != 40 || ht != 8 {
		t.Errorf("size: expected 40x8, got %dx%d", w, ht)
	}
}

func TestResizeNoopAndInvalid(t *testing.T) {
	h := NewTestHarness(10, 4)
	h.SendSeq("keep")

	h.vterm.Resize(10, 4)
	h.vterm.Resize(0, -3)
	w, ht := h.vterm.Size()
	if w != 10 || ht != 4 {
		t.Errorf("size: expected 10x4, got %dx%d", w, ht)
	}
	if got := h.RowText(0); got != "keep" {
		t.Errorf("row 0: expected %q, got %q", "keep", got)
	}
}

func TestResizeExtendsTabStops(t *testing.T) {
	h := NewTestHarness(10, 4)
	h.vterm.Resize(30, 4)
	h.SendSeq("\x1b[H\t\t")
	h.AssertCursor(t, 16, 0)
}
