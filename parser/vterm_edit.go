// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: parser/vterm_edit.go
// Summary: Erase, insert and delete operations on the live grid.
// Notes: Erasure writes blank default cells; it is never a structural deletion.

package parser

// ClearScreenMode implements ED (CSI J).
// mode 0: cursor to end; 1: start to cursor; 2: whole screen; 3: whole screen
// plus scrollback.
func (v *VTerm) ClearScreenMode(mode int) {
	s := v.scr()
	s.wrapNext = false
	switch mode {
	case 0:
		v.ClearLine(0)
		for y := s.cursorY + 1; y < v.height; y++ {
			v.blankRow(y)
		}
	case 1:
		v.ClearLine(1)
		for y := 0; y < s.cursorY; y++ {
			v.blankRow(y)
		}
	case 2:
		for y := 0; y < v.height; y++ {
			v.blankRow(y)
		}
	case 3:
		for y := 0; y < v.height; y++ {
			v.blankRow(y)
		}
		if v.active == mainScreen {
			v.scrollback.Clear()
		}
	}
}

// ClearLine implements EL (CSI K).
// mode 0: cursor to end of line; 1: start of line to cursor; 2: whole line.
func (v *VTerm) ClearLine(mode int) {
	s := v.scr()
	s.wrapNext = false
	row := s.grid[s.cursorY]
	switch mode {
	case 0:
		for x := s.cursorX; x < v.width; x++ {
			row[x] = blank()
		}
	case 1:
		for x := 0; x <= s.cursorX; x++ {
			row[x] = blank()
		}
	case 2:
		for x := 0; x < v.width; x++ {
			row[x] = blank()
		}
	}
}

func (v *VTerm) blankRow(y int) {
	row := v.scr().grid[y]
	for x := range row {
		row[x] = blank()
	}
}

// EraseCharacters implements ECH (CSI X): blanks n cells from the cursor
// without shifting anything.
func (v *VTerm) EraseCharacters(n int) {
	s := v.scr()
	s.wrapNext = false
	if n < 1 {
		n = 1
	}
	row := s.grid[s.cursorY]
	for x := s.cursorX; x < s.cursorX+n && x < v.width; x++ {
		row[x] = blank()
	}
}

// InsertCharacters implements ICH (CSI @): shifts the tail of the line right,
// dropping cells pushed past the edge, and blanks the vacated span.
func (v *VTerm) InsertCharacters(n int) {
	s := v.scr()
	s.wrapNext = false
	if n < 1 {
		n = 1
	}
	if n > v.width-s.cursorX {
		n = v.width - s.cursorX
	}
	row := s.grid[s.cursorY]
	copy(row[s.cursorX+n:], row[s.cursorX:v.width-n])
	for x := s.cursorX; x < s.cursorX+n; x++ {
		row[x] = blank()
	}
}

// DeleteCharacters implements DCH (CSI P): shifts the tail of the line left
// over the cursor and blanks the vacated span at the end.
func (v *VTerm) DeleteCharacters(n int) {
	s := v.scr()
	s.wrapNext = false
	if n < 1 {
		n = 1
	}
	if n > v.width-s.cursorX {
		n = v.width - s.cursorX
	}
	row := s.grid[s.cursorY]
	copy(row[s.cursorX:], row[s.cursorX+n:])
	for x := v.width - n; x < v.width; x++ {
		row[x] = blank()
	}
}

// InsertLines implements IL (CSI L): inserts blank rows at the cursor, pushing
// rows below it toward the bottom margin. No-op outside the scroll region.
func (v *VTerm) InsertLines(n int) {
	s := v.scr()
	s.wrapNext = false
	if s.cursorY < v.marginTop || s.cursorY > v.marginBottom {
		return
	}
	if n < 1 {
		n = 1
	}
	if n > v.marginBottom-s.cursorY+1 {
		n = v.marginBottom - s.cursorY + 1
	}
	for i := 0; i < n; i++ {
		copy(s.grid[s.cursorY+1:v.marginBottom+1], s.grid[s.cursorY:v.marginBottom])
		row := make([]Cell, v.width)
		for x := range row {
			row[x] = blank()
		}
		s.grid[s.cursorY] = row
	}
	s.cursorX = 0
}

// DeleteLines implements DL (CSI M): removes rows at the cursor, pulling rows
// up from below and blanking the bottom of the region.
func (v *VTerm) DeleteLines(n int) {
	s := v.scr()
	s.wrapNext = false
	if s.cursorY < v.marginTop || s.cursorY > v.marginBottom {
		return
	}
	if n < 1 {
		n = 1
	}
	if n > v.marginBottom-s.cursorY+1 {
		n = v.marginBottom - s.cursorY + 1
	}
	for i := 0; i < n; i++ {
		copy(s.grid[s.cursorY:v.marginBottom], s.grid[s.cursorY+1:v.marginBottom+1])
		row := make([]Cell, v.width)
		for x := range row {
			row[x] = blank()
		}
		s.grid[v.marginBottom] = row
	}
	s.cursorX = 0
}

// RepeatCharacter implements REP (CSI b): repeats the last graphic character.
func (v *VTerm) RepeatCharacter(n int) {
	if v.lastGraphicChar == 0 {
		return
	}
	if n < 1 {
		n = 1
	}
	// Bounded by one full screen; hostile parameter floods must not spin.
	max := v.width * v.height
	if n > max {
		n = max
	}
	for i := 0; i < n; i++ {
		v.placeChar(v.lastGraphicChar)
	}
}
