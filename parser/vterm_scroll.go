// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: parser/vterm_scroll.go
// Summary: Scroll region handling and scrollback eviction.

package parser

// SetMargins configures the scroll region (DECSTBM). Parameters are 1-based;
// zero means the screen edge. Per VT100, the cursor moves to the region home.
func (v *VTerm) SetMargins(top, bottom int) {
	if top < 1 {
		top = 1
	}
	if bottom < 1 || bottom > v.height {
		bottom = v.height
	}
	// A degenerate region (top >= bottom) is ignored.
	if top >= bottom {
		return
	}
	v.marginTop = top - 1
	v.marginBottom = bottom - 1
	if v.originMode {
		v.SetCursorPos(v.marginTop, 0)
	} else {
		v.SetCursorPos(0, 0)
	}
}

// scrollUp shifts the scroll region up by n rows, filling the bottom with
// blanks. Rows scrolled off the top of the main screen go to scrollback when
// the region spans the full screen.
func (v *VTerm) scrollUp(n int) {
	s := v.scr()
	s.wrapNext = false
	if n < 1 {
		return
	}
	if n > v.marginBottom-v.marginTop+1 {
		n = v.marginBottom - v.marginTop + 1
	}
	evict := v.active == mainScreen && v.marginTop == 0 && v.marginBottom == v.height-1
	for i := 0; i < n; i++ {
		if evict {
			evicted := make([]Cell, v.width)
			copy(evicted, s.grid[v.marginTop])
			v.scrollback.Append(evicted)
		}
		copy(s.grid[v.marginTop:v.marginBottom], s.grid[v.marginTop+1:v.marginBottom+1])
		row := make([]Cell, v.width)
		for x := range row {
			row[x] = blank()
		}
		s.grid[v.marginBottom] = row
	}
}

// scrollDown shifts the scroll region down by n rows, filling the top with
// blanks. Nothing is ever evicted to scrollback on a downward scroll.
func (v *VTerm) scrollDown(n int) {
	s := v.scr()
	s.wrapNext = false
	if n < 1 {
		return
	}
	if n > v.marginBottom-v.marginTop+1 {
		n = v.marginBottom - v.marginTop + 1
	}
	for i := 0; i < n; i++ {
		copy(s.grid[v.marginTop+1:v.marginBottom+1], s.grid[v.marginTop:v.marginBottom])
		row := make([]Cell, v.width)
		for x := range row {
			row[x] = blank()
		}
		s.grid[v.marginTop] = row
	}
}
