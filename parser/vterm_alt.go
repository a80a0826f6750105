// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: parser/vterm_alt.go
// Summary: Alternate screen switching for fullscreen applications.
// Notes: Both buffers stay allocated at the current size; switching flips the
// discriminator instead of copying grids. Scrollback is frozen while the
// alternate screen is live, so pagers and editors never pollute history.

package parser

// enterAltScreen switches to the alternate buffer. With saveCursor (mode
// 1049) the main-screen cursor is recorded for restoration on exit. The
// alternate buffer starts blank with the cursor at home, as xterm clears it
// on entry.
func (v *VTerm) enterAltScreen(saveCursor bool) {
	if v.active == altScreen {
		return
	}
	main := v.screens[mainScreen]
	if saveCursor {
		v.savedMainCursorX, v.savedMainCursorY = main.cursorX, main.cursorY
	}
	v.active = altScreen
	alt := v.screens[altScreen]
	alt.clear()
	alt.cursorX, alt.cursorY, alt.wrapNext = 0, 0, false
	v.marginTop = 0
	v.marginBottom = v.height - 1
}

// leaveAltScreen switches back to the main buffer, whose grid and scrollback
// were left untouched. Any resize that happened while the alternate screen
// was live has already been applied to both buffers, so the restored cursor
// only needs clamping.
func (v *VTerm) leaveAltScreen(restoreCursor bool) {
	if v.active == mainScreen {
		return
	}
	v.active = mainScreen
	v.marginTop = 0
	v.marginBottom = v.height - 1
	if restoreCursor {
		v.SetCursorPos(v.savedMainCursorY, v.savedMainCursorX)
	}
}
