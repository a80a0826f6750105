// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: parser/vterm_modes.go
// Summary: SM/RM and DEC private mode (DECSET/DECRESET) handling.
// Notes: Unknown modes are accepted and ignored; mode changes never fail.

package parser

import "log"

// processANSIMode handles SM (CSI h) and RM (CSI l).
func (v *VTerm) processANSIMode(command rune, params []int) {
	for _, mode := range params {
		switch mode {
		case 4: // IRM - insert/replace mode
			v.insertMode = command == 'h'
		default:
			log.Printf("Parser: Ignoring ANSI mode: %d%c", mode, command)
		}
	}
}

// processPrivateCSI handles DECSET/DECRESET ('?'-prefixed CSI h/l).
func (v *VTerm) processPrivateCSI(command rune, params []int) {
	set := command == 'h'
	for _, mode := range params {
		switch mode {
		case 1: // DECCKM - application cursor keys
			v.appCursorKeys = set
		case 6: // DECOM - origin mode
			v.originMode = set
			if set {
				v.SetCursorPos(v.marginTop, 0)
			} else {
				v.SetCursorPos(0, 0)
			}
		case 7: // DECAWM - auto-wrap
			v.autoWrapMode = set
			if !set {
				v.scr().wrapNext = false
			}
		case 12:
			// Cursor blink: a visual preference, nothing to track headless.
		case 25: // DECTCEM - cursor visibility
			v.cursorVisible = set
		case 47, 1047:
			// Alternate screen without cursor bookkeeping.
			if set {
				v.enterAltScreen(false)
			} else {
				v.leaveAltScreen(false)
			}
		case 1048: // save/restore cursor only
			if set {
				v.SaveCursor()
			} else {
				v.RestoreCursor()
			}
		case 1049:
			// Alternate screen plus cursor save/restore.
			if set {
				v.enterAltScreen(true)
			} else {
				v.leaveAltScreen(true)
			}
		case 1000, 1002, 1003, 1005, 1006, 1015:
			// Mouse tracking: accepted, never reported.
		case 1004: // focus in/out reporting, handled by the input layer
			v.setFocusReporting(set)
		case 2004: // bracketed paste, handled by the input layer
			v.setBracketedPaste(set)
		default:
			log.Printf("Parser: Ignoring private mode: ?%d%c", mode, command)
		}
	}
}
