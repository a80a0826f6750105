// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: parser/vterm_csi.go
// Summary: CSI dispatch: cursor movement, erase, margins, device queries.
// Usage: Called by the parser once a CSI final byte arrives.

package parser

import (
	"fmt"
	"log"
)

// Nominal cell metrics for the pixel-size report (window op 14). A headless
// engine has no font, so a conventional 8x16 cell is assumed.
const (
	cellPixelWidth  = 8
	cellPixelHeight = 16
)

// ProcessCSI dispatches a complete control sequence. prefix carries the
// leading private byte ('<', '=', '>' or '?'), 0 for a plain sequence.
// Unhandled finals are logged and dropped; nothing here may fail.
func (v *VTerm) ProcessCSI(command rune, params []int, intermediate, prefix rune) {
	param := func(i int, defaultVal int) int {
		if i < len(params) && params[i] != 0 {
			return params[i]
		}
		return defaultVal
	}

	if intermediate == '!' && command == 'p' { // DECSTR - soft terminal reset
		v.SoftReset()
		return
	}

	if intermediate == '$' && command == 'p' { // DECRQM - request mode
		if mode := param(0, 0); mode > 0 {
			v.respond(fmt.Sprintf("\x1b[?%d;0$y", mode)) // not supported
		}
		return
	}

	if command == 'c' && prefix == '>' { // DA2 - secondary device attributes
		// Terminal type VT220 (1), firmware 100, keyboard type 0.
		v.respond("\x1b[>1;100;0c")
		return
	}

	if command == 'h' || command == 'l' {
		switch prefix {
		case '?':
			v.processPrivateCSI(command, params)
		case 0:
			v.processANSIMode(command, params)
		default:
			log.Printf("Parser: Ignoring mode sequence with prefix %q: %v%c", prefix, params, command)
		}
		return
	}

	if prefix != 0 {
		// Remaining prefixed finals (DECDSR, tertiary DA etc.) are accepted
		// and ignored.
		log.Printf("Parser: Ignoring private CSI sequence: %c%v%q", prefix, params, command)
		return
	}

	switch command {
	case 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'f', 'd', '`', 'a', 'e':
		v.handleCursorMovement(command, params)
	case 'I': // CHT - cursor horizontal tab
		v.TabForward(param(0, 1))
	case 'Z': // CBT - cursor backward tab
		v.TabBackward(param(0, 1))
	case 'J':
		v.ClearScreenMode(param(0, 0))
	case 'K':
		v.ClearLine(param(0, 0))
	case 'P':
		v.DeleteCharacters(param(0, 1))
	case 'X':
		v.EraseCharacters(param(0, 1))
	case 'b': // REP - repeat previous graphic character
		v.RepeatCharacter(param(0, 1))
	case '@':
		v.InsertCharacters(param(0, 1))
	case 'L':
		v.InsertLines(param(0, 1))
	case 'M':
		v.DeleteLines(param(0, 1))
	case 'S': // SU - scroll up
		v.scrollUp(param(0, 1))
	case 'T': // SD - scroll down
		v.scrollDown(param(0, 1))
	case 'm':
		v.handleSGR(params)
	case 'n':
		v.deviceStatusReport(param(0, 0))
	case 'r': // DECSTBM - set top and bottom margins
		v.SetMargins(param(0, 1), param(1, v.height))
	case 's':
		v.SaveCursor()
	case 'u':
		v.RestoreCursor()
	case 'c': // DA1 - primary device attributes
		// VT220 (62) with selective erase (6), horizontal scrolling (21)
		// and color (22).
		v.respond("\x1b[?62;6;21;22c")
	case 'g': // TBC - tab clear
		v.ClearTabStop(param(0, 0))
	case 't':
		v.windowOp(param(0, 0))
	case 'q':
		// DECSCA / DECSCUSR: nothing to do headless.
	default:
		log.Printf("Parser: Unhandled CSI sequence: %q, params: %v", command, params)
	}
}

func (v *VTerm) handleCursorMovement(command rune, params []int) {
	param := func(i int, defaultVal int) int {
		if i < len(params) && params[i] != 0 {
			return params[i]
		}
		return defaultVal
	}
	s := v.scr()
	switch command {
	case 'A':
		v.SetCursorPos(s.cursorY-param(0, 1), s.cursorX)
	case 'B':
		v.SetCursorPos(s.cursorY+param(0, 1), s.cursorX)
	case 'C':
		v.SetCursorPos(s.cursorY, s.cursorX+param(0, 1))
	case 'D':
		v.SetCursorPos(s.cursorY, s.cursorX-param(0, 1))
	case 'E': // CNL - next line, column 0
		v.SetCursorPos(s.cursorY+param(0, 1), 0)
	case 'F': // CPL - previous line, column 0
		v.SetCursorPos(s.cursorY-param(0, 1), 0)
	case 'G', '`': // CHA / HPA - column absolute
		v.SetCursorPos(s.cursorY, param(0, 1)-1)
	case 'H', 'f': // CUP - cursor position
		v.setCursorOrigin(param(0, 1)-1, param(1, 1)-1)
	case 'd': // VPA - row absolute
		v.setCursorOrigin(param(0, 1)-1, s.cursorX)
	case 'a': // HPR - column relative
		v.SetCursorPos(s.cursorY, s.cursorX+param(0, 1))
	case 'e': // VPR - row relative
		v.SetCursorPos(s.cursorY+param(0, 1), s.cursorX)
	}
}

// deviceStatusReport answers DSR (CSI n). Mode 5 reports operating status,
// mode 6 the cursor position (region-relative under origin mode, as xterm
// reports it).
func (v *VTerm) deviceStatusReport(mode int) {
	switch mode {
	case 5:
		v.respond("\x1b[0n")
	case 6:
		s := v.scr()
		row := s.cursorY + 1
		if v.originMode {
			row = s.cursorY - v.marginTop + 1
		}
		v.respond(fmt.Sprintf("\x1b[%d;%dR", row, s.cursorX+1))
	}
}

// windowOp answers the XTWINOPS (CSI t) queries interactive programs rely on.
// 14 reports the text area in pixels, 18 in character cells. Everything else
// is accepted and ignored.
func (v *VTerm) windowOp(op int) {
	switch op {
	case 14:
		v.respond(fmt.Sprintf("\x1b[4;%d;%dt", v.height*cellPixelHeight, v.width*cellPixelWidth))
	case 18:
		v.respond(fmt.Sprintf("\x1b[8;%d;%dt", v.height, v.width))
	}
}
