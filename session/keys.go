// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session/keys.go
// Summary: Named keys and their terminal input encodings.
// Notes: Arrow and Home/End encodings switch with DECCKM (application cursor
// keys), mirroring what a real terminal sends.

package session

// Key identifies a non-printable key to synthesize input for.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPgUp
	KeyPgDn
	KeyEnter
	KeyBackspace
	KeyTab
	KeyEscape
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// encodeKey returns the byte sequence a terminal sends for k. appCursor
// selects the SS3 variants for cursor keys when the application enabled
// DECCKM.
func encodeKey(k Key, appCursor bool) []byte {
	switch k {
	case KeyUp:
		if appCursor {
			return []byte("\x1bOA")
		}
		return []byte("\x1b[A")
	case KeyDown:
		if appCursor {
			return []byte("\x1bOB")
		}
		return []byte("\x1b[B")
	case KeyRight:
		if appCursor {
			return []byte("\x1bOC")
		}
		return []byte("\x1b[C")
	case KeyLeft:
		if appCursor {
			return []byte("\x1bOD")
		}
		return []byte("\x1b[D")
	case KeyHome:
		if appCursor {
			return []byte("\x1bOH")
		}
		return []byte("\x1b[H")
	case KeyEnd:
		if appCursor {
			return []byte("\x1bOF")
		}
		return []byte("\x1b[F")
	case KeyInsert:
		return []byte("\x1b[2~")
	case KeyDelete:
		return []byte("\x1b[3~")
	case KeyPgUp:
		return []byte("\x1b[5~")
	case KeyPgDn:
		return []byte("\x1b[6~")
	case KeyEnter:
		return []byte("\r")
	case KeyBackspace:
		return []byte{0x7f}
	case KeyTab:
		return []byte("\t")
	case KeyEscape:
		return []byte("\x1b")
	case KeyF1:
		return []byte("\x1bOP")
	case KeyF2:
		return []byte("\x1bOQ")
	case KeyF3:
		return []byte("\x1bOR")
	case KeyF4:
		return []byte("\x1bOS")
	case KeyF5:
		return []byte("\x1b[15~")
	case KeyF6:
		return []byte("\x1b[17~")
	case KeyF7:
		return []byte("\x1b[18~")
	case KeyF8:
		return []byte("\x1b[19~")
	case KeyF9:
		return []byte("\x1b[20~")
	case KeyF10:
		return []byte("\x1b[21~")
	case KeyF11:
		return []byte("\x1b[23~")
	case KeyF12:
		return []byte("\x1b[24~")
	}
	return nil
}

// Bracketed paste markers (DECSET 2004).
const (
	pasteStart = "\x1b[200~"
	pasteEnd   = "\x1b[201~"
)
