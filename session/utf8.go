// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session/utf8.go
// Summary: UTF-8 chunk-boundary handling for the PTY flush path.

package session

import "unicode/utf8"

// incompleteTail reports how many bytes at the end of b belong to a multi-byte
// UTF-8 sequence whose continuation has not arrived yet. Those bytes are
// withheld from the current flush and prepended to the next one, so chunk
// boundaries never corrupt multi-byte characters.
//
// The check is deliberately permissive: any tail pattern it does not
// recognize counts as complete (returns 0) and is left to the decoder, which
// matches how real terminals behave under malformed encodings.
func incompleteTail(b []byte) int {
	n := len(b)
	for i := 1; i <= utf8.UTFMax && i <= n; i++ {
		c := b[n-i]
		if c < 0x80 {
			return 0 // ASCII: the tail is complete
		}
		if c >= 0xC0 {
			// Found the lead byte i positions from the end.
			want := leadLength(c)
			if want > i {
				return i // sequence still missing bytes
			}
			return 0
		}
		// Continuation byte: keep scanning backward.
	}
	return 0
}

// leadLength returns the total sequence length announced by a UTF-8 lead
// byte, or 0 for an invalid lead.
func leadLength(c byte) int {
	switch {
	case c&0xE0 == 0xC0:
		return 2
	case c&0xF0 == 0xE0:
		return 3
	case c&0xF8 == 0xF0:
		return 4
	}
	return 0
}

// decodeRunes decodes b into runes, dropping undecodable bytes. Callers have
// already withheld any incomplete trailing sequence.
func decodeRunes(b []byte) []rune {
	runes := make([]rune, 0, len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			b = b[1:] // invalid byte: dropped from this flush
			continue
		}
		runes = append(runes, r)
		b = b[size:]
	}
	return runes
}
