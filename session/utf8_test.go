// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session/utf8_test.go
// Summary: UTF-8 tail withholding and lossy decoding at chunk boundaries.

package session

import "testing"

func TestIncompleteTail(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want int
	}{
		{"empty", nil, 0},
		{"ascii", []byte("hello"), 0},
		{"complete two-byte", []byte("é"), 0},
		{"complete three-byte", []byte("€"), 0},
		{"complete four-byte", []byte("😀"), 0},
		{"lead of two-byte", []byte("abc\xc3"), 1},
		{"lead of three-byte", []byte("ab\xe2"), 1},
		{"three-byte missing one", []byte("ab\xe2\x82"), 2},
		{"lead of four-byte", []byte("\xf0"), 1},
		{"four-byte missing two", []byte("\xf0\x9f"), 2},
		{"four-byte missing one", []byte("\xf0\x9f\x98"), 3},
		{"text then partial", []byte("hi \xf0\x9f\x98"), 3},
		// Malformed tails count as complete and go to the decoder.
		{"lone continuation", []byte("ab\x82"), 0},
		{"all continuations", []byte("\x82\x82\x82\x82\x82"), 0},
		{"invalid lead 0xff", []byte("ab\xff"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := incompleteTail(tt.in); got != tt.want {
				t.Errorf("incompleteTail(%q): expected %d, got %d", tt.in, tt.want, got)
			}
		})
	}
}

// Every split point of a multi-byte character must reassemble it: the bytes
// withheld by the first half always complete in the second.
func TestTailWithholdingReassembles(t *testing.T) {
	for _, s := range []string{"é", "€", "😀", "ab€cd"} {
		b := []byte(s)
		for cut := 0; cut <= len(b); cut++ {
			first := b[:cut]
			tail := incompleteTail(first)
			carried := append(append([]byte(nil), first[len(first)-tail:]...), b[cut:]...)
			head := first[:len(first)-tail]

			var got []rune
			got = append(got, decodeRunes(head)...)
			got = append(got, decodeRunes(carried)...)
			if string(got) != s {
				t.Errorf("split %q at %d: expected %q, got %q", s, cut, s, string(got))
			}
		}
	}
}

func TestDecodeRunesDropsInvalidBytes(t *testing.T) {
	got := decodeRunes([]byte("a\xffb\x80c"))
	if string(got) != "abc" {
		t.Errorf("expected %q, got %q", "abc", string(got))
	}
}

func TestLeadLength(t *testing.T) {
	tests := []struct {
		c    byte
		want int
	}{
		{0xC3, 2},
		{0xE2, 3},
		{0xF0, 4},
		{0x41, 0},
		{0x82, 0},
		{0xFF, 0},
	}
	for _, tt := range tests {
		if got := leadLength(tt.c); got != tt.want {
			t.Errorf("leadLength(%#x): expected %d, got %d", tt.c, tt.want, got)
		}
	}
}
