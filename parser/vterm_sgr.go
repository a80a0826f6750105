// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: parser/vterm_sgr.go
// Summary: Select Graphic Rendition (CSI m) parameter handling.

package parser

// handleSGR walks a variable-length SGR parameter list. Codes 38/48 consume
// extra parameters for palette (5;n) or truecolor (2;r;g;b) selections.
// Unrecognized codes are skipped without aborting the rest of the list.
func (v *VTerm) handleSGR(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	i := 0
	for i < len(params) {
		p := params[i]
		switch {
		case p == 0:
			v.ResetAttributes()
		case p == 1:
			v.SetAttribute(AttrBold)
		case p == 2:
			v.SetAttribute(AttrDim)
		case p == 4:
			v.SetAttribute(AttrUnderline)
		case p == 7:
			v.SetAttribute(AttrReverse)
		case p == 22:
			v.ClearAttribute(AttrBold | AttrDim)
		case p == 24:
			v.ClearAttribute(AttrUnderline)
		case p == 27:
			v.ClearAttribute(AttrReverse)
		case p >= 30 && p <= 37:
			v.currentFG = Color{Mode: ColorModeStandard, Value: uint8(p - 30)}
		case p == 38:
			if c, skip, ok := extendedColor(params[i+1:]); ok {
				v.currentFG = c
				i += skip
			}
		case p == 39:
			v.currentFG = DefaultFG
		case p >= 40 && p <= 47:
			v.currentBG = Color{Mode: ColorModeStandard, Value: uint8(p - 40)}
		case p == 48:
			if c, skip, ok := extendedColor(params[i+1:]); ok {
				v.currentBG = c
				i += skip
			}
		case p == 49:
			v.currentBG = DefaultBG
		case p >= 90 && p <= 97: // bright foreground
			v.currentFG = Color{Mode: ColorModeStandard, Value: uint8(p - 90 + 8)}
		case p >= 100 && p <= 107: // bright background
			v.currentBG = Color{Mode: ColorModeStandard, Value: uint8(p - 100 + 8)}
		}
		i++
	}
}

// extendedColor decodes the tail of a 38/48 selection: "5;n" for the 256-color
// palette, "2;r;g;b" for truecolor. Returns the number of parameters consumed.
func extendedColor(rest []int) (Color, int, bool) {
	if len(rest) >= 2 && rest[0] == 5 {
		return Color{Mode: ColorMode256, Value: uint8(clampByte(rest[1]))}, 2, true
	}
	if len(rest) >= 4 && rest[0] == 2 {
		return Color{
			Mode: ColorModeRGB,
			R:    uint8(clampByte(rest[1])),
			G:    uint8(clampByte(rest[2])),
			B:    uint8(clampByte(rest[3])),
		}, 4, true
	}
	return Color{}, 0, false
}

func clampByte(n int) int {
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

func (v *VTerm) SetAttribute(a Attribute)   { v.currentAttr |= a }
func (v *VTerm) ClearAttribute(a Attribute) { v.currentAttr &^= a }

// ResetAttributes returns the pen to default colors and no styling.
func (v *VTerm) ResetAttributes() {
	v.currentAttr = 0
	v.currentFG = DefaultFG
	v.currentBG = DefaultBG
}
