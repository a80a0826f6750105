// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: parser/cell.go
// Summary: Cell, color and attribute types for the terminal grid.
// Usage: Shared by the parser, the session layer and renderers.

package parser

// Attribute is a bitmask of text styling flags applied to a cell.
type Attribute uint16

const (
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrUnderline
	AttrReverse
)

// String returns a human-readable representation of the attribute flags.
func (a Attribute) String() string {
	if a == 0 {
		return "none"
	}
	var parts []string
	if a&AttrBold != 0 {
		parts = append(parts, "bold")
	}
	if a&AttrDim != 0 {
		parts = append(parts, "dim")
	}
	if a&AttrUnderline != 0 {
		parts = append(parts, "underline")
	}
	if a&AttrReverse != 0 {
		parts = append(parts, "reverse")
	}
	if len(parts) == 0 {
		return "unknown"
	}
	result := parts[0]
	for i := 1; i < len(parts); i++ {
		result += "|" + parts[i]
	}
	return result
}

// ColorMode defines the type of color stored.
type ColorMode int

const (
	ColorModeDefault  ColorMode = iota // Default terminal color
	ColorModeStandard                  // The 16 basic ANSI colors
	ColorMode256                       // 256-color palette
	ColorModeRGB                       // 24-bit "true" color
)

// Color represents a color in one of several modes.
type Color struct {
	Mode    ColorMode
	Value   uint8 // Color code for Standard (0-15) and 256-mode (0-255)
	R, G, B uint8 // Channel values for RGB mode
}

// Cell represents a single character cell on the screen.
type Cell struct {
	Rune rune
	FG   Color
	BG   Color
	Attr Attribute
	Wide bool // True for the leading cell of a 2-column glyph
}

var (
	DefaultFG = Color{Mode: ColorModeDefault}
	DefaultBG = Color{Mode: ColorModeDefault}
)

// blank returns an empty cell carrying the default attributes. Every grid
// position always holds a valid cell; "absent" content is a blank.
func blank() Cell {
	return Cell{Rune: ' ', FG: DefaultFG, BG: DefaultBG}
}
