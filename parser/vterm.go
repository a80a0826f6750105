// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: parser/vterm.go
// Summary: Virtual terminal state: dual screen buffers, cursor, SGR state.
// Usage: Mutated exclusively by the escape-sequence parser's dispatch.
// Notes: Callers provide their own locking; VTerm itself is not goroutine-safe.

package parser

import (
	"log"
	"strings"

	"github.com/mattn/go-runewidth"
)

// screenID discriminates which of the two pre-sized buffers is live.
type screenID int

const (
	mainScreen screenID = iota
	altScreen
)

// screen holds the per-buffer state that swaps wholesale when a fullscreen
// application enters or leaves the alternate screen.
type screen struct {
	grid     [][]Cell
	cursorX  int
	cursorY  int
	wrapNext bool // deferred wrap: set after writing into the last column
}

func newScreen(width, height int) *screen {
	s := &screen{grid: make([][]Cell, height)}
	for y := range s.grid {
		s.grid[y] = make([]Cell, width)
		for x := range s.grid[y] {
			s.grid[y][x] = blank()
		}
	}
	return s
}

func (s *screen) clear() {
	for y := range s.grid {
		for x := range s.grid[y] {
			s.grid[y][x] = blank()
		}
	}
}

// VTerm represents the state of a virtual terminal: a main screen backed by a
// scrollback ring and an alternate screen for fullscreen applications.
type VTerm struct {
	width, height int

	active  screenID
	screens [2]*screen

	scrollback     *Scrollback
	scrollbackSize int

	savedMainCursorX, savedMainCursorY int
	savedAltCursorX, savedAltCursorY   int

	currentFG, currentBG Color
	currentAttr          Attribute

	tabStops map[int]bool

	marginTop, marginBottom int

	originMode     bool
	cursorVisible  bool
	autoWrapMode   bool
	insertMode     bool
	appCursorKeys  bool
	bracketedPaste bool
	focusReporting bool

	lastGraphicChar rune // for REP (CSI b)
	title           string

	WriteToPty                 func([]byte)
	TitleChanged               func(string)
	OnBracketedPasteModeChange func(bool)
	OnFocusReportingChange     func(bool)
}

// NewVTerm creates and initializes a new virtual terminal.
func NewVTerm(width, height int, opts ...Option) *VTerm {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	v := &VTerm{
		width:          width,
		height:         height,
		scrollbackSize: defaultScrollbackSize,
		currentFG:      DefaultFG,
		currentBG:      DefaultBG,
		tabStops:       make(map[int]bool),
		marginTop:      0,
		marginBottom:   height - 1,
		cursorVisible:  true,
		autoWrapMode:   true,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.screens[mainScreen] = newScreen(width, height)
	v.screens[altScreen] = newScreen(width, height)
	v.scrollback = NewScrollback(v.scrollbackSize)
	for i := 0; i < width; i++ {
		if i%8 == 0 {
			v.tabStops[i] = true
		}
	}
	return v
}

// scr returns the live screen buffer.
func (v *VTerm) scr() *screen {
	return v.screens[v.active]
}

// Grid returns the currently visible 2D buffer of cells. The returned slices
// alias internal state; callers that need a stable copy must make one.
func (v *VTerm) Grid() [][]Cell {
	return v.scr().grid
}

// placeChar puts a rune at the current cursor position, honoring deferred
// wrap, insert mode and wide glyphs.
func (v *VTerm) placeChar(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		// Zero-width (combining marks, ZWJ): nothing to place.
		return
	}
	v.lastGraphicChar = r

	s := v.scr()
	if s.wrapNext {
		s.wrapNext = false
		if v.autoWrapMode {
			s.cursorX = 0
			v.LineFeed()
			s = v.scr()
		}
	}

	// A wide glyph that no longer fits on this row wraps first, leaving the
	// last column blank.
	if w == 2 && s.cursorX == v.width-1 && v.autoWrapMode {
		s.grid[s.cursorY][s.cursorX] = Cell{Rune: ' ', FG: v.currentFG, BG: v.currentBG, Attr: v.currentAttr}
		s.cursorX = 0
		v.LineFeed()
		s = v.scr()
	}

	if v.insertMode && s.cursorX+w < v.width {
		row := s.grid[s.cursorY]
		copy(row[s.cursorX+w:], row[s.cursorX:])
	}

	s.grid[s.cursorY][s.cursorX] = Cell{Rune: r, FG: v.currentFG, BG: v.currentBG, Attr: v.currentAttr, Wide: w == 2}
	if w == 2 && s.cursorX+1 < v.width {
		// Trailing half of a wide glyph occupies its own cell.
		s.grid[s.cursorY][s.cursorX+1] = Cell{Rune: ' ', FG: v.currentFG, BG: v.currentBG, Attr: v.currentAttr}
	}

	if s.cursorX+w >= v.width {
		// Wrote into the last column: the cursor stays put and the wrap is
		// deferred until the next write or line feed.
		s.cursorX = v.width - 1
		if v.autoWrapMode {
			s.wrapNext = true
		}
	} else {
		s.cursorX += w
	}
}

// SetCursorPos moves the cursor to a new position, clamping to screen bounds.
// Relative and absolute moves never scroll.
func (v *VTerm) SetCursorPos(y, x int) {
	if x < 0 {
		x = 0
	}
	if x >= v.width {
		x = v.width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= v.height {
		y = v.height - 1
	}
	s := v.scr()
	if y != s.cursorY || x != s.cursorX {
		s.wrapNext = false
	}
	s.cursorX = x
	s.cursorY = y
}

// setCursorOrigin positions the cursor honoring origin mode: when DECOM is
// set, coordinates are relative to the scroll region and clamped inside it.
func (v *VTerm) setCursorOrigin(y, x int) {
	if v.originMode {
		y += v.marginTop
		if y > v.marginBottom {
			y = v.marginBottom
		}
	}
	v.SetCursorPos(y, x)
}

// Cursor returns the current cursor position as (x, y).
func (v *VTerm) Cursor() (int, int) {
	s := v.scr()
	return s.cursorX, s.cursorY
}

func (v *VTerm) CursorX() int { return v.scr().cursorX }
func (v *VTerm) CursorY() int { return v.scr().cursorY }

// LineFeed moves the cursor down one line, scrolling if at the bottom of the
// scroll region.
func (v *VTerm) LineFeed() {
	s := v.scr()
	s.wrapNext = false
	if s.cursorY == v.marginBottom {
		v.scrollUp(1)
	} else if s.cursorY < v.height-1 {
		s.cursorY++
	}
}

func (v *VTerm) CarriageReturn() {
	s := v.scr()
	s.wrapNext = false
	s.cursorX = 0
}

func (v *VTerm) Backspace() {
	s := v.scr()
	s.wrapNext = false
	if s.cursorX > 0 {
		s.cursorX--
	}
}

func (v *VTerm) Tab() {
	s := v.scr()
	s.wrapNext = false
	for x := s.cursorX + 1; x < v.width; x++ {
		if v.tabStops[x] {
			v.SetCursorPos(s.cursorY, x)
			return
		}
	}
	v.SetCursorPos(s.cursorY, v.width-1)
}

// TabForward (CHT) moves the cursor forward n tab stops.
func (v *VTerm) TabForward(n int) {
	for i := 0; i < n; i++ {
		v.Tab()
	}
}

// TabBackward (CBT) moves the cursor backward n tab stops.
func (v *VTerm) TabBackward(n int) {
	s := v.scr()
	s.wrapNext = false
	for i := 0; i < n; i++ {
		found := false
		for x := s.cursorX - 1; x >= 0; x-- {
			if v.tabStops[x] {
				v.SetCursorPos(s.cursorY, x)
				found = true
				break
			}
		}
		if !found {
			v.SetCursorPos(s.cursorY, 0)
			break
		}
	}
}

// SetTabStop sets a tab stop at the current cursor column (HTS).
func (v *VTerm) SetTabStop() {
	v.tabStops[v.scr().cursorX] = true
}

// ClearTabStop clears the tab stop at the cursor (mode 0) or all tab stops
// (mode 3).
func (v *VTerm) ClearTabStop(mode int) {
	switch mode {
	case 0:
		delete(v.tabStops, v.scr().cursorX)
	case 3:
		v.tabStops = make(map[int]bool)
	}
}

// Index (ESC D) moves the cursor down one line, scrolling at the bottom margin.
func (v *VTerm) Index() {
	v.LineFeed()
}

// NextLine (ESC E) is a line feed followed by a carriage return.
func (v *VTerm) NextLine() {
	v.LineFeed()
	v.CarriageReturn()
}

// ReverseIndex (ESC M) moves the cursor up one line, scrolling down at the
// top margin.
func (v *VTerm) ReverseIndex() {
	s := v.scr()
	s.wrapNext = false
	if s.cursorY == v.marginTop {
		v.scrollDown(1)
	} else if s.cursorY > 0 {
		s.cursorY--
	}
}

// SaveCursor records cursor position for DECSC (ESC 7) / SCOSC (CSI s).
func (v *VTerm) SaveCursor() {
	s := v.scr()
	if v.active == altScreen {
		v.savedAltCursorX, v.savedAltCursorY = s.cursorX, s.cursorY
	} else {
		v.savedMainCursorX, v.savedMainCursorY = s.cursorX, s.cursorY
	}
}

// RestoreCursor restores the position saved by SaveCursor (ESC 8 / CSI u).
func (v *VTerm) RestoreCursor() {
	if v.active == altScreen {
		v.SetCursorPos(v.savedAltCursorY, v.savedAltCursorX)
	} else {
		v.SetCursorPos(v.savedMainCursorY, v.savedMainCursorX)
	}
}

// Reset brings the terminal to its initial state (RIS, ESC c).
func (v *VTerm) Reset() {
	v.savedMainCursorX, v.savedMainCursorY = 0, 0
	v.savedAltCursorX, v.savedAltCursorY = 0, 0
	v.active = mainScreen
	v.screens[mainScreen].clear()
	v.screens[altScreen].clear()
	v.scrollback.Clear()
	v.ResetAttributes()
	v.marginTop = 0
	v.marginBottom = v.height - 1
	v.originMode = false
	v.cursorVisible = true
	v.autoWrapMode = true
	v.insertMode = false
	v.appCursorKeys = false
	v.setBracketedPaste(false)
	v.setFocusReporting(false)
	s := v.scr()
	s.cursorX, s.cursorY, s.wrapNext = 0, 0, false
	v.tabStops = make(map[int]bool)
	for i := 0; i < v.width; i++ {
		if i%8 == 0 {
			v.tabStops[i] = true
		}
	}
}

// SoftReset (DECSTR) resets modes and margins without clearing the screen or
// moving the cursor.
func (v *VTerm) SoftReset() {
	v.savedMainCursorX, v.savedMainCursorY = 0, 0
	v.savedAltCursorX, v.savedAltCursorY = 0, 0
	v.insertMode = false
	v.originMode = false
	v.autoWrapMode = true
	v.cursorVisible = true
	v.marginTop = 0
	v.marginBottom = v.height - 1
	v.setBracketedPaste(false)
	v.ResetAttributes()
}

// DECALN (ESC # 8) fills the screen with E's, resets margins and homes the
// cursor. Screen alignment test pattern.
func (v *VTerm) DECALN() {
	s := v.scr()
	for y := 0; y < v.height; y++ {
		for x := 0; x < v.width; x++ {
			s.grid[y][x] = Cell{Rune: 'E', FG: DefaultFG, BG: DefaultBG}
		}
	}
	v.marginTop = 0
	v.marginBottom = v.height - 1
	v.SetCursorPos(0, 0)
}

// SetTitle records the window title (OSC 0/2) and notifies the handler.
func (v *VTerm) SetTitle(title string) {
	v.title = title
	if v.TitleChanged != nil {
		v.TitleChanged(title)
	}
}

// Resize copies the top-left overlapping region of both buffers into freshly
// sized grids and blanks the rest. The shell repositions its own cursor after
// SIGWINCH; ours is only clamped.
func (v *VTerm) Resize(width, height int) {
	if width < 1 || height < 1 {
		return
	}
	if width == v.width && height == v.height {
		return
	}
	oldHeight := v.height
	v.width = width
	v.height = height

	for _, s := range v.screens {
		grid := make([][]Cell, height)
		for y := range grid {
			grid[y] = make([]Cell, width)
			for x := range grid[y] {
				grid[y][x] = blank()
			}
			if y < oldHeight {
				copy(grid[y], s.grid[y])
			}
		}
		s.grid = grid
		if s.cursorX >= width {
			s.cursorX = width - 1
		}
		if s.cursorY >= height {
			s.cursorY = height - 1
		}
		s.wrapNext = false
	}

	// Margins reset to the full screen; a stale region on the new geometry
	// would scroll garbage.
	v.marginTop = 0
	v.marginBottom = height - 1

	for i := 0; i < width; i++ {
		if i%8 == 0 && !v.tabStops[i] {
			v.tabStops[i] = true
		}
	}
}

// PlainText returns the style-stripped content of scrollback plus the visible
// main grid, limited to the last lastN lines (0 = everything). Trailing blanks
// on each line and trailing empty lines are dropped.
func (v *VTerm) PlainText(lastN int) string {
	lines := v.plainLines()
	if lastN > 0 && lastN < len(lines) {
		lines = lines[len(lines)-lastN:]
	}
	return strings.Join(lines, "\n")
}

// ReadLastLines returns the last n non-style lines, oldest first.
func (v *VTerm) ReadLastLines(n int) []string {
	lines := v.plainLines()
	if n > 0 && n < len(lines) {
		lines = lines[len(lines)-n:]
	}
	return lines
}

func (v *VTerm) plainLines() []string {
	var lines []string
	for _, row := range v.scrollback.Snapshot(0) {
		lines = append(lines, rowString(row))
	}
	grid := v.screens[mainScreen].grid
	if v.active == altScreen {
		grid = v.screens[altScreen].grid
	}
	for _, row := range grid {
		lines = append(lines, rowString(row))
	}
	// Trailing empty lines are presentation noise, not content.
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func rowString(row []Cell) string {
	var b strings.Builder
	for _, c := range row {
		if c.Rune == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(c.Rune)
	}
	return strings.TrimRight(b.String(), " ")
}

// respond delivers a synthesized reply (DA, DSR, window ops) to the writer
// callback, exactly as a real terminal would answer on its input line.
func (v *VTerm) respond(s string) {
	if v.WriteToPty != nil {
		v.WriteToPty([]byte(s))
	} else {
		log.Printf("Parser: Dropping terminal response %q (no pty writer)", s)
	}
}

func (v *VTerm) setBracketedPaste(on bool) {
	if v.bracketedPaste == on {
		return
	}
	v.bracketedPaste = on
	if v.OnBracketedPasteModeChange != nil {
		v.OnBracketedPasteModeChange(on)
	}
}

func (v *VTerm) setFocusReporting(on bool) {
	if v.focusReporting == on {
		return
	}
	v.focusReporting = on
	if v.OnFocusReportingChange != nil {
		v.OnFocusReportingChange(on)
	}
}

// --- Simple getters ---

func (v *VTerm) Size() (int, int)          { return v.width, v.height }
func (v *VTerm) CursorVisible() bool       { return v.cursorVisible }
func (v *VTerm) AppCursorKeys() bool       { return v.appCursorKeys }
func (v *VTerm) OriginMode() bool          { return v.originMode }
func (v *VTerm) BracketedPaste() bool      { return v.bracketedPaste }
func (v *VTerm) FocusReporting() bool      { return v.focusReporting }
func (v *VTerm) OnAltScreen() bool         { return v.active == altScreen }
func (v *VTerm) Title() string             { return v.title }
func (v *VTerm) Scrollback() *Scrollback   { return v.scrollback }
func (v *VTerm) ScrollMargins() (int, int) { return v.marginTop, v.marginBottom }

// --- Options ---

type Option func(*VTerm)

// WithPtyWriter installs the write-back callback used to answer device
// queries (DA, DSR, window ops).
func WithPtyWriter(writer func([]byte)) Option {
	return func(v *VTerm) { v.WriteToPty = writer }
}

func WithTitleChangeHandler(handler func(string)) Option {
	return func(v *VTerm) { v.TitleChanged = handler }
}

func WithBracketedPasteModeChangeHandler(handler func(bool)) Option {
	return func(v *VTerm) { v.OnBracketedPasteModeChange = handler }
}

func WithFocusReportingChangeHandler(handler func(bool)) Option {
	return func(v *VTerm) { v.OnFocusReportingChange = handler }
}

// WithScrollbackSize overrides the default scrollback capacity.
func WithScrollbackSize(lines int) Option {
	return func(v *VTerm) { v.scrollbackSize = lines }
}
