// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: parser/parser.go
// Summary: Escape-sequence state machine for VT100/ANSI/xterm input.
// Usage: Fed decoded text by the session layer, one rune at a time.
// Notes: Malformed input is a silent no-op; the parser always returns to a
// defined state and never fails.

package parser

import (
	"log"
	"strconv"
)

type State int

const (
	StateGround State = iota
	StateEscape
	StateCSI
	StateOSC
	StateOSCEscape
	StateCharset
	StateHash
)

// Hard bounds against adversarial parameter floods. Extra parameters and OSC
// payload beyond these are dropped, the sequence itself still terminates
// normally.
const (
	maxCSIParams   = 32
	maxCSIParamVal = 65535
	maxOSCPayload  = 4096
)

type Parser struct {
	state        State
	vterm        *VTerm
	params       []int
	currentParam int
	hasParam     bool
	prefix       rune // CSI prefix byte: '<', '=', '>' or '?'; 0 for none
	intermediate rune
	oscBuffer    []rune
}

func NewParser(v *VTerm) *Parser {
	return &Parser{
		state:     StateGround,
		vterm:     v,
		params:    make([]int, 0, 16),
		oscBuffer: make([]rune, 0, 128),
	}
}

// ParseString feeds every rune of s through the state machine.
func (p *Parser) ParseString(s string) {
	for _, r := range s {
		p.Parse(r)
	}
}

// Parse processes one rune of decoded PTY output.
func (p *Parser) Parse(r rune) {
	switch p.state {
	case StateGround:
		p.parseGround(r)
	case StateEscape:
		p.parseEscape(r)
	case StateCSI:
		p.parseCSI(r)
	case StateOSC:
		if r == '\x07' { // BEL terminates OSC
			p.dispatchOSC()
			p.state = StateGround
		} else if r == '\x1b' {
			// Could be ST (ESC \) or the start of an unrelated sequence.
			p.state = StateOSCEscape
		} else if len(p.oscBuffer) < maxOSCPayload {
			p.oscBuffer = append(p.oscBuffer, r)
		}
	case StateOSCEscape:
		if r == '\\' { // ST
			p.dispatchOSC()
			p.state = StateGround
		} else {
			// Not ST: the OSC was abandoned mid-flight; the ESC starts a new
			// sequence and r is its selector.
			p.oscBuffer = p.oscBuffer[:0]
			p.state = StateEscape
			p.Parse(r)
		}
	case StateCharset:
		// Charset designation (ESC ( X etc.) consumes exactly one byte.
		p.state = StateGround
	case StateHash:
		if r == '8' {
			p.vterm.DECALN()
		}
		p.state = StateGround
	}
}

func (p *Parser) parseGround(r rune) {
	switch r {
	case '\x1b':
		p.state = StateEscape
	case '\n', '\v', '\f':
		p.vterm.LineFeed()
	case '\r':
		p.vterm.CarriageReturn()
	case '\b':
		p.vterm.Backspace()
	case '\t':
		p.vterm.Tab()
	case '\x07':
		// BEL: nothing to ring headless.
	default:
		if r >= ' ' {
			p.vterm.placeChar(r)
		}
		// Remaining C0 controls are ignored.
	}
}

func (p *Parser) parseEscape(r rune) {
	switch r {
	case '[':
		p.state = StateCSI
		p.params = p.params[:0]
		p.currentParam = 0
		p.hasParam = false
		p.prefix = 0
		p.intermediate = 0
	case ']':
		p.state = StateOSC
		p.oscBuffer = p.oscBuffer[:0]
	case '(', ')':
		p.state = StateCharset
	case '#':
		p.state = StateHash
	case 'M':
		p.vterm.ReverseIndex()
		p.state = StateGround
	case 'D':
		p.vterm.Index()
		p.state = StateGround
	case 'E':
		p.vterm.NextLine()
		p.state = StateGround
	case 'H':
		p.vterm.SetTabStop()
		p.state = StateGround
	case '7':
		p.vterm.SaveCursor()
		p.state = StateGround
	case '8':
		p.vterm.RestoreCursor()
		p.state = StateGround
	case 'c':
		p.vterm.Reset()
		p.state = StateGround
	case '=', '>', '\\':
		// Keypad modes and stray ST: accepted, no effect.
		p.state = StateGround
	default:
		log.Printf("Parser: Unhandled ESC sequence: %q", r)
		p.state = StateGround
	}
}

func (p *Parser) parseCSI(r rune) {
	switch {
	case r >= '0' && r <= '9':
		p.hasParam = true
		p.currentParam = p.currentParam*10 + int(r-'0')
		if p.currentParam > maxCSIParamVal {
			p.currentParam = maxCSIParamVal
		}
	case r == ';':
		p.pushParam()
	case r == ':':
		// Sub-parameter separator (SGR underline styles): folded into the
		// plain list; the dispatcher skips what it does not understand.
		p.pushParam()
	case r >= '<' && r <= '?':
		p.prefix = r
	case r >= ' ' && r <= '/':
		p.intermediate = r
	case r >= '@' && r <= '~':
		if p.hasParam || len(p.params) > 0 {
			p.pushParam()
		}
		p.vterm.ProcessCSI(r, p.params, p.intermediate, p.prefix)
		p.state = StateGround
	default:
		// Anything outside the CSI grammar aborts the sequence silently.
		p.state = StateGround
	}
}

func (p *Parser) pushParam() {
	if len(p.params) < maxCSIParams {
		p.params = append(p.params, p.currentParam)
	}
	p.currentParam = 0
	p.hasParam = false
}

// dispatchOSC consumes the accumulated payload. Only the window title
// (OSC 0/2) is acted on; hyperlinks, clipboard writes and color queries are
// discarded.
func (p *Parser) dispatchOSC() {
	payload := p.oscBuffer
	p.oscBuffer = p.oscBuffer[:0]

	sep := -1
	for i, r := range payload {
		if r == ';' {
			sep = i
			break
		}
	}
	if sep < 0 {
		return
	}
	command, err := strconv.Atoi(string(payload[:sep]))
	if err != nil {
		return
	}
	switch command {
	case 0, 2:
		p.vterm.SetTitle(string(payload[sep+1:]))
	}
}
