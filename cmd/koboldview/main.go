// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/koboldview/main.go
// Summary: Interactive viewer: runs a shell under the emulator and paints the
// cell grid onto the calling terminal with tcell.
// Notes: Presentation glue only; the emulator never depends on tcell.

package main

import (
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/FunkJood/koboldterm/config"
	"github.com/FunkJood/koboldterm/parser"
	"github.com/FunkJood/koboldterm/session"
)

// The viewer repaints at most ~30 times a second, regardless of how fast the
// session's version counter moves.
const repaintInterval = 33 * time.Millisecond

func main() {
	shellFlag := flag.String("shell", "", "shell to run (default: config, then $SHELL)")
	configFlag := flag.String("config", "", "path to koboldterm.json")
	flag.Parse()

	configPath := *configFlag
	if configPath == "" {
		if p, err := config.DefaultPath(); err == nil {
			configPath = p
		}
	}
	settings := config.Load(configPath)
	setupLogging(settings.LogFile)

	if *shellFlag != "" {
		settings.Shell = *shellFlag
	}

	if err := run(settings); err != nil {
		log.Printf("koboldview: %v", err)
		os.Exit(1)
	}
}

func setupLogging(path string) {
	if path == "" {
		log.SetOutput(io.Discard)
		return
	}
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(logFile)
}

func run(settings config.Settings) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	cols, rows := screen.Size()

	sess, err := session.New(session.Config{
		Shell:           settings.Shell,
		Rows:            rows,
		Cols:            cols,
		ScrollbackLines: settings.ScrollbackLines,
		HistoryPath:     settings.HistoryFile,
	})
	if err != nil {
		return err
	}
	if err := sess.Start(settings.Shell); err != nil {
		return err
	}
	defer sess.Stop()

	palette := newDefaultPalette()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	repaint := time.NewTicker(repaintInterval)
	defer repaint.Stop()

	var lastVersion uint64
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlQ {
					return nil
				}
				forwardKey(sess, ev)
			case *tcell.EventResize:
				w, h := ev.Size()
				sess.Resize(h, w)
				screen.Sync()
			}
		case <-repaint.C:
			if !sess.Running() {
				return nil
			}
			if v := sess.Version(); v != lastVersion {
				lastVersion = v
				draw(screen, sess, palette)
			}
		}
	}
}

func draw(screen tcell.Screen, sess *session.Session, palette *[258]tcell.Color) {
	grid := sess.Render(true)
	for y, row := range grid {
		for x, cell := range row {
			screen.SetContent(x, y, cell.Rune, nil, cellStyle(cell, palette))
		}
	}
	screen.Show()
}

// cellStyle translates an emulator cell to a tcell style using the local
// xterm-256 palette.
func cellStyle(cell parser.Cell, palette *[258]tcell.Color) tcell.Style {
	fg := mapColor(cell.FG, palette, 256)
	bg := mapColor(cell.BG, palette, 257)
	style := tcell.StyleDefault.Foreground(fg).Background(bg)
	style = style.Bold(cell.Attr&parser.AttrBold != 0)
	style = style.Dim(cell.Attr&parser.AttrDim != 0)
	style = style.Underline(cell.Attr&parser.AttrUnderline != 0)
	style = style.Reverse(cell.Attr&parser.AttrReverse != 0)
	return style
}

func mapColor(c parser.Color, palette *[258]tcell.Color, defaultSlot int) tcell.Color {
	switch c.Mode {
	case parser.ColorModeDefault:
		return palette[defaultSlot]
	case parser.ColorModeStandard, parser.ColorMode256:
		return palette[c.Value]
	case parser.ColorModeRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	default:
		return tcell.ColorDefault
	}
}

func forwardKey(sess *session.Session, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyUp:
		sess.SendKey(session.KeyUp)
	case tcell.KeyDown:
		sess.SendKey(session.KeyDown)
	case tcell.KeyRight:
		sess.SendKey(session.KeyRight)
	case tcell.KeyLeft:
		sess.SendKey(session.KeyLeft)
	case tcell.KeyHome:
		sess.SendKey(session.KeyHome)
	case tcell.KeyEnd:
		sess.SendKey(session.KeyEnd)
	case tcell.KeyInsert:
		sess.SendKey(session.KeyInsert)
	case tcell.KeyDelete:
		sess.SendKey(session.KeyDelete)
	case tcell.KeyPgUp:
		sess.SendKey(session.KeyPgUp)
	case tcell.KeyPgDn:
		sess.SendKey(session.KeyPgDn)
	case tcell.KeyEnter:
		sess.SendKey(session.KeyEnter)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		sess.SendKey(session.KeyBackspace)
	case tcell.KeyTab:
		sess.SendKey(session.KeyTab)
	case tcell.KeyEsc:
		sess.SendKey(session.KeyEscape)
	case tcell.KeyF1:
		sess.SendKey(session.KeyF1)
	case tcell.KeyF2:
		sess.SendKey(session.KeyF2)
	case tcell.KeyF3:
		sess.SendKey(session.KeyF3)
	case tcell.KeyF4:
		sess.SendKey(session.KeyF4)
	case tcell.KeyCtrlC:
		sess.SendBytes([]byte{0x03})
	case tcell.KeyCtrlD:
		sess.SendBytes([]byte{0x04})
	case tcell.KeyCtrlZ:
		sess.SendBytes([]byte{0x1a})
	default:
		if r := ev.Rune(); r != 0 {
			sess.SendInput(string(r))
		}
	}
}

// newDefaultPalette builds the standard xterm 256-color palette plus default
// foreground (slot 256) and background (slot 257).
func newDefaultPalette() *[258]tcell.Color {
	var p [258]tcell.Color
	// The 16 base ANSI colors.
	base := [][3]int32{
		{0, 0, 0}, {128, 0, 0}, {0, 128, 0}, {128, 128, 0},
		{0, 0, 128}, {128, 0, 128}, {0, 128, 128}, {192, 192, 192},
		{128, 128, 128}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
		{0, 0, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
	}
	for i, rgb := range base {
		p[i] = tcell.NewRGBColor(rgb[0], rgb[1], rgb[2])
	}

	// 6x6x6 color cube.
	levels := []int32{0, 95, 135, 175, 215, 255}
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p[i] = tcell.NewRGBColor(levels[r], levels[g], levels[b])
				i++
			}
		}
	}

	// Grayscale ramp.
	for j := 0; j < 24; j++ {
		gray := int32(8 + j*10)
		p[i] = tcell.NewRGBColor(gray, gray, gray)
		i++
	}

	p[256] = p[15] // default foreground
	p[257] = p[0]  // default background
	return &p
}
