// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/koboldsnap/main.go
// Summary: Headless capture: run a command inside the emulator for a while
// and print the resulting plain-text screen. Useful for snapshotting what a
// TUI would show without attaching a real terminal.

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/FunkJood/koboldterm/config"
	"github.com/FunkJood/koboldterm/session"
)

func main() {
	shellFlag := flag.String("shell", "", "program to run (default: $SHELL)")
	sendFlag := flag.String("send", "", "command to send once the shell is up")
	waitFlag := flag.Duration("wait", 2*time.Second, "how long to let the program run")
	linesFlag := flag.Int("lines", 0, "print only the last N lines (0 = screen)")
	rowsFlag := flag.Int("rows", 0, "terminal rows (default: controlling tty, then 24)")
	colsFlag := flag.Int("cols", 0, "terminal cols (default: controlling tty, then 80)")
	flag.Parse()

	log.SetOutput(io.Discard)

	settings := config.Default()
	rows, cols := settings.Rows, settings.Cols
	// Match the controlling terminal's geometry when attached to one, so the
	// snapshot lines up with what the user would see.
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
		cols, rows = w, h
	}
	if *rowsFlag > 0 {
		rows = *rowsFlag
	}
	if *colsFlag > 0 {
		cols = *colsFlag
	}

	sess, err := session.New(session.Config{
		Shell:           *shellFlag,
		Rows:            rows,
		Cols:            cols,
		ScrollbackLines: settings.ScrollbackLines,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "koboldsnap: %v\n", err)
		os.Exit(1)
	}
	if err := sess.Start(*shellFlag); err != nil {
		fmt.Fprintf(os.Stderr, "koboldsnap: %v\n", err)
		os.Exit(1)
	}

	if *sendFlag != "" {
		// Give the shell a moment to print its prompt first.
		time.Sleep(200 * time.Millisecond)
		sess.SendCommand(*sendFlag)
	}
	time.Sleep(*waitFlag)
	sess.Stop()

	n := *linesFlag
	if n <= 0 {
		n = rows
	}
	fmt.Println(sess.PlainText(n))
}
