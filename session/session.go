// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session/session.go
// Summary: PTY session: owns the child shell, streams its output into the
// virtual terminal and relays input.
// Notes: One mutex guards all screen state; the reader and the flush ticker
// are the only background work. Transport failures degrade to "not running",
// they never reach the caller as a panic.

package session

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/creack/pty"
	"github.com/google/uuid"

	"github.com/FunkJood/koboldterm/parser"
)

const (
	// flushInterval is the cadence at which buffered PTY bytes become visible
	// screen state. Batching bounds per-byte overhead for bursty output.
	flushInterval = 16 * time.Millisecond

	readChunkSize = 4096
)

// Config describes a session before it starts.
type Config struct {
	Shell           string // child shell; $SHELL, then /bin/bash when empty
	Rows            int    // initial rows, default 24
	Cols            int    // initial columns, default 80
	ScrollbackLines int    // scrollback capacity, default 10000
	HistoryPath     string // SQLite file for command history; empty disables it
}

// Session owns a child shell under a pseudo-terminal. All exported methods
// are safe for concurrent use.
type Session struct {
	ID string

	shell string // configured shell; written only before Start

	mu      sync.Mutex
	vterm   *parser.VTerm
	parser  *parser.Parser
	cmd     *exec.Cmd
	ptmx    *os.File
	trans   io.ReadWriteCloser // read/write endpoint; ptmx in production
	rows    int
	cols    int
	running bool

	pendingMu sync.Mutex
	pending   []byte

	// carry holds an incomplete UTF-8 tail withheld from the previous flush.
	// Touched only by the flush path, which is serialized.
	carry []byte

	version  atomic.Uint64
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	history   *CommandHistory
	renderBuf [][]parser.Cell
}

// New creates a stopped session. Call Start to spawn the shell.
func New(cfg Config) (*Session, error) {
	if cfg.Rows <= 0 {
		cfg.Rows = 24
	}
	if cfg.Cols <= 0 {
		cfg.Cols = 80
	}
	s := &Session{
		ID:   uuid.NewString(),
		rows: cfg.Rows,
		cols: cfg.Cols,
		stop: make(chan struct{}),
	}
	opts := []parser.Option{parser.WithPtyWriter(s.writeBack)}
	if cfg.ScrollbackLines > 0 {
		opts = append(opts, parser.WithScrollbackSize(cfg.ScrollbackLines))
	}
	s.vterm = parser.NewVTerm(cfg.Cols, cfg.Rows, opts...)
	s.parser = parser.NewParser(s.vterm)
	if cfg.Shell != "" {
		s.shell = cfg.Shell
	}
	if cfg.HistoryPath != "" {
		h, err := OpenCommandHistory(cfg.HistoryPath)
		if err != nil {
			return nil, fmt.Errorf("open command history: %w", err)
		}
		s.history = h
	}
	return s, nil
}

// Start allocates a pty pair, execs shellPath on the slave side as a login
// shell, and starts the reader and flush loops. An empty shellPath falls back
// to the configured shell, $SHELL, then /bin/bash.
func (s *Session) Start(shellPath string) error {
	if shellPath == "" {
		shellPath = s.shell
	}
	if shellPath == "" {
		shellPath = os.Getenv("SHELL")
	}
	if shellPath == "" {
		shellPath = "/bin/bash"
	}

	// Claim the running flag before spawning so a concurrent Start cannot
	// also pass the guard and overwrite cmd/ptmx with a second shell.
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("session %s already running", s.ID)
	}
	s.running = true
	rows, cols := s.rows, s.cols
	s.mu.Unlock()

	cmd := exec.Command(shellPath)
	// Login-shell convention: argv[0] is "-<name>".
	cmd.Args = []string{"-" + filepath.Base(shellPath)}
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
		// Some CLIs read the geometry from the environment instead of
		// issuing TIOCGWINSZ.
		fmt.Sprintf("COLUMNS=%d", cols),
		fmt.Sprintf("LINES=%d", rows),
	)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		log.Printf("Session: Failed to start pty for %s: %v", shellPath, err)
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("start pty: %w", err)
	}

	s.mu.Lock()
	s.cmd = cmd
	s.ptmx = ptmx
	s.mu.Unlock()

	s.begin(ptmx)

	go func() {
		cmd.Wait()
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	return nil
}

// begin attaches the transport and launches the reader and flusher. Split
// from Start so tests can drive a session over an in-memory pipe.
func (s *Session) begin(rw io.ReadWriteCloser) {
	s.mu.Lock()
	s.trans = rw
	s.running = true
	s.mu.Unlock()

	s.wg.Add(2)
	go s.readLoop(rw)
	go s.flushLoop()
}

func (s *Session) readLoop(r io.Reader) {
	defer s.wg.Done()
	buf := make([]byte, readChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			s.pendingMu.Lock()
			s.pending = append(s.pending, buf[:n]...)
			s.pendingMu.Unlock()
		}
		if err != nil {
			select {
			case <-s.stop:
				// Shutdown path; the error is just the descriptor closing.
			default:
				// Linux reports a closed pty slave as EIO on the master,
				// so both EOF and EIO mean the child went away.
				if err != io.EOF && !errors.Is(err, syscall.EIO) {
					log.Printf("Session: Read error: %v", err)
				}
			}
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
			return
		}
	}
}

func (s *Session) flushLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.flush()
		case <-s.stop:
			// Final flush so the child's last output is not lost.
			s.flush()
			return
		}
	}
}

// flush drains the pending byte queue, withholds any incomplete UTF-8 tail
// for the next round, and feeds the decoded text to the parser.
func (s *Session) flush() {
	s.pendingMu.Lock()
	data := s.pending
	s.pending = nil
	s.pendingMu.Unlock()
	if len(data) == 0 {
		return
	}
	if len(s.carry) > 0 {
		data = append(s.carry, data...)
		s.carry = nil
	}
	tail := incompleteTail(data)
	if tail > 0 {
		s.carry = append([]byte(nil), data[len(data)-tail:]...)
		data = data[:len(data)-tail]
	}
	runes := decodeRunes(data)
	if len(runes) == 0 {
		return
	}
	s.mu.Lock()
	for _, r := range runes {
		s.parser.Parse(r)
	}
	s.mu.Unlock()
	s.version.Add(1)
}

// writeBack delivers synthesized terminal responses (DA, DSR, ...) to the
// child. Invoked by the parser during flush.
func (s *Session) writeBack(b []byte) {
	if s.trans != nil {
		s.trans.Write(b) //nolint:errcheck // a dead pty drops writes
	}
}

// SendInput writes keystrokes or other text to the child.
func (s *Session) SendInput(text string) {
	s.SendBytes([]byte(text))
}

// SendBytes writes raw bytes to the pty master. Write failures are silently
// ignored; a dead pty simply drops input, matching real terminal behavior.
func (s *Session) SendBytes(b []byte) {
	s.mu.Lock()
	rw := s.trans
	s.mu.Unlock()
	if rw == nil {
		return
	}
	rw.Write(b) //nolint:errcheck
}

// SendKey synthesizes the encoding of a named key, honoring the application
// cursor key mode requested by the child.
func (s *Session) SendKey(k Key) {
	s.mu.Lock()
	app := s.vterm.AppCursorKeys()
	s.mu.Unlock()
	s.SendBytes(encodeKey(k, app))
}

// Paste sends pasted text, wrapped in bracketed-paste markers when the child
// has enabled that mode.
func (s *Session) Paste(text string) {
	s.mu.Lock()
	bracketed := s.vterm.BracketedPaste()
	s.mu.Unlock()
	if bracketed {
		s.SendInput(pasteStart + text + pasteEnd)
		return
	}
	s.SendInput(text)
}

// SendCommand sends text plus a trailing newline and records it in the
// command history when one is configured.
func (s *Session) SendCommand(text string) error {
	if s.history != nil {
		if err := s.history.Record(s.ID, text); err != nil {
			log.Printf("Session: Failed to record command history: %v", err)
		}
	}
	s.SendInput(text + "\n")
	return nil
}

// Resize adjusts the in-memory screen and tells the kernel so the child
// receives SIGWINCH. Safe to call concurrently with ongoing output.
func (s *Session) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	s.mu.Lock()
	s.rows, s.cols = rows, cols
	s.vterm.Resize(cols, rows)
	ptmx := s.ptmx
	s.mu.Unlock()
	if ptmx != nil {
		pty.Setsize(ptmx, &pty.Winsize{ //nolint:errcheck
			Rows: uint16(rows),
			Cols: uint16(cols),
		})
	}
}

// Render returns the styled cell grid. With showCursor set and the cursor
// visible, the cursor cell is rendered in reverse video. The returned buffer
// is reused across calls; consumers must not retain it.
func (s *Session) Render(showCursor bool) [][]parser.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()

	grid := s.vterm.Grid()
	rows := len(grid)
	if rows == 0 {
		return nil
	}
	cols := len(grid[0])
	if len(s.renderBuf) != rows || len(s.renderBuf[0]) != cols {
		s.renderBuf = make([][]parser.Cell, rows)
		for y := range s.renderBuf {
			s.renderBuf[y] = make([]parser.Cell, cols)
		}
	}
	for y := range grid {
		copy(s.renderBuf[y], grid[y])
	}
	if showCursor && s.vterm.CursorVisible() {
		cx, cy := s.vterm.Cursor()
		if cy >= 0 && cy < rows && cx >= 0 && cx < cols {
			s.renderBuf[cy][cx].Attr ^= parser.AttrReverse
		}
	}
	return s.renderBuf
}

// PlainText returns the style-stripped screen content (scrollback included),
// limited to the last lastN lines.
func (s *Session) PlainText(lastN int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vterm.PlainText(lastN)
}

// ReadLastLines returns the last n lines of plain text, oldest first.
func (s *Session) ReadLastLines(n int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vterm.ReadLastLines(n)
}

// Title returns the window title last set by the child (OSC 0/2).
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vterm.Title()
}

// Version returns a monotonic counter that increases whenever a flush changed
// screen state. Observers poll it at their own cadence.
func (s *Session) Version() uint64 {
	return s.version.Load()
}

// Running reports whether the child is still attached.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// History exposes the command history store, nil when not configured.
func (s *Session) History() *CommandHistory {
	return s.history
}

// Stop hangs up the child, cancels the reader before closing the descriptor,
// and performs one final flush. Idempotent and callable from any goroutine.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)

		s.mu.Lock()
		cmd := s.cmd
		rw := s.trans
		s.mu.Unlock()

		if cmd != nil && cmd.Process != nil {
			cmd.Process.Signal(syscall.SIGHUP) //nolint:errcheck
		}
		if rw != nil {
			rw.Close() //nolint:errcheck // unblocks the reader
		}
		s.wg.Wait()
		s.flush() // anything the reader delivered after the loop's last tick

		s.mu.Lock()
		s.running = false
		s.mu.Unlock()

		if s.history != nil {
			if err := s.history.Close(); err != nil {
				log.Printf("Session: Failed to close command history: %v", err)
			}
		}
	})
}
