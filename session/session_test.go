// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session/session_test.go
// Summary: Session behavior over an in-memory transport: flushing, input
// encoding, device-query write-back, rendering and shutdown.

package session

import (
	"bytes"
	"io"
	"log"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/FunkJood/koboldterm/parser"
)

// fakePty stands in for the pty master: the test plays the child, emitting
// output the session will read and capturing everything the session writes.
type fakePty struct {
	out *io.PipeReader // session's read end
	in  *io.PipeWriter // test emits child output here

	mu     sync.Mutex
	writes bytes.Buffer
}

func newFakePty() *fakePty {
	r, w := io.Pipe()
	return &fakePty{out: r, in: w}
}

func (f *fakePty) Read(p []byte) (int, error) { return f.out.Read(p) }

func (f *fakePty) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes.Write(p)
}

func (f *fakePty) Close() error {
	f.in.Close()
	return f.out.Close()
}

// emit blocks until the session's reader has consumed the bytes.
func (f *fakePty) emit(t *testing.T, s string) {
	t.Helper()
	if _, err := f.in.Write([]byte(s)); err != nil {
		t.Fatalf("emit %q: %v", s, err)
	}
}

func (f *fakePty) sent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes.String()
}

func newTestSession(t *testing.T) (*Session, *fakePty) {
	t.Helper()
	s, err := New(Config{Rows: 4, Cols: 20})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f := newFakePty()
	s.begin(f)
	t.Cleanup(s.Stop)
	return s, f
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestSessionOutputReachesScreen(t *testing.T) {
	s, f := newTestSession(t)

	before := s.Version()
	f.emit(t, "hello")
	waitFor(t, "output to flush", func() bool {
		return strings.Contains(s.PlainText(0), "hello")
	})
	if s.Version() == before {
		t.Error("version did not advance after a flush")
	}
}

func TestVersionHoldsWithoutOutput(t *testing.T) {
	s, f := newTestSession(t)
	f.emit(t, "abc")
	waitFor(t, "first flush", func() bool { return s.Version() > 0 })

	// With no new output the version must hold still.
	v := s.Version()
	time.Sleep(4 * flushInterval)
	if s.Version() != v {
		t.Errorf("version advanced without output: %d -> %d", v, s.Version())
	}
}

func TestSessionDeviceQueryWriteBack(t *testing.T) {
	_, f := newTestSession(t)

	f.emit(t, "\x1b[c")
	waitFor(t, "DA1 response", func() bool {
		return f.sent() == "\x1b[?62;6;21;22c"
	})
}

func TestSessionUTF8SplitAcrossFlushes(t *testing.T) {
	s, f := newTestSession(t)

	seq := []byte("😀") // four bytes
	f.emit(t, string(seq[:2]))
	// Let at least one flush run on the partial sequence.
	time.Sleep(3 * flushInterval)
	if got := s.PlainText(0); got != "" {
		t.Errorf("partial rune leaked to screen: %q", got)
	}

	f.emit(t, string(seq[2:]))
	waitFor(t, "emoji to assemble", func() bool {
		return strings.Contains(s.PlainText(0), "😀")
	})
}

func TestSendKeyRespectsCursorMode(t *testing.T) {
	s, f := newTestSession(t)

	s.SendKey(KeyUp)
	waitFor(t, "normal arrow", func() bool { return f.sent() == "\x1b[A" })

	f.emit(t, "\x1b[?1h")
	waitFor(t, "DECCKM to apply", func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.vterm.AppCursorKeys()
	})

	s.SendKey(KeyUp)
	waitFor(t, "application arrow", func() bool {
		return strings.HasSuffix(f.sent(), "\x1bOA")
	})
}

func TestPasteBracketing(t *testing.T) {
	s, f := newTestSession(t)

	s.Paste("plain")
	waitFor(t, "plain paste", func() bool { return f.sent() == "plain" })

	f.emit(t, "\x1b[?2004h")
	waitFor(t, "bracketed paste mode", func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.vterm.BracketedPaste()
	})

	s.Paste("wrapped")
	want := "plain" + pasteStart + "wrapped" + pasteEnd
	waitFor(t, "bracketed paste", func() bool { return f.sent() == want })
}

func TestSessionTitle(t *testing.T) {
	s, f := newTestSession(t)
	f.emit(t, "\x1b]2;vim README.md\x07")
	waitFor(t, "title", func() bool { return s.Title() == "vim README.md" })
}

func TestRenderCursorOverlay(t *testing.T) {
	s, f := newTestSession(t)
	f.emit(t, "ab")
	waitFor(t, "output", func() bool { return strings.Contains(s.PlainText(0), "ab") })

	grid := s.Render(true)
	if grid[0][2].Attr&parser.AttrReverse == 0 {
		t.Error("expected reverse video on the cursor cell")
	}

	grid = s.Render(false)
	if grid[0][2].Attr&parser.AttrReverse != 0 {
		t.Error("expected no cursor overlay with showCursor off")
	}

	// A hidden cursor is never drawn.
	f.emit(t, "\x1b[?25l")
	waitFor(t, "cursor hidden", func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return !s.vterm.CursorVisible()
	})
	grid = s.Render(true)
	if grid[0][2].Attr&parser.AttrReverse != 0 {
		t.Error("expected no overlay for a hidden cursor")
	}
}

func TestResizeAdjustsGrid(t *testing.T) {
	s, _ := newTestSession(t)
	s.Resize(10, 40)
	grid := s.Render(false)
	if len(grid) != 10 || len(grid[0]) != 40 {
		t.Errorf("grid: expected 10x40, got %dx%d", len(grid), len(grid[0]))
	}

	// Nonsense geometry is ignored.
	s.Resize(0, -5)
	grid = s.Render(false)
	if len(grid) != 10 || len(grid[0]) != 40 {
		t.Errorf("grid after invalid resize: got %dx%d", len(grid), len(grid[0]))
	}
}

func TestStopFlushesPendingOutput(t *testing.T) {
	s, err := New(Config{Rows: 4, Cols: 20})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f := newFakePty()
	s.begin(f)

	f.emit(t, "last words")
	s.Stop()
	if got := s.PlainText(0); !strings.Contains(got, "last words") {
		t.Errorf("final flush lost output: %q", got)
	}
	if s.Running() {
		t.Error("expected Running to be false after Stop")
	}

	// Stop must be idempotent.
	s.Stop()
}

func TestStartWhileRunningFails(t *testing.T) {
	s, _ := newTestSession(t)
	if err := s.Start("/bin/true"); err == nil {
		t.Fatal("expected Start to fail on a running session")
	}
}

// A pty master reports the child's exit as EIO on Linux; that is a normal
// shutdown, not an error worth logging.
func TestChildExitViaEIOIsQuiet(t *testing.T) {
	s, err := New(Config{Rows: 4, Cols: 20})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tr := &eioTransport{data: []byte("bye")}
	s.begin(tr)
	defer s.Stop()

	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	waitFor(t, "session to stop running", func() bool { return !s.Running() })
	waitFor(t, "final output", func() bool {
		return strings.Contains(s.PlainText(0), "bye")
	})
	if strings.Contains(buf.String(), "Read error") {
		t.Errorf("EIO logged as a read error: %q", buf.String())
	}
}

// eioTransport hands out one chunk, then fails every read with EIO the way a
// Linux pty master does once the child side is gone.
type eioTransport struct {
	mu   sync.Mutex
	data []byte
}

func (e *eioTransport) Read(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.data) > 0 {
		n := copy(p, e.data)
		e.data = e.data[n:]
		return n, nil
	}
	return 0, syscall.EIO
}

func (e *eioTransport) Write(p []byte) (int, error) { return len(p), nil }
func (e *eioTransport) Close() error                { return nil }

func TestSendBytesWithoutTransport(t *testing.T) {
	s, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Never started: input is dropped, not a panic.
	s.SendInput("ignored")
	s.SendKey(KeyEnter)
}

func TestSessionDefaults(t *testing.T) {
	s, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.ID == "" {
		t.Error("expected a generated session id")
	}
	if s.rows != 24 || s.cols != 80 {
		t.Errorf("defaults: expected 24x80, got %dx%d", s.rows, s.cols)
	}
	if s.History() != nil {
		t.Error("expected no history store without a path")
	}
}
