// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session/history.go
// Summary: SQLite-backed bookkeeping for commands sent via SendCommand.
// Notes: A convenience around the emulator core, not part of it; sessions run
// fine without a history store.

package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS command_history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	command    TEXT NOT NULL,
	entered_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_session
	ON command_history(session_id, id);
`

// CommandHistory persists commands with their timestamps.
type CommandHistory struct {
	db *sql.DB
}

// OpenCommandHistory opens (creating if needed) the history database at path.
func OpenCommandHistory(path string) (*CommandHistory, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &CommandHistory{db: db}, nil
}

// Record stores one command line for a session.
func (h *CommandHistory) Record(sessionID, command string) error {
	_, err := h.db.Exec(
		`INSERT INTO command_history (session_id, command, entered_at) VALUES (?, ?, ?)`,
		sessionID, command, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("record command: %w", err)
	}
	return nil
}

// Recent returns up to n most recent commands for a session, oldest first.
func (h *CommandHistory) Recent(sessionID string, n int) ([]string, error) {
	rows, err := h.db.Query(
		`SELECT command FROM (
			SELECT id, command FROM command_history
			WHERE session_id = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`,
		sessionID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var commands []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		commands = append(commands, c)
	}
	return commands, rows.Err()
}

// Close releases the database handle.
func (h *CommandHistory) Close() error {
	return h.db.Close()
}
