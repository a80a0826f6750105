// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session/manager.go
// Summary: Registry of live sessions keyed by session id.

package session

import (
	"fmt"
	"sync"
)

// Manager tracks multiple sessions. All methods are safe for concurrent use.
type Manager struct {
	sessions sync.Map // map[string]*Session
}

func NewManager() *Manager {
	return &Manager{}
}

// Create builds a new session from cfg and registers it. The session is not
// started; callers decide when to Start it.
func (m *Manager) Create(cfg Config) (*Session, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, err
	}
	m.sessions.Store(s.ID, s)
	return s, nil
}

// Get returns a session by id.
func (m *Manager) Get(id string) (*Session, error) {
	v, ok := m.sessions.Load(id)
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return v.(*Session), nil
}

// List returns the ids of all registered sessions.
func (m *Manager) List() []string {
	var ids []string
	m.sessions.Range(func(key, _ any) bool {
		ids = append(ids, key.(string))
		return true
	})
	return ids
}

// Kill stops a session and removes it from the registry. Unknown ids are
// a no-op; Kill is idempotent like Stop itself.
func (m *Manager) Kill(id string) {
	v, ok := m.sessions.LoadAndDelete(id)
	if !ok {
		return
	}
	v.(*Session).Stop()
}

// Shutdown stops every registered session.
func (m *Manager) Shutdown() {
	m.sessions.Range(func(key, v any) bool {
		v.(*Session).Stop()
		m.sessions.Delete(key)
		return true
	})
}
