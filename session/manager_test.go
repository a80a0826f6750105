// Copyright © 2026 Koboldterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session/manager_test.go
// Summary: Session registry lifecycle.

package session

import "testing"

func TestManagerLifecycle(t *testing.T) {
	m := NewManager()

	a, err := m.Create(Config{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := m.Create(Config{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("expected distinct session ids, both %q", a.ID)
	}

	got, err := m.Get(a.ID)
	if err != nil || got != a {
		t.Errorf("Get(%q): expected the created session, got %v (err %v)", a.ID, got, err)
	}

	ids := m.List()
	if len(ids) != 2 {
		t.Errorf("List: expected 2 ids, got %v", ids)
	}

	m.Kill(a.ID)
	if _, err := m.Get(a.ID); err == nil {
		t.Error("expected Get to fail after Kill")
	}
	// Killing an unknown id is a no-op.
	m.Kill("no-such-session")

	m.Shutdown()
	if ids := m.List(); len(ids) != 0 {
		t.Errorf("List after Shutdown: expected empty, got %v", ids)
	}
}

func TestManagerGetUnknown(t *testing.T) {
	m := NewManager()
	if _, err := m.Get("missing"); err == nil {
		t.Error("expected an error for an unknown id")
	}
}
