package editor

import (
	"testing"
	"time"
)

func TestSessionManagerPutGetRemove(t *testing.T) {
	m := NewSessionManager(time.Minute)
	s := newTestSession(t, nil)
	m.Put(s)

	if got := m.Get(s.ID); got != s {
		t.Fatal("Get returned a different session")
	}
	if m.Get("missing") != nil {
		t.Error("Get for an unknown ID should return nil")
	}
	if m.Count() != 1 {
		t.Errorf("Count = %d, want 1", m.Count())
	}

	m.Remove(s.ID)
	if m.Get(s.ID) != nil {
		t.Error("session still resolvable after Remove")
	}
}

func TestSessionManagerPrunesIdleSessions(t *testing.T) {
	m := NewSessionManager(time.Nanosecond)
	s := newTestSession(t, nil)
	m.Put(s)

	time.Sleep(2 * time.Millisecond)

	if pruned := m.PruneExpired(); pruned != 1 {
		t.Fatalf("PruneExpired = %d, want 1", pruned)
	}
	if m.Get(s.ID) != nil {
		t.Error("pruned session still registered")
	}
	if s.Phase() != PhaseTerminal {
		t.Error("pruned session should be cancelled")
	}
}

func TestSessionManagerPrunesTerminalSessions(t *testing.T) {
	m := NewSessionManager(time.Hour)
	s := newTestSession(t, nil)
	m.Put(s)
	s.Cancel()

	if pruned := m.PruneExpired(); pruned != 1 {
		t.Fatalf("PruneExpired = %d, want 1", pruned)
	}
}

func TestSessionManagerKeepsActiveSessions(t *testing.T) {
	m := NewSessionManager(time.Hour)
	s := newTestSession(t, nil)
	m.Put(s)

	if pruned := m.PruneExpired(); pruned != 0 {
		t.Fatalf("PruneExpired = %d, want 0", pruned)
	}
	if m.Get(s.ID) == nil {
		t.Error("active session was pruned")
	}
}
