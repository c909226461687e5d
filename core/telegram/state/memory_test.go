package state

import (
	"testing"
	"time"
)

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	m := NewMemoryManager()

	m.SetState(1, State("awaiting_name"))
	m.SetTemp(1, "parent_id", int64(5))

	if m.InProgress(2) {
		t.Fatal("user 2 should have no session")
	}
	if got := m.GetState(2); got != StateIdle {
		t.Fatalf("user 2 state = %s, want idle", got)
	}
	if _, ok := m.GetTempInt64(2, "parent_id"); ok {
		t.Fatal("user 2 must not see user 1 temp data")
	}

	m.SetState(2, State("awaiting_id"))
	if got := m.GetState(1); got != State("awaiting_name") {
		t.Fatalf("user 1 state = %s, want awaiting_name", got)
	}
}

func TestClearDropsStateAndTempData(t *testing.T) {
	m := NewMemoryManager()
	m.SetState(1, State("awaiting_item"))
	m.SetTemp(1, "section_id", int64(3))

	m.Clear(1)

	if m.InProgress(1) {
		t.Fatal("cleared session still in progress")
	}
	if _, ok := m.GetTempInt64(1, "section_id"); ok {
		t.Fatal("cleared session kept temp data")
	}
}

func TestGetTempInt64TypeMismatch(t *testing.T) {
	m := NewMemoryManager()
	m.SetTemp(1, "key", "not an int")
	if _, ok := m.GetTempInt64(1, "key"); ok {
		t.Fatal("string temp value asserted as int64")
	}
}

func TestSweepEvictsOnlyStaleSessions(t *testing.T) {
	mm := &memoryManager{sessions: make(map[int64]*Session)}
	now := time.Now()
	mm.now = func() time.Time { return now }

	mm.SetState(1, State("awaiting_name"))
	mm.SetState(2, State("awaiting_id"))

	// Age user 1 past the TTL, keep user 2 fresh.
	now = now.Add(20 * time.Minute)
	mm.SetTemp(2, "touch", true)

	if evicted := mm.Sweep(15 * time.Minute); evicted != 1 {
		t.Fatalf("evicted = %d, want 1", evicted)
	}
	if mm.InProgress(1) {
		t.Fatal("stale session survived sweep")
	}
	if !mm.InProgress(2) {
		t.Fatal("fresh session was evicted")
	}

	if evicted := mm.Sweep(0); evicted != 0 {
		t.Fatal("zero TTL must disable sweeping")
	}
}
