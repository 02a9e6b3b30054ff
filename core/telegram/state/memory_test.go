package state

import "testing"

func TestGetReturnsIdleForUnknownUser(t *testing.T) {
	m := NewMemoryManager()

	sess := m.Get(1)
	if sess.State != StateIdle {
		t.Fatalf("state = %q, want idle", sess.State)
	}
	if m.InProgress(1) {
		t.Fatal("unknown user must not be in progress")
	}
}

func TestStateTransitions(t *testing.T) {
	m := NewMemoryManager()
	const askName State = "ask_name"

	m.SetState(7, askName)
	if got := m.GetState(7); got != askName {
		t.Fatalf("state = %q, want %q", got, askName)
	}
	if !m.InProgress(7) {
		t.Fatal("user with active state must be in progress")
	}

	m.ClearState(7)
	if m.InProgress(7) {
		t.Fatal("cleared user must be idle")
	}
}

func TestTempDataLifecycle(t *testing.T) {
	m := NewMemoryManager()

	m.SetTemp(3, "addr", "abc")
	v, ok := m.GetTemp(3, "addr")
	if !ok || v.(string) != "abc" {
		t.Fatalf("GetTemp = %v, %v", v, ok)
	}

	m.SetTemp(3, "count", int64(42))
	n, ok := m.GetTempInt64(3, "count")
	if !ok || n != 42 {
		t.Fatalf("GetTempInt64 = %d, %v", n, ok)
	}
	if _, ok := m.GetTempInt64(3, "addr"); ok {
		t.Fatal("string value must not assert as int64")
	}

	m.ClearTemp(3, "addr")
	if _, ok := m.GetTemp(3, "addr"); ok {
		t.Fatal("cleared key must be gone")
	}
}

func TestClearRemovesSession(t *testing.T) {
	m := NewMemoryManager()

	m.SetState(5, "ask_amount")
	m.SetTemp(5, "addr", "abc")
	m.Clear(5)

	if m.InProgress(5) {
		t.Fatal("cleared session must be idle")
	}
	if _, ok := m.GetTemp(5, "addr"); ok {
		t.Fatal("temp data must not survive Clear")
	}
}

func TestActiveCount(t *testing.T) {
	m := NewMemoryManager()

	m.SetState(1, "ask_name")
	m.SetState(2, "ask_name")
	m.SetState(3, StateIdle)

	if got := m.ActiveCount(); got != 2 {
		t.Fatalf("ActiveCount = %d, want 2", got)
	}

	m.Clear(1)
	if got := m.ActiveCount(); got != 1 {
		t.Fatalf("ActiveCount after clear = %d, want 1", got)
	}
}
