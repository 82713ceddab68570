package session

import (
	"testing"
	"time"
)

// fakeWire is an in-memory transport capturing writes.
type fakeWire struct {
	writes [][]byte
	closed bool
	err    error
}

func (f *fakeWire) WriteMessage(messageType int, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, data)
	return nil
}

func (f *fakeWire) SetWriteDeadline(t time.Time) error { return nil }

func (f *fakeWire) WriteControl(messageType int, data []byte, deadline time.Time) error {
	return nil
}

func (f *fakeWire) Close() error {
	f.closed = true
	return nil
}

func newTestSession(id string) (*Session, *fakeWire) {
	w := &fakeWire{}
	return New(id, w, 5*time.Second), w
}

func TestSession_Send(t *testing.T) {
	s, w := newTestSession("S1")

	if err := s.Send([]byte("hello")); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(w.writes) != 1 || string(w.writes[0]) != "hello" {
		t.Errorf("writes = %v, want [hello]", w.writes)
	}
}

func TestSession_SendAfterClose(t *testing.T) {
	s, w := newTestSession("S1")

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !w.closed {
		t.Error("underlying connection not closed")
	}
	if err := s.Send([]byte("hello")); err != ErrClosed {
		t.Errorf("Send after close = %v, want ErrClosed", err)
	}
}

func TestSession_CloseIdempotent(t *testing.T) {
	s, _ := newTestSession("S1")

	if err := s.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}

func TestRegistry_AddGetRemove(t *testing.T) {
	r := NewRegistry()
	s, _ := newTestSession("S1")

	r.Add(s)
	if got, ok := r.Get("S1"); !ok || got != s {
		t.Fatalf("Get(S1) = %v, %v", got, ok)
	}
	if r.Count() != 1 {
		t.Errorf("Count = %d, want 1", r.Count())
	}

	r.Remove("S1")
	if _, ok := r.Get("S1"); ok {
		t.Error("session still present after Remove")
	}
	if r.Count() != 0 {
		t.Errorf("Count = %d, want 0", r.Count())
	}
}

func TestRegistry_RemovePurgesTopics(t *testing.T) {
	r := NewRegistry()
	s, _ := newTestSession("S1")
	r.Add(s)
	r.Subscribe("system_stats", "S1")
	r.Subscribe("alerts", "S1")

	r.Remove("S1")

	for _, topic := range []string{"system_stats", "alerts"} {
		if subs := r.Subscribers(topic); len(subs) != 0 {
			t.Errorf("topic %s still has subscribers %v after Remove", topic, subs)
		}
	}
}

func TestRegistry_UnsubscribeIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Subscribe("alerts", "S1")

	if !r.Unsubscribe("alerts", "S1") {
		t.Error("first Unsubscribe = false, want true")
	}
	if r.Unsubscribe("alerts", "S1") {
		t.Error("repeat Unsubscribe = true, want false")
	}
	if r.Unsubscribe("unknown_topic", "S1") {
		t.Error("Unsubscribe from unknown topic = true, want false")
	}
}

func TestRegistry_SubscribersSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Subscribe("logs", "S1")
	r.Subscribe("logs", "S2")

	subs := r.Subscribers("logs")
	if len(subs) != 2 {
		t.Fatalf("Subscribers = %v, want 2 ids", subs)
	}

	// Mutating the snapshot must not affect the registry.
	subs[0] = "mutated"
	if len(r.Subscribers("logs")) != 2 {
		t.Error("snapshot mutation leaked into the registry")
	}
}

func TestRegistry_Prune(t *testing.T) {
	r := NewRegistry()
	s1, _ := newTestSession("S1")
	s2, _ := newTestSession("S2")
	r.Add(s1)
	r.Add(s2)
	r.Subscribe("alerts", "S1")
	r.Subscribe("alerts", "S2")

	r.Prune("alerts", []string{"S1"})

	if subs := r.Subscribers("alerts"); len(subs) != 1 || subs[0] != "S2" {
		t.Errorf("Subscribers = %v, want [S2]", subs)
	}
	if _, ok := r.Get("S1"); ok {
		t.Error("pruned session still in registry")
	}
	if _, ok := r.Get("S2"); !ok {
		t.Error("surviving session removed by prune")
	}
}
