package broadcast

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"telemetryd/internal/session"
)

// fakeWire is an in-memory transport capturing broadcast frames.
type fakeWire struct {
	writes [][]byte
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

func (f *fakeWire) Close() error { return nil }

func addSession(r *session.Registry, id string) *fakeWire {
	w := &fakeWire{}
	r.Add(session.New(id, w, time.Second))
	return w
}

func TestPublish_ReachesSubscribers(t *testing.T) {
	reg := session.NewRegistry()
	w1 := addSession(reg, "S1")
	w2 := addSession(reg, "S2")
	reg.Subscribe("alerts", "S1")

	c := NewCoordinator(reg, nil)
	c.Publish("alerts", map[string]int{"count": 1})

	if len(w1.writes) != 1 {
		t.Fatalf("subscriber received %d frames, want 1", len(w1.writes))
	}
	if len(w2.writes) != 0 {
		t.Errorf("non-subscriber received %d frames, want 0", len(w2.writes))
	}

	var env map[string]any
	if err := json.Unmarshal(w1.writes[0], &env); err != nil {
		t.Fatalf("frame is not valid JSON: %v", err)
	}
	if env["method"] != "alerts" {
		t.Errorf("method = %v, want alerts", env["method"])
	}
	if _, hasID := env["id"]; hasID {
		t.Error("broadcast notification carries an id")
	}
}

func TestPublish_DeadSessionPruned(t *testing.T) {
	reg := session.NewRegistry()
	wDead := addSession(reg, "dead")
	wDead.err = errors.New("broken pipe")
	wLive := addSession(reg, "live")
	reg.Subscribe("system_stats", "dead")
	reg.Subscribe("system_stats", "live")

	c := NewCoordinator(reg, nil)
	c.Publish("system_stats", map[string]int{"cpu": 50})

	// Failure on one subscriber must not abort delivery to the rest.
	if len(wLive.writes) != 1 {
		t.Errorf("live subscriber received %d frames, want 1", len(wLive.writes))
	}

	subs := reg.Subscribers("system_stats")
	if len(subs) != 1 || subs[0] != "live" {
		t.Errorf("Subscribers = %v, want [live]", subs)
	}
	if _, ok := reg.Get("dead"); ok {
		t.Error("dead session still in registry after prune")
	}

	// Subsequent publishes must not reach the pruned session.
	c.Publish("system_stats", map[string]int{"cpu": 60})
	if len(wDead.writes) != 0 {
		t.Errorf("pruned session received %d frames, want 0", len(wDead.writes))
	}
}

func TestPublish_NoSubscribers(t *testing.T) {
	reg := session.NewRegistry()
	w := addSession(reg, "S1")

	c := NewCoordinator(reg, nil)
	c.Publish("logs", "payload")

	if len(w.writes) != 0 {
		t.Errorf("unsubscribed session received %d frames", len(w.writes))
	}
}

func TestPublish_OrderPreservedPerSubscriber(t *testing.T) {
	reg := session.NewRegistry()
	w := addSession(reg, "S1")
	reg.Subscribe("system_stats", "S1")

	c := NewCoordinator(reg, nil)
	for i := 0; i < 5; i++ {
		c.Publish("system_stats", map[string]int{"seq": i})
	}

	if len(w.writes) != 5 {
		t.Fatalf("received %d frames, want 5", len(w.writes))
	}
	for i, frame := range w.writes {
		var env struct {
			Params struct {
				Seq int `json:"seq"`
			} `json:"params"`
		}
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("frame %d invalid: %v", i, err)
		}
		if env.Params.Seq != i {
			t.Errorf("frame %d has seq %d, want %d", i, env.Params.Seq, i)
		}
	}
}
