package producer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"telemetryd/internal/logstore"
	"telemetryd/internal/monitor"
)

type fakeSnapshotter struct {
	mu    sync.Mutex
	snap  monitor.StatsSnapshot
	err   error
	calls int
}

func (f *fakeSnapshotter) Snapshot(ctx context.Context) (monitor.StatsSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.snap, f.err
}

func (f *fakeSnapshotter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type publishEvent struct {
	topic   string
	payload any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishEvent
}

func (f *fakePublisher) Publish(topic string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishEvent{topic: topic, payload: payload})
}

func (f *fakePublisher) byTopic(topic string) []publishEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []publishEvent
	for _, e := range f.events {
		if e.topic == topic {
			out = append(out, e)
		}
	}
	return out
}

func TestSamplerPublishesStats(t *testing.T) {
	mon := &fakeSnapshotter{
		snap: monitor.StatsSnapshot{CPU: monitor.CPUStats{Percent: 12}},
	}
	pub := &fakePublisher{}
	logs := logstore.NewMemory(10, nil)

	cfg := DefaultSamplerConfig()
	cfg.Interval = 10 * time.Millisecond
	s := NewSampler(cfg, mon, pub, logs, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	stats := pub.byTopic(TopicSystemStats)
	if len(stats) < 2 {
		t.Errorf("expected at least 2 stats publishes, got %d", len(stats))
	}
	if len(pub.byTopic(TopicAlerts)) != 0 {
		t.Error("expected no alerts for a quiet system")
	}
}

func TestSamplerPublishesAlerts(t *testing.T) {
	mon := &fakeSnapshotter{
		snap: monitor.StatsSnapshot{CPU: monitor.CPUStats{Percent: 97}},
	}
	pub := &fakePublisher{}
	logs := logstore.NewMemory(10, nil)

	cfg := DefaultSamplerConfig()
	cfg.Interval = 10 * time.Millisecond
	s := NewSampler(cfg, mon, pub, logs, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	alerts := pub.byTopic(TopicAlerts)
	if len(alerts) == 0 {
		t.Fatal("expected alert publishes for a hot CPU")
	}
	payload, ok := alerts[0].payload.(map[string]any)
	if !ok {
		t.Fatalf("unexpected payload type %T", alerts[0].payload)
	}
	if payload["count"] != 1 {
		t.Errorf("count = %v, want 1", payload["count"])
	}

	// Threshold breach is also logged.
	entries, _ := logs.Query(context.Background(), logstore.QueryOptions{Level: logstore.LevelWarning})
	if len(entries) == 0 {
		t.Error("expected warning log entries for a hot CPU")
	}
}

func TestSamplerErrorBackoff(t *testing.T) {
	mon := &fakeSnapshotter{err: errors.New("collector down")}
	pub := &fakePublisher{}
	logs := logstore.NewMemory(10, nil)

	cfg := SamplerConfig{
		Interval:     5 * time.Millisecond,
		ErrorBackoff: time.Hour,
		Thresholds:   DefaultThresholds(),
	}
	s := NewSampler(cfg, mon, pub, logs, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	// First sample fails immediately, then the backoff holds further tries.
	if got := mon.callCount(); got != 1 {
		t.Errorf("expected 1 snapshot attempt before backoff, got %d", got)
	}
	if len(pub.byTopic(TopicSystemStats)) != 0 {
		t.Error("expected no publishes when snapshots fail")
	}
}

type purgeRecorder struct {
	logstore.Store
	mu   sync.Mutex
	days []int
}

func (p *purgeRecorder) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.days = append(p.days, days)
	return 3, nil
}

func TestSweeperPurges(t *testing.T) {
	rec := &purgeRecorder{Store: logstore.NewMemory(10, nil)}
	cfg := SweeperConfig{
		RetentionDays: 7,
		Interval:      10 * time.Millisecond,
		ErrorBackoff:  time.Hour,
	}
	s := NewSweeper(cfg, rec, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.days) == 0 {
		t.Fatal("expected at least one sweep")
	}
	for _, d := range rec.days {
		if d != 7 {
			t.Errorf("sweep used %d days, want 7", d)
		}
	}
}
