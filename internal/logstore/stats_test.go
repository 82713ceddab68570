package logstore

import (
	"context"
	"strings"
	"testing"
	"time"

	"telemetryd/internal/monitor"
)

func TestRecordStatsThresholds(t *testing.T) {
	m := NewMemory(50, nil)
	snap := monitor.StatsSnapshot{
		CPU: monitor.CPUStats{Percent: 92.5},
		Memory: monitor.MemoryStats{
			Virtual: monitor.VirtualMemory{Percent: 95.0},
		},
		Disk: []monitor.DiskStats{
			{Mountpoint: "/", Percent: 97.0},
			{Mountpoint: "/data", Percent: 40.0},
		},
		GPU: []monitor.GPUStat{
			{Name: "NVIDIA GeForce RTX 3080", Memory: monitor.GPUMemory{Percent: 94.0}},
		},
	}

	RecordStats(context.Background(), m, snap, 2*time.Second)

	entries, _ := m.Query(context.Background(), QueryOptions{})
	warnings := 0
	errors := 0
	for _, e := range entries {
		switch e.Level {
		case LevelWarning:
			warnings++
		case LevelError:
			errors++
		}
		if e.Component != statsComponent {
			t.Errorf("unexpected component %q", e.Component)
		}
	}
	if warnings != 3 {
		t.Errorf("expected 3 warnings (cpu, memory, gpu), got %d", warnings)
	}
	if errors != 1 {
		t.Errorf("expected 1 error (disk), got %d", errors)
	}
}

func TestRecordStatsQuiet(t *testing.T) {
	m := NewMemory(50, nil)
	snap := monitor.StatsSnapshot{
		CPU:    monitor.CPUStats{Percent: 10.0},
		Memory: monitor.MemoryStats{Virtual: monitor.VirtualMemory{Percent: 40.0}},
		Disk:   []monitor.DiskStats{{Mountpoint: "/", Percent: 50.0}},
	}

	RecordStats(context.Background(), m, snap, 2*time.Second)

	entries, _ := m.Query(context.Background(), QueryOptions{Level: LevelWarning})
	if len(entries) != 0 {
		t.Errorf("expected no warnings, got %d", len(entries))
	}
	entries, _ = m.Query(context.Background(), QueryOptions{Level: LevelError})
	if len(entries) != 0 {
		t.Errorf("expected no errors, got %d", len(entries))
	}
}

func TestRecordStatsDiskMessage(t *testing.T) {
	m := NewMemory(50, nil)
	snap := monitor.StatsSnapshot{
		Disk: []monitor.DiskStats{{Mountpoint: "/var", Percent: 96.5}},
	}

	RecordStats(context.Background(), m, snap, 2*time.Second)

	entries, _ := m.Query(context.Background(), QueryOptions{Level: LevelError})
	if len(entries) != 1 {
		t.Fatalf("expected 1 error entry, got %d", len(entries))
	}
	if !strings.Contains(entries[0].Message, "/var") {
		t.Errorf("expected mountpoint in message, got %q", entries[0].Message)
	}
}

func TestSummaryDue(t *testing.T) {
	base := time.Unix(1_700_000_100, 0) // multiple of 300

	if !summaryDue(base, 2*time.Second) {
		t.Error("expected summary at boundary")
	}
	if !summaryDue(base.Add(1*time.Second), 2*time.Second) {
		t.Error("expected summary one second past boundary")
	}
	if summaryDue(base.Add(2*time.Second), 2*time.Second) {
		t.Error("did not expect summary outside window")
	}
	if summaryDue(base.Add(150*time.Second), 2*time.Second) {
		t.Error("did not expect summary mid-cycle")
	}
}
