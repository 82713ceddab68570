package logstore

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryRecordAndQuery(t *testing.T) {
	m := NewMemory(10, nil)
	ctx := context.Background()

	m.Record(ctx, LevelInfo, "server started", "server")
	m.Record(ctx, LevelWarning, "High CPU usage: 85.0%", "monitor")
	m.Record(ctx, LevelError, "batch insert failed", "logstore")

	entries, err := m.Query(ctx, QueryOptions{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// Newest first.
	if entries[0].Message != "batch insert failed" {
		t.Errorf("expected newest entry first, got %q", entries[0].Message)
	}
	if entries[2].Message != "server started" {
		t.Errorf("expected oldest entry last, got %q", entries[2].Message)
	}
}

func TestMemoryQueryFilters(t *testing.T) {
	m := NewMemory(10, nil)
	ctx := context.Background()

	m.Record(ctx, LevelInfo, "server started", "server")
	m.Record(ctx, LevelWarning, "High CPU usage: 85.0%", "monitor")
	m.Record(ctx, LevelWarning, "High memory usage: 92.0%", "monitor")

	entries, _ := m.Query(ctx, QueryOptions{Level: LevelWarning})
	if len(entries) != 2 {
		t.Errorf("expected 2 warning entries, got %d", len(entries))
	}

	entries, _ = m.Query(ctx, QueryOptions{Search: "cpu"})
	if len(entries) != 1 {
		t.Fatalf("expected 1 matching entry, got %d", len(entries))
	}
	if entries[0].Message != "High CPU usage: 85.0%" {
		t.Errorf("unexpected entry %q", entries[0].Message)
	}

	entries, _ = m.Query(ctx, QueryOptions{Limit: 1})
	if len(entries) != 1 {
		t.Errorf("expected limit to cap results, got %d", len(entries))
	}
}

func TestMemoryRingBound(t *testing.T) {
	m := NewMemory(5, nil)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		m.Record(ctx, LevelInfo, fmt.Sprintf("entry %d", i), "test")
	}

	entries, _ := m.Query(ctx, QueryOptions{})
	if len(entries) != 5 {
		t.Fatalf("expected ring to hold 5 entries, got %d", len(entries))
	}
	if entries[0].Message != "entry 11" {
		t.Errorf("expected newest entry first, got %q", entries[0].Message)
	}
	if entries[4].Message != "entry 7" {
		t.Errorf("expected oldest surviving entry last, got %q", entries[4].Message)
	}
}

func TestMemoryNotify(t *testing.T) {
	var got []Entry
	m := NewMemory(10, func(e Entry) { got = append(got, e) })

	m.Record(context.Background(), LevelInfo, "hello", "test")

	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	if got[0].Message != "hello" || got[0].Level != LevelInfo {
		t.Errorf("unexpected notification %+v", got[0])
	}
}

func TestMemoryPurgeOlderThan(t *testing.T) {
	m := NewMemory(10, nil)
	now := time.Now()

	m.add(Entry{Timestamp: now.AddDate(0, 0, -10), Level: LevelInfo, Message: "old"})
	m.add(Entry{Timestamp: now.AddDate(0, 0, -8), Level: LevelInfo, Message: "also old"})
	m.add(Entry{Timestamp: now, Level: LevelInfo, Message: "fresh"})

	removed, err := m.PurgeOlderThan(context.Background(), 7)
	if err != nil {
		t.Fatalf("PurgeOlderThan returned error: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}

	entries, _ := m.Query(context.Background(), QueryOptions{})
	if len(entries) != 1 || entries[0].Message != "fresh" {
		t.Errorf("unexpected surviving entries %+v", entries)
	}
}
