package logstore

import (
	"context"
	"sync"
	"time"
)

// DefaultRecentLimit bounds the in-memory ring when no limit is configured.
const DefaultRecentLimit = 1000

// Memory keeps the most recent entries in a bounded ring. It is the
// fallback store when no database is configured and the recent-entry
// cache in front of the Postgres store.
type Memory struct {
	mu      sync.RWMutex
	entries []Entry
	limit   int

	notify func(Entry)
}

// NewMemory creates a ring holding up to limit entries. A non-positive
// limit uses DefaultRecentLimit. notify, if non-nil, is invoked for every
// recorded entry after it is stored.
func NewMemory(limit int, notify func(Entry)) *Memory {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &Memory{
		entries: make([]Entry, 0, limit),
		limit:   limit,
		notify:  notify,
	}
}

func (m *Memory) Record(ctx context.Context, level, message, component string) {
	e := Entry{
		Timestamp: time.Now(),
		Level:     level,
		Component: component,
		Message:   message,
	}
	m.add(e)
	if m.notify != nil {
		m.notify(e)
	}
}

func (m *Memory) add(e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	if len(m.entries) > m.limit {
		m.entries = m.entries[len(m.entries)-m.limit:]
	}
}

func (m *Memory) Query(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	var cutoff time.Time
	if opts.HoursBack > 0 {
		cutoff = time.Now().Add(-time.Duration(opts.HoursBack) * time.Hour)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if matches(m.entries[i], opts, cutoff) {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func (m *Memory) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	m.mu.Lock()
	defer m.mu.Unlock()

	// Entries are appended in time order, so find the first one to keep.
	keep := len(m.entries)
	for i, e := range m.entries {
		if !e.Timestamp.Before(cutoff) {
			keep = i
			break
		}
	}
	removed := int64(keep)
	if keep > 0 {
		m.entries = append(m.entries[:0], m.entries[keep:]...)
	}
	return removed, nil
}
