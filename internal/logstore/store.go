package logstore

import (
	"context"
	"strings"
	"time"
)

// Log levels used by Record.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Entry is one recorded log line.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Component string    `json:"component"`
	Message   string    `json:"message"`
}

// QueryOptions filters a log query. Zero values mean no filter; Limit <= 0
// falls back to the store's default.
type QueryOptions struct {
	Limit     int
	Level     string
	Search    string
	HoursBack int
}

// Store records log entries and serves queries over them.
type Store interface {
	// Record stores a new entry stamped with the current time.
	Record(ctx context.Context, level, message, component string)

	// Query returns matching entries, newest first.
	Query(ctx context.Context, opts QueryOptions) ([]Entry, error)

	// PurgeOlderThan deletes entries older than the given number of days
	// and reports how many were removed.
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
}

func matches(e Entry, opts QueryOptions, cutoff time.Time) bool {
	if opts.Level != "" && !strings.EqualFold(e.Level, opts.Level) {
		return false
	}
	if !cutoff.IsZero() && e.Timestamp.Before(cutoff) {
		return false
	}
	if opts.Search != "" && !containsFold(e.Message, opts.Search) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
