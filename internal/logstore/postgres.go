package logstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS log_records (
	id        BIGSERIAL PRIMARY KEY,
	ts        TIMESTAMPTZ NOT NULL,
	level     TEXT NOT NULL,
	component TEXT NOT NULL,
	message   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS log_records_ts_idx ON log_records (ts);
`

// BatchConfig controls how entries are accumulated before hitting the
// database.
type BatchConfig struct {
	BatchSize     int
	FlushInterval time.Duration
}

// Postgres persists entries to a log_records table, batching inserts to
// keep database round trips off the record path. The recent ring keeps
// serving queries when the database is unreachable.
type Postgres struct {
	cfg    BatchConfig
	db     *pgxpool.Pool
	recent *Memory
	logger *slog.Logger

	batch       []Entry
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPostgres creates a Postgres store backed by db, with recent as the
// in-memory cache of the latest entries.
func NewPostgres(cfg BatchConfig, db *pgxpool.Pool, recent *Memory, logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}
	return &Postgres{
		cfg:    cfg,
		db:     db,
		recent: recent,
		logger: logger,
		batch:  make([]Entry, 0, cfg.BatchSize),
	}
}

// EnsureSchema creates the log_records table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("creating log_records schema: %w", err)
	}
	return nil
}

// Start begins the periodic flush loop.
func (p *Postgres) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.flushTicker = time.NewTicker(p.cfg.FlushInterval)

	p.wg.Add(1)
	go p.flushLoop()

	p.logger.Info("log writer started",
		"batch_size", p.cfg.BatchSize,
		"flush_interval", p.cfg.FlushInterval,
	)
	return nil
}

// Stop drains the flush loop and writes any remaining batch.
func (p *Postgres) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	if p.flushTicker != nil {
		p.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		p.logger.Warn("log writer stop timed out")
	}

	p.flush(context.Background())
	p.logger.Info("log writer stopped")
	return nil
}

func (p *Postgres) Record(ctx context.Context, level, message, component string) {
	e := Entry{
		Timestamp: time.Now(),
		Level:     level,
		Component: component,
		Message:   message,
	}
	p.recent.add(e)
	if p.recent.notify != nil {
		p.recent.notify(e)
	}

	p.batchMu.Lock()
	p.batch = append(p.batch, e)
	shouldFlush := len(p.batch) >= p.cfg.BatchSize
	p.batchMu.Unlock()

	if shouldFlush {
		p.flush(ctx)
	}
}

func (p *Postgres) flushLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-p.flushTicker.C:
			p.flush(p.ctx)
		}
	}
}

func (p *Postgres) flush(ctx context.Context) {
	p.batchMu.Lock()
	if len(p.batch) == 0 {
		p.batchMu.Unlock()
		return
	}
	batch := p.batch
	p.batch = make([]Entry, 0, p.cfg.BatchSize)
	p.batchMu.Unlock()

	start := time.Now()
	if err := p.batchInsert(ctx, batch); err != nil {
		p.logger.Error("log batch insert failed", "error", err, "count", len(batch))
		return
	}

	p.logger.Debug("flushed log entries",
		"count", len(batch),
		"duration", time.Since(start),
	)
}

func (p *Postgres) batchInsert(ctx context.Context, entries []Entry) error {
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(`
			INSERT INTO log_records (ts, level, component, message)
			VALUES ($1, $2, $3, $4)
		`, e.Timestamp, e.Level, e.Component, e.Message)
	}

	results := p.db.SendBatch(ctx, batch)
	defer results.Close()

	for range entries {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// Query reads from the database, falling back to the recent ring when the
// query fails. The pending batch is flushed first so results include
// entries recorded this instant.
func (p *Postgres) Query(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	p.flush(ctx)

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	sql := `SELECT ts, level, component, message FROM log_records WHERE TRUE`
	args := make([]any, 0, 4)
	n := 0
	if opts.Level != "" {
		n++
		sql += fmt.Sprintf(" AND LOWER(level) = LOWER($%d)", n)
		args = append(args, opts.Level)
	}
	if opts.Search != "" {
		n++
		sql += fmt.Sprintf(" AND message ILIKE $%d", n)
		args = append(args, "%"+opts.Search+"%")
	}
	if opts.HoursBack > 0 {
		n++
		sql += fmt.Sprintf(" AND ts >= $%d", n)
		args = append(args, time.Now().Add(-time.Duration(opts.HoursBack)*time.Hour))
	}
	n++
	sql += fmt.Sprintf(" ORDER BY ts DESC LIMIT $%d", n)
	args = append(args, limit)

	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		p.logger.Warn("log query failed, serving recent entries", "error", err)
		return p.recent.Query(ctx, opts)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Timestamp, &e.Level, &e.Component, &e.Message); err != nil {
			return nil, fmt.Errorf("scanning log row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading log rows: %w", err)
	}
	return out, nil
}

// PurgeOlderThan deletes rows past the retention window from both the
// database and the recent ring.
func (p *Postgres) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	tag, err := p.db.Exec(ctx, `DELETE FROM log_records WHERE ts < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging log_records: %w", err)
	}

	if _, err := p.recent.PurgeOlderThan(ctx, days); err != nil {
		return tag.RowsAffected(), err
	}
	return tag.RowsAffected(), nil
}
