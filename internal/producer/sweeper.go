package producer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"telemetryd/internal/logstore"
)

// SweeperConfig holds retention sweep timing.
type SweeperConfig struct {
	RetentionDays int           // entries older than this are deleted (default: 7)
	Interval      time.Duration // time between sweeps (default: 24h)
	ErrorBackoff  time.Duration // retry delay after a failed sweep (default: 1h)
}

// DefaultSweeperConfig returns sensible defaults.
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		RetentionDays: 7,
		Interval:      24 * time.Hour,
		ErrorBackoff:  1 * time.Hour,
	}
}

// Sweeper periodically deletes log entries past the retention window.
type Sweeper struct {
	cfg    SweeperConfig
	logs   logstore.Store
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSweeper creates a Sweeper.
func NewSweeper(cfg SweeperConfig, logs logstore.Store, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 7
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = 1 * time.Hour
	}
	return &Sweeper{
		cfg:    cfg,
		logs:   logs,
		logger: logger,
	}
}

// Start begins the sweep loop. The first sweep runs after one full
// interval.
func (s *Sweeper) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("retention sweeper started",
		"retention_days", s.cfg.RetentionDays,
		"interval", s.cfg.Interval,
	)
	return nil
}

// Stop gracefully shuts down the sweeper.
func (s *Sweeper) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("retention sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	delay := s.cfg.Interval
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-time.After(delay):
		}

		removed, err := s.logs.PurgeOlderThan(s.ctx, s.cfg.RetentionDays)
		if err != nil {
			s.logger.Error("retention sweep failed", "error", err)
			delay = s.cfg.ErrorBackoff
			continue
		}
		s.logger.Info("retention sweep complete", "removed", removed)
		delay = s.cfg.Interval
	}
}
