package producer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"telemetryd/internal/logstore"
	"telemetryd/internal/monitor"
)

// Topics fed by the sampler.
const (
	TopicSystemStats = "system_stats"
	TopicAlerts      = "alerts"
)

// Publisher pushes a payload to every subscriber of a topic.
type Publisher interface {
	Publish(topic string, payload any)
}

// Snapshotter provides system stats snapshots.
type Snapshotter interface {
	Snapshot(ctx context.Context) (monitor.StatsSnapshot, error)
}

// SamplerConfig holds sampler timing and thresholds.
type SamplerConfig struct {
	Interval     time.Duration // time between snapshots (default: 2s)
	ErrorBackoff time.Duration // pause after a failed snapshot (default: 5s)
	Thresholds   Thresholds
}

// DefaultSamplerConfig returns sensible defaults.
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		Interval:     2 * time.Second,
		ErrorBackoff: 5 * time.Second,
		Thresholds:   DefaultThresholds(),
	}
}

// Sampler periodically snapshots system stats, publishes them on the
// system_stats topic, and raises threshold alerts on the alerts topic.
type Sampler struct {
	cfg    SamplerConfig
	mon    Snapshotter
	pub    Publisher
	logs   logstore.Store
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSampler creates a Sampler.
func NewSampler(cfg SamplerConfig, mon Snapshotter, pub Publisher, logs logstore.Store, logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = 5 * time.Second
	}
	return &Sampler{
		cfg:    cfg,
		mon:    mon,
		pub:    pub,
		logs:   logs,
		logger: logger,
	}
}

// Start begins the sampling loop.
func (s *Sampler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("stats sampler started", "interval", s.cfg.Interval)
	return nil
}

// Stop gracefully shuts down the sampler.
func (s *Sampler) Stop(ctx context.Context) error {
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
		s.logger.Info("stats sampler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sampler) run() {
	defer s.wg.Done()

	for {
		delay := s.cfg.Interval
		if err := s.sample(); err != nil {
			s.logger.Error("stats sample failed", "error", err)
			delay = s.cfg.ErrorBackoff
		}

		select {
		case <-s.ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

func (s *Sampler) sample() error {
	snap, err := s.mon.Snapshot(s.ctx)
	if err != nil {
		return err
	}

	s.pub.Publish(TopicSystemStats, snap)

	alerts := s.cfg.Thresholds.Evaluate(snap)
	if len(alerts) > 0 {
		s.pub.Publish(TopicAlerts, map[string]any{
			"alerts":    alerts,
			"count":     len(alerts),
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}

	logstore.RecordStats(s.ctx, s.logs, snap, s.cfg.Interval)
	return nil
}
