// telemetryd serves real-time system telemetry over WebSocket using
// JSON-RPC 2.0. Clients call methods for on-demand stats and subscribe
// to topics for pushed updates.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"telemetryd/internal/broadcast"
	"telemetryd/internal/config"
	"telemetryd/internal/database"
	"telemetryd/internal/logstore"
	"telemetryd/internal/monitor"
	"telemetryd/internal/producer"
	"telemetryd/internal/rpc"
	"telemetryd/internal/server"
	"telemetryd/internal/session"
	"telemetryd/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply when empty)")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting telemetryd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	var cfg *config.Config
	if *configPath != "" {
		loaded, err := config.LoadAndValidate(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Session registry and broadcast path
	sessions := session.NewRegistry()
	coordinator := broadcast.NewCoordinator(sessions, logger)

	// Log store: memory ring, plus Postgres retention when configured
	recent := logstore.NewMemory(cfg.Logs.RecentLimit, func(e logstore.Entry) {
		coordinator.Publish(server.TopicLogs, e)
	})

	var logs logstore.Store = recent
	var pool *pgxpool.Pool
	if cfg.Database.Postgres.Enabled() {
		logger.Info("connecting to database",
			"host", cfg.Database.Postgres.Host,
			"port", cfg.Database.Postgres.Port,
			"database", cfg.Database.Postgres.Name,
		)
		p, err := database.Connect(ctx, cfg.Database.Postgres)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		pool = p
		defer pool.Close()

		pg := logstore.NewPostgres(logstore.BatchConfig{
			BatchSize:     cfg.Logs.BatchSize,
			FlushInterval: cfg.Logs.FlushInterval,
		}, pool, recent, logger)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Error("failed to prepare schema", "error", err)
			os.Exit(1)
		}
		if err := pg.Start(ctx); err != nil {
			logger.Error("failed to start log writer", "error", err)
			os.Exit(1)
		}
		defer stopComponent(pg.Stop, cfg.Server.ShutdownTimeout, logger, "log writer")
		logs = pg
		logger.Info("database connected")
	} else {
		logger.Info("no database configured, logs are in-memory only")
	}

	// System monitor, with GPU stats when nvidia-smi is present
	var gpu monitor.GPUSource
	if nv := monitor.DetectNVSMI(); nv != nil {
		logger.Info("gpu monitoring enabled")
		gpu = nv
	}
	mon := monitor.New(gpu, logger)

	// RPC surface
	registry := rpc.NewRegistry()
	server.RegisterMethods(registry, mon, logs, sessions, cfg.Monitor.ProcessLimit)
	dispatcher := rpc.NewDispatcher(registry, sessions, logger)

	// Background producers
	sampler := producer.NewSampler(producer.SamplerConfig{
		Interval:     cfg.Monitor.StatsInterval,
		ErrorBackoff: cfg.Monitor.ErrorBackoff,
		Thresholds: producer.Thresholds{
			CPU:       cfg.Alerts.CPU,
			Memory:    cfg.Alerts.Memory,
			Disk:      cfg.Alerts.Disk,
			GPUMemory: cfg.Alerts.GPUMemory,
		},
	}, mon, coordinator, logs, logger)
	if err := sampler.Start(ctx); err != nil {
		logger.Error("failed to start sampler", "error", err)
		os.Exit(1)
	}
	defer stopComponent(sampler.Stop, cfg.Server.ShutdownTimeout, logger, "sampler")

	sweeper := producer.NewSweeper(producer.SweeperConfig{
		RetentionDays: cfg.Logs.RetentionDays,
		Interval:      cfg.Logs.SweepInterval,
		ErrorBackoff:  cfg.Logs.SweepBackoff,
	}, logs, logger)
	if err := sweeper.Start(ctx); err != nil {
		logger.Error("failed to start sweeper", "error", err)
		os.Exit(1)
	}
	defer stopComponent(sweeper.Stop, cfg.Server.ShutdownTimeout, logger, "sweeper")

	// WebSocket server
	srv := server.New(cfg.Server, sessions, dispatcher, logger)
	if err := srv.Start(ctx); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
	defer stopComponent(srv.Stop, cfg.Server.ShutdownTimeout, logger, "server")

	logs.Record(ctx, logstore.LevelInfo, "telemetryd started", "server")

	<-ctx.Done()
	logger.Info("shutting down")
}

func stopComponent(stop func(context.Context) error, timeout time.Duration, logger *slog.Logger, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := stop(ctx); err != nil {
		logger.Warn("component stop failed", "component", name, "error", err)
	}
}
