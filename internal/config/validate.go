package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Database.Postgres.Enabled() {
		if err := c.Database.Postgres.validate("database.postgres"); err != nil {
			return err
		}
	}

	if c.Logs.RetentionDays < 1 {
		return errors.New("logs.retention_days must be >= 1")
	}
	if c.Logs.BatchSize < 1 {
		return errors.New("logs.batch_size must be >= 1")
	}
	if c.Logs.RecentLimit < 1 {
		return errors.New("logs.recent_limit must be >= 1")
	}

	if c.Monitor.StatsInterval <= 0 {
		return errors.New("monitor.stats_interval must be > 0")
	}
	if c.Monitor.ProcessLimit < 1 {
		return errors.New("monitor.process_limit must be >= 1")
	}

	for name, v := range map[string]float64{
		"alerts.cpu":        c.Alerts.CPU,
		"alerts.memory":     c.Alerts.Memory,
		"alerts.disk":       c.Alerts.Disk,
		"alerts.gpu_memory": c.Alerts.GPUMemory,
	} {
		if v <= 0 || v > 100 {
			return fmt.Errorf("%s must be between 0 and 100, got %v", name, v)
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns must be <= max_conns", prefix)
	}
	return nil
}
