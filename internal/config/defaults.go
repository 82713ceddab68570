package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8765
	DefaultPingInterval    = 15 * time.Second
	DefaultReadTimeout     = 60 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultDBPort    = 5432
	DefaultDBSSLMode = "prefer"
	DefaultMaxConns  = 10
	DefaultMinConns  = 2

	DefaultRetentionDays = 7
	DefaultSweepInterval = 24 * time.Hour
	DefaultSweepBackoff  = 1 * time.Hour
	DefaultBatchSize     = 100
	DefaultFlushInterval = 1 * time.Second
	DefaultRecentLimit   = 1000

	DefaultStatsInterval = 2 * time.Second
	DefaultErrorBackoff  = 5 * time.Second
	DefaultProcessLimit  = 10

	DefaultCPUThreshold       = 80
	DefaultMemoryThreshold    = 90
	DefaultDiskThreshold      = 95
	DefaultGPUMemoryThreshold = 90
)

func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.PingInterval == 0 {
		c.Server.PingInterval = DefaultPingInterval
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Database defaults
	applyDBDefaults(&c.Database.Postgres)

	// Log storage defaults
	if c.Logs.RetentionDays == 0 {
		c.Logs.RetentionDays = DefaultRetentionDays
	}
	if c.Logs.SweepInterval == 0 {
		c.Logs.SweepInterval = DefaultSweepInterval
	}
	if c.Logs.SweepBackoff == 0 {
		c.Logs.SweepBackoff = DefaultSweepBackoff
	}
	if c.Logs.BatchSize == 0 {
		c.Logs.BatchSize = DefaultBatchSize
	}
	if c.Logs.FlushInterval == 0 {
		c.Logs.FlushInterval = DefaultFlushInterval
	}
	if c.Logs.RecentLimit == 0 {
		c.Logs.RecentLimit = DefaultRecentLimit
	}

	// Monitor defaults
	if c.Monitor.StatsInterval == 0 {
		c.Monitor.StatsInterval = DefaultStatsInterval
	}
	if c.Monitor.ErrorBackoff == 0 {
		c.Monitor.ErrorBackoff = DefaultErrorBackoff
	}
	if c.Monitor.ProcessLimit == 0 {
		c.Monitor.ProcessLimit = DefaultProcessLimit
	}

	// Alert thresholds
	if c.Alerts.CPU == 0 {
		c.Alerts.CPU = DefaultCPUThreshold
	}
	if c.Alerts.Memory == 0 {
		c.Alerts.Memory = DefaultMemoryThreshold
	}
	if c.Alerts.Disk == 0 {
		c.Alerts.Disk = DefaultDiskThreshold
	}
	if c.Alerts.GPUMemory == 0 {
		c.Alerts.GPUMemory = DefaultGPUMemoryThreshold
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
