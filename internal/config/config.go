package config

import "time"

// Config is the root configuration for a telemetryd instance.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logs     LogsConfig     `yaml:"logs"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Alerts   AlertsConfig   `yaml:"alerts"`
}

// ServerConfig holds the HTTP/WebSocket listener settings.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	StaticDir       string        `yaml:"static_dir"` // optional dashboard assets
	PingInterval    time.Duration `yaml:"ping_interval"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds the optional Postgres connection for log retention.
// When Postgres.Host is empty the server runs with in-memory logs only.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// Enabled reports whether a database connection is configured.
func (db DBConfig) Enabled() bool {
	return db.Host != ""
}

// LogsConfig holds log storage and retention settings.
type LogsConfig struct {
	RetentionDays int           `yaml:"retention_days"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	SweepBackoff  time.Duration `yaml:"sweep_backoff"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	RecentLimit   int           `yaml:"recent_limit"`
}

// MonitorConfig holds stats sampling settings.
type MonitorConfig struct {
	StatsInterval time.Duration `yaml:"stats_interval"`
	ErrorBackoff  time.Duration `yaml:"error_backoff"`
	ProcessLimit  int           `yaml:"process_limit"`
}

// AlertsConfig holds resource usage thresholds in percent.
type AlertsConfig struct {
	CPU       float64 `yaml:"cpu"`
	Memory    float64 `yaml:"memory"`
	Disk      float64 `yaml:"disk"`
	GPUMemory float64 `yaml:"gpu_memory"`
}
