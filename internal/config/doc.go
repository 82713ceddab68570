// Package config defines the telemetryd configuration schema and loads it
// from YAML with environment variable expansion, defaults, and validation.
package config
