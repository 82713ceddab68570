// Package producer runs the background loops that feed subscribed
// clients: a sampler that collects system stats and evaluates alert
// thresholds, and a sweeper that enforces log retention.
package producer
