// Package server hosts the WebSocket endpoint and routes each
// connection's messages through the RPC dispatcher. It also serves a
// health check and, optionally, static dashboard assets.
package server
