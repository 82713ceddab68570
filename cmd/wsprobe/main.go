// wsprobe connects to a telemetryd server, optionally calls a method and
// subscribes to topics, then prints every message until interrupted.
// Usage: go run ./cmd/wsprobe -addr localhost:8765 -subscribe system_stats,alerts
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	addr := flag.String("addr", "localhost:8765", "server host:port")
	method := flag.String("method", "", "method to call once connected (e.g. get_system_stats)")
	params := flag.String("params", "", "JSON params object for the method call")
	topics := flag.String("subscribe", "", "comma-separated topics to subscribe to")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("interrupted")
		cancel()
	}()

	url := fmt.Sprintf("ws://%s/ws", *addr)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		logger.Error("dial failed", "url", url, "error", err)
		os.Exit(1)
	}
	defer conn.Close()
	logger.Info("connected", "url", url)

	id := 0
	send := func(method string, params json.RawMessage) {
		id++
		req := map[string]any{
			"jsonrpc": "2.0",
			"id":      id,
			"method":  method,
		}
		if params != nil {
			req["params"] = params
		}
		if err := conn.WriteJSON(req); err != nil {
			logger.Error("write failed", "method", method, "error", err)
			os.Exit(1)
		}
	}

	if *method != "" {
		var p json.RawMessage
		if *params != "" {
			p = json.RawMessage(*params)
		}
		send(*method, p)
	}
	for _, topic := range strings.Split(*topics, ",") {
		topic = strings.TrimSpace(topic)
		if topic != "" {
			send("subscribe_"+topic, nil)
		}
	}

	// Unblock the read loop on shutdown.
	go func() {
		<-ctx.Done()
		conn.SetReadDeadline(time.Now())
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("read failed", "error", err)
			}
			return
		}
		fmt.Println(string(data))
	}
}
