package server

import (
	"context"
	"time"

	"telemetryd/internal/logstore"
	"telemetryd/internal/monitor"
	"telemetryd/internal/producer"
	"telemetryd/internal/protocol"
	"telemetryd/internal/rpc"
	"telemetryd/internal/session"
	"telemetryd/internal/version"
)

// ServerName identifies this server in ping and get_server_info results.
const ServerName = "telemetryd"

// Caps on client-supplied query sizes.
const (
	maxProcessLimit = 50
	maxLogLimit     = 500
)

// Metrics is the slice of the system monitor the RPC methods need.
type Metrics interface {
	Snapshot(ctx context.Context) (monitor.StatsSnapshot, error)
	TopProcesses(ctx context.Context, limit int, sortBy string) []monitor.ProcessInfo
	Start() time.Time
}

// TopicLogs is the topic fed by new log entries.
const TopicLogs = "logs"

// RegisterMethods installs the RPC methods and topics on the registry.
// processLimit is the default number of processes get_processes returns
// when the client omits the limit param.
func RegisterMethods(reg *rpc.Registry, mon Metrics, logs logstore.Store, sessions *session.Registry, processLimit int) {
	if processLimit < 1 {
		processLimit = 10
	}
	reg.RegisterTopic(producer.TopicSystemStats)
	reg.RegisterTopic(TopicLogs)
	reg.RegisterTopic(producer.TopicAlerts)

	reg.Register("get_system_stats", rpc.Method{
		Handler: func(ctx context.Context, args rpc.Args) (any, error) {
			snap, err := mon.Snapshot(ctx)
			if err != nil {
				return nil, protocol.NewInternalError(err.Error())
			}
			logstore.RecordStats(ctx, logs, snap, 0)
			return snap, nil
		},
	})

	reg.Register("get_processes", rpc.Method{
		Params: []string{"limit", "sort_by"},
		Handler: func(ctx context.Context, args rpc.Args) (any, error) {
			limit, err := args.Int("limit", processLimit)
			if err != nil {
				return nil, err
			}
			if limit < 1 {
				limit = 1
			}
			if limit > maxProcessLimit {
				limit = maxProcessLimit
			}
			sortBy, err := args.String("sort_by", monitor.SortByCPU)
			if err != nil {
				return nil, err
			}
			if sortBy != monitor.SortByCPU && sortBy != monitor.SortByMemory {
				return nil, protocol.NewInvalidParams("sort_by must be \"cpu\" or \"memory\"")
			}

			procs := mon.TopProcesses(ctx, limit, sortBy)
			return map[string]any{
				"processes": procs,
				"count":     len(procs),
				"sort_by":   sortBy,
				"timestamp": time.Now().Format(time.RFC3339),
			}, nil
		},
	})

	reg.Register("get_logs", rpc.Method{
		Params: []string{"limit", "level_filter", "search_term", "hours_back"},
		Handler: func(ctx context.Context, args rpc.Args) (any, error) {
			limit, err := args.Int("limit", 100)
			if err != nil {
				return nil, err
			}
			if limit < 1 {
				limit = 1
			}
			if limit > maxLogLimit {
				limit = maxLogLimit
			}
			level, err := args.String("level_filter", "")
			if err != nil {
				return nil, err
			}
			search, err := args.String("search_term", "")
			if err != nil {
				return nil, err
			}
			hoursBack, err := args.Int("hours_back", 24)
			if err != nil {
				return nil, err
			}

			entries, err := logs.Query(ctx, logstore.QueryOptions{
				Limit:     limit,
				Level:     level,
				Search:    search,
				HoursBack: hoursBack,
			})
			if err != nil {
				return nil, protocol.NewInternalError(err.Error())
			}
			return map[string]any{
				"logs":  entries,
				"count": len(entries),
				"filters": map[string]any{
					"level":      level,
					"search":     search,
					"hours_back": hoursBack,
				},
				"timestamp": time.Now().Format(time.RFC3339),
			}, nil
		},
	})

	reg.Register("ping", rpc.Method{
		Handler: func(ctx context.Context, args rpc.Args) (any, error) {
			return map[string]any{
				"status":    "ok",
				"timestamp": time.Now().Format(time.RFC3339),
				"server":    ServerName,
			}, nil
		},
	})

	reg.Register("get_server_info", rpc.Method{
		Handler: func(ctx context.Context, args rpc.Args) (any, error) {
			return map[string]any{
				"name":                    ServerName,
				"version":                 version.Version,
				"protocol":                "JSON-RPC 2.0",
				"transport":               "WebSocket",
				"uptime":                  time.Since(mon.Start()).Seconds(),
				"connected_clients":       sessions.Count(),
				"available_methods":       reg.MethodNames(),
				"available_subscriptions": reg.TopicNames(),
				"timestamp":               time.Now().Format(time.RFC3339),
			}, nil
		},
	})
}
