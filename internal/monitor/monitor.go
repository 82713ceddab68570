package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Monitor collects system statistics. Safe for concurrent use: all state
// besides the start time lives in the OS.
type Monitor struct {
	start  time.Time
	gpu    GPUSource
	logger *slog.Logger
}

// New creates a Monitor. gpu may be nil when no GPU source is available.
func New(gpu GPUSource, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		start:  time.Now(),
		gpu:    gpu,
		logger: logger,
	}
}

// Start returns the monitor's creation time, used as the uptime epoch.
func (m *Monitor) Start() time.Time {
	return m.start
}

// Snapshot collects one full stats snapshot. Partial collector failures
// leave the affected section zeroed rather than failing the snapshot.
func (m *Monitor) Snapshot(ctx context.Context) (StatsSnapshot, error) {
	snap := StatsSnapshot{
		Timestamp: time.Now().Format(time.RFC3339),
		CPU:       m.cpuStats(ctx),
		Memory:    m.memoryStats(ctx),
		Disk:      m.diskStats(ctx),
		System:    m.systemInfo(ctx),
		Uptime:    time.Since(m.start).Seconds(),
	}

	if m.gpu != nil {
		gpus, err := m.gpu.Stats(ctx)
		if err != nil {
			m.logger.Debug("gpu stats unavailable", "error", err)
		} else {
			snap.GPU = gpus
		}
	}

	return snap, ctx.Err()
}

func (m *Monitor) cpuStats(ctx context.Context) CPUStats {
	stats := CPUStats{}

	// Zero interval reports usage since the previous call, which suits a
	// periodic sampler.
	if pct, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pct) > 0 {
		stats.Percent = pct[0]
	}
	if perCore, err := cpu.PercentWithContext(ctx, 0, true); err == nil {
		stats.PerCore = perCore
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		stats.CountLogical = n
	}
	if n, err := cpu.CountsWithContext(ctx, false); err == nil {
		stats.CountPhysical = n
	}
	if info, err := cpu.InfoWithContext(ctx); err == nil && len(info) > 0 {
		stats.Frequency = &CPUFrequency{Current: info[0].Mhz}
	}

	return stats
}

func (m *Monitor) memoryStats(ctx context.Context) MemoryStats {
	stats := MemoryStats{}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		stats.Virtual = VirtualMemory{
			Total:     vm.Total,
			Available: vm.Available,
			Used:      vm.Used,
			Percent:   vm.UsedPercent,
		}
	}
	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		stats.Swap = SwapMemory{
			Total:   swap.Total,
			Used:    swap.Used,
			Free:    swap.Free,
			Percent: swap.UsedPercent,
		}
	}

	return stats
}

func (m *Monitor) diskStats(ctx context.Context) []DiskStats {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		m.logger.Debug("failed to list partitions", "error", err)
		return nil
	}

	stats := make([]DiskStats, 0, len(partitions))
	for _, part := range partitions {
		usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
		if err != nil {
			// Inaccessible mountpoints are skipped, not fatal.
			continue
		}
		stats = append(stats, DiskStats{
			Device:     part.Device,
			Mountpoint: part.Mountpoint,
			Fstype:     part.Fstype,
			Total:      usage.Total,
			Used:       usage.Used,
			Free:       usage.Free,
			Percent:    usage.UsedPercent,
		})
	}
	return stats
}

func (m *Monitor) systemInfo(ctx context.Context) SystemInfo {
	info := SystemInfo{Username: "unknown"}

	if hi, err := host.InfoWithContext(ctx); err == nil {
		info.Platform = hi.Platform + " " + hi.PlatformVersion
		info.Architecture = hi.KernelArch
		info.Hostname = hi.Hostname
	}
	if cpus, err := cpu.InfoWithContext(ctx); err == nil && len(cpus) > 0 {
		info.Processor = cpus[0].ModelName
	}
	if users, err := host.UsersWithContext(ctx); err == nil && len(users) > 0 {
		info.Username = users[0].User
	}

	return info
}
