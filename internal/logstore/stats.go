package logstore

import (
	"context"
	"fmt"
	"time"

	"telemetryd/internal/monitor"
)

const statsComponent = "monitor"

// RecordStats writes log entries for any resource running hot in snap,
// plus a summary line on five-minute wall-clock boundaries. window is the
// sampling interval, used to decide whether a boundary fell inside this
// sample.
func RecordStats(ctx context.Context, s Store, snap monitor.StatsSnapshot, window time.Duration) {
	if snap.CPU.Percent > 80 {
		s.Record(ctx, LevelWarning,
			fmt.Sprintf("High CPU usage: %.1f%%", snap.CPU.Percent), statsComponent)
	}
	if snap.Memory.Virtual.Percent > 90 {
		s.Record(ctx, LevelWarning,
			fmt.Sprintf("High memory usage: %.1f%%", snap.Memory.Virtual.Percent), statsComponent)
	}
	for _, d := range snap.Disk {
		if d.Percent > 95 {
			s.Record(ctx, LevelError,
				fmt.Sprintf("Low disk space on %s: %.1f%% used", d.Mountpoint, d.Percent), statsComponent)
		}
	}
	for _, g := range snap.GPU {
		if g.Memory.Percent > 90 {
			s.Record(ctx, LevelWarning,
				fmt.Sprintf("High GPU memory usage on %s: %.1f%%", g.Name, g.Memory.Percent), statsComponent)
		}
	}

	if summaryDue(time.Now(), window) {
		s.Record(ctx, LevelInfo,
			fmt.Sprintf("System stats: CPU %.1f%%, Memory %.1f%%, Uptime %.0fs",
				snap.CPU.Percent, snap.Memory.Virtual.Percent, snap.Uptime), statsComponent)
	}
}

// summaryDue reports whether a five-minute boundary falls inside the
// window ending at now.
func summaryDue(now time.Time, window time.Duration) bool {
	secs := int64(window / time.Second)
	if secs < 1 {
		secs = 1
	}
	return now.Unix()%300 < secs
}
