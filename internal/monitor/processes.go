package monitor

import (
	"context"
	"sort"

	"github.com/shirou/gopsutil/v3/process"
)

// SortByCPU and SortByMemory name the supported process orderings.
const (
	SortByCPU    = "cpu"
	SortByMemory = "memory"
)

// TopProcesses returns up to limit processes ordered by the given field,
// descending. Processes that disappear or deny access mid-scan are skipped.
func (m *Monitor) TopProcesses(ctx context.Context, limit int, sortBy string) []ProcessInfo {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		m.logger.Debug("failed to list processes", "error", err)
		return nil
	}

	infos := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		info := ProcessInfo{PID: p.Pid, Name: name}
		if pct, err := p.CPUPercentWithContext(ctx); err == nil {
			info.CPUPercent = pct
		}
		if pct, err := p.MemoryPercentWithContext(ctx); err == nil {
			info.MemoryPercent = pct
		}
		if status, err := p.StatusWithContext(ctx); err == nil && len(status) > 0 {
			info.Status = status[0]
		}
		infos = append(infos, info)
	}

	if sortBy == SortByMemory {
		sort.Slice(infos, func(i, j int) bool {
			return infos[i].MemoryPercent > infos[j].MemoryPercent
		})
	} else {
		sort.Slice(infos, func(i, j int) bool {
			return infos[i].CPUPercent > infos[j].CPUPercent
		})
	}

	if len(infos) > limit {
		infos = infos[:limit]
	}
	return infos
}
