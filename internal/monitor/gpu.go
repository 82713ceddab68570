package monitor

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// GPUSource reports per-GPU utilization and memory usage.
type GPUSource interface {
	Stats(ctx context.Context) ([]GPUStat, error)
}

// NVSMI reads GPU stats by invoking nvidia-smi.
type NVSMI struct {
	path string
}

// DetectNVSMI returns an NVSMI source if nvidia-smi is on PATH, nil otherwise.
func DetectNVSMI() *NVSMI {
	path, err := exec.LookPath("nvidia-smi")
	if err != nil {
		return nil
	}
	return &NVSMI{path: path}
}

func (n *NVSMI) Stats(ctx context.Context) ([]GPUStat, error) {
	cmd := exec.CommandContext(ctx, n.path,
		"--query-gpu=index,name,utilization.gpu,memory.used,memory.total,temperature.gpu",
		"--format=csv,noheader,nounits")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("running nvidia-smi: %w", err)
	}
	return parseNVSMI(string(out))
}

func parseNVSMI(out string) ([]GPUStat, error) {
	var gpus []GPUStat
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 6 {
			return nil, fmt.Errorf("unexpected nvidia-smi line %q", line)
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("parsing gpu index %q: %w", fields[0], err)
		}
		load, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing gpu load %q: %w", fields[2], err)
		}
		memUsed, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing gpu memory used %q: %w", fields[3], err)
		}
		memTotal, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing gpu memory total %q: %w", fields[4], err)
		}
		temp, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing gpu temperature %q: %w", fields[5], err)
		}

		var memPct float64
		if memTotal > 0 {
			memPct = memUsed / memTotal * 100
		}
		gpus = append(gpus, GPUStat{
			ID:   id,
			Name: fields[1],
			Load: load,
			Memory: GPUMemory{
				Used:    memUsed,
				Total:   memTotal,
				Free:    memTotal - memUsed,
				Percent: memPct,
			},
			Temperature: temp,
		})
	}
	return gpus, nil
}
