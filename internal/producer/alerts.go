package producer

import (
	"fmt"

	"telemetryd/internal/monitor"
)

// Alert severities.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Alert flags one resource exceeding its threshold.
type Alert struct {
	Type      string  `json:"type"`
	Severity  string  `json:"severity"`
	Message   string  `json:"message"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Device    string  `json:"device,omitempty"`
	GPUName   string  `json:"gpu_name,omitempty"`
}

// Thresholds holds alert trigger levels in percent.
type Thresholds struct {
	CPU       float64
	Memory    float64
	Disk      float64
	GPUMemory float64
}

// DefaultThresholds returns the standard trigger levels.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CPU:       80,
		Memory:    90,
		Disk:      95,
		GPUMemory: 90,
	}
}

// Evaluate checks a snapshot against the thresholds and returns one alert
// per breached resource. CPU and memory escalate to critical near
// saturation; disk is always critical, GPU memory always a warning.
func (t Thresholds) Evaluate(snap monitor.StatsSnapshot) []Alert {
	var alerts []Alert

	if snap.CPU.Percent > t.CPU {
		severity := SeverityWarning
		if snap.CPU.Percent >= 95 {
			severity = SeverityCritical
		}
		alerts = append(alerts, Alert{
			Type:      "cpu_high",
			Severity:  severity,
			Message:   fmt.Sprintf("High CPU usage: %.1f%%", snap.CPU.Percent),
			Value:     snap.CPU.Percent,
			Threshold: t.CPU,
		})
	}

	memPct := snap.Memory.Virtual.Percent
	if memPct > t.Memory {
		severity := SeverityWarning
		if memPct >= 98 {
			severity = SeverityCritical
		}
		alerts = append(alerts, Alert{
			Type:      "memory_high",
			Severity:  severity,
			Message:   fmt.Sprintf("High memory usage: %.1f%%", memPct),
			Value:     memPct,
			Threshold: t.Memory,
		})
	}

	for _, d := range snap.Disk {
		if d.Percent > t.Disk {
			alerts = append(alerts, Alert{
				Type:      "disk_high",
				Severity:  SeverityCritical,
				Message:   fmt.Sprintf("Critical disk usage on %s: %.1f%%", d.Device, d.Percent),
				Value:     d.Percent,
				Threshold: t.Disk,
				Device:    d.Device,
			})
		}
	}

	for _, g := range snap.GPU {
		if g.Memory.Percent > t.GPUMemory {
			alerts = append(alerts, Alert{
				Type:      "gpu_memory_high",
				Severity:  SeverityWarning,
				Message:   fmt.Sprintf("High GPU memory usage on %s: %.1f%%", g.Name, g.Memory.Percent),
				Value:     g.Memory.Percent,
				Threshold: t.GPUMemory,
				GPUName:   g.Name,
			})
		}
	}

	return alerts
}
