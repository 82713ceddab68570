// Package monitor collects host metrics: CPU, memory, disk, GPU, system
// info, and per-process usage.
//
// CPU, memory, disk, and process data come from gopsutil. GPU stats are
// optional and come from an attached GPUSource (nvidia-smi when present);
// snapshots report a null gpu member when no source is available.
package monitor
