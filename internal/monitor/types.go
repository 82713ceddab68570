package monitor

// StatsSnapshot is one point-in-time bundle of system metrics. Field names
// match the wire payload pushed on the system_stats topic.
type StatsSnapshot struct {
	Timestamp string      `json:"timestamp"`
	CPU       CPUStats    `json:"cpu"`
	Memory    MemoryStats `json:"memory"`
	Disk      []DiskStats `json:"disk"`
	GPU       []GPUStat   `json:"gpu"`
	System    SystemInfo  `json:"system"`
	Uptime    float64     `json:"uptime"`
}

// CPUStats holds aggregate and per-core CPU usage.
type CPUStats struct {
	Percent       float64       `json:"percent"`
	CountLogical  int           `json:"count_logical"`
	CountPhysical int           `json:"count_physical"`
	Frequency     *CPUFrequency `json:"frequency"`
	PerCore       []float64     `json:"per_core"`
}

// CPUFrequency holds clock speeds in MHz.
type CPUFrequency struct {
	Current float64 `json:"current"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// MemoryStats holds virtual and swap memory usage.
type MemoryStats struct {
	Virtual VirtualMemory `json:"virtual"`
	Swap    SwapMemory    `json:"swap"`
}

// VirtualMemory holds physical memory usage in bytes.
type VirtualMemory struct {
	Total     uint64  `json:"total"`
	Available uint64  `json:"available"`
	Used      uint64  `json:"used"`
	Percent   float64 `json:"percent"`
}

// SwapMemory holds swap usage in bytes.
type SwapMemory struct {
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Free    uint64  `json:"free"`
	Percent float64 `json:"percent"`
}

// DiskStats holds usage for one mounted partition.
type DiskStats struct {
	Device     string  `json:"device"`
	Mountpoint string  `json:"mountpoint"`
	Fstype     string  `json:"fstype"`
	Total      uint64  `json:"total"`
	Used       uint64  `json:"used"`
	Free       uint64  `json:"free"`
	Percent    float64 `json:"percent"`
}

// GPUStat holds usage for one GPU.
type GPUStat struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Load        float64   `json:"load"`
	Memory      GPUMemory `json:"memory"`
	Temperature float64   `json:"temperature"`
}

// GPUMemory holds GPU memory usage in MiB.
type GPUMemory struct {
	Used    float64 `json:"used"`
	Total   float64 `json:"total"`
	Free    float64 `json:"free"`
	Percent float64 `json:"percent"`
}

// SystemInfo holds static host identification.
type SystemInfo struct {
	Platform     string `json:"platform"`
	Processor    string `json:"processor"`
	Architecture string `json:"architecture"`
	Hostname     string `json:"hostname"`
	Username     string `json:"username"`
}

// ProcessInfo holds usage for one running process.
type ProcessInfo struct {
	PID           int32   `json:"pid"`
	Name          string  `json:"name"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float32 `json:"memory_percent"`
	Status        string  `json:"status"`
}
