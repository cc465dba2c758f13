package engine

// CPUMetrics mirrors the cpu section of the health snapshot contract.
type CPUMetrics struct {
	UsagePercent float64 `json:"usage_percent"`
	Load1Min     float64 `json:"load_1min"`
	Cores        int     `json:"cores"`
}

// MemoryMetrics mirrors the memory section of the health snapshot contract.
type MemoryMetrics struct {
	UsagePercent float64 `json:"usage_percent"`
	UsedMB       int     `json:"used_mb"`
	TotalMB      int     `json:"total_mb"`
}

// DiskMetrics mirrors the disk section of the health snapshot contract.
// Used and Total are human-readable strings (e.g. "12G").
type DiskMetrics struct {
	UsagePercent int    `json:"usage_percent"`
	Used         string `json:"used"`
	Total        string `json:"total"`
}

// MetricSnapshot is one run's resource health measurement. Immutable after creation.
type MetricSnapshot struct {
	CPU    CPUMetrics    `json:"cpu"`
	Memory MemoryMetrics `json:"memory"`
	Disk   DiskMetrics   `json:"disk"`
}

// SecurityConfig holds the SSH daemon security facts. Each value is one of
// "yes", "no" or "unknown".
type SecurityConfig struct {
	RootLoginEnabled    string `json:"root_login_enabled"`
	PasswordAuthEnabled string `json:"password_auth_enabled"`
}

// ServicesSnapshot lists the active services at collection time.
type ServicesSnapshot struct {
	ActiveCount    int      `json:"active_count"`
	ActiveServices []string `json:"active_services"`
}

// UsersSnapshot counts interactive sessions at collection time.
type UsersSnapshot struct {
	LoggedInCount int    `json:"logged_in_count"`
	LoggedInUsers string `json:"logged_in_users,omitempty"`
}

// ProcessInfo is one row of a ranked process listing.
type ProcessInfo struct {
	User       string  `json:"user"`
	PID        int32   `json:"pid"`
	CPUPercent float64 `json:"cpu"`
	MemPercent float64 `json:"mem"`
	Command    string  `json:"command"`
}

// ProcessSnapshot holds the top CPU and memory consumers (full mode only).
type ProcessSnapshot struct {
	TopCPU    []ProcessInfo `json:"top_cpu"`
	TopMemory []ProcessInfo `json:"top_memory"`
}
