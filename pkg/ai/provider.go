package ai

import (
	"context"

	"github.com/user/servaudit/pkg/engine"
)

// AuditContext is the compacted audit summary handed to a provider. Raw log
// text never leaves the host; only these aggregates do.
type AuditContext struct {
	CPUPercent    float64
	MemoryPercent float64
	DiskPercent   int

	RootLoginEnabled    string
	PasswordAuthEnabled string

	FailedLogins  int
	ServiceErrors []string
	Segfaults     int

	Critical int
	High     int
	Medium   int
	Low      int
}

// Provider is the narrow interface the orchestrator depends on: given audit
// context, produce markdown advice or fail. Failure is always recoverable;
// the caller falls back to deterministic text.
type Provider interface {
	GenerateRecommendations(ctx context.Context, audit AuditContext) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

// BuildContext compacts a report into the provider input.
func BuildContext(r *engine.AuditReport) AuditContext {
	ac := AuditContext{
		CPUPercent:          r.Health.CPU.UsagePercent,
		MemoryPercent:       r.Health.Memory.UsagePercent,
		DiskPercent:         r.Health.Disk.UsagePercent,
		RootLoginEnabled:    r.SSH.RootLoginEnabled,
		PasswordAuthEnabled: r.SSH.PasswordAuthEnabled,
		FailedLogins:        r.Logs.FailedSSHLogins,
		ServiceErrors:       r.Logs.ServiceErrors,
		Segfaults:           r.Logs.Segfaults,
	}

	for _, f := range r.Findings {
		switch f.Severity {
		case engine.SeverityCritical:
			ac.Critical++
		case engine.SeverityHigh:
			ac.High++
		case engine.SeverityMedium:
			ac.Medium++
		default:
			ac.Low++
		}
	}
	return ac
}
