package engine

import (
	"fmt"
	"strings"
	"time"
)

// AuditInput carries the externally acquired data for one run. Collectors
// that failed leave their section as the zero value; the pipeline proceeds
// with empty records rather than aborting.
type AuditInput struct {
	Health    MetricSnapshot
	SSH       SecurityConfig
	LogText   string
	Users     UsersSnapshot
	Services  ServicesSnapshot
	Processes *ProcessSnapshot
}

// AuditReport is the assembled result of one audit run: the input snapshots,
// the normalized log record, the findings in detection order (health, then
// security, then logs), the aggregate severity, the risk score, and the
// recommendation list.
type AuditReport struct {
	GeneratedAt     time.Time
	Health          MetricSnapshot
	SSH             SecurityConfig
	Logs            LogRecord
	Users           UsersSnapshot
	Services        ServicesSnapshot
	Processes       *ProcessSnapshot
	Findings        []Finding
	OverallSeverity Severity
	RiskScore       int
	Recommendations []string

	// AIAnalysis holds the optional LLM enrichment text; empty when the
	// enrichment step is unavailable.
	AIAnalysis string
}

// BuildReport runs the classification pipeline: extraction, scoring,
// aggregation, recommendations. It is pure apart from reading the clock.
func BuildReport(in AuditInput) *AuditReport {
	rec := ExtractLogRecord(in.LogText)

	findings := ScoreHealth(in.Health)
	findings = append(findings, ScoreSecurity(in.SSH)...)
	findings = append(findings, ScoreLogs(rec)...)

	// Orchestrator-level rule: repeated auth warnings are worth a finding
	// even though the scorer tables do not cover them.
	if rec.AuthWarnings > 5 {
		findings = append(findings, Finding{
			Severity:    SeverityMedium,
			Metric:      "Authentication Warnings",
			Value:       fmt.Sprintf("%d", rec.AuthWarnings),
			Title:       "Authentication System Warnings",
			Message:     fmt.Sprintf("Multiple authentication warnings (%d) detected.", rec.AuthWarnings),
			Description: "Repeated authentication warnings may indicate configuration issues or unusual authentication patterns that warrant review.",
		})
	}

	return &AuditReport{
		GeneratedAt:     time.Now(),
		Health:          in.Health,
		SSH:             in.SSH,
		Logs:            rec,
		Users:           in.Users,
		Services:        in.Services,
		Processes:       in.Processes,
		Findings:        findings,
		OverallSeverity: OverallSeverity(findings),
		RiskScore:       RiskScore(findings, rec),
		Recommendations: Recommendations(findings),
	}
}

// Status tags reuse the scorer thresholds so the summary and the findings
// can never disagree.

func cpuStatus(pct float64) string {
	if sev, ok := matchThreshold(cpuThresholds, pct); ok {
		return "[" + sev.String() + "]"
	}
	return "[OK]"
}

func memoryStatus(pct float64) string {
	if sev, ok := matchThreshold(memoryThresholds, pct); ok {
		return "[" + sev.String() + "]"
	}
	return "[OK]"
}

func diskStatus(pct int) string {
	if sev, ok := matchThreshold(diskThresholds, float64(pct)); ok {
		return "[" + sev.String() + "]"
	}
	return "[OK]"
}

func enabledStatus(value string) string {
	switch value {
	case "yes":
		return "Enabled [WARNING]"
	case "no":
		return "Disabled [OK]"
	default:
		return "Unknown"
	}
}

// Summary renders the terminal view of the report. Every section is always
// shown; sections with nothing to say get deterministic filler.
func (r *AuditReport) Summary() string {
	var sb strings.Builder

	line := strings.Repeat("=", 60)
	sb.WriteString(line + "\n")
	sb.WriteString("Linux Server Health & Security Analysis\n")
	sb.WriteString(line + "\n")
	sb.WriteString(fmt.Sprintf("Analysis Date: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Overall Severity: %s\n", r.OverallSeverity))
	sb.WriteString(fmt.Sprintf("Risk Score: %d/100\n\n", r.RiskScore))

	sb.WriteString("System Health:\n")
	sb.WriteString(fmt.Sprintf("  CPU Usage:    %.1f%% %s\n", r.Health.CPU.UsagePercent, cpuStatus(r.Health.CPU.UsagePercent)))
	sb.WriteString(fmt.Sprintf("  Memory Usage: %.1f%% %s\n", r.Health.Memory.UsagePercent, memoryStatus(r.Health.Memory.UsagePercent)))
	sb.WriteString(fmt.Sprintf("  Disk Usage:   %d%% %s\n\n", r.Health.Disk.UsagePercent, diskStatus(r.Health.Disk.UsagePercent)))

	sb.WriteString("Security Configuration:\n")
	sb.WriteString(fmt.Sprintf("  SSH Root Login:              %s\n", enabledStatus(r.SSH.RootLoginEnabled)))
	sb.WriteString(fmt.Sprintf("  SSH Password Authentication: %s\n\n", enabledStatus(r.SSH.PasswordAuthEnabled)))

	sb.WriteString("Log Intelligence:\n")
	quiet := true
	if r.Logs.FailedSSHLogins > 0 {
		sb.WriteString(fmt.Sprintf("  Authentication Failures: %d\n", r.Logs.FailedSSHLogins))
		quiet = false
	}
	if r.Logs.AuthWarnings > 0 {
		sb.WriteString(fmt.Sprintf("  Authentication Warnings: %d\n", r.Logs.AuthWarnings))
		quiet = false
	}
	if len(r.Logs.ServiceErrors) > 0 {
		sb.WriteString(fmt.Sprintf("  Service Errors: %s\n", strings.Join(truncateList(r.Logs.ServiceErrors, 5), ", ")))
		quiet = false
	}
	if r.Logs.KernelErrors > 0 {
		sb.WriteString(fmt.Sprintf("  Kernel Errors: %d\n", r.Logs.KernelErrors))
		quiet = false
	}
	if quiet {
		sb.WriteString("  No significant log anomalies detected [OK]\n")
	}
	sb.WriteString("\n")

	sb.WriteString("Key Findings:\n")
	if len(r.Findings) == 0 {
		sb.WriteString("  No critical issues detected. System appears healthy.\n")
	}
	for i, f := range r.Findings {
		if i >= 10 {
			break
		}
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", f.Severity, f.DisplayTitle()))
		detail := f.Description
		if detail == "" {
			detail = f.Message
		}
		if detail != "" {
			sb.WriteString(fmt.Sprintf("    - %s\n", detail))
		}
	}
	sb.WriteString("\n")

	if r.Processes != nil {
		sb.WriteString("Top Processes:\n")
		for _, p := range truncateProcesses(r.Processes.TopCPU, 5) {
			sb.WriteString(fmt.Sprintf("  CPU %5.1f%%  MEM %5.1f%%  %-10s %s\n", p.CPUPercent, p.MemPercent, p.User, p.Command))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("AI Analysis:\n")
	analysis := r.AIAnalysis
	if analysis == "" {
		analysis = r.FallbackAnalysis()
	}
	for _, l := range strings.Split(strings.TrimSpace(analysis), "\n") {
		if strings.TrimSpace(l) != "" {
			sb.WriteString("  " + strings.TrimSpace(l) + "\n")
		}
	}
	sb.WriteString("\n" + line + "\n")

	return sb.String()
}

// FallbackAnalysis builds the deterministic analysis paragraph used when the
// LLM enrichment is unavailable.
func (r *AuditReport) FallbackAnalysis() string {
	cpu := r.Health.CPU.UsagePercent
	mem := r.Health.Memory.UsagePercent
	disk := r.Health.Disk.UsagePercent

	var parts []string
	switch {
	case cpu < 60 && mem < 75 && disk < 75:
		parts = append(parts, "The server shows healthy resource utilization")
	case cpu > 80 || mem > 80 || disk > 85:
		parts = append(parts, "The server shows elevated resource usage that requires attention")
	default:
		parts = append(parts, "The server shows acceptable resource utilization")
	}

	sshIssue := false
	for _, f := range r.Findings {
		if strings.HasPrefix(f.Metric, "SSH") && f.Severity >= SeverityHigh {
			sshIssue = true
		}
	}
	if sshIssue {
		parts = append(parts, "but security configuration issues were detected")
	} else {
		parts = append(parts, "with no critical security misconfigurations")
	}

	switch {
	case len(r.Logs.ServiceErrors) > 0:
		parts = append(parts, fmt.Sprintf(". However, system logs reveal service-related errors (%s) that may indicate configuration issues or unstable background processes",
			strings.Join(truncateList(r.Logs.ServiceErrors, 3), ", ")))
	case r.Logs.FailedSSHLogins > 10:
		parts = append(parts, fmt.Sprintf(". Multiple failed authentication attempts (%d) were detected and should be investigated", r.Logs.FailedSSHLogins))
	case len(r.Findings) == 0:
		parts = append(parts, ". No significant anomalies were detected in system logs")
	default:
		parts = append(parts, ". Review the findings above for potential issues")
	}

	return strings.Join(parts, " ") + "."
}

// Markdown renders the full report file.
func (r *AuditReport) Markdown() string {
	var sb strings.Builder

	sb.WriteString("# Linux Server Health & Security Analysis Report\n\n")
	sb.WriteString(fmt.Sprintf("**Analysis Date:** %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("**Overall Severity:** %s\n\n", r.OverallSeverity))
	sb.WriteString(fmt.Sprintf("**Risk Score:** %d/100\n\n", r.RiskScore))
	sb.WriteString("---\n\n")

	sb.WriteString("## System Health\n\n")
	sb.WriteString("### Resource Usage\n\n")
	sb.WriteString(fmt.Sprintf("- **CPU Usage:** %.1f%% (Load Average: %.2f, Cores: %d)\n",
		r.Health.CPU.UsagePercent, r.Health.CPU.Load1Min, r.Health.CPU.Cores))
	sb.WriteString(fmt.Sprintf("- **Memory Usage:** %.1f%% (%d MB / %d MB)\n",
		r.Health.Memory.UsagePercent, r.Health.Memory.UsedMB, r.Health.Memory.TotalMB))
	sb.WriteString(fmt.Sprintf("- **Disk Usage:** %d%% (%s / %s)\n\n",
		r.Health.Disk.UsagePercent, orNA(r.Health.Disk.Used), orNA(r.Health.Disk.Total)))

	sb.WriteString("## Users & Services\n\n")
	sb.WriteString(fmt.Sprintf("- **Logged-in Users:** %d\n", r.Users.LoggedInCount))
	sb.WriteString(fmt.Sprintf("- **Active Services:** %d\n", r.Services.ActiveCount))
	if r.Users.LoggedInUsers != "" && r.Users.LoggedInUsers != "none" {
		sb.WriteString(fmt.Sprintf("- **User List:** %s\n", r.Users.LoggedInUsers))
	}
	sb.WriteString("\n")

	sb.WriteString("## Security Findings\n\n")
	sb.WriteString("### SSH Configuration\n\n")
	sb.WriteString(fmt.Sprintf("- **Root Login Enabled:** %s\n", orUnknown(r.SSH.RootLoginEnabled)))
	sb.WriteString(fmt.Sprintf("- **Password Authentication:** %s\n\n", orUnknown(r.SSH.PasswordAuthEnabled)))

	if len(r.Findings) > 0 {
		sb.WriteString("### Issues Detected\n\n")
		for _, f := range r.Findings {
			sb.WriteString(fmt.Sprintf("#### %s - %s\n", f.Metric, f.Severity))
			sb.WriteString(fmt.Sprintf("- **Value:** %s\n", f.Value))
			sb.WriteString(fmt.Sprintf("- **Message:** %s\n\n", f.Message))
		}
	} else {
		sb.WriteString("No security issues detected.\n\n")
	}

	sb.WriteString("## Log Analysis\n\n")
	sb.WriteString("### Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Failed SSH Logins:** %d\n", r.Logs.FailedSSHLogins))
	sb.WriteString(fmt.Sprintf("- **Authentication Failures:** %d\n", r.Logs.AuthenticationFailures))
	sb.WriteString(fmt.Sprintf("- **Permission Denied Events:** %d\n", r.Logs.PermissionDenied))
	sb.WriteString(fmt.Sprintf("- **Segmentation Faults:** %d\n", r.Logs.Segfaults))
	if len(r.Logs.ServiceErrors) > 0 {
		sb.WriteString(fmt.Sprintf("- **Services with Errors:** %s\n", strings.Join(truncateList(r.Logs.ServiceErrors, 10), ", ")))
	}
	sb.WriteString("\n")

	if r.Processes != nil {
		sb.WriteString("## Process Snapshot\n\n")
		sb.WriteString("### Top CPU\n\n")
		for _, p := range truncateProcesses(r.Processes.TopCPU, 5) {
			sb.WriteString(fmt.Sprintf("- %s (pid %d): cpu %.1f%%, mem %.1f%% - `%s`\n", p.User, p.PID, p.CPUPercent, p.MemPercent, p.Command))
		}
		sb.WriteString("\n### Top Memory\n\n")
		for _, p := range truncateProcesses(r.Processes.TopMemory, 5) {
			sb.WriteString(fmt.Sprintf("- %s (pid %d): cpu %.1f%%, mem %.1f%% - `%s`\n", p.User, p.PID, p.CPUPercent, p.MemPercent, p.Command))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Recommendations\n\n")
	for _, rec := range r.Recommendations {
		sb.WriteString("- " + rec + "\n")
	}
	sb.WriteString("\n")

	if r.AIAnalysis != "" {
		sb.WriteString("## AI Recommendations\n\n")
		sb.WriteString(r.AIAnalysis + "\n\n")
	}

	sb.WriteString("---\n\n")
	sb.WriteString("*Report generated by servaudit*\n")

	return sb.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func truncateProcesses(items []ProcessInfo, max int) []ProcessInfo {
	if len(items) > max {
		return items[:max]
	}
	return items
}
