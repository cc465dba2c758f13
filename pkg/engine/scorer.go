package engine

import (
	"fmt"
	"strings"
)

// thresholdRule maps an inclusive lower bound to a severity. Rules are
// ordered high-to-low so only the highest matching tier fires per metric.
type thresholdRule struct {
	Threshold float64
	Severity  Severity
}

var (
	cpuThresholds = []thresholdRule{
		{90, SeverityCritical},
		{80, SeverityHigh},
		{60, SeverityMedium},
	}
	memoryThresholds = []thresholdRule{
		{90, SeverityCritical},
		{80, SeverityHigh},
		{75, SeverityMedium},
	}
	diskThresholds = []thresholdRule{
		{90, SeverityCritical},
		{85, SeverityHigh},
		{75, SeverityMedium},
	}
)

func matchThreshold(rules []thresholdRule, value float64) (Severity, bool) {
	for _, r := range rules {
		if value >= r.Threshold {
			return r.Severity, true
		}
	}
	return SeverityLow, false
}

func severityAdjective(s Severity) string {
	switch s {
	case SeverityCritical:
		return "critically high"
	case SeverityHigh:
		return "high"
	default:
		return "moderately elevated"
	}
}

// ScoreHealth applies the resource threshold tables to a metric snapshot.
// Findings come back in CPU, memory, disk order.
func ScoreHealth(m MetricSnapshot) []Finding {
	var findings []Finding

	if sev, ok := matchThreshold(cpuThresholds, m.CPU.UsagePercent); ok {
		findings = append(findings, Finding{
			Severity: sev,
			Metric:   "CPU Usage",
			Value:    fmt.Sprintf("%.1f%%", m.CPU.UsagePercent),
			Message:  fmt.Sprintf("CPU usage is %s at %.1f%%", severityAdjective(sev), m.CPU.UsagePercent),
		})
	}
	if sev, ok := matchThreshold(memoryThresholds, m.Memory.UsagePercent); ok {
		findings = append(findings, Finding{
			Severity: sev,
			Metric:   "Memory Usage",
			Value:    fmt.Sprintf("%.1f%%", m.Memory.UsagePercent),
			Message:  fmt.Sprintf("Memory usage is %s at %.1f%%", severityAdjective(sev), m.Memory.UsagePercent),
		})
	}
	if sev, ok := matchThreshold(diskThresholds, float64(m.Disk.UsagePercent)); ok {
		findings = append(findings, Finding{
			Severity: sev,
			Metric:   "Disk Usage",
			Value:    fmt.Sprintf("%d%%", m.Disk.UsagePercent),
			Message:  fmt.Sprintf("Disk usage is %s at %d%%", severityAdjective(sev), m.Disk.UsagePercent),
		})
	}
	return findings
}

// ScoreSecurity applies the SSH configuration rules.
func ScoreSecurity(cfg SecurityConfig) []Finding {
	var findings []Finding

	if cfg.RootLoginEnabled == "yes" {
		findings = append(findings, Finding{
			Severity:       SeverityHigh,
			Metric:         "SSH Root Login",
			Value:          "Enabled",
			Title:          "SSH Root Login Enabled",
			Message:        "Root login via SSH is enabled. This is a security risk.",
			Recommendation: "Disable root SSH login by setting 'PermitRootLogin no' in /etc/ssh/sshd_config",
		})
	}
	if cfg.PasswordAuthEnabled == "yes" {
		findings = append(findings, Finding{
			Severity:       SeverityMedium,
			Metric:         "SSH Password Auth",
			Value:          "Enabled",
			Title:          "SSH Password Authentication Enabled",
			Message:        "Password authentication is enabled. Consider using key-based authentication.",
			Recommendation: "Consider disabling password authentication and using SSH keys only",
		})
	}
	return findings
}

// ScoreLogs promotes log-record signals to findings.
func ScoreLogs(rec LogRecord) []Finding {
	var findings []Finding

	switch {
	case rec.FailedSSHLogins > 20:
		findings = append(findings, Finding{
			Severity:    SeverityHigh,
			Metric:      "Failed SSH Logins",
			Value:       fmt.Sprintf("%d", rec.FailedSSHLogins),
			Title:       "Potential Brute Force Attack",
			Message:     fmt.Sprintf("High number of failed SSH login attempts (%d). Possible brute force attack.", rec.FailedSSHLogins),
			Description: "Multiple failed authentication attempts detected in system logs. This may indicate an automated attack attempting to gain unauthorized access.",
		})
	case rec.FailedSSHLogins > 10:
		findings = append(findings, Finding{
			Severity:    SeverityMedium,
			Metric:      "Failed SSH Logins",
			Value:       fmt.Sprintf("%d", rec.FailedSSHLogins),
			Title:       "Authentication Failures Detected",
			Message:     fmt.Sprintf("Multiple failed SSH login attempts (%d) detected.", rec.FailedSSHLogins),
			Description: "Repeated authentication failures suggest potential security concerns or misconfigured access attempts.",
		})
	}

	if len(rec.ServiceErrors) >= 1 {
		listed := strings.Join(truncateList(rec.ServiceErrors, 5), ", ")
		findings = append(findings, Finding{
			Severity:    SeverityMedium,
			Metric:      "Service Stability Risk",
			Value:       listed,
			Title:       "Service Stability Risk",
			Message:     "Service-related errors detected in system logs.",
			Description: fmt.Sprintf("Service-related error entries detected for: %s. This indicates possible misconfiguration or unstable background services.", listed),
		})
	}

	if rec.KernelErrors >= 1 {
		findings = append(findings, Finding{
			Severity:    SeverityHigh,
			Metric:      "Kernel Errors",
			Value:       fmt.Sprintf("%d", rec.KernelErrors),
			Title:       "Kernel-Level Issues Detected",
			Message:     fmt.Sprintf("Kernel errors detected (%d) in system logs.", rec.KernelErrors),
			Description: "Kernel-level errors indicate serious system issues that may affect stability and require immediate investigation.",
		})
	}

	if rec.Segfaults > 0 {
		findings = append(findings, Finding{
			Severity:    SeverityHigh,
			Metric:      "Segmentation Faults",
			Value:       fmt.Sprintf("%d", rec.Segfaults),
			Title:       "Application Crashes Detected",
			Message:     fmt.Sprintf("Segmentation faults detected (%d).", rec.Segfaults),
			Description: "Segmentation faults indicate application crashes, which may point to software bugs, memory corruption, or compatibility issues.",
		})
	}

	if rec.SudoMisuse > 5 {
		findings = append(findings, Finding{
			Severity:       SeverityMedium,
			Metric:         "Sudo Misuse",
			Value:          fmt.Sprintf("%d", rec.SudoMisuse),
			Title:          "Sudo Misuse Detected",
			Message:        fmt.Sprintf("Multiple failed sudo attempts (%d) detected.", rec.SudoMisuse),
			Recommendation: "Review sudo access patterns and user permissions",
		})
	}

	return findings
}

// OverallSeverity reduces a finding list to its maximum severity. An empty
// list still yields LOW; the pipeline always reports a definite severity.
func OverallSeverity(findings []Finding) Severity {
	overall := SeverityLow
	for _, f := range findings {
		if f.Severity > overall {
			overall = f.Severity
		}
	}
	return overall
}

// RiskScore computes the additive 0-100 numeric summary: per-finding weights
// plus fixed bonuses for log signals, clamped at 100. The score is not a
// derivative of the aggregate severity; accumulated MEDIUM findings can push
// it into the HIGH band.
func RiskScore(findings []Finding, rec LogRecord) int {
	score := 0
	for _, f := range findings {
		score += f.Severity.Weight()
	}

	if rec.FailedSSHLogins > 0 {
		score += 3
	}
	if len(rec.ServiceErrors) > 0 {
		score += 5
	}
	if rec.KernelErrors > 0 {
		score += 10
	}
	if rec.AuthWarnings > 0 {
		score += 2
	}

	if score > 100 {
		score = 100
	}
	return score
}

func truncateList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}
