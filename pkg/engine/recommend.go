package engine

import (
	"fmt"
	"strings"
)

// Advisory text keyed by signal class. Findings are mapped to these by
// keyword inspection of their metric name.
var recommendationTemplates = map[string]string{
	"cpu_high":       "Investigate high CPU usage - check running processes and consider resource optimization",
	"memory_high":    "Review memory usage - identify memory-intensive processes and consider adding swap or RAM",
	"disk_high":      "Disk space is running low - clean up old logs, temporary files, or unused packages",
	"ssh_root":       "Disable root SSH login for better security - edit /etc/ssh/sshd_config",
	"ssh_password":   "Consider disabling password authentication and using SSH keys only",
	"failed_logins":  "Review authentication logs and consider implementing Fail2Ban to prevent brute force attacks",
	"service_errors": "Investigate service errors - check service status and logs for misconfiguration",
	"kernel_errors":  "Kernel errors detected - investigate hardware, drivers, or system stability issues",
	"segfaults":      "Application crashes detected - review application logs and check for memory issues",
}

// Guidance that is due even on a clean system.
var baselineRecommendations = []string{
	"Schedule periodic audits using cron for continuous monitoring",
	"Maintain baseline snapshots after system updates or configuration changes",
	"Continue monitoring authentication logs for unusual patterns",
	"Review system health metrics regularly to detect trends",
}

// Recommendations maps findings to deduplicated advisory strings, first-seen
// order preserved, and appends the baseline set. The result is never empty.
func Recommendations(findings []Finding) []string {
	var recs []string
	seen := make(map[string]struct{})

	add := func(rec string) {
		if rec == "" {
			return
		}
		if _, dup := seen[rec]; dup {
			return
		}
		seen[rec] = struct{}{}
		recs = append(recs, rec)
	}

	for _, f := range findings {
		add(recommendationFor(f))
	}
	for _, rec := range baselineRecommendations {
		add(rec)
	}
	return recs
}

func recommendationFor(f Finding) string {
	metric := strings.ToLower(f.Metric)
	switch {
	case strings.Contains(metric, "cpu"):
		return recommendationTemplates["cpu_high"]
	case strings.Contains(metric, "memory"):
		return recommendationTemplates["memory_high"]
	case strings.Contains(metric, "disk"):
		return recommendationTemplates["disk_high"]
	case strings.Contains(metric, "root") && strings.Contains(metric, "ssh"):
		return recommendationTemplates["ssh_root"]
	case strings.Contains(metric, "password") && strings.Contains(metric, "ssh"):
		return recommendationTemplates["ssh_password"]
	case strings.Contains(metric, "login") || strings.Contains(metric, "auth"):
		return recommendationTemplates["failed_logins"]
	case strings.Contains(metric, "service"):
		return recommendationTemplates["service_errors"]
	case strings.Contains(metric, "kernel"):
		return recommendationTemplates["kernel_errors"]
	case strings.Contains(metric, "fault") || strings.Contains(metric, "crash"):
		return recommendationTemplates["segfaults"]
	case f.Recommendation != "":
		return f.Recommendation
	default:
		return fmt.Sprintf("Review %s", f.DisplayTitle())
	}
}
