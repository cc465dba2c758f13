package ai

import (
	"fmt"
	"strings"
)

const systemRole = "You are a senior Linux system administrator analyzing a server health and security audit."

// BuildPrompt renders the provider-independent prompt for an audit context.
func BuildPrompt(ac AuditContext) string {
	services := "None"
	if len(ac.ServiceErrors) > 0 {
		listed := ac.ServiceErrors
		if len(listed) > 5 {
			listed = listed[:5]
		}
		services = strings.Join(listed, ", ")
	}

	return fmt.Sprintf(`System Context:
- CPU Usage: %.1f%%
- Memory Usage: %.1f%%
- Disk Usage: %d%%
- SSH Root Login: %s
- SSH Password Auth: %s
- Failed SSH Logins: %d
- Service Errors: %s
- Segmentation Faults: %d

Findings Summary:
- Critical Issues: %d
- High Severity: %d
- Medium Severity: %d
- Low Severity: %d

Please provide:
1. A brief explanation of the most critical issues in plain language
2. Actionable recommendations (what to do, not specific commands)
3. Prioritized action items

Keep the response concise, professional, and focused on system administration best practices.
Do not include specific command-line instructions.
Format your response in markdown.`,
		ac.CPUPercent, ac.MemoryPercent, ac.DiskPercent,
		orUnknown(ac.RootLoginEnabled), orUnknown(ac.PasswordAuthEnabled),
		ac.FailedLogins, services, ac.Segfaults,
		ac.Critical, ac.High, ac.Medium, ac.Low)
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
