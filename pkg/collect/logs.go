package collect

import (
	"context"
	"os"
	"strings"
)

// Section markers recognized by the log extractor.
const (
	AuthSectionHeader   = "=== AUTHENTICATION LOG ==="
	SystemSectionHeader = "=== SYSTEM ERROR LOG ==="
)

const logTailLines = "200"

// Logs assembles the raw log corpus: the authentication log and the system
// error log, each introduced by its marker line. Sources that cannot be read
// contribute an empty section; the corpus is never nil.
func Logs(ctx context.Context) string {
	var sb strings.Builder

	sb.WriteString(AuthSectionHeader + "\n")
	sb.WriteString(authLog(ctx))
	sb.WriteString("\n" + SystemSectionHeader + "\n")
	sb.WriteString(systemErrorLog(ctx))
	sb.WriteString("\n")

	return sb.String()
}

func authLog(ctx context.Context) string {
	// Prefer the classic auth log file; fall back to journald.
	for _, path := range []string{"/var/log/auth.log", "/var/log/secure"} {
		if _, err := os.Stat(path); err == nil {
			if out := runCommand(ctx, "tail", "-n", logTailLines, path); out != "" {
				return out
			}
		}
	}
	return runCommand(ctx, "journalctl", "-t", "sshd", "-t", "sudo", "-n", logTailLines, "--no-pager")
}

func systemErrorLog(ctx context.Context) string {
	if out := runCommand(ctx, "journalctl", "-p", "err", "-n", logTailLines, "--no-pager"); out != "" {
		return out
	}
	return runCommand(ctx, "dmesg", "--level=err,crit,alert,emerg")
}
