package engine

import (
	"regexp"
	"sort"
	"strings"
)

// LogRecord is the normalized summary of one log-text corpus. Counters only
// ever increment during extraction; ServiceErrors is deduplicated and sorted.
type LogRecord struct {
	FailedSSHLogins        int      `json:"failed_ssh_logins"`
	AuthenticationFailures int      `json:"authentication_failures"`
	AuthWarnings           int      `json:"auth_warnings"`
	PermissionDenied       int      `json:"permission_denied"`
	Segfaults              int      `json:"segfaults"`
	KernelErrors           int      `json:"kernel_errors"`
	SudoMisuse             int      `json:"sudo_misuse"`
	ServiceRestarts        int      `json:"service_restarts"`
	ServiceErrors          []string `json:"service_errors"`
}

// KnownServices is the allow-list of recognized service identifiers, used to
// avoid extracting arbitrary tokens as service names.
var KnownServices = []string{
	"apache2", "nginx", "mysql", "postgresql", "systemd", "ssh", "sshd",
	"cron", "rsyslog", "network", "dbus", "polkit", "systemd-logind",
}

var serviceUnitPattern = regexp.MustCompile(`([a-z][a-z0-9-]+)\.service[:\s]`)

// extraction accumulates state while scanning one log corpus.
type extraction struct {
	rec      LogRecord
	services map[string]struct{}
}

func (x *extraction) addService(name string) {
	if name == "" {
		return
	}
	x.services[name] = struct{}{}
}

// logRule is one (predicate, effect) pair. Rules are evaluated in order and
// independently, so a single line may fire several rules.
type logRule struct {
	match func(line string) bool
	apply func(x *extraction, line string)
}

func containsAny(line string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

var authRules = []logRule{
	{
		match: func(l string) bool { return containsAny(l, "failed password", "authentication failure") },
		apply: func(x *extraction, _ string) {
			x.rec.FailedSSHLogins++
			x.rec.AuthenticationFailures++
		},
	},
	{
		match: func(l string) bool { return strings.Contains(l, "permission denied") },
		apply: func(x *extraction, _ string) { x.rec.PermissionDenied++ },
	},
	{
		match: func(l string) bool {
			return strings.Contains(l, "warning") && containsAny(l, "auth", "ssh")
		},
		apply: func(x *extraction, _ string) { x.rec.AuthWarnings++ },
	},
	{
		match: func(l string) bool {
			return strings.Contains(l, "sudo") && containsAny(l, "failed", "incorrect")
		},
		apply: func(x *extraction, _ string) { x.rec.SudoMisuse++ },
	},
}

var systemRules = []logRule{
	{
		match: func(l string) bool { return strings.Contains(l, "permission denied") },
		apply: func(x *extraction, _ string) { x.rec.PermissionDenied++ },
	},
	{
		match: func(l string) bool { return containsAny(l, "segfault", "segmentation fault") },
		apply: func(x *extraction, _ string) { x.rec.Segfaults++ },
	},
	{
		match: func(l string) bool {
			return strings.Contains(l, "kernel") && containsAny(l, "error", "fail")
		},
		apply: func(x *extraction, _ string) { x.rec.KernelErrors++ },
	},
	{
		match: func(l string) bool {
			if !containsAny(l, "restart", "stopped") {
				return false
			}
			return containsAny(l, KnownServices...)
		},
		apply: func(x *extraction, _ string) { x.rec.ServiceRestarts++ },
	},
	{
		// Unit-suffix extraction: "<name>.service:" or "<name>.service ".
		match: func(l string) bool { return strings.Contains(l, ".service") },
		apply: func(x *extraction, l string) {
			if m := serviceUnitPattern.FindStringSubmatch(l); m != nil {
				x.addService(m[1])
			}
		},
	},
	{
		// Allow-list extraction: a known service named near an error keyword.
		match: func(l string) bool { return containsAny(l, "error", "fail") },
		apply: func(x *extraction, l string) {
			for _, svc := range KnownServices {
				if strings.Contains(l, svc) {
					x.addService(svc)
				}
			}
		},
	},
}

// ExtractLogRecord scans raw log text and returns the normalized record.
// The text is composed of sections introduced by marker lines containing
// "AUTHENTICATION LOG" or "SYSTEM ERROR LOG"; a line belongs to whichever
// section header was most recently seen, and lines before any header are
// ignored. Empty input yields a record with all counters at zero and an
// empty service list.
func ExtractLogRecord(raw string) LogRecord {
	x := &extraction{services: make(map[string]struct{})}

	const (
		sectionNone = iota
		sectionAuth
		sectionSystem
	)
	section := sectionNone

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.Contains(line, "AUTHENTICATION LOG") {
			section = sectionAuth
			continue
		}
		if strings.Contains(line, "SYSTEM ERROR LOG") {
			section = sectionSystem
			continue
		}
		if strings.HasPrefix(trimmed, "===") {
			continue
		}

		lower := strings.ToLower(line)
		var rules []logRule
		switch section {
		case sectionAuth:
			rules = authRules
		case sectionSystem:
			rules = systemRules
		default:
			continue
		}

		for _, r := range rules {
			if r.match(lower) {
				r.apply(x, lower)
			}
		}
	}

	names := make([]string, 0, len(x.services))
	for name := range x.services {
		names = append(names, name)
	}
	sort.Strings(names)
	x.rec.ServiceErrors = names
	return x.rec
}
