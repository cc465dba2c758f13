package collect

import (
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/user/servaudit/pkg/engine"
)

const sshdConfigPath = "/etc/ssh/sshd_config"

// SSHConfig probes the SSH daemon configuration. An unreadable config file
// yields "unknown" for both facts.
func SSHConfig() engine.SecurityConfig {
	data, err := os.ReadFile(sshdConfigPath)
	if err != nil {
		log.Warn().Err(err).Msg("could not read sshd config")
		return engine.SecurityConfig{RootLoginEnabled: "unknown", PasswordAuthEnabled: "unknown"}
	}
	return ParseSSHDConfig(string(data))
}

// ParseSSHDConfig extracts the two security facts from sshd_config text.
// A directive that never appears stays "unknown"; sshd defaults are not
// assumed on the tool's behalf.
func ParseSSHDConfig(text string) engine.SecurityConfig {
	cfg := engine.SecurityConfig{RootLoginEnabled: "unknown", PasswordAuthEnabled: "unknown"}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "permitrootlogin":
			// prohibit-password and forced-commands-only still refuse
			// password logins for root, so only a plain "yes" counts.
			if strings.EqualFold(fields[1], "yes") {
				cfg.RootLoginEnabled = "yes"
			} else {
				cfg.RootLoginEnabled = "no"
			}
		case "passwordauthentication":
			if strings.EqualFold(fields[1], "yes") {
				cfg.PasswordAuthEnabled = "yes"
			} else {
				cfg.PasswordAuthEnabled = "no"
			}
		}
	}
	return cfg
}
