package collect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSSHDConfig(t *testing.T) {
	text := `# sshd_config
Port 22
PermitRootLogin yes
PasswordAuthentication no
`
	cfg := ParseSSHDConfig(text)
	assert.Equal(t, "yes", cfg.RootLoginEnabled)
	assert.Equal(t, "no", cfg.PasswordAuthEnabled)
}

func TestParseSSHDConfigDefaultsUnknown(t *testing.T) {
	cfg := ParseSSHDConfig("Port 22\n")
	assert.Equal(t, "unknown", cfg.RootLoginEnabled)
	assert.Equal(t, "unknown", cfg.PasswordAuthEnabled)
}

func TestParseSSHDConfigOnlyPlainYesCounts(t *testing.T) {
	cfg := ParseSSHDConfig("PermitRootLogin prohibit-password\n")
	assert.Equal(t, "no", cfg.RootLoginEnabled)
}

func TestParseSSHDConfigSkipsComments(t *testing.T) {
	cfg := ParseSSHDConfig("#PermitRootLogin yes\nPermitRootLogin no\n")
	assert.Equal(t, "no", cfg.RootLoginEnabled)
}

func TestParseSSHDConfigCaseInsensitiveDirective(t *testing.T) {
	cfg := ParseSSHDConfig("permitrootlogin YES\npasswordauthentication Yes\n")
	assert.Equal(t, "yes", cfg.RootLoginEnabled)
	assert.Equal(t, "yes", cfg.PasswordAuthEnabled)
}

func TestParseWhoOutput(t *testing.T) {
	out := "root     tty1         2026-08-24 09:00\n" +
		"alice    pts/0        2026-08-24 09:15 (10.0.0.5)\n" +
		"alice    pts/1        2026-08-24 09:30 (10.0.0.5)\n"

	snap := ParseWhoOutput(out)
	assert.Equal(t, 3, snap.LoggedInCount)
	assert.Equal(t, "root,alice", snap.LoggedInUsers)
}

func TestParseWhoOutputEmpty(t *testing.T) {
	snap := ParseWhoOutput("")
	assert.Equal(t, 0, snap.LoggedInCount)
	assert.Equal(t, "", snap.LoggedInUsers)
}

func TestParseRunningServices(t *testing.T) {
	out := "sshd.service      loaded active running OpenSSH server daemon\n" +
		"cron.service      loaded active running Regular background jobs\n" +
		"nginx.service     loaded active running nginx web server\n" +
		"session-1.scope   loaded active running Session 1 of user root\n"

	snap := ParseRunningServices(out)
	assert.Equal(t, 3, snap.ActiveCount)
	assert.Equal(t, []string{"cron", "nginx", "sshd"}, snap.ActiveServices)
}

func TestParseRunningServicesEmpty(t *testing.T) {
	snap := ParseRunningServices("")
	assert.Equal(t, 0, snap.ActiveCount)
	assert.Empty(t, snap.ActiveServices)
}
