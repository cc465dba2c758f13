package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authHeader = "=== AUTHENTICATION LOG ===\n"
const systemHeader = "=== SYSTEM ERROR LOG ===\n"

func TestExtractLogRecordEmptyInput(t *testing.T) {
	rec := ExtractLogRecord("")

	assert.Equal(t, 0, rec.FailedSSHLogins)
	assert.Equal(t, 0, rec.AuthenticationFailures)
	assert.Equal(t, 0, rec.AuthWarnings)
	assert.Equal(t, 0, rec.PermissionDenied)
	assert.Equal(t, 0, rec.Segfaults)
	assert.Equal(t, 0, rec.KernelErrors)
	assert.Equal(t, 0, rec.SudoMisuse)
	assert.Equal(t, 0, rec.ServiceRestarts)
	require.NotNil(t, rec.ServiceErrors)
	assert.Empty(t, rec.ServiceErrors)
}

func TestExtractLogRecordFailedLogins(t *testing.T) {
	raw := authHeader +
		"Jan 10 10:00:01 host sshd[1234]: Failed password for root from 10.0.0.5\n" +
		"Jan 10 10:00:02 host sshd[1234]: pam_unix(sshd:auth): authentication failure; rhost=10.0.0.5\n" +
		"Jan 10 10:00:03 host sshd[1234]: Accepted publickey for deploy\n"

	rec := ExtractLogRecord(raw)

	assert.Equal(t, 2, rec.FailedSSHLogins)
	assert.Equal(t, 2, rec.AuthenticationFailures)
}

func TestExtractLogRecordPermissionDeniedDoesNotCountAsLogin(t *testing.T) {
	raw := authHeader +
		"Jan 10 10:00:01 host sshd[1234]: error: Permission denied for user guest\n"

	rec := ExtractLogRecord(raw)

	assert.Equal(t, 1, rec.PermissionDenied)
	assert.Equal(t, 0, rec.FailedSSHLogins)
	assert.Equal(t, 0, rec.AuthenticationFailures)
}

func TestExtractLogRecordAuthWarnings(t *testing.T) {
	raw := authHeader +
		"Jan 10 10:00:01 host sshd[99]: WARNING: ssh host key changed\n" +
		"Jan 10 10:00:02 host kernel: warning: disk nearly full\n" // no auth/ssh keyword

	rec := ExtractLogRecord(raw)

	assert.Equal(t, 1, rec.AuthWarnings)
}

func TestExtractLogRecordSudoMisuse(t *testing.T) {
	raw := authHeader +
		"Jan 10 10:00:01 host sudo: bob : 3 incorrect password attempts\n" +
		"Jan 10 10:00:02 host sudo: bob : command failed\n" +
		"Jan 10 10:00:03 host sudo: bob : TTY=pts/0 ; COMMAND=/bin/ls\n"

	rec := ExtractLogRecord(raw)

	assert.Equal(t, 2, rec.SudoMisuse)
}

func TestExtractLogRecordSystemSection(t *testing.T) {
	raw := systemHeader +
		"Jan 10 10:00:01 host kernel: myapp[777]: segfault at 0000 ip 00007f\n" +
		"Jan 10 10:00:02 host kernel: EXT4-fs error (device sda1)\n" +
		"Jan 10 10:00:03 host systemd[1]: nginx.service: Failed with result 'exit-code'\n" +
		"Jan 10 10:00:04 host systemd[1]: mysql stopped unexpectedly\n"

	rec := ExtractLogRecord(raw)

	assert.Equal(t, 1, rec.Segfaults)
	assert.Equal(t, 1, rec.KernelErrors)
	assert.Equal(t, 1, rec.ServiceRestarts)
	assert.Contains(t, rec.ServiceErrors, "nginx")
}

func TestExtractLogRecordServiceNamesDedupedSorted(t *testing.T) {
	raw := systemHeader +
		"systemd[1]: nginx.service: Failed with result 'exit-code'\n" +
		"systemd[1]: nginx.service: Failed with result 'exit-code'\n" +
		"error: mysql connection refused\n" +
		"apache2 reported an error in worker pool\n"

	rec := ExtractLogRecord(raw)

	assert.Equal(t, []string{"apache2", "mysql", "nginx"}, rec.ServiceErrors)
}

func TestExtractLogRecordUnknownServiceIgnored(t *testing.T) {
	// Allow-list extraction must not pick up arbitrary tokens.
	raw := systemHeader +
		"error: frobnicator daemon exploded\n"

	rec := ExtractLogRecord(raw)

	assert.Empty(t, rec.ServiceErrors)
}

func TestExtractLogRecordSectionScoping(t *testing.T) {
	// Segfault keyword in the auth section must not count; lines before any
	// header are ignored entirely.
	raw := "host kernel: segfault at 0000\n" +
		authHeader +
		"host app: segfault at 0000\n" +
		systemHeader +
		"host kernel: segfault at 0000\n"

	rec := ExtractLogRecord(raw)

	assert.Equal(t, 1, rec.Segfaults)
}

func TestExtractLogRecordCaseInsensitive(t *testing.T) {
	raw := authHeader +
		"Jan 10 10:00:01 host sshd[1]: FAILED PASSWORD for invalid user admin\n"

	rec := ExtractLogRecord(raw)

	assert.Equal(t, 1, rec.FailedSSHLogins)
}

func TestExtractLogRecordIdempotent(t *testing.T) {
	raw := authHeader +
		"Failed password for root\n" +
		systemHeader +
		"nginx.service: Failed with result 'exit-code'\n" +
		"kernel: I/O error on sda\n"

	first := ExtractLogRecord(raw)
	second := ExtractLogRecord(raw)

	assert.Equal(t, first, second)
}
