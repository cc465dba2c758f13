package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreHealthThresholdsInclusive(t *testing.T) {
	cases := []struct {
		name   string
		cpu    float64
		expect Severity
		fires  bool
	}{
		{"below all tiers", 59.9, SeverityLow, false},
		{"medium at boundary", 60, SeverityMedium, true},
		{"high at boundary", 80, SeverityHigh, true},
		{"critical at boundary", 90, SeverityCritical, true},
		{"critical above", 99.5, SeverityCritical, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			findings := ScoreHealth(MetricSnapshot{CPU: CPUMetrics{UsagePercent: tc.cpu}})
			if !tc.fires {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			assert.Equal(t, tc.expect, findings[0].Severity)
			assert.Equal(t, "CPU Usage", findings[0].Metric)
		})
	}
}

func TestScoreHealthMemoryAndDiskTiers(t *testing.T) {
	findings := ScoreHealth(MetricSnapshot{
		Memory: MemoryMetrics{UsagePercent: 75},
		Disk:   DiskMetrics{UsagePercent: 85},
	})

	require.Len(t, findings, 2)
	assert.Equal(t, SeverityMedium, findings[0].Severity)
	assert.Equal(t, "Memory Usage", findings[0].Metric)
	assert.Equal(t, SeverityHigh, findings[1].Severity)
	assert.Equal(t, "Disk Usage", findings[1].Metric)
}

func TestScoreSecurity(t *testing.T) {
	findings := ScoreSecurity(SecurityConfig{RootLoginEnabled: "yes", PasswordAuthEnabled: "yes"})
	require.Len(t, findings, 2)
	assert.Equal(t, SeverityHigh, findings[0].Severity)
	assert.Equal(t, SeverityMedium, findings[1].Severity)

	// "unknown" and "no" both produce nothing.
	assert.Empty(t, ScoreSecurity(SecurityConfig{RootLoginEnabled: "unknown", PasswordAuthEnabled: "no"}))
}

func TestScoreLogsFailedLoginTiers(t *testing.T) {
	// Strict > boundaries: exactly 10 is quiet, exactly 20 is still MEDIUM.
	assert.Empty(t, ScoreLogs(LogRecord{FailedSSHLogins: 10}))

	findings := ScoreLogs(LogRecord{FailedSSHLogins: 20})
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityMedium, findings[0].Severity)

	findings = ScoreLogs(LogRecord{FailedSSHLogins: 21})
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityHigh, findings[0].Severity)
	assert.Equal(t, "Potential Brute Force Attack", findings[0].Title)
}

func TestScoreLogsSignals(t *testing.T) {
	findings := ScoreLogs(LogRecord{
		ServiceErrors: []string{"nginx"},
		KernelErrors:  2,
		Segfaults:     1,
		SudoMisuse:    6,
	})

	require.Len(t, findings, 4)
	assert.Equal(t, SeverityMedium, findings[0].Severity) // service errors
	assert.Equal(t, SeverityHigh, findings[1].Severity)   // kernel
	assert.Equal(t, SeverityHigh, findings[2].Severity)   // segfaults
	assert.Equal(t, SeverityMedium, findings[3].Severity) // sudo misuse

	// sudo_misuse needs strictly more than 5.
	assert.Empty(t, ScoreLogs(LogRecord{SudoMisuse: 5}))
}

func TestOverallSeverity(t *testing.T) {
	assert.Equal(t, SeverityLow, OverallSeverity(nil))

	findings := []Finding{
		{Severity: SeverityMedium},
		{Severity: SeverityHigh},
	}
	assert.Equal(t, SeverityHigh, OverallSeverity(findings))

	findings = append(findings, Finding{Severity: SeverityCritical})
	assert.Equal(t, SeverityCritical, OverallSeverity(findings))
}

func TestRiskScoreWeightsAndBonuses(t *testing.T) {
	findings := []Finding{
		{Severity: SeverityCritical}, // 30
		{Severity: SeverityHigh},     // 15
		{Severity: SeverityMedium},   // 8
		{Severity: SeverityLow},      // 2
	}
	rec := LogRecord{
		FailedSSHLogins: 3,                 // +3
		ServiceErrors:   []string{"nginx"}, // +5
		KernelErrors:    1,                 // +10
		AuthWarnings:    2,                 // +2
	}

	assert.Equal(t, 75, RiskScore(findings, rec))
}

func TestRiskScoreClampsAtHundred(t *testing.T) {
	findings := make([]Finding, 5)
	for i := range findings {
		findings[i] = Finding{Severity: SeverityCritical}
	}
	// 150 raw, clamped to exactly 100.
	assert.Equal(t, 100, RiskScore(findings, LogRecord{}))
}

func TestRiskScoreZeroOnCleanSystem(t *testing.T) {
	assert.Equal(t, 0, RiskScore(nil, LogRecord{}))
}
