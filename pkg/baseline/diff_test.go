package baseline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/servaudit/pkg/engine"
)

func snapshotWith(cpu, mem float64, disk int, services []string, users int) *Snapshot {
	return &Snapshot{
		Timestamp: time.Now().Add(-time.Hour),
		Name:      "base",
		System: SnapshotSystem{
			CPU:    engine.CPUMetrics{UsagePercent: cpu},
			Memory: engine.MemoryMetrics{UsagePercent: mem},
			Disk:   engine.DiskMetrics{UsagePercent: disk},
		},
		Services: SnapshotServices{ActiveCount: len(services), ActiveServices: services},
		Users:    SnapshotUsers{LoggedInCount: users},
	}
}

func stateWith(cpu, mem float64, disk int, services []string, users int) State {
	return State{
		Health: engine.MetricSnapshot{
			CPU:    engine.CPUMetrics{UsagePercent: cpu},
			Memory: engine.MemoryMetrics{UsagePercent: mem},
			Disk:   engine.DiskMetrics{UsagePercent: disk},
		},
		Services: engine.ServicesSnapshot{ActiveCount: len(services), ActiveServices: services},
		Users:    engine.UsersSnapshot{LoggedInCount: users},
	}
}

func TestDiffNoDrift(t *testing.T) {
	snap := snapshotWith(50, 50, 50, []string{"nginx"}, 1)
	report := Diff(stateWith(55, 45, 52, []string{"nginx"}, 1), snap)

	require.NotNil(t, report.Changes)
	assert.Empty(t, report.Changes)
	assert.Equal(t, "base", report.BaselineName)
}

func TestDiffResourceSpikeSymmetric(t *testing.T) {
	snap := snapshotWith(50, 50, 50, nil, 0)

	// Rise above the threshold.
	report := Diff(stateWith(61, 50, 50, nil, 0), snap)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, ChangeResourceSpike, report.Changes[0].Type)
	assert.Equal(t, "CPU", report.Changes[0].Metric)
	assert.Equal(t, 11.0, report.Changes[0].Delta)

	// A drop of the same magnitude also counts.
	report = Diff(stateWith(39, 50, 50, nil, 0), snap)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, -11.0, report.Changes[0].Delta)

	// A delta of exactly 10 does not.
	report = Diff(stateWith(60, 50, 50, nil, 0), snap)
	assert.Empty(t, report.Changes)
}

func TestDiffDiskGrowthOnly(t *testing.T) {
	snap := snapshotWith(50, 50, 80, nil, 0)

	// Shrinking disk usage is never drift.
	report := Diff(stateWith(50, 50, 70, nil, 0), snap)
	assert.Empty(t, report.Changes)

	// Growth beyond the threshold is.
	report = Diff(stateWith(50, 50, 86, nil, 0), snap)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, ChangeDiskGrowth, report.Changes[0].Type)
	assert.Equal(t, 6.0, report.Changes[0].Delta)

	// Growth of exactly the threshold is not.
	report = Diff(stateWith(50, 50, 85, nil, 0), snap)
	assert.Empty(t, report.Changes)
}

func TestDiffServiceSets(t *testing.T) {
	snap := snapshotWith(50, 50, 50, []string{"nginx", "mysql", "cron"}, 0)
	report := Diff(stateWith(50, 50, 50, []string{"nginx", "redis", "apache2"}, 0), snap)

	require.Len(t, report.Changes, 2)
	assert.Equal(t, ChangeNewServices, report.Changes[0].Type)
	assert.Equal(t, []string{"apache2", "redis"}, report.Changes[0].Services)
	assert.Equal(t, ChangeRemovedServices, report.Changes[1].Type)
	assert.Equal(t, []string{"cron", "mysql"}, report.Changes[1].Services)
}

func TestDiffUserCountExact(t *testing.T) {
	snap := snapshotWith(50, 50, 50, nil, 2)

	report := Diff(stateWith(50, 50, 50, nil, 3), snap)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, ChangeUserCount, report.Changes[0].Type)
	assert.Equal(t, 2.0, report.Changes[0].Baseline)
	assert.Equal(t, 3.0, report.Changes[0].Current)

	report = Diff(stateWith(50, 50, 50, nil, 2), snap)
	assert.Empty(t, report.Changes)
}

func TestDiffChangeOrderFixed(t *testing.T) {
	snap := snapshotWith(20, 20, 50, []string{"old"}, 1)
	report := Diff(stateWith(90, 90, 80, []string{"new"}, 5), snap)

	require.Len(t, report.Changes, 6)
	assert.Equal(t, ChangeResourceSpike, report.Changes[0].Type)
	assert.Equal(t, "CPU", report.Changes[0].Metric)
	assert.Equal(t, ChangeResourceSpike, report.Changes[1].Type)
	assert.Equal(t, "Memory", report.Changes[1].Metric)
	assert.Equal(t, ChangeDiskGrowth, report.Changes[2].Type)
	assert.Equal(t, ChangeNewServices, report.Changes[3].Type)
	assert.Equal(t, ChangeRemovedServices, report.Changes[4].Type)
	assert.Equal(t, ChangeUserCount, report.Changes[5].Type)
}

func TestDiffIgnoresEmptyServiceNames(t *testing.T) {
	snap := snapshotWith(50, 50, 50, []string{"nginx", ""}, 0)
	report := Diff(stateWith(50, 50, 50, []string{"nginx"}, 0), snap)

	assert.Empty(t, report.Changes)
}
