package baseline

import (
	"sort"
	"time"
)

// ChangeType tags one kind of detected drift.
type ChangeType string

const (
	ChangeResourceSpike   ChangeType = "resource_spike"
	ChangeDiskGrowth      ChangeType = "disk_growth"
	ChangeNewServices     ChangeType = "new_services"
	ChangeRemovedServices ChangeType = "removed_services"
	ChangeUserCount       ChangeType = "user_count_change"
)

// Thresholds for drift detection. Resource spikes are symmetric; disk drift
// only reports growth, since disk usage normally only grows.
const (
	resourceSpikeDelta = 10
	diskGrowthDelta    = 5
)

// Change is one typed difference between the current state and a baseline.
type Change struct {
	Type     ChangeType `json:"type"`
	Metric   string     `json:"metric,omitempty"`
	Baseline float64    `json:"baseline,omitempty"`
	Current  float64    `json:"current,omitempty"`
	Delta    float64    `json:"change,omitempty"`
	Services []string   `json:"services,omitempty"`
}

// DriftReport is the result of diffing current state against one baseline.
// Changes appear in a fixed order (CPU, memory, disk, new services, removed
// services, user count) regardless of which ones fired.
type DriftReport struct {
	BaselineName      string    `json:"baseline_name"`
	BaselineTimestamp time.Time `json:"baseline_timestamp"`
	ComparedAt        time.Time `json:"comparison_timestamp"`
	Changes           []Change  `json:"changes"`
}

// Compare loads the named baseline and diffs the current state against it.
// A missing name returns ErrNotFound (wrapped with the name) and no report.
func (s *Store) Compare(current State, baselineName string) (*DriftReport, error) {
	snap, err := s.Load(baselineName)
	if err != nil {
		return nil, err
	}
	return Diff(current, snap), nil
}

// Diff computes the typed change list between current state and a loaded
// baseline snapshot.
func Diff(current State, snap *Snapshot) *DriftReport {
	report := &DriftReport{
		BaselineName:      snap.Name,
		BaselineTimestamp: snap.Timestamp,
		ComparedAt:        time.Now(),
		Changes:           []Change{},
	}

	if c, ok := resourceSpike("CPU", snap.System.CPU.UsagePercent, current.Health.CPU.UsagePercent); ok {
		report.Changes = append(report.Changes, c)
	}
	if c, ok := resourceSpike("Memory", snap.System.Memory.UsagePercent, current.Health.Memory.UsagePercent); ok {
		report.Changes = append(report.Changes, c)
	}

	baseDisk := snap.System.Disk.UsagePercent
	curDisk := current.Health.Disk.UsagePercent
	if curDisk > baseDisk+diskGrowthDelta {
		report.Changes = append(report.Changes, Change{
			Type:     ChangeDiskGrowth,
			Metric:   "Disk",
			Baseline: float64(baseDisk),
			Current:  float64(curDisk),
			Delta:    float64(curDisk - baseDisk),
		})
	}

	added, removed := diffServiceSets(current.Services.ActiveServices, snap.Services.ActiveServices)
	if len(added) > 0 {
		report.Changes = append(report.Changes, Change{Type: ChangeNewServices, Services: added})
	}
	if len(removed) > 0 {
		report.Changes = append(report.Changes, Change{Type: ChangeRemovedServices, Services: removed})
	}

	if current.Users.LoggedInCount != snap.Users.LoggedInCount {
		report.Changes = append(report.Changes, Change{
			Type:     ChangeUserCount,
			Baseline: float64(snap.Users.LoggedInCount),
			Current:  float64(current.Users.LoggedInCount),
			Delta:    float64(current.Users.LoggedInCount - snap.Users.LoggedInCount),
		})
	}

	return report
}

func resourceSpike(metric string, baseline, current float64) (Change, bool) {
	delta := current - baseline
	if delta > resourceSpikeDelta || delta < -resourceSpikeDelta {
		return Change{
			Type:     ChangeResourceSpike,
			Metric:   metric,
			Baseline: baseline,
			Current:  current,
			Delta:    delta,
		}, true
	}
	return Change{}, false
}

// diffServiceSets returns (current - baseline, baseline - current), both
// sorted for deterministic output.
func diffServiceSets(current, baseline []string) (added, removed []string) {
	curSet := toSet(current)
	baseSet := toSet(baseline)

	for name := range curSet {
		if _, ok := baseSet[name]; !ok {
			added = append(added, name)
		}
	}
	for name := range baseSet {
		if _, ok := curSet[name]; !ok {
			removed = append(removed, name)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		set[n] = struct{}{}
	}
	return set
}
