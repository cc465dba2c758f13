package collect

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/user/servaudit/pkg/engine"
)

const mb = 1024 * 1024

// Health gathers the CPU/memory/disk snapshot. Individual probe failures are
// logged at warn level and leave that section at its zero value; the audit
// proceeds with whatever was collected.
func Health(ctx context.Context) engine.MetricSnapshot {
	var snap engine.MetricSnapshot

	if pcts, err := cpu.PercentWithContext(ctx, 0, false); err != nil {
		log.Warn().Err(err).Msg("could not read CPU usage")
	} else if len(pcts) > 0 {
		snap.CPU.UsagePercent = pcts[0]
	}
	if avg, err := load.AvgWithContext(ctx); err != nil {
		log.Warn().Err(err).Msg("could not read load average")
	} else {
		snap.CPU.Load1Min = avg.Load1
	}
	if cores, err := cpu.CountsWithContext(ctx, true); err != nil {
		log.Warn().Err(err).Msg("could not read core count")
	} else {
		snap.CPU.Cores = cores
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		log.Warn().Err(err).Msg("could not read memory usage")
	} else {
		snap.Memory.UsagePercent = vm.UsedPercent
		snap.Memory.UsedMB = int(vm.Used / mb)
		snap.Memory.TotalMB = int(vm.Total / mb)
	}

	if usage, err := disk.UsageWithContext(ctx, "/"); err != nil {
		log.Warn().Err(err).Msg("could not read disk usage")
	} else {
		snap.Disk.UsagePercent = int(usage.UsedPercent)
		snap.Disk.Used = humanSize(usage.Used)
		snap.Disk.Total = humanSize(usage.Total)
	}

	return snap
}

func humanSize(bytes uint64) string {
	const gb = 1024 * 1024 * 1024
	if bytes >= gb {
		return fmt.Sprintf("%.1fG", float64(bytes)/gb)
	}
	return fmt.Sprintf("%dM", bytes/mb)
}
