package collect

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/user/servaudit/pkg/engine"
)

const topProcessLimit = 5

// Processes captures the top CPU and memory consumers. Per-process read
// errors are skipped silently; a total failure yields empty lists.
func Processes(ctx context.Context) *engine.ProcessSnapshot {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not list processes")
		return &engine.ProcessSnapshot{}
	}

	var infos []engine.ProcessInfo
	for _, p := range procs {
		cpuPct, err := p.CPUPercentWithContext(ctx)
		if err != nil {
			continue
		}
		memPct, err := p.MemoryPercentWithContext(ctx)
		if err != nil {
			continue
		}
		user, _ := p.UsernameWithContext(ctx)
		cmd, _ := p.CmdlineWithContext(ctx)
		if cmd == "" {
			if name, err := p.NameWithContext(ctx); err == nil {
				cmd = name
			}
		}

		infos = append(infos, engine.ProcessInfo{
			User:       user,
			PID:        p.Pid,
			CPUPercent: cpuPct,
			MemPercent: float64(memPct),
			Command:    cmd,
		})
	}

	snap := &engine.ProcessSnapshot{
		TopCPU:    topBy(infos, func(p engine.ProcessInfo) float64 { return p.CPUPercent }),
		TopMemory: topBy(infos, func(p engine.ProcessInfo) float64 { return p.MemPercent }),
	}
	return snap
}

func topBy(infos []engine.ProcessInfo, key func(engine.ProcessInfo) float64) []engine.ProcessInfo {
	ranked := make([]engine.ProcessInfo, len(infos))
	copy(ranked, infos)
	sort.SliceStable(ranked, func(i, j int) bool { return key(ranked[i]) > key(ranked[j]) })
	if len(ranked) > topProcessLimit {
		ranked = ranked[:topProcessLimit]
	}
	return ranked
}
