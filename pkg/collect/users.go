package collect

import (
	"context"
	"sort"
	"strings"

	"github.com/user/servaudit/pkg/engine"
)

// UsersAndServices collects the logged-in user count and the active service
// list. Either probe failing leaves its half of the result at zero values.
func UsersAndServices(ctx context.Context) (engine.UsersSnapshot, engine.ServicesSnapshot) {
	users := ParseWhoOutput(runCommand(ctx, "who"))

	out := runCommand(ctx, "systemctl", "list-units", "--type=service", "--state=running", "--no-legend", "--plain")
	services := ParseRunningServices(out)

	return users, services
}

// ParseWhoOutput turns `who` output into the users snapshot. Each line is one
// session; the first field is the user name.
func ParseWhoOutput(out string) engine.UsersSnapshot {
	var snap engine.UsersSnapshot
	seen := make(map[string]struct{})
	var names []string

	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		snap.LoggedInCount++
		if _, dup := seen[fields[0]]; !dup {
			seen[fields[0]] = struct{}{}
			names = append(names, fields[0])
		}
	}

	if len(names) > 0 {
		snap.LoggedInUsers = strings.Join(names, ",")
	}
	return snap
}

// ParseRunningServices extracts unit names from `systemctl list-units`
// output, stripping the ".service" suffix and sorting for determinism.
func ParseRunningServices(out string) engine.ServicesSnapshot {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		unit := fields[0]
		if !strings.HasSuffix(unit, ".service") {
			continue
		}
		names = append(names, strings.TrimSuffix(unit, ".service"))
	}
	sort.Strings(names)

	return engine.ServicesSnapshot{
		ActiveCount:    len(names),
		ActiveServices: names,
	}
}
