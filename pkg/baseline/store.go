package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/user/servaudit/pkg/engine"
)

// DefaultDir is where snapshots live unless the operator overrides it.
const DefaultDir = ".baseline"

// ErrNotFound is returned when a comparison or load names a snapshot that
// does not exist. Callers should match it with errors.Is.
var ErrNotFound = errors.New("baseline not found")

// State is the minimal subset of a run that baselines persist and compare.
type State struct {
	Health   engine.MetricSnapshot
	Services engine.ServicesSnapshot
	Users    engine.UsersSnapshot
	Security engine.SecurityConfig
}

// Snapshot is one named, timestamped baseline record as persisted on disk.
// Immutable once written; re-saving under the same name overwrites.
type Snapshot struct {
	Timestamp time.Time        `json:"timestamp"`
	Name      string           `json:"name"`
	System    SnapshotSystem   `json:"system"`
	Services  SnapshotServices `json:"services"`
	Users     SnapshotUsers    `json:"users"`
	Security  SnapshotSecurity `json:"security"`
}

type SnapshotSystem struct {
	CPU    engine.CPUMetrics    `json:"cpu"`
	Memory engine.MemoryMetrics `json:"memory"`
	Disk   engine.DiskMetrics   `json:"disk"`
}

type SnapshotServices struct {
	ActiveCount    int      `json:"active_count"`
	ActiveServices []string `json:"active_services"`
}

type SnapshotUsers struct {
	LoggedInCount int `json:"logged_in_count"`
}

type SnapshotSecurity struct {
	SSHRootLogin    string `json:"ssh_root_login"`
	SSHPasswordAuth string `json:"ssh_password_auth"`
}

// Store persists baselines as one JSON file per snapshot in a directory.
// No locking: concurrent saves to the same name are last-writer-wins.
type Store struct {
	dir string
}

// NewStore opens (creating if needed) the snapshot directory.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating baseline dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save persists the state under the given name. An empty name derives one
// from the capture timestamp (baseline_YYYYMMDD_HHMMSS); auto-generated name
// collisions are not de-duplicated and silently overwrite.
func (s *Store) Save(state State, name string) (*Snapshot, error) {
	now := time.Now()
	if name == "" {
		name = "baseline_" + now.Format("20060102_150405")
	}

	snap := &Snapshot{
		Timestamp: now,
		Name:      name,
		System: SnapshotSystem{
			CPU:    state.Health.CPU,
			Memory: state.Health.Memory,
			Disk:   state.Health.Disk,
		},
		Services: SnapshotServices{
			ActiveCount:    state.Services.ActiveCount,
			ActiveServices: state.Services.ActiveServices,
		},
		Users: SnapshotUsers{
			LoggedInCount: state.Users.LoggedInCount,
		},
		Security: SnapshotSecurity{
			SSHRootLogin:    valueOrUnknown(state.Security.RootLoginEnabled),
			SSHPasswordAuth: valueOrUnknown(state.Security.PasswordAuthEnabled),
		},
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return nil, fmt.Errorf("writing baseline %q: %w", name, err)
	}
	return snap, nil
}

// Load reads a snapshot by name. A missing file maps to ErrNotFound; a
// corrupt file fails only this load, with the parse error wrapped.
func (s *Store) Load(name string) (*Snapshot, error) {
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing baseline %q: %w", name, err)
	}
	return &snap, nil
}

// List enumerates all persisted snapshot names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func valueOrUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
