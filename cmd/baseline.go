package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/user/servaudit/pkg/baseline"
	"github.com/user/servaudit/pkg/collect"
	"github.com/user/servaudit/pkg/config"
)

var baselineDirFlag string

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Save, list, and compare baseline snapshots",
}

var baselineSaveCmd = &cobra.Command{
	Use:   "save [name]",
	Short: "Capture the current system state as a named baseline",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}

		store, err := openStore()
		if err != nil {
			log.Error().Err(err).Msg("could not open baseline store")
			return
		}

		snap, err := store.Save(captureState(context.Background()), name)
		if err != nil {
			log.Error().Err(err).Msg("could not save baseline")
			return
		}
		fmt.Printf("Baseline saved: %s (%s)\n", snap.Name, snap.Timestamp.Format("2006-01-02 15:04:05"))
	},
}

var baselineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved baselines",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			log.Error().Err(err).Msg("could not open baseline store")
			return
		}

		names, err := store.List()
		if err != nil {
			log.Error().Err(err).Msg("could not list baselines")
			return
		}
		if len(names) == 0 {
			fmt.Println("No baselines saved yet. Run 'servaudit baseline save' first.")
			return
		}
		for _, n := range names {
			fmt.Println(n)
		}
	},
}

var baselineCompareCmd = &cobra.Command{
	Use:   "compare <name>",
	Short: "Compare the current system state against a saved baseline",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			log.Error().Err(err).Msg("could not open baseline store")
			return
		}

		drift, err := store.Compare(captureState(context.Background()), args[0])
		if errors.Is(err, baseline.ErrNotFound) {
			fmt.Printf("Baseline '%s' not found. Use 'servaudit baseline list' to see saved names.\n", args[0])
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("comparison failed")
			return
		}

		fmt.Print(renderDrift(drift))
	},
}

func openStore() (*baseline.Store, error) {
	dir := baselineDirFlag
	if dir == "" {
		if cfg, err := config.LoadConfig(); err == nil && cfg.BaselineDir != "" {
			dir = cfg.BaselineDir
		}
	}
	return baseline.NewStore(dir)
}

func captureState(ctx context.Context) baseline.State {
	users, services := collect.UsersAndServices(ctx)
	return baseline.State{
		Health:   collect.Health(ctx),
		Services: services,
		Users:    users,
		Security: collect.SSHConfig(),
	}
}

func renderDrift(d *baseline.DriftReport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Drift Comparison (vs %s):\n", d.BaselineName))
	sb.WriteString(strings.Repeat("-", 50) + "\n")
	sb.WriteString(fmt.Sprintf("Baseline taken: %s\n", d.BaselineTimestamp.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Compared at:    %s\n\n", d.ComparedAt.Format("2006-01-02 15:04:05")))

	if len(d.Changes) == 0 {
		sb.WriteString("No significant drift detected.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("CHANGES: %d\n", len(d.Changes)))
	for _, c := range d.Changes {
		switch c.Type {
		case baseline.ChangeResourceSpike:
			sb.WriteString(fmt.Sprintf("  [~] %s usage moved %.1f%% -> %.1f%% (%+.1f)\n", c.Metric, c.Baseline, c.Current, c.Delta))
		case baseline.ChangeDiskGrowth:
			sb.WriteString(fmt.Sprintf("  [^] Disk usage grew %.0f%% -> %.0f%% (+%.0f)\n", c.Baseline, c.Current, c.Delta))
		case baseline.ChangeNewServices:
			sb.WriteString(fmt.Sprintf("  [+] New services: %s\n", strings.Join(c.Services, ", ")))
		case baseline.ChangeRemovedServices:
			sb.WriteString(fmt.Sprintf("  [-] Removed services: %s\n", strings.Join(c.Services, ", ")))
		case baseline.ChangeUserCount:
			sb.WriteString(fmt.Sprintf("  [~] Logged-in users changed %.0f -> %.0f\n", c.Baseline, c.Current))
		}
	}
	return sb.String()
}

func init() {
	baselineCmd.PersistentFlags().StringVar(&baselineDirFlag, "dir", "", "Baseline snapshot directory (default "+baseline.DefaultDir+")")
	baselineCmd.AddCommand(baselineSaveCmd)
	baselineCmd.AddCommand(baselineListCmd)
	baselineCmd.AddCommand(baselineCompareCmd)
	rootCmd.AddCommand(baselineCmd)
}
