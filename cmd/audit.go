package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/user/servaudit/pkg/ai"
	"github.com/user/servaudit/pkg/collect"
	"github.com/user/servaudit/pkg/config"
	"github.com/user/servaudit/pkg/engine"
)

var (
	auditFull       bool
	auditNoAI       bool
	auditWriteFile  bool
	auditReportPath string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run a one-shot health, security, and log audit",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		report := engine.BuildReport(collectInput(ctx, auditFull))

		if !auditNoAI {
			enrich(ctx, report)
		}

		fmt.Print(report.Summary())

		if auditWriteFile {
			if err := os.WriteFile(auditReportPath, []byte(report.Markdown()), 0o644); err != nil {
				log.Error().Err(err).Str("path", auditReportPath).Msg("could not write report")
				return
			}
			log.Info().Str("path", auditReportPath).Msg("report written")
		}
	},
}

// collectInput gathers every audit data source. Each collector degrades to
// empty records on failure, so a broken source empties its report section
// instead of aborting the run.
func collectInput(ctx context.Context, includeProcesses bool) engine.AuditInput {
	log.Debug().Msg("collecting system data")

	users, services := collect.UsersAndServices(ctx)
	in := engine.AuditInput{
		Health:   collect.Health(ctx),
		SSH:      collect.SSHConfig(),
		LogText:  collect.Logs(ctx),
		Users:    users,
		Services: services,
	}
	if includeProcesses {
		in.Processes = collect.Processes(ctx)
	}
	return in
}

// enrich asks the configured LLM provider for analysis text. Every failure
// path is silent (debug-logged only); the report then renders its
// deterministic fallback instead.
func enrich(ctx context.Context, report *engine.AuditReport) {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Debug().Err(err).Msg("config unavailable, skipping AI analysis")
		return
	}

	providerName := cfg.SelectedProvider
	if providerName == "" {
		providerName = "gemini"
	}
	apiKey := resolveAPIKey(cfg, providerName)
	if apiKey == "" {
		log.Debug().Str("provider", providerName).Msg("no API key, skipping AI analysis")
		return
	}

	provider, err := ai.NewProvider(ctx, providerName, apiKey, cfg.SelectedModel)
	if err != nil {
		log.Debug().Err(err).Msg("could not initialize AI provider")
		return
	}
	if closer, ok := provider.(interface{ Close() }); ok {
		defer closer.Close()
	}

	text, err := provider.GenerateRecommendations(ctx, ai.BuildContext(report))
	if err != nil {
		log.Debug().Err(err).Msg("AI analysis failed, using fallback")
		return
	}
	report.AIAnalysis = text
}

func resolveAPIKey(cfg *config.Config, provider string) string {
	if key := cfg.GetAPIKey(provider); key != "" {
		return key
	}
	switch provider {
	case "gemini":
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GOOGLE_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return ""
}

func init() {
	auditCmd.Flags().BoolVar(&auditFull, "full", false, "Include the process snapshot (top CPU/memory consumers)")
	auditCmd.Flags().BoolVar(&auditNoAI, "no-ai", false, "Skip the AI analysis step")
	auditCmd.Flags().BoolVar(&auditWriteFile, "report", false, "Write a markdown report file")
	auditCmd.Flags().StringVar(&auditReportPath, "output", "report.md", "Report file path (with --report)")
	rootCmd.AddCommand(auditCmd)
}
