// Package cmd implements the gopurge CLI.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/3leaps/gopurge/internal/config"
	"github.com/3leaps/gopurge/internal/observability"
)

// Version is stamped at build time.
var Version = "dev"

var (
	flagLogLevel   string
	flagLogProfile string
)

var rootCmd = &cobra.Command{
	Use:   "gopurge",
	Short: "CDN cache invalidation with encrypted credential storage",
	Long: `gopurge manages CloudFront cache invalidation for CMS-like hosts:
it stores API credentials encrypted at rest, resolves the effective
credentials under a strict precedence, and builds deduplicated,
size-bounded invalidation requests.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		overrides := map[string]any{}
		logging := map[string]any{}
		if flagLogLevel != "" {
			logging["level"] = flagLogLevel
		}
		if flagLogProfile != "" {
			logging["profile"] = flagLogProfile
		}
		if len(logging) > 0 {
			overrides["logging"] = logging
		}

		cfg, err := config.Load(cmd.Context(), overrides)
		if err != nil {
			return err
		}
		return observability.InitCLILogger(cfg.Logging.Level, cfg.Logging.Profile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogProfile, "log-profile", "", "Log profile (STRUCTURED, CONSOLE)")
	rootCmd.Version = Version
}

// Execute runs the CLI.
func Execute() error {
	defer observability.Sync()
	return rootCmd.Execute()
}
