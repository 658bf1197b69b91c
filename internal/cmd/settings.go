package cmd

import (
	"strings"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3leaps/gopurge/internal/config"
	"github.com/3leaps/gopurge/internal/observability"
	"github.com/3leaps/gopurge/pkg/settings"
)

var (
	setIAMRole        bool
	setAccessKey      string
	setSecretKey      string
	setRegion         string
	setDistributionID string
	setPaths          []string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and update stored invalidation settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored settings (secrets elided)",
	Run:   runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Validate and apply settings changes",
	Long: `Validate and apply settings changes. Only flags you pass are
evaluated; everything else keeps its stored value. Credentials are
encrypted before they touch disk.

Examples:
  gopurge settings set --distribution-id E2EXAMPLE12345 --region eu-west-2
  gopurge settings set --access-key AKIA... --secret-key ...
  gopurge settings set --iam-role`,
	Run: runSettingsSet,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)

	settingsSetCmd.Flags().BoolVar(&setIAMRole, "iam-role", false, "Use the ambient instance role instead of stored credentials")
	settingsSetCmd.Flags().StringVar(&setAccessKey, "access-key", "", "API access key (stored encrypted)")
	settingsSetCmd.Flags().StringVar(&setSecretKey, "secret-key", "", "API secret key (stored encrypted)")
	settingsSetCmd.Flags().StringVar(&setRegion, "region", "", "API region, e.g. us-east-1")
	settingsSetCmd.Flags().StringVar(&setDistributionID, "distribution-id", "", "Distribution ID (13-14 uppercase alphanumerics)")
	settingsSetCmd.Flags().StringArrayVar(&setPaths, "default-path", nil, "Default invalidation path (repeatable)")
}

func runSettingsShow(cmd *cobra.Command, args []string) {
	logger := observability.CLILogger
	core := buildCore(config.GetConfig())

	current, err := core.store.Load()
	if err != nil {
		ExitWithCode(logger, foundry.ExitFileReadError, "failed to load settings", err)
	}

	logger.Info("stored settings",
		zap.String("file", core.store.Path()),
		zap.Bool("use_iam_role", current.AmbientMode()),
		zap.Bool("credentials_stored", current.CredentialsStored),
		zap.String("aws_region", current.Region),
		zap.String("distribution_id", current.DistributionID),
		zap.Strings("invalidation_paths", current.InvalidationPaths))
}

func runSettingsSet(cmd *cobra.Command, args []string) {
	logger := observability.CLILogger
	core := buildCore(config.GetConfig())

	current, err := core.store.Load()
	if err != nil {
		ExitWithCode(logger, foundry.ExitFileReadError, "failed to load settings", err)
	}

	in := settings.Input{UseIAMRole: currentOrFlagIAM(cmd, current)}
	if cmd.Flags().Changed("access-key") {
		in.AccessKey = &setAccessKey
	}
	if cmd.Flags().Changed("secret-key") {
		in.SecretKey = &setSecretKey
	}
	if cmd.Flags().Changed("region") {
		in.Region = &setRegion
	}
	if cmd.Flags().Changed("distribution-id") {
		in.DistributionID = &setDistributionID
	}
	if cmd.Flags().Changed("default-path") {
		joined := strings.Join(setPaths, "\n")
		in.Paths = &joined
	}

	// The local CLI is a secure channel: nothing crosses the network.
	updated, fieldErrs := core.validator.Validate(current, in, true)

	for _, fe := range fieldErrs {
		logger.Warn("field rejected, previous value retained",
			zap.String("code", string(fe.Code)),
			zap.String("field", fe.Field),
			zap.String("reason", fe.Message))
	}

	if err := core.store.Save(updated); err != nil {
		ExitWithCode(logger, foundry.ExitFileWriteError, "failed to persist settings", err)
	}

	logger.Info("settings saved",
		zap.String("file", core.store.Path()),
		zap.Int("rejected_fields", len(fieldErrs)))
}

// currentOrFlagIAM preserves the stored toggle unless --iam-role was
// passed. The HTTP form keeps strict checkbox semantics; on the CLI an
// omitted flag means "unchanged", which is what operators expect.
func currentOrFlagIAM(cmd *cobra.Command, current *settings.Settings) bool {
	if cmd.Flags().Changed("iam-role") {
		return setIAMRole
	}
	return current.AmbientMode()
}
