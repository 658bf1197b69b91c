package cmd

import (
	"bufio"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3leaps/gopurge/internal/config"
	"github.com/3leaps/gopurge/internal/observability"
	"github.com/3leaps/gopurge/pkg/validation"
)

var (
	invalidateDistribution string
	invalidatePaths        []string
	invalidatePathFile     string
	invalidateMatch        []string
	invalidateDryRun       bool
)

var invalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Build and submit a cache invalidation request",
	Long: `Build a validated, deduplicated invalidation request and submit it.

Paths come from --path flags, --path-file (one path per line), or the
configured default list when neither is given. --match narrows the
candidates with doublestar glob patterns before validation.

Examples:
  gopurge invalidate --path '/blog/*' --path /images/logo.png
  gopurge invalidate --path-file changed.txt --match 'blog/**'
  gopurge invalidate --dry-run`,
	Run: runInvalidate,
}

func init() {
	rootCmd.AddCommand(invalidateCmd)
	invalidateCmd.Flags().StringVar(&invalidateDistribution, "distribution-id", "", "Target distribution (defaults to the configured one)")
	invalidateCmd.Flags().StringArrayVar(&invalidatePaths, "path", nil, "Path to invalidate (repeatable)")
	invalidateCmd.Flags().StringVar(&invalidatePathFile, "path-file", "", "File with one path per line")
	invalidateCmd.Flags().StringArrayVar(&invalidateMatch, "match", nil, "Glob pattern to keep matching paths (repeatable)")
	invalidateCmd.Flags().BoolVar(&invalidateDryRun, "dry-run", false, "Build and print the request without submitting")
}

func runInvalidate(cmd *cobra.Command, args []string) {
	logger := observability.CLILogger
	cfg := config.GetConfig()
	core := buildCore(cfg)

	current, err := core.store.Load()
	if err != nil {
		ExitWithCode(logger, foundry.ExitFileReadError, "failed to load settings", err)
	}

	candidates := invalidatePaths
	if invalidatePathFile != "" {
		fromFile, err := readPathFile(invalidatePathFile)
		if err != nil {
			ExitWithCode(logger, foundry.ExitFileReadError, "failed to read path file", err)
		}
		candidates = append(candidates, fromFile...)
	}
	if len(candidates) == 0 {
		candidates = current.InvalidationPaths
	}

	if len(invalidateMatch) > 0 {
		candidates, err = validation.FilterGlob(candidates, invalidateMatch)
		if err != nil {
			ExitWithCode(logger, foundry.ExitInvalidArgument, "invalid match pattern", err)
		}
	}

	distributionID := invalidateDistribution
	if distributionID == "" {
		distributionID = current.DistributionID
	}

	raw := make([]any, len(candidates))
	for i, p := range candidates {
		raw[i] = p
	}

	req, verr := core.builder.Build(current, distributionID, raw)
	if verr != nil {
		ExitWithCode(logger, foundry.ExitInvalidArgument, "invalid invalidation request", verr)
	}

	if invalidateDryRun {
		logger.Info("dry run: request not submitted",
			zap.String("distribution_id", req.DistributionID),
			zap.String("caller_reference", req.CallerReference),
			zap.String("auth_mode", string(req.AuthMode)),
			zap.Strings("paths", req.Paths))
		return
	}

	id, err := newTransport(current).Submit(cmd.Context(), req)
	if err != nil {
		core.builder.ReportFailure(req, err)
		ExitWithCode(logger, foundry.ExitExternalServiceUnavailable, "invalidation submission failed", err)
	}

	logger.Info("invalidation submitted",
		zap.String("invalidation_id", id),
		zap.String("distribution_id", req.DistributionID),
		zap.String("caller_reference", req.CallerReference),
		zap.Int("path_count", len(req.Paths)))
}

// readPathFile reads one path per line, skipping blanks and # comments.
func readPathFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		paths = append(paths, line)
	}
	return paths, scanner.Err()
}
