package cmd

import (
	"os"

	"github.com/3leaps/gopurge/internal/config"
	"github.com/3leaps/gopurge/internal/observability"
	"github.com/3leaps/gopurge/pkg/credentials"
	"github.com/3leaps/gopurge/pkg/invalidation"
	"github.com/3leaps/gopurge/pkg/secretbox"
	"github.com/3leaps/gopurge/pkg/settings"
	"github.com/3leaps/gopurge/pkg/transport/cloudfront"
)

// coreDeps bundles the wired invalidation core for commands.
type coreDeps struct {
	box       *secretbox.Box
	store     *settings.FileStore
	validator *settings.Validator
	resolver  *credentials.Resolver
	builder   *invalidation.Builder
}

// buildCore wires the core components from loaded configuration.
func buildCore(cfg *config.Config) *coreDeps {
	box := secretbox.New(cfg.Security.Salts...)

	var storeOpts []settings.FileStoreOption
	if cfg.Settings.Migrate {
		storeOpts = append(storeOpts, settings.WithLegacyMigration(box))
	}
	store := settings.NewFileStore(cfg.Settings.Path, storeOpts...)

	// The deployment-constant tier reads the GOPURGE_-prefixed names from
	// the process environment; the standard AWS names stay on the second
	// tier via the resolver's default lookup.
	resolver := credentials.NewResolver(box, credentials.WithOverrides(os.LookupEnv))
	notifier := invalidation.NewLogNotifier(observability.CLILogger)

	return &coreDeps{
		box:       box,
		store:     store,
		validator: settings.NewValidator(box),
		resolver:  resolver,
		builder:   invalidation.NewBuilder(resolver, notifier),
	}
}

// newTransport creates the CloudFront submitter for the stored region.
func newTransport(s *settings.Settings) *cloudfront.Client {
	return cloudfront.New(s.EffectiveRegion())
}
