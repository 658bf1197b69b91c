// Package credentials resolves the effective API credentials for
// invalidation requests under a strict precedence: deployment override
// constant, then process environment, then the encrypted stored value.
package credentials

import (
	"os"

	"github.com/3leaps/gopurge/pkg/secretbox"
	"github.com/3leaps/gopurge/pkg/settings"
)

// Names checked during resolution. Overrides are deployment-level pins that
// beat everything else; the environment names are the standard AWS ones so
// a deployment already configured for the SDK keeps working.
const (
	OverrideAccessKey = "GOPURGE_AWS_ACCESS_KEY_ID"
	OverrideSecretKey = "GOPURGE_AWS_SECRET_ACCESS_KEY"

	EnvAccessKey = "AWS_ACCESS_KEY_ID"
	EnvSecretKey = "AWS_SECRET_ACCESS_KEY"
)

// Resolved is an ephemeral credential pair. It is computed per request and
// never persisted.
type Resolved struct {
	AccessKeyID     string
	SecretAccessKey string
}

// Lookup returns the value for a name and whether it was set. It mirrors
// os.LookupEnv so the environment can back either tier directly.
type Lookup func(name string) (string, bool)

// Resolver resolves credentials from overrides, the environment, and
// encrypted settings fields.
type Resolver struct {
	overrides Lookup
	env       Lookup
	box       *secretbox.Box
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithOverrides supplies the deployment-constant tier. Without it the
// override tier is empty and resolution starts at the environment.
func WithOverrides(l Lookup) Option {
	return func(r *Resolver) {
		r.overrides = l
	}
}

// WithEnv replaces the process environment lookup, for tests.
func WithEnv(l Lookup) Option {
	return func(r *Resolver) {
		r.env = l
	}
}

// NewResolver creates a resolver that decrypts stored ciphertext with the
// given box.
func NewResolver(box *secretbox.Box, opts ...Option) *Resolver {
	r := &Resolver{
		overrides: func(string) (string, bool) { return "", false },
		env:       os.LookupEnv,
		box:       box,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveValue returns the first non-empty hit among the named override,
// the named environment variable, and the decrypted ciphertext. A tier
// that is set but empty falls through to the next one; a ciphertext that
// fails to decrypt resolves as absent rather than as an error.
func (r *Resolver) ResolveValue(overrideName, envName, ciphertext string) (string, bool) {
	if v, ok := r.overrides(overrideName); ok && v != "" {
		return v, true
	}
	if v, ok := r.env(envName); ok && v != "" {
		return v, true
	}
	if ciphertext != "" {
		if v, err := r.box.Decrypt(ciphertext); err == nil && v != "" {
			return v, true
		}
	}
	return "", false
}

// ResolveCredentials resolves the access key and secret key independently
// and returns a pair only when both resolve. Partial credentials are never
// returned.
func (r *Resolver) ResolveCredentials(s *settings.Settings) (*Resolved, bool) {
	access, ok := r.ResolveValue(OverrideAccessKey, EnvAccessKey, s.AccessKeyEnc)
	if !ok {
		return nil, false
	}
	secret, ok := r.ResolveValue(OverrideSecretKey, EnvSecretKey, s.SecretKeyEnc)
	if !ok {
		return nil, false
	}
	return &Resolved{AccessKeyID: access, SecretAccessKey: secret}, true
}

// IsAmbientMode reports whether the settings select ambient (role-based)
// credentials.
func (r *Resolver) IsAmbientMode(s *settings.Settings) bool {
	return s.AmbientMode()
}
